package chi

import "sync/atomic"

// LineSizeBytes is the coherence granule this bridge operates at. It is a
// package variable rather than a hard constant so tests can exercise the
// common 64-byte line without wiring a full config load; production
// callers should set it once at startup from pkg/config before touching
// the bridge.
var LineSizeBytes = 64

// BeatSizeBytes is the width of a single DAT-channel beat. A 64-byte line
// at the default 32-byte beat width transfers as two beats.
var BeatSizeBytes = 32

// BusWidthBits is the data-bus width DataID's address-bit slicing is
// qualified by. Derived from BeatSizeBytes by convention (one beat
// per bus cycle), but kept as its own variable since DataID's table is
// keyed on bus width, not beat size, and a caller may want to vary them
// independently in tests.
var BusWidthBits = BeatSizeBytes * 8

// DataMsgsPerLine returns the number of Data beats a full cache line is
// split across, given the current LineSizeBytes/BeatSizeBytes.
func DataMsgsPerLine() int {
	if BeatSizeBytes <= 0 {
		return 1
	}
	return LineSizeBytes / BeatSizeBytes
}

// Payload is the reference-counted value shared by the caller, the
// controller, and the owning transaction. Go's GC makes an explicit refcount
// unnecessary for memory safety, but the release discipline still matters
// for correctness: Release must be called exactly once per reference
// obtained via Acquire, because the Data buffer backing a Payload is drawn
// from the bufpool and returned to the pool only when the last reference
// drops.
type Payload struct {
	Address    uint64
	Size       Size
	Data       []byte // sized to LineSizeBytes, backed by a pooled buffer
	ByteEnable uint64 // one bit per byte, LSB = byte 0
	LPID       uint32
	NS         bool
	MemAttr    uint8

	refs    atomic.Int32
	release func([]byte)
}

// NewPayload constructs a Payload around the caller-supplied data buffer
// with an initial reference count of one, owned by the caller. release,
// if non-nil, receives the buffer when the last reference drops.
func NewPayload(address uint64, size Size, data []byte, release func([]byte)) *Payload {
	p := &Payload{
		Address:    address,
		Size:       size,
		Data:       data,
		ByteEnable: ^uint64(0),
		release:    release,
	}
	p.refs.Store(1)
	return p
}

// Acquire adds a reference, returning p for chaining at call sites like
// `txn.payload = payload.Acquire()`.
func (p *Payload) Acquire() *Payload {
	p.refs.Add(1)
	return p
}

// Release drops a reference. When the last reference drops, the backing
// buffer is returned to the pool it came from (if any).
func (p *Payload) Release() {
	if p.refs.Add(-1) == 0 && p.release != nil {
		p.release(p.Data)
		p.Data = nil
	}
}

// LineAddress returns the line-aligned address containing addr.
func LineAddress(addr uint64) uint64 {
	return addr &^ uint64(LineSizeBytes-1)
}

// TransactionSize returns the byte count for a Size enum, capped at the
// configured line size.
func TransactionSize(s Size) int {
	return s.Bytes(LineSizeBytes)
}

// PopCount returns the number of set bits in a byte-enable mask.
func PopCount(mask uint64) int {
	n := 0
	for mask != 0 {
		mask &= mask - 1
		n++
	}
	return n
}

// Ctz returns the index of the least-significant set bit in mask, or -1
// if mask is zero.
func Ctz(mask uint64) int {
	if mask == 0 {
		return -1
	}
	n := 0
	for mask&1 == 0 {
		mask >>= 1
		n++
	}
	return n
}

// DataID computes the CHI data_id for a byte address on a bus of the
// given width in bits. It depends only on address bits [5:4] and the
// bus width.
func DataID(addr uint64, busWidthBits int) uint8 {
	bits := (addr >> 4) & 0x3
	switch {
	case busWidthBits >= 512:
		return 0
	case busWidthBits == 256:
		return uint8(bits & 0b10)
	default: // 128-bit default
		return uint8(bits)
	}
}
