// Package bufpool provides a sync.Pool-backed source of cache-line-sized
// byte buffers for Payload.Data, so that injecting and completing many
// transactions doesn't put per-transaction line buffers through the GC.
//
// Unlike a general-purpose tiered pool, every buffer here is exactly one
// size — the configured coherence line size — because that's the only
// size a Payload's Data field ever takes in this bridge.
package bufpool

import "sync"

// Pool hands out and reclaims line-sized byte buffers.
type Pool struct {
	lineSize int
	pool     sync.Pool
}

// New creates a Pool for the given line size in bytes.
func New(lineSize int) *Pool {
	p := &Pool{lineSize: lineSize}
	p.pool.New = func() any {
		buf := make([]byte, p.lineSize)
		return &buf
	}
	return p
}

// Get returns a zeroed line-sized buffer. The caller must call Put when
// done, typically via Payload.Release.
func (p *Pool) Get() []byte {
	bufPtr := p.pool.Get().(*[]byte)
	buf := *bufPtr
	clear(buf)
	return buf
}

// Put returns buf to the pool. Buffers whose capacity doesn't match the
// pool's line size are dropped rather than pooled, since they can't have
// come from Get.
func (p *Pool) Put(buf []byte) {
	if buf == nil || cap(buf) != p.lineSize {
		return
	}
	full := buf[:cap(buf)]
	p.pool.Put(&full)
}

// globalPool backs the package-level convenience functions, sized to the
// default 64-byte coherence line; bridges with a non-default line size
// should construct their own Pool via New and pass it to chi.NewPayload
// explicitly instead.
var globalPool = New(64)

// Get returns a line-sized buffer from the default global pool.
func Get() []byte { return globalPool.Get() }

// Put returns buf to the default global pool.
func Put(buf []byte) { globalPool.Put(buf) }
