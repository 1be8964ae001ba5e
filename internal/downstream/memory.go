// Package downstream provides an in-process stand-in for the internal
// coherence protocol's home node: a line-addressable memory that answers
// the bridge's Requests with the Data/Response traffic a real downstream
// would emit. The CLI and end-to-end tests wire it in so a full
// inject -> translate -> reply -> reassemble loop runs without any
// external simulator.
package downstream

import (
	"github.com/ardent-systems/chitlm/internal/bridgeerr"
	"github.com/ardent-systems/chitlm/internal/logger"
	"github.com/ardent-systems/chitlm/internal/protocol/chi"
	"github.com/ardent-systems/chitlm/internal/protocol/coherence"
	"github.com/ardent-systems/chitlm/internal/sim"
)

// Receiver is the controller surface the memory model delivers replies
// into: the bridge's downstream receive callbacks.
type Receiver interface {
	RecvData(msg coherence.Data)
	RecvResponse(msg coherence.Response)
}

// Memory is a line-granular backing store implementing bridge.Downstream.
// Replies are scheduled Latency ticks after the request, preserving the
// cooperative single-threaded model: nothing is delivered re-entrantly
// from inside a send.
type Memory struct {
	sched    *sim.Scheduler
	receiver Receiver

	// Latency is the tick delay between a request and its first reply.
	Latency uint64

	lines map[uint64][]byte
}

// NewMemory creates a Memory delivering replies on sched.
func NewMemory(sched *sim.Scheduler, latency uint64) *Memory {
	return &Memory{
		sched:   sched,
		Latency: latency,
		lines:   make(map[uint64][]byte),
	}
}

// Bind wires the receiver (the bridge controller). Separate from
// construction because the controller needs the Downstream first.
func (m *Memory) Bind(r Receiver) { m.receiver = r }

// line returns the backing line buffer for a line-aligned address,
// allocating zeroes on first touch.
func (m *Memory) line(addr uint64) []byte {
	l, ok := m.lines[addr]
	if !ok {
		l = make([]byte, chi.LineSizeBytes)
		m.lines[addr] = l
	}
	return l
}

// Peek returns a copy of the line at the given (line-aligned) address,
// or zeroes if never written. Test helper.
func (m *Memory) Peek(addr uint64) []byte {
	out := make([]byte, chi.LineSizeBytes)
	copy(out, m.line(chi.LineAddress(addr)))
	return out
}

// Poke overwrites the line at the given (line-aligned) address. Test and
// scenario-setup helper.
func (m *Memory) Poke(addr uint64, data []byte) {
	copy(m.line(chi.LineAddress(addr)), data)
}

// SendRequest implements bridge.Downstream: it schedules the reply
// traffic the request's class calls for.
func (m *Memory) SendRequest(msg coherence.Request) {
	switch {
	case isReadType(msg.Type):
		m.scheduleReadReply(msg)
	case isWriteType(msg.Type):
		m.scheduleWriteReply(msg)
	case isDatalessType(msg.Type):
		m.scheduleCompReply(msg)
	default:
		panic(bridgeerr.NewUnsupportedOpcodeError("memory downstream", msg.Type.String()))
	}
}

// SendData implements bridge.Downstream: write-data beats land in the
// backing line, gated by the bit mask.
func (m *Memory) SendData(msg coherence.Data) {
	l := m.line(chi.LineAddress(msg.Addr))
	for b := 0; b < len(l) && b < len(msg.DataBlk); b++ {
		if msg.BitMask&(1<<uint(b)) != 0 {
			l[b] = msg.DataBlk[b]
		}
	}
}

// SendResponse implements bridge.Downstream. The only response the
// bridge originates is CompAck, which a memory home node consumes
// silently.
func (m *Memory) SendResponse(msg coherence.Response) {
	logger.Debug("memory downstream consumed response",
		logger.TxnID(msg.TxnID), logger.Opcode(msg.Type.String()))
}

func (m *Memory) scheduleReadReply(req coherence.Request) {
	addr := chi.LineAddress(req.Addr)
	beats := chi.DataMsgsPerLine()
	beatBytes := chi.BeatSizeBytes

	for i := 0; i < beats; i++ {
		i := i
		m.sched.ScheduleAt(m.sched.Now()+m.Latency+uint64(i), func() {
			blk := make([]byte, chi.LineSizeBytes)
			copy(blk, m.line(addr))
			m.receiver.RecvData(coherence.Data{
				Addr:    addr,
				Type:    coherence.TypeCompDataUC,
				TxnID:   req.TxnID,
				DataBlk: blk,
				BitMask: beatWindow(i, beatBytes),
			})
		})
	}
}

func (m *Memory) scheduleWriteReply(req coherence.Request) {
	if req.Type == coherence.TypeWriteUniqueZero {
		addr := chi.LineAddress(req.Addr)
		clear(m.line(addr))
	}
	m.sched.ScheduleAt(m.sched.Now()+m.Latency, func() {
		m.receiver.RecvResponse(coherence.Response{
			Type:  coherence.TypeCompDBIDResp,
			TxnID: req.TxnID,
			DBID:  uint32(req.TxnID % 1024),
		})
	})
}

func (m *Memory) scheduleCompReply(req coherence.Request) {
	m.sched.ScheduleAt(m.sched.Now()+m.Latency, func() {
		m.receiver.RecvResponse(coherence.Response{
			Type:  coherence.TypeCompI,
			TxnID: req.TxnID,
		})
	})
}

// beatWindow returns the bit mask covering beat i of a line.
func beatWindow(i, beatBytes int) uint64 {
	if beatBytes >= 64 {
		return ^uint64(0)
	}
	return ((uint64(1) << uint(beatBytes)) - 1) << uint(i*beatBytes)
}

func isReadType(t coherence.Type) bool {
	switch t {
	case coherence.TypeReadShared, coherence.TypeReadOnce, coherence.TypeReadNoSnp,
		coherence.TypeReadUnique, coherence.TypeReadNotSharedDirty, coherence.TypeMakeReadUnique:
		return true
	default:
		return false
	}
}

func isWriteType(t coherence.Type) bool {
	switch t {
	case coherence.TypeWriteUniquePtl, coherence.TypeWriteUniqueFull,
		coherence.TypeWriteUniqueZero, coherence.TypeWriteBackFull, coherence.TypeWriteEvictFull:
		return true
	default:
		return false
	}
}

func isDatalessType(t coherence.Type) bool {
	switch t {
	case coherence.TypeCleanUnique, coherence.TypeEvict,
		coherence.TypeStashOnceShared, coherence.TypeStashOnceUnique:
		return true
	default:
		return false
	}
}
