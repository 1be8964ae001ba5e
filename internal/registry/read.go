package registry

import (
	"github.com/ardent-systems/chitlm/internal/logger"
	"github.com/ardent-systems/chitlm/internal/protocol/chi"
	"github.com/ardent-systems/chitlm/internal/protocol/coherence"
	"github.com/ardent-systems/chitlm/internal/translate"
)

// ReadTransaction accumulates inbound Data beats into its payload until a
// full cache line has been observed. It terminates when the beat
// count reaches dataMsgsPerLine; the completing beat may additionally ask
// the controller to synthesize a CompAck when the upstream client opted
// out of sending its own.
type ReadTransaction struct {
	base
	dataMsgCnt int
}

// NewReadTransaction creates a Read variant holding its own payload
// reference.
func NewReadTransaction(payload *chi.Payload, phase chi.Phase, lpid, txnID uint32) *ReadTransaction {
	return &ReadTransaction{base: base{
		payload: payload.Acquire(),
		phase:   phase,
		lpid:    lpid,
		txnID:   txnID,
	}}
}

func (t *ReadTransaction) Kind() Kind { return KindRead }

// DataMsgCnt returns the number of Data beats consumed so far.
func (t *ReadTransaction) DataMsgCnt() int { return t.dataMsgCnt }

// HandleData consumes one inbound Data beat.
//
// Reassembly is by bit mask, not arrival order: every byte the mask covers
// is copied into the payload's line buffer, regardless of which beat it
// arrived on. The forwarding gate then decides whether this beat is
// visible upstream; a non-forwarded beat is dropped silently but still
// counts toward termination.
func (t *ReadTransaction) HandleData(msg coherence.Data, bw BW) (Result, error) {
	t.dataMsgCnt++

	lineSize := chi.LineSizeBytes
	for b := 0; b < lineSize && b < len(msg.DataBlk); b++ {
		if msg.BitMask&(1<<uint(b)) != 0 {
			t.payload.Data[b] = msg.DataBlk[b]
		}
	}

	opcode, resp, err := translate.DataToCHI(msg.Type)
	if err != nil {
		return Result{}, err
	}

	t.phase.Channel = chi.ChannelDAT
	t.phase.DatOpcode = opcode
	t.phase.Resp = resp
	t.phase.TxnID = chi.WireTxnID(t.txnID)
	if first := chi.Ctz(msg.BitMask); first >= 0 {
		t.phase.DataID = chi.DataID(msg.Addr+uint64(first), chi.BusWidthBits)
	}

	if t.forward(msg) {
		bw(t.payload, t.phase)
	} else {
		logger.Debug("read beat outside requested window, not forwarded",
			logger.TxnID(t.txnID), logger.BeatCount(t.dataMsgCnt))
	}

	if t.dataMsgCnt == chi.DataMsgsPerLine() {
		return Result{Terminal: true, NeedsCompAck: !t.phase.ExpCompAck}, nil
	}
	return Result{}, nil
}

// forward implements the forwarding gate: a full-line request
// sees every beat; a sub-line request sees only the beat carrying its
// requested byte.
func (t *ReadTransaction) forward(msg coherence.Data) bool {
	if chi.TransactionSize(t.payload.Size) == chi.LineSizeBytes {
		return true
	}
	off := t.payload.Address - msg.Addr
	if off >= uint64(chi.LineSizeBytes) {
		return false
	}
	return msg.BitMask&(1<<uint(off)) != 0
}

// HandleResponse refreshes the stored DBID from the message, then applies
// the common response handling.
func (t *ReadTransaction) HandleResponse(msg coherence.Response, bw BW) (Result, error) {
	t.phase.DBID = msg.DBID
	return t.commonHandleResponse(msg, bw)
}
