package registry

import (
	"github.com/ardent-systems/chitlm/internal/protocol/chi"
	"github.com/ardent-systems/chitlm/internal/protocol/coherence"
)

// WriteTransaction tracks a write's two-part completion: a COMP-class
// message and a DBID-class message, possibly fused as COMP_DBID_RESP.
// It terminates only when both have been consumed.
type WriteTransaction struct {
	base
	noData

	recvComp bool
	recvDBID bool
}

// NewWriteTransaction creates a Write variant holding its own payload
// reference.
func NewWriteTransaction(payload *chi.Payload, phase chi.Phase, lpid, txnID uint32) *WriteTransaction {
	return &WriteTransaction{base: base{
		payload: payload.Acquire(),
		phase:   phase,
		lpid:    lpid,
		txnID:   txnID,
	}}
}

func (t *WriteTransaction) Kind() Kind { return KindWrite }

// RecvComp reports whether a COMP-class message has been consumed.
func (t *WriteTransaction) RecvComp() bool { return t.recvComp }

// RecvDBID reports whether a DBID-class message has been consumed.
func (t *WriteTransaction) RecvDBID() bool { return t.recvDBID }

// HandleResponse updates the comp/dbid flags from the message type,
// refreshes the stored DBID, runs the common handler (which forwards the
// beat upstream), and reports terminal iff both flags are now set.
// A RETRY_ACK sets neither flag, so the common handler's retry rule is
// subsumed by the flag check.
func (t *WriteTransaction) HandleResponse(msg coherence.Response, bw BW) (Result, error) {
	if msg.Type.IsComp() {
		t.recvComp = true
	}
	if msg.Type.IsDBID() {
		t.recvDBID = true
	}
	t.phase.DBID = msg.DBID

	if _, err := t.commonHandleResponse(msg, bw); err != nil {
		return Result{}, err
	}
	return Result{Terminal: t.recvComp && t.recvDBID}, nil
}

// HandleData is a downstream contract violation for writes.
func (t *WriteTransaction) HandleData(msg coherence.Data, bw BW) (Result, error) {
	return t.handleData(t.txnID)
}
