package registry

import (
	"github.com/ardent-systems/chitlm/internal/bridgeerr"
	"github.com/ardent-systems/chitlm/internal/protocol/chi"
	"github.com/ardent-systems/chitlm/internal/protocol/coherence"
)

// DatalessTransaction models Evict/CleanUnique-style requests with no
// data payload in either direction. It completes on a single COMP
// and is extended (not completed) by RETRY_ACK.
type DatalessTransaction struct {
	base
	noData
}

// NewDatalessTransaction creates a Dataless variant holding its own
// payload reference.
func NewDatalessTransaction(payload *chi.Payload, phase chi.Phase, lpid, txnID uint32) *DatalessTransaction {
	return &DatalessTransaction{base: base{
		payload: payload.Acquire(),
		phase:   phase,
		lpid:    lpid,
		txnID:   txnID,
	}}
}

func (t *DatalessTransaction) Kind() Kind { return KindDataless }

// HandleResponse accepts exactly the Comp family and RetryAck;
// anything else is a downstream contract violation. The common handler's
// terminal rule (terminal unless RETRY_ACK) applies unchanged.
func (t *DatalessTransaction) HandleResponse(msg coherence.Response, bw BW) (Result, error) {
	switch msg.Type {
	case coherence.TypeCompI, coherence.TypeCompUC, coherence.TypeCompUDPD, coherence.TypeRetryAck:
	default:
		return Result{}, bridgeerr.NewInvalidRespError(t.txnID,
			"dataless transaction response", msg.Type.String())
	}
	return t.commonHandleResponse(msg, bw)
}

// HandleData is a downstream contract violation for dataless transactions.
func (t *DatalessTransaction) HandleData(msg coherence.Data, bw BW) (Result, error) {
	return t.handleData(t.txnID)
}
