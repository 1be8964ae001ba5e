// Package registry owns the outstanding-transaction table and the
// per-variant transaction state machines that consume Data and Response
// messages.
//
// Transactions are modeled as a tagged sum (a Kind tag plus one
// Transaction interface that each variant implements with its own
// data/response handling) rather than an inheritance hierarchy. The registry stores the interface value
// directly; there is no separate base class to downcast from.
package registry

import (
	"github.com/ardent-systems/chitlm/internal/bridgeerr"
	"github.com/ardent-systems/chitlm/internal/protocol/chi"
	"github.com/ardent-systems/chitlm/internal/protocol/coherence"
	"github.com/ardent-systems/chitlm/internal/translate"
)

// Kind identifies which of the three transaction variants a Transaction is.
type Kind uint8

const (
	KindRead Kind = iota
	KindWrite
	KindDataless
)

func (k Kind) String() string {
	switch k {
	case KindRead:
		return "Read"
	case KindWrite:
		return "Write"
	case KindDataless:
		return "Dataless"
	default:
		return "UnknownKind"
	}
}

// BW is the upstream callback a transaction invokes once per beat it
// forwards.
type BW func(payload *chi.Payload, phase chi.Phase)

// Result is what a Transaction's Handle methods report back to whoever
// dispatched the message (the controller, after looking the transaction
// up in the Registry).
type Result struct {
	// Terminal reports whether the transaction should be erased from the
	// registry after this call.
	Terminal bool

	// NeedsCompAck is set by a ReadTransaction's HandleData when the
	// completing beat requires the controller to synthesize and send an
	// implicit CompAck.
	NeedsCompAck bool
}

// Transaction is the common interface the registry stores and the
// controller dispatches through. Each variant implements it, diverging on
// data handling and termination condition.
type Transaction interface {
	Kind() Kind
	Payload() *chi.Payload
	Phase() chi.Phase
	LPID() uint32

	// HandleResponse consumes an inbound Response message and reports
	// whether the transaction is now terminal.
	HandleResponse(msg coherence.Response, bw BW) (Result, error)

	// HandleData consumes an inbound Data message. Dataless and Write
	// transactions never legitimately receive one; calling it on those
	// variants reports a fatal ErrInvalidResp.
	HandleData(msg coherence.Data, bw BW) (Result, error)
}

// base holds the state and stamped Phase every variant shares: the
// Payload reference, the most recently observed Phase, and the owning
// lpid. It is not itself a Transaction — each variant embeds it and adds
// its own HandleData/HandleResponse.
type base struct {
	payload *chi.Payload
	phase   chi.Phase
	lpid    uint32
	txnID   uint32 // logical (not wire-truncated)
}

func (b *base) Payload() *chi.Payload { return b.payload }
func (b *base) Phase() chi.Phase      { return b.phase }
func (b *base) LPID() uint32          { return b.lpid }

// commonHandleResponse is the response handling every variant shares: it
// translates msg's internal type to a CHI response opcode + resp state,
// stamps the stored phase, invokes bw, and returns terminal = (opcode !=
// RETRY_ACK) by default. Variants that need a different terminal rule
// (Write) ignore the returned Result.Terminal and recompute their own.
func (b *base) commonHandleResponse(msg coherence.Response, bw BW) (Result, error) {
	opcode, resp, err := translate.RespToCHI(msg.Type)
	if err != nil {
		return Result{}, err
	}

	b.phase.Channel = chi.ChannelRSP
	b.phase.RspOpcode = opcode
	b.phase.Resp = resp
	b.phase.TxnID = chi.WireTxnID(b.txnID)

	bw(b.payload, b.phase)

	return Result{Terminal: opcode != chi.RspOpcodeRetryAck}, nil
}

// noData is embedded by variants that never legitimately see a Data
// message (Write, Dataless): calling HandleData on them is a downstream
// protocol-contract violation.
type noData struct{}

func (noData) handleData(txnID uint32) (Result, error) {
	return Result{}, bridgeerr.NewInvalidRespError(txnID, "unexpected Data message for this transaction kind", "n/a")
}
