package registry

import (
	"testing"

	"github.com/ardent-systems/chitlm/internal/protocol/chi"
	"github.com/ardent-systems/chitlm/internal/protocol/coherence"
)

func TestWriteTransaction_FusedCompDBID(t *testing.T) {
	payload := newTestPayload(0x2000, chi.Size64)
	txn := NewWriteTransaction(payload, chi.Phase{TxnID: 42}, 0, 42)

	var calls []chi.Phase
	bw := func(p *chi.Payload, ph chi.Phase) { calls = append(calls, ph) }

	res, err := txn.HandleResponse(coherence.Response{Type: coherence.TypeCompDBIDResp, TxnID: 42, DBID: 13}, bw)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Terminal {
		t.Fatal("fused CompDBIDResp must terminate the write")
	}
	if !txn.RecvComp() || !txn.RecvDBID() {
		t.Fatal("both flags must be set by the fused response")
	}
	if len(calls) != 1 {
		t.Fatalf("expected 1 upstream call, got %d", len(calls))
	}
	if calls[0].RspOpcode != chi.RspOpcodeCompDBIDResp {
		t.Errorf("upstream opcode = %s, want COMP_DBID_RESP", calls[0].RspOpcode)
	}
	if calls[0].DBID != 13 {
		t.Errorf("upstream dbid = %d, want 13", calls[0].DBID)
	}
}

func TestWriteTransaction_SplitCompAndDBID(t *testing.T) {
	payload := newTestPayload(0x2000, chi.Size64)
	txn := NewWriteTransaction(payload, chi.Phase{TxnID: 43}, 0, 43)

	var calls int
	bw := func(p *chi.Payload, ph chi.Phase) { calls++ }

	res, err := txn.HandleResponse(coherence.Response{Type: coherence.TypeDBIDResp, TxnID: 43, DBID: 4}, bw)
	if err != nil {
		t.Fatal(err)
	}
	if res.Terminal {
		t.Fatal("DBID alone must not terminate the write")
	}

	res, err = txn.HandleResponse(coherence.Response{Type: coherence.TypeCompI, TxnID: 43}, bw)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Terminal {
		t.Fatal("Comp after DBID must terminate the write")
	}
	if calls != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", calls)
	}
}

func TestWriteTransaction_RetryAckSetsNeitherFlag(t *testing.T) {
	payload := newTestPayload(0x2000, chi.Size64)
	txn := NewWriteTransaction(payload, chi.Phase{TxnID: 44}, 0, 44)

	bw := func(p *chi.Payload, ph chi.Phase) {}
	res, err := txn.HandleResponse(coherence.Response{Type: coherence.TypeRetryAck, TxnID: 44}, bw)
	if err != nil {
		t.Fatal(err)
	}
	if res.Terminal || txn.RecvComp() || txn.RecvDBID() {
		t.Fatal("RETRY_ACK must leave the write outstanding with both flags clear")
	}
}

func TestWriteTransaction_DataIsContractViolation(t *testing.T) {
	payload := newTestPayload(0x2000, chi.Size64)
	txn := NewWriteTransaction(payload, chi.Phase{TxnID: 45}, 0, 45)

	bw := func(p *chi.Payload, ph chi.Phase) {}
	if _, err := txn.HandleData(coherence.Data{TxnID: 45}, bw); err == nil {
		t.Fatal("expected an error for a Data message on a write transaction")
	}
}
