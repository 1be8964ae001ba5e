package registry

import (
	"bytes"
	"testing"

	"github.com/ardent-systems/chitlm/internal/protocol/chi"
	"github.com/ardent-systems/chitlm/internal/protocol/coherence"
)

func newTestPayload(addr uint64, size chi.Size) *chi.Payload {
	return chi.NewPayload(addr, size, make([]byte, chi.LineSizeBytes), nil)
}

// beat builds a CompData_UC Data message covering [off, off+n) of the line
// at addr, filled with the byte fill.
func beat(addr uint64, off, n int, fill byte) coherence.Data {
	blk := make([]byte, chi.LineSizeBytes)
	var mask uint64
	for b := off; b < off+n; b++ {
		blk[b] = fill
		mask |= 1 << uint(b)
	}
	return coherence.Data{
		Addr:    addr,
		Type:    coherence.TypeCompDataUC,
		DataBlk: blk,
		BitMask: mask,
	}
}

func TestReadTransaction_TwoBeatCompletion(t *testing.T) {
	payload := newTestPayload(0x1000, chi.Size64)
	phase := chi.Phase{Channel: chi.ChannelREQ, ReqOpcode: chi.ReqReadShared, TxnID: 7, ExpCompAck: true}
	txn := NewReadTransaction(payload, phase, 0, 7)

	var calls []chi.Phase
	bw := func(p *chi.Payload, ph chi.Phase) { calls = append(calls, ph) }

	res, err := txn.HandleData(beat(0x1000, 0, 32, 0xAA), bw)
	if err != nil {
		t.Fatalf("beat 1: %v", err)
	}
	if res.Terminal {
		t.Fatal("beat 1: unexpectedly terminal")
	}

	res, err = txn.HandleData(beat(0x1000, 32, 32, 0xBB), bw)
	if err != nil {
		t.Fatalf("beat 2: %v", err)
	}
	if !res.Terminal {
		t.Fatal("beat 2: expected terminal")
	}
	if res.NeedsCompAck {
		t.Fatal("exp_comp_ack=true must suppress the synthesized CompAck")
	}

	if len(calls) != 2 {
		t.Fatalf("expected 2 upstream beats, got %d", len(calls))
	}
	for i, ph := range calls {
		if ph.Channel != chi.ChannelDAT {
			t.Errorf("beat %d: channel = %s, want DAT", i+1, ph.Channel)
		}
		if ph.Resp != chi.RespUC {
			t.Errorf("beat %d: resp = %s, want UC", i+1, ph.Resp)
		}
		if ph.TxnID != 7 {
			t.Errorf("beat %d: txn_id = %d, want 7", i+1, ph.TxnID)
		}
	}

	want := append(bytes.Repeat([]byte{0xAA}, 32), bytes.Repeat([]byte{0xBB}, 32)...)
	if !bytes.Equal(payload.Data, want) {
		t.Error("payload data is not the union of the two beats")
	}
}

func TestReadTransaction_ImplicitCompAck(t *testing.T) {
	payload := newTestPayload(0x1000, chi.Size64)
	phase := chi.Phase{Channel: chi.ChannelREQ, ReqOpcode: chi.ReqReadShared, TxnID: 7, ExpCompAck: false}
	txn := NewReadTransaction(payload, phase, 0, 7)

	bw := func(p *chi.Payload, ph chi.Phase) {}
	if _, err := txn.HandleData(beat(0x1000, 0, 32, 1), bw); err != nil {
		t.Fatal(err)
	}
	res, err := txn.HandleData(beat(0x1000, 32, 32, 2), bw)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Terminal || !res.NeedsCompAck {
		t.Fatalf("want terminal with NeedsCompAck, got %+v", res)
	}
}

func TestReadTransaction_SubLineForwardingGate(t *testing.T) {
	// An 8-byte read at 0x1008: only the first beat (bytes 0..31 of the
	// line) carries the requested byte; the second beat must be counted
	// but not forwarded.
	payload := newTestPayload(0x1008, chi.Size8)
	phase := chi.Phase{Channel: chi.ChannelREQ, ReqOpcode: chi.ReqReadOnce, TxnID: 3, ExpCompAck: true}
	txn := NewReadTransaction(payload, phase, 0, 3)

	var forwarded int
	bw := func(p *chi.Payload, ph chi.Phase) { forwarded++ }

	if _, err := txn.HandleData(beat(0x1000, 0, 32, 1), bw); err != nil {
		t.Fatal(err)
	}
	res, err := txn.HandleData(beat(0x1000, 32, 32, 2), bw)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Terminal {
		t.Fatal("second beat must still terminate the transaction")
	}
	if forwarded != 1 {
		t.Fatalf("forwarded %d beats upstream, want 1", forwarded)
	}
}

func TestReadTransaction_OutOfOrderBeatsReassembleByMask(t *testing.T) {
	payload := newTestPayload(0x2000, chi.Size64)
	phase := chi.Phase{TxnID: 5, ExpCompAck: true}
	txn := NewReadTransaction(payload, phase, 0, 5)

	bw := func(p *chi.Payload, ph chi.Phase) {}
	// Upper half arrives first.
	if _, err := txn.HandleData(beat(0x2000, 32, 32, 0xDD), bw); err != nil {
		t.Fatal(err)
	}
	if _, err := txn.HandleData(beat(0x2000, 0, 32, 0xCC), bw); err != nil {
		t.Fatal(err)
	}

	want := append(bytes.Repeat([]byte{0xCC}, 32), bytes.Repeat([]byte{0xDD}, 32)...)
	if !bytes.Equal(payload.Data, want) {
		t.Error("out-of-order beats did not reassemble by bit mask")
	}
}

func TestReadTransaction_RetryAckNotTerminal(t *testing.T) {
	payload := newTestPayload(0x1000, chi.Size64)
	txn := NewReadTransaction(payload, chi.Phase{TxnID: 9, AllowRetry: true}, 0, 9)

	var got chi.Phase
	bw := func(p *chi.Payload, ph chi.Phase) { got = ph }

	res, err := txn.HandleResponse(coherence.Response{Type: coherence.TypeRetryAck, TxnID: 9}, bw)
	if err != nil {
		t.Fatal(err)
	}
	if res.Terminal {
		t.Fatal("RETRY_ACK must never terminate a transaction")
	}
	if got.RspOpcode != chi.RspOpcodeRetryAck || got.Channel != chi.ChannelRSP {
		t.Errorf("upstream phase = %s/%s, want RSP/RETRY_ACK", got.Channel, got.RspOpcode)
	}
}
