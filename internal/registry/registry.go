package registry

import (
	"github.com/ardent-systems/chitlm/internal/bridgeerr"
	"github.com/ardent-systems/chitlm/internal/protocol/chi"
)

// readOpcodes, writeOpcodes, datalessOpcodes partition the supported REQ
// opcodes into the three transaction classes the factory dispatches on.
var readOpcodes = map[chi.ReqOpcode]struct{}{
	chi.ReqReadShared:         {},
	chi.ReqReadClean:          {},
	chi.ReqReadOnce:           {},
	chi.ReqReadNoSnp:          {},
	chi.ReqReadUnique:         {},
	chi.ReqReadNotSharedDirty: {},
	chi.ReqReadPreferUnique:   {},
	chi.ReqMakeReadUnique:     {},
}

var writeOpcodes = map[chi.ReqOpcode]struct{}{
	chi.ReqWriteNoSnpPtl:     {},
	chi.ReqWriteNoSnpFull:    {},
	chi.ReqWriteUniqueZero:   {},
	chi.ReqWriteUniqueFull:   {},
	chi.ReqWriteBackFull:     {},
	chi.ReqWriteEvictOrEvict: {},
}

var datalessOpcodes = map[chi.ReqOpcode]struct{}{
	chi.ReqCleanUnique:        {},
	chi.ReqMakeUnique:         {},
	chi.ReqEvict:              {},
	chi.ReqStashOnceSepShared: {},
	chi.ReqStashOnceSepUnique: {},
}

// NewTransaction is the factory: it dispatches on the REQ opcode's
// class to the Read, Write, or Dataless variant, or fails with
// ErrUnsupportedTransaction for anything outside the three classes. The
// returned transaction holds its own reference on payload.
func NewTransaction(op chi.ReqOpcode, payload *chi.Payload, phase chi.Phase, lpid, txnID uint32) (Transaction, error) {
	switch {
	case isRead(op):
		return NewReadTransaction(payload, phase, lpid, txnID), nil
	case isWrite(op):
		return NewWriteTransaction(payload, phase, lpid, txnID), nil
	case isDataless(op):
		return NewDatalessTransaction(payload, phase, lpid, txnID), nil
	default:
		return nil, bridgeerr.NewUnsupportedTransactionError(op.String())
	}
}

func isRead(op chi.ReqOpcode) bool {
	_, ok := readOpcodes[op]
	return ok
}

func isWrite(op chi.ReqOpcode) bool {
	_, ok := writeOpcodes[op]
	return ok
}

func isDataless(op chi.ReqOpcode) bool {
	_, ok := datalessOpcodes[op]
	return ok
}

// Registry is the outstanding-transaction table, keyed by logical txn_id
// (phase.txn_id + lpid*1024, formed by the controller). It is owned
// exclusively by the controller and touched only from the single-threaded
// event loop, so it carries no locking.
type Registry struct {
	txns map[uint32]Transaction
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{txns: make(map[uint32]Transaction)}
}

// Insert records a new outstanding transaction. Inserting a duplicate
// logical txn_id violates the uniqueness invariant and fails.
func (r *Registry) Insert(txnID uint32, t Transaction) error {
	if _, ok := r.txns[txnID]; ok {
		return bridgeerr.NewInvalidRespError(txnID, "registry insert", "txn_id already outstanding")
	}
	r.txns[txnID] = t
	return nil
}

// Lookup returns the outstanding transaction for txnID, if any.
func (r *Registry) Lookup(txnID uint32) (Transaction, bool) {
	t, ok := r.txns[txnID]
	return t, ok
}

// Erase removes a terminal transaction and releases the payload reference
// the transaction acquired at construction. Erasing an unknown txn_id is
// a no-op.
func (r *Registry) Erase(txnID uint32) {
	t, ok := r.txns[txnID]
	if !ok {
		return
	}
	delete(r.txns, txnID)
	t.Payload().Release()
}

// Len returns the number of outstanding transactions.
func (r *Registry) Len() int { return len(r.txns) }

// Outstanding returns the logical txn_ids currently in the registry, in
// no particular order. Used by teardown reporting.
func (r *Registry) Outstanding() []uint32 {
	ids := make([]uint32, 0, len(r.txns))
	for id := range r.txns {
		ids = append(ids, id)
	}
	return ids
}
