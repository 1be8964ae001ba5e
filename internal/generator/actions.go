package generator

import (
	"github.com/ardent-systems/chitlm/internal/protocol/chi"
)

// actionKind distinguishes what a failed action does: nothing (plain
// callbacks have no pass/fail), soft-fail the transaction (expectation),
// or abort the suite (assertion).
type actionKind uint8

const (
	actionPlain actionKind = iota
	actionExpectation
	actionAssertion
)

func (k actionKind) String() string {
	switch k {
	case actionPlain:
		return "do"
	case actionExpectation:
		return "expect"
	case actionAssertion:
		return "assert"
	default:
		return "unknown"
	}
}

// action is one node in a transaction's FIFO: a uniform run hook plus the
// kind tag and the waits flag that suspends the dispatch loop.
type action struct {
	kind  actionKind
	name  string
	waits bool
	run   func(t *Transaction) (ok bool, detail string)
}

// Transaction is a testbench-side transaction: the payload and phase to
// inject, plus the ordered FIFO of actions run against each observed
// upstream beat.
type Transaction struct {
	payload *chi.Payload
	phase   chi.Phase
	actions []action
	passed  bool
}

// NewTransaction wraps a payload/phase pair for scheduling. The
// transaction takes over the caller's payload reference.
func NewTransaction(payload *chi.Payload, phase chi.Phase) *Transaction {
	return &Transaction{payload: payload, phase: phase, passed: true}
}

// Payload returns the transaction's payload.
func (t *Transaction) Payload() *chi.Payload { return t.payload }

// Phase returns the most recent phase observed for this transaction:
// the injected one until the first upstream beat arrives, then whatever
// each beat carried.
func (t *Transaction) Phase() chi.Phase { return t.phase }

// Passed reports whether every expectation so far has held.
func (t *Transaction) Passed() bool { return t.passed }

// PendingActions returns the number of actions not yet dispatched.
func (t *Transaction) PendingActions() int { return len(t.actions) }

// Do appends a plain callback.
func (t *Transaction) Do(cb func(*Transaction)) *Transaction {
	t.actions = append(t.actions, action{
		kind: actionPlain,
		name: "do",
		run:  func(tx *Transaction) (bool, string) { cb(tx); return true, "" },
	})
	return t
}

// DoWait appends a plain callback that suspends the dispatch loop after
// running, resuming on the next upstream beat.
func (t *Transaction) DoWait(cb func(*Transaction)) *Transaction {
	t.actions = append(t.actions, action{
		kind:  actionPlain,
		name:  "do_wait",
		waits: true,
		run:   func(tx *Transaction) (bool, string) { cb(tx); return true, "" },
	})
	return t
}

// Expect appends a named expectation: on failure the transaction is
// marked failed but dispatch continues.
func (t *Transaction) Expect(name string, cb func(*Transaction) bool) *Transaction {
	t.actions = append(t.actions, action{
		kind: actionExpectation,
		name: name,
		run:  func(tx *Transaction) (bool, string) { return cb(tx), "" },
	})
	return t
}

// ExpectStr is Expect with a detail string reported alongside the
// pass/fail outcome.
func (t *Transaction) ExpectStr(name string, cb func(*Transaction) (bool, string)) *Transaction {
	t.actions = append(t.actions, action{
		kind: actionExpectation,
		name: name,
		run:  cb,
	})
	return t
}

// ExpectWait is Expect with the waiting flag set: after the check runs,
// the dispatch loop suspends until the next upstream beat.
func (t *Transaction) ExpectWait(name string, cb func(*Transaction) bool) *Transaction {
	t.actions = append(t.actions, action{
		kind:  actionExpectation,
		name:  name,
		waits: true,
		run:   func(tx *Transaction) (bool, string) { return cb(tx), "" },
	})
	return t
}

// Assert appends a named assertion: on failure the whole suite aborts
// immediately.
func (t *Transaction) Assert(name string, cb func(*Transaction) bool) *Transaction {
	t.actions = append(t.actions, action{
		kind: actionAssertion,
		name: name,
		run:  func(tx *Transaction) (bool, string) { return cb(tx), "" },
	})
	return t
}
