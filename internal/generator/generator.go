// Package generator implements the traffic-generator testbench: it
// schedules transaction injections at simulated ticks,
// receives the bridge's upstream beats, runs each transaction's ordered
// action FIFO against them, and reports pass/fail at teardown.
package generator

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ardent-systems/chitlm/internal/bridgeerr"
	"github.com/ardent-systems/chitlm/internal/logger"
	"github.com/ardent-systems/chitlm/internal/protocol/chi"
	"github.com/ardent-systems/chitlm/internal/sim"
)

// Injector is the controller surface the generator drives: the bridge's
// SendMsg entry point.
type Injector interface {
	SendMsg(payload *chi.Payload, phase chi.Phase) error
}

// Generator schedules injections and dispatches upstream beats into
// per-transaction action queues. Its Recv method is the bw callback wired
// into the controller.
type Generator struct {
	injector Injector
	sched    *sim.Scheduler
	metrics  *Metrics

	suiteID uuid.UUID

	// pending maps wire txn_id -> transaction, for transactions that
	// registered actions. Owned exclusively by the generator.
	pending map[uint32]*Transaction

	failed  bool
	aborted bool

	// abort is invoked on assertion failure. The default panics with the
	// AssertionFailed error; tests substitute a recorder.
	abort func(error)
}

// New creates a Generator driving the given injector on the given
// scheduler, and registers its teardown report as a scheduler exit
// callback.
func New(injector Injector, sched *sim.Scheduler, metrics *Metrics) *Generator {
	g := &Generator{
		injector: injector,
		sched:    sched,
		metrics:  metrics,
		suiteID:  uuid.New(),
		pending:  make(map[uint32]*Transaction),
	}
	g.abort = func(err error) { panic(err) }
	sched.AtExit(g.report)
	return g
}

// SuiteID returns the identifier attached to this run's teardown report.
func (g *Generator) SuiteID() uuid.UUID { return g.suiteID }

// SetAbortHandler replaces the assertion-failure handler. The default
// panics; the CLI and tests install softer ones.
func (g *Generator) SetAbortHandler(fn func(error)) { g.abort = fn }

// ScheduleAt enqueues txn's injection at the given simulated tick.
// Events at the same tick inject in enqueue order.
func (g *Generator) ScheduleAt(tick uint64, txn *Transaction) {
	g.sched.ScheduleAt(tick, func() { g.Inject(txn) })
}

// Inject hands txn to the controller immediately. If the transaction has
// registered actions, it is first entered into the pending map so the
// upstream beats find it, and its payload reference is released at
// teardown; otherwise the reference is released right after the handoff.
func (g *Generator) Inject(txn *Transaction) {
	tracked := len(txn.actions) > 0
	if tracked {
		g.pending[chi.WireTxnID(txn.phase.TxnID)] = txn
	} else {
		defer txn.payload.Release()
	}
	g.metrics.RecordInjection()
	logger.Debug("injecting transaction",
		logger.TxnID(txn.phase.TxnID), logger.Opcode(txn.phase.ReqOpcode.String()),
		logger.Tick(int64(g.sched.Now())))

	if err := g.injector.SendMsg(txn.payload, txn.phase); err != nil {
		// A rejected injection is a testbench programming error; the two
		// protocols' state machines are untouched, so abort the suite
		// rather than limp on.
		g.abort(err)
	}
}

// Recv is the upstream callback (bw) wired into the controller. It looks
// the beat's txn_id up in the pending map; a hit overwrites the stored
// phase and runs the action queue, a miss warns but does not fail.
func (g *Generator) Recv(payload *chi.Payload, phase chi.Phase) {
	txn, ok := g.pending[phase.TxnID]
	if !ok {
		logger.Warn("upstream beat for unknown generator transaction",
			logger.TxnID(phase.TxnID), logger.Channel(phase.Channel.String()))
		return
	}
	txn.phase = phase
	g.runActions(txn)
}

// runActions drains txn's FIFO from the head: plain callbacks just run,
// failed expectations mark the transaction and continue, failed
// assertions abort the suite, and a waiting action breaks the loop after
// running.
func (g *Generator) runActions(txn *Transaction) {
	for len(txn.actions) > 0 && !g.aborted {
		a := txn.actions[0]
		txn.actions = txn.actions[1:]

		ok, detail := a.run(txn)
		g.metrics.RecordAction(a.kind.String())

		switch a.kind {
		case actionExpectation:
			if !ok {
				txn.passed = false
				g.failed = true
				g.metrics.RecordExpectationFailure()
				err := bridgeerr.NewExpectationFailedError(txn.phase.TxnID, a.name)
				logger.Warn("expectation failed",
					logger.TxnID(txn.phase.TxnID), logger.Action(a.name),
					logger.Err(err), "detail", detail)
			} else {
				logger.Debug("expectation passed",
					logger.TxnID(txn.phase.TxnID), logger.Action(a.name), "detail", detail)
			}
		case actionAssertion:
			if !ok {
				g.failed = true
				g.aborted = true
				g.metrics.RecordAssertionFailure()
				err := bridgeerr.NewAssertionFailedError(txn.phase.TxnID, a.name)
				logger.Error("assertion failed, aborting suite",
					logger.TxnID(txn.phase.TxnID), logger.Action(a.name), logger.Err(err))
				g.abort(err)
				return
			}
			logger.Debug("assertion passed",
				logger.TxnID(txn.phase.TxnID), logger.Action(a.name))
		}

		if a.waits {
			return
		}
	}
}

// Failed reports whether any expectation or assertion failed, or any
// pending transaction finished the run with actions still queued.
func (g *Generator) Failed() bool { return g.failed }

// report is the teardown scan: a transaction with
// passed == false or a non-empty action queue is a suite failure. It also
// releases the payload references the generator's transactions hold.
func (g *Generator) report() {
	for wireID, txn := range g.pending {
		leftover := len(txn.actions)
		if !txn.passed || leftover > 0 {
			g.failed = true
			logger.Warn("transaction failed",
				logger.Suite(g.suiteID.String()), logger.TxnID(wireID),
				logger.Passed(txn.passed), "pending_actions", leftover)
		} else {
			logger.Debug("transaction passed",
				logger.Suite(g.suiteID.String()), logger.TxnID(wireID))
		}
		txn.payload.Release()
	}

	if g.failed {
		logger.Error("suite failed", logger.Suite(g.suiteID.String()),
			logger.Passed(false))
	} else {
		logger.Info("suite passed", logger.Suite(g.suiteID.String()),
			logger.Passed(true), "transactions", len(g.pending))
	}
}

// Summary returns a one-line human-readable outcome for the CLI.
func (g *Generator) Summary() string {
	if g.failed {
		return fmt.Sprintf("suite %s: FAILED", g.suiteID)
	}
	return fmt.Sprintf("suite %s: passed (%d transactions)", g.suiteID, len(g.pending))
}
