package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardent-systems/chitlm/internal/protocol/chi"
	"github.com/ardent-systems/chitlm/internal/sim"
)

// fakeInjector records injected phases.
type fakeInjector struct {
	phases []chi.Phase
	err    error
}

func (f *fakeInjector) SendMsg(p *chi.Payload, ph chi.Phase) error {
	f.phases = append(f.phases, ph)
	return f.err
}

func testPayload() *chi.Payload {
	return chi.NewPayload(0x1000, chi.Size64, make([]byte, chi.LineSizeBytes), nil)
}

func TestInject_RegistersPendingOnlyWithActions(t *testing.T) {
	inj := &fakeInjector{}
	sched := sim.New()
	g := New(inj, sched, nil)

	bare := NewTransaction(testPayload(), chi.Phase{TxnID: 1})
	g.Inject(bare)
	assert.Len(t, inj.phases, 1)
	assert.NotContains(t, g.pending, uint32(1), "a transaction with no actions is fire-and-forget")

	watched := NewTransaction(testPayload(), chi.Phase{TxnID: 2})
	watched.Expect("noop", func(*Transaction) bool { return true })
	g.Inject(watched)
	assert.Contains(t, g.pending, uint32(2))
}

func TestScheduleAt_InjectsInTickOrder(t *testing.T) {
	inj := &fakeInjector{}
	sched := sim.New()
	g := New(inj, sched, nil)

	g.ScheduleAt(20, NewTransaction(testPayload(), chi.Phase{TxnID: 2}))
	g.ScheduleAt(10, NewTransaction(testPayload(), chi.Phase{TxnID: 1}))
	sched.Run()

	require.Len(t, inj.phases, 2)
	assert.Equal(t, uint32(1), inj.phases[0].TxnID)
	assert.Equal(t, uint32(2), inj.phases[1].TxnID)
}

func TestRecv_UnknownTxnWarnsWithoutFailing(t *testing.T) {
	g := New(&fakeInjector{}, sim.New(), nil)
	g.Recv(nil, chi.Phase{TxnID: 999})
	assert.False(t, g.Failed())
}

func TestRunActions_WaitingSuspendsDispatch(t *testing.T) {
	g := New(&fakeInjector{}, sim.New(), nil)

	var order []string
	txn := NewTransaction(testPayload(), chi.Phase{TxnID: 5})
	txn.Do(func(*Transaction) { order = append(order, "first") })
	txn.DoWait(func(*Transaction) { order = append(order, "wait") })
	txn.Do(func(*Transaction) { order = append(order, "after") })
	g.Inject(txn)

	g.Recv(nil, chi.Phase{TxnID: 5})
	assert.Equal(t, []string{"first", "wait"}, order, "waiting action must break the loop")

	g.Recv(nil, chi.Phase{TxnID: 5})
	assert.Equal(t, []string{"first", "wait", "after"}, order, "next beat resumes the queue")
	assert.Zero(t, txn.PendingActions())
}

func TestRunActions_ExpectationFailureContinues(t *testing.T) {
	g := New(&fakeInjector{}, sim.New(), nil)

	var ranAfter bool
	txn := NewTransaction(testPayload(), chi.Phase{TxnID: 6})
	txn.Expect("fails", func(*Transaction) bool { return false })
	txn.Do(func(*Transaction) { ranAfter = true })
	g.Inject(txn)

	g.Recv(nil, chi.Phase{TxnID: 6})

	assert.True(t, ranAfter, "dispatch must continue past a failed expectation")
	assert.False(t, txn.Passed())
	assert.True(t, g.Failed())
}

func TestRunActions_AssertionFailureAborts(t *testing.T) {
	g := New(&fakeInjector{}, sim.New(), nil)

	var abortErr error
	g.SetAbortHandler(func(err error) { abortErr = err })

	var ranAfter bool
	txn := NewTransaction(testPayload(), chi.Phase{TxnID: 7})
	txn.Assert("fatal", func(*Transaction) bool { return false })
	txn.Do(func(*Transaction) { ranAfter = true })
	g.Inject(txn)

	g.Recv(nil, chi.Phase{TxnID: 7})

	require.Error(t, abortErr)
	assert.False(t, ranAfter, "a failed assertion stops dispatch")
	assert.True(t, g.Failed())
}

func TestTeardown_LeftoverActionsFailSuite(t *testing.T) {
	inj := &fakeInjector{}
	sched := sim.New()
	g := New(inj, sched, nil)

	txn := NewTransaction(testPayload(), chi.Phase{TxnID: 8})
	txn.DoWait(func(*Transaction) {})
	txn.Expect("never-reached", func(*Transaction) bool { return true })
	g.ScheduleAt(1, txn)

	// No upstream beats ever arrive, so the queue never drains.
	sched.Run()

	assert.True(t, g.Failed(), "undrained action queue at teardown is a suite failure")
}

func TestTeardown_DrainedQueuesPass(t *testing.T) {
	inj := &fakeInjector{}
	sched := sim.New()
	g := New(inj, sched, nil)

	txn := NewTransaction(testPayload(), chi.Phase{TxnID: 9})
	txn.Expect("ok", func(*Transaction) bool { return true })
	g.ScheduleAt(1, txn)
	sched.ScheduleAt(2, func() { g.Recv(nil, chi.Phase{TxnID: 9}) })

	sched.Run()

	assert.False(t, g.Failed())
}
