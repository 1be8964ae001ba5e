// Package sim provides the discrete-event scheduler driving the generator
// testbench: a simulated tick counter, a future-event queue, and a set of
// exit callbacks run at teardown.
//
// The host simulator's own event loop is an external collaborator from the
// bridge's point of view; this package is the minimal stand-in the
// testbench needs to run self-contained. Scheduling is single-threaded
// and cooperative: every callback runs to completion before the next
// event is pulled, and the only suspension point is returning to the loop
// between events.
package sim

import "container/heap"

// event is one queued callback. seq breaks ties between events at the
// same tick, preserving enqueue order.
type event struct {
	tick uint64
	seq  uint64
	fn   func()
}

type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].tick != q[j].tick {
		return q[i].tick < q[j].tick
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(*event)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

// Scheduler is a single-threaded discrete-event loop keyed on a simulated
// tick counter.
type Scheduler struct {
	now     uint64
	nextSeq uint64
	queue   eventQueue
	exitFns []func()
}

// New creates a Scheduler with the tick counter at zero.
func New() *Scheduler {
	return &Scheduler{}
}

// Now returns the current simulated tick.
func (s *Scheduler) Now() uint64 { return s.now }

// ScheduleAt enqueues fn to run at the given tick. Events at the same
// tick run in enqueue order. Scheduling in the past (tick < Now) runs the
// event at the current tick, after events already queued for it.
func (s *Scheduler) ScheduleAt(tick uint64, fn func()) {
	if tick < s.now {
		tick = s.now
	}
	heap.Push(&s.queue, &event{tick: tick, seq: s.nextSeq, fn: fn})
	s.nextSeq++
}

// AtExit registers fn to run after the event queue drains, in
// registration order. The generator hangs its teardown report here.
func (s *Scheduler) AtExit(fn func()) {
	s.exitFns = append(s.exitFns, fn)
}

// Run drains the event queue, advancing the tick counter to each event's
// time, then runs the exit callbacks. Events scheduled from inside a
// callback are honored, including ones for the current tick.
func (s *Scheduler) Run() {
	for s.queue.Len() > 0 {
		e := heap.Pop(&s.queue).(*event)
		s.now = e.tick
		e.fn()
	}
	for _, fn := range s.exitFns {
		fn()
	}
}
