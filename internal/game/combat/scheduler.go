package combat

import (
	"container/heap"
	"time"
)

// Timer is a pending callback on a Scheduler.
type Timer struct {
	sched *Scheduler
	at    time.Duration
	seq   uint64
	fn    func()
	index int
	done  bool
}

// Stop cancels the timer. It reports whether the timer was still pending.
// Safe to call multiple times.
//
// Postcondition: the callback will not run after Stop returns.
func (t *Timer) Stop() bool {
	if t == nil || t.done {
		return false
	}
	t.done = true
	if t.index >= 0 {
		heap.Remove(&t.sched.queue, t.index)
	}
	return true
}

// Active reports whether the timer is still pending.
func (t *Timer) Active() bool {
	return t != nil && !t.done
}

// Scheduler is a virtual-time queue of deferred callbacks. Time moves only
// when Advance is called; callbacks run synchronously inside Advance in due
// order, ties broken by scheduling order.
//
// Scheduler is not safe for concurrent use.
type Scheduler struct {
	now   time.Duration
	seq   uint64
	queue timerQueue
}

// NewScheduler returns a Scheduler at virtual time zero.
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration { return s.now }

// Pending returns the number of scheduled timers.
func (s *Scheduler) Pending() int { return len(s.queue) }

// After schedules fn to run once d has elapsed. A non-positive d runs fn on
// the next Advance.
//
// Precondition: fn must not be nil.
// Postcondition: returned timer is Active until it fires or is stopped.
func (s *Scheduler) After(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	s.seq++
	t := &Timer{sched: s, at: s.now + d, seq: s.seq, fn: fn}
	heap.Push(&s.queue, t)
	return t
}

// Advance moves virtual time forward by dt and runs every callback that
// falls due, in order. Callbacks scheduled while advancing run in the same
// call when they fall due within the window.
//
// Postcondition: Now() has increased by max(dt, 0); returns the number of callbacks run.
func (s *Scheduler) Advance(dt time.Duration) int {
	if dt < 0 {
		dt = 0
	}
	until := s.now + dt
	fired := 0
	for len(s.queue) > 0 && s.queue[0].at <= until {
		t := heap.Pop(&s.queue).(*Timer)
		t.done = true
		s.now = t.at
		t.fn()
		fired++
	}
	s.now = until
	return fired
}

type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(a, b int) bool {
	if q[a].at != q[b].at {
		return q[a].at < q[b].at
	}
	return q[a].seq < q[b].seq
}

func (q timerQueue) Swap(a, b int) {
	q[a], q[b] = q[b], q[a]
	q[a].index = a
	q[b].index = b
}

func (q *timerQueue) Push(x any) {
	t := x.(*Timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
