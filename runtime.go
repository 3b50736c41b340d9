package keyframer

import (
	"container/heap"
	"context"
	"time"
)

// Runtime is the cooperative scheduler everything in this package runs on:
// a microtask queue for coalesced work such as re-renders, and a
// virtual-clock timer heap for animation completions. Nothing happens
// between calls; the host drives the clock, either manually with Advance
// (tests, sampling) or in real time with Run.
//
// All Runtime, Keyframer, and Stylesheet calls must come from the same
// goroutine. There is no locking because there is no concurrent access.
type Runtime struct {
	now    time.Duration
	queue  []func()
	timers timerHeap
	seq    uint64
}

// NewRuntime returns a runtime with the clock at zero.
func NewRuntime() *Runtime {
	return &Runtime{}
}

// Now returns the current virtual time.
func (r *Runtime) Now() time.Duration { return r.now }

// Post queues fn to run at the next Flush or Advance, after already queued
// work. Mutations scheduled through Post coalesce: however many are queued,
// one Flush runs them all in order.
func (r *Runtime) Post(fn func()) {
	r.queue = append(r.queue, fn)
}

// After schedules fn to run when the clock has advanced by d. Timers fire in
// deadline order, ties in scheduling order. The returned timer can be
// stopped before it fires.
func (r *Runtime) After(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	r.seq++
	t := &scheduledTimer{deadline: r.now + d, seq: r.seq, fn: fn}
	heap.Push(&r.timers, t)
	return &Timer{t: t}
}

// Flush drains the microtask queue, including tasks queued by the tasks it
// runs. Timers do not fire; they need Advance.
func (r *Runtime) Flush() {
	for len(r.queue) > 0 {
		queue := r.queue
		r.queue = nil
		for _, fn := range queue {
			fn()
		}
	}
}

// Advance moves the clock forward by dt, firing every timer whose deadline
// falls within the window in deadline order and draining the microtask
// queue before, between, and after them. Each timer observes Now() equal to
// its own deadline when it runs.
func (r *Runtime) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	target := r.now + dt
	r.Flush()
	for r.timers.Len() > 0 {
		next := r.timers[0]
		if next.stopped {
			heap.Pop(&r.timers)
			continue
		}
		if next.deadline > target {
			break
		}
		heap.Pop(&r.timers)
		r.now = next.deadline
		fn := next.fn
		next.fn = nil
		fn()
		r.Flush()
	}
	r.now = target
	r.Flush()
}

// Run drives the clock with wall time until ctx is done, advancing once per
// step (16ms when step is not positive). The calling goroutine becomes the
// runtime's goroutine for the duration.
func (r *Runtime) Run(ctx context.Context, step time.Duration) error {
	if step <= 0 {
		step = 16 * time.Millisecond
	}
	ticker := time.NewTicker(step)
	defer ticker.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			r.Advance(now.Sub(last))
			last = now
		}
	}
}

// Timer is a handle on a scheduled callback.
type Timer struct {
	t *scheduledTimer
}

// Stop cancels the timer. Stopping an already-fired or already-stopped
// timer is a no-op.
func (t *Timer) Stop() {
	if t == nil || t.t == nil {
		return
	}
	t.t.stopped = true
	t.t.fn = nil
}

type scheduledTimer struct {
	deadline time.Duration
	seq      uint64
	fn       func()
	stopped  bool
}

// timerHeap orders timers by deadline, then scheduling sequence.
type timerHeap []*scheduledTimer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].deadline != h[j].deadline {
		return h[i].deadline < h[j].deadline
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *timerHeap) Push(x any) { *h = append(*h, x.(*scheduledTimer)) }

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}
