package engine

import (
	"time"

	"github.com/zyedidia/generic/heap"
)

// Scheduler runs fn once after d. The returned func cancels it.
type Scheduler interface {
	After(d time.Duration, fn func()) (cancel func())
}

type clockTimer struct {
	at        time.Duration
	seq       uint64
	fn        func()
	cancelled bool
	fired     bool
}

// FrameClock is a Scheduler driven by explicit Advance calls. Timers
// fire in deadline order; ties fire in scheduling order.
type FrameClock struct {
	now    time.Duration
	seq    uint64
	live   int
	timers *heap.Heap[*clockTimer]
}

// NewFrameClock creates a clock at time zero.
func NewFrameClock() *FrameClock {
	return &FrameClock{
		timers: heap.New[*clockTimer](func(a, b *clockTimer) bool {
			if a.at != b.at {
				return a.at < b.at
			}
			return a.seq < b.seq
		}),
	}
}

// Now returns the clock time.
func (c *FrameClock) Now() time.Duration { return c.now }

// Pending returns the number of live timers.
func (c *FrameClock) Pending() int { return c.live }

// After implements Scheduler.
func (c *FrameClock) After(d time.Duration, fn func()) func() {
	if d < 0 {
		d = 0
	}
	t := &clockTimer{at: c.now + d, seq: c.seq, fn: fn}
	c.seq++
	c.live++
	c.timers.Push(t)
	return func() {
		if !t.cancelled && !t.fired {
			t.cancelled = true
			c.live--
		}
	}
}

// Advance moves the clock forward by d, firing every timer that falls
// due, including timers scheduled by the callbacks themselves. It
// returns the number of callbacks run.
func (c *FrameClock) Advance(d time.Duration) int {
	target := c.now + d
	fired := 0
	for {
		t := c.popDue(target)
		if t == nil {
			break
		}
		c.now = t.at
		t.fn()
		fired++
	}
	c.now = target
	return fired
}

// popDue removes and returns the earliest live timer due by target.
// Cancelled timers are dropped as they reach the top.
func (c *FrameClock) popDue(target time.Duration) *clockTimer {
	for {
		t, ok := c.timers.Peek()
		if !ok || t.at > target {
			return nil
		}
		c.timers.Pop()
		if t.cancelled {
			continue
		}
		t.fired = true
		c.live--
		return t
	}
}

// minDelay keeps a loop from rescheduling itself at the same instant.
const minDelay = time.Millisecond

// Loop drives an engine from a Scheduler: each tick schedules the next
// one after the engine's NextDelay.
type Loop struct {
	engine *Engine
	sched  Scheduler
	cancel func()
}

// NewLoop binds an engine to a scheduler. Nothing runs until Start or
// the first action.
func NewLoop(e *Engine, s Scheduler) *Loop {
	return &Loop{engine: e, sched: s}
}

// Engine returns the driven engine.
func (l *Loop) Engine() *Engine { return l.engine }

// Running reports whether a tick is scheduled.
func (l *Loop) Running() bool { return l.cancel != nil }

// Start begins play on a ready level and runs the first tick now.
func (l *Loop) Start() {
	l.engine.Start()
	l.Kick()
}

// Stop cancels the pending tick.
func (l *Loop) Stop() {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// Kick cancels the pending tick and runs one immediately.
func (l *Loop) Kick() {
	l.Stop()
	l.run()
}

func (l *Loop) run() {
	l.cancel = nil
	d := l.engine.step()
	if l.engine.Status() != StatusRunning {
		return
	}
	l.schedule(d)
}

func (l *Loop) schedule(d time.Duration) {
	if d < minDelay {
		d = minDelay
	}
	l.cancel = l.sched.After(d, l.run)
}

// HandleAction forwards a command to the engine and keeps the schedule
// in step: the first action starts the loop, pause stops it, resume
// waits a full fall delay, and soft drop ticks at once.
func (l *Loop) HandleAction(a Action) bool {
	e := l.engine
	before := e.Status()
	ok := e.HandleAction(a)
	after := e.Status()

	switch {
	case before == StatusReady && after == StatusRunning:
		l.Kick()
	case before == StatusRunning && after == StatusPaused:
		l.Stop()
	case before == StatusPaused && after == StatusRunning:
		l.Stop()
		l.schedule(e.Config().Timing.Fall)
	case ok && e.DownHeld():
		l.Kick()
	}
	return ok
}
