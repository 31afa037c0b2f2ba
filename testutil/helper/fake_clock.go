package helper

import (
	"sort"
	"sync"
	"time"

	"github.com/AntonStoeckl/librarydesk/shell"
)

// FakeClock is a shell.Clock that only moves when Advance is called.
// Due callbacks run synchronously inside Advance, in due order.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*FakeTimer
}

// FakeTimer is the shell.Timer handed out by FakeClock.
type FakeTimer struct {
	clock   *FakeClock
	due     time.Time
	f       func()
	stopped bool
	fired   bool
}

// NewFakeClock creates a FakeClock standing at start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now implements shell.Clock.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// AfterFunc implements shell.Clock.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) shell.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	timer := &FakeTimer{clock: c, due: c.now.Add(d), f: f}
	c.timers = append(c.timers, timer)

	return timer
}

// Advance moves the clock forward by d and fires every timer that became due.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)

	var due []*FakeTimer
	pending := c.timers[:0]
	for _, timer := range c.timers {
		switch {
		case timer.stopped:
		case !timer.due.After(c.now):
			timer.fired = true
			due = append(due, timer)
		default:
			pending = append(pending, timer)
		}
	}
	c.timers = pending
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].due.Before(due[j].due) })
	for _, timer := range due {
		timer.f()
	}
}

// PendingTimers returns the number of scheduled, not yet fired or stopped timers.
func (c *FakeClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := 0
	for _, timer := range c.timers {
		if !timer.stopped {
			count++
		}
	}

	return count
}

// Stop implements shell.Timer.
func (t *FakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}

	t.stopped = true

	return true
}
