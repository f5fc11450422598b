package testsupport

import (
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-formkit/pkg/binder"
)

// ManualScheduler is a binder.Scheduler whose timers only fire on Advance.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	owner   *ManualScheduler
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

var _ binder.Scheduler = (*ManualScheduler)(nil)

// NewManualScheduler returns a scheduler at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc implements binder.Scheduler.
func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) binder.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTimer{owner: s, at: s.now + d, fn: f}
	s.timers = append(s.timers, t)
	return t
}

func (t *manualTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves the clock forward and runs every timer that became due, in
// deadline order. Timer callbacks run without the scheduler lock held.
func (s *ManualScheduler) Advance(d time.Duration) int {
	s.mu.Lock()
	s.now += d
	var due []*manualTimer
	for _, t := range s.timers {
		if !t.stopped && !t.fired && t.at <= s.now {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.fn()
	}
	return len(due)
}

// Pending counts timers that have neither fired nor been stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}
