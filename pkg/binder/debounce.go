package binder

import (
	"sync"
	"time"

	"github.com/goliatone/go-formkit/pkg/widget"
)

// Timer is the cancel handle of a scheduled call.
type Timer interface {
	Stop() bool
}

// Scheduler abstracts deferred execution so debounce timing can be driven
// deterministically in tests.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SchedulerFunc adapts a function into a Scheduler.
type SchedulerFunc func(d time.Duration, f func()) Timer

// AfterFunc calls fn.
func (fn SchedulerFunc) AfterFunc(d time.Duration, f func()) Timer {
	return fn(d, f)
}

// RealScheduler schedules with time.AfterFunc.
func RealScheduler() Scheduler {
	return SchedulerFunc(func(d time.Duration, f func()) Timer {
		return time.AfterFunc(d, f)
	})
}

// debouncer coalesces change events for one field. Only the latest event of
// a burst is delivered, once the burst has been quiet for delay.
type debouncer struct {
	mu        sync.Mutex
	delay     time.Duration
	scheduler Scheduler
	timer     Timer
	seq       uint64 // detects stale timer callbacks
	pending   *widget.ChangeEvent
	fire      func(widget.ChangeEvent)
}

func newDebouncer(delay time.Duration, scheduler Scheduler, fire func(widget.ChangeEvent)) *debouncer {
	return &debouncer{delay: delay, scheduler: scheduler, fire: fire}
}

func (d *debouncer) call(ev widget.ChangeEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = &ev
	d.seq++
	current := d.seq

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.scheduler.AfterFunc(d.delay, func() {
		d.run(current)
	})
}

func (d *debouncer) run(seq uint64) {
	d.mu.Lock()
	if d.pending == nil || d.seq != seq {
		d.mu.Unlock()
		return
	}
	ev := *d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	d.fire(ev)
}

// flush delivers the pending event immediately, if any.
func (d *debouncer) flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()

	if pending != nil {
		d.fire(*pending)
	}
}

// cancel drops the pending event.
func (d *debouncer) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.seq++
	d.pending = nil
}

func (d *debouncer) isPending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}
