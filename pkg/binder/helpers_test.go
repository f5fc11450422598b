package binder_test

import (
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-formkit/pkg/binder"
	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/widget"
)

type input struct {
	name     string
	kind     string
	rules    []schema.Validator
	props    widget.Props
	bound    bool
	children []widget.Widget
}

func (i input) Children() []widget.Widget { return i.children }
func (i input) FieldName() string         { return i.name }

func (i input) Bind(props widget.Props) widget.Widget {
	i.props = props
	i.bound = true
	return i
}

func (i input) Validation() []schema.Validator { return i.rules }

func (i input) change(value any) {
	i.props.OnChange(widget.ChangeEvent{Target: widget.Target{Name: i.name, Type: i.kind, Value: value}})
}

type group struct {
	children []widget.Widget
}

func (g group) Children() []widget.Widget { return g.children }

func (g group) WithChildren(children []widget.Widget) widget.Widget {
	g.children = children
	return g
}

// label is a field that cannot be bound.
type label struct{ name string }

func (l label) Children() []widget.Widget { return nil }
func (l label) FieldName() string         { return l.name }

func findInput(t *testing.T, tree widget.Widget, name string) input {
	t.Helper()
	field, ok := widget.Find(tree, name)
	if !ok {
		t.Fatalf("field %q not found in bound tree", name)
	}
	in, ok := field.(input)
	if !ok {
		t.Fatalf("field %q is %T, want input", name, field)
	}
	return in
}

func change(name string, value any) widget.ChangeEvent {
	return widget.ChangeEvent{Target: widget.Target{Name: name, Value: value}}
}

type fakeTimer struct {
	sched   *fakeScheduler
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// fakeScheduler records timers and fires them on demand.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
	delays []time.Duration
}

var _ binder.Scheduler = (*fakeScheduler)(nil)

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) binder.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	timer := &fakeTimer{sched: s, fn: f}
	s.timers = append(s.timers, timer)
	s.delays = append(s.delays, d)
	return timer
}

func (s *fakeScheduler) active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, timer := range s.timers {
		if !timer.stopped && !timer.fired {
			count++
		}
	}
	return count
}

// fireAll runs every timer that is neither stopped nor fired.
func (s *fakeScheduler) fireAll() {
	s.mu.Lock()
	var due []*fakeTimer
	for _, timer := range s.timers {
		if !timer.stopped && !timer.fired {
			timer.fired = true
			due = append(due, timer)
		}
	}
	s.mu.Unlock()
	for _, timer := range due {
		timer.fn()
	}
}

// fireStale runs timers that were stopped, simulating a timer callback that
// raced with Stop.
func (s *fakeScheduler) fireStale() {
	s.mu.Lock()
	var stale []*fakeTimer
	for _, timer := range s.timers {
		if timer.stopped && !timer.fired {
			timer.fired = true
			stale = append(stale, timer)
		}
	}
	s.mu.Unlock()
	for _, timer := range stale {
		timer.fn()
	}
}
