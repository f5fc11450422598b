package binder

import (
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/schema"
	"github.com/goliatone/go-formkit/pkg/validation"
	"github.com/goliatone/go-formkit/pkg/widget"
)

// SubmitEvent is the host event that triggered a submit. Submit always
// prevents its default action.
type SubmitEvent struct {
	defaultPrevented bool
}

// PreventDefault marks the event as handled.
func (e *SubmitEvent) PreventDefault() {
	if e != nil {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *SubmitEvent) DefaultPrevented() bool {
	return e != nil && e.defaultPrevented
}

// Binder owns the live value/error state of one form. It injects that state
// into host widget trees, applies change events and gates submission on
// validation.
type Binder struct {
	mu sync.Mutex

	fields      schema.Schema
	errs        validation.ErrorMap
	external    validation.ErrorMap
	widgetRules map[string][]schema.Validator

	debounce   time.Duration
	scheduler  Scheduler
	debouncers map[string]*debouncer

	// per-field serialisation of change application
	applying map[string]bool
	queued   map[string][]widget.ChangeEvent

	closed bool

	onChange ChangeFunc
	onSubmit SubmitFunc
	onError  ErrorFunc
	logger   *zap.Logger
	sanitize func(string) string
}

// New creates a Binder over a private copy of s.
func New(s schema.Schema, opts ...Option) *Binder {
	b := &Binder{
		fields:      s.Clone(),
		errs:        validation.ErrorMap{},
		external:    validation.ErrorMap{},
		widgetRules: map[string][]schema.Validator{},
		scheduler:   RealScheduler(),
		debouncers:  map[string]*debouncer{},
		applying:    map[string]bool{},
		queued:      map[string][]widget.ChangeEvent{},
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Bind walks tree and returns a copy in which every bindable field named
// after a schema key carries the current value, its merged error message and
// the binder's change handler. Other nodes pass through unchanged, but their
// children are still visited.
//
// Validators declared by widgets are collected during the walk and replace
// the schema validators of the same name until the next Bind.
func (b *Binder) Bind(tree widget.Widget) widget.Widget {
	b.mu.Lock()
	values := b.fields.Values()
	merged := b.errs.Merge(b.external)
	b.mu.Unlock()

	rules := map[string][]schema.Validator{}
	bound := widget.Walk(tree, func(node widget.Widget) widget.Widget {
		if validated, ok := node.(widget.Validated); ok {
			name := validated.FieldName()
			if declared := validated.Validation(); len(declared) > 0 {
				if _, known := values[name]; known {
					rules[name] = append([]schema.Validator(nil), declared...)
				}
			}
		}

		bindable, ok := node.(widget.Bindable)
		if !ok {
			return node
		}
		name := bindable.FieldName()
		value, known := values[name]
		if !known {
			b.logger.Debug("binder: widget has no matching schema field", zap.String("field", name))
			return node
		}
		return bindable.Bind(widget.Props{
			Value:    value,
			Error:    b.sanitizeMessage(merged.Get(name)),
			OnChange: b.OnChange,
		})
	})

	b.mu.Lock()
	b.widgetRules = rules
	b.mu.Unlock()

	return bound
}

// OnChange applies a widget change event. Events for unknown names are
// ignored. With debouncing enabled the event is deferred until the field has
// been quiet for the configured interval; only the last event of a burst is
// applied.
func (b *Binder) OnChange(ev widget.ChangeEvent) {
	name := ev.Target.Name

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	if !b.fields.Has(name) {
		b.mu.Unlock()
		b.logger.Debug("binder: change for unknown field ignored", zap.String("field", name))
		return
	}
	if b.debounce <= 0 {
		b.mu.Unlock()
		b.apply(ev)
		return
	}
	d, ok := b.debouncers[name]
	if !ok {
		d = newDebouncer(b.debounce, b.scheduler, b.apply)
		b.debouncers[name] = d
	}
	b.mu.Unlock()

	d.call(ev)
}

// apply commits ev and notifies the change callback. An event for a field
// whose previous change is still being applied (typically raised from inside
// the change callback) is queued and applied once that change completes.
func (b *Binder) apply(ev widget.ChangeEvent) {
	name := ev.Target.Name

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	if b.applying[name] {
		b.queued[name] = append(b.queued[name], ev)
		b.mu.Unlock()
		return
	}
	b.applying[name] = true
	b.mu.Unlock()

	done := false
	defer func() {
		if done {
			return
		}
		b.mu.Lock()
		delete(b.applying, name)
		delete(b.queued, name)
		b.mu.Unlock()
	}()

	for {
		values, errs, ok := b.commit(ev)
		if ok && b.onChange != nil {
			b.onChange(values, errs)
		}
		next, more := b.dequeue(name)
		if !more {
			done = true
			return
		}
		ev = next
	}
}

func (b *Binder) commit(ev widget.ChangeEvent) (map[string]any, validation.ErrorMap, bool) {
	name := ev.Target.Name

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed || !b.fields.SetValue(name, schema.CloneValue(ev.ResolvedValue())) {
		return nil, nil, false
	}
	if ev.Target.Option != nil {
		b.fields.SetOption(name, schema.CloneValue(ev.Target.Option))
	}
	b.errs.Clear(name)

	return b.fields.Values(), b.errs.Merge(b.external), true
}

func (b *Binder) dequeue(name string) (widget.ChangeEvent, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	queue := b.queued[name]
	if len(queue) == 0 {
		delete(b.applying, name)
		delete(b.queued, name)
		return widget.ChangeEvent{}, false
	}
	next := queue[0]
	b.queued[name] = queue[1:]
	return next, true
}

// Flush applies every pending debounced change immediately, in field name
// order.
func (b *Binder) Flush() {
	for _, d := range b.pendingDebouncers() {
		d.flush()
	}
}

func (b *Binder) pendingDebouncers() []*debouncer {
	b.mu.Lock()
	defer b.mu.Unlock()

	names := make([]string, 0, len(b.debouncers))
	for name := range b.debouncers {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*debouncer, 0, len(names))
	for _, name := range names {
		out = append(out, b.debouncers[name])
	}
	return out
}

// Submit validates the current values and hands them to the submit callback
// when every field passes. Otherwise the errors are stored, so the next Bind
// shows them, and passed to the error callback. The submit callback is never
// called while errors exist.
//
// Pending debounced changes are applied first so the latest input is the one
// validated. A panicking validator aborts the submit with a
// *validation.ValidatorError and leaves the stored errors untouched.
func (b *Binder) Submit(ev *SubmitEvent) error {
	ev.PreventDefault()

	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrClosed
	}

	b.Flush()

	b.mu.Lock()
	rules := b.rulesLocked()
	values := b.fields.Values()
	b.mu.Unlock()

	errs, err := validation.Validate(rules, values)
	if err != nil {
		b.logger.Error("binder: validator failed", zap.Error(err))
		return err
	}

	b.mu.Lock()
	b.errs = errs.Clone()
	b.mu.Unlock()

	if errs.HasErrors() {
		b.logger.Debug("binder: submit rejected", zap.Strings("fields", errs.Fields()))
		if b.onError != nil {
			b.onError(errs)
		}
		return nil
	}

	if b.onSubmit != nil {
		b.onSubmit(ev, values)
	}
	return nil
}

// rulesLocked overlays widget-declared validators on the schema's own.
func (b *Binder) rulesLocked() map[string][]schema.Validator {
	rules := b.fields.Rules()
	for name, validators := range b.widgetRules {
		if !b.fields.Has(name) {
			continue
		}
		rules[name] = append([]schema.Validator(nil), validators...)
	}
	return rules
}

// SetSchema replaces the form fields when s differs from the current ones.
// Pending debounced changes are dropped and errors for fields that no longer
// exist are discarded.
func (b *Binder) SetSchema(s schema.Schema) {
	b.mu.Lock()
	if b.fields.Equal(s) {
		b.mu.Unlock()
		return
	}
	b.fields = s.Clone()
	for name := range b.errs {
		if !b.fields.Has(name) {
			delete(b.errs, name)
		}
	}
	for name := range b.widgetRules {
		if !b.fields.Has(name) {
			delete(b.widgetRules, name)
		}
	}
	pending := b.takeDebouncersLocked()
	b.mu.Unlock()

	for _, d := range pending {
		d.cancel()
	}
}

// SetExternalErrors replaces the host supplied errors.
func (b *Binder) SetExternalErrors(errs validation.ErrorMap) {
	b.mu.Lock()
	b.external = errs.Clone()
	b.mu.Unlock()
}

// Values returns a snapshot of the current field values.
func (b *Binder) Values() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fields.Values()
}

// Errors returns the internal errors overlaid with the external ones.
func (b *Binder) Errors() validation.ErrorMap {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.errs.Merge(b.external)
}

// Schema returns a copy of the current fields.
func (b *Binder) Schema() schema.Schema {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fields.Clone()
}

// Pending reports whether a debounced change is waiting for name.
func (b *Binder) Pending(name string) bool {
	b.mu.Lock()
	d, ok := b.debouncers[name]
	b.mu.Unlock()
	return ok && d.isPending()
}

// Close stops pending timers. Later changes are ignored and Submit returns
// ErrClosed.
func (b *Binder) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	pending := b.takeDebouncersLocked()
	b.mu.Unlock()

	for _, d := range pending {
		d.cancel()
	}
}

func (b *Binder) takeDebouncersLocked() []*debouncer {
	out := make([]*debouncer, 0, len(b.debouncers))
	for _, d := range b.debouncers {
		out = append(out, d)
	}
	b.debouncers = map[string]*debouncer{}
	return out
}

func (b *Binder) sanitizeMessage(message string) string {
	if message == "" || b.sanitize == nil {
		return message
	}
	return b.sanitize(message)
}
