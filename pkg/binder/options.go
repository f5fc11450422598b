package binder

import (
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/validation"
)

// ChangeFunc receives the full value snapshot and the merged error map after
// every applied change.
type ChangeFunc func(values map[string]any, errs validation.ErrorMap)

// SubmitFunc receives the submit event and a plain value snapshot when the
// form validates.
type SubmitFunc func(ev *SubmitEvent, values map[string]any)

// ErrorFunc receives the validation errors of a rejected submit.
type ErrorFunc func(errs validation.ErrorMap)

// Option configures a Binder.
type Option func(*Binder)

// WithChangeCallback registers the host change callback.
func WithChangeCallback(fn ChangeFunc) Option {
	return func(b *Binder) {
		b.onChange = fn
	}
}

// WithSubmitCallback registers the host submit callback.
func WithSubmitCallback(fn SubmitFunc) Option {
	return func(b *Binder) {
		b.onSubmit = fn
	}
}

// WithErrorCallback registers the callback invoked when submit finds errors.
func WithErrorCallback(fn ErrorFunc) Option {
	return func(b *Binder) {
		b.onError = fn
	}
}

// WithExternalErrors seeds errors supplied by the host (for example from a
// server response). They take precedence over internally tracked errors.
func WithExternalErrors(errs validation.ErrorMap) Option {
	return func(b *Binder) {
		b.external = errs.Clone()
	}
}

// WithDebounce rate-limits change handling per field. Zero disables it.
func WithDebounce(interval time.Duration) Option {
	return func(b *Binder) {
		if interval > 0 {
			b.debounce = interval
		}
	}
}

// WithScheduler overrides the timer source used for debouncing.
func WithScheduler(scheduler Scheduler) Option {
	return func(b *Binder) {
		if scheduler != nil {
			b.scheduler = scheduler
		}
	}
}

// WithLogger sets the logger. Binding misses are reported at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithSanitizer filters error messages before they are injected into
// widgets.
func WithSanitizer(fn func(string) string) Option {
	return func(b *Binder) {
		b.sanitize = fn
	}
}

// WithHTMLSanitizer strips markup from error messages using a strict
// bluemonday policy, for hosts that render messages as HTML.
func WithHTMLSanitizer() Option {
	policy := bluemonday.StrictPolicy()
	return WithSanitizer(policy.Sanitize)
}
