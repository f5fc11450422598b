package reorder

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/widget"
)

// Option configures an Engine.
type Option func(*Engine)

// WithChangeCallback receives the full sequence after every committed move or
// toggle, shaped as a widget change event so a list can feed a form binder.
func WithChangeCallback(fn func(widget.ChangeEvent)) Option {
	return func(e *Engine) {
		e.onChange = fn
	}
}

// WithDragStart is notified when a drag begins.
func WithDragStart(fn func(index int)) Option {
	return func(e *Engine) {
		e.onDragStart = fn
	}
}

// WithDragStop is notified when a drag ends, by drop or cancel.
func WithDragStop(fn func()) Option {
	return func(e *Engine) {
		e.onDragStop = fn
	}
}

// WithLogger sets the logger used for commit tracing.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}
