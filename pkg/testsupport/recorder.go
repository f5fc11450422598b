package testsupport

import (
	"sync"

	"github.com/goliatone/go-formkit/pkg/binder"
	"github.com/goliatone/go-formkit/pkg/validation"
)

// Change is one recorded change callback.
type Change struct {
	Values map[string]any
	Errors validation.ErrorMap
}

// Recorder collects the host callbacks of a binder. It is safe for use from
// timer goroutines.
type Recorder struct {
	mu       sync.Mutex
	changes  []Change
	submits  []map[string]any
	rejected []validation.ErrorMap
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Options wires the recorder into a binder.
func (r *Recorder) Options() []binder.Option {
	return []binder.Option{
		binder.WithChangeCallback(func(values map[string]any, errs validation.ErrorMap) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.changes = append(r.changes, Change{Values: values, Errors: errs})
		}),
		binder.WithSubmitCallback(func(_ *binder.SubmitEvent, values map[string]any) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.submits = append(r.submits, values)
		}),
		binder.WithErrorCallback(func(errs validation.ErrorMap) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.rejected = append(r.rejected, errs)
		}),
	}
}

// Changes returns the recorded change callbacks in order.
func (r *Recorder) Changes() []Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Change(nil), r.changes...)
}

// LastChange returns the most recent change callback.
func (r *Recorder) LastChange() (Change, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.changes) == 0 {
		return Change{}, false
	}
	return r.changes[len(r.changes)-1], true
}

// Submits returns the values of every accepted submit.
func (r *Recorder) Submits() []map[string]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]map[string]any(nil), r.submits...)
}

// Rejections returns the errors of every rejected submit.
func (r *Recorder) Rejections() []validation.ErrorMap {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]validation.ErrorMap(nil), r.rejected...)
}
