package popover

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-formkit/pkg/platform"
)

// Placement is the side of its anchor a popover opens on.
type Placement string

const (
	Top    Placement = "top"
	Bottom Placement = "bottom"
	Left   Placement = "left"
	Right  Placement = "right"
)

// ParsePlacement validates a placement name.
func ParsePlacement(name string) (Placement, error) {
	switch p := Placement(name); p {
	case Top, Bottom, Left, Right:
		return p, nil
	}
	return "", fmt.Errorf("popover: unknown placement %q", name)
}

// Resolve returns the placement to use for a popover laid out at box when
// preferred was requested. A popover overflowing the viewport on its
// preferred side flips to the opposite side.
func Resolve(preferred Placement, box platform.Rect, viewport platform.Size) Placement {
	switch preferred {
	case Top:
		if box.Top < 0 {
			return Bottom
		}
	case Bottom:
		if box.Bottom > viewport.Height {
			return Top
		}
	case Left:
		if box.Left < 0 {
			return Right
		}
	case Right:
		if box.Right > viewport.Width {
			return Left
		}
	}
	return preferred
}

// Popover tracks the visibility and placement of one popover.
type Popover struct {
	mu        sync.Mutex
	preferred Placement
	placement Placement
	showing   bool
	bounds    platform.Rect

	onRequestClose func()
	unregister     func()
}

// Option configures a Popover.
type Option func(*Popover)

// WithPlacement sets the preferred placement. Bottom is the default.
func WithPlacement(p Placement) Option {
	return func(po *Popover) {
		po.preferred = p
		po.placement = p
	}
}

// WithRequestClose is called when the user clicks outside a showing
// popover. The host decides whether to actually hide it.
func WithRequestClose(fn func()) Option {
	return func(po *Popover) {
		po.onRequestClose = fn
	}
}

// New creates a hidden popover.
func New(opts ...Option) *Popover {
	p := &Popover{preferred: Bottom, placement: Bottom}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(p)
	}
	return p
}

// Attach registers the popover with the outside click detector. Clicks
// outside its current bounds reach HandleClickOutside. Detach undoes it.
func (p *Popover) Attach(detector *platform.OutsideClick) {
	if detector == nil {
		return
	}
	unregister := detector.RegisterFunc(p.Bounds, p.HandleClickOutside)

	p.mu.Lock()
	previous := p.unregister
	p.unregister = unregister
	p.mu.Unlock()

	if previous != nil {
		previous()
	}
}

// Detach removes the popover from its detector.
func (p *Popover) Detach() {
	p.mu.Lock()
	unregister := p.unregister
	p.unregister = nil
	p.mu.Unlock()

	if unregister != nil {
		unregister()
	}
}

// SetShowing shows or hides the popover.
func (p *Popover) SetShowing(showing bool) {
	p.mu.Lock()
	p.showing = showing
	p.mu.Unlock()
}

// Showing reports visibility.
func (p *Popover) Showing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.showing
}

// Placement returns the resolved placement.
func (p *Popover) Placement() Placement {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.placement
}

// Bounds returns the last laid out box.
func (p *Popover) Bounds() platform.Rect {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.bounds
}

// Reposition records the laid out box and re-resolves the placement from the
// current one. It reports whether the placement changed.
func (p *Popover) Reposition(box platform.Rect, viewport platform.Size) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bounds = box
	next := Resolve(p.placement, box, viewport)
	if next == p.placement {
		return false
	}
	p.placement = next
	return true
}

// HandleClickOutside requests closing, but only while showing.
func (p *Popover) HandleClickOutside() {
	p.mu.Lock()
	showing := p.showing
	fn := p.onRequestClose
	p.mu.Unlock()

	if showing && fn != nil {
		fn()
	}
}
