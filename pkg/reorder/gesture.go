package reorder

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// GestureKind identifies a pointer gesture.
type GestureKind int

const (
	GestureStart GestureKind = iota + 1
	GestureHover
	GestureDrop
	GestureCancel
	GestureToggle
)

func (k GestureKind) String() string {
	switch k {
	case GestureStart:
		return "start"
	case GestureHover:
		return "hover"
	case GestureDrop:
		return "drop"
	case GestureCancel:
		return "cancel"
	case GestureToggle:
		return "toggle"
	default:
		return fmt.Sprintf("GestureKind(%d)", int(k))
	}
}

// Gesture is one discrete input from a pointer gesture source. Index is used
// by start and toggle, Hover by hover.
type Gesture struct {
	Kind  GestureKind
	Index int
	Hover HoverEvent
}

// GestureSource is implemented by hosts that translate their drag transport
// into gestures. Next blocks until a gesture is available and returns io.EOF
// once the source is exhausted.
type GestureSource interface {
	Next(ctx context.Context) (Gesture, error)
}

// Dispatch applies a single gesture.
func (e *Engine) Dispatch(g Gesture) error {
	switch g.Kind {
	case GestureStart:
		return e.DragStart(g.Index)
	case GestureHover:
		_, err := e.Hover(g.Hover)
		return err
	case GestureDrop:
		return e.Drop()
	case GestureCancel:
		return e.Cancel()
	case GestureToggle:
		return e.ToggleActive(g.Index)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownGesture, g.Kind)
	}
}

// Run dispatches gestures from src until it is exhausted, the context is
// cancelled or a gesture fails. A drag left open by the source stays open.
func (e *Engine) Run(ctx context.Context, src GestureSource) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		g, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reorder: read gesture: %w", err)
		}
		if err := e.Dispatch(g); err != nil {
			return fmt.Errorf("reorder: dispatch %s: %w", g.Kind, err)
		}
	}
}

// ChannelSource adapts a channel into a GestureSource. Closing the channel
// ends the stream.
type ChannelSource <-chan Gesture

// Next returns the next gesture from the channel.
func (c ChannelSource) Next(ctx context.Context) (Gesture, error) {
	select {
	case <-ctx.Done():
		return Gesture{}, ctx.Err()
	case g, ok := <-c:
		if !ok {
			return Gesture{}, io.EOF
		}
		return g, nil
	}
}

// SliceSource replays a fixed gesture script.
type SliceSource struct {
	gestures []Gesture
	pos      int
}

// NewSliceSource returns a source that yields gestures in order.
func NewSliceSource(gestures ...Gesture) *SliceSource {
	return &SliceSource{gestures: append([]Gesture(nil), gestures...)}
}

// Next returns the next scripted gesture.
func (s *SliceSource) Next(ctx context.Context) (Gesture, error) {
	if err := ctx.Err(); err != nil {
		return Gesture{}, err
	}
	if s.pos >= len(s.gestures) {
		return Gesture{}, io.EOF
	}
	g := s.gestures[s.pos]
	s.pos++
	return g, nil
}
