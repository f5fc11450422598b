package reorder

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formkit/pkg/widget"
)

// State is the drag state of an Engine.
type State int

const (
	// Idle means no drag is in progress.
	Idle State = iota
	// Dragging means an item is being dragged.
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Rect is the vertical extent of a hovered item, in the same coordinate space
// as the pointer.
type Rect struct {
	Top    float64
	Bottom float64
}

// HoverEvent reports the pointer over the item at HoverIndex while the item
// at DragIndex is dragged.
type HoverEvent struct {
	DragIndex  int
	HoverIndex int
	PointerY   float64
	Bounds     Rect
}

// Engine is the drag state machine of one sortable list. Moves are committed
// as soon as the pointer crosses the middle of the hovered item and are not
// reverted when a drag is cancelled.
type Engine struct {
	mu        sync.Mutex
	name      string
	items     Items
	state     State
	dragIndex int

	onChange    func(widget.ChangeEvent)
	onDragStart func(index int)
	onDragStop  func()
	logger      *zap.Logger
}

// New creates an engine over a copy of items.
func New(name string, items []Item, opts ...Option) (*Engine, error) {
	if err := checkUnique(items); err != nil {
		return nil, err
	}
	e := &Engine{
		name:   name,
		items:  Items(items).Clone(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e, nil
}

func checkUnique(items []Item) error {
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if _, dup := seen[item.Value]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateItem, item.Value)
		}
		seen[item.Value] = struct{}{}
	}
	return nil
}

// Name returns the list name used as the change event target name.
func (e *Engine) Name() string {
	return e.name
}

// Items returns a copy of the current sequence.
func (e *Engine) Items() Items {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.items.Clone()
}

// State returns the drag state and, while dragging, the tracked index of the
// dragged item.
func (e *Engine) State() (State, int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Dragging {
		return Idle, -1
	}
	return Dragging, e.dragIndex
}

// DragStart begins dragging the item at index.
func (e *Engine) DragStart(index int) error {
	e.mu.Lock()
	if e.state == Dragging {
		e.mu.Unlock()
		return ErrDragInProgress
	}
	if err := e.checkIndexLocked("drag start", index); err != nil {
		e.mu.Unlock()
		return err
	}
	e.state = Dragging
	e.dragIndex = index
	e.mu.Unlock()

	if e.onDragStart != nil {
		e.onDragStart(index)
	}
	return nil
}

// Hover moves the dragged item to HoverIndex once the pointer has crossed the
// vertical middle of the hovered item: below it when dragging downward, above
// it when dragging upward. It reports whether a move was committed. Hovering
// the dragged item itself never changes the sequence.
func (e *Engine) Hover(ev HoverEvent) (bool, error) {
	e.mu.Lock()
	if e.state != Dragging {
		e.mu.Unlock()
		return false, ErrNotDragging
	}
	if err := e.checkIndexLocked("hover drag", ev.DragIndex); err != nil {
		e.mu.Unlock()
		return false, err
	}
	if err := e.checkIndexLocked("hover target", ev.HoverIndex); err != nil {
		e.mu.Unlock()
		return false, err
	}
	if ev.DragIndex != e.dragIndex {
		e.mu.Unlock()
		return false, fmt.Errorf("%w: got %d, tracking %d", ErrDragMismatch, ev.DragIndex, e.dragIndex)
	}
	if !crossedMiddle(ev) {
		e.mu.Unlock()
		return false, nil
	}

	e.items = move(e.items, ev.DragIndex, ev.HoverIndex)
	e.dragIndex = ev.HoverIndex
	change := e.changeEventLocked()
	e.mu.Unlock()

	e.logger.Debug("reorder: moved item",
		zap.String("list", e.name),
		zap.Int("from", ev.DragIndex),
		zap.Int("to", ev.HoverIndex),
	)
	e.notify(change)
	return true, nil
}

func crossedMiddle(ev HoverEvent) bool {
	if ev.DragIndex == ev.HoverIndex {
		return false
	}
	middle := (ev.Bounds.Bottom - ev.Bounds.Top) / 2
	offset := ev.PointerY - ev.Bounds.Top

	if ev.DragIndex < ev.HoverIndex && offset < middle {
		return false
	}
	if ev.DragIndex > ev.HoverIndex && offset > middle {
		return false
	}
	return true
}

// Drop ends the drag, keeping every committed move.
func (e *Engine) Drop() error {
	return e.stop()
}

// Cancel ends the drag. Moves already committed during the drag stay
// committed.
func (e *Engine) Cancel() error {
	return e.stop()
}

func (e *Engine) stop() error {
	e.mu.Lock()
	if e.state != Dragging {
		e.mu.Unlock()
		return ErrNotDragging
	}
	e.state = Idle
	e.dragIndex = 0
	e.mu.Unlock()

	if e.onDragStop != nil {
		e.onDragStop()
	}
	return nil
}

// ToggleActive flips the Active flag of the item at index. Order is
// unchanged.
func (e *Engine) ToggleActive(index int) error {
	e.mu.Lock()
	if err := e.checkIndexLocked("toggle", index); err != nil {
		e.mu.Unlock()
		return err
	}
	e.items = e.items.Clone()
	e.items[index].Active = !e.items[index].Active
	change := e.changeEventLocked()
	e.mu.Unlock()

	e.notify(change)
	return nil
}

// SetItems replaces the sequence wholesale. It is refused while dragging
// since the tracked index would no longer be meaningful. No change event is
// raised: the caller already owns the new sequence.
func (e *Engine) SetItems(items []Item) error {
	if err := checkUnique(items); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Dragging {
		return ErrDragInProgress
	}
	e.items = Items(items).Clone()
	return nil
}

// Preview returns the dragged item and the vertical offset at which its
// detached preview is drawn, relative to the list top. ok is false when no
// drag is in progress.
func (e *Engine) Preview(pointerY, listTop float64) (item Item, offsetY float64, ok bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Dragging {
		return Item{}, 0, false
	}
	return e.items[e.dragIndex], pointerY - listTop - 10, true
}

func (e *Engine) checkIndexLocked(op string, index int) error {
	if index < 0 || index >= len(e.items) {
		return fmt.Errorf("reorder: %s index %d of %d: %w", op, index, len(e.items), ErrIndexOutOfRange)
	}
	return nil
}

func (e *Engine) changeEventLocked() widget.ChangeEvent {
	return widget.ChangeEvent{Target: widget.Target{Name: e.name, Value: e.items.Clone()}}
}

func (e *Engine) notify(change widget.ChangeEvent) {
	if e.onChange != nil {
		e.onChange(change)
	}
}
