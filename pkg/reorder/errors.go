package reorder

import "errors"

var (
	// ErrIndexOutOfRange reports an index outside the current sequence.
	ErrIndexOutOfRange = errors.New("reorder: index out of range")
	// ErrDuplicateItem reports two items sharing the same identity.
	ErrDuplicateItem = errors.New("reorder: duplicate item value")
	// ErrNotDragging reports a hover or drop without an active drag.
	ErrNotDragging = errors.New("reorder: no drag in progress")
	// ErrDragInProgress reports an operation refused while dragging.
	ErrDragInProgress = errors.New("reorder: drag in progress")
	// ErrDragMismatch reports a hover whose drag index differs from the
	// tracked one.
	ErrDragMismatch = errors.New("reorder: hover drag index does not match tracked drag")
	// ErrUnknownGesture reports a gesture kind the engine cannot dispatch.
	ErrUnknownGesture = errors.New("reorder: unknown gesture")
)
