package platform

import "sync"

// OutsideClick dispatches clicks to handlers whose region does not contain
// the click point. Regions are registered by components such as popovers
// that close when the user clicks elsewhere.
type OutsideClick struct {
	mu       sync.Mutex
	nextID   int
	handlers []outsideHandler
}

type outsideHandler struct {
	id     int
	region func() Rect
	fn     func()
}

// NewOutsideClick returns an empty detector.
func NewOutsideClick() *OutsideClick {
	return &OutsideClick{}
}

// Register adds a handler for clicks outside region. The returned function
// removes it and is safe to call more than once.
func (o *OutsideClick) Register(region Rect, fn func()) (unregister func()) {
	return o.RegisterFunc(func() Rect { return region }, fn)
}

// RegisterFunc is like Register but evaluates the region on every click, for
// components that move.
func (o *OutsideClick) RegisterFunc(region func() Rect, fn func()) (unregister func()) {
	o.mu.Lock()
	o.nextID++
	id := o.nextID
	o.handlers = append(o.handlers, outsideHandler{id: id, region: region, fn: fn})
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			defer o.mu.Unlock()
			for idx, handler := range o.handlers {
				if handler.id == id {
					o.handlers = append(o.handlers[:idx:idx], o.handlers[idx+1:]...)
					return
				}
			}
		})
	}
}

// Click notifies, in registration order, every handler whose region does not
// contain the point. It returns how many handlers were notified.
func (o *OutsideClick) Click(x, y float64) int {
	o.mu.Lock()
	handlers := append([]outsideHandler(nil), o.handlers...)
	o.mu.Unlock()

	notified := 0
	for _, handler := range handlers {
		if handler.region().Contains(x, y) {
			continue
		}
		if handler.fn != nil {
			handler.fn()
		}
		notified++
	}
	return notified
}

// Len returns the number of registered handlers.
func (o *OutsideClick) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.handlers)
}
