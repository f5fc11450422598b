package platform

// Rect is an axis aligned box in viewport coordinates.
type Rect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// Contains reports whether the point lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Size is the extent of a viewport.
type Size struct {
	Width  float64
	Height float64
}
