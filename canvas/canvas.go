// Package canvas defines the virtual canvas every other package works in.
// All layout happens at one fixed virtual resolution so that float
// arithmetic, and therefore the artwork itself, cannot vary with the
// requested output size.
package canvas

// Virtual canvas dimensions, in virtual units. The 4:5 aspect ratio is
// part of the artwork definition.
const (
	Width  = 2000.0
	Height = 2500.0
)

// W scales a fraction of the canvas width into virtual units.
func W(v float64) float64 { return Width * v }

// H scales a fraction of the canvas height into virtual units.
func H(v float64) float64 { return Height * v }

// Rect is an axis-aligned rectangle in virtual canvas space.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Full returns the whole virtual canvas.
func Full() Rect {
	return Rect{Left: 0, Top: 0, Right: Width, Bottom: Height}
}

// Dx returns the rectangle's width.
func (r Rect) Dx() float64 { return r.Right - r.Left }

// Dy returns the rectangle's height.
func (r Rect) Dy() float64 { return r.Bottom - r.Top }

// Intersects reports whether r and o share any area.
func (r Rect) Intersects(o Rect) bool {
	return r.Left < o.Right && o.Left < r.Right && r.Top < o.Bottom && o.Top < r.Bottom
}

// Expand grows the rectangle by m on every side.
func (r Rect) Expand(m float64) Rect {
	return Rect{Left: r.Left - m, Top: r.Top - m, Right: r.Right + m, Bottom: r.Bottom + m}
}
