package paint

import (
	"fmt"
	"math"

	"github.com/pthm-cable/ringfield/canvas"
)

// FracViewport is a crop rectangle given as fractions of the full
// canvas, so it is independent of output resolution. The zero value is
// not valid; use FullViewport or NewFracViewport.
type FracViewport struct {
	w, h, l, t float64
}

// FullViewport covers the entire canvas.
func FullViewport() FracViewport {
	return FracViewport{w: 1, h: 1, l: 0, t: 0}
}

// NewFracViewport builds a viewport from fractional width, height,
// left and top. The rectangle must have positive area and lie within
// the unit square.
func NewFracViewport(w, h, l, t float64) (FracViewport, error) {
	for _, v := range [...]float64{w, h, l, t} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return FracViewport{}, fmt.Errorf("paint: non-finite viewport component %v", v)
		}
	}
	if w <= 0 || h <= 0 {
		return FracViewport{}, fmt.Errorf("paint: viewport %gx%g has no area", w, h)
	}
	if l < 0 || t < 0 || l+w > 1 || t+h > 1 {
		return FracViewport{}, fmt.Errorf("paint: viewport %gx%g+%g+%g exceeds the canvas", w, h, l, t)
	}
	return FracViewport{w: w, h: h, l: l, t: t}, nil
}

func (v FracViewport) Width() float64  { return v.w }
func (v FracViewport) Height() float64 { return v.h }
func (v FracViewport) Left() float64   { return v.l }
func (v FracViewport) Top() float64    { return v.t }
func (v FracViewport) Right() float64  { return v.l + v.w }
func (v FracViewport) Bottom() float64 { return v.t + v.h }

// Virtual maps the fractional viewport into virtual canvas space.
func (v FracViewport) Virtual() canvas.Rect {
	return canvas.Rect{
		Left:   v.Left() * canvas.Width,
		Top:    v.Top() * canvas.Height,
		Right:  v.Right() * canvas.Width,
		Bottom: v.Bottom() * canvas.Height,
	}
}

// Dimensions returns the output pixel size for this viewport given the
// width a full-canvas render would have. The full-canvas height keeps
// the 4:5 ratio.
func (v FracViewport) Dimensions(fullWidth int) (w, h int) {
	fullHeight := fullWidth * 5 / 4
	w = int(math.Round(float64(fullWidth) * v.w))
	h = int(math.Round(float64(fullHeight) * v.h))
	return w, h
}
