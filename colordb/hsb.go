package colordb

import "math"

// HSB is a color in hue (degrees), saturation and brightness (percent).
type HSB struct {
	H, S, B float64
}

// RGB is a color with channels in [0, 255] as floats; quantization happens
// only at the rasterizer boundary.
type RGB struct {
	R, G, B float64
}

// Base returns the spec's unperturbed HSB value.
func (s *Spec) Base() HSB {
	return HSB{H: s.Hue, S: s.Sat, B: s.Bright}
}

// RGB converts using the piecewise hue-sector formula the reference
// algorithm uses, not a library conversion, since downstream quantization
// is sensitive to the exact arithmetic.
func (c HSB) RGB() RGB {
	h := c.H
	s := c.S / 100.0
	v := c.B / 100.0
	chroma := s * v * 255.0
	h = h / 60.0
	secondary := chroma * (1.0 - math.Abs(math.Mod(h, 2.0)-1.0))
	var r, g, b float64
	switch {
	case h < 1.0:
		r, g, b = chroma, secondary, 0.0
	case h < 2.0:
		r, g, b = secondary, chroma, 0.0
	case h < 3.0:
		r, g, b = 0.0, chroma, secondary
	case h < 4.0:
		r, g, b = 0.0, secondary, chroma
	case h < 5.0:
		r, g, b = secondary, 0.0, chroma
	default:
		r, g, b = chroma, 0.0, secondary
	}
	m := v*255.0 - chroma
	return RGB{R: r + m, G: g + m, B: b + m}
}

// UsedSet tracks color keys in first-use order.
type UsedSet struct {
	order []Key
	seen  map[Key]struct{}
}

// NewUsedSet returns an empty used-color tracker.
func NewUsedSet() *UsedSet {
	return &UsedSet{seen: make(map[Key]struct{})}
}

// Insert records a key; repeats are ignored.
func (u *UsedSet) Insert(k Key) {
	if _, ok := u.seen[k]; ok {
		return
	}
	u.seen[k] = struct{}{}
	u.order = append(u.order, k)
}

// Extend records every key from other, preserving u's existing order.
func (u *UsedSet) Extend(other *UsedSet) {
	for _, k := range other.order {
		u.Insert(k)
	}
}

// Keys returns the keys in first-use order.
func (u *UsedSet) Keys() []Key {
	return u.order
}

// Len reports how many distinct keys were recorded.
func (u *UsedSet) Len() int {
	return len(u.order)
}
