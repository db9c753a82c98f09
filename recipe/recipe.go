// Package recipe holds the circle sequence produced by layout and
// consumed, read-only, by painting, animation and stats. Ordering is
// load-bearing: circles paint back to front in exactly the order they
// appear here.
package recipe

import (
	"github.com/pthm-cable/ringfield/canvas"
	"github.com/pthm-cable/ringfield/colordb"
	"github.com/pthm-cable/ringfield/fastmath"
)

// Bullseye describes the concentric ring structure of one circle.
type Bullseye struct {
	Rings   uint32
	Density float64
}

// Circle is one placed circle. X, Y and Scale are in virtual canvas
// units; Scale is the radius before any draw-time inflation.
type Circle struct {
	X, Y      float64
	Scale     float64
	Primary   colordb.HSB
	Secondary colordb.HSB
	Bullseye  Bullseye
	Group     int
	Seq       int
}

// NumDrawnRings returns how many of the circle's natural rings are
// actually painted at its scale. Small circles collapse to fewer rings
// so that thin bands stay resolvable.
func (c Circle) NumDrawnRings() uint32 {
	natural := c.Bullseye.Rings
	d := c.Bullseye.Density
	switch {
	case c.Scale < fastmath.Rescale(d, 0.15, 1.0, canvas.W(0.0039), canvas.W(0.001)):
		return minRings(natural, 1)
	case c.Scale < fastmath.Rescale(d, 0.15, 1.0, canvas.W(0.0072), canvas.W(0.0029)):
		return minRings(natural, 2)
	case c.Scale < canvas.W(0.01):
		return minRings(natural, 3)
	case c.Scale < canvas.W(0.012):
		return minRings(natural, 4)
	case c.Scale < canvas.W(0.014):
		return minRings(natural, 5)
	case c.Scale < canvas.W(0.017):
		return minRings(natural, 6)
	case c.Scale < canvas.W(0.02):
		return minRings(natural, 7)
	case c.Scale < canvas.W(0.023):
		return minRings(natural, 8)
	default:
		return natural
	}
}

func minRings(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

// Sequence is the complete recipe for one artwork: every circle in
// paint order plus the group structure the animation driver batches by.
type Sequence struct {
	Circles []Circle
	// GroupSizes[i] is the number of flow-line circles in group i.
	// Splatter circles form a trailing pseudo-group and are not
	// counted here.
	GroupSizes []int
	// SplatterStart is the index of the first splatter circle, or
	// len(Circles) when there is none.
	SplatterStart int
}

// NumGroups returns the number of batches an animation in group mode
// produces, counting the splatter tail as its own group when present.
func (s *Sequence) NumGroups() int {
	n := len(s.GroupSizes)
	if s.SplatterStart < len(s.Circles) {
		n++
	}
	return n
}

// GroupBounds returns the half-open circle index range of group g,
// where g may also name the splatter tail.
func (s *Sequence) GroupBounds(g int) (start, end int) {
	for i := 0; i < g && i < len(s.GroupSizes); i++ {
		start += s.GroupSizes[i]
	}
	if g >= len(s.GroupSizes) {
		return s.SplatterStart, len(s.Circles)
	}
	return start, start + s.GroupSizes[g]
}
