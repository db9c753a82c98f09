// Package sectors implements the uniform grid used for spacing
// collisions during layout and for viewport candidate lookup during
// painting. The grid covers the canvas plus a 5% apron on every side
// so that off-canvas circles still participate in spacing.
package sectors

import (
	"github.com/pthm-cable/ringfield/canvas"
	"github.com/pthm-cable/ringfield/fastmath"
)

const numSectors = 50

const checkMargin = 0.05

// Bounds returns the region the collision grid covers.
func Bounds() canvas.Rect {
	return canvas.Rect{
		Left:   -canvas.Width * checkMargin,
		Right:  canvas.Width + canvas.Width*checkMargin,
		Top:    -canvas.Height * checkMargin,
		Bottom: canvas.Height + canvas.Height*checkMargin,
	}
}

// Collider is a circle participating in spacing checks. Seq links the
// collider back to its position in the recipe, for region queries.
type Collider struct {
	X, Y   float64
	Radius float64
	Seq    int
}

type indexer struct {
	start  float64
	length float64
}

func newIndexer(start, stop float64) indexer {
	return indexer{start: start, length: (stop - start) / numSectors}
}

func (ix indexer) index(value float64) int {
	i := int(fastmath.Clamp((value-ix.start)/ix.length, 0, numSectors-1))
	return i
}

// Grid is a fixed-resolution spatial hash over colliders. A collider
// is stored in every cell its bounding square touches, so cell scans
// may yield duplicates but never miss an overlap.
type Grid struct {
	ix, iy indexer
	cells  [numSectors * numSectors][]Collider
	fast   bool
}

// New builds an empty grid over the given bounds. With fast set,
// overlap tests use interval screening instead of the iterative square
// root; this can admit or reject borderline pairs differently and so
// produces a slightly different layout.
func New(bounds canvas.Rect, fast bool) *Grid {
	g := &Grid{fast: fast}
	g.ix = newIndexer(min(bounds.Left, bounds.Right), max(bounds.Left, bounds.Right))
	g.iy = newIndexer(min(bounds.Top, bounds.Bottom), max(bounds.Top, bounds.Bottom))
	return g
}

func (g *Grid) affected(x, y, margin float64, visit func(*[]Collider) bool) {
	xMin := g.ix.index(x - margin)
	xMax := g.ix.index(x + margin)
	yMin := g.iy.index(y - margin)
	yMax := g.iy.index(y + margin)
	for cx := xMin; cx <= xMax; cx++ {
		for cy := yMin; cy <= yMax; cy++ {
			if !visit(&g.cells[cx*numSectors+cy]) {
				return
			}
		}
	}
}

func (g *Grid) collides(a, b Collider) bool {
	limit := a.Radius + b.Radius
	if g.fast {
		if fastmath.DistLowerBound(a.X, a.Y, b.X, b.Y) >= limit {
			return false
		}
		if fastmath.DistUpperBound(a.X, a.Y, b.X, b.Y) < limit {
			return true
		}
		dx := a.X - b.X
		dy := a.Y - b.Y
		return dx*dx+dy*dy < limit*limit
	}
	return fastmath.Dist(a.X, a.Y, b.X, b.Y) < limit
}

// Insert adds c without any overlap check.
func (g *Grid) Insert(c Collider) {
	g.affected(c.X, c.Y, c.Radius, func(cell *[]Collider) bool {
		*cell = append(*cell, c)
		return true
	})
}

// TestAndAdd inserts c if it overlaps no existing collider and reports
// whether the insert happened.
func (g *Grid) TestAndAdd(c Collider) bool {
	ok := true
	g.affected(c.X, c.Y, c.Radius, func(cell *[]Collider) bool {
		for _, other := range *cell {
			if g.collides(c, other) {
				ok = false
				return false
			}
		}
		return true
	})
	if !ok {
		return false
	}
	g.affected(c.X, c.Y, c.Radius, func(cell *[]Collider) bool {
		*cell = append(*cell, c)
		return true
	})
	return true
}

// Region visits every collider whose bounding square touches r. A
// collider spanning several cells is visited once per cell, so callers
// needing distinct results must dedupe by Seq. False positives are
// possible; misses are not.
func (g *Grid) Region(r canvas.Rect, visit func(Collider)) {
	xMin := g.ix.index(r.Left)
	xMax := g.ix.index(r.Right)
	yMin := g.iy.index(r.Top)
	yMax := g.iy.index(r.Bottom)
	for cx := xMin; cx <= xMax; cx++ {
		for cy := yMin; cy <= yMax; cy++ {
			for _, c := range g.cells[cx*numSectors+cy] {
				visit(c)
			}
		}
	}
}
