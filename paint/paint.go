// Package paint rasterizes a laid-out plan. Painting is pure: every
// painter derives per-circle decoration streams from the plan, so any
// crop of the canvas paints its pixels identically to a full render.
package paint

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/pthm-cable/ringfield/canvas"
	"github.com/pthm-cable/ringfield/colordb"
	"github.com/pthm-cable/ringfield/entropy"
	"github.com/pthm-cable/ringfield/fastmath"
	"github.com/pthm-cable/ringfield/layout"
	"github.com/pthm-cable/ringfield/recipe"
	"github.com/pthm-cable/ringfield/sectors"
	"github.com/pthm-cable/ringfield/traits"
)

func w(v float64) float64 { return canvas.W(v) }

func pi(v float64) float64 { return fastmath.Pi(v) }

// snap rounds a pixel coordinate onto the rasterizer's 26.6 fixed-point
// grid. Snapped values are exact in float64 for any plausible output
// width, so subtracting a whole-pixel offset afterwards loses nothing.
func snap(v float64) float64 {
	return math.Floor(v*64+0.5) / 64
}

// Style holds the resolution-dependent paint settings.
type Style struct {
	// Width is the pixel width a full-canvas render would have.
	Width int
	// MinCircleSteps raises the polygon segment floor for very
	// large outputs. Values at or below 8 have no effect.
	MinCircleSteps int
}

// MinSteps returns the effective polygon segment floor.
func (s Style) MinSteps() float64 {
	return max(8.0, float64(s.MinCircleSteps))
}

// cullRadius bounds the drawn extent of a circle: its outer band plus
// stroke overhang and decoration jitter, with a wide safety margin.
func cullRadius(c recipe.Circle) float64 {
	return c.Scale + w(0.1)
}

// Culler answers which circles might touch a viewport. It may return
// extra candidates but never misses one that would paint a pixel.
type Culler struct {
	grid *sectors.Grid
}

// NewCuller indexes every circle of the sequence by its drawn extent.
func NewCuller(seq *recipe.Sequence) *Culler {
	grid := sectors.New(sectors.Bounds(), false)
	for _, c := range seq.Circles {
		grid.Insert(sectors.Collider{X: c.X, Y: c.Y, Radius: cullRadius(c), Seq: c.Seq})
	}
	return &Culler{grid: grid}
}

// Mask returns a per-circle candidacy mask for the viewport.
func (cl *Culler) Mask(vp canvas.Rect, n int) []bool {
	mask := make([]bool, n)
	cl.grid.Region(vp, func(c sectors.Collider) {
		if c.X+c.Radius < vp.Left || c.X-c.Radius > vp.Right ||
			c.Y+c.Radius < vp.Top || c.Y-c.Radius > vp.Bottom {
			return
		}
		mask[c.Seq] = true
	})
	return mask
}

// Painter rasterizes circles for one virtual-space viewport into a
// pixel buffer. Painters are independent: several may run at once over
// disjoint viewports of the same plan.
type Painter struct {
	plan       *layout.Plan
	viewport   canvas.Rect
	dc         *gg.Context
	scaleRatio float64
	minSteps   float64
	mask       []bool
	zebra      bool

	// Pixel origin, split so that a chunk cell maps geometry to the
	// same raster positions as a single-pass render: originX is the
	// enclosing render's origin, already snapped to the 1/64 grid,
	// and offX the cell's whole-pixel offset within it. Vertices are
	// snapped to the same grid before the origin is subtracted, so
	// the difference stays on the grid and every chunk hands the
	// stroker exactly translated fixed-point coordinates.
	originX, originY float64
	offX, offY       float64
}

// NewPainter builds a painter for the given fractional viewport. The
// mask, usually from a shared Culler, limits which circles are even
// considered; pass nil to consider all of them.
func NewPainter(plan *layout.Plan, fvp FracViewport, style Style, mask []bool) *Painter {
	wpx, hpx := fvp.Dimensions(style.Width)
	vp := fvp.Virtual()
	return newPainterPx(plan, vp, style, mask, wpx, hpx, vp, 0, 0)
}

// newPainterPx pins the buffer dimensions and whole-pixel offset
// explicitly. parent is the viewport of the enclosing render and
// offX/offY this buffer's whole-pixel offset within it; chunk cells of
// one render share the parent so their sub-pixel geometry lines up.
func newPainterPx(plan *layout.Plan, vp canvas.Rect, style Style, mask []bool, wpx, hpx int, parent canvas.Rect, offX, offY int) *Painter {
	ratio := float64(style.Width) / canvas.Width
	return &Painter{
		plan:       plan,
		viewport:   vp,
		dc:         gg.NewContext(wpx, hpx),
		scaleRatio: ratio,
		minSteps:   style.MinSteps(),
		mask:       mask,
		zebra:      plan.Traits.ColorMode == traits.ModeZebra,
		originX:    snap(parent.Left * ratio),
		originY:    snap(parent.Top * ratio),
		offX:       float64(offX),
		offY:       float64(offY),
	}
}

// FillBackground floods the buffer with the plan's background color.
func (p *Painter) FillBackground() {
	p.dc.SetColor(rgbaOf(p.plan.Background))
	p.dc.Clear()
}

// PaintCircles paints the sequence range [from, to) in order.
func (p *Painter) PaintCircles(from, to int) {
	for i := from; i < to; i++ {
		if p.mask != nil && !p.mask[i] {
			continue
		}
		p.paintCircle(p.plan.Seq.Circles[i])
	}
}

// Image returns the painted buffer.
func (p *Painter) Image() image.Image {
	return p.dc.Image()
}

func (p *Painter) paintCircle(c recipe.Circle) {
	cr := cullRadius(c)
	if c.X+cr < p.viewport.Left || c.X-cr > p.viewport.Right ||
		c.Y+cr < p.viewport.Top || c.Y-cr > p.viewport.Bottom {
		return
	}

	rng := p.plan.DecorStream(c.Seq)
	if c.Seq >= p.plan.Seq.SplatterStart {
		// Splatter accents are single-colored and never stacked.
		p.drawRingDot(c, rng)
		return
	}
	if st := p.plan.Stack; st.Ok {
		shadow := c
		shadow.X += st.Dx
		shadow.Y += st.Dy
		shadow.Primary = c.Secondary
		shadow.Bullseye.Density = c.Bullseye.Density * rng.Gauss(0.99, 0.03)
		p.drawRingDot(shadow, rng)
	}
	if p.zebra {
		p.drawRingDot(c, rng)
	} else {
		c.Secondary = c.Primary
		p.drawRingDot(c, rng)
	}
}

// drawRingDot paints one circle as a bullseye of concentric bands,
// alternating primary and secondary from the outside in.
func (p *Painter) drawRingDot(c recipe.Circle, rng *entropy.Engine) {
	numRings := c.NumDrawnRings()
	bandStep := c.Scale / float64(numRings)

	// lower fill density means thicker bands
	bandThickness := max(w(0.0004), bandStep*(1.0-c.Bullseye.Density))

	// more rings leave less room to shift them around
	varianceAdjust := fastmath.Rescale(c.Bullseye.Density, 0.1, 1.0, 0.5, 1.2)
	var positionVariance float64
	if numRings >= 7 {
		positionVariance = varianceAdjust * fastmath.Rescale(float64(numRings), 7.0, 9.0, 0.008, 0.005)
	} else {
		positionVariance = varianceAdjust * fastmath.Rescale(float64(numRings), 1.0, 7.0, 0.022, 0.008)
	}

	bandNum := 0
	for r := c.Scale; r > w(0.0004); r -= bandStep {
		hsb := c.Primary
		if bandNum%2 == 1 {
			hsb = c.Secondary
		}
		bandNum++

		bandCenterX := rng.Gauss(c.X, min(w(0.0005), r*positionVariance))
		bandCenterY := rng.Gauss(c.Y, min(w(0.0005), r*positionVariance))

		thicknessVariance := fastmath.Rescale(c.Bullseye.Density, 0.1, 1.0, 0.01, 0.13)
		finalThickness := rng.Gauss(bandThickness, bandThickness*thicknessVariance)
		if r < w(0.002) && numRings == 1 {
			finalThickness = fastmath.Rescale(c.Bullseye.Density, 0.0, 1.0, r, r*0.25)
		}

		// avoid super fat, large donuts
		if numRings == 1 && c.Scale > w(0.02) {
			finalThickness = fastmath.Rescale(finalThickness, w(0.003), w(0.08), w(0.003), w(0.05))
			finalThickness = min(
				finalThickness,
				fastmath.Rescale(c.Scale, 0.0, w(0.1), w(0.003), w(0.04)),
				w(0.04),
			)
		}

		p.drawMessyCircle(bandCenterX, bandCenterY, r, finalThickness, varianceAdjust, hsb, rng)
	}
}

// drawMessyCircle strokes one band as many overlapping thin circles so
// it picks up a hand-drawn texture.
func (p *Painter) drawMessyCircle(x, y, r, thickness, varianceAdjust float64, hsb colordb.HSB, rng *entropy.Engine) {
	src := rgbaOf(hsb)

	var numRoundsDivisor float64
	switch {
	case thickness > w(0.02):
		numRoundsDivisor = fastmath.Rescale(thickness, w(0.02), w(0.04), w(0.00021), w(0.00022))
	case thickness > w(0.006):
		numRoundsDivisor = fastmath.Rescale(thickness, w(0.006), w(0.02), w(0.00015), w(0.00021))
	case thickness > w(0.003):
		numRoundsDivisor = fastmath.Rescale(thickness, w(0.003), w(0.006), w(0.00012), w(0.00015))
	default:
		numRoundsDivisor = fastmath.Rescale(thickness, 0.0, w(0.006), w(0.00016), w(0.00012))
	}
	numRounds := int(math.Ceil(max(thickness/numRoundsDivisor, 1.0)))

	for i := 0; i < numRounds; i++ {
		ri := fastmath.Rescale(float64(i), 0.0, float64(numRounds), r, r-thickness)
		varianceRatio := varianceAdjust * fastmath.Rescale(thickness, w(0.001), w(0.04), 0.08, 0.03)
		positionVariance := varianceAdjust * min(w(0.0015), thickness*varianceRatio)
		thicknessVarianceMultiplier := 1.0
		if i < 5 {
			positionVariance *= 1.5
			thicknessVarianceMultiplier = 2.0
		}
		cx := rng.Gauss(x, positionVariance)
		cy := rng.Gauss(y, positionVariance)

		var meanThickness float64
		switch {
		case thickness > w(0.02):
			meanThickness = fastmath.Rescale(thickness, w(0.02), w(0.04), w(0.0007), w(0.00073))
		case thickness > w(0.006):
			meanThickness = fastmath.Rescale(thickness, w(0.006), w(0.02), w(0.0005), w(0.0007))
		default:
			meanThickness = fastmath.Rescale(thickness, w(0.001), w(0.006), w(0.0001), w(0.0005))
		}
		thicknessVarianceFactor := thicknessVarianceMultiplier * fastmath.Rescale(thickness, w(0.001), w(0.04), 0.25, 1.1)
		singleLineVariance := meanThickness * thicknessVarianceFactor
		if ri < w(0.002) {
			singleLineVariance = meanThickness * 0.1
		}
		lineThickness := max(rng.Gauss(meanThickness, singleLineVariance), w(0.0002))
		p.drawCleanCircle(cx, cy, ri, lineThickness, 0.007, src, rng)
	}
}

// drawCleanCircle strokes a single slightly eccentric circle as a
// polygon. The segment count scales with radius so the polygon reads
// as a circle at the output resolution.
func (p *Painter) drawCleanCircle(x, y, r, thickness, eccentricity float64, src color.RGBA, rng *entropy.Engine) {
	r = max(r-thickness*0.5, w(0.0002))
	strokeWeight := thickness * 0.95

	variance := min(w(0.0015), r*eccentricity)
	rx := rng.Gauss(r, variance)
	ry := rng.Gauss(r, variance)

	// One uniform deviate is reserved here for a starting angle that
	// the stroking below never consumes. Dropping the draw would
	// shift every later draw in this circle's stream.
	rng.Rnd()

	if x+(rx+strokeWeight/2.0) < p.viewport.Left ||
		x-(rx+strokeWeight/2.0) > p.viewport.Right ||
		y+(ry+strokeWeight/2.0) < p.viewport.Top ||
		y-(ry+strokeWeight/2.0) > p.viewport.Bottom {
		// Entirely outside this painter's crop. No draws below are
		// stateful, so skipping the stroke is safe.
		return
	}

	numSteps := max(r*pi(2.0)/w(0.0005), p.minSteps)
	step := pi(2.0) / numSteps

	first := true
	for theta := 0.0; theta < pi(2.0); theta += step {
		px := snap((x+rx*math.Cos(theta))*p.scaleRatio) - p.originX - p.offX
		py := snap((y+ry*math.Sin(theta))*p.scaleRatio) - p.originY - p.offY
		if first {
			p.dc.MoveTo(px, py)
			first = false
		} else {
			p.dc.LineTo(px, py)
		}
	}
	p.dc.ClosePath()
	p.dc.SetColor(src)
	p.dc.SetLineWidth(strokeWeight * p.scaleRatio)
	p.dc.Stroke()
}

// rgbaOf converts a perturbed HSB color to its output pixel color.
func rgbaOf(hsb colordb.HSB) color.RGBA {
	rgb := hsb.RGB()
	return color.RGBA{
		R: uint8(fastmath.Clamp(rgb.R, 0, 255)),
		G: uint8(fastmath.Clamp(rgb.G, 0, 255)),
		B: uint8(fastmath.Clamp(rgb.B, 0, 255)),
		A: 255,
	}
}
