// Package flowfield builds the direction field that flow lines follow.
// The field is a fixed lattice of angles covering the canvas plus a 20%
// apron, sampled every 5 virtual units on each axis.
package flowfield

import (
	"math"

	"github.com/pthm-cable/ringfield/canvas"
	"github.com/pthm-cable/ringfield/entropy"
	"github.com/pthm-cable/ringfield/fastmath"
	"github.com/pthm-cable/ringfield/traits"
)

// Lattice bounds and resolution. Cols and Rows follow from the bounds
// and spacing; they are fixed because the lattice size is part of the
// artwork definition.
const (
	Left   = canvas.Width * -0.2
	Right  = canvas.Width * 1.2
	Top    = canvas.Height * -0.2
	Bottom = canvas.Height * 1.2

	Spacing = 5.0
	Cols    = 560
	Rows    = 700
)

func pi(v float64) float64 { return fastmath.Pi(v) }

// Direction tells whether a radial field points toward or away from
// its center.
type Direction uint8

const (
	In Direction = iota
	Out
)

// Rotation is the winding sense of a radial field.
type Rotation uint8

const (
	Ccw Rotation = iota
	Cw
)

// Spec is the drawn parameterization of a flow field, derived from the
// seed's traits plus entropy draws.
type Spec struct {
	Linear bool

	// DefaultTheta is the fallback heading used when a group
	// ignores the field entirely. Radial specs keep one too.
	DefaultTheta float64

	// Radial parameters; meaningful only when Linear is false.
	Circularity float64
	Direction   Direction
	Rotation    Rotation
}

// SpecFromTraits derives the field parameterization. Draw order is
// load-bearing.
func SpecFromTraits(tr *traits.Traits, rng *entropy.Engine) Spec {
	linear := func(defaultTheta float64) Spec {
		if rng.Odds(0.5) {
			defaultTheta = pi(1.0) - defaultTheta // left-right
		}
		if rng.Odds(0.5) {
			defaultTheta += pi(1.0) // up-down
		}
		return Spec{Linear: true, DefaultTheta: fastmath.Modulo(defaultTheta, pi(2.0))}
	}
	radial := func(circularity float64) Spec {
		direction := Out
		if rng.Odds(0.5) {
			direction = In
		}
		rotation := Cw
		if rng.Odds(0.5) {
			rotation = Ccw
		}
		defaultTheta := entropy.WeightedChoice(rng, []entropy.Weighted[float64]{
			{Value: pi(0.0), Weight: 1},
			{Value: pi(0.25), Weight: 1},
			{Value: pi(0.5), Weight: 1},
		})
		return Spec{
			Circularity:  circularity,
			Direction:    direction,
			Rotation:     rotation,
			DefaultTheta: defaultTheta,
		}
	}

	switch tr.FlowField {
	case traits.FlowHorizontal:
		return linear(pi(0.0))
	case traits.FlowDiagonal:
		return linear(pi(0.25))
	case traits.FlowVertical:
		return linear(pi(0.5))
	case traits.FlowRandomLinear:
		return linear(rng.Uniform(pi(0.0), pi(0.5)))
	case traits.FlowExplosive:
		return radial(rng.Uniform(0.2, 0.4))
	case traits.FlowSpiral:
		return radial(rng.Uniform(0.4, 0.75))
	case traits.FlowCircular:
		return radial(min(rng.Uniform(0.75, 1.02), 1.0))
	case traits.FlowRandomRadial:
		return radial(fastmath.Clamp(rng.Uniform(-0.01, 1.01), 0.0, 1.0))
	default:
		panic("flowfield: unknown flow field kind")
	}
}

// Field is the built angle lattice, indexed column-major.
type Field struct {
	thetas []float64
}

// Build samples the field for spec, then layers on the turbulence
// disturbances.
func Build(spec Spec, tr *traits.Traits, rng *entropy.Engine) *Field {
	var f *Field
	if spec.Linear {
		f = constantField(spec.DefaultTheta)
	} else {
		f = rawCircular(spec, tr.Version, rng)
	}
	f.adjust(buildDisturbances(tr, rng))
	return f
}

func constantField(theta float64) *Field {
	thetas := make([]float64, Cols*Rows)
	for i := range thetas {
		thetas[i] = theta
	}
	return &Field{thetas: thetas}
}

func rawCircular(spec Spec, version traits.Version, rng *entropy.Engine) *Field {
	rot := spec.Circularity / 2.0
	if spec.Direction == Out {
		rot = 1.0 - rot
	}
	if spec.Rotation == Cw {
		rot = 2.0 - rot
	}
	rot = pi(rot)

	f := constantField(0.0)

	cx := func() float64 {
		fst := rng.Uniform(canvas.W(0.0), canvas.W(1.0))
		return entropy.WeightedChoice(rng, []entropy.Weighted[float64]{
			{Value: fst, Weight: 2.0},
			{Value: canvas.W(-2.0 / 3.0), Weight: 0.5},
			{Value: canvas.W(-1.0 / 3.0), Weight: 1.0},
			{Value: canvas.W(0.0), Weight: 1.0},
			{Value: canvas.W(1.0 / 3.0), Weight: 1.5},
			{Value: canvas.W(1.0 / 2.0), Weight: 1.5},
			{Value: canvas.W(2.0 / 3.0), Weight: 1.5},
			{Value: canvas.W(1.0), Weight: 1.5},
			{Value: canvas.W(4.0 / 3.0), Weight: 1.0},
			{Value: canvas.W(5.0 / 3.0), Weight: 0.5},
		})
	}()
	// Older revisions fed a NaN weight into this table, which makes
	// the weighted choice degenerate to its final entry. Seeds minted
	// before the fix must keep that behavior.
	fixedWeight := math.NaN()
	if version == traits.V1 {
		fixedWeight = 0.5
	}
	cy := func() float64 {
		fst := rng.Uniform(canvas.H(0.0), canvas.H(1.0))
		return entropy.WeightedChoice(rng, []entropy.Weighted[float64]{
			{Value: fst, Weight: 2.0},
			{Value: canvas.H(-2.0 / 3.0), Weight: fixedWeight},
			{Value: canvas.H(-1.0 / 3.0), Weight: 1.0},
			{Value: canvas.H(0.0), Weight: 1.0},
			{Value: canvas.H(1.0 / 3.0), Weight: 1.5},
			{Value: canvas.H(1.0 / 2.0), Weight: 1.5},
			{Value: canvas.H(2.0 / 3.0), Weight: 1.5},
			{Value: canvas.H(1.0), Weight: 1.0},
			{Value: canvas.H(4.0 / 3.0), Weight: 1.0},
			{Value: canvas.H(5.0 / 3.0), Weight: 0.5},
		})
	}()

	x := Left
	for col := 0; col < Cols; col++ {
		y := Top
		for row := 0; row < Rows; row++ {
			a := fastmath.Angle(x, y, cx, cy)
			if math.IsNaN(a) {
				a = 0.0
			}
			f.thetas[col*Rows+row] = a + rot
			y += Spacing
		}
		x += Spacing
	}
	return f
}

type disturbance struct {
	cx, cy float64
	theta  float64
	radius float64
}

func buildDisturbances(tr *traits.Traits, rng *entropy.Engine) []disturbance {
	var num int
	var thetaVariance float64
	switch tr.Turbulence {
	case traits.TurbulenceNone:
		num = 0
		thetaVariance = 0.0
	case traits.TurbulenceLow:
		num = entropy.WeightedChoice(rng, []entropy.Weighted[int]{
			{Value: 10, Weight: 2}, {Value: 15, Weight: 3},
			{Value: 20, Weight: 2}, {Value: 30, Weight: 1},
		})
		thetaVariance = entropy.WeightedChoice(rng, []entropy.Weighted[float64]{
			{Value: pi(0.005), Weight: 1}, {Value: pi(0.01), Weight: 1},
		})
	case traits.TurbulenceHigh:
		num = entropy.WeightedChoice(rng, []entropy.Weighted[int]{
			{Value: 20, Weight: 1}, {Value: 30, Weight: 2}, {Value: 40, Weight: 3},
			{Value: 50, Weight: 2}, {Value: 60, Weight: 1},
		})
		thetaVariance = entropy.WeightedChoice(rng, []entropy.Weighted[float64]{
			{Value: pi(0.05), Weight: 1}, {Value: pi(0.1), Weight: 1}, {Value: pi(0.15), Weight: 1},
		})
	}

	ds := make([]disturbance, 0, num)
	for i := 0; i < num; i++ {
		cx := rng.Uniform(Left, Right)
		cy := rng.Uniform(Top, Bottom)
		theta := rng.Gauss(0.0, thetaVariance)
		radius := max(math.Abs(rng.Gauss(canvas.W(0.35), canvas.W(0.35))), canvas.W(0.1))
		ds = append(ds, disturbance{cx: cx, cy: cy, theta: theta, radius: radius})
	}
	return ds
}

func (f *Field) adjust(ds []disturbance) {
	for _, d := range ds {
		minI := max(0, int(math.Floor((d.cx-d.radius-Left)/Spacing)))
		maxI := min(Cols-1, max(0, int(math.Ceil((d.cx+d.radius-Left)/Spacing))))
		minJ := max(0, int(math.Floor((d.cy-d.radius-Top)/Spacing)))
		maxJ := min(Rows-1, max(0, int(math.Ceil((d.cy+d.radius-Top)/Spacing))))

		for i := minI; i <= maxI; i++ {
			x := Left + Spacing*float64(i)
			for j := minJ; j <= maxJ; j++ {
				y := Top + Spacing*float64(j)
				dist := fastmath.Dist(d.cx, d.cy, x, y)
				f.thetas[i*Rows+j] += fastmath.Rescale(dist, 0.0, d.radius, d.theta, 0.0)
			}
		}
	}
}

// In reports whether (x, y) lies inside the lattice bounds. Flow lines
// terminate once they step outside.
func (f *Field) In(x, y float64) bool {
	return x >= Left && x < Right && y >= Top && y < Bottom
}

// Theta returns the lattice angle at the cell containing (x, y). The
// caller must have checked In first.
func (f *Field) Theta(x, y float64) float64 {
	xi := int(math.Floor((x - Left) / Spacing))
	yi := int(math.Floor((y - Top) / Spacing))
	return f.thetas[xi*Rows+yi]
}

// Ignore carries the odds that a whole flow line group disregards the
// field and follows the default heading instead.
type Ignore struct {
	Odds         float64
	DefaultTheta float64
}

// BuildIgnore draws the group-level field-ignore odds.
func BuildIgnore(spec Spec, rng *entropy.Engine) Ignore {
	odds := entropy.WeightedChoice(rng, []entropy.Weighted[float64]{
		{Value: 0.0, Weight: 10}, {Value: 0.5, Weight: 2},
		{Value: 0.8, Weight: 1}, {Value: 0.9, Weight: 1},
	})
	return Ignore{Odds: odds, DefaultTheta: spec.DefaultTheta}
}
