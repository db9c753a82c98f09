package layout

import (
	"math"

	"github.com/pthm-cable/ringfield/canvas"
	"github.com/pthm-cable/ringfield/entropy"
	"github.com/pthm-cable/ringfield/fastmath"
	"github.com/pthm-cable/ringfield/recipe"
	"github.com/pthm-cable/ringfield/traits"
)

// SpacingSpec controls the collision radius around each placed circle:
// radius = max(scale*Multiplier + Constant, scale*0.75).
type SpacingSpec struct {
	Multiplier float64
	Constant   float64
}

// SpacingFromTraits draws the spacing parameters for the seed's spacing
// trait. Draw order is load-bearing.
func SpacingFromTraits(tr *traits.Traits, rng *entropy.Engine) SpacingSpec {
	switch tr.Spacing {
	case traits.SpacingDense:
		return SpacingSpec{
			Multiplier: max(rng.Gauss(1.0, 0.04), 0.98),
			Constant:   canvas.W(max(rng.Gauss(0.0, 0.002), 0.0)),
		}
	case traits.SpacingMedium:
		if rng.Odds(0.333) {
			// mostly proportional
			return SpacingSpec{
				Multiplier: 1.15 + max(rng.Gauss(0.0, 0.2), 0.0),
				Constant:   canvas.W(max(rng.Gauss(0.0, 0.001), 0.0)),
			}
		}
		if rng.Odds(0.5) {
			// mostly constant
			return SpacingSpec{
				Multiplier: rng.Uniform(1.0, 1.03),
				Constant:   canvas.W(0.003) + canvas.W(max(rng.Gauss(0.0, 0.005), 0.0)),
			}
		}
		// some of both
		return SpacingSpec{
			Multiplier: 1.05 + max(rng.Gauss(0.0, 0.1), 0.0),
			Constant:   canvas.W(0.002) + canvas.W(max(rng.Gauss(0.0, 0.0015), 0.0)),
		}
	default: // sparse
		if rng.Odds(0.333) {
			return SpacingSpec{
				Multiplier: 1.25 + max(rng.Gauss(0.0, 0.5), 0.0),
				Constant:   canvas.W(max(rng.Gauss(0.0, 0.002), 0.0)),
			}
		}
		if rng.Odds(0.5) {
			return SpacingSpec{
				Multiplier: rng.Uniform(1.01, 1.08),
				Constant:   canvas.W(0.008) + canvas.W(max(rng.Gauss(0.0, 0.02), 0.0)),
			}
		}
		return SpacingSpec{
			Multiplier: 1.15 + max(rng.Gauss(0.0, 0.3), 0.0),
			Constant:   canvas.W(0.005) + canvas.W(max(rng.Gauss(0.0, 0.006), 0.0)),
		}
	}
}

// Radius returns the collision radius for a circle of the given scale.
// Larger circles get a floor on the multiplier so they never overlap
// visibly.
func (s SpacingSpec) Radius(scale float64) float64 {
	multiplier := s.Multiplier
	if scale > canvas.W(0.015) {
		multiplier = max(multiplier, 1.02)
	}
	return max(scale*multiplier+s.Constant, scale*0.75)
}

// ColorChangeOdds holds the per-group and per-line probabilities of
// advancing through the color sequence.
type ColorChangeOdds struct {
	Group float64
	Line  float64
}

// ColorChangeFromTraits draws the color change odds from the structure
// and variety traits, scaled by ring size and spacing.
func ColorChangeFromTraits(tr *traits.Traits, rng *entropy.Engine) ColorChangeOdds {
	var group, line float64
	switch {
	case tr.Structure == traits.StructureShadows && tr.ColorVariety == traits.VarietyLow:
		group, line = rng.Gauss(0.15, 0.15), rng.Uniform(-0.004, 0.002)
	case tr.Structure == traits.StructureShadows && tr.ColorVariety == traits.VarietyMedium:
		group, line = rng.Gauss(0.55, 0.2), rng.Uniform(0.01, 0.01)
	case tr.Structure == traits.StructureShadows:
		group, line = rng.Gauss(0.9, 0.1), rng.Uniform(-0.1, 0.2)
	case tr.Structure == traits.StructureFormation && tr.ColorVariety == traits.VarietyLow:
		group, line = rng.Gauss(0.5, 0.2), rng.Uniform(-0.002, 0.003)
	case tr.Structure == traits.StructureFormation && tr.ColorVariety == traits.VarietyMedium:
		group, line = rng.Gauss(0.75, 0.2), rng.Uniform(-0.005, 0.01)
	case tr.Structure == traits.StructureFormation:
		group, line = rng.Gauss(0.9, 0.1), rng.Uniform(-0.1, 0.2)
	case tr.ColorVariety == traits.VarietyLow:
		group, line = rng.Gauss(0.11, 0.08), rng.Uniform(-0.002, 0.0015)
	case tr.ColorVariety == traits.VarietyMedium:
		group, line = rng.Gauss(0.25, 0.1), rng.Uniform(-0.01, 0.01)
	default:
		group, line = rng.Gauss(0.7, 0.2), rng.Uniform(-0.1, 0.2)
	}

	var mult1 float64
	switch tr.RingSize {
	case traits.RingSmall:
		mult1 = 0.5
	case traits.RingMedium:
		mult1 = 1.0
	default:
		mult1 = 1.1
	}
	var mult2 float64
	switch tr.Spacing {
	case traits.SpacingDense:
		mult2 = 1.0
	case traits.SpacingMedium:
		mult2 = 1.1
	default:
		mult2 = 2.0
	}

	mult := mult1 * mult2
	return ColorChangeOdds{
		Group: fastmath.Clamp(group*mult, 0.0, 1.0),
		Line:  fastmath.Clamp(line*mult, 0.0, 1.0),
	}
}

// Scale tier tables shared by the generators. Indexed small to large.
var (
	scaleXS = [...]float64{canvas.Width * 0.0018, canvas.Width * 0.0025}
	scaleS  = [...]float64{canvas.Width * 0.003, canvas.Width * 0.004, canvas.Width * 0.006}
	scaleM  = [...]float64{canvas.Width * 0.012, canvas.Width * 0.017, canvas.Width * 0.023, canvas.Width * 0.048}
	scaleL  = [...]float64{canvas.Width * 0.1, canvas.Width * 0.15, canvas.Width * 0.2, canvas.Width * 0.3}
)

type scaleKind uint8

const (
	scaleConstant scaleKind = iota
	scaleVariable
	scaleWild
)

// ScaleGenerator draws circle scales for successive flow lines. The
// mean migrates between lines for the variable and wild kinds.
type ScaleGenerator struct {
	kind    scaleKind
	mean    float64
	choices []entropy.Weighted[float64]
}

func wf(pairs ...float64) []entropy.Weighted[float64] {
	out := make([]entropy.Weighted[float64], 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, entropy.Weighted[float64]{Value: pairs[i], Weight: pairs[i+1]})
	}
	return out
}

// ScaleFromTraits draws the initial scale distribution. A degenerate
// draw for the constant kind returns a DegeneracyError instead of a
// generator.
func ScaleFromTraits(tr *traits.Traits, rng *entropy.Engine) (*ScaleGenerator, error) {
	switch tr.SizeVariety {
	case traits.SizeConstant:
		var choices []entropy.Weighted[float64]
		switch tr.RingSize {
		case traits.RingSmall:
			choices = wf(scaleXS[1], 2, scaleS[0], 3, scaleS[1], 2, scaleS[2], 1)
		case traits.RingMedium:
			choices = wf(scaleM[0], 2, scaleM[1], 3, scaleM[2], 2, scaleM[3], 1)
		default:
			choices = wf(scaleL[0], 3, scaleL[1], 2, scaleL[2], 1)
		}
		mean := entropy.WeightedChoice(rng, choices)
		if math.IsNaN(mean) || mean == 0.0 {
			return nil, &DegeneracyError{Stage: "scale generator", Value: mean}
		}
		return &ScaleGenerator{kind: scaleConstant, mean: mean}, nil

	case traits.SizeVariable:
		var choices []entropy.Weighted[float64]
		switch tr.RingSize {
		case traits.RingSmall:
			choices = wf(scaleXS[1], 1.3, scaleS[0], 2, scaleS[1], 5, scaleS[2], 8, scaleM[0], 3)
		case traits.RingMedium:
			choices = wf(scaleS[2], 2, scaleM[0], 8, scaleM[1], 8, scaleM[2], 13, scaleM[3], 8, scaleL[0], 5)
		default:
			choices = wf(
				scaleM[1], 0.5, scaleM[2], 2, scaleM[3], 2,
				scaleL[0], 5, scaleL[1], 8, scaleL[2], 8, scaleL[3], 4,
			)
		}
		mean := entropy.WeightedChoice(rng, choices)
		return &ScaleGenerator{kind: scaleVariable, mean: mean, choices: choices}, nil

	default: // wild
		var starts []float64
		var choices []entropy.Weighted[float64]
		switch tr.RingSize {
		case traits.RingSmall:
			starts = []float64{scaleS[1], scaleS[2], scaleM[0], scaleM[1], scaleM[2]}
			choices = wf(
				scaleXS[0], 3, scaleXS[1], 3, scaleS[0], 3, scaleS[1], 4,
				scaleS[2], 4, scaleM[0], 3, scaleM[1], 3, scaleM[2], 3,
			)
		case traits.RingMedium:
			starts = []float64{scaleS[2], scaleM[0], scaleM[1], scaleM[2], scaleM[3], scaleL[0], scaleL[1]}
			choices = wf(
				scaleXS[0], 1, scaleXS[1], 1, scaleS[0], 1, scaleS[1], 1, scaleS[2], 2,
				scaleM[0], 3, scaleM[1], 3, scaleM[2], 3, scaleM[3], 3,
				scaleL[0], 2, scaleL[1], 2, scaleL[2], 1,
			)
		default:
			starts = []float64{scaleL[0], scaleL[1], scaleL[2], scaleL[3]}
			choices = wf(
				scaleXS[0], 1, scaleXS[1], 1, scaleS[0], 1, scaleS[1], 1, scaleS[2], 1,
				scaleM[0], 1, scaleM[1], 1, scaleM[2], 1,
				scaleL[0], 2, scaleL[1], 5, scaleL[2], 5, scaleL[3], 5,
			)
		}
		mean := entropy.Choice(rng, starts)
		return &ScaleGenerator{kind: scaleWild, mean: mean, choices: choices}, nil
	}
}

// Next draws the scale for one flow line.
func (g *ScaleGenerator) Next(rng *entropy.Engine) float64 {
	switch g.kind {
	case scaleConstant:
		return rng.Gauss(g.mean, min(canvas.W(0.01), g.mean*0.05))
	case scaleVariable:
		return rng.Gauss(g.mean, min(canvas.W(0.035), g.mean*0.15))
	default:
		return rng.Gauss(g.mean, g.mean*0.3)
	}
}

// Change migrates the mean between flow lines. Constant generators
// never move.
func (g *ScaleGenerator) Change(rng *entropy.Engine) {
	switch g.kind {
	case scaleConstant:
	case scaleVariable:
		g.mean = entropy.WeightedChoice(rng, g.choices)
		g.mean = rng.Gauss(g.mean, g.mean*0.1)
	default:
		g.mean = entropy.WeightedChoice(rng, g.choices)
		g.mean = rng.Gauss(g.mean, g.mean*0.3)
	}
}

// BullseyeGenerator draws per-circle ring structure.
type BullseyeGenerator struct {
	densityMean     float64
	densityVariance float64
	ringOptions     []entropy.Weighted[uint32]
}

// BullseyeFromTraits prepares the generator from the enabled ring
// counts and thickness trait.
func BullseyeFromTraits(tr *traits.Traits, rng *entropy.Engine) *BullseyeGenerator {
	var potential []uint32
	if tr.BullseyeRings.One {
		potential = append(potential, 1)
	}
	if tr.BullseyeRings.Three {
		potential = append(potential, 3)
	}
	if tr.BullseyeRings.Seven {
		potential = append(potential, 7)
	}
	if len(potential) == 0 {
		potential = append(potential, 2)
	}

	var densityMean, densityVariance float64
	switch tr.RingThickness {
	case traits.ThicknessThin:
		densityMean, densityVariance = 0.85, 0.15
	case traits.ThicknessThick:
		densityMean, densityVariance = 0.28, 0.1
	default:
		densityMean, densityVariance = 0.7, 1.0
	}
	dropoff := fastmath.Rescale(densityVariance, 0.0, 1.0, 1.0, 0.35)

	weight := 1.0
	n := len(potential) * 2
	options := make([]entropy.Weighted[uint32], 0, n)
	for n > 0 && weight > 0.001 {
		options = append(options, entropy.Weighted[uint32]{
			Value:  entropy.Choice(rng, potential),
			Weight: weight,
		})
		n--
		weight *= dropoff
	}

	return &BullseyeGenerator{
		densityMean:     densityMean,
		densityVariance: densityVariance,
		ringOptions:     options,
	}
}

// Next draws one bullseye.
func (g *BullseyeGenerator) Next(rng *entropy.Engine) recipe.Bullseye {
	density := fastmath.Clamp(rng.Gauss(g.densityMean, g.densityVariance/2.0), 0.17, 0.93)
	rings := entropy.WeightedChoice(rng, g.ringOptions)
	return recipe.Bullseye{Rings: rings, Density: density}
}

// MarginChecker rejects circle centers whose spacing radius crosses
// the piece margin.
type MarginChecker struct {
	margin       float64
	bottomMargin float64
}

// MarginFromTraits returns the checker for the seed's margin trait.
// The "none" margin is negative: circles may hang off the canvas.
func MarginFromTraits(tr *traits.Traits) MarginChecker {
	switch tr.Margin {
	case traits.MarginNone:
		return MarginChecker{margin: canvas.W(-0.05), bottomMargin: canvas.W(-0.05)}
	case traits.MarginCrisp:
		return MarginChecker{margin: canvas.W(0.003), bottomMargin: canvas.W(0.003)}
	default:
		return MarginChecker{margin: canvas.W(0.07), bottomMargin: canvas.W(0.08)}
	}
}

// InBounds reports whether a circle with the given spacing radius fits
// inside the margins.
func (m MarginChecker) InBounds(x, y, spacing float64) bool {
	return !(x-spacing < m.margin ||
		x+spacing >= canvas.Width-m.margin ||
		y-spacing < m.margin ||
		y+spacing > canvas.Height-m.bottomMargin)
}

// StackOffset is the shadow displacement for stacked color mode. Ok is
// false for the other color modes.
type StackOffset struct {
	Dx, Dy float64
	Ok     bool
}

// StackFromTraits draws the stack displacement. The vertical offset is
// always downward.
func StackFromTraits(tr *traits.Traits, rng *entropy.Engine) StackOffset {
	if tr.ColorMode != traits.ModeStacked {
		return StackOffset{}
	}
	return StackOffset{
		Dx: rng.Gauss(0.0, canvas.W(0.0013)),
		Dy: math.Abs(rng.Gauss(0.0, canvas.W(0.0013))),
		Ok: true,
	}
}
