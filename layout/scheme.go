package layout

import (
	"fmt"
	"math"

	"github.com/pthm-cable/ringfield/canvas"
	"github.com/pthm-cable/ringfield/colordb"
	"github.com/pthm-cable/ringfield/entropy"
	"github.com/pthm-cable/ringfield/fastmath"
	"github.com/pthm-cable/ringfield/traits"
)

// ColorScheme is the drawn color plan: a background, winnowed primary
// and secondary sequences, and the splatter configuration.
type ColorScheme struct {
	Background      colordb.Key
	PrimarySeq      []colordb.Key
	SecondarySeq    []colordb.Key
	SplatterOdds    float64
	SplatterCenterX float64
	SplatterCenterY float64
	SplatterChoices []colordb.Key
}

// SchemeFromTraits draws the color scheme for the seed's palette.
// Background choice applies the palette's substitution rules to both
// sequences before winnowing. Draw order is load-bearing.
func SchemeFromTraits(tr *traits.Traits, db *colordb.DB, rng *entropy.Engine) (*ColorScheme, error) {
	palette := db.Palette(tr.Palette)
	if palette == nil {
		return nil, fmt.Errorf("layout: no color data for palette %d", tr.Palette)
	}

	bgChoices := make([]entropy.Weighted[*colordb.Background], len(palette.BackgroundColors))
	for i := range palette.BackgroundColors {
		bg := &palette.BackgroundColors[i]
		bgChoices[i] = entropy.Weighted[*colordb.Background]{Value: bg, Weight: bg.Weight}
	}
	bg := entropy.WeightedChoice(rng, bgChoices)

	colorSeq := make([]colordb.Key, 0, len(palette.ColorSeq))
	for _, c := range palette.ColorSeq {
		if sub, ok := bg.Substitute(c); ok {
			colorSeq = append(colorSeq, sub)
		}
	}

	splatterOpts := make([]entropy.Weighted[colordb.Key], 0, len(palette.SplatterColors))
	for _, sc := range palette.SplatterColors {
		if sub, ok := bg.Substitute(sc.Key); ok {
			splatterOpts = append(splatterOpts, entropy.Weighted[colordb.Key]{Value: sub, Weight: sc.Weight})
		}
	}
	numChoices := int(math.Round(rng.Gauss(1.5, 2.0)))
	if numChoices < 1 {
		numChoices = 1
	}
	splatterChoices := make([]colordb.Key, 0, numChoices)
	for i := 0; i < numChoices; i++ {
		splatterChoices = append(splatterChoices, entropy.WeightedChoice(rng, splatterOpts))
	}

	var splatterOddsChoices []entropy.Weighted[float64]
	var numColorChoices []entropy.Weighted[int]
	switch tr.ColorVariety {
	case traits.VarietyLow:
		splatterOddsChoices = wf(0.0, 4, 0.001, 2, 0.002, 2, 0.005, 2)
		numColorChoices = wi(1, 1, 2, 3, 3, 4, 4, 5, 5, 3)
	case traits.VarietyMedium:
		splatterOddsChoices = wf(0.0, 3, 0.002, 2, 0.005, 2, 0.01, 1, 0.03, 1)
		numColorChoices = wi(5, 1, 6, 2, 7, 3, 8, 5, 10, 3, 15, 2)
	default:
		splatterOddsChoices = wf(0.0, 3, 0.002, 2, 0.005, 2, 0.01, 1, 0.03, 1, 0.08, 1, 0.5, 0.05)
		numColorChoices = wi(10, 3, 12, 4, 15, 5, 20, 3, 25, 3)
	}

	primarySeq := colorSeq
	secondarySeq := append([]colordb.Key(nil), primarySeq...)
	numPrimary := entropy.WeightedChoice(rng, numColorChoices)
	primarySeq = entropy.Winnow(rng, primarySeq, numPrimary)
	numSecondary := entropy.WeightedChoice(rng, numColorChoices)
	secondarySeq = entropy.Winnow(rng, secondarySeq, numSecondary)

	centerX := rng.Uniform(canvas.W(-0.1), canvas.W(1.1))
	centerY := rng.Uniform(canvas.H(-0.1), canvas.H(1.1))
	splatterOdds := entropy.WeightedChoice(rng, splatterOddsChoices)

	return &ColorScheme{
		Background:      bg.Color,
		PrimarySeq:      primarySeq,
		SecondarySeq:    secondarySeq,
		SplatterOdds:    splatterOdds,
		SplatterCenterX: centerX,
		SplatterCenterY: centerY,
		SplatterChoices: splatterChoices,
	}, nil
}

func wi(pairs ...int) []entropy.Weighted[int] {
	out := make([]entropy.Weighted[int], 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, entropy.Weighted[int]{Value: pairs[i], Weight: float64(pairs[i+1])})
	}
	return out
}

// pickNextColor steps forward or backward through the color sequence,
// wrapping at either end. Multi-color steps are rare.
func pickNextColor(seq []colordb.Key, currentIdx int, rng *entropy.Engine) int {
	step := entropy.WeightedChoice(rng, wiF(1, 0.64, 2, 0.24, 3, 0.1, 4, 0.02))
	if rng.Odds(0.5) {
		step = -step
	}
	n := len(seq)
	return ((currentIdx+step)%n + n) % n
}

// perturbColor jitters a color within its spec's bounds. Hue wraps
// around the color wheel.
func perturbColor(c colordb.HSB, spec *colordb.Spec, rng *entropy.Engine) colordb.HSB {
	hue := fastmath.Modulo(
		fastmath.Clamp(rng.Gauss(c.H, spec.HueVariance), spec.HueMin, spec.HueMax),
		360.0,
	)
	sat := fastmath.Clamp(rng.Gauss(c.S, spec.SatVariance), spec.SatMin, spec.SatMax)
	bright := fastmath.Clamp(rng.Gauss(c.B, spec.BrightVariance), spec.BrightMin, spec.BrightMax)
	return colordb.HSB{H: hue, S: sat, B: bright}
}

// specToColor records the color as used and returns a perturbed
// instance of it.
func specToColor(key colordb.Key, spec *colordb.Spec, used *colordb.UsedSet, rng *entropy.Engine) colordb.HSB {
	used.Insert(key)
	return perturbColor(spec.Base(), spec, rng)
}
