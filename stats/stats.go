// Package stats aggregates telemetry about a finished layout: per-circle
// recipe rows and a one-line summary of the artwork.
package stats

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/ringfield/layout"
)

// CircleRecord is one recipe row, written to recipe.csv.
type CircleRecord struct {
	Seq          int     `csv:"seq"`
	Group        int     `csv:"group"`
	X            float64 `csv:"x"`
	Y            float64 `csv:"y"`
	Scale        float64 `csv:"scale"`
	Rings        uint32  `csv:"rings"`
	DrawnRings   int     `csv:"drawn_rings"`
	Density      float64 `csv:"density"`
	PrimaryHue   float64 `csv:"primary_hue"`
	SecondaryHue float64 `csv:"secondary_hue"`
	Splatter     bool    `csv:"splatter"`
}

// Summary is the one-row artwork digest, written to summary.csv.
type Summary struct {
	FlowField    string  `csv:"flow_field"`
	Structure    string  `csv:"structure"`
	ColorMode    string  `csv:"color_mode"`
	Palette      string  `csv:"palette"`
	Spacing      string  `csv:"spacing"`
	SizeVariety  string  `csv:"size_variety"`
	Version      string  `csv:"version"`
	Circles      int     `csv:"circles"`
	Groups       int     `csv:"groups"`
	Splatters    int     `csv:"splatters"`
	ColorsUsed   int     `csv:"colors_used"`
	RingsDrawn   int     `csv:"rings_drawn"`
	ScaleMean    float64 `csv:"scale_mean"`
	ScaleStd     float64 `csv:"scale_std"`
	ScaleP10     float64 `csv:"scale_p10"`
	ScaleP50     float64 `csv:"scale_p50"`
	ScaleP90     float64 `csv:"scale_p90"`
	DensityMean  float64 `csv:"density_mean"`
	MeanPerGroup float64 `csv:"circles_per_group"`
}

// Collect walks the plan once and produces the recipe rows plus summary.
func Collect(plan *layout.Plan) ([]CircleRecord, Summary) {
	seq := &plan.Seq
	records := make([]CircleRecord, 0, len(seq.Circles))

	scales := make([]float64, 0, len(seq.Circles))
	densities := make([]float64, 0, len(seq.Circles))
	ringsDrawn := 0
	for i, c := range seq.Circles {
		drawn := int(c.NumDrawnRings())
		records = append(records, CircleRecord{
			Seq:          c.Seq,
			Group:        c.Group,
			X:            c.X,
			Y:            c.Y,
			Scale:        c.Scale,
			Rings:        c.Bullseye.Rings,
			DrawnRings:   drawn,
			Density:      c.Bullseye.Density,
			PrimaryHue:   c.Primary.H,
			SecondaryHue: c.Secondary.H,
			Splatter:     i >= seq.SplatterStart,
		})
		scales = append(scales, c.Scale)
		densities = append(densities, c.Bullseye.Density)
		ringsDrawn += drawn
	}

	groups := len(seq.GroupSizes)
	summary := Summary{
		FlowField:   plan.Traits.FlowField.String(),
		Structure:   plan.Traits.Structure.String(),
		ColorMode:   plan.Traits.ColorMode.String(),
		Palette:     plan.Traits.Palette.String(),
		Spacing:     plan.Traits.Spacing.String(),
		SizeVariety: plan.Traits.SizeVariety.String(),
		Version:     plan.Traits.Version.String(),
		Circles:     len(seq.Circles),
		Groups:      groups,
		Splatters:   len(seq.Circles) - seq.SplatterStart,
		RingsDrawn:  ringsDrawn,
	}
	if plan.ColorsUsed != nil {
		summary.ColorsUsed = plan.ColorsUsed.Len()
	}
	if len(scales) > 0 {
		sorted := append([]float64(nil), scales...)
		sort.Float64s(sorted)
		summary.ScaleMean = stat.Mean(scales, nil)
		summary.ScaleStd = stat.StdDev(scales, nil)
		summary.ScaleP10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
		summary.ScaleP50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
		summary.ScaleP90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
		summary.DensityMean = stat.Mean(densities, nil)
	}
	if groups > 0 {
		summary.MeanPerGroup = float64(seq.SplatterStart) / float64(groups)
	}
	return records, summary
}
