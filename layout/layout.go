// Package layout runs the sequential phase of a render: it turns a
// seed into the complete circle sequence. Every entropy draw in this
// package happens in a fixed order on a single engine; inserting or
// reordering a draw changes every artwork.
package layout

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/pthm-cable/ringfield/canvas"
	"github.com/pthm-cable/ringfield/colordb"
	"github.com/pthm-cable/ringfield/entropy"
	"github.com/pthm-cable/ringfield/fastmath"
	"github.com/pthm-cable/ringfield/flowfield"
	"github.com/pthm-cable/ringfield/recipe"
	"github.com/pthm-cable/ringfield/sectors"
	"github.com/pthm-cable/ringfield/traits"
)

// Options are the layout-relevant render settings.
type Options struct {
	// FastCollisions screens spacing checks with distance bounds
	// instead of the iterative square root. Slightly changes which
	// borderline placements are accepted.
	FastCollisions bool
	// InflateDrawRadius clamps very small circles up to a drawable
	// radius after collision checks, so spacing is unaffected.
	InflateDrawRadius bool
}

// Plan is the full output of the sequential phase. It is immutable
// once built; painting, animation and stats all read from it.
type Plan struct {
	Traits     traits.Traits
	Seq        recipe.Sequence
	Scheme     *ColorScheme
	Stack      StackOffset
	Background colordb.HSB
	ColorsUsed *colordb.UsedSet

	seed []byte
}

// DecorStream returns the paint-time decoration stream for one circle.
// The stream depends only on the artwork seed and the circle's
// sequence index, so any worker reproduces it identically.
func (p *Plan) DecorStream(seq int) *entropy.Engine {
	return entropy.NewEngine(p.seed).SubStream(uint32(seq))
}

// Build runs the whole sequential phase for a 32-byte seed.
func Build(seed []byte, db *colordb.DB, opts Options, logger *slog.Logger) (*Plan, error) {
	if len(seed) != 32 {
		return nil, fmt.Errorf("layout: seed must be 32 bytes, got %d", len(seed))
	}
	if logger == nil {
		logger = slog.Default()
	}
	var s32 [32]byte
	copy(s32[:], seed)
	trv := traits.FromSeed(&s32)
	tr := &trv
	rng := entropy.NewEngine(seed)

	flowSpec := flowfield.SpecFromTraits(tr, rng)
	spacing := SpacingFromTraits(tr, rng)
	changeOdds := ColorChangeFromTraits(tr, rng)
	scaleGen, serr := ScaleFromTraits(tr, rng)
	if serr != nil {
		return nil, serr
	}
	bullseyeGen := BullseyeFromTraits(tr, rng)
	scheme, err := SchemeFromTraits(tr, db, rng)
	if err != nil {
		return nil, err
	}

	field := flowfield.Build(flowSpec, tr, rng)
	logger.Debug("built flow field")
	ignore := flowfield.BuildIgnore(flowSpec, rng)
	startPoints := BuildStartPoints(tr.Structure, rng)
	lines := buildFlowLines(field, ignore, startPoints, rng)

	grid := sectors.New(sectors.Bounds(), opts.FastCollisions)
	used := colordb.NewUsedSet()

	b := &builder{
		db:          db,
		scheme:      scheme,
		changeOdds:  changeOdds,
		spacing:     spacing,
		bullseyeGen: bullseyeGen,
		scaleGen:    scaleGen,
		grid:        grid,
		margins:     MarginFromTraits(tr),
		used:        used,
		logger:      logger,
	}
	seq, err := b.buildCircles(lines, rng)
	if err != nil {
		return nil, err
	}
	logger.Debug("laid out circles", "count", len(seq.Circles), "groups", len(seq.GroupSizes))

	if opts.InflateDrawRadius {
		for i := range seq.Circles {
			seq.Circles[i].Scale = max(seq.Circles[i].Scale, canvas.W(0.00041))
		}
	}
	stack := StackFromTraits(tr, rng)

	b.selectSplatter(&seq, rng)

	bgSpec := db.Color(scheme.Background)
	if bgSpec == nil {
		return nil, &DegeneracyError{Stage: "background color", Value: float64(scheme.Background)}
	}

	return &Plan{
		Traits:     *tr,
		Seq:        seq,
		Scheme:     scheme,
		Stack:      stack,
		Background: bgSpec.Base(),
		ColorsUsed: used,
		seed:       append([]byte(nil), seed...),
	}, nil
}

type builder struct {
	db          *colordb.DB
	scheme      *ColorScheme
	changeOdds  ColorChangeOdds
	spacing     SpacingSpec
	bullseyeGen *BullseyeGenerator
	scaleGen    *ScaleGenerator
	grid        *sectors.Grid
	margins     MarginChecker
	used        *colordb.UsedSet
	logger      *slog.Logger
}

func (b *builder) buildCircles(lines flowLineGroups, rng *entropy.Engine) (recipe.Sequence, error) {
	randomIdx := func(n int) int {
		return int(rng.Uniform(0.0, float64(n)))
	}
	primaryIdx := randomIdx(len(b.scheme.PrimarySeq))
	secondaryIdx := randomIdx(len(b.scheme.SecondarySeq))
	baseBullseye := b.bullseyeGen.Next(rng)

	var seq recipe.Sequence
	for group, groupLines := range lines {
		if rng.Odds(b.changeOdds.Group) {
			primaryIdx = pickNextColor(b.scheme.PrimarySeq, primaryIdx, rng)
			secondaryIdx = pickNextColor(b.scheme.SecondarySeq, secondaryIdx, rng)
			baseBullseye = b.bullseyeGen.Next(rng)
		}
		before := len(seq.Circles)
		if err := b.buildGroup(&seq, group, groupLines, primaryIdx, secondaryIdx, baseBullseye, rng); err != nil {
			return recipe.Sequence{}, err
		}
		seq.GroupSizes = append(seq.GroupSizes, len(seq.Circles)-before)
	}
	seq.SplatterStart = len(seq.Circles)
	return seq, nil
}

func (b *builder) buildGroup(
	seq *recipe.Sequence,
	group int,
	groupLines [][]point,
	primaryIdx, secondaryIdx int,
	bullseye recipe.Bullseye,
	rng *entropy.Engine,
) error {
	if rng.Odds(b.changeOdds.Line) {
		b.scaleGen.Change(rng)
	}
	scale := b.scaleGen.Next(rng)

	primarySpec := b.db.Color(b.scheme.PrimarySeq[primaryIdx])
	if primarySpec == nil {
		return &DegeneracyError{Stage: "primary color", Value: float64(b.scheme.PrimarySeq[primaryIdx])}
	}
	primary := specToColor(b.scheme.PrimarySeq[primaryIdx], primarySpec, b.used, rng)

	secondarySpec := b.db.Color(b.scheme.SecondarySeq[secondaryIdx])
	if secondarySpec == nil {
		return &DegeneracyError{Stage: "secondary color", Value: float64(b.scheme.SecondarySeq[secondaryIdx])}
	}
	secondary := specToColor(b.scheme.SecondarySeq[secondaryIdx], secondarySpec, b.used, rng)

	if !isFinite(scale) {
		b.logger.Warn("degenerate scale, terminating group", "group", group, "scale", scale)
		return nil
	}

	for _, line := range groupLines {
		for _, p := range line {
			spacingRadius := b.spacing.Radius(scale)
			if !b.margins.InBounds(p.x, p.y, spacingRadius) {
				continue
			}
			if !b.grid.TestAndAdd(sectors.Collider{
				X: p.x, Y: p.y, Radius: spacingRadius, Seq: len(seq.Circles),
			}) {
				continue
			}
			primary = perturbColor(primary, primarySpec, rng)
			secondary = perturbColor(secondary, secondarySpec, rng)
			seq.Circles = append(seq.Circles, recipe.Circle{
				X: p.x, Y: p.y,
				Scale:     scale,
				Primary:   primary,
				Secondary: secondary,
				Bullseye:  bullseye,
				Group:     group,
				Seq:       len(seq.Circles),
			})
		}

		// Between lines the scale drifts and the colors may step
		// through the sequence.
		b.scaleGen.Change(rng)
		if rng.Odds(b.changeOdds.Line) {
			primaryIdx = pickNextColor(b.scheme.PrimarySeq, primaryIdx, rng)
			primarySpec = b.db.Color(b.scheme.PrimarySeq[primaryIdx])
			if primarySpec == nil {
				return &DegeneracyError{Stage: "primary color", Value: float64(b.scheme.PrimarySeq[primaryIdx])}
			}
			bullseye = b.bullseyeGen.Next(rng)
		}
		if rng.Odds(b.changeOdds.Line) {
			secondaryIdx = pickNextColor(b.scheme.SecondarySeq, secondaryIdx, rng)
			secondarySpec = b.db.Color(b.scheme.SecondarySeq[secondaryIdx])
			if secondarySpec == nil {
				return &DegeneracyError{Stage: "secondary color", Value: float64(b.scheme.SecondarySeq[secondaryIdx])}
			}
		}
	}
	return nil
}

// selectSplatter walks the placed circles in paint order and promotes
// a few of them to splatter accents, appended as a trailing block with
// their final colors already resolved. Splatter is likelier near the
// drawn splatter center.
func (b *builder) selectSplatter(seq *recipe.Sequence, rng *entropy.Engine) {
	var chosen []int
	for i := range seq.Circles[:seq.SplatterStart] {
		c := &seq.Circles[i]
		d := fastmath.Dist(c.X, c.Y, b.scheme.SplatterCenterX, b.scheme.SplatterCenterY)
		adjustment := math.Pow(fastmath.Rescale(d, 0.0, canvas.W(1.4), 1.0, 0.0), 2.5)
		if rng.Odds(b.scheme.SplatterOdds * adjustment) {
			chosen = append(chosen, i)
		}
	}
	for _, i := range chosen {
		src := seq.Circles[i]
		key := entropy.Choice(rng, b.scheme.SplatterChoices)
		spec := b.db.Color(key)
		if spec == nil {
			b.logger.Warn("splatter color missing, skipping", "key", key)
			continue
		}
		color := specToColor(key, spec, b.used, rng)
		src.Primary = color
		src.Secondary = color
		src.Bullseye.Density = max(0.17, src.Bullseye.Density*0.7)
		src.Seq = len(seq.Circles)
		seq.Circles = append(seq.Circles, src)
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
