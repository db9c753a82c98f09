package layout

import (
	"github.com/pthm-cable/ringfield/canvas"
	"github.com/pthm-cable/ringfield/entropy"
	"github.com/pthm-cable/ringfield/fastmath"
	"github.com/pthm-cable/ringfield/traits"
)

func pi(v float64) float64 { return fastmath.Pi(v) }

type point struct {
	x, y float64
}

// StartPointGroups is the set of flow line seed points, one inner
// slice per group. Group order and point order drive the entropy
// stream and the paint order.
type StartPointGroups [][]point

// BuildStartPoints lays out flow line seed points for the structure
// trait.
func BuildStartPoints(structure traits.Structure, rng *entropy.Engine) StartPointGroups {
	switch structure {
	case traits.StructureOrbital:
		return orbital(rng)
	case traits.StructureShadows:
		return shadows(rng)
	default:
		return formation(rng)
	}
}

// orbital emits concentric rings of start points around a drawn
// center, split into angular wedges per radial band.
func orbital(rng *entropy.Engine) StartPointGroups {
	baseStep := entropy.WeightedChoice(rng, wf(
		canvas.W(0.01), 3, canvas.W(0.02), 2, canvas.W(0.04), 1,
		canvas.W(0.06), 1, canvas.W(0.08), 1, canvas.W(0.16), 0.5,
	))
	radialStep := baseStep * 0.5

	radialGroupStep := entropy.WeightedChoice(rng, wf(
		canvas.W(0.07), 0.333, canvas.W(0.15), 0.333, canvas.W(0.3), 0.333,
	))

	centerX := entropy.WeightedChoice(rng, wf(
		canvas.W(0.5), 0.3, canvas.W(0.333), 0.2, canvas.W(0.666), 0.2,
		canvas.W(-0.333), 0.1, canvas.W(1.333), 0.1,
		canvas.W(-1.6), 0.05, canvas.W(1.6), 0.05,
	))
	centerY := entropy.WeightedChoice(rng, wf(
		canvas.H(0.5), 0.3, canvas.H(0.333), 0.2, canvas.H(0.666), 0.2,
		canvas.H(-0.333), 0.1, canvas.H(1.333), 0.1,
		canvas.H(-1.6), 0.05, canvas.H(1.6), 0.05,
	))

	h0, h1 := canvas.H(-1.0/3.0), canvas.H(4.0/3.0)
	w0, w1 := canvas.W(-1.0/3.0), canvas.W(4.0/3.0)
	inBounds := func(p point) bool {
		return p.x > w0 && p.x < w1 && p.y > h0 && p.y < h1
	}

	maxRadius := canvas.W(0.05) + max(
		0.0,
		fastmath.Dist(centerX, centerY, 0.0, 0.0),
		fastmath.Dist(centerX, centerY, canvas.W(1.0), 0.0),
		fastmath.Dist(centerX, centerY, canvas.W(1.0), canvas.H(1.0)),
		fastmath.Dist(centerX, centerY, 0.0, canvas.H(1.0)),
	)
	splitOffset := rng.Uniform(0.0, pi(2.0))

	var groups StartPointGroups
	for groupRadius := canvas.W(0.001); groupRadius < maxRadius; groupRadius += radialGroupStep {
		numSplits := entropy.Choice(rng, []int{1, 2, 3})
		splitLen := pi(2.0) / float64(numSplits)

		for theta := splitOffset; theta < splitOffset+pi(2.0); theta += splitLen {
			var group []point
			for radius := groupRadius; radius < groupRadius+radialGroupStep; radius += radialStep {
				circumference := radius * pi(2.0)
				stepsWanted := circumference / baseStep
				thetaStep := max(pi(0.005), pi(2.0)/stepsWanted)
				for innerTheta := theta; innerTheta < theta+splitLen; innerTheta += thetaStep {
					x, y := fastmath.AddPolarOffset(centerX, centerY, innerTheta, radius)
					if p := (point{x, y}); inBounds(p) {
						group = append(group, p)
					}
				}
			}
			groups = append(groups, group)
		}
	}
	return groups
}

// shadows scatters non-overlapping disc regions and fills each with a
// radial or square lattice of start points.
func shadows(rng *entropy.Engine) StartPointGroups {
	numCircles := entropy.Choice(rng, []int{5, 7, 10, 20, 30, 60})
	type disc struct {
		x, y, radius float64
	}

	pSquare := entropy.Choice(rng, []float64{0.0, 0.5, 1.0})
	columnarSquare := rng.Odds(0.5)
	outwardRadial := rng.Odds(0.5)

	radialFill := func(c disc) []point {
		radiusStep := canvas.W(0.02)
		circumferenceStep := canvas.W(0.01)
		var group []point
		for radius := c.radius; radius > 0.0; radius -= radiusStep {
			numSteps := (radius * pi(2.0)) / circumferenceStep
			thetaStep := pi(2.0) / numSteps
			for theta := 0.0; theta < pi(2.01); theta += thetaStep {
				x, y := fastmath.AddPolarOffset(c.x, c.y, theta, radius)
				group = append(group, point{x, y})
			}
		}
		if outwardRadial {
			for i, j := 0, len(group)-1; i < j; i, j = i+1, j-1 {
				group[i], group[j] = group[j], group[i]
			}
		}
		if rng.Odds(0.05) {
			group = entropy.Shuffle(rng, group)
		}
		return group
	}

	squareFill := func(c disc) []point {
		step := entropy.WeightedChoice(rng, wf(
			canvas.W(0.0075), 0.37, canvas.W(0.01), 0.35, canvas.W(0.02), 0.25,
			canvas.W(0.04), 0.02, canvas.W(0.08), 0.01,
		))
		r2 := c.radius * c.radius
		var group []point
		for offset1 := -c.radius; offset1 < c.radius; offset1 += step {
			for offset2 := -c.radius; offset2 < c.radius; offset2 += step {
				var x, y float64
				if columnarSquare {
					x, y = c.x+offset1, c.y+offset2
				} else {
					x, y = c.x+offset2, c.y+offset1
				}
				dx := c.x - x
				dy := c.y - y
				if dx*dx+dy*dy < r2 {
					group = append(group, point{x, y})
				}
			}
		}
		return group
	}

	var discs []disc
	for iter := 0; len(discs) < numCircles && iter < 1000; iter++ {
		c := disc{
			x:      rng.Uniform(canvas.W(0.0), canvas.W(1.0)),
			y:      rng.Uniform(canvas.H(0.0), canvas.H(1.0)),
			radius: rng.Uniform(canvas.W(0.05), canvas.W(0.5)),
		}
		overlaps := false
		for _, c2 := range discs {
			if fastmath.Dist(c.x, c.y, c2.x, c2.y) < c.radius+c2.radius {
				overlaps = true
				break
			}
		}
		if !overlaps {
			discs = append(discs, c)
		}
	}

	groups := make(StartPointGroups, 0, len(discs))
	for _, c := range discs {
		if rng.Odds(pSquare) {
			groups = append(groups, squareFill(c))
		} else {
			groups = append(groups, radialFill(c))
		}
	}
	return groups
}

// formation tiles the canvas with rectangular chunks of start points,
// shuffled and randomly thinned.
func formation(rng *entropy.Engine) StartPointGroups {
	step := entropy.WeightedChoice(rng, wf(
		canvas.W(0.0075), 0.37, canvas.W(0.01), 0.35, canvas.W(0.02), 0.25,
		canvas.W(0.04), 0.02, canvas.W(0.08), 0.01,
	))

	numHorizontalSteps := entropy.WeightedChoice(rng, wiF(
		1, 0.7, 2, 0.35, 3, 0.25, 4, 0.1, 5, 0.05, 7, 0.05,
	))
	numVerticalSteps := entropy.WeightedChoice(rng, wiF(
		1, 0.4, 2, 0.35, 3, 0.25, 4, 0.1, 5, 0.05, 7, 0.05,
	))

	horizontalStepLen := canvas.W(1.2) / float64(numHorizontalSteps)
	verticalStepLen := canvas.H(1.2) / float64(numVerticalSteps)

	skipOdds := entropy.WeightedChoice(rng, wf(0.0, 0.5, 0.1, 0.3, 0.2, 0.15, 0.5, 0.05))

	var startingChunks []point
	for x := canvas.W(-0.1); x < canvas.W(1.1); x += horizontalStepLen {
		for y := canvas.H(-0.1); y < canvas.H(1.1); y += verticalStepLen {
			startingChunks = append(startingChunks, point{x, y})
		}
	}
	startingChunks = entropy.Shuffle(rng, startingChunks)

	var groups StartPointGroups
	for i, chunk := range startingChunks {
		if i != 0 && rng.Odds(skipOdds) {
			continue
		}
		var group []point
		for y := chunk.y; y < chunk.y+verticalStepLen; y += step {
			for x := chunk.x; x < chunk.x+horizontalStepLen; x += step {
				group = append(group, point{x, y})
			}
		}
		groups = append(groups, group)
	}
	return groups
}

func wiF(pairs ...float64) []entropy.Weighted[int] {
	out := make([]entropy.Weighted[int], 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, entropy.Weighted[int]{Value: int(pairs[i]), Weight: pairs[i+1]})
	}
	return out
}
