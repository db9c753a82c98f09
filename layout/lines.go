package layout

import (
	"github.com/pthm-cable/ringfield/canvas"
	"github.com/pthm-cable/ringfield/entropy"
	"github.com/pthm-cable/ringfield/fastmath"
	"github.com/pthm-cable/ringfield/flowfield"
)

// flowLineGroups holds traced flow lines, grouped like their start
// points.
type flowLineGroups [][][]point

// buildFlowLines traces each start point through the flow field. A
// line ends when it leaves the field bounds or reaches the drawn
// curve length. A group that ignores the field follows its default
// heading in a straight line instead.
func buildFlowLines(
	field *flowfield.Field,
	ignore flowfield.Ignore,
	startGroups StartPointGroups,
	rng *entropy.Engine,
) flowLineGroups {
	curveLength := entropy.Choice(rng, []int{500, 650, 850})
	groups := make(flowLineGroups, 0, len(startGroups))
	for _, group := range startGroups {
		groups = append(groups, buildLineGroup(group, curveLength, field, ignore, rng))
	}
	return groups
}

func buildLineGroup(
	startPoints []point,
	curveLength int,
	field *flowfield.Field,
	ignoreSpec flowfield.Ignore,
	rng *entropy.Engine,
) [][]point {
	ignore := rng.Odds(ignoreSpec.Odds)
	step := canvas.W(0.002)
	lines := make([][]point, 0, len(startPoints))
	for _, p := range startPoints {
		x, y := p.x, p.y
		curve := make([]point, 0, curveLength)
		for i := 0; i < curveLength; i++ {
			if !field.In(x, y) {
				break
			}
			theta := ignoreSpec.DefaultTheta
			if !ignore {
				theta = field.Theta(x, y)
			}
			curve = append(curve, point{x, y})
			x += step * fastmath.Cos(theta)
			y += step * fastmath.Sin(theta)
		}
		lines = append(lines, curve)
	}
	return lines
}
