// Package anim renders an artwork as a sequence of cumulative frames.
// Frame zero is the bare background; each later frame adds one batch
// of circles in paint order, so the final frame is the finished piece.
package anim

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/pthm-cable/ringfield/paint"
	"github.com/pthm-cable/ringfield/recipe"
)

// Mode selects how circles are batched into frames.
type Mode uint8

const (
	// ModeNone renders a single finished frame.
	ModeNone Mode = iota
	// ModePoints batches a fixed number of circles per frame.
	ModePoints
	// ModeGroups batches one flow line group per frame.
	ModeGroups
)

// Animation is a parsed animation setting.
type Animation struct {
	Mode Mode
	// Step is the circles-per-frame count for ModePoints.
	Step int
}

// Parse reads an animation flag value: "none", "groups", or
// "points:N" with N positive.
func Parse(s string) (Animation, error) {
	switch {
	case s == "" || s == "none":
		return Animation{Mode: ModeNone}, nil
	case s == "groups":
		return Animation{Mode: ModeGroups}, nil
	case strings.HasPrefix(s, "points:"):
		n, err := strconv.Atoi(strings.TrimPrefix(s, "points:"))
		if err != nil || n < 1 {
			return Animation{}, fmt.Errorf("anim: points step %q must be a positive integer", strings.TrimPrefix(s, "points:"))
		}
		return Animation{Mode: ModePoints, Step: n}, nil
	default:
		return Animation{}, fmt.Errorf("anim: unknown animation mode %q", s)
	}
}

// BatchSizes returns the per-frame circle counts for the sequence, or
// nil for ModeNone. Splatter circles form the trailing batch in group
// mode and count like any others in points mode.
func (a Animation) BatchSizes(seq *recipe.Sequence) []int {
	switch a.Mode {
	case ModeGroups:
		sizes := append([]int(nil), seq.GroupSizes...)
		if tail := len(seq.Circles) - seq.SplatterStart; tail > 0 {
			sizes = append(sizes, tail)
		}
		return sizes
	case ModePoints:
		n := len(seq.Circles)
		sizes := make([]int, 0, n/a.Step+1)
		for n >= a.Step {
			sizes = append(sizes, a.Step)
			n -= a.Step
		}
		if n > 0 {
			sizes = append(sizes, n)
		}
		return sizes
	default:
		return nil
	}
}

// Driver runs an animated render against a chunk scheduler.
type Driver struct {
	sched *paint.Scheduler
	anim  Animation
}

// NewDriver pairs an animation setting with a scheduler.
func NewDriver(sched *paint.Scheduler, anim Animation) *Driver {
	return &Driver{sched: sched, anim: anim}
}

// Run renders every frame of the viewport and hands each to emit in
// order. Each frame is a complete render of the sequence prefix ending
// at its batch, so the final frame is byte-identical to a one-shot
// render of the whole sequence. For ModeNone a single finished frame
// is emitted with frame number -1.
func (d *Driver) Run(seq *recipe.Sequence, fvp paint.FracViewport, emit func(frame int, img image.Image) error) error {
	if d.anim.Mode == ModeNone {
		img, err := d.sched.Render(fvp, 0, len(seq.Circles), true)
		if err != nil {
			return err
		}
		return emit(-1, img)
	}

	upto := 0
	frame := 0
	emitPrefix := func() error {
		img, err := d.sched.Render(fvp, 0, upto, true)
		if err != nil {
			return err
		}
		if err := emit(frame, img); err != nil {
			return err
		}
		frame++
		return nil
	}

	if err := emitPrefix(); err != nil {
		return err
	}
	for _, size := range d.anim.BatchSizes(seq) {
		upto += size
		if err := emitPrefix(); err != nil {
			return err
		}
	}
	return nil
}
