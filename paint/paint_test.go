package paint

import (
	"bytes"
	"testing"

	"github.com/pthm-cable/ringfield/canvas"
	"github.com/pthm-cable/ringfield/colordb"
	"github.com/pthm-cable/ringfield/layout"
	"github.com/pthm-cable/ringfield/recipe"
)

// testPlan builds a small hand-rolled plan: a diagonal of circles
// spanning the canvas plus one splatter accent.
func testPlan() *layout.Plan {
	var seq recipe.Sequence
	for i := 0; i < 12; i++ {
		f := float64(i) / 11.0
		seq.Circles = append(seq.Circles, recipe.Circle{
			X:         canvas.W(0.1 + 0.8*f),
			Y:         canvas.H(0.1 + 0.8*f),
			Scale:     canvas.W(0.02),
			Primary:   colordb.HSB{H: 20, S: 80, B: 90},
			Secondary: colordb.HSB{H: 200, S: 60, B: 70},
			Bullseye:  recipe.Bullseye{Rings: 3, Density: 0.5},
			Seq:       i,
		})
	}
	seq.GroupSizes = []int{12}
	seq.SplatterStart = 12
	splat := seq.Circles[5]
	splat.Primary = colordb.HSB{H: 300, S: 90, B: 90}
	splat.Secondary = splat.Primary
	splat.Seq = 12
	seq.Circles = append(seq.Circles, splat)

	return &layout.Plan{
		Seq:        seq,
		Background: colordb.HSB{H: 0, S: 0, B: 96},
	}
}

func TestFracViewportValidation(t *testing.T) {
	if _, err := NewFracViewport(0.5, 0.5, 0.25, 0.25); err != nil {
		t.Errorf("centered quarter viewport should be valid: %v", err)
	}
	bad := []struct{ w, h, l, t float64 }{
		{0, 1, 0, 0},
		{1, -1, 0, 0},
		{0.5, 0.5, 0.6, 0},
		{1, 1, 0, 0.1},
	}
	for _, tc := range bad {
		if _, err := NewFracViewport(tc.w, tc.h, tc.l, tc.t); err == nil {
			t.Errorf("viewport %+v should be rejected", tc)
		}
	}
}

func TestFracViewportDimensions(t *testing.T) {
	full := FullViewport()
	w, h := full.Dimensions(2400)
	if w != 2400 || h != 3000 {
		t.Errorf("full dimensions = %dx%d, want 2400x3000", w, h)
	}
	half, err := NewFracViewport(0.5, 0.5, 0.25, 0.25)
	if err != nil {
		t.Fatal(err)
	}
	w, h = half.Dimensions(2400)
	if w != 1200 || h != 1500 {
		t.Errorf("half dimensions = %dx%d, want 1200x1500", w, h)
	}
}

func TestChunkSpecValidate(t *testing.T) {
	if err := (ChunkSpec{Cols: 1, Rows: 1}).Validate(); err != nil {
		t.Error(err)
	}
	if err := (ChunkSpec{Cols: 0, Rows: 3}).Validate(); err == nil {
		t.Error("zero columns should be rejected")
	}
}

func TestSplitChunksTileExactly(t *testing.T) {
	s := &Scheduler{chunks: ChunkSpec{Cols: 3, Rows: 4}}
	jobs := s.splitChunks(FullViewport(), 250, 313)
	covered := make([][]bool, 250)
	for i := range covered {
		covered[i] = make([]bool, 313)
	}
	for _, job := range jobs {
		for x := job.rect.Min.X; x < job.rect.Max.X; x++ {
			for y := job.rect.Min.Y; y < job.rect.Max.Y; y++ {
				if covered[x][y] {
					t.Fatalf("pixel (%d, %d) covered twice", x, y)
				}
				covered[x][y] = true
			}
		}
	}
	for x := range covered {
		for y := range covered[x] {
			if !covered[x][y] {
				t.Fatalf("pixel (%d, %d) not covered", x, y)
			}
		}
	}
}

func TestCullerNeverMissesOverlap(t *testing.T) {
	plan := testPlan()
	cl := NewCuller(&plan.Seq)
	// Viewport around the middle of the diagonal.
	vp := canvas.Rect{
		Left: canvas.W(0.4), Top: canvas.H(0.4),
		Right: canvas.W(0.6), Bottom: canvas.H(0.6),
	}
	mask := cl.Mask(vp, len(plan.Seq.Circles))
	for i, c := range plan.Seq.Circles {
		touches := c.X+cullRadius(c) >= vp.Left && c.X-cullRadius(c) <= vp.Right &&
			c.Y+cullRadius(c) >= vp.Top && c.Y-cullRadius(c) <= vp.Bottom
		if touches && !mask[i] {
			t.Errorf("circle %d touches the viewport but was culled", i)
		}
	}
	if mask[0] || mask[11] {
		t.Error("diagonal endpoints should be culled for the central viewport")
	}
}

func TestRenderBackground(t *testing.T) {
	plan := testPlan()
	s, err := NewScheduler(plan, Style{Width: 120}, ChunkSpec{Cols: 1, Rows: 1}, 1)
	if err != nil {
		t.Fatal(err)
	}
	img, err := s.Render(FullViewport(), 0, 0, true)
	if err != nil {
		t.Fatal(err)
	}
	want := rgbaOf(plan.Background)
	if got := img.RGBAAt(0, 0); got != want {
		t.Errorf("corner pixel = %+v, want background %+v", got, want)
	}
	if got := img.RGBAAt(60, 75); got != want {
		t.Errorf("center pixel = %+v, want background %+v (no circles painted)", got, want)
	}
}

func TestChunkedRenderMatchesSinglePass(t *testing.T) {
	plan := testPlan()
	style := Style{Width: 240}
	n := len(plan.Seq.Circles)

	single, err := mustScheduler(t, plan, style, ChunkSpec{Cols: 1, Rows: 1}).Render(FullViewport(), 0, n, true)
	if err != nil {
		t.Fatal(err)
	}
	chunked, err := mustScheduler(t, plan, style, ChunkSpec{Cols: 3, Rows: 2}).Render(FullViewport(), 0, n, true)
	if err != nil {
		t.Fatal(err)
	}

	if single.Bounds() != chunked.Bounds() {
		t.Fatalf("bounds differ: %v vs %v", single.Bounds(), chunked.Bounds())
	}
	if !bytes.Equal(single.Pix, chunked.Pix) {
		diff := 0
		for i := range single.Pix {
			if single.Pix[i] != chunked.Pix[i] {
				diff++
			}
		}
		t.Errorf("chunked render differs from single pass in %d of %d bytes", diff, len(single.Pix))
	}
}

func TestChunkedViewportMatchesUnchunked(t *testing.T) {
	plan := testPlan()
	style := Style{Width: 240}
	n := len(plan.Seq.Circles)
	// An origin that lands between pixels, so the equality cannot ride
	// on a whole-pixel viewport offset.
	vp, err := NewFracViewport(0.37, 0.29, 0.111, 0.053)
	if err != nil {
		t.Fatal(err)
	}

	single, err := mustScheduler(t, plan, style, ChunkSpec{Cols: 1, Rows: 1}).Render(vp, 0, n, true)
	if err != nil {
		t.Fatal(err)
	}
	chunked, err := mustScheduler(t, plan, style, ChunkSpec{Cols: 2, Rows: 2}).Render(vp, 0, n, true)
	if err != nil {
		t.Fatal(err)
	}

	if single.Bounds() != chunked.Bounds() {
		t.Fatalf("bounds differ: %v vs %v", single.Bounds(), chunked.Bounds())
	}
	if !bytes.Equal(single.Pix, chunked.Pix) {
		diff := 0
		for i := range single.Pix {
			if single.Pix[i] != chunked.Pix[i] {
				diff++
			}
		}
		t.Errorf("chunked viewport render differs from unchunked in %d of %d bytes", diff, len(single.Pix))
	}
}

func TestViewportRenderMatchesCrop(t *testing.T) {
	plan := testPlan()
	// Width 500 gives a power-of-two pixel ratio, so viewport geometry
	// maps onto exactly the same coordinates as the full render.
	style := Style{Width: 500}
	n := len(plan.Seq.Circles)
	s := mustScheduler(t, plan, style, ChunkSpec{Cols: 1, Rows: 1})

	full, err := s.Render(FullViewport(), 0, n, true)
	if err != nil {
		t.Fatal(err)
	}
	vp, err := NewFracViewport(0.5, 0.4, 0.25, 0)
	if err != nil {
		t.Fatal(err)
	}
	part, err := s.Render(vp, 0, n, true)
	if err != nil {
		t.Fatal(err)
	}

	offX, offY := 125, 0
	for y := 0; y < part.Bounds().Dy(); y++ {
		for x := 0; x < part.Bounds().Dx(); x++ {
			if got, want := part.RGBAAt(x, y), full.RGBAAt(x+offX, y+offY); got != want {
				t.Fatalf("pixel (%d, %d) = %+v, want cropped %+v", x, y, got, want)
			}
		}
	}
}

func TestViewportAwayFromCirclesIsBackground(t *testing.T) {
	plan := testPlan()
	s := mustScheduler(t, plan, Style{Width: 240}, ChunkSpec{Cols: 1, Rows: 1})
	// Top-right strip the diagonal never reaches.
	vp, err := NewFracViewport(0.2, 0.1, 0.75, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	img, err := s.Render(vp, 0, len(plan.Seq.Circles), true)
	if err != nil {
		t.Fatal(err)
	}
	want := rgbaOf(plan.Background)
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			if got := img.RGBAAt(x, y); got != want {
				t.Fatalf("pixel (%d, %d) = %+v, want background", x, y, got)
			}
		}
	}
}

func TestZeroScalePaintsNothing(t *testing.T) {
	mk := func(scale float64) *layout.Plan {
		var seq recipe.Sequence
		seq.Circles = append(seq.Circles, recipe.Circle{
			X:         canvas.W(0.5),
			Y:         canvas.H(0.5),
			Scale:     scale,
			Primary:   colordb.HSB{H: 20, S: 80, B: 40},
			Secondary: colordb.HSB{H: 200, S: 60, B: 40},
			Bullseye:  recipe.Bullseye{Rings: 1, Density: 0.5},
		})
		seq.GroupSizes = []int{1}
		seq.SplatterStart = 1
		return &layout.Plan{Seq: seq, Background: colordb.HSB{H: 0, S: 0, B: 96}}
	}
	vp, err := NewFracViewport(0.05, 0.05, 0.475, 0.475)
	if err != nil {
		t.Fatal(err)
	}

	flat, err := mustScheduler(t, mk(0), Style{Width: 2400}, ChunkSpec{Cols: 1, Rows: 1}).Render(vp, 0, 1, true)
	if err != nil {
		t.Fatal(err)
	}
	bg := rgbaOf(colordb.HSB{H: 0, S: 0, B: 96})
	for i := 0; i < len(flat.Pix); i += 4 {
		got := [4]uint8{flat.Pix[i], flat.Pix[i+1], flat.Pix[i+2], flat.Pix[i+3]}
		if got != [4]uint8{bg.R, bg.G, bg.B, bg.A} {
			t.Fatal("zero-scale circle left ink on the buffer")
		}
	}

	// The layout-phase inflation floor makes the same circle visible.
	inflated, err := mustScheduler(t, mk(canvas.W(0.00041)), Style{Width: 2400}, ChunkSpec{Cols: 1, Rows: 1}).Render(vp, 0, 1, true)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(flat.Pix, inflated.Pix) {
		t.Error("inflated circle should paint visible pixels")
	}
}

func TestRenderRangeValidation(t *testing.T) {
	plan := testPlan()
	s := mustScheduler(t, plan, Style{Width: 100}, ChunkSpec{Cols: 1, Rows: 1})
	if _, err := s.Render(FullViewport(), 0, 1000, true); err == nil {
		t.Error("out-of-range render should fail")
	}
	if _, err := s.Render(FullViewport(), 5, 2, true); err == nil {
		t.Error("inverted range should fail")
	}
}

func mustScheduler(t *testing.T, plan *layout.Plan, style Style, chunks ChunkSpec) *Scheduler {
	t.Helper()
	s, err := NewScheduler(plan, style, chunks, 2)
	if err != nil {
		t.Fatal(err)
	}
	return s
}
