package anim

import (
	"bytes"
	"image"
	"testing"

	"github.com/pthm-cable/ringfield/canvas"
	"github.com/pthm-cable/ringfield/colordb"
	"github.com/pthm-cable/ringfield/layout"
	"github.com/pthm-cable/ringfield/paint"
	"github.com/pthm-cable/ringfield/recipe"
)

func testPlan() *layout.Plan {
	var seq recipe.Sequence
	for i := 0; i < 7; i++ {
		f := float64(i) / 6.0
		seq.Circles = append(seq.Circles, recipe.Circle{
			X:         canvas.W(0.15 + 0.7*f),
			Y:         canvas.H(0.15 + 0.7*f),
			Scale:     canvas.W(0.02),
			Primary:   colordb.HSB{H: 20, S: 80, B: 90},
			Secondary: colordb.HSB{H: 200, S: 60, B: 70},
			Bullseye:  recipe.Bullseye{Rings: 3, Density: 0.5},
			Group:     i / 4,
			Seq:       i,
		})
	}
	seq.GroupSizes = []int{4, 3}
	seq.SplatterStart = 7
	splat := seq.Circles[2]
	splat.Primary = colordb.HSB{H: 300, S: 90, B: 90}
	splat.Secondary = splat.Primary
	splat.Seq = 7
	seq.Circles = append(seq.Circles, splat)

	return &layout.Plan{
		Seq:        seq,
		Background: colordb.HSB{H: 0, S: 0, B: 96},
	}
}

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Animation
		ok   bool
	}{
		{"", Animation{Mode: ModeNone}, true},
		{"none", Animation{Mode: ModeNone}, true},
		{"groups", Animation{Mode: ModeGroups}, true},
		{"points:5", Animation{Mode: ModePoints, Step: 5}, true},
		{"points:0", Animation{}, false},
		{"points:x", Animation{}, false},
		{"lines", Animation{}, false},
	}
	for _, tc := range cases {
		got, err := Parse(tc.in)
		if tc.ok != (err == nil) {
			t.Errorf("Parse(%q) error = %v, want ok=%v", tc.in, err, tc.ok)
			continue
		}
		if tc.ok && got != tc.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestBatchSizes(t *testing.T) {
	plan := testPlan()

	groups := Animation{Mode: ModeGroups}.BatchSizes(&plan.Seq)
	if want := []int{4, 3, 1}; !equalInts(groups, want) {
		t.Errorf("group batches = %v, want %v", groups, want)
	}

	points := Animation{Mode: ModePoints, Step: 3}.BatchSizes(&plan.Seq)
	if want := []int{3, 3, 2}; !equalInts(points, want) {
		t.Errorf("point batches = %v, want %v", points, want)
	}

	if got := (Animation{Mode: ModeNone}).BatchSizes(&plan.Seq); got != nil {
		t.Errorf("none mode batches = %v, want nil", got)
	}
}

func TestRunFrames(t *testing.T) {
	plan := testPlan()
	sched, err := paint.NewScheduler(plan, paint.Style{Width: 160}, paint.ChunkSpec{Cols: 1, Rows: 1}, 1)
	if err != nil {
		t.Fatal(err)
	}
	driver := NewDriver(sched, Animation{Mode: ModeGroups})

	var frames []int
	var last *image.RGBA
	err = driver.Run(&plan.Seq, paint.FullViewport(), func(frame int, img image.Image) error {
		frames = append(frames, frame)
		rgba := img.(*image.RGBA)
		if frame == 0 {
			bg := rgba.RGBAAt(0, 0)
			for y := 0; y < rgba.Bounds().Dy(); y += 7 {
				for x := 0; x < rgba.Bounds().Dx(); x += 7 {
					if rgba.RGBAAt(x, y) != bg {
						t.Errorf("frame 0 has non-background pixel at (%d, %d)", x, y)
						return nil
					}
				}
			}
		}
		last = rgba
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if want := []int{0, 1, 2, 3}; !equalInts(frames, want) {
		t.Fatalf("frame numbers = %v, want %v", frames, want)
	}
	if last == nil {
		t.Fatal("no final frame captured")
	}

	// The final frame reproduces a one-shot render exactly.
	full, err := sched.Render(paint.FullViewport(), 0, len(plan.Seq.Circles), true)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(last.Pix, full.Pix) {
		t.Error("final frame differs from a full render")
	}
}

func TestRunNoneEmitsSingleFrame(t *testing.T) {
	plan := testPlan()
	sched, err := paint.NewScheduler(plan, paint.Style{Width: 120}, paint.ChunkSpec{Cols: 1, Rows: 1}, 1)
	if err != nil {
		t.Fatal(err)
	}
	driver := NewDriver(sched, Animation{Mode: ModeNone})

	count := 0
	err = driver.Run(&plan.Seq, paint.FullViewport(), func(frame int, img image.Image) error {
		count++
		if frame != -1 {
			t.Errorf("frame number = %d, want -1", frame)
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("emitted %d frames, want 1", count)
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
