package layout

import (
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/pthm-cable/ringfield/canvas"
	"github.com/pthm-cable/ringfield/colordb"
	"github.com/pthm-cable/ringfield/entropy"
	"github.com/pthm-cable/ringfield/traits"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSeed(b byte) []byte {
	seed := make([]byte, 32)
	for i := range seed {
		seed[i] = b
	}
	return seed
}

func TestSpacingRadius(t *testing.T) {
	s := SpacingSpec{Multiplier: 1.0, Constant: 2.0}
	// Small scale: multiplier stays as drawn.
	if got, want := s.Radius(10.0), 12.0; got != want {
		t.Errorf("Radius(10) = %v, want %v", got, want)
	}
	// Above w(0.015) the multiplier is floored at 1.02.
	scale := canvas.W(0.02)
	if got, want := s.Radius(scale), scale*1.02+2.0; got != want {
		t.Errorf("Radius(%v) = %v, want %v", scale, got, want)
	}
	// The proportional floor dominates when multiplier and constant
	// are both small.
	tight := SpacingSpec{Multiplier: 0.1, Constant: 0.0}
	if got, want := tight.Radius(10.0), 7.5; got != want {
		t.Errorf("tight Radius(10) = %v, want %v", got, want)
	}
}

func TestMarginChecker(t *testing.T) {
	crisp := MarginFromTraits(&traits.Traits{Margin: traits.MarginCrisp})
	if !crisp.InBounds(canvas.W(0.5), canvas.H(0.5), 10) {
		t.Error("center should be in bounds")
	}
	if crisp.InBounds(1.0, canvas.H(0.5), 10) {
		t.Error("left edge should be out of bounds for crisp margin")
	}

	// The "none" margin is negative, so circles may overhang.
	none := MarginFromTraits(&traits.Traits{Margin: traits.MarginNone})
	if !none.InBounds(-20.0, canvas.H(0.5), 10) {
		t.Error("slight overhang should be allowed without a margin")
	}
	if none.InBounds(-500.0, canvas.H(0.5), 10) {
		t.Error("far off-canvas should still be rejected")
	}

	wide := MarginFromTraits(&traits.Traits{Margin: traits.MarginWide})
	if wide.InBounds(canvas.W(0.5), canvas.Height-canvas.W(0.07), 10) {
		t.Error("wide margin should reject points near the bottom")
	}
}

func TestPickNextColorStaysInRange(t *testing.T) {
	seq := make([]colordb.Key, 5)
	rng := entropy.NewEngine(testSeed(1))
	idx := 0
	for i := 0; i < 500; i++ {
		idx = pickNextColor(seq, idx, rng)
		if idx < 0 || idx >= len(seq) {
			t.Fatalf("index %d out of range after %d steps", idx, i)
		}
	}
}

func TestColorChangeOddsClamped(t *testing.T) {
	for s := traits.StructureOrbital; s <= traits.StructureShadows; s++ {
		for v := traits.VarietyLow; v <= traits.VarietyHigh; v++ {
			tr := &traits.Traits{
				Structure: s, ColorVariety: v,
				RingSize: traits.RingLarge, Spacing: traits.SpacingSparse,
			}
			for b := byte(0); b < 8; b++ {
				odds := ColorChangeFromTraits(tr, entropy.NewEngine(testSeed(b)))
				if odds.Group < 0 || odds.Group > 1 || odds.Line < 0 || odds.Line > 1 {
					t.Fatalf("structure %d variety %d: odds %+v out of range", s, v, odds)
				}
			}
		}
	}
}

func TestBullseyeGenerator(t *testing.T) {
	tr := &traits.Traits{
		BullseyeRings: traits.BullseyeRings{One: true, Seven: true},
		RingThickness: traits.ThicknessMixed,
	}
	rng := entropy.NewEngine(testSeed(2))
	gen := BullseyeFromTraits(tr, rng)
	for i := 0; i < 200; i++ {
		be := gen.Next(rng)
		if be.Density < 0.17 || be.Density > 0.93 {
			t.Fatalf("density %v out of range", be.Density)
		}
		if be.Rings != 1 && be.Rings != 7 {
			t.Fatalf("rings %d not among enabled counts", be.Rings)
		}
	}
}

func TestBullseyeGeneratorFallbackRings(t *testing.T) {
	tr := &traits.Traits{RingThickness: traits.ThicknessThin}
	rng := entropy.NewEngine(testSeed(3))
	gen := BullseyeFromTraits(tr, rng)
	if be := gen.Next(rng); be.Rings != 2 {
		t.Errorf("no enabled ring counts should fall back to 2, got %d", be.Rings)
	}
}

func TestScaleGeneratorFinite(t *testing.T) {
	for sv := traits.SizeConstant; sv <= traits.SizeWild; sv++ {
		for rs := traits.RingSmall; rs <= traits.RingLarge; rs++ {
			tr := &traits.Traits{SizeVariety: sv, RingSize: rs}
			rng := entropy.NewEngine(testSeed(byte(sv)*3 + byte(rs)))
			gen, err := ScaleFromTraits(tr, rng)
			if err != nil {
				t.Fatalf("variety %d size %d: %v", sv, rs, err)
			}
			for i := 0; i < 50; i++ {
				s := gen.Next(rng)
				if math.IsNaN(s) || math.IsInf(s, 0) {
					t.Fatalf("variety %d size %d: scale %v", sv, rs, s)
				}
				gen.Change(rng)
			}
		}
	}
}

func TestStackOffset(t *testing.T) {
	simple := StackFromTraits(&traits.Traits{ColorMode: traits.ModeSimple}, entropy.NewEngine(testSeed(4)))
	if simple.Ok {
		t.Error("simple color mode should have no stack offset")
	}
	for b := byte(0); b < 8; b++ {
		stacked := StackFromTraits(&traits.Traits{ColorMode: traits.ModeStacked}, entropy.NewEngine(testSeed(b)))
		if !stacked.Ok {
			t.Fatal("stacked color mode should have a stack offset")
		}
		if stacked.Dy < 0 {
			t.Errorf("seed %d: stack offset must displace downward, got dy=%v", b, stacked.Dy)
		}
	}
}

func TestBuildProducesConsistentPlan(t *testing.T) {
	db := colordb.FromBundle()
	plan, err := Build(testSeed(0x5a), db, Options{}, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	seq := &plan.Seq

	total := 0
	for _, n := range seq.GroupSizes {
		total += n
	}
	if total != seq.SplatterStart {
		t.Errorf("group sizes sum to %d, want %d", total, seq.SplatterStart)
	}
	for i, c := range seq.Circles {
		if c.Seq != i {
			t.Fatalf("circle %d has sequence index %d", i, c.Seq)
		}
		if !isFinite(c.X) || !isFinite(c.Y) || !isFinite(c.Scale) {
			t.Fatalf("circle %d has non-finite geometry: %+v", i, c)
		}
		if c.Bullseye.Rings == 0 {
			t.Fatalf("circle %d has no rings", i)
		}
	}
	for i := seq.SplatterStart; i < len(seq.Circles); i++ {
		c := seq.Circles[i]
		if c.Primary != c.Secondary {
			t.Errorf("splatter circle %d should be single-colored", i)
		}
	}
	if got := len(plan.ColorsUsed.Keys()); got == 0 {
		t.Error("plan should record used colors")
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	db := colordb.FromBundle()
	a, err := Build(testSeed(0xc3), db, Options{}, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Build(testSeed(0xc3), db, Options{}, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Seq.Circles) != len(b.Seq.Circles) {
		t.Fatalf("circle counts differ: %d vs %d", len(a.Seq.Circles), len(b.Seq.Circles))
	}
	for i := range a.Seq.Circles {
		if a.Seq.Circles[i] != b.Seq.Circles[i] {
			t.Fatalf("circle %d differs between identical builds", i)
		}
	}
	if a.Stack != b.Stack {
		t.Error("stack offsets differ")
	}
}

func TestBuildRejectsShortSeed(t *testing.T) {
	db := colordb.FromBundle()
	if _, err := Build([]byte{1, 2, 3}, db, Options{}, testLogger()); err == nil {
		t.Fatal("expected an error for a short seed")
	}
}

func TestInflateDrawRadius(t *testing.T) {
	db := colordb.FromBundle()
	seed := testSeed(0x11)
	plain, err := Build(seed, db, Options{}, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	inflated, err := Build(seed, db, Options{InflateDrawRadius: true}, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	if len(plain.Seq.Circles) != len(inflated.Seq.Circles) {
		t.Fatal("inflation must not change which circles are placed")
	}
	floor := canvas.W(0.00041)
	for i := range inflated.Seq.Circles {
		if inflated.Seq.Circles[i].Scale < floor {
			t.Fatalf("circle %d scale %v below draw floor", i, inflated.Seq.Circles[i].Scale)
		}
		if want := max(plain.Seq.Circles[i].Scale, floor); inflated.Seq.Circles[i].Scale != want {
			t.Fatalf("circle %d inflated scale %v, want %v", i, inflated.Seq.Circles[i].Scale, want)
		}
	}
}

func TestDecorStreamsIndependentAndStable(t *testing.T) {
	db := colordb.FromBundle()
	plan, err := Build(testSeed(0x77), db, Options{}, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	a1 := plan.DecorStream(3)
	a2 := plan.DecorStream(3)
	b := plan.DecorStream(4)
	for i := 0; i < 16; i++ {
		va, vb := a1.U32(), a2.U32()
		if va != vb {
			t.Fatal("re-derived decoration stream diverged")
		}
		if va == b.U32() && i == 0 {
			t.Error("distinct circles should get distinct decoration streams")
		}
	}
}
