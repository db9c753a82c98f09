package fastmath

import (
	"math"
	"testing"
)

func TestPi(t *testing.T) {
	if got := Pi(0.0); got != 0.0 {
		t.Errorf("Pi(0): got %v", got)
	}
	if got := Pi(1.0); got != math.Pi {
		t.Errorf("Pi(1): got %v, want %v", got, math.Pi)
	}
	if got := Pi(-3.7); got != -3.7*math.Pi {
		t.Errorf("Pi(-3.7): got %v", got)
	}
	if !math.IsNaN(Pi(math.NaN())) {
		t.Error("Pi(NaN): want NaN")
	}
}

func TestModulo(t *testing.T) {
	a, b := 4.0, 3.0
	z := math.Mod(a, b)

	cases := []struct{ n, m, want float64 }{
		{a, b, z},
		{a + 10*b, b, z},
		{a - 10*b, b, z},
		{a, -b, z - b},
		{a + 10*b, -b, z - b},
		{a - 10*b, -b, z - b},
	}
	for _, tc := range cases {
		if got := Modulo(tc.n, tc.m); got != tc.want {
			t.Errorf("Modulo(%v, %v): got %v, want %v", tc.n, tc.m, got, tc.want)
		}
	}
}

func TestRescale(t *testing.T) {
	if got := Rescale(2.0625, 1.0625, 5.0625, 10.0, 20.0); got != 12.5 {
		t.Errorf("Rescale: got %v, want 12.5", got)
	}
}

func TestSinCos(t *testing.T) {
	cases := []struct{ z, sin, cos float64 }{
		{0.0, 0.0, 1.0},
		{0.1, 0.09972839720069836, 0.9935973557943562},
		{1.0, 0.8403747950252756, 0.5395579585710483},
		{1.5707963267948966, 0.9984625, 0.00003250000000000475},
		{2.0, 0.9074940439786922, -0.41534209884358286},
		{3.141592653589793, 0.0, -0.99795},
		{6.283185307179586, 0.0, 1.0},
		{10.0, -0.5439582041429563, -0.8389752174069942},
		{-0.1, -0.09972839720069898, 0.993597355794356},
		{-1.0, -0.8403747950252756, 0.5395579585710483},
	}
	for _, tc := range cases {
		if got := Sin(tc.z); got != tc.sin {
			t.Errorf("Sin(%v): got %v, want %v", tc.z, got, tc.sin)
		}
		if got := Cos(tc.z); got != tc.cos {
			t.Errorf("Cos(%v): got %v, want %v", tc.z, got, tc.cos)
		}
	}

	if !math.IsNaN(Sin(math.NaN())) {
		t.Error("Sin(NaN): want NaN")
	}
	if !math.IsNaN(Cos(math.NaN())) {
		t.Error("Cos(NaN): want NaN")
	}
}

func TestSqrt(t *testing.T) {
	cases := []struct{ z, want float64 }{
		{0.0, 0.0},
		{0.1, 0.3162277665175675},
		{1.0, 1.0},
		{2.0, 1.4142135623746899},
		{3456.789, 58.79446402511048},
	}
	for _, tc := range cases {
		if got := Sqrt(tc.z); got != tc.want {
			t.Errorf("Sqrt(%v): got %v, want %v", tc.z, got, tc.want)
		}
	}

	if !math.IsNaN(Sqrt(math.NaN())) {
		t.Error("Sqrt(NaN): want NaN")
	}
}

func TestSqrtNegativePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Sqrt(-1): want panic")
		}
	}()
	Sqrt(-1.0)
}

func TestDistAndBounds(t *testing.T) {
	cases := []struct {
		x1, y1, x2, y2 float64
		lb, d, ub      float64
	}{
		{0, 0, 3, 4, 4.82072072072072, 5.000000000053723, 5.2919921875},
		{1, 2, 3, 4, 2.609009009009009, 2.8284271250498643, 2.861328125},
		{10, 20, 15, 32, 12.872972972972972, 13.0, 14.1533203125},
	}
	for _, tc := range cases {
		lb := DistLowerBound(tc.x1, tc.y1, tc.x2, tc.y2)
		d := Dist(tc.x1, tc.y1, tc.x2, tc.y2)
		ub := DistUpperBound(tc.x1, tc.y1, tc.x2, tc.y2)
		if lb != tc.lb || d != tc.d || ub != tc.ub {
			t.Errorf("(%v,%v)~>(%v,%v): got %v .. %v .. %v, want %v .. %v .. %v",
				tc.x1, tc.y1, tc.x2, tc.y2, lb, d, ub, tc.lb, tc.d, tc.ub)
		}
		if !(ub >= d) || !(lb <= d) {
			t.Errorf("(%v,%v)~>(%v,%v): bad bounds %v .. %v .. %v",
				tc.x1, tc.y1, tc.x2, tc.y2, lb, d, ub)
		}
	}
}

func TestAngle(t *testing.T) {
	cases := []struct {
		x1, y1, x2, y2 float64
		want           float64
	}{
		{1, 2, 3, 5, 0.9827989414909313},
		{1, 2, 3, -5, 4.990698112028704},
		{1, 2, -3, 5, 2.4980739417195164},
		{1, 2, -3, -5, 4.19326091952823},
	}
	for _, tc := range cases {
		if got := Angle(tc.x1, tc.y1, tc.x2, tc.y2); got != tc.want {
			t.Errorf("Angle(%v,%v ~> %v,%v): got %v, want %v",
				tc.x1, tc.y1, tc.x2, tc.y2, got, tc.want)
		}
	}
}

func TestAddPolarOffset(t *testing.T) {
	x, y := AddPolarOffset(10.0, 20.0, math.Pi/6.0, 1.0)
	if x != 10.865494166666666 || y != 20.499669166666667 {
		t.Errorf("AddPolarOffset: got (%v, %v)", x, y)
	}
}
