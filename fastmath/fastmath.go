// Package fastmath provides the approximate math primitives the layout
// engine depends on. These deliberately reproduce the reference algorithm's
// arithmetic (table-interpolated trig, fixed-iteration Newton square roots,
// a polynomial atan2) rather than calling the faster and more accurate
// standard library equivalents: every placed circle depends on the exact
// bit pattern these functions return, so "better" math here would change
// artworks.
package fastmath

import "math"

// Pi returns v multiples of pi.
func Pi(v float64) float64 {
	return math.Pi * v
}

// Modulo returns n mod m with the sign convention of the reference
// algorithm. This matches math.Mod only when at most one argument is
// negative; when both are negative the reference wraps twice, so we keep
// the double-wrap form.
func Modulo(n, m float64) float64 {
	return math.Mod(math.Mod(n, m)+m, m)
}

// Rescale maps value from [oldMin, oldMax] to [newMin, newMax], clamping
// value into the source interval first.
func Rescale(value, oldMin, oldMax, newMin, newMax float64) float64 {
	clamped := Clamp(value, oldMin, oldMax)
	oldSpread := oldMax - oldMin
	newSpread := newMax - newMin
	return newMin + (clamped-oldMin)*(newSpread/oldSpread)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// interpolate evaluates a periodic function tabulated over [min, max] at z
// by piecewise-linear interpolation.
func interpolate(table []float64, min, max, z float64) float64 {
	if math.IsNaN(z) {
		return z
	}
	value := Modulo(z-min, max-min) + min

	rescaled := Rescale(value, min, max, 0.0, float64(len(table)-1))
	index := int(math.Floor(rescaled))
	fraction := rescaled - float64(index)

	start := table[index]
	end := table[index+1]

	return start + (end-start)*fraction
}

var cosTable = []float64{
	1.0, 0.99179, 0.96729, 0.92692, 0.87132, 0.80141, 0.71835, 0.62349, 0.51839, 0.40478,
	0.28453, 0.1596, 0.03205, -0.09602, -0.22252, -0.34537, -0.46254, -0.57212, -0.6723,
	-0.76145, -0.83809, -0.90097, -0.94906, -0.98156, -0.99795, -0.99795, -0.98156, -0.94906,
	-0.90097, -0.83809, -0.76145, -0.6723, -0.57212, -0.46254, -0.34537, -0.22252, -0.09602,
	0.03205, 0.1596, 0.28453, 0.40478, 0.51839, 0.62349, 0.71835, 0.80141, 0.87132, 0.92692,
	0.96729, 0.99179, 1.0,
}

var sinTable = []float64{
	0.0, 0.12788, 0.25365, 0.37527, 0.49072, 0.59811, 0.69568, 0.78183, 0.85514, 0.91441,
	0.95867, 0.98718, 0.99949, 0.99538, 0.97493, 0.93847, 0.8866, 0.82017, 0.74028, 0.64823,
	0.54553, 0.43388, 0.31511, 0.19116, 0.06407, -0.06407, -0.19116, -0.31511, -0.43388,
	-0.54553, -0.64823, -0.74028, -0.82017, -0.8866, -0.93847, -0.97493, -0.99538, -0.99949,
	-0.98718, -0.95867, -0.91441, -0.85514, -0.78183, -0.69568, -0.59811, -0.49072, -0.37527,
	-0.25365, -0.12788, -0.0,
}

// Cos is a piecewise-linear approximation of math.Cos.
func Cos(z float64) float64 {
	return interpolate(cosTable, 0.0, 2.0*math.Pi, z)
}

// Sin is a piecewise-linear approximation of math.Sin.
func Sin(z float64) float64 {
	return interpolate(sinTable, 0.0, 2.0*math.Pi, z)
}

// Sqrt approximates math.Sqrt by Newton's method with the reference
// algorithm's fixed convergence parameters. Panics on negative input, like
// the reference.
func Sqrt(value float64) float64 {
	const (
		maxIterations = 1000
		epsilon       = 1e-14
		target        = 1e-7
	)

	if value < 0.0 {
		panic("fastmath: argument to Sqrt must be non-negative")
	}

	guess := value
	for i := 0; i < maxIterations; i++ {
		err := guess*guess - value
		if math.Abs(err) < target {
			return guess
		}
		divisor := 2.0 * guess
		if divisor <= epsilon {
			return guess
		}
		guess -= err / divisor
	}
	return guess
}

// Dist returns the distance between two points using the approximate Sqrt.
func Dist(x1, y1, x2, y2 float64) float64 {
	dx := x1 - x2
	dy := y1 - y2
	return Sqrt(dx*dx + dy*dy)
}

// DistLowerBound is a cheap lower bound on Dist. The coefficients come from
// the reference algorithm, where the upper- and lower-bound helpers had
// swapped names; this is the function that actually bounds from below.
func DistLowerBound(x1, y1, x2, y2 float64) float64 {
	dx := math.Abs(x1 - x2)
	dy := math.Abs(y1 - y2)
	min := math.Min(dx, dy)
	max := math.Max(dx, dy)

	const alpha = 1007.0 / 1110.0
	const beta = 441.0 / 1110.0

	return alpha*max + beta*min
}

// DistUpperBound is a cheap upper bound on Dist.
func DistUpperBound(x1, y1, x2, y2 float64) float64 {
	dx := math.Abs(x1 - x2)
	dy := math.Abs(y1 - y2)
	min := math.Min(dx, dy)
	max := math.Max(dx, dy)

	const beta = 441.0 / 1024.0

	return max + beta*min
}

// atan2 is a minimax polynomial approximation of math.Atan2.
func atan2(y, x float64) float64 {
	ax := math.Abs(x)
	ay := math.Abs(y)
	mx := math.Max(ay, ax)
	mn := math.Min(ay, ax)
	a := mn / mx

	s := a * a
	c := s * a
	q := s * s
	r := 0.024840285*q + 0.18681418
	t := -0.094097948*q - 0.33213072
	r = r*s + t
	r = r*c + a

	if ay > ax {
		r = 1.57079637 - r
	}
	if x < 0.0 {
		r = 3.14159274 - r
	}
	if y < 0.0 {
		r = -r
	}
	return r
}

// Angle returns the direction from (x1, y1) to (x2, y2) in [0, 2pi).
func Angle(x1, y1, x2, y2 float64) float64 {
	a := atan2(y2-y1, x2-x1)
	return Modulo(a, Pi(2.0))
}

// AddPolarOffset moves (x, y) by distance r in direction theta, using the
// approximate trig functions.
func AddPolarOffset(x, y, theta, r float64) (float64, float64) {
	return x + r*Cos(theta), y + r*Sin(theta)
}
