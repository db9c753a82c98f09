// Package entropy implements the deterministic pseudo-random engine that
// drives every layout decision. One Engine owns one stream: draws advance a
// single counter, and the order of draws is part of an artwork's identity.
// Never share an Engine across goroutines or clone it mid-stream; the only
// sanctioned fork is SubStream, which derives an independent reproducible
// stream for paint-time decoration.
package entropy

import (
	"math"
	"sort"
)

// murmur2 hashes bytes with the given seed. This is the 32-bit MurmurHash2
// variant restricted to 16-bit multiply steps so that all intermediate
// products stay exact in float-based environments; the layout stream is
// defined in terms of this exact function.
func murmur2(bytes []byte, seed uint32) uint32 {
	const (
		k        = 16
		mask     = 0xffff
		maskByte = 0xff
		m        = 0x5bd1e995
	)

	l := len(bytes)
	h := seed ^ uint32(l)
	i := 0

	byte32 := func(i int) uint32 { return uint32(bytes[i]) }

	for l >= 4 {
		kv := (byte32(i) & maskByte) |
			((byte32(i+1) & maskByte) << 8) |
			((byte32(i+2) & maskByte) << 16) |
			((byte32(i+3) & maskByte) << 24)
		i += 4
		kv = (kv&mask)*m + ((((kv>>k)*m)&mask)<<k)
		kv ^= kv >> 24
		kv = (kv&mask)*m + ((((kv>>k)*m)&mask)<<k)
		h = ((h&mask)*m + ((((h>>k)*m)&mask)<<k)) ^ kv
		l -= 4
	}
	if l >= 3 {
		h ^= (byte32(i+2) & maskByte) << k
	}
	if l >= 2 {
		h ^= (byte32(i+1) & maskByte) << 8
	}
	if l >= 1 {
		h ^= byte32(i) & maskByte
		h = (h&mask)*m + ((((h>>k)*m)&mask)<<k)
	}

	h ^= h >> 13
	h = (h&mask)*m + ((((h>>k)*m)&mask)<<k)
	h ^= h >> 15

	return h
}

// Engine is a seeded deterministic generator. The zero value is not usable;
// construct with NewEngine.
type Engine struct {
	seed    []byte
	counter uint32

	// Marsaglia polar generates deviates in pairs; the second is cached for
	// the next Gauss call.
	hasGauss bool
	gauss    float64
}

// NewEngine creates an engine whose stream is fully determined by seed.
func NewEngine(seed []byte) *Engine {
	s := make([]byte, len(seed))
	copy(s, seed)
	return &Engine{seed: s}
}

// SubStream derives an independent engine keyed by (seed, tag). Streams for
// distinct tags never correlate with each other or with the parent stream,
// and re-deriving the same tag reproduces the same stream. Used for
// paint-time decoration, which must be reproducible per circle regardless
// of which chunk worker paints it.
func (e *Engine) SubStream(tag uint32) *Engine {
	sub := make([]byte, len(e.seed)+4)
	copy(sub, e.seed)
	sub[len(e.seed)] = byte(tag >> 24)
	sub[len(e.seed)+1] = byte(tag >> 16)
	sub[len(e.seed)+2] = byte(tag >> 8)
	sub[len(e.seed)+3] = byte(tag)
	return NewEngine(sub)
}

// U32 draws the next 32-bit value.
func (e *Engine) U32() uint32 {
	e.counter++
	return murmur2(e.seed, e.counter)
}

// Rnd draws a uniform float64 in [0, 1).
func (e *Engine) Rnd() float64 {
	return float64(e.U32()) / (1 << 32)
}

// Uniform draws a uniform float64 in [min, max).
func (e *Engine) Uniform(min, max float64) float64 {
	return min + e.Rnd()*(max-min)
}

// Odds returns true with probability p.
func (e *Engine) Odds(p float64) bool {
	return e.Rnd() < p
}

// Gauss draws a normal deviate with the given mean and standard deviation,
// using the Marsaglia polar method. Pairs of uniforms are mapped to the
// unit square and rejected outside the unit disc; accepted pairs yield two
// deviates, the second of which is cached for the following call.
func (e *Engine) Gauss(mean, stddev float64) float64 {
	if e.hasGauss {
		e.hasGauss = false
		return mean + stddev*e.gauss
	}
	var u, v, s float64
	for {
		u = 2.0*e.Rnd() - 1.0
		v = 2.0*e.Rnd() - 1.0
		s = u*u + v*v
		if s > 0.0 && s <= 1.0 {
			break
		}
	}
	mul := math.Sqrt(-2.0 * math.Log(s) / s)
	e.gauss = v * mul
	e.hasGauss = true
	return mean + stddev*u*mul
}

// Choice returns a uniformly chosen element of choices.
func Choice[T any](e *Engine, choices []T) T {
	return choices[int(e.Rnd()*float64(len(choices)))]
}

// Weighted pairs a value with a selection weight for WeightedChoice.
type Weighted[T any] struct {
	Value  T
	Weight float64
}

// WeightedChoice draws one value with probability proportional to its
// weight.
func WeightedChoice[T any](e *Engine, choices []Weighted[T]) T {
	var total float64
	for _, c := range choices {
		total += c.Weight
	}
	r := e.Rnd() * total
	for _, c := range choices {
		r -= c.Weight
		if r < 0.0 {
			return c.Value
		}
	}
	// Reachable only through float rounding; take the last option.
	return choices[len(choices)-1].Value
}

// Shuffle returns a permutation of seq ordered by independently drawn
// 32-bit keys. Key collisions keep the original relative order.
func Shuffle[T any](e *Engine, seq []T) []T {
	type keyed struct {
		key   uint32
		value T
	}
	items := make([]keyed, len(seq))
	for i, v := range seq {
		items[i] = keyed{key: e.U32(), value: v}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].key < items[j].key
	})
	out := make([]T, len(items))
	for i, it := range items {
		out[i] = it.value
	}
	return out
}

// Winnow deletes uniformly chosen elements of seq until at most n remain,
// preserving the survivors' relative order.
func Winnow[T any](e *Engine, seq []T, n int) []T {
	for len(seq) > n {
		i := int(e.Rnd() * float64(len(seq)))
		seq = append(seq[:i], seq[i+1:]...)
	}
	return seq
}
