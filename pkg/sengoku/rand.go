package sengoku

import (
	"encoding/base64"
	"fmt"
	"math/rand/v2"
)

// Rand is the single random source for a game. Every draw that affects the
// simulation goes through it so a seeded game replays identically.
type Rand struct {
	src *rand.PCG
	r   *rand.Rand
}

// NewRand returns a generator seeded with seed.
func NewRand(seed uint64) *Rand {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return &Rand{src: src, r: rand.New(src)}
}

// Float64 returns a float in [0,1).
func (r *Rand) Float64() float64 { return r.r.Float64() }

// IntN returns an int in [0,n). n <= 0 returns 0.
func (r *Rand) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// IntRange returns an int in [lo,hi] inclusive.
func (r *Rand) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.r.IntN(hi-lo+1)
}

// Uniform returns a float in [lo,hi).
func (r *Rand) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*r.r.Float64()
}

// Chance reports whether a p-probability roll succeeds.
func (r *Rand) Chance(p float64) bool {
	return r.r.Float64() < p
}

// Shuffle permutes s in place.
func (r *Rand) Shuffle(s []int) {
	r.r.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
}

// WeightedIndex picks an index with probability proportional to its weight.
// It returns -1 when no weight is positive.
func (r *Rand) WeightedIndex(weights []float64) int {
	total := 0.0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		return -1
	}
	x := r.r.Float64() * total
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		if x < w {
			return i
		}
		x -= w
	}
	return last
}

// MarshalText encodes the generator state.
func (r *Rand) MarshalText() ([]byte, error) {
	b, err := r.src.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal rng: %w", err)
	}
	out := make([]byte, base64.StdEncoding.EncodedLen(len(b)))
	base64.StdEncoding.Encode(out, b)
	return out, nil
}

// UnmarshalText restores state written by MarshalText.
func (r *Rand) UnmarshalText(text []byte) error {
	b := make([]byte, base64.StdEncoding.DecodedLen(len(text)))
	n, err := base64.StdEncoding.Decode(b, text)
	if err != nil {
		return fmt.Errorf("decode rng: %w", err)
	}
	src := &rand.PCG{}
	if err := src.UnmarshalBinary(b[:n]); err != nil {
		return fmt.Errorf("unmarshal rng: %w", err)
	}
	r.src = src
	r.r = rand.New(src)
	return nil
}
