package core

import "math/rand/v2"

// goldenRatio64 is the standard 64-bit golden-ratio constant used to
// decorrelate the two PCG state words derived from the same seed value, the
// mixing trick carried over from the teacher's randutil package.
const goldenRatio64 = 0x9e3779b97f4a7c15

// RNG is a seeded, forkable uniform random source. Every component that
// needs randomness (GTFT, WSLS, the geometric horizon, the mock completion
// provider) holds one of these rather than touching the global rand package,
// so that a run's seed fully determines its output.
type RNG struct {
	seed   *int64
	source *rand.Rand
}

// NewRNG constructs an RNG. A nil seed means nondeterministic (seeded from
// the runtime's entropy source); callers that need reproducibility must
// always pass a non-nil seed.
func NewRNG(seed *int64) *RNG {
	r := &RNG{}
	r.Reset(seed)
	return r
}

// Reset rebinds the RNG to a fresh state derived from seed. A nil seed
// re-randomizes the stream.
func (r *RNG) Reset(seed *int64) {
	if seed == nil {
		r.seed = nil
		r.source = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		return
	}
	s := *seed
	r.seed = &s
	r.source = rand.New(rand.NewPCG(mixSeed(uint64(s)), mixSeed(uint64(s)+goldenRatio64)))
}

// Seed returns the current seed, or nil if the RNG is nondeterministic.
func (r *RNG) Seed() *int64 {
	if r.seed == nil {
		return nil
	}
	s := *r.seed
	return &s
}

// Float64 returns a uniform draw in [0, 1).
func (r *RNG) Float64() float64 {
	return r.source.Float64()
}

// Bernoulli returns true with probability p.
func (r *RNG) Bernoulli(p float64) bool {
	return r.source.Float64() < p
}

// Choice returns a uniformly random element of a non-empty slice.
func Choice[T any](r *RNG, seq []T) T {
	return seq[r.source.IntN(len(seq))]
}

// Fork derives a new, independent RNG whose seed is a deterministic function
// of this RNG's seed and suffix: parent_seed + suffix + 1. The child is a
// private sub-stream that does not consume draws from the parent.
func (r *RNG) Fork(suffix int64) *RNG {
	if r.seed == nil {
		return NewRNG(nil)
	}
	child := *r.seed + suffix + 1
	return NewRNG(&child)
}

func mixSeed(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
