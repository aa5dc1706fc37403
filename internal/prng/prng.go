// Package prng implements the deterministic pseudo-random generator used for
// game ids and initial worm placement. It must stay bit-exact with the
// original C implementation: the first draw returns the seed unchanged, and
// every subsequent draw multiplies by a fixed constant modulo a fixed prime.
package prng

const (
	multiplier = 279410273
	modulus    = 4294967291
)

// State is the PRNG's mutable state: a 32-bit seed and a flag recording
// whether it has been drawn from yet. The flag replaces the original
// wrapping 32-bit seed_no counter (see SPEC_FULL.md §9) — only the "has this been
// called before" bit is observable.
type State struct {
	seed   uint32
	primed bool
}

// New returns a PRNG state seeded with seed. The first call to Next returns
// seed unchanged.
func New(seed uint32) *State {
	return &State{seed: seed}
}

// Next draws the next value from the sequence, mutating s.
func (s *State) Next() uint32 {
	if !s.primed {
		s.primed = true
		return s.seed
	}
	s.seed = uint32((uint64(s.seed) * multiplier) % modulus)
	return s.seed
}

// Seed reports the current seed value without drawing.
func (s *State) Seed() uint32 {
	return s.seed
}
