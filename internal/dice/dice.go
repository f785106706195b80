// Package dice provides the random source and the rolls used by squad combat.
package dice

import "math/rand/v2"

// Roller is the randomness provider for every roll in a battle.
// *rand.Rand from math/rand/v2 satisfies it.
//
// A Roller is not shared between battles that run concurrently.
type Roller interface {
	// IntN returns a random int in [0, n). n must be > 0.
	IntN(n int) int
}

// New returns a deterministic Roller seeded with seed.
func New(seed uint64) *rand.Rand {
	return NewStream(seed, 0)
}

// NewStream returns a deterministic Roller for one stream of a seed.
// Batch runs use the battle index as the stream so every battle gets the
// same rolls no matter which worker runs it.
func NewStream(seed, stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, stream))
}

// D6 rolls a single six-sided die.
func D6(r Roller) int {
	return r.IntN(6) + 1
}

// D10 rolls a single ten-sided die.
func D10(r Roller) int {
	return r.IntN(10) + 1
}

// RollD6 rolls n six-sided dice and returns the sum. n <= 0 rolls nothing.
func RollD6(r Roller, n int) int {
	total := 0
	for range n {
		total += D6(r)
	}
	return total
}

// OpenD10 rolls an open-ended d10: a 10 adds another d10, a 1 subtracts one.
// The extra die does not chain.
func OpenD10(r Roller) int {
	roll := D10(r)
	switch roll {
	case 10:
		roll += D10(r)
	case 1:
		roll -= D10(r)
	}
	return roll
}
