package combat

// Sides pairs an attacker value with a defender value.
type Sides[T any] struct {
	Attacker T
	Defender T
}

// CombatRound is the record of one resolved round. All state fields are
// captured after that round's damage has been applied.
type CombatRound struct {
	Number       int
	Tactics      Sides[int]     // Tactics roll totals
	Damage       Sides[int]     // Raw damage rolled
	ActualDamage Sides[int]     // Damage that landed after the split
	Multiplier   Sides[float64] // Damage split share (0.5, 0.6, ...)
	Losses       Sides[float64] // Fraction of initial HP lost
	HP           Sides[int]     // Remaining HP
	Armor        Sides[int]     // Remaining armor
}

// TacticsDiff returns the attacker's tactics roll minus the defender's.
func (r CombatRound) TacticsDiff() int {
	return r.Tactics.Attacker - r.Tactics.Defender
}

// RoundObserver is called with each round as soon as it is recorded.
type RoundObserver func(CombatRound)
