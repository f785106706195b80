package combat

import "fmt"

// Winner is the outcome of a battle.
type Winner int

const (
	// Undecided - both forces still have units alive
	Undecided Winner = iota
	// AttackerWins - the defending force was eliminated
	AttackerWins
	// DefenderWins - the attacking force was eliminated
	DefenderWins
)

// String returns a human-readable outcome.
func (w Winner) String() string {
	switch w {
	case Undecided:
		return "undecided"
	case AttackerWins:
		return "attacker"
	case DefenderWins:
		return "defender"
	default:
		return "unknown"
	}
}

// TieBreak decides the winner when both forces are eliminated in the same round.
type TieBreak int

const (
	// TieBreakDefender awards mutual elimination to the defender.
	TieBreakDefender TieBreak = iota
	// TieBreakAttacker awards mutual elimination to the attacker.
	TieBreakAttacker
)

// String returns the tie-break policy name.
func (t TieBreak) String() string {
	switch t {
	case TieBreakDefender:
		return "defender"
	case TieBreakAttacker:
		return "attacker"
	default:
		return "unknown"
	}
}

// ParseTieBreak parses a policy name as produced by String.
func ParseTieBreak(s string) (TieBreak, error) {
	switch s {
	case "defender", "":
		return TieBreakDefender, nil
	case "attacker":
		return TieBreakAttacker, nil
	default:
		return 0, fmt.Errorf("unknown tie-break %q", s)
	}
}

// winner returns the side awarded a mutual elimination.
func (t TieBreak) winner() Winner {
	if t == TieBreakAttacker {
		return AttackerWins
	}
	return DefenderWins
}
