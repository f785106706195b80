package combat

import (
	"github.com/samdwyer/squadsim/internal/dice"
	"github.com/samdwyer/squadsim/internal/entity"
)

// Option configures a SquadCombat.
type Option func(*SquadCombat)

// WithRecalculateRatio recomputes the ratio modifier from alive unit counts
// every round instead of fixing it at the start of the battle.
func WithRecalculateRatio(recalculate bool) Option {
	return func(c *SquadCombat) {
		c.recalculateRatio = recalculate
	}
}

// WithTieBreak sets the policy for mutual elimination.
func WithTieBreak(t TieBreak) Option {
	return func(c *SquadCombat) {
		c.tieBreak = t
	}
}

// WithRoundObserver registers a callback for every recorded round.
func WithRoundObserver(o RoundObserver) Option {
	return func(c *SquadCombat) {
		c.observer = o
	}
}

// SquadCombat runs rounds between an attacking and a defending force until
// one of them is eliminated. It is not safe for concurrent use; run one
// SquadCombat per goroutine with its own forces and roller.
type SquadCombat struct {
	attacker *entity.Force
	defender *entity.Force
	rng      dice.Roller

	rounds []CombatRound
	winner Winner

	ratioMod         int
	recalculateRatio bool
	tieBreak         TieBreak
	observer         RoundObserver
}

// NewSquadCombat creates a battle between two forces. The ratio modifier is
// computed here from the starting unit counts.
func NewSquadCombat(attacker, defender *entity.Force, rng dice.Roller, opts ...Option) *SquadCombat {
	c := &SquadCombat{
		attacker: attacker,
		defender: defender,
		rng:      rng,
		winner:   Undecided,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.ratioMod = c.currentRatioMod()
	return c
}

// Attacker returns the attacking force.
func (c *SquadCombat) Attacker() *entity.Force { return c.attacker }

// Defender returns the defending force.
func (c *SquadCombat) Defender() *entity.Force { return c.defender }

// Winner returns the battle outcome so far.
func (c *SquadCombat) Winner() Winner { return c.winner }

// Rounds returns a copy of the recorded rounds in order.
func (c *SquadCombat) Rounds() []CombatRound {
	out := make([]CombatRound, len(c.rounds))
	copy(out, c.rounds)
	return out
}

// RoundCount returns the number of rounds recorded.
func (c *SquadCombat) RoundCount() int { return len(c.rounds) }

// RatioMod returns the attacker's force-size modifier, recomputing it first
// when the battle was created with WithRecalculateRatio(true).
func (c *SquadCombat) RatioMod() int {
	if c.recalculateRatio {
		c.ratioMod = c.currentRatioMod()
	}
	return c.ratioMod
}

func (c *SquadCombat) currentRatioMod() int {
	return RatioMod(c.attacker.AliveCount(), c.defender.AliveCount())
}

// tacticsRoll rolls an open-ended d10 plus the force's modifiers.
func (c *SquadCombat) tacticsRoll(f *entity.Force, ratioMod int) int {
	return dice.OpenD10(c.rng) + f.LeaderTactics + f.ConditionMod + f.QualityMod + f.LossesMod() + ratioMod
}

// SimulateRound resolves one round, records it and updates the winner.
func (c *SquadCombat) SimulateRound(number int) CombatRound {
	attackerRoll := c.tacticsRoll(c.attacker, c.RatioMod())
	defenderRoll := c.tacticsRoll(c.defender, 0)

	attackerDamage := c.attacker.RollAttack(c.rng)
	defenderDamage := c.defender.RollAttack(c.rng)

	attackerShare, defenderShare := DamageSplit(attackerRoll - defenderRoll)
	attackerActual := applyShare(attackerDamage, attackerShare)
	defenderActual := applyShare(defenderDamage, defenderShare)

	c.attacker.Damage(defenderActual)
	c.defender.Damage(attackerActual)

	round := CombatRound{
		Number:       number,
		Tactics:      Sides[int]{attackerRoll, defenderRoll},
		Damage:       Sides[int]{attackerDamage, defenderDamage},
		ActualDamage: Sides[int]{attackerActual, defenderActual},
		Multiplier:   Sides[float64]{float64(attackerShare) / 100, float64(defenderShare) / 100},
		Losses:       Sides[float64]{c.attacker.Losses(), c.defender.Losses()},
		HP:           Sides[int]{c.attacker.HP(), c.defender.HP()},
		Armor:        Sides[int]{c.attacker.Armor(), c.defender.Armor()},
	}
	c.rounds = append(c.rounds, round)

	attackerDown := c.attacker.IsDefeated()
	defenderDown := c.defender.IsDefeated()
	switch {
	case attackerDown && defenderDown:
		c.winner = c.tieBreak.winner()
	case attackerDown:
		c.winner = DefenderWins
	case defenderDown:
		c.winner = AttackerWins
	}

	if c.observer != nil {
		c.observer(round)
	}
	return round
}

// SimulateBattle runs rounds until a winner is decided. Round numbers are
// 1-based and continue from any rounds already recorded.
//
// There is no round cap: forces that can never damage each other loop
// forever. Callers that cannot rule that out step SimulateRound themselves.
func (c *SquadCombat) SimulateBattle() Winner {
	for c.winner == Undecided {
		c.SimulateRound(len(c.rounds) + 1)
	}
	return c.winner
}
