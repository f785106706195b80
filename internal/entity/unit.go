// Package entity provides the combatants of a squad battle: units and the
// forces they belong to.
package entity

import (
	"github.com/samdwyer/squadsim/internal/dice"
	"github.com/samdwyer/squadsim/internal/gamedata"
)

// Unit represents a single combatant.
type Unit struct {
	BaseSkill int // DEX/REF + combat stat
	HP        int // Current hit points, never below 0
	Armor     int // Current armor; ablation may drive it below 0
	Dice      int // Number of d6 rolled for an attack

	quality gamedata.Quality
}

// NewUnit creates a unit. Its quality band is fixed here and never recomputed.
func NewUnit(baseSkill, hp, armor, dice int) *Unit {
	return &Unit{
		BaseSkill: baseSkill,
		HP:        hp,
		Armor:     armor,
		Dice:      dice,
		quality:   gamedata.QualityFor(baseSkill),
	}
}

// Quality returns the unit's troop-quality band.
func (u *Unit) Quality() gamedata.Quality { return u.quality }

// IsAlive returns true if the unit has HP remaining.
func (u *Unit) IsAlive() bool { return u.HP > 0 }

// Damage subtracts amount from HP. If that would take HP below zero, HP is
// clamped to 0 and the excess is returned so it can be routed to another unit.
func (u *Unit) Damage(amount int) (overflow int) {
	u.HP -= amount
	if u.HP < 0 {
		overflow = -u.HP
		u.HP = 0
	}
	return overflow
}

// RollAttack rolls the unit's d6 pool.
func (u *Unit) RollAttack(r dice.Roller) int {
	return dice.RollD6(r, u.Dice)
}
