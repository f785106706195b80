package entity

import (
	"errors"
	"fmt"

	"github.com/samdwyer/squadsim/internal/dice"
	"github.com/samdwyer/squadsim/internal/gamedata"
)

var (
	// ErrNoUnits is returned when a force is built without any units.
	ErrNoUnits = errors.New("force has no units")
	// ErrUnknownCondition is returned for a condition tag missing from the modifier table.
	ErrUnknownCondition = errors.New("unknown condition")
	// ErrUnknownQuality is returned for a quality band missing from the modifier table.
	ErrUnknownQuality = errors.New("unknown quality band")
)

// Force is one side's roster of units plus its leadership and condition modifiers.
// A Force owns its units; they are never shared with another force.
type Force struct {
	Units         []*Unit
	LeaderTactics int
	ConditionMod  int
	QualityMod    int

	quality   gamedata.Quality
	initialHP int
	armorAvg  int // Average unit armor at creation, floored
	ablateIdx int // Last unit ablated; -1 before the first ablation
}

// NewForce creates a force from its units, leader tactics and optional condition.
// Quality is banded from the floored average base skill of the units.
func NewForce(units []*Unit, leaderTactics int, condition gamedata.Condition) (*Force, error) {
	if len(units) == 0 {
		return nil, ErrNoUnits
	}

	conditionMod, err := condition.Mod()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownCondition, err)
	}

	skill, armor, hp := 0, 0, 0
	for _, u := range units {
		skill += u.BaseSkill
		armor += u.Armor
		hp += u.HP
	}

	quality := gamedata.QualityFor(skill / len(units))
	qualityMod, ok := quality.Mod()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownQuality, string(quality))
	}

	return &Force{
		Units:         units,
		LeaderTactics: leaderTactics,
		ConditionMod:  conditionMod,
		QualityMod:    qualityMod,
		quality:       quality,
		initialHP:     hp,
		armorAvg:      armor / len(units),
		ablateIdx:     -1,
	}, nil
}

// NewForceFromDef creates a force of identical units from a scenario side definition.
func NewForceFromDef(def gamedata.SideDef) (*Force, error) {
	units := make([]*Unit, def.Units)
	for i := range units {
		units[i] = NewUnit(def.BaseSkill, def.HP, def.Armor, def.Dice)
	}
	return NewForce(units, def.Tactics, def.Condition)
}

// Quality returns the force's troop-quality band.
func (f *Force) Quality() gamedata.Quality { return f.quality }

// InitialHP returns the total HP the force started with.
func (f *Force) InitialHP() int { return f.initialHP }

// ArmorAvg returns the average unit armor captured at creation.
func (f *Force) ArmorAvg() int { return f.armorAvg }

// Armor returns the summed armor of all units.
func (f *Force) Armor() int {
	total := 0
	for _, u := range f.Units {
		total += u.Armor
	}
	return total
}

// HP returns the summed HP of all units.
func (f *Force) HP() int {
	total := 0
	for _, u := range f.Units {
		total += u.HP
	}
	return total
}

// AliveUnits returns the units with HP remaining, in roster order.
func (f *Force) AliveUnits() []*Unit {
	alive := make([]*Unit, 0, len(f.Units))
	for _, u := range f.Units {
		if u.IsAlive() {
			alive = append(alive, u)
		}
	}
	return alive
}

// AliveCount returns the number of units with HP remaining.
func (f *Force) AliveCount() int {
	count := 0
	for _, u := range f.Units {
		if u.IsAlive() {
			count++
		}
	}
	return count
}

// IsDefeated returns true once no unit has HP remaining.
func (f *Force) IsDefeated() bool {
	return f.firstAlive() == nil
}

// firstAlive returns the first alive unit in roster order, or nil.
func (f *Force) firstAlive() *Unit {
	for _, u := range f.Units {
		if u.IsAlive() {
			return u
		}
	}
	return nil
}

// AblateArmor removes one point of armor from each of the next count units,
// round-robin from where the previous call stopped. Dead units still take their turn.
func (f *Force) AblateArmor(count int) {
	for range count {
		f.ablateIdx++
		if f.ablateIdx >= len(f.Units) {
			f.ablateIdx = 0
		}
		f.Units[f.ablateIdx].Armor--
	}
}

// Damage applies total incoming damage to the force.
//
// The summed armor is a flat pool subtracted from total; whatever passes it
// lands on the first alive unit and any overflow rolls on to the next one.
// If every unit dies the remaining damage is discarded and no armor is
// ablated. Otherwise total/ArmorAvg() points of armor are ablated.
func (f *Force) Damage(total int) {
	pool := max(f.Armor(), 0)

	overflow := total - pool
	for overflow > 0 {
		u := f.firstAlive()
		if u == nil {
			return
		}
		overflow = u.Damage(overflow)
	}

	if f.armorAvg > 0 {
		f.AblateArmor(total / f.armorAvg)
	}
}

// RollAttack sums the attack rolls of all alive units.
func (f *Force) RollAttack(r dice.Roller) int {
	total := 0
	for _, u := range f.Units {
		if u.IsAlive() {
			total += u.RollAttack(r)
		}
	}
	return total
}

// Losses returns the fraction of initial HP lost, in [0, 1].
func (f *Force) Losses() float64 {
	if f.initialHP <= 0 {
		return 0
	}
	return float64(f.initialHP-f.HP()) / float64(f.initialHP)
}

// LossesMod returns the tactics penalty for the current losses.
func (f *Force) LossesMod() int {
	losses := f.Losses()
	switch {
	case losses <= 0.1:
		return 0
	case losses <= 0.2:
		return -1
	case losses <= 0.4:
		return -2
	default:
		return -4
	}
}
