package gamedata

import "fmt"

// Quality is a troop-quality band derived from base combat skill.
type Quality string

const (
	QualityGreen   Quality = "2-9"
	QualityRegular Quality = "10-13"
	QualityVeteran Quality = "14-16"
	QualityElite   Quality = "17+"
)

var troopMods = map[Quality]int{
	QualityGreen:   -1,
	QualityRegular: 0,
	QualityVeteran: 2,
	QualityElite:   4,
}

// QualityFor returns the quality band for a base skill value.
func QualityFor(baseSkill int) Quality {
	switch {
	case baseSkill <= 9:
		return QualityGreen
	case baseSkill <= 13:
		return QualityRegular
	case baseSkill <= 16:
		return QualityVeteran
	default:
		return QualityElite
	}
}

// Mod returns the tactics modifier for the band.
// ok is false for a band not in the table.
func (q Quality) Mod() (mod int, ok bool) {
	mod, ok = troopMods[q]
	return mod, ok
}

// Condition is an optional situational tag for a force.
type Condition string

const (
	ConditionNone         Condition = ""
	ConditionAmbush       Condition = "ambush"
	ConditionGoodDefense  Condition = "gooddef"
	ConditionHastyDefense Condition = "hastydef"
)

var conditionMods = map[Condition]int{
	ConditionAmbush:       4,
	ConditionGoodDefense:  2,
	ConditionHastyDefense: 1,
}

// Mod returns the tactics modifier for the condition. No condition is worth 0.
func (c Condition) Mod() (int, error) {
	if c == ConditionNone {
		return 0, nil
	}
	mod, ok := conditionMods[c]
	if !ok {
		return 0, fmt.Errorf("unknown condition %q", string(c))
	}
	return mod, nil
}

// AttackerConditions lists the tags an attacking force may carry.
func AttackerConditions() []Condition {
	return []Condition{ConditionNone, ConditionAmbush}
}

// DefenderConditions lists the tags a defending force may carry.
func DefenderConditions() []Condition {
	return []Condition{ConditionNone, ConditionHastyDefense, ConditionGoodDefense}
}
