// Package sim runs batches of independent squad battles and aggregates them.
package sim

import (
	"fmt"
	"runtime"
	"slices"

	"github.com/pixil98/go-errors"

	"github.com/samdwyer/squadsim/internal/combat"
	"github.com/samdwyer/squadsim/internal/gamedata"
)

// DefaultMaxRounds caps a single battle when no cap is configured.
const DefaultMaxRounds = 1000

// SideConfig describes the units and leadership of one side.
type SideConfig struct {
	Units     int    `yaml:"units"`
	BaseSkill int    `yaml:"base_skill"`
	HP        int    `yaml:"hp"`
	Armor     int    `yaml:"armor"`
	Dice      int    `yaml:"dice"`
	Tactics   int    `yaml:"tactics"`
	Condition string `yaml:"condition"`
}

// SideFromDef converts a scenario side into a SideConfig.
func SideFromDef(def gamedata.SideDef) SideConfig {
	return SideConfig{
		Units:     def.Units,
		BaseSkill: def.BaseSkill,
		HP:        def.HP,
		Armor:     def.Armor,
		Dice:      def.Dice,
		Tactics:   def.Tactics,
		Condition: string(def.Condition),
	}
}

// Def converts the side into the definition used to build a force.
func (s SideConfig) Def() gamedata.SideDef {
	return gamedata.SideDef{
		Units:     s.Units,
		BaseSkill: s.BaseSkill,
		HP:        s.HP,
		Armor:     s.Armor,
		Dice:      s.Dice,
		Tactics:   s.Tactics,
		Condition: gamedata.Condition(s.Condition),
	}
}

func (s SideConfig) validate(allowed []gamedata.Condition) error {
	el := errors.NewErrorList()

	if s.Units < 1 {
		el.Add(fmt.Errorf("units must be at least 1"))
	}
	if s.HP < 1 {
		el.Add(fmt.Errorf("hp must be at least 1"))
	}
	if s.BaseSkill < 0 {
		el.Add(fmt.Errorf("base_skill must not be negative"))
	}
	if s.Armor < 0 {
		el.Add(fmt.Errorf("armor must not be negative"))
	}
	if s.Dice < 0 {
		el.Add(fmt.Errorf("dice must not be negative"))
	}
	if !slices.Contains(allowed, gamedata.Condition(s.Condition)) {
		el.Add(fmt.Errorf("condition %q is not allowed, use one of %v", s.Condition, allowed))
	}

	return el.Err()
}

// Config holds everything a batch run needs. It is passed by value and
// never mutated by the runner.
type Config struct {
	Simulations      int    `yaml:"simulations"`
	Seed             uint64 `yaml:"seed"`    // 0 picks a seed at run time
	Workers          int    `yaml:"workers"` // Battles run in parallel
	MaxRounds        int    `yaml:"max_rounds"`
	RecalculateRatio bool   `yaml:"recalculate_ratio"`
	TieBreak         string `yaml:"tie_break"` // "defender" or "attacker"
	Verbose          bool   `yaml:"verbose"`

	Attacker SideConfig `yaml:"attacker"`
	Defender SideConfig `yaml:"defender"`
}

// DefaultConfig returns the stock 20 v 20 matchup.
func DefaultConfig() Config {
	side := SideConfig{
		Units:     20,
		BaseSkill: 12,
		HP:        25,
		Armor:     7,
		Dice:      4,
		Tactics:   10,
	}
	return Config{
		Simulations: 10000,
		Workers:     runtime.GOMAXPROCS(0),
		MaxRounds:   DefaultMaxRounds,
		TieBreak:    combat.TieBreakDefender.String(),
		Attacker:    side,
		Defender:    side,
	}
}

// WithScenario returns a copy of c with both sides replaced by the scenario's.
func (c Config) WithScenario(def *gamedata.ScenarioDef) Config {
	c.Attacker = SideFromDef(def.Attacker)
	c.Defender = SideFromDef(def.Defender)
	return c
}

// CheckLiveness returns ErrNoDamage when neither side can ever deal damage.
func (c Config) CheckLiveness() error {
	if c.Attacker.Dice == 0 && c.Defender.Dice == 0 {
		return ErrNoDamage
	}
	return nil
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	el := errors.NewErrorList()

	if c.Simulations < 1 {
		el.Add(fmt.Errorf("simulations must be at least 1"))
	}
	if c.Workers < 1 {
		el.Add(fmt.Errorf("workers must be at least 1"))
	}
	if c.MaxRounds < 1 {
		el.Add(fmt.Errorf("max_rounds must be at least 1"))
	}
	if _, err := combat.ParseTieBreak(c.TieBreak); err != nil {
		el.Add(fmt.Errorf("tie_break: %w", err))
	}

	if err := c.Attacker.validate(gamedata.AttackerConditions()); err != nil {
		el.Add(fmt.Errorf("attacker: %w", err))
	}
	if err := c.Defender.validate(gamedata.DefenderConditions()); err != nil {
		el.Add(fmt.Errorf("defender: %w", err))
	}

	el.Add(c.CheckLiveness())

	return el.Err()
}
