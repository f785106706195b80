// Package report writes plain-text battle and batch reports.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/samdwyer/squadsim/internal/combat"
	"github.com/samdwyer/squadsim/internal/stats"
)

var rule = strings.Repeat("#", 40)

// writer remembers the first write error so callers can chain Fprintf calls
// and check once at the end.
type writer struct {
	w   io.Writer
	err error
}

func (w *writer) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}

// WriteBattleHeader writes the banner printed before a battle's rounds.
// index is zero based; the banner counts from one.
func WriteBattleHeader(w io.Writer, index int) error {
	out := &writer{w: w}
	out.printf("%s\nCombat simulation #%d\n%s\n", rule, index+1, rule)
	return out.err
}

// WriteRound writes the verbose report for a single round.
func WriteRound(w io.Writer, r combat.CombatRound) error {
	out := &writer{w: w}
	out.printf("############### Round %d\n", r.Number)
	out.printf("Atk Tactics: %d / Def Tactics: %d\n", r.Tactics.Attacker, r.Tactics.Defender)
	out.printf("Atk damage: %d (%d [%g])\n", r.Damage.Attacker, r.ActualDamage.Attacker, r.Multiplier.Attacker)
	out.printf("Def damage: %d (%d [%g])\n", r.Damage.Defender, r.ActualDamage.Defender, r.Multiplier.Defender)
	out.printf("Atk hp: %d / Def hp: %d\n", r.HP.Attacker, r.HP.Defender)
	out.printf("Atk losses: %g / Def losses: %g\n", r.Losses.Attacker, r.Losses.Defender)
	out.printf("Atk armor: %d / Def armor: %d\n", r.Armor.Attacker, r.Armor.Defender)
	out.printf("\n")
	return out.err
}

// WriteBattle writes the header and every round of a finished battle.
func WriteBattle(w io.Writer, index int, c *combat.SquadCombat) error {
	if err := WriteBattleHeader(w, index); err != nil {
		return err
	}
	for _, r := range c.Rounds() {
		if err := WriteRound(w, r); err != nil {
			return err
		}
	}
	return nil
}

// WriteSummary writes the per-round averages followed by the batch totals.
func WriteSummary(w io.Writer, s stats.Summary) error {
	out := &writer{w: w}
	out.printf("%s\n# Averages per round\n%s\n", rule, rule)

	for _, r := range s.Rounds {
		out.printf("Round %d\n", r.Round)
		out.printf("Number of combats reached this round: %d\n", r.Count)
		out.printf("Average attacker roll: %.2f\n", r.Tactics.Attacker)
		out.printf("Average defender roll: %.2f\n", r.Tactics.Defender)
		out.printf("Average attacker damage: %.2f\n", r.ActualDamage.Attacker)
		out.printf("Average defender damage: %.2f\n", r.ActualDamage.Defender)
		out.printf("Average attacker losses: %.4f\n", r.Losses.Attacker)
		out.printf("Average defender losses: %.4f\n", r.Losses.Defender)
		out.printf("Average attacker hp: %.2f\n", r.HP.Attacker)
		out.printf("Average defender hp: %.2f\n", r.HP.Defender)
		out.printf("Average attacker armor: %.2f\n", r.Armor.Attacker)
		out.printf("Average defender armor: %.2f\n", r.Armor.Defender)
		out.printf("\n")
	}

	out.printf("\n")
	out.printf("Average number of rounds: %.2f\n", s.AvgRounds)
	out.printf("Number of attacker victories: %d\n", s.AttackerWins)
	out.printf("Number of defender victories: %d\n", s.DefenderWins)
	if s.Undecided > 0 {
		out.printf("Number of undecided battles: %d\n", s.Undecided)
	}
	return out.err
}
