package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/squadsim/internal/combat"
	"github.com/samdwyer/squadsim/internal/dice"
	"github.com/samdwyer/squadsim/internal/entity"
	"github.com/samdwyer/squadsim/internal/gamedata"
	"github.com/samdwyer/squadsim/internal/stats"
)

func TestWriteRound(t *testing.T) {
	r := combat.CombatRound{
		Number:       3,
		Tactics:      combat.Sides[int]{Attacker: 25, Defender: 13},
		Damage:       combat.Sides[int]{Attacker: 24, Defender: 4},
		ActualDamage: combat.Sides[int]{Attacker: 16, Defender: 1},
		Multiplier:   combat.Sides[float64]{Attacker: 0.7, Defender: 0.3},
		Losses:       combat.Sides[float64]{Attacker: 0, Defender: 0.7},
		HP:           combat.Sides[int]{Attacker: 20, Defender: 6},
		Armor:        combat.Sides[int]{Attacker: 1, Defender: -14},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRound(&buf, r))

	want := strings.Join([]string{
		"############### Round 3",
		"Atk Tactics: 25 / Def Tactics: 13",
		"Atk damage: 24 (16 [0.7])",
		"Def damage: 4 (1 [0.3])",
		"Atk hp: 20 / Def hp: 6",
		"Atk losses: 0 / Def losses: 0.7",
		"Atk armor: 1 / Def armor: -14",
		"",
		"",
	}, "\n")
	assert.Equal(t, want, buf.String())
}

func TestWriteBattle(t *testing.T) {
	side := gamedata.SideDef{Units: 4, BaseSkill: 12, HP: 10, Armor: 2, Dice: 3, Tactics: 10}
	att, err := entity.NewForceFromDef(side)
	require.NoError(t, err)
	def, err := entity.NewForceFromDef(side)
	require.NoError(t, err)

	c := combat.NewSquadCombat(att, def, dice.New(5))
	c.SimulateBattle()

	var buf bytes.Buffer
	require.NoError(t, WriteBattle(&buf, 0, c))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, rule+"\nCombat simulation #1\n"+rule+"\n"))
	assert.Equal(t, c.RoundCount(), strings.Count(out, "############### Round "))
}

func TestWriteSummary(t *testing.T) {
	s := stats.Summary{
		Battles:      4,
		AvgRounds:    2.5,
		AttackerWins: 3,
		DefenderWins: 1,
		Rounds: []stats.RoundStats{{
			Round:        1,
			Count:        4,
			Tactics:      stats.Pair{Attacker: 15.25, Defender: 14},
			ActualDamage: stats.Pair{Attacker: 30, Defender: 22.5},
			Losses:       stats.Pair{Attacker: 0.05, Defender: 0.125},
			HP:           stats.Pair{Attacker: 480, Defender: 470},
			Armor:        stats.Pair{Attacker: 120, Defender: 110.5},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, s))
	out := buf.String()

	for _, want := range []string{
		"# Averages per round",
		"Round 1\n",
		"Number of combats reached this round: 4",
		"Average attacker roll: 15.25",
		"Average defender damage: 22.50",
		"Average defender losses: 0.1250",
		"Average defender armor: 110.50",
		"Average number of rounds: 2.50",
		"Number of attacker victories: 3",
		"Number of defender victories: 1",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "undecided")

	s.Undecided = 2
	buf.Reset()
	require.NoError(t, WriteSummary(&buf, s))
	assert.Contains(t, buf.String(), "Number of undecided battles: 2")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteErrors(t *testing.T) {
	assert.EqualError(t, WriteRound(failingWriter{}, combat.CombatRound{Number: 1}), "disk full")
	assert.EqualError(t, WriteSummary(failingWriter{}, stats.Summary{}), "disk full")
	assert.EqualError(t, WriteBattleHeader(failingWriter{}, 0), "disk full")
}
