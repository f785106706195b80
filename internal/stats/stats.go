// Package stats accumulates round-by-round averages and win counts across
// many simulated battles.
package stats

import "github.com/samdwyer/squadsim/internal/combat"

// Pair is an attacker/defender pair of averages.
type Pair = combat.Sides[float64]

// RoundStats holds the averages of every round-record field over the battles
// that reached a given round.
type RoundStats struct {
	Round        int
	Count        int // Battles that reached this round
	Tactics      Pair
	Damage       Pair
	ActualDamage Pair
	Multiplier   Pair
	Losses       Pair
	HP           Pair
	Armor        Pair
}

// Summary is the aggregate result of a batch of battles.
type Summary struct {
	Battles      int
	AvgRounds    float64
	AttackerWins int
	DefenderWins int
	Undecided    int // Battles stopped by a round cap
	Rounds       []RoundStats
}

// WinRate returns the fraction of battles won by w.
func (s Summary) WinRate(w combat.Winner) float64 {
	if s.Battles == 0 {
		return 0
	}
	switch w {
	case combat.AttackerWins:
		return float64(s.AttackerWins) / float64(s.Battles)
	case combat.DefenderWins:
		return float64(s.DefenderWins) / float64(s.Battles)
	default:
		return float64(s.Undecided) / float64(s.Battles)
	}
}

type roundSums struct {
	count        int
	tactics      Pair
	damage       Pair
	actualDamage Pair
	multiplier   Pair
	losses       Pair
	hp           Pair
	armor        Pair
}

func (s *roundSums) add(r combat.CombatRound) {
	s.count++
	addInts(&s.tactics, r.Tactics)
	addInts(&s.damage, r.Damage)
	addInts(&s.actualDamage, r.ActualDamage)
	addFloats(&s.multiplier, r.Multiplier)
	addFloats(&s.losses, r.Losses)
	addInts(&s.hp, r.HP)
	addInts(&s.armor, r.Armor)
}

func addInts(dst *Pair, v combat.Sides[int]) {
	dst.Attacker += float64(v.Attacker)
	dst.Defender += float64(v.Defender)
}

func addFloats(dst *Pair, v combat.Sides[float64]) {
	dst.Attacker += v.Attacker
	dst.Defender += v.Defender
}

func avg(p Pair, n int) Pair {
	return Pair{Attacker: p.Attacker / float64(n), Defender: p.Defender / float64(n)}
}

// Aggregator builds a Summary incrementally, one battle at a time.
// It is not safe for concurrent use.
type Aggregator struct {
	battles      int
	totalRounds  int
	attackerWins int
	defenderWins int
	undecided    int
	rounds       []roundSums // indexed by round number - 1
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Add folds one finished (or capped) battle into the totals.
func (a *Aggregator) Add(rounds []combat.CombatRound, winner combat.Winner) {
	a.battles++
	a.totalRounds += len(rounds)

	switch winner {
	case combat.AttackerWins:
		a.attackerWins++
	case combat.DefenderWins:
		a.defenderWins++
	default:
		a.undecided++
	}

	for _, r := range rounds {
		if r.Number < 1 {
			continue
		}
		for len(a.rounds) < r.Number {
			a.rounds = append(a.rounds, roundSums{})
		}
		a.rounds[r.Number-1].add(r)
	}
}

// AddBattle folds a SquadCombat into the totals.
func (a *Aggregator) AddBattle(c *combat.SquadCombat) {
	a.Add(c.Rounds(), c.Winner())
}

// Battles returns the number of battles added so far.
func (a *Aggregator) Battles() int { return a.battles }

// Summary computes the averages over everything added so far.
func (a *Aggregator) Summary() Summary {
	s := Summary{
		Battles:      a.battles,
		AttackerWins: a.attackerWins,
		DefenderWins: a.defenderWins,
		Undecided:    a.undecided,
	}
	if a.battles > 0 {
		s.AvgRounds = float64(a.totalRounds) / float64(a.battles)
	}

	for i, sums := range a.rounds {
		if sums.count == 0 {
			continue
		}
		s.Rounds = append(s.Rounds, RoundStats{
			Round:        i + 1,
			Count:        sums.count,
			Tactics:      avg(sums.tactics, sums.count),
			Damage:       avg(sums.damage, sums.count),
			ActualDamage: avg(sums.actualDamage, sums.count),
			Multiplier:   avg(sums.multiplier, sums.count),
			Losses:       avg(sums.losses, sums.count),
			HP:           avg(sums.hp, sums.count),
			Armor:        avg(sums.armor, sums.count),
		})
	}
	return s
}
