// Package combat resolves squad battles round by round.
package combat

// RatioMod returns the force-size modifier from the attacker's perspective.
// The larger/smaller unit-count ratio is banded (<1.5: 0, <3: 1, <5: 2, else 3)
// and negated unless the attacker has strictly more units.
func RatioMod(attackerUnits, defenderUnits int) int {
	if attackerUnits <= 0 || defenderUnits <= 0 {
		return 0
	}

	var ratio float64
	if attackerUnits > defenderUnits {
		ratio = float64(attackerUnits) / float64(defenderUnits)
	} else {
		ratio = float64(defenderUnits) / float64(attackerUnits)
	}

	var mod int
	switch {
	case ratio < 1.5:
		mod = 0
	case ratio < 3:
		mod = 1
	case ratio < 5:
		mod = 2
	default:
		mod = 3
	}

	if attackerUnits <= defenderUnits {
		mod = -mod
	}
	return mod
}

// damageSplits maps |tactics differential| thresholds to the winner's share
// of landed damage, in percent. Checked in order; the first match wins.
var damageSplits = []struct {
	minDiff int
	share   int
}{
	{15, 80},
	{10, 70},
	{6, 60},
	{0, 50},
}

// DamageSplit returns the percentage of rolled damage that lands for the
// attacker and the defender given the tactics differential (attacker - defender).
// The side with the higher tactics roll gets the larger share.
func DamageSplit(diff int) (attacker, defender int) {
	abs := diff
	if abs < 0 {
		abs = -abs
	}

	share := 50
	for _, s := range damageSplits {
		if abs >= s.minDiff {
			share = s.share
			break
		}
	}

	if diff < 0 {
		return 100 - share, share
	}
	return share, 100 - share
}

// applyShare truncates damage * percent / 100 toward zero.
func applyShare(damage, percent int) int {
	return damage * percent / 100
}
