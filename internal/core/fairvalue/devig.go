// Package fairvalue implements the fair-value engine (spec §4.2):
// American-odds devig for sportsbook-quoted sports, and a static
// score-driven win-probability lookup table for score-feed sports.
package fairvalue

import "math"

// ImpliedProbability converts an American odds integer (e.g. -150, +130)
// to an implied probability in [0, 1]. Grounded on the teacher's
// internal/core/odds/vig.go RemoveVig pattern, adapted from decimal odds
// (the teacher's model) to American odds (this spec's wire format).
func ImpliedProbability(americanOdds int) float64 {
	if americanOdds > 0 {
		return 100.0 / (float64(americanOdds) + 100.0)
	}
	a := float64(-americanOdds)
	return a / (a + 100.0)
}

// ImpliedToAmerican is the inverse of ImpliedProbability, used by the
// American-odds round-trip test (spec §8).
func ImpliedToAmerican(p float64) int {
	if p <= 0 {
		return math.MaxInt32
	}
	if p >= 1 {
		return math.MinInt32
	}
	if p >= 0.5 {
		return int(math.Round(-p / (1 - p) * 100))
	}
	return int(math.Round((1 - p) / p * 100))
}

func clampCents(c int) int {
	if c < 1 {
		return 1
	}
	if c > 99 {
		return 99
	}
	return c
}

// RemoveVig2 devigs American home/away odds to a pair of probabilities
// summing to 1 (spec §4.2 two-way devig, §8 "devig sums to 1" invariant).
func RemoveVig2(homeOdds, awayOdds int) (pHome, pAway float64) {
	ph := ImpliedProbability(homeOdds)
	pa := ImpliedProbability(awayOdds)
	sum := ph + pa
	if sum == 0 {
		return 0.5, 0.5
	}
	return ph / sum, pa / sum
}

// RemoveVig3 devigs American home/away/draw odds to three probabilities
// summing to 1 (spec §4.2 three-way devig, soccer).
func RemoveVig3(homeOdds, awayOdds, drawOdds int) (pHome, pAway, pDraw float64) {
	ph := ImpliedProbability(homeOdds)
	pa := ImpliedProbability(awayOdds)
	pd := ImpliedProbability(drawOdds)
	sum := ph + pa + pd
	if sum == 0 {
		return 1.0 / 3, 1.0 / 3, 1.0 / 3
	}
	return ph / sum, pa / sum, pd / sum
}

// FairValueCents2 devigs American home/away odds and returns the home
// side's fair value in integer cents, clipped to [1, 99] (spec §4.2).
func FairValueCents2(homeOdds, awayOdds int) int {
	pHome, _ := RemoveVig2(homeOdds, awayOdds)
	return clampCents(int(math.Round(pHome * 100)))
}

// FairValueCents3 devigs American home/away/draw odds and returns all
// three fair values in integer cents.
func FairValueCents3(homeOdds, awayOdds, drawOdds int) (home, away, draw int) {
	pHome, pAway, pDraw := RemoveVig3(homeOdds, awayOdds, drawOdds)
	return clampCents(int(math.Round(pHome * 100))),
		clampCents(int(math.Round(pAway * 100))),
		clampCents(int(math.Round(pDraw * 100)))
}
