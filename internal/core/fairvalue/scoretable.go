package fairvalue

import "math"

// GameStatus mirrors ScoreUpdate.game_status (spec §3).
type GameStatus string

const (
	PreGame   GameStatus = "PreGame"
	Live      GameStatus = "Live"
	Halftime  GameStatus = "Halftime"
	Finished  GameStatus = "Finished"
)

// Score-table dimensions (spec §4.2): score_diff in [-40, 40], time_bucket
// = total_elapsed_seconds/30 over 0..96 (regulation, capped at 2880s).
// regulationTable is ~81*97 = 7857 bytes, matching the "~8 KB flat array"
// storage target.
const (
	scoreDiffMin   = -40
	scoreDiffMax   = 40
	scoreDiffRange = scoreDiffMax - scoreDiffMin + 1 // 81
	timeBuckets    = 97                              // 0..96 inclusive
	regulationCap  = 2880                            // seconds
	otTimeBuckets  = 16                               // a 480s overtime period
)

// regulationTable[diff+40][bucket] = home win probability, percent
// (0..100). otTable is the analogous, smaller table for an extra period.
var regulationTable [scoreDiffRange][timeBuckets]uint8
var otTable [scoreDiffRange][otTimeBuckets]uint8

func init() {
	for d := scoreDiffMin; d <= scoreDiffMax; d++ {
		for b := 0; b < timeBuckets; b++ {
			elapsed := b * 30
			timeRemainMin := float64(regulationCap-elapsed) / 60.0
			if timeRemainMin < 0 {
				timeRemainMin = 0
			}
			p := projectedWinProb(float64(d), timeRemainMin)
			regulationTable[d-scoreDiffMin][b] = pctByte(p)
		}
		for b := 0; b < otTimeBuckets; b++ {
			elapsed := b * 30
			timeRemainMin := float64(otTimeBuckets*30-elapsed) / 60.0
			if timeRemainMin < 0 {
				timeRemainMin = 0
			}
			p := projectedWinProb(float64(d), timeRemainMin)
			otTable[d-scoreDiffMin][b] = pctByte(p)
		}
	}
}

func pctByte(p float64) uint8 {
	pct := math.Round(p * 100)
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return uint8(pct)
}

// projectedWinProb is the logistic score-clock model grounded in the
// teacher's internal/core/strategy/hockey/projected_odds.go (and the
// lead floors in projected_odds_v2.go), evaluated at a neutral pregame
// strength (logOdds=0) since the table is indexed purely by score
// differential and game clock, independent of either team's rating.
func projectedWinProb(lead, timeRemainMin float64) float64 {
	const (
		kCoeff = 0.55
		aCoeff = 0.5
		theta  = 4.4
	)
	if timeRemainMin <= 0 {
		switch {
		case lead > 0:
			return 1.0
		case lead < 0:
			return 0.0
		default:
			return 0.5
		}
	}
	// logOdds is 0 at neutral pregame strength, so the time-factor term
	// (which only ever multiplies logOdds in the full per-team model)
	// drops out here; leadTerm carries all of the table's time
	// dependence.
	leadTerm := kCoeff * lead * (1 + aCoeff*(60/(timeRemainMin*60+theta)-1))
	p := sigmoid(leadTerm)
	// Hard floors for large leads, grounded in projected_odds_v2.go.
	switch {
	case lead >= 4:
		p = math.Max(p, 0.99)
	case lead >= 3:
		p = math.Max(p, 0.92)
	case lead <= -4:
		p = math.Min(p, 0.01)
	case lead <= -3:
		p = math.Min(p, 0.08)
	}
	return p
}

func sigmoid(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) }

// PreGameDefault is the configured home-court/neutral baseline used
// before a score feed has produced any live update (spec §4.2: "Pre-game
// defaults to a configured home-court baseline or disables trading").
// 0 signals "disabled" to callers that configure no baseline.
type PreGameDefault int

// ScoreDrivenFairValue looks up the static table for a live game, or
// returns the pre-game/post-game special cases (spec §4.2). scoreDiff is
// home_score - away_score; elapsedSeconds is ScoreUpdate's
// total_elapsed_seconds; inOvertime selects the smaller extra-period
// table.
func ScoreDrivenFairValue(status GameStatus, scoreDiff, elapsedSeconds int, inOvertime bool, pregameBaseline PreGameDefault) (cents int, tradable bool) {
	switch status {
	case PreGame:
		if pregameBaseline <= 0 {
			return 0, false
		}
		return int(pregameBaseline), true
	case Finished:
		if scoreDiff > 0 {
			return 100, true
		}
		return 0, true
	}

	diff := scoreDiff
	if diff < scoreDiffMin {
		diff = scoreDiffMin
	}
	if diff > scoreDiffMax {
		diff = scoreDiffMax
	}

	if inOvertime {
		b := elapsedSeconds / 30
		if b < 0 {
			b = 0
		}
		if b >= otTimeBuckets {
			b = otTimeBuckets - 1
		}
		return clampCents(int(otTable[diff-scoreDiffMin][b])), true
	}

	elapsed := elapsedSeconds
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > regulationCap {
		elapsed = regulationCap
	}
	b := elapsed / 30
	if b >= timeBuckets {
		b = timeBuckets - 1
	}
	return clampCents(int(regulationTable[diff-scoreDiffMin][b])), true
}
