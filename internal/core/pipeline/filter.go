// Package pipeline implements the per-sport engine tick loop (spec
// §4.5 live-filter/staleness/sleep, §4.6 sport pipeline loop): for
// each enabled sport, decide whether to fetch, run the cached or fresh
// updates through the matcher -> live filter -> fair-value -> momentum
// gate -> signal engine, merge rows and counters into the broadcast
// snapshot, and sleep cancellably until the next game when nothing is
// live. Grounded on the teacher's strategy_engine.go tick loop, adapted
// from its event-bus dispatch to a direct poll/replay cycle.
package pipeline

import (
	"time"

	"github.com/arbengine/engine/internal/core/match"
	"github.com/arbengine/engine/internal/telemetry"
)

// FilterResult classifies one matched game for a tick (spec §4.5).
type FilterResult int

const (
	FilterLive FilterResult = iota
	FilterPreGame
	FilterClosed
)

// Classify implements spec §4.5's live definition: live iff
// commence_time <= now AND status in {open,active} AND (no close_time
// or close_time > now). Failing the commence check is pre-game; failing
// the status/close-time check is closed.
func Classify(side match.SideMarket, commence, now time.Time) FilterResult {
	if commence.After(now) {
		return FilterPreGame
	}
	tradable := side.Status.IsTradable() && (!side.HasCloseTime() || side.CloseTime.After(now))
	if !tradable {
		return FilterClosed
	}
	return FilterLive
}

// FilterStats accumulates one tick's per-sport filter counters (spec
// §4.5 "per-poll counters" / §8 "live filter exhaustiveness").
type FilterStats struct {
	Live             int
	PreGame          int
	Closed           int
	EarliestCommence time.Time // zero means "none observed"
}

// Observe folds one game's classification and commence time into the
// accumulator.
func (f *FilterStats) Observe(result FilterResult, commence, now time.Time) {
	switch result {
	case FilterLive:
		f.Live++
		telemetry.Metrics.FilterLive.Inc()
	case FilterPreGame:
		f.PreGame++
		telemetry.Metrics.FilterPreGame.Inc()
		if commence.After(now) && (f.EarliestCommence.IsZero() || commence.Before(f.EarliestCommence)) {
			f.EarliestCommence = commence
		}
	case FilterClosed:
		f.Closed++
		telemetry.Metrics.FilterClosed.Inc()
	}
}

// Merge folds other into f, keeping the earlier of the two
// EarliestCommence values (spec §4.6 step 5: "merge the returned filter
// counters and row set into tick-level accumulators").
func (f *FilterStats) Merge(other FilterStats) {
	f.Live += other.Live
	f.PreGame += other.PreGame
	f.Closed += other.Closed
	if other.EarliestCommence.IsZero() {
		return
	}
	if f.EarliestCommence.IsZero() || other.EarliestCommence.Before(f.EarliestCommence) {
		f.EarliestCommence = other.EarliestCommence
	}
}

// StalenessSeconds computes spec §4.5's per-row staleness:
// now - min(last_update of contributing bookmakers).
func StalenessSeconds(oldestUpdate, now time.Time) float64 {
	if oldestUpdate.IsZero() {
		return 0
	}
	secs := now.Sub(oldestUpdate).Seconds()
	if secs < 0 {
		return 0
	}
	return secs
}
