// Package momentum implements the momentum gate (spec §4.4): a velocity
// tracker per event, a book-pressure tracker per ticker, their weighted
// composite, and the post-signal gate itself.
package momentum

import "time"

// VelocitySample is one fair-value observation.
type VelocitySample struct {
	FairValue int
	At        time.Time
}

// VelocityWindowSize is the default ring capacity (spec §6
// [momentum].velocity_window_size).
const VelocityWindowSize = 20

// VelocityTracker holds a bounded ring of recent fair-value samples for
// one event and produces a score proportional to their signed rate of
// change (spec §4.4). Single-owner per spec §5 (owned by the engine tick
// that processes this event's sport) — no internal locking.
type VelocityTracker struct {
	samples []VelocitySample
	cap     int
}

// NewVelocityTracker returns a tracker with the given ring capacity.
func NewVelocityTracker(capacity int) *VelocityTracker {
	if capacity <= 0 {
		capacity = VelocityWindowSize
	}
	return &VelocityTracker{cap: capacity}
}

// Append adds a new fair-value sample, unless it is an exact duplicate of
// the most recent sample (spec §4.4: "Identical consecutive samples are
// deduplicated") or isReplay is true (spec §4.4/§4.6/§9: replay cycles
// MUST NOT append samples — the tracker must reflect fresh data only).
func (t *VelocityTracker) Append(fairValue int, at time.Time, isReplay bool) {
	if isReplay {
		return
	}
	if n := len(t.samples); n > 0 && t.samples[n-1].FairValue == fairValue {
		return
	}
	t.samples = append(t.samples, VelocitySample{FairValue: fairValue, At: at})
	if len(t.samples) > t.cap {
		t.samples = t.samples[len(t.samples)-t.cap:]
	}
}

// Score returns the signed rate of change of fair value across the
// window, scaled into roughly [-100, 100]: (last - first) fair-value
// cents, per second, scaled by a fixed window so a 1-cent-per-second
// move saturates the range.
func (t *VelocityTracker) Score() float64 {
	if len(t.samples) < 2 {
		return 0
	}
	first := t.samples[0]
	last := t.samples[len(t.samples)-1]
	dt := last.At.Sub(first.At).Seconds()
	if dt <= 0 {
		return 0
	}
	ratePerSec := float64(last.FairValue-first.FairValue) / dt
	score := ratePerSec * 100
	return clamp(score, -100, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
