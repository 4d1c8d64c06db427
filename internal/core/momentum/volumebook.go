package momentum

import (
	"sync"
	"time"
)

// VolumeBook is the shared bridge between the venue WS ingest task
// (writer) and the engine tick's single-owned BookPressureTracker ring
// (reader/drainer): the same "short critical section, snapshot-and-
// release" discipline as livebook.LiveBook (spec §5), with per-ticker
// last-writer-wins coalescing, applied here to (yes_volume, no_volume)
// pairs instead of quotes.
type VolumeBook struct {
	mu      sync.Mutex
	samples map[string]VelocitySampleVolume
}

// VelocitySampleVolume is one ticker's most recent unconsumed volume
// observation.
type VelocitySampleVolume struct {
	YesVolume int
	NoVolume  int
	At        time.Time
}

// NewVolumeBook returns an empty VolumeBook.
func NewVolumeBook() *VolumeBook {
	return &VolumeBook{samples: make(map[string]VelocitySampleVolume)}
}

// Update records the latest volume pair for ticker, overwriting any
// unconsumed prior sample (last-writer-wins).
func (vb *VolumeBook) Update(ticker string, yesVolume, noVolume int, at time.Time) {
	vb.mu.Lock()
	vb.samples[ticker] = VelocitySampleVolume{YesVolume: yesVolume, NoVolume: noVolume, At: at}
	vb.mu.Unlock()
}

// Drain returns and clears every unconsumed sample. Called once per
// engine tick so each ticker's BookPressureTracker sees at most one
// fresh append per tick, regardless of how many WS frames arrived.
func (vb *VolumeBook) Drain() map[string]VelocitySampleVolume {
	vb.mu.Lock()
	defer vb.mu.Unlock()
	if len(vb.samples) == 0 {
		return nil
	}
	out := vb.samples
	vb.samples = make(map[string]VelocitySampleVolume)
	return out
}
