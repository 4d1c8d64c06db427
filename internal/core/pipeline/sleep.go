package pipeline

import (
	"context"
	"time"

	"github.com/arbengine/engine/internal/core/control"
)

// SleepUntilNextGame implements spec §4.5's sleep-until-next-game: sleep
// for min(earliestCommence-now, preGameInterval), cancellable by context
// cancellation or any control command (pause/resume/quit). It returns
// the command that woke it early, or false if the sleep ran to
// completion.
func SleepUntilNextGame(ctx context.Context, commands <-chan control.Command, earliestCommence time.Time, preGameInterval time.Duration, now time.Time) (control.Command, bool) {
	wait := preGameInterval
	if !earliestCommence.IsZero() {
		if untilGame := earliestCommence.Sub(now); untilGame < wait {
			wait = untilGame
		}
	}
	if wait <= 0 {
		return 0, false
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return control.Quit, true
	case cmd := <-commands:
		return cmd, true
	case <-timer.C:
		return 0, false
	}
}
