package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/arbengine/engine/internal/core/control"
)

func TestSleepUntilNextGame_RunsToCompletion(t *testing.T) {
	ctx := context.Background()
	commands := make(chan control.Command)
	now := time.Now()

	start := time.Now()
	cmd, woke := SleepUntilNextGame(ctx, commands, time.Time{}, 30*time.Millisecond, now)
	elapsed := time.Since(start)

	if woke {
		t.Errorf("expected sleep to run to completion, got woke=true cmd=%v", cmd)
	}
	if elapsed < 25*time.Millisecond {
		t.Errorf("expected sleep to last roughly the pre-game interval, elapsed %v", elapsed)
	}
}

func TestSleepUntilNextGame_CappedByEarliestCommence(t *testing.T) {
	ctx := context.Background()
	commands := make(chan control.Command)
	now := time.Now()
	earliest := now.Add(20 * time.Millisecond)

	start := time.Now()
	_, woke := SleepUntilNextGame(ctx, commands, earliest, 1*time.Hour, now)
	elapsed := time.Since(start)

	if woke {
		t.Error("expected sleep to run to completion when capped by commence time")
	}
	if elapsed > 500*time.Millisecond {
		t.Errorf("expected the earlier-commence cap to shorten the wait, elapsed %v", elapsed)
	}
}

func TestSleepUntilNextGame_WokenByCommand(t *testing.T) {
	ctx := context.Background()
	commands := make(chan control.Command, 1)
	commands <- control.Pause
	now := time.Now()

	cmd, woke := SleepUntilNextGame(ctx, commands, time.Time{}, 1*time.Hour, now)

	if !woke {
		t.Fatal("expected a queued command to wake the sleep early")
	}
	if cmd != control.Pause {
		t.Errorf("expected the woken command to be Pause, got %v", cmd)
	}
}

func TestSleepUntilNextGame_WokenByContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	commands := make(chan control.Command)
	now := time.Now()

	cmd, woke := SleepUntilNextGame(ctx, commands, time.Time{}, 1*time.Hour, now)

	if !woke {
		t.Fatal("expected context cancellation to wake the sleep")
	}
	if cmd != control.Quit {
		t.Errorf("expected context cancellation to surface as Quit, got %v", cmd)
	}
}

func TestSleepUntilNextGame_CommenceAlreadyPassedReturnsImmediately(t *testing.T) {
	ctx := context.Background()
	commands := make(chan control.Command)
	now := time.Now()
	earliest := now.Add(-1 * time.Minute) // already started

	start := time.Now()
	_, woke := SleepUntilNextGame(ctx, commands, earliest, 1*time.Hour, now)
	elapsed := time.Since(start)

	if woke {
		t.Error("expected an already-past commence time to return immediately without a wake command")
	}
	if elapsed > 50*time.Millisecond {
		t.Errorf("expected an immediate return, took %v", elapsed)
	}
}
