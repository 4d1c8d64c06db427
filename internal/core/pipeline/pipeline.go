package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/arbengine/engine/internal/adapters/scorefeed"
	"github.com/arbengine/engine/internal/adapters/sportsbook"
	"github.com/arbengine/engine/internal/config"
	"github.com/arbengine/engine/internal/core/broadcast"
	"github.com/arbengine/engine/internal/core/calibration"
	"github.com/arbengine/engine/internal/core/control"
	"github.com/arbengine/engine/internal/core/execution"
	"github.com/arbengine/engine/internal/core/livebook"
	"github.com/arbengine/engine/internal/core/match"
	"github.com/arbengine/engine/internal/core/momentum"
	"github.com/arbengine/engine/internal/sport"
	"github.com/arbengine/engine/internal/telemetry"
)

// Engine owns the per-sport pipeline state and runs the engine tick
// loop. Only the tick goroutine touches the per-sport maps (spec §5
// single-owner discipline); everything else it reads/writes
// (LiveBook, MarketIndex, AppSnapshot, EnabledSports, Controller) is
// itself already safe for concurrent access.
type Engine struct {
	cfg       *config.Config
	controller *control.Controller
	resolver  *match.Resolver
	oddsSrc   sportsbook.Source
	scoreSrc  scorefeed.Source
	book      *livebook.LiveBook
	exec      *execution.Service
	calib     *calibration.Store
	broadcast *broadcast.Broadcaster

	// volumes bridges the venue WS ingest task's asynchronous volume
	// writes into the tick-owned bookPressure rings below (spec §5
	// single-owner discipline; see momentum.VolumeBook).
	volumes *momentum.VolumeBook

	bankroll atomicBankroll

	mu           sync.Mutex
	states       map[sport.Sport]*sportState
	bookPressure map[string]*momentum.BookPressureTracker // keyed by ticker; tick-goroutine only
}

// atomicBankroll guards the Kelly-sizing bankroll with a short mutex so
// --simulate mode and a future balance poller can update it while the
// engine tick reads it; every read and write takes the lock.
type atomicBankroll struct {
	mu    sync.Mutex
	cents int
}

func (b *atomicBankroll) set(cents int) {
	b.mu.Lock()
	b.cents = cents
	b.mu.Unlock()
}

func (b *atomicBankroll) get() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cents
}

// NewEngine wires an Engine from its already-constructed dependencies.
// initialBankrollCents seeds the Kelly sizer (spec §4.3); in --simulate
// mode this is the configured virtual balance, otherwise the venue's
// real balance fetched at startup.
func NewEngine(cfg *config.Config, controller *control.Controller, resolver *match.Resolver, oddsSrc sportsbook.Source, scoreSrc scorefeed.Source, book *livebook.LiveBook, exec *execution.Service, calib *calibration.Store, b *broadcast.Broadcaster, volumes *momentum.VolumeBook, initialBankrollCents int) *Engine {
	e := &Engine{
		cfg:          cfg,
		controller:   controller,
		resolver:     resolver,
		oddsSrc:      oddsSrc,
		scoreSrc:     scoreSrc,
		book:         book,
		exec:         exec,
		calib:        calib,
		broadcast:    b,
		volumes:      volumes,
		states:       make(map[sport.Sport]*sportState),
		bookPressure: make(map[string]*momentum.BookPressureTracker),
	}
	e.bankroll.set(initialBankrollCents)
	return e
}

// bookPressureFor returns the book-pressure tracker for ticker, creating
// it on first use. Keyed globally by ticker rather than per sport: a
// ticker belongs to exactly one game regardless of sport, and the
// venue WS volume stream it is fed from (via drainVolumes) carries no
// sport attribution of its own. Tick-goroutine only, no lock needed.
func (e *Engine) bookPressureFor(ticker string) *momentum.BookPressureTracker {
	t, ok := e.bookPressure[ticker]
	if !ok {
		t = momentum.NewBookPressureTracker(momentum.VelocityWindowSize)
		e.bookPressure[ticker] = t
	}
	return t
}

// drainVolumes pulls every unconsumed WS volume sample and appends it to
// the owning ticker's book-pressure ring, once per tick (spec §5: the
// venue WS task writes, the tick goroutine is the sole reader/consumer).
func (e *Engine) drainVolumes(now time.Time) {
	samples := e.volumes.Drain()
	for ticker, sample := range samples {
		at := sample.At
		if at.IsZero() {
			at = now
		}
		e.bookPressureFor(ticker).Append(sample.YesVolume, sample.NoVolume, at)
	}
}

// SetBankrollCents updates the Kelly-sizing bankroll, e.g. after a
// get_balance() poll or a simulated fill.
func (e *Engine) SetBankrollCents(cents int) { e.bankroll.set(cents) }

func (e *Engine) bankrollCents() int { return e.bankroll.get() }

func (e *Engine) stateFor(s sport.Sport) *sportState {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.states[s]
	if !ok {
		st = newSportState()
		e.states[s] = st
	}
	return st
}

// Run is the top-level engine tick loop (spec §4.6 "after all sports:
// write the snapshot, then possibly sleep per §4.5"). It runs until ctx
// is cancelled or a Quit command is received, honoring Pause/Resume at
// every suspension point (spec §5: "shutdown via single quit command
// checked at every suspension point").
func (e *Engine) Run(ctx context.Context) {
	paused := false
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-e.controller.Commands():
			switch cmd {
			case control.Quit:
				return
			case control.Pause:
				paused = true
			case control.Resume:
				paused = false
			}
			continue
		default:
		}

		if paused {
			select {
			case <-ctx.Done():
				return
			case cmd := <-e.controller.Commands():
				if cmd == control.Quit {
					return
				}
				if cmd == control.Resume {
					paused = false
				}
			}
			continue
		}

		now := time.Now()
		var allRows []broadcast.MarketRow
		var allStats FilterStats
		enabled := e.controller.Enabled()

		telemetry.Metrics.TicksRun.Inc()
		if e.volumes != nil {
			e.drainVolumes(now)
		}
		for _, s := range sport.All() {
			if !enabled[s] {
				continue
			}
			result := e.runSport(ctx, s, now)
			allRows = append(allRows, result.rows...)
			allStats.Merge(result.stats)
		}
		telemetry.Metrics.TickLatency.Record(time.Since(now))
		telemetry.Metrics.ActiveMarkets.Set(int64(len(allRows)))

		nextGameIn := time.Duration(0)
		if !allStats.EarliestCommence.IsZero() {
			nextGameIn = allStats.EarliestCommence.Sub(now)
			if nextGameIn < 0 {
				nextGameIn = 0
			}
		}
		e.broadcast.ReplaceRows(allRows, broadcast.FilterStats{
			Live: allStats.Live, PreGame: allStats.PreGame, Closed: allStats.Closed,
			EarliestCommence: allStats.EarliestCommence,
		}, nextGameIn)

		if allStats.Live == 0 && !allStats.EarliestCommence.IsZero() {
			preGameInterval := time.Duration(e.cfg.ScoreFeed.PreGamePollIntervalSec) * time.Second
			if preGameInterval <= 0 {
				preGameInterval = 60 * time.Second
			}
			cmd, woke := SleepUntilNextGame(ctx, e.controller.Commands(), allStats.EarliestCommence, preGameInterval, now)
			if woke {
				switch cmd {
				case control.Quit:
					return
				case control.Pause:
					paused = true
				case control.Resume:
					paused = false
				}
			}
		}
	}
}
