package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/arbengine/engine/internal/adapters/scorefeed"
	"github.com/arbengine/engine/internal/adapters/sportsbook"
	"github.com/arbengine/engine/internal/adapters/venue/venueauth"
	"github.com/arbengine/engine/internal/adapters/venue/venuerest"
	"github.com/arbengine/engine/internal/adapters/venue/venuews"
	"github.com/arbengine/engine/internal/config"
	"github.com/arbengine/engine/internal/core/broadcast"
	"github.com/arbengine/engine/internal/core/calibration"
	"github.com/arbengine/engine/internal/core/control"
	"github.com/arbengine/engine/internal/core/execution"
	"github.com/arbengine/engine/internal/core/livebook"
	"github.com/arbengine/engine/internal/core/match"
	"github.com/arbengine/engine/internal/core/momentum"
	"github.com/arbengine/engine/internal/core/pipeline"
	"github.com/arbengine/engine/internal/sport"
	"github.com/arbengine/engine/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the engine's YAML config file")
	simulate := flag.Bool("simulate", false, "paper-trade: never places real orders, sizes off a virtual balance")
	calibPath := flag.String("calibration-db", "calibration.sqlite", "path to the diagnostic decision log")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *simulate {
		cfg.Simulate = true
	}

	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))
	telemetry.Infof("Starting engine  simulate=%v  config=%s", cfg.Simulate, *configPath)

	// ── Venue auth + clients ────────────────────────────────────
	signer, err := venueauth.NewSignerFromFile(cfg.VenueKeyID, cfg.VenueKeyFile)
	if err != nil {
		telemetry.Errorf("venue auth: %v", err)
		os.Exit(1)
	}
	if !signer.Enabled() && !cfg.Simulate {
		telemetry.Errorf("venue credentials missing — set VENUE_{PROD,DEMO}_KEYID and _KEYFILE, or run with --simulate")
		os.Exit(1)
	}
	telemetry.Infof("venue connected  api=%s", cfg.VenueBaseURL)

	restClient := venuerest.NewClient(cfg.VenueBaseURL, signer)
	book := livebook.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Market index + resolver ─────────────────────────────────
	idx := match.NewIndex()
	resolver := match.NewResolver(restClient, idx)

	// ── Feeds ───────────────────────────────────────────────────
	oddsSrc := sportsbook.NewClient(cfg.SportsbookAPIKey, 5)
	scoreSrc := scorefeed.NewClient(
		cfg.ScoreFeed.PrimaryURL, cfg.ScoreFeed.SecondaryURL, cfg.SportsbookAPIKey,
		cfg.ScoreFeed.FailoverThreshold,
		time.Duration(cfg.ScoreFeed.RequestTimeoutMs)*time.Millisecond,
	)

	// ── Shared broadcast + control state ────────────────────────
	b := broadcast.New()
	enabledSports := make(map[sport.Sport]bool, len(cfg.Sports))
	for key, on := range cfg.Sports {
		enabledSports[sport.Sport(key)] = on
	}
	controller := control.New(enabledSports, *configPath)
	b.SetEnabledSports(controller.Enabled())

	// ── Execution lanes ─────────────────────────────────────────
	router := execution.NewLaneRouter()
	execution.RegisterAllFromConfig(router, cfg.Risk, controller.Enabled())
	orderTTL := time.Duration(cfg.Execution.MakerTimeoutMs) * time.Millisecond
	execSvc := execution.NewService(router, restClient, b, orderTTL)

	// ── Calibration log (additive, non-critical) ────────────────
	calibStore, err := calibration.Open(*calibPath)
	if err != nil {
		telemetry.Warnf("calibration store disabled: %v", err)
		calibStore = nil
	}

	// ── Bankroll seed ───────────────────────────────────────────
	bankrollCents := cfg.SimBankrollCents
	if !cfg.Simulate {
		balance, err := restClient.GetBalance(ctx)
		if err != nil {
			telemetry.Errorf("venue get_balance: %v", err)
			os.Exit(1)
		}
		bankrollCents = balance
	}
	telemetry.Infof("bankroll seeded  cents=%s  simulate=%v", humanize.Comma(int64(bankrollCents)), cfg.Simulate)

	// ── Initial market refresh ───────────────────────────────────
	for _, s := range sport.All() {
		if !controller.IsEnabled(s) {
			continue
		}
		if err := resolver.RefreshMarkets(ctx, s); err != nil {
			telemetry.Warnf("initial market refresh failed for %s: %v", s, err)
			continue
		}
	}

	volumeBook := momentum.NewVolumeBook()
	wsClient := venuews.NewClient(cfg.VenueWSURL, signer, book,
		func(ticker string, yesVolume, noVolume int) {
			// Hand off to the shared bridge; the engine tick drains it
			// once per tick into its own single-owned book-pressure
			// trackers (internal/core/pipeline), keeping this ingest
			// callback free of any engine-tick-state dependency.
			volumeBook.Update(ticker, yesVolume, noVolume, time.Now())
		},
		func(connected bool) {
			if connected {
				telemetry.Infof("venue WS connected")
			} else {
				telemetry.Warnf("venue WS disconnected")
			}
		},
	)
	if cfg.Simulate {
		telemetry.Infof("simulate mode: venue WS connect skipped, trading against cached quotes only")
	} else {
		if err := wsClient.Connect(ctx); err != nil {
			telemetry.Errorf("venue WS connect: %v", err)
			os.Exit(1)
		}
		if tickers := idx.AllTickers(); len(tickers) > 0 {
			if err := wsClient.SubscribeTickers(tickers); err != nil {
				telemetry.Warnf("venue WS subscribe: %v", err)
			}
		}
	}

	// ── Engine tick loop ─────────────────────────────────────────
	engine := pipeline.NewEngine(cfg, controller, resolver, oddsSrc, scoreSrc, book, execSvc, calibStore, b, volumeBook, bankrollCents)
	go engine.Run(ctx)

	// ── Display tick (spec §2/§5: 200ms LiveBook -> PatchQuotes) ─
	go runDisplayTick(ctx, book, b, 200*time.Millisecond)

	// ── Shutdown ─────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	telemetry.Infof("shutting down...")
	controller.Send(control.Quit)
	cancel()
	wsClient.Close()

	if calibStore != nil {
		calibStore.Close()
	}

	telemetry.Infof("shutdown complete  ticks=%s  replay_ticks=%s  orders=%s  order_errors=%s  match_failures=%s",
		humanize.Comma(telemetry.Metrics.TicksRun.Value()),
		humanize.Comma(telemetry.Metrics.ReplayTicks.Value()),
		humanize.Comma(telemetry.Metrics.OrdersSent.Value()),
		humanize.Comma(telemetry.Metrics.OrderErrors.Value()),
		humanize.Comma(telemetry.Metrics.MatchFailures.Value()),
	)
}

// runDisplayTick patches {bid, ask, edge} on the broadcast snapshot's
// existing rows every interval, between engine ticks (spec §2/§5: "the
// 200ms display tick patches bid/ask/edge from LiveBook"). It never adds
// or removes rows — only the engine tick's ReplaceRows does that.
func runDisplayTick(ctx context.Context, book *livebook.LiveBook, b *broadcast.Broadcaster, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			patchQuotesFromLiveBook(book, b)
		}
	}
}

func patchQuotesFromLiveBook(book *livebook.LiveBook, b *broadcast.Broadcaster) {
	snap := b.Latest()
	if len(snap.Rows) == 0 {
		return
	}
	quotes := book.Snapshot()
	patch := make(map[string]struct{ Bid, Ask, Edge int }, len(snap.Rows))
	for _, row := range snap.Rows {
		q, ok := quotes[row.Ticker]
		if !ok {
			continue
		}
		patch[row.Ticker] = struct{ Bid, Ask, Edge int }{
			Bid:  q.YesBid,
			Ask:  q.YesAsk,
			Edge: row.FairValue - q.YesAsk,
		}
	}
	b.PatchQuotes(patch)
}
