package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/arbengine/engine/internal/adapters/scorefeed"
	"github.com/arbengine/engine/internal/adapters/sportsbook"
	"github.com/arbengine/engine/internal/config"
	"github.com/arbengine/engine/internal/core/broadcast"
	"github.com/arbengine/engine/internal/core/control"
	"github.com/arbengine/engine/internal/core/execution"
	"github.com/arbengine/engine/internal/core/execution/lanes"
	"github.com/arbengine/engine/internal/core/livebook"
	"github.com/arbengine/engine/internal/core/match"
	"github.com/arbengine/engine/internal/core/momentum"
	"github.com/arbengine/engine/internal/sport"
)

// stubFetcher satisfies match.Fetcher without ever contacting a venue;
// ensureFresh's refresh-on-first-use is harmless against a pre-seeded
// Index since Insert only adds/overwrites, never clears.
type stubFetcher struct{}

func (stubFetcher) ListMarkets(ctx context.Context, seriesPrefix string) ([]match.RawMarket, error) {
	return nil, nil
}

// newTestResolver returns a Resolver and the Index backing it, so tests
// can seed matched games directly without a fake HTTP round trip.
// ensureFresh's refresh-on-first-use is harmless here since the stub
// fetcher's empty ListMarkets result never clears pre-seeded entries.
func newTestResolver(t *testing.T) (*match.Resolver, *match.Index) {
	t.Helper()
	idx := match.NewIndex()
	return match.NewResolver(stubFetcher{}, idx), idx
}

// insertSide inserts a two-way home/away SideMarket pair for (home, away)
// on commenceAt's calendar date, both tickers tradable.
func insertSide(t *testing.T, idx *match.Index, s sport.Sport, home, away string, commenceAt time.Time, ticker string) {
	t.Helper()
	key, ok := match.GenerateKey(s, home, away, commenceAt)
	if !ok {
		t.Fatalf("GenerateKey failed for %s/%s", home, away)
	}
	side := match.SideMarket{
		Ticker:     ticker,
		Status:     match.StatusOpen,
		CommenceAt: commenceAt,
	}
	if err := idx.Insert(key, match.SlotHome, match.Normalize(s, home), side); err != nil {
		t.Fatalf("insert home side: %v", err)
	}
	awaySide := side
	awaySide.Ticker = ticker + "-away"
	if err := idx.Insert(key, match.SlotAway, match.Normalize(s, away), awaySide); err != nil {
		t.Fatalf("insert away side: %v", err)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Strategy: config.StrategyConfig{
			TakerEdgeThresholdCents: 5,
			MakerEdgeThresholdCents: 2,
			MinEdgeAfterFeesCents:   1,
		},
		Risk: config.RiskConfig{
			MaxContractsPerMarket: 100,
			KellyFraction:         0.25,
		},
		Execution: config.ExecutionConfig{
			StaleOddsThresholdMs: 0,
		},
		Momentum: config.MomentumConfig{
			VelocityWindowSize:     momentum.VelocityWindowSize,
			TakerMomentumThreshold: -100,
			MakerMomentumThreshold: -100,
		},
		ScoreFeed: config.ScoreFeedConfig{
			LivePollIntervalSec:    5,
			PreGamePollIntervalSec: 60,
		},
	}
}

type stubScoreSource struct {
	updates []scorefeed.ScoreUpdate
	err     error
	calls   int
}

func (s *stubScoreSource) Fetch(ctx context.Context, sp sport.Sport) ([]scorefeed.ScoreUpdate, error) {
	s.calls++
	return s.updates, s.err
}
func (s *stubScoreSource) PrimaryURL() string   { return "stub-primary" }
func (s *stubScoreSource) SecondaryURL() string { return "stub-secondary" }

type stubOddsSource struct {
	updates []sportsbook.OddsUpdate
	err     error
	calls   int
}

func (s *stubOddsSource) FetchOdds(ctx context.Context, sp sport.Sport) ([]sportsbook.OddsUpdate, error) {
	s.calls++
	return s.updates, s.err
}
func (s *stubOddsSource) LastQuota() (sportsbook.Quota, bool) { return sportsbook.Quota{}, false }

func newTestEngine(t *testing.T, scoreSrc *stubScoreSource, oddsSrc *stubOddsSource, resolver *match.Resolver, book *livebook.LiveBook) *Engine {
	t.Helper()
	router := execution.NewLaneRouter()
	router.Register(sport.Basketball, "*", lanes.NewLane(10, 10_000, 100_000, 0))
	svc := execution.NewService(router, noopPlacer{}, broadcast.New(), 0)
	return NewEngine(testConfig(), control.New(nil, ""), resolver, oddsSrc, scoreSrc, book, svc, nil, broadcast.New(), momentum.NewVolumeBook(), 100_000)
}

type noopPlacer struct{}

func (noopPlacer) PlaceOrder(ctx context.Context, req execution.OrderRequest) (execution.OrderResult, error) {
	return execution.OrderResult{OrderID: "stub"}, nil
}

func TestRunSport_ScoreDriven_LiveGameProducesRow(t *testing.T) {
	resolver, idx := newTestResolver(t)
	commence := time.Now().Add(-1 * time.Hour)
	insertSide(t, idx, sport.Basketball, "Lakers", "Celtics", commence, "TICK1")

	scoreSrc := &stubScoreSource{updates: []scorefeed.ScoreUpdate{{
		GameID: "g1", HomeTeam: "Lakers", AwayTeam: "Celtics",
		HomeScore: 50, AwayScore: 48, Period: 3, ClockSecs: 300,
		GameStatus: scorefeed.Live,
	}}}
	book := livebook.New()
	book.Update("TICK1", livebook.Quote{YesBid: 40, YesAsk: 45})

	e := newTestEngine(t, scoreSrc, nil, resolver, book)
	result := e.runSport(context.Background(), sport.Basketball, time.Now())

	if result.stats.Live != 1 {
		t.Fatalf("expected 1 live game observed, got stats=%+v", result.stats)
	}
	if len(result.rows) != 1 {
		t.Fatalf("expected 1 market row produced, got %d", len(result.rows))
	}
	if result.rows[0].Ticker != "TICK1" {
		t.Errorf("expected row for TICK1, got %q", result.rows[0].Ticker)
	}
}

func TestRunSport_UnmatchedGameCountsAsMatchFailureNotError(t *testing.T) {
	resolver, _ := newTestResolver(t) // nothing inserted: every game fails to match
	scoreSrc := &stubScoreSource{updates: []scorefeed.ScoreUpdate{{
		GameID: "g1", HomeTeam: "Nowhere FC", AwayTeam: "Noone United",
		HomeScore: 1, AwayScore: 0, Period: 1, ClockSecs: 600,
		GameStatus: scorefeed.Live,
	}}}
	book := livebook.New()
	e := newTestEngine(t, scoreSrc, nil, resolver, book)

	result := e.runSport(context.Background(), sport.Basketball, time.Now())
	if len(result.rows) != 0 {
		t.Errorf("expected no rows for an unmatched game, got %d", len(result.rows))
	}
	if result.stats.Live != 0 {
		t.Errorf("expected an unmatched game to not count toward live stats, got %+v", result.stats)
	}
}

func TestRunSport_PreGameCommenceNotYetReachedIsNotLive(t *testing.T) {
	resolver, idx := newTestResolver(t)
	commence := time.Now().Add(2 * time.Hour)
	insertSide(t, idx, sport.Basketball, "Lakers", "Celtics", commence, "TICK1")

	scoreSrc := &stubScoreSource{updates: []scorefeed.ScoreUpdate{{
		GameID: "g1", HomeTeam: "Lakers", AwayTeam: "Celtics",
		HomeScore: 0, AwayScore: 0, Period: 1, ClockSecs: 720,
		GameStatus: scorefeed.PreGame,
	}}}
	book := livebook.New()
	book.Update("TICK1", livebook.Quote{YesBid: 40, YesAsk: 45})
	e := newTestEngine(t, scoreSrc, nil, resolver, book)

	result := e.runSport(context.Background(), sport.Basketball, time.Now())
	if result.stats.PreGame != 1 {
		t.Errorf("expected the game to be classified pre-game, got stats=%+v", result.stats)
	}
	if len(result.rows) != 0 {
		t.Errorf("expected no row produced before commence, got %d", len(result.rows))
	}
	if result.stats.EarliestCommence.IsZero() {
		t.Error("expected EarliestCommence to be recorded for a pre-game market")
	}
}

func TestRunSport_NoQuoteInLiveBookProducesNoRow(t *testing.T) {
	resolver, idx := newTestResolver(t)
	commence := time.Now().Add(-1 * time.Hour)
	insertSide(t, idx, sport.Basketball, "Lakers", "Celtics", commence, "TICK1")

	scoreSrc := &stubScoreSource{updates: []scorefeed.ScoreUpdate{{
		GameID: "g1", HomeTeam: "Lakers", AwayTeam: "Celtics",
		HomeScore: 50, AwayScore: 48, Period: 3, ClockSecs: 300,
		GameStatus: scorefeed.Live,
	}}}
	book := livebook.New() // no quote for TICK1
	e := newTestEngine(t, scoreSrc, nil, resolver, book)

	result := e.runSport(context.Background(), sport.Basketball, time.Now())
	if len(result.rows) != 0 {
		t.Errorf("expected no row when the ticker has no live quote, got %d", len(result.rows))
	}
	// The game was still live per the filter; it just never reached a row.
	if result.stats.Live != 1 {
		t.Errorf("expected the live filter count to still reflect the live game, got %+v", result.stats)
	}
}

func TestRunSport_ReplayDoesNotRefetch(t *testing.T) {
	resolver, idx := newTestResolver(t)
	commence := time.Now().Add(-1 * time.Hour)
	insertSide(t, idx, sport.Basketball, "Lakers", "Celtics", commence, "TICK1")

	scoreSrc := &stubScoreSource{updates: []scorefeed.ScoreUpdate{{
		GameID: "g1", HomeTeam: "Lakers", AwayTeam: "Celtics",
		HomeScore: 50, AwayScore: 48, Period: 3, ClockSecs: 300,
		GameStatus: scorefeed.Live,
	}}}
	book := livebook.New()
	book.Update("TICK1", livebook.Quote{YesBid: 40, YesAsk: 45})
	e := newTestEngine(t, scoreSrc, nil, resolver, book)

	now := time.Now()
	e.runSport(context.Background(), sport.Basketball, now)
	if scoreSrc.calls != 1 {
		t.Fatalf("expected the first tick to fetch once, got %d calls", scoreSrc.calls)
	}

	// Second tick arrives well within the live poll interval: should replay
	// the cached updates rather than fetching again.
	e.runSport(context.Background(), sport.Basketball, now.Add(1*time.Second))
	if scoreSrc.calls != 1 {
		t.Errorf("expected a tick inside the poll interval to replay cached data, got %d fetch calls", scoreSrc.calls)
	}
}

func TestRunSport_OddsDrivenSport_LiveProducesRow(t *testing.T) {
	resolver, idx := newTestResolver(t)
	commence := time.Now().Add(-1 * time.Hour)
	insertSide(t, idx, sport.MMA, "Fighter A", "Fighter B", commence, "TICKMMA")

	oddsSrc := &stubOddsSource{updates: []sportsbook.OddsUpdate{{
		EventID: "e1", HomeTeam: "Fighter A", AwayTeam: "Fighter B", CommenceTime: commence,
		Bookmakers: []sportsbook.BookmakerOdds{{
			Bookmaker: "book1", HomePrice: -150, AwayPrice: 130, LastUpdate: time.Now(),
		}},
	}}}
	book := livebook.New()
	book.Update("TICKMMA", livebook.Quote{YesBid: 55, YesAsk: 60})
	e := newTestEngine(t, nil, oddsSrc, resolver, book)

	result := e.runSport(context.Background(), sport.MMA, time.Now())
	if len(result.rows) != 1 {
		t.Fatalf("expected 1 row for a live odds-driven market, got %d", len(result.rows))
	}
}

func TestRunSport_StaleOddsAreSkipped(t *testing.T) {
	resolver, idx := newTestResolver(t)
	commence := time.Now().Add(-1 * time.Hour)
	insertSide(t, idx, sport.MMA, "Fighter A", "Fighter B", commence, "TICKMMA")

	oddsSrc := &stubOddsSource{updates: []sportsbook.OddsUpdate{{
		EventID: "e1", HomeTeam: "Fighter A", AwayTeam: "Fighter B", CommenceTime: commence,
		Bookmakers: []sportsbook.BookmakerOdds{{
			Bookmaker: "book1", HomePrice: -150, AwayPrice: 130,
			LastUpdate: time.Now().Add(-1 * time.Hour), // stale
		}},
	}}}
	book := livebook.New()
	book.Update("TICKMMA", livebook.Quote{YesBid: 55, YesAsk: 60})
	e := newTestEngine(t, nil, oddsSrc, resolver, book)
	e.cfg.Execution.StaleOddsThresholdMs = 1000

	result := e.runSport(context.Background(), sport.MMA, time.Now())
	if len(result.rows) != 0 {
		t.Errorf("expected stale odds to be skipped and produce no row, got %d", len(result.rows))
	}
}
