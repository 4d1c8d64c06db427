package pipeline

import (
	"context"
	"time"

	"github.com/arbengine/engine/internal/adapters/scorefeed"
	"github.com/arbengine/engine/internal/adapters/sportsbook"
	"github.com/arbengine/engine/internal/core/broadcast"
	"github.com/arbengine/engine/internal/core/calibration"
	"github.com/arbengine/engine/internal/core/fairvalue"
	"github.com/arbengine/engine/internal/core/match"
	"github.com/arbengine/engine/internal/core/momentum"
	"github.com/arbengine/engine/internal/core/signal"
	"github.com/arbengine/engine/internal/sport"
	"github.com/arbengine/engine/internal/telemetry"
)

// scoreDropConfirmSec is how long a score decrease must hold steady
// before being treated as a real reversal rather than a garbled frame
// (DOMAIN EXPANSION, match.ScoreDropTracker).
const scoreDropConfirmSec = 3

// sportState holds the per-sport mutable state owned exclusively by the
// engine tick goroutine (spec §5: "cached_updates, commence_times,
// last_poll, velocity/book-pressure trackers | engine tick only |
// engine tick only | single-owner; no lock needed").
type sportState struct {
	lastPoll     time.Time
	hadLiveGame  bool
	cachedOdds   []sportsbook.OddsUpdate
	cachedScores []scorefeed.ScoreUpdate

	velocity   map[string]*momentum.VelocityTracker // keyed by ticker
	scoreDrops map[string]*match.ScoreDropTracker    // keyed by game id
	lastScore  map[string][2]int                     // game id -> (home, away)
}

func newSportState() *sportState {
	return &sportState{
		velocity:   make(map[string]*momentum.VelocityTracker),
		scoreDrops: make(map[string]*match.ScoreDropTracker),
		lastScore:  make(map[string][2]int),
	}
}

func (st *sportState) velocityFor(ticker string) *momentum.VelocityTracker {
	t, ok := st.velocity[ticker]
	if !ok {
		t = momentum.NewVelocityTracker(momentum.VelocityWindowSize)
		st.velocity[ticker] = t
	}
	return t
}

func (st *sportState) scoreDropFor(gameID string) *match.ScoreDropTracker {
	t, ok := st.scoreDrops[gameID]
	if !ok {
		t = &match.ScoreDropTracker{}
		st.scoreDrops[gameID] = t
	}
	return t
}

// tickResult is one sport's contribution to a full engine tick (spec
// §4.6 step 5: "merge the returned filter counters and row set").
type tickResult struct {
	rows  []broadcast.MarketRow
	stats FilterStats
}

// runSport implements spec §4.6's per-sport pipeline loop: decide
// should_fetch, fetch or fall back to cached data, then run
// process_sport_updates through matcher -> live filter -> fair-value ->
// momentum gate -> signal engine.
func (e *Engine) runSport(ctx context.Context, s sport.Sport, now time.Time) tickResult {
	st := e.stateFor(s)

	interval := e.pollInterval(s, st.hadLiveGame)
	shouldFetch := now.Sub(st.lastPoll) >= interval

	if shouldFetch {
		e.fetchSport(ctx, s, st, now)
	}

	isReplay := !shouldFetch
	if isReplay {
		telemetry.Metrics.ReplayTicks.Inc()
	}
	var result tickResult
	if sport.IsScoreDriven(s) {
		result = e.processScoreUpdates(ctx, s, st, st.cachedScores, now, isReplay)
	} else {
		result = e.processOddsUpdates(ctx, s, st, st.cachedOdds, now, isReplay)
	}
	st.hadLiveGame = result.stats.Live > 0
	return result
}

func (e *Engine) pollInterval(s sport.Sport, live bool) time.Duration {
	if sport.IsScoreDriven(s) {
		if live {
			return time.Duration(e.cfg.ScoreFeed.LivePollIntervalSec) * time.Second
		}
		return time.Duration(e.cfg.ScoreFeed.PreGamePollIntervalSec) * time.Second
	}
	return oddsPollInterval
}

// oddsPollInterval is the sportsbook-devig path's fixed poll cadence;
// unlike the score feed it has no separate live/pre-game pacing since
// moneyline markets (e.g. MMA) don't carry a game clock.
const oddsPollInterval = 30 * time.Second

func (e *Engine) fetchSport(ctx context.Context, s sport.Sport, st *sportState, now time.Time) {
	st.lastPoll = now
	if sport.IsScoreDriven(s) {
		updates, err := e.scoreSrc.Fetch(ctx, s)
		if err != nil {
			telemetry.Warnf("score feed fetch failed for %s: %v", s, err)
			telemetry.Metrics.ScoreFetchErrors.Inc()
			return
		}
		telemetry.Metrics.ScoresFetched.Inc()
		st.cachedScores = updates
		return
	}

	updates, err := e.oddsSrc.FetchOdds(ctx, s)
	if err != nil {
		telemetry.Warnf("sportsbook fetch failed for %s: %v", s, err)
		telemetry.Metrics.OddsFetchErrors.Inc()
		return
	}
	telemetry.Metrics.OddsFetched.Inc()
	st.cachedOdds = updates
	if q, ok := e.oddsSrc.LastQuota(); ok {
		e.broadcast.SetQuota(broadcast.Quota{Used: q.Used, Remaining: q.Remaining})
	}
}

// processScoreUpdates runs the score-driven fair-value path: score-drop
// confirmation, match resolution, live filter, the static score table,
// momentum gate, signal engine, execution, and calibration logging.
// isReplay forbids new velocity samples and diagnostic-cache writes
// (spec §4.6 step 4).
func (e *Engine) processScoreUpdates(ctx context.Context, s sport.Sport, st *sportState, updates []scorefeed.ScoreUpdate, now time.Time, isReplay bool) tickResult {
	var out tickResult
	for _, upd := range updates {
		homeScore, awayScore := e.confirmScore(s, st, upd, now)

		side, isInverse, ok := e.resolver.Resolve(ctx, s, upd.HomeTeam, upd.AwayTeam, now)
		if !ok {
			telemetry.Metrics.MatchFailures.Inc()
			continue // spec §7: match failure is not an error, row simply not produced
		}

		result := Classify(side, side.CommenceAt, now)
		out.stats.Observe(result, side.CommenceAt, now)
		if result != FilterLive {
			continue
		}

		diff := homeScore - awayScore
		if isInverse {
			diff = -diff
		}
		elapsed := upd.TotalElapsedSeconds()
		fv, tradable := fairvalue.ScoreDrivenFairValue(fairvalue.GameStatus(upd.GameStatus), diff, elapsed, upd.InOvertime(), 0)
		if !tradable {
			continue
		}

		row, ok := e.evaluateMarket(s, "", side.Ticker, upd.HomeTeam, upd.AwayTeam, homeScore, awayScore, fv, st.lastPoll, now, isReplay)
		if ok {
			out.rows = append(out.rows, row)
		}
	}
	return out
}

// confirmScore runs the DOMAIN EXPANSION score-drop tracker for this
// game and returns the committed (home, away) score, logging new
// pending drops and confirmed drops to the calibration store.
func (e *Engine) confirmScore(s sport.Sport, st *sportState, upd scorefeed.ScoreUpdate, now time.Time) (int, int) {
	last := st.lastScore[upd.GameID]
	tracker := st.scoreDropFor(upd.GameID)
	verdict := tracker.CheckDrop(last[0], last[1], upd.HomeScore, upd.AwayScore, now, scoreDropConfirmSec)

	switch verdict {
	case match.Accept, match.Confirmed:
		st.lastScore[upd.GameID] = [2]int{upd.HomeScore, upd.AwayScore}
		if e.calib != nil && verdict == match.Confirmed {
			e.logScoreDrop(s, upd.GameID, "confirmed", last, upd.HomeScore, upd.AwayScore, now)
		}
		return upd.HomeScore, upd.AwayScore
	default:
		if e.calib != nil && verdict == match.NewDrop {
			e.logScoreDrop(s, upd.GameID, "pending", last, upd.HomeScore, upd.AwayScore, now)
		}
		return last[0], last[1]
	}
}

func (e *Engine) logScoreDrop(s sport.Sport, gameID, verdict string, last [2]int, newHome, newAway int, now time.Time) {
	if err := e.calib.InsertScoreDrop(calibration.ScoreDropRow{
		Ts: now, Sport: string(s), GameID: gameID, Verdict: verdict,
		OldHomeScore: last[0], OldAwayScore: last[1],
		NewHomeScore: newHome, NewAwayScore: newAway,
	}); err != nil {
		telemetry.Warnf("calibration: insert score_drop failed: %v", err)
	}
}

// processOddsUpdates runs the sportsbook-devig fair-value path used by
// non-score-driven sports (spec §4.2 "sportsbook devig" branch).
func (e *Engine) processOddsUpdates(ctx context.Context, s sport.Sport, st *sportState, updates []sportsbook.OddsUpdate, now time.Time, isReplay bool) tickResult {
	var out tickResult
	for _, upd := range updates {
		if len(upd.Bookmakers) == 0 {
			continue
		}

		side, isInverse, ok := e.resolver.Resolve(ctx, s, upd.HomeTeam, upd.AwayTeam, upd.CommenceTime)
		if !ok {
			telemetry.Metrics.MatchFailures.Inc()
			continue
		}

		result := Classify(side, upd.CommenceTime, now)
		out.stats.Observe(result, upd.CommenceTime, now)
		if result != FilterLive {
			continue
		}

		// Representative bookmaker: the first reporting book. Averaging
		// across books is a reasonable future refinement, but the spec
		// does not prescribe a blending rule (§9 open question).
		book := upd.Bookmakers[0]
		staleThreshold := time.Duration(e.cfg.Execution.StaleOddsThresholdMs) * time.Millisecond
		if staleThreshold > 0 && now.Sub(book.LastUpdate) > staleThreshold {
			continue // spec §7 ErrStaleData: force Skip
		}

		homeOdds, awayOdds := book.HomePrice, book.AwayPrice
		if isInverse {
			homeOdds, awayOdds = awayOdds, homeOdds
		}
		fv := fairvalue.FairValueCents2(homeOdds, awayOdds)

		row, ok := e.evaluateMarket(s, "", side.Ticker, upd.HomeTeam, upd.AwayTeam, 0, 0, fv, book.LastUpdate, now, isReplay)
		if ok {
			out.rows = append(out.rows, row)
		}
	}
	return out
}

// evaluateMarket runs the shared tail of the pipeline for one matched,
// live ticker: momentum composite, signal evaluation, execution, a
// broadcast row, and a calibration log line. oldestUpdate is the
// contributing feed's own timestamp (the score feed's last poll, or the
// sportsbook's reporting bookmaker's last_update), used to compute the
// row's staleness_secs (spec §4.5). Returns ok=false if the ticker has no
// current quote in the LiveBook.
func (e *Engine) evaluateMarket(s sport.Sport, league, ticker, homeTeam, awayTeam string, homeScore, awayScore, fairValueCents int, oldestUpdate, now time.Time, isReplay bool) (broadcast.MarketRow, bool) {
	quote, ok := e.book.Get(ticker)
	if !ok {
		return broadcast.MarketRow{}, false
	}

	st := e.stateFor(s)
	vel := st.velocityFor(ticker)
	vel.Append(fairValueCents, now, isReplay)
	bp := e.bookPressureFor(ticker)
	mom := momentum.Composite(vel.Score(), bp.Score())

	th := e.thresholds()
	sz := e.sizing()
	sig := signal.Evaluate(fairValueCents, quote.YesBid, quote.YesAsk, th, sz, mom)
	switch sig.Action {
	case signal.Skip:
		telemetry.Metrics.SignalsSkipped.Inc()
	case signal.TakerBuy:
		telemetry.Metrics.SignalsTaker.Inc()
	case signal.MakerBuy:
		telemetry.Metrics.SignalsMaker.Inc()
	}

	if !isReplay && sig.Action != signal.Skip {
		e.exec.Execute(context.Background(), s, league, ticker, homeScore, awayScore, sig)
	}

	if e.calib != nil {
		if err := e.calib.InsertDecision(calibration.DecisionRow{
			Ts: now, Sport: string(s), Ticker: ticker,
			HomeTeam: homeTeam, AwayTeam: awayTeam,
			HomeScore: homeScore, AwayScore: awayScore,
			FairValueCents: fairValueCents, BidCents: quote.YesBid, AskCents: quote.YesAsk,
			Action: sig.Action.String(), PriceCents: sig.Price, Quantity: sig.Quantity,
			EdgeCents: sig.Edge, NetProfitEstimate: sig.NetProfitEstimate,
			Momentum: mom, IsReplay: isReplay,
		}); err != nil {
			telemetry.Warnf("calibration: insert decision failed: %v", err)
		}
	}

	edge := fairValueCents - quote.YesAsk
	return broadcast.MarketRow{
		Ticker: ticker, Sport: s, Home: homeTeam, Away: awayTeam,
		FairValue: fairValueCents, Bid: quote.YesBid, Ask: quote.YesAsk, Edge: edge,
		StalenessSecs: StalenessSeconds(oldestUpdate, now),
	}, true
}

func (e *Engine) thresholds() signal.Thresholds {
	return signal.Thresholds{
		TakerEdgeCents:   e.cfg.Strategy.TakerEdgeThresholdCents,
		MakerEdgeCents:   e.cfg.Strategy.MakerEdgeThresholdCents,
		MinEdgeAfterFees: e.cfg.Strategy.MinEdgeAfterFeesCents,
		TakerMomentumMin: e.cfg.Momentum.TakerMomentumThreshold,
		MakerMomentumMin: e.cfg.Momentum.MakerMomentumThreshold,
	}
}

func (e *Engine) sizing() signal.Sizing {
	return signal.Sizing{
		BankrollCents:         e.bankrollCents(),
		KellyFraction:         e.cfg.Risk.KellyFraction,
		MaxContractsPerMarket: e.cfg.Risk.MaxContractsPerMarket,
	}
}
