// Package broadcast implements the AppSnapshot broadcast state (spec §3,
// §5, §9): a single last-value-wins snapshot written by the engine tick
// (replaces the row set wholesale) and the 200ms display tick (patches
// bid/ask/edge on existing rows), read by the UI renderer.
package broadcast

import (
	"sync"
	"time"

	"github.com/arbengine/engine/internal/sport"
)

// MarketRow is one displayed market (spec §3 AppSnapshot "market rows").
type MarketRow struct {
	Ticker        string
	Sport         sport.Sport
	Home, Away    string
	FairValue     int
	Bid, Ask      int
	Edge          int
	StalenessSecs float64
}

// Position mirrors spec §3's Position data model.
type Position struct {
	Ticker           string
	Quantity         int
	EntryPrice       int
	EntryFee         int
	SellTargetPrice  int
	FilledAt         time.Time
}

// Trade is one completed fill, surfaced in the snapshot's trade log.
type Trade struct {
	Ticker string
	Side   string
	Price  int
	Qty    int
	At     time.Time
}

// LogEntry is one line of the engine's recent-activity log, surfaced to
// the UI.
type LogEntry struct {
	At      time.Time
	Level   string
	Message string
}

// Quota is the sportsbook feed's last reported API quota (spec §6
// "last_quota() -> Option<{used, remaining}>").
type Quota struct {
	Used      int
	Remaining int
}

// FilterStats accumulates spec §4.5's per-tick filter counters.
type FilterStats struct {
	Live             int
	PreGame          int
	Closed           int
	EarliestCommence time.Time // zero means "none observed"
}

// AppSnapshot is the full broadcast state (spec §3).
type AppSnapshot struct {
	Rows           []MarketRow
	Positions      []Position
	Trades         []Trade
	Logs           []LogEntry
	Quota          Quota
	Filters        FilterStats
	NextGameIn     time.Duration
	EnabledSports  map[sport.Sport]bool
}

func (s AppSnapshot) clone() AppSnapshot {
	out := s
	out.Rows = append([]MarketRow(nil), s.Rows...)
	out.Positions = append([]Position(nil), s.Positions...)
	out.Trades = append([]Trade(nil), s.Trades...)
	out.Logs = append([]LogEntry(nil), s.Logs...)
	out.EnabledSports = make(map[sport.Sport]bool, len(s.EnabledSports))
	for k, v := range s.EnabledSports {
		out.EnabledSports[k] = v
	}
	return out
}

// Broadcaster holds the current AppSnapshot and wakes readers waiting for
// the next update. Writers are serialized by mu, matching spec §9's
// "Writes are serialized by the broadcast channel's send_modify; no ABA
// hazard because display-tick patches are idempotent overwrites of the
// same fields."
type Broadcaster struct {
	mu      sync.Mutex
	cond    *sync.Cond
	current AppSnapshot
	version uint64
}

// New returns a Broadcaster seeded with an empty snapshot.
func New() *Broadcaster {
	b := &Broadcaster{current: AppSnapshot{EnabledSports: map[sport.Sport]bool{}}}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// ReplaceRows is the engine tick's write path: it replaces the row set
// and filter/countdown fields wholesale (spec §9 "the engine tick
// replaces the row set entirely").
func (b *Broadcaster) ReplaceRows(rows []MarketRow, filters FilterStats, nextGameIn time.Duration) {
	b.mu.Lock()
	b.current.Rows = rows
	b.current.Filters = filters
	b.current.NextGameIn = nextGameIn
	b.version++
	b.cond.Broadcast()
	b.mu.Unlock()
}

// PatchQuotes is the 200ms display tick's write path: it patches
// {bid, ask, edge} on existing rows by ticker, leaving every other field
// untouched (spec §9 "the display tick only patches {bid, ask, edge} on
// existing rows").
func (b *Broadcaster) PatchQuotes(byTicker map[string]struct{ Bid, Ask, Edge int }) {
	b.mu.Lock()
	for i := range b.current.Rows {
		if patch, ok := byTicker[b.current.Rows[i].Ticker]; ok {
			b.current.Rows[i].Bid = patch.Bid
			b.current.Rows[i].Ask = patch.Ask
			b.current.Rows[i].Edge = patch.Edge
		}
	}
	b.version++
	b.cond.Broadcast()
	b.mu.Unlock()
}

// SetPositions replaces the positions list (single producer: the
// execution service on fill/close).
func (b *Broadcaster) SetPositions(positions []Position) {
	b.mu.Lock()
	b.current.Positions = positions
	b.version++
	b.cond.Broadcast()
	b.mu.Unlock()
}

// AppendTrade appends one trade to the trade log (single producer: the
// execution service on fill).
func (b *Broadcaster) AppendTrade(t Trade) {
	b.mu.Lock()
	b.current.Trades = append(b.current.Trades, t)
	b.version++
	b.cond.Broadcast()
	b.mu.Unlock()
}

// AppendLog appends one log line, bounding the retained history to 500
// entries so the snapshot doesn't grow unbounded over a long session.
func (b *Broadcaster) AppendLog(entry LogEntry) {
	b.mu.Lock()
	b.current.Logs = append(b.current.Logs, entry)
	if len(b.current.Logs) > 500 {
		b.current.Logs = b.current.Logs[len(b.current.Logs)-500:]
	}
	b.version++
	b.cond.Broadcast()
	b.mu.Unlock()
}

// SetQuota records the sportsbook feed's last reported API quota.
func (b *Broadcaster) SetQuota(q Quota) {
	b.mu.Lock()
	b.current.Quota = q
	b.version++
	b.cond.Broadcast()
	b.mu.Unlock()
}

// SetEnabledSports replaces the EnabledSports toggle map (writer: UI
// toggle or config loader, per spec §5's shared-resource table).
func (b *Broadcaster) SetEnabledSports(enabled map[sport.Sport]bool) {
	b.mu.Lock()
	m := make(map[sport.Sport]bool, len(enabled))
	for k, v := range enabled {
		m[k] = v
	}
	b.current.EnabledSports = m
	b.version++
	b.cond.Broadcast()
	b.mu.Unlock()
}

// Latest returns a consistent clone of the current snapshot (spec §3:
// "readers receive consistent clones").
func (b *Broadcaster) Latest() AppSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current.clone()
}

// WaitNext blocks until the snapshot changes at least once after the
// version the caller last observed, then returns the new snapshot and
// version. Used by a UI renderer that wants last-value-wins push
// semantics instead of polling Latest().
func (b *Broadcaster) WaitNext(afterVersion uint64) (AppSnapshot, uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for b.version == afterVersion {
		b.cond.Wait()
	}
	return b.current.clone(), b.version
}
