package match

import (
	"fmt"
	"sync"
	"time"

	engerrors "github.com/arbengine/engine/internal/core/errors"
	"github.com/arbengine/engine/internal/sport"
)

// MarketStatus mirrors the venue's status field (spec §3: "open",
// "active", anything else is closed).
type MarketStatus string

const (
	StatusOpen   MarketStatus = "open"
	StatusActive MarketStatus = "active"
)

// IsTradable reports whether status permits trading.
func (s MarketStatus) IsTradable() bool { return s == StatusOpen || s == StatusActive }

// SideMarket is one tradable contract side on the venue (spec §3). Prices
// are integer cents 0-100; BestAsk == 0 means "no offer".
type SideMarket struct {
	Ticker      string
	Title       string
	BestYesBid  int
	BestYesAsk  int
	BestNoBid   int
	BestNoAsk   int
	Status      MarketStatus
	CloseTime   time.Time // zero value means "no close time"
	CommenceAt  time.Time
}

// HasCloseTime reports whether CloseTime was set.
func (m SideMarket) HasCloseTime() bool { return !m.CloseTime.IsZero() }

// MatchedGame holds up to three optional SideMarkets for one game: home,
// away, and (3-way sports only) draw (spec §3). For 2-way sports the
// venue typically publishes a single ticker whose YES side is bound to
// one physical team; HomeCode records that team's normalized code so
// FindMatch can compute is_inverse relative to whatever home/away framing
// the caller supplies. For 3-way sports all three slots are independent
// tickers and HomeCode is unused — callers resolve each side directly.
type MatchedGame struct {
	Key      MarketKey
	Home     *SideMarket
	Away     *SideMarket
	Draw     *SideMarket
	HomeCode string
}

// Index maps MarketKey to MatchedGame (spec §3 MarketIndex). Built once
// at startup from the venue's published markets and refreshed
// periodically; read-mostly, protected by an RWMutex per spec §5's
// "read-mostly; RCU-style swap or RW-lock" guidance.
type Index struct {
	mu    sync.RWMutex
	games map[MarketKey]*MatchedGame
	// tickerOwner records which MarketKey currently owns a ticker, so a
	// later insertion under a different key is rejected rather than
	// silently overwriting (spec §9 open question: reject duplicate
	// tickers across series instead of overwriting).
	tickerOwner map[string]MarketKey
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{
		games:       make(map[MarketKey]*MatchedGame),
		tickerOwner: make(map[string]MarketKey),
	}
}

// Insert attaches market to the Home, Away, or Draw slot of the game
// identified by key, creating the MatchedGame if absent. teamCode is the
// normalized code of the physical team this side market's YES represents
// (ignored for SlotDraw); for SlotHome it is recorded as the game's
// HomeCode. It rejects the insertion (returning ErrInvariant) when
// market.Ticker is already bound to a different MarketKey — the venue
// must never reuse a ticker across two distinct games (spec §9 open
// question).
func (idx *Index) Insert(key MarketKey, slot Slot, teamCode string, market SideMarket) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if owner, ok := idx.tickerOwner[market.Ticker]; ok && owner != key {
		return fmt.Errorf("ticker %q already bound to a different market key: %w", market.Ticker, engerrors.ErrInvariant)
	}
	idx.tickerOwner[market.Ticker] = key

	g, ok := idx.games[key]
	if !ok {
		g = &MatchedGame{Key: key}
		idx.games[key] = g
	}
	m := market
	switch slot {
	case SlotHome:
		g.Home = &m
		g.HomeCode = teamCode
	case SlotAway:
		g.Away = &m
	case SlotDraw:
		g.Draw = &m
	default:
		return fmt.Errorf("unknown slot %v: %w", slot, engerrors.ErrInvariant)
	}
	return nil
}

// Slot identifies which side of a MatchedGame a SideMarket occupies.
type Slot int

const (
	SlotHome Slot = iota
	SlotAway
	SlotDraw
)

// Lookup returns the MatchedGame for key, if any.
func (idx *Index) Lookup(key MarketKey) (*MatchedGame, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	g, ok := idx.games[key]
	return g, ok
}

// UpdateSide refreshes prices/status for an existing side market in
// place, without touching the venue-title parsing path. Used by the
// venue WS/REST refresh loop (price/status-only updates, spec §4.1
// "incremental status updates come via the venue WS").
func (idx *Index) UpdateSide(key MarketKey, slot Slot, fn func(*SideMarket)) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	g, ok := idx.games[key]
	if !ok {
		return false
	}
	var side **SideMarket
	switch slot {
	case SlotHome:
		side = &g.Home
	case SlotAway:
		side = &g.Away
	case SlotDraw:
		side = &g.Draw
	}
	if *side == nil {
		return false
	}
	fn(*side)
	return true
}

// Count returns the number of distinct MarketKeys currently indexed.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.games)
}

// AllTickers returns every ticker currently bound in the index, for the
// venue WS client to subscribe to after a market refresh.
func (idx *Index) AllTickers() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]string, 0, len(idx.tickerOwner))
	for ticker := range idx.tickerOwner {
		out = append(out, ticker)
	}
	return out
}

// FindMatch resolves a sportsbook (home, away) pair on a given sport and
// date to the venue's single 2-way SideMarket, plus whether the venue's
// "YES" side is inverted relative to the caller's home/away framing
// (spec §4.1 find_match). isInverse is true when the venue's YES side
// corresponds to the odds feed's away team. For 3-way sports, callers
// should use Index.Lookup directly and read Home/Away/Draw independently
// rather than calling FindMatch.
func FindMatch(idx *Index, s sport.Sport, home, away string, date time.Time) (side SideMarket, isInverse bool, ok bool) {
	key, valid := GenerateKey(s, home, away, date)
	if !valid {
		return SideMarket{}, false, false
	}
	g, found := idx.Lookup(key)
	if !found || g.Home == nil {
		return SideMarket{}, false, false
	}
	homeCode := Normalize(s, home)
	return *g.Home, homeCode != g.HomeCode, true
}
