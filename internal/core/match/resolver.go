package match

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/arbengine/engine/internal/sport"
	"github.com/arbengine/engine/internal/telemetry"
)

// RawMarket is the venue REST representation of one market, enough to
// build or refresh the Index. Grounded on the teacher's kalshi_http
// Market struct (Title/Subtitle parsing, dollars-to-cents prices).
type RawMarket struct {
	Ticker      string
	EventTicker string
	Title       string // "Team1 at Team2 Winner?" or similar
	Subtitle    string // "Team1", "Team2", or "Draw" for 3-way legs
	Status      string
	OpenTime    time.Time // when the market opens for trading == game commence time
	CloseTime   time.Time
	YesBidCents int
	YesAskCents int
	NoBidCents  int
	NoAskCents  int
}

// Fetcher pages the venue's markets REST API for one series prefix
// (spec §6 "paginated list_markets(series_prefix)"). Implemented by the
// venue REST adapter; kept as a narrow interface so the matcher never
// depends on HTTP/signing concerns (spec §1 out-of-scope).
type Fetcher interface {
	ListMarkets(ctx context.Context, seriesPrefix string) ([]RawMarket, error)
}

const marketCacheTTL = 10 * time.Minute

// doubleheaderWindow is a bound on how far a candidate market's close
// time may sit from the observed commence time. Resolve does not consult
// it: the index holds one market per slot for each (sport, date, team
// pair) key, and a later market with the same key replaces the earlier
// one, so two games between the same teams on one date are not told apart.
const doubleheaderWindow = 16 * time.Hour

// Resolver builds and refreshes the Index from the venue REST API and
// resolves sportsbook team pairs against it.
type Resolver struct {
	fetcher Fetcher
	idx     *Index

	mu          sync.Mutex
	lastFetch   map[sport.Sport]time.Time
	flight      singleflight.Group
	rawBySport  map[sport.Sport][]RawMarket
}

// NewResolver constructs a Resolver over fetcher, backed by idx.
func NewResolver(fetcher Fetcher, idx *Index) *Resolver {
	return &Resolver{
		fetcher:    fetcher,
		idx:        idx,
		lastFetch:  make(map[sport.Sport]time.Time),
		rawBySport: make(map[sport.Sport][]RawMarket),
	}
}

// RefreshMarkets pages the venue's markets for s's series prefix and
// rebuilds the portion of the index belonging to s. Concurrent calls for
// the same sport are coalesced via singleflight (spec §5 read-mostly
// index, refreshed by "startup + periodic refresher").
func (r *Resolver) RefreshMarkets(ctx context.Context, s sport.Sport) error {
	meta, ok := sport.Lookup(s)
	if !ok {
		return fmt.Errorf("unregistered sport %q", s)
	}
	_, err, _ := r.flight.Do(string(s), func() (any, error) {
		markets, err := r.fetcher.ListMarkets(ctx, meta.SeriesPrefix)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.rawBySport[s] = markets
		r.lastFetch[s] = time.Now()
		r.mu.Unlock()
		return nil, r.buildIndex(s, markets)
	})
	return err
}

// ensureFresh refreshes s if the cached markets are older than
// marketCacheTTL.
func (r *Resolver) ensureFresh(ctx context.Context, s sport.Sport) {
	r.mu.Lock()
	last, ok := r.lastFetch[s]
	r.mu.Unlock()
	if ok && time.Since(last) < marketCacheTTL {
		return
	}
	if err := r.RefreshMarkets(ctx, s); err != nil {
		telemetry.Warnf("market index refresh failed for %s: %v", s, err)
	}
}

// buildIndex parses each raw market's title/subtitle into a team pair and
// date, and inserts it into the shared Index.
func (r *Resolver) buildIndex(s sport.Sport, markets []RawMarket) error {
	if sport.IsThreeWay(s) {
		return r.buildThreeWay(s, markets)
	}
	return r.buildTwoWay(s, markets)
}

func (r *Resolver) buildTwoWay(s sport.Sport, markets []RawMarket) error {
	for _, m := range markets {
		teamA, teamB, ok := teamNamesFromTitle(m.Title)
		if !ok {
			continue
		}
		// Subtitle names the specific team YES represents; fall back to
		// teamA (title order) when absent.
		yesTeam := m.Subtitle
		if yesTeam == "" {
			yesTeam = teamA
		}
		date := m.OpenTime
		if date.IsZero() {
			date = m.CloseTime
		}
		if date.IsZero() {
			date = time.Now()
		}
		key, ok := GenerateKey(s, teamA, teamB, date)
		if !ok {
			continue
		}
		side := SideMarket{
			Ticker:     m.Ticker,
			Title:      m.Title,
			BestYesBid: m.YesBidCents,
			BestYesAsk: m.YesAskCents,
			BestNoBid:  m.NoBidCents,
			BestNoAsk:  m.NoAskCents,
			Status:     MarketStatus(m.Status),
			CommenceAt: m.OpenTime,
			CloseTime:  m.CloseTime,
		}
		if err := r.idx.Insert(key, SlotHome, Normalize(s, yesTeam), side); err != nil {
			telemetry.Errorf("market index insert rejected: %v", err)
		}
	}
	return nil
}

func (r *Resolver) buildThreeWay(s sport.Sport, markets []RawMarket) error {
	byEvent := make(map[string][]RawMarket)
	for _, m := range markets {
		byEvent[m.EventTicker] = append(byEvent[m.EventTicker], m)
	}
	for _, legs := range byEvent {
		if len(legs) < 2 {
			continue
		}
		teamA, teamB, ok := teamNamesFromTitle(legs[0].Title)
		if !ok {
			continue
		}
		date := legs[0].OpenTime
		if date.IsZero() {
			date = legs[0].CloseTime
		}
		if date.IsZero() {
			date = time.Now()
		}
		key, ok := GenerateKey(s, teamA, teamB, date)
		if !ok {
			continue
		}
		for _, leg := range legs {
			side := SideMarket{
				Ticker:     leg.Ticker,
				Title:      leg.Title,
				BestYesBid: leg.YesBidCents,
				BestYesAsk: leg.YesAskCents,
				BestNoBid:  leg.NoBidCents,
				BestNoAsk:  leg.NoAskCents,
				Status:     MarketStatus(leg.Status),
				CommenceAt: leg.OpenTime,
				CloseTime:  leg.CloseTime,
			}
			slot, teamCode := classifyLeg(s, leg, teamA, teamB)
			if err := r.idx.Insert(key, slot, teamCode, side); err != nil {
				telemetry.Errorf("market index insert rejected: %v", err)
			}
		}
	}
	return nil
}

func classifyLeg(s sport.Sport, leg RawMarket, teamA, teamB string) (Slot, string) {
	sub := strings.ToLower(strings.TrimSpace(leg.Subtitle))
	if sub == "" || sub == "tie" || sub == "draw" {
		return SlotDraw, ""
	}
	code := Normalize(s, leg.Subtitle)
	if code == Normalize(s, teamA) {
		return SlotHome, code
	}
	return SlotAway, code
}

// teamNamesFromTitle parses a venue title of the form "Team1 at Team2
// Winner?" (or "Team1 vs Team2") into its two team names.
func teamNamesFromTitle(title string) (teamA, teamB string, ok bool) {
	t := title
	for _, suf := range []string{" Winner?", " Winner", "?"} {
		t = strings.TrimSuffix(strings.TrimSpace(t), suf)
	}
	for _, sep := range []string{" at ", " vs. ", " vs ", " v. ", " v "} {
		if idx := strings.Index(t, sep); idx >= 0 {
			return strings.TrimSpace(t[:idx]), strings.TrimSpace(t[idx+len(sep):]), true
		}
	}
	return "", "", false
}

// Resolve is the public entry point used by the pipeline: normalize and
// look up a sportsbook (home, away) pair against the index, refreshing
// the index first if stale.
func (r *Resolver) Resolve(ctx context.Context, s sport.Sport, home, away string, gameStartedAt time.Time) (SideMarket, bool, bool) {
	r.ensureFresh(ctx, s)
	return FindMatch(r.idx, s, home, away, gameStartedAt)
}
