// Package sportsbook implements the sportsbook odds feed (spec §3
// OddsUpdate/BookmakerOdds, §6 "connect()/fetch_odds(sport)/
// last_quota()"). Grounded on the teacher's
// internal/adapters/outbound/goalserve package's gzip+XML fetch shape,
// combined with the kalshi_http rate-limited do() pattern for the
// quota/backoff discipline a sportsbook API demands.
package sportsbook

import (
	"compress/gzip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/arbengine/engine/internal/sport"
	"github.com/arbengine/engine/internal/telemetry"
)

// BookmakerOdds is one bookmaker's quote for a game (spec §3).
type BookmakerOdds struct {
	Bookmaker  string
	HomePrice  int // American odds
	AwayPrice  int
	DrawPrice  *int // nil unless a 3-way sport
	LastUpdate time.Time
}

// OddsUpdate is one game's aggregated bookmaker quotes (spec §3).
type OddsUpdate struct {
	EventID      string
	HomeTeam     string
	AwayTeam     string
	CommenceTime time.Time
	Bookmakers   []BookmakerOdds
}

// Quota is the feed's last reported API usage (spec §6 last_quota()).
type Quota struct {
	Used      int
	Remaining int
}

// Source is the narrow interface the pipeline depends on (spec §6).
// Kept interface-only per spec §1's boundary around wire/HTTP
// plumbing: components depend on this, not on *Client directly.
type Source interface {
	FetchOdds(ctx context.Context, s sport.Sport) ([]OddsUpdate, error)
	LastQuota() (Quota, bool)
}

// Client polls a sportsbook aggregator's XML feed over HTTP.
type Client struct {
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter

	mu        sync.Mutex
	lastQuota Quota
	haveQuota bool
}

// NewClient returns a Client rate-limited to callsPerSecond requests.
func NewClient(apiKey string, callsPerSecond int) *Client {
	if callsPerSecond <= 0 {
		callsPerSecond = 5
	}
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 1 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(callsPerSecond), callsPerSecond),
	}
}

type oddsFeedXML struct {
	Matches []oddsMatchXML `xml:"match"`
}

type oddsMatchXML struct {
	ID        string        `xml:"id,attr"`
	HomeTeam  string        `xml:"hometeam,attr"`
	AwayTeam  string        `xml:"awayteam,attr"`
	Commence  string        `xml:"commence_time,attr"`
	Bookmaker []bookmakerXML `xml:"bookmaker"`
}

type bookmakerXML struct {
	Name       string `xml:"name,attr"`
	HomePrice  int    `xml:"home_price,attr"`
	AwayPrice  int    `xml:"away_price,attr"`
	DrawPrice  *int   `xml:"draw_price,attr"`
	LastUpdate string `xml:"last_update,attr"`
}

func (c *Client) feedURL(s sport.Sport) string {
	return fmt.Sprintf("https://api.sportsbook-feed.example/v1/odds/%s?key=%s", s, c.apiKey)
}

// FetchOdds satisfies Source.
func (c *Client) FetchOdds(ctx context.Context, s sport.Sport) ([]OddsUpdate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL(s), nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept-Encoding", "gzip")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	c.recordQuota(resp.Header)

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	var feed oddsFeedXML
	if err := xml.NewDecoder(reader).Decode(&feed); err != nil {
		return nil, fmt.Errorf("xml decode: %w", err)
	}
	telemetry.Debugf("sportsbook: GET %s -> %d (%s)", s, resp.StatusCode, time.Since(start))

	updates := make([]OddsUpdate, 0, len(feed.Matches))
	for _, m := range feed.Matches {
		commence, _ := time.Parse(time.RFC3339, m.Commence)
		books := make([]BookmakerOdds, 0, len(m.Bookmaker))
		for _, b := range m.Bookmaker {
			lastUpdate, _ := time.Parse(time.RFC3339, b.LastUpdate)
			books = append(books, BookmakerOdds{
				Bookmaker:  b.Name,
				HomePrice:  b.HomePrice,
				AwayPrice:  b.AwayPrice,
				DrawPrice:  b.DrawPrice,
				LastUpdate: lastUpdate,
			})
		}
		updates = append(updates, OddsUpdate{
			EventID:      m.ID,
			HomeTeam:     m.HomeTeam,
			AwayTeam:     m.AwayTeam,
			CommenceTime: commence,
			Bookmakers:   books,
		})
	}
	return updates, nil
}

func (c *Client) recordQuota(h http.Header) {
	used := parseIntHeader(h, "X-RateLimit-Used")
	remaining := parseIntHeader(h, "X-RateLimit-Remaining")
	if used == 0 && remaining == 0 {
		return
	}
	c.mu.Lock()
	c.lastQuota = Quota{Used: used, Remaining: remaining}
	c.haveQuota = true
	c.mu.Unlock()
}

// LastQuota satisfies Source.
func (c *Client) LastQuota() (Quota, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastQuota, c.haveQuota
}

func parseIntHeader(h http.Header, key string) int {
	v := h.Get(key)
	if v == "" {
		return 0
	}
	n := 0
	for _, r := range v {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

var _ Source = (*Client)(nil)
