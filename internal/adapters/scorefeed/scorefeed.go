// Package scorefeed implements the live score feed (spec §3
// ScoreUpdate, §6 "fetch()/primary_url()/secondary_url(), ... failover
// on 1s timeout, swap after 5 consecutive primary failures"). Grounded
// on the teacher's internal/adapters/outbound/goalserve inplay feed
// (gzip+XML fetch of game_id/scores/clock) with a failover wrapper
// added per spec §6's literal text (the teacher itself has no
// primary/secondary swap; this is new plumbing built in the teacher's
// idiom).
package scorefeed

import (
	"compress/gzip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/arbengine/engine/internal/sport"
	"github.com/arbengine/engine/internal/telemetry"
)

// GameStatus mirrors spec §3's ScoreUpdate.game_status.
type GameStatus string

const (
	PreGame   GameStatus = "PreGame"
	Live      GameStatus = "Live"
	Halftime  GameStatus = "Halftime"
	Finished  GameStatus = "Finished"
)

// ScoreUpdate is one game's live score state (spec §3).
type ScoreUpdate struct {
	GameID     string
	HomeTeam   string
	AwayTeam   string
	HomeScore  int
	AwayScore  int
	Period     int
	ClockSecs  int
	GameStatus GameStatus
	Source     string

	// DOMAIN EXPANSION (SPEC_FULL.md): situational flags restored from
	// the teacher's state/game/{hockey,soccer}_state.go. The feed parser
	// does not set them and the momentum composite does not read them.
	HomePowerPlay bool
	AwayPowerPlay bool
	HomeRedCards  int
	AwayRedCards  int
}

// TotalElapsedSeconds implements spec §3's formula:
// (period-1)*720 + (720-clock_seconds), capped at 2880 (regulation).
// A clock reading above 720 counts as the start of its period. The cap
// applies in overtime too; InOvertime reports that state separately.
func (u ScoreUpdate) TotalElapsedSeconds() int {
	inPeriod := 720 - u.ClockSecs
	if inPeriod < 0 {
		inPeriod = 0
	}
	elapsed := (u.Period-1)*720 + inPeriod
	if elapsed > 2880 {
		elapsed = 2880
	}
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed
}

// InOvertime reports whether this update is beyond regulation periods.
func (u ScoreUpdate) InOvertime() bool {
	return u.Period > 4
}

// Source is the narrow interface the pipeline depends on (spec §6).
type Source interface {
	Fetch(ctx context.Context, s sport.Sport) ([]ScoreUpdate, error)
	PrimaryURL() string
	SecondaryURL() string
}

// Client polls a primary URL, failing over to a secondary after
// failoverThreshold consecutive primary failures (spec §6). Once failed
// over it stays on the secondary: the primary is not probed again.
type Client struct {
	primaryURL   string
	secondaryURL string
	apiKey       string
	httpClient   *http.Client
	failoverN    int

	mu            sync.Mutex
	consecutiveFail int
	usingSecondary  bool
}

// NewClient returns a Client with the given primary/secondary feed
// URLs, swapping to secondary after failoverThreshold consecutive
// primary failures (spec default: 5).
func NewClient(primaryURL, secondaryURL, apiKey string, failoverThreshold int, timeout time.Duration) *Client {
	if failoverThreshold <= 0 {
		failoverThreshold = 5
	}
	if timeout <= 0 {
		timeout = 1 * time.Second
	}
	return &Client{
		primaryURL:   primaryURL,
		secondaryURL: secondaryURL,
		apiKey:       apiKey,
		httpClient:   &http.Client{Timeout: timeout},
		failoverN:    failoverThreshold,
	}
}

// PrimaryURL satisfies Source.
func (c *Client) PrimaryURL() string { return c.primaryURL }

// SecondaryURL satisfies Source.
func (c *Client) SecondaryURL() string { return c.secondaryURL }

// Fetch satisfies Source: it fetches from whichever URL is currently
// active, failing over/back per the consecutive-failure counters.
func (c *Client) Fetch(ctx context.Context, s sport.Sport) ([]ScoreUpdate, error) {
	c.mu.Lock()
	useSecondary := c.usingSecondary
	c.mu.Unlock()

	base := c.primaryURL
	if useSecondary {
		base = c.secondaryURL
	}

	updates, err := c.fetchFrom(ctx, base, s)
	if err == nil {
		c.recordSuccess(useSecondary)
		return updates, nil
	}

	c.recordFailure(useSecondary)

	// If we just failed on the currently-active source, give the
	// other source one immediate try this tick rather than stalling
	// until the next poll (spec §6: primary+secondary failover).
	c.mu.Lock()
	swapped := c.usingSecondary != useSecondary
	altBase := c.primaryURL
	if c.usingSecondary {
		altBase = c.secondaryURL
	}
	c.mu.Unlock()
	if !swapped {
		return nil, err
	}

	updates, altErr := c.fetchFrom(ctx, altBase, s)
	if altErr != nil {
		return nil, fmt.Errorf("primary failed (%w), failover also failed: %v", err, altErr)
	}
	return updates, nil
}

func (c *Client) recordSuccess(wasSecondary bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consecutiveFail = 0
	if wasSecondary && c.usingSecondary {
		// Primary failover was already engaged; a successful secondary
		// fetch does not restore the primary, and nothing else does.
		return
	}
	c.usingSecondary = false
}

func (c *Client) recordFailure(wasSecondary bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if wasSecondary {
		return
	}
	c.consecutiveFail++
	if c.consecutiveFail >= c.failoverN {
		if !c.usingSecondary {
			telemetry.Warnf("scorefeed: %d consecutive primary failures, failing over to secondary", c.consecutiveFail)
		}
		c.usingSecondary = true
	}
}

type scoreFeedXML struct {
	Matches []scoreMatchXML `xml:"match"`
}

type scoreMatchXML struct {
	ID        string `xml:"id,attr"`
	HomeTeam  string `xml:"hometeam,attr"`
	AwayTeam  string `xml:"awayteam,attr"`
	HomeScore int    `xml:"home_score,attr"`
	AwayScore int    `xml:"away_score,attr"`
	Period    int    `xml:"period,attr"`
	ClockSecs int    `xml:"clock_seconds,attr"`
	Status    string `xml:"status,attr"`
}

func (c *Client) fetchFrom(ctx context.Context, base string, s sport.Sport) ([]ScoreUpdate, error) {
	url := fmt.Sprintf("%s?sport=%s&key=%s", base, s, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	var feed scoreFeedXML
	if err := xml.NewDecoder(reader).Decode(&feed); err != nil {
		return nil, fmt.Errorf("xml decode: %w", err)
	}

	updates := make([]ScoreUpdate, 0, len(feed.Matches))
	for _, m := range feed.Matches {
		updates = append(updates, ScoreUpdate{
			GameID:     m.ID,
			HomeTeam:   m.HomeTeam,
			AwayTeam:   m.AwayTeam,
			HomeScore:  m.HomeScore,
			AwayScore:  m.AwayScore,
			Period:     m.Period,
			ClockSecs:  m.ClockSecs,
			GameStatus: statusFromString(m.Status),
			Source:     base,
		})
	}
	return updates, nil
}

func statusFromString(s string) GameStatus {
	switch s {
	case "pre", "scheduled":
		return PreGame
	case "halftime", "half":
		return Halftime
	case "final", "finished":
		return Finished
	default:
		return Live
	}
}

var _ Source = (*Client)(nil)
