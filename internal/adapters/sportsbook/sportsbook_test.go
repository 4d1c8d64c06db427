package sportsbook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/arbengine/engine/internal/sport"
)

func TestParseIntHeader(t *testing.T) {
	h := http.Header{}
	h.Set("X-RateLimit-Used", "42")
	h.Set("X-RateLimit-Remaining", "bogus")
	h.Set("X-RateLimit-Missing", "")

	if got := parseIntHeader(h, "X-RateLimit-Used"); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if got := parseIntHeader(h, "X-RateLimit-Remaining"); got != 0 {
		t.Errorf("expected a non-numeric header to parse as 0, got %d", got)
	}
	if got := parseIntHeader(h, "X-RateLimit-Missing"); got != 0 {
		t.Errorf("expected an empty header to parse as 0, got %d", got)
	}
	if got := parseIntHeader(h, "X-RateLimit-Absent"); got != 0 {
		t.Errorf("expected a missing header to parse as 0, got %d", got)
	}
}

func TestClient_LastQuota_UnsetUntilFirstNonZeroHeaders(t *testing.T) {
	c := NewClient("key", 5)
	if _, ok := c.LastQuota(); ok {
		t.Error("expected no quota to be recorded before any fetch")
	}

	h := http.Header{}
	c.recordQuota(h) // both zero: should not set haveQuota
	if _, ok := c.LastQuota(); ok {
		t.Error("expected all-zero quota headers to not mark a quota as recorded")
	}

	h.Set("X-RateLimit-Used", "10")
	h.Set("X-RateLimit-Remaining", "90")
	c.recordQuota(h)
	q, ok := c.LastQuota()
	if !ok || q.Used != 10 || q.Remaining != 90 {
		t.Errorf("expected quota {10, 90}, got %+v (ok=%v)", q, ok)
	}
}

// redirectTransport forwards every request to a fixed test server
// regardless of the URL the client constructed, so feedURL's hardcoded
// production host can still be exercised against httptest.
type redirectTransport struct {
	target *url.URL
}

func (rt redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = rt.target.Scheme
	out.URL.Host = rt.target.Host
	out.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(out)
}

func redirectToTestServer(rawURL string) http.RoundTripper {
	u, err := url.Parse(rawURL)
	if err != nil {
		panic(err)
	}
	return redirectTransport{target: u}
}

func TestClient_FetchOdds_ParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<feed><match id="e1" hometeam="A" awayteam="B" commence_time="2026-01-01T00:00:00Z">` +
			`<bookmaker name="book1" home_price="-150" away_price="130" last_update="2026-01-01T00:05:00Z"/>` +
			`</match></feed>`))
	}))
	defer srv.Close()

	c := NewClient("key", 100)
	c.httpClient.Transport = redirectToTestServer(srv.URL)

	updates, err := c.FetchOdds(context.Background(), sport.Basketball)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updates) != 1 || updates[0].EventID != "e1" {
		t.Fatalf("unexpected updates: %+v", updates)
	}
	if len(updates[0].Bookmakers) != 1 || updates[0].Bookmakers[0].HomePrice != -150 {
		t.Errorf("unexpected bookmaker odds: %+v", updates[0].Bookmakers)
	}
}

func TestNewClient_DefaultsCallsPerSecond(t *testing.T) {
	c := NewClient("key", 0)
	if c.limiter.Limit() != 5 {
		t.Errorf("expected a non-positive callsPerSecond to default to 5, got %v", c.limiter.Limit())
	}
}
