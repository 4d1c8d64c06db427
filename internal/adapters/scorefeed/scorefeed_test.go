package scorefeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arbengine/engine/internal/sport"
)

func TestScoreUpdate_TotalElapsedSeconds(t *testing.T) {
	cases := []struct {
		name      string
		period    int
		clockSecs int
		want      int
	}{
		{"start of period 1", 1, 720, 0},
		{"end of period 1", 1, 0, 720},
		{"start of period 3", 3, 720, 1440},
		{"clamped above regulation (period 5 clock 0)", 5, 0, 2880},
		{"negative clock clamped to period start", 2, 800, 720},
	}
	for _, c := range cases {
		u := ScoreUpdate{Period: c.period, ClockSecs: c.clockSecs}
		if got := u.TotalElapsedSeconds(); got != c.want {
			t.Errorf("%s: TotalElapsedSeconds() = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestScoreUpdate_InOvertime(t *testing.T) {
	if (ScoreUpdate{Period: 4}).InOvertime() {
		t.Error("expected period 4 (regulation) to not be overtime")
	}
	if !(ScoreUpdate{Period: 5}).InOvertime() {
		t.Error("expected period 5 to be overtime")
	}
}

func TestStatusFromString_MapsKnownAndDefaultsToLive(t *testing.T) {
	cases := map[string]GameStatus{
		"pre":       PreGame,
		"scheduled": PreGame,
		"halftime":  Halftime,
		"half":      Halftime,
		"final":     Finished,
		"finished":  Finished,
		"inprogress": Live,
		"":          Live,
	}
	for in, want := range cases {
		if got := statusFromString(in); got != want {
			t.Errorf("statusFromString(%q) = %v, want %v", in, got, want)
		}
	}
}

const sampleFeedXML = `<feed><match id="g1" hometeam="Lakers" awayteam="Celtics" home_score="50" away_score="48" period="3" clock_seconds="300" status="inprogress"/></feed>`

func TestClient_Fetch_ParsesPrimaryResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleFeedXML))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.URL+"/secondary", "key", 5, time.Second)
	updates, err := c.Fetch(context.Background(), sport.Basketball)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(updates) != 1 || updates[0].GameID != "g1" || updates[0].HomeScore != 50 {
		t.Errorf("unexpected updates: %+v", updates)
	}
}

func TestClient_Fetch_FailsOverAfterConsecutiveFailures(t *testing.T) {
	var primaryCalls int
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		primaryCalls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer primary.Close()

	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleFeedXML))
	}))
	defer secondary.Close()

	c := NewClient(primary.URL, secondary.URL, "key", 2, time.Second)

	// First failure: below the threshold, no failover yet, no secondary probe.
	if _, err := c.Fetch(context.Background(), sport.Basketball); err == nil {
		t.Fatal("expected the first primary failure to surface an error")
	}

	// Second consecutive failure crosses the threshold (2): Fetch should
	// engage failover and immediately retry against the secondary within
	// the same call.
	updates, err := c.Fetch(context.Background(), sport.Basketball)
	if err != nil {
		t.Fatalf("expected the failover retry against secondary to succeed, got: %v", err)
	}
	if len(updates) != 1 {
		t.Errorf("expected the secondary's parsed update to be returned, got %+v", updates)
	}

	// A subsequent fetch should now go straight to the secondary without
	// touching the primary again.
	callsBefore := primaryCalls
	if _, err := c.Fetch(context.Background(), sport.Basketball); err != nil {
		t.Fatalf("unexpected error on steady-state secondary fetch: %v", err)
	}
	if primaryCalls != callsBefore {
		t.Error("expected a steady-state fetch after failover to not re-probe the primary")
	}
}

func TestClient_PrimaryAndSecondaryURLAccessors(t *testing.T) {
	c := NewClient("http://primary", "http://secondary", "key", 5, time.Second)
	if c.PrimaryURL() != "http://primary" || c.SecondaryURL() != "http://secondary" {
		t.Errorf("unexpected URL accessors: %q, %q", c.PrimaryURL(), c.SecondaryURL())
	}
}

func TestNewClient_DefaultsAppliedForInvalidInputs(t *testing.T) {
	c := NewClient("p", "s", "key", 0, 0)
	if c.failoverN != 5 {
		t.Errorf("expected default failover threshold 5, got %d", c.failoverN)
	}
	if c.httpClient.Timeout != time.Second {
		t.Errorf("expected default timeout 1s, got %v", c.httpClient.Timeout)
	}
}
