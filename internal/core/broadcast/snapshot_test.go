package broadcast

import (
	"testing"
	"time"

	"github.com/arbengine/engine/internal/sport"
)

func TestBroadcaster_ReplaceRowsVisibleInLatest(t *testing.T) {
	b := New()
	b.ReplaceRows([]MarketRow{{Ticker: "T1", Bid: 50, Ask: 52}}, FilterStats{Live: 1}, 0)

	snap := b.Latest()
	if len(snap.Rows) != 1 || snap.Rows[0].Ticker != "T1" {
		t.Fatalf("unexpected rows after ReplaceRows: %+v", snap.Rows)
	}
	if snap.Filters.Live != 1 {
		t.Errorf("expected filter stats to be carried with the replace, got %+v", snap.Filters)
	}
}

func TestBroadcaster_LatestReturnsIndependentClone(t *testing.T) {
	b := New()
	b.ReplaceRows([]MarketRow{{Ticker: "T1"}}, FilterStats{}, 0)

	snap := b.Latest()
	snap.Rows[0].Ticker = "MUTATED"

	fresh := b.Latest()
	if fresh.Rows[0].Ticker != "T1" {
		t.Error("expected mutating a returned snapshot to not affect the broadcaster's internal state")
	}
}

func TestBroadcaster_PatchQuotesOnlyTouchesNamedFields(t *testing.T) {
	b := New()
	b.ReplaceRows([]MarketRow{{Ticker: "T1", Home: "Lakers", Bid: 50, Ask: 52, Edge: 3}}, FilterStats{}, 0)

	b.PatchQuotes(map[string]struct{ Bid, Ask, Edge int }{
		"T1": {Bid: 60, Ask: 62, Edge: 5},
	})

	snap := b.Latest()
	row := snap.Rows[0]
	if row.Bid != 60 || row.Ask != 62 || row.Edge != 5 {
		t.Errorf("expected patched bid/ask/edge, got %+v", row)
	}
	if row.Home != "Lakers" {
		t.Errorf("expected PatchQuotes to leave unrelated fields untouched, got Home=%q", row.Home)
	}
}

func TestBroadcaster_PatchQuotesIgnoresUnknownTicker(t *testing.T) {
	b := New()
	b.ReplaceRows([]MarketRow{{Ticker: "T1", Bid: 50}}, FilterStats{}, 0)

	b.PatchQuotes(map[string]struct{ Bid, Ask, Edge int }{"UNKNOWN": {Bid: 99}})

	snap := b.Latest()
	if snap.Rows[0].Bid != 50 {
		t.Error("expected a patch for an unknown ticker to have no effect")
	}
}

func TestBroadcaster_AppendLogBoundsHistory(t *testing.T) {
	b := New()
	for i := 0; i < 510; i++ {
		b.AppendLog(LogEntry{Message: "line"})
	}

	snap := b.Latest()
	if len(snap.Logs) != 500 {
		t.Errorf("expected log history bounded to 500 entries, got %d", len(snap.Logs))
	}
}

func TestBroadcaster_AppendTradeAccumulates(t *testing.T) {
	b := New()
	b.AppendTrade(Trade{Ticker: "T1", Qty: 1})
	b.AppendTrade(Trade{Ticker: "T2", Qty: 2})

	snap := b.Latest()
	if len(snap.Trades) != 2 {
		t.Errorf("expected 2 accumulated trades, got %d", len(snap.Trades))
	}
}

func TestBroadcaster_SetEnabledSportsReplacesMap(t *testing.T) {
	b := New()
	b.SetEnabledSports(map[sport.Sport]bool{sport.Basketball: true})

	snap := b.Latest()
	if !snap.EnabledSports[sport.Basketball] {
		t.Error("expected basketball to be enabled in the snapshot")
	}

	b.SetEnabledSports(map[sport.Sport]bool{sport.IceHockey: true})
	snap = b.Latest()
	if snap.EnabledSports[sport.Basketball] {
		t.Error("expected SetEnabledSports to fully replace the map, not merge into it")
	}
}

func TestBroadcaster_WaitNextBlocksUntilChange(t *testing.T) {
	b := New()

	done := make(chan AppSnapshot, 1)
	go func() {
		snap, _ := b.WaitNext(0)
		done <- snap
	}()

	select {
	case <-done:
		t.Fatal("expected WaitNext to block before any write occurs")
	case <-time.After(20 * time.Millisecond):
	}

	b.ReplaceRows([]MarketRow{{Ticker: "T1"}}, FilterStats{}, 0)

	select {
	case snap := <-done:
		if len(snap.Rows) != 1 {
			t.Errorf("expected the woken snapshot to include the new row, got %+v", snap.Rows)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("expected WaitNext to wake after ReplaceRows")
	}
}
