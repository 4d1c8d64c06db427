package venuews

import (
	"encoding/json"
	"strconv"

	"github.com/arbengine/engine/internal/telemetry"
)

type wsMessage struct {
	Type string          `json:"type"`
	Msg  json.RawMessage `json:"msg"`
}

type tickerMsg struct {
	MarketTicker string  `json:"market_ticker"`
	YesAsk       float64 `json:"yes_ask"`
	YesBid       float64 `json:"yes_bid"`
	NoAsk        float64 `json:"no_ask"`
	NoBid        float64 `json:"no_bid"`
	YesAskDollars string `json:"yes_ask_dollars"`
	YesBidDollars string `json:"yes_bid_dollars"`
	NoAskDollars  string `json:"no_ask_dollars"`
	NoBidDollars  string `json:"no_bid_dollars"`
	YesVolume    int64   `json:"yes_volume"`
	NoVolume     int64   `json:"no_volume"`
}

// tickerUpdate is one parsed venue ticker frame.
type tickerUpdate struct {
	Ticker    string
	YesBid    int
	YesAsk    int
	NoBid     int
	NoAsk     int
	YesVolume int
	NoVolume  int
}

// parseMessage decodes one raw WS frame into a tickerUpdate. ok is
// false for non-ticker frame types (subscribed/unsubscribed/ok/error)
// or parse failures.
func parseMessage(data []byte) (tickerUpdate, bool) {
	var msg wsMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		telemetry.Warnf("venue ws: parse error: %v", err)
		return tickerUpdate{}, false
	}

	switch msg.Type {
	case "ticker":
		return parseTicker(msg.Msg)
	case "error":
		telemetry.Warnf("venue ws: server error: %s", string(msg.Msg))
		return tickerUpdate{}, false
	default:
		return tickerUpdate{}, false
	}
}

func parseTicker(raw json.RawMessage) (tickerUpdate, bool) {
	var t tickerMsg
	if err := json.Unmarshal(raw, &t); err != nil {
		return tickerUpdate{}, false
	}
	if t.MarketTicker == "" {
		return tickerUpdate{}, false
	}

	yesAsk := t.YesAsk
	if yesAsk == 0 && t.YesAskDollars != "" {
		yesAsk = dollarsToCents(t.YesAskDollars)
	}
	yesBid := t.YesBid
	if yesBid == 0 && t.YesBidDollars != "" {
		yesBid = dollarsToCents(t.YesBidDollars)
	}
	noAsk := t.NoAsk
	if noAsk == 0 && t.NoAskDollars != "" {
		noAsk = dollarsToCents(t.NoAskDollars)
	}
	noBid := t.NoBid
	if noBid == 0 && t.NoBidDollars != "" {
		noBid = dollarsToCents(t.NoBidDollars)
	}

	return tickerUpdate{
		Ticker:    t.MarketTicker,
		YesBid:    int(yesBid),
		YesAsk:    int(yesAsk),
		NoBid:     int(noBid),
		NoAsk:     int(noAsk),
		YesVolume: int(t.YesVolume),
		NoVolume:  int(t.NoVolume),
	}, true
}

func dollarsToCents(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v * 100
}
