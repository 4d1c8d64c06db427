package venuerest

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/arbengine/engine/internal/core/match"
)

type wireMarket struct {
	Ticker      string `json:"ticker"`
	EventTicker string `json:"event_ticker"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Status      string `json:"status"`
	OpenTime    string `json:"open_time"`
	CloseTime   string `json:"close_time"`
	YesAsk      string `json:"yes_ask_dollars"`
	YesBid      string `json:"yes_bid_dollars"`
	NoAsk       string `json:"no_ask_dollars"`
	NoBid       string `json:"no_bid_dollars"`
}

type getMarketsResponse struct {
	Markets []wireMarket `json:"markets"`
	Cursor  string       `json:"cursor"`
}

// ListMarkets satisfies match.Fetcher: it pages through every open
// market under seriesPrefix (spec §4.1 "paging venue REST markets API
// per series prefix").
func (c *Client) ListMarkets(ctx context.Context, seriesPrefix string) ([]match.RawMarket, error) {
	var all []match.RawMarket
	cursor := ""
	for {
		path := fmt.Sprintf("/trade-api/v2/markets?status=open&series_ticker=%s&limit=1000", seriesPrefix)
		if cursor != "" {
			path += "&cursor=" + cursor
		}
		body, status, err := c.get(ctx, path)
		if err != nil {
			return nil, err
		}
		if status != 200 {
			return nil, fmt.Errorf("list markets: status=%d body=%s", status, string(body))
		}
		var resp getMarketsResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return nil, fmt.Errorf("unmarshal markets: %w", err)
		}
		for _, m := range resp.Markets {
			all = append(all, toRawMarket(m))
		}
		if resp.Cursor == "" || len(resp.Markets) == 0 {
			break
		}
		cursor = resp.Cursor
	}
	return all, nil
}

func toRawMarket(m wireMarket) match.RawMarket {
	openTime, _ := time.Parse(time.RFC3339, m.OpenTime)
	closeTime, _ := time.Parse(time.RFC3339, m.CloseTime)
	return match.RawMarket{
		Ticker:      m.Ticker,
		EventTicker: m.EventTicker,
		Title:       m.Title,
		Subtitle:    m.Subtitle,
		Status:      m.Status,
		OpenTime:    openTime,
		CloseTime:   closeTime,
		YesAskCents: dollarsToCents(m.YesAsk),
		YesBidCents: dollarsToCents(m.YesBid),
		NoAskCents:  dollarsToCents(m.NoAsk),
		NoBidCents:  dollarsToCents(m.NoBid),
	}
}

func dollarsToCents(s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(math.Round(v * 100))
}

var _ match.Fetcher = (*Client)(nil)
