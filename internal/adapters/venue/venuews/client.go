// Package venuews implements the venue WebSocket ingest task (spec §6
// "subscribe per ticker, receive snapshot+delta frames and
// status-change events"). Grounded on the teacher's
// internal/adapters/inbound/kalshi_ws package: single reader/writer
// goroutine discipline, exponential-backoff reconnect, ping/pong
// keepalive. Unlike the teacher (which published onto a shared event
// bus), this client writes ticker updates directly into the shared
// livebook.LiveBook and hands per-side volumes to its VolumeHandler
// callback (cmd/engine routes them into a momentum.VolumeBook that the
// engine tick drains), matching spec §5's "LiveBook ... written only by
// venue WS task" discipline —
// there is no bus in this engine's pipeline (spec §4.6 is a poll/
// replay tick loop, not pub/sub).
package venuews

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/arbengine/engine/internal/adapters/venue/venueauth"
	"github.com/arbengine/engine/internal/core/livebook"
	"github.com/arbengine/engine/internal/telemetry"
)

// StatusHandler is called whenever the socket connects or disconnects.
type StatusHandler func(connected bool)

// VolumeHandler is called on each ticker update with the per-side
// cumulative volume, feeding the book-pressure tracker (spec §4.4).
type VolumeHandler func(ticker string, yesVolume, noVolume int)

// Client connects to the venue's WebSocket feed and writes updates
// into a LiveBook.
//
// gorilla/websocket supports one concurrent reader and one concurrent
// writer, so all writes are serialized through mu.
type Client struct {
	url    string
	signer *venueauth.Signer
	book   *livebook.LiveBook
	onVol  VolumeHandler
	onStat StatusHandler
	conn   *websocket.Conn
	done   chan struct{}

	mu      sync.Mutex
	tickers map[string]bool
	subID   int
}

// NewClient returns a Client that writes ticker updates into book and
// optionally notifies onVol/onStat of volume/status changes.
func NewClient(wsURL string, signer *venueauth.Signer, book *livebook.LiveBook, onVol VolumeHandler, onStat StatusHandler) *Client {
	return &Client{
		url:     wsURL,
		signer:  signer,
		book:    book,
		onVol:   onVol,
		onStat:  onStat,
		done:    make(chan struct{}),
		tickers: make(map[string]bool),
	}
}

// Connect dials the socket and starts the read/reconnect loop in the
// background.
func (c *Client) Connect(ctx context.Context) error {
	if err := c.dial(ctx); err != nil {
		return err
	}
	go c.runLoop(ctx)
	return nil
}

func (c *Client) dial(ctx context.Context) error {
	parsed, _ := url.Parse(c.url)
	wsPath := parsed.Path
	if wsPath == "" {
		wsPath = "/trade-api/ws/v2"
	}
	header := c.signer.Headers("GET", wsPath)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, header)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	return nil
}

// SubscribeTickers adds tickers and subscribes on the live connection.
// Safe to call from any goroutine at any time; if not yet connected,
// tickers are stored and subscribed on the next connect/reconnect.
func (c *Client) SubscribeTickers(tickers []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var newTickers []string
	for _, t := range tickers {
		if !c.tickers[t] {
			c.tickers[t] = true
			newTickers = append(newTickers, t)
		}
	}
	if len(newTickers) == 0 || c.conn == nil {
		return nil
	}
	return c.sendSubscribe(newTickers)
}

func (c *Client) runLoop(ctx context.Context) {
	defer close(c.done)

	first := true
	for {
		if first {
			telemetry.Infof("venue ws connected to %s", c.url)
			first = false
		} else {
			telemetry.Infof("venue ws reconnected")
		}

		c.resubscribeAll()
		c.setStatus(true)
		c.readLoop(ctx)
		c.setStatus(false)
		if c.book != nil {
			c.book.ResetAll()
		}

		select {
		case <-ctx.Done():
			return
		default:
		}

		backoff := 1 * time.Second
		const maxBackoff = 30 * time.Second
		for attempt := 1; ; attempt++ {
			telemetry.Warnf("venue ws reconnecting (attempt %d) in %s", attempt, backoff)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if err := c.dial(ctx); err != nil {
				telemetry.Warnf("venue ws dial failed: %v", err)
				backoff *= 2
				if backoff > maxBackoff {
					backoff = maxBackoff
				}
				continue
			}
			break
		}
	}
}

func (c *Client) resubscribeAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.tickers) == 0 {
		return
	}
	all := make([]string, 0, len(c.tickers))
	for t := range c.tickers {
		all = append(all, t)
	}
	if err := c.sendSubscribe(all); err != nil {
		telemetry.Warnf("venue ws resubscribe failed: %v", err)
	}
}

func (c *Client) sendSubscribe(tickers []string) error {
	c.subID++
	cmd := subscribeCmd{
		ID:  c.subID,
		Cmd: "subscribe",
		Params: subscribeParams{
			Channels:            []string{"ticker"},
			MarketTickers:       tickers,
			SendInitialSnapshot: true,
		},
	}
	telemetry.Debugf("venue ws: subscribing to %d tickers (sid=%d)", len(tickers), c.subID)
	return c.conn.WriteJSON(cmd)
}

type subscribeCmd struct {
	ID     int             `json:"id"`
	Cmd    string          `json:"cmd"`
	Params subscribeParams `json:"params"`
}

type subscribeParams struct {
	Channels            []string `json:"channels"`
	MarketTickers       []string `json:"market_tickers,omitempty"`
	SendInitialSnapshot bool     `json:"send_initial_snapshot,omitempty"`
}

func (c *Client) readLoop(ctx context.Context) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	defer conn.Close()

	const pingWait = 30 * time.Second
	conn.SetReadDeadline(time.Now().Add(pingWait))
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(pingWait))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(5*time.Second))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			telemetry.Warnf("venue ws read error: %v", err)
			return
		}
		conn.SetReadDeadline(time.Now().Add(pingWait))

		update, ok := parseMessage(msg)
		if !ok {
			continue
		}
		if c.book != nil {
			c.book.Update(update.Ticker, livebook.Quote{
				YesBid: update.YesBid,
				YesAsk: update.YesAsk,
				NoBid:  update.NoBid,
				NoAsk:  update.NoAsk,
			})
		}
		if c.onVol != nil {
			c.onVol(update.Ticker, update.YesVolume, update.NoVolume)
		}
	}
}

func (c *Client) setStatus(connected bool) {
	if c.onStat != nil {
		c.onStat(connected)
	}
}

// Close closes the underlying connection, if any.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn != nil {
		return conn.Close()
	}
	return nil
}

// Done is closed when the run loop exits (context cancellation).
func (c *Client) Done() <-chan struct{} {
	return c.done
}
