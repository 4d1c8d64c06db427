package execution

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/arbengine/engine/internal/core/broadcast"
	"github.com/arbengine/engine/internal/core/signal"
	"github.com/arbengine/engine/internal/sport"
	"github.com/arbengine/engine/internal/telemetry"
)

// Service gates StrategySignals through the lane router and places
// accepted orders through an OrderPlacer (spec §4.3 Output ->
// §6 place_order). Grounded on the teacher's execution service: async
// placement off the tick goroutine, per-order telemetry lines, price
// clamped to the venue's 1-99 cent range.
type Service struct {
	router    *LaneRouter
	client    OrderPlacer
	broadcast *broadcast.Broadcaster
	orderTTL  time.Duration
}

// NewService returns a Service that places orders via client and
// appends each filled order to b as a trade.
func NewService(router *LaneRouter, client OrderPlacer, b *broadcast.Broadcaster, orderTTL time.Duration) *Service {
	return &Service{router: router, client: client, broadcast: b, orderTTL: orderTTL}
}

// Execute gates sig through the (sport, league) lane and, if accepted,
// places the order asynchronously so the caller's tick never blocks on
// the venue round trip.
func (s *Service) Execute(ctx context.Context, sp sport.Sport, league, ticker string, homeScore, awayScore int, sig signal.Signal) {
	if sig.Action == signal.Skip {
		return
	}

	lane := s.router.Route(sp, league)
	if lane == nil {
		telemetry.Warnf("[RISK-LIMIT] %s — no lane configured for %s/%s", ticker, sp, league)
		telemetry.Metrics.RiskRejections.Inc()
		return
	}

	orderCents := sig.Price * sig.Quantity
	if orderCents > lane.MaxOrderCents() {
		telemetry.Infof("[RISK-LIMIT] %s — order %d¢ exceeds lane cap %d¢", ticker, orderCents, lane.MaxOrderCents())
		telemetry.Metrics.RiskRejections.Inc()
		return
	}
	if !lane.Allow(ticker, homeScore, awayScore, orderCents) {
		telemetry.Infof("[RISK-LIMIT] %s — lane rejected (score %d-%d)", ticker, homeScore, awayScore)
		telemetry.Metrics.RiskRejections.Inc()
		return
	}
	lane.RecordOrder(ticker, homeScore, awayScore, orderCents)

	go s.place(ctx, ticker, sig)
}

func (s *Service) place(ctx context.Context, ticker string, sig signal.Signal) {
	price := clampPriceCents(sig.Price)

	req := OrderRequest{
		Ticker:        ticker,
		Side:          "yes",
		Action:        "buy",
		Type:          "limit",
		PriceCents:    price,
		Count:         sig.Quantity,
		ClientOrderID: uuid.NewString(),
		TimeInForce:   "good_till_canceled",
	}
	if sig.Action == signal.MakerBuy && s.orderTTL > 0 {
		req.ExpirationTS = time.Now().Add(s.orderTTL).Unix()
	}

	telemetry.Infof("[ORDER] %-4s %-3s %d contracts @ %d¢ (%s)", ticker, "YES", sig.Quantity, price, sig.Action)
	telemetry.Metrics.OrdersSent.Inc()

	res, err := s.client.PlaceOrder(ctx, req)
	if err != nil {
		telemetry.Errorf("[RESPONSE] %s order FAILED: %v", ticker, err)
		telemetry.Metrics.OrderErrors.Inc()
		return
	}

	total := res.FillCount + res.RemainingCount
	fees := res.TakerFeeCents + res.MakerFeeCents
	fillCost := res.TakerFillCents + res.MakerFillCents
	avg := 0.0
	if res.FillCount > 0 {
		avg = float64(fillCost+fees) / float64(res.FillCount)
	}
	telemetry.Infof("[RESPONSE] %s [%d/%d] @ %.2f¢ avg (order %s)", ticker, res.FillCount, total, avg, res.OrderID)

	if res.FillCount == 0 {
		return
	}
	if s.broadcast != nil {
		s.broadcast.AppendTrade(broadcast.Trade{
			Ticker: ticker,
			Side:   "yes",
			Price:  price,
			Qty:    res.FillCount,
			At:     time.Now(),
		})
	}
}

func clampPriceCents(c int) int {
	if c < 1 {
		return 1
	}
	if c > 99 {
		return 99
	}
	return c
}
