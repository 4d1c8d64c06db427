package venuerest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/arbengine/engine/internal/core/execution"
	"github.com/arbengine/engine/internal/telemetry"
)

// createOrderRequest is the wire payload for POST .../orders.
type createOrderRequest struct {
	Ticker       string `json:"ticker"`
	Action       string `json:"action"`
	Side         string `json:"side"`
	Type         string `json:"type"`
	CountFP      string `json:"count_fp,omitempty"`
	PriceCents   int    `json:"price_cents"`
	ClientID     string `json:"client_order_id,omitempty"`
	TimeInForce  string `json:"time_in_force,omitempty"`
	ExpirationTS int64  `json:"expiration_ts,omitempty"`
}

type orderDetail struct {
	OrderID        string `json:"order_id"`
	Status         string `json:"status"`
	FillCount      int    `json:"fill_count"`
	RemainingCount int    `json:"remaining_count"`
	TakerFees      int    `json:"taker_fees"`
	MakerFees      int    `json:"maker_fees"`
	TakerFillCost  int    `json:"taker_fill_cost"`
	MakerFillCost  int    `json:"maker_fill_cost"`
}

type createOrderResponse struct {
	Order orderDetail `json:"order"`
}

// PlaceOrder satisfies execution.OrderPlacer.
func (c *Client) PlaceOrder(ctx context.Context, req execution.OrderRequest) (execution.OrderResult, error) {
	wire := createOrderRequest{
		Ticker:       req.Ticker,
		Action:       req.Action,
		Side:         req.Side,
		Type:         req.Type,
		CountFP:      fmt.Sprintf("%d.00", req.Count),
		PriceCents:   req.PriceCents,
		ClientID:     req.ClientOrderID,
		TimeInForce:  req.TimeInForce,
		ExpirationTS: req.ExpirationTS,
	}

	body, status, err := c.post(ctx, "/trade-api/v2/portfolio/orders", wire)
	if err != nil {
		telemetry.Metrics.OrderErrors.Inc()
		return execution.OrderResult{}, err
	}
	if status < 200 || status >= 300 {
		telemetry.Metrics.OrderErrors.Inc()
		return execution.OrderResult{}, fmt.Errorf("order rejected: status=%d body=%s", status, string(body))
	}

	var resp createOrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return execution.OrderResult{}, fmt.Errorf("unmarshal order response: %w", err)
	}
	telemetry.Metrics.OrdersSent.Inc()

	return execution.OrderResult{
		OrderID:        resp.Order.OrderID,
		FillCount:      resp.Order.FillCount,
		RemainingCount: resp.Order.RemainingCount,
		TakerFeeCents:  resp.Order.TakerFees,
		MakerFeeCents:  resp.Order.MakerFees,
		TakerFillCents: resp.Order.TakerFillCost,
		MakerFillCents: resp.Order.MakerFillCost,
	}, nil
}

// CancelOrder cancels a resting order (spec §6 cancel_order, used by
// exit-plan cancel-and-replace per spec §9 Open Question 1).
func (c *Client) CancelOrder(ctx context.Context, orderID string) error {
	path := "/trade-api/v2/portfolio/orders/" + orderID
	_, status, err := c.delete(ctx, path)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("cancel failed: status=%d", status)
	}
	return nil
}

// GetBalance returns the account balance in cents (spec §6
// get_balance).
func (c *Client) GetBalance(ctx context.Context) (int, error) {
	body, status, err := c.get(ctx, "/trade-api/v2/portfolio/balance")
	if err != nil {
		return 0, err
	}
	if status != 200 {
		return 0, fmt.Errorf("get balance: status=%d", status)
	}
	var resp struct {
		Balance int `json:"balance"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("unmarshal balance: %w", err)
	}
	return resp.Balance, nil
}

// Position is one open market position (spec §6 list_positions).
type Position struct {
	Ticker         string `json:"ticker"`
	Quantity       int    `json:"position"`
	MarketExposure int    `json:"market_exposure"`
	RealizedPnl    int    `json:"realized_pnl"`
}

// GetPositions lists open positions.
func (c *Client) GetPositions(ctx context.Context) ([]Position, error) {
	body, status, err := c.get(ctx, "/trade-api/v2/portfolio/positions")
	if err != nil {
		return nil, err
	}
	if status != 200 {
		return nil, fmt.Errorf("get positions: status=%d", status)
	}
	var resp struct {
		MarketPositions []Position `json:"market_positions"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	return resp.MarketPositions, nil
}

var _ execution.OrderPlacer = (*Client)(nil)
