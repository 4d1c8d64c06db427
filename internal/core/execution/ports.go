package execution

import "context"

// OrderRequest is one order placement, denominated in integer cents
// (spec §4.3 StrategySignal -> §6 venue REST place_order).
type OrderRequest struct {
	Ticker        string
	Side          string // "yes" or "no"
	Action        string // "buy"
	Type          string // "limit"
	PriceCents    int
	Count         int
	ClientOrderID string
	TimeInForce   string
	ExpirationTS  int64 // unix seconds, zero means good-till-canceled
}

// OrderResult is the venue's response to a placed order.
type OrderResult struct {
	OrderID        string
	FillCount      int
	RemainingCount int
	TakerFeeCents  int
	MakerFeeCents  int
	TakerFillCents int
	MakerFillCents int
}

// OrderPlacer abstracts the ability to place an order on the venue,
// satisfied by *venuerest.Client (spec §6 "place_order"). Kept as a
// narrow interface per spec §1's out-of-scope boundary around venue
// wire plumbing.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req OrderRequest) (OrderResult, error)
}
