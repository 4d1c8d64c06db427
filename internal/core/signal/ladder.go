package signal

import "math"

// Action is the signal engine's recommended action (spec §4.3).
type Action int

const (
	Skip Action = iota
	TakerBuy
	MakerBuy
)

func (a Action) String() string {
	switch a {
	case TakerBuy:
		return "taker_buy"
	case MakerBuy:
		return "maker_buy"
	default:
		return "skip"
	}
}

// Thresholds holds the configurable edge/momentum gates from spec §6
// [strategy]/[momentum] config sections.
type Thresholds struct {
	TakerEdgeCents    int // default 5
	MakerEdgeCents    int // default 2
	MinEdgeAfterFees  int
	TakerMomentumMin  float64
	MakerMomentumMin  float64
}

// DefaultThresholds returns spec's stated defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{TakerEdgeCents: 5, MakerEdgeCents: 2}
}

// Signal is the signal engine's decision record (spec §4.3 Output).
type Signal struct {
	Action             Action
	Price              int // cents
	Quantity           int
	Edge               int // cents, buy_edge for buys
	NetProfitEstimate  int // cents, per spec §8 fee-gate-soundness invariant
	RestingSellPrice   int // exit plan: resting maker sell at fair_value
}

// Sizing carries the Kelly/risk inputs needed to size a candidate trade.
type Sizing struct {
	BankrollCents        int
	KellyFraction        float64 // (0, 1]
	MaxContractsPerMarket int
}

// Decide runs the decision ladder, fee gate, and Kelly sizing for one
// buy-side opportunity (spec §4.3), without the momentum gate — callers
// testing the fee-gate/Kelly math in isolation (spec §8 scenarios 1, 2,
// 4, 5) use this directly; the full pipeline calls Evaluate instead.
func Decide(fairValue, bid, ask int, th Thresholds, sz Sizing) Signal {
	buyEdge := fairValue - ask

	var action Action
	var price int
	switch {
	case buyEdge >= th.TakerEdgeCents:
		action = TakerBuy
		price = ask
	case buyEdge >= th.MakerEdgeCents:
		action = MakerBuy
		price = bid + 1
	default:
		return Signal{Action: Skip}
	}

	quantity := kellyQuantity(fairValue, price, sz)

	entryFee := MakerFee(price, quantity)
	if action == TakerBuy {
		entryFee = TakerFee(price, quantity)
	}
	exitFee := MakerFee(fairValue, quantity)
	netProfit := (fairValue - exitFee) - (price + entryFee)
	if netProfit < th.MinEdgeAfterFees {
		return Signal{Action: Skip}
	}

	return Signal{
		Action:            action,
		Price:             price,
		Quantity:          quantity,
		Edge:              buyEdge,
		NetProfitEstimate: netProfit,
		RestingSellPrice:  fairValue,
	}
}

// Evaluate runs Decide and then applies the momentum gate (spec §4.4:
// "Applied post-signal ... else the action downgrades to Skip").
func Evaluate(fairValue, bid, ask int, th Thresholds, sz Sizing, momentum float64) Signal {
	sig := Decide(fairValue, bid, ask, th, sz)
	if sig.Action == Skip {
		return sig
	}
	momentumFloor := th.MakerMomentumMin
	if sig.Action == TakerBuy {
		momentumFloor = th.TakerMomentumMin
	}
	if momentum < momentumFloor {
		return Signal{Action: Skip}
	}
	return sig
}

// kellyQuantity computes contract quantity via fractional Kelly sizing
// (spec §4.3 Kelly sizing). Quantity is at least 1 once the caller has
// already decided to trade, even if the raw Kelly fraction rounds to 0,
// and is clipped above by MaxContractsPerMarket.
func kellyQuantity(fairValue, price int, sz Sizing) int {
	p := float64(fairValue) / 100.0
	q := 1 - p
	b := float64(100-price) / float64(price)

	fStar := 0.0
	if b > 0 {
		fStar = math.Max(0, (b*p-q)/b)
	}
	wagerCents := fStar * sz.KellyFraction * float64(sz.BankrollCents)
	quantity := int(math.Floor(wagerCents / float64(price)))
	if quantity < 1 {
		quantity = 1
	}
	if sz.MaxContractsPerMarket > 0 && quantity > sz.MaxContractsPerMarket {
		quantity = sz.MaxContractsPerMarket
	}
	return quantity
}
