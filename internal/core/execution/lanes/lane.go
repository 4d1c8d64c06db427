// Package lanes implements the per (sport, league) execution lane: a
// max-open-orders guard, a cents spend cap, an order-placement throttle,
// and idempotency dedup (DOMAIN EXPANSION restored from the teacher's
// internal/core/execution/lanes package; this is one consistent
// reimplementation of those four guards composed into a single Lane —
// the teacher snapshot itself called methods across these files with
// mismatched signatures, a retrieval artifact, not something to copy
// literally; see DESIGN.md).
package lanes

// Lane encapsulates risk limits, spend cap, throttle, and idempotency
// for a single (sport, league) execution path.
type Lane struct {
	risk       *RiskGuard
	spend      *SpendGuard
	throttle   *Throttle
	idempotent *IdempotencyGuard
}

// NewLane wires up one lane's four guards: maxOpenOrders/maxOrderCents
// feed RiskGuard, maxTotalSpendCents feeds SpendGuard, throttleMs feeds
// Throttle.
func NewLane(maxOpenOrders, maxOrderCents, maxTotalSpendCents int, throttleMs int64) *Lane {
	return &Lane{
		risk:       NewRiskGuard(maxOpenOrders, maxOrderCents),
		spend:      NewSpendGuard(maxTotalSpendCents),
		throttle:   NewThrottle(throttleMs),
		idempotent: NewIdempotencyGuard(),
	}
}

// Allow returns true if an order for this ticker+score, costing
// orderCents, is permitted by every guard.
func (l *Lane) Allow(ticker string, homeScore, awayScore, orderCents int) bool {
	key := l.idempotent.Key(ticker, homeScore, awayScore)

	if l.idempotent.HasSeen(key) {
		return false
	}

	if !l.risk.CanPlace() {
		return false
	}

	if !l.spend.CanSpend(orderCents) {
		return false
	}

	if !l.throttle.Allow() {
		return false
	}

	return true
}

// RecordOrder marks that an order for orderCents was placed for this
// ticker+score combo, updating every guard's bookkeeping.
func (l *Lane) RecordOrder(ticker string, homeScore, awayScore, orderCents int) {
	key := l.idempotent.Key(ticker, homeScore, awayScore)
	l.idempotent.Record(key)
	l.risk.RecordPlacement()
	l.spend.Record(orderCents)
	l.throttle.Touch()
}

// MaxOrderCents returns the lane's per-order cents cap.
func (l *Lane) MaxOrderCents() int {
	return l.risk.MaxOrderCents()
}

// TotalSpentCents returns the lane's cumulative recorded spend.
func (l *Lane) TotalSpentCents() int {
	return l.spend.TotalSpent()
}

// IdempotencyKey returns the dedup key for external use.
func (l *Lane) IdempotencyKey(ticker string, homeScore, awayScore int) string {
	return l.idempotent.Key(ticker, homeScore, awayScore)
}

// ClearIdempotency resets dedup state (e.g. after a score overturn).
func (l *Lane) ClearIdempotency() {
	l.idempotent.Clear()
}
