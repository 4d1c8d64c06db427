// Package lanes implements the per (sport, league) execution lane: a
// max-open-orders guard, a cents spend cap, an order-placement throttle,
// and idempotency dedup (DOMAIN EXPANSION restored from the teacher's
// internal/core/execution/lanes package; this is one consistent
// reimplementation of those four guards composed into a single Lane —
// the teacher snapshot itself called methods across these files with
// mismatched signatures, a retrieval artifact, not something to copy
// literally; see DESIGN.md).
package lanes

import "sync/atomic"

// RiskGuard tracks open order count and per-order size limits for a lane.
type RiskGuard struct {
	maxOpenOrders int
	maxOrderCents int
	openCount     atomic.Int32
}

// NewRiskGuard returns a guard permitting up to maxOpenOrders concurrent
// open orders, each capped at maxOrderCents.
func NewRiskGuard(maxOpenOrders, maxOrderCents int) *RiskGuard {
	return &RiskGuard{
		maxOpenOrders: maxOpenOrders,
		maxOrderCents: maxOrderCents,
	}
}

// CanPlace reports whether another order may be opened.
func (r *RiskGuard) CanPlace() bool {
	return int(r.openCount.Load()) < r.maxOpenOrders
}

// RecordPlacement marks one order as opened.
func (r *RiskGuard) RecordPlacement() {
	r.openCount.Add(1)
}

// RecordFill marks one order as filled (no longer open).
func (r *RiskGuard) RecordFill() {
	r.openCount.Add(-1)
}

// RecordCancel marks one order as cancelled (no longer open).
func (r *RiskGuard) RecordCancel() {
	r.openCount.Add(-1)
}

// MaxOrderCents returns the per-order cents cap.
func (r *RiskGuard) MaxOrderCents() int {
	return r.maxOrderCents
}

// OpenCount returns the current open-order count.
func (r *RiskGuard) OpenCount() int32 {
	return r.openCount.Load()
}
