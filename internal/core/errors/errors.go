// Package errors defines the engine's error taxonomy (spec §7). Each
// sentinel is a category, not a specific failure; wrap with fmt.Errorf
// and %w to preserve the underlying cause while letting callers branch
// on category with errors.Is.
package errors

import "errors"

var (
	// ErrTransientUpstream covers HTTP 5xx, timeouts, and transient parse
	// failures from an external feed. Callers log at warn, retry next
	// interval, and fall back to cached data for that sport.
	ErrTransientUpstream = errors.New("transient upstream error")

	// ErrQuotaExhausted covers exhausted API quota or rejected
	// credentials. Fatal at startup; at runtime the affected source is
	// paused while others continue.
	ErrQuotaExhausted = errors.New("quota exhausted or invalid credentials")

	// ErrMatchFailure means a team/date pair was not found in the market
	// index. Not logged as an error — the caller simply produces no row.
	ErrMatchFailure = errors.New("no match found")

	// ErrStaleData means a contributing bookmaker's last_update exceeds
	// stale_odds_threshold_ms. Forces Skip for any decision depending on
	// it.
	ErrStaleData = errors.New("stale data")

	// ErrRiskViolation means a per-market or aggregate risk limit would
	// be exceeded. Treated as Skip, logged at info, never propagated.
	ErrRiskViolation = errors.New("risk violation")

	// ErrOrderRejected means the venue rejected a submitted order. Logged
	// at warn; not retried automatically.
	ErrOrderRejected = errors.New("order rejected")

	// ErrInvariant means an internal invariant was violated (negative
	// price, market-index key collision between distinct teams). Logged
	// at error; terminates the current sport's tick, not the process.
	ErrInvariant = errors.New("internal invariant violation")
)

// Is reports whether err is in category cat, via errors.Is.
func Is(err, cat error) bool { return errors.Is(err, cat) }
