// Package signal implements the fee-aware signal engine (spec §4.3):
// the fee model, the taker/maker/skip decision ladder, the fee gate,
// Kelly sizing, and exit planning.
package signal

import "math"

// TakerFee computes the venue's taker fee in integer cents for a
// quantity q contracts at price p cents (spec §4.3). Quantity enters the
// numerator — fees are computed per-contract-aggregate, not
// per-contract-then-summed.
func TakerFee(p, q int) int {
	return ceilFee(7 * float64(q) * float64(p) * float64(100-p) / 10_000)
}

// MakerFee computes the venue's maker fee in integer cents.
func MakerFee(p, q int) int {
	return ceilFee(175 * float64(q) * float64(p) * float64(100-p) / 1_000_000)
}

func ceilFee(x float64) int {
	return int(math.Ceil(x))
}
