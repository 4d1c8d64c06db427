package momentum

// Composite combines velocity and book-pressure scores into the single
// momentum value the signal engine gates on (spec §4.4):
// momentum = 0.6*velocity + 0.4*book_pressure, clipped to [-100, 100].
func Composite(velocity, bookPressure float64) float64 {
	return clamp(0.6*velocity+0.4*bookPressure, -100, 100)
}
