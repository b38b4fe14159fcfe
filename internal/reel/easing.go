package reel

// EaseOutCubic maps t in [0,1] onto a decelerating curve. Values outside the
// range are clamped so late frames land exactly on 1.
func EaseOutCubic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	inv := 1 - t
	return 1 - inv*inv*inv
}
