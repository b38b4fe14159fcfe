package spin

import "math/rand/v2"

// TargetPicker chooses the landing symbol index for each reel
type TargetPicker func(reels int, weights []int) []int

// WeightedPicker draws each reel independently using the skin's symbol weights.
// Targets are cosmetic: the payout is reconciled separately.
func WeightedPicker(reels int, weights []int) []int {
	total := 0
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}

	targets := make([]int, reels)
	for i := range targets {
		if total == 0 {
			targets[i] = rand.IntN(len(weights)) //nolint:gosec // cosmetic reel positions
			continue
		}
		roll := rand.IntN(total) //nolint:gosec // cosmetic reel positions
		for idx, w := range weights {
			if w <= 0 {
				continue
			}
			if roll < w {
				targets[i] = idx
				break
			}
			roll -= w
		}
	}
	return targets
}

// FixedPicker always lands on the given targets, wrapping if there are more reels
func FixedPicker(targets ...int) TargetPicker {
	return func(reels int, weights []int) []int {
		out := make([]int, reels)
		for i := range out {
			out[i] = targets[i%len(targets)]
		}
		return out
	}
}
