package reel

import "math"

// CenterIndex is the sequence index that must sit in the top row so that
// targetIndex lands in the middle visible row.
func CenterIndex(targetIndex, symbolCount, visibleRows int) int {
	if symbolCount <= 0 {
		return 0
	}
	idx := (targetIndex - visibleRows/2) % symbolCount
	if idx < 0 {
		idx += symbolCount
	}
	return idx
}

// SnapOffset returns the smallest offset >= currentOffset at which targetIndex
// is centered. Inputs outside the valid domain (no symbols, non-positive item
// height) leave the offset where it is.
func SnapOffset(currentOffset float64, targetIndex, symbolCount int, itemHeight float64, visibleRows int) float64 {
	if symbolCount <= 0 || !(itemHeight > 0) {
		return currentOffset
	}

	centerIndex := CenterIndex(targetIndex, symbolCount, visibleRows)
	cycle := float64(symbolCount) * itemHeight

	base := math.Floor(currentOffset/cycle) * cycle
	candidate := base + float64(centerIndex)*itemHeight
	for candidate < currentOffset {
		candidate += cycle
	}
	// Floor can round one cycle too far ahead for offsets sitting on a boundary.
	for candidate-cycle >= currentOffset {
		candidate -= cycle
	}
	return candidate
}
