package reel

import "time"

// Strip tiling
const (
	// DefaultMargin is the number of extra tiles beyond the visible rows
	DefaultMargin = 2
	// MinSymbols is the smallest usable cyclic alphabet
	MinSymbols = 2
)

// Animation timing
const (
	// MaxFrameDelta caps a single integration step so a stalled loop does not
	// teleport the strip forward by seconds of travel
	MaxFrameDelta = 250 * time.Millisecond
	// DefaultDecelDuration is the ease-out window used when none is configured
	DefaultDecelDuration = 600 * time.Millisecond
	// DefaultSpeed is the base scroll speed in pixels per second
	DefaultSpeed = 2400.0
)

// Error messages
const (
	ErrMsgTooFewSymbols      = "reel needs at least two symbols"
	ErrMsgInvalidItemHeight  = "item height must be positive"
	ErrMsgInvalidVisibleRows = "visible rows must be positive"
	ErrMsgInvalidTarget      = "target index out of range"
	ErrMsgInvalidDuration    = "spin duration must be positive"
	ErrMsgInvalidSpeed       = "speed must be positive"
)
