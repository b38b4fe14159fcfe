package reel

import (
	"errors"
	"math"
)

var (
	ErrTooFewSymbols      = errors.New(ErrMsgTooFewSymbols)
	ErrInvalidItemHeight  = errors.New(ErrMsgInvalidItemHeight)
	ErrInvalidVisibleRows = errors.New(ErrMsgInvalidVisibleRows)
)

// Geometry is the on-screen layout of a reel. It is snapshotted at spin start.
type Geometry struct {
	ItemHeight  float64 `json:"item_height" yaml:"item_height" validate:"gt=0"`
	VisibleRows int     `json:"visible_rows" yaml:"visible_rows" validate:"gte=1"`
}

// Validate checks that the geometry can be rendered
func (g Geometry) Validate() error {
	if !(g.ItemHeight > 0) || math.IsInf(g.ItemHeight, 0) {
		return ErrInvalidItemHeight
	}
	if g.VisibleRows < 1 {
		return ErrInvalidVisibleRows
	}
	return nil
}

// Strip is a cyclic symbol alphabet tiled for continuous forward scrolling
type Strip struct {
	Symbols []string // cyclic order, defines adjacency
	Long    []string // Symbols tiled Repeats times
	Repeats int
}

// BuildStrip tiles symbols enough times to fill visibleRows plus margin
// without wrapping mid-frame.
func BuildStrip(symbols []string, visibleRows, margin int) (Strip, error) {
	if len(symbols) < MinSymbols {
		return Strip{}, ErrTooFewSymbols
	}
	if visibleRows < 1 {
		return Strip{}, ErrInvalidVisibleRows
	}
	if margin < 0 {
		margin = 0
	}

	repeats := visibleRows + margin
	cycle := make([]string, len(symbols))
	copy(cycle, symbols)

	long := make([]string, 0, len(cycle)*repeats)
	for i := 0; i < repeats; i++ {
		long = append(long, cycle...)
	}

	return Strip{Symbols: cycle, Long: long, Repeats: repeats}, nil
}

// Len returns the number of distinct symbols
func (s Strip) Len() int {
	return len(s.Symbols)
}

// CycleLength is the pixel length of one pass over the alphabet
func (s Strip) CycleLength(itemHeight float64) float64 {
	return float64(len(s.Symbols)) * itemHeight
}

// RenderOffset reduces a logical offset into one cycle for drawing.
// The logical offset itself must never be reduced.
func (s Strip) RenderOffset(offset, itemHeight float64) float64 {
	cycle := s.CycleLength(itemHeight)
	if cycle <= 0 {
		return 0
	}
	r := math.Mod(offset, cycle)
	if r < 0 {
		r += cycle
	}
	return r
}

// TopIndex is the symbol index occupying the top row at offset
func (s Strip) TopIndex(offset, itemHeight float64) int {
	n := len(s.Symbols)
	if n == 0 || itemHeight <= 0 {
		return 0
	}
	idx := int(math.Floor(offset/itemHeight+1e-9)) % n
	if idx < 0 {
		idx += n
	}
	return idx
}

// Visible returns the symbols shown top to bottom at offset
func (s Strip) Visible(offset float64, g Geometry) []string {
	n := len(s.Symbols)
	if n == 0 || g.VisibleRows < 1 {
		return nil
	}
	top := s.TopIndex(offset, g.ItemHeight)
	rows := make([]string, g.VisibleRows)
	for i := range rows {
		rows[i] = s.Symbols[(top+i)%n]
	}
	return rows
}

// Centered returns the symbol in the middle visible row at offset
func (s Strip) Centered(offset float64, g Geometry) string {
	rows := s.Visible(offset, g)
	if len(rows) == 0 {
		return ""
	}
	return rows[g.VisibleRows/2]
}
