package theme

import (
	"github.com/shopspring/decimal"

	"github.com/osse101/ReelSpin_Go/internal/reel"
)

// Symbol is one face on a reel strip
type Symbol struct {
	ID     string `yaml:"id" json:"id" validate:"required"`
	Glyph  string `yaml:"glyph" json:"glyph" validate:"required"`
	Weight int    `yaml:"weight" json:"weight" validate:"gte=1"`
}

// AudioAssets names the sound files for each cue
type AudioAssets struct {
	SpinLoop string `yaml:"spin_loop" json:"spin_loop" validate:"required"`
	ReelStop string `yaml:"reel_stop" json:"reel_stop" validate:"required"`
	Win      string `yaml:"win" json:"win" validate:"required"`
	Lose     string `yaml:"lose" json:"lose" validate:"required"`
}

// Copy holds the banner strings. Win takes the payout as its only argument.
type Copy struct {
	Win  string `yaml:"win" json:"win" validate:"required"`
	Lose string `yaml:"lose" json:"lose" validate:"required"`
}

// Skin is everything that varies between the five game screens
type Skin struct {
	ID       string            `yaml:"id" json:"id" validate:"required,alphanum,lowercase"`
	Name     string            `yaml:"name" json:"name" validate:"required"`
	Locale   string            `yaml:"locale" json:"locale" validate:"required,bcp47_language_tag"`
	Reels    int               `yaml:"reels" json:"reels" validate:"gte=1,lte=8"`
	Geometry reel.Geometry     `yaml:"geometry" json:"geometry"`
	MinBet   string            `yaml:"min_bet" json:"min_bet" validate:"required,number"`
	MaxBet   string            `yaml:"max_bet" json:"max_bet" validate:"required,number"`
	Symbols  []Symbol          `yaml:"symbols" json:"symbols" validate:"min=2,unique=ID,dive"`
	Colors   map[string]string `yaml:"colors" json:"colors" validate:"dive,keys,required,endkeys,hexcolor"`
	Audio    AudioAssets       `yaml:"audio" json:"audio"`
	Copy     Copy              `yaml:"copy" json:"copy"`
}

// SymbolIDs returns the strip order
func (s Skin) SymbolIDs() []string {
	ids := make([]string, len(s.Symbols))
	for i, sym := range s.Symbols {
		ids[i] = sym.ID
	}
	return ids
}

// Weights returns symbol weights in strip order
func (s Skin) Weights() []int {
	w := make([]int, len(s.Symbols))
	for i, sym := range s.Symbols {
		w[i] = sym.Weight
	}
	return w
}

// MinBetAmount is MinBet as a decimal. Validation guarantees it parses.
func (s Skin) MinBetAmount() decimal.Decimal {
	return decimal.RequireFromString(s.MinBet)
}

// MaxBetAmount is MaxBet as a decimal
func (s Skin) MaxBetAmount() decimal.Decimal {
	return decimal.RequireFromString(s.MaxBet)
}
