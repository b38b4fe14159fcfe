package playsvc

import (
	crand "crypto/rand"
	"math/big"

	"github.com/shopspring/decimal"
)

// Result is one drawn play before it touches a balance
type Result struct {
	Reels      []string
	Multiplier decimal.Decimal
	Payout     decimal.Decimal
	Trigger    string
}

// Engine draws weighted symbols and prices them against the payout table
type Engine struct {
	rng func(n int) int // returns [0, n); injectable for testing
}

// NewEngine creates an engine. A nil rng uses crypto/rand.
func NewEngine(rng func(n int) int) *Engine {
	if rng == nil {
		rng = secureIntn
	}
	return &Engine{rng: rng}
}

// Spin draws ReelCount symbols and prices them for stake
func (e *Engine) Spin(stake decimal.Decimal) Result {
	reels := make([]string, ReelCount)
	for i := range reels {
		reels[i] = e.selectWeightedSymbol()
	}
	payout, multiplier, trigger := calculatePayout(reels, stake)
	return Result{Reels: reels, Multiplier: multiplier, Payout: payout, Trigger: trigger}
}

// selectWeightedSymbol performs weighted random selection of a symbol
func (e *Engine) selectWeightedSymbol() string {
	roll := e.rng(TotalSymbolWeight)

	cumulative := 0
	for _, symbol := range symbolOrder {
		cumulative += SymbolWeights[symbol]
		if roll < cumulative {
			return symbol
		}
	}
	return SymbolLemon
}

// calculatePayout determines the payout amount, multiplier, and trigger type
func calculatePayout(reels []string, stake decimal.Decimal) (payout, multiplier decimal.Decimal, trigger string) {
	counts := make(map[string]int, len(reels))
	best, bestCount := "", 0
	for _, r := range reels {
		counts[r]++
		if counts[r] > bestCount {
			best, bestCount = r, counts[r]
		}
	}

	switch {
	case bestCount == len(reels):
		multiplier = decimal.RequireFromString(PayoutMultipliers[best])
		trigger = determineWinType(multiplier)
	case bestCount >= 2:
		multiplier = decimal.RequireFromString(TwoMatchMultiplier)
		trigger = TriggerNormal
	default:
		return decimal.Zero, decimal.Zero, TriggerNone
	}

	return stake.Mul(multiplier).Round(2), multiplier, trigger
}

// determineWinType classifies the win based on multiplier
func determineWinType(multiplier decimal.Decimal) string {
	m := multiplier.InexactFloat64()
	switch {
	case m >= MegaJackpotMinimum:
		return TriggerMegaJackpot
	case m >= JackpotThreshold:
		return TriggerJackpot
	case m >= BigWinThreshold:
		return TriggerBigWin
	default:
		return TriggerNormal
	}
}

// secureIntn returns a uniform int in [0, n) from crypto/rand
func secureIntn(n int) int {
	if n <= 1 {
		return 0
	}
	v, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
