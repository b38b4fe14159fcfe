package playsvc

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// sequence returns a rng that replays rolls in order, then repeats the last
func sequence(rolls ...int) func(int) int {
	i := 0
	return func(n int) int {
		r := rolls[min(i, len(rolls)-1)]
		i++
		return r % n
	}
}

func TestEngine_SelectWeightedSymbol(t *testing.T) {
	tests := []struct {
		roll int
		want string
	}{
		{0, SymbolLemon},
		{399, SymbolLemon},
		{400, SymbolCherry},
		{649, SymbolCherry},
		{650, SymbolBell},
		{800, SymbolBar},
		{895, SymbolSeven},
		{965, SymbolDiamond},
		{990, SymbolStar},
		{999, SymbolStar},
	}
	for _, tt := range tests {
		e := NewEngine(sequence(tt.roll))
		assert.Equal(t, tt.want, e.selectWeightedSymbol(), "roll %d", tt.roll)
	}
}

func TestSymbolWeights_SumToTotal(t *testing.T) {
	sum := 0
	for _, s := range symbolOrder {
		sum += SymbolWeights[s]
		_, ok := PayoutMultipliers[s]
		assert.True(t, ok, "symbol %s has no payout", s)
	}
	assert.Equal(t, TotalSymbolWeight, sum)
}

func TestEngine_Spin(t *testing.T) {
	stake := decimal.NewFromInt(10)

	tests := []struct {
		name       string
		rolls      []int
		reels      []string
		payout     string
		multiplier string
		trigger    string
	}{
		{"three cherries", []int{400, 401, 402}, []string{SymbolCherry, SymbolCherry, SymbolCherry}, "20", "2", TriggerNormal},
		{"three bars is a big win", []int{800, 800, 800}, []string{SymbolBar, SymbolBar, SymbolBar}, "100", "10", TriggerBigWin},
		{"three diamonds is a mega jackpot", []int{970, 970, 970}, []string{SymbolDiamond, SymbolDiamond, SymbolDiamond}, "1000", "100", TriggerMegaJackpot},
		{"pair pays consolation", []int{0, 700, 10}, []string{SymbolLemon, SymbolBell, SymbolLemon}, "1", "0.1", TriggerNormal},
		{"no match", []int{0, 400, 700}, []string{SymbolLemon, SymbolCherry, SymbolBell}, "0", "0", TriggerNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewEngine(sequence(tt.rolls...)).Spin(stake)
			assert.Equal(t, tt.reels, res.Reels)
			assert.True(t, decimal.RequireFromString(tt.payout).Equal(res.Payout), "payout %s", res.Payout)
			assert.True(t, decimal.RequireFromString(tt.multiplier).Equal(res.Multiplier), "multiplier %s", res.Multiplier)
			assert.Equal(t, tt.trigger, res.Trigger)
		})
	}
}

func TestDetermineWinType(t *testing.T) {
	assert.Equal(t, TriggerNormal, determineWinType(decimal.NewFromInt(5)))
	assert.Equal(t, TriggerBigWin, determineWinType(decimal.NewFromInt(25)))
	assert.Equal(t, TriggerJackpot, determineWinType(decimal.NewFromInt(50)))
	assert.Equal(t, TriggerMegaJackpot, determineWinType(decimal.NewFromInt(500)))
}

func TestSecureIntn_InRange(t *testing.T) {
	for i := 0; i < 200; i++ {
		v := secureIntn(7)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 7)
	}
	assert.Equal(t, 0, secureIntn(1))
}
