package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OutcomeSource tells where an outcome came from
type OutcomeSource string

const (
	OutcomeSourceRemote   OutcomeSource = "remote"
	OutcomeSourceFallback OutcomeSource = "fallback"
)

// FallbackReason explains why a fallback outcome was synthesized
type FallbackReason string

const (
	FallbackNone      FallbackReason = ""
	FallbackNetwork   FallbackReason = "network"
	FallbackTimeout   FallbackReason = "timeout"
	FallbackStatus    FallbackReason = "status"
	FallbackMalformed FallbackReason = "malformed"
	FallbackWatchdog  FallbackReason = "watchdog"
	FallbackShutdown  FallbackReason = "shutdown"
)

// Outcome is the authoritative result of one spin session
type Outcome struct {
	SessionID        string          `json:"session_id"`
	Stake            decimal.Decimal `json:"stake"`
	Payout           decimal.Decimal `json:"payout"`
	Multiplier       decimal.Decimal `json:"multiplier"`
	ResultingBalance decimal.Decimal `json:"resulting_balance"`
	Won              bool            `json:"won"`
	Reels            []string        `json:"reels,omitempty"` // Informational, from the play service
	Source           OutcomeSource   `json:"source"`
	FallbackReason   FallbackReason  `json:"fallback_reason,omitempty"`
	SettledAt        time.Time       `json:"settled_at"`
}

// IsFallback reports whether the outcome was synthesized locally
func (o Outcome) IsFallback() bool {
	return o.Source == OutcomeSourceFallback
}

// NewFallbackOutcome builds the zero-payout outcome used when the play service
// cannot produce one. The balance is the optimistic local estimate.
func NewFallbackOutcome(sessionID string, stake, previousBalance decimal.Decimal, reason FallbackReason) Outcome {
	return Outcome{
		SessionID:        sessionID,
		Stake:            stake,
		Payout:           decimal.Zero,
		Multiplier:       decimal.Zero,
		ResultingBalance: previousBalance.Sub(stake),
		Won:              false,
		Source:           OutcomeSourceFallback,
		FallbackReason:   reason,
		SettledAt:        time.Now(),
	}
}
