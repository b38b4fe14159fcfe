package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Play is one finalized spin as stored in history
type Play struct {
	ID               int64           `json:"id"`
	SessionID        string          `json:"session_id"`
	PlayerID         string          `json:"player_id"`
	Theme            string          `json:"theme"`
	Stake            decimal.Decimal `json:"stake"`
	Payout           decimal.Decimal `json:"payout"`
	Multiplier       decimal.Decimal `json:"multiplier"`
	ResultingBalance decimal.Decimal `json:"resulting_balance"`
	Won              bool            `json:"won"`
	Source           OutcomeSource   `json:"source"`
	CreatedAt        time.Time       `json:"created_at"`
}

// NewPlay builds a history record from a finalized outcome
func NewPlay(playerID, theme string, o Outcome) Play {
	return Play{
		SessionID:        o.SessionID,
		PlayerID:         playerID,
		Theme:            theme,
		Stake:            o.Stake,
		Payout:           o.Payout,
		Multiplier:       o.Multiplier,
		ResultingBalance: o.ResultingBalance,
		Won:              o.Won,
		Source:           o.Source,
		CreatedAt:        o.SettledAt,
	}
}

// PlayRequest is the wire body sent to the play service. Stake is a JSON number.
type PlayRequest struct {
	Stake json.Number `json:"stake"`
}

// PlayResponse is what the development play service answers with
type PlayResponse struct {
	Payout     decimal.Decimal `json:"payout"`
	Balance    decimal.Decimal `json:"balance"`
	Multiplier decimal.Decimal `json:"multiplier"`
	Reels      []string        `json:"reels"`
	Trigger    string          `json:"trigger"`
}
