package event

import (
	"github.com/shopspring/decimal"

	"github.com/osse101/ReelSpin_Go/internal/domain"
)

// Lifecycle event types
const (
	SpinStarted    Type = domain.EventTypeSpinStarted
	SpinRejected   Type = domain.EventTypeSpinRejected
	ReelFrame      Type = domain.EventTypeReelFrame
	ReelStopped    Type = domain.EventTypeReelStopped
	OutcomeSettled Type = domain.EventTypeOutcomeSettled
	SpinFinalized  Type = domain.EventTypeSpinFinalized
	AudioCue       Type = domain.EventTypeAudioCue
	HistoryRefresh Type = domain.EventTypeHistoryRefresh
)

// SpinStartedPayloadV1 is the typed payload for spin.started
type SpinStartedPayloadV1 struct {
	Stake            decimal.Decimal       `json:"stake"`
	DisplayedBalance decimal.Decimal       `json:"displayed_balance"`
	Reels            []domain.ReelSnapshot `json:"reels"`
}

// SpinRejectedPayloadV1 is the typed payload for spin.rejected
type SpinRejectedPayloadV1 struct {
	Stake  decimal.Decimal `json:"stake"`
	Reason string          `json:"reason"`
}

// ReelFramePayloadV1 carries one animation frame for one reel
type ReelFramePayloadV1 struct {
	Reel         int              `json:"reel"`
	Phase        domain.ReelPhase `json:"phase"`
	Offset       float64          `json:"offset"`
	RenderOffset float64          `json:"render_offset"`
}

// ReelStoppedPayloadV1 is the typed payload for reel.stopped
type ReelStoppedPayloadV1 struct {
	Reel           int     `json:"reel"`
	Symbol         string  `json:"symbol"`
	FinalOffset    float64 `json:"final_offset"`
	RemainingStops int     `json:"remaining_stops"`
}

// OutcomeSettledPayloadV1 is the typed payload for outcome.settled
type OutcomeSettledPayloadV1 struct {
	Outcome domain.Outcome `json:"outcome"`
}

// SpinFinalizedPayloadV1 is the typed payload for spin.finalized
type SpinFinalizedPayloadV1 struct {
	Outcome          domain.Outcome  `json:"outcome"`
	DisplayedBalance decimal.Decimal `json:"displayed_balance"`
	Banner           string          `json:"banner"`
	DurationMs       int64           `json:"duration_ms"`
}

// AudioCuePayloadV1 asks the browser to play a sound
type AudioCuePayloadV1 struct {
	Cue   string `json:"cue"`
	Asset string `json:"asset"`
	Reel  *int   `json:"reel,omitempty"`
	Loop  bool   `json:"loop,omitempty"`
}

// HistoryRefreshPayloadV1 tells clients recent plays changed
type HistoryRefreshPayloadV1 struct {
	PlayerID string `json:"player_id"`
}
