package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MachinePhase is the orchestrator-level phase
type MachinePhase string

const (
	MachineIdle     MachinePhase = "idle"
	MachineSpinning MachinePhase = "spinning"
	MachineAwaiting MachinePhase = "awaiting_outcome"
)

// ReelPhase is the per-reel animation phase
type ReelPhase string

const (
	ReelIdle         ReelPhase = "idle"
	ReelSpinning     ReelPhase = "spinning"
	ReelDecelerating ReelPhase = "decelerating"
	ReelStopped      ReelPhase = "stopped"
)

// ReelSnapshot is the observable state of one reel
type ReelSnapshot struct {
	Index          int       `json:"index"`
	Phase          ReelPhase `json:"phase"`
	Offset         float64   `json:"offset"`
	RenderOffset   float64   `json:"render_offset"`
	TargetIndex    int       `json:"target_index"`
	TargetSymbol   string    `json:"target_symbol"`
	SpinDurationMs int64     `json:"spin_duration_ms"`
}

// SessionSnapshot is the observable state of one spin session
type SessionSnapshot struct {
	SessionID      string          `json:"session_id"`
	Theme          string          `json:"theme"`
	Stake          decimal.Decimal `json:"stake"`
	StartedAt      time.Time       `json:"started_at"`
	RemainingStops int             `json:"remaining_stops"`
	Reels          []ReelSnapshot  `json:"reels"`
}

// MachineSnapshot is everything the UI needs to render a machine
type MachineSnapshot struct {
	Theme            string           `json:"theme"`
	Phase            MachinePhase     `json:"phase"`
	SpinEnabled      bool             `json:"spin_enabled"`
	DisplayedBalance decimal.Decimal  `json:"displayed_balance"`
	Banner           string           `json:"banner,omitempty"`
	Session          *SessionSnapshot `json:"session,omitempty"`
	LastOutcome      *Outcome         `json:"last_outcome,omitempty"`
}
