package spin

import "time"

// Timing defaults
const (
	DefaultBaseDuration    = 1200 * time.Millisecond
	DefaultStagger         = 350 * time.Millisecond
	DefaultWatchdogTimeout = 3 * time.Second
	DefaultSpeedJitter     = 0.1
)

// Rejection reasons reported on spin.rejected
const (
	RejectInProgress         = "in_progress"
	RejectClosed             = "closed"
	RejectInvalidStake       = "invalid_stake"
	RejectBelowMinimum       = "below_minimum"
	RejectAboveMaximum       = "above_maximum"
	RejectInsufficientFunds  = "insufficient_funds"
	RejectBalanceUnavailable = "balance_unavailable"
	RejectInternal           = "internal"
)

// Log messages
const (
	LogMsgSpinStarted        = "Spin started"
	LogMsgSpinRejected       = "Spin rejected"
	LogMsgReelStopped        = "Reel stopped"
	LogMsgReelStopHeld       = "Reel stopped ahead of its neighbour, holding"
	LogMsgStaleReelStop      = "Discarding reel stop from superseded session"
	LogMsgStaleFinalize      = "Discarding finalize for superseded session"
	LogMsgAwaitingOutcome    = "All reels stopped, waiting for outcome"
	LogMsgWatchdogFired      = "Outcome watchdog fired"
	LogMsgSpinFinalized      = "Spin finalized"
	LogMsgWalletWriteFailed  = "Failed to credit payout"
	LogMsgWalletDebitFailed  = "Failed to debit stake"
	LogMsgRefundFailed       = "Failed to refund stake"
	LogMsgBalanceDiverged    = "Wallet balance differs from the play service's"
	LogMsgWalletReadFailed   = "Failed to read wallet balance"
	LogMsgPublishFailed      = "Failed to publish spin event"
	LogMsgShutdownFinalizing = "Shutting down mid-spin, finalizing with available outcome"
)

const ErrMsgBuildReel = "failed to build reel"

// WalletTimeout bounds each wallet debit or credit
const WalletTimeout = 5 * time.Second
