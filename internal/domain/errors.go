package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Spin errors
	ErrMsgSpinInProgress = "a spin is already in progress"
	ErrMsgMachineClosed  = "machine is shut down"

	// Stake errors
	ErrMsgInvalidStake       = "stake must be a positive, finite amount"
	ErrMsgStakeBelowMinimum  = "stake is below the minimum bet"
	ErrMsgStakeAboveMaximum  = "stake is above the maximum bet"
	ErrMsgInsufficientFunds  = "insufficient funds"
	ErrMsgBalanceUnavailable = "balance unavailable"

	// Theme errors
	ErrMsgThemeNotFound = "theme not found"

	// Play service errors
	ErrMsgPlayServiceStatus      = "play service returned unexpected status"
	ErrMsgPlayServiceUnreachable = "play service unreachable"
	ErrMsgMalformedPlayPayload   = "malformed play service response"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrSpinInProgress = errors.New(ErrMsgSpinInProgress)
	ErrMachineClosed  = errors.New(ErrMsgMachineClosed)

	ErrInvalidStake       = errors.New(ErrMsgInvalidStake)
	ErrStakeBelowMinimum  = errors.New(ErrMsgStakeBelowMinimum)
	ErrStakeAboveMaximum  = errors.New(ErrMsgStakeAboveMaximum)
	ErrInsufficientFunds  = errors.New(ErrMsgInsufficientFunds)
	ErrBalanceUnavailable = errors.New(ErrMsgBalanceUnavailable)

	ErrThemeNotFound = errors.New(ErrMsgThemeNotFound)

	ErrPlayServiceStatus      = errors.New(ErrMsgPlayServiceStatus)
	ErrPlayServiceUnreachable = errors.New(ErrMsgPlayServiceUnreachable)
	ErrMalformedPlayPayload   = errors.New(ErrMsgMalformedPlayPayload)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)

// ErrStakeRejected carries the stake and the limit it violated
type ErrStakeRejected struct {
	Reason error
	Stake  decimal.Decimal
	Limit  decimal.Decimal
}

func (e ErrStakeRejected) Error() string {
	if e.Limit.IsZero() {
		return fmt.Sprintf("%s (stake %s)", e.Reason, e.Stake.String())
	}
	return fmt.Sprintf("%s (stake %s, limit %s)", e.Reason, e.Stake.String(), e.Limit.String())
}

// Unwrap allows errors.Is() to match the underlying reason
func (e ErrStakeRejected) Unwrap() error {
	return e.Reason
}

// IsValidationError reports whether err is a stake validation failure that
// should be shown to the player.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidStake) ||
		errors.Is(err, ErrStakeBelowMinimum) ||
		errors.Is(err, ErrStakeAboveMaximum) ||
		errors.Is(err, ErrInsufficientFunds)
}
