package spin

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/osse101/ReelSpin_Go/internal/domain"
)

// ValidateStake enforces the spin preconditions: a positive stake within the
// skin's bet limits that the wallet can cover.
func ValidateStake(stake, minBet, maxBet, available decimal.Decimal) error {
	if err := ValidateStakeLimits(stake, minBet, maxBet); err != nil {
		return err
	}
	if stake.GreaterThan(available) {
		return domain.ErrStakeRejected{Reason: domain.ErrInsufficientFunds, Stake: stake, Limit: available}
	}
	return nil
}

// ValidateStakeLimits checks the stake against the bet limits only. Funds are
// checked by the wallet debit itself.
func ValidateStakeLimits(stake, minBet, maxBet decimal.Decimal) error {
	switch {
	case !stake.IsPositive():
		return domain.ErrStakeRejected{Reason: domain.ErrInvalidStake, Stake: stake}
	case stake.LessThan(minBet):
		return domain.ErrStakeRejected{Reason: domain.ErrStakeBelowMinimum, Stake: stake, Limit: minBet}
	case stake.GreaterThan(maxBet):
		return domain.ErrStakeRejected{Reason: domain.ErrStakeAboveMaximum, Stake: stake, Limit: maxBet}
	}
	return nil
}

// rejectReason maps a StartSpin error onto a metrics-friendly label
func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrSpinInProgress):
		return RejectInProgress
	case errors.Is(err, domain.ErrMachineClosed):
		return RejectClosed
	case errors.Is(err, domain.ErrInvalidStake):
		return RejectInvalidStake
	case errors.Is(err, domain.ErrStakeBelowMinimum):
		return RejectBelowMinimum
	case errors.Is(err, domain.ErrStakeAboveMaximum):
		return RejectAboveMaximum
	case errors.Is(err, domain.ErrInsufficientFunds):
		return RejectInsufficientFunds
	case errors.Is(err, domain.ErrBalanceUnavailable):
		return RejectBalanceUnavailable
	default:
		return RejectInternal
	}
}
