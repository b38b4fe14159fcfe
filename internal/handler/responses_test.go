package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/osse101/ReelSpin_Go/internal/domain"
)

func TestMapServiceErrorToUserMessage(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"nil", nil, http.StatusInternalServerError, ErrMsgUnknownError},
		{"busy", domain.ErrSpinInProgress, http.StatusConflict, ErrMsgSpinInProgressError},
		{"wrapped theme", fmt.Errorf("%w: neon", domain.ErrThemeNotFound), http.StatusNotFound, ErrMsgThemeNotFoundError},
		{"invalid stake", domain.ErrStakeRejected{Reason: domain.ErrInvalidStake}, http.StatusUnprocessableEntity, ErrMsgInvalidStakeError},
		{
			"below minimum carries limit",
			domain.ErrStakeRejected{Reason: domain.ErrStakeBelowMinimum, Stake: decimal.NewFromFloat(0.5), Limit: decimal.NewFromInt(1)},
			http.StatusUnprocessableEntity, ErrMsgStakeBelowMinimumError + " (1)",
		},
		{"insufficient funds", domain.ErrStakeRejected{Reason: domain.ErrInsufficientFunds}, http.StatusUnprocessableEntity, ErrMsgInsufficientFundsError},
		{"closed", domain.ErrMachineClosed, http.StatusServiceUnavailable, ErrMsgMachineClosedError},
		{"balance unavailable", fmt.Errorf("read: %w", domain.ErrBalanceUnavailable), http.StatusServiceUnavailable, ErrMsgBalanceUnavailableError},
		{"invalid input", domain.ErrInvalidInput, http.StatusBadRequest, ErrMsgInvalidRequestError},
		{"unknown stays generic", errors.New("pq: relation does not exist"), http.StatusInternalServerError, ErrMsgGenericServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg := mapServiceErrorToUserMessage(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}
