package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/osse101/ReelSpin_Go/internal/domain"
	"github.com/osse101/ReelSpin_Go/internal/logger"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// DataResponse represents a response with data payload
type DataResponse struct {
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	buf := getBuffer()
	defer putBuffer(buf)

	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		// Headers are already sent
		slog.Error("Failed to encode JSON response", "error", err)
		return
	}

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write response buffer", "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs err and writes the mapped status and message
func respondServiceError(w http.ResponseWriter, r *http.Request, opName string, err error) {
	status, msg := mapServiceErrorToUserMessage(err)
	log := logger.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		log.Error(opName+" failed", "error", err)
	} else {
		log.Info(opName+" rejected", "error", err, "status", status)
	}
	respondError(w, status, msg)
}

// User-facing error messages for service errors
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgUnknownError        = "Unknown error"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."
	ErrMsgUnavailableError    = "Server is temporarily unavailable. Please try again later."

	ErrMsgSpinInProgressError     = "A spin is already in progress"
	ErrMsgMachineClosedError      = "Machine is shutting down"
	ErrMsgThemeNotFoundError      = "Theme not found"
	ErrMsgInvalidStakeError       = "Stake must be a positive amount"
	ErrMsgStakeBelowMinimumError  = "Stake is below the minimum bet"
	ErrMsgStakeAboveMaximumError  = "Stake is above the maximum bet"
	ErrMsgInsufficientFundsError  = "Not enough balance"
	ErrMsgBalanceUnavailableError = "Balance is unavailable. Please try again."
)

// mapServiceErrorToUserMessage converts domain errors into HTTP status codes
// and messages the player can act on.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	switch {
	case errors.Is(err, domain.ErrSpinInProgress):
		return http.StatusConflict, ErrMsgSpinInProgressError
	case errors.Is(err, domain.ErrThemeNotFound):
		return http.StatusNotFound, ErrMsgThemeNotFoundError
	case errors.Is(err, domain.ErrInvalidStake):
		return http.StatusUnprocessableEntity, ErrMsgInvalidStakeError
	case errors.Is(err, domain.ErrStakeBelowMinimum):
		return http.StatusUnprocessableEntity, stakeLimitMessage(err, ErrMsgStakeBelowMinimumError)
	case errors.Is(err, domain.ErrStakeAboveMaximum):
		return http.StatusUnprocessableEntity, stakeLimitMessage(err, ErrMsgStakeAboveMaximumError)
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, ErrMsgInsufficientFundsError
	case errors.Is(err, domain.ErrMachineClosed):
		return http.StatusServiceUnavailable, ErrMsgMachineClosedError
	case errors.Is(err, domain.ErrBalanceUnavailable):
		return http.StatusServiceUnavailable, ErrMsgBalanceUnavailableError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrMsgInvalidRequestError
	}

	return http.StatusInternalServerError, ErrMsgGenericServerError
}

// stakeLimitMessage appends the violated limit when the error carries one
func stakeLimitMessage(err error, base string) string {
	var rejected domain.ErrStakeRejected
	if errors.As(err, &rejected) && !rejected.Limit.IsZero() {
		return base + " (" + rejected.Limit.String() + ")"
	}
	return base
}
