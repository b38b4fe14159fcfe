package playsvc

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/osse101/ReelSpin_Go/internal/domain"
	"github.com/osse101/ReelSpin_Go/internal/handler"
	"github.com/osse101/ReelSpin_Go/internal/logger"
	"github.com/osse101/ReelSpin_Go/internal/metrics"
)

type errorResponse struct {
	Error string `json:"error"`
}

// NewRouter wires the play endpoint plus health and version probes
func NewRouter(svc *Service) http.Handler {
	r := chi.NewRouter()
	r.Use(metrics.Middleware)
	r.Use(requestContext)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/version", handler.HandleVersion())
	r.With(apiKeyAuth(svc.cfg.APIKey)).Post(PlayPath, handlePlay(svc))
	return r
}

// requestContext carries the caller's X-Request-ID into the logger
func requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = logger.GenerateRequestID()
		}
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), id)))
	})
}

func apiKeyAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if subtle.ConstantTimeCompare([]byte(r.Header.Get(HeaderAPIKey)), []byte(apiKey)) != 1 {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: ErrMsgUnauthorized})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func handlePlay(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.FromContext(ctx)

		var req domain.PlayRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: ErrMsgInvalidRequestBody})
			return
		}
		stake, err := decimal.NewFromString(req.Stake.String())
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: ErrMsgInvalidStake})
			return
		}

		if err := svc.delay(ctx); err != nil {
			return
		}

		if svc.shouldFail() {
			log.Warn(LogMsgFailureInjected, "mode", svc.cfg.FailureMode)
			switch svc.cfg.FailureMode {
			case FailureMalformed:
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				fmt.Fprint(w, `{"payout":"lots","balance":null}`)
			case FailureHang:
				<-ctx.Done()
			default:
				writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: ErrMsgInjectedFailure})
			}
			return
		}

		resp, err := svc.Play(ctx, r.Header.Get(HeaderRequestID), stake)
		if err != nil {
			log.Info(LogMsgPlayRejected, "error", err)
			status := http.StatusInternalServerError
			if errors.Is(err, ErrInvalidStake) || errors.Is(err, ErrInsufficientFunds) {
				status = http.StatusUnprocessableEntity
			}
			writeJSON(w, status, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
