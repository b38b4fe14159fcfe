package playsvc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shopspring/decimal"

	"github.com/osse101/ReelSpin_Go/internal/domain"
	"github.com/osse101/ReelSpin_Go/internal/logger"
)

var (
	ErrInvalidStake      = errors.New(ErrMsgInvalidStake)
	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)
)

// Config tunes the development play service
type Config struct {
	StartingBalance decimal.Decimal
	Latency         time.Duration
	FailureRate     float64 // 0..1
	FailureMode     FailureMode
	APIKey          string
	IdempotencySize int
}

// Service holds a single player's balance and settles plays against it.
// Plays are idempotent per request id so a retried request is never charged twice.
type Service struct {
	cfg    Config
	engine *Engine
	rng    func(n int) int

	mu      sync.Mutex
	balance decimal.Decimal
	played  *lru.Cache[string, domain.PlayResponse]
}

// NewService creates the service. A nil engine uses crypto randomness.
func NewService(cfg Config, engine *Engine) (*Service, error) {
	if engine == nil {
		engine = NewEngine(nil)
	}
	if cfg.IdempotencySize <= 0 {
		cfg.IdempotencySize = DefaultIdempotency
	}
	if cfg.FailureMode == "" {
		cfg.FailureMode = DefaultFailureMode
	}
	played, err := lru.New[string, domain.PlayResponse](cfg.IdempotencySize)
	if err != nil {
		return nil, fmt.Errorf("idempotency cache: %w", err)
	}
	return &Service{
		cfg:     cfg,
		engine:  engine,
		rng:     engine.rng,
		balance: cfg.StartingBalance,
		played:  played,
	}, nil
}

// Play settles one wager. A requestID seen before returns the original answer.
func (s *Service) Play(ctx context.Context, requestID string, stake decimal.Decimal) (domain.PlayResponse, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if requestID != "" {
		if prev, ok := s.played.Get(requestID); ok {
			log.Info(LogMsgPlayReplayed, "request_id", requestID)
			return prev, nil
		}
	}

	if !stake.IsPositive() {
		return domain.PlayResponse{}, ErrInvalidStake
	}
	if stake.GreaterThan(s.balance) {
		return domain.PlayResponse{}, fmt.Errorf("%w: balance %s", ErrInsufficientFunds, s.balance.String())
	}

	result := s.engine.Spin(stake)
	s.balance = s.balance.Sub(stake).Add(result.Payout)

	resp := domain.PlayResponse{
		Payout:     result.Payout,
		Balance:    s.balance,
		Multiplier: result.Multiplier,
		Reels:      result.Reels,
		Trigger:    result.Trigger,
	}
	if requestID != "" {
		s.played.Add(requestID, resp)
	}

	log.Info(LogMsgPlayServed,
		"stake", stake.String(),
		"payout", result.Payout.String(),
		"trigger", result.Trigger,
		"balance", s.balance.String())
	return resp, nil
}

// Balance returns the current balance
func (s *Service) Balance() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balance
}

// shouldFail rolls the injected failure rate
func (s *Service) shouldFail() bool {
	if s.cfg.FailureRate <= 0 {
		return false
	}
	const resolution = 1_000_000
	return float64(s.rng(resolution)) < s.cfg.FailureRate*resolution
}

// delay waits the configured latency plus up to half again of jitter
func (s *Service) delay(ctx context.Context) error {
	if s.cfg.Latency <= 0 {
		return nil
	}
	d := s.cfg.Latency
	if jitter := int(s.cfg.Latency / MaxLatencyJitterDiv); jitter > 0 {
		d += time.Duration(s.rng(jitter))
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
