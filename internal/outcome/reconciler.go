package outcome

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/shopspring/decimal"

	"github.com/osse101/ReelSpin_Go/internal/domain"
	"github.com/osse101/ReelSpin_Go/internal/event"
	"github.com/osse101/ReelSpin_Go/internal/logger"
	"github.com/osse101/ReelSpin_Go/internal/metrics"
)

// PlayClient places one wager with the remote play service
type PlayClient interface {
	Play(ctx context.Context, sessionID string, stake decimal.Decimal) (domain.Outcome, error)
}

// Config tunes the reconciler
type Config struct {
	RequestTimeout time.Duration
	CacheSize      int
	CacheTTL       time.Duration
}

// pending tracks a session whose outcome has been requested but not settled
type pending struct {
	done            chan struct{}
	stake           decimal.Decimal
	previousBalance decimal.Decimal
}

// Reconciler issues one play request per session and buffers the result until
// the animation asks for it. The first settle for a session wins.
type Reconciler struct {
	client  PlayClient
	bus     event.Bus
	timeout time.Duration

	mu      sync.Mutex
	pending map[string]*pending
	settled *expirable.LRU[string, domain.Outcome]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed bool
}

// NewReconciler creates a reconciler. bus may be nil.
func NewReconciler(client PlayClient, bus event.Bus, cfg Config) *Reconciler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Reconciler{
		client:  client,
		bus:     bus,
		timeout: cfg.RequestTimeout,
		pending: make(map[string]*pending),
		settled: expirable.NewLRU[string, domain.Outcome](cfg.CacheSize, nil, cfg.CacheTTL),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// RequestOutcome fires the play request in the background. A second request
// for the same session is ignored.
func (r *Reconciler) RequestOutcome(sessionID string, stake, previousBalance decimal.Decimal) {
	ctx := logger.WithSessionID(r.ctx, sessionID)
	log := logger.FromContext(ctx)

	r.mu.Lock()
	if _, ok := r.pending[sessionID]; ok {
		r.mu.Unlock()
		log.Debug(LogMsgDuplicateRequest)
		return
	}
	if _, ok := r.settled.Peek(sessionID); ok {
		r.mu.Unlock()
		log.Debug(LogMsgDuplicateRequest)
		return
	}
	r.pending[sessionID] = &pending{
		done:            make(chan struct{}),
		stake:           stake,
		previousBalance: previousBalance,
	}
	if r.closed {
		r.mu.Unlock()
		r.settle(ctx, domain.NewFallbackOutcome(sessionID, stake, previousBalance, domain.FallbackNetwork))
		return
	}
	r.wg.Add(1)
	r.mu.Unlock()

	log.Debug(LogMsgRequestStarted, "stake", stake.String())

	go func() {
		defer r.wg.Done()
		r.fetch(ctx, sessionID, stake, previousBalance)
	}()
}

func (r *Reconciler) fetch(ctx context.Context, sessionID string, stake, previousBalance decimal.Decimal) {
	log := logger.FromContext(ctx)

	reqCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	out, err := r.client.Play(reqCtx, sessionID, stake)
	elapsed := time.Since(start)

	if err != nil {
		metrics.PlayRequestDuration.WithLabelValues(metrics.ResultFailure).Observe(elapsed.Seconds())
		reason := ReasonFor(err)
		log.Warn(LogMsgFallbackSettled, "fallback_reason", reason, "error", err)
		r.settle(ctx, domain.NewFallbackOutcome(sessionID, stake, previousBalance, reason))
		return
	}

	metrics.PlayRequestDuration.WithLabelValues(metrics.ResultSuccess).Observe(elapsed.Seconds())
	out.SessionID = sessionID
	out.Source = domain.OutcomeSourceRemote
	if out.SettledAt.IsZero() {
		out.SettledAt = time.Now()
	}
	if r.settle(ctx, out) {
		log.Info(LogMsgRemoteSettled, "payout", out.Payout.String(), "won", out.Won)
	}
}

// settle stores the outcome if the session is still pending and reports
// whether it won.
func (r *Reconciler) settle(ctx context.Context, out domain.Outcome) bool {
	r.mu.Lock()
	p, ok := r.pending[out.SessionID]
	if !ok {
		r.mu.Unlock()
		logger.FromContext(ctx).Debug(LogMsgLateArrival, "source", out.Source)
		return false
	}
	delete(r.pending, out.SessionID)
	r.settled.Add(out.SessionID, out)
	close(p.done)
	r.mu.Unlock()

	if r.bus != nil {
		evt := event.New(event.OutcomeSettled, "", out.SessionID, event.OutcomeSettledPayloadV1{Outcome: out})
		if err := r.bus.Publish(ctx, evt); err != nil {
			logger.FromContext(ctx).Warn(LogMsgPublishFailed, "error", err)
		}
	}
	return true
}

// GetOutcome returns the settled outcome without blocking
func (r *Reconciler) GetOutcome(sessionID string) (domain.Outcome, bool) {
	return r.settled.Get(sessionID)
}

// Settled returns a channel closed once the session has an outcome. Sessions
// that were never requested have nothing to wait for and get a closed channel.
func (r *Reconciler) Settled(sessionID string) <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.pending[sessionID]; ok {
		return p.done
	}
	done := make(chan struct{})
	close(done)
	return done
}

// ForceFallback settles a pending session with a fallback outcome and returns
// whichever outcome won. The boolean is false for unknown sessions.
func (r *Reconciler) ForceFallback(sessionID string, reason domain.FallbackReason) (domain.Outcome, bool) {
	r.mu.Lock()
	p, ok := r.pending[sessionID]
	r.mu.Unlock()

	if ok {
		ctx := logger.WithSessionID(r.ctx, sessionID)
		if r.settle(ctx, domain.NewFallbackOutcome(sessionID, p.stake, p.previousBalance, reason)) {
			logger.FromContext(ctx).Warn(LogMsgForcedFallback, "fallback_reason", reason)
		}
	}
	return r.settled.Get(sessionID)
}

// Shutdown cancels in-flight requests and waits for their goroutines
func (r *Reconciler) Shutdown(ctx context.Context) error {
	logger.FromContext(ctx).Info(LogMsgShutdown)
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReasonFor maps a play client error onto a fallback reason
func ReasonFor(err error) domain.FallbackReason {
	var netErr net.Error
	switch {
	case err == nil:
		return domain.FallbackNone
	case errors.Is(err, context.DeadlineExceeded):
		return domain.FallbackTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return domain.FallbackTimeout
	case errors.Is(err, domain.ErrPlayServiceStatus):
		return domain.FallbackStatus
	case errors.Is(err, domain.ErrMalformedPlayPayload):
		return domain.FallbackMalformed
	default:
		return domain.FallbackNetwork
	}
}
