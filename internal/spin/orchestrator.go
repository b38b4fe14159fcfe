package spin

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/osse101/ReelSpin_Go/internal/domain"
	"github.com/osse101/ReelSpin_Go/internal/event"
	"github.com/osse101/ReelSpin_Go/internal/frameloop"
	"github.com/osse101/ReelSpin_Go/internal/logger"
	"github.com/osse101/ReelSpin_Go/internal/metrics"
	"github.com/osse101/ReelSpin_Go/internal/reel"
	"github.com/osse101/ReelSpin_Go/internal/theme"
	"github.com/osse101/ReelSpin_Go/internal/wallet"
)

// Reconciler joins a session with its authoritative outcome
type Reconciler interface {
	RequestOutcome(sessionID string, stake, previousBalance decimal.Decimal)
	GetOutcome(sessionID string) (domain.Outcome, bool)
	Settled(sessionID string) <-chan struct{}
	ForceFallback(sessionID string, reason domain.FallbackReason) (domain.Outcome, bool)
}

// AudioCues plays sounds at the session's key moments
type AudioCues interface {
	PlaySpinLoop(ctx context.Context, sessionID string)
	PlayReelStop(ctx context.Context, sessionID string, reel int)
	PlayWin(ctx context.Context, sessionID string)
	PlayLose(ctx context.Context, sessionID string)
}

// HistoryRefresher records a finalized play without blocking
type HistoryRefresher interface {
	Refresh(play domain.Play)
}

// Config tunes session timing
type Config struct {
	BaseDuration    time.Duration
	Stagger         time.Duration
	DecelDuration   time.Duration
	FrameInterval   time.Duration
	WatchdogTimeout time.Duration
	Speed           float64
	SpeedJitter     float64
	StreamFrames    bool
	PlayerID        string
}

// Deps are the orchestrator's collaborators. Audio, History, Bus and Picker are optional.
type Deps struct {
	Wallet     wallet.Wallet
	Reconciler Reconciler
	Audio      AudioCues
	History    HistoryRefresher
	Bus        event.Bus
	Picker     TargetPicker
}

// Orchestrator runs one machine: single-flight sessions, staggered reel stops
// and exactly one finalize per session.
type Orchestrator struct {
	skin theme.Skin
	cfg  Config
	deps Deps

	// stopMu serializes reel stop delivery and is taken before mu
	stopMu sync.Mutex

	mu        sync.Mutex
	geometry  reel.Geometry
	phase     domain.MachinePhase
	active    *session
	displayed decimal.Decimal
	banner    string
	last      *domain.Outcome
	closed    bool
	starting  bool // a StartSpin is reserving the stake

	wg   sync.WaitGroup
	quit chan struct{}
}

// New creates an idle orchestrator for skin
func New(skin theme.Skin, cfg Config, deps Deps) (*Orchestrator, error) {
	if deps.Wallet == nil || deps.Reconciler == nil {
		return nil, fmt.Errorf("%w: wallet and reconciler are required", domain.ErrInvalidInput)
	}
	if _, err := reel.BuildStrip(skin.SymbolIDs(), skin.Geometry.VisibleRows, reel.DefaultMargin); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBuildReel, err)
	}
	if err := skin.Geometry.Validate(); err != nil {
		return nil, err
	}
	if skin.Reels < 1 {
		return nil, fmt.Errorf("%w: skin %s has no reels", domain.ErrInvalidInput, skin.ID)
	}

	if cfg.BaseDuration <= 0 {
		cfg.BaseDuration = DefaultBaseDuration
	}
	if cfg.Stagger <= 0 {
		cfg.Stagger = DefaultStagger
	}
	if cfg.DecelDuration <= 0 {
		cfg.DecelDuration = reel.DefaultDecelDuration
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = frameloop.DefaultInterval
	}
	// A stagger shorter than one frame lets neighbouring reels land on the
	// same tick, so stops are spaced at least a frame apart
	if cfg.Stagger < cfg.FrameInterval {
		cfg.Stagger = cfg.FrameInterval
	}
	if cfg.WatchdogTimeout <= 0 {
		cfg.WatchdogTimeout = DefaultWatchdogTimeout
	}
	if cfg.Speed <= 0 {
		cfg.Speed = reel.DefaultSpeed
	}
	if cfg.SpeedJitter < 0 || cfg.SpeedJitter >= 1 {
		cfg.SpeedJitter = DefaultSpeedJitter
	}

	if deps.Audio == nil {
		deps.Audio = noAudio{}
	}
	if deps.History == nil {
		deps.History = noHistory{}
	}
	if deps.Picker == nil {
		deps.Picker = WeightedPicker
	}

	return &Orchestrator{
		skin:     skin,
		cfg:      cfg,
		deps:     deps,
		geometry: skin.Geometry,
		phase:    domain.MachineIdle,
		quit:     make(chan struct{}),
	}, nil
}

// Skin returns the machine's skin
func (o *Orchestrator) Skin() theme.Skin {
	return o.skin
}

// StartSpin validates the stake, debits it from the shared wallet and starts
// a session. It never blocks on the play service, and the wallet is called
// without holding the machine lock.
func (o *Orchestrator) StartSpin(ctx context.Context, stake decimal.Decimal) (domain.SessionSnapshot, error) {
	o.mu.Lock()
	switch {
	case o.closed:
		o.mu.Unlock()
		return o.reject(ctx, stake, domain.ErrMachineClosed)
	case o.active != nil || o.starting:
		o.mu.Unlock()
		return o.reject(ctx, stake, domain.ErrSpinInProgress)
	}
	o.starting = true
	o.wg.Add(1)
	o.mu.Unlock()
	defer o.wg.Done()

	after, err := o.reserve(ctx, stake)
	if err != nil {
		o.mu.Lock()
		o.starting = false
		o.mu.Unlock()
		return o.reject(ctx, stake, err)
	}
	previous := after.Add(stake)

	o.mu.Lock()
	o.starting = false
	if o.closed {
		o.mu.Unlock()
		o.refund(ctx, stake)
		return o.reject(ctx, stake, domain.ErrMachineClosed)
	}
	s, err := o.newSessionLocked(stake, previous)
	if err != nil {
		o.mu.Unlock()
		o.refund(ctx, stake)
		return o.reject(ctx, stake, err)
	}
	o.active = s
	o.phase = domain.MachineSpinning
	o.displayed = after
	o.banner = ""
	o.deps.Reconciler.RequestOutcome(s.id, stake, previous)
	snap := s.snapshot(o.skin.ID)
	o.mu.Unlock()

	logger.FromContext(s.ctx).Info(LogMsgSpinStarted, "theme", o.skin.ID, "stake", stake.String(), "balance", after.String(), "reels", len(s.reels))
	o.publish(s.ctx, event.New(event.SpinStarted, o.skin.ID, s.id, event.SpinStartedPayloadV1{
		Stake:            stake,
		DisplayedBalance: after,
		Reels:            snap.Reels,
	}))
	o.deps.Audio.PlaySpinLoop(s.ctx, s.id)

	s.start(time.Now())
	return snap, nil
}

// reserve checks the bet limits and debits the stake, returning the balance
// left afterwards. The debit is atomic across every machine on the wallet.
func (o *Orchestrator) reserve(ctx context.Context, stake decimal.Decimal) (decimal.Decimal, error) {
	minBet, maxBet := o.skin.MinBetAmount(), o.skin.MaxBetAmount()
	if err := ValidateStakeLimits(stake, minBet, maxBet); err != nil {
		return decimal.Zero, err
	}

	wctx, cancel := context.WithTimeout(ctx, WalletTimeout)
	defer cancel()
	after, err := o.deps.Wallet.Debit(wctx, stake)
	switch {
	case errors.Is(err, wallet.ErrInsufficientBalance):
		if verr := ValidateStake(stake, minBet, maxBet, after); verr != nil {
			return decimal.Zero, verr
		}
		return decimal.Zero, domain.ErrStakeRejected{Reason: domain.ErrInsufficientFunds, Stake: stake, Limit: after}
	case err != nil:
		logger.FromContext(ctx).Error(LogMsgWalletDebitFailed, "stake", stake.String(), "error", err)
		return decimal.Zero, fmt.Errorf("%w: %w", domain.ErrBalanceUnavailable, err)
	}
	return after, nil
}

// refund returns a debited stake whose session never started
func (o *Orchestrator) refund(ctx context.Context, stake decimal.Decimal) {
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), WalletTimeout)
	defer cancel()
	if _, err := o.deps.Wallet.Credit(wctx, stake); err != nil {
		logger.FromContext(ctx).Error(LogMsgRefundFailed, "stake", stake.String(), "error", err)
	}
}

func (o *Orchestrator) reject(ctx context.Context, stake decimal.Decimal, err error) (domain.SessionSnapshot, error) {
	reason := rejectReason(err)
	logger.FromContext(ctx).Info(LogMsgSpinRejected, "theme", o.skin.ID, "reason", reason, "error", err)
	o.publish(ctx, event.New(event.SpinRejected, o.skin.ID, "", event.SpinRejectedPayloadV1{
		Stake:  stake,
		Reason: reason,
	}))
	return domain.SessionSnapshot{}, err
}

func (o *Orchestrator) newSessionLocked(stake, balance decimal.Decimal) (*session, error) {
	g := o.geometry
	strip, err := reel.BuildStrip(o.skin.SymbolIDs(), g.VisibleRows, reel.DefaultMargin)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgBuildReel, err)
	}

	id := uuid.NewString()
	s := &session{
		id:              id,
		ctx:             logger.WithSessionID(context.Background(), id),
		stake:           stake,
		previousBalance: balance,
		startedAt:       time.Now(),
		geometry:        g,
		strip:           strip,
		remaining:       o.skin.Reels,
		stopped:         make([]bool, o.skin.Reels),
		offsets:         make([]float64, o.skin.Reels),
	}

	targets := o.deps.Picker(o.skin.Reels, o.skin.Weights())
	for i := 0; i < o.skin.Reels; i++ {
		a, err := reel.NewAnimator(reel.Params{
			Index:         i,
			Strip:         strip,
			Geometry:      g,
			TargetIndex:   targets[i],
			SpinDuration:  o.cfg.BaseDuration + time.Duration(i)*o.cfg.Stagger,
			DecelDuration: o.cfg.DecelDuration,
			Speed:         o.speed(),
		}, func(index int, finalOffset float64) {
			o.reelStopped(id, index, finalOffset)
		})
		if err != nil {
			return nil, fmt.Errorf("%s %d: %w", ErrMsgBuildReel, i, err)
		}
		s.reels = append(s.reels, a)
		s.loops = append(s.loops, frameloop.New(o.cfg.FrameInterval, o.tickFunc(s, a)))
	}
	return s, nil
}

// speed varies the base speed per reel. The landing symbol does not depend on it.
func (o *Orchestrator) speed() float64 {
	jitter := o.cfg.SpeedJitter * (2*rand.Float64() - 1) //nolint:gosec // cosmetic
	return o.cfg.Speed * (1 + jitter)
}

func (o *Orchestrator) tickFunc(s *session, a *reel.Animator) frameloop.TickFunc {
	return func(now time.Time, dt time.Duration) bool {
		f := a.Tick(now)
		if o.cfg.StreamFrames {
			o.publish(s.ctx, event.New(event.ReelFrame, o.skin.ID, s.id, event.ReelFramePayloadV1{
				Reel:         f.Index,
				Phase:        f.Phase,
				Offset:       f.Offset,
				RenderOffset: f.RenderOffset,
			}))
		}
		return f.Phase != domain.ReelStopped
	}
}

type reelStop struct {
	index     int
	offset    float64
	remaining int
}

// reelStopped is the per-reel stop callback. Stops are delivered in reel
// index order: a reel that lands before its left neighbour is held until the
// neighbour stops. The last stop of the active session hands off to
// awaitOutcome.
func (o *Orchestrator) reelStopped(sessionID string, index int, finalOffset float64) {
	o.stopMu.Lock()
	defer o.stopMu.Unlock()

	o.mu.Lock()
	s := o.active
	if s == nil || s.id != sessionID || s.remaining == 0 || index < 0 || index >= len(s.stopped) || s.stopped[index] {
		o.mu.Unlock()
		metrics.StaleCallbacks.WithLabelValues(metrics.KindReelStop).Inc()
		logger.Debug(LogMsgStaleReelStop, logger.AttrKeySessionID, sessionID, "reel", index)
		return
	}
	s.stopped[index] = true
	s.offsets[index] = finalOffset

	var ready []reelStop
	for s.nextStop < len(s.stopped) && s.stopped[s.nextStop] {
		s.remaining--
		ready = append(ready, reelStop{index: s.nextStop, offset: s.offsets[s.nextStop], remaining: s.remaining})
		s.nextStop++
	}
	launch := false
	if s.remaining == 0 && !s.awaiting {
		s.awaiting = true
		o.phase = domain.MachineAwaiting
		o.wg.Add(1)
		launch = true
	}
	next := s.nextStop
	o.mu.Unlock()

	if len(ready) == 0 {
		logger.FromContext(s.ctx).Debug(LogMsgReelStopHeld, "reel", index, "waiting_for", next)
		return
	}

	for _, r := range ready {
		symbol := s.strip.Centered(r.offset, s.geometry)
		logger.FromContext(s.ctx).Debug(LogMsgReelStopped, "reel", r.index, "symbol", symbol, "remaining", r.remaining)
		o.deps.Audio.PlayReelStop(s.ctx, s.id, r.index)
		o.publish(s.ctx, event.New(event.ReelStopped, o.skin.ID, s.id, event.ReelStoppedPayloadV1{
			Reel:           r.index,
			Symbol:         symbol,
			FinalOffset:    r.offset,
			RemainingStops: r.remaining,
		}))
	}

	if launch {
		go o.awaitOutcome(s, domain.FallbackWatchdog)
	}
}

// awaitOutcome waits for the reconciler, bounded by the watchdog, then finalizes
func (o *Orchestrator) awaitOutcome(s *session, reason domain.FallbackReason) {
	defer o.wg.Done()
	log := logger.FromContext(s.ctx)

	out, ok := o.deps.Reconciler.GetOutcome(s.id)
	if !ok {
		log.Debug(LogMsgAwaitingOutcome)
		timer := time.NewTimer(o.cfg.WatchdogTimeout)
		defer timer.Stop()

		select {
		case <-o.deps.Reconciler.Settled(s.id):
		case <-timer.C:
			log.Warn(LogMsgWatchdogFired, "timeout", o.cfg.WatchdogTimeout)
		case <-o.quit:
			reason = domain.FallbackShutdown
		}

		if out, ok = o.deps.Reconciler.GetOutcome(s.id); !ok {
			out, ok = o.deps.Reconciler.ForceFallback(s.id, reason)
		}
		if !ok {
			out = domain.NewFallbackOutcome(s.id, s.stake, s.previousBalance, reason)
		}
	}

	o.finalize(s, out)
}

// finalize applies the outcome exactly once, then returns the machine to idle.
// The payout is credited before the machine accepts another spin.
func (o *Orchestrator) finalize(s *session, out domain.Outcome) {
	log := logger.FromContext(s.ctx)

	o.mu.Lock()
	if o.active != s || s.finalized {
		o.mu.Unlock()
		metrics.StaleCallbacks.WithLabelValues(metrics.KindOutcome).Inc()
		log.Debug(LogMsgStaleFinalize)
		return
	}
	s.finalized = true
	o.mu.Unlock()

	s.stopLoops()

	// The stake left the wallet on accept, so only the payout is applied here
	balance := s.previousBalance.Sub(s.stake).Add(out.Payout)
	wctx, cancel := context.WithTimeout(s.ctx, WalletTimeout)
	credited, err := o.deps.Wallet.Credit(wctx, out.Payout)
	cancel()
	if err != nil {
		log.Error(LogMsgWalletWriteFailed, "payout", out.Payout.String(), "error", err)
	} else {
		balance = credited
	}
	if !balance.Equal(out.ResultingBalance) {
		log.Debug(LogMsgBalanceDiverged, "wallet", balance.String(), "reported", out.ResultingBalance.String())
	}

	banner := o.skin.Banner(out)
	last := out

	o.mu.Lock()
	o.displayed = balance
	o.banner = banner
	o.last = &last
	o.active = nil
	o.phase = domain.MachineIdle
	o.mu.Unlock()

	o.deps.History.Refresh(domain.NewPlay(o.cfg.PlayerID, o.skin.ID, out))
	if out.Won {
		o.deps.Audio.PlayWin(s.ctx, s.id)
	} else {
		o.deps.Audio.PlayLose(s.ctx, s.id)
	}

	elapsed := time.Since(s.startedAt)
	o.publish(s.ctx, event.New(event.SpinFinalized, o.skin.ID, s.id, event.SpinFinalizedPayloadV1{
		Outcome:          out,
		DisplayedBalance: balance,
		Banner:           banner,
		DurationMs:       elapsed.Milliseconds(),
	}))
	log.Info(LogMsgSpinFinalized,
		"theme", o.skin.ID,
		"payout", out.Payout.String(),
		"balance", balance.String(),
		"source", out.Source,
		"fallback_reason", out.FallbackReason,
		"duration", elapsed)
}

// SpinEnabled reports whether the spin control should be enabled
func (o *Orchestrator) SpinEnabled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return !o.closed && o.active == nil && !o.starting
}

// SetGeometry records the layout for the next session. A running session
// keeps the geometry it started with.
func (o *Orchestrator) SetGeometry(g reel.Geometry) error {
	if err := g.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	o.mu.Lock()
	o.geometry = g
	o.mu.Unlock()
	return nil
}

// Geometry returns the layout the next session will use
func (o *Orchestrator) Geometry() reel.Geometry {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.geometry
}

// Snapshot returns the observable machine state. While idle the displayed
// balance is re-read from the wallet, which other machines may have changed.
func (o *Orchestrator) Snapshot(ctx context.Context) domain.MachineSnapshot {
	o.mu.Lock()
	snap := domain.MachineSnapshot{
		Theme:            o.skin.ID,
		Phase:            o.phase,
		SpinEnabled:      !o.closed && o.active == nil && !o.starting,
		DisplayedBalance: o.displayed,
		Banner:           o.banner,
	}
	if o.last != nil {
		last := *o.last
		snap.LastOutcome = &last
	}
	if o.active != nil {
		ss := o.active.snapshot(o.skin.ID)
		snap.Session = &ss
	}
	idle := o.active == nil
	o.mu.Unlock()

	if idle {
		if b, err := o.deps.Wallet.Balance(ctx); err == nil {
			snap.DisplayedBalance = b
		} else {
			logger.FromContext(ctx).Warn(LogMsgWalletReadFailed, "error", err)
		}
	}
	return snap
}

// Shutdown stops new spins, finalizes a running session with whatever
// outcome is available and waits for background work.
func (o *Orchestrator) Shutdown(ctx context.Context) error {
	o.mu.Lock()
	if !o.closed {
		o.closed = true
		close(o.quit)
	}
	s := o.active
	launch := s != nil && !s.awaiting
	if launch {
		s.awaiting = true
		o.wg.Add(1)
	}
	o.mu.Unlock()

	if s != nil {
		s.stopLoops()
	}
	if launch {
		logger.FromContext(ctx).Warn(LogMsgShutdownFinalizing, logger.AttrKeySessionID, s.id)
		go o.awaitOutcome(s, domain.FallbackShutdown)
	}

	done := make(chan struct{})
	go func() {
		o.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (o *Orchestrator) publish(ctx context.Context, evt event.Event) {
	if o.deps.Bus == nil {
		return
	}
	if err := o.deps.Bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}

// IsRejection reports whether err came from StartSpin refusing a request
// rather than from an internal failure.
func IsRejection(err error) bool {
	return errors.Is(err, domain.ErrSpinInProgress) || errors.Is(err, domain.ErrMachineClosed) || domain.IsValidationError(err)
}

type noAudio struct{}

func (noAudio) PlaySpinLoop(context.Context, string)      {}
func (noAudio) PlayReelStop(context.Context, string, int) {}
func (noAudio) PlayWin(context.Context, string)           {}
func (noAudio) PlayLose(context.Context, string)          {}

type noHistory struct{}

func (noHistory) Refresh(domain.Play) {}
