package reel

import (
	"errors"
	"sync"
	"time"

	"github.com/osse101/ReelSpin_Go/internal/domain"
)

var (
	ErrInvalidTarget   = errors.New(ErrMsgInvalidTarget)
	ErrInvalidDuration = errors.New(ErrMsgInvalidDuration)
	ErrInvalidSpeed    = errors.New(ErrMsgInvalidSpeed)
)

// StopFunc is invoked once when a reel settles on its target
type StopFunc func(index int, finalOffset float64)

// Params configures one reel for one session
type Params struct {
	Index         int
	Strip         Strip
	Geometry      Geometry // snapshot, never re-read mid-session
	TargetIndex   int
	SpinDuration  time.Duration
	DecelDuration time.Duration
	Speed         float64 // pixels per second while spinning
	StartOffset   float64
}

// Frame is what a renderer needs for one reel at one instant
type Frame struct {
	Index        int              `json:"index"`
	Phase        domain.ReelPhase `json:"phase"`
	Offset       float64          `json:"offset"`
	RenderOffset float64          `json:"render_offset"`
}

// Animator drives one reel through Idle -> Spinning -> Decelerating -> Stopped.
// Tick is safe to call from a frame loop goroutine while other goroutines read
// snapshots.
type Animator struct {
	mu sync.Mutex

	p      Params
	onStop StopFunc

	phase      domain.ReelPhase
	offset     float64
	startedAt  time.Time
	lastTick   time.Time
	decelStart time.Time
	decelFrom  float64
	target     float64
	fired      bool
}

// NewAnimator validates params and returns an idle animator
func NewAnimator(p Params, onStop StopFunc) (*Animator, error) {
	if p.Strip.Len() < MinSymbols {
		return nil, ErrTooFewSymbols
	}
	if err := p.Geometry.Validate(); err != nil {
		return nil, err
	}
	if p.TargetIndex < 0 || p.TargetIndex >= p.Strip.Len() {
		return nil, ErrInvalidTarget
	}
	if p.SpinDuration <= 0 {
		return nil, ErrInvalidDuration
	}
	if !(p.Speed > 0) {
		return nil, ErrInvalidSpeed
	}
	if p.DecelDuration <= 0 {
		p.DecelDuration = DefaultDecelDuration
	}
	if p.StartOffset < 0 {
		p.StartOffset = 0
	}

	return &Animator{
		p:      p,
		onStop: onStop,
		phase:  domain.ReelIdle,
		offset: p.StartOffset,
	}, nil
}

// Start moves the reel into Spinning. Calling it twice is a no-op.
func (a *Animator) Start(now time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.phase != domain.ReelIdle {
		return
	}
	a.phase = domain.ReelSpinning
	a.startedAt = now
	a.lastTick = now
}

// Tick advances the animation to now and returns the resulting frame
func (a *Animator) Tick(now time.Time) Frame {
	a.mu.Lock()

	var stopped bool
	switch a.phase {
	case domain.ReelSpinning:
		a.integrate(now)
		if now.Sub(a.startedAt) >= a.p.SpinDuration {
			a.beginDecel()
			stopped = a.decelerate(now)
		}
	case domain.ReelDecelerating:
		stopped = a.decelerate(now)
	}

	fire := stopped && !a.fired
	if fire {
		a.fired = true
	}
	frame := a.frameLocked()
	a.mu.Unlock()

	if fire && a.onStop != nil {
		a.onStop(a.p.Index, frame.Offset)
	}
	return frame
}

// integrate applies constant speed over the wall-clock delta since the last tick
func (a *Animator) integrate(now time.Time) {
	dt := now.Sub(a.lastTick)
	if dt < 0 {
		dt = 0
	}
	if dt > MaxFrameDelta {
		dt = MaxFrameDelta
	}
	a.lastTick = now
	a.offset += a.p.Speed * dt.Seconds()
}

// beginDecel fixes the snap target once. The lead distance makes the initial
// slope of the cubic ease match the spinning speed.
func (a *Animator) beginDecel() {
	a.phase = domain.ReelDecelerating
	a.decelStart = a.startedAt.Add(a.p.SpinDuration)
	a.decelFrom = a.offset

	lead := a.p.Speed * a.p.DecelDuration.Seconds() / 3
	a.target = SnapOffset(a.offset+lead, a.p.TargetIndex, a.p.Strip.Len(), a.p.Geometry.ItemHeight, a.p.Geometry.VisibleRows)
}

// decelerate eases toward the target and reports whether the reel stopped
func (a *Animator) decelerate(now time.Time) bool {
	elapsed := now.Sub(a.decelStart)
	if elapsed >= a.p.DecelDuration {
		a.offset = a.target
		a.phase = domain.ReelStopped
		return true
	}

	t := float64(elapsed) / float64(a.p.DecelDuration)
	next := a.decelFrom + (a.target-a.decelFrom)*EaseOutCubic(t)
	if next > a.offset {
		a.offset = next
	}
	return false
}

func (a *Animator) frameLocked() Frame {
	return Frame{
		Index:        a.p.Index,
		Phase:        a.phase,
		Offset:       a.offset,
		RenderOffset: a.p.Strip.RenderOffset(a.offset, a.p.Geometry.ItemHeight),
	}
}

// Frame returns the current frame without advancing time
func (a *Animator) Frame() Frame {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frameLocked()
}

// Phase returns the current phase
func (a *Animator) Phase() domain.ReelPhase {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.phase
}

// Stopped reports whether the reel reached its target
func (a *Animator) Stopped() bool {
	return a.Phase() == domain.ReelStopped
}

// Target returns the snap offset, zero until deceleration begins
func (a *Animator) Target() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.target
}

// Params returns the session parameters this reel was built with
func (a *Animator) Params() Params {
	return a.p
}

// Snapshot describes the reel for the machine snapshot
func (a *Animator) Snapshot() domain.ReelSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	return domain.ReelSnapshot{
		Index:          a.p.Index,
		Phase:          a.phase,
		Offset:         a.offset,
		RenderOffset:   a.p.Strip.RenderOffset(a.offset, a.p.Geometry.ItemHeight),
		TargetIndex:    a.p.TargetIndex,
		TargetSymbol:   a.p.Strip.Symbols[a.p.TargetIndex],
		SpinDurationMs: a.p.SpinDuration.Milliseconds(),
	}
}
