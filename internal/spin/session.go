package spin

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/ReelSpin_Go/internal/domain"
	"github.com/osse101/ReelSpin_Go/internal/frameloop"
	"github.com/osse101/ReelSpin_Go/internal/reel"
)

// session is one spin from acceptance to finalize. It is compared by pointer
// and id against the orchestrator's active session; anything else is stale.
type session struct {
	id              string
	ctx             context.Context
	stake           decimal.Decimal
	previousBalance decimal.Decimal
	startedAt       time.Time
	geometry        reel.Geometry
	strip           reel.Strip

	reels []*reel.Animator
	loops []*frameloop.Loop

	// guarded by Orchestrator.mu
	remaining int
	stopped   []bool
	offsets   []float64
	nextStop  int
	awaiting  bool
	finalized bool
}

func (s *session) start(now time.Time) {
	for _, a := range s.reels {
		a.Start(now)
	}
	for _, l := range s.loops {
		l.Start()
	}
}

func (s *session) stopLoops() {
	for _, l := range s.loops {
		l.Stop()
	}
}

func (s *session) reelSnapshots() []domain.ReelSnapshot {
	out := make([]domain.ReelSnapshot, len(s.reels))
	for i, a := range s.reels {
		out[i] = a.Snapshot()
	}
	return out
}

func (s *session) snapshot(theme string) domain.SessionSnapshot {
	return domain.SessionSnapshot{
		SessionID:      s.id,
		Theme:          theme,
		Stake:          s.stake,
		StartedAt:      s.startedAt,
		RemainingStops: s.remaining,
		Reels:          s.reelSnapshots(),
	}
}
