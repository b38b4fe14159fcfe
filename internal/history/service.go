package history

import (
	"context"
	"fmt"
	"sync"

	"github.com/osse101/ReelSpin_Go/internal/domain"
	"github.com/osse101/ReelSpin_Go/internal/event"
	"github.com/osse101/ReelSpin_Go/internal/logger"
	"github.com/osse101/ReelSpin_Go/internal/worker"
)

// Repository persists finalized plays
type Repository interface {
	InsertPlay(ctx context.Context, play *domain.Play) error
	ListRecentPlays(ctx context.Context, playerID string, limit int) ([]domain.Play, error)
}

// Service records plays and announces that history changed
type Service interface {
	Record(ctx context.Context, play domain.Play) error
	Recent(ctx context.Context, limit int) ([]domain.Play, error)
	// Refresh records the play on the worker pool and never blocks the caller
	Refresh(play domain.Play)
}

type service struct {
	repo     Repository
	bus      event.Bus
	pool     *worker.Pool
	playerID string
}

// NewService creates a history service. bus and pool may be nil; without a
// pool Refresh records synchronously.
func NewService(repo Repository, bus event.Bus, pool *worker.Pool, playerID string) Service {
	return &service{repo: repo, bus: bus, pool: pool, playerID: playerID}
}

func (s *service) Record(ctx context.Context, play domain.Play) error {
	log := logger.FromContext(ctx)

	if play.PlayerID == "" {
		play.PlayerID = s.playerID
	}
	if err := s.repo.InsertPlay(ctx, &play); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgRecordPlay, err)
	}
	log.Debug(LogMsgPlayRecorded, "play_id", play.ID, "session_id", play.SessionID)

	if s.bus != nil {
		evt := event.New(event.HistoryRefresh, play.Theme, play.SessionID, event.HistoryRefreshPayloadV1{PlayerID: play.PlayerID})
		if err := s.bus.Publish(ctx, evt); err != nil {
			log.Warn(LogMsgRefreshPublishErr, "error", err)
		}
	}
	return nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]domain.Play, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return s.repo.ListRecentPlays(ctx, s.playerID, limit)
}

func (s *service) Refresh(play domain.Play) {
	job := worker.JobFunc(func(ctx context.Context) error {
		ctx = logger.WithSessionID(ctx, play.SessionID)
		return s.Record(ctx, play)
	})

	if s.pool == nil {
		if err := job.Process(context.Background()); err != nil {
			logger.Warn(LogMsgRecordFailed, "error", err)
		}
		return
	}
	if !s.pool.Enqueue(job) {
		logger.Warn(LogMsgRecordDropped, "session_id", play.SessionID)
	}
}

// MemoryRepository keeps plays in process, newest last
type MemoryRepository struct {
	mu     sync.RWMutex
	plays  []domain.Play
	nextID int64
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) InsertPlay(ctx context.Context, play *domain.Play) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	play.ID = m.nextID
	m.plays = append(m.plays, *play)
	return nil
}

func (m *MemoryRepository) ListRecentPlays(ctx context.Context, playerID string, limit int) ([]domain.Play, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.Play, 0, limit)
	for i := len(m.plays) - 1; i >= 0 && len(out) < limit; i-- {
		if m.plays[i].PlayerID == playerID {
			out = append(out, m.plays[i])
		}
	}
	return out, nil
}
