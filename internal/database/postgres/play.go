package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ReelSpin_Go/internal/domain"
)

// PlayRepository implements history.Repository for PostgreSQL
type PlayRepository struct {
	db *pgxpool.Pool
}

// NewPlayRepository creates a new PlayRepository
func NewPlayRepository(db *pgxpool.Pool) *PlayRepository {
	return &PlayRepository{db: db}
}

// InsertPlay stores a finalized play and fills in its id. A session is
// recorded at most once; a repeat insert leaves the first row in place.
func (r *PlayRepository) InsertPlay(ctx context.Context, play *domain.Play) error {
	createdAt := play.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	query := `
		INSERT INTO plays (session_id, player_id, theme, stake, payout, multiplier, resulting_balance, won, source, created_at)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6::numeric, $7::numeric, $8, $9, $10)
		ON CONFLICT (session_id) DO UPDATE SET session_id = EXCLUDED.session_id
		RETURNING play_id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		play.SessionID,
		play.PlayerID,
		play.Theme,
		play.Stake.String(),
		play.Payout.String(),
		play.Multiplier.String(),
		play.ResultingBalance.String(),
		play.Won,
		string(play.Source),
		createdAt,
	).Scan(&play.ID, &play.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertPlay, err)
	}
	return nil
}

// ListRecentPlays returns up to limit plays for playerID, newest first
func (r *PlayRepository) ListRecentPlays(ctx context.Context, playerID string, limit int) ([]domain.Play, error) {
	query := `
		SELECT play_id, session_id, player_id, theme,
		       stake::text, payout::text, multiplier::text, resulting_balance::text,
		       won, source, created_at
		FROM plays
		WHERE player_id = $1
		ORDER BY created_at DESC, play_id DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListPlays, err)
	}
	defer rows.Close()

	plays := make([]domain.Play, 0, limit)
	for rows.Next() {
		var (
			p                                 domain.Play
			stake, payout, mult, balance, src string
		)
		if err := rows.Scan(&p.ID, &p.SessionID, &p.PlayerID, &p.Theme,
			&stake, &payout, &mult, &balance,
			&p.Won, &src, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanPlay, err)
		}
		p.Source = domain.OutcomeSource(src)
		if p.Stake, err = parseNumeric(stake); err != nil {
			return nil, err
		}
		if p.Payout, err = parseNumeric(payout); err != nil {
			return nil, err
		}
		if p.Multiplier, err = parseNumeric(mult); err != nil {
			return nil, err
		}
		if p.ResultingBalance, err = parseNumeric(balance); err != nil {
			return nil, err
		}
		plays = append(plays, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListPlays, err)
	}
	return plays, nil
}
