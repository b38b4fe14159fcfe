package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/osse101/ReelSpin_Go/internal/wallet"
)

// WalletRepository implements wallet.Repository for PostgreSQL
type WalletRepository struct {
	db *pgxpool.Pool
}

// NewWalletRepository creates a new WalletRepository
func NewWalletRepository(db *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{db: db}
}

// EnsureWallet creates the player's wallet with the starting balance. An
// existing wallet keeps its balance.
func (r *WalletRepository) EnsureWallet(ctx context.Context, playerID string, starting decimal.Decimal) error {
	query := `
		INSERT INTO wallets (player_id, balance)
		VALUES ($1, $2::numeric)
		ON CONFLICT (player_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, query, playerID, starting.String()); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToEnsureWallet, err)
	}
	return nil
}

// GetBalance returns the stored balance
func (r *WalletRepository) GetBalance(ctx context.Context, playerID string) (decimal.Decimal, error) {
	var raw string
	err := r.db.QueryRow(ctx, `SELECT balance::text FROM wallets WHERE player_id = $1`, playerID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, wallet.ErrWalletNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", ErrMsgFailedToGetBalance, err)
	}
	return parseNumeric(raw)
}

// Debit subtracts amount in one conditional UPDATE, so two machines racing
// for the same balance can never overdraw it
func (r *WalletRepository) Debit(ctx context.Context, playerID string, amount decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE wallets
		SET balance = balance - $2::numeric, updated_at = NOW()
		WHERE player_id = $1 AND balance >= $2::numeric
		RETURNING balance::text
	`
	var raw string
	err := r.db.QueryRow(ctx, query, playerID, amount.String()).Scan(&raw)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// Either the wallet is missing or it cannot cover the amount
		current, gerr := r.GetBalance(ctx, playerID)
		if gerr != nil {
			return decimal.Zero, gerr
		}
		return current, wallet.ErrInsufficientBalance
	case isPgError(err, PgErrorCodeCheckViolation):
		return decimal.Zero, fmt.Errorf("%s: %w", ErrMsgFailedToDebit, wallet.ErrInsufficientBalance)
	case err != nil:
		return decimal.Zero, fmt.Errorf("%s: %w", ErrMsgFailedToDebit, err)
	}
	return parseNumeric(raw)
}

// Credit adds amount and returns the new balance
func (r *WalletRepository) Credit(ctx context.Context, playerID string, amount decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE wallets
		SET balance = balance + $2::numeric, updated_at = NOW()
		WHERE player_id = $1
		RETURNING balance::text
	`
	var raw string
	err := r.db.QueryRow(ctx, query, playerID, amount.String()).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, wallet.ErrWalletNotFound
	}
	if isPgError(err, PgErrorCodeCheckViolation) {
		return decimal.Zero, fmt.Errorf("%s: %s", ErrMsgFailedToCredit, ErrMsgNegativeBalance)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", ErrMsgFailedToCredit, err)
	}
	return parseNumeric(raw)
}
