package wallet

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// Wallet holds the player's balance. Every machine shares one wallet, so the
// stake is debited atomically when a spin is accepted and the payout is
// credited at finalize; the balance is never overwritten wholesale.
type Wallet interface {
	Balance(ctx context.Context) (decimal.Decimal, error)
	// Debit removes amount and returns the new balance. A balance that cannot
	// cover amount is left untouched and reported with ErrInsufficientBalance
	// alongside the current balance.
	Debit(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error)
	// Credit adds amount and returns the new balance
	Credit(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error)
}

// Repository stores balances per player
type Repository interface {
	EnsureWallet(ctx context.Context, playerID string, starting decimal.Decimal) error
	GetBalance(ctx context.Context, playerID string) (decimal.Decimal, error)
	Debit(ctx context.Context, playerID string, amount decimal.Decimal) (decimal.Decimal, error)
	Credit(ctx context.Context, playerID string, amount decimal.Decimal) (decimal.Decimal, error)
}

// playerWallet binds a repository to one player
type playerWallet struct {
	repo     Repository
	playerID string
}

// New returns a Wallet for playerID, creating it with the starting balance if absent
func New(ctx context.Context, repo Repository, playerID string, starting decimal.Decimal) (Wallet, error) {
	if err := repo.EnsureWallet(ctx, playerID, starting); err != nil {
		return nil, err
	}
	return &playerWallet{repo: repo, playerID: playerID}, nil
}

func (w *playerWallet) Balance(ctx context.Context) (decimal.Decimal, error) {
	return w.repo.GetBalance(ctx, w.playerID)
}

func (w *playerWallet) Debit(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return w.repo.Debit(ctx, w.playerID, amount)
}

func (w *playerWallet) Credit(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return w.repo.Credit(ctx, w.playerID, amount)
}

// MemoryRepository keeps balances in process
type MemoryRepository struct {
	mu       sync.RWMutex
	balances map[string]decimal.Decimal
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{balances: make(map[string]decimal.Decimal)}
}

func (m *MemoryRepository) EnsureWallet(ctx context.Context, playerID string, starting decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.balances[playerID]; !ok {
		m.balances[playerID] = starting
	}
	return nil
}

func (m *MemoryRepository) GetBalance(ctx context.Context, playerID string) (decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.balances[playerID]
	if !ok {
		return decimal.Zero, ErrWalletNotFound
	}
	return b, nil
}

func (m *MemoryRepository) Debit(ctx context.Context, playerID string, amount decimal.Decimal) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.balances[playerID]
	if !ok {
		return decimal.Zero, ErrWalletNotFound
	}
	if b.LessThan(amount) {
		return b, ErrInsufficientBalance
	}
	b = b.Sub(amount)
	m.balances[playerID] = b
	return b, nil
}

func (m *MemoryRepository) Credit(ctx context.Context, playerID string, amount decimal.Decimal) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.balances[playerID]
	if !ok {
		return decimal.Zero, ErrWalletNotFound
	}
	b = b.Add(amount)
	m.balances[playerID] = b
	return b, nil
}
