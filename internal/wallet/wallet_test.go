package wallet

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryWallet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	w, err := New(ctx, repo, "player", decimal.NewFromInt(100))
	require.NoError(t, err)

	b, err := w.Balance(ctx)
	require.NoError(t, err)
	assert.True(t, b.Equal(decimal.NewFromInt(100)))

	b, err = w.Debit(ctx, decimal.RequireFromString("12.50"))
	require.NoError(t, err)
	assert.True(t, b.Equal(decimal.RequireFromString("87.5")))

	b, err = w.Credit(ctx, decimal.RequireFromString("2.5"))
	require.NoError(t, err)
	assert.True(t, b.Equal(decimal.NewFromInt(90)))

	// An existing wallet keeps its balance
	w2, err := New(ctx, repo, "player", decimal.NewFromInt(999))
	require.NoError(t, err)
	b, err = w2.Balance(ctx)
	require.NoError(t, err)
	assert.True(t, b.Equal(decimal.NewFromInt(90)))
}

func TestMemoryWallet_DebitShortfall(t *testing.T) {
	ctx := context.Background()
	w, err := New(ctx, NewMemoryRepository(), "player", decimal.NewFromInt(10))
	require.NoError(t, err)

	b, err := w.Debit(ctx, decimal.RequireFromString("10.01"))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.True(t, b.Equal(decimal.NewFromInt(10)), "current balance is reported")

	b, err = w.Debit(ctx, decimal.NewFromInt(10))
	require.NoError(t, err)
	assert.True(t, b.IsZero(), "the whole balance can be staked")

	_, err = w.Debit(ctx, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = w.Credit(ctx, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestMemoryWallet_ConcurrentDebitsNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	w, err := New(ctx, NewMemoryRepository(), "player", decimal.NewFromInt(100))
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := w.Debit(ctx, decimal.NewFromInt(10)); err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, ErrInsufficientBalance)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, accepted)
	b, err := w.Balance(ctx)
	require.NoError(t, err)
	assert.True(t, b.IsZero(), "got %s", b)
}

func TestMemoryRepository_UnknownPlayer(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	_, err := repo.GetBalance(ctx, "ghost")
	assert.ErrorIs(t, err, ErrWalletNotFound)
	_, err = repo.Debit(ctx, "ghost", decimal.Zero)
	assert.ErrorIs(t, err, ErrWalletNotFound)
	_, err = repo.Credit(ctx, "ghost", decimal.Zero)
	assert.ErrorIs(t, err, ErrWalletNotFound)
}
