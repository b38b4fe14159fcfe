package postgres

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/osse101/ReelSpin_Go/internal/database"
	"github.com/osse101/ReelSpin_Go/internal/domain"
	"github.com/osse101/ReelSpin_Go/internal/history"
	"github.com/osse101/ReelSpin_Go/internal/wallet"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	flag.Parse()

	var terminate func()
	if !testing.Short() {
		terminate = setup(context.Background())
	}

	code := m.Run()

	if terminate != nil {
		terminate()
	}
	os.Exit(code)
}

// setup starts Postgres and applies the embedded migrations. On any failure
// testPool stays nil and the integration tests skip.
func setup(ctx context.Context) func() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("Recovered from panic in setup (likely Docker issue): %v\n", r)
		}
	}()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Printf("WARNING: Failed to start postgres container: %v\n", err)
		return nil
	}
	terminate := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			fmt.Printf("Failed to terminate container: %v\n", err)
		}
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Printf("WARNING: Failed to get connection string: %v\n", err)
		return terminate
	}

	pool, err := database.NewPool(ctx, connStr, 5, time.Minute, 5*time.Minute)
	if err != nil {
		fmt.Printf("WARNING: Failed to connect: %v\n", err)
		return terminate
	}
	if err := database.Migrate(ctx, pool, database.MigrateUp); err != nil {
		fmt.Printf("WARNING: Failed to migrate: %v\n", err)
		pool.Close()
		return terminate
	}

	testPool = pool
	return func() {
		pool.Close()
		terminate()
	}
}

func requireDB(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if testPool == nil {
		t.Skip("Skipping integration test: database not available")
	}
}

func TestWalletRepository_Integration(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewWalletRepository(testPool)

	t.Run("ensure creates once", func(t *testing.T) {
		require.NoError(t, repo.EnsureWallet(ctx, "alice", decimal.RequireFromString("100.50")))
		require.NoError(t, repo.EnsureWallet(ctx, "alice", decimal.NewFromInt(999)))

		b, err := repo.GetBalance(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, b.Equal(decimal.RequireFromString("100.5")), "got %s", b)
	})

	t.Run("debit and credit keep fractional precision", func(t *testing.T) {
		b, err := repo.Debit(ctx, "alice", decimal.RequireFromString("100.4999"))
		require.NoError(t, err)
		assert.Equal(t, "0.0001", b.String())

		b, err = repo.Credit(ctx, "alice", decimal.RequireFromString("9.9999"))
		require.NoError(t, err)
		assert.True(t, b.Equal(decimal.NewFromInt(10)), "got %s", b)
	})

	t.Run("debit never overdraws", func(t *testing.T) {
		b, err := repo.Debit(ctx, "alice", decimal.RequireFromString("10.01"))
		assert.ErrorIs(t, err, wallet.ErrInsufficientBalance)
		assert.True(t, b.Equal(decimal.NewFromInt(10)), "got %s", b)

		got, err := repo.GetBalance(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, got.Equal(decimal.NewFromInt(10)), "balance is untouched")
	})

	t.Run("concurrent debits are serialized", func(t *testing.T) {
		require.NoError(t, repo.EnsureWallet(ctx, "dave", decimal.NewFromInt(100)))

		var (
			wg       sync.WaitGroup
			mu       sync.Mutex
			accepted int
		)
		for i := 0; i < 15; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := repo.Debit(ctx, "dave", decimal.NewFromInt(10)); err == nil {
					mu.Lock()
					accepted++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 10, accepted)
		b, err := repo.GetBalance(ctx, "dave")
		require.NoError(t, err)
		assert.True(t, b.IsZero(), "got %s", b)
	})

	t.Run("unknown player", func(t *testing.T) {
		_, err := repo.GetBalance(ctx, "nobody")
		assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
		_, err = repo.Debit(ctx, "nobody", decimal.NewFromInt(1))
		assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
		_, err = repo.Credit(ctx, "nobody", decimal.NewFromInt(1))
		assert.ErrorIs(t, err, wallet.ErrWalletNotFound)
	})

	t.Run("negative credit is refused", func(t *testing.T) {
		_, err := repo.Credit(ctx, "alice", decimal.NewFromInt(-11))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgNegativeBalance)
	})

	t.Run("works behind wallet.New", func(t *testing.T) {
		w, err := wallet.New(ctx, repo, "bob", decimal.NewFromInt(10))
		require.NoError(t, err)
		b, err := w.Debit(ctx, decimal.NewFromInt(3))
		require.NoError(t, err)
		assert.True(t, b.Equal(decimal.NewFromInt(7)))
		b, err = w.Balance(ctx)
		require.NoError(t, err)
		assert.True(t, b.Equal(decimal.NewFromInt(7)))
	})
}

func TestPlayRepository_Integration(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewPlayRepository(testPool)

	base := time.Now().Add(-time.Hour).UTC().Truncate(time.Microsecond)
	for i := 0; i < 3; i++ {
		play := &domain.Play{
			SessionID:        fmt.Sprintf("00000000-0000-0000-0000-00000000000%d", i),
			PlayerID:         "carol",
			Theme:            "neon",
			Stake:            decimal.NewFromInt(10),
			Payout:           decimal.NewFromInt(int64(i * 5)),
			Multiplier:       decimal.RequireFromString("0.5").Mul(decimal.NewFromInt(int64(i))),
			ResultingBalance: decimal.NewFromInt(int64(100 + i)),
			Won:              i > 0,
			Source:           domain.OutcomeSourceRemote,
			CreatedAt:        base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.InsertPlay(ctx, play))
		assert.NotZero(t, play.ID)
	}

	t.Run("newest first with limit", func(t *testing.T) {
		plays, err := repo.ListRecentPlays(ctx, "carol", 2)
		require.NoError(t, err)
		require.Len(t, plays, 2)
		assert.Equal(t, "00000000-0000-0000-0000-000000000002", plays[0].SessionID)
		assert.True(t, plays[0].Payout.Equal(decimal.NewFromInt(10)))
		assert.True(t, plays[0].Multiplier.Equal(decimal.NewFromInt(1)))
		assert.Equal(t, domain.OutcomeSourceRemote, plays[0].Source)
		assert.True(t, plays[1].CreatedAt.Before(plays[0].CreatedAt))
	})

	t.Run("session recorded once", func(t *testing.T) {
		dup := &domain.Play{
			SessionID:        "00000000-0000-0000-0000-000000000000",
			PlayerID:         "carol",
			Theme:            "neon",
			Stake:            decimal.NewFromInt(1),
			Payout:           decimal.Zero,
			Multiplier:       decimal.Zero,
			ResultingBalance: decimal.Zero,
			Source:           domain.OutcomeSourceFallback,
		}
		require.NoError(t, repo.InsertPlay(ctx, dup))

		plays, err := repo.ListRecentPlays(ctx, "carol", 10)
		require.NoError(t, err)
		assert.Len(t, plays, 3)
	})

	t.Run("history service over postgres", func(t *testing.T) {
		svc := history.NewService(repo, nil, nil, "dave")
		play := domain.Play{
			SessionID:        "00000000-0000-0000-0000-0000000000aa",
			PlayerID:         "dave",
			Theme:            "pirate",
			Stake:            decimal.NewFromInt(2),
			Payout:           decimal.Zero,
			Multiplier:       decimal.Zero,
			ResultingBalance: decimal.NewFromInt(8),
			Source:           domain.OutcomeSourceFallback,
		}
		svc.Refresh(play)

		plays, err := svc.Recent(ctx, 5)
		require.NoError(t, err)
		require.Len(t, plays, 1)
		assert.Equal(t, "pirate", plays[0].Theme)
	})
}
