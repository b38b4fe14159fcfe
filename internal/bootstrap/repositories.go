package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/osse101/ReelSpin_Go/internal/config"
	"github.com/osse101/ReelSpin_Go/internal/database"
	"github.com/osse101/ReelSpin_Go/internal/database/postgres"
	"github.com/osse101/ReelSpin_Go/internal/history"
	"github.com/osse101/ReelSpin_Go/internal/wallet"
)

// Repositories holds the storage chosen for this process. DB is nil when the
// in-memory stores are in use.
type Repositories struct {
	Wallet  wallet.Repository
	History history.Repository
	DB      database.Pool
}

// InitializeRepositories selects Postgres when DB_HOST is set, applying
// pending migrations, and the in-memory stores otherwise.
func InitializeRepositories(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	if !cfg.UseDatabase() {
		slog.Info(LogMsgStorageSelected, "storage", StorageMemory)
		return &Repositories{
			Wallet:  wallet.NewMemoryRepository(),
			History: history.NewMemoryRepository(),
		}, nil
	}

	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectDB, err)
	}
	if err := database.Migrate(ctx, pool, database.MigrateUp); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrateDB, err)
	}

	slog.Info(LogMsgStorageSelected, "storage", StoragePostgres, "db_host", cfg.DBHost, "db_name", cfg.DBName)
	return &Repositories{
		Wallet:  postgres.NewWalletRepository(pool),
		History: postgres.NewPlayRepository(pool),
		DB:      pool,
	}, nil
}

// Close releases the database pool, if any
func (r *Repositories) Close() {
	if r.DB != nil {
		r.DB.Close()
	}
}
