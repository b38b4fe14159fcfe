package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migration commands accepted by Migrate
const (
	MigrateUp     = "up"
	MigrateDown   = "down"
	MigrateStatus = "status"
)

// Migrate runs a goose command against the embedded migrations. It borrows a
// database/sql handle from the pool; the pool stays usable afterwards.
func Migrate(ctx context.Context, pool *pgxpool.Pool, command string) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(MigrationsDialect); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSetDialect, err)
	}

	switch command {
	case MigrateUp:
		if err := goose.UpContext(ctx, db, MigrationsDir); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToMigrate, err)
		}
	case MigrateDown:
		if err := goose.DownContext(ctx, db, MigrationsDir); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToRollback, err)
		}
	case MigrateStatus:
		if err := goose.StatusContext(ctx, db, MigrationsDir); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToReadVersion, err)
		}
	default:
		return fmt.Errorf("%s: %q", ErrMsgUnknownMigrateCommand, command)
	}

	version, err := SchemaVersion(ctx, db)
	if err != nil {
		return err
	}
	slog.Default().Info(LogMsgMigrationsApplied, "command", command, "version", version)
	return nil
}

// SchemaVersion returns the current goose version of db
func SchemaVersion(ctx context.Context, db *sql.DB) (int64, error) {
	v, err := goose.GetDBVersionContext(ctx, db)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToReadVersion, err)
	}
	return v, nil
}
