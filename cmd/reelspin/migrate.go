package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osse101/ReelSpin_Go/internal/database"
	"github.com/osse101/ReelSpin_Go/internal/logger"
)

var errNoDatabase = errors.New("DB_HOST is not set; nothing to migrate")

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the PostgreSQL schema",
	}
	for _, sub := range []struct {
		command string
		short   string
	}{
		{database.MigrateUp, "Apply all pending migrations"},
		{database.MigrateDown, "Roll back the most recent migration"},
		{database.MigrateStatus, "Print migration status"},
	} {
		command := sub.command
		cmd.AddCommand(&cobra.Command{
			Use:   command,
			Short: sub.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrate(cmd, command)
			},
		})
	}
	return cmd
}

func runMigrate(cmd *cobra.Command, command string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.UseDatabase() {
		return errNoDatabase
	}
	logger.InitLogger(logger.NewConfig(cfg.LogLevel, cfg.LogFormat, cfg.ServiceName, cfg.Version, cfg.Environment, false))

	ctx := cmd.Context()
	pool, err := database.NewPool(ctx, cfg.GetDBConnString(), 1, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool, command); err != nil {
		return fmt.Errorf("migrate %s: %w", command, err)
	}
	return nil
}
