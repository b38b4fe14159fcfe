package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/osse101/ReelSpin_Go/internal/config"
	"github.com/osse101/ReelSpin_Go/internal/logger"
	"github.com/osse101/ReelSpin_Go/internal/playsvc"
)

func newPlaysvcCmd() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "playsvc",
		Short: "Run a local stand-in for the remote play service",
		Long: "Serves POST /api/v1/play with weighted symbols and a payout table.\n" +
			"PLAYSVC_LATENCY, PLAYSVC_FAILURE_RATE and PLAYSVC_FAILURE_MODE inject slow and failing responses.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.PlaysvcPort = port
			}
			return runPlaysvc(cfg)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP port (overrides PLAYSVC_PORT)")
	return cmd
}

func runPlaysvc(cfg *config.Config) error {
	logger.InitLogger(logger.NewConfig(cfg.LogLevel, cfg.LogFormat, "reelspin-playsvc", cfg.Version, cfg.Environment, false))

	svc, err := playsvc.NewService(playsvc.Config{
		StartingBalance: cfg.StartingBalance,
		Latency:         cfg.PlaysvcLatency,
		FailureRate:     cfg.PlaysvcFailureRate,
		FailureMode:     playsvc.FailureMode(cfg.PlaysvcFailureMode),
		APIKey:          cfg.PlayAPIKey,
	}, nil)
	if err != nil {
		return err
	}

	srv := playsvc.NewServer(cfg.PlaysvcPort, svc)
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	slog.Info("Play service ready",
		"port", cfg.PlaysvcPort,
		"latency", cfg.PlaysvcLatency,
		"failure_rate", cfg.PlaysvcFailureRate,
		"failure_mode", cfg.PlaysvcFailureMode)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case <-stop:
	case runErr = <-serveErr:
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		slog.Error("Play service forced to shutdown", "error", err)
	}
	return runErr
}
