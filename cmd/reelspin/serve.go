package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/osse101/ReelSpin_Go/internal/audio"
	"github.com/osse101/ReelSpin_Go/internal/bootstrap"
	"github.com/osse101/ReelSpin_Go/internal/config"
	"github.com/osse101/ReelSpin_Go/internal/history"
	"github.com/osse101/ReelSpin_Go/internal/outcome"
	"github.com/osse101/ReelSpin_Go/internal/playclient"
	"github.com/osse101/ReelSpin_Go/internal/server"
	"github.com/osse101/ReelSpin_Go/internal/spin"
	"github.com/osse101/ReelSpin_Go/internal/theme"
	"github.com/osse101/ReelSpin_Go/internal/wallet"
	"github.com/osse101/ReelSpin_Go/internal/worker"
)

func newServeCmd() *cobra.Command {
	var (
		port      int
		strictEnv bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the machine API and event stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			// .env is loaded by now
			if strictEnv {
				if err := config.ValidateEnv(); err != nil {
					return fmt.Errorf("environment check failed: %w", err)
				}
			}
			if port > 0 {
				cfg.Port = port
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "HTTP port (overrides PORT)")
	cmd.Flags().BoolVar(&strictEnv, "strict-env", false, "refuse to start when the .env schema check fails")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logEnvCheck()

	skins, err := theme.LoadEmbedded()
	if err != nil {
		return err
	}

	repos, err := bootstrap.InitializeRepositories(ctx, cfg)
	if err != nil {
		return err
	}

	playerWallet, err := wallet.New(ctx, repos.Wallet, cfg.PlayerID, cfg.StartingBalance)
	if err != nil {
		repos.Close()
		return fmt.Errorf("%s: %w", bootstrap.ErrMsgFailedOpenWallet, err)
	}

	events := bootstrap.InitializeEventSystem()

	workers := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize)
	workers.Start()

	historySvc := history.NewService(repos.History, events.Bus, workers, cfg.PlayerID)

	reconciler := outcome.NewReconciler(
		playclient.New(cfg.PlayServiceURL, cfg.PlayAPIKey, cfg.PlayRequestTimeout),
		events.Bus,
		outcome.Config{
			RequestTimeout: cfg.PlayRequestTimeout,
			CacheSize:      cfg.OutcomeCacheSize,
			CacheTTL:       cfg.OutcomeCacheTTL,
		},
	)

	cuePlayer := audio.NewStreamPlayer(events.Bus)
	machines, err := spin.NewRegistry(
		skins.All(),
		spin.Config{
			BaseDuration:    cfg.SpinBaseDuration,
			Stagger:         cfg.SpinStagger,
			DecelDuration:   cfg.DecelDuration,
			FrameInterval:   cfg.FrameInterval,
			WatchdogTimeout: cfg.WatchdogTimeout,
			StreamFrames:    cfg.StreamFrames,
			PlayerID:        cfg.PlayerID,
		},
		spin.Deps{
			Wallet:     playerWallet,
			Reconciler: reconciler,
			History:    historySvc,
			Bus:        events.Bus,
		},
		func(skin theme.Skin) spin.AudioCues { return audio.NewDispatcher(cuePlayer, skin) },
	)
	if err != nil {
		bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
			Reconciler: reconciler, Workers: workers, Hub: events.Hub, Repositories: repos,
		})
		return fmt.Errorf("%s: %w", bootstrap.ErrMsgFailedBuildMachines, err)
	}

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, server.Deps{
		Machines: machines,
		History:  historySvc,
		Hub:      events.Hub,
		DB:       repos.DB,
	})

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	slog.Info("Machines ready", "themes", machines.IDs(), "play_service", cfg.PlayServiceURL)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	var runErr error
	select {
	case <-stop:
	case runErr = <-serveErr:
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:       srv,
		Machines:     machines,
		Reconciler:   reconciler,
		Workers:      workers,
		Hub:          events.Hub,
		Repositories: repos,
	})
	return runErr
}

// logEnvCheck reports .env problems without stopping the server
func logEnvCheck() {
	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		slog.Warn("Environment check failed", "error", err)
		return
	}
	for _, w := range warnings {
		slog.Warn(w)
	}
}
