package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/ReelSpin_Go/internal/server"
	"github.com/osse101/ReelSpin_Go/internal/sse"
	"github.com/osse101/ReelSpin_Go/internal/worker"
)

type shutdownable interface {
	Shutdown(context.Context) error
}

// ShutdownComponents holds all components that need graceful shutdown.
// Nil fields are skipped.
type ShutdownComponents struct {
	Server       *server.Server
	Machines     shutdownable
	Reconciler   shutdownable
	Workers      *worker.Pool
	Hub          *sse.Hub
	Repositories *Repositories
}

// GracefulShutdown stops components in dependency order:
//  1. HTTP server (no new spins)
//  2. machines (frame loops, watchdogs, in-flight finalizes)
//  3. reconciler (outstanding play requests)
//  4. worker pool (queued history writes)
//  5. SSE hub and database pool
//
// Errors are logged and never stop the sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)
	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	slog.Info(LogMsgShuttingDownMachines)
	if c.Machines != nil {
		if err := c.Machines.Shutdown(ctx); err != nil {
			slog.Error(LogMsgMachinesShutdownErr, "error", err)
		}
	}
	if c.Reconciler != nil {
		if err := c.Reconciler.Shutdown(ctx); err != nil {
			slog.Error(LogMsgReconcilerShutdown, "error", err)
		}
	}

	if c.Workers != nil {
		c.Workers.Stop()
	}
	if c.Hub != nil {
		c.Hub.Stop()
	}
	if c.Repositories != nil {
		c.Repositories.Close()
	}

	slog.Info(LogMsgServerStopped)
}
