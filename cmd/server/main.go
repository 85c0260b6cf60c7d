// Lattice estimates the physical resources needed to run a quantum
// computation on an analog decoherence-limited simulator versus a
// digital surface-code machine, and serves the results over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/lattice/internal/config"
	"github.com/aristath/lattice/internal/di"
	"github.com/aristath/lattice/internal/events"
	"github.com/aristath/lattice/internal/server"
	"github.com/aristath/lattice/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Str("addr", cfg.ListenAddr()).
		Bool("archiving", cfg.Archive.Enabled()).
		Msg("Starting Lattice")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := di.Wire(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire application")
	}
	defer container.Close()

	srv := server.New(server.Config{
		Log:       log,
		Config:    cfg,
		Container: container,
	})

	container.Scheduler.Start()

	container.EventBus.Emit(events.SystemStatusChanged, "main", &events.SystemStatusData{
		Status:    "started",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutdown signal received")
	case err := <-serverErr:
		log.Error().Err(err).Msg("HTTP server failed")
	}

	container.EventBus.Emit(events.SystemStatusChanged, "main", &events.SystemStatusData{
		Status:    "stopping",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}

	container.Scheduler.Stop()

	log.Info().Msg("Lattice stopped")
}
