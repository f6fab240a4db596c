// Package main is the entrypoint for the sprintsight analysis agent.
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
	"time"

	"github.com/kiranshivaraju/sprintsight/internal/backend"
	"github.com/kiranshivaraju/sprintsight/internal/config"
	"github.com/kiranshivaraju/sprintsight/internal/jobs"
	"github.com/kiranshivaraju/sprintsight/internal/ops"
	"github.com/kiranshivaraju/sprintsight/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("agent failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded",
		"backend", cfg.BaseURL,
		"agent_id", cfg.AgentID,
		"job_types", cfg.JobTypes,
		"polling_interval", cfg.PollingInterval,
		"backoff_initial", cfg.BackoffInitial,
		"backoff_cap", cfg.BackoffCap,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Backend client and startup probe. An unreachable backend at
	// boot is only a warning; the poll loop backs off until it
	// appears.
	client := backend.NewHTTPClient(cfg.BaseURL, cfg.HTTPTimeout)
	probeCtx, cancel := context.WithTimeout(ctx, cfg.HTTPTimeout)
	if err := client.Health(probeCtx); err != nil {
		slog.Warn("backend health probe failed", "error", err)
	} else {
		slog.Info("backend reachable")
	}
	cancel()

	// 3. Worker wiring
	processor := jobs.NewProcessor(client)
	w := worker.New(cfg, client, processor)

	// 4. Optional ops listener
	var srv *http.Server
	errCh := make(chan error, 1)
	if cfg.OpsPort > 0 {
		addr := fmt.Sprintf(":%d", cfg.OpsPort)
		srv = &http.Server{
			Addr:         addr,
			Handler:      ops.NewRouter(client, w),
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			slog.Info("ops listener started", "addr", addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()
	}

	// 5. Run the polling loop until interrupted
	runErr := w.Run(ctx)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("ops listener shutdown failed", "error", err)
		}
		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("ops listener: %w", err)
			}
		default:
		}
	}

	return runErr
}
