// Package main is the entry point for the lineage relay binary.
// The relay exposes the one-hop table lineage of a Databricks workspace as
// JSON under /api/v1 and as a small browser UI under /ui, forwarding each
// caller's bearer token to the workspace when one is supplied.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"laketrace/internal/api"
	"laketrace/internal/config"
	"laketrace/internal/databricks"
	"laketrace/internal/lineage"
	"laketrace/internal/middleware"
	"laketrace/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)
	for _, warning := range cfg.Warnings {
		logger.Warn(warning)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	workspace, err := databricks.NewWorkspace(cfg.DatabricksHost, cfg.WorkspaceID)
	if err != nil {
		return fmt.Errorf("workspace: %w", err)
	}

	// Callers may bring their own bearer token; the configured one is the
	// fallback for the UI and tokenless API calls.
	tokens := databricks.PassthroughToken(databricks.StaticToken(cfg.DatabricksToken))
	svc := lineage.NewService(databricks.NewClient(workspace, tokens), workspace)

	handler := api.NewHandler(svc, logger)
	router := api.NewRouter(handler, ui.NewHandler(svc), api.RouterConfig{
		Logger:             logger,
		Metrics:            middleware.NewMetrics(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimit: middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		},
	})

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	eg, egctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		logger.Info("lineage relay listening",
			"addr", cfg.ListenAddr,
			"workspace", workspace.BaseURL(),
			"env", cfg.Env,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		logger.Info("shutting down relay")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
