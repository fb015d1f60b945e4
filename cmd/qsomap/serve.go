package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/qso-mapper/internal/adapter/httpadapter"
	"github.com/couchcryptid/qso-mapper/internal/adapter/render"
	"github.com/couchcryptid/qso-mapper/internal/config"
	"github.com/couchcryptid/qso-mapper/internal/observability"
)

var serveCmd = &cobra.Command{
	Use:   "serve <adif_file>",
	Short: "Enrich an ADIF log once and serve the map over HTTP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cfg, logger, prometheus.DefaultRegisterer, args[0])
	},
}

// buildDocs renders the served documents. Tests replace it.
var buildDocs = render.Build

func init() {
	rootCmd.AddCommand(serveCmd)
}

// runServe starts the HTTP server, enriches the log, and serves the result
// until ctx is cancelled. /readyz reports ready once enrichment has finished.
// The server is shut down on every return path once started.
func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg prometheus.Registerer, adifPath string) error {
	qsos, err := readLog(adifPath)
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics(reg)
	env, err := newEnrichEnv(ctx, cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer env.Close()

	var docs render.Bundle
	srv := httpadapter.NewServer(cfg.HTTPAddr, &docs, env.Enricher, logger)

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	defer func() {
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		logger.Info("shutdown complete")
	}()

	result := env.Enricher.Enrich(ctx, qsos)
	if err := runError(result); err != nil {
		logger.Error("enrichment finished with errors, serving partial map", "error", err, "processed", result.Processed())
	}
	built, err := buildDocs(result.Points(), result.FinishedAt)
	if err != nil {
		return fmt.Errorf("build map: %w", err)
	}
	docs.Store(built)
	if err := publish(ctx, cfg, logger, result); err != nil {
		logger.Error("publish failed", "error", err)
	}
	logger.Info("map ready", "addr", cfg.HTTPAddr, "points", len(result.Points()))

	select {
	case <-ctx.Done():
		return nil
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	}
}
