package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/qso-mapper/internal/adapter/adif"
	"github.com/couchcryptid/qso-mapper/internal/adapter/geocache"
	"github.com/couchcryptid/qso-mapper/internal/adapter/hamqth"
	"github.com/couchcryptid/qso-mapper/internal/adapter/kafka"
	"github.com/couchcryptid/qso-mapper/internal/adapter/parks"
	"github.com/couchcryptid/qso-mapper/internal/config"
	"github.com/couchcryptid/qso-mapper/internal/domain"
	"github.com/couchcryptid/qso-mapper/internal/observability"
	"github.com/couchcryptid/qso-mapper/internal/pipeline"
)

// enrichEnv wires the enrichment chain: park table, geolocation cache, and
// the HamQTH resolver behind it.
type enrichEnv struct {
	Enricher *pipeline.Enricher
	cache    geocache.Store
	logger   *slog.Logger
}

func newEnrichEnv(ctx context.Context, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*enrichEnv, error) {
	table, err := parks.Load(cfg.ParksCSV, logger)
	if err != nil {
		return nil, err
	}

	cache, err := geocache.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open geolocation cache: %w", err)
	}
	logger.Info("geolocation cache opened", "backend", cfg.CacheBackend)

	client := hamqth.NewClient(cfg.HamQTHURL, cfg.HamQTHTimeout, cfg.HamQTHRateLimit, metrics, logger)
	resolver := hamqth.NewCachedResolver(cache, client, metrics, logger)

	return &enrichEnv{
		Enricher: pipeline.NewEnricher(resolver, table, logger, metrics),
		cache:    cache,
		logger:   logger,
	}, nil
}

func (e *enrichEnv) Close() {
	if err := e.cache.Close(); err != nil {
		e.logger.Error("geolocation cache close error", "error", err)
	}
}

// readLog reads the ADIF log, reporting a missing file plainly.
func readLog(path string) ([]domain.QSO, error) {
	qsos, err := adif.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("file '%s' not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return qsos, nil
}

// report prints the run summary. Failures are reported separately from the
// processed count so partial runs are obvious.
func report(w io.Writer, result domain.Enrichment) {
	if result.Err != nil {
		fmt.Fprintf(w, "Error resolving QSOs: %v\n", result.Err)
	}
	fmt.Fprintf(w, "Total QSOs processed: %d\n", result.Processed())
	if result.HomeSiteErr != nil {
		fmt.Fprintf(w, "Error placing home site: %v\n", result.HomeSiteErr)
	}
}

// runError is the process-level error for a finished run, nil on a clean run.
func runError(result domain.Enrichment) error {
	return errors.Join(result.Err, result.HomeSiteErr)
}

func publish(ctx context.Context, cfg *config.Config, logger *slog.Logger, result domain.Enrichment) error {
	if !cfg.PublishEnabled() {
		return nil
	}
	w := kafka.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	defer func() {
		if err := w.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}()
	return w.Publish(ctx, result)
}
