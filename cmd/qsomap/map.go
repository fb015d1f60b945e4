package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/qso-mapper/internal/adapter/render"
	"github.com/couchcryptid/qso-mapper/internal/config"
	"github.com/couchcryptid/qso-mapper/internal/observability"
)

var (
	mapParks   string
	mapOut     string
	mapGeoJSON string
)

var mapCmd = &cobra.Command{
	Use:   "map <adif_file>",
	Short: "Enrich an ADIF log and write the map",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		applyMapFlags(cfg)
		return runMap(cmd.Context(), cfg, logger, cmd.OutOrStdout(), args[0])
	},
}

func init() {
	mapCmd.Flags().StringVar(&mapParks, "parks", "", "park reference CSV (default PARKS_CSV)")
	mapCmd.Flags().StringVar(&mapOut, "out", "", "map HTML output path (default OUTPUT_HTML)")
	mapCmd.Flags().StringVar(&mapGeoJSON, "geojson", "", "GeoJSON output path (default OUTPUT_GEOJSON)")
	rootCmd.AddCommand(mapCmd)
}

func applyMapFlags(c *config.Config) {
	if mapParks != "" {
		c.ParksCSV = mapParks
	}
	if mapOut != "" {
		c.OutputHTML = mapOut
	}
	if mapGeoJSON != "" {
		c.OutputGeoJSON = mapGeoJSON
	}
}

// runMap performs one enrichment run and writes its outputs. Outputs are
// written from partial results too; the returned error then reports the
// failure so the process exits non-zero.
func runMap(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer, adifPath string) error {
	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)

	qsos, err := readLog(adifPath)
	if err != nil {
		return err
	}

	env, err := newEnrichEnv(ctx, cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer env.Close()

	result := env.Enricher.Enrich(ctx, qsos)
	report(out, result)

	points := result.Points()
	if err := writeFile(cfg.OutputHTML, func(w io.Writer) error {
		return render.HTML(w, points, result.FinishedAt)
	}); err != nil {
		return err
	}
	fmt.Fprintf(out, "Map written to %s\n", cfg.OutputHTML)

	if cfg.OutputGeoJSON != "" {
		if err := writeFile(cfg.OutputGeoJSON, func(w io.Writer) error {
			return render.GeoJSON(w, points)
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "GeoJSON written to %s\n", cfg.OutputGeoJSON)
	}

	publishErr := publish(ctx, cfg, logger, result)
	if publishErr != nil {
		logger.Error("publish failed", "error", publishErr)
	}

	if cfg.MetricsTextfile != "" {
		if err := prometheus.WriteToTextfile(cfg.MetricsTextfile, reg); err != nil {
			logger.Error("write metrics textfile failed", "path", cfg.MetricsTextfile, "error", err)
		}
	}

	return errors.Join(runError(result), publishErr)
}

// writeFile renders into path, creating or truncating it.
func writeFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
