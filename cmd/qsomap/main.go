package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/qso-mapper/internal/config"
	"github.com/couchcryptid/qso-mapper/internal/observability"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "qsomap",
	Short: "Plot an ADIF log on a map",
	Long: "Places every contact in an ADIF log at its DXCC entity via HamQTH, moves park-to-park " +
		"contacts onto the park itself, marks the operator's own park, and renders the result as an " +
		"OpenLayers map.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		logger = observability.NewLogger(cfg)
		slog.SetDefault(logger)
		return nil
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
