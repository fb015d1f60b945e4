package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/qso-mapper/internal/adapter/geocache"
	"github.com/couchcryptid/qso-mapper/internal/adapter/hamqth"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect the geolocation cache",
}

var cacheGetCmd = &cobra.Command{
	Use:   "get <callsign>",
	Short: "Print the cached DXCC entity for a callsign",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := geocache.Open(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("open geolocation cache: %w", err)
		}
		defer store.Close()

		call := args[0]
		payload, ok, err := store.Get(cmd.Context(), call)
		if err != nil {
			return fmt.Errorf("read cache entry: %w", err)
		}
		if !ok {
			return fmt.Errorf("%s is not cached", call)
		}

		out := cmd.OutOrStdout()
		entity, err := hamqth.ParseDXCC(payload)
		if err != nil {
			fmt.Fprintf(out, "%s\n", payload)
			return err
		}
		fmt.Fprintf(out, "%s\t%s\t%s\t%.4f\t%.4f\n", call, entity.Name, entity.Continent, entity.Geo.Lat, entity.Geo.Lon)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheGetCmd)
	rootCmd.AddCommand(cacheCmd)
}
