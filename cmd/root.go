package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/usavibesmap/geoapi/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "geoapi",
	Short: "Geospatial aggregation proxy for map front-ends",
	Long:  "Proxies OpenStreetMap Overpass brand lookups and the USGS earthquake feed into normalized GeoJSON, with a bounded in-memory response cache.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
