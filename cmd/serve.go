package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/usavibesmap/geoapi/internal/cache"
	"github.com/usavibesmap/geoapi/internal/overpass"
	"github.com/usavibesmap/geoapi/internal/server"
	"github.com/usavibesmap/geoapi/internal/usgs"
)

// sweepInterval controls how often expired cache entries are reclaimed.
// Get already treats expired entries as misses, so this only bounds memory.
const sweepInterval = time.Minute

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the aggregation proxy HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		store := cache.New(cfg.Cache.MaxEntries, cfg.Cache.TTL())

		ov := overpass.NewClient(cfg.Overpass.Endpoint,
			overpass.WithHTTPClient(&http.Client{Timeout: cfg.Overpass.Timeout()}),
			overpass.WithRateLimit(cfg.Overpass.RateLimitRPS),
		)
		qc := usgs.NewClient(cfg.USGS.Endpoint,
			usgs.WithHTTPClient(&http.Client{Timeout: cfg.USGS.Timeout()}),
		)

		srv := server.New(ov, qc, store, cfg.Overpass.Endpoint)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		httpSrv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           srv.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			zap.L().Info("starting server",
				zap.Int("port", port),
				zap.String("overpass", cfg.Overpass.Endpoint),
				zap.Int("cache_max_entries", cfg.Cache.MaxEntries),
				zap.Duration("cache_ttl", cfg.Cache.TTL()),
			)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return eris.Wrap(err, "server listen")
			}
			return nil
		})

		g.Go(func() error {
			<-gctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		})

		g.Go(func() error {
			ticker := time.NewTicker(sweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					if removed := store.Sweep(); removed > 0 {
						zap.L().Debug("cache sweep", zap.Int("removed", removed))
					}
				}
			}
		})

		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
