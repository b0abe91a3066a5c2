package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pistat/internal/cache"
	"pistat/internal/config"
	"pistat/internal/logger"
	"pistat/internal/metrics"
	"pistat/internal/ratelimit"
	"pistat/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the telemetry HTTP endpoint",
		Long: `Run the HTTP server exposing system metrics:

  /stats               full or filtered snapshot
  /health              liveness and uptime
  /temp                CPU temperature
  /processes           process listing
  /network/interfaces  per-interface detail
  /storage/devices     per-device detail
  /metrics             Prometheus self-metrics

Configuration comes from PISTAT_* environment variables or an optional
config.yaml (see pistat --help).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}

			log, err := logger.New(cfg.LogLevel, cfg.Debug)
			if err != nil {
				return err
			}
			logger.SetDefault(log)
			defer log.Sync()

			log.Infof("starting pistat %s (cache ttl %s, rate limit enabled=%t %d/%s)",
				GetCurrentVersion(), cfg.CacheTTL(),
				cfg.RateLimit.Enabled, cfg.RateLimit.Requests, cfg.RateLimitWindow())

			collector := metrics.NewCollector()
			snapshotCache := cache.New(cfg.CacheTTL())
			limiter := ratelimit.New(cfg.RateLimit.Enabled, cfg.RateLimit.Requests, cfg.RateLimitWindow())

			srv := server.New(cfg, log, collector, snapshotCache, limiter)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.ListenAndServe(ctx)
		},
	}
}
