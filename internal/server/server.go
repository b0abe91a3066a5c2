// Package server exposes collected system metrics over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"pistat/internal/cache"
	"pistat/internal/config"
	"pistat/internal/metrics"
	"pistat/internal/ratelimit"
)

// MetricsSource is the collector surface the endpoint layer depends on.
// *metrics.Collector implements it; tests substitute fakes.
type MetricsSource interface {
	BuildSnapshot(opts metrics.Options) (*metrics.Snapshot, error)
	CPUTemperature() (float64, error)
	Uptime() (float64, error)
	Processes(key metrics.ProcessSort, limit int) ([]metrics.ProcessInfo, error)
	NetworkInterfaces() ([]metrics.InterfaceDetail, error)
	StorageDevices() ([]metrics.StorageDevice, error)
}

// Server wires the collector, cache and rate limiter behind the HTTP
// surface. All shared state is owned here and injected at construction,
// not held in package globals.
type Server struct {
	cfg     *config.Config
	log     *zap.SugaredLogger
	source  MetricsSource
	cache   *cache.SnapshotCache
	limiter *ratelimit.Limiter
	tel     *Telemetry
}

// New assembles a server from its collaborators.
func New(cfg *config.Config, log *zap.SugaredLogger, source MetricsSource,
	snapshotCache *cache.SnapshotCache, limiter *ratelimit.Limiter) *Server {
	return &Server{
		cfg:     cfg,
		log:     log,
		source:  source,
		cache:   snapshotCache,
		limiter: limiter,
		tel:     NewTelemetry(),
	}
}

// Handler builds the route table. Data endpoints share the rate
// limiter; the documentation page, health check and Prometheus endpoint
// are exempt so probes and dashboards cannot starve out real clients.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	route := func(path string, limited bool, h http.HandlerFunc) {
		var handler http.Handler = h
		if limited {
			handler = s.withRateLimit(handler)
		}
		mux.Handle(path, s.instrument(path, handler))
	}

	route("/", false, s.handleIndex)
	route("/health", false, s.handleHealth)
	route("/metrics", false, s.tel.Handler().ServeHTTP)
	route("/stats", true, s.handleStats)
	route("/temp", true, s.handleTemp)
	route("/processes", true, s.handleProcesses)
	route("/network/interfaces", true, s.handleNetworkInterfaces)
	route("/storage/devices", true, s.handleStorageDevices)

	return mux
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infof("listening on %s", s.cfg.Addr())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
