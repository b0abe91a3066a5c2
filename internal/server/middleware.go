package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"pistat/internal/ratelimit"
)

// statusRecorder captures the status code written by a handler so the
// request counter can label it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// instrument wraps a handler with request counting and debug logging.
// path is the registered route, not the raw URL, to keep label
// cardinality bounded.
func (s *Server) instrument(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.tel.requests.WithLabelValues(path, strconv.Itoa(rec.status)).Inc()
		s.log.Debugf("%s %s -> %d (%s) client=%s",
			r.Method, r.URL.RequestURI(), rec.status,
			time.Since(start).Round(time.Microsecond),
			ratelimit.ClientKey(r.RemoteAddr))
	})
}

// withRateLimit applies per-client admission control. Denied requests
// get a 429 with a Retry-After hint; /health, / and /metrics bypass
// this middleware entirely.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientKey := ratelimit.ClientKey(r.RemoteAddr)
		ok, retryAfter := s.limiter.Allow(clientKey)
		if !ok {
			s.tel.rateLimited.Inc()
			retrySeconds := int(retryAfter.Seconds()) + 1
			w.Header().Set("Retry-After", strconv.Itoa(retrySeconds))
			respond(w, r, http.StatusTooManyRequests, map[string]interface{}{
				"error":       "rate limit exceeded",
				"retry_after": retrySeconds,
				"message":     fmt.Sprintf("try again in %d seconds", retrySeconds),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}
