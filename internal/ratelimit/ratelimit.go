// Package ratelimit implements fixed-window per-client admission
// control for the HTTP endpoint layer.
package ratelimit

import (
	"net"
	"sync"
	"time"
)

// pruneThreshold is the client-table size above which Allow sweeps
// expired windows. Pruning is lazy so no background goroutine is
// needed; the table stays bounded over long uptimes regardless of how
// many distinct clients come and go.
const pruneThreshold = 1024

type clientWindow struct {
	count       int
	windowStart time.Time
}

// Limiter tracks request counts per client in fixed windows. The window
// for a client starts at its first request and rolls over after the
// configured duration. Safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	enabled bool
	limit   int
	window  time.Duration
	clients map[string]*clientWindow
	now     func() time.Time
}

// New creates a limiter allowing limit requests per window per client.
// A disabled limiter admits everything and keeps no state.
func New(enabled bool, limit int, window time.Duration) *Limiter {
	return &Limiter{
		enabled: enabled,
		limit:   limit,
		window:  window,
		clients: make(map[string]*clientWindow),
		now:     time.Now,
	}
}

// Allow reports whether a request from the given client is admitted.
// When denied, the second return value is the time until the client's
// window rolls over, suitable for a Retry-After header.
func (l *Limiter) Allow(clientKey string) (bool, time.Duration) {
	if !l.enabled {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if len(l.clients) > pruneThreshold {
		l.prune(now)
	}

	cw, ok := l.clients[clientKey]
	if !ok || now.Sub(cw.windowStart) >= l.window {
		l.clients[clientKey] = &clientWindow{count: 1, windowStart: now}
		return true, 0
	}

	if cw.count >= l.limit {
		return false, cw.windowStart.Add(l.window).Sub(now)
	}

	cw.count++
	return true, 0
}

// prune drops windows that have already expired. Caller holds l.mu.
func (l *Limiter) prune(now time.Time) {
	for key, cw := range l.clients {
		if now.Sub(cw.windowStart) >= l.window {
			delete(l.clients, key)
		}
	}
}

// Enabled reports whether the limiter performs any bookkeeping.
func (l *Limiter) Enabled() bool {
	return l.enabled
}

// ClientKey derives the rate-limiting key from an HTTP remote address.
// The raw source address is used deliberately: pistat serves LAN
// clients directly with no trusted proxy in front, and honoring
// X-Forwarded-For from arbitrary peers would let a client reset its own
// window.
func ClientKey(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
