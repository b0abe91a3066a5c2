package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"pistat/internal/metrics"
)

// boolParam reads a query parameter as a boolean with a default for
// absent or malformed values ("true"/"false", case-insensitive).
func boolParam(r *http.Request, name string, def bool) bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	switch strings.ToLower(raw) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}
	return def
}

// handleIndex serves the static documentation page on exactly "/".
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(docsHTML))
}

// handleHealth reports service liveness plus system uptime.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	uptime, err := s.source.Uptime()
	if err != nil {
		s.log.Errorf("health check failed: %v", err)
		respond(w, r, http.StatusInternalServerError, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	respond(w, r, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"uptime": uptime,
	})
}

// handleTemp returns the CPU temperature on its own, the cheapest probe
// for thermal dashboards.
func (s *Server) handleTemp(w http.ResponseWriter, r *http.Request) {
	temp, err := s.source.CPUTemperature()
	if err != nil {
		s.log.Errorf("temperature read failed: %v", err)
		respondError(w, r, http.StatusInternalServerError, "unable to read temperature")
		return
	}
	respond(w, r, http.StatusOK, map[string]interface{}{
		"temperature": temp,
		"unit":        "Celsius",
		"timestamp":   float64(time.Now().UnixNano()) / 1e9,
	})
}

// handleStats serves the full or filtered snapshot.
//
// Query parameters:
//
//	block=true   enable the ~1s blocking CPU measurement
//	cache=false  bypass the snapshot cache
//	fields=a,b   restrict the response to the named categories
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	block := boolParam(r, "block", false)
	useCache := boolParam(r, "cache", true)
	fields := metrics.ParseFields(r.URL.Query().Get("fields"))

	start := time.Now()
	snapshot, fromCache, err := s.cache.GetOrCollect(func() (*metrics.Snapshot, error) {
		return s.source.BuildSnapshot(metrics.Options{BlockCPU: block})
	}, !useCache)
	if err != nil {
		s.log.Errorf("snapshot collection failed: %v", err)
		respondError(w, r, http.StatusInternalServerError, "failed to collect system statistics")
		return
	}

	if fromCache {
		s.tel.cacheHits.Inc()
	} else {
		s.tel.cacheMisses.Inc()
		s.tel.collectDuration.Observe(time.Since(start).Seconds())
	}

	if fields != nil {
		respond(w, r, http.StatusOK, snapshot.Project(fields))
		return
	}
	respond(w, r, http.StatusOK, snapshot)
}

// handleProcesses lists processes sorted descending by the requested
// key (cpu, memory, name, pid or time) and truncated to limit.
func (s *Server) handleProcesses(w http.ResponseWriter, r *http.Request) {
	sortKey := metrics.ParseProcessSort(r.URL.Query().Get("sort"))

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	procs, err := s.source.Processes(sortKey, limit)
	if err != nil {
		s.log.Errorf("process listing failed: %v", err)
		respondError(w, r, http.StatusInternalServerError, "failed to list processes")
		return
	}
	respond(w, r, http.StatusOK, map[string]interface{}{
		"processes": procs,
		"count":     len(procs),
	})
}

// handleNetworkInterfaces serves the network category on its own.
func (s *Server) handleNetworkInterfaces(w http.ResponseWriter, r *http.Request) {
	interfaces, err := s.source.NetworkInterfaces()
	if err != nil {
		s.log.Errorf("interface listing failed: %v", err)
		respondError(w, r, http.StatusInternalServerError, "failed to list network interfaces")
		return
	}
	respond(w, r, http.StatusOK, map[string]interface{}{
		"interfaces": interfaces,
		"count":      len(interfaces),
	})
}

// handleStorageDevices serves the storage category on its own.
func (s *Server) handleStorageDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := s.source.StorageDevices()
	if err != nil {
		s.log.Errorf("storage listing failed: %v", err)
		respondError(w, r, http.StatusInternalServerError, "failed to list storage devices")
		return
	}
	respond(w, r, http.StatusOK, map[string]interface{}{
		"devices": devices,
		"count":   len(devices),
	})
}
