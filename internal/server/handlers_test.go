package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"pistat/internal/cache"
	"pistat/internal/config"
	"pistat/internal/encoding"
	"pistat/internal/metrics"
	"pistat/internal/ratelimit"
)

// fakeSource implements MetricsSource with canned data and records what
// the handlers asked for.
type fakeSource struct {
	buildCalls int
	buildErr   error

	uptime    float64
	uptimeErr error
	temp      float64
	tempErr   error

	lastSort  metrics.ProcessSort
	lastLimit int
	procs     []metrics.ProcessInfo

	ifaces  []metrics.InterfaceDetail
	devices []metrics.StorageDevice

	gpuFails bool
}

func (f *fakeSource) BuildSnapshot(opts metrics.Options) (*metrics.Snapshot, error) {
	if f.buildErr != nil {
		return nil, f.buildErr
	}
	f.buildCalls++

	temp := 45.8
	usage := 12.5
	uptime := 86400.5
	s := &metrics.Snapshot{
		CPUTemp:   &temp,
		CPUUsage:  &usage,
		Memory:    &metrics.MemoryInfo{Total: 8 << 30, Used: 2 << 30, Percent: 25},
		Uptime:    &uptime,
		GPU:       &metrics.GPUInfo{},
		Timestamp: float64(f.buildCalls),
	}
	if f.gpuFails {
		s.GPU = nil
		s.Errors = map[string]string{"gpu": "vcgencmd unavailable"}
	}
	return s, nil
}

func (f *fakeSource) CPUTemperature() (float64, error) { return f.temp, f.tempErr }
func (f *fakeSource) Uptime() (float64, error)         { return f.uptime, f.uptimeErr }

func (f *fakeSource) Processes(key metrics.ProcessSort, limit int) ([]metrics.ProcessInfo, error) {
	f.lastSort = key
	f.lastLimit = limit
	return f.procs, nil
}

func (f *fakeSource) NetworkInterfaces() ([]metrics.InterfaceDetail, error) {
	return f.ifaces, nil
}

func (f *fakeSource) StorageDevices() ([]metrics.StorageDevice, error) {
	return f.devices, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Host:         "127.0.0.1",
		Port:         8585,
		CacheSeconds: 2,
		LogLevel:     "info",
		RateLimit:    config.RateLimitConfig{Enabled: false},
	}
}

func newTestServer(src *fakeSource, ttl time.Duration, limiter *ratelimit.Limiter) *Server {
	if limiter == nil {
		limiter = ratelimit.New(false, 0, 0)
	}
	return New(testConfig(), zap.NewNop().Sugar(), src, cache.New(ttl), limiter)
}

func get(t *testing.T, handler http.Handler, target string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = "192.168.1.10:54321"
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.NewDecoder(body).Decode(&out); err != nil {
		t.Fatalf("cannot decode response: %v", err)
	}
	return out
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&fakeSource{uptime: 86400.5}, time.Second, nil)

	w := get(t, srv.Handler(), "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}
	body := decodeJSON(t, w.Body)
	if body["status"] != "healthy" {
		t.Errorf("status=%v, want healthy", body["status"])
	}
	if body["uptime"] != 86400.5 {
		t.Errorf("uptime=%v, want 86400.5", body["uptime"])
	}
}

func TestHealth_UptimeUnavailable(t *testing.T) {
	srv := newTestServer(&fakeSource{uptimeErr: errors.New("no /proc")}, time.Second, nil)

	w := get(t, srv.Handler(), "/health", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d, want 500", w.Code)
	}
	if body := decodeJSON(t, w.Body); body["status"] != "unhealthy" {
		t.Errorf("status=%v, want unhealthy", body["status"])
	}
}

func TestStats_FullSnapshot(t *testing.T) {
	srv := newTestServer(&fakeSource{}, time.Hour, nil)

	w := get(t, srv.Handler(), "/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}
	body := decodeJSON(t, w.Body)
	if _, ok := body["cpu_usage"]; !ok {
		t.Error("full snapshot missing cpu_usage")
	}
	if _, ok := body["memory"]; !ok {
		t.Error("full snapshot missing memory")
	}
}

func TestStats_CacheHitServesSameSnapshot(t *testing.T) {
	src := &fakeSource{}
	srv := newTestServer(src, time.Hour, nil)
	handler := srv.Handler()

	first := decodeJSON(t, get(t, handler, "/stats", nil).Body)
	second := decodeJSON(t, get(t, handler, "/stats", nil).Body)

	if src.buildCalls != 1 {
		t.Errorf("expected 1 collection for 2 requests within TTL, got %d", src.buildCalls)
	}
	if first["timestamp"] != second["timestamp"] {
		t.Error("cached response should carry the same timestamp")
	}
}

func TestStats_CacheBypass(t *testing.T) {
	src := &fakeSource{}
	srv := newTestServer(src, time.Hour, nil)
	handler := srv.Handler()

	get(t, handler, "/stats", nil)
	get(t, handler, "/stats?cache=false", nil)

	if src.buildCalls != 2 {
		t.Errorf("expected bypass to force fresh collection, got %d calls", src.buildCalls)
	}
}

func TestStats_FieldFiltering(t *testing.T) {
	srv := newTestServer(&fakeSource{}, time.Hour, nil)

	w := get(t, srv.Handler(), "/stats?fields=cpu_usage,memory", nil)
	body := decodeJSON(t, w.Body)
	if len(body) != 2 {
		t.Errorf("expected exactly 2 keys, got %d: %v", len(body), body)
	}
}

func TestStats_PartialFailureStill200(t *testing.T) {
	srv := newTestServer(&fakeSource{gpuFails: true}, time.Hour, nil)

	w := get(t, srv.Handler(), "/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200 despite gpu failure", w.Code)
	}
	body := decodeJSON(t, w.Body)
	if v, ok := body["gpu"]; !ok || v != nil {
		t.Errorf("gpu should be explicit null, got %v (present=%t)", v, ok)
	}
	if _, ok := body["memory"]; !ok {
		t.Error("other categories should still be populated")
	}
	errs, ok := body["errors"].(map[string]interface{})
	if !ok || errs["gpu"] == nil {
		t.Errorf("expected errors.gpu reason, got %v", body["errors"])
	}
}

func TestStats_CollectionFailure500(t *testing.T) {
	srv := newTestServer(&fakeSource{buildErr: errors.New("boom")}, time.Hour, nil)

	w := get(t, srv.Handler(), "/stats", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status=%d, want 500", w.Code)
	}
}

func TestStats_RateLimited(t *testing.T) {
	limiter := ratelimit.New(true, 1, time.Minute)
	srv := newTestServer(&fakeSource{}, time.Hour, limiter)
	handler := srv.Handler()

	if w := get(t, handler, "/stats", nil); w.Code != http.StatusOK {
		t.Fatalf("first request: status=%d, want 200", w.Code)
	}

	w := get(t, handler, "/stats", nil)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status=%d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("429 response missing Retry-After header")
	}
	body := decodeJSON(t, w.Body)
	if body["retry_after"] == nil {
		t.Error("429 body missing retry_after hint")
	}

	// Health and the docs page stay reachable for the limited client.
	if w := get(t, handler, "/health", nil); w.Code != http.StatusOK {
		t.Errorf("/health should be exempt from rate limiting, got %d", w.Code)
	}
	if w := get(t, handler, "/", nil); w.Code != http.StatusOK {
		t.Errorf("/ should be exempt from rate limiting, got %d", w.Code)
	}
}

func TestStats_CBORNegotiation(t *testing.T) {
	srv := newTestServer(&fakeSource{}, time.Hour, nil)

	w := get(t, srv.Handler(), "/stats", map[string]string{"Accept": "application/cbor"})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != encoding.ContentTypeCBOR {
		t.Fatalf("content type=%q, want %q", ct, encoding.ContentTypeCBOR)
	}
	var body map[string]interface{}
	if err := encoding.UnmarshalCBOR(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("cannot decode CBOR body: %v", err)
	}
	if _, ok := body["cpu_usage"]; !ok {
		t.Error("CBOR body missing cpu_usage")
	}
}

func TestTemp(t *testing.T) {
	srv := newTestServer(&fakeSource{temp: 45.8}, time.Hour, nil)

	w := get(t, srv.Handler(), "/temp", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}
	body := decodeJSON(t, w.Body)
	if body["temperature"] != 45.8 {
		t.Errorf("temperature=%v, want 45.8", body["temperature"])
	}
	if body["unit"] != "Celsius" {
		t.Errorf("unit=%v, want Celsius", body["unit"])
	}
}

func TestTemp_Unreadable(t *testing.T) {
	srv := newTestServer(&fakeSource{tempErr: errors.New("no sensor")}, time.Hour, nil)

	if w := get(t, srv.Handler(), "/temp", nil); w.Code != http.StatusInternalServerError {
		t.Errorf("status=%d, want 500", w.Code)
	}
}

func TestProcesses_PassesSortAndLimit(t *testing.T) {
	src := &fakeSource{procs: []metrics.ProcessInfo{
		{PID: 1, Name: "init", CPUPercent: 90},
		{PID: 2, Name: "kthreadd", CPUPercent: 40},
	}}
	srv := newTestServer(src, time.Hour, nil)

	w := get(t, srv.Handler(), "/processes?sort=memory&limit=5", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}
	if src.lastSort != metrics.SortMemory {
		t.Errorf("sort=%q, want memory", src.lastSort)
	}
	if src.lastLimit != 5 {
		t.Errorf("limit=%d, want 5", src.lastLimit)
	}
	body := decodeJSON(t, w.Body)
	if body["count"] != float64(2) {
		t.Errorf("count=%v, want 2", body["count"])
	}
}

func TestProcesses_InvalidParamsFallBack(t *testing.T) {
	src := &fakeSource{}
	srv := newTestServer(src, time.Hour, nil)

	if w := get(t, srv.Handler(), "/processes?sort=bogus&limit=-3", nil); w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}
	if src.lastSort != metrics.SortCPU {
		t.Errorf("unknown sort should fall back to cpu, got %q", src.lastSort)
	}
	if src.lastLimit != 0 {
		t.Errorf("negative limit should fall back to 0, got %d", src.lastLimit)
	}
}

func TestNetworkInterfacesAndStorageDevices(t *testing.T) {
	src := &fakeSource{
		ifaces:  []metrics.InterfaceDetail{{Name: "eth0", IsUp: true}},
		devices: []metrics.StorageDevice{{Device: "/dev/mmcblk0p2", Mountpoint: "/"}},
	}
	srv := newTestServer(src, time.Hour, nil)
	handler := srv.Handler()

	w := get(t, handler, "/network/interfaces", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("/network/interfaces status=%d, want 200", w.Code)
	}
	if body := decodeJSON(t, w.Body); body["count"] != float64(1) {
		t.Errorf("interface count=%v, want 1", body["count"])
	}

	w = get(t, handler, "/storage/devices", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("/storage/devices status=%d, want 200", w.Code)
	}
	if body := decodeJSON(t, w.Body); body["count"] != float64(1) {
		t.Errorf("device count=%v, want 1", body["count"])
	}
}

func TestIndex(t *testing.T) {
	srv := newTestServer(&fakeSource{}, time.Hour, nil)
	handler := srv.Handler()

	w := get(t, handler, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type=%q, want text/html", ct)
	}

	if w := get(t, handler, "/no-such-page", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown path status=%d, want 404", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&fakeSource{}, time.Hour, nil)
	handler := srv.Handler()

	// Generate some traffic so counters exist in the exposition.
	get(t, handler, "/stats", nil)

	w := get(t, handler, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "pistat_http_requests_total") {
		t.Error("exposition missing pistat_http_requests_total")
	}
	if !strings.Contains(w.Body.String(), "pistat_snapshot_cache_misses_total") {
		t.Error("exposition missing pistat_snapshot_cache_misses_total")
	}
}
