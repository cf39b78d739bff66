package status_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/listmonitor/diff"
	"github.com/tailored-agentic-units/listmonitor/monitor"
	"github.com/tailored-agentic-units/listmonitor/status"
)

// --- Test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeProvider implements status.Provider for testing.
type fakeProvider struct {
	mu sync.Mutex
	s  monitor.Status
}

func (p *fakeProvider) Status() monitor.Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.s
}

// set replaces the reported status.
func (p *fakeProvider) set(s monitor.Status) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s = s
}

// at is the fixed timestamp used in sample statuses.
var at = time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)

// sampleStatus returns a status with every field set.
func sampleStatus() monitor.Status {
	return monitor.Status{
		Source:       "sdn",
		Running:      true,
		Interval:     time.Minute,
		Cycles:       7,
		Changes:      2,
		Entries:      12034,
		LastCycleID:  "0192-cycle",
		LastOutcome:  monitor.OutcomeUnchanged,
		LastCycleAt:  at,
		LastChangeAt: at.Add(-time.Hour),
		LastChange:   diff.Summary{Added: 3, Removed: 1},
	}
}

// --- Tests ---

func TestMap(t *testing.T) {
	m := status.Map(sampleStatus())

	assert.Equal(t, "sdn", m["source"])
	assert.Equal(t, "1m0s", m["interval"])
	assert.Equal(t, int64(7), m["cycles"])
	assert.Equal(t, 12034, m["entries"])
	assert.Equal(t, "unchanged", m["last_outcome"])
	assert.Equal(t, "2026-10-19T08:30:00Z", m["last_cycle_at"])
	assert.Equal(t, map[string]any{"added": 3, "removed": 1, "modified": 0}, m["last_change"])
	assert.NotContains(t, m, "last_error")

	empty := status.Map(monitor.Status{Source: "sdn"})
	assert.NotContains(t, empty, "last_cycle_at")
	assert.NotContains(t, empty, "last_cycle_id")
}

func TestClient_GetStatus(t *testing.T) {
	p := &fakeProvider{s: sampleStatus()}
	srv := httptest.NewServer(status.NewRouter(p, prometheus.NewRegistry()))
	defer srv.Close()

	client := status.NewClient(srv.Client(), srv.URL)
	got, err := client.GetStatus(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "sdn", got["source"])
	assert.Equal(t, true, got["running"])
	assert.Equal(t, float64(7), got["cycles"])
	assert.Equal(t, float64(12034), got["entries"])
	assert.Equal(t, "0192-cycle", got["last_cycle_id"])
	assert.Equal(t, map[string]any{"added": float64(3), "removed": float64(1), "modified": float64(0)}, got["last_change"])
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := status.NewClient(http.DefaultClient, srv.URL).GetStatus(context.Background())
	assert.Error(t, err)
}

func TestRouter_HealthAndReadiness(t *testing.T) {
	p := &fakeProvider{s: monitor.Status{Source: "sdn"}}
	router := status.NewRouter(p, prometheus.NewRegistry())

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, get("/healthz").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get("/readyz").Code)

	p.set(sampleStatus())
	assert.Equal(t, http.StatusOK, get("/readyz").Code)

	w := get("/status")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "sdn", body["source"])
	assert.Equal(t, float64(12034), body["entries"])
}

// --- Helper types ---

// changeLogProvider adds status.ChangeLog to fakeProvider.
type changeLogProvider struct {
	fakeProvider
	changes []monitor.Notification
}

func (p *changeLogProvider) Changes() []monitor.Notification {
	return p.changes
}

func TestRouter_Changes(t *testing.T) {
	w := httptest.NewRecorder()
	status.NewRouter(&fakeProvider{}, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/changes", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	p := &changeLogProvider{changes: []monitor.Notification{
		{Source: "sdn", CycleID: "c1", Summary: diff.Summary{Added: 2}, At: at},
	}}
	w = httptest.NewRecorder()
	status.NewRouter(p, nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/changes", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Changes []monitor.Notification `json:"changes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, p.changes, body.Changes)
}

func TestRouter_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "listmonitor_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	router := status.NewRouter(&fakeProvider{}, reg)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "listmonitor_test_total 1")
}

func TestRouter_Middleware(t *testing.T) {
	var hits int
	router := status.NewRouter(&fakeProvider{}, nil, func(c *gin.Context) {
		hits++
		c.Next()
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, 1, hits)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	cfg := status.Config{Addr: "127.0.0.1:0"}
	srv := status.NewServer(cfg, status.NewRouter(&fakeProvider{}, prometheus.NewRegistry()), nil)
	require.NoError(t, srv.Listen())
	addr := srv.Addr()
	require.NotNil(t, addr)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	resp, err := http.Get("http://" + addr.String() + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestServer_ListenError(t *testing.T) {
	srv := status.NewServer(status.Config{Addr: "256.0.0.1:bad"}, http.NotFoundHandler(), nil)
	assert.Error(t, srv.Serve(context.Background()))
}

func TestConfig_Merge(t *testing.T) {
	cfg := status.DefaultConfig()
	assert.True(t, cfg.Enabled())

	cfg.Merge(&status.Config{Addr: "127.0.0.1:8081"})
	assert.Equal(t, "127.0.0.1:8081", cfg.Addr)

	cfg.Merge(&status.Config{})
	assert.Equal(t, "127.0.0.1:8081", cfg.Addr)

	cfg.Merge(&status.Config{Addr: "-"})
	assert.False(t, cfg.Enabled())
}
