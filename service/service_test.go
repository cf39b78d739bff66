package service_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/listmonitor/core/config"
	"github.com/tailored-agentic-units/listmonitor/diff"
	"github.com/tailored-agentic-units/listmonitor/monitor"
	"github.com/tailored-agentic-units/listmonitor/observability"
	"github.com/tailored-agentic-units/listmonitor/sdn"
	"github.com/tailored-agentic-units/listmonitor/service"
	"github.com/tailored-agentic-units/listmonitor/snapshot"
)

// --- Test helpers ---

// discard is a logger that writes nowhere.
var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// entryXML renders an SDN document with one entry per uid.
func entryXML(uids ...string) string {
	var b strings.Builder
	b.WriteString(`<sdnList xmlns="http://tempuri.org/sdnList.xsd">`)
	for _, uid := range uids {
		b.WriteString(`<sdnEntry><uid>` + uid + `</uid><lastName>NAME ` + uid + `</lastName><sdnType>Entity</sdnType></sdnEntry>`)
	}
	b.WriteString(`</sdnList>`)
	return b.String()
}

// listFile is an SDN document on disk that tests rewrite between cycles.
type listFile struct {
	path string
	mod  time.Time
}

// newListFile writes content to a temp file.
func newListFile(t *testing.T, content string) *listFile {
	t.Helper()
	f := &listFile{path: filepath.Join(t.TempDir(), "sdn.xml"), mod: time.Now()}
	f.write(t, content)
	return f
}

// write replaces the file atomically so a concurrent read never sees a
// partial document.
func (f *listFile) write(t *testing.T, content string) {
	t.Helper()
	tmp := f.path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(content), 0o600))
	f.mod = f.mod.Add(time.Minute)
	require.NoError(t, os.Chtimes(tmp, f.mod, f.mod))
	require.NoError(t, os.Rename(tmp, f.path))
}

// testConfig returns a config reading source with a short interval and
// no status server.
func testConfig(source string) *service.Config {
	cfg := service.DefaultConfig()
	cfg.Monitor.Interval = config.NewDuration(5 * time.Millisecond)
	cfg.Monitor.Source = "sdn"
	cfg.SDN.Source = source
	cfg.Status.Addr = ""
	return &cfg
}

// --- Tests ---

func TestNew_RequiresSource(t *testing.T) {
	_, err := service.New(testConfig(""), service.WithLogger(discard))
	assert.ErrorIs(t, err, service.ErrInvalidConfig)
}

func TestNew_UnknownObserver(t *testing.T) {
	cfg := testConfig("sdn.xml")
	cfg.Observability.Observers = []string{"nonexistent"}

	_, err := service.New(cfg, service.WithLogger(discard))
	assert.ErrorIs(t, err, service.ErrInvalidConfig)
}

func TestNew_InfluxRequiresConnection(t *testing.T) {
	cfg := testConfig("sdn.xml")
	cfg.Observability.Observers = []string{observability.ObserverInflux}

	_, err := service.New(cfg, service.WithLogger(discard))
	assert.ErrorIs(t, err, service.ErrInvalidConfig)
	assert.ErrorIs(t, err, observability.ErrInfluxConfig)
}

func TestService_DetectsFileChanges(t *testing.T) {
	list := newListFile(t, entryXML("1", "2"))
	notes := make(chan monitor.Notification, 8)

	svc, err := service.New(testConfig(list.path),
		service.WithLogger(discard),
		service.WithChangeFunc(func(_ context.Context, n monitor.Notification) { notes <- n }),
	)
	require.NoError(t, err)
	defer svc.Close(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	first := <-notes
	assert.Equal(t, "sdn", first.Source)
	assert.Equal(t, diff.Summary{Added: 2}, first.Summary)

	list.write(t, entryXML("2", "3", "4"))
	second := <-notes
	assert.Equal(t, diff.Summary{Added: 2, Removed: 1}, second.Summary)

	cancel()
	require.NoError(t, <-done)

	st := svc.Monitor().Status()
	assert.Equal(t, 3, st.Entries)
	assert.Equal(t, int64(2), st.Changes)
	require.Len(t, svc.Session().Changes(), 2)
	assert.Equal(t, second, svc.Session().Changes()[1])

	n, err := testutil.GatherAndCount(svc.Registry(), "listmonitor_cycles_total")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)
}

func TestService_SeedEstablishesBaseline(t *testing.T) {
	list := newListFile(t, entryXML("1", "2"))
	notes := make(chan monitor.Notification, 8)

	cfg := testConfig(list.path)
	cfg.Seed = true

	var mu sync.Mutex
	var outcomes []string
	var seeded int
	svc, err := service.New(cfg,
		service.WithLogger(discard),
		service.WithChangeFunc(func(_ context.Context, n monitor.Notification) { notes <- n }),
		service.WithObserver(observability.ObserverFunc(func(_ context.Context, e observability.Event) {
			mu.Lock()
			defer mu.Unlock()
			if e.Type == observability.EventStoreSeeded {
				seeded, _ = e.Data[observability.DataEntries].(int)
				return
			}
			if o, ok := e.Data[observability.DataOutcome].(string); ok {
				outcomes = append(outcomes, o)
			}
		})),
	)
	require.NoError(t, err)
	defer svc.Close(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(outcomes) > 0
	}, 5*time.Second, time.Millisecond)

	list.write(t, entryXML("1", "2", "3"))
	n := <-notes
	assert.Equal(t, diff.Summary{Added: 1}, n.Summary)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, string(monitor.OutcomeNoData), outcomes[0])
	assert.Equal(t, 2, seeded)
}

func TestService_FailsFast(t *testing.T) {
	boom := errors.New("boom")
	r := monitor.RetrieverFunc[int, *sdn.Entry](func(context.Context) (*snapshot.Snapshot[int, *sdn.Entry], error) {
		return nil, boom
	})

	svc, err := service.New(testConfig(""), service.WithLogger(discard), service.WithRetriever(r))
	require.NoError(t, err)
	defer svc.Close(context.Background())

	err = svc.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, svc.Monitor().Status().LastError, "boom")
}

func TestService_SeedFailure(t *testing.T) {
	cfg := testConfig(filepath.Join(t.TempDir(), "missing.xml"))
	cfg.Seed = true

	svc, err := service.New(cfg, service.WithLogger(discard))
	require.NoError(t, err)
	defer svc.Close(context.Background())

	assert.ErrorIs(t, svc.Run(context.Background()), sdn.ErrFetch)
}

// --- Helper types ---

// fakeWriter implements observability.PointWriter for testing.
type fakeWriter struct {
	mu     sync.Mutex
	points []*write.Point
}

func (w *fakeWriter) WritePoint(_ context.Context, points ...*write.Point) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.points = append(w.points, points...)
	return nil
}

// len returns the number of points written.
func (w *fakeWriter) len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.points)
}

func TestService_InfluxObserver(t *testing.T) {
	list := newListFile(t, entryXML("1"))
	cfg := testConfig(list.path)
	cfg.Observability.Observers = []string{observability.ObserverInflux}

	w := &fakeWriter{}
	notes := make(chan monitor.Notification, 1)
	svc, err := service.New(cfg,
		service.WithLogger(discard),
		service.WithPointWriter(w),
		service.WithChangeFunc(func(_ context.Context, n monitor.Notification) { notes <- n }),
	)
	require.NoError(t, err)
	defer svc.Close(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	<-notes
	cancel()
	require.NoError(t, <-done)

	assert.Equal(t, 1, w.len())
	assert.Equal(t, "list_changes", w.points[0].Name())
}

func TestService_Handler(t *testing.T) {
	svc, err := service.New(testConfig("sdn.xml"), service.WithLogger(discard))
	require.NoError(t, err)
	defer svc.Close(context.Background())
	assert.Nil(t, svc.Server())

	w := httptest.NewRecorder()
	svc.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"source":"sdn"`)
}

func TestService_StatusServer(t *testing.T) {
	list := newListFile(t, entryXML("1"))
	cfg := testConfig(list.path)
	cfg.Monitor.Interval = config.NewDuration(time.Hour)
	cfg.Status.Addr = "127.0.0.1:0"

	svc, err := service.New(cfg, service.WithLogger(discard))
	require.NoError(t, err)
	defer svc.Close(context.Background())

	require.NoError(t, svc.Server().Listen())
	base := "http://" + svc.Server().Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/readyz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}
