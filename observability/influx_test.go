package observability_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/listmonitor/observability"
)

// --- Test helpers ---

// fakeWriter implements observability.PointWriter for testing.
type fakeWriter struct {
	points []*write.Point
	err    error
}

func (w *fakeWriter) WritePoint(_ context.Context, points ...*write.Point) error {
	w.points = append(w.points, points...)
	return w.err
}

// appliedEvent builds a changes-applied event with the given counts.
func appliedEvent(added, removed, modified int) observability.Event {
	return observability.Event{
		Type:      observability.EventChangesApplied,
		Level:     observability.LevelInfo,
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Source:    "sdn",
		Data: map[string]any{
			observability.DataCycleID:  "cycle-1",
			observability.DataAdded:    added,
			observability.DataRemoved:  removed,
			observability.DataModified: modified,
		},
	}
}

// --- Tests ---

func TestInfluxObserver_WritesChangePoint(t *testing.T) {
	w := &fakeWriter{}
	obs := observability.NewInfluxObserver(w, "", nil)

	obs.OnEvent(context.Background(), appliedEvent(2, 1, 4))

	require.Len(t, w.points, 1)
	p := w.points[0]
	assert.Equal(t, "list_changes", p.Name())
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), p.Time())

	tags := map[string]string{}
	for _, tag := range p.TagList() {
		tags[tag.Key] = tag.Value
	}
	assert.Equal(t, map[string]string{"source": "sdn"}, tags)

	fields := map[string]any{}
	for _, f := range p.FieldList() {
		fields[f.Key] = f.Value
	}
	assert.Equal(t, int64(2), fields["added"])
	assert.Equal(t, int64(1), fields["removed"])
	assert.Equal(t, int64(4), fields["modified"])
	assert.Equal(t, "cycle-1", fields["cycle_id"])
}

func TestInfluxObserver_SkipsEmptyAndOtherEvents(t *testing.T) {
	w := &fakeWriter{}
	obs := observability.NewInfluxObserver(w, "custom", nil)

	obs.OnEvent(context.Background(), appliedEvent(0, 0, 0))
	obs.OnEvent(context.Background(), observability.Event{Type: observability.EventCycleUnchanged})

	assert.Empty(t, w.points)
}

func TestInfluxObserver_WriteErrorIsLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	w := &fakeWriter{err: errors.New("connection refused")}

	obs := observability.NewInfluxObserver(w, "", logger)
	obs.OnEvent(context.Background(), appliedEvent(1, 0, 0))

	assert.Contains(t, buf.String(), "influx write failed")
	assert.Contains(t, buf.String(), "connection refused")
}

func TestDialInflux_RequiresURLAndBucket(t *testing.T) {
	_, _, err := observability.DialInflux(observability.InfluxConfig{URL: "http://localhost:8086"})
	assert.ErrorIs(t, err, observability.ErrInfluxConfig)

	w, closeFn, err := observability.DialInflux(observability.InfluxConfig{
		URL:    "http://localhost:8086",
		Bucket: "lists",
	})
	require.NoError(t, err)
	assert.NotNil(t, w)
	closeFn()
}
