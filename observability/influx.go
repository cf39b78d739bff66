package observability

import (
	"context"
	"log/slog"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

const defaultMeasurement = "list_changes"

// PointWriter writes points synchronously. api.WriteAPIBlocking satisfies it.
type PointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

var _ PointWriter = (api.WriteAPIBlocking)(nil)

// InfluxObserver records the change counts of every applied change set as
// one point, giving a history of list updates. Write failures are logged and
// never reach the monitor.
type InfluxObserver struct {
	writer      PointWriter
	measurement string
	logger      *slog.Logger
}

// NewInfluxObserver creates an observer writing through w. An empty
// measurement uses "list_changes"; a nil logger uses slog.Default().
func NewInfluxObserver(w PointWriter, measurement string, logger *slog.Logger) *InfluxObserver {
	if measurement == "" {
		measurement = defaultMeasurement
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &InfluxObserver{writer: w, measurement: measurement, logger: logger}
}

// DialInflux opens a blocking write API for cfg. The returned close function
// releases the client.
func DialInflux(cfg InfluxConfig) (PointWriter, func(), error) {
	if cfg.URL == "" || cfg.Bucket == "" {
		return nil, nil, ErrInfluxConfig
	}
	client := influxdb2.NewClient(cfg.URL, cfg.Token)
	return client.WriteAPIBlocking(cfg.Org, cfg.Bucket), client.Close, nil
}

func (o *InfluxObserver) OnEvent(ctx context.Context, event Event) {
	if event.Type != EventChangesApplied {
		return
	}

	added, _ := intData(event, DataAdded)
	removed, _ := intData(event, DataRemoved)
	modified, _ := intData(event, DataModified)
	if added+removed+modified == 0 {
		return
	}

	p := influxdb2.NewPointWithMeasurement(o.measurement).
		AddTag("source", event.Source).
		AddField(DataAdded, added).
		AddField(DataRemoved, removed).
		AddField(DataModified, modified).
		SetTime(event.Timestamp)
	if id, ok := event.Data[DataCycleID].(string); ok {
		p.AddField(DataCycleID, id)
	}

	if err := o.writer.WritePoint(ctx, p); err != nil {
		o.logger.WarnContext(ctx, "influx write failed",
			"measurement", o.measurement,
			"source", event.Source,
			"error", err)
	}
}
