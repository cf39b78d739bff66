package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusObserver turns monitor events into Prometheus metrics.
type PrometheusObserver struct {
	cycles   *prometheus.CounterVec
	changes  *prometheus.CounterVec
	entries  prometheus.Gauge
	duration prometheus.Histogram
	errors   prometheus.Counter
}

// NewPrometheusObserver registers the monitor metrics on reg. A nil reg uses
// prometheus.DefaultRegisterer. Registering twice on the same registry panics.
func NewPrometheusObserver(reg prometheus.Registerer) *PrometheusObserver {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusObserver{
		cycles: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "listmonitor_cycles_total",
			Help: "Completed monitor cycles by outcome",
		}, []string{"outcome"}),
		changes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "listmonitor_changes_total",
			Help: "Applied record changes by kind",
		}, []string{"kind"}),
		entries: factory.NewGauge(prometheus.GaugeOpts{
			Name: "listmonitor_entries",
			Help: "Records held in the snapshot store after the last cycle",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "listmonitor_cycle_duration_seconds",
			Help:    "Monitor cycle duration",
			Buckets: prometheus.ExponentialBuckets(0.005, 4, 10),
		}),
		errors: factory.NewCounter(prometheus.CounterOpts{
			Name: "listmonitor_errors_total",
			Help: "Monitor cycles that failed",
		}),
	}
}

func (o *PrometheusObserver) OnEvent(_ context.Context, event Event) {
	switch event.Type {
	case EventCycleError:
		o.errors.Inc()
		return
	case EventChangesApplied:
		for _, kind := range []string{DataAdded, DataRemoved, DataModified} {
			if n, ok := intData(event, kind); ok && n > 0 {
				o.changes.WithLabelValues(kind).Add(float64(n))
			}
		}
	case EventCycleNoData, EventCycleNoResult, EventCycleUnchanged:
	default:
		return
	}

	if outcome, ok := event.Data[DataOutcome].(string); ok {
		o.cycles.WithLabelValues(outcome).Inc()
	}
	if n, ok := intData(event, DataEntries); ok {
		o.entries.Set(float64(n))
	}
	if d, ok := event.Data[DataDuration].(time.Duration); ok {
		o.duration.Observe(d.Seconds())
	}
}
