package monitor

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/tailored-agentic-units/listmonitor/observability"
)

const tracerName = "github.com/tailored-agentic-units/listmonitor/monitor"

type options struct {
	interval time.Duration
	source   string
	observer observability.Observer
	now      func() time.Time
	tracer   trace.Tracer
}

func defaultOptions() options {
	return options{
		interval: DefaultInterval,
		source:   DefaultSource,
		observer: observability.NoOpObserver{},
		now:      time.Now,
		tracer:   otel.Tracer(tracerName),
	}
}

// Option configures a Monitor.
type Option func(*options)

// WithInterval sets the pause between cycles. It must be positive.
func WithInterval(d time.Duration) Option {
	return func(o *options) { o.interval = d }
}

// WithSource names the monitored list in notifications, events, and status.
func WithSource(name string) Option {
	return func(o *options) {
		if name != "" {
			o.source = name
		}
	}
}

// WithObserver sets the lifecycle event observer. The default drops events.
func WithObserver(obs observability.Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithClock replaces time.Now for event timestamps, notification times, and
// cycle durations.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithTracerProvider sets the provider for cycle spans. The default is the
// global otel provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		if tp != nil {
			o.tracer = tp.Tracer(tracerName)
		}
	}
}
