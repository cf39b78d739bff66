package observability

// Built-in observer names understood by the service wiring.
const (
	ObserverSlog       = "slog"
	ObserverPrometheus = "prometheus"
	ObserverInflux     = "influx"
)

// Config selects which observers receive monitor events.
type Config struct {
	// Observers lists observer names: built-ins or names added with
	// RegisterObserver.
	Observers []string      `json:"observers,omitempty" yaml:"observers,omitempty"`
	Influx    InfluxConfig  `json:"influx,omitempty" yaml:"influx,omitempty"`
	Tracing   TracingConfig `json:"tracing,omitempty" yaml:"tracing,omitempty"`
}

// InfluxConfig addresses the InfluxDB bucket that change counts are written to.
type InfluxConfig struct {
	URL         string `json:"url,omitempty" yaml:"url,omitempty" validate:"omitempty,url"`
	Token       string `json:"token,omitempty" yaml:"token,omitempty"`
	Org         string `json:"org,omitempty" yaml:"org,omitempty"`
	Bucket      string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Measurement string `json:"measurement,omitempty" yaml:"measurement,omitempty"`
}

// DefaultConfig logs events through slog and exports Prometheus metrics.
func DefaultConfig() Config {
	return Config{
		Observers: []string{ObserverSlog, ObserverPrometheus},
		Influx: InfluxConfig{
			Measurement: defaultMeasurement,
		},
		Tracing: TracingConfig{
			Exporter: TraceExporterNone,
		},
	}
}

// Merge applies non-zero values from source into c. A non-empty observer
// list replaces the current one.
func (c *Config) Merge(source *Config) {
	if len(source.Observers) > 0 {
		c.Observers = append([]string(nil), source.Observers...)
	}
	c.Influx.Merge(&source.Influx)
	c.Tracing.Merge(&source.Tracing)
}

// Merge applies non-empty values from source into c.
func (c *InfluxConfig) Merge(source *InfluxConfig) {
	if source.URL != "" {
		c.URL = source.URL
	}
	if source.Token != "" {
		c.Token = source.Token
	}
	if source.Org != "" {
		c.Org = source.Org
	}
	if source.Bucket != "" {
		c.Bucket = source.Bucket
	}
	if source.Measurement != "" {
		c.Measurement = source.Measurement
	}
}

