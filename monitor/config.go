package monitor

import (
	"time"

	"github.com/tailored-agentic-units/listmonitor/core/config"
)

const (
	// DefaultInterval is the pause between the end of one cycle and the
	// start of the next.
	DefaultInterval = 60 * time.Second

	// DefaultSource is the list name reported to change listeners.
	DefaultSource = "listmonitor"
)

// Config holds the monitor loop settings.
type Config struct {
	Interval *config.Duration `json:"interval,omitempty" yaml:"interval,omitempty" validate:"gt=0"`
	Source   string          `json:"source,omitempty" yaml:"source,omitempty" validate:"required"`
}

// DefaultConfig returns the default monitor configuration.
func DefaultConfig() Config {
	return Config{
		Interval: config.NewDuration(DefaultInterval),
		Source:   DefaultSource,
	}
}

// Merge applies set values from source into c. An explicit interval is
// taken as is, so Validate can reject a non-positive one.
func (c *Config) Merge(source *Config) {
	if source.Interval != nil {
		c.Interval = config.NewDuration(source.Interval.Std())
	}
	if source.Source != "" {
		c.Source = source.Source
	}
}

// Options converts the config into Monitor options.
func (c *Config) Options() []Option {
	return []Option{
		WithInterval(c.Interval.Std()),
		WithSource(c.Source),
	}
}
