package status

import (
	"time"

	"github.com/tailored-agentic-units/listmonitor/core/config"
)

const (
	DefaultAddr            = ":9090"
	DefaultShutdownTimeout = 5 * time.Second
)

// Config holds the status server settings. An empty Addr disables the
// server.
type Config struct {
	Addr            string           `json:"addr" yaml:"addr"`
	ShutdownTimeout *config.Duration `json:"shutdown_timeout,omitempty" yaml:"shutdown_timeout,omitempty" validate:"omitempty,gte=0"`
}

// DefaultConfig returns the default status server configuration.
func DefaultConfig() Config {
	return Config{
		Addr:            DefaultAddr,
		ShutdownTimeout: config.NewDuration(DefaultShutdownTimeout),
	}
}

// Merge applies set values from source into c. Addr "-" disables the
// server.
func (c *Config) Merge(source *Config) {
	switch source.Addr {
	case "":
	case "-":
		c.Addr = ""
	default:
		c.Addr = source.Addr
	}
	if source.ShutdownTimeout != nil {
		c.ShutdownTimeout = config.NewDuration(source.ShutdownTimeout.Std())
	}
}

// Enabled reports whether the server should run.
func (c *Config) Enabled() bool {
	return c.Addr != ""
}
