package sdn

import (
	"time"

	"github.com/tailored-agentic-units/listmonitor/core/config"
)

const (
	// DefaultTimeout bounds a single fetch.
	DefaultTimeout = 30 * time.Second

	DefaultUserAgent = "listmonitor/1.0"
)

// Config locates the SDN list.
type Config struct {
	// Source is a local file path, a file:// URL, or an http(s) URL.
	Source    string           `json:"source,omitempty" yaml:"source,omitempty"`
	Timeout   *config.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" validate:"omitempty,gte=0"`
	UserAgent string           `json:"user_agent,omitempty" yaml:"user_agent,omitempty"`
}

// DefaultConfig returns the default retriever configuration. Source has no
// default.
func DefaultConfig() Config {
	return Config{
		Timeout:   config.NewDuration(DefaultTimeout),
		UserAgent: DefaultUserAgent,
	}
}

// Merge applies set values from source into c. An explicit timeout is taken
// as is, so Validate can reject a negative one.
func (c *Config) Merge(source *Config) {
	if source.Source != "" {
		c.Source = source.Source
	}
	if source.Timeout != nil {
		c.Timeout = config.NewDuration(source.Timeout.Std())
	}
	if source.UserAgent != "" {
		c.UserAgent = source.UserAgent
	}
}
