package service

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/listmonitor/monitor"
	"github.com/tailored-agentic-units/listmonitor/observability"
	"github.com/tailored-agentic-units/listmonitor/sdn"
	"github.com/tailored-agentic-units/listmonitor/session"
	"github.com/tailored-agentic-units/listmonitor/status"
)

// Config holds initialization parameters for every subsystem. Each section
// is owned by the package that consumes it.
type Config struct {
	Monitor       monitor.Config       `json:"monitor" yaml:"monitor"`
	SDN           sdn.Config           `json:"sdn" yaml:"sdn"`
	Observability observability.Config `json:"observability" yaml:"observability"`
	Status        status.Config        `json:"status" yaml:"status"`
	Session       session.Config       `json:"session" yaml:"session"`

	// Seed reads the list once before monitoring starts and takes it as the
	// baseline, so the first cycle reports only changes made after startup.
	Seed bool `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// DefaultConfig returns a Config with defaults for every subsystem. The SDN
// source has no default.
func DefaultConfig() Config {
	return Config{
		Monitor:       monitor.DefaultConfig(),
		SDN:           sdn.DefaultConfig(),
		Observability: observability.DefaultConfig(),
		Status:        status.DefaultConfig(),
		Session:       session.DefaultConfig(),
	}
}

// Merge applies non-zero values from source into c, delegating to each
// section's Merge.
func (c *Config) Merge(source *Config) {
	c.Monitor.Merge(&source.Monitor)
	c.SDN.Merge(&source.SDN)
	c.Observability.Merge(&source.Observability)
	c.Status.Merge(&source.Status)
	c.Session.Merge(&source.Session)

	if source.Seed {
		c.Seed = true
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field constraints across all sections.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig reads a config file, merges it over DefaultConfig, and returns
// the result. Files ending in .yaml or .yml are parsed as YAML, anything else
// as JSON. The result is not validated, so command-line overrides can still
// be merged in.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &loaded)
	default:
		err = json.Unmarshal(data, &loaded)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
