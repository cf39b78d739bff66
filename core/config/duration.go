// Package config holds configuration value types shared by every subsystem's
// Config section.
package config

import (
	"fmt"
	"time"
)

// Duration is a time.Duration that reads and writes as a Go duration string
// ("60s", "1m30s") in both JSON and YAML config files. Bare integers in JSON
// are accepted as nanoseconds for compatibility with time.Duration encoding.
type Duration time.Duration

// NewDuration returns a pointer to d, for config fields where an explicit
// value must be told apart from an absent one.
func NewDuration(d time.Duration) *Duration {
	v := Duration(d)
	return &v
}

// Std returns d as a time.Duration. A nil d is zero.
func (d *Duration) Std() time.Duration {
	if d == nil {
		return 0
	}
	return time.Duration(*d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		if len(data) < 2 || data[len(data)-1] != '"' {
			return fmt.Errorf("invalid duration %s", data)
		}
		return d.UnmarshalText(data[1 : len(data)-1])
	}

	var ns int64
	if _, err := fmt.Sscan(string(data), &ns); err != nil {
		return fmt.Errorf("invalid duration %s: %w", data, err)
	}
	*d = Duration(ns)
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}
