package session

// DefaultLimit is the number of notifications a session keeps by default.
const DefaultLimit = 100

// Config holds session initialization parameters.
type Config struct {
	// Limit caps the recorded notifications; zero means DefaultLimit.
	Limit int `json:"limit,omitempty" yaml:"limit,omitempty" validate:"gte=0"`
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{Limit: DefaultLimit}
}

// Merge applies non-zero values from source into c. A negative limit is
// kept so Validate can reject it.
func (c *Config) Merge(source *Config) {
	if source.Limit != 0 {
		c.Limit = source.Limit
	}
}

// New creates a Session from configuration. Currently returns an in-memory
// session.
func New(cfg *Config) (Session, error) {
	limit := cfg.Limit
	if limit == 0 {
		limit = DefaultLimit
	}
	return NewMemorySession(limit), nil
}
