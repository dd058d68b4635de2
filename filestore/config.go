package filestore

// Config holds message store initialization parameters.
type Config struct {
	Path string `json:"path,omitempty" yaml:"path,omitempty"` // Working directory; must already exist.
}

// DefaultConfig returns the default store configuration (no path).
func DefaultConfig() Config {
	return Config{}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Path != "" {
		c.Path = source.Path
	}
}

// NewStore creates a MessageStore from configuration.
func NewStore(cfg *Config, opts ...Option) (*MessageStore, error) {
	if cfg.Path == "" {
		return nil, ErrMissingPath
	}
	return New(cfg.Path, opts...)
}
