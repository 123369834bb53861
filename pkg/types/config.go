// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for outbound requests.
type HTTPConfig struct {
	// Timeout is the per-request timeout. Zero means no timeout; the retry
	// budget is then the only bound on latency.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header (e.g. "sieve/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// FetchConfig controls feed retrieval and the retry schedule.
type FetchConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the arXiv query endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// BaseDelay is the wait before the second attempt (default 3s).
	BaseDelay time.Duration `json:"base_delay" yaml:"base_delay" mapstructure:"base_delay"`

	// BackoffScaling multiplies the wait after every failed attempt (default 1.5).
	BackoffScaling float64 `json:"backoff_scaling" yaml:"backoff_scaling" mapstructure:"backoff_scaling"`

	// MaxAttempts is the total number of tries per page (default 10).
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts" mapstructure:"max_attempts"`
}

// IndexConfig holds settings for the SQLite record index.
type IndexConfig struct {
	// Path is the database file (default "sieve.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// MaxResults is the default search limit (default 20).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// Config groups all sieve settings.
type Config struct {
	Fetch    FetchConfig `json:"fetch" yaml:"fetch" mapstructure:"fetch"`
	Index    IndexConfig `json:"index" yaml:"index" mapstructure:"index"`
	LogLevel string      `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}

// Defaults for the arXiv endpoint and retry schedule.
const (
	DefaultBaseURL        = "http://export.arxiv.org/api/query"
	DefaultBaseDelay      = 3 * time.Second
	DefaultBackoffScaling = 1.5
	DefaultMaxAttempts    = 10
	DefaultUserAgent      = "sieve/0.1"
)

// DefaultConfig returns the configuration used when no file or flag
// overrides a setting.
func DefaultConfig() Config {
	return Config{
		Fetch: FetchConfig{
			HTTPConfig: HTTPConfig{
				UserAgent: DefaultUserAgent,
			},
			BaseURL:        DefaultBaseURL,
			BaseDelay:      DefaultBaseDelay,
			BackoffScaling: DefaultBackoffScaling,
			MaxAttempts:    DefaultMaxAttempts,
		},
		Index: IndexConfig{
			Path:       "sieve.db",
			MaxResults: 20,
		},
		LogLevel: "info",
	}
}
