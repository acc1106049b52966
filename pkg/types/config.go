package types

import "errors"

// Config holds the settings shared by the listener-side tooling: which
// backend allocates orders, where data lives, whose counters to use, and
// how the derived views and logs are tuned.
type Config struct {
	Backend           string `json:"backend" yaml:"backend"`
	DataDir           string `json:"data_dir" yaml:"data_dir"`
	Owner             string `json:"owner" yaml:"owner"`
	LogLevel          string `json:"log_level" yaml:"log_level"`
	LogFormat         string `json:"log_format" yaml:"log_format"`
	SelectorCacheSize int    `json:"selector_cache_size" yaml:"selector_cache_size"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Defaults applied when a key is absent from config.yaml.
const (
	DefaultOwner             = "local"
	DefaultLogLevel          = "warn"
	DefaultLogFormat         = "text"
	DefaultSelectorCacheSize = 256
)

// Config validation errors.
var (
	ErrBackendEmpty     = errors.New("backend must not be empty")
	ErrBackendUnknown   = errors.New("unknown backend")
	ErrOwnerEmpty       = errors.New("owner must not be empty")
	ErrLogFormatUnknown = errors.New("unknown log format")
	ErrCacheSizeInvalid = errors.New("selector cache size must not be negative")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

var knownLogFormats = map[string]bool{
	"":     true,
	"text": true,
	"json": true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.Owner == "" {
		return ErrOwnerEmpty
	}
	if !knownLogFormats[c.LogFormat] {
		return ErrLogFormatUnknown
	}
	if c.SelectorCacheSize < 0 {
		return ErrCacheSizeInvalid
	}
	return nil
}
