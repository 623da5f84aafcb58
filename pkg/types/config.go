package types

import "errors"

// Config holds backend selection and parameters for Store.Attach.
type Config struct {
	Backend     string   `json:"backend" yaml:"backend"`
	DataDir     string   `json:"data_dir" yaml:"data_dir"`
	Collections []string `json:"collections" yaml:"collections"`
}

// Supported backend names.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrNoCollections  = errors.New("at least one collection must be configured")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendMemory: true,
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if len(c.Collections) == 0 {
		return ErrNoCollections
	}
	return nil
}
