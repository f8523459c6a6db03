// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidDirPath is the sentinel error wrapped by InvalidDirPathError.
	ErrInvalidDirPath = errors.New("invalid directory path")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// DirPath represents a filesystem directory path override.
	// The zero value ("") is valid and means "use the platform default".
	// Non-zero values must not be whitespace-only.
	DirPath string

	// InvalidDirPathError is returned when a DirPath value is non-empty but
	// whitespace-only. It wraps ErrInvalidDirPath for errors.Is.
	InvalidDirPathError struct {
		Value DirPath
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is and collects the field errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// DirsConfig optionally overrides the context directories.
	DirsConfig struct {
		// ConfigDir overrides the configuration directory.
		ConfigDir DirPath `json:"config_dir" mapstructure:"config_dir"`
		// CacheDir overrides the cache directory.
		CacheDir DirPath `json:"cache_dir" mapstructure:"cache_dir"`
		// DataDir overrides the data directory.
		DataDir DirPath `json:"data_dir" mapstructure:"data_dir"`
	}

	// Config holds the application configuration.
	Config struct {
		// CollectMetrics enables metrics collection on contexts built from
		// this configuration.
		CollectMetrics bool `json:"collect_metrics" mapstructure:"collect_metrics"`
		// ExtraNixArgs are appended to every nix invocation, in order.
		ExtraNixArgs []string `json:"extra_nix_args" mapstructure:"extra_nix_args"`
		// Dirs optionally overrides the context directories.
		Dirs DirsConfig `json:"dirs" mapstructure:"dirs"`
	}
)

// String returns the string representation of the DirPath.
func (p DirPath) String() string { return string(p) }

// IsValid returns whether the DirPath is valid.
// The zero value ("") is valid (means "use the platform default").
func (p DirPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidDirPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDirPathError.
func (e *InvalidDirPathError) Error() string {
	return fmt.Sprintf("invalid directory path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidDirPath for errors.Is() compatibility.
func (e *InvalidDirPathError) Unwrap() error { return ErrInvalidDirPath }

// IsValid returns whether the Config has valid fields.
// It delegates to each DirPath; bool and string-slice fields need no
// validation beyond what the schema enforces.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, p := range []DirPath{c.Dirs.ConfigDir, c.Dirs.CacheDir, c.Dirs.DataDir} {
		if valid, fieldErrs := p.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		CollectMetrics: false,
		ExtraNixArgs:   []string{},
		Dirs:           DirsConfig{},
	}
}
