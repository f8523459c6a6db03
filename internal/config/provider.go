// SPDX-License-Identifier: MPL-2.0

package config

import "context"

type (
	// LoadOptions narrows where configuration is read from. The zero value
	// loads config.cue from the platform config directory.
	LoadOptions struct {
		// ConfigFilePath forces loading a specific file; it must exist.
		ConfigFilePath string
		// ConfigDirPath looks for config.cue in this directory instead of
		// the platform one. Ignored when ConfigFilePath is set.
		ConfigDirPath string
	}

	// Provider is the loading seam consumed by flox.DefaultBuilder. Tests
	// substitute fixtures through LoadOptions rather than through a second
	// implementation.
	Provider interface {
		Load(ctx context.Context, opts LoadOptions) (*Config, error)
	}

	cueFileProvider struct{}
)

// NewProvider returns the CUE-file-backed provider.
func NewProvider() Provider {
	return cueFileProvider{}
}

// Load resolves, parses and schema-validates the configuration per opts.
// A missing file in the resolved directory yields the defaults, not an error.
func (cueFileProvider) Load(ctx context.Context, opts LoadOptions) (*Config, error) {
	cfg, _, err := loadWithOptions(ctx, opts)
	return cfg, err
}
