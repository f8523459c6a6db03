// SPDX-License-Identifier: MPL-2.0

package flox

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrMissingRequiredField is the sentinel error wrapped by
	// MissingRequiredFieldError.
	ErrMissingRequiredField = errors.New("missing required field")
)

type (
	// Builder assembles a Context. The three directory paths are mandatory;
	// the unset state is tracked explicitly so an empty string passed on
	// purpose is still a set field. Build performs no filesystem or process
	// I/O and does not check that the paths exist — that is the concern of
	// whatever later uses the directories.
	Builder struct {
		configDir      *string
		cacheDir       *string
		dataDir        *string
		collectMetrics bool
		extraArgs      []string
		backend        BackendFactory
	}

	// MissingRequiredFieldError is returned by Build when a mandatory field
	// is unset. Field names the first missing field in the fixed order
	// configDir, cacheDir, dataDir. It wraps ErrMissingRequiredField for
	// errors.Is.
	MissingRequiredFieldError struct {
		Field string
	}
)

// Error implements the error interface.
func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// Unwrap returns ErrMissingRequiredField so callers can use errors.Is.
func (e *MissingRequiredFieldError) Unwrap() error { return ErrMissingRequiredField }

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// ConfigDir sets the user's flox configuration directory. Mandatory.
func (b *Builder) ConfigDir(dir string) *Builder {
	b.configDir = &dir
	return b
}

// CacheDir sets the flox cache directory. Mandatory.
func (b *Builder) CacheDir(dir string) *Builder {
	b.cacheDir = &dir
	return b
}

// DataDir sets the flox data directory. Mandatory.
func (b *Builder) DataDir(dir string) *Builder {
	b.dataDir = &dir
	return b
}

// CollectMetrics sets the metrics collection flag. Defaults to false.
func (b *Builder) CollectMetrics(collect bool) *Builder {
	b.collectMetrics = collect
	return b
}

// ExtraArgs sets additional arguments appended to every nix invocation,
// in order. Defaults to none.
func (b *Builder) ExtraArgs(args ...string) *Builder {
	b.extraArgs = slices.Clone(args)
	return b
}

// Backend sets the backend factory. Defaults to DefaultBackend.
func (b *Builder) Backend(factory BackendFactory) *Builder {
	b.backend = factory
	return b
}

// Build validates the mandatory fields in fixed order (configDir, cacheDir,
// dataDir) and returns the finished Context, or a MissingRequiredFieldError
// naming the first unset field.
func (b *Builder) Build() (*Context, error) {
	for _, field := range []struct {
		name  string
		value *string
	}{
		{"configDir", b.configDir},
		{"cacheDir", b.cacheDir},
		{"dataDir", b.dataDir},
	} {
		if field.value == nil {
			return nil, &MissingRequiredFieldError{Field: field.name}
		}
	}

	backend := b.backend
	if backend == nil {
		backend = DefaultBackend
	}

	return &Context{
		configDir:      *b.configDir,
		cacheDir:       *b.cacheDir,
		dataDir:        *b.dataDir,
		collectMetrics: b.collectMetrics,
		extraArgs:      slices.Clone(b.extraArgs),
		backend:        backend,
	}, nil
}
