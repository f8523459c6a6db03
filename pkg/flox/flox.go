// SPDX-License-Identifier: MPL-2.0

package flox

import (
	"slices"

	"github.com/flox/flox-go/pkg/nix"
)

type (
	// BackendFactory produces a backend instance preconfigured for a context.
	// It is the single extensibility seam for alternate tool binaries and
	// mock backends; implementations must treat the context as read-only.
	BackendFactory func(*Context) (nix.Backend, error)

	// Context is the immutable per-session configuration object for flox
	// operations. It holds the directory paths, feature flags and extra nix
	// arguments, and derives transient backend and package handles on demand.
	// Construct it through Builder.
	Context struct {
		configDir      string
		cacheDir       string
		dataDir        string
		collectMetrics bool
		extraArgs      []string
		backend        BackendFactory
	}
)

var _ nix.Session = (*Context)(nil)

// DefaultBackend is the factory used when the builder is given none: it
// instantiates the nix command line backend.
func DefaultBackend(c *Context) (nix.Backend, error) {
	return nix.Instance(c)
}

// ConfigDir returns the user's flox configuration directory.
func (c *Context) ConfigDir() string { return c.configDir }

// CacheDir returns the flox cache directory.
func (c *Context) CacheDir() string { return c.cacheDir }

// DataDir returns the flox data directory.
func (c *Context) DataDir() string { return c.dataDir }

// CollectMetrics reports whether metrics collection is enabled. The flag is
// carried as pure data; nothing in this module acts on it.
func (c *Context) CollectMetrics() bool { return c.collectMetrics }

// ExtraArgs returns a copy of the additional arguments appended to every
// nix invocation.
func (c *Context) ExtraArgs() []string { return slices.Clone(c.extraArgs) }

// Nix returns a fresh backend instance preconfigured for this context.
// Failures from the backend factory are surfaced unchanged; nothing is
// retried or recovered here.
func (c *Context) Nix() (nix.Backend, error) {
	return c.backend(c)
}

// Package binds this context and an installable reference into a handle for
// package-level operations. Pure construction: the handle is a fresh value
// holding only the context reference and the installable.
func (c *Context) Package(installable nix.Installable) *Package {
	return &Package{flox: c, installable: installable}
}
