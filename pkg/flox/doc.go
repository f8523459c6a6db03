// SPDX-License-Identifier: MPL-2.0

// Package flox provides the execution context from which preconfigured nix
// backends and package handles are derived.
//
// A Context is built once per process run (or logical session) through the
// Builder, which requires the three directory paths (config, cache, data) and
// defaults the rest. Once built, a Context is immutable and safe for
// concurrent reads; every factory call (Nix, Package) returns a fresh,
// independently owned value.
//
// The backend producing the nix handle is a capability value chosen at
// construction time: the default factory yields a nix.NixCommandLine, and
// tests or alternate tool binaries plug in by supplying their own
// BackendFactory.
package flox
