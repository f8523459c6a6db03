// SPDX-License-Identifier: MPL-2.0

// Package registry persists the set of environments known to flox.
//
// The registry is a single TOML file (registry.toml) in the context's data
// directory, mapping environment names to the installable they were created
// from. Reads and writes go through a Registry handle scoped to a context;
// writes are whole-file replacements via a temp-file rename so a crashed
// write never leaves a half-written registry behind.
package registry
