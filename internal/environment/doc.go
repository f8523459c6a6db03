// SPDX-License-Identifier: MPL-2.0

// Package environment derives the process environment passed to child nix
// invocations and resolves the nix binary.
//
// The derived environment is built in layers: an allowlisted subset of the
// host environment first, then the FLOX_* directory variables from the owning
// context. The host environment is filtered rather than inherited wholesale so
// that stray NIX_CONF_DIR/NIX_USER_CONF_FILES settings on the host cannot
// leak past the configuration the context pins via CLI options.
//
// Binary resolution reads FLOX_NIX_BIN, falling back to DefaultNixBin.
package environment
