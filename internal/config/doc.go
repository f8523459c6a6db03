// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as
// the file format.
//
// Configuration is loaded from ~/.config/flox/config.cue (or the XDG
// equivalent on Linux, ~/Library/Application Support/flox/config.cue on
// macOS, %APPDATA%\flox\config.cue on Windows) and validated against an
// embedded CUE schema (config_schema.cue). It carries the metrics flag, the
// extra nix arguments, and optional overrides for the three context
// directories; everything is defaulted, so a missing file is not an error.
package config
