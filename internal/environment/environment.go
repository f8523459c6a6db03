// SPDX-License-Identifier: MPL-2.0

package environment

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoHomeDir is returned (wrapped) by Builder.Build when no home directory
// can be determined for the invoking user.
var ErrNoHomeDir = errors.New("no home directory")

const (
	// EnvNixBin is the environment variable that overrides the nix binary.
	EnvNixBin = "FLOX_NIX_BIN"
	// DefaultNixBin is the nix binary used when EnvNixBin is unset.
	DefaultNixBin = "nix"

	// EnvConfigDir, EnvCacheDir and EnvDataDir expose the context directories
	// to child invocations (and to anything nix itself spawns, e.g. builders
	// configured through flox expressions).
	EnvConfigDir = "FLOX_CONFIG_DIR"
	EnvCacheDir  = "FLOX_CACHE_DIR"
	EnvDataDir   = "FLOX_DATA_DIR"
)

// hostPassthrough lists host variables copied into the child environment
// verbatim. Everything not listed here (or matched by hostPassthroughPrefixes)
// is dropped.
var hostPassthrough = map[string]struct{}{
	"HOME":              {},
	"USER":              {},
	"LOGNAME":           {},
	"PATH":              {},
	"TERM":              {},
	"TZ":                {},
	"LANG":              {},
	"SSH_AUTH_SOCK":     {},
	"SSL_CERT_FILE":     {},
	"NIX_SSL_CERT_FILE": {},
	"http_proxy":        {},
	"https_proxy":       {},
	"no_proxy":          {},
}

// hostPassthroughPrefixes lists variable-name prefixes copied through.
var hostPassthroughPrefixes = []string{"LC_"}

type (
	// Builder derives the child environment from the current process state
	// and the owning context's directories.
	Builder struct {
		// Environ returns the host environment as "KEY=VALUE" strings.
		// When nil, os.Environ() is used.
		Environ func() []string
	}
)

// NewBuilder creates a Builder backed by the real process environment.
func NewBuilder() *Builder {
	return &Builder{}
}

// NixBin resolves the nix binary identifier for child invocations.
func NixBin() string {
	if bin := os.Getenv(EnvNixBin); bin != "" {
		return bin
	}
	return DefaultNixBin
}

// Build derives the environment mapping for a child nix invocation.
// Host variables are filtered through the allowlist, then the FLOX_*
// directory variables are overlaid (overriding any host values of the same
// name). Build fails when the host environment is unusable, i.e. when no
// home directory can be determined for the invoking user.
func (b *Builder) Build(configDir, cacheDir, dataDir string) (map[string]string, error) {
	environ := b.Environ
	if environ == nil {
		environ = os.Environ
	}

	env := make(map[string]string)
	for _, kv := range environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if passThrough(key) {
			env[key] = value
		}
	}

	// nix needs a home directory for its XDG fallbacks even when every
	// relevant path is pinned; fail early with a clear cause instead of
	// letting the child die on an opaque lookup error.
	if _, ok := env["HOME"]; !ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("derive nix environment: %w: %w", ErrNoHomeDir, err)
		}
		env["HOME"] = home
	}

	env[EnvConfigDir] = configDir
	env[EnvCacheDir] = cacheDir
	env[EnvDataDir] = dataDir

	return env, nil
}

func passThrough(key string) bool {
	if _, ok := hostPassthrough[key]; ok {
		return true
	}
	for _, prefix := range hostPassthroughPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}
