// SPDX-License-Identifier: MPL-2.0

package flox

import (
	"context"

	"github.com/flox/flox-go/internal/config"
)

// DefaultBuilder returns a Builder pre-populated from the user's flox
// configuration: platform directories (honoring any overrides in the config
// file), the metrics flag, and the configured extra nix arguments. The
// returned Builder can still be adjusted before Build; nothing is created on
// disk (pair with EnsureDirs for first-run setup).
func DefaultBuilder(ctx context.Context) (*Builder, error) {
	cfg, err := config.NewProvider().Load(ctx, config.LoadOptions{})
	if err != nil {
		return nil, err
	}

	configDir, err := resolveDir(cfg.Dirs.ConfigDir, config.ConfigDir)
	if err != nil {
		return nil, err
	}
	cacheDir, err := resolveDir(cfg.Dirs.CacheDir, config.CacheDir)
	if err != nil {
		return nil, err
	}
	dataDir, err := resolveDir(cfg.Dirs.DataDir, config.DataDir)
	if err != nil {
		return nil, err
	}

	return NewBuilder().
		ConfigDir(configDir).
		CacheDir(cacheDir).
		DataDir(dataDir).
		CollectMetrics(cfg.CollectMetrics).
		ExtraArgs(cfg.ExtraNixArgs...), nil
}

// EnsureDirs creates the platform config, cache and data directories when
// they do not exist yet. Call it once before the first DefaultBuilder use on
// a fresh machine; contexts built from explicit paths are unaffected.
func EnsureDirs() error {
	return config.EnsureDirs()
}

func resolveDir(override config.DirPath, platform func() (string, error)) (string, error) {
	if override != "" {
		return string(override), nil
	}
	return platform()
}
