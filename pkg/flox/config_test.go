// SPDX-License-Identifier: MPL-2.0

package flox

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/flox/flox-go/internal/config"
)

// overrideDirs points the platform directory lookup at test-owned paths and
// registers cleanup. Returns the config dir so tests can drop a config.cue
// into it.
func overrideDirs(t *testing.T) (configDir, cacheDir, dataDir string) {
	t.Helper()
	t.Cleanup(config.Reset)

	configDir = t.TempDir()
	cacheDir = t.TempDir()
	dataDir = t.TempDir()
	config.SetDirOverrides(configDir, cacheDir, dataDir)
	return configDir, cacheDir, dataDir
}

func TestDefaultBuilderPlatformDirs(t *testing.T) {
	configDir, cacheDir, dataDir := overrideDirs(t)

	b, err := DefaultBuilder(context.Background())
	if err != nil {
		t.Fatalf("DefaultBuilder() error: %v", err)
	}
	c, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if c.ConfigDir() != configDir || c.CacheDir() != cacheDir || c.DataDir() != dataDir {
		t.Errorf("dirs = (%q, %q, %q), want platform (%q, %q, %q)",
			c.ConfigDir(), c.CacheDir(), c.DataDir(), configDir, cacheDir, dataDir)
	}
	if c.CollectMetrics() {
		t.Error("CollectMetrics() = true, want false without a config file")
	}
	if got := c.ExtraArgs(); len(got) != 0 {
		t.Errorf("ExtraArgs() = %v, want empty without a config file", got)
	}
}

func TestDefaultBuilderConfigFileWins(t *testing.T) {
	configDir, _, dataDir := overrideDirs(t)

	cfgCacheDir := t.TempDir()
	content := `
collect_metrics: true
extra_nix_args: ["--print-build-logs"]
dirs: cache_dir: "` + cfgCacheDir + `"
`
	path := filepath.Join(configDir, config.ConfigFileName+"."+config.ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	b, err := DefaultBuilder(context.Background())
	if err != nil {
		t.Fatalf("DefaultBuilder() error: %v", err)
	}
	c, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	// The file's directory override wins; unset dirs stay on the platform path.
	if c.CacheDir() != cfgCacheDir {
		t.Errorf("CacheDir() = %q, want config file override %q", c.CacheDir(), cfgCacheDir)
	}
	if c.ConfigDir() != configDir || c.DataDir() != dataDir {
		t.Errorf("dirs = (%q, %q), want platform (%q, %q)",
			c.ConfigDir(), c.DataDir(), configDir, dataDir)
	}
	if !c.CollectMetrics() {
		t.Error("CollectMetrics() = false, want true from config file")
	}
	if !reflect.DeepEqual(c.ExtraArgs(), []string{"--print-build-logs"}) {
		t.Errorf("ExtraArgs() = %v, want [--print-build-logs]", c.ExtraArgs())
	}
}

func TestDefaultBuilderLoadFailure(t *testing.T) {
	configDir, _, _ := overrideDirs(t)

	path := filepath.Join(configDir, config.ConfigFileName+"."+config.ConfigFileExt)
	if err := os.WriteFile(path, []byte(`collect_metrics: {{{`), 0o600); err != nil {
		t.Fatalf("writing config file: %v", err)
	}

	if _, err := DefaultBuilder(context.Background()); err == nil {
		t.Error("DefaultBuilder() succeeded, want config load error")
	}
}

func TestEnsureDirs(t *testing.T) {
	t.Cleanup(config.Reset)

	base := t.TempDir()
	dirs := []string{
		filepath.Join(base, "config", "flox"),
		filepath.Join(base, "cache", "flox"),
		filepath.Join(base, "data", "flox"),
	}
	config.SetDirOverrides(dirs[0], dirs[1], dirs[2])

	if err := EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() error: %v", err)
	}
	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Errorf("EnsureDirs() did not create %s: %v", dir, err)
		}
	}

	// Idempotent on existing directories.
	if err := EnsureDirs(); err != nil {
		t.Errorf("second EnsureDirs() error: %v", err)
	}
}
