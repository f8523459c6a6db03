// SPDX-License-Identifier: MPL-2.0

package config

// Directory overrides for tests. os.UserHomeDir() doesn't reliably respect
// the HOME environment variable on all platforms (e.g., macOS in CI), so
// tests point these at t.TempDir() instead.
var (
	configDirOverride string
	cacheDirOverride  string
	dataDirOverride   string
)

// Reset clears test overrides. Call from test cleanup to restore defaults.
func Reset() {
	configDirOverride = ""
	cacheDirOverride = ""
	dataDirOverride = ""
}

// SetDirOverrides sets custom directory paths, bypassing platform lookup.
// Primarily intended for testing.
func SetDirOverrides(configDir, cacheDir, dataDir string) {
	configDirOverride = configDir
	cacheDirOverride = cacheDir
	dataDirOverride = dataDir
}
