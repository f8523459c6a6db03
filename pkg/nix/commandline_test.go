// SPDX-License-Identifier: MPL-2.0

package nix

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"reflect"
	"testing"
)

type (
	// mockCommandRecorder captures arguments passed to the exec command
	// function. It uses the TestHelperProcess pattern to simulate command
	// execution; the helper's behavior is controlled through the derived
	// child environment, which also verifies that the environment built by
	// Instance actually reaches the child process.
	mockCommandRecorder struct {
		// Invocations records each call to the mock exec command function.
		Invocations []mockInvocation
	}

	// mockInvocation represents a single exec command creation.
	mockInvocation struct {
		Name string
		Args []string
	}
)

// CommandFunc returns an ExecCommandFunc that records invocations and
// reroutes execution to TestHelperProcess.
func (m *mockCommandRecorder) CommandFunc(t *testing.T) ExecCommandFunc {
	t.Helper()
	return func(ctx context.Context, name string, args ...string) *exec.Cmd {
		m.Invocations = append(m.Invocations, mockInvocation{Name: name, Args: args})

		cs := []string{"-test.run=TestHelperProcess", "--", name}
		cs = append(cs, args...)
		//nolint:gosec // TestHelperProcess is a test-only pattern
		return exec.CommandContext(ctx, os.Args[0], cs...)
	}
}

// LastInvocation returns the most recent invocation, or nil if none.
func (m *mockCommandRecorder) LastInvocation() *mockInvocation {
	if len(m.Invocations) == 0 {
		return nil
	}
	return &m.Invocations[len(m.Invocations)-1]
}

// TestHelperProcess simulates command execution for the mock recorder.
// It reads its behavior from the environment; it is not a real test.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	if stdout := os.Getenv("GO_HELPER_STDOUT"); stdout != "" {
		fmt.Fprint(os.Stdout, stdout)
	}
	if stderr := os.Getenv("GO_HELPER_STDERR"); stderr != "" {
		fmt.Fprint(os.Stderr, stderr)
	}

	exitCode := 0
	if code := os.Getenv("GO_HELPER_EXIT_CODE"); code != "" {
		fmt.Sscanf(code, "%d", &exitCode)
	}
	os.Exit(exitCode)
}

type stubSession struct {
	configDir string
	cacheDir  string
	dataDir   string
	extraArgs []string
}

func (s stubSession) ConfigDir() string   { return s.configDir }
func (s stubSession) CacheDir() string    { return s.cacheDir }
func (s stubSession) DataDir() string     { return s.dataDir }
func (s stubSession) ExtraArgs() []string { return s.extraArgs }

// staticEnviron returns an EnvironBuildFunc producing a fixed environment,
// with the helper-process control variables mixed in.
func staticEnviron(extra map[string]string) EnvironBuildFunc {
	return func(configDir, cacheDir, dataDir string) (map[string]string, error) {
		env := map[string]string{
			"FLOX_CONFIG_DIR": configDir,
			"FLOX_CACHE_DIR":  cacheDir,
			"FLOX_DATA_DIR":   dataDir,
		}
		for k, v := range extra {
			env[k] = v
		}
		return env, nil
	}
}

func testSession() stubSession {
	return stubSession{configDir: "/c", cacheDir: "/k", dataDir: "/d"}
}

func TestInstancePinnedConfig(t *testing.T) {
	t.Parallel()

	n, err := Instance(testSession(), WithBinary("nix"), WithEnvironBuild(staticEnviron(nil)))
	if err != nil {
		t.Fatalf("Instance() error: %v", err)
	}

	cfg := n.Config()
	want := NixConfig{
		AcceptFlakeConfig:         true,
		WarnDirty:                 false,
		ExtraExperimentalFeatures: []string{"nix-command", "flakes"},
		ExtraSubstituters:         []string{"https://cache.floxdev.com?trusted=1"},
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("Config() = %+v, want %+v", cfg, want)
	}
}

func TestInstanceDerivesEnvironmentFromSession(t *testing.T) {
	t.Parallel()

	var gotDirs [3]string
	build := func(configDir, cacheDir, dataDir string) (map[string]string, error) {
		gotDirs = [3]string{configDir, cacheDir, dataDir}
		return map[string]string{"HOME": "/home/u"}, nil
	}

	n, err := Instance(testSession(), WithBinary("nix"), WithEnvironBuild(build))
	if err != nil {
		t.Fatalf("Instance() error: %v", err)
	}

	if gotDirs != [3]string{"/c", "/k", "/d"} {
		t.Errorf("environment derived from dirs %v, want [/c /k /d]", gotDirs)
	}

	// The accessor returns a copy; mutations must not reach the instance.
	env := n.Environment()
	env["HOME"] = "/tmp/elsewhere"
	if n.Environment()["HOME"] != "/home/u" {
		t.Error("Environment() exposed internal state to mutation")
	}
}

func TestInstancePropagatesEnvironError(t *testing.T) {
	t.Parallel()

	buildErr := errors.New("environment derivation failed")
	build := func(string, string, string) (map[string]string, error) { return nil, buildErr }

	_, err := Instance(testSession(), WithEnvironBuild(build))
	if err != buildErr {
		t.Errorf("Instance() error = %v, want the derivation error unchanged", err)
	}
}

func TestComposeArgs(t *testing.T) {
	t.Parallel()

	configArgs := []string{
		"--accept-flake-config",
		"--option", "warn-dirty", "false",
		"--option", "extra-experimental-features", "nix-command flakes",
		"--option", "extra-substituters", "https://cache.floxdev.com?trusted=1",
	}

	tests := []struct {
		name    string
		session stubSession
		cmd     Command
		want    []string
	}{
		{
			name:    "subcommand only",
			session: testSession(),
			cmd:     Command{Subcommand: []string{"build"}},
			want:    append(append([]string{}, configArgs...), "build"),
		},
		{
			name:    "flags then installables then extra args",
			session: stubSession{configDir: "/c", cacheDir: "/k", dataDir: "/d", extraArgs: []string{"--print-build-logs"}},
			cmd: Command{
				Subcommand:   []string{"build"},
				Flags:        []string{"--no-link"},
				Installables: []Installable{"nixpkgs#hello", ".#default"},
			},
			want: append(append([]string{}, configArgs...),
				"build", "--no-link", "nixpkgs#hello", ".#default", "--print-build-logs"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			n, err := Instance(tt.session, WithBinary("nix"), WithEnvironBuild(staticEnviron(nil)))
			if err != nil {
				t.Fatalf("Instance() error: %v", err)
			}
			if got := n.ComposeArgs(tt.cmd); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ComposeArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCreateCommandEnvironment(t *testing.T) {
	t.Parallel()

	n, err := Instance(testSession(), WithBinary("nix"), WithEnvironBuild(staticEnviron(nil)))
	if err != nil {
		t.Fatalf("Instance() error: %v", err)
	}

	c := n.CreateCommand(context.Background(), Command{Subcommand: []string{"build"}})

	want := []string{
		"FLOX_CACHE_DIR=/k",
		"FLOX_CONFIG_DIR=/c",
		"FLOX_DATA_DIR=/d",
	}
	if !reflect.DeepEqual(c.Env, want) {
		t.Errorf("Env = %v, want sorted %v", c.Env, want)
	}
}

func TestRunRecordsInvocation(t *testing.T) {
	t.Parallel()

	recorder := &mockCommandRecorder{}
	env := staticEnviron(map[string]string{"GO_WANT_HELPER_PROCESS": "1"})

	n, err := Instance(testSession(),
		WithBinary("nix"),
		WithEnvironBuild(env),
		WithExecCommand(recorder.CommandFunc(t)))
	if err != nil {
		t.Fatalf("Instance() error: %v", err)
	}

	cmd := Command{Subcommand: []string{"build"}, Installables: []Installable{"nixpkgs#hello"}}
	if err := n.Run(context.Background(), cmd); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	inv := recorder.LastInvocation()
	if inv == nil {
		t.Fatal("no command was invoked")
	}
	if inv.Name != "nix" {
		t.Errorf("invoked %q, want nix", inv.Name)
	}
	if want := n.ComposeArgs(cmd); !reflect.DeepEqual(inv.Args, want) {
		t.Errorf("invoked args = %v, want composed args %v", inv.Args, want)
	}
}

func TestRunFailure(t *testing.T) {
	t.Parallel()

	recorder := &mockCommandRecorder{}
	env := staticEnviron(map[string]string{
		"GO_WANT_HELPER_PROCESS": "1",
		"GO_HELPER_EXIT_CODE":    "1",
	})

	n, err := Instance(testSession(),
		WithBinary("nix"),
		WithEnvironBuild(env),
		WithExecCommand(recorder.CommandFunc(t)))
	if err != nil {
		t.Fatalf("Instance() error: %v", err)
	}

	err = n.Run(context.Background(), Command{Subcommand: []string{"build"}})
	if err == nil {
		t.Fatal("Run() succeeded, want failure from nonzero exit")
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Errorf("Run() error = %v, want wrapped *exec.ExitError", err)
	}
}

func TestOutputCapturesStdout(t *testing.T) {
	t.Parallel()

	recorder := &mockCommandRecorder{}
	env := staticEnviron(map[string]string{
		"GO_WANT_HELPER_PROCESS": "1",
		"GO_HELPER_STDOUT":       `{"version":"2.18.1"}`,
		"GO_HELPER_STDERR":       "warning: ignored",
	})

	n, err := Instance(testSession(),
		WithBinary("nix"),
		WithEnvironBuild(env),
		WithExecCommand(recorder.CommandFunc(t)))
	if err != nil {
		t.Fatalf("Instance() error: %v", err)
	}

	var stderr bytes.Buffer
	out, err := n.Output(context.Background(), Command{
		Subcommand: []string{"eval"},
		Flags:      []string{"--json"},
		Stderr:     &stderr,
	})
	if err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	if string(out) != `{"version":"2.18.1"}` {
		t.Errorf("Output() = %q, want the helper's stdout", out)
	}
	if stderr.String() != "warning: ignored" {
		t.Errorf("stderr = %q, want the helper's stderr", stderr.String())
	}
}
