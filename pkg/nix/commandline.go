// SPDX-License-Identifier: MPL-2.0

package nix

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/flox/flox-go/internal/environment"
)

// The default substituter and experimental features every flox-scoped nix
// invocation pins, regardless of the user's own nix.conf.
const floxSubstituter = "https://cache.floxdev.com?trusted=1"

var floxExperimentalFeatures = []string{"nix-command", "flakes"}

type (
	// ExecCommandFunc is the function signature for creating exec.Cmd.
	// This allows injection of mock implementations for testing.
	ExecCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

	// EnvironBuildFunc derives the child environment from the context
	// directories. Failures propagate unchanged through Instance.
	EnvironBuildFunc func(configDir, cacheDir, dataDir string) (map[string]string, error)

	// Option configures backend instantiation.
	Option func(*instanceOptions)

	instanceOptions struct {
		binary       string
		environBuild EnvironBuildFunc
		execCommand  ExecCommandFunc
		logger       *log.Logger
	}

	// NixCommandLine invokes the nix CLI with a fixed argument and
	// environment profile. Build one per logical operation via Instance;
	// instances are independent values with no shared mutable state.
	NixCommandLine struct {
		binary      string
		environment map[string]string
		common      CommonArgs
		flake       FlakeArgs
		evaluation  EvaluationArgs
		config      NixConfig
		extraArgs   []string
		execCommand ExecCommandFunc
		logger      *log.Logger
	}
)

var _ Backend = (*NixCommandLine)(nil)

// WithBinary overrides the resolved nix binary.
func WithBinary(binary string) Option {
	return func(o *instanceOptions) { o.binary = binary }
}

// WithEnvironBuild overrides the environment derivation collaborator.
func WithEnvironBuild(fn EnvironBuildFunc) Option {
	return func(o *instanceOptions) { o.environBuild = fn }
}

// WithExecCommand sets a custom exec command function for testing.
func WithExecCommand(fn ExecCommandFunc) Option {
	return func(o *instanceOptions) { o.execCommand = fn }
}

// WithLogger sets the logger used at the execution boundary.
func WithLogger(logger *log.Logger) Option {
	return func(o *instanceOptions) { o.logger = logger }
}

// Instance builds a NixCommandLine preconfigured for the given session:
// the binary resolved from process-wide configuration, the derived child
// environment, default argument groups, the pinned NixConfig, and a copy of
// the session's extra arguments. The session is read-only input; each call
// returns a fresh, independently owned handle.
//
// An environment derivation failure is returned unchanged.
func Instance(s Session, opts ...Option) (*NixCommandLine, error) {
	o := instanceOptions{
		binary:      environment.NixBin(),
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.environBuild == nil {
		o.environBuild = environment.NewBuilder().Build
	}
	if o.logger == nil {
		o.logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "nix"})
	}

	env, err := o.environBuild(s.ConfigDir(), s.CacheDir(), s.DataDir())
	if err != nil {
		return nil, err
	}

	cfg, err := NewConfigBuilder().
		AcceptFlakeConfig(true).
		WarnDirty(false).
		ExtraExperimentalFeatures(floxExperimentalFeatures...).
		ExtraSubstituters(floxSubstituter).
		Build()
	if err != nil {
		return nil, err
	}

	return &NixCommandLine{
		binary:      o.binary,
		environment: env,
		common:      CommonArgs{},
		flake:       FlakeArgs{},
		evaluation:  EvaluationArgs{},
		config:      cfg,
		extraArgs:   append([]string(nil), s.ExtraArgs()...),
		execCommand: o.execCommand,
		logger:      o.logger,
	}, nil
}

// Binary returns the resolved nix binary identifier.
func (n *NixCommandLine) Binary() string { return n.binary }

// Environment returns a copy of the derived child environment.
func (n *NixCommandLine) Environment() map[string]string {
	env := make(map[string]string, len(n.environment))
	for k, v := range n.environment {
		env[k] = v
	}
	return env
}

// Config returns the pinned settings object.
func (n *NixCommandLine) Config() NixConfig { return n.config }

// ComposeArgs constructs the full argv (excluding the binary) for a command.
//
// Generated command: <binary> [common] [config] <subcommand> [flake] [eval] [flags] [installables] [extra]
func (n *NixCommandLine) ComposeArgs(cmd Command) []string {
	args := n.common.ToArgs()
	args = append(args, n.config.ToArgs()...)
	args = append(args, cmd.Subcommand...)
	args = append(args, n.flake.ToArgs()...)
	args = append(args, n.evaluation.ToArgs()...)
	args = append(args, cmd.Flags...)
	for _, i := range cmd.Installables {
		args = append(args, string(i))
	}
	args = append(args, n.extraArgs...)
	return args
}

// CreateCommand creates an exec.Cmd for the given command with the derived
// environment applied. Callers customize I/O on the returned value.
func (n *NixCommandLine) CreateCommand(ctx context.Context, cmd Command) *exec.Cmd {
	args := n.ComposeArgs(cmd)
	c := n.execCommand(ctx, n.binary, args...)
	c.Env = envList(n.environment)
	return c
}

// Run executes the command, streaming I/O through the Command's streams.
func (n *NixCommandLine) Run(ctx context.Context, cmd Command) error {
	c := n.CreateCommand(ctx, cmd)
	c.Stdin = cmd.Stdin
	c.Stdout = cmd.Stdout
	c.Stderr = cmd.Stderr

	n.logger.Debug("running nix", "binary", n.binary, "args", c.Args[1:])
	if err := c.Run(); err != nil {
		return fmt.Errorf("command %s %v failed: %w", n.binary, c.Args[1:], err)
	}
	return nil
}

// Output executes the command and returns its captured stdout. Stderr is
// streamed through the Command's Stderr when set.
func (n *NixCommandLine) Output(ctx context.Context, cmd Command) ([]byte, error) {
	c := n.CreateCommand(ctx, cmd)
	c.Stdin = cmd.Stdin
	c.Stderr = cmd.Stderr

	n.logger.Debug("running nix", "binary", n.binary, "args", c.Args[1:])
	out, err := c.Output()
	if err != nil {
		return nil, fmt.Errorf("command %s %v failed: %w", n.binary, c.Args[1:], err)
	}
	return out, nil
}

// envList flattens an environment map into sorted "KEY=VALUE" form so that
// composed commands are deterministic.
func envList(env map[string]string) []string {
	list := make([]string, 0, len(env))
	for k, v := range env {
		list = append(list, k+"="+v)
	}
	sort.Strings(list)
	return list
}
