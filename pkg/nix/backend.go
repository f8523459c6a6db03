// SPDX-License-Identifier: MPL-2.0

package nix

import (
	"context"
	"io"
)

type (
	// Installable names a buildable or runnable target understood by nix
	// (e.g. "nixpkgs#hello" or ".#default"). It is passed through verbatim.
	Installable string

	// Command describes a single nix invocation: the subcommand words, any
	// subcommand flags, and the installables they apply to. I/O streams are
	// optional; nil streams inherit nothing (the child gets no stdin and
	// discards output).
	Command struct {
		// Subcommand is the nix subcommand, e.g. ["build"] or ["flake", "show"].
		Subcommand []string
		// Flags are subcommand-specific flags, placed after the subcommand.
		Flags []string
		// Installables are appended after the flags.
		Installables []Installable

		// Stdin is the child's standard input.
		Stdin io.Reader
		// Stdout is where the child's standard output is written.
		Stdout io.Writer
		// Stderr is where the child's standard error is written.
		Stderr io.Writer
	}

	// Backend is the capability to execute preconfigured nix invocations.
	// Implementations must not retain or mutate the Command they are given.
	Backend interface {
		// Run executes the command, streaming I/O through the Command's
		// streams. A non-zero child exit status is returned as an error.
		Run(ctx context.Context, cmd Command) error

		// Output executes the command and returns its captured stdout.
		Output(ctx context.Context, cmd Command) ([]byte, error)
	}

	// Session is the read-only view of the owning context that backend
	// instantiation consumes. The concrete context type satisfies it; keeping
	// the dependency in this direction lets alternate backends be written
	// without importing the context package.
	Session interface {
		ConfigDir() string
		CacheDir() string
		DataDir() string
		ExtraArgs() []string
	}
)

// String returns the installable reference as given.
func (i Installable) String() string { return string(i) }
