// SPDX-License-Identifier: MPL-2.0

package flox

import (
	"context"
	"io"

	"github.com/flox/flox-go/pkg/nix"
)

type (
	// Package is a handle for package-level operations on a single
	// installable, scoped to the context it was derived from. Each operation
	// obtains a fresh backend from the context and issues one nix invocation.
	Package struct {
		flox        *Context
		installable nix.Installable
	}

	// PackageIO carries the I/O streams for a package operation. Nil streams
	// leave the child without stdin and discard its output.
	PackageIO struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}
)

// Installable returns the installable reference this handle is bound to.
func (p *Package) Installable() nix.Installable { return p.installable }

// Build realizes the package (nix build).
func (p *Package) Build(ctx context.Context, streams PackageIO) error {
	return p.run(ctx, []string{"build"}, streams)
}

// Develop enters the package's development environment (nix develop).
func (p *Package) Develop(ctx context.Context, streams PackageIO) error {
	return p.run(ctx, []string{"develop"}, streams)
}

// Run builds and runs the package's default program (nix run).
func (p *Package) Run(ctx context.Context, streams PackageIO) error {
	return p.run(ctx, []string{"run"}, streams)
}

func (p *Package) run(ctx context.Context, subcommand []string, streams PackageIO) error {
	backend, err := p.flox.Nix()
	if err != nil {
		return err
	}
	return backend.Run(ctx, nix.Command{
		Subcommand:   subcommand,
		Installables: []nix.Installable{p.installable},
		Stdin:        streams.Stdin,
		Stdout:       streams.Stdout,
		Stderr:       streams.Stderr,
	})
}
