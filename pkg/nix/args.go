// SPDX-License-Identifier: MPL-2.0

package nix

type (
	// CommonArgs are the global flags shared by every nix subcommand.
	// The zero value renders to no arguments.
	CommonArgs struct {
		// Store overrides the nix store URL (--store).
		Store string
	}

	// InputOverride maps a flake input to a replacement flake reference.
	InputOverride struct {
		// Input is the input name as declared by the flake.
		Input string
		// FlakeRef is the substituted flake reference.
		FlakeRef string
	}

	// FlakeArgs are the flags shared by flake-aware subcommands.
	// The zero value renders to no arguments.
	FlakeArgs struct {
		// OverrideInputs substitutes flake inputs (--override-input).
		OverrideInputs []InputOverride
		// NoWriteLockFile prevents lock file updates (--no-write-lock-file).
		NoWriteLockFile bool
	}

	// EvaluationArgs are the flags controlling nix expression evaluation.
	// The zero value renders to no arguments.
	EvaluationArgs struct {
		// Impure allows access to mutable paths and env vars (--impure).
		Impure bool
		// EvalStore evaluates against a different store (--eval-store).
		EvalStore string
	}
)

// ToArgs renders the common argument group in CLI order.
func (a CommonArgs) ToArgs() []string {
	var args []string
	if a.Store != "" {
		args = append(args, "--store", a.Store)
	}
	return args
}

// ToArgs renders the flake argument group in CLI order.
func (a FlakeArgs) ToArgs() []string {
	var args []string
	for _, o := range a.OverrideInputs {
		args = append(args, "--override-input", o.Input, o.FlakeRef)
	}
	if a.NoWriteLockFile {
		args = append(args, "--no-write-lock-file")
	}
	return args
}

// ToArgs renders the evaluation argument group in CLI order.
func (a EvaluationArgs) ToArgs() []string {
	var args []string
	if a.Impure {
		args = append(args, "--impure")
	}
	if a.EvalStore != "" {
		args = append(args, "--eval-store", a.EvalStore)
	}
	return args
}
