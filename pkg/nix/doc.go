// SPDX-License-Identifier: MPL-2.0

// Package nix provides a preconfigured handle for invoking the nix CLI.
//
// The Backend interface is the execution capability consumed by higher-level
// operations; NixCommandLine is the default implementation, bundling the
// resolved binary, a derived child environment, the shared argument groups
// (CommonArgs, FlakeArgs, EvaluationArgs) and a NixConfig with the trust,
// warning, feature-flag and substituter settings every flox invocation pins.
//
// Instantiation consumes a Session — the read-only view of the owning context
// (directories and extra arguments) — so this package never depends on the
// context type itself. Command execution goes through an injectable
// ExecCommandFunc, allowing tests to record argv instead of spawning nix.
package nix
