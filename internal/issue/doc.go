// SPDX-License-Identifier: MPL-2.0

// Package issue provides user-facing error presentation: structured
// ActionableError values built through a fluent ErrorContext, and a catalog
// of rendered markdown issues for the failure modes users hit most (nix
// binary missing, environment derivation, configuration load, registry
// corruption).
//
// The core context and backend packages never log or decorate their errors;
// callers that surface failures to a terminal wrap them here instead.
package issue
