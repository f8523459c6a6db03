// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared helpers for working with CUE-formatted
// files: user-friendly error formatting with JSON-path prefixes, and a size
// guard applied before parsing untrusted input.
package cueutil
