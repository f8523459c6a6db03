// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"os/exec"

	"github.com/flox/flox-go/internal/environment"
	"github.com/flox/flox-go/pkg/nix"
)

// Classify maps a failure to its issue catalog entry. It returns the zero Id
// when no catalog entry applies; Get(0) is nil, so callers fall back to plain
// error output for unclassified failures.
func Classify(err error) Id {
	switch {
	case errors.Is(err, exec.ErrNotFound):
		return NixNotFoundId
	case errors.Is(err, environment.ErrNoHomeDir):
		return EnvDerivationFailedId
	case errors.Is(err, nix.ErrInvalidNixConfig):
		return SubstituterRejectedId
	}

	var ae *ActionableError
	if errors.As(err, &ae) {
		switch ae.Operation {
		case "load configuration", "validate configuration":
			return ConfigLoadFailedId
		case "read environment registry":
			return RegistryCorruptId
		}
	}

	return 0
}
