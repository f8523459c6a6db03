// SPDX-License-Identifier: MPL-2.0

package nix

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

var (
	// ErrInvalidNixConfig is the sentinel error wrapped by ConfigBuildError.
	ErrInvalidNixConfig = errors.New("invalid nix configuration")
)

type (
	// NixConfig is the per-invocation nix settings object: trust, warning,
	// feature-flag and binary-cache options passed as CLI settings overrides.
	// Construct it through NewConfigBuilder; it is immutable once built.
	NixConfig struct {
		// AcceptFlakeConfig accepts nixConfig settings supplied by flakes.
		AcceptFlakeConfig bool
		// WarnDirty warns when evaluating a dirty working tree.
		WarnDirty bool
		// ExtraExperimentalFeatures enables experimental features beyond the
		// user's own nix.conf.
		ExtraExperimentalFeatures []string
		// ExtraSubstituters adds trusted binary cache endpoints.
		ExtraSubstituters []string
	}

	// ConfigBuilder assembles a NixConfig. Build validates the collected
	// values and reports all violations at once.
	ConfigBuilder struct {
		cfg NixConfig
	}

	// ConfigBuildError is returned when a NixConfig violates its invariants.
	// It wraps ErrInvalidNixConfig for errors.Is and collects the individual
	// field errors.
	ConfigBuildError struct {
		FieldErrs []error
	}
)

// Error implements the error interface.
func (e *ConfigBuildError) Error() string {
	return fmt.Sprintf("invalid nix configuration: %d field error(s)", len(e.FieldErrs))
}

// Unwrap returns ErrInvalidNixConfig so callers can use errors.Is.
func (e *ConfigBuildError) Unwrap() error { return ErrInvalidNixConfig }

// NewConfigBuilder creates a builder carrying nix's own defaults: flake
// config is not trusted, dirty-tree warnings are on, no extra features or
// substituters.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{cfg: NixConfig{WarnDirty: true}}
}

// AcceptFlakeConfig sets whether flake-supplied nixConfig settings are accepted.
func (b *ConfigBuilder) AcceptFlakeConfig(accept bool) *ConfigBuilder {
	b.cfg.AcceptFlakeConfig = accept
	return b
}

// WarnDirty sets whether nix warns on a dirty working tree.
func (b *ConfigBuilder) WarnDirty(warn bool) *ConfigBuilder {
	b.cfg.WarnDirty = warn
	return b
}

// ExtraExperimentalFeatures sets the experimental features to enable, in order.
func (b *ConfigBuilder) ExtraExperimentalFeatures(features ...string) *ConfigBuilder {
	b.cfg.ExtraExperimentalFeatures = append([]string(nil), features...)
	return b
}

// ExtraSubstituters sets the extra trusted binary cache endpoints, in order.
func (b *ConfigBuilder) ExtraSubstituters(urls ...string) *ConfigBuilder {
	b.cfg.ExtraSubstituters = append([]string(nil), urls...)
	return b
}

// Build validates the collected settings and returns the finished NixConfig.
// Feature names must be non-empty and substituters must be absolute URLs.
func (b *ConfigBuilder) Build() (NixConfig, error) {
	var errs []error
	for i, feature := range b.cfg.ExtraExperimentalFeatures {
		if strings.TrimSpace(feature) == "" {
			errs = append(errs, fmt.Errorf("extra-experimental-features[%d]: feature name must be non-empty", i))
		}
	}
	for i, sub := range b.cfg.ExtraSubstituters {
		u, err := url.Parse(sub)
		if err != nil {
			errs = append(errs, fmt.Errorf("extra-substituters[%d]: %w", i, err))
			continue
		}
		if u.Scheme == "" {
			errs = append(errs, fmt.Errorf("extra-substituters[%d]: %q is not an absolute URL", i, sub))
		}
	}
	if len(errs) > 0 {
		return NixConfig{}, &ConfigBuildError{FieldErrs: errs}
	}
	return b.cfg, nil
}

// ToArgs renders the settings as nix CLI overrides. Settings matching nix's
// own defaults are omitted.
func (c NixConfig) ToArgs() []string {
	var args []string
	if c.AcceptFlakeConfig {
		args = append(args, "--accept-flake-config")
	}
	if !c.WarnDirty {
		args = append(args, "--option", "warn-dirty", "false")
	}
	if len(c.ExtraExperimentalFeatures) > 0 {
		args = append(args, "--option", "extra-experimental-features",
			strings.Join(c.ExtraExperimentalFeatures, " "))
	}
	if len(c.ExtraSubstituters) > 0 {
		args = append(args, "--option", "extra-substituters",
			strings.Join(c.ExtraSubstituters, " "))
	}
	return args
}
