// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	NixNotFoundId Id = iota + 1
	EnvDerivationFailedId
	ConfigLoadFailedId
	RegistryCorruptId
	SubstituterRejectedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to look the issue up
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // links into the flox docs
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	nixNotFoundIssue = &Issue{
		id: NixNotFoundId,
		mdMsg: `
# nix binary not found!

flox dispatches its work to the nix CLI, but the configured binary could not
be executed.

## Where the binary comes from:
1. The FLOX_NIX_BIN environment variable, when set
2. Otherwise "nix" looked up on PATH

## Things you can try:
- Verify nix is installed:
~~~
$ nix --version
~~~

- Point flox at a specific binary:
~~~
$ export FLOX_NIX_BIN=/nix/var/nix/profiles/default/bin/nix
~~~

- Check that the file is executable and not a dangling symlink.`,
		extLinks: []HttpLink{"https://nixos.org/download"},
	}

	envDerivationFailedIssue = &Issue{
		id: EnvDerivationFailedId,
		mdMsg: `
# Could not derive the nix environment!

Before invoking nix, flox derives a filtered environment for the child
process. That derivation failed, usually because the invoking user has no
resolvable home directory.

## Things you can try:
- Check that HOME is set:
~~~
$ echo $HOME
~~~

- When running under a service manager or container, set HOME explicitly in
  the unit or image.`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the flox configuration file.

## Configuration file locations:
- Linux: ~/.config/flox/config.cue
- macOS: ~/Library/Application Support/flox/config.cue
- Windows: %APPDATA%\flox\config.cue

## Things you can try:
- Check the configuration syntax against the schema
- Remove the config file to fall back to defaults:
~~~
$ rm ~/.config/flox/config.cue
~~~

## Example configuration:
~~~cue
collect_metrics: false

extra_nix_args: ["--print-build-logs"]
~~~`,
	}

	registryCorruptIssue = &Issue{
		id: RegistryCorruptId,
		mdMsg: `
# Environment registry is unreadable!

The registry file under the flox data directory exists but could not be
parsed.

## Things you can try:
- Inspect the file:
~~~
$ cat "$FLOX_DATA_DIR/registry.toml"
~~~

- Move it aside to start from an empty registry (registered environments are
  forgotten, the environments themselves are untouched):
~~~
$ mv "$FLOX_DATA_DIR/registry.toml"{,.bak}
~~~`,
	}

	substituterRejectedIssue = &Issue{
		id: SubstituterRejectedId,
		mdMsg: `
# Binary cache rejected!

nix refused one of the extra substituters flox configures.

## Things you can try:
- Check connectivity to the cache endpoint
- Ensure your user is a trusted-user in nix.conf, or that the substituter is
  listed in trusted-substituters:
~~~
trusted-substituters = https://cache.floxdev.com
~~~`,
	}

	issues = map[Id]*Issue{
		nixNotFoundIssue.Id():         nixNotFoundIssue,
		envDerivationFailedIssue.Id(): envDerivationFailedIssue,
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		registryCorruptIssue.Id():     registryCorruptIssue,
		substituterRejectedIssue.Id(): substituterRejectedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
