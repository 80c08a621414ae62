package cli

import (
	_ "embed"
	"strings"
)

// Command descriptions
const (
	MsgRootShort = "Manage a farm of symlinks to installed packages"
	MsgRootLong  = `stowng installs packages kept in a stow directory by symlinking their
contents into a target directory, and removes them again.

Packages named without an action flag are stowed. Directories are folded
into a single link whenever one package owns all of their contents, and
unfolded again as soon as a second package needs to share them.

Nothing is changed when any package would cause a conflict: the conflicts
are listed and the whole run is aborted.`
	MsgRootExample = `  stowng -d ~/dotfiles -t ~ vim zsh     # stow two packages
  stowng -D vim                         # unstow vim
  stowng -R zsh                         # unstow then stow zsh again
  stowng -n -o json -S git              # show the plan as json, change nothing`

	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgManShort        = "Generate the man page"
	MsgGenConfigShort  = "Print the default configuration file"
	MsgGenConfigLong   = `Print the default configuration, every key commented out, to stdout.
With --write the file is created in the user configuration directory
instead, unless one already exists there.`
)

// Flag descriptions
const (
	MsgFlagDir       = "Set the stow directory (default: $STOW_DIR or the current directory)"
	MsgFlagTarget    = "Set the target directory (default: the parent of the stow directory)"
	MsgFlagStow      = "Stow the given packages"
	MsgFlagDelete    = "Unstow the given packages"
	MsgFlagRestow    = "Unstow then stow the given packages, pruning obsolete links"
	MsgFlagIgnore    = "Ignore files ending in this regex"
	MsgFlagDefer     = "Do not stow files beginning with this regex if already stowed by another package"
	MsgFlagOverride  = "Force stowing files beginning with this regex over another package"
	MsgFlagAdopt     = "Move existing target files into the package before linking them"
	MsgFlagNoFolding = "Never fold directories into a single link"
	MsgFlagDotfiles  = "Install package entries named dot-foo as .foo"
	MsgFlagCompat    = "Unstow by scanning the whole target tree, like legacy stow"
	MsgFlagSimulate  = "Plan and report, but do not modify the filesystem"
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagOutput    = "Output format: auto, text, term, json, yaml or toml"
	MsgFlagLogFile   = "Also append log lines to the state log file"
	MsgFlagWrite     = "Write the file to the user configuration directory"
)

// Messages and errors
const (
	MsgConfigWritten   = "Wrote %s\n"
	MsgErrNoPackages   = "no packages to stow or unstow"
	MsgErrConfigExists = "configuration file %s already exists"
	MsgErrAborted      = "conflicts found, all operations aborted"
)

// Long messages from embedded files
var (
	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw) + "\n"
)
