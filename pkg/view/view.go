// Package view answers questions about the target tree as it will look once
// every task planned so far has been applied. Pending tasks in the ledger
// take precedence; the real filesystem is consulted only for paths the plan
// has not touched.
package view

import (
	"regexp"

	"github.com/arthur-debert/stowng/pkg/errors"
	"github.com/arthur-debert/stowng/pkg/filesystem"
	"github.com/arthur-debert/stowng/pkg/logging"
	"github.com/arthur-debert/stowng/pkg/paths"
	"github.com/arthur-debert/stowng/pkg/tasks"
	"github.com/arthur-debert/stowng/pkg/types"
	"github.com/rs/zerolog"
)

// Options configures a View
type Options struct {
	// StowPath is the stow directory relative to the target directory
	StowPath string

	// NoFolding disables folding directories back into links
	NoFolding bool

	// Defer and Override are matched against target relative paths
	Defer    []*regexp.Regexp
	Override []*regexp.Regexp
}

// View is the virtual filesystem for one planning session
type View struct {
	fs     types.FS
	ledger *tasks.Ledger
	opts   Options
	logger zerolog.Logger
}

// New creates a view over fsys and the pending tasks in ledger
func New(fsys types.FS, ledger *tasks.Ledger, opts Options) *View {
	return &View{
		fs:     fsys,
		ledger: ledger,
		opts:   opts,
		logger: logging.GetLogger("view"),
	}
}

// StowPath returns the stow directory relative to the target
func (v *View) StowPath() string {
	return v.opts.StowPath
}

// IsALink reports whether path will be a symlink
func (v *View) IsALink(path string) bool {
	switch v.ledger.LinkTaskAction(path) {
	case types.ActionRemove:
		v.logger.Trace().Msgf("is_a_link(%s): returning false (pending removal)", path)
		return false
	case types.ActionCreate:
		v.logger.Trace().Msgf("is_a_link(%s): returning true (pending creation)", path)
		return true
	}

	if filesystem.IsSymlink(v.fs, path) {
		// a real link under a link that is about to go will not be there
		if v.ledger.ParentLinkScheduledForRemoval(path) {
			v.logger.Trace().Msgf("is_a_link(%s): real link, but a parent is scheduled for removal", path)
			return false
		}
		v.logger.Trace().Msgf("is_a_link(%s): real link", path)
		return true
	}

	v.logger.Trace().Msgf("is_a_link(%s): returning false", path)
	return false
}

// IsADir reports whether path will be a directory
func (v *View) IsADir(path string) bool {
	switch v.ledger.DirTaskAction(path) {
	case types.ActionRemove:
		return false
	case types.ActionCreate:
		return true
	}

	if v.ledger.ParentLinkScheduledForRemoval(path) {
		return false
	}

	isDir := filesystem.IsDir(v.fs, path)
	v.logger.Trace().Msgf("is_a_dir(%s): real dir %t", path, isDir)
	return isDir
}

// IsANode reports whether anything will exist at path
func (v *View) IsANode(path string) bool {
	linkAction := v.ledger.LinkTaskAction(path)
	dirAction := v.ledger.DirTaskAction(path)

	switch linkAction {
	case types.ActionRemove:
		switch dirAction {
		case types.ActionRemove:
			errors.Internalf("removing link and dir: %s", path)
			return false
		case types.ActionCreate:
			// unfolding: the link goes, then the directory arrives
			return true
		default:
			return false
		}
	case types.ActionCreate:
		switch dirAction {
		case types.ActionCreate:
			errors.Internalf("creating link and dir: %s", path)
			return true
		default:
			// folding when a dir removal is pending
			return true
		}
	}

	switch dirAction {
	case types.ActionRemove:
		return false
	case types.ActionCreate:
		return true
	}

	if v.ledger.ParentLinkScheduledForRemoval(path) {
		return false
	}

	exists := filesystem.Exists(v.fs, path)
	v.logger.Trace().Msgf("is_a_node(%s): really exists %t", path, exists)
	return exists
}

// MarkedStowDir reports whether dir holds a .stow or .nonstow marker
func (v *View) MarkedStowDir(dir string) bool {
	for _, marker := range []string{paths.StowMarker, paths.NonStowMarker} {
		if filesystem.Exists(v.fs, paths.JoinPaths(dir, marker)) {
			v.logger.Trace().Msgf("%s contains %s", dir, marker)
			return true
		}
	}
	return false
}

// ShouldSkipTarget protects the stow directory and marked directories from
// being used as targets
func (v *View) ShouldSkipTarget(target string) bool {
	if paths.JoinPaths(target) == paths.JoinPaths(v.opts.StowPath) {
		v.logger.Warn().Msgf("skipping target which was current stow directory %s", target)
		return true
	}
	if v.MarkedStowDir(target) {
		v.logger.Warn().Msgf("skipping protected directory %s", target)
		return true
	}
	return false
}

// Defer reports whether an existing link at path owned by another package
// should be left alone
func (v *View) Defer(path string) bool {
	return matchAny(v.opts.Defer, path)
}

// Override reports whether an existing link at path owned by another
// package should be replaced
func (v *View) Override(path string) bool {
	return matchAny(v.opts.Override, path)
}

func matchAny(patterns []*regexp.Regexp, path string) bool {
	for _, re := range patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
