package planner

import (
	"fmt"

	"github.com/arthur-debert/stowng/pkg/errors"
	"github.com/arthur-debert/stowng/pkg/filesystem"
	"github.com/arthur-debert/stowng/pkg/logging"
	"github.com/arthur-debert/stowng/pkg/paths"
	"github.com/arthur-debert/stowng/pkg/tasks"
	"github.com/arthur-debert/stowng/pkg/types"
	"github.com/arthur-debert/stowng/pkg/view"
	"github.com/rs/zerolog"
)

// Unstower plans the removal of packages
type Unstower struct {
	fs     types.FS
	ledger *tasks.Ledger
	view   *view.View
	opts   Options
	logger zerolog.Logger
}

// NewUnstower creates an unstow planner recording into ledger
func NewUnstower(fsys types.FS, ledger *tasks.Ledger, v *view.View, opts Options) *Unstower {
	return &Unstower{
		fs:     fsys,
		ledger: ledger,
		view:   v,
		opts:   opts,
		logger: logging.GetLogger("planner.unstow"),
	}
}

// PlanUnstow plans unstowing each package in order
func (u *Unstower) PlanUnstow(packages []string) error {
	for _, pkg := range packages {
		if err := checkPackage(u.fs, u.opts.StowPath, pkg); err != nil {
			return err
		}

		u.logger.Debug().Str("package", pkg).Msgf("Planning unstow of package %s...", pkg)
		var err error
		if u.opts.Compat {
			err = u.unstowContentsCompat(u.opts.StowPath, pkg, ".")
		} else {
			err = u.unstowContents(u.opts.StowPath, pkg, ".", ".")
		}
		if err != nil {
			return err
		}
		u.logger.Debug().Str("package", pkg).Msgf("Planning unstow of package %s... done", pkg)
	}
	return nil
}

// unstowContents walks the package directory pkgSubdir and removes its
// links from targetSubdir
func (u *Unstower) unstowContents(stowPath, pkg, targetSubdir, pkgSubdir string) error {
	if u.view.ShouldSkipTarget(targetSubdir) {
		return nil
	}

	pkgPath := paths.JoinPaths(stowPath, pkg, pkgSubdir)
	u.logger.Debug().Msgf("Unstowing from %s (stow dir=%s)", targetSubdir, stowPath)
	u.logger.Debug().Msgf("  source path is %s", pkgPath)

	if !filesystem.IsDir(u.fs, pkgPath) {
		return errors.Newf(errors.ErrNotFound, "unstow_contents() called with non-directory path: %s", pkgPath)
	}
	if !u.view.IsANode(targetSubdir) {
		return errors.Newf(errors.ErrNotFound, "unstow_contents() called with invalid target: %s", targetSubdir)
	}

	children, err := packageChildren(u.fs, pkgPath)
	if err != nil {
		return err
	}

	for _, node := range children {
		pkgNode := paths.JoinPaths(pkgSubdir, node)
		if u.opts.ignored(stowPath, pkg, pkgNode) {
			u.logger.Trace().Msgf("Ignoring %s", pkgNode)
			continue
		}

		target := paths.JoinPaths(targetSubdir, u.opts.targetName(node))
		if err := u.unstowNode(stowPath, pkg, target, pkgNode); err != nil {
			return err
		}
	}

	if u.view.IsADir(targetSubdir) {
		return u.cleanupInvalidLinks(targetSubdir)
	}
	return nil
}

// unstowNode removes the package entry pkgSubpath from target
func (u *Unstower) unstowNode(stowPath, pkg, target, pkgSubpath string) error {
	pkgPath := paths.JoinPaths(stowPath, pkg, pkgSubpath)
	u.logger.Debug().Msgf("Unstowing %s", pkgPath)
	u.logger.Debug().Msgf("  target is %s", target)

	if u.view.IsALink(target) {
		u.logger.Debug().Msgf("  Evaluate existing link: %s", target)

		existingSource, err := u.ledger.ReadALink(target)
		if err != nil {
			return err
		}
		if paths.IsAbsolute(existingSource) {
			u.logger.Warn().Msgf("Ignoring an absolute symlink: %s => %s", target, existingSource)
			return nil
		}

		existing := u.view.FindStowedPath(target, existingSource)
		if !existing.Owned() {
			u.conflict(pkg, "existing target is not owned by stow: %s => %s", target, existingSource)
			return nil
		}

		if !filesystem.Exists(u.fs, existing.Path) {
			u.logger.Debug().Msgf("--- removing invalid link into a stow directory: %s", pkgPath)
			return u.ledger.DoUnlink(target)
		}
		if existing.Path == pkgPath {
			return u.ledger.DoUnlink(target)
		}
		u.logger.Debug().Msgf("--- %s belongs to %s, leaving it", target, existing.Package)
		return nil
	}

	if !filesystem.Exists(u.fs, target) {
		u.logger.Debug().Msgf("%s did not exist to be unstowed", target)
		return nil
	}

	u.logger.Debug().Msgf("  Evaluate existing node: %s", target)
	if !filesystem.IsDir(u.fs, target) {
		u.conflict(pkg, "existing target is neither a link nor a directory: %s", target)
		return nil
	}
	if !filesystem.IsDir(u.fs, pkgPath) {
		u.logger.Debug().Msgf("--- %s is a directory but %s is not, nothing of this package is inside", target, pkgPath)
		return nil
	}

	if err := u.unstowContents(stowPath, pkg, target, pkgSubpath); err != nil {
		return err
	}
	return u.foldIfPossible(target)
}

// cleanupInvalidLinks removes dangling links in dir that still point into
// a stow directory
func (u *Unstower) cleanupInvalidLinks(dir string) error {
	children, err := filesystem.ListChildren(u.fs, dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read directory %s", dir)
	}

	for _, node := range children {
		path := paths.JoinPaths(dir, node)
		if !filesystem.IsSymlink(u.fs, path) || u.ledger.HasLinkTask(path) {
			continue
		}

		source, err := u.fs.Readlink(path)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "could not read link %s", path)
		}

		if !filesystem.Exists(u.fs, paths.JoinPaths(dir, source)) && u.view.PathOwnedByPackage(path, source) {
			u.logger.Debug().Msgf("--- removing stale link: %s => %s", path, paths.JoinPaths(dir, source))
			if err := u.ledger.DoUnlink(path); err != nil {
				return err
			}
		}
	}
	return nil
}

func (u *Unstower) foldIfPossible(target string) error {
	parent, err := u.view.Foldable(target)
	if err != nil {
		return err
	}
	if parent == "" {
		return nil
	}
	return u.view.FoldTree(target, parent)
}

func (u *Unstower) conflict(pkg, format string, args ...interface{}) {
	u.ledger.Conflict(types.OperationUnstow, pkg, fmt.Sprintf(format, args...))
}
