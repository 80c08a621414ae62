package planner

import (
	"github.com/arthur-debert/stowng/pkg/errors"
	"github.com/arthur-debert/stowng/pkg/filesystem"
	"github.com/arthur-debert/stowng/pkg/paths"
)

// The compat traversal reproduces the output of the legacy unstow
// algorithm. It walks the target tree rather than the package tree, matches
// ignore patterns against target paths and knows nothing of dotfiles or
// defer. Keep it frozen.

func (u *Unstower) unstowContentsCompat(stowPath, pkg, target string) error {
	if u.view.ShouldSkipTarget(target) {
		return nil
	}

	u.logger.Debug().Msgf("Unstowing %s (compat mode)", target)
	u.logger.Debug().Msgf("  source path is %s", paths.JoinPaths(stowPath, pkg, target))

	if !filesystem.IsDir(u.fs, target) {
		return errors.Newf(errors.ErrNotFound, "unstow_contents_orig() called with non-directory target: %s", target)
	}

	children, err := filesystem.ListChildren(u.fs, target)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "cannot read directory %s", target)
	}

	for _, node := range children {
		nodeTarget := paths.JoinPaths(target, node)
		if u.opts.ignored(stowPath, pkg, nodeTarget) {
			continue
		}
		if err := u.unstowNodeCompat(stowPath, pkg, nodeTarget); err != nil {
			return err
		}
	}
	return nil
}

func (u *Unstower) unstowNodeCompat(stowPath, pkg, target string) error {
	pkgPath := paths.JoinPaths(stowPath, pkg, target)
	u.logger.Debug().Msgf("Unstowing %s (compat mode)", pkgPath)

	if u.view.IsALink(target) {
		existingSource, err := u.ledger.ReadALink(target)
		if err != nil {
			return err
		}

		existing := u.view.FindStowedPath(target, existingSource)
		if !existing.Owned() {
			// not ours, not our business
			return nil
		}

		if !filesystem.Exists(u.fs, existing.Path) {
			u.logger.Debug().Msgf("--- removing invalid link into stow directory: %s", pkgPath)
			return u.ledger.DoUnlink(target)
		}
		if existing.Path == pkgPath {
			return u.ledger.DoUnlink(target)
		}
		if u.view.Override(target) {
			u.logger.Debug().Msgf("--- overriding installation of: %s", target)
			return u.ledger.DoUnlink(target)
		}
		return nil
	}

	if filesystem.IsDir(u.fs, target) {
		if err := u.unstowContentsCompat(stowPath, pkg, target); err != nil {
			return err
		}
		return u.foldIfPossible(target)
	}

	if filesystem.Exists(u.fs, target) {
		u.conflict(pkg, "existing target is neither a link nor a directory: %s", target)
		return nil
	}

	u.logger.Debug().Msgf("%s did not exist to be unstowed", target)
	return nil
}
