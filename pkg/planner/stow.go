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

// Stower plans the installation of packages
type Stower struct {
	fs     types.FS
	ledger *tasks.Ledger
	view   *view.View
	opts   Options
	logger zerolog.Logger
}

// NewStower creates a stow planner recording into ledger
func NewStower(fsys types.FS, ledger *tasks.Ledger, v *view.View, opts Options) *Stower {
	return &Stower{
		fs:     fsys,
		ledger: ledger,
		view:   v,
		opts:   opts,
		logger: logging.GetLogger("planner.stow"),
	}
}

// PlanStow plans stowing each package in order. A missing package is an
// error; conflicts are recorded in the ledger.
func (s *Stower) PlanStow(packages []string) error {
	for _, pkg := range packages {
		if err := checkPackage(s.fs, s.opts.StowPath, pkg); err != nil {
			return err
		}

		s.logger.Debug().Str("package", pkg).Msgf("Planning stow of package %s...", pkg)
		if err := s.stowContents(s.opts.StowPath, pkg, ".", "."); err != nil {
			return err
		}
		s.logger.Debug().Str("package", pkg).Msgf("Planning stow of package %s... done", pkg)
	}
	return nil
}

// stowContents stows every entry of the package directory pkgSubdir into
// the target directory targetSubdir
func (s *Stower) stowContents(stowPath, pkg, targetSubdir, pkgSubdir string) error {
	if s.view.ShouldSkipTarget(targetSubdir) {
		return nil
	}

	pkgPath := paths.JoinPaths(stowPath, pkg, pkgSubdir)
	s.logger.Debug().Msgf("Stowing contents of %s into %s", pkgPath, targetSubdir)

	if !filesystem.IsDir(s.fs, pkgPath) {
		return errors.Newf(errors.ErrNotFound, "stow_contents() called with non-directory package path: %s", pkgPath)
	}
	if !s.view.IsANode(targetSubdir) {
		return errors.Newf(errors.ErrNotFound, "stow_contents() called with non-directory target: %s", targetSubdir)
	}

	children, err := packageChildren(s.fs, pkgPath)
	if err != nil {
		return err
	}

	for _, node := range children {
		pkgNode := paths.JoinPaths(pkgSubdir, node)
		if s.opts.ignored(stowPath, pkg, pkgNode) {
			s.logger.Trace().Msgf("Ignoring %s", pkgNode)
			continue
		}

		target := paths.JoinPaths(targetSubdir, s.opts.targetName(node))
		if err := s.stowNode(stowPath, pkg, target, pkgNode); err != nil {
			return err
		}
	}
	return nil
}

// stowNode stows one package entry at target
func (s *Stower) stowNode(stowPath, pkg, target, pkgSubpath string) error {
	pkgPath := paths.JoinPaths(stowPath, pkg, pkgSubpath)
	source := paths.LinkSource(stowPath, pkg, pkgSubpath, target)
	s.logger.Debug().Msgf("Stowing entry %s / %s / %s", stowPath, pkg, pkgSubpath)

	// absolute symlinks inside a package cannot be unstowed later
	if filesystem.IsSymlink(s.fs, pkgPath) {
		dest, err := s.fs.Readlink(pkgPath)
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot read link %s", pkgPath)
		}
		if paths.IsAbsolute(dest) {
			s.conflict(pkg, "absolute symlink cannot be unstowed: %s => %s", pkgPath, dest)
			return nil
		}
	}

	if s.view.IsALink(target) {
		return s.stowOverLink(stowPath, pkg, target, pkgSubpath, source)
	}

	if s.view.IsANode(target) {
		s.logger.Debug().Msgf("  Evaluate existing node: %s", target)
		if s.view.IsADir(target) {
			if !filesystem.IsDir(s.fs, pkgPath) {
				s.conflict(pkg, "cannot stow non-directory %s over existing directory target %s", pkgPath, target)
				return nil
			}
			return s.stowContents(stowPath, pkg, target, pkgSubpath)
		}

		if !s.opts.Adopt {
			s.conflict(pkg, "existing target is neither a link nor a directory: %s", target)
			return nil
		}
		if filesystem.IsDir(s.fs, pkgPath) {
			s.conflict(pkg, "cannot stow directory %s over existing non-directory target %s", pkgPath, target)
			return nil
		}
		s.ledger.DoMove(target, pkgPath)
		s.ledger.DoLink(source, target)
		return nil
	}

	if s.opts.NoFolding && filesystem.IsDir(s.fs, pkgPath) && !filesystem.IsSymlink(s.fs, pkgPath) {
		s.ledger.DoMkdir(target)
		return s.stowContents(stowPath, pkg, target, pkgSubpath)
	}

	s.ledger.DoLink(source, target)
	return nil
}

// stowOverLink decides what happens to an existing or planned link at
// target
func (s *Stower) stowOverLink(stowPath, pkg, target, pkgSubpath, source string) error {
	s.logger.Debug().Msgf("  Evaluate existing link: %s", target)

	existingSource, err := s.ledger.ReadALink(target)
	if err != nil {
		return err
	}

	existing := s.view.FindStowedPath(target, existingSource)
	if !existing.Owned() {
		s.conflict(pkg, "existing target is not owned by stow: %s", target)
		return nil
	}

	if !s.view.IsANode(existing.Path) {
		s.logger.Debug().Msgf("--- replacing invalid link: %s", target)
		if err := s.ledger.DoUnlink(target); err != nil {
			return err
		}
		s.ledger.DoLink(source, target)
		return nil
	}

	parent := paths.Parent(target)
	switch {
	case paths.JoinPaths(existingSource) == source:
		s.logger.Debug().Msgf("--- Skipping %s as it already points to %s", target, source)

	case s.view.Defer(target):
		s.logger.Debug().Msgf("--- Deferring installation of: %s", target)

	case s.view.Override(target):
		s.logger.Debug().Msgf("--- Overriding installation of: %s", target)
		if err := s.ledger.DoUnlink(target); err != nil {
			return err
		}
		s.ledger.DoLink(source, target)

	case s.view.IsADir(paths.JoinPaths(parent, existingSource)) && s.view.IsADir(paths.JoinPaths(parent, source)):
		// two packages want the same directory: replace the folded link
		// with a real directory holding links from both
		s.logger.Debug().Msgf("--- Unfolding %s which was already owned by %s", target, existing.Package)
		if err := s.ledger.DoUnlink(target); err != nil {
			return err
		}
		s.ledger.DoMkdir(target)
		if err := s.stowContents(existing.StowPath, existing.Package, target, existing.Subpath); err != nil {
			return err
		}
		return s.stowContents(stowPath, pkg, target, pkgSubpath)

	default:
		s.conflict(pkg, "existing target is stowed to a different package: %s => %s", target, existingSource)
	}
	return nil
}

func (s *Stower) conflict(pkg, format string, args ...interface{}) {
	s.ledger.Conflict(types.OperationStow, pkg, fmt.Sprintf(format, args...))
}
