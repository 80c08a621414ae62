// Package planner walks packages and records the tasks that stow or unstow
// them into the shared ledger. Planning never touches the filesystem; it
// reads real state only through the view and the ledger.
package planner

import (
	"strings"

	"github.com/arthur-debert/stowng/pkg/errors"
	"github.com/arthur-debert/stowng/pkg/filesystem"
	"github.com/arthur-debert/stowng/pkg/paths"
	"github.com/arthur-debert/stowng/pkg/types"
)

// Options shared by the stow and unstow planners
type Options struct {
	// StowPath is the stow directory relative to the target directory
	StowPath string

	// Dotfiles installs package entries named dot-foo as .foo
	Dotfiles bool

	// Adopt moves existing target files into the package instead of
	// reporting a conflict
	Adopt bool

	// NoFolding creates real directories instead of folded links
	NoFolding bool

	// Compat selects the legacy unstow traversal
	Compat bool

	// Ignore excludes package entries. Nil ignores nothing.
	Ignore types.IgnoreFunc
}

func (o Options) ignored(stowPath, pkg, pkgPath string) bool {
	if o.Ignore == nil {
		return false
	}
	return o.Ignore(stowPath, pkg, pkgPath)
}

// targetName maps a package entry name to its installed name
func (o Options) targetName(node string) string {
	if o.Dotfiles {
		return paths.AdjustDotfile(node)
	}
	return node
}

// checkPackage validates a package name and makes sure it exists under the
// stow directory
func checkPackage(fsys types.FS, stowPath, pkg string) error {
	if pkg == "" || pkg == "." || pkg == ".." || strings.Contains(pkg, "/") {
		return errors.Newf(errors.ErrInvalidInput, "invalid package name %q: slashes are not permitted in package names", pkg).
			WithDetail("package", pkg)
	}
	if !filesystem.IsDir(fsys, paths.JoinPaths(stowPath, pkg)) {
		return errors.Newf(errors.ErrPackageNotFound, "the stow directory %s does not contain package %s", stowPath, pkg).
			WithDetail("package", pkg)
	}
	return nil
}

// packageChildren lists a package directory, which must exist
func packageChildren(fsys types.FS, pkgPath string) ([]string, error) {
	children, err := filesystem.ListChildren(fsys, pkgPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read directory %s", pkgPath).
			WithDetail("path", pkgPath)
	}
	return children, nil
}
