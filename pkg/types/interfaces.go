package types

import (
	"io/fs"
)

// FS is the set of primitive filesystem operations stow planning and
// application need. Relative names are resolved against the target
// directory.
type FS interface {
	// Queries
	Stat(name string) (fs.FileInfo, error)
	Lstat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	ReadFile(name string) ([]byte, error)
	Readlink(name string) (string, error)

	// Mutations
	Symlink(oldname, newname string) error
	Mkdir(name string, perm fs.FileMode) error
	Remove(name string) error
	Rename(oldpath, newpath string) error
}

// IgnoreFunc reports whether pkgPath, relative to the package root, is
// excluded from stowing
type IgnoreFunc func(stowPath, pkg, pkgPath string) bool
