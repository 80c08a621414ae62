package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/stowng/pkg/types"
	"github.com/spf13/afero"
)

// aferoFS implements types.FS on top of an afero filesystem, resolving
// relative names against root. Link destinations are passed through
// untouched so relative links stay relative on disk.
type aferoFS struct {
	fs   afero.Fs
	root string
}

// NewAferoFS creates a filesystem rooted at root. An empty root leaves
// relative names relative to the process working directory.
func NewAferoFS(fs afero.Fs, root string) types.FS {
	return &aferoFS{fs: fs, root: root}
}

// NewOS creates the real filesystem rooted at the target directory
func NewOS(root string) types.FS {
	return NewAferoFS(afero.NewOsFs(), root)
}

func (a *aferoFS) resolve(name string) string {
	name = filepath.FromSlash(name)
	if filepath.IsAbs(name) || a.root == "" {
		return name
	}
	return filepath.Join(a.root, name)
}

func (a *aferoFS) Stat(name string) (fs.FileInfo, error) {
	return a.fs.Stat(a.resolve(name))
}

func (a *aferoFS) Lstat(name string) (fs.FileInfo, error) {
	if lstater, ok := a.fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(a.resolve(name))
		return info, err
	}
	// Without Lstat support there are no symlinks to tell apart
	return a.fs.Stat(a.resolve(name))
}

func (a *aferoFS) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := afero.ReadDir(a.fs, a.resolve(name))
	if err != nil {
		return nil, err
	}
	dirEntries := make([]fs.DirEntry, len(entries))
	for i, entry := range entries {
		dirEntries[i] = fs.FileInfoToDirEntry(entry)
	}
	return dirEntries, nil
}

func (a *aferoFS) ReadFile(name string) ([]byte, error) {
	info, err := a.fs.Stat(a.resolve(name))
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}
	return afero.ReadFile(a.fs, a.resolve(name))
}

func (a *aferoFS) Readlink(name string) (string, error) {
	reader, ok := a.fs.(afero.LinkReader)
	if !ok {
		return "", &os.PathError{Op: "readlink", Path: name, Err: afero.ErrNoReadlink}
	}
	dest, err := reader.ReadlinkIfPossible(a.resolve(name))
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(dest), nil
}

func (a *aferoFS) Symlink(oldname, newname string) error {
	linker, ok := a.fs.(afero.Linker)
	if !ok {
		return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: afero.ErrNoSymlink}
	}
	return linker.SymlinkIfPossible(filepath.FromSlash(oldname), a.resolve(newname))
}

func (a *aferoFS) Mkdir(name string, perm fs.FileMode) error {
	return a.fs.Mkdir(a.resolve(name), perm)
}

func (a *aferoFS) Remove(name string) error {
	return a.fs.Remove(a.resolve(name))
}

func (a *aferoFS) Rename(oldpath, newpath string) error {
	return a.fs.Rename(a.resolve(oldpath), a.resolve(newpath))
}
