package filesystem

import (
	"io/fs"
	"sort"

	"github.com/arthur-debert/stowng/pkg/types"
)

// Exists reports whether name exists, following symlinks
func Exists(fsys types.FS, name string) bool {
	_, err := fsys.Stat(name)
	return err == nil
}

// IsDir reports whether name is a directory, following symlinks
func IsDir(fsys types.FS, name string) bool {
	info, err := fsys.Stat(name)
	return err == nil && info.IsDir()
}

// IsSymlink reports whether name itself is a symbolic link
func IsSymlink(fsys types.FS, name string) bool {
	info, err := fsys.Lstat(name)
	return err == nil && info.Mode()&fs.ModeSymlink != 0
}

// ListChildren returns the names inside dir in lexical order
func ListChildren(fsys types.FS, dir string) ([]string, error) {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Name() == "." || entry.Name() == ".." {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
