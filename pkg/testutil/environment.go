// pkg/testutil/environment.go
// DEPENDENCIES: pkg/filesystem
// PURPOSE: Build real stow and target trees for planner scenario tests

package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/stowng/pkg/filesystem"
	"github.com/arthur-debert/stowng/pkg/types"
)

// TestEnvironment is a stow directory and a target directory side by side
// in a temporary directory. All helper paths are relative to TargetDir, so
// the stow directory is reachable as "../stow".
type TestEnvironment struct {
	Root      string
	StowDir   string
	TargetDir string

	// StowPath is the stow directory relative to the target
	StowPath string

	// FS is the real filesystem rooted at TargetDir
	FS types.FS

	t *testing.T
}

// NewTestEnvironment creates root/stow and root/target
func NewTestEnvironment(t *testing.T) *TestEnvironment {
	t.Helper()

	// macOS temp dirs live behind a symlink; the planner wants real paths
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp dir: %v", err)
	}

	env := &TestEnvironment{
		Root:      root,
		StowDir:   filepath.Join(root, "stow"),
		TargetDir: filepath.Join(root, "target"),
		StowPath:  "../stow",
		t:         t,
	}
	env.MakeDir("../stow")
	env.MakeDir(".")
	env.FS = filesystem.NewOS(env.TargetDir)
	return env
}

// Path returns the absolute path of a target relative name
func (e *TestEnvironment) Path(rel string) string {
	return filepath.Join(e.TargetDir, filepath.FromSlash(rel))
}

// MakeDir creates rel and any missing parents
func (e *TestEnvironment) MakeDir(rel string) {
	e.t.Helper()
	if err := os.MkdirAll(e.Path(rel), 0755); err != nil {
		e.t.Fatalf("Failed to create dir %s: %v", rel, err)
	}
}

// MakeFile writes content to rel, creating parent directories
func (e *TestEnvironment) MakeFile(rel, content string) {
	e.t.Helper()
	e.MakeDir(filepath.Dir(rel))
	if err := os.WriteFile(e.Path(rel), []byte(content), 0644); err != nil {
		e.t.Fatalf("Failed to write file %s: %v", rel, err)
	}
}

// MakeLink creates a symlink at rel pointing at dest, verbatim. The
// destination does not need to exist.
func (e *TestEnvironment) MakeLink(rel, dest string) {
	e.t.Helper()
	e.MakeDir(filepath.Dir(rel))
	if err := os.Symlink(dest, e.Path(rel)); err != nil {
		e.t.Fatalf("Failed to create link %s -> %s: %v", rel, dest, err)
	}
}

// ReadLink returns the raw destination of the link at rel
func (e *TestEnvironment) ReadLink(rel string) string {
	e.t.Helper()
	dest, err := os.Readlink(e.Path(rel))
	if err != nil {
		e.t.Fatalf("Failed to read link %s: %v", rel, err)
	}
	return dest
}

// CatFile returns the content of rel, following links
func (e *TestEnvironment) CatFile(rel string) string {
	e.t.Helper()
	data, err := os.ReadFile(e.Path(rel))
	if err != nil {
		e.t.Fatalf("Failed to read file %s: %v", rel, err)
	}
	return string(data)
}

// IsLink reports whether rel is a symlink
func (e *TestEnvironment) IsLink(rel string) bool {
	info, err := os.Lstat(e.Path(rel))
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

// IsDir reports whether rel is a real directory, not a link to one
func (e *TestEnvironment) IsDir(rel string) bool {
	info, err := os.Lstat(e.Path(rel))
	return err == nil && info.IsDir()
}

// Exists reports whether anything, dangling links included, is at rel
func (e *TestEnvironment) Exists(rel string) bool {
	_, err := os.Lstat(e.Path(rel))
	return err == nil
}

// Snapshot maps every path under the target directory to a short
// description of what is there, for before/after comparisons.
func (e *TestEnvironment) Snapshot() map[string]string {
	e.t.Helper()
	snap := make(map[string]string)
	err := filepath.Walk(e.TargetDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(e.TargetDir, path)
		switch {
		case info.Mode()&os.ModeSymlink != 0:
			dest, _ := os.Readlink(path)
			snap[rel] = "link:" + dest
		case info.IsDir():
			snap[rel] = "dir"
		default:
			data, _ := os.ReadFile(path)
			snap[rel] = "file:" + string(data)
		}
		return nil
	})
	if err != nil {
		e.t.Fatalf("Failed to snapshot target: %v", err)
	}
	return snap
}
