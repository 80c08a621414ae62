package paths

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/stowng/pkg/errors"
)

// Environment variable names
const (
	// EnvStowDir selects the stow directory when none is configured
	EnvStowDir = "STOW_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Marker files that protect a directory from being treated as a target
const (
	// StowMarker marks a stow directory
	StowMarker = ".stow"

	// NonStowMarker marks a directory stow must never descend into
	NonStowMarker = ".nonstow"
)

// Paths holds the resolved locations for one planning session
type Paths struct {
	// StowDir is the absolute, symlink free stow directory
	StowDir string

	// TargetDir is the absolute, symlink free target directory
	TargetDir string

	// StowPath is StowDir relative to TargetDir, slash separated
	StowPath string
}

// Resolve determines the stow and target directories. An empty stowDir
// falls back to $STOW_DIR and then the working directory; an empty
// targetDir falls back to the parent of the stow directory.
func Resolve(stowDir, targetDir string) (Paths, error) {
	if stowDir == "" {
		stowDir = os.Getenv(EnvStowDir)
	}
	if stowDir == "" {
		stowDir = "."
	}

	stowAbs, err := resolveDir(stowDir, "stow")
	if err != nil {
		return Paths{}, err
	}

	if targetDir == "" {
		targetDir = filepath.Dir(stowAbs)
	}
	targetAbs, err := resolveDir(targetDir, "target")
	if err != nil {
		return Paths{}, err
	}

	rel, err := filepath.Rel(targetAbs, stowAbs)
	if err != nil {
		return Paths{}, errors.Wrapf(err, errors.ErrInvalidInput,
			"cannot express stow directory %s relative to target %s", stowAbs, targetAbs)
	}

	return Paths{
		StowDir:   stowAbs,
		TargetDir: targetAbs,
		StowPath:  JoinPaths(filepath.ToSlash(rel)),
	}, nil
}

func resolveDir(dir, role string) (string, error) {
	expanded := ExpandHome(os.ExpandEnv(dir))
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidInput, "invalid %s directory %s", role, dir).
			WithDetail("path", dir)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrNotFound, "%s directory %s does not exist", role, abs).
			WithDetail("path", abs)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "cannot stat %s directory %s", role, resolved)
	}
	if !info.IsDir() {
		return "", errors.Newf(errors.ErrInvalidInput, "%s directory %s is not a directory", role, resolved).
			WithDetail("path", resolved)
	}
	return resolved, nil
}

// ExpandHome expands ~ to the home directory
func ExpandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to HOME env var
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				// Can't expand, return as-is
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		// Handle both ~/ and ~
		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}
