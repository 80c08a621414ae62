package view

import (
	"github.com/arthur-debert/stowng/pkg/errors"
	"github.com/arthur-debert/stowng/pkg/paths"
)

// StowedPath is a link destination traced back to the package owning it
type StowedPath struct {
	// Path is the destination relative to the target directory
	Path string

	// StowPath is the stow directory the destination lives in
	StowPath string

	// Package owns the destination
	Package string

	// Subpath is Path relative to the package root
	Subpath string
}

// Owned reports whether a stow directory owns the path
func (s StowedPath) Owned() bool {
	return s.Path != ""
}

// FindStowedPath resolves the link at target with destination source to
// the stow directory and package it points into. A directory carrying a
// .stow or .nonstow marker counts as a stow directory, as does the
// configured stow path. The zero value is returned for links stow does not
// own.
func (v *View) FindStowedPath(target, source string) StowedPath {
	path := paths.JoinPaths(paths.Parent(target), source)
	v.logger.Trace().Msgf("is %s owned by stow?", path)

	elems := paths.SplitPath(path)
	dir := ""
	if paths.IsAbsolute(path) {
		dir = "/"
	}
	for i, part := range elems {
		dir = paths.JoinPaths(dir, part)
		if !v.MarkedStowDir(dir) {
			continue
		}
		if i == len(elems)-1 {
			errors.Internalf("find_stowed_path() called directly on stow dir")
		}
		v.logger.Trace().Msgf("yes - %s was marked as a stow dir", dir)
		return StowedPath{
			Path:     path,
			StowPath: dir,
			Package:  elems[i+1],
			Subpath:  paths.JoinPaths(elems[i+2:]...),
		}
	}

	stowPath := v.opts.StowPath
	if paths.IsAbsolute(path) != paths.IsAbsolute(stowPath) {
		v.logger.Warn().Msgf("absolute/relative mismatch between stow dir %s and path %s", stowPath, path)
	}

	rest, ok := paths.TrimPrefixPath(path, stowPath)
	if !ok || rest == "." {
		v.logger.Trace().Msgf("no - %s is not under %s", path, stowPath)
		return StowedPath{}
	}

	restElems := paths.SplitPath(rest)
	v.logger.Trace().Msgf("yes - by %s in %s", restElems[0], stowPath)
	return StowedPath{
		Path:     path,
		StowPath: stowPath,
		Package:  restElems[0],
		Subpath:  paths.JoinPaths(restElems[1:]...),
	}
}

// PathOwnedByPackage reports whether the link at target pointing at source
// belongs to a stow package
func (v *View) PathOwnedByPackage(target, source string) bool {
	return v.FindStowedPath(target, source).Package != ""
}
