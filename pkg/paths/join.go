package paths

import (
	"regexp"
	"strings"
)

// JoinPaths concatenates path parts and normalises the result. Empty parts
// and "." are dropped, ".." removes the previous component unless that is
// itself "..", and an absolute part restarts the result. An empty result is
// returned as ".".
func JoinPaths(parts ...string) string {
	var result []string
	absolute := false

	for _, part := range parts {
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "/") {
			result = result[:0]
			absolute = true
		}
		for _, elem := range strings.Split(part, "/") {
			switch {
			case elem == "" || elem == ".":
				continue
			case elem == ".." && len(result) > 0 && result[len(result)-1] != "..":
				result = result[:len(result)-1]
			case elem == ".." && absolute && len(result) == 0:
				// "/.." is "/"
				continue
			default:
				result = append(result, elem)
			}
		}
	}

	joined := strings.Join(result, "/")
	if absolute {
		return "/" + joined
	}
	if joined == "" {
		return "."
	}
	return joined
}

// Parent returns the path without its last component, or "." when there is
// none.
func Parent(path string) string {
	elems := SplitPath(path)
	if len(elems) <= 1 {
		if strings.HasPrefix(path, "/") {
			return "/"
		}
		return "."
	}
	parent := strings.Join(elems[:len(elems)-1], "/")
	if strings.HasPrefix(path, "/") {
		return "/" + parent
	}
	return parent
}

// SplitPath returns the non empty components of path, "." excluded
func SplitPath(path string) []string {
	var elems []string
	for _, elem := range strings.Split(path, "/") {
		if elem == "" || elem == "." {
			continue
		}
		elems = append(elems, elem)
	}
	return elems
}

// IsAbsolute reports whether a link destination is absolute
func IsAbsolute(path string) bool {
	return strings.HasPrefix(path, "/")
}

var dotfilePrefix = regexp.MustCompile(`^dot-([^.])`)

// AdjustDotfile translates a package node name starting with "dot-" into
// its installed ".name" form. "dot-", "dot-." and "dot-.." are left alone.
func AdjustDotfile(name string) string {
	return dotfilePrefix.ReplaceAllString(name, ".$1")
}

// AdjustDotfilePath applies AdjustDotfile to every component of path
func AdjustDotfilePath(path string) string {
	elems := SplitPath(path)
	for i, elem := range elems {
		elems[i] = AdjustDotfile(elem)
	}
	return JoinPaths(elems...)
}

// LevelUp returns the ".." prefix that climbs from a node at the given
// target relative path back to the target root.
func LevelUp(target string) string {
	depth := len(SplitPath(target))
	if depth <= 1 {
		return "."
	}
	return strings.TrimSuffix(strings.Repeat("../", depth-1), "/")
}

// LinkSource returns the relative destination a link at target needs to
// reach pkgSubpath inside pkg under stowPath.
func LinkSource(stowPath, pkg, pkgSubpath, target string) string {
	return JoinPaths(LevelUp(target), stowPath, pkg, pkgSubpath)
}

// TrimPrefixPath strips the component-wise prefix from path. The second
// result is false when prefix is not a leading part of path.
func TrimPrefixPath(path, prefix string) (string, bool) {
	elems := SplitPath(path)
	prefixElems := SplitPath(prefix)
	if IsAbsolute(path) != IsAbsolute(prefix) || len(prefixElems) > len(elems) {
		return "", false
	}
	for i, elem := range prefixElems {
		if elems[i] != elem {
			return "", false
		}
	}
	return JoinPaths(elems[len(prefixElems):]...), true
}
