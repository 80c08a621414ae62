// Package ignore decides which package entries are never stowed.
//
// Patterns come from the first of these that exists: the package's
// .stow-local-ignore, the user's ~/.stow-global-ignore, the built-in list.
// Patterns given on the command line apply on top of whichever file wins.
package ignore

import (
	_ "embed"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/arthur-debert/stowng/pkg/errors"
	"github.com/arthur-debert/stowng/pkg/filesystem"
	"github.com/arthur-debert/stowng/pkg/logging"
	"github.com/arthur-debert/stowng/pkg/paths"
	"github.com/arthur-debert/stowng/pkg/types"
	"github.com/rs/zerolog"
)

const (
	// LocalIgnoreFile lives at the root of a package
	LocalIgnoreFile = ".stow-local-ignore"

	// GlobalIgnoreFile lives in the user's home directory
	GlobalIgnoreFile = ".stow-global-ignore"
)

//go:embed default-ignore-list
var defaultIgnoreList string

// Rules is a compiled ignore file. A nil regexp matches nothing.
type Rules struct {
	// Path is matched against "/" + the package relative path
	Path *regexp.Regexp

	// Segment is matched against the entry's base name
	Segment *regexp.Regexp
}

// Options configures a List
type Options struct {
	// Patterns are extra regexps matched against the package relative path,
	// already anchored by the caller
	Patterns []*regexp.Regexp

	// Home is where the global ignore file is looked up. Empty disables it.
	Home string
}

// List answers ignore queries for one planning session
type List struct {
	fs       types.FS
	opts     Options
	defaults Rules
	memo     map[string]Rules
	logger   zerolog.Logger
}

// New creates an ignore list reading ignore files through fsys
func New(fsys types.FS, opts Options) *List {
	defaults, err := Compile(ParseLines(defaultIgnoreList))
	if err != nil {
		errors.Internalf("built-in ignore list does not compile: %v", err)
	}
	return &List{
		fs:       fsys,
		opts:     opts,
		defaults: defaults,
		memo:     make(map[string]Rules),
		logger:   logging.GetLogger("ignore"),
	}
}

// Ignored reports whether pkgPath, relative to the root of pkg, is excluded.
// It satisfies types.IgnoreFunc.
func (l *List) Ignored(stowPath, pkg, pkgPath string) bool {
	if pkgPath == "" {
		errors.Internalf("ignore() called with empty target")
	}

	for _, re := range l.opts.Patterns {
		if re.MatchString(pkgPath) {
			l.logger.Debug().Msgf("  Ignoring path %s due to --ignore=%s", pkgPath, re)
			return true
		}
	}

	rules := l.rulesFor(paths.JoinPaths(stowPath, pkg))

	if rules.Path != nil && rules.Path.MatchString("/"+pkgPath) {
		l.logger.Debug().Msgf("  Ignoring path %s", pkgPath)
		return true
	}

	base := pkgPath
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	if rules.Segment != nil && rules.Segment.MatchString(base) {
		l.logger.Debug().Msgf("  Ignoring path segment %s", pkgPath)
		return true
	}

	l.logger.Trace().Msgf("  Not ignoring %s", pkgPath)
	return false
}

func (l *List) rulesFor(pkgDir string) Rules {
	candidates := []string{paths.JoinPaths(pkgDir, LocalIgnoreFile)}
	if l.opts.Home != "" {
		candidates = append(candidates, filepath.Join(l.opts.Home, GlobalIgnoreFile))
	}

	for _, file := range candidates {
		if !filesystem.Exists(l.fs, file) {
			l.logger.Trace().Msgf("  %s didn't exist", file)
			continue
		}
		l.logger.Debug().Msgf("  Using ignore file: %s", file)
		return l.rulesFromFile(file)
	}

	l.logger.Trace().Msg("  Using built-in ignore list")
	return l.defaults
}

func (l *List) rulesFromFile(file string) Rules {
	if rules, ok := l.memo[file]; ok {
		return rules
	}

	rules, err := l.load(file)
	if err != nil {
		// an unusable file ignores nothing rather than aborting the run
		l.logger.Warn().Err(err).Str("file", file).Msg("Ignoring unusable ignore file")
		rules = Rules{}
	}
	l.memo[file] = rules
	return rules
}

func (l *List) load(file string) (Rules, error) {
	data, err := l.fs.ReadFile(file)
	if err != nil {
		return Rules{}, errors.Wrapf(err, errors.ErrFileAccess, "cannot read ignore file %s", file)
	}
	rules, err := Compile(ParseLines(string(data)))
	if err != nil {
		return Rules{}, errors.Wrapf(err, errors.ErrPatternValid, "invalid pattern in %s", file)
	}
	return rules, nil
}

var trailingComment = regexp.MustCompile(`\s+#.+$`)

// ParseLines extracts the regexps from ignore file content. Blank lines and
// lines starting with # are skipped, trailing " # comments" are removed and
// \# stands for a literal #.
func ParseLines(data string) []string {
	var regexps []string
	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = trailingComment.ReplaceAllString(line, "")
		line = strings.ReplaceAll(line, `\#`, "#")
		regexps = append(regexps, strings.TrimSpace(line))
	}
	return regexps
}

// Compile splits regexps into path patterns (those containing a slash) and
// segment patterns, and joins each group into one regexp
func Compile(regexps []string) (Rules, error) {
	var pathRes, segmentRes []string
	for _, re := range regexps {
		if strings.Contains(re, "/") {
			pathRes = append(pathRes, re)
		} else {
			segmentRes = append(segmentRes, re)
		}
	}

	var rules Rules
	var err error
	if len(pathRes) > 0 {
		rules.Path, err = regexp.Compile(`(?:^|/)(?:` + strings.Join(pathRes, "|") + `)(?:/|$)`)
		if err != nil {
			return Rules{}, err
		}
	}
	if len(segmentRes) > 0 {
		rules.Segment, err = regexp.Compile(`^(?:` + strings.Join(segmentRes, "|") + `)$`)
		if err != nil {
			return Rules{}, err
		}
	}
	return rules, nil
}
