package ignore_test

import (
	"regexp"
	"testing"

	"github.com/arthur-debert/stowng/pkg/ignore"
	"github.com/arthur-debert/stowng/pkg/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLines(t *testing.T) {
	content := `# leading comment

RCS
.+~          # emacs backup files
\#.*\#
  \.git  
`
	assert.Equal(t, []string{"RCS", ".+~", "#.*#", `\.git`}, ignore.ParseLines(content))
}

func TestCompile(t *testing.T) {
	rules, err := ignore.Compile([]string{"CVS", `\.git`, "^/README.*", "bin/tmp"})
	require.NoError(t, err)
	require.NotNil(t, rules.Path)
	require.NotNil(t, rules.Segment)

	assert.True(t, rules.Segment.MatchString("CVS"))
	assert.True(t, rules.Segment.MatchString(".git"))
	assert.False(t, rules.Segment.MatchString("CVSROOT"))

	assert.True(t, rules.Path.MatchString("/README.md"))
	assert.False(t, rules.Path.MatchString("/doc/README.md"))
	assert.True(t, rules.Path.MatchString("/bin/tmp"))
	assert.True(t, rules.Path.MatchString("/opt/bin/tmp/x"))
}

func TestCompileEmpty(t *testing.T) {
	rules, err := ignore.Compile(nil)
	require.NoError(t, err)
	assert.Nil(t, rules.Path)
	assert.Nil(t, rules.Segment)
}

func TestCompileInvalid(t *testing.T) {
	_, err := ignore.Compile([]string{"(unclosed"})
	assert.Error(t, err)
}

func TestBuiltInList(t *testing.T) {
	fsys, _ := testutil.NewTestFS()
	list := ignore.New(fsys, ignore.Options{})

	tests := []struct {
		path string
		want bool
	}{
		{"CVS", true},
		{"lib/CVS", true},
		{".git", true},
		{"sub/.gitignore", true},
		{"file.c,v", true},
		{"notes~", true},
		{"#autosave#", true},
		{".#lock", true},
		{"README", true},
		{"README.md", true},
		{"LICENSE.txt", true},
		{"COPYING", true},
		{"doc/README", false},
		{"bin/vim", false},
		{".vimrc", false},
		{".gitconfig", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, list.Ignored("stow", "pkg", tt.path))
		})
	}
}

func TestLocalIgnoreFileReplacesBuiltIns(t *testing.T) {
	fsys, mem := testutil.NewTestFS()
	require.NoError(t, afero.WriteFile(mem, "/stow/pkg/.stow-local-ignore", []byte("secret\n^/private/.*\n"), 0644))

	list := ignore.New(fsys, ignore.Options{})

	assert.True(t, list.Ignored("stow", "pkg", "secret"))
	assert.True(t, list.Ignored("stow", "pkg", "conf/secret"))
	assert.True(t, list.Ignored("stow", "pkg", "private/key"))
	assert.False(t, list.Ignored("stow", "pkg", "conf/private/key"))

	// built-ins no longer apply
	assert.False(t, list.Ignored("stow", "pkg", "README"))

	// other packages still use the built-in list
	assert.True(t, list.Ignored("stow", "other", "README"))
}

func TestGlobalIgnoreFile(t *testing.T) {
	fsys, mem := testutil.NewTestFS()
	require.NoError(t, afero.WriteFile(mem, "/home/user/.stow-global-ignore", []byte("\\.DS_Store\n"), 0644))
	require.NoError(t, afero.WriteFile(mem, "/stow/local/.stow-local-ignore", []byte("only-here\n"), 0644))

	list := ignore.New(fsys, ignore.Options{Home: "/home/user"})

	assert.True(t, list.Ignored("stow", "pkg", ".DS_Store"))
	assert.False(t, list.Ignored("stow", "pkg", "README"))

	// local file wins over the global one
	assert.False(t, list.Ignored("stow", "local", ".DS_Store"))
	assert.True(t, list.Ignored("stow", "local", "only-here"))
}

func TestCommandLinePatterns(t *testing.T) {
	fsys, _ := testutil.NewTestFS()
	list := ignore.New(fsys, ignore.Options{
		Patterns: []*regexp.Regexp{regexp.MustCompile(`(?:\.orig)\z`)},
	})

	assert.True(t, list.Ignored("stow", "pkg", "bin/vim.orig"))
	assert.False(t, list.Ignored("stow", "pkg", "bin/vim.origin"))
	assert.True(t, list.Ignored("stow", "pkg", "CVS"), "built-ins still apply")
}

func TestUnusableIgnoreFileIgnoresNothing(t *testing.T) {
	fsys, mem := testutil.NewTestFS()
	require.NoError(t, afero.WriteFile(mem, "/stow/pkg/.stow-local-ignore", []byte("(broken\n"), 0644))

	list := ignore.New(fsys, ignore.Options{})
	assert.False(t, list.Ignored("stow", "pkg", "(broken"))
	assert.False(t, list.Ignored("stow", "pkg", "README"))
}

func TestIgnoreFileIsReadOnce(t *testing.T) {
	fsys, mem := testutil.NewTestFS()
	require.NoError(t, afero.WriteFile(mem, "/stow/pkg/.stow-local-ignore", []byte("first\n"), 0644))

	list := ignore.New(fsys, ignore.Options{})
	assert.True(t, list.Ignored("stow", "pkg", "first"))

	require.NoError(t, afero.WriteFile(mem, "/stow/pkg/.stow-local-ignore", []byte("second\n"), 0644))
	assert.True(t, list.Ignored("stow", "pkg", "first"))
	assert.False(t, list.Ignored("stow", "pkg", "second"))
}

func TestEmptyPathPanics(t *testing.T) {
	fsys, _ := testutil.NewTestFS()
	list := ignore.New(fsys, ignore.Options{})
	assert.Panics(t, func() { list.Ignored("stow", "pkg", "") })
}
