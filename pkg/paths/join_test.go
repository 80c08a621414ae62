package paths_test

import (
	"testing"

	"github.com/arthur-debert/stowng/pkg/paths"
	"github.com/stretchr/testify/assert"
)

func TestJoinPaths(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
		want  string
	}{
		{"simple", []string{"a", "b"}, "a/b"},
		{"drops dot", []string{".", "bin"}, "bin"},
		{"drops empty", []string{"", "a", "", "b"}, "a/b"},
		{"collapses slashes", []string{"a//b/", "c"}, "a/b/c"},
		{"dotdot consumes previous", []string{"a/b", "../c"}, "a/c"},
		{"leading dotdot kept", []string{"..", "stow"}, "../stow"},
		{"dotdot stacks", []string{"..", "../stow", "pkg"}, "../../stow/pkg"},
		{"parent of link dir", []string{"bin3", "../stow/pkg3a/bin3"}, "stow/pkg3a/bin3"},
		{"absolute restarts", []string{"a", "/etc", "passwd"}, "/etc/passwd"},
		{"absolute dotdot at root", []string{"/..", "x"}, "/x"},
		{"empty result is dot", []string{"a", ".."}, "."},
		{"nothing", nil, "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paths.JoinPaths(tt.parts...))
		})
	}
}

func TestParent(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"a/b/c", "a/b"},
		{"bin", "."},
		{".", "."},
		{"", "."},
		{"../stow/pkg", "../stow"},
		{"/etc/passwd", "/etc"},
		{"/etc", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, paths.Parent(tt.path))
		})
	}
}

func TestAdjustDotfile(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"dot-bashrc", ".bashrc"},
		{"dot-config", ".config"},
		{"dot-", "dot-"},
		{"dot-.", "dot-."},
		{"dot-..", "dot-.."},
		{"bashrc", "bashrc"},
		{"mydot-file", "mydot-file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paths.AdjustDotfile(tt.name))
		})
	}

	assert.Equal(t, ".config/nvim/init.vim", paths.AdjustDotfilePath("dot-config/nvim/init.vim"))
}

func TestLinkSource(t *testing.T) {
	tests := []struct {
		name       string
		stowPath   string
		pkg        string
		pkgSubpath string
		target     string
		want       string
	}{
		{"top level", "../stow", "pkg1", "bin1", "bin1", "../stow/pkg1/bin1"},
		{"nested", "../stow", "pkg2", "lib2/file2", "lib2/file2", "../../stow/pkg2/lib2/file2"},
		{"stow inside target", "stow", "vim", "dot-vimrc", ".vimrc", "stow/vim/dot-vimrc"},
		{"deep dotfiles", "stow", "vim", "dot-config/nvim/init.vim", ".config/nvim/init.vim", "../../stow/vim/dot-config/nvim/init.vim"},
		{"absolute stow path", "/opt/stow", "pkg", "bin/x", "bin/x", "/opt/stow/pkg/bin/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paths.LinkSource(tt.stowPath, tt.pkg, tt.pkgSubpath, tt.target))
		})
	}
}

func TestTrimPrefixPath(t *testing.T) {
	rest, ok := paths.TrimPrefixPath("../stow/pkg/bin/x", "../stow/pkg")
	assert.True(t, ok)
	assert.Equal(t, "bin/x", rest)

	rest, ok = paths.TrimPrefixPath("../stow/pkg", "../stow/pkg")
	assert.True(t, ok)
	assert.Equal(t, ".", rest)

	_, ok = paths.TrimPrefixPath("../stow2/pkg", "../stow")
	assert.False(t, ok)

	_, ok = paths.TrimPrefixPath("stow", "stow/pkg")
	assert.False(t, ok)

	_, ok = paths.TrimPrefixPath("/stow/pkg", "stow")
	assert.False(t, ok)
}
