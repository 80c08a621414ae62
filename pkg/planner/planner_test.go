package planner_test

import (
	"regexp"
	"testing"

	"github.com/arthur-debert/stowng/pkg/conflicts"
	"github.com/arthur-debert/stowng/pkg/paths"
	"github.com/arthur-debert/stowng/pkg/planner"
	"github.com/arthur-debert/stowng/pkg/tasks"
	"github.com/arthur-debert/stowng/pkg/testutil"
	"github.com/arthur-debert/stowng/pkg/types"
	"github.com/arthur-debert/stowng/pkg/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	env      *testutil.TestEnvironment
	ledger   *tasks.Ledger
	stower   *planner.Stower
	unstower *planner.Unstower
}

func newFixture(t *testing.T, env *testutil.TestEnvironment, opts planner.Options, viewOpts view.Options) *fixture {
	t.Helper()
	opts.StowPath = env.StowPath
	viewOpts.StowPath = env.StowPath
	viewOpts.NoFolding = opts.NoFolding

	ledger := tasks.New(env.FS, conflicts.New())
	v := view.New(env.FS, ledger, viewOpts)
	return &fixture{
		env:      env,
		ledger:   ledger,
		stower:   planner.NewStower(env.FS, ledger, v, opts),
		unstower: planner.NewUnstower(env.FS, ledger, v, opts),
	}
}

func (f *fixture) plan() []string {
	var out []string
	for _, task := range f.ledger.LiveTasks() {
		out = append(out, task.String())
	}
	return out
}

func (f *fixture) conflicts(op types.Operation, pkg string) []string {
	return f.ledger.Conflicts().Messages(op, pkg)
}

func TestStowPlan(t *testing.T) {
	tests := []struct {
		name  string
		opts  planner.Options
		setup func(env *testutil.TestEnvironment)
		pkg   string
		want  []string
	}{
		{
			name: "fresh target folds whole directories",
			setup: func(env *testutil.TestEnvironment) {
				env.MakeFile("../stow/pkg/bin/tool", "t")
				env.MakeFile("../stow/pkg/etc/tool.conf", "c")
			},
			pkg:  "pkg",
			want: []string{"LINK: bin => ../stow/pkg/bin", "LINK: etc => ../stow/pkg/etc"},
		},
		{
			name: "existing directory is descended into",
			setup: func(env *testutil.TestEnvironment) {
				env.MakeDir("bin")
				env.MakeFile("../stow/pkg/bin/tool", "t")
			},
			pkg:  "pkg",
			want: []string{"LINK: bin/tool => ../../stow/pkg/bin/tool"},
		},
		{
			name: "unfolding a link owned by another package",
			setup: func(env *testutil.TestEnvironment) {
				env.MakeFile("../stow/a/bin/ta", "a")
				env.MakeFile("../stow/b/bin/tb", "b")
				env.MakeLink("bin", "../stow/a/bin")
			},
			pkg: "b",
			want: []string{
				"UNLINK: bin",
				"MKDIR: bin",
				"LINK: bin/ta => ../../stow/a/bin/ta",
				"LINK: bin/tb => ../../stow/b/bin/tb",
			},
		},
		{
			name: "no folding creates directories",
			opts: planner.Options{NoFolding: true},
			setup: func(env *testutil.TestEnvironment) {
				env.MakeFile("../stow/pkg/share/doc/guide", "g")
			},
			pkg: "pkg",
			want: []string{
				"MKDIR: share",
				"MKDIR: share/doc",
				"LINK: share/doc/guide => ../../../stow/pkg/share/doc/guide",
			},
		},
		{
			name: "dotfiles keep the package name in the source",
			opts: planner.Options{Dotfiles: true},
			setup: func(env *testutil.TestEnvironment) {
				env.MakeDir(".config")
				env.MakeFile("../stow/pkg/dot-config/dot-app/rc", "r")
			},
			pkg:  "pkg",
			want: []string{"LINK: .config/.app => ../../stow/pkg/dot-config/dot-app"},
		},
		{
			name: "adopt moves the target into the package",
			opts: planner.Options{Adopt: true},
			setup: func(env *testutil.TestEnvironment) {
				env.MakeFile("etc/tool.conf", "mine")
				env.MakeFile("../stow/pkg/etc/tool.conf", "theirs")
			},
			pkg: "pkg",
			want: []string{
				"MV: etc/tool.conf -> ../stow/pkg/etc/tool.conf",
				"LINK: etc/tool.conf => ../../stow/pkg/etc/tool.conf",
			},
		},
		{
			name: "ignored entries are skipped",
			opts: planner.Options{Ignore: func(stowPath, pkg, pkgPath string) bool {
				return pkgPath == "skip"
			}},
			setup: func(env *testutil.TestEnvironment) {
				env.MakeFile("../stow/pkg/skip", "s")
				env.MakeFile("../stow/pkg/keep", "k")
			},
			pkg:  "pkg",
			want: []string{"LINK: keep => ../stow/pkg/keep"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.NewTestEnvironment(t)
			tt.setup(env)
			f := newFixture(t, env, tt.opts, view.Options{})

			require.NoError(t, f.stower.PlanStow([]string{tt.pkg}))
			assert.Empty(t, f.conflicts(types.OperationStow, tt.pkg))
			assert.Equal(t, tt.want, f.plan())
		})
	}
}

func TestStowConflicts(t *testing.T) {
	tests := []struct {
		name  string
		opts  planner.Options
		setup func(env *testutil.TestEnvironment)
		want  []string
	}{
		{
			name: "real file in the way",
			setup: func(env *testutil.TestEnvironment) {
				env.MakeFile("tool", "mine")
				env.MakeFile("../stow/pkg/tool", "t")
			},
			want: []string{"existing target is neither a link nor a directory: tool"},
		},
		{
			name: "link owned by another package",
			setup: func(env *testutil.TestEnvironment) {
				env.MakeFile("../stow/other/tool", "o")
				env.MakeFile("../stow/pkg/tool", "t")
				env.MakeLink("tool", "../stow/other/tool")
			},
			want: []string{"existing target is stowed to a different package: tool => ../stow/other/tool"},
		},
		{
			name: "link not owned by stow",
			setup: func(env *testutil.TestEnvironment) {
				env.MakeFile("mine/tool", "m")
				env.MakeLink("tool", "mine/tool")
				env.MakeFile("../stow/pkg/tool", "t")
			},
			want: []string{"existing target is not owned by stow: tool"},
		},
		{
			name: "every conflict is collected",
			setup: func(env *testutil.TestEnvironment) {
				env.MakeFile("a", "a")
				env.MakeFile("b", "b")
				env.MakeFile("../stow/pkg/a", "a")
				env.MakeFile("../stow/pkg/b", "b")
			},
			want: []string{
				"existing target is neither a link nor a directory: a",
				"existing target is neither a link nor a directory: b",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.NewTestEnvironment(t)
			tt.setup(env)
			f := newFixture(t, env, tt.opts, view.Options{})

			require.NoError(t, f.stower.PlanStow([]string{"pkg"}))
			assert.Equal(t, tt.want, f.conflicts(types.OperationStow, "pkg"))
			assert.Empty(t, f.plan())
		})
	}
}

func TestStowRejectsBadPackages(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.MakeFile("../stow/file", "not a package")
	f := newFixture(t, env, planner.Options{}, view.Options{})

	for _, pkg := range []string{"", ".", "..", "a/b", "missing", "file"} {
		assert.Error(t, f.stower.PlanStow([]string{pkg}), "package %q", pkg)
	}
}

func TestUnstowPlan(t *testing.T) {
	tests := []struct {
		name  string
		opts  planner.Options
		setup func(env *testutil.TestEnvironment)
		want  []string
	}{
		{
			name: "folded link",
			setup: func(env *testutil.TestEnvironment) {
				env.MakeFile("../stow/pkg/bin/tool", "t")
				env.MakeLink("bin", "../stow/pkg/bin")
			},
			want: []string{"UNLINK: bin"},
		},
		{
			name: "refolds into the remaining package",
			setup: func(env *testutil.TestEnvironment) {
				env.MakeFile("../stow/pkg/bin/tool", "t")
				env.MakeFile("../stow/other/bin/util", "u")
				env.MakeLink("bin/tool", "../../stow/pkg/bin/tool")
				env.MakeLink("bin/util", "../../stow/other/bin/util")
			},
			want: []string{
				"UNLINK: bin/tool",
				"UNLINK: bin/util",
				"RMDIR: bin",
				"LINK: bin => ../stow/other/bin",
			},
		},
		{
			name: "real directory is not folded away when foreign files remain",
			setup: func(env *testutil.TestEnvironment) {
				env.MakeFile("../stow/pkg/bin/tool", "t")
				env.MakeLink("bin/tool", "../../stow/pkg/bin/tool")
				env.MakeFile("bin/local", "l")
			},
			want: []string{"UNLINK: bin/tool"},
		},
		{
			name: "no folding leaves directories alone",
			opts: planner.Options{NoFolding: true},
			setup: func(env *testutil.TestEnvironment) {
				env.MakeFile("../stow/pkg/bin/tool", "t")
				env.MakeFile("../stow/other/bin/util", "u")
				env.MakeLink("bin/tool", "../../stow/pkg/bin/tool")
				env.MakeLink("bin/util", "../../stow/other/bin/util")
			},
			want: []string{"UNLINK: bin/tool"},
		},
		{
			name: "absolute links are left alone",
			setup: func(env *testutil.TestEnvironment) {
				env.MakeFile("../stow/pkg/hosts", "h")
				env.MakeLink("hosts", "/etc/hosts")
			},
		},
		{
			name: "directory over a package file is skipped",
			setup: func(env *testutil.TestEnvironment) {
				env.MakeFile("../stow/pkg/conf", "c")
				env.MakeDir("conf")
			},
		},
		{
			name: "missing target is fine",
			setup: func(env *testutil.TestEnvironment) {
				env.MakeFile("../stow/pkg/bin/tool", "t")
			},
		},
		{
			name: "dotfiles",
			opts: planner.Options{Dotfiles: true},
			setup: func(env *testutil.TestEnvironment) {
				env.MakeFile("../stow/pkg/dot-profile", "p")
				env.MakeLink(".profile", "../stow/pkg/dot-profile")
			},
			want: []string{"UNLINK: .profile"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.NewTestEnvironment(t)
			tt.setup(env)
			f := newFixture(t, env, tt.opts, view.Options{})

			require.NoError(t, f.unstower.PlanUnstow([]string{"pkg"}))
			assert.Empty(t, f.conflicts(types.OperationUnstow, "pkg"))
			assert.Equal(t, tt.want, f.plan())
		})
	}
}

func TestUnstowRealFileConflict(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.MakeFile("../stow/pkg/tool", "t")
	env.MakeFile("tool", "mine")
	f := newFixture(t, env, planner.Options{}, view.Options{})

	require.NoError(t, f.unstower.PlanUnstow([]string{"pkg"}))
	assert.Equal(t, []string{"existing target is neither a link nor a directory: tool"},
		f.conflicts(types.OperationUnstow, "pkg"))
}

func TestUnstowCompatOverride(t *testing.T) {
	setup := func(t *testing.T) *testutil.TestEnvironment {
		env := testutil.NewTestEnvironment(t)
		env.MakeFile("../stow/pkg/tool", "t")
		env.MakeFile("../stow/other/tool", "o")
		env.MakeLink("tool", "../stow/other/tool")
		return env
	}

	t.Run("other package kept", func(t *testing.T) {
		f := newFixture(t, setup(t), planner.Options{Compat: true}, view.Options{})
		require.NoError(t, f.unstower.PlanUnstow([]string{"pkg"}))
		assert.Empty(t, f.plan())
	})

	t.Run("override removes it", func(t *testing.T) {
		f := newFixture(t, setup(t), planner.Options{Compat: true}, view.Options{
			Override: []*regexp.Regexp{regexp.MustCompile(`\A(?:tool)`)},
		})
		require.NoError(t, f.unstower.PlanUnstow([]string{"pkg"}))
		assert.Equal(t, []string{"UNLINK: tool"}, f.plan())
	})

	t.Run("default traversal ignores override", func(t *testing.T) {
		f := newFixture(t, setup(t), planner.Options{}, view.Options{
			Override: []*regexp.Regexp{regexp.MustCompile(`\A(?:tool)`)},
		})
		require.NoError(t, f.unstower.PlanUnstow([]string{"pkg"}))
		assert.Empty(t, f.plan())
	})
}

func TestUnstowCompatStaleLink(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.MakeFile("../stow/pkg/tool", "t")
	env.MakeLink("gone", "../stow/removed/gone")
	f := newFixture(t, env, planner.Options{Compat: true}, view.Options{})

	require.NoError(t, f.unstower.PlanUnstow([]string{"pkg"}))
	assert.Equal(t, []string{"UNLINK: gone"}, f.plan())
}

func TestRestowPlansNothing(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.MakeFile("../stow/pkg/bin/tool", "t")
	env.MakeLink("bin", "../stow/pkg/bin")
	f := newFixture(t, env, planner.Options{}, view.Options{})

	require.NoError(t, f.unstower.PlanUnstow([]string{"pkg"}))
	require.NoError(t, f.stower.PlanStow([]string{"pkg"}))

	assert.Empty(t, f.plan())
	// the cancelled pair stays on record
	assert.Len(t, f.ledger.Tasks(), 1)
	assert.True(t, f.ledger.Tasks()[0].IsSkipped())
}

func TestStowSourceIsRelativeToTarget(t *testing.T) {
	assert.Equal(t, "../../stow/pkg/bin/tool", paths.LinkSource("../stow", "pkg", "bin/tool", "bin/tool"))
}
