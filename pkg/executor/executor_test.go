package executor_test

import (
	"testing"

	"github.com/arthur-debert/stowng/pkg/errors"
	"github.com/arthur-debert/stowng/pkg/executor"
	"github.com/arthur-debert/stowng/pkg/testutil"
	"github.com/arthur-debert/stowng/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteAppliesTasksInOrder(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.MakeFile("../stow/pkg/lib/file", "stow")
	env.MakeFile("../stow/pkg/adopted", "stow")
	env.MakeFile("adopted", "target")
	env.MakeDir("old")
	env.MakeLink("stale", "../stow/pkg/gone")

	skipped := types.NewLinkTask(types.ActionCreate, "never", "../stow/pkg/never")
	skipped.Skip()

	plan := []*types.Task{
		types.NewDirTask(types.ActionCreate, "lib"),
		types.NewLinkTask(types.ActionCreate, "lib/file", "../../stow/pkg/lib/file"),
		skipped,
		types.NewDirTask(types.ActionRemove, "old"),
		types.NewLinkTask(types.ActionRemove, "stale", "../stow/pkg/gone"),
		types.NewMoveTask("adopted", "../stow/pkg/adopted"),
		types.NewLinkTask(types.ActionCreate, "adopted", "../stow/pkg/adopted"),
	}

	results, err := executor.New(executor.Options{FS: env.FS}).Execute(plan)
	require.NoError(t, err)
	assert.Len(t, results, 6, "skipped tasks produce no result")
	for _, r := range results {
		assert.True(t, r.Success, r.Task.String())
	}

	assert.True(t, env.IsDir("lib"))
	assert.Equal(t, "../../stow/pkg/lib/file", env.ReadLink("lib/file"))
	assert.Equal(t, "stow", env.CatFile("lib/file"))
	assert.False(t, env.Exists("never"))
	assert.False(t, env.Exists("old"))
	assert.False(t, env.Exists("stale"))
	assert.True(t, env.IsLink("adopted"))
	assert.Equal(t, "target", env.CatFile("adopted"))
}

func TestExecuteStopsAtFirstFailure(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	env.MakeDir("taken")

	plan := []*types.Task{
		types.NewDirTask(types.ActionCreate, "first"),
		types.NewLinkTask(types.ActionCreate, "taken", "../stow/pkg/taken"),
		types.NewDirTask(types.ActionCreate, "never"),
	}

	results, err := executor.New(executor.Options{FS: env.FS}).Execute(plan)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrSymlinkCreate))
	assert.Len(t, results, 2)
	assert.False(t, results[1].Success)

	assert.True(t, env.IsDir("first"), "no rollback")
	assert.False(t, env.Exists("never"))
}

func TestExecuteErrorCodes(t *testing.T) {
	tests := []struct {
		name string
		task *types.Task
		code errors.ErrorCode
	}{
		{"mkdir of missing parent", types.NewDirTask(types.ActionCreate, "a/b/c"), errors.ErrDirCreate},
		{"rmdir of missing dir", types.NewDirTask(types.ActionRemove, "nope"), errors.ErrDirRemove},
		{"unlink of missing link", types.NewLinkTask(types.ActionRemove, "nope", ""), errors.ErrSymlinkRemove},
		{"move of missing file", types.NewMoveTask("nope", "../stow/nope"), errors.ErrMove},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testutil.NewTestEnvironment(t)
			_, err := executor.New(executor.Options{FS: env.FS}).Execute([]*types.Task{tt.task})
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetErrorCode(err))
		})
	}
}

func TestExecuteDryRun(t *testing.T) {
	env := testutil.NewTestEnvironment(t)
	before := env.Snapshot()

	results, err := executor.New(executor.Options{FS: env.FS, DryRun: true}).Execute([]*types.Task{
		types.NewDirTask(types.ActionCreate, "lib"),
		types.NewLinkTask(types.ActionCreate, "bin", "../stow/pkg/bin"),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[0].Skipped)
	assert.Equal(t, before, env.Snapshot())
}
