// Package farmer is the planning session that ties the stow machinery
// together. One Farmer owns the ledger, the conflict registry and the view
// that both planners share, so unstow planning followed by stow planning
// sees a single consistent future state of the target tree.
package farmer

import (
	"os"
	"regexp"

	"github.com/arthur-debert/stowng/pkg/conflicts"
	"github.com/arthur-debert/stowng/pkg/errors"
	"github.com/arthur-debert/stowng/pkg/executor"
	"github.com/arthur-debert/stowng/pkg/filesystem"
	"github.com/arthur-debert/stowng/pkg/ignore"
	"github.com/arthur-debert/stowng/pkg/logging"
	"github.com/arthur-debert/stowng/pkg/paths"
	"github.com/arthur-debert/stowng/pkg/planner"
	"github.com/arthur-debert/stowng/pkg/tasks"
	"github.com/arthur-debert/stowng/pkg/types"
	"github.com/arthur-debert/stowng/pkg/view"
	"github.com/rs/zerolog"
)

// Options contains everything a planning session needs
type Options struct {
	// StowDir and TargetDir are resolved with paths.Resolve
	StowDir   string
	TargetDir string

	// FS defaults to the real filesystem rooted at the target directory
	FS types.FS

	Adopt     bool
	NoFolding bool
	Dotfiles  bool
	Compat    bool

	// Simulate plans and reports but never touches the filesystem
	Simulate bool

	Defer    []*regexp.Regexp
	Override []*regexp.Regexp

	// IgnorePatterns are the --ignore regexps, anchored at the end
	IgnorePatterns []*regexp.Regexp

	// Ignore replaces the ignore file lookup entirely when set
	Ignore types.IgnoreFunc

	// Home is where the global ignore file is looked for. Defaults to the
	// user's home directory.
	Home string
}

// Farmer plans and applies stow operations for one run
type Farmer struct {
	opts     Options
	paths    paths.Paths
	fs       types.FS
	ledger   *tasks.Ledger
	view     *view.View
	stower   *planner.Stower
	unstower *planner.Unstower
	executor *executor.Executor
	logger   zerolog.Logger
}

// New resolves the stow and target directories and builds an empty session
func New(opts Options) (*Farmer, error) {
	logger := logging.GetLogger("farmer")

	resolved, err := paths.Resolve(opts.StowDir, opts.TargetDir)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Str("stowDir", resolved.StowDir).
		Str("targetDir", resolved.TargetDir).
		Str("stowPath", resolved.StowPath).
		Msg("Resolved directories")

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS(resolved.TargetDir)
	}

	ignored := opts.Ignore
	if ignored == nil {
		home := opts.Home
		if home == "" {
			home, _ = os.UserHomeDir()
		}
		ignored = ignore.New(fsys, ignore.Options{Patterns: opts.IgnorePatterns, Home: home}).Ignored
	}

	ledger := tasks.New(fsys, conflicts.New())
	v := view.New(fsys, ledger, view.Options{
		StowPath:  resolved.StowPath,
		NoFolding: opts.NoFolding,
		Defer:     opts.Defer,
		Override:  opts.Override,
	})
	plannerOpts := planner.Options{
		StowPath:  resolved.StowPath,
		Dotfiles:  opts.Dotfiles,
		Adopt:     opts.Adopt,
		NoFolding: opts.NoFolding,
		Compat:    opts.Compat,
		Ignore:    ignored,
	}

	return &Farmer{
		opts:     opts,
		paths:    resolved,
		fs:       fsys,
		ledger:   ledger,
		view:     v,
		stower:   planner.NewStower(fsys, ledger, v, plannerOpts),
		unstower: planner.NewUnstower(fsys, ledger, v, plannerOpts),
		executor: executor.New(executor.Options{DryRun: opts.Simulate, FS: fsys}),
		logger:   logger,
	}, nil
}

// Paths returns the resolved directories
func (f *Farmer) Paths() paths.Paths {
	return f.paths
}

// PlanStow plans installing packages. Call PlanUnstow first when
// restowing.
func (f *Farmer) PlanStow(packages []string) error {
	done := logging.LogOperationStart(f.logger, "plan stow")
	defer done()
	return f.stower.PlanStow(packages)
}

// PlanUnstow plans removing packages
func (f *Farmer) PlanUnstow(packages []string) error {
	done := logging.LogOperationStart(f.logger, "plan unstow")
	defer done()
	return f.unstower.PlanUnstow(packages)
}

// Conflicts returns the conflicts grouped by operation and package
func (f *Farmer) Conflicts() map[types.Operation]map[string][]string {
	return f.ledger.Conflicts().Grouped()
}

// ConflictList returns every conflict in the order it was found
func (f *Farmer) ConflictList() []types.Conflict {
	return f.ledger.Conflicts().All()
}

// ConflictPackages lists the packages with conflicts for op in first seen
// order
func (f *Farmer) ConflictPackages(op types.Operation) []string {
	return f.ledger.Conflicts().Packages(op)
}

// ConflictCount returns the number of conflicts found so far
func (f *Farmer) ConflictCount() int {
	return f.ledger.Conflicts().Count()
}

// Tasks returns the tasks that will be applied, in order
func (f *Farmer) Tasks() []*types.Task {
	return f.ledger.LiveTasks()
}

// TaskCount returns the number of tasks that will be applied
func (f *Farmer) TaskCount() int {
	return f.ledger.TaskCount()
}

// ProcessTasks applies the plan. It refuses to run while any conflict is
// recorded. In simulate mode every task is reported as skipped.
func (f *Farmer) ProcessTasks() ([]executor.Result, error) {
	if count := f.ConflictCount(); count > 0 {
		return nil, errors.Newf(errors.ErrConflicts, "refusing to apply a plan with %d conflicts", count).
			WithDetail("count", count)
	}

	f.logger.Debug().Int("tasks", f.TaskCount()).Bool("simulate", f.opts.Simulate).Msg("Processing tasks")
	if f.TaskCount() == 0 {
		f.logger.Debug().Msg("There are no outstanding operations to perform.")
		return nil, nil
	}

	return f.executor.Execute(f.ledger.Tasks())
}
