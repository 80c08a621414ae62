package executor

import (
	"time"

	"github.com/arthur-debert/stowng/pkg/errors"
	"github.com/arthur-debert/stowng/pkg/logging"
	"github.com/arthur-debert/stowng/pkg/types"
	"github.com/rs/zerolog"
)

// DirPerm is the mode new target directories are created with, before umask
const DirPerm = 0o777

// Options contains configuration for the executor
type Options struct {
	// DryRun reports every task as skipped without touching the filesystem
	DryRun bool
	// Logger defaults to the executor component logger
	Logger *zerolog.Logger
	FS     types.FS
}

// Result is the outcome of applying one task
type Result struct {
	Task     *types.Task
	Success  bool
	Skipped  bool
	Message  string
	Error    error
	Duration time.Duration
}

// Executor applies tasks
type Executor struct {
	dryRun bool
	logger zerolog.Logger
	fs     types.FS
}

// New creates a new executor instance
func New(opts Options) *Executor {
	logger := logging.GetLogger("executor")
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	return &Executor{
		dryRun: opts.DryRun,
		logger: logger,
		fs:     opts.FS,
	}
}

// Execute applies the live tasks in order. Cancelled tasks are passed over.
// It returns the results so far and the first error encountered.
func (e *Executor) Execute(tasks []*types.Task) ([]Result, error) {
	results := make([]Result, 0, len(tasks))

	for _, task := range tasks {
		if task.IsSkipped() {
			continue
		}

		result := e.executeTask(task)
		results = append(results, result)
		if result.Error != nil {
			return results, result.Error
		}
	}

	e.logger.Debug().Int("taskCount", len(results)).Bool("dry_run", e.dryRun).Msg("Tasks processed")
	return results, nil
}

func (e *Executor) executeTask(task *types.Task) Result {
	start := time.Now()

	e.logger.Debug().
		Str("kind", string(task.Kind)).
		Str("action", string(task.Action)).
		Str("path", task.Path).
		Bool("dry_run", e.dryRun).
		Msg(task.String())

	if e.dryRun {
		return Result{
			Task:     task,
			Success:  true,
			Skipped:  true,
			Message:  "Dry run - no changes made",
			Duration: time.Since(start),
		}
	}

	if err := e.apply(task); err != nil {
		e.logger.Error().Err(err).Str("task", task.String()).Msg("Task failed")
		return Result{
			Task:     task,
			Success:  false,
			Error:    err,
			Duration: time.Since(start),
		}
	}

	e.logger.Info().Msg(task.String())
	return Result{
		Task:     task,
		Success:  true,
		Message:  task.String(),
		Duration: time.Since(start),
	}
}

func (e *Executor) apply(task *types.Task) error {
	switch task.Kind {
	case types.KindDir:
		switch task.Action {
		case types.ActionCreate:
			if err := e.fs.Mkdir(task.Path, DirPerm); err != nil {
				return errors.Wrapf(err, errors.ErrDirCreate, "could not create directory: %s", task.Path).
					WithDetail("path", task.Path)
			}
			return nil
		case types.ActionRemove:
			if err := e.fs.Remove(task.Path); err != nil {
				return errors.Wrapf(err, errors.ErrDirRemove, "failed to remove directory: %s", task.Path).
					WithDetail("path", task.Path)
			}
			return nil
		}

	case types.KindLink:
		switch task.Action {
		case types.ActionCreate:
			if err := e.fs.Symlink(task.Source, task.Path); err != nil {
				return errors.Wrapf(err, errors.ErrSymlinkCreate, "could not create link: %s => %s", task.Path, task.Source).
					WithDetail("path", task.Path).
					WithDetail("source", task.Source)
			}
			return nil
		case types.ActionRemove:
			if err := e.fs.Remove(task.Path); err != nil {
				return errors.Wrapf(err, errors.ErrSymlinkRemove, "could not remove link: %s", task.Path).
					WithDetail("path", task.Path)
			}
			return nil
		}

	case types.KindMove:
		if task.Action == types.ActionMove {
			if err := e.fs.Rename(task.Path, task.Destination); err != nil {
				return errors.Wrapf(err, errors.ErrMove, "could not move %s -> %s", task.Path, task.Destination).
					WithDetail("path", task.Path).
					WithDetail("destination", task.Destination)
			}
			return nil
		}
	}

	errors.Internalf("bad task action: %s %s", task.Action, task.Kind)
	return nil
}
