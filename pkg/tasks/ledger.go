// Package tasks holds the ledger of planned filesystem mutations.
//
// Every entry point checks the opposite-kind index and the same-kind index
// for the path before recording anything. A pending task followed by its
// inverse cancels both; a repeat of a pending task is a no-op; two plans
// that claim one path in incompatible ways abort through errors.Internalf.
package tasks

import (
	"github.com/arthur-debert/stowng/pkg/conflicts"
	"github.com/arthur-debert/stowng/pkg/errors"
	"github.com/arthur-debert/stowng/pkg/filesystem"
	"github.com/arthur-debert/stowng/pkg/logging"
	"github.com/arthur-debert/stowng/pkg/paths"
	"github.com/arthur-debert/stowng/pkg/types"
	"github.com/rs/zerolog"
)

// Ledger records planned tasks in order, indexed by path
type Ledger struct {
	fs        types.FS
	conflicts *conflicts.Registry

	tasks       []*types.Task
	linkTaskFor map[string]*types.Task
	dirTaskFor  map[string]*types.Task
	moveTaskFor map[string]*types.Task

	logger zerolog.Logger
}

// New creates an empty ledger. fsys is used to read real links when a
// removal is planned; registry receives conflicts.
func New(fsys types.FS, registry *conflicts.Registry) *Ledger {
	if registry == nil {
		registry = conflicts.New()
	}
	return &Ledger{
		fs:          fsys,
		conflicts:   registry,
		linkTaskFor: make(map[string]*types.Task),
		dirTaskFor:  make(map[string]*types.Task),
		moveTaskFor: make(map[string]*types.Task),
		logger:      logging.GetLogger("tasks"),
	}
}

// DoLink plans a link at newfile pointing to oldfile
func (l *Ledger) DoLink(oldfile, newfile string) {
	newfile = paths.JoinPaths(newfile)

	if task, ok := l.dirTaskFor[newfile]; ok {
		switch task.Action {
		case types.ActionCreate:
			errors.Internalf("new link (%s => %s) clashes with planned new directory", newfile, oldfile)
		case types.ActionRemove:
			// the directory goes before the link arrives
		default:
			errors.Internalf("bad task action: %s", task.Action)
		}
	}

	if task, ok := l.linkTaskFor[newfile]; ok {
		switch task.Action {
		case types.ActionCreate:
			if task.Source != oldfile {
				errors.Internalf("new link clashes with planned new link: %s => %s", task.Path, task.Source)
			}
			l.logger.Debug().Msgf("LINK: %s => %s (duplicates previous action)", newfile, oldfile)
			return
		case types.ActionRemove:
			if task.Source == oldfile {
				l.logger.Debug().Msgf("LINK: %s => %s (reverts previous action)", newfile, oldfile)
				l.cancel(task, l.linkTaskFor)
				return
			}
			// remove-then-create of a different link is fine
		default:
			errors.Internalf("bad task action: %s", task.Action)
		}
	}

	l.logger.Debug().Msgf("LINK: %s => %s", newfile, oldfile)
	l.record(types.NewLinkTask(types.ActionCreate, newfile, oldfile), l.linkTaskFor)
}

// DoUnlink plans the removal of the link at file. When no link task is
// pending the real link is read to record its current destination.
func (l *Ledger) DoUnlink(file string) error {
	file = paths.JoinPaths(file)

	if task, ok := l.linkTaskFor[file]; ok {
		switch task.Action {
		case types.ActionRemove:
			l.logger.Debug().Msgf("UNLINK: %s (duplicates previous action)", file)
			return nil
		case types.ActionCreate:
			l.logger.Debug().Msgf("UNLINK: %s (reverts previous action)", file)
			l.cancel(task, l.linkTaskFor)
			return nil
		default:
			errors.Internalf("bad task action: %s", task.Action)
		}
	}

	if task, ok := l.dirTaskFor[file]; ok {
		errors.Internalf("new unlink operation clashes with planned operation: %s dir %s", task.Action, file)
	}

	source, err := l.fs.Readlink(file)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "could not readlink %s", file).
			WithDetail("path", file)
	}

	l.logger.Debug().Msgf("UNLINK: %s", file)
	l.record(types.NewLinkTask(types.ActionRemove, file, source), l.linkTaskFor)
	return nil
}

// DoMkdir plans the creation of dir
func (l *Ledger) DoMkdir(dir string) {
	dir = paths.JoinPaths(dir)

	if task, ok := l.linkTaskFor[dir]; ok {
		switch task.Action {
		case types.ActionCreate:
			errors.Internalf("new dir clashes with planned new link (%s => %s)", task.Path, task.Source)
		case types.ActionRemove:
			// the link goes before the directory arrives
		default:
			errors.Internalf("bad task action: %s", task.Action)
		}
	}

	if task, ok := l.dirTaskFor[dir]; ok {
		switch task.Action {
		case types.ActionCreate:
			l.logger.Debug().Msgf("MKDIR: %s (duplicates previous action)", dir)
			return
		case types.ActionRemove:
			l.logger.Debug().Msgf("MKDIR: %s (reverts previous action)", dir)
			l.cancel(task, l.dirTaskFor)
			return
		default:
			errors.Internalf("bad task action: %s", task.Action)
		}
	}

	l.logger.Debug().Msgf("MKDIR: %s", dir)
	l.record(types.NewDirTask(types.ActionCreate, dir), l.dirTaskFor)
}

// DoRmdir plans the removal of dir
func (l *Ledger) DoRmdir(dir string) {
	dir = paths.JoinPaths(dir)

	if task, ok := l.linkTaskFor[dir]; ok {
		errors.Internalf("rmdir clashes with planned operation: %s link %s => %s", task.Action, task.Path, task.Source)
	}

	if task, ok := l.dirTaskFor[dir]; ok {
		switch task.Action {
		case types.ActionRemove:
			l.logger.Debug().Msgf("RMDIR: %s (duplicates previous action)", dir)
			return
		case types.ActionCreate:
			l.logger.Debug().Msgf("RMDIR: %s (reverts previous action)", dir)
			l.cancel(task, l.dirTaskFor)
			return
		default:
			errors.Internalf("bad task action: %s", task.Action)
		}
	}

	l.logger.Debug().Msgf("RMDIR: %s", dir)
	l.record(types.NewDirTask(types.ActionRemove, dir), l.dirTaskFor)
}

// DoMove plans renaming src to dst. Used by adopt to pull a real file into
// its package.
func (l *Ledger) DoMove(src, dst string) {
	src = paths.JoinPaths(src)
	dst = paths.JoinPaths(dst)

	if task, ok := l.linkTaskFor[src]; ok {
		errors.Internalf("do_mv: pre-existing link task for %s; action: %s, source: %s", src, task.Action, task.Source)
	}
	if task, ok := l.dirTaskFor[src]; ok {
		errors.Internalf("do_mv: pre-existing dir task for %s; action: %s", src, task.Action)
	}
	if task, ok := l.moveTaskFor[src]; ok {
		if task.Destination != dst {
			errors.Internalf("do_mv: %s already planned to move to %s, not %s", src, task.Destination, dst)
		}
		l.logger.Debug().Msgf("MV: %s -> %s (duplicates previous action)", src, dst)
		return
	}

	l.logger.Debug().Msgf("MV: %s -> %s", src, dst)
	l.record(types.NewMoveTask(src, dst), l.moveTaskFor)
}

// LinkTaskAction returns the pending link action for path, or "" when none
func (l *Ledger) LinkTaskAction(path string) types.TaskAction {
	return taskAction(l.linkTaskFor, paths.JoinPaths(path))
}

// DirTaskAction returns the pending directory action for path, or "" when none
func (l *Ledger) DirTaskAction(path string) types.TaskAction {
	return taskAction(l.dirTaskFor, paths.JoinPaths(path))
}

func taskAction(index map[string]*types.Task, path string) types.TaskAction {
	task, ok := index[path]
	if !ok {
		return ""
	}
	switch task.Action {
	case types.ActionCreate, types.ActionRemove:
		return task.Action
	default:
		errors.Internalf("bad task action: %s", task.Action)
	}
	return ""
}

// ReadALink returns where path points once the plan so far is applied: the
// source of a pending link creation, else the real link destination.
func (l *Ledger) ReadALink(path string) (string, error) {
	path = paths.JoinPaths(path)

	switch l.LinkTaskAction(path) {
	case types.ActionCreate:
		source := l.linkTaskFor[path].Source
		l.logger.Trace().Msgf("read_a_link(%s): source %s (pending creation)", path, source)
		return source, nil
	case types.ActionRemove:
		errors.Internalf("read_a_link() passed a path that is scheduled for removal: %s", path)
	}

	if filesystem.IsSymlink(l.fs, path) {
		source, err := l.fs.Readlink(path)
		if err != nil {
			return "", errors.Wrapf(err, errors.ErrFileAccess, "read_a_link() could not read link: %s", path)
		}
		l.logger.Trace().Msgf("read_a_link(%s): real link to %s", path, source)
		return source, nil
	}

	return "", errors.Newf(errors.ErrNotALink, "read_a_link() passed a non link path: %s", path).
		WithDetail("path", path)
}

// ParentLinkScheduledForRemoval reports whether path, or any path leading
// to it, is a link with a pending removal
func (l *Ledger) ParentLinkScheduledForRemoval(path string) bool {
	prefix := ""
	for _, part := range paths.SplitPath(path) {
		prefix = paths.JoinPaths(prefix, part)
		if task, ok := l.linkTaskFor[prefix]; ok && task.Action == types.ActionRemove {
			l.logger.Trace().Msgf("parent_link_scheduled_for_removal(%s): prefix %s", path, prefix)
			return true
		}
	}
	return false
}

// HasLinkTask reports whether any link task is pending for path
func (l *Ledger) HasLinkTask(path string) bool {
	_, ok := l.linkTaskFor[paths.JoinPaths(path)]
	return ok
}

// Conflict records a conflict. It never fails.
func (l *Ledger) Conflict(op types.Operation, pkg, message string) {
	l.conflicts.Add(op, pkg, message)
}

// Conflicts returns the registry conflicts are recorded in
func (l *Ledger) Conflicts() *conflicts.Registry {
	return l.conflicts
}

// Tasks returns every recorded task in order, cancelled ones included
func (l *Ledger) Tasks() []*types.Task {
	return append([]*types.Task(nil), l.tasks...)
}

// LiveTasks returns the tasks that will be applied, in order
func (l *Ledger) LiveTasks() []*types.Task {
	live := make([]*types.Task, 0, len(l.tasks))
	for _, task := range l.tasks {
		if !task.IsSkipped() {
			live = append(live, task)
		}
	}
	return live
}

// TaskCount returns the number of tasks that will be applied
func (l *Ledger) TaskCount() int {
	return len(l.LiveTasks())
}

func (l *Ledger) record(task *types.Task, index map[string]*types.Task) {
	l.tasks = append(l.tasks, task)
	index[task.Path] = task
}

// cancel skips task and drops it from index. An earlier live task of the
// same kind that task had shadowed becomes visible again.
func (l *Ledger) cancel(task *types.Task, index map[string]*types.Task) {
	task.Skip()
	delete(index, task.Path)

	for i := len(l.tasks) - 1; i >= 0; i-- {
		prev := l.tasks[i]
		if prev != task && !prev.IsSkipped() && prev.Kind == task.Kind && prev.Path == task.Path {
			index[prev.Path] = prev
			return
		}
	}
}
