package types

import "fmt"

// TaskKind identifies what a planned task operates on
type TaskKind string

const (
	// KindLink is a symbolic link task
	KindLink TaskKind = "link"

	// KindDir is a directory task
	KindDir TaskKind = "dir"

	// KindMove renames a real file, used by adopt
	KindMove TaskKind = "move"
)

// TaskAction defines what happens to the task's path
type TaskAction string

const (
	// ActionCreate creates a link or directory
	ActionCreate TaskAction = "create"

	// ActionRemove removes a link or directory
	ActionRemove TaskAction = "remove"

	// ActionMove renames the task's path to its destination
	ActionMove TaskAction = "move"

	// ActionSkip marks a task cancelled by its inverse. Skipped tasks are
	// never applied.
	ActionSkip TaskAction = "skip"
)

// Task is one planned filesystem mutation. Paths are relative to the target
// directory.
type Task struct {
	Kind   TaskKind   `json:"kind" yaml:"kind" toml:"kind"`
	Action TaskAction `json:"action" yaml:"action" toml:"action"`
	Path   string     `json:"path" yaml:"path" toml:"path"`

	// Source is the link destination, set for link tasks only
	Source string `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`

	// Destination is where a move task renames Path to
	Destination string `json:"destination,omitempty" yaml:"destination,omitempty" toml:"destination,omitempty"`
}

// NewLinkTask returns a link task. Source may be empty for removals whose
// current destination is unknown.
func NewLinkTask(action TaskAction, path, source string) *Task {
	return &Task{Kind: KindLink, Action: action, Path: path, Source: source}
}

// NewDirTask returns a directory task
func NewDirTask(action TaskAction, path string) *Task {
	return &Task{Kind: KindDir, Action: action, Path: path}
}

// NewMoveTask returns a task renaming path to destination
func NewMoveTask(path, destination string) *Task {
	return &Task{Kind: KindMove, Action: ActionMove, Path: path, Destination: destination}
}

// Skip cancels the task
func (t *Task) Skip() {
	t.Action = ActionSkip
}

// IsSkipped reports whether the task was cancelled
func (t *Task) IsSkipped() bool {
	return t.Action == ActionSkip
}

// String renders the task the way the planner traces it
func (t *Task) String() string {
	switch t.Kind {
	case KindLink:
		switch t.Action {
		case ActionCreate:
			return fmt.Sprintf("LINK: %s => %s", t.Path, t.Source)
		case ActionRemove:
			return fmt.Sprintf("UNLINK: %s", t.Path)
		case ActionSkip:
			return fmt.Sprintf("SKIP LINK: %s", t.Path)
		}
	case KindDir:
		switch t.Action {
		case ActionCreate:
			return fmt.Sprintf("MKDIR: %s", t.Path)
		case ActionRemove:
			return fmt.Sprintf("RMDIR: %s", t.Path)
		case ActionSkip:
			return fmt.Sprintf("SKIP DIR: %s", t.Path)
		}
	case KindMove:
		if t.Action == ActionSkip {
			return fmt.Sprintf("SKIP MV: %s", t.Path)
		}
		return fmt.Sprintf("MV: %s -> %s", t.Path, t.Destination)
	}
	return fmt.Sprintf("%s %s: %s", t.Action, t.Kind, t.Path)
}
