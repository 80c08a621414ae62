package output

import (
	"github.com/arthur-debert/stowng/pkg/types"
)

// ConflictGroup holds the conflicts of one package for one operation
type ConflictGroup struct {
	Operation types.Operation `json:"operation" yaml:"operation" toml:"operation"`
	Package   string          `json:"package" yaml:"package" toml:"package"`
	Messages  []string        `json:"messages" yaml:"messages" toml:"messages"`
}

// Report is everything a run has to say
type Report struct {
	StowDir   string          `json:"stow_dir" yaml:"stow_dir" toml:"stow_dir"`
	TargetDir string          `json:"target_dir" yaml:"target_dir" toml:"target_dir"`
	Simulate  bool            `json:"simulate" yaml:"simulate" toml:"simulate"`
	Applied   bool            `json:"applied" yaml:"applied" toml:"applied"`
	Tasks     []*types.Task   `json:"tasks" yaml:"tasks" toml:"tasks"`
	Conflicts []ConflictGroup `json:"conflicts" yaml:"conflicts" toml:"conflicts"`
}

// NewReport groups conflicts by operation, unstow first, then by package in
// the order they were found
func NewReport(conflicts []types.Conflict, tasks []*types.Task) *Report {
	report := &Report{
		Tasks:     tasks,
		Conflicts: []ConflictGroup{},
	}
	if report.Tasks == nil {
		report.Tasks = []*types.Task{}
	}

	for _, op := range []types.Operation{types.OperationUnstow, types.OperationStow} {
		index := make(map[string]int)
		for _, c := range conflicts {
			if c.Operation != op {
				continue
			}
			i, ok := index[c.Package]
			if !ok {
				i = len(report.Conflicts)
				index[c.Package] = i
				report.Conflicts = append(report.Conflicts, ConflictGroup{Operation: op, Package: c.Package})
			}
			report.Conflicts[i].Messages = append(report.Conflicts[i].Messages, c.Message)
		}
	}
	return report
}

// HasConflicts reports whether any conflict was found
func (r *Report) HasConflicts() bool {
	return len(r.Conflicts) > 0
}
