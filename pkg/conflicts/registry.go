// Package conflicts accumulates the recoverable conflicts found while
// planning. Recording a conflict never stops a traversal; a run may only be
// applied when the registry is empty.
package conflicts

import (
	"github.com/arthur-debert/stowng/pkg/logging"
	"github.com/arthur-debert/stowng/pkg/types"
)

// Registry groups conflicts by operation, then by package, in first seen
// order
type Registry struct {
	byOp  map[types.Operation]map[string][]string
	order map[types.Operation][]string
	all   []types.Conflict
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		byOp:  make(map[types.Operation]map[string][]string),
		order: make(map[types.Operation][]string),
	}
}

// Add records a conflict
func (r *Registry) Add(op types.Operation, pkg, message string) {
	logger := logging.GetLogger("conflicts")
	logger.Debug().
		Str("operation", string(op)).
		Str("package", pkg).
		Msgf("CONFLICT when %s %s: %s", op.Gerund(), pkg, message)

	byPkg, ok := r.byOp[op]
	if !ok {
		byPkg = make(map[string][]string)
		r.byOp[op] = byPkg
	}
	if _, seen := byPkg[pkg]; !seen {
		r.order[op] = append(r.order[op], pkg)
	}
	byPkg[pkg] = append(byPkg[pkg], message)
	r.all = append(r.all, types.Conflict{Operation: op, Package: pkg, Message: message})
}

// Count returns the total number of conflicts
func (r *Registry) Count() int {
	return len(r.all)
}

// Empty reports whether no conflict was recorded
func (r *Registry) Empty() bool {
	return len(r.all) == 0
}

// Packages lists the packages with conflicts for op, in first seen order
func (r *Registry) Packages(op types.Operation) []string {
	return append([]string(nil), r.order[op]...)
}

// Messages returns the conflict messages for one package under op
func (r *Registry) Messages(op types.Operation, pkg string) []string {
	return append([]string(nil), r.byOp[op][pkg]...)
}

// Grouped returns operation -> package -> messages
func (r *Registry) Grouped() map[types.Operation]map[string][]string {
	out := make(map[types.Operation]map[string][]string, len(r.byOp))
	for op, byPkg := range r.byOp {
		out[op] = make(map[string][]string, len(byPkg))
		for pkg, msgs := range byPkg {
			out[op][pkg] = append([]string(nil), msgs...)
		}
	}
	return out
}

// All returns every conflict in recording order
func (r *Registry) All() []types.Conflict {
	return append([]types.Conflict(nil), r.all...)
}
