package types

// Operation is the planning operation a conflict was found in
type Operation string

const (
	// OperationStow installs a package
	OperationStow Operation = "stow"

	// OperationUnstow removes a package
	OperationUnstow Operation = "unstow"
)

// Gerund returns "stowing" or "unstowing", as used in conflict reports
func (o Operation) Gerund() string {
	return string(o) + "ing"
}

// Conflict is a recoverable reason why an operation on a package cannot
// proceed safely
type Conflict struct {
	Operation Operation `json:"operation" yaml:"operation" toml:"operation"`
	Package   string    `json:"package" yaml:"package" toml:"package"`
	Message   string    `json:"message" yaml:"message" toml:"message"`
}
