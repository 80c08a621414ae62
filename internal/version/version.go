// Package version holds build metadata injected by the linker.
package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/stowng/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/stowng/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/stowng/internal/version.Date={{.Date}}
)

// String is the one line version banner
func String() string {
	return fmt.Sprintf("stowng version %s (commit %s, built %s)", Version, Commit, Date)
}
