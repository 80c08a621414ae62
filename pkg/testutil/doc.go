// Package testutil provides utilities for testing stowng components.
//
// Key components:
//   - TestEnvironment: a real stow/ and target/ pair inside t.TempDir(),
//     with tree builders addressed relative to the target directory
//   - NewTestFS: an in-memory filesystem for tests that never need symlinks
//
// Usage guidelines:
//   - Planner, farmer and executor tests need real symlinks, so they use
//     NewTestEnvironment
//   - Ignore list and config tests use the in-memory filesystem
//   - All test data should be defined inline, not in external files
package testutil
