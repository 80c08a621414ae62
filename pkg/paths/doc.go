// Package paths provides path handling for stowng.
//
// It has two halves. The pure helpers (JoinPaths, Parent, AdjustDotfile,
// SplitPath) work on slash separated, target relative paths exactly the way
// the planner stores them: "." components are dropped, ".." consumes the
// previous component where one exists, and a leading ".." is kept so that
// paths into a stow directory beside the target stay expressible.
//
// Resolve turns the user supplied stow and target directories into absolute,
// symlink free locations and derives the stow path: the stow directory
// relative to the target, which every relative link is built from.
//
// # Environment Variables
//
//   - STOW_DIR: default stow directory when none is configured
//   - HOME: used to expand a leading ~
package paths
