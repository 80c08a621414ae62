// Package filesystem provides filesystem implementations for stowng.
//
// This package contains the afero backed implementation of the types.FS
// interface, rooted at the target directory, plus small query helpers the
// planner uses for real (not virtual) filesystem state.
package filesystem
