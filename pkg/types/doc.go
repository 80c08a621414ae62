// Package types defines the core types and interfaces used throughout stowng.
// This includes the planned Task with its closed kind and action sets, the
// Conflict record, and the primitive FS interface the planner and executor
// work against.
package types
