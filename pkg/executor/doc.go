// Package executor applies planned tasks to the real filesystem.
//
// Tasks run in ledger order, one primitive operation each. The planner
// already emits parents before children for creation and children before
// parents for removal, so no reordering happens here. The first failure
// stops the run; tasks already applied are not rolled back.
package executor
