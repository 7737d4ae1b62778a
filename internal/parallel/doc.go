// Package parallel implements a bounded-concurrency worker pool.
//
// The pool is used by the Todoist importer to issue per-task detail lookups
// concurrently while keeping failures isolated: one lookup failing never
// cancels the others. Results carry the submitted ID so callers can match
// them back to their inputs.
package parallel
