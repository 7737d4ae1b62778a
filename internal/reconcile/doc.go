// Package reconcile joins two independently exported CSV snapshots into one
// enriched table.
//
// The first snapshot is a Todoist task-list export (one row per task, label
// tags folded into the content as "@label" suffixes). The second is a habit
// tracker export keyed by its own task IDs. The two share no identifier, so
// rows are matched by bare task name: a name-to-ID lookup is built once from
// the habit rows (first-seen wins on duplicates, which are logged), the
// task rows are resolved through it, and each "@label" segment fans out into
// its own output row.
//
// The description column is shared between two conventions: a pure integer
// means a user-assigned complexity score, anything else is habit-tracker
// boilerplate holding the current streak. Cleaning strips the boilerplate,
// parses the remainder as a float (0 on failure), and routes the value into
// HabitStreak for recurring rows or Complexity for one-off rows.
package reconcile
