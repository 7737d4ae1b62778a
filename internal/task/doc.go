// Package task defines the canonical task record and operations over it.
//
// A Record is the normalized, schema-uniform row shared by the service
// pipeline (API fetch + normalize) and the presentation layer:
//
//	| Id | Content | Priority | Description | Labels | Section | Completed |
//	| Due | CompletedAt | CreatedAt | Project | Complexity | Delayed | Status |
//
// Invariants after normalization:
//
//   - Due is always non-nil (backfilled from CompletedAt when absent).
//   - Priority is in 1..4, higher means more important.
//   - Complexity is non-nil only when the source description was a pure
//     non-negative numeric string.
//   - Delayed holds exactly when Due is before today and the record is not
//     completed.
//
// Filtering is a conjunction across dimensions (date range, sections, goals,
// statuses, projects); the goal/label test passes when at least one of the
// record's labels is in the allowed set.
package task
