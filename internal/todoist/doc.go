// Package todoist implements the read-only importer for the Todoist API.
//
// Two API surfaces are used, matching what the dashboard needs:
//
//   - REST v2 (/rest/v2): label, project, and section name lists, plus the
//     IDs of all currently open tasks.
//   - Sync v9 (/sync/v9): completed tasks since a timestamp
//     (completed/get_all, limit 200 per request) and the per-task detail
//     lookup (items/get) that resolves section and project names.
//
// Detail lookups run through a bounded worker pool. A single failing lookup
// is logged and dropped; it never aborts the overall fetch. The importer
// performs no write operations against the service.
package todoist
