// Package normalize reshapes raw Todoist records into the canonical table.
//
// The pipeline mirrors the dashboard's ingest order: concatenate open and
// completed records, extract due dates and recurrence, drop recurring
// templates, parse timestamps into dates (completed/created stored as UTC by
// the service, converted to a fixed UTC-3 offset), derive complexity, delay
// and status, and finally backfill missing due dates from the completion
// date so the date filter covers every row.
package normalize

import (
	"strconv"
	"time"

	"github.com/taskdash/taskdash/internal/logging"
	"github.com/taskdash/taskdash/internal/task"
	"github.com/taskdash/taskdash/internal/todoist"
)

// localZone is the fixed offset applied to the service's UTC timestamps.
// Deliberately not a timezone-database zone: no daylight-saving shifts.
var localZone = time.FixedZone("UTC-3", -3*60*60)

// timestampLayouts are the formats the service uses for datetime fields.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Normalize produces the canonical table from raw open+completed records.
// now anchors the is-delayed derivation and is injected for testability.
func Normalize(raw []todoist.RawTask, now time.Time) task.Table {
	today := task.Date(now)

	rows := make(task.Table, 0, len(raw))
	for i := range raw {
		r := &raw[i]

		// Completed records carry no due structure and are never
		// treated as recurring.
		var dueStr string
		recurring := false
		if !r.Checked && r.Due != nil {
			dueStr = r.Due.Date
			recurring = r.Due.IsRecurring
		}
		if recurring {
			continue
		}

		rec := task.Record{
			Content:     r.Content,
			Description: r.Description,
			Priority:    r.Priority,
			Labels:      r.Labels,
			Section:     r.Section,
			Project:     r.Project,
			Completed:   r.Checked,
		}

		id, err := strconv.ParseInt(r.ID, 10, 64)
		if err != nil {
			logging.L().Warn("unparseable task id", "id", r.ID, "err", err)
		}
		rec.Id = id

		rec.Due = parseDate(dueStr, r.ID, "due", false)
		rec.CompletedAt = parseDate(r.CompletedAt, r.ID, "completed_at", true)
		rec.CreatedAt = parseDate(r.AddedAt, r.ID, "added_at", true)

		rec.Delayed = rec.Due != nil && rec.Due.Before(today) && !rec.Completed
		rec.Status = task.StatusOpen
		if rec.Completed {
			rec.Status = task.StatusCompleted
		}

		// Backfill so every row has a due date for the date filter.
		if rec.Due == nil {
			rec.Due = rec.CompletedAt
		}

		rows = append(rows, rec)
	}

	deriveComplexity(rows)
	return rows
}

// parseDate parses a service timestamp into a calendar date. Timestamps the
// service stores as UTC are shifted to the fixed local offset before
// truncation; due dates are already local and pass through unshifted.
// Unparseable values are logged and become nil.
func parseDate(value, id, field string, utc bool) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if utc {
			t = t.UTC().In(localZone)
		}
		d := task.Date(t)
		return &d
	}
	logging.L().Warn("unparseable timestamp", "task", id, "field", field, "value", value)
	return nil
}

// deriveComplexity populates Complexity from Description for every row, but
// only when every non-empty description in the batch is a pure digit string.
// A single non-numeric description anywhere disables complexity for the
// whole batch, so free-text descriptions are never misread as scores.
func deriveComplexity(rows task.Table) {
	for i := range rows {
		if rows[i].Description != "" && !allDigits(rows[i].Description) {
			return
		}
	}
	for i := range rows {
		if rows[i].Description == "" {
			continue
		}
		v, err := strconv.ParseFloat(rows[i].Description, 64)
		if err != nil {
			logging.L().Warn("unparseable complexity", "task", rows[i].Id, "value", rows[i].Description)
			continue
		}
		rows[i].Complexity = &v
	}
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
