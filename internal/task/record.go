package task

import "time"

// Status represents the completion state of a record.
type Status string

const (
	StatusOpen      Status = "Open"
	StatusCompleted Status = "Completed"
)

// Record is a single row of the canonical table.
type Record struct {
	Id          int64      `json:"id"`
	Content     string     `json:"content"`
	Description string     `json:"description,omitempty"`
	Priority    int        `json:"priority"`
	Labels      []string   `json:"labels,omitempty"`
	Section     string     `json:"section"`
	Project     string     `json:"project"`
	Completed   bool       `json:"completed"`
	Due         *time.Time `json:"due,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
	Complexity  *float64   `json:"complexity,omitempty"`
	Delayed     bool       `json:"delayed"`
	Status      Status     `json:"status"`
}

// Table is the canonical record set consumed by presentation.
type Table []Record

// HasLabel returns true if the record carries the given label.
func (r *Record) HasLabel(label string) bool {
	for _, l := range r.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Date truncates t to its calendar date, normalized to midnight UTC.
// Canonical Due, CompletedAt, and CreatedAt values are all stored this way.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
