package normalize

import (
	"testing"
	"time"

	"github.com/taskdash/taskdash/internal/task"
	"github.com/taskdash/taskdash/internal/todoist"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalizePipeline(t *testing.T) {
	now := date(2024, time.January, 15)
	raw := []todoist.RawTask{
		{
			Item: todoist.Item{
				ID:          "100",
				Content:     "Write report",
				Description: "3",
				Priority:    2,
				Labels:      []string{"Work"},
				Due:         &todoist.Due{Date: "2024-01-10"},
				AddedAt:     "2024-01-02T08:00:00.000000Z",
			},
			Section: "Active",
			Project: "Inbox",
		},
		{
			Item: todoist.Item{
				ID:          "200",
				Content:     "Morning run",
				Priority:    1,
				Checked:     true,
				CompletedAt: "2024-01-05T12:00:00.000000Z",
				AddedAt:     "2024-01-01T08:00:00.000000Z",
			},
			Section: todoist.NoSection,
			Project: "Health",
		},
	}

	table := Normalize(raw, now)
	if len(table) != 2 {
		t.Fatalf("rows: got %d, want 2", len(table))
	}

	open := table[0]
	if open.Id != 100 {
		t.Errorf("open Id: got %d, want 100", open.Id)
	}
	if open.Status != task.StatusOpen {
		t.Errorf("open Status: got %s, want %s", open.Status, task.StatusOpen)
	}
	if !open.Delayed {
		t.Error("open task due before today should be delayed")
	}
	if open.Due == nil || !open.Due.Equal(date(2024, time.January, 10)) {
		t.Errorf("open Due: got %v, want 2024-01-10", open.Due)
	}
	if open.Complexity == nil || *open.Complexity != 3.0 {
		t.Errorf("open Complexity: got %v, want 3", open.Complexity)
	}

	done := table[1]
	if done.Status != task.StatusCompleted {
		t.Errorf("completed Status: got %s, want %s", done.Status, task.StatusCompleted)
	}
	if done.Delayed {
		t.Error("completed task must never be delayed")
	}
	// Due backfilled from the completion date.
	if done.Due == nil || !done.Due.Equal(date(2024, time.January, 5)) {
		t.Errorf("completed Due: got %v, want backfilled 2024-01-05", done.Due)
	}
	if done.Complexity != nil {
		t.Errorf("completed Complexity: got %v, want nil (no description)", done.Complexity)
	}
}

func TestNormalizeSkipsRecurring(t *testing.T) {
	now := date(2024, time.March, 1)
	raw := []todoist.RawTask{
		{Item: todoist.Item{ID: "1", Content: "One-off", Due: &todoist.Due{Date: "2024-03-02"}}},
		{Item: todoist.Item{ID: "2", Content: "Daily", Due: &todoist.Due{Date: "2024-03-02", IsRecurring: true}}},
	}

	table := Normalize(raw, now)
	if len(table) != 1 {
		t.Fatalf("rows: got %d, want 1", len(table))
	}
	if table[0].Content != "One-off" {
		t.Errorf("kept row: got %q, want One-off", table[0].Content)
	}
}

func TestNormalizeUTCOffset(t *testing.T) {
	// 01:30 UTC is still the previous day at UTC-3.
	now := date(2024, time.June, 1)
	raw := []todoist.RawTask{
		{Item: todoist.Item{
			ID:          "1",
			Content:     "Late night",
			Checked:     true,
			CompletedAt: "2024-05-10T01:30:00Z",
		}},
	}

	table := Normalize(raw, now)
	if len(table) != 1 {
		t.Fatalf("rows: got %d, want 1", len(table))
	}
	if table[0].CompletedAt == nil || !table[0].CompletedAt.Equal(date(2024, time.May, 9)) {
		t.Errorf("CompletedAt: got %v, want 2024-05-09 (shifted to UTC-3)", table[0].CompletedAt)
	}
}

func TestNormalizeDueDatesNotShifted(t *testing.T) {
	// Due dates are already local; a bare date must pass through as-is.
	now := date(2024, time.June, 1)
	raw := []todoist.RawTask{
		{Item: todoist.Item{ID: "1", Content: "Anchored", Due: &todoist.Due{Date: "2024-06-10"}}},
	}

	table := Normalize(raw, now)
	if table[0].Due == nil || !table[0].Due.Equal(date(2024, time.June, 10)) {
		t.Errorf("Due: got %v, want 2024-06-10 unshifted", table[0].Due)
	}
}

func TestDeriveComplexityAllOrNothing(t *testing.T) {
	tests := []struct {
		name         string
		descriptions []string
		want         []*float64
	}{
		{
			name:         "all numeric",
			descriptions: []string{"3", "5"},
			want:         []*float64{ptr(3), ptr(5)},
		},
		{
			name:         "one free-text disables the whole batch",
			descriptions: []string{"3", "see notes"},
			want:         []*float64{nil, nil},
		},
		{
			name:         "empty descriptions stay null without disabling",
			descriptions: []string{"3", ""},
			want:         []*float64{ptr(3), nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := make(task.Table, len(tt.descriptions))
			for i, d := range tt.descriptions {
				rows[i].Description = d
			}
			deriveComplexity(rows)
			for i, want := range tt.want {
				got := rows[i].Complexity
				switch {
				case want == nil && got != nil:
					t.Errorf("row %d: got %v, want nil", i, *got)
				case want != nil && got == nil:
					t.Errorf("row %d: got nil, want %v", i, *want)
				case want != nil && got != nil && *want != *got:
					t.Errorf("row %d: got %v, want %v", i, *got, *want)
				}
			}
		})
	}
}

func TestNormalizeUnparseableID(t *testing.T) {
	now := date(2024, time.January, 1)
	raw := []todoist.RawTask{
		{Item: todoist.Item{ID: "not-a-number", Content: "Odd"}},
	}

	table := Normalize(raw, now)
	if len(table) != 1 {
		t.Fatalf("rows: got %d, want 1 (bad id must not drop the row)", len(table))
	}
	if table[0].Id != 0 {
		t.Errorf("Id: got %d, want 0", table[0].Id)
	}
}

func ptr(v float64) *float64 { return &v }
