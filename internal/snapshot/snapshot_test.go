package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/taskdash/taskdash/internal/task"
)

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")

	due := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	complexity := 3.0
	since := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	original := New(task.Table{
		{
			Id:         100,
			Content:    "Write report",
			Priority:   2,
			Labels:     []string{"Work"},
			Section:    "Active",
			Project:    "Inbox",
			Due:        &due,
			Complexity: &complexity,
			Delayed:    true,
			Status:     task.StatusOpen,
		},
	}, &since)

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.SchemaVersion != SchemaVersion {
		t.Errorf("SchemaVersion: got %d, want %d", loaded.SchemaVersion, SchemaVersion)
	}
	if loaded.Since == nil || !loaded.Since.Equal(since) {
		t.Errorf("Since: got %v, want %v", loaded.Since, since)
	}
	if len(loaded.Tasks) != 1 {
		t.Fatalf("Tasks count: got %d, want 1", len(loaded.Tasks))
	}
	got := loaded.Tasks[0]
	if got.Id != 100 {
		t.Errorf("Task Id: got %d, want 100", got.Id)
	}
	if got.Due == nil || !got.Due.Equal(due) {
		t.Errorf("Task Due: got %v, want %v", got.Due, due)
	}
	if got.Complexity == nil || *got.Complexity != 3.0 {
		t.Errorf("Task Complexity: got %v, want 3", got.Complexity)
	}
	if got.Status != task.StatusOpen {
		t.Errorf("Task Status: got %s, want %s", got.Status, task.StatusOpen)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"wrong schema version", `{"schema_version":99,"fetched_at":"2024-01-01T00:00:00Z","tasks":[]}`},
		{"missing tasks", `{"schema_version":1,"fetched_at":"2024-01-01T00:00:00Z"}`},
		{"bad status enum", `{"schema_version":1,"fetched_at":"2024-01-01T00:00:00Z","tasks":[{"id":1,"content":"x","priority":1,"section":"-","project":"p","completed":false,"delayed":false,"status":"Paused"}]}`},
		{"not json", `truncated {`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatalf("writing fixture: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestLoadReportsFieldPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	content := `{"schema_version":1,"fetched_at":"2024-01-01T00:00:00Z","tasks":[{"id":"not-a-number","content":"x","priority":1,"section":"-","project":"p","completed":false,"delayed":false,"status":"Open"}]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T: %v", err, err)
	}
	if ve.Path == "" {
		t.Error("ValidationError.Path is empty, want a field path")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}
