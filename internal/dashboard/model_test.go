package dashboard

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdash/taskdash/internal/task"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func duePtr(t time.Time) *time.Time { return &t }

// staticSource serves a fixed table without touching the network.
type staticSource struct {
	data *Data
	err  error
}

func (s *staticSource) Load(context.Context) (*Data, error) {
	return s.data, s.err
}

func testData(now time.Time) *Data {
	return &Data{
		Tasks: task.Table{
			{
				Id: 1, Content: "Write report", Project: "Work", Section: "Active",
				Labels: []string{"Deep Work"}, Status: task.StatusOpen,
				Due: duePtr(task.Date(now)),
			},
			{
				Id: 2, Content: "Morning run", Project: "Health", Section: "-",
				Labels: []string{"Fitness"}, Status: task.StatusCompleted,
				Due: duePtr(task.Date(now).AddDate(0, 0, -1)),
			},
		},
		Projects: []string{"Health", "Work"},
		Sections: []string{"-", "Active"},
		Goals:    []string{"Deep Work", "Fitness"},
		LoadedAt: now,
	}
}

func loadedModel(t *testing.T, now time.Time) *Model {
	t.Helper()
	src := &staticSource{data: testData(now)}
	m := NewModel(context.Background(), src, now)

	msg := m.Init()()
	updated, _ := m.Update(msg)
	model, ok := updated.(*Model)
	if !ok {
		t.Fatalf("Update returned %T, want *Model", updated)
	}
	return model
}

func TestModelLoadsAndFilters(t *testing.T) {
	now := day(2024, time.March, 15)
	m := loadedModel(t, now)

	if m.loading {
		t.Error("loading: got true, want false after dataMsg")
	}
	// Facets select everything by default except status, which starts on
	// open tasks only.
	if len(m.filtered) != 1 {
		t.Fatalf("filtered: got %d, want 1", len(m.filtered))
	}
	if m.filtered[0].Status != task.StatusOpen {
		t.Errorf("filtered status: got %s, want %s", m.filtered[0].Status, task.StatusOpen)
	}
	if m.summary.Count != 1 {
		t.Errorf("summary.Count: got %d, want 1", m.summary.Count)
	}
	if len(m.counts) != 1 {
		t.Errorf("counts: got %d buckets, want 1", len(m.counts))
	}
}

func TestModelStatusDefaultsToOpen(t *testing.T) {
	now := day(2024, time.March, 15)
	m := loadedModel(t, now)

	got := m.facets[facetStatus].selectedList()
	if len(got) != 1 || got[0] != string(task.StatusOpen) {
		t.Fatalf("default status selection: got %v, want [Open]", got)
	}

	// Opting Completed back in brings the completed task into view.
	m.facets[facetStatus].cursor = 1
	m.facets[facetStatus].toggle()
	m.applyFilter()
	if len(m.filtered) != 2 {
		t.Fatalf("filtered after selecting Completed: got %d, want 2", len(m.filtered))
	}
}

func TestModelToggleNarrowsFilter(t *testing.T) {
	now := day(2024, time.March, 15)
	m := loadedModel(t, now)

	// Focus starts on Projects; deselect the first option ("Health").
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = updated.(*Model)

	if len(m.filtered) != 1 {
		t.Fatalf("filtered: got %d, want 1 after deselecting Health", len(m.filtered))
	}
	if m.filtered[0].Project != "Work" {
		t.Errorf("remaining project: got %q, want Work", m.filtered[0].Project)
	}
}

func TestModelLoadError(t *testing.T) {
	now := day(2024, time.March, 15)
	src := &staticSource{err: context.DeadlineExceeded}
	m := NewModel(context.Background(), src, now)

	updated, _ := m.Update(m.Init()())
	m = updated.(*Model)

	if m.loadErr == nil {
		t.Fatal("loadErr: got nil, want error")
	}
	if !strings.Contains(m.View(), "Error loading tasks") {
		t.Error("View should render the load error")
	}
}

func TestFacetSetOptionsKeepsSelections(t *testing.T) {
	f := &facet{title: "Projects"}
	f.setOptions([]string{"Work", "Health"}, nil)

	// Deselect one, then reload with an extra option.
	f.selected["Health"] = false
	f.setOptions([]string{"Work", "Health", "Errands"}, f.selected)

	if !f.selected["Work"] {
		t.Error("Work: got deselected, want kept selected")
	}
	if f.selected["Health"] {
		t.Error("Health: got selected, want kept deselected")
	}
	if !f.selected["Errands"] {
		t.Error("Errands: new option should start selected")
	}
}

func TestFacetToggleAll(t *testing.T) {
	f := &facet{title: "Goals"}
	f.setOptions([]string{"a", "b"}, nil)

	f.toggleAll() // all were selected, so deselect everything
	if got := f.selectedList(); len(got) != 0 {
		t.Fatalf("selected after first toggleAll: got %v, want none", got)
	}
	f.toggleAll()
	if got := f.selectedList(); len(got) != 2 {
		t.Fatalf("selected after second toggleAll: got %v, want all", got)
	}
}

func TestFacetMoveWraps(t *testing.T) {
	f := &facet{title: "Goals"}
	f.setOptions([]string{"a", "b", "c"}, nil)

	f.move(-1)
	if f.cursor != 2 {
		t.Errorf("cursor after up from top: got %d, want 2", f.cursor)
	}
	f.move(1)
	if f.cursor != 0 {
		t.Errorf("cursor after wrap down: got %d, want 0", f.cursor)
	}
}

func TestRenderBarChart(t *testing.T) {
	counts := []task.DueCount{
		{Date: day(2024, time.March, 10), Count: 1},
		{Date: day(2024, time.March, 11), Count: 3},
	}
	out := renderBarChart(counts)

	if !strings.Contains(out, "2024-03-10") || !strings.Contains(out, "2024-03-11") {
		t.Error("chart should label each date")
	}
	// The widest bar spans the full width; the count 1 bar is a third of it.
	if !strings.Contains(out, strings.Repeat("█", chartBarWidth)) {
		t.Error("max bar should span the full chart width")
	}
}

func TestRenderBarChartHidesEarlierDates(t *testing.T) {
	counts := make([]task.DueCount, maxChartRows+5)
	for i := range counts {
		counts[i] = task.DueCount{Date: day(2024, time.January, 1).AddDate(0, 0, i), Count: 1}
	}

	out := renderBarChart(counts)
	if !strings.Contains(out, "5 earlier dates hidden") {
		t.Error("chart should report hidden earlier dates")
	}
	// The newest date survives the cut.
	last := counts[len(counts)-1].Date.Format("2006-01-02")
	if !strings.Contains(out, last) {
		t.Errorf("chart should keep the most recent date %s", last)
	}
}

func TestRenderBarChartEmpty(t *testing.T) {
	if out := renderBarChart(nil); !strings.Contains(out, "no tasks in range") {
		t.Errorf("empty chart: got %q", out)
	}
}

func TestTruncateRuneSafe(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 20, "short"},
		{"a very long facet name", 10, "a very ..."},
		{"Organização e Produtividade", 10, "Organiz..."},
		{"ação", 3, "ação"},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.max)
		if got != tt.want {
			t.Errorf("truncate(%q, %d): got %q, want %q", tt.in, tt.max, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("truncate(%q, %d): produced invalid UTF-8 %q", tt.in, tt.max, got)
		}
	}
}
