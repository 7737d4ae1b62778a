package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/taskdash/taskdash/internal/logging"
	"github.com/taskdash/taskdash/internal/normalize"
	"github.com/taskdash/taskdash/internal/snapshot"
	"github.com/taskdash/taskdash/internal/task"
	"github.com/taskdash/taskdash/internal/todoist"
)

// Data is one complete dashboard load: the canonical table plus the facet
// option lists the sidebar offers.
type Data struct {
	Tasks    task.Table
	Projects []string
	Sections []string
	Goals    []string
	LoadedAt time.Time
}

// Source produces dashboard data. Each call recomputes from scratch.
type Source interface {
	Load(ctx context.Context) (*Data, error)
}

// TodoistSource loads live data from the Todoist API.
type TodoistSource struct {
	Client *todoist.Client
	Since  time.Time
}

// Load fetches and normalizes the current task set. Facet lists come from
// the service's label/project/section endpoints; a failing list is logged
// and falls back to the values present in the table (the service treats an
// absent list as empty, not as a fatal condition).
func (s *TodoistSource) Load(ctx context.Context) (*Data, error) {
	raw, err := s.Client.FetchTasks(ctx, s.Since)
	if err != nil {
		return nil, err
	}
	tasks := normalize.Normalize(raw, time.Now())

	data := &Data{
		Tasks:    tasks,
		LoadedAt: time.Now(),
	}
	data.Projects = s.facet(ctx, s.Client.ProjectNames, projectsOf(tasks), "projects")
	data.Sections = s.facet(ctx, s.Client.SectionNames, sectionsOf(tasks), "sections")
	data.Goals = s.facet(ctx, s.Client.LabelNames, labelsOf(tasks), "labels")
	return data, nil
}

func (s *TodoistSource) facet(ctx context.Context, fetch func(context.Context) ([]string, error), fallback []string, what string) []string {
	names, err := fetch(ctx)
	if err != nil {
		logging.L().Warn("fetching facet list failed, deriving from table", "list", what, "err", err)
		return fallback
	}
	return names
}

// SnapshotSource loads a previously saved snapshot file. Facet lists are
// derived from the table itself.
type SnapshotSource struct {
	Path string
}

func (s *SnapshotSource) Load(_ context.Context) (*Data, error) {
	f, err := snapshot.Load(s.Path)
	if err != nil {
		return nil, err
	}
	return &Data{
		Tasks:    f.Tasks,
		Projects: projectsOf(f.Tasks),
		Sections: sectionsOf(f.Tasks),
		Goals:    labelsOf(f.Tasks),
		LoadedAt: f.FetchedAt,
	}, nil
}

func projectsOf(t task.Table) []string {
	set := make(map[string]bool)
	for i := range t {
		if t[i].Project != "" {
			set[t[i].Project] = true
		}
	}
	return sorted(set)
}

func sectionsOf(t task.Table) []string {
	set := make(map[string]bool)
	for i := range t {
		if t[i].Section != "" {
			set[t[i].Section] = true
		}
	}
	return sorted(set)
}

func labelsOf(t task.Table) []string {
	set := make(map[string]bool)
	for i := range t {
		for _, l := range t[i].Labels {
			set[l] = true
		}
	}
	return sorted(set)
}

func sorted(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
