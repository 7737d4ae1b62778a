package task

import "time"

// Filter describes the user-selected predicates applied to the table.
// All dimensions must pass for a record to be included; the Goals test
// passes when at least one of the record's labels is in the allowed set.
type Filter struct {
	Start    time.Time // inclusive lower bound on Due
	End      time.Time // inclusive upper bound on Due
	Sections []string
	Goals    []string
	Statuses []string
	Projects []string
}

// Apply returns the subset of rows satisfying every filter dimension.
func (t Table) Apply(f Filter) Table {
	start := Date(f.Start)
	end := Date(f.End)

	var out Table
	for i := range t {
		r := &t[i]
		if r.Due == nil || r.Due.Before(start) || r.Due.After(end) {
			continue
		}
		if !contains(f.Sections, r.Section) {
			continue
		}
		if !contains(f.Projects, r.Project) {
			continue
		}
		if !contains(f.Statuses, string(r.Status)) {
			continue
		}
		if !anyLabel(r.Labels, f.Goals) {
			continue
		}
		out = append(out, *r)
	}
	return out
}

// contains reports whether value is present in allowed.
func contains(allowed []string, value string) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}

// anyLabel reports whether at least one of labels is in allowed.
func anyLabel(labels, allowed []string) bool {
	for _, l := range labels {
		if contains(allowed, l) {
			return true
		}
	}
	return false
}
