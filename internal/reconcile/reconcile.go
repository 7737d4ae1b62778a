package reconcile

import (
	"strconv"
	"strings"
	"time"

	"github.com/taskdash/taskdash/internal/logging"
)

// Row is one label-level row of the reconciled table.
type Row struct {
	Id            int64
	Name          string
	Label         string
	Priority      int
	Due           *time.Time
	Created       time.Time
	CompletedDate *time.Time
	Recurring     bool
	HabitStreak   *float64
	Complexity    *float64
}

// Reconcile joins the task-list export against the habit-tracker export by
// bare task name, fans out one row per "@label" tag, and derives streak,
// complexity, and the canonical priority scale.
func Reconcile(tasks []ExportRow, habits []HabitRow) []Row {
	byName := habitLookup(habits)

	var rows []Row
	for _, t := range tasks {
		segments := strings.Split(t.Content, "@")
		name := strings.TrimSpace(segments[0])

		habit, ok := byName[name]
		if !ok {
			logging.L().Warn("task has no habit-tracker match, dropping", "task", name)
			continue
		}

		recurring := !allDigits(strings.TrimSpace(t.Description))
		value := cleanDescription(t.Description)

		for _, seg := range segments {
			label := cleanLabel(seg)
			if label == "" || label == name {
				continue
			}

			row := Row{
				Id:            habit.ID,
				Name:          habit.Name,
				Label:         label,
				Priority:      InvertPriority(t.Priority),
				Due:           habit.Due,
				Created:       habit.Created,
				CompletedDate: habit.CompletedDate,
				Recurring:     recurring,
			}
			v := value
			if recurring {
				row.HabitStreak = &v
			} else {
				row.Complexity = &v
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// habitLookup builds the name-to-row lookup used by the join. The export
// carries no shared identifier, so names are the join key; on duplicate
// names the first row wins and the collision is reported.
func habitLookup(habits []HabitRow) map[string]HabitRow {
	byName := make(map[string]HabitRow, len(habits))
	for _, h := range habits {
		if _, exists := byName[h.Name]; exists {
			logging.L().Warn("duplicate task name in habit export, keeping first", "task", h.Name)
			continue
		}
		byName[h.Name] = h
	}
	return byName
}

// cleanDescription strips the habit-tracker boilerplate from a description
// and parses the remainder as a float, defaulting to 0. The plural must go
// before the singular or "12 days" is left as "12 s".
func cleanDescription(desc string) float64 {
	desc = strings.ReplaceAll(desc, "**Current streak:**", "")
	desc = strings.ReplaceAll(desc, "days", "")
	desc = strings.ReplaceAll(desc, "day", "")
	desc = strings.TrimSpace(desc)
	v, err := strconv.ParseFloat(desc, 64)
	if err != nil {
		return 0
	}
	return v
}

// cleanLabel strips the export's backslash escapes and surrounding
// whitespace from a label segment.
func cleanLabel(seg string) string {
	return strings.TrimSpace(strings.ReplaceAll(seg, `\`, ""))
}

// InvertPriority remaps the export's inverted priority scale (1 most
// important) onto the canonical one (4 most important). The mapping is its
// own inverse.
func InvertPriority(p int) int {
	if p < 1 || p > 4 {
		return p
	}
	return 5 - p
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}
