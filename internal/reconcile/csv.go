package reconcile

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/taskdash/taskdash/internal/logging"
	"github.com/taskdash/taskdash/internal/task"
)

// DefaultHabitCutoff is the earliest creation date habit rows are kept
// from. Earlier rows predate the habit-tracking convention and carry
// unusable descriptions.
var DefaultHabitCutoff = time.Date(2023, 8, 1, 0, 0, 0, 0, time.UTC)

// ExportRow is one task row of the task-list export, reduced to the columns
// the reconciler consumes.
type ExportRow struct {
	Content     string
	Description string
	Priority    int
}

// HabitRow is one row of the habit-tracker export.
type HabitRow struct {
	ID            int64
	Name          string
	Created       time.Time
	CompletedDate *time.Time
	Due           *time.Time
}

// LoadTaskExport reads a Todoist task-list export, keeping only rows whose
// TYPE is "task". Notes, section headers, and fully empty rows are dropped,
// as are the indentation/author/timezone/duration metadata columns.
func LoadTaskExport(path string) ([]ExportRow, error) {
	records, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	typeCol, err := column(header, "TYPE")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	contentCol, err := column(header, "CONTENT")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	descCol, err := column(header, "DESCRIPTION")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	prioCol, err := column(header, "PRIORITY")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var rows []ExportRow
	for _, rec := range records {
		if allEmpty(rec) || rec[typeCol] != "task" {
			continue
		}
		priority, err := strconv.Atoi(strings.TrimSpace(rec[prioCol]))
		if err != nil {
			logging.L().Warn("unparseable priority in task export", "content", rec[contentCol], "value", rec[prioCol])
		}
		rows = append(rows, ExportRow{
			Content:     rec[contentCol],
			Description: rec[descCol],
			Priority:    priority,
		})
	}
	return rows, nil
}

// LoadHabitExport reads a habit-tracker export. Rows created before cutoff
// are dropped. Recurrence placeholders in the due column are resolved
// against today ("every day" means today, "every workday" the next business
// day); concrete "Jan. 2"-style values take their year from the row's own
// creation date.
func LoadHabitExport(path string, cutoff, today time.Time) ([]HabitRow, error) {
	records, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	idCol, err := column(header, "taskId")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	nameCol, err := column(header, "taskName")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	createdCol, err := column(header, "createdDate")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	completedCol, err := column(header, "completedDate")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	dueCol, err := column(header, "due")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var rows []HabitRow
	for _, rec := range records {
		if allEmpty(rec) {
			continue
		}

		created, err := time.Parse(time.RFC3339, rec[createdCol])
		if err != nil {
			logging.L().Warn("unparseable createdDate in habit export", "task", rec[nameCol], "value", rec[createdCol])
			continue
		}
		if task.Date(created).Before(task.Date(cutoff)) {
			continue
		}

		id, err := strconv.ParseInt(strings.TrimSpace(rec[idCol]), 10, 64)
		if err != nil {
			logging.L().Warn("unparseable taskId in habit export", "task", rec[nameCol], "value", rec[idCol])
			continue
		}

		row := HabitRow{
			ID:      id,
			Name:    rec[nameCol],
			Created: created,
		}
		if v := strings.TrimSpace(rec[completedCol]); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				d := task.Date(t)
				row.CompletedDate = &d
			} else {
				logging.L().Warn("unparseable completedDate in habit export", "task", row.Name, "value", v)
			}
		}
		row.Due = resolveDue(rec[dueCol], created, today, row.Name)

		rows = append(rows, row)
	}
	return rows, nil
}

// resolveDue turns the due column into a concrete date. The tracker exports
// recurring tasks with a placeholder instead of a date, and concrete values
// without a year.
func resolveDue(value string, created, today time.Time, name string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	switch value {
	case "every day":
		d := task.Date(today)
		return &d
	case "every workday":
		d := nextWorkday(today)
		return &d
	}

	t, err := time.Parse("Jan. 2", value)
	if err != nil {
		logging.L().Warn("unparseable due in habit export", "task", name, "value", value)
		return nil
	}
	d := time.Date(created.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &d
}

// nextWorkday returns today, pushed to Monday when it falls on a weekend.
func nextWorkday(today time.Time) time.Time {
	d := task.Date(today)
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, 2)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

func readCSV(path string) ([][]string, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("read csv header: %w", err)
	}

	var records [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read csv row: %w", err)
		}
		// Pad short rows so column lookups stay in bounds.
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		records = append(records, rec)
	}
	return records, header, nil
}

func column(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.TrimSpace(h) == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("missing column %q", name)
}

func allEmpty(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
