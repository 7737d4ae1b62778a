package config

import (
	"fmt"
	"time"
)

// Default values.
const (
	DefaultPageLimit     = 200
	DefaultDetailWorkers = 4
	DefaultTasksCSV      = "data/Inbox.csv"
	DefaultHabitsCSV     = "data/gsheet_inbox.csv"
	DefaultHabitCutoff   = "2023-08-01"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
)

// Config holds the full configuration for taskdash.
type Config struct {
	// Todoist access
	APIToken      string `toml:"api_token"`
	PageLimit     int    `toml:"page_limit"`
	DetailWorkers int    `toml:"detail_workers"`

	// CSV reconciler inputs
	TasksCSV    string `toml:"tasks_csv"`
	HabitsCSV   string `toml:"habits_csv"`
	HabitCutoff string `toml:"habit_cutoff"` // YYYY-MM-DD

	// Snapshot file used by fetch -out / dash -snapshot
	Snapshot string `toml:"snapshot"`

	// Logging
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`

	// Working directory the tool was started from (computed)
	ProjectRoot string `toml:"-"`
}

// RequireToken fails fast when no API credential is configured. Called
// before any remote call is attempted.
func (c *Config) RequireToken() error {
	if c.APIToken == "" {
		return fmt.Errorf("no Todoist API token configured (set TODOIST_API_KEY or api_token in taskdash.toml)")
	}
	return nil
}

// HabitCutoffDate parses the habit cutoff into a date.
func (c *Config) HabitCutoffDate() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.HabitCutoff)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid habit_cutoff %q: %w", c.HabitCutoff, err)
	}
	return t, nil
}
