// Package cmd implements the CLI command structure for taskdash.
package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/taskdash/taskdash/internal/config"
	"github.com/taskdash/taskdash/internal/dashboard"
	"github.com/taskdash/taskdash/internal/logging"
	"github.com/taskdash/taskdash/internal/normalize"
	"github.com/taskdash/taskdash/internal/reconcile"
	"github.com/taskdash/taskdash/internal/snapshot"
	"github.com/taskdash/taskdash/internal/task"
	"github.com/taskdash/taskdash/internal/todoist"
	"github.com/taskdash/taskdash/internal/utils"
)

// Version is set via ldflags at build time.
var Version = "dev"

const dateLayout = "2006-01-02"

// Run executes the taskdash CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("taskdash", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")
	logLevel := fs.String("log-level", "", "Log level (debug|info|warn|error)")
	logFormat := fs.String("log-format", "", "Log format (text|json)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}
	logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	subcommand := "dash"
	remaining := fs.Args()
	if len(remaining) > 0 && !strings.HasPrefix(remaining[0], "-") {
		subcommand = remaining[0]
		remaining = remaining[1:]
	}

	switch subcommand {
	case "dash":
		return dashCommand(ctx, cfg, remaining)
	case "fetch":
		return fetchCommand(ctx, cfg, remaining)
	case "csv":
		return csvCommand(cfg, remaining)
	case "doctor":
		return doctorCommand(cfg, remaining)
	case "version", "--version", "-v":
		return versionCommand()
	case "help", "--help", "-h":
		printUsage(fs, os.Stdout)
		return nil
	default:
		// A bare snapshot file path opens the dashboard over it.
		if fi, err := os.Stat(subcommand); err == nil && !fi.IsDir() {
			return dashCommand(ctx, cfg, append([]string{"-snapshot", subcommand}, remaining...))
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// buildSource resolves the dashboard/fetch data source: a snapshot file when
// given, otherwise a live API client.
func buildSource(cfg *config.Config, snapshotPath string, since time.Time) (dashboard.Source, error) {
	if snapshotPath != "" {
		return &dashboard.SnapshotSource{Path: snapshotPath}, nil
	}

	if err := cfg.RequireToken(); err != nil {
		return nil, err
	}
	client, err := todoist.New(cfg.APIToken,
		todoist.WithPageLimit(cfg.PageLimit),
		todoist.WithDetailWorkers(cfg.DetailWorkers),
	)
	if err != nil {
		return nil, err
	}
	return &dashboard.TodoistSource{Client: client, Since: since}, nil
}

// parseSince parses the -since flag, defaulting to January 1st of the
// current year (the dashboard's default start date).
func parseSince(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -since %q (want YYYY-MM-DD): %w", value, err)
	}
	return t, nil
}

// dashCommand launches the interactive dashboard.
func dashCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskdash dash", flag.ContinueOnError)
	since := fs.String("since", "", "Fetch tasks completed on or after this date (YYYY-MM-DD)")
	snapshotPath := fs.String("snapshot", "", "Load tasks from a snapshot file instead of the API")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	now := time.Now()
	sinceDate, err := parseSince(*since, now)
	if err != nil {
		return err
	}

	source, err := buildSource(cfg, *snapshotPath, sinceDate)
	if err != nil {
		return err
	}
	return dashboard.Run(ctx, source, now)
}

// fetchCommand fetches and normalizes the task table without the TUI,
// printing it or writing a snapshot file.
func fetchCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskdash fetch", flag.ContinueOnError)
	since := fs.String("since", "", "Fetch tasks completed on or after this date (YYYY-MM-DD)")
	out := fs.String("out", "", "Write a snapshot file instead of printing the table")
	format := fs.String("format", "text", "Output format: text or json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	now := time.Now()
	sinceDate, err := parseSince(*since, now)
	if err != nil {
		return err
	}

	if err := cfg.RequireToken(); err != nil {
		return err
	}
	client, err := todoist.New(cfg.APIToken,
		todoist.WithPageLimit(cfg.PageLimit),
		todoist.WithDetailWorkers(cfg.DetailWorkers),
	)
	if err != nil {
		return err
	}

	raw, err := client.FetchTasks(ctx, sinceDate)
	if err != nil {
		return fmt.Errorf("fetching tasks: %w", err)
	}
	table := normalize.Normalize(raw, now)

	if *out != "" {
		f := snapshot.New(table, &sinceDate)
		if err := f.Save(*out); err != nil {
			return err
		}
		fmt.Printf("Wrote %d tasks to %s\n", len(table), *out)
		return nil
	}

	switch *format {
	case "json":
		data, err := json.MarshalIndent(table, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal tasks: %w", err)
		}
		fmt.Println(string(data))
	case "text":
		printTable(os.Stdout, table)
	default:
		return fmt.Errorf("unknown format %q (want text or json)", *format)
	}
	return nil
}

// csvCommand reconciles the task-list and habit-tracker CSV exports.
func csvCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskdash csv", flag.ContinueOnError)
	tasksPath := fs.String("tasks", cfg.TasksCSV, "Task-list export CSV")
	habitsPath := fs.String("habits", cfg.HabitsCSV, "Habit-tracker export CSV")
	labels := fs.String("labels", "", "Comma-separated labels to keep (default all)")
	todayFlag := fs.String("today", "", "Resolve recurrence placeholders against this date (YYYY-MM-DD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	today := time.Now()
	if *todayFlag != "" {
		t, err := time.Parse(dateLayout, *todayFlag)
		if err != nil {
			return fmt.Errorf("invalid -today %q (want YYYY-MM-DD): %w", *todayFlag, err)
		}
		today = t
	}
	cutoff, err := cfg.HabitCutoffDate()
	if err != nil {
		return err
	}

	tasks, err := reconcile.LoadTaskExport(*tasksPath)
	if err != nil {
		return fmt.Errorf("loading task export: %w", err)
	}
	habits, err := reconcile.LoadHabitExport(*habitsPath, cutoff, today)
	if err != nil {
		return fmt.Errorf("loading habit export: %w", err)
	}

	rows := reconcile.Reconcile(tasks, habits)
	if keep := utils.SplitAndTrim(*labels, ","); len(keep) > 0 {
		rows = filterByLabel(rows, keep)
	}

	printReconciled(os.Stdout, rows)
	return nil
}

func filterByLabel(rows []reconcile.Row, keep []string) []reconcile.Row {
	var out []reconcile.Row
	for _, r := range rows {
		for _, k := range keep {
			if r.Label == k {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// doctorCommand checks configuration, credentials, and input files.
func doctorCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskdash doctor", flag.ContinueOnError)
	snapshotPath := fs.String("snapshot", "", "Also validate this snapshot file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	fmt.Println("Taskdash Doctor")
	fmt.Println("===============")
	fmt.Println()

	allOK := true

	fmt.Println("Credentials:")
	if err := cfg.RequireToken(); err != nil {
		fmt.Printf("  ❌ %v\n", err)
		allOK = false
	} else {
		fmt.Println("  ✅ API token configured")
	}
	fmt.Println()

	fmt.Println("Config:")
	fmt.Printf("  Page limit: %d\n", cfg.PageLimit)
	fmt.Printf("  Detail workers: %d\n", cfg.DetailWorkers)
	if _, err := cfg.HabitCutoffDate(); err != nil {
		fmt.Printf("  ❌ %v\n", err)
		allOK = false
	} else {
		fmt.Printf("  ✅ Habit cutoff: %s\n", cfg.HabitCutoff)
	}
	fmt.Println()

	fmt.Println("CSV inputs:")
	for _, path := range []string{cfg.TasksCSV, cfg.HabitsCSV} {
		if fi, err := os.Stat(path); err != nil {
			fmt.Printf("  ⚠️  %s: not found (only needed for 'taskdash csv')\n", path)
		} else if fi.IsDir() {
			fmt.Printf("  ❌ %s: is a directory\n", path)
			allOK = false
		} else {
			fmt.Printf("  ✅ %s\n", path)
		}
	}
	fmt.Println()

	if *snapshotPath != "" {
		fmt.Printf("Snapshot: %s\n", *snapshotPath)
		if f, err := snapshot.Load(*snapshotPath); err != nil {
			fmt.Printf("  ❌ %v\n", err)
			allOK = false
		} else {
			fmt.Printf("  ✅ Valid (%d tasks, fetched %s)\n", len(f.Tasks), f.FetchedAt.Format(dateLayout))
		}
		fmt.Println()
	}

	if allOK {
		fmt.Println("✅ All checks passed!")
		return nil
	}
	fmt.Println("⚠️  Some checks failed. Taskdash may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("taskdash version %s\n", Version)
	return nil
}

// printTable writes the canonical table as aligned text.
func printTable(w io.Writer, t task.Table) {
	if len(t) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return
	}
	fmt.Fprintf(w, "%-12s %-40s %3s %-20s %-12s %-12s %-10s %-9s %5s\n",
		"ID", "CONTENT", "PRI", "LABELS", "SECTION", "PROJECT", "DUE", "STATUS", "CMPLX")
	for i := range t {
		r := &t[i]
		complexity := "-"
		if r.Complexity != nil {
			complexity = fmt.Sprintf("%g", *r.Complexity)
		}
		due := "-"
		if r.Due != nil {
			due = r.Due.Format(dateLayout)
		}
		fmt.Fprintf(w, "%-12d %-40s %3d %-20s %-12s %-12s %-10s %-9s %5s\n",
			r.Id, clip(r.Content, 40), r.Priority, clip(strings.Join(r.Labels, ","), 20),
			clip(r.Section, 12), clip(r.Project, 12), due, r.Status, complexity)
	}

	s := task.Summarize(t)
	fmt.Fprintf(w, "\n%d tasks, %d delayed\n", s.Count, s.DelayedCount)
}

// printReconciled writes the reconciled CSV table as aligned text.
func printReconciled(w io.Writer, rows []reconcile.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No rows reconciled.")
		return
	}
	fmt.Fprintf(w, "%-12s %-32s %-16s %3s %-10s %-9s %6s %6s\n",
		"ID", "NAME", "LABEL", "PRI", "DUE", "RECURRING", "STREAK", "CMPLX")
	for i := range rows {
		r := &rows[i]
		due := "-"
		if r.Due != nil {
			due = r.Due.Format(dateLayout)
		}
		fmt.Fprintf(w, "%-12d %-32s %-16s %3d %-10s %-9v %6s %6s\n",
			r.Id, clip(r.Name, 32), clip(r.Label, 16), r.Priority, due, r.Recurring,
			formatNullable(r.HabitStreak), formatNullable(r.Complexity))
	}
	fmt.Fprintf(w, "\n%d rows\n", len(rows))
}

func formatNullable(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%g", *v)
}

// clip shortens s to at most max characters, slicing on runes so accented
// content is never cut mid-character.
func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "Taskdash - Effort tracker dashboard for Todoist")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskdash [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  dash          Open the interactive dashboard (default command)")
	fmt.Fprintln(w, "  fetch         Fetch and print the task table, or write a snapshot")
	fmt.Fprintln(w, "  csv           Reconcile task-list and habit-tracker CSV exports")
	fmt.Fprintln(w, "  doctor        Check configuration, credentials, and input files")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Dash Options (use with 'dash' command):")
	fmt.Fprintln(w, "  -since string")
	fmt.Fprintln(w, "        Fetch tasks completed on or after this date (YYYY-MM-DD)")
	fmt.Fprintln(w, "  -snapshot string")
	fmt.Fprintln(w, "        Load tasks from a snapshot file instead of the API")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Fetch Options (use with 'fetch' command):")
	fmt.Fprintln(w, "  -since string")
	fmt.Fprintln(w, "        Fetch tasks completed on or after this date (YYYY-MM-DD)")
	fmt.Fprintln(w, "  -out string")
	fmt.Fprintln(w, "        Write a snapshot file instead of printing the table")
	fmt.Fprintln(w, "  -format string")
	fmt.Fprintln(w, "        Output format: text or json (default text)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Csv Options (use with 'csv' command):")
	fmt.Fprintln(w, "  -tasks string")
	fmt.Fprintln(w, "        Task-list export CSV")
	fmt.Fprintln(w, "  -habits string")
	fmt.Fprintln(w, "        Habit-tracker export CSV")
	fmt.Fprintln(w, "  -labels string")
	fmt.Fprintln(w, "        Comma-separated labels to keep (default all)")
	fmt.Fprintln(w, "  -today string")
	fmt.Fprintln(w, "        Resolve recurrence placeholders against this date (YYYY-MM-DD)")
}
