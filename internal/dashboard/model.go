package dashboard

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/taskdash/taskdash/internal/task"
)

// facet indices into Model.facets.
const (
	facetProjects = iota
	facetSections
	facetGoals
	facetStatus
	facetCount
)

// Run starts the dashboard over the given source.
func Run(ctx context.Context, source Source, now time.Time) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("dashboard requires a TTY (use 'taskdash fetch' for non-interactive output)")
	}

	model := NewModel(ctx, source, now)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := final.(*Model); ok && m.loadErr != nil {
		return m.loadErr
	}
	return nil
}

// Model is the bubbletea model for the dashboard.
type Model struct {
	ctx    context.Context
	source Source

	data    *Data
	loadErr error
	loading bool

	start  time.Time
	end    time.Time
	facets [facetCount]*facet
	focus  int

	filtered task.Table
	summary  task.Summary
	counts   []task.DueCount
	table    table.Model

	width    int
	height   int
	showHelp bool
}

type dataMsg struct {
	data *Data
	err  error
}

// NewModel builds a dashboard model. The date range defaults to January 1st
// of the current year through five days from now, wide enough to cover the
// year to date plus the upcoming week.
func NewModel(ctx context.Context, source Source, now time.Time) *Model {
	m := &Model{
		ctx:     ctx,
		source:  source,
		start:   time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC),
		end:     task.Date(now).AddDate(0, 0, 5),
		loading: true,
		table:   newTable(),
	}
	for i := range m.facets {
		m.facets[i] = &facet{title: facetTitle(i)}
	}
	// Completed tasks start hidden; the status pane opts them back in.
	m.facets[facetStatus].setOptions(
		[]string{string(task.StatusOpen), string(task.StatusCompleted)},
		map[string]bool{string(task.StatusCompleted): false},
	)
	return m
}

func facetTitle(i int) string {
	switch i {
	case facetProjects:
		return "Projects"
	case facetSections:
		return "Sections"
	case facetGoals:
		return "Goals"
	default:
		return "Status"
	}
}

func (m *Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m *Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		data, err := m.source.Load(m.ctx)
		return dataMsg{data: data, err: err}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)
	case dataMsg:
		m.loading = false
		if msg.err != nil {
			m.loadErr = msg.err
			return m, nil
		}
		m.loadErr = nil
		m.data = msg.data
		m.rebuildFacets()
		m.applyFilter()
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeTable()
		return m, nil
	}
	return m, nil
}

func (m *Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r", "f5":
		m.loading = true
		return m, m.loadCmd()
	case "?":
		m.showHelp = !m.showHelp
		return m, nil
	case "tab":
		m.focus = (m.focus + 1) % facetCount
		return m, nil
	case "shift+tab":
		m.focus = (m.focus + facetCount - 1) % facetCount
		return m, nil
	case "up":
		m.facets[m.focus].move(-1)
		return m, nil
	case "down":
		m.facets[m.focus].move(1)
		return m, nil
	case " ":
		m.facets[m.focus].toggle()
		m.applyFilter()
		return m, nil
	case "a":
		m.facets[m.focus].toggleAll()
		m.applyFilter()
		return m, nil
	case ",":
		m.start = m.start.AddDate(0, 0, -1)
		m.applyFilter()
		return m, nil
	case ".":
		m.start = m.start.AddDate(0, 0, 1)
		m.applyFilter()
		return m, nil
	case "<":
		m.end = m.end.AddDate(0, 0, -1)
		m.applyFilter()
		return m, nil
	case ">":
		m.end = m.end.AddDate(0, 0, 1)
		m.applyFilter()
		return m, nil
	}

	// Remaining keys scroll the results table.
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// rebuildFacets refreshes the facet option lists from a fresh load while
// keeping the user's selections for options that still exist. New options
// start selected.
func (m *Model) rebuildFacets() {
	m.facets[facetProjects].setOptions(m.data.Projects, m.facets[facetProjects].selected)
	m.facets[facetSections].setOptions(m.data.Sections, m.facets[facetSections].selected)
	m.facets[facetGoals].setOptions(m.data.Goals, m.facets[facetGoals].selected)
}

// applyFilter recomputes the filtered table, metrics, and chart.
func (m *Model) applyFilter() {
	if m.data == nil {
		return
	}
	f := task.Filter{
		Start:    m.start,
		End:      m.end,
		Projects: m.facets[facetProjects].selectedList(),
		Sections: m.facets[facetSections].selectedList(),
		Goals:    m.facets[facetGoals].selectedList(),
		Statuses: m.facets[facetStatus].selectedList(),
	}
	m.filtered = m.data.Tasks.Apply(f)
	m.summary = task.Summarize(m.filtered)
	m.counts = task.DueCounts(m.filtered)
	m.table.SetRows(tableRows(m.filtered))
	m.table.GotoTop()
}

func newTable() table.Model {
	columns := []table.Column{
		{Title: "Id", Width: 10},
		{Title: "Content", Width: 32},
		{Title: "Pri", Width: 3},
		{Title: "Labels", Width: 18},
		{Title: "Section", Width: 12},
		{Title: "Project", Width: 12},
		{Title: "Due", Width: 10},
		{Title: "Status", Width: 9},
		{Title: "Cmplx", Width: 5},
		{Title: "Late", Width: 4},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)
	t.SetStyles(tableStyles())
	return t
}

func tableRows(rows task.Table) []table.Row {
	out := make([]table.Row, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		out = append(out, table.Row{
			strconv.FormatInt(r.Id, 10),
			r.Content,
			strconv.Itoa(r.Priority),
			strings.Join(r.Labels, ", "),
			r.Section,
			r.Project,
			formatDate(r.Due),
			string(r.Status),
			formatComplexity(r.Complexity),
			formatBool(r.Delayed),
		})
	}
	return out
}

func formatDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

func formatComplexity(c *float64) string {
	if c == nil {
		return "-"
	}
	return strconv.FormatFloat(*c, 'g', -1, 64)
}

func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func (m *Model) resizeTable() {
	height := m.height - chartHeight(m.counts) - 14
	if height < 4 {
		height = 4
	}
	m.table.SetHeight(height)
}

// facet is one multi-select filter dimension.
type facet struct {
	title    string
	options  []string
	selected map[string]bool
	cursor   int
}

// setOptions replaces the option list, keeping prior selections where the
// option survives. Options not previously known start selected.
func (f *facet) setOptions(options []string, prior map[string]bool) {
	f.options = options
	f.selected = make(map[string]bool, len(options))
	for _, o := range options {
		if sel, known := prior[o]; known {
			f.selected[o] = sel
		} else {
			f.selected[o] = true
		}
	}
	if f.cursor >= len(options) {
		f.cursor = 0
	}
}

func (f *facet) move(delta int) {
	if len(f.options) == 0 {
		return
	}
	f.cursor = (f.cursor + delta + len(f.options)) % len(f.options)
}

func (f *facet) toggle() {
	if len(f.options) == 0 {
		return
	}
	o := f.options[f.cursor]
	f.selected[o] = !f.selected[o]
}

// toggleAll selects every option, or deselects every option when all are
// already selected.
func (f *facet) toggleAll() {
	target := !f.allSelected()
	for _, o := range f.options {
		f.selected[o] = target
	}
}

func (f *facet) allSelected() bool {
	for _, o := range f.options {
		if !f.selected[o] {
			return false
		}
	}
	return len(f.options) > 0
}

func (f *facet) selectedList() []string {
	out := make([]string, 0, len(f.options))
	for _, o := range f.options {
		if f.selected[o] {
			out = append(out, o)
		}
	}
	return out
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}
