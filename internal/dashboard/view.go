package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/taskdash/taskdash/internal/task"
)

const (
	sidebarWidth  = 28
	maxChartRows  = 12
	chartBarWidth = 30
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Width(sidebarWidth)

	focusedPaneStyle = paneStyle.
				BorderForeground(lipgloss.Color("62"))

	metricStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2).
			Align(lipgloss.Center)

	metricLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	metricValueStyle = lipgloss.NewStyle().Bold(true)

	barStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	faintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	headerStyle = lipgloss.NewStyle().Bold(true)
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Bold(false)
	return s
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Effort Tracker Dashboard"))
	b.WriteString("\n\n")

	if m.showHelp {
		b.WriteString(m.helpView())
		return b.String()
	}

	switch {
	case m.loadErr != nil:
		b.WriteString(errorStyle.Render("Error loading tasks:"))
		b.WriteString("\n  " + m.loadErr.Error() + "\n\n")
		b.WriteString(faintStyle.Render("r to retry | q to quit"))
		return b.String()
	case m.data == nil:
		b.WriteString("Loading tasks...\n")
		return b.String()
	}

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.sidebarView(),
		" ",
		m.mainView(),
	)
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(m.footerView())
	return b.String()
}

func (m *Model) sidebarView() string {
	var panes []string

	dates := fmt.Sprintf(
		"%s\n%s  ,/.\n%s  </>",
		headerStyle.Render("Date Range"),
		m.start.Format("2006-01-02"),
		m.end.Format("2006-01-02"),
	)
	panes = append(panes, paneStyle.Render(dates))

	for i, f := range m.facets {
		style := paneStyle
		if i == m.focus {
			style = focusedPaneStyle
		}
		panes = append(panes, style.Render(m.facetView(f, i == m.focus)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, panes...)
}

func (m *Model) facetView(f *facet, focused bool) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(f.title))
	if len(f.options) == 0 {
		b.WriteString("\n" + faintStyle.Render("  (none)"))
		return b.String()
	}
	for i, o := range f.options {
		b.WriteString("\n")
		cursor := "  "
		if focused && i == f.cursor {
			cursor = "> "
		}
		check := "[ ]"
		if f.selected[o] {
			check = "[x]"
		}
		b.WriteString(fmt.Sprintf("%s%s %s", cursor, check, truncate(o, sidebarWidth-8)))
	}
	return b.String()
}

func (m *Model) mainView() string {
	var b strings.Builder
	b.WriteString(m.metricsView())
	b.WriteString("\n\n")
	b.WriteString(headerStyle.Render("Tasks Qty by Due Date"))
	b.WriteString("\n")
	b.WriteString(renderBarChart(m.counts))
	b.WriteString("\n")
	b.WriteString(m.table.View())
	return b.String()
}

func (m *Model) metricsView() string {
	complexity := "-"
	if m.summary.HasComplexity {
		complexity = fmt.Sprintf("%d", m.summary.ComplexityAvg)
	}
	priority := "-"
	if m.summary.Count > 0 {
		priority = fmt.Sprintf("%d", m.summary.PriorityAvg)
	}
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		metric("Tasks Qty", fmt.Sprintf("%d", m.summary.Count)),
		metric("Priority Avg", priority),
		metric("Complexity Avg", complexity),
		metric("Delayed Qty", fmt.Sprintf("%d", m.summary.DelayedCount)),
	)
}

func metric(label, value string) string {
	content := metricValueStyle.Render(value) + "\n" + metricLabelStyle.Render(label)
	return metricStyle.Render(content)
}

// renderBarChart draws one bar per due date, scaled to the widest count.
// Only the most recent dates are shown when the range is long.
func renderBarChart(counts []task.DueCount) string {
	if len(counts) == 0 {
		return faintStyle.Render("  no tasks in range")
	}

	skipped := 0
	if len(counts) > maxChartRows {
		skipped = len(counts) - maxChartRows
		counts = counts[skipped:]
	}

	maxCount := 0
	for _, c := range counts {
		if c.Count > maxCount {
			maxCount = c.Count
		}
	}

	var b strings.Builder
	if skipped > 0 {
		b.WriteString(faintStyle.Render(fmt.Sprintf("  (%d earlier dates hidden)", skipped)))
		b.WriteString("\n")
	}
	for i, c := range counts {
		width := c.Count * chartBarWidth / maxCount
		if width == 0 {
			width = 1
		}
		b.WriteString(fmt.Sprintf("  %s %s %d",
			c.Date.Format("2006-01-02"),
			barStyle.Render(strings.Repeat("█", width)),
			c.Count,
		))
		if i < len(counts)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// chartHeight returns the number of terminal rows the bar chart occupies,
// used when sizing the results table.
func chartHeight(counts []task.DueCount) int {
	n := len(counts)
	if n == 0 {
		return 1
	}
	if n > maxChartRows {
		return maxChartRows + 1
	}
	return n
}

func (m *Model) footerView() string {
	if m.loading {
		return faintStyle.Render("Reloading...")
	}
	return faintStyle.Render("tab: next pane | space: toggle | a: all/none | r: reload | ?: help | q: quit")
}

func (m *Model) helpView() string {
	help := `Keyboard Shortcuts

  tab / shift+tab   Move between filter panes
  up / down         Move cursor inside a pane
  space             Toggle the highlighted option
  a                 Select all / none in the focused pane
  , / .             Shift start date by a day
  < / >             Shift end date by a day
  r, F5             Reload from the data source
  ?                 Toggle this help screen
  q, ctrl+c         Quit
`
	return help
}

// truncate shortens s to at most max characters. Slicing on runes keeps
// accented names intact.
func truncate(s string, max int) string {
	r := []rune(s)
	if max <= 3 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
