// Package dashboard renders the interactive effort-tracker dashboard.
//
// The layout is a filter sidebar (due-date
// range plus multi-select facets for projects, sections, goals, and status)
// next to a main pane with headline metrics, a tasks-per-due-date bar chart,
// and the filtered table. Data comes from a Source; every refresh loads and
// recomputes from scratch, so there is no state to migrate between loads.
//
// Key bindings:
//
//	tab / shift+tab  move between facet panes
//	up / down        move the cursor inside a pane
//	space            toggle the highlighted option
//	a                select all / none in the focused pane
//	, / .            shift the start date by a day
//	< / >            shift the end date by a day
//	r                reload from the source
//	?                toggle help
//	q, ctrl+c        quit
package dashboard
