package todoist

// Due is the due specification attached to an open task. Recurring dues
// denote a repeating template rather than a single completable instance.
type Due struct {
	Date        string `json:"date"`
	IsRecurring bool   `json:"is_recurring"`
}

// Item is the Sync v9 representation of a task.
type Item struct {
	ID          string   `json:"id"`
	Content     string   `json:"content"`
	Description string   `json:"description"`
	Priority    int      `json:"priority"`
	Labels      []string `json:"labels"`
	Checked     bool     `json:"checked"`
	Due         *Due     `json:"due"`
	CompletedAt string   `json:"completed_at"`
	AddedAt     string   `json:"added_at"`
	SectionID   string   `json:"section_id"`
	ProjectID   string   `json:"project_id"`
}

// RawTask is an item enriched with its resolved section and project names.
// Tasks without a section carry the "-" sentinel.
type RawTask struct {
	Item
	Section string
	Project string
}

// NoSection is the sentinel section name for tasks outside any section.
const NoSection = "-"

// named is the shape shared by label, project, and section list entries.
type named struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// itemDetail is the response envelope of /sync/v9/items/get.
type itemDetail struct {
	Item    Item   `json:"item"`
	Project *named `json:"project"`
	Section *named `json:"section"`
}

// completedPage is the response envelope of /sync/v9/completed/get_all.
type completedPage struct {
	Items []struct {
		TaskID string `json:"task_id"`
	} `json:"items"`
}
