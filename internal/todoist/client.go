package todoist

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/taskdash/taskdash/internal/logging"
	"github.com/taskdash/taskdash/internal/parallel"
)

const (
	// DefaultBaseURL is the production Todoist API host.
	DefaultBaseURL = "https://api.todoist.com"

	// DefaultPageLimit is the maximum page size accepted by
	// completed/get_all. The dashboard's date filter is expected to narrow
	// the query window to fit within one page.
	DefaultPageLimit = 200

	// DefaultDetailWorkers bounds concurrent items/get lookups.
	DefaultDetailWorkers = 4

	// sinceLayout is the timestamp format accepted by completed/get_all.
	sinceLayout = "2006-01-02T15:04:05"
)

// Client talks to the Todoist API. All methods are read-only.
type Client struct {
	http          *resty.Client
	pageLimit     int
	detailWorkers int
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API host, mainly for tests.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.http.SetBaseURL(url)
	}
}

// WithPageLimit overrides the completed-tasks page size.
func WithPageLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageLimit = n
		}
	}
}

// WithDetailWorkers overrides the detail-lookup concurrency.
func WithDetailWorkers(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.detailWorkers = n
		}
	}
}

// New creates a Client authenticating with the given bearer token.
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("todoist: API token is required")
	}

	http := resty.New().
		SetBaseURL(DefaultBaseURL).
		SetAuthToken(token).
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second)

	c := &Client{
		http:          http,
		pageLimit:     DefaultPageLimit,
		detailWorkers: DefaultDetailWorkers,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// LabelNames returns the names of all labels.
func (c *Client) LabelNames(ctx context.Context) ([]string, error) {
	return c.names(ctx, "/rest/v2/labels")
}

// ProjectNames returns the names of all projects.
func (c *Client) ProjectNames(ctx context.Context) ([]string, error) {
	return c.names(ctx, "/rest/v2/projects")
}

// SectionNames returns the names of all sections.
func (c *Client) SectionNames(ctx context.Context) ([]string, error) {
	return c.names(ctx, "/rest/v2/sections")
}

func (c *Client) names(ctx context.Context, path string) ([]string, error) {
	var entries []named
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&entries).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("get %s: %s", path, res.Status())
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	return names, nil
}

// openTaskIDs returns the IDs of all currently open tasks.
func (c *Client) openTaskIDs(ctx context.Context) ([]string, error) {
	var tasks []struct {
		ID string `json:"id"`
	}
	res, err := c.http.R().
		SetContext(ctx).
		SetResult(&tasks).
		Get("/rest/v2/tasks")
	if err != nil {
		return nil, fmt.Errorf("get open tasks: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("get open tasks: %s", res.Status())
	}

	ids := make([]string, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids, nil
}

// completedTaskIDs returns the IDs of tasks completed on or after since.
func (c *Client) completedTaskIDs(ctx context.Context, since time.Time) ([]string, error) {
	var page completedPage
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("limit", fmt.Sprintf("%d", c.pageLimit)).
		SetQueryParam("since", since.Format(sinceLayout)).
		SetResult(&page).
		Get("/sync/v9/completed/get_all")
	if err != nil {
		return nil, fmt.Errorf("get completed tasks: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("get completed tasks: %s", res.Status())
	}

	ids := make([]string, 0, len(page.Items))
	for _, it := range page.Items {
		ids = append(ids, it.TaskID)
	}
	return ids, nil
}

// itemDetail fetches one task with its resolved section and project names.
func (c *Client) itemDetail(ctx context.Context, id string) (RawTask, error) {
	var detail itemDetail
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("item_id", id).
		SetResult(&detail).
		Get("/sync/v9/items/get")
	if err != nil {
		return RawTask{}, fmt.Errorf("get item %s: %w", id, err)
	}
	if res.IsError() {
		return RawTask{}, fmt.Errorf("get item %s: %s", id, res.Status())
	}

	raw := RawTask{
		Item:    detail.Item,
		Section: NoSection,
		Project: "",
	}
	if detail.Item.SectionID != "" && detail.Section != nil {
		raw.Section = detail.Section.Name
	}
	if detail.Project != nil {
		raw.Project = detail.Project.Name
	}
	return raw, nil
}

// FetchTasks returns the raw records for all open tasks plus all tasks
// completed on or after since, each enriched via a per-task detail lookup.
// List or lookup failures are logged and treated as absent rather than
// aborting the fetch; the returned error is non-nil only when the context
// was cancelled.
func (c *Client) FetchTasks(ctx context.Context, since time.Time) ([]RawTask, error) {
	var ids []string

	openIDs, err := c.openTaskIDs(ctx)
	if err != nil {
		logging.L().Warn("fetching open tasks failed, treating as empty", "err", err)
	} else {
		ids = append(ids, openIDs...)
	}

	completedIDs, err := c.completedTaskIDs(ctx, since)
	if err != nil {
		logging.L().Warn("fetching completed tasks failed, treating as empty", "err", err)
	} else {
		ids = append(ids, completedIDs...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(ids))
	pool := parallel.New[RawTask](ctx, c.detailWorkers)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		taskID := id
		pool.Submit(taskID, func() (RawTask, error) {
			return c.itemDetail(ctx, taskID)
		})
	}

	var tasks []RawTask
	for _, r := range pool.Wait() {
		if r.Err != nil {
			logging.L().Warn("task detail lookup failed, skipping", "task", r.ID, "err", r.Err)
			continue
		}
		tasks = append(tasks, r.Value)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}
