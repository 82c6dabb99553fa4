package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/javiermolinar/dayplan/internal/calendar"
	"github.com/javiermolinar/dayplan/internal/dateutil"
)

const (
	eventsPath = "/api/events"
	goalsPath  = "/api/goals"
	tasksPath  = "/api/tasks"
)

// ListEvents fetches events in r, or the server's capped listing when r is nil.
func (c *Client) ListEvents(ctx context.Context, r *dateutil.DateRange) ([]*calendar.Event, error) {
	path := eventsPath
	if r != nil {
		q := url.Values{}
		q.Set("startDate", dateutil.FormatDate(r.Start))
		q.Set("endDate", dateutil.FormatDate(r.End))
		path += "?" + q.Encode()
	}

	var events []*calendar.Event
	if err := c.do(ctx, http.MethodGet, path, nil, &events); err != nil {
		return nil, err
	}
	for _, e := range events {
		localizeEvent(e)
	}
	return events, nil
}

func (c *Client) GetEvent(ctx context.Context, id string) (*calendar.Event, error) {
	path, err := idPath(eventsPath, id)
	if err != nil {
		return nil, err
	}
	var e calendar.Event
	if err := c.do(ctx, http.MethodGet, path, nil, &e, calendar.ErrEventNotFound); err != nil {
		return nil, err
	}
	localizeEvent(&e)
	return &e, nil
}

// CreateEvent validates locally, then posts the event and copies back the
// stored record.
func (c *Client) CreateEvent(ctx context.Context, e *calendar.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	var created calendar.Event
	if err := c.do(ctx, http.MethodPost, eventsPath, e, &created); err != nil {
		return err
	}
	localizeEvent(&created)
	*e = created
	return nil
}

func (c *Client) UpdateEvent(ctx context.Context, id string, patch calendar.EventPatch) (*calendar.Event, error) {
	path, err := idPath(eventsPath, id)
	if err != nil {
		return nil, err
	}
	var e calendar.Event
	if err := c.do(ctx, http.MethodPut, path, patch, &e, calendar.ErrEventNotFound); err != nil {
		return nil, err
	}
	localizeEvent(&e)
	return &e, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	path, err := idPath(eventsPath, id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil, calendar.ErrEventNotFound)
}

func (c *Client) ListGoals(ctx context.Context) ([]*calendar.Goal, error) {
	var goals []*calendar.Goal
	if err := c.do(ctx, http.MethodGet, goalsPath, nil, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

func (c *Client) GetGoal(ctx context.Context, id string) (*calendar.Goal, error) {
	path, err := idPath(goalsPath, id)
	if err != nil {
		return nil, err
	}
	var g calendar.Goal
	if err := c.do(ctx, http.MethodGet, path, nil, &g, calendar.ErrGoalNotFound); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) CreateGoal(ctx context.Context, g *calendar.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	var created calendar.Goal
	if err := c.do(ctx, http.MethodPost, goalsPath, g, &created); err != nil {
		return err
	}
	*g = created
	return nil
}

// UpdateGoal relies on the server to cascade a color change to the goal's tasks.
func (c *Client) UpdateGoal(ctx context.Context, id string, patch calendar.GoalPatch) (*calendar.Goal, error) {
	path, err := idPath(goalsPath, id)
	if err != nil {
		return nil, err
	}
	var g calendar.Goal
	if err := c.do(ctx, http.MethodPut, path, patch, &g, calendar.ErrGoalNotFound); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) DeleteGoal(ctx context.Context, id string) error {
	path, err := idPath(goalsPath, id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil, calendar.ErrGoalNotFound)
}

func (c *Client) ListTasks(ctx context.Context, goalID string) ([]*calendar.Task, error) {
	path := tasksPath
	if goalID = strings.TrimSpace(goalID); goalID != "" {
		path += "?" + url.Values{"goalId": {goalID}}.Encode()
	}

	var tasks []*calendar.Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) GetTask(ctx context.Context, id string) (*calendar.Task, error) {
	path, err := idPath(tasksPath, id)
	if err != nil {
		return nil, err
	}
	var t calendar.Task
	if err := c.do(ctx, http.MethodGet, path, nil, &t, calendar.ErrTaskNotFound); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) CreateTask(ctx context.Context, t *calendar.Task) error {
	if strings.TrimSpace(t.Name) == "" {
		return calendar.ErrEmptyName
	}
	if strings.TrimSpace(t.GoalID) == "" {
		return calendar.ErrMissingGoal
	}
	var created calendar.Task
	if err := c.do(ctx, http.MethodPost, tasksPath, t, &created, calendar.ErrGoalReference); err != nil {
		return err
	}
	*t = created
	return nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch calendar.TaskPatch) (*calendar.Task, error) {
	path, err := idPath(tasksPath, id)
	if err != nil {
		return nil, err
	}
	var t calendar.Task
	err = c.do(ctx, http.MethodPut, path, patch, &t, calendar.ErrTaskNotFound, calendar.ErrGoalReference)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	path, err := idPath(tasksPath, id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil, calendar.ErrTaskNotFound)
}

var _ calendar.Repository = (*Client)(nil)
