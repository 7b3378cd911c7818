package client

import (
	"context"
	"net/url"
	"time"

	"github.com/dmitrijs2005/hkjobs/internal/client/models"
)

// ListApplications returns the user's applications, all of them when status
// is empty.
func (c *RESTClient) ListApplications(ctx context.Context, status models.ApplicationStatus) ([]models.Application, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	var apps []models.Application
	if err := c.GetJSON(ctx, "/applications", q, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

func (c *RESTClient) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	var app models.Application
	if err := c.GetJSON(ctx, idPath("/applications", id), nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *RESTClient) CreateApplication(ctx context.Context, in models.NewApplication) (*models.Application, error) {
	var app models.Application
	if err := c.PostJSON(ctx, "/applications", in, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *RESTClient) UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus, notes string) (*models.Application, error) {
	var app models.Application
	in := models.StatusUpdate{Status: status, Notes: notes}
	if err := c.PatchJSON(ctx, idPath("/applications", id), in, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

func (c *RESTClient) DeleteApplication(ctx context.Context, id string) error {
	return c.Delete(ctx, idPath("/applications", id))
}

// ListInterviews returns interviews scheduled in [from, to). Zero bounds are
// left open.
func (c *RESTClient) ListInterviews(ctx context.Context, from, to time.Time) ([]models.Interview, error) {
	q := url.Values{}
	if !from.IsZero() {
		q.Set("from", from.UTC().Format(time.RFC3339))
	}
	if !to.IsZero() {
		q.Set("to", to.UTC().Format(time.RFC3339))
	}
	var items []models.Interview
	if err := c.GetJSON(ctx, "/interviews", q, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *RESTClient) CreateInterview(ctx context.Context, in models.Interview) (*models.Interview, error) {
	var out models.Interview
	if err := c.PostJSON(ctx, "/interviews", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RESTClient) UpdateInterview(ctx context.Context, in models.Interview) (*models.Interview, error) {
	var out models.Interview
	if err := c.PutJSON(ctx, idPath("/interviews", in.ID), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RESTClient) DeleteInterview(ctx context.Context, id string) error {
	return c.Delete(ctx, idPath("/interviews", id))
}

func (c *RESTClient) ListReminders(ctx context.Context, includeDone bool) ([]models.Reminder, error) {
	q := url.Values{}
	if includeDone {
		q.Set("include_done", "true")
	}
	var items []models.Reminder
	if err := c.GetJSON(ctx, "/reminders", q, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *RESTClient) CreateReminder(ctx context.Context, in models.Reminder) (*models.Reminder, error) {
	var out models.Reminder
	if err := c.PostJSON(ctx, "/reminders", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RESTClient) CompleteReminder(ctx context.Context, id string) (*models.Reminder, error) {
	var out models.Reminder
	in := map[string]bool{"done": true}
	if err := c.PatchJSON(ctx, idPath("/reminders", id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *RESTClient) DeleteReminder(ctx context.Context, id string) error {
	return c.Delete(ctx, idPath("/reminders", id))
}
