package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/hkjobs/internal/client/models"
)

func idPath(prefix, id string, suffix ...string) string {
	p := prefix + "/" + url.PathEscape(id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func (c *RESTClient) ListJobs(ctx context.Context, f models.JobFilter) (*models.Page[models.Job], error) {
	var page models.Page[models.Job]
	if err := c.GetJSON(ctx, "/jobs", f.Values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *RESTClient) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	if err := c.GetJSON(ctx, idPath("/jobs", id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *RESTClient) SaveJob(ctx context.Context, id string) error {
	return c.SendJSON(ctx, http.MethodPost, idPath("/jobs", id, "save"), nil, nil)
}

func (c *RESTClient) UnsaveJob(ctx context.Context, id string) error {
	return c.Delete(ctx, idPath("/jobs", id, "save"))
}

func (c *RESTClient) SavedJobs(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	if err := c.GetJSON(ctx, "/jobs/saved", nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}
