package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/hkjobs/internal/client/models"
)

func (c *RESTClient) GetProfile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if err := c.GetJSON(ctx, "/profile", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *RESTClient) UpdateProfile(ctx context.Context, p models.Profile) (*models.Profile, error) {
	var out models.Profile
	if err := c.PutJSON(ctx, "/profile", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ping checks GET /health once, without retry.
func (c *RESTClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(WithoutRefresh(ctx), http.MethodGet, c.endpoint("/health", nil), nil)
	if err != nil {
		return err
	}

	var resp struct {
		Status string `json:"status"`
	}
	if err := c.send(req, &resp); err != nil {
		return err
	}
	if !strings.EqualFold(resp.Status, "ok") {
		return ErrUnavailable
	}
	return nil
}
