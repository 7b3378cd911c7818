package client

import (
	"context"
	"io"

	"github.com/dmitrijs2005/hkjobs/internal/client/models"
)

func (c *RESTClient) ListDocuments(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	if err := c.GetJSON(ctx, "/documents", nil, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (c *RESTClient) UploadDocument(ctx context.Context, name string, kind models.DocumentKind, r io.Reader) (*models.Document, error) {
	var doc models.Document
	fields := map[string]string{"kind": string(kind)}
	if err := c.PostMultipart(ctx, "/documents", fields, name, r, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *RESTClient) DeleteDocument(ctx context.Context, id string) error {
	return c.Delete(ctx, idPath("/documents", id))
}
