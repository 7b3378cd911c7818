package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/hkjobs/internal/logging"
)

// RESTClient talks to the job-search API through an HTTPClient.
type RESTClient struct {
	baseURL string
	http    *HTTPClient
	session AuthSession
	retry   RetryPolicy
	logger  logging.Logger
	now     func() time.Time
}

// Options configures NewRESTClient. Zero values fall back to defaults.
type Options struct {
	// Doer is the underlying transport, usually an *http.Client with a timeout.
	Doer   Doer
	Retry  RetryPolicy
	Logger logging.Logger
}

func NewRESTClient(baseURL string, sess AuthSession, opts Options) (*RESTClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", baseURL)
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Retry.Attempts == 0 {
		opts.Retry = DefaultRetryPolicy()
	}

	var hs Session
	if sess != nil {
		hs = sess
	}

	return &RESTClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    NewHTTPClient(opts.Doer, hs, opts.Logger),
		session: sess,
		retry:   opts.Retry,
		logger:  opts.Logger,
		now:     time.Now,
	}, nil
}

func (c *RESTClient) endpoint(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// GetJSON decodes GET path into out, retrying transient failures.
func (c *RESTClient) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	return withRetry(ctx, c.retry, c.logger, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, query), nil)
		if err != nil {
			return err
		}
		return c.send(req, out)
	})
}

// SendJSON sends in as the JSON body of a mutating request and decodes the
// response into out. Either may be nil.
func (c *RESTClient) SendJSON(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, nil), body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, out)
}

func (c *RESTClient) PostJSON(ctx context.Context, path string, in, out any) error {
	return c.SendJSON(ctx, http.MethodPost, path, in, out)
}

func (c *RESTClient) PutJSON(ctx context.Context, path string, in, out any) error {
	return c.SendJSON(ctx, http.MethodPut, path, in, out)
}

func (c *RESTClient) PatchJSON(ctx context.Context, path string, in, out any) error {
	return c.SendJSON(ctx, http.MethodPatch, path, in, out)
}

func (c *RESTClient) Delete(ctx context.Context, path string) error {
	return c.SendJSON(ctx, http.MethodDelete, path, nil, nil)
}

// PostMultipart uploads r as the "file" part alongside fields. The body is
// buffered so it can be replayed after a token refresh.
func (c *RESTClient) PostMultipart(ctx context.Context, path string, fields map[string]string, filename string, r io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), bytes.NewReader(buf.Bytes()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req, out)
}

func (c *RESTClient) send(req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer drainAndClose(resp.Body)

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// Close releases idle connections held by the transport.
func (c *RESTClient) Close() error {
	type idleCloser interface{ CloseIdleConnections() }
	if ic, ok := c.http.doer.(idleCloser); ok {
		ic.CloseIdleConnections()
	}
	return nil
}
