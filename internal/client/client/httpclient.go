package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/hkjobs/internal/common"
	"github.com/dmitrijs2005/hkjobs/internal/logging"
	"github.com/google/uuid"
)

// maxErrorBody caps how much of an error response is read for its message.
const maxErrorBody = 64 << 10

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Session provides the bearer token and refreshes it after a 401.
// *session.Manager satisfies it.
type Session interface {
	AccessToken() string
	Refresh(ctx context.Context, stale string) (string, error)
}

type ctxKey int

const noRefreshKey ctxKey = iota

// WithoutRefresh marks requests whose 401 must be returned as is, such as
// login or the refresh call itself.
func WithoutRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, noRefreshKey, true)
}

func refreshDisabled(ctx context.Context) bool {
	v, _ := ctx.Value(noRefreshKey).(bool)
	return v
}

// HTTPClient sends requests with the session's bearer token. A 401 on a
// request that carried the token triggers one refresh through the session
// and one replay; a second 401 is returned to the caller. Every status of
// 400 and above is turned into an error and the body is closed.
type HTTPClient struct {
	doer    Doer
	session Session
	logger  logging.Logger
	now     func() time.Time
}

func NewHTTPClient(doer Doer, session Session, logger logging.Logger) *HTTPClient {
	if doer == nil {
		doer = http.DefaultClient
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &HTTPClient{doer: doer, session: session, logger: logger, now: time.Now}
}

// Do sends req. On success the caller owns the response body.
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	return c.do(req, false)
}

func (c *HTTPClient) do(req *http.Request, replay bool) (*http.Response, error) {
	ctx := req.Context()
	out := req.Clone(ctx)

	var used string
	if out.Header.Get(common.AuthorizationHeader) == "" && c.session != nil {
		if tok := c.session.AccessToken(); tok != "" {
			out.Header.Set(common.AuthorizationHeader, common.BearerToken(tok))
			used = tok
		}
	}
	if out.Header.Get(common.RequestIDHeader) == "" {
		out.Header.Set(common.RequestIDHeader, uuid.NewString())
	}
	reqID := out.Header.Get(common.RequestIDHeader)

	start := c.now()
	resp, err := c.doer.Do(out)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.logger.Debug(ctx, "request failed", "method", out.Method, "path", out.URL.Path, "request_id", reqID, "error", err)
		return nil, &NetworkError{Method: out.Method, URL: out.URL.Redacted(), Err: err}
	}

	c.logger.Debug(ctx, "request done",
		"method", out.Method,
		"path", out.URL.Path,
		"status", resp.StatusCode,
		"duration", c.now().Sub(start),
		"request_id", reqID,
		"replay", replay,
	)

	if resp.StatusCode == http.StatusUnauthorized && c.canRefresh(req, used, replay) {
		drainAndClose(resp.Body)

		if _, err := c.session.Refresh(ctx, used); err != nil {
			return nil, err
		}

		next, err := rewind(req)
		if err != nil {
			return nil, err
		}
		return c.do(next, true)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.classify(resp, reqID)
	}
	return resp, nil
}

func (c *HTTPClient) canRefresh(req *http.Request, used string, replay bool) bool {
	if replay || used == "" || c.session == nil {
		return false
	}
	if refreshDisabled(req.Context()) {
		return false
	}
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

func rewind(req *http.Request) (*http.Request, error) {
	next := req.Clone(req.Context())
	if req.Body == nil || req.Body == http.NoBody {
		return next, nil
	}
	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	next.Body = body
	return next, nil
}

func (c *HTTPClient) classify(resp *http.Response, reqID string) error {
	defer drainAndClose(resp.Body)

	if id := resp.Header.Get(common.RequestIDHeader); id != "" {
		reqID = id
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitedError{
			RetryAfter: parseRetryAfter(resp.Header.Get(common.RetryAfterHeader), c.now()),
			RequestID:  reqID,
		}
	}

	code, msg := decodeErrorBody(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		StatusCode: resp.StatusCode,
		Code:       code,
		Message:    msg,
		RequestID:  reqID,
	}
}

// decodeErrorBody understands {"error":{"code":..,"message":..}},
// {"error":"..."} and {"message":".."}.
func decodeErrorBody(r io.Reader) (code, message string) {
	var body struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil {
		return "", ""
	}

	if len(body.Error) > 0 {
		var nested struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body.Error, &nested); err == nil {
			code, message = nested.Code, nested.Message
		} else {
			var s string
			if json.Unmarshal(body.Error, &s) == nil {
				message = s
			}
		}
	}
	if message == "" {
		message = body.Message
	}
	return code, message
}

func drainAndClose(body io.ReadCloser) {
	if body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(body, maxErrorBody))
	_ = body.Close()
}
