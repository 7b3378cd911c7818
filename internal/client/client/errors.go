package client

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/hkjobs/internal/client/session"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNetwork      = errors.New("network error")
	ErrServer       = errors.New("server error")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrRateLimited  = errors.New("rate limited")

	// ErrSessionExpired is returned when the refresh token was rejected.
	// The session has been cleared by the time a caller sees it.
	ErrSessionExpired = session.ErrSessionExpired
)

// NetworkError is a transport-level failure: DNS, connection refused,
// timeout. It matches ErrNetwork and ErrUnavailable.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork || target == ErrUnavailable
}

// StatusError is a non-2xx response. Code and Message come from the server's
// JSON error body when it sent one.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
	RequestID  string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = strings.ToLower(http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, msg)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrValidation:
		return e.StatusCode == http.StatusBadRequest ||
			e.StatusCode == http.StatusConflict ||
			e.StatusCode == http.StatusUnprocessableEntity
	case ErrServer:
		return e.StatusCode >= http.StatusInternalServerError
	}
	return false
}

// RateLimitedError is a 429 response. RetryAfter is zero when the server
// gave no hint.
type RateLimitedError struct {
	RetryAfter time.Duration
	RequestID  string
}

func (e *RateLimitedError) Error() string {
	if e.RetryAfter <= 0 {
		return "too many requests, please try again later"
	}
	secs := int64(math.Ceil(e.RetryAfter.Seconds()))
	return fmt.Sprintf("too many requests, please wait %d seconds before retrying", secs)
}

func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}

// parseRetryAfter accepts delta-seconds or an HTTP-date. A date in the past
// yields zero.
func parseRetryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
