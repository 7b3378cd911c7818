// Package common contains constants and helpers shared by the client packages.
package common

const (
	// AuthorizationHeader carries the bearer access token.
	AuthorizationHeader = "Authorization"

	// BearerPrefix is prepended to the access token in AuthorizationHeader.
	BearerPrefix = "Bearer "

	// RequestIDHeader correlates a request with backend logs.
	RequestIDHeader = "X-Request-Id"

	// RetryAfterHeader is sent with 429 responses.
	RetryAfterHeader = "Retry-After"
)
