// Package client is the HTTP side of the job-search client.
//
// # Overview
//
// The package provides:
//  1. HTTPClient, a drop-in for http.Client.Do that attaches the session's
//     bearer token, tags each request with an X-Request-Id and, on a 401,
//     asks the session for a refreshed token and replays the request once.
//     Concurrent 401s share a single refresh (see package session).
//  2. RESTClient, the typed API (see the Client interface) built on
//     HTTPClient: auth, jobs, applications, interviews, reminders,
//     documents and profile. Read-only calls retry transient failures with
//     capped exponential backoff; mutations are sent once.
//  3. TokenRefresher, the session's Refresher, which calls /auth/refresh
//     without a bearer token.
//
// # Error Handling
//
// Responses of 400 and above are returned as errors and their bodies are
// closed. Match them with errors.Is:
//
//   - ErrSessionExpired: the refresh token was rejected; the user must log in.
//   - ErrRateLimited (*RateLimitedError): 429, with the server's wait hint.
//   - ErrServer (*StatusError): 5xx.
//   - ErrNetwork, ErrUnavailable (*NetworkError): the request never got an answer.
//   - ErrUnauthorized, ErrNotFound, ErrValidation (*StatusError): other 4xx.
//
// All methods are safe for concurrent use and honour context cancellation.
package client
