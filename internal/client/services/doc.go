// Package services contains the application services the CLI talks to.
//
// Each service wraps the typed API client with input validation, response
// caching and the small amount of client-side logic the job tracker needs,
// such as merging interviews and reminders into one agenda.
package services
