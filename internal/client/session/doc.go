// Package session owns the client's credential pair.
//
// A Manager is created once by the composition root and shared by the HTTP
// client and the services. It keeps the access/refresh tokens, persists them
// through a TokenStore so a restarted client comes back authenticated, and
// coordinates token refresh: however many requests observe an expired access
// token at the same time, exactly one refresh call is made and every caller
// receives its outcome.
//
// When a refresh fails the session is terminal: credentials are wiped from
// memory and from the store, and subscribers are notified once with
// ReasonSessionExpired so the application can send the user back to login.
//
// State transitions:
//
//	Unauthenticated -> Authenticated   Set (login, register)
//	Authenticated   -> Refreshing      first Refresh with no flight running
//	Refreshing      -> Authenticated   refresh succeeded
//	Refreshing      -> Unauthenticated refresh failed, ReasonSessionExpired
//	any             -> Unauthenticated Logout, ReasonLogout
package session
