// Package cli provides the interactive job-search command-line client.
//
// The App is built on already wired services (see cmd/client). It runs a
// REPL, a background connectivity watcher that switches between online and
// offline mode, and a session subscription: when the session expires because
// a token refresh failed, the user is told and the prompt falls back to the
// logged-out command set.
//
// Commands:
//   - register, login, logout, status
//   - jobs, more, job, save, unsave, saved
//   - apply, apps, setstatus, rmapp
//   - interviews, addinterview, reschedule, cancelinterview
//   - reminders, remind, done, rmreminder, agenda
//   - docs, upload, rmdoc
//   - profile, editprofile
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
