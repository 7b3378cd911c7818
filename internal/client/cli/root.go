package cli

import (
	"context"
	"fmt"
)

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) commands() []command {
	return []command{
		{name: "register", run: a.Register},
		{name: "login", usage: "[email]", run: a.Login},
		{name: "status", run: a.Status},
		{name: "logout", auth: true, run: a.Logout},

		{name: "jobs", usage: "[keywords]", auth: true, run: a.Jobs},
		{name: "more", auth: true, run: a.More},
		{name: "job", usage: "<id>", auth: true, run: a.Job},
		{name: "save", usage: "<job id>", auth: true, run: a.Save},
		{name: "unsave", usage: "<job id>", auth: true, run: a.Unsave},
		{name: "saved", auth: true, run: a.Saved},

		{name: "apply", usage: "<job id>", auth: true, run: a.Apply},
		{name: "apps", usage: "[status]", auth: true, run: a.Apps},
		{name: "setstatus", usage: "<application id> <status> [notes]", auth: true, run: a.SetStatus},
		{name: "rmapp", usage: "<application id>", auth: true, run: a.RemoveApp},

		{name: "interviews", usage: "[days]", auth: true, run: a.Interviews},
		{name: "addinterview", usage: "[application id]", auth: true, run: a.AddInterview},
		{name: "reschedule", usage: "<interview id>", auth: true, run: a.Reschedule},
		{name: "cancelinterview", usage: "<interview id>", auth: true, run: a.CancelInterview},
		{name: "reminders", usage: "[all]", auth: true, run: a.Reminders},
		{name: "remind", usage: "[application id]", auth: true, run: a.Remind},
		{name: "done", usage: "<reminder id>", auth: true, run: a.Done},
		{name: "rmreminder", usage: "<reminder id>", auth: true, run: a.RemoveReminder},
		{name: "agenda", usage: "[days]", auth: true, run: a.Agenda},

		{name: "docs", auth: true, run: a.Docs},
		{name: "upload", usage: "<path> [kind]", auth: true, run: a.Upload},
		{name: "rmdoc", usage: "<document id>", auth: true, run: a.RemoveDocument},

		{name: "profile", auth: true, run: a.Profile},
		{name: "editprofile", auth: true, run: a.EditProfile},
	}
}

// Root greets the user, starts the connectivity watcher and runs the REPL
// until the user exits.
func (a *App) Root(ctx context.Context) {
	a.println("Welcome to the HK job search CLI (type 'help' for commands)")

	a.checkOnline(ctx)
	if a.isLoggedIn() {
		// Best effort: fills in the user name for the prompt.
		_ = a.Status(ctx, nil)
	} else {
		a.println("You are not logged in. Use 'login' or 'register'.")
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
