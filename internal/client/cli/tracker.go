package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/hkjobs/internal/client/models"
)

const (
	defaultAgendaDays    = 7
	defaultInterviewDays = 30
)

func statusList() string {
	names := make([]string, 0, len(models.ApplicationStatuses()))
	for _, s := range models.ApplicationStatuses() {
		names = append(names, string(s))
	}
	return strings.Join(names, "|")
}

// days parses an optional "number of days" argument.
func days(args []string, def int) (time.Duration, error) {
	n := def
	if len(args) > 0 {
		var err error
		if n, err = parseOptionalInt(args[0], def); err != nil {
			return 0, err
		}
		if n == 0 {
			return 0, fmt.Errorf("number of days must be positive")
		}
	}
	return time.Duration(n) * 24 * time.Hour, nil
}

func (a *App) Apply(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage{"apply", "<job id>"}
	}
	notes, err := getSimpleText(a.reader, "Notes (optional)", a.out)
	if err != nil {
		return err
	}
	app, err := a.tracker.Apply(ctx, args[0], notes)
	if err != nil {
		return err
	}
	a.printf("Application %s created.\n", app.ID)
	return nil
}

// Apps lists applications, optionally only those in one status.
func (a *App) Apps(ctx context.Context, args []string) error {
	var status models.ApplicationStatus
	if len(args) > 0 {
		status = models.ApplicationStatus(strings.ToLower(args[0]))
	}
	apps, err := a.tracker.Applications(ctx, status)
	if err != nil {
		return err
	}
	if len(apps) == 0 {
		a.println("No applications.")
	}
	for _, app := range apps {
		a.println(app.String())
	}
	return nil
}

func (a *App) SetStatus(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage{"setstatus", "<application id> <" + statusList() + "> [notes]"}
	}
	status := models.ApplicationStatus(strings.ToLower(args[1]))
	app, err := a.tracker.SetStatus(ctx, args[0], status, strings.Join(args[2:], " "))
	if err != nil {
		return err
	}
	a.println(app.String())
	return nil
}

func (a *App) RemoveApp(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage{"rmapp", "<application id>"}
	}
	if err := a.tracker.DeleteApplication(ctx, args[0]); err != nil {
		return err
	}
	a.println("Application deleted.")
	return nil
}

// Interviews lists interviews from now over the next n days.
func (a *App) Interviews(ctx context.Context, args []string) error {
	window, err := days(args, defaultInterviewDays)
	if err != nil {
		return err
	}
	now := a.now()
	list, err := a.tracker.Interviews(ctx, now, now.Add(window))
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.println("No upcoming interviews.")
	}
	for _, iv := range list {
		line := fmt.Sprintf("[%s] %s  %s - %s", iv.ID,
			iv.ScheduledAt.Local().Format(timeLayout), iv.EndsAt().Local().Format("15:04"), iv.Title)
		if iv.Location != "" {
			line += " @ " + iv.Location
		}
		a.println(line)
	}
	return nil
}

func (a *App) AddInterview(ctx context.Context, args []string) error {
	var in models.Interview
	var err error

	if len(args) > 0 {
		in.ApplicationID = args[0]
	} else if in.ApplicationID, err = getSimpleText(a.reader, "Application id", a.out); err != nil {
		return err
	}
	if in.Title, err = getSimpleText(a.reader, "Title (e.g. first round with HR)", a.out); err != nil {
		return err
	}
	if in.Location, err = getSimpleText(a.reader, "Location or video link (optional)", a.out); err != nil {
		return err
	}
	when, err := getSimpleText(a.reader, "When ("+timeLayout+")", a.out)
	if err != nil {
		return err
	}
	if in.ScheduledAt, err = parseTime(when); err != nil {
		return err
	}
	minutes, err := getSimpleText(a.reader, "Duration in minutes [60]", a.out)
	if err != nil {
		return err
	}
	if in.DurationMinutes, err = parseOptionalInt(minutes, 60); err != nil {
		return err
	}

	out, err := a.tracker.ScheduleInterview(ctx, in)
	if err != nil {
		return err
	}
	a.printf("Interview %s scheduled for %s.\n", out.ID, out.ScheduledAt.Local().Format(timeLayout))
	return nil
}

// Reschedule moves an interview to a new time.
func (a *App) Reschedule(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage{"reschedule", "<interview id>"}
	}
	now := a.now()
	list, err := a.tracker.Interviews(ctx, time.Time{}, time.Time{})
	if err != nil {
		return err
	}

	var in *models.Interview
	for i := range list {
		if list[i].ID == args[0] {
			in = &list[i]
			break
		}
	}
	if in == nil {
		return fmt.Errorf("interview %s not found", args[0])
	}

	when, err := getTextOrDefault(a.reader, "New time ("+timeLayout+")", in.ScheduledAt.Local().Format(timeLayout), a.out)
	if err != nil {
		return err
	}
	if in.ScheduledAt, err = parseTime(when); err != nil {
		return err
	}
	if in.ScheduledAt.Before(now) {
		a.println("Note: the new time is in the past.")
	}

	out, err := a.tracker.UpdateInterview(ctx, *in)
	if err != nil {
		return err
	}
	a.printf("Interview %s moved to %s.\n", out.ID, out.ScheduledAt.Local().Format(timeLayout))
	return nil
}

func (a *App) CancelInterview(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage{"cancelinterview", "<interview id>"}
	}
	if err := a.tracker.CancelInterview(ctx, args[0]); err != nil {
		return err
	}
	a.println("Interview cancelled.")
	return nil
}

// Reminders lists open reminders, or all of them with "reminders all".
func (a *App) Reminders(ctx context.Context, args []string) error {
	includeDone := len(args) > 0 && args[0] == "all"
	list, err := a.tracker.Reminders(ctx, includeDone)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		a.println("No reminders.")
	}
	now := a.now()
	for _, r := range list {
		mark := " "
		switch {
		case r.Done:
			mark = "x"
		case r.DueAt.Before(now):
			mark = "!"
		}
		a.printf("[%s] %s %s  %s\n", mark, r.ID, r.DueAt.Local().Format(timeLayout), r.Title)
	}
	return nil
}

func (a *App) Remind(ctx context.Context, args []string) error {
	var r models.Reminder
	var err error

	if len(args) > 0 {
		r.ApplicationID = args[0]
	}
	if r.Title, err = getSimpleText(a.reader, "What should I remind you about?", a.out); err != nil {
		return err
	}
	when, err := getSimpleText(a.reader, "Due ("+timeLayout+")", a.out)
	if err != nil {
		return err
	}
	if r.DueAt, err = parseTime(when); err != nil {
		return err
	}

	out, err := a.tracker.AddReminder(ctx, r)
	if err != nil {
		return err
	}
	a.printf("Reminder %s added.\n", out.ID)
	return nil
}

func (a *App) Done(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage{"done", "<reminder id>"}
	}
	if _, err := a.tracker.CompleteReminder(ctx, args[0]); err != nil {
		return err
	}
	a.println("Marked as done.")
	return nil
}

func (a *App) RemoveReminder(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errUsage{"rmreminder", "<reminder id>"}
	}
	if err := a.tracker.DeleteReminder(ctx, args[0]); err != nil {
		return err
	}
	a.println("Reminder deleted.")
	return nil
}

// Agenda prints interviews and open reminders for the next n days.
func (a *App) Agenda(ctx context.Context, args []string) error {
	window, err := days(args, defaultAgendaDays)
	if err != nil {
		return err
	}
	items, err := a.tracker.Agenda(ctx, a.now(), window)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		a.println("Nothing planned.")
	}
	for _, it := range items {
		a.println(it.String())
	}
	return nil
}
