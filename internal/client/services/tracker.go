package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/hkjobs/internal/client/cache"
	"github.com/dmitrijs2005/hkjobs/internal/client/client"
	"github.com/dmitrijs2005/hkjobs/internal/client/models"
)

const trackerPrefix = "tracker:"

// AgendaKind tells interviews and reminders apart in an agenda.
type AgendaKind string

const (
	AgendaInterview AgendaKind = "interview"
	AgendaReminder  AgendaKind = "reminder"
)

// AgendaItem is one entry of the merged interview/reminder agenda.
type AgendaItem struct {
	Kind     AgendaKind
	ID       string
	Title    string
	Location string
	At       time.Time
	// Ends is zero for reminders.
	Ends    time.Time
	Overdue bool
}

func (i AgendaItem) String() string {
	s := fmt.Sprintf("%s  %-9s [%s] %s", i.At.Local().Format("Mon 02 Jan 15:04"), i.Kind, i.ID, i.Title)
	if i.Location != "" {
		s += " @ " + i.Location
	}
	if i.Overdue {
		s += " (overdue)"
	}
	return s
}

// TrackerService manages applications, interviews and reminders.
type TrackerService interface {
	Applications(ctx context.Context, status models.ApplicationStatus) ([]models.Application, error)
	Application(ctx context.Context, id string) (*models.Application, error)
	Apply(ctx context.Context, jobID, notes string) (*models.Application, error)
	SetStatus(ctx context.Context, id string, status models.ApplicationStatus, notes string) (*models.Application, error)
	DeleteApplication(ctx context.Context, id string) error

	Interviews(ctx context.Context, from, to time.Time) ([]models.Interview, error)
	ScheduleInterview(ctx context.Context, in models.Interview) (*models.Interview, error)
	UpdateInterview(ctx context.Context, in models.Interview) (*models.Interview, error)
	CancelInterview(ctx context.Context, id string) error

	Reminders(ctx context.Context, includeDone bool) ([]models.Reminder, error)
	AddReminder(ctx context.Context, in models.Reminder) (*models.Reminder, error)
	CompleteReminder(ctx context.Context, id string) (*models.Reminder, error)
	DeleteReminder(ctx context.Context, id string) error

	// Agenda merges interviews starting in [now, now+window) with open
	// reminders due before now+window, sorted by time. Reminders already due
	// are flagged Overdue.
	Agenda(ctx context.Context, now time.Time, window time.Duration) ([]AgendaItem, error)
}

type trackerService struct {
	client client.Client
	cache  *cache.Cache
}

func NewTrackerService(client client.Client, c *cache.Cache) TrackerService {
	return &trackerService{client: client, cache: c}
}

func (s *trackerService) invalidate() {
	s.cache.Invalidate(trackerPrefix)
}

func (s *trackerService) Applications(ctx context.Context, status models.ApplicationStatus) ([]models.Application, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	key := trackerPrefix + "apps:" + string(status)
	return cache.Load(ctx, s.cache, key, func(ctx context.Context) ([]models.Application, error) {
		return s.client.ListApplications(ctx, status)
	})
}

func (s *trackerService) Application(ctx context.Context, id string) (*models.Application, error) {
	id, err := requireID("application", id)
	if err != nil {
		return nil, err
	}
	return cache.Load(ctx, s.cache, trackerPrefix+"app:"+id, func(ctx context.Context) (*models.Application, error) {
		return s.client.GetApplication(ctx, id)
	})
}

func (s *trackerService) Apply(ctx context.Context, jobID, notes string) (*models.Application, error) {
	jobID, err := requireID("job", jobID)
	if err != nil {
		return nil, err
	}
	app, err := s.client.CreateApplication(ctx, models.NewApplication{
		JobID:  jobID,
		Status: models.StatusApplied,
		Notes:  strings.TrimSpace(notes),
	})
	if err != nil {
		return nil, fmt.Errorf("create application error: %w", err)
	}
	s.invalidate()
	return app, nil
}

func (s *trackerService) SetStatus(ctx context.Context, id string, status models.ApplicationStatus, notes string) (*models.Application, error) {
	id, err := requireID("application", id)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	app, err := s.client.UpdateApplicationStatus(ctx, id, status, strings.TrimSpace(notes))
	if err != nil {
		return nil, fmt.Errorf("update application error: %w", err)
	}
	s.invalidate()
	return app, nil
}

func (s *trackerService) DeleteApplication(ctx context.Context, id string) error {
	id, err := requireID("application", id)
	if err != nil {
		return err
	}
	if err := s.client.DeleteApplication(ctx, id); err != nil {
		return fmt.Errorf("delete application error: %w", err)
	}
	s.invalidate()
	return nil
}

func (s *trackerService) Interviews(ctx context.Context, from, to time.Time) ([]models.Interview, error) {
	if !from.IsZero() && !to.IsZero() && !to.After(from) {
		return nil, fmt.Errorf("%w: empty time range", ErrInvalidInput)
	}
	return s.client.ListInterviews(ctx, from, to)
}

func validateInterview(in models.Interview) error {
	switch {
	case strings.TrimSpace(in.ApplicationID) == "":
		return fmt.Errorf("%w: application id is required", ErrInvalidInput)
	case strings.TrimSpace(in.Title) == "":
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	case in.ScheduledAt.IsZero():
		return fmt.Errorf("%w: interview time is required", ErrInvalidInput)
	case in.DurationMinutes < 0:
		return fmt.Errorf("%w: negative duration", ErrInvalidInput)
	}
	return nil
}

func (s *trackerService) ScheduleInterview(ctx context.Context, in models.Interview) (*models.Interview, error) {
	if err := validateInterview(in); err != nil {
		return nil, err
	}
	out, err := s.client.CreateInterview(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create interview error: %w", err)
	}
	s.invalidate()
	return out, nil
}

func (s *trackerService) UpdateInterview(ctx context.Context, in models.Interview) (*models.Interview, error) {
	if _, err := requireID("interview", in.ID); err != nil {
		return nil, err
	}
	if err := validateInterview(in); err != nil {
		return nil, err
	}
	out, err := s.client.UpdateInterview(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("update interview error: %w", err)
	}
	s.invalidate()
	return out, nil
}

func (s *trackerService) CancelInterview(ctx context.Context, id string) error {
	id, err := requireID("interview", id)
	if err != nil {
		return err
	}
	if err := s.client.DeleteInterview(ctx, id); err != nil {
		return fmt.Errorf("delete interview error: %w", err)
	}
	s.invalidate()
	return nil
}

func (s *trackerService) Reminders(ctx context.Context, includeDone bool) ([]models.Reminder, error) {
	return s.client.ListReminders(ctx, includeDone)
}

func (s *trackerService) AddReminder(ctx context.Context, in models.Reminder) (*models.Reminder, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if in.DueAt.IsZero() {
		return nil, fmt.Errorf("%w: due time is required", ErrInvalidInput)
	}
	out, err := s.client.CreateReminder(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("create reminder error: %w", err)
	}
	s.invalidate()
	return out, nil
}

func (s *trackerService) CompleteReminder(ctx context.Context, id string) (*models.Reminder, error) {
	id, err := requireID("reminder", id)
	if err != nil {
		return nil, err
	}
	out, err := s.client.CompleteReminder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("complete reminder error: %w", err)
	}
	s.invalidate()
	return out, nil
}

func (s *trackerService) DeleteReminder(ctx context.Context, id string) error {
	id, err := requireID("reminder", id)
	if err != nil {
		return err
	}
	if err := s.client.DeleteReminder(ctx, id); err != nil {
		return fmt.Errorf("delete reminder error: %w", err)
	}
	s.invalidate()
	return nil
}

func (s *trackerService) Agenda(ctx context.Context, now time.Time, window time.Duration) ([]AgendaItem, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: agenda window must be positive", ErrInvalidInput)
	}
	until := now.Add(window)

	interviews, err := s.client.ListInterviews(ctx, now, until)
	if err != nil {
		return nil, fmt.Errorf("list interviews error: %w", err)
	}
	reminders, err := s.client.ListReminders(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list reminders error: %w", err)
	}

	items := make([]AgendaItem, 0, len(interviews)+len(reminders))
	for _, iv := range interviews {
		// The server filter is inclusive on both ends; keep [now, until).
		if iv.ScheduledAt.Before(now) || !iv.ScheduledAt.Before(until) {
			continue
		}
		items = append(items, AgendaItem{
			Kind:     AgendaInterview,
			ID:       iv.ID,
			Title:    iv.Title,
			Location: iv.Location,
			At:       iv.ScheduledAt,
			Ends:     iv.EndsAt(),
		})
	}
	for _, r := range reminders {
		if r.Done || !r.DueAt.Before(until) {
			continue
		}
		items = append(items, AgendaItem{
			Kind:    AgendaReminder,
			ID:      r.ID,
			Title:   r.Title,
			At:      r.DueAt,
			Overdue: r.DueAt.Before(now),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].At.Equal(items[j].At) {
			return items[i].At.Before(items[j].At)
		}
		if items[i].Kind != items[j].Kind {
			return items[i].Kind == AgendaInterview
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}
