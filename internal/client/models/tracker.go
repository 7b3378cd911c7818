package models

import (
	"fmt"
	"time"
)

// ApplicationStatus is the pipeline stage of an application.
type ApplicationStatus string

const (
	StatusSaved        ApplicationStatus = "saved"
	StatusApplied      ApplicationStatus = "applied"
	StatusInterviewing ApplicationStatus = "interviewing"
	StatusOffered      ApplicationStatus = "offered"
	StatusRejected     ApplicationStatus = "rejected"
	StatusWithdrawn    ApplicationStatus = "withdrawn"
)

var applicationStatuses = []ApplicationStatus{
	StatusSaved, StatusApplied, StatusInterviewing, StatusOffered, StatusRejected, StatusWithdrawn,
}

// ApplicationStatuses lists every known status in pipeline order.
func ApplicationStatuses() []ApplicationStatus {
	return append([]ApplicationStatus(nil), applicationStatuses...)
}

func (s ApplicationStatus) Valid() bool {
	for _, known := range applicationStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Application tracks the user's progress on one job.
type Application struct {
	ID        string            `json:"id"`
	JobID     string            `json:"job_id"`
	Job       *Job              `json:"job,omitempty"`
	Status    ApplicationStatus `json:"status"`
	Notes     string            `json:"notes,omitempty"`
	AppliedAt *time.Time        `json:"applied_at,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (a Application) String() string {
	title := a.JobID
	if a.Job != nil {
		title = a.Job.Title + " @ " + a.Job.Company
	}
	return fmt.Sprintf("[%s] %s - %s", a.ID, title, a.Status)
}

// NewApplication is the body of POST /applications.
type NewApplication struct {
	JobID  string            `json:"job_id"`
	Status ApplicationStatus `json:"status"`
	Notes  string            `json:"notes,omitempty"`
}

// StatusUpdate is the body of PATCH /applications/{id}.
type StatusUpdate struct {
	Status ApplicationStatus `json:"status"`
	Notes  string            `json:"notes,omitempty"`
}

// Interview is a scheduled interview for an application.
type Interview struct {
	ID              string    `json:"id,omitempty"`
	ApplicationID   string    `json:"application_id"`
	Title           string    `json:"title"`
	Location        string    `json:"location,omitempty"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

// EndsAt is ScheduledAt plus the duration (one hour when unset).
func (i Interview) EndsAt() time.Time {
	d := time.Duration(i.DurationMinutes) * time.Minute
	if d <= 0 {
		d = time.Hour
	}
	return i.ScheduledAt.Add(d)
}

// Reminder is a dated to-do, optionally tied to an application.
type Reminder struct {
	ID            string    `json:"id,omitempty"`
	ApplicationID string    `json:"application_id,omitempty"`
	Title         string    `json:"title"`
	Note          string    `json:"note,omitempty"`
	DueAt         time.Time `json:"due_at"`
	Done          bool      `json:"done"`
}
