package client

import (
	"context"
	"io"
	"time"

	"github.com/dmitrijs2005/hkjobs/internal/client/models"
)

// Client is the typed job-search API. RESTClient implements it.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	Login(ctx context.Context, email, password string) (*models.User, error)
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)

	ListJobs(ctx context.Context, f models.JobFilter) (*models.Page[models.Job], error)
	GetJob(ctx context.Context, id string) (*models.Job, error)
	SaveJob(ctx context.Context, id string) error
	UnsaveJob(ctx context.Context, id string) error
	SavedJobs(ctx context.Context) ([]models.Job, error)

	ListApplications(ctx context.Context, status models.ApplicationStatus) ([]models.Application, error)
	GetApplication(ctx context.Context, id string) (*models.Application, error)
	CreateApplication(ctx context.Context, in models.NewApplication) (*models.Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus, notes string) (*models.Application, error)
	DeleteApplication(ctx context.Context, id string) error

	ListInterviews(ctx context.Context, from, to time.Time) ([]models.Interview, error)
	CreateInterview(ctx context.Context, in models.Interview) (*models.Interview, error)
	UpdateInterview(ctx context.Context, in models.Interview) (*models.Interview, error)
	DeleteInterview(ctx context.Context, id string) error

	ListReminders(ctx context.Context, includeDone bool) ([]models.Reminder, error)
	CreateReminder(ctx context.Context, in models.Reminder) (*models.Reminder, error)
	CompleteReminder(ctx context.Context, id string) (*models.Reminder, error)
	DeleteReminder(ctx context.Context, id string) error

	ListDocuments(ctx context.Context) ([]models.Document, error)
	UploadDocument(ctx context.Context, name string, kind models.DocumentKind, r io.Reader) (*models.Document, error)
	DeleteDocument(ctx context.Context, id string) error

	GetProfile(ctx context.Context) (*models.Profile, error)
	UpdateProfile(ctx context.Context, p models.Profile) (*models.Profile, error)
}

var _ Client = (*RESTClient)(nil)
