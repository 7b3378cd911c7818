package services

import (
	"context"
	"io"
	"time"

	"github.com/dmitrijs2005/hkjobs/internal/client/client"
	"github.com/dmitrijs2005/hkjobs/internal/client/models"
	"github.com/dmitrijs2005/hkjobs/internal/client/session"
)

// fakeClient implements client.Client for service tests. Methods a test does
// not configure panic through the nil embedded interface.
type fakeClient struct {
	client.Client

	calls map[string]int

	LoginUser  *models.User
	LoginErr   error
	LastEmail  string
	LastPass   string
	LogoutErr  error
	MeUser     *models.User
	MeErr      error
	PingErr    error
	CloseCalls int

	Jobs     *models.Page[models.Job]
	Job      *models.Job
	SavedRet []models.Job
	JobErr   error

	Apps        []models.Application
	App         *models.Application
	LastNewApp  models.NewApplication
	LastStatus  models.ApplicationStatus
	TrackerErr  error
	Interviews  []models.Interview
	Reminders   []models.Reminder
	LastFrom    time.Time
	LastTo      time.Time
	LastInclude bool

	Docs       []models.Document
	LastUpload struct {
		Name    string
		Kind    models.DocumentKind
		Content string
	}

	Profile     *models.Profile
	LastProfile models.Profile
}

func newFakeClient() *fakeClient {
	return &fakeClient{calls: map[string]int{}}
}

func (f *fakeClient) hit(name string) { f.calls[name]++ }

func (f *fakeClient) Close() error { f.CloseCalls++; return nil }

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

func (f *fakeClient) Login(_ context.Context, email, password string) (*models.User, error) {
	f.hit("Login")
	f.LastEmail, f.LastPass = email, password
	return f.LoginUser, f.LoginErr
}

func (f *fakeClient) Register(_ context.Context, name, email, password string) (*models.User, error) {
	f.hit("Register")
	f.LastEmail, f.LastPass = email, password
	return &models.User{Name: name, Email: email}, f.LoginErr
}

func (f *fakeClient) Logout(context.Context) error { f.hit("Logout"); return f.LogoutErr }

func (f *fakeClient) Me(context.Context) (*models.User, error) { f.hit("Me"); return f.MeUser, f.MeErr }

func (f *fakeClient) ListJobs(_ context.Context, _ models.JobFilter) (*models.Page[models.Job], error) {
	f.hit("ListJobs")
	return f.Jobs, f.JobErr
}

func (f *fakeClient) GetJob(_ context.Context, id string) (*models.Job, error) {
	f.hit("GetJob")
	return f.Job, f.JobErr
}

func (f *fakeClient) SaveJob(context.Context, string) error   { f.hit("SaveJob"); return f.JobErr }
func (f *fakeClient) UnsaveJob(context.Context, string) error { f.hit("UnsaveJob"); return f.JobErr }

func (f *fakeClient) SavedJobs(context.Context) ([]models.Job, error) {
	f.hit("SavedJobs")
	return f.SavedRet, f.JobErr
}

func (f *fakeClient) ListApplications(_ context.Context, status models.ApplicationStatus) ([]models.Application, error) {
	f.hit("ListApplications")
	f.LastStatus = status
	return f.Apps, f.TrackerErr
}

func (f *fakeClient) GetApplication(context.Context, string) (*models.Application, error) {
	f.hit("GetApplication")
	return f.App, f.TrackerErr
}

func (f *fakeClient) CreateApplication(_ context.Context, in models.NewApplication) (*models.Application, error) {
	f.hit("CreateApplication")
	f.LastNewApp = in
	return &models.Application{ID: "app1", JobID: in.JobID, Status: in.Status}, f.TrackerErr
}

func (f *fakeClient) UpdateApplicationStatus(_ context.Context, id string, status models.ApplicationStatus, notes string) (*models.Application, error) {
	f.hit("UpdateApplicationStatus")
	f.LastStatus = status
	return &models.Application{ID: id, Status: status, Notes: notes}, f.TrackerErr
}

func (f *fakeClient) DeleteApplication(context.Context, string) error {
	f.hit("DeleteApplication")
	return f.TrackerErr
}

func (f *fakeClient) ListInterviews(_ context.Context, from, to time.Time) ([]models.Interview, error) {
	f.hit("ListInterviews")
	f.LastFrom, f.LastTo = from, to
	return f.Interviews, f.TrackerErr
}

func (f *fakeClient) CreateInterview(_ context.Context, in models.Interview) (*models.Interview, error) {
	f.hit("CreateInterview")
	in.ID = "i1"
	return &in, f.TrackerErr
}

func (f *fakeClient) UpdateInterview(_ context.Context, in models.Interview) (*models.Interview, error) {
	f.hit("UpdateInterview")
	return &in, f.TrackerErr
}

func (f *fakeClient) DeleteInterview(context.Context, string) error {
	f.hit("DeleteInterview")
	return f.TrackerErr
}

func (f *fakeClient) ListReminders(_ context.Context, includeDone bool) ([]models.Reminder, error) {
	f.hit("ListReminders")
	f.LastInclude = includeDone
	return f.Reminders, f.TrackerErr
}

func (f *fakeClient) CreateReminder(_ context.Context, in models.Reminder) (*models.Reminder, error) {
	f.hit("CreateReminder")
	in.ID = "r1"
	return &in, f.TrackerErr
}

func (f *fakeClient) CompleteReminder(_ context.Context, id string) (*models.Reminder, error) {
	f.hit("CompleteReminder")
	return &models.Reminder{ID: id, Done: true}, f.TrackerErr
}

func (f *fakeClient) DeleteReminder(context.Context, string) error {
	f.hit("DeleteReminder")
	return f.TrackerErr
}

func (f *fakeClient) ListDocuments(context.Context) ([]models.Document, error) {
	f.hit("ListDocuments")
	return f.Docs, nil
}

func (f *fakeClient) UploadDocument(_ context.Context, name string, kind models.DocumentKind, r io.Reader) (*models.Document, error) {
	f.hit("UploadDocument")
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.LastUpload.Name, f.LastUpload.Kind, f.LastUpload.Content = name, kind, string(b)
	return &models.Document{ID: "d1", Name: name, Kind: kind, Size: int64(len(b))}, nil
}

func (f *fakeClient) DeleteDocument(context.Context, string) error {
	f.hit("DeleteDocument")
	return nil
}

func (f *fakeClient) GetProfile(context.Context) (*models.Profile, error) {
	f.hit("GetProfile")
	return f.Profile, nil
}

func (f *fakeClient) UpdateProfile(_ context.Context, p models.Profile) (*models.Profile, error) {
	f.hit("UpdateProfile")
	f.LastProfile = p
	return &p, nil
}

type fakeSession struct {
	state   session.State
	subject string
	expiry  time.Time
	subs    []func(session.Event)
}

func (s *fakeSession) State() session.State { return s.state }
func (s *fakeSession) Subject() string      { return s.subject }
func (s *fakeSession) Expiry() time.Time    { return s.expiry }

func (s *fakeSession) Subscribe(fn func(session.Event)) func() {
	s.subs = append(s.subs, fn)
	return func() { s.subs = nil }
}

func (s *fakeSession) emit(ev session.Event) {
	for _, fn := range s.subs {
		fn(ev)
	}
}
