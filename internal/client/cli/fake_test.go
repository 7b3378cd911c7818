package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/hkjobs/internal/client/config"
	"github.com/dmitrijs2005/hkjobs/internal/client/models"
	"github.com/dmitrijs2005/hkjobs/internal/client/services"
	"github.com/dmitrijs2005/hkjobs/internal/client/session"
)

var testNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)

type fakeSession struct {
	state   session.State
	subject string
	expiry  time.Time
	fn      func(session.Event)
}

func (s *fakeSession) State() session.State { return s.state }
func (s *fakeSession) Subject() string      { return s.subject }
func (s *fakeSession) Expiry() time.Time    { return s.expiry }
func (s *fakeSession) Subscribe(fn func(session.Event)) func() {
	s.fn = fn
	return func() { s.fn = nil }
}

type fakeAuth struct {
	regName, regEmail string
	regPass           []byte
	loginEmail        string
	loginPass         []byte
	user              *models.User
	err               error
	lastEmail         string
	logoutCalls       int
	status            *services.Status
	pingErr           error
}

func (f *fakeAuth) Login(_ context.Context, email string, pw []byte) (*models.User, error) {
	f.loginEmail, f.loginPass = email, append([]byte(nil), pw...)
	return f.user, f.err
}

func (f *fakeAuth) Register(_ context.Context, name, email string, pw []byte) (*models.User, error) {
	f.regName, f.regEmail, f.regPass = name, email, append([]byte(nil), pw...)
	return f.user, f.err
}

func (f *fakeAuth) Logout(context.Context) error { f.logoutCalls++; return f.err }

func (f *fakeAuth) Status(context.Context) (*services.Status, error) { return f.status, f.err }

func (f *fakeAuth) LastEmail(context.Context) string { return f.lastEmail }
func (f *fakeAuth) Ping(context.Context) error       { return f.pingErr }
func (f *fakeAuth) Close(context.Context) error      { return nil }

// fakeJobs, fakeTracker, fakeDocs and fakeProfile embed their interface;
// unconfigured methods panic.
type fakeJobs struct {
	services.JobService
	filters []models.JobFilter
	pages   []*models.Page[models.Job]
	saved   []string
	err     error
}

func (f *fakeJobs) Search(_ context.Context, filter models.JobFilter) (*models.Page[models.Job], error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	p := f.pages[0]
	f.pages = f.pages[1:]
	return p, nil
}

func (f *fakeJobs) Save(_ context.Context, id string) error {
	f.saved = append(f.saved, id)
	return f.err
}

type fakeTracker struct {
	services.TrackerService
	agenda      []services.AgendaItem
	agendaNow   time.Time
	agendaWin   time.Duration
	interviews  []models.Interview
	scheduled   *models.Interview
	updated     *models.Interview
	statusID    string
	status      models.ApplicationStatus
	statusNotes string
	reminder    *models.Reminder
	err         error
}

func (f *fakeTracker) Agenda(_ context.Context, now time.Time, window time.Duration) ([]services.AgendaItem, error) {
	f.agendaNow, f.agendaWin = now, window
	return f.agenda, f.err
}

func (f *fakeTracker) Interviews(context.Context, time.Time, time.Time) ([]models.Interview, error) {
	return f.interviews, f.err
}

func (f *fakeTracker) ScheduleInterview(_ context.Context, in models.Interview) (*models.Interview, error) {
	f.scheduled = &in
	out := in
	out.ID = "iv1"
	return &out, f.err
}

func (f *fakeTracker) UpdateInterview(_ context.Context, in models.Interview) (*models.Interview, error) {
	f.updated = &in
	return &in, f.err
}

func (f *fakeTracker) SetStatus(_ context.Context, id string, s models.ApplicationStatus, notes string) (*models.Application, error) {
	f.statusID, f.status, f.statusNotes = id, s, notes
	return &models.Application{ID: id, JobID: "j1", Status: s}, f.err
}

func (f *fakeTracker) AddReminder(_ context.Context, r models.Reminder) (*models.Reminder, error) {
	f.reminder = &r
	out := r
	out.ID = "r1"
	return &out, f.err
}

type fakeDocs struct {
	services.DocumentService
	path string
	kind models.DocumentKind
	err  error
}

func (f *fakeDocs) Upload(_ context.Context, path string, kind models.DocumentKind) (*models.Document, error) {
	f.path, f.kind = path, kind
	if f.err != nil {
		return nil, f.err
	}
	return &models.Document{ID: "d1", Name: "cv.pdf", Kind: models.KindResume, Size: 42}, nil
}

type fakeProfile struct {
	services.ProfileService
	current *models.Profile
	updated *models.Profile
	err     error
}

func (f *fakeProfile) Get(context.Context) (*models.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	cp := *f.current
	return &cp, nil
}

func (f *fakeProfile) Update(_ context.Context, p models.Profile) (*models.Profile, error) {
	f.updated = &p
	return &p, f.err
}

type testApp struct {
	*App
	out     *bytes.Buffer
	session *fakeSession
}

// newTestApp builds an App that reads input and writes into a buffer.
func newTestApp(t *testing.T, input string, s Services) *testApp {
	t.Helper()

	if s.Auth == nil {
		s.Auth = &fakeAuth{}
	}
	sess := &fakeSession{state: session.StateAuthenticated}
	cfg := &config.Config{}
	cfg.LoadDefaults()

	a := NewApp(cfg, sess, s)
	out := &bytes.Buffer{}
	a.reader = bufio.NewReader(strings.NewReader(input))
	a.out = out
	a.now = func() time.Time { return testNow }

	return &testApp{App: a, out: out, session: sess}
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { getPassword = orig })
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origLn, orig := printlnFn, printFn
	printlnFn = func(a ...any) (int, error) {
		s := strings.TrimSuffix(fmt.Sprintln(a...), "\n")
		lines = append(lines, s)
		return len(s), nil
	}
	printFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn, printFn = origLn, orig })
	return &lines
}
