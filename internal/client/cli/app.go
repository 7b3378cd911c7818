package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/hkjobs/internal/client/config"
	"github.com/dmitrijs2005/hkjobs/internal/client/models"
	"github.com/dmitrijs2005/hkjobs/internal/client/services"
	"github.com/dmitrijs2005/hkjobs/internal/client/session"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

const pingTimeout = 3 * time.Second

// stdout is shared by the REPL seams and every App, so prompts, command
// output and background notices never interleave mid-line.
var stdout io.Writer = &syncWriter{w: os.Stdout}

// Session is the part of the session manager the CLI needs.
type Session interface {
	services.SessionInfo
	services.Subscriber
}

// Services bundles the backends of every command.
type Services struct {
	Auth     services.AuthService
	Jobs     services.JobService
	Tracker  services.TrackerService
	Document services.DocumentService
	Profile  services.ProfileService
}

type App struct {
	config   *config.Config
	session  Session
	auth     services.AuthService
	jobs     services.JobService
	tracker  services.TrackerService
	document services.DocumentService
	profile  services.ProfileService

	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time

	mu       sync.Mutex
	userName string
	Mode     Mode

	// lastSearch is the filter of the previous "jobs" command, used by "more".
	lastSearch *models.JobFilter
}

// NewApp builds the CLI on top of already wired services. It reads from
// os.Stdin and writes to os.Stdout.
func NewApp(c *config.Config, sess Session, s Services) *App {
	return &App{
		config:   c,
		session:  sess,
		auth:     s.Auth,
		jobs:     s.Jobs,
		tracker:  s.Tracker,
		document: s.Document,
		profile:  s.Profile,
		reader:   bufio.NewReader(os.Stdin),
		out:      stdout,
		now:      time.Now,
	}
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.mu.Unlock()

	if changed {
		a.printf("Switched to %s mode\n", mode)
	}
}

func (a *App) setUser(name string) {
	a.mu.Lock()
	a.userName = name
	a.mu.Unlock()
}

// Run blocks until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.auth.Close(ctx)

	unsubscribe := a.session.Subscribe(a.onSessionEnd)
	defer unsubscribe()

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.session != nil && a.session.State() != session.StateUnauthenticated
}

// onSessionEnd runs on the goroutine that ended the session.
func (a *App) onSessionEnd(ev session.Event) {
	a.setUser("")
	a.mu.Lock()
	a.lastSearch = nil
	a.mu.Unlock()

	if ev.Reason == session.ReasonSessionExpired {
		a.printf("Your session has expired. Please log in again.\n")
	}
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := a.auth.Ping(pingCtx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

// syncWriter serializes writes from the REPL, the online watcher and
// session notifications.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
