package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/hkjobs/internal/client/cache"
	"github.com/dmitrijs2005/hkjobs/internal/client/client"
	"github.com/dmitrijs2005/hkjobs/internal/client/models"
	"github.com/dmitrijs2005/hkjobs/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/hkjobs/internal/client/session"
	"github.com/dmitrijs2005/hkjobs/internal/common"
)

const keyLastEmail = "last_email"

// SessionInfo is the read side of the session manager.
type SessionInfo interface {
	State() session.State
	Subject() string
	Expiry() time.Time
}

// Subscriber is implemented by *session.Manager.
type Subscriber interface {
	Subscribe(fn func(session.Event)) (unsubscribe func())
}

// Status describes the current login.
type Status struct {
	State   session.State
	Subject string
	Expiry  time.Time
	// User is nil when logged out or when the backend could not be reached.
	User *models.User
}

// AuthService defines authentication operations for the CLI.
//
// Login and Register store the returned credential pair in the session.
// Logout always ends the local session, even when the backend is offline.
// Passwords are wiped after use.
type AuthService interface {
	Login(ctx context.Context, email string, password []byte) (*models.User, error)
	Register(ctx context.Context, name, email string, password []byte) (*models.User, error)
	Logout(ctx context.Context) error
	Status(ctx context.Context) (*Status, error)
	LastEmail(ctx context.Context) string
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client  client.Client
	session SessionInfo
	db      *sql.DB
}

// NewAuthService constructs an AuthService. db may be nil, in which case the
// last used email is not remembered.
func NewAuthService(client client.Client, session SessionInfo, db *sql.DB) AuthService {
	return &authService{client: client, session: session, db: db}
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1 && !strings.ContainsAny(email, " \t")
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.User, error) {
	defer common.WipeByteArray(password)

	email = strings.TrimSpace(email)
	if !validEmail(email) || len(password) == 0 {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	user, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	a.rememberEmail(ctx, email)
	return user, nil
}

func (a *authService) Register(ctx context.Context, name, email string, password []byte) (*models.User, error) {
	defer common.WipeByteArray(password)

	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	switch {
	case name == "":
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	case !validEmail(email):
		return nil, fmt.Errorf("%w: %q is not an email address", ErrInvalidInput, email)
	case len(password) < 8:
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	user, err := a.client.Register(ctx, name, email, string(password))
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	a.rememberEmail(ctx, email)
	return user, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.client.Logout(ctx)
}

// Status reports the session state and, when logged in, who the backend
// thinks the user is. A failed lookup is returned alongside the local status.
func (a *authService) Status(ctx context.Context) (*Status, error) {
	st := &Status{
		State:   a.session.State(),
		Subject: a.session.Subject(),
		Expiry:  a.session.Expiry(),
	}
	if st.State == session.StateUnauthenticated {
		return st, nil
	}

	user, err := a.client.Me(ctx)
	if err != nil {
		st.State = a.session.State()
		return st, err
	}
	st.User = user
	return st, nil
}

func (a *authService) LastEmail(ctx context.Context) string {
	if a.db == nil {
		return ""
	}
	v, err := metadata.NewSQLiteRepository(a.db).Get(ctx, keyLastEmail)
	if err != nil {
		return ""
	}
	return string(v)
}

func (a *authService) rememberEmail(ctx context.Context, email string) {
	if a.db == nil {
		return
	}
	_ = metadata.NewSQLiteRepository(a.db).Set(ctx, keyLastEmail, []byte(email))
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}

// ClearCacheOnSessionEnd empties c every time the session ends, so a new
// user never sees the previous user's data.
func ClearCacheOnSessionEnd(s Subscriber, c *cache.Cache) (unsubscribe func()) {
	return s.Subscribe(func(session.Event) { c.Clear() })
}
