package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/hkjobs/internal/logging"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
)

// ErrSessionExpired is returned when the session cannot be recovered: the
// refresh call failed or there is no refresh token to use.
var ErrSessionExpired = errors.New("session expired")

var errEmptyToken = errors.New("refresh returned an empty access token")

// DefaultRefreshTimeout bounds a single refresh call.
const DefaultRefreshTimeout = 15 * time.Second

const refreshKey = "refresh"

// State is the lifecycle stage of the session.
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StateRefreshing
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateRefreshing:
		return "refreshing"
	default:
		return "unauthenticated"
	}
}

// Reason says why the session ended.
type Reason string

const (
	ReasonLogout         Reason = "logout"
	ReasonSessionExpired Reason = "session_expired"
	// ReasonUserChanged: Set replaced a live session with one for another
	// user.
	ReasonUserChanged Reason = "user_changed"
)

// Event is delivered to subscribers when the session ends.
type Event struct {
	Reason Reason
	// Err is the refresh failure for ReasonSessionExpired, nil otherwise.
	Err error
}

// Refresher exchanges a refresh token for a new credential pair.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*oauth2.Token, error)
}

type subscriber struct {
	id int
	fn func(Event)
}

// Manager is safe for concurrent use.
type Manager struct {
	store          TokenStore
	refresher      Refresher
	logger         logging.Logger
	refreshTimeout time.Duration

	mu    sync.RWMutex
	token *oauth2.Token
	state State
	// expired is the terminal error of the last failed refresh. Callers that
	// arrive after the session ended get the same error as those that waited.
	expired error

	flight singleflight.Group

	// persistMu is taken before mu and held across the store call, so the
	// persisted pair always matches the one in memory.
	persistMu sync.Mutex

	subsMu sync.Mutex
	subs   []subscriber
	nextID int
}

// NewManager builds an unauthenticated manager. Call Load to rehydrate
// persisted credentials. A zero refreshTimeout means DefaultRefreshTimeout.
func NewManager(store TokenStore, refresher Refresher, logger logging.Logger, refreshTimeout time.Duration) *Manager {
	if store == nil {
		store = NewMemoryStore()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	if refreshTimeout <= 0 {
		refreshTimeout = DefaultRefreshTimeout
	}
	return &Manager{
		store:          store,
		refresher:      refresher,
		logger:         logger,
		refreshTimeout: refreshTimeout,
	}
}

// Load reads persisted credentials. The session is authenticated afterwards
// if an access token was found.
func (m *Manager) Load(ctx context.Context) error {
	tok, err := m.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if tok == nil || tok.AccessToken == "" {
		m.token = nil
		m.state = StateUnauthenticated
		return nil
	}
	m.token = fillExpiry(tok)
	m.state = StateAuthenticated
	m.logger.Debug(ctx, "session restored", "expiry", m.token.Expiry)
	return nil
}

// Set installs a fresh credential pair (login, registration) and persists it.
// The in-memory session is updated even if persisting fails.
//
// Replacing a live session that belongs to a different user (or to a user
// that cannot be told apart because the tokens are opaque) notifies
// subscribers with ReasonUserChanged.
func (m *Manager) Set(ctx context.Context, tok *oauth2.Token) error {
	if tok == nil || tok.AccessToken == "" {
		return errEmptyToken
	}
	tok = fillExpiry(tok)

	m.persistMu.Lock()
	m.mu.Lock()
	prev := m.token
	m.token = tok
	m.state = StateAuthenticated
	m.expired = nil
	m.mu.Unlock()

	err := m.store.Save(ctx, tok)
	m.persistMu.Unlock()

	if prev != nil && !sameUser(prev, tok) {
		m.logger.Info(ctx, "session replaced by another user")
		m.notify(Event{Reason: ReasonUserChanged})
	}

	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func sameUser(a, b *oauth2.Token) bool {
	sa, sb := subjectOf(a.AccessToken), subjectOf(b.AccessToken)
	return sa != "" && sa == sb
}

// Token returns a copy of the current credential pair, or nil.
func (m *Manager) Token() *oauth2.Token {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == nil {
		return nil
	}
	cp := *m.token
	return &cp
}

// AccessToken returns the current access token, or "".
func (m *Manager) AccessToken() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == nil {
		return ""
	}
	return m.token.AccessToken
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Expiry returns the access token expiry, zero when unknown.
func (m *Manager) Expiry() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.token == nil {
		return time.Time{}
	}
	return m.token.Expiry
}

// Subject returns the user id carried in the access token, if it is a JWT.
func (m *Manager) Subject() string {
	return subjectOf(m.AccessToken())
}

// Refresh returns a usable access token after a request sent with stale was
// rejected.
//
// If the current token already differs from stale, another caller finished a
// refresh in the meantime and the current token is returned without a call.
// Otherwise the caller joins the in-flight refresh or starts one. Callers
// stop waiting when their ctx is done; the refresh itself keeps running.
func (m *Manager) Refresh(ctx context.Context, stale string) (string, error) {
	m.mu.RLock()
	current, expired := m.token, m.expired
	m.mu.RUnlock()

	if current == nil || current.RefreshToken == "" {
		if expired != nil {
			return "", expired
		}
		return "", ErrSessionExpired
	}
	if current.AccessToken != "" && current.AccessToken != stale {
		return current.AccessToken, nil
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := m.flight.DoChan(refreshKey, func() (any, error) {
		return m.refresh(flightCtx, stale)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (m *Manager) refresh(ctx context.Context, stale string) (string, error) {
	m.mu.Lock()
	if m.token == nil || m.token.RefreshToken == "" {
		expired := m.expired
		m.mu.Unlock()
		if expired != nil {
			return "", expired
		}
		return "", ErrSessionExpired
	}
	// A flight that finished between the caller's check and DoChan already
	// replaced stale.
	if current := m.token.AccessToken; current != stale {
		m.mu.Unlock()
		return current, nil
	}
	refreshToken := m.token.RefreshToken
	m.state = StateRefreshing
	m.mu.Unlock()

	m.logger.Debug(ctx, "refreshing access token")

	callCtx, cancel := context.WithTimeout(ctx, m.refreshTimeout)
	defer cancel()

	var tok *oauth2.Token
	err := errEmptyToken
	if m.refresher != nil {
		tok, err = m.refresher.Refresh(callCtx, refreshToken)
		if err == nil && (tok == nil || tok.AccessToken == "") {
			err = errEmptyToken
		}
	}
	if err != nil {
		expired := fmt.Errorf("%w: %w", ErrSessionExpired, err)
		ended, _ := m.end(ctx, Event{Reason: ReasonSessionExpired, Err: err}, expired, refreshToken)
		if !ended {
			return "", ErrSessionExpired
		}
		m.logger.Warn(ctx, "token refresh failed, session ended", "error", err)
		return "", expired
	}

	// Servers that do not rotate refresh tokens omit them.
	if tok.RefreshToken == "" {
		tok.RefreshToken = refreshToken
	}
	tok = fillExpiry(tok)

	m.persistMu.Lock()
	defer m.persistMu.Unlock()

	m.mu.Lock()
	// The session was logged out or replaced while the call was in flight.
	if m.token == nil || m.token.RefreshToken != refreshToken {
		m.mu.Unlock()
		m.logger.Debug(ctx, "discarding refresh result for a session that has ended")
		return "", ErrSessionExpired
	}
	m.token = tok
	m.state = StateAuthenticated
	m.expired = nil
	m.mu.Unlock()

	if err := m.store.Save(ctx, tok); err != nil {
		m.logger.Warn(ctx, "refreshed token not persisted", "error", err)
	}

	m.logger.Info(ctx, "access token refreshed")
	return tok.AccessToken, nil
}

// Logout ends the session locally and notifies subscribers with ReasonLogout.
func (m *Manager) Logout(ctx context.Context) error {
	_, err := m.end(ctx, Event{Reason: ReasonLogout}, nil, "")
	return err
}

// end clears the session and notifies subscribers. A non-empty refreshToken
// limits it to the session holding that refresh token; ended is false when
// the session had already moved on.
func (m *Manager) end(ctx context.Context, ev Event, expired error, refreshToken string) (ended bool, err error) {
	m.persistMu.Lock()

	m.mu.Lock()
	if refreshToken != "" && (m.token == nil || m.token.RefreshToken != refreshToken) {
		m.mu.Unlock()
		m.persistMu.Unlock()
		return false, nil
	}
	m.token = nil
	m.state = StateUnauthenticated
	m.expired = expired
	m.mu.Unlock()

	err = m.store.Clear(ctx)
	m.persistMu.Unlock()
	if err != nil {
		m.logger.Error(ctx, "failed to clear stored credentials", "error", err)
		err = fmt.Errorf("clear session: %w", err)
	}

	m.notify(ev)
	return true, err
}

// Subscribe registers fn to be called each time the session ends. fn runs on
// the goroutine that ended the session and must not block. The returned
// function removes the subscription.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()

	id := m.nextID
	m.nextID++
	m.subs = append(m.subs, subscriber{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subsMu.Lock()
			defer m.subsMu.Unlock()
			for i, s := range m.subs {
				if s.id == id {
					m.subs = append(m.subs[:i], m.subs[i+1:]...)
					return
				}
			}
		})
	}
}

func (m *Manager) notify(ev Event) {
	m.subsMu.Lock()
	subs := make([]subscriber, len(m.subs))
	copy(subs, m.subs)
	m.subsMu.Unlock()

	for _, s := range subs {
		s.fn(ev)
	}
}
