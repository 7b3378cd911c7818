package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/hkjobs/internal/client/models"
	"github.com/dmitrijs2005/hkjobs/internal/client/session"
	"github.com/dmitrijs2005/hkjobs/internal/common"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

// barrier holds the first n arrivals until all of them are in.
type barrier struct {
	n     int
	mu    sync.Mutex
	count int
	ch    chan struct{}
}

func newBarrier(n int) *barrier {
	return &barrier{n: n, ch: make(chan struct{})}
}

func (b *barrier) wait() {
	b.mu.Lock()
	b.count++
	if b.count == b.n {
		close(b.ch)
	}
	b.mu.Unlock()

	select {
	case <-b.ch:
	case <-time.After(2 * time.Second):
	}
}

// fakeAPI is a minimal job-search backend that issues and checks tokens.
type fakeAPI struct {
	mu      sync.Mutex
	access  string
	refresh string
	issued  int
	seen    []string
	revoked []string

	refreshFail  bool
	refreshCalls atomic.Int32
	logoutCalls  atomic.Int32
	jobCalls     atomic.Int32
	staleBarrier *barrier
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{access: "A1", refresh: "R1", issued: 1}
}

func (f *fakeAPI) expire() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.access = "expired"
}

func (f *fakeAPI) seenTokens() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.seen...)
}

func (f *fakeAPI) issue() models.AuthResponse {
	f.issued++
	f.access = "A" + strconv.Itoa(f.issued)
	f.refresh = "R" + strconv.Itoa(f.issued)
	return models.AuthResponse{AccessToken: f.access, RefreshToken: f.refresh, ExpiresIn: 900}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]any{"error": map[string]string{"code": code, "message": msg}})
}

func (f *fakeAPI) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimPrefix(r.Header.Get(common.AuthorizationHeader), common.BearerPrefix)

		f.mu.Lock()
		ok := tok != "" && tok == f.access
		if ok {
			f.seen = append(f.seen, tok)
		}
		b := f.staleBarrier
		f.mu.Unlock()

		if !ok {
			if b != nil {
				b.wait()
			}
			writeError(w, http.StatusUnauthorized, "token_expired", "access token expired")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *fakeAPI) router() chi.Router {
	r := chi.NewRouter()

	r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in models.Credentials
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Password != "secret" {
			writeError(w, http.StatusUnauthorized, "bad_credentials", "invalid email or password")
			return
		}
		f.mu.Lock()
		resp := f.issue()
		f.mu.Unlock()
		resp.User = &models.User{ID: "u1", Email: in.Email}
		writeJSON(w, http.StatusOK, resp)
	})

	r.Post("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		f.refreshCalls.Add(1)
		var in refreshRequest
		_ = json.NewDecoder(r.Body).Decode(&in)

		f.mu.Lock()
		defer f.mu.Unlock()
		if f.refreshFail || in.RefreshToken != f.refresh || r.Header.Get(common.AuthorizationHeader) != "" {
			writeError(w, http.StatusUnauthorized, "invalid_refresh", "refresh token revoked")
			return
		}
		writeJSON(w, http.StatusOK, f.issue())
	})

	r.Post("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		f.logoutCalls.Add(1)
		var in refreshRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		f.mu.Lock()
		f.revoked = append(f.revoked, in.RefreshToken)
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})

	r.Group(func(r chi.Router) {
		r.Use(f.requireAuth)

		r.Get("/jobs/{id}", func(w http.ResponseWriter, r *http.Request) {
			f.jobCalls.Add(1)
			writeJSON(w, http.StatusOK, models.Job{ID: chi.URLParam(r, "id"), Title: "Go Developer"})
		})

		r.Post("/applications", func(w http.ResponseWriter, r *http.Request) {
			var in models.NewApplication
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.JobID == "" {
				writeError(w, http.StatusUnprocessableEntity, "invalid", "job_id is required")
				return
			}
			writeJSON(w, http.StatusCreated, models.Application{ID: "app1", JobID: in.JobID, Status: in.Status})
		})
	})

	return r
}

type testEnv struct {
	api     *fakeAPI
	srv     *httptest.Server
	client  *RESTClient
	session *session.Manager
	store   *session.MemoryStore
}

func testOptions(srv *httptest.Server) Options {
	return Options{
		Doer:  srv.Client(),
		Retry: RetryPolicy{Attempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond},
	}
}

func newTestEnv(t *testing.T, api *fakeAPI, routes func(chi.Router)) *testEnv {
	t.Helper()

	r := api.router()
	if routes != nil {
		routes(r)
	}
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	refresher, err := NewTokenRefresher(srv.URL, testOptions(srv))
	require.NoError(t, err)

	store := session.NewMemoryStore()
	sess := session.NewManager(store, refresher, nil, time.Second)

	c, err := NewRESTClient(srv.URL, sess, testOptions(srv))
	require.NoError(t, err)

	return &testEnv{api: api, srv: srv, client: c, session: sess, store: store}
}

// withStaleToken logs the session in with an access token the server no
// longer accepts.
func (e *testEnv) withStaleToken(t *testing.T) {
	t.Helper()
	e.api.expire()
	require.NoError(t, e.session.Set(t.Context(), tokenPair("A0", "R1")))
}

func tokenPair(access, refresh string) *oauth2.Token {
	return &oauth2.Token{AccessToken: access, RefreshToken: refresh}
}
