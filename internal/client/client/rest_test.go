package client

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/hkjobs/internal/client/models"
	"github.com/dmitrijs2005/hkjobs/internal/client/session"
	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRESTClient_InvalidBaseURL(t *testing.T) {
	_, err := NewRESTClient("not a url", nil, Options{})
	assert.Error(t, err)

	_, err = NewTokenRefresher("/relative", Options{})
	assert.Error(t, err)
}

func TestRESTClient_ListJobsSendsFilter(t *testing.T) {
	queries := make(chan string, 1)
	env := newTestEnv(t, newFakeAPI(), func(r chi.Router) {
		r.Get("/jobs", func(w http.ResponseWriter, r *http.Request) {
			queries <- r.URL.RawQuery
			writeJSON(w, http.StatusOK, models.Page[models.Job]{
				Items: []models.Job{{ID: "1", Title: "Backend Engineer", Company: "Acme"}},
				Total: 21, Page: 1, Limit: 20,
			})
		})
	})

	page, err := env.client.ListJobs(t.Context(), models.JobFilter{Query: "golang", Location: "Central", Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, "limit=20&location=Central&q=golang", <-queries)

	want := &models.Page[models.Job]{
		Items: []models.Job{{ID: "1", Title: "Backend Engineer", Company: "Acme"}},
		Total: 21, Page: 1, Limit: 20,
	}
	if diff := cmp.Diff(want, page); diff != "" {
		t.Errorf("ListJobs mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, page.HasMore())
}

func TestRESTClient_SaveAndUnsaveJob(t *testing.T) {
	var saved atomic.Int32
	env := newTestEnv(t, newFakeAPI(), func(r chi.Router) {
		r.Post("/jobs/{id}/save", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "a b", chi.URLParam(r, "id"))
			saved.Add(1)
			w.WriteHeader(http.StatusNoContent)
		})
		r.Delete("/jobs/{id}/save", func(w http.ResponseWriter, r *http.Request) {
			saved.Add(-1)
			w.WriteHeader(http.StatusNoContent)
		})
		r.Get("/jobs/saved", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []models.Job{{ID: "a b", Saved: true}})
		})
	})

	require.NoError(t, env.client.SaveJob(t.Context(), "a b"))
	assert.EqualValues(t, 1, saved.Load())

	jobs, err := env.client.SavedJobs(t.Context())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.True(t, jobs[0].Saved)

	require.NoError(t, env.client.UnsaveJob(t.Context(), "a b"))
	assert.Zero(t, saved.Load())
}

func TestRESTClient_Applications(t *testing.T) {
	updates := make(chan models.StatusUpdate, 1)
	env := newTestEnv(t, newFakeAPI(), func(r chi.Router) {
		r.Get("/applications", func(w http.ResponseWriter, r *http.Request) {
			status := models.ApplicationStatus(r.URL.Query().Get("status"))
			writeJSON(w, http.StatusOK, []models.Application{{ID: "app1", Status: status}})
		})
		r.Get("/applications/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, models.Application{ID: chi.URLParam(r, "id"), Status: models.StatusApplied})
		})
		r.Patch("/applications/{id}", func(w http.ResponseWriter, r *http.Request) {
			var in models.StatusUpdate
			_ = json.NewDecoder(r.Body).Decode(&in)
			updates <- in
			writeJSON(w, http.StatusOK, models.Application{ID: chi.URLParam(r, "id"), Status: in.Status, Notes: in.Notes})
		})
		r.Delete("/applications/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	apps, err := env.client.ListApplications(t.Context(), models.StatusInterviewing)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, models.StatusInterviewing, apps[0].Status)

	app, err := env.client.GetApplication(t.Context(), "app9")
	require.NoError(t, err)
	assert.Equal(t, "app9", app.ID)

	app, err = env.client.UpdateApplicationStatus(t.Context(), "app9", models.StatusOffered, "verbal offer")
	require.NoError(t, err)
	assert.Equal(t, models.StatusUpdate{Status: models.StatusOffered, Notes: "verbal offer"}, <-updates)
	assert.Equal(t, models.StatusOffered, app.Status)

	require.NoError(t, env.client.DeleteApplication(t.Context(), "app9"))
}

func TestRESTClient_InterviewsAndReminders(t *testing.T) {
	from := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7)
	queries := make(chan string, 2)

	env := newTestEnv(t, newFakeAPI(), func(r chi.Router) {
		r.Get("/interviews", func(w http.ResponseWriter, r *http.Request) {
			queries <- r.URL.RawQuery
			writeJSON(w, http.StatusOK, []models.Interview{{ID: "i1", ScheduledAt: from.Add(time.Hour)}})
		})
		r.Post("/interviews", func(w http.ResponseWriter, r *http.Request) {
			var in models.Interview
			_ = json.NewDecoder(r.Body).Decode(&in)
			in.ID = "i2"
			writeJSON(w, http.StatusCreated, in)
		})
		r.Put("/interviews/{id}", func(w http.ResponseWriter, r *http.Request) {
			var in models.Interview
			_ = json.NewDecoder(r.Body).Decode(&in)
			writeJSON(w, http.StatusOK, in)
		})
		r.Delete("/interviews/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		r.Get("/reminders", func(w http.ResponseWriter, r *http.Request) {
			queries <- r.URL.RawQuery
			writeJSON(w, http.StatusOK, []models.Reminder{{ID: "r1", Title: "Follow up"}})
		})
		r.Post("/reminders", func(w http.ResponseWriter, r *http.Request) {
			var in models.Reminder
			_ = json.NewDecoder(r.Body).Decode(&in)
			in.ID = "r2"
			writeJSON(w, http.StatusCreated, in)
		})
		r.Patch("/reminders/{id}", func(w http.ResponseWriter, r *http.Request) {
			var in map[string]bool
			_ = json.NewDecoder(r.Body).Decode(&in)
			writeJSON(w, http.StatusOK, models.Reminder{ID: chi.URLParam(r, "id"), Done: in["done"]})
		})
		r.Delete("/reminders/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})

	items, err := env.client.ListInterviews(t.Context(), from, to)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "from=2026-05-01T00%3A00%3A00Z&to=2026-05-08T00%3A00%3A00Z", <-queries)

	created, err := env.client.CreateInterview(t.Context(), models.Interview{ApplicationID: "app1", Title: "Tech round", ScheduledAt: from})
	require.NoError(t, err)
	assert.Equal(t, "i2", created.ID)

	created.Location = "Quarry Bay"
	updated, err := env.client.UpdateInterview(t.Context(), *created)
	require.NoError(t, err)
	assert.Equal(t, "Quarry Bay", updated.Location)
	require.NoError(t, env.client.DeleteInterview(t.Context(), "i2"))

	reminders, err := env.client.ListReminders(t.Context(), true)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "include_done=true", <-queries)

	rem, err := env.client.CreateReminder(t.Context(), models.Reminder{Title: "Send thank-you note", DueAt: to})
	require.NoError(t, err)
	assert.Equal(t, "r2", rem.ID)

	rem, err = env.client.CompleteReminder(t.Context(), "r2")
	require.NoError(t, err)
	assert.True(t, rem.Done)
	require.NoError(t, env.client.DeleteReminder(t.Context(), "r2"))
}

func TestRESTClient_UploadDocumentReplaysAfterRefresh(t *testing.T) {
	api := newFakeAPI()
	type upload struct {
		kind, name, content string
	}
	uploads := make(chan upload, 1)

	env := newTestEnv(t, api, func(r chi.Router) {
		r.With(api.requireAuth).Post("/documents", func(w http.ResponseWriter, r *http.Request) {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				writeError(w, http.StatusBadRequest, "bad_form", err.Error())
				return
			}
			f, hdr, err := r.FormFile("file")
			if err != nil {
				writeError(w, http.StatusBadRequest, "no_file", err.Error())
				return
			}
			defer f.Close()
			b, _ := io.ReadAll(f)
			uploads <- upload{kind: r.FormValue("kind"), name: hdr.Filename, content: string(b)}
			writeJSON(w, http.StatusCreated, models.Document{ID: "d1", Name: hdr.Filename, Kind: models.DocumentKind(r.FormValue("kind")), Size: int64(len(b))})
		})
	})
	env.withStaleToken(t)

	doc, err := env.client.UploadDocument(t.Context(), "cv.pdf", models.KindResume, strings.NewReader("%PDF-1.7"))
	require.NoError(t, err)
	assert.Equal(t, upload{kind: "resume", name: "cv.pdf", content: "%PDF-1.7"}, <-uploads)
	assert.Equal(t, int64(8), doc.Size)
	assert.EqualValues(t, 1, api.refreshCalls.Load())
}

func TestRESTClient_DocumentsAndProfile(t *testing.T) {
	profile := models.Profile{FullName: "Chan Tai Man", Email: "tm@example.com", Skills: []string{"go", "sql"}}
	env := newTestEnv(t, newFakeAPI(), func(r chi.Router) {
		r.Get("/documents", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, []models.Document{{ID: "d1", Name: "cv.pdf", Kind: models.KindResume}})
		})
		r.Delete("/documents/{id}", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		r.Get("/profile", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, profile)
		})
		r.Put("/profile", func(w http.ResponseWriter, r *http.Request) {
			var in models.Profile
			_ = json.NewDecoder(r.Body).Decode(&in)
			writeJSON(w, http.StatusOK, in)
		})
	})

	docs, err := env.client.ListDocuments(t.Context())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.NoError(t, env.client.DeleteDocument(t.Context(), "d1"))

	got, err := env.client.GetProfile(t.Context())
	require.NoError(t, err)
	if diff := cmp.Diff(profile, *got); diff != "" {
		t.Errorf("GetProfile mismatch (-want +got):\n%s", diff)
	}

	got.Headline = "Senior Go engineer"
	updated, err := env.client.UpdateProfile(t.Context(), *got)
	require.NoError(t, err)
	assert.Equal(t, "Senior Go engineer", updated.Headline)
}

func TestRESTClient_RegisterMeAndLogout(t *testing.T) {
	api := newFakeAPI()
	env := newTestEnv(t, api, func(r chi.Router) {
		r.Post("/auth/register", func(w http.ResponseWriter, r *http.Request) {
			var in models.Registration
			_ = json.NewDecoder(r.Body).Decode(&in)
			api.mu.Lock()
			resp := api.issue()
			api.mu.Unlock()
			resp.User = &models.User{ID: "u2", Name: in.Name, Email: in.Email}
			writeJSON(w, http.StatusCreated, resp)
		})
		r.With(api.requireAuth).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, models.User{ID: "u2", Email: "new@example.com"})
		})
	})

	user, err := env.client.Register(t.Context(), "New User", "new@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "New User", user.Name)
	assert.Equal(t, "A2", env.session.AccessToken())

	me, err := env.client.Me(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "u2", me.ID)

	require.NoError(t, env.client.Logout(t.Context()))
	assert.EqualValues(t, 1, api.logoutCalls.Load())
	assert.Empty(t, env.session.AccessToken())

	stored, err := env.store.Load(t.Context())
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestRESTClient_LoginOverLiveSessionRevokesOldRefreshToken(t *testing.T) {
	api := newFakeAPI()
	env := newTestEnv(t, api, nil)

	var events []session.Event
	env.session.Subscribe(func(ev session.Event) { events = append(events, ev) })

	_, err := env.client.Login(t.Context(), "amy@example.hk", "secret")
	require.NoError(t, err)
	assert.Zero(t, api.logoutCalls.Load())

	_, err = env.client.Login(t.Context(), "bob@example.hk", "secret")
	require.NoError(t, err)
	assert.Equal(t, "A3", env.session.AccessToken())

	api.mu.Lock()
	revoked := append([]string(nil), api.revoked...)
	api.mu.Unlock()
	assert.Equal(t, []string{"R2"}, revoked)

	require.Len(t, events, 1)
	assert.Equal(t, session.ReasonUserChanged, events[0].Reason)
}

func TestRESTClient_LogoutSurvivesServerFailure(t *testing.T) {
	env := newTestEnv(t, newFakeAPI(), nil)
	require.NoError(t, env.session.Set(t.Context(), tokenPair("A1", "R1")))
	env.srv.Close()

	require.NoError(t, env.client.Logout(t.Context()))
	assert.Empty(t, env.session.AccessToken())
}

func TestRESTClient_Ping(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)
	env := newTestEnv(t, newFakeAPI(), func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			if healthy.Load() {
				writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]string{"status": "degraded"})
		})
	})

	require.NoError(t, env.client.Ping(t.Context()))
	healthy.Store(false)
	assert.ErrorIs(t, env.client.Ping(t.Context()), ErrUnavailable)

	env.srv.Close()
	assert.ErrorIs(t, env.client.Ping(t.Context()), ErrUnavailable)
	assert.NoError(t, env.client.Close())
}
