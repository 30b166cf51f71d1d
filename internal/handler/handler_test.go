package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"missioncontrol/internal/model"
	"missioncontrol/internal/repository"
	"missioncontrol/internal/service/clientauth"
	"missioncontrol/internal/service/dashboard"
	"missioncontrol/internal/summary"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const projectID = "6f1c2b8e-4a73-4c1e-9d2a-0b5e7f3a9c11"

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeProjects struct {
	createErr  error
	created    *model.CreateProjectRequest
	createHash *string
	client     *model.ClientProject
	clientErr  error
}

func (f *fakeProjects) Create(ctx context.Context, req model.CreateProjectRequest, passwordHash *string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = &req
	f.createHash = passwordHash
	return projectID, nil
}

func (f *fakeProjects) GetByID(ctx context.Context, id string) (*model.Project, error) {
	return nil, repository.ErrNotFound
}

func (f *fakeProjects) GetClientProject(ctx context.Context, slug string) (*model.ClientProject, error) {
	return f.client, f.clientErr
}

func (f *fakeProjects) List(ctx context.Context) ([]model.ProjectSummary, error) { return nil, nil }

func (f *fakeProjects) Update(ctx context.Context, req model.UpdateProjectRequest) (*model.Project, error) {
	return nil, nil
}

func (f *fakeProjects) Delete(ctx context.Context, id string) error { return nil }

type fakeTasks struct {
	patched bool
}

func (f *fakeTasks) Create(ctx context.Context, req model.CreateTaskRequest) (*model.Task, error) {
	return &model.Task{ID: "t1", Title: req.Title, Status: model.TaskBacklog}, nil
}

func (f *fakeTasks) Patch(ctx context.Context, id string, p model.TaskPatch) (*model.Task, error) {
	f.patched = true
	t := &model.Task{ID: id, Status: model.TaskBacklog}
	if p.Status != nil {
		t.Status = *p.Status
	}
	return t, nil
}

func (f *fakeTasks) Delete(ctx context.Context, id string) error { return nil }

type authFunc func(ctx context.Context, slug, password string) (string, error)

func (f authFunc) Login(ctx context.Context, slug, password string) (string, error) {
	return f(ctx, slug, password)
}

type dashboardFunc func(ctx context.Context, slug, session string) (*dashboard.Payload, error)

func (f dashboardFunc) ClientDashboard(ctx context.Context, slug, session string) (*dashboard.Payload, error) {
	return f(ctx, slug, session)
}

type summaryFunc func(ctx context.Context, projectID string) (*summary.Result, error)

func (f summaryFunc) Get(ctx context.Context, projectID string) (*summary.Result, error) {
	return f(ctx, projectID)
}

func do(r *gin.Engine, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			_ = json.NewEncoder(&buf).Encode(b)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorBody(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["error"].(string)
	return msg
}

// withSession mimics the router's ClientSession middleware.
func withSession(c *gin.Context) {
	if v, err := c.Cookie(SessionCookie); err == nil {
		SetSessionProject(c, v)
	}
	c.Next()
}

func TestProjectCreate_SlugTaken(t *testing.T) {
	store := &fakeProjects{createErr: repository.ErrSlugTaken}
	r := gin.New()
	r.POST("/api/projects", NewProjectHandler(store, zap.NewNop()).Create)

	w := do(r, http.MethodPost, "/api/projects", map[string]string{
		"name": "Site", "client_name": "Acme", "client_slug": "acme",
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, slugTakenMessage, errorBody(t, w))
	assert.Nil(t, store.created)
}

func TestProjectCreate_NormalizesAndHashes(t *testing.T) {
	store := &fakeProjects{}
	r := gin.New()
	r.POST("/api/projects", NewProjectHandler(store, zap.NewNop()).Create)

	w := do(r, http.MethodPost, "/api/projects", map[string]string{
		"name": "  Site ", "client_slug": " ACME ", "client_password": "secret",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, store.created)
	assert.Equal(t, "Site", store.created.Name)
	assert.Equal(t, "acme", store.created.ClientSlug)
	assert.Empty(t, store.created.ClientPassword)
	require.NotNil(t, store.createHash)
	assert.NotEqual(t, "secret", *store.createHash)
}

func TestProjectCreate_MissingFields(t *testing.T) {
	r := gin.New()
	r.POST("/api/projects", NewProjectHandler(&fakeProjects{}, zap.NewNop()).Create)

	w := do(r, http.MethodPost, "/api/projects", map[string]string{"client_slug": "acme"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/projects", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request", errorBody(t, w))
}

func TestTaskPatch(t *testing.T) {
	tasks := &fakeTasks{}
	r := gin.New()
	r.PATCH("/api/tasks/:id", NewTaskHandler(tasks, zap.NewNop()).Patch)
	path := "/api/tasks/" + projectID

	tests := []struct {
		name string
		body any
		code int
		msg  string
	}{
		{"invalid json", "{", http.StatusBadRequest, "Invalid JSON body"},
		{"no fields", map[string]any{"title": "x"}, http.StatusBadRequest, "No valid fields to update"},
		{"bad status", map[string]any{"status": "shipped"}, http.StatusBadRequest, ""},
		{"unknown qa key", map[string]any{"qa_checks": map[string]bool{"vibes": true}}, http.StatusBadRequest, ""},
		{"ok", map[string]any{"status": "in_qa"}, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks.patched = false
			w := do(r, http.MethodPatch, path, tt.body)
			assert.Equal(t, tt.code, w.Code)
			if tt.msg != "" {
				assert.Equal(t, tt.msg, errorBody(t, w))
			}
			assert.Equal(t, tt.code == http.StatusOK, tasks.patched)
		})
	}
}

func TestTaskPatch_BadID(t *testing.T) {
	r := gin.New()
	r.PATCH("/api/tasks/:id", NewTaskHandler(&fakeTasks{}, zap.NewNop()).Patch)

	w := do(r, http.MethodPatch, "/api/tasks/nope", map[string]any{"status": "in_qa"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func newClientAuthRouter(auth Authenticator, dash DashboardBuilder, projects ProjectStore) *gin.Engine {
	h := NewClientAuthHandler(auth, dash, projects, false, zap.NewNop())
	r := gin.New()
	r.Use(withSession)
	r.POST("/api/client/auth", h.Login)
	r.DELETE("/api/client/auth", h.Logout)
	r.GET("/client/:slug", h.LoginPage)
	r.GET("/client/:slug/dashboard", h.DashboardPage)
	r.GET("/api/client/:slug", h.Dashboard)
	return r
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == SessionCookie {
			return ck
		}
	}
	return nil
}

func TestClientLogin(t *testing.T) {
	auth := authFunc(func(ctx context.Context, slug, password string) (string, error) {
		if password == "right" {
			return projectID, nil
		}
		return "", clientauth.ErrInvalidCredentials
	})
	r := newClientAuthRouter(auth, nil, &fakeProjects{})

	t.Run("success sets cookie", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/client/auth", map[string]string{"slug": "acme", "password": "right"})
		require.Equal(t, http.StatusOK, w.Code)

		ck := sessionCookie(w)
		require.NotNil(t, ck)
		assert.Equal(t, projectID, ck.Value)
		assert.Equal(t, sessionMaxAge, ck.MaxAge)
		assert.True(t, ck.HttpOnly)
		assert.Equal(t, "/", ck.Path)
		assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, true, body["success"])
		assert.Equal(t, projectID, body["projectId"])
	})

	t.Run("wrong password", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/client/auth", map[string]string{"slug": "acme", "password": "bad"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid password", errorBody(t, w))
		assert.Nil(t, sessionCookie(w))
	})

	t.Run("missing fields", func(t *testing.T) {
		w := do(r, http.MethodPost, "/api/client/auth", map[string]string{"slug": "acme"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestClientLogout(t *testing.T) {
	r := newClientAuthRouter(nil, nil, &fakeProjects{})
	w := do(r, http.MethodDelete, "/api/client/auth", nil)

	require.Equal(t, http.StatusOK, w.Code)
	ck := sessionCookie(w)
	require.NotNil(t, ck)
	assert.Empty(t, ck.Value)
	assert.Less(t, ck.MaxAge, 0)
}

func TestLoginPage(t *testing.T) {
	projects := &fakeProjects{clientErr: repository.ErrNotFound}
	r := newClientAuthRouter(nil, nil, projects)

	w := do(r, http.MethodGet, "/client/acme", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"project_name":"Project"`)

	projects.client, projects.clientErr = &model.ClientProject{ID: projectID, Name: "Website"}, nil
	w = do(r, http.MethodGet, "/client/acme", nil)
	assert.Contains(t, w.Body.String(), `"project_name":"Website"`)

	w = do(r, http.MethodGet, "/client/acme", nil, &http.Cookie{Name: SessionCookie, Value: projectID})
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/client/acme/dashboard", w.Header().Get("Location"))
}

func TestDashboardPage_Redirects(t *testing.T) {
	dash := dashboardFunc(func(ctx context.Context, slug, session string) (*dashboard.Payload, error) {
		if session != projectID {
			return nil, dashboard.ErrSessionMismatch
		}
		if slug != "acme" {
			return nil, repository.ErrNotFound
		}
		return &dashboard.Payload{}, nil
	})
	r := newClientAuthRouter(nil, dash, &fakeProjects{})
	session := &http.Cookie{Name: SessionCookie, Value: projectID}

	w := do(r, http.MethodGet, "/client/acme/dashboard", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/client/acme", w.Header().Get("Location"))

	w = do(r, http.MethodGet, "/client/other/dashboard", nil, session)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/client/other", w.Header().Get("Location"))

	w = do(r, http.MethodGet, "/client/acme/dashboard", nil, session)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClientDashboardAPI(t *testing.T) {
	dash := dashboardFunc(func(ctx context.Context, slug, session string) (*dashboard.Payload, error) {
		switch {
		case slug == "gone":
			return nil, repository.ErrNotFound
		case session != projectID:
			return nil, dashboard.ErrSessionMismatch
		case slug == "broken":
			return nil, errors.New("connection refused")
		}
		return &dashboard.Payload{}, nil
	})
	r := newClientAuthRouter(nil, dash, &fakeProjects{})
	session := &http.Cookie{Name: SessionCookie, Value: projectID}

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/client/acme", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/client/gone", nil, session).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/client/acme", nil,
		&http.Cookie{Name: SessionCookie, Value: "0b5e7f3a-9c11-4c1e-9d2a-6f1c2b8e4a73"}).Code)
	assert.Equal(t, http.StatusInternalServerError, do(r, http.MethodGet, "/api/client/broken", nil, session).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/client/acme", nil, session).Code)
}

func TestSummaryAccess(t *testing.T) {
	calls := 0
	summaries := summaryFunc(func(ctx context.Context, id string) (*summary.Result, error) {
		calls++
		if id != projectID {
			return nil, repository.ErrNotFound
		}
		text := "On track."
		return &summary.Result{Summary: &text, Status: summary.StatusGenerated}, nil
	})
	h := NewSummaryHandler(summaries, zap.NewNop())

	asAdmin := func(c *gin.Context) {
		if c.GetHeader("X-Admin") != "" {
			SetAdmin(c, AdminUser{ID: "u1"})
		}
		c.Next()
	}
	r := gin.New()
	r.Use(withSession, asAdmin)
	r.GET("/api/summary/:projectId", h.Get)

	w := do(r, http.MethodGet, "/api/summary/"+projectID, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 0, calls)

	w = do(r, http.MethodGet, "/api/summary/"+projectID, nil, &http.Cookie{Name: SessionCookie, Value: projectID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "On track.")

	other := "0b5e7f3a-9c11-4c1e-9d2a-6f1c2b8e4a73"
	req := httptest.NewRequest(http.MethodGet, "/api/summary/"+other, nil)
	req.Header.Set("X-Admin", "1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Project not found", errorBody(t, rec))
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{model.Invalid("title", "is required"), http.StatusBadRequest},
		{clientauth.ErrInvalidCredentials, http.StatusUnauthorized},
		{dashboard.ErrSessionMismatch, http.StatusUnauthorized},
		{repository.ErrSlugTaken, http.StatusConflict},
		{repository.ErrNotFound, http.StatusNotFound},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		writeError(c, zap.NewNop(), tt.err)
		assert.Equal(t, tt.code, w.Code, tt.err.Error())
	}
}

const otherProjectID = "0b5e7f3a-9c11-4c1e-9d2a-6f1c2b8e4a73"

// follow replays redirects the way a browser would, carrying the cookie jar forward.
func follow(t *testing.T, r *gin.Engine, path string, session *http.Cookie) (*httptest.ResponseRecorder, int) {
	t.Helper()
	for hops := 0; hops < 5; hops++ {
		var w *httptest.ResponseRecorder
		if session != nil {
			w = do(r, http.MethodGet, path, nil, session)
		} else {
			w = do(r, http.MethodGet, path, nil)
		}
		if ck := sessionCookie(w); ck != nil && ck.MaxAge < 0 {
			session = nil
		}
		if w.Code != http.StatusFound {
			return w, hops
		}
		path = w.Header().Get("Location")
	}
	t.Fatalf("redirect loop ending at %s", path)
	return nil, 0
}

func TestClientPages_ForeignSessionReachesLogin(t *testing.T) {
	dash := dashboardFunc(func(ctx context.Context, slug, session string) (*dashboard.Payload, error) {
		if session != otherProjectID {
			return nil, dashboard.ErrSessionMismatch
		}
		return &dashboard.Payload{}, nil
	})
	projects := &fakeProjects{client: &model.ClientProject{ID: otherProjectID, Name: "Other"}}
	r := newClientAuthRouter(nil, dash, projects)

	// session belongs to a different project
	w, _ := follow(t, r, "/client/other", &http.Cookie{Name: SessionCookie, Value: projectID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"project_name":"Other"`)
	ck := sessionCookie(w)
	require.NotNil(t, ck)
	assert.Less(t, ck.MaxAge, 0)

	// the owner of the slug still goes straight through
	w, hops := follow(t, r, "/client/other", &http.Cookie{Name: SessionCookie, Value: otherProjectID})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, hops)

	// session for a project that no longer exists
	projects.client, projects.clientErr = nil, repository.ErrNotFound
	w, _ = follow(t, r, "/client/gone/dashboard", &http.Cookie{Name: SessionCookie, Value: projectID})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"project_name":"Project"`)
}

func TestLogoutCookieMatchesLogin(t *testing.T) {
	auth := authFunc(func(ctx context.Context, slug, password string) (string, error) { return projectID, nil })
	h := NewClientAuthHandler(auth, nil, &fakeProjects{}, true, zap.NewNop())
	r := gin.New()
	r.POST("/api/client/auth", h.Login)
	r.DELETE("/api/client/auth", h.Logout)

	in := sessionCookie(do(r, http.MethodPost, "/api/client/auth", map[string]string{"slug": "acme", "password": "pw"}))
	out := sessionCookie(do(r, http.MethodDelete, "/api/client/auth", nil))
	require.NotNil(t, in)
	require.NotNil(t, out)

	assert.Less(t, out.MaxAge, 0)
	assert.Empty(t, out.Value)
	for _, ck := range []*http.Cookie{in, out} {
		assert.True(t, ck.HttpOnly)
		assert.True(t, ck.Secure)
		assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
		assert.Equal(t, "/", ck.Path)
	}
}

type fakeBlockers struct {
	createErr error
}

func (f *fakeBlockers) Create(ctx context.Context, projectID, title string, waitingOn model.WaitingOn) (*model.Blocker, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &model.Blocker{ID: "b1", ProjectID: projectID, Title: title, WaitingOn: waitingOn, Status: model.BlockerOpen}, nil
}

func (f *fakeBlockers) SetStatus(ctx context.Context, id string, status model.BlockerStatus) (*model.Blocker, error) {
	return nil, nil
}

func (f *fakeBlockers) ListByProject(ctx context.Context, projectID string, status *model.BlockerStatus) ([]model.Blocker, error) {
	return nil, nil
}

func TestCreateUnderMissingProject(t *testing.T) {
	missing := fmt.Errorf("create blocker: %w: %w", repository.ErrNotFound,
		&pgconn.PgError{Code: "23503", Message: "violates foreign key constraint"})
	r := gin.New()
	r.POST("/api/blockers", NewBlockerHandler(&fakeBlockers{createErr: missing}, zap.NewNop()).Create)

	w := do(r, http.MethodPost, "/api/blockers", map[string]string{
		"project_id": projectID, "title": "Need DNS access", "waiting_on": "client",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Not found", errorBody(t, w))
}

type moduleMismatchTasks struct{ fakeTasks }

func (f *moduleMismatchTasks) Create(ctx context.Context, req model.CreateTaskRequest) (*model.Task, error) {
	return nil, fmt.Errorf("create task: %w", repository.ErrNotFound)
}

func TestTaskCreate_ModuleOutsideProject(t *testing.T) {
	r := gin.New()
	r.POST("/api/tasks", NewTaskHandler(&moduleMismatchTasks{}, zap.NewNop()).Create)

	w := do(r, http.MethodPost, "/api/tasks", map[string]string{
		"moduleId": otherProjectID, "projectId": projectID, "title": "Hero section",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
