package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"job-tracker-backend/config"
	"job-tracker-backend/internal/domain"
	"job-tracker-backend/internal/repository/sqlite"
	"job-tracker-backend/internal/usecase"
	"job-tracker-backend/pkg/database"
	"job-tracker-backend/pkg/security"
	"job-tracker-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testAPIKey = "test-api-key"

func init() {
	gin.SetMode(gin.TestMode)
	security.SetDefault(security.NewSecurityLogger(zap.NewNop(), "test", "test"))
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	RequestID string          `json:"request_id"`
}

func testConfig() *config.Config {
	return &config.Config{
		APIKey:      testAPIKey,
		FrontendURL: "http://localhost:8501",
		Environment: "test",
		StoreDriver: config.StoreSQLite,
	}
}

func newSQLiteRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db, err := database.NewSQLiteConnection(":memory:")
	require.NoError(t, err)
	require.NoError(t, sqlite.Migrate(db))
	t.Cleanup(func() { _ = database.CloseGorm(db) })

	gateway := sqlite.NewApplicationRepository(db)
	return NewRouter(RouterDeps{
		ApplicationUC: usecase.NewApplicationUsecase(gateway, validation.New()),
		HealthUC:      usecase.NewHealthUsecase(config.StoreSQLite, gateway),
		Config:        testConfig(),
	})
}

func call(t *testing.T, r http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+testAPIKey)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestApplicationLifecycle(t *testing.T) {
	r := newSQLiteRouter(t)

	// create
	w, env := call(t, r, http.MethodPost, "/application/", `{"user_id":"u1","company_name":"Acme","status":"applied","applied_date":"2025-01-01"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[domain.Application](t, env.Data)
	require.NotEmpty(t, created.ApplicationID)
	assert.Equal(t, domain.StatusApplied, *created.Status)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, "2025-01-01", created.AppliedDate.String())

	// list by user
	w, env = call(t, r, http.MethodGet, "/application/user/u1", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]domain.Application](t, env.Data)
	require.Len(t, list, 1)
	assert.Equal(t, created.ApplicationID, list[0].ApplicationID)
	assert.Equal(t, "2025-01-01", list[0].AppliedDate.String())

	// merge-patch update
	w, env = call(t, r, http.MethodPut, "/application/"+created.ApplicationID, `{"user_id":"u1","status":"interviewing"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[domain.Application](t, env.Data)
	assert.Equal(t, domain.StatusInterviewing, *updated.Status)
	assert.Equal(t, "Acme", *updated.CompanyName)
	assert.Equal(t, "2025-01-01", updated.AppliedDate.String())
	assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

	// delete, then the record is gone
	w, _ = call(t, r, http.MethodDelete, "/application/"+created.ApplicationID, "")
	require.Equal(t, http.StatusOK, w.Code)

	w, env = call(t, r, http.MethodGet, "/application/"+created.ApplicationID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Application not found", env.Message)
}

func TestCreateUniqueIDs(t *testing.T) {
	r := newSQLiteRouter(t)

	seen := map[string]bool{}
	for _, status := range append([]string{""}, "interested", "applied", "interviewing", "offer", "rejected", "accepted") {
		body := `{"user_id":"u1"}`
		if status != "" {
			body = `{"user_id":"u1","status":"` + status + `"}`
		}
		w, env := call(t, r, http.MethodPost, "/application/", body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		app := decode[domain.Application](t, env.Data)
		assert.False(t, seen[app.ApplicationID])
		seen[app.ApplicationID] = true
	}

	w, env := call(t, r, http.MethodGet, "/application/all", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.Application](t, env.Data), 7)
}

func TestValidationFailuresCreateNothing(t *testing.T) {
	r := newSQLiteRouter(t)

	tests := []struct {
		name   string
		method string
		body   string
	}{
		{"unknown status", http.MethodPost, `{"user_id":"u1","status":"ghosted"}`},
		{"status wrong case", http.MethodPost, `{"user_id":"u1","status":"Applied"}`},
		{"missing user", http.MethodPost, `{"company_name":"Acme"}`},
		{"blank user", http.MethodPost, `{"user_id":"  "}`},
		{"bad date", http.MethodPost, `{"user_id":"u1","applied_date":"01/02/2025"}`},
		{"status not a string", http.MethodPost, `{"user_id":"u1","status":3}`},
		{"malformed", http.MethodPost, `{"user_id":`},
		{"empty body", http.MethodPost, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := call(t, r, tt.method, "/application/", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Message)
		})
	}

	_, env := call(t, r, http.MethodGet, "/application/all", "")
	assert.Empty(t, decode[[]domain.Application](t, env.Data))
}

func TestUpdateRejections(t *testing.T) {
	r := newSQLiteRouter(t)
	_, env := call(t, r, http.MethodPost, "/application/", `{"user_id":"u1","company_name":"Acme","status":"offer"}`)
	app := decode[domain.Application](t, env.Data)

	w, _ := call(t, r, http.MethodPut, "/application/"+app.ApplicationID, `{"status":"maybe"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = call(t, r, http.MethodPut, "/application/"+app.ApplicationID, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = call(t, r, http.MethodPut, "/application/00000000-0000-4000-8000-000000000000", `{"notes":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	_, env = call(t, r, http.MethodGet, "/application/"+app.ApplicationID, "")
	stored := decode[domain.Application](t, env.Data)
	assert.Equal(t, domain.StatusOffer, *stored.Status)
}

func TestDeletePolicies(t *testing.T) {
	r := newSQLiteRouter(t)
	missing := "00000000-0000-4000-8000-000000000000"

	for i := 0; i < 2; i++ {
		w, _ := call(t, r, http.MethodDelete, "/application/"+missing, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	}

	call(t, r, http.MethodPost, "/application/", `{"user_id":"keeper"}`)

	w, env := call(t, r, http.MethodDelete, "/application/user/nobody", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, DeleteUserResult{Deleted: 0}, decode[DeleteUserResult](t, env.Data))

	_, env = call(t, r, http.MethodGet, "/application/all", "")
	assert.Len(t, decode[[]domain.Application](t, env.Data), 1)

	w, env = call(t, r, http.MethodDelete, "/application/user/keeper", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, decode[DeleteUserResult](t, env.Data).Deleted)
}

func TestListByUserEmpty(t *testing.T) {
	r := newSQLiteRouter(t)
	w, env := call(t, r, http.MethodGet, "/application/user/nobody", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestPublicRoutes(t *testing.T) {
	r := newSQLiteRouter(t)

	for _, path := range []string{"/", "/health", "/version"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), "Welcome to Job Tracker API")

	req = httptest.NewRequest(http.MethodGet, "/version", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"version":"1.0.0"`)

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	assert.Contains(t, w.Body.String(), `"store":"sqlite"`)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "job_tracker_http_requests_total")
}

// strictGateway fails the test on any call.
type strictGateway struct {
	mock.Mock
}

func (g *strictGateway) Select(ctx context.Context, f domain.Filter) ([]domain.Application, error) {
	args := g.Called(ctx, f)
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (g *strictGateway) Insert(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	args := g.Called(ctx, app)
	return args.Get(0).(*domain.Application), args.Error(1)
}

func (g *strictGateway) Update(ctx context.Context, f domain.Filter, p domain.ApplicationPatch) ([]domain.Application, error) {
	args := g.Called(ctx, f, p)
	return args.Get(0).([]domain.Application), args.Error(1)
}

func (g *strictGateway) Delete(ctx context.Context, f domain.Filter) ([]domain.Application, error) {
	args := g.Called(ctx, f)
	return args.Get(0).([]domain.Application), args.Error(1)
}

func TestProtectedRoutesRequireKey(t *testing.T) {
	routes := []struct{ method, path, body string }{
		{http.MethodGet, "/application/all", ""},
		{http.MethodGet, "/application/8f14e45f-ceea-4e7a-9d2b-1c2a3b4c5d6e", ""},
		{http.MethodGet, "/application/user/u1", ""},
		{http.MethodPost, "/application/", `{"user_id":"u1"}`},
		{http.MethodPut, "/application/8f14e45f-ceea-4e7a-9d2b-1c2a3b4c5d6e", `{"status":"offer"}`},
		{http.MethodDelete, "/application/8f14e45f-ceea-4e7a-9d2b-1c2a3b4c5d6e", ""},
		{http.MethodDelete, "/application/user/u1", ""},
	}
	headers := map[string]string{
		"missing": "",
		"wrong":   "Bearer not-the-key",
		"basic":   "Basic " + testAPIKey,
	}

	for name, header := range headers {
		for _, rt := range routes {
			t.Run(name+" "+rt.method+" "+rt.path, func(t *testing.T) {
				gw := &strictGateway{}
				r := NewRouter(RouterDeps{
					ApplicationUC: usecase.NewApplicationUsecase(gw, validation.New()),
					HealthUC:      usecase.NewHealthUsecase("mock", gw),
					Config:        testConfig(),
				})

				req := httptest.NewRequest(rt.method, rt.path, strings.NewReader(rt.body))
				req.Header.Set("Content-Type", "application/json")
				if header != "" {
					req.Header.Set("Authorization", header)
				}
				w := httptest.NewRecorder()
				r.ServeHTTP(w, req)

				assert.Equal(t, http.StatusUnauthorized, w.Code)
				gw.AssertNotCalled(t, "Select", mock.Anything, mock.Anything)
				gw.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
				gw.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
				gw.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			})
		}
	}
}

func TestMissingAPIKeyConfig(t *testing.T) {
	gw := &strictGateway{}
	cfg := testConfig()
	cfg.APIKey = ""
	r := NewRouter(RouterDeps{
		ApplicationUC: usecase.NewApplicationUsecase(gw, nil),
		HealthUC:      usecase.NewHealthUsecase("mock", gw),
		Config:        cfg,
	})

	req := httptest.NewRequest(http.MethodGet, "/application/all", nil)
	req.Header.Set("Authorization", "Bearer anything")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Len(t, gw.Calls, 0)
}
