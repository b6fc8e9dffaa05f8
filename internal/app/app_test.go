package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmdash/internal/config"
	"crmdash/internal/middleware"
	"crmdash/internal/models"
	"crmdash/internal/recordstore"
	"crmdash/internal/services"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.APIProjectID = "proj"
	cfg.Server.APIPublicKey = "key"
	cfg.Store.Seed = true
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTTL = 15 * time.Minute
	cfg.Auth.AdminEmail = "admin@example.com"
	cfg.Auth.AdminPassword = "admin-pass"
	cfg.Files.RootDir = t.TempDir()
	return cfg
}

type client struct {
	t     *testing.T
	h     http.Handler
	token string
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func newClient(t *testing.T) (*App, *client) {
	t.Helper()
	a := NewWithStore(testConfig(t), recordstore.NewMemory(), nil)
	require.NoError(t, a.Bootstrap(context.Background()))
	c := &client{t: t, h: a.Router()}

	w := c.do(http.MethodPost, "/login", models.LoginRequest{Email: "admin@example.com", Password: "admin-pass"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	c.token = decode[services.LoginResult](t, w).AccessToken
	require.NotEmpty(t, c.token)
	return a, c
}

func TestLoginAndAuth(t *testing.T) {
	a := NewWithStore(testConfig(t), recordstore.NewMemory(), nil)
	require.NoError(t, a.Bootstrap(context.Background()))
	c := &client{t: t, h: a.Router()}

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/healthz", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/contacts", nil).Code)

	w := c.do(http.MethodPost, "/login", models.LoginRequest{Email: "admin@example.com", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), `"error"`)

	w = c.do(http.MethodPost, "/login", map[string]string{"email": "admin@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContactsFlow(t *testing.T) {
	_, c := newClient(t)

	w := c.do(http.MethodGet, "/contacts?q=acme", nil)
	require.Equal(t, http.StatusOK, w.Code)
	found := decode[[]models.Contact](t, w)
	require.Len(t, found, 1)
	assert.Equal(t, "John", found[0].FirstName)
	assert.Equal(t, "1", w.Header().Get("X-Total-Count"))

	w = c.do(http.MethodPost, "/contacts", map[string]any{"firstName": "Ann", "lastName": "Lee", "email": "ann@lee.dev"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Contact](t, w)

	w = c.do(http.MethodPost, "/contacts", map[string]any{"firstName": "Ann"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodGet, "/contacts?page=2&size=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Contact](t, w), 2)
	assert.Equal(t, "4", w.Header().Get("X-Total-Count"))

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/contacts/"+created.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodGet, "/contacts/"+created.ID, nil).Code)
}

func TestPipelineMoveFlow(t *testing.T) {
	a, c := newClient(t)

	w := c.do(http.MethodGet, "/pipeline", nil)
	require.Equal(t, http.StatusOK, w.Code)
	board := decode[[]models.StageColumn](t, w)
	require.Len(t, board, 6)
	assert.Equal(t, 1, board[2].Count) // proposal
	assert.Equal(t, 85000.0, board[2].TotalValue)

	deals, _, err := a.Deals.List(context.Background(), services.ListOptions{Search: "TechFlow"})
	require.NoError(t, err)
	require.Len(t, deals, 1)
	id := deals[0].ID

	w = c.do(http.MethodPost, "/deals/"+id+"/stage", map[string]string{"stage": "closed-won"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[struct {
		Deal    models.Deal `json:"deal"`
		Moved   bool        `json:"moved"`
		Message string      `json:"message"`
	}](t, w)
	assert.True(t, res.Moved)
	assert.Equal(t, "Deal moved to Closed Won", res.Message)
	assert.Equal(t, models.StageClosedWon, res.Deal.Stage)
	assert.Equal(t, 120000.0, res.Deal.Value)

	w = c.do(http.MethodPost, "/deals/"+id+"/stage", map[string]string{"stage": "closed-won"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"moved":false`)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/deals/"+id+"/stage", map[string]string{"stage": "won"}).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodPost, "/deals/999/stage", map[string]string{"stage": "lead"}).Code)

	w = c.do(http.MethodGet, "/pipeline/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sum := decode[models.PipelineSummary](t, w)
	assert.Equal(t, 405000.0, sum.TotalValue)
	assert.Equal(t, 75, sum.AverageProbability)
}

func TestActivitiesAndDashboard(t *testing.T) {
	_, c := newClient(t)

	w := c.do(http.MethodGet, "/activities?filter=completed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	done := decode[[]models.Activity](t, w)
	require.Len(t, done, 1)

	w = c.do(http.MethodPost, "/activities/"+done[0].ID+"/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[models.Activity](t, w).Completed)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/activities?filter=soon", nil).Code)

	w = c.do(http.MethodGet, "/activities/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, decode[models.ActivityStats](t, w).Pending)

	w = c.do(http.MethodPost, "/activities", map[string]any{"title": "Call back", "dueDate": "2030-01-01"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, models.ActivityTask, decode[models.Activity](t, w).Type)

	w = c.do(http.MethodPost, "/activities", map[string]any{"title": "x", "dueDate": "tomorrow"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodPost, "/activities/digest", map[string]string{"to": "boss@example.com"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = c.do(http.MethodGet, "/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	m := decode[models.DashboardMetrics](t, w)
	assert.Equal(t, 3, m.TotalContacts)
	assert.Equal(t, 3, m.ActiveDeals)
	assert.Equal(t, 405000.0, m.PipelineValue)
	assert.Len(t, m.RecentActivities, 4)
	for _, ra := range m.RecentActivities {
		assert.NotEmpty(t, ra.ContactName)
	}
}

func TestReportsMetaAndRecords(t *testing.T) {
	_, c := newClient(t)

	w := c.do(http.MethodGet, "/reports/pipeline.pdf", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))

	w = c.do(http.MethodGet, "/meta", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Closed Won"`)
	assert.Contains(t, w.Body.String(), `"Phone Call"`)

	w = c.do(http.MethodPost, "/api/records/contact/query", recordstore.Query{
		Where: []recordstore.Condition{{Field: "company", Operator: recordstore.OpEqualTo, Values: []any{"Innovate Co"}}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	fetched := decode[recordstore.FetchResponse](t, w)
	require.Equal(t, 1, fetched.Total)
	assert.Equal(t, "Michael", fetched.Data[0].String("first_name"))
}

func TestRemoteAgainstRecordAPI(t *testing.T) {
	a := NewWithStore(testConfig(t), recordstore.NewMemory(), nil)
	require.NoError(t, a.Bootstrap(context.Background()))
	srv := httptest.NewServer(a.Router())
	defer srv.Close()

	remote, err := recordstore.NewRemote(recordstore.RemoteConfig{
		BaseURL:   srv.URL + "/api/records",
		ProjectID: "proj",
		PublicKey: "key",
	}, nil)
	require.NoError(t, err)
	defer remote.Close()

	// второй экземпляр поверх первого
	b := NewWithStore(testConfig(t), remote, nil)
	contacts, total, err := b.Contacts.List(context.Background(), services.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, contacts, 3)

	missing, err := remote.GetRecordByID(context.Background(), "contact", "999", nil)
	require.NoError(t, err)
	assert.Nil(t, missing)

	bad, err := recordstore.NewRemote(recordstore.RemoteConfig{BaseURL: srv.URL + "/api/records", ProjectID: "proj", PublicKey: "wrong"}, nil)
	require.NoError(t, err)
	_, err = bad.FetchRecords(context.Background(), "contact", recordstore.Query{})
	var apiErr *recordstore.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestAuditRoleIsReadOnly(t *testing.T) {
	a, c := newClient(t)
	_, err := a.Auth.CreateUser(context.Background(), "audit@example.com", "pw", 30)
	require.NoError(t, err)

	w := c.do(http.MethodPost, "/login", models.LoginRequest{Email: "audit@example.com", Password: "pw"})
	require.Equal(t, http.StatusOK, w.Code)
	c.token = decode[services.LoginResult](t, w).AccessToken

	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/contacts", nil).Code)
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodPost, "/contacts", map[string]any{"firstName": "A"}).Code)
	assert.Equal(t, http.StatusForbidden, c.do(http.MethodPost, "/api/records/contact/query", recordstore.Query{}).Code)
}

func TestEmptySecretRejectsWellKnownKeys(t *testing.T) {
	cfg := testConfig(t)
	cfg.Auth.JWTSecret = ""
	a := NewWithStore(cfg, recordstore.NewMemory(), nil)
	require.NoError(t, a.Bootstrap(context.Background()))
	c := &client{t: t, h: a.Router()}

	for _, key := range []string{"change-me", "secret", "test-secret-other"} {
		forged, _, err := middleware.NewJWT(key, time.Hour).Issue("999", 50)
		require.NoError(t, err)
		c.token = forged
		assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodGet, "/contacts", nil).Code, "key %q", key)
		assert.Equal(t, http.StatusUnauthorized, c.do(http.MethodPost, "/api/records/user/query", recordstore.Query{}).Code, "key %q", key)
	}

	// свои токены по-прежнему работают
	c.token = ""
	w := c.do(http.MethodPost, "/login", models.LoginRequest{Email: "admin@example.com", Password: "admin-pass"})
	require.Equal(t, http.StatusOK, w.Code)
	c.token = decode[services.LoginResult](t, w).AccessToken
	assert.Equal(t, http.StatusOK, c.do(http.MethodGet, "/contacts", nil).Code)
}

func TestActivitiesListPaging(t *testing.T) {
	_, c := newClient(t)

	w := c.do(http.MethodGet, "/activities?page=2&size=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3", w.Header().Get("X-Total-Count"))
	got := decode[[]models.Activity](t, w)
	require.Len(t, got, 1)
	assert.Equal(t, "Follow-up Email to Michael", got[0].Title)

	w = c.do(http.MethodGet, "/activities?filter=pending&size=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-Total-Count"))
	assert.Len(t, decode[[]models.Activity](t, w), 1)
}
