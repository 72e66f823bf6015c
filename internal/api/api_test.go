package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/homelab/restkit/internal/datastore"
	"github.com/jbweber/homelab/restkit/internal/metrics"
	"github.com/jbweber/homelab/restkit/internal/testutil"
)

func setupTestAPI(t *testing.T, ds *datastore.Datastore, m *metrics.Metrics) http.Handler {
	t.Helper()
	a := New(Options{
		Datastore: ds,
		Logger:    zerolog.New(zerolog.NewTestWriter(t)),
		Metrics:   m,
	})
	t.Cleanup(func() { _ = a.Close() })
	return a.Handler()
}

func request(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRoot(t *testing.T) {
	h := setupTestAPI(t, nil, nil)

	w := request(h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "running")
}

func TestHealth_Memory(t *testing.T) {
	h := setupTestAPI(t, nil, nil)

	w := request(h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "memory", resp.Datastore)
}

func TestHealth_DatastoreDown(t *testing.T) {
	ds, cleanup := testutil.SetupTestDBWithMigrations(t, "TestHealth_DatastoreDown")
	h := setupTestAPI(t, ds, nil)
	cleanup()

	w := request(h, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unavailable", resp.Status)
	assert.Equal(t, "sqlite", resp.Datastore)
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	h := setupTestAPI(t, nil, m)

	request(h, http.MethodPost, "/api/v0/clubs/", `{"name":"Rovers","town":"Leeds"}`)

	w := request(h, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `restkit_resource_operations_total{operation="create",outcome="success",resource="clubs"} 1`)
	assert.Contains(t, w.Body.String(), `restkit_http_requests_total{method="POST",route="/api/v0/clubs",status="200"} 1`)
}

func TestMetricsEndpoint_Disabled(t *testing.T) {
	h := setupTestAPI(t, nil, nil)

	w := request(h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// TestScenario_SQLite walks a non-removable resource through its lifecycle against SQLite
func TestScenario_SQLite(t *testing.T) {
	ds, cleanup := testutil.SetupTestDBWithMigrations(t, "TestScenario_SQLite")
	defer cleanup()
	h := setupTestAPI(t, ds, nil)

	w := request(h, http.MethodPost, "/api/v0/instances/", `{"name":"A","path":"/srv/a","enabled":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"A","path":"/srv/a","enabled":true}`, w.Body.String())

	w = request(h, http.MethodGet, "/api/v0/instances/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"A","path":"/srv/a","enabled":true}`, w.Body.String())

	w = request(h, http.MethodPut, "/api/v0/instances/1", `{"id":2,"name":"B","path":"/srv/a"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"B","path":"/srv/a","enabled":true}`, w.Body.String())

	w = request(h, http.MethodPut, "/api/v0/instances/1/disable", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1,"name":"B","path":"/srv/a","enabled":false}`, w.Body.String())

	w = request(h, http.MethodGet, "/api/v0/instances/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = request(h, http.MethodDelete, "/api/v0/instances/1", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestDuplicateName_SQLite(t *testing.T) {
	ds, cleanup := testutil.SetupTestDBWithMigrations(t, "TestDuplicateName_SQLite")
	defer cleanup()
	h := setupTestAPI(t, ds, nil)

	w := request(h, http.MethodPost, "/api/v0/clubs/", `{"name":"Rovers","town":"Leeds"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = request(h, http.MethodPost, "/api/v0/clubs/", `{"name":"Rovers","town":"York"}`)
	require.Equal(t, http.StatusConflict, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "club.duplicatedName", body["code"])
	assert.Equal(t, float64(http.StatusConflict), body["status"])
}

func TestCrudLifecycle_Memory(t *testing.T) {
	h := setupTestAPI(t, nil, nil)

	w := request(h, http.MethodPost, "/api/v0/clubs/", `{"name":"Rovers","town":"Leeds"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = request(h, http.MethodDelete, "/api/v0/clubs/1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())

	w = request(h, http.MethodGet, "/api/v0/clubs/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = request(h, http.MethodGet, "/api/v0/clubs/invalid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
