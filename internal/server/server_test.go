package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delega/internal/config"
	"delega/internal/db"
	"delega/internal/domain"
	"delega/internal/engine"
	"delega/internal/metrics"
	"delega/internal/migrate"
)

const testSecret = "test-secret"

type testServer struct {
	URL    string
	Engine engine.Engine
	client *http.Client
}

func (s *testServer) Client() *http.Client { return s.client }

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	workspace := t.TempDir()
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	cfg := config.Default()
	cfg.Validation.Locale = config.LocaleEN
	e, err := engine.New(conn, cfg)
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	reg := prometheus.NewRegistry()
	e.Metrics = metrics.New(reg)
	handler, err := New(Config{Engine: e, BasePath: "/v1", Auth: AuthConfig{JWTSecret: testSecret}, Gatherer: reg})
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	srv := httptest.NewServer(handler)
	t.Cleanup(func() {
		srv.Close()
		conn.Close()
	})
	return &testServer{URL: srv.URL, Engine: e, client: srv.Client()}
}

func bearer(t *testing.T, subject string, perms ...string) map[string]string {
	t.Helper()
	if len(perms) == 0 {
		perms = AllPermissions
	}
	token, err := IssueToken(testSecret, subject, perms, time.Hour, time.Now())
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader = bytes.NewReader(nil)
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, data
}

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func decodeError(t *testing.T, data []byte) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(data, &env), string(data))
	return env
}

type parties struct {
	author, accused, lawyer int64
}

// seedParties registers a bystander first so that person ids never collide
// with the lawyer id, which the create endpoint rejects.
func seedParties(t *testing.T, srv *testServer, h map[string]string) parties {
	t.Helper()
	register := func(path string, body map[string]any) int64 {
		res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+path, body, h)
		require.Equal(t, http.StatusCreated, res.StatusCode, string(data))
		var created struct {
			ID int64 `json:"id"`
		}
		require.NoError(t, json.Unmarshal(data, &created))
		return created.ID
	}
	register("/v1/persons", map[string]any{"first_name": "Caio", "last_name": "Reis", "cpf": "44444444444"})
	return parties{
		author:  register("/v1/persons", map[string]any{"first_name": "Ana", "last_name": "Souza", "cpf": "11111111111"}),
		accused: register("/v1/persons", map[string]any{"first_name": "Bruno", "last_name": "Lima", "cpf": "22222222222"}),
		lawyer:  register("/v1/lawyers", map[string]any{"first_name": "Carla", "last_name": "Dias", "cpf": "33333333333", "oab": "SP123"}),
	}
}

func TestHealthIsPublic(t *testing.T) {
	srv := newTestServer(t)
	res, data := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v1/health", nil, nil)
	require.Equal(t, http.StatusOK, res.StatusCode, string(data))
	assert.JSONEq(t, `{"status":"ok"}`, string(data))

	res, _ = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v1/openapi.json", nil, nil)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestAuthentication(t *testing.T) {
	srv := newTestServer(t)
	url := srv.URL + "/v1/judicial-processes"

	res, data := doJSON(t, srv.Client(), http.MethodGet, url, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "unauthorized", decodeError(t, data).Error.Code)

	res, _ = doJSON(t, srv.Client(), http.MethodGet, url, nil, map[string]string{"Authorization": "Basic abc"})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	forged, err := IssueToken("other-secret", "mallory", AllPermissions, time.Hour, time.Now())
	require.NoError(t, err)
	res, _ = doJSON(t, srv.Client(), http.MethodGet, url, nil, map[string]string{"Authorization": "Bearer " + forged})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	expired, err := IssueToken(testSecret, "late", AllPermissions, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	res, _ = doJSON(t, srv.Client(), http.MethodGet, url, nil, map[string]string{"Authorization": "Bearer " + expired})
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, data = doJSON(t, srv.Client(), http.MethodGet, url, nil, bearer(t, "reader", PermRegistryRead))
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
	env := decodeError(t, data)
	assert.Equal(t, "forbidden", env.Error.Code)
	assert.Equal(t, PermProcessRead, env.Error.Details["permission"])
}

func TestJudicialProcessLifecycle(t *testing.T) {
	srv := newTestServer(t)
	h := bearer(t, "clerk")
	ids := seedParties(t, srv, h)

	res, data := doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v1/judicial-processes", map[string]any{
		"author_id":        ids.author,
		"accused_id":       ids.accused,
		"lawyer_id":        ids.lawyer,
		"reason":           "theft",
		"requested_value":  100,
		"author_depoiment": "my bike was taken",
	}, h)
	require.Equal(t, http.StatusCreated, res.StatusCode, string(data))
	var view domain.JudicialProcessView
	require.NoError(t, json.Unmarshal(data, &view))
	assert.Equal(t, domain.StatusCreated, view.Status)
	assert.Equal(t, "Ana Souza", view.AuthorName)
	assert.Equal(t, "Carla Dias", view.LawyerName)
	assert.NotEmpty(t, view.Protocol)

	base := fmt.Sprintf("%s/v1/judicial-processes/%d", srv.URL, view.ID)
	res, data = doJSON(t, srv.Client(), http.MethodGet, base, nil, h)
	require.Equal(t, http.StatusOK, res.StatusCode, string(data))

	res, data = doJSON(t, srv.Client(), http.MethodGet, base+"/relations", nil, h)
	require.Equal(t, http.StatusOK, res.StatusCode, string(data))
	var full domain.JudicialProcess
	require.NoError(t, json.Unmarshal(data, &full))
	require.NotNil(t, full.Lawyer)
	assert.Equal(t, "SP123", full.Lawyer.OAB)

	res, data = doJSON(t, srv.Client(), http.MethodPost, base+"/in-progress", nil, h)
	require.Equal(t, http.StatusOK, res.StatusCode, string(data))
	require.NoError(t, json.Unmarshal(data, &full))
	assert.Equal(t, domain.StatusInProgress, full.Status)
	require.NotNil(t, full.InProgressAt)

	res, data = doJSON(t, srv.Client(), http.MethodPost, base+"/in-progress", nil, h)
	assert.Equal(t, http.StatusConflict, res.StatusCode)
	assert.Equal(t, "invalid_transition", decodeError(t, data).Error.Code)

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v1/judicial-processes", nil, h)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var views []domain.JudicialProcessView
	require.NoError(t, json.Unmarshal(data, &views))
	require.Len(t, views, 1)
	assert.Equal(t, domain.StatusInProgress, views[0].Status)

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v1/judicial-processes/with-relations", nil, h)
	require.Equal(t, http.StatusOK, res.StatusCode, string(data))

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v1/events?entity_kind=judicial_process", nil, h)
	require.Equal(t, http.StatusOK, res.StatusCode, string(data))
	var evts paginatedEvents
	require.NoError(t, json.Unmarshal(data, &evts))
	require.Len(t, evts.Items, 2)
	assert.Equal(t, "judicial_process.in_progress", evts.Items[0].Type)
	assert.Equal(t, "clerk", evts.Items[0].ActorID)
	assert.Equal(t, "created", evts.Items[0].Payload["from"])
}

func TestJudicialProcessErrors(t *testing.T) {
	srv := newTestServer(t)
	h := bearer(t, "clerk")
	ids := seedParties(t, srv, h)
	url := srv.URL + "/v1/judicial-processes"

	cases := []struct {
		name   string
		body   map[string]any
		status int
		code   string
	}{
		{"same parties", map[string]any{"author_id": ids.author, "accused_id": ids.author, "lawyer_id": ids.lawyer, "reason": "x", "requested_value": 1}, http.StatusBadRequest, "invalid_request"},
		{"lawyer overlap", map[string]any{"author_id": ids.author, "accused_id": ids.accused, "lawyer_id": ids.accused, "reason": "x", "requested_value": 1}, http.StatusBadRequest, "invalid_request"},
		{"unknown lawyer", map[string]any{"author_id": ids.author, "accused_id": ids.accused, "lawyer_id": 999, "reason": "x", "requested_value": 1}, http.StatusNotFound, "not_found"},
		{"invalid record", map[string]any{"author_id": ids.author, "accused_id": ids.accused, "lawyer_id": ids.lawyer, "reason": "", "requested_value": -1}, http.StatusUnprocessableEntity, "validation_failed"},
		{"missing field", map[string]any{"author_id": ids.author}, http.StatusBadRequest, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, data := doJSON(t, srv.Client(), http.MethodPost, url, tc.body, h)
			require.Equal(t, tc.status, res.StatusCode, string(data))
			env := decodeError(t, data)
			if tc.code != "" {
				assert.Equal(t, tc.code, env.Error.Code)
			}
			switch tc.name {
			case "unknown lawyer":
				assert.Equal(t, "lawyer", env.Error.Details["role"])
			case "invalid record":
				assert.Len(t, env.Error.Details["violations"], 2)
			}
		})
	}

	res, data := doJSON(t, srv.Client(), http.MethodGet, url+"/404", nil, h)
	assert.Equal(t, http.StatusNotFound, res.StatusCode, string(data))
	res, data = doJSON(t, srv.Client(), http.MethodPost, url+"/404/in-progress", nil, h)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "judicial_process", decodeError(t, data).Error.Details["role"])

	list, err := srv.Engine.ListJudicialProcesses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRegistryEndpoints(t *testing.T) {
	srv := newTestServer(t)
	h := bearer(t, "clerk")
	ids := seedParties(t, srv, h)

	res, data := doJSON(t, srv.Client(), http.MethodGet, fmt.Sprintf("%s/v1/persons/%d", srv.URL, ids.accused), nil, h)
	require.Equal(t, http.StatusOK, res.StatusCode, string(data))
	var p PersonResponse
	require.NoError(t, json.Unmarshal(data, &p))
	assert.Equal(t, "Bruno Lima", p.Name)

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v1/lawyers", nil, h)
	require.Equal(t, http.StatusOK, res.StatusCode)
	var lawyers []LawyerResponse
	require.NoError(t, json.Unmarshal(data, &lawyers))
	require.Len(t, lawyers, 1)

	res, data = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v1/persons",
		map[string]any{"first_name": "Dup", "last_name": "Cpf", "cpf": "11111111111"}, h)
	assert.Equal(t, http.StatusConflict, res.StatusCode, string(data))

	res, data = doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v1/persons",
		map[string]any{"first_name": "Bad", "last_name": "Cpf", "cpf": "12ab"}, h)
	assert.Equal(t, http.StatusUnprocessableEntity, res.StatusCode, string(data))

	res, _ = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v1/lawyers/77", nil, h)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestEventsPagination(t *testing.T) {
	srv := newTestServer(t)
	h := bearer(t, "clerk")
	seedParties(t, srv, h)

	res, data := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v1/events?limit=2", nil, h)
	require.Equal(t, http.StatusOK, res.StatusCode, string(data))
	var page paginatedEvents
	require.NoError(t, json.Unmarshal(data, &page))
	require.Len(t, page.Items, 2)
	require.NotEmpty(t, page.NextCursor)

	res, data = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v1/events?limit=2&cursor="+page.NextCursor, nil, h)
	require.Equal(t, http.StatusOK, res.StatusCode, string(data))
	var next paginatedEvents
	require.NoError(t, json.Unmarshal(data, &next))
	require.Len(t, next.Items, 2)
	assert.Less(t, next.Items[0].ID, page.Items[1].ID)
	assert.Empty(t, next.NextCursor)

	res, _ = doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/v1/events?cursor=abc", nil, h)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	h := bearer(t, "clerk")
	ids := seedParties(t, srv, h)
	doJSON(t, srv.Client(), http.MethodPost, srv.URL+"/v1/judicial-processes", map[string]any{
		"author_id": ids.author, "accused_id": ids.accused, "lawyer_id": ids.lawyer, "reason": "theft", "requested_value": 100,
	}, h)

	res, data := doJSON(t, srv.Client(), http.MethodGet, srv.URL+"/metrics", nil, nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, strings.Contains(string(data), "delega_judicial_processes_created_total 1"), string(data))
}

func TestOpenAPIConcurrentFirstRequests(t *testing.T) {
	srv := newTestServer(t)
	const n = 8
	bodies := make([][]byte, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := srv.Client().Get(srv.URL + "/v1/openapi.json")
			if err != nil {
				return
			}
			defer res.Body.Close()
			bodies[i], _ = io.ReadAll(res.Body)
		}(i)
	}
	wg.Wait()
	for i := 0; i < n; i++ {
		require.NotEmpty(t, bodies[i], "request %d", i)
		assert.Equal(t, bodies[0], bodies[i])
	}
	var doc map[string]any
	require.NoError(t, json.Unmarshal(bodies[0], &doc))
	assert.Contains(t, doc, "paths")
}
