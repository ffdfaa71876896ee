package delegasdk_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delega/internal/app"
	"delega/internal/server"
	delegasdk "delega/sdk/go"
)

const secret = "sdk-secret"

func newClient(t *testing.T, perms ...string) (*delegasdk.Client, string) {
	t.Helper()
	ws, err := app.Open(context.Background(), app.Options{Workspace: t.TempDir()})
	require.NoError(t, err)
	handler, err := server.New(server.Config{
		Engine:   ws.Engine,
		BasePath: "/v1",
		Auth:     server.AuthConfig{JWTSecret: secret},
	})
	require.NoError(t, err)
	srv := httptest.NewServer(handler)
	t.Cleanup(func() {
		srv.Close()
		ws.Close()
	})
	if len(perms) == 0 {
		perms = server.AllPermissions
	}
	token, err := server.IssueToken(secret, "sdk-user", perms, time.Hour, time.Now())
	require.NoError(t, err)
	c := delegasdk.New(srv.URL, token)
	c.HTTPClient = srv.Client()
	return c, srv.URL
}

func TestClientCaseLifecycle(t *testing.T) {
	ctx := context.Background()
	c, _ := newClient(t)

	_, err := c.CreatePerson(ctx, "Bia", "Lima", "99999999999")
	require.NoError(t, err)
	author, err := c.CreatePerson(ctx, "Ana", "Souza", "11111111111")
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", author.Name)
	accused, err := c.CreatePerson(ctx, "Caio", "Reis", "22222222222")
	require.NoError(t, err)
	lawyer, err := c.CreateLawyer(ctx, "Dora", "Melo", "33333333333", "SP123456")
	require.NoError(t, err)

	persons, err := c.ListPersons(ctx)
	require.NoError(t, err)
	assert.Len(t, persons, 3)
	gotLawyer, err := c.GetLawyer(ctx, lawyer.ID)
	require.NoError(t, err)
	assert.Equal(t, "SP123456", gotLawyer.OAB)

	view, err := c.CreateJudicialProcess(ctx, delegasdk.CreateJudicialProcess{
		AuthorID:        author.ID,
		AccusedID:       accused.ID,
		LawyerID:        lawyer.ID,
		Reason:          "theft",
		RequestedValue:  100,
		AuthorDepoiment: "he took it",
	})
	require.NoError(t, err)
	assert.Equal(t, "created", view.Status)
	assert.Equal(t, "Ana Souza", view.AuthorName)
	assert.Equal(t, "Dora Melo", view.LawyerName)
	assert.NotEmpty(t, view.Protocol)

	started, err := c.StartJudicialProcess(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", started.Status)
	assert.NotEmpty(t, started.InProgressAt)
	assert.Equal(t, author.ID, started.Author.PersonID)

	_, err = c.StartJudicialProcess(ctx, view.ID)
	var apiErr *delegasdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "invalid_transition", apiErr.Code)

	full, err := c.GetJudicialProcessWithRelations(ctx, view.ID)
	require.NoError(t, err)
	require.NotNil(t, full.Lawyer)
	assert.Equal(t, "SP123456", full.Lawyer.OAB)

	views, err := c.ListJudicialProcesses(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "in_progress", views[0].Status)

	records, err := c.ListJudicialProcessesWithRelations(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestClientErrors(t *testing.T) {
	ctx := context.Background()
	c, baseURL := newClient(t)

	_, err := c.GetJudicialProcess(ctx, 42)
	assert.True(t, delegasdk.IsCode(err, "not_found"), "got %v", err)

	_, err = c.CreateJudicialProcess(ctx, delegasdk.CreateJudicialProcess{AuthorID: 1, AccusedID: 1, LawyerID: 2, Reason: "x"})
	assert.True(t, delegasdk.IsCode(err, "invalid_request"), "got %v", err)

	_, err = c.CreatePerson(ctx, "Bia", "Lima", "99999999999")
	require.NoError(t, err)
	author, err := c.CreatePerson(ctx, "Ana", "Souza", "11111111111")
	require.NoError(t, err)
	accused, err := c.CreatePerson(ctx, "Caio", "Reis", "22222222222")
	require.NoError(t, err)
	lawyer, err := c.CreateLawyer(ctx, "Dora", "Melo", "33333333333", "SP123456")
	require.NoError(t, err)

	_, err = c.CreateJudicialProcess(ctx, delegasdk.CreateJudicialProcess{
		AuthorID:       author.ID,
		AccusedID:      accused.ID,
		LawyerID:       lawyer.ID,
		RequestedValue: -1,
	})
	var apiErr *delegasdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Len(t, apiErr.Violations(), 2)

	anon := delegasdk.New(baseURL, "")
	_, err = anon.ListPersons(ctx)
	assert.True(t, delegasdk.IsCode(err, "unauthorized"), "got %v", err)
}

func TestClientForbidden(t *testing.T) {
	c, _ := newClient(t, server.PermRegistryRead)
	_, err := c.CreatePerson(context.Background(), "Ana", "Souza", "11111111111")
	var apiErr *delegasdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, server.PermRegistryWrite, apiErr.Details["permission"])
}

func TestClientEventsPaging(t *testing.T) {
	ctx := context.Background()
	c, _ := newClient(t)
	for _, cpf := range []string{"11111111111", "22222222222", "44444444444"} {
		_, err := c.CreatePerson(ctx, "Ana", "Souza", cpf)
		require.NoError(t, err)
	}

	page, err := c.EventsPage(ctx, 2, "")
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.NotEmpty(t, page.NextCursor)
	assert.Greater(t, page.Items[0].ID, page.Items[1].ID)

	rest, err := c.EventsPage(ctx, 2, page.NextCursor)
	require.NoError(t, err)
	require.Len(t, rest.Items, 1)
	assert.Empty(t, rest.NextCursor)
	assert.Equal(t, "person.registered", rest.Items[0].Type)
}
