package app_test

import (
	"context"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"delega/internal/app"
	"delega/internal/config"
	"delega/internal/validation"
)

func TestOpenFreshWorkspace(t *testing.T) {
	dir := t.TempDir()
	ws, err := app.Open(context.Background(), app.Options{Workspace: dir, Registerer: prometheus.NewRegistry()})
	require.NoError(t, err)
	defer ws.Close()

	assert.Equal(t, 3, ws.SchemaVersion)
	assert.Equal(t, config.LocalePTBR, ws.Config.Validation.Locale)
	assert.NotNil(t, ws.Engine.Metrics)
	v, ok := ws.Engine.Validator.(*validation.Validator)
	require.True(t, ok)
	assert.Equal(t, config.LocalePTBR, v.Locale())
}

func TestOpenUsesWorkspaceConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(config.Path(dir), []byte("validation:\n  locale: en\n"), 0o644))
	ws, err := app.Open(context.Background(), app.Options{Workspace: dir})
	require.NoError(t, err)
	defer ws.Close()

	assert.Equal(t, config.LocaleEN, ws.Config.Validation.Locale)
	assert.Nil(t, ws.Engine.Metrics)

	again, err := app.Open(context.Background(), app.Options{Workspace: dir})
	require.NoError(t, err)
	defer again.Close()
	assert.Equal(t, 3, again.SchemaVersion)
}

func TestOpenRejectsBrokenConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(config.Path(dir), []byte("validation:\n  locale: fr\n"), 0o644))
	_, err := app.Open(context.Background(), app.Options{Workspace: dir})
	assert.Error(t, err)
}
