package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/khrees2412/hirepipe/internal/ai"
	"github.com/khrees2412/hirepipe/internal/config"
	"github.com/khrees2412/hirepipe/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", filepath.Join(t.TempDir(), "client.db"))
	db, err := database.Open(database.DriverSQLite, dsn)
	require.NoError(t, err)
	a := New(cfg, db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() { a.Close() })
	return a
}

func TestOfflineAppServesFallbackData(t *testing.T) {
	a := newTestApp(t, &config.Config{
		APIBaseURL:     "http://127.0.0.1:1/api",
		UseMockData:    true,
		RequestTimeout: time.Second,
	})
	ctx := context.Background()

	pipelines, err := a.Pipelines.List(ctx)
	require.NoError(t, err)
	assert.Len(t, pipelines, 4)

	apps, err := a.Applications.List(ctx)
	require.NoError(t, err)
	assert.Len(t, apps, 3)

	user, err := a.Auth.Login(ctx, "admin@company.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", user.Name)

	// the session survives a restart through the client database
	restored := New(a.Config, a.DB, a.Logger)
	got, err := restored.Auth.Session().Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "admin@company.com", got.Email)
}

func TestCoachRequiresKey(t *testing.T) {
	a := newTestApp(t, &config.Config{AIProvider: "openai", RequestTimeout: time.Second})
	_, err := a.Coach()
	assert.ErrorIs(t, err, ErrAIUnavailable)
	assert.ErrorIs(t, err, ai.ErrMissingKey)

	a.Config.AIProvider = "gemini"
	_, err = a.AIClient()
	assert.ErrorIs(t, err, ErrAIUnavailable)
	assert.ErrorIs(t, err, ai.ErrUnsupportedProvider)

	a.Config.OllamaURL = "http://localhost:11434"
	a.Config.AIProvider = "ollama"
	coach, err := a.Coach()
	require.NoError(t, err)
	assert.NotNil(t, coach)
}

func TestContextRoundTrip(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, ErrNoApp)

	a := &App{}
	got, err := FromContext(WithApp(context.Background(), a))
	require.NoError(t, err)
	assert.Same(t, a, got)
}
