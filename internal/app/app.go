package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/khrees2412/hirepipe/internal/ai"
	"github.com/khrees2412/hirepipe/internal/application"
	"github.com/khrees2412/hirepipe/internal/auth"
	"github.com/khrees2412/hirepipe/internal/config"
	"github.com/khrees2412/hirepipe/internal/database"
	"github.com/khrees2412/hirepipe/internal/gateway"
	"github.com/khrees2412/hirepipe/internal/importer"
	"github.com/khrees2412/hirepipe/internal/jobs"
	"github.com/khrees2412/hirepipe/internal/pipeline"
	"github.com/khrees2412/hirepipe/internal/remote"
)

// App is the dependency container for the CLI application
type App struct {
	DB         *sql.DB
	Repo       *database.Repository
	Config     *config.Config
	HTTPClient *http.Client
	Logger     *slog.Logger

	Gateway      *gateway.Gateway
	Remote       *remote.Client
	Auth         *auth.Service
	Jobs         *jobs.Store
	Applications *application.Store
	Pipelines    *pipeline.Store
	Importer     *importer.Importer
}

// NewApp initializes and returns a new App instance
func NewApp(ctx context.Context) (*App, error) {
	if err := config.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize config: %w", err)
	}
	cfg := config.AppConfig

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	db, err := database.OpenLocal(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	a := New(cfg, db, logger)
	if _, err := a.Auth.Session().Restore(ctx); err != nil {
		logger.Warn("discarded stored session", "error", err)
	}
	return a, nil
}

// New wires the services around an open client database
func New(cfg *config.Config, db *sql.DB, logger *slog.Logger) *App {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	repo := database.NewRepository(db, database.DriverSQLite)
	gw := gateway.New(logger, cfg.UseMockData)

	session := auth.NewSession(repo)
	client := remote.New(cfg.APIBaseURL, httpClient, remote.WithToken(session.Token))

	return &App{
		DB:           db,
		Repo:         repo,
		Config:       cfg,
		HTTPClient:   httpClient,
		Logger:       logger,
		Gateway:      gw,
		Remote:       client,
		Auth:         auth.NewService(client, session, logger, cfg.UseMockData),
		Jobs:         jobs.NewStore(gw, client),
		Applications: application.NewStore(gw, client),
		Pipelines:    pipeline.NewStore(gw, client),
		Importer:     importer.New(importer.NewChromeRenderer(logger), importer.NewHTTPRenderer(httpClient), logger),
	}
}

// AIClient builds the chat client for the configured provider
func (a *App) AIClient() (*ai.Client, error) {
	client, err := ai.NewClient(ai.SettingsFromConfig(a.Config), a.HTTPClient)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAIUnavailable, err)
	}
	return client, nil
}

// Coach builds the prompt helpers on top of AIClient
func (a *App) Coach() (*ai.Coach, error) {
	client, err := a.AIClient()
	if err != nil {
		return nil, err
	}
	return ai.NewCoach(client), nil
}

// Close stops the stores and closes the database
func (a *App) Close() error {
	a.Pipelines.Close()
	a.Applications.Close()
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
