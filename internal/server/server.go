// Package server is the embedded demo backend: the platform API the CLI talks
// to, backed by internal/database.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/khrees2412/hirepipe/internal/application"
	"github.com/khrees2412/hirepipe/internal/auth"
	"github.com/khrees2412/hirepipe/internal/database"
	"github.com/khrees2412/hirepipe/internal/jobs"
	"github.com/khrees2412/hirepipe/internal/pipeline"
	"github.com/khrees2412/hirepipe/pkg/models"
	"golang.org/x/crypto/bcrypt"
)

// Server serves the platform API under /api
type Server struct {
	repo    *database.Repository
	tokens  *TokenIssuer
	logger  *slog.Logger
	limiter *RateLimiter
	now     func() time.Time
	newID   func() string

	// serializes read-modify-write handlers
	mu sync.Mutex
}

// New creates a server. A nil logger uses slog.Default().
func New(repo *database.Repository, tokens *TokenIssuer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		repo:    repo,
		tokens:  tokens,
		logger:  logger,
		limiter: NewRateLimiter(5, 10),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Handler returns the routed API
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, models.OK(map[string]string{"status": "ok"}))
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	public := api.PathPrefix("/auth").Subrouter()
	public.Use(s.limiter.Middleware)
	public.HandleFunc("/login", s.login).Methods("POST")
	public.HandleFunc("/logout", s.logout).Methods("POST")
	public.HandleFunc("/register/student", s.registerStudent).Methods("POST")
	public.HandleFunc("/register/admin", s.registerAdmin).Methods("POST")
	public.HandleFunc("/register/superadmin", s.registerSuperAdmin).Methods("POST")

	private := api.NewRoute().Subrouter()
	private.Use(s.authenticate)

	private.HandleFunc("/jobs", s.listJobs).Methods("GET")
	private.HandleFunc("/jobs", s.requireRole(s.createJob, models.RoleAdmin, models.RoleSuperAdmin)).Methods("POST")
	private.HandleFunc("/jobs/stats", s.jobStats).Methods("GET")
	private.HandleFunc("/jobs/{id}", s.getJob).Methods("GET")

	private.HandleFunc("/applications/my", s.myApplications).Methods("GET")
	private.HandleFunc("/applications", s.requireRole(s.createApplication, models.RoleStudent)).Methods("POST")
	private.HandleFunc("/applications/stats", s.applicationStats).Methods("GET")
	private.HandleFunc("/applications/{id}/status", s.requireRole(s.updateApplicationStatus, models.RoleAdmin, models.RoleSuperAdmin)).Methods("PUT")

	private.HandleFunc("/pipelines/my", s.myPipelines).Methods("GET")
	private.HandleFunc("/pipelines", s.createPipeline).Methods("POST")
	private.HandleFunc("/pipelines/stats", s.pipelineStats).Methods("GET")
	private.HandleFunc("/pipelines/{id}", s.getPipeline).Methods("GET")
	private.HandleFunc("/pipelines/{id}/stages/{stageId}", s.requireRole(s.updateStage, models.RoleAdmin, models.RoleSuperAdmin)).Methods("PATCH")
	private.HandleFunc("/pipelines/{id}/advance", s.requireRole(s.advancePipeline, models.RoleAdmin, models.RoleSuperAdmin)).Methods("POST")
	private.HandleFunc("/pipelines/{id}/reject", s.requireRole(s.rejectPipeline, models.RoleAdmin, models.RoleSuperAdmin)).Methods("POST")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, models.Failed[struct{}]("Not found"))
	})
	return r
}

// Run serves on addr until ctx is cancelled
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Seed loads the demo accounts, postings, applications and pipelines.
// Accounts that already exist are left alone.
func (s *Server) Seed(ctx context.Context) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(auth.FallbackPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := s.now()
	var studentID string
	for _, user := range auth.FallbackUsers(now) {
		err := s.repo.CreateUser(ctx, user, string(hash))
		if err != nil && !errors.Is(err, database.ErrDuplicate) {
			return fmt.Errorf("seed user %s: %w", user.Email, err)
		}
		if user.Role == models.RoleStudent {
			studentID = user.ID
		}
	}

	for _, job := range jobs.MockJobs() {
		if err := s.repo.SaveJob(ctx, job); err != nil {
			return fmt.Errorf("seed job %s: %w", job.ID, err)
		}
	}
	for _, app := range application.MockApplications() {
		app.StudentID = studentID
		if err := s.repo.SaveApplication(ctx, app); err != nil {
			return fmt.Errorf("seed application %s: %w", app.ID, err)
		}
	}
	for _, p := range pipeline.DemoPipelines(now) {
		p.StudentID = studentID
		if err := s.repo.SavePipeline(ctx, p); err != nil {
			return fmt.Errorf("seed pipeline %s: %w", p.ID, err)
		}
	}
	return nil
}

// authenticate requires a valid bearer access token
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeJSON(w, http.StatusUnauthorized, models.Failed[struct{}]("Missing Authorization header"))
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeJSON(w, http.StatusUnauthorized, models.Failed[struct{}]("Invalid Authorization header format"))
			return
		}

		claims, err := s.tokens.Validate(parts[1])
		if err != nil {
			s.logger.Debug("rejected token", "error", err)
			writeJSON(w, http.StatusUnauthorized, models.Failed[struct{}]("Invalid or expired token"))
			return
		}
		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

func (s *Server) requireRole(h http.HandlerFunc, roles ...models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, models.Failed[struct{}]("Not authenticated"))
			return
		}
		for _, role := range roles {
			if claims.Role == role {
				h(w, r)
				return
			}
		}
		writeJSON(w, http.StatusForbidden, models.Failed[struct{}]("You do not have access to this resource"))
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK[T any](w http.ResponseWriter, status int, v T) {
	writeJSON(w, status, models.OK(v))
}

func writeFail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.Failed[struct{}](message))
}

// internalError logs err and answers with a generic message
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeFail(w, http.StatusInternalServerError, "Internal server error")
}

func decode(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
