package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/khrees2412/hirepipe/internal/gateway"
	"github.com/khrees2412/hirepipe/pkg/models"
)

var (
	ErrNotFound     = errors.New("application not found")
	ErrMissingJobID = errors.New("application requires a job id")
	ErrClosed       = errors.New("application store closed")
)

// Service is the remote application API
type Service interface {
	ListApplications(ctx context.Context) (models.Envelope[[]models.Application], error)
	CreateApplication(ctx context.Context, draft models.Application) (models.Envelope[models.Application], error)
	UpdateApplicationStatus(ctx context.Context, id string, update models.StatusUpdate) (models.Envelope[models.Application], error)
	ApplicationStats(ctx context.Context) (models.Envelope[models.ApplicationStats], error)
}

// Store owns the application collection
type Store struct {
	gw    *gateway.Gateway
	svc   Service
	now   func() time.Time
	newID func() string

	mu     sync.RWMutex
	apps   []models.Application
	closed bool
}

// NewStore creates an empty store backed by svc
func NewStore(gw *gateway.Gateway, svc Service) *Store {
	return &Store{gw: gw, svc: svc, now: time.Now, newID: uuid.NewString}
}

// Close discards the results of calls still in flight
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Snapshot returns a copy of the current collection
func (s *Store) Snapshot() []models.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Application(nil), s.apps...)
}

// Get returns one application by id
func (s *Store) Get(id string) (models.Application, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, app := range s.apps {
		if app.ID == id {
			return app, true
		}
	}
	return models.Application{}, false
}

// List loads the applications, falling back to the mock set
func (s *Store) List(ctx context.Context) ([]models.Application, error) {
	out, err := gateway.Fetch(ctx, s.gw, "applications.list", s.svc.ListApplications,
		func() ([]models.Application, error) { return MockApplications(), nil })
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	s.apps = append([]models.Application(nil), out.Value...)
	return append([]models.Application(nil), s.apps...), nil
}

// Create records an application for a job. New applications start as applied.
func (s *Store) Create(ctx context.Context, draft models.Application) (gateway.Outcome[models.Application], error) {
	if draft.JobID == "" {
		return gateway.Outcome[models.Application]{}, ErrMissingJobID
	}
	if draft.Status == "" {
		draft.Status = models.StatusApplied
	}

	out, err := gateway.Fetch(ctx, s.gw, "applications.create",
		func(ctx context.Context) (models.Envelope[models.Application], error) {
			return s.svc.CreateApplication(ctx, draft)
		},
		func() (models.Application, error) {
			app := draft
			app.ID = s.newID()
			if app.AppliedAt.IsZero() {
				app.AppliedAt = s.now()
			}
			return app, nil
		})
	if err != nil {
		return out, err
	}
	return out, s.put(out.Value)
}

// UpdateStatus sets the status of an application. Any status may follow any other.
func (s *Store) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus, feedback string) (gateway.Outcome[models.Application], error) {
	if !Valid(status) {
		return gateway.Outcome[models.Application]{}, fmt.Errorf("invalid application status %q", status)
	}
	update := models.StatusUpdate{Status: status, Feedback: feedback}

	out, err := gateway.Fetch(ctx, s.gw, "applications.updateStatus",
		func(ctx context.Context) (models.Envelope[models.Application], error) {
			return s.svc.UpdateApplicationStatus(ctx, id, update)
		},
		func() (models.Application, error) {
			app, ok := s.Get(id)
			if !ok {
				return app, fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			app.Status = status
			if feedback != "" {
				app.Feedback = feedback
			}
			return app, nil
		})
	if err != nil {
		return out, err
	}
	return out, s.put(out.Value)
}

// Stats returns per-status counts, computed locally when the service is unavailable
func (s *Store) Stats(ctx context.Context) (gateway.Outcome[models.ApplicationStats], error) {
	return gateway.Fetch(ctx, s.gw, "applications.stats", s.svc.ApplicationStats,
		func() (models.ApplicationStats, error) {
			return Stats(s.Snapshot()), nil
		})
}

func (s *Store) put(app models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	next := make([]models.Application, 0, len(s.apps)+1)
	replaced := false
	for _, existing := range s.apps {
		if existing.ID == app.ID {
			next = append(next, app)
			replaced = true
			continue
		}
		next = append(next, existing)
	}
	if !replaced {
		next = append(next, app)
	}
	s.apps = next
	return nil
}
