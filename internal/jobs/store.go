// Package jobs serves job postings through the fallback gateway.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/khrees2412/hirepipe/internal/gateway"
	"github.com/khrees2412/hirepipe/pkg/models"
)

var (
	ErrNotFound     = errors.New("job not found")
	ErrInvalidDraft = errors.New("job requires a title and a company")
)

// Service is the remote job API
type Service interface {
	ListJobs(ctx context.Context) (models.Envelope[[]models.Job], error)
	CreateJob(ctx context.Context, draft models.Job) (models.Envelope[models.Job], error)
	JobStats(ctx context.Context) (models.Envelope[models.JobStats], error)
}

// Store owns the job collection
type Store struct {
	gw    *gateway.Gateway
	svc   Service
	now   func() time.Time
	newID func() string

	mu   sync.RWMutex
	jobs []models.Job
}

// NewStore creates an empty store backed by svc
func NewStore(gw *gateway.Gateway, svc Service) *Store {
	return &Store{gw: gw, svc: svc, now: time.Now, newID: uuid.NewString}
}

// List loads the postings, falling back to the mock set, and returns those matching f
func (s *Store) List(ctx context.Context, f Filter) ([]models.Job, error) {
	out, err := gateway.Fetch(ctx, s.gw, "jobs.list", s.svc.ListJobs,
		func() ([]models.Job, error) { return MockJobs(), nil })
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.jobs = append([]models.Job(nil), out.Value...)
	s.mu.Unlock()

	return f.Apply(out.Value), nil
}

// Get returns a loaded posting by id
func (s *Store) Get(id string) (models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, job := range s.jobs {
		if job.ID == id {
			return job, nil
		}
	}
	return models.Job{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Create publishes a posting. Drafts without a status become active.
func (s *Store) Create(ctx context.Context, draft models.Job) (gateway.Outcome[models.Job], error) {
	if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.Company) == "" {
		return gateway.Outcome[models.Job]{}, ErrInvalidDraft
	}
	if draft.Status == "" {
		draft.Status = models.JobActive
	}

	out, err := gateway.Fetch(ctx, s.gw, "jobs.create",
		func(ctx context.Context) (models.Envelope[models.Job], error) {
			return s.svc.CreateJob(ctx, draft)
		},
		func() (models.Job, error) {
			job := draft
			job.ID = s.newID()
			if job.PostedDate.IsZero() {
				job.PostedDate = s.now()
			}
			return job, nil
		})
	if err != nil {
		return out, err
	}

	s.mu.Lock()
	s.jobs = append(s.jobs, out.Value)
	s.mu.Unlock()
	return out, nil
}

// Stats returns the posting statistics, with the fixed mock figures as fallback
func (s *Store) Stats(ctx context.Context) (gateway.Outcome[models.JobStats], error) {
	return gateway.Fetch(ctx, s.gw, "jobs.stats", s.svc.JobStats,
		func() (models.JobStats, error) { return MockStats(), nil })
}
