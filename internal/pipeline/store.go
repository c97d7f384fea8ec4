// Package pipeline implements the 8-stage hiring pipeline: the stage template,
// the derivation of aggregate status, and the store that owns the pipeline
// collection and keeps it in sync with the remote pipeline service.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/khrees2412/hirepipe/internal/gateway"
	"github.com/khrees2412/hirepipe/pkg/models"
	"gopkg.in/yaml.v3"
)

var (
	ErrNotFound = errors.New("pipeline not found")
	ErrClosed   = errors.New("pipeline store closed")
)

// Service is the remote pipeline API
type Service interface {
	ListPipelines(ctx context.Context) (models.Envelope[[]models.ApplicationPipeline], error)
	CreatePipeline(ctx context.Context, draft models.ApplicationPipeline) (models.Envelope[models.ApplicationPipeline], error)
	UpdatePipelineStage(ctx context.Context, pipelineID string, stageID models.StageID, patch models.StagePatch) (models.Envelope[models.ApplicationPipeline], error)
	AdvancePipeline(ctx context.Context, pipelineID, feedback string) (models.Envelope[models.ApplicationPipeline], error)
	RejectPipeline(ctx context.Context, pipelineID, reason string) (models.Envelope[models.ApplicationPipeline], error)
	PipelineStats(ctx context.Context) (models.Envelope[models.PipelineStats], error)
}

// Observer receives every snapshot the store publishes
type Observer func([]models.ApplicationPipeline)

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source used for dates and the demo data
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator overrides how locally created pipelines get their id
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// AllowCustomStages lets Create accept stage lists other than the default template
func AllowCustomStages() Option {
	return func(s *Store) { s.allowCustom = true }
}

// Store owns the pipeline collection. All mutation goes through its command
// methods; readers get copies.
type Store struct {
	gw          *gateway.Gateway
	svc         Service
	now         func() time.Time
	newID       func() string
	allowCustom bool

	mu        sync.RWMutex
	pipelines []models.ApplicationPipeline
	observers []Observer
	closed    bool

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewStore creates an empty store backed by svc
func NewStore(gw *gateway.Gateway, svc Service, opts ...Option) *Store {
	s := &Store{
		gw:    gw,
		svc:   svc,
		now:   time.Now,
		newID: uuid.NewString,
		locks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers an observer for published snapshots
func (s *Store) Subscribe(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Close marks the store as torn down. Results of calls still in flight are discarded.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Snapshot returns a copy of the current collection
func (s *Store) Snapshot() []models.ApplicationPipeline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.pipelines)
}

// Get returns a copy of one pipeline
func (s *Store) Get(id string) (models.ApplicationPipeline, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.pipelines {
		if p.ID == id {
			return clonePipeline(p), true
		}
	}
	return models.ApplicationPipeline{}, false
}

// List loads the pipelines, falling back to the demo set, and replaces the collection
func (s *Store) List(ctx context.Context) ([]models.ApplicationPipeline, error) {
	out, err := gateway.Fetch(ctx, s.gw, "pipelines.list", s.svc.ListPipelines,
		func() ([]models.ApplicationPipeline, error) {
			return DemoPipelines(s.now()), nil
		})
	if err != nil {
		return nil, err
	}

	loaded := make([]models.ApplicationPipeline, len(out.Value))
	for i, p := range out.Value {
		if len(p.Stages) == 0 {
			p.Stages = CreateDefaultStages()
			p = Derive(p)
		}
		loaded[i] = clonePipeline(p)
	}

	if !s.publish(func([]models.ApplicationPipeline) []models.ApplicationPipeline { return loaded }) {
		return nil, ErrClosed
	}
	return cloneAll(loaded), nil
}

// Create adds a pipeline. A draft without stages gets the default template.
func (s *Store) Create(ctx context.Context, draft models.ApplicationPipeline) (gateway.Outcome[models.ApplicationPipeline], error) {
	if len(draft.Stages) == 0 {
		draft.Stages = CreateDefaultStages()
	} else if !s.allowCustom && !IsCanonical(draft.Stages) {
		return gateway.Outcome[models.ApplicationPipeline]{}, ErrCustomStages
	}
	draft = clonePipeline(draft)

	out, err := gateway.Fetch(ctx, s.gw, "pipelines.create",
		func(ctx context.Context) (models.Envelope[models.ApplicationPipeline], error) {
			return s.svc.CreatePipeline(ctx, draft)
		},
		func() (models.ApplicationPipeline, error) {
			p := clonePipeline(draft)
			now := s.now()
			p.ID = s.newID()
			if p.AppliedDate.IsZero() {
				p.AppliedDate = now
			}
			p.LastUpdated = now
			return Derive(p), nil
		})
	if err != nil {
		return out, err
	}
	if !s.put(out.Value) {
		return out, ErrClosed
	}
	return out, nil
}

// UpdateStage changes one stage of a pipeline. On remote success the server's
// record replaces the local one; otherwise the patch is applied locally and the
// aggregate fields are re-derived. No failure reaches the caller: a patch that
// cannot be applied locally is logged and the collection is left unchanged.
// Only ErrClosed is returned, once the store is torn down.
func (s *Store) UpdateStage(ctx context.Context, pipelineID string, stageID models.StageID, patch models.StagePatch) (gateway.Outcome[models.ApplicationPipeline], error) {
	out, err := s.mutate(ctx, "pipelines.updateStage", pipelineID,
		func(ctx context.Context) (models.Envelope[models.ApplicationPipeline], error) {
			return s.svc.UpdatePipelineStage(ctx, pipelineID, stageID, patch)
		},
		func(p models.ApplicationPipeline, now time.Time) (models.ApplicationPipeline, error) {
			return PatchStage(p, stageID, patch, now)
		})
	if err == nil || errors.Is(err, ErrClosed) {
		return out, err
	}

	s.gw.Logger().Warn("stage update not applied", "pipeline", pipelineID, "stage", stageID, "error", err)
	current, _ := s.Get(pipelineID)
	return gateway.LocalFallback(current), nil
}

// Advance completes the open stage and opens the next one
func (s *Store) Advance(ctx context.Context, pipelineID, feedback string) (gateway.Outcome[models.ApplicationPipeline], error) {
	return s.mutate(ctx, "pipelines.advance", pipelineID,
		func(ctx context.Context) (models.Envelope[models.ApplicationPipeline], error) {
			return s.svc.AdvancePipeline(ctx, pipelineID, feedback)
		},
		func(p models.ApplicationPipeline, now time.Time) (models.ApplicationPipeline, error) {
			return Advance(p, feedback, now)
		})
}

// Reject rejects the open stage of a pipeline
func (s *Store) Reject(ctx context.Context, pipelineID, reason string) (gateway.Outcome[models.ApplicationPipeline], error) {
	return s.mutate(ctx, "pipelines.reject", pipelineID,
		func(ctx context.Context) (models.Envelope[models.ApplicationPipeline], error) {
			return s.svc.RejectPipeline(ctx, pipelineID, reason)
		},
		func(p models.ApplicationPipeline, now time.Time) (models.ApplicationPipeline, error) {
			return Reject(p, reason, now)
		})
}

// Stats returns the pipeline statistics, computed locally when the service is unavailable
func (s *Store) Stats(ctx context.Context) (gateway.Outcome[models.PipelineStats], error) {
	return gateway.Fetch(ctx, s.gw, "pipelines.stats", s.svc.PipelineStats,
		func() (models.PipelineStats, error) {
			return ComputeStats(s.Snapshot()), nil
		})
}

// Export renders one pipeline as json or yaml
func (s *Store) Export(id, format string) ([]byte, error) {
	p, ok := s.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	switch format {
	case "", "json":
		return json.MarshalIndent(p, "", "  ")
	case "yaml", "yml":
		return yaml.Marshal(p)
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

// ComputeStats aggregates a pipeline collection
func ComputeStats(pipelines []models.ApplicationPipeline) models.PipelineStats {
	stats := models.PipelineStats{TotalPipelines: len(pipelines)}
	completedByStage := make(map[models.StageID]int)
	for _, p := range pipelines {
		switch DeriveAggregate(p.Stages).OverallStatus {
		case models.PipelineActive:
			stats.ActivePipelines++
		case models.PipelineCompleted:
			stats.CompletedPipelines++
		case models.PipelineRejected:
			stats.RejectedPipelines++
		}
		for _, st := range p.Stages {
			if st.Status == models.StageCompleted {
				completedByStage[st.ID]++
			}
		}
	}

	for _, st := range CreateDefaultStages() {
		rate := 0.0
		if len(pipelines) > 0 {
			rate = float64(completedByStage[st.ID]) / float64(len(pipelines))
		}
		stats.StageStats = append(stats.StageStats, models.StageStat{
			StageID:        st.ID,
			StageName:      st.Name,
			CompletionRate: rate,
		})
	}
	return stats
}

// mutate runs one update of a single pipeline. Updates to the same pipeline are
// serialized, so the local fallback always patches the latest published record
// and derivation completes before the next update starts.
func (s *Store) mutate(
	ctx context.Context,
	op, pipelineID string,
	remote gateway.RemoteCall[models.ApplicationPipeline],
	local func(models.ApplicationPipeline, time.Time) (models.ApplicationPipeline, error),
) (gateway.Outcome[models.ApplicationPipeline], error) {
	unlock := s.lockPipeline(pipelineID)
	defer unlock()

	out, err := gateway.Fetch(ctx, s.gw, op, remote, func() (models.ApplicationPipeline, error) {
		current, ok := s.Get(pipelineID)
		if !ok {
			return models.ApplicationPipeline{}, fmt.Errorf("%w: %s", ErrNotFound, pipelineID)
		}
		return local(current, s.now())
	})
	if err != nil {
		return out, err
	}
	if out.Value.ID == "" {
		out.Value.ID = pipelineID
	}
	if !s.put(out.Value) {
		return out, ErrClosed
	}
	return out, nil
}

func (s *Store) lockPipeline(id string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.locksMu.Unlock()

	l.Lock()
	return l.Unlock
}

// put replaces the pipeline with the same id, or appends it
func (s *Store) put(p models.ApplicationPipeline) bool {
	p = clonePipeline(p)
	return s.publish(func(current []models.ApplicationPipeline) []models.ApplicationPipeline {
		next := make([]models.ApplicationPipeline, 0, len(current)+1)
		replaced := false
		for _, existing := range current {
			if existing.ID == p.ID {
				next = append(next, p)
				replaced = true
				continue
			}
			next = append(next, existing)
		}
		if !replaced {
			next = append(next, p)
		}
		return next
	})
}

// publish swaps in a new collection and notifies observers. It reports false,
// leaving the collection untouched, once the store is closed.
func (s *Store) publish(update func([]models.ApplicationPipeline) []models.ApplicationPipeline) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.pipelines = update(s.pipelines)
	snapshot := cloneAll(s.pipelines)
	observers := append([]Observer(nil), s.observers...)
	s.mu.Unlock()

	for _, fn := range observers {
		fn(cloneAll(snapshot))
	}
	return true
}

func cloneAll(pipelines []models.ApplicationPipeline) []models.ApplicationPipeline {
	out := make([]models.ApplicationPipeline, len(pipelines))
	for i, p := range pipelines {
		out[i] = clonePipeline(p)
	}
	return out
}
