package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/khrees2412/hirepipe/internal/gateway"
	"github.com/khrees2412/hirepipe/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type downService struct{}

func (downService) ListJobs(ctx context.Context) (models.Envelope[[]models.Job], error) {
	return models.Envelope[[]models.Job]{}, errors.New("connection refused")
}

func (downService) CreateJob(ctx context.Context, draft models.Job) (models.Envelope[models.Job], error) {
	return models.Failed[models.Job]("read only"), nil
}

func (downService) JobStats(ctx context.Context) (models.Envelope[models.JobStats], error) {
	return models.Envelope[models.JobStats]{Success: true}, nil
}

type upService struct{ jobs []models.Job }

func (u upService) ListJobs(ctx context.Context) (models.Envelope[[]models.Job], error) {
	return models.OK(u.jobs), nil
}

func (u upService) CreateJob(ctx context.Context, draft models.Job) (models.Envelope[models.Job], error) {
	draft.ID = "srv-1"
	return models.OK(draft), nil
}

func (u upService) JobStats(ctx context.Context) (models.Envelope[models.JobStats], error) {
	return models.OK(ComputeStats(u.jobs)), nil
}

func newTestStore(svc Service) *Store {
	s := NewStore(gateway.New(slog.New(slog.NewTextHandler(io.Discard, nil)), false), svc)
	s.now = func() time.Time { return date(2025, 5, 1) }
	s.newID = func() string { return "local-1" }
	return s
}

func TestListFallback(t *testing.T) {
	s := newTestStore(downService{})

	jobs, err := s.List(context.Background(), Filter{})
	require.NoError(t, err)
	assert.Equal(t, MockJobs(), jobs)

	job, err := s.Get("2")
	require.NoError(t, err)
	assert.Equal(t, "StartupXYZ", job.Company)

	_, err = s.Get("42")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListFilter(t *testing.T) {
	s := newTestStore(downService{})

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"search title", Filter{Search: "front"}, []string{"1"}},
		{"search company", Filter{Search: "startup"}, []string{"2"}},
		{"location", Filter{Location: "new york"}, []string{"2"}},
		{"skills", Filter{Skills: []string{"react", "css"}}, []string{"1"}},
		{"employment type", Filter{EmploymentType: "Full-Time"}, []string{"1", "2"}},
		{"no match", Filter{Search: "rust"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, err := s.List(context.Background(), tt.filter)
			require.NoError(t, err)
			got := []string{}
			for _, j := range jobs {
				got = append(got, j.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCreate(t *testing.T) {
	s := newTestStore(downService{})

	out, err := s.Create(context.Background(), models.Job{Title: "SRE", Company: "Acme"})
	require.NoError(t, err)
	assert.False(t, out.FromRemote())
	assert.Equal(t, "local-1", out.Value.ID)
	assert.Equal(t, models.JobActive, out.Value.Status)
	assert.Equal(t, date(2025, 5, 1), out.Value.PostedDate)

	_, err = s.Create(context.Background(), models.Job{Title: "SRE"})
	assert.ErrorIs(t, err, ErrInvalidDraft)

	remote := newTestStore(upService{})
	out, err = remote.Create(context.Background(), models.Job{Title: "SRE", Company: "Acme", Status: models.JobDraft})
	require.NoError(t, err)
	assert.True(t, out.FromRemote())
	assert.Equal(t, "srv-1", out.Value.ID)
	assert.Equal(t, models.JobDraft, out.Value.Status)
}

func TestStats(t *testing.T) {
	out, err := newTestStore(downService{}).Stats(context.Background())
	require.NoError(t, err)
	assert.False(t, out.FromRemote())
	assert.Equal(t, MockStats(), out.Value)

	out, err = newTestStore(upService{jobs: MockJobs()}).Stats(context.Background())
	require.NoError(t, err)
	assert.True(t, out.FromRemote())
	assert.Equal(t, 2, out.Value.TotalJobs)
	assert.Equal(t, 43, out.Value.TotalApplications)
	assert.InDelta(t, 21.5, out.Value.AverageApplicationsPerJob, 1e-9)
}
