package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/khrees2412/hirepipe/internal/application"
	"github.com/khrees2412/hirepipe/internal/auth"
	"github.com/khrees2412/hirepipe/internal/jobs"
	"github.com/khrees2412/hirepipe/internal/pipeline"
	"github.com/khrees2412/hirepipe/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ pipeline.Service    = (*Client)(nil)
	_ application.Service = (*Client)(nil)
	_ jobs.Service        = (*Client)(nil)
	_ auth.Remote         = (*Client)(nil)
)

func TestUpdatePipelineStageRequest(t *testing.T) {
	var gotMethod, gotPath, gotAuth string
	var gotPatch models.StagePatch
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotAuth = r.Method, r.URL.Path, r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotPatch)
		json.NewEncoder(w).Encode(models.OK(models.ApplicationPipeline{ID: "p1", CurrentStage: 3}))
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/", srv.Client(), WithToken(func() string { return "tok" }))
	status := models.StageCompleted
	env, err := c.UpdatePipelineStage(context.Background(), "p1", models.StageCodingR1, models.StagePatch{Status: &status})

	require.NoError(t, err)
	assert.True(t, env.Success)
	assert.Equal(t, 3, env.Data.CurrentStage)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/api/pipelines/p1/stages/coding_r1", gotPath)
	assert.Equal(t, "Bearer tok", gotAuth)
	require.NotNil(t, gotPatch.Status)
	assert.Equal(t, models.StageCompleted, *gotPatch.Status)
}

func TestEnvelopeOnErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"success":false,"message":"Invalid email or password"}`)
	}))
	defer srv.Close()

	env, err := New(srv.URL, nil).Login(context.Background(), models.Credentials{Email: "a@b.c", Password: "x"})
	require.NoError(t, err)
	assert.False(t, env.Success)
	assert.Equal(t, "Invalid email or password", env.Message)
}

func TestNonEnvelopeResponses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"html error page", http.StatusBadGateway, "<html>bad gateway</html>"},
		{"garbage on 200", http.StatusOK, "not json"},
		{"success flag on error status", http.StatusInternalServerError, `{"success":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := New(srv.URL, srv.Client()).ListPipelines(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, nil).ApplicationStats(context.Background())
	assert.Error(t, err)
}

func TestListJobsUnwrapsPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs", r.URL.Path)
		json.NewEncoder(w).Encode(models.OK(models.JobsPage{
			Jobs:  []models.Job{{ID: "9", Title: "SRE"}},
			Total: 1, Page: 1, TotalPages: 1,
		}))
	}))
	defer srv.Close()

	env, err := New(srv.URL, nil).ListJobs(context.Background())
	require.NoError(t, err)
	require.True(t, env.Success)
	assert.Equal(t, "SRE", (*env.Data)[0].Title)
}

func TestListJobsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.Failed[models.JobsPage]("maintenance"))
	}))
	defer srv.Close()

	env, err := New(srv.URL, nil).ListJobs(context.Background())
	require.NoError(t, err)
	assert.False(t, env.Success)
	assert.Equal(t, "maintenance", env.Message)
}
