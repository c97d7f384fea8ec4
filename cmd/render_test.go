package cmd

import (
	"testing"
	"time"

	"github.com/khrees2412/hirepipe/internal/pipeline"
	"github.com/khrees2412/hirepipe/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestPipelineSummary(t *testing.T) {
	demo := pipeline.DemoPipelines(time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC))

	tests := []struct {
		name  string
		p     models.ApplicationPipeline
		stage string
		badge string
	}{
		{"early", demo[0], "Coding R1", "ACTIVE"},
		{"rejected", demo[2], "Aptitude + Basic coding", "REJECTED"},
		{"completed", demo[3], "Done", "COMPLETED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pipelineSummary(tt.p)
			assert.Contains(t, got, tt.p.JobTitle+" at "+tt.p.Company)
			assert.Contains(t, got, tt.stage)
			assert.Contains(t, got, tt.badge)
		})
	}
}

func TestStageMarker(t *testing.T) {
	assert.Contains(t, stageMarker(models.StageCompleted), "✓")
	assert.Contains(t, stageMarker(models.StageRejected), "✗")
	assert.Equal(t, "?", stageMarker(models.StageStatus("skipped")))
}

func TestConfigLabel(t *testing.T) {
	assert.Equal(t, "API Base URL", configLabel("api_base_url"))
	assert.Equal(t, "Server DB Driver", configLabel("server_db_driver"))
	assert.Equal(t, "Use Mock Data", configLabel("use_mock_data"))
}

func TestStatusBadge(t *testing.T) {
	assert.Contains(t, statusBadge(models.StatusOffer), "Offer")
}

func TestHasStage(t *testing.T) {
	p := pipeline.DemoPipelines(time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC))[0]
	assert.True(t, hasStage(p, models.StageHR2))
	assert.False(t, hasStage(p, models.StageID("onsite")))
}
