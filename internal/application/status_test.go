package application

import (
	"testing"

	"github.com/khrees2412/hirepipe/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatuses(t *testing.T) {
	all := Statuses()
	require.Len(t, all, 11)
	assert.Equal(t, models.StatusApplied, all[0])
	assert.Equal(t, models.StatusRejected, all[10])

	all[0] = "mutated"
	assert.Equal(t, models.StatusApplied, Statuses()[0])
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    models.ApplicationStatus
		wantErr bool
	}{
		{"applied", models.StatusApplied, false},
		{"  Coding-Challenge ", models.StatusCodingChallenge, false},
		{"HR-INTERVIEW", models.StatusHRInterview, false},
		{"under_review", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusColor(t *testing.T) {
	tests := map[models.ApplicationStatus]Category{
		models.StatusApplied:         CategoryInfo,
		models.StatusScreening:       CategoryWarning,
		models.StatusAssessment:      CategoryProgress,
		models.StatusCodingChallenge: CategoryProgress,
		models.StatusInterview1:      CategoryInterview,
		models.StatusFinalInterview:  CategoryInterview,
		models.StatusOffer:           CategorySuccess,
		models.StatusAccepted:        CategorySuccess,
		models.StatusRejected:        CategoryNeutral,
		"withdrawn":                  CategoryNeutral,
	}
	for status, want := range tests {
		assert.Equal(t, want, StatusColor(status), string(status))
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Coding Challenge", Label(models.StatusCodingChallenge))
	assert.Equal(t, "Interview 1", Label(models.StatusInterview1))
	assert.Equal(t, "HR Interview", Label(models.StatusHRInterview))
	assert.Equal(t, "Offer", Label(models.StatusOffer))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(models.StatusAccepted))
	assert.True(t, IsTerminal(models.StatusRejected))
	assert.False(t, IsTerminal(models.StatusOffer))
	assert.False(t, IsTerminal(models.StatusApplied))
}
