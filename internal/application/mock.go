package application

import (
	"time"

	"github.com/khrees2412/hirepipe/pkg/models"
)

func score(v float64) *float64 { return &v }

// MockApplications is the fixed set served when the application service is unreachable
func MockApplications() []models.Application {
	return []models.Application{
		{
			ID:          "1",
			JobID:       "1",
			StudentID:   "student1",
			Status:      models.StatusScreening,
			AIScore:     score(85),
			AppliedAt:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			ResumeURL:   "john_doe_resume.pdf",
			CoverLetter: "I am excited to apply for this position...",
		},
		{
			ID:          "2",
			JobID:       "2",
			StudentID:   "student1",
			Status:      models.StatusInterview1,
			AIScore:     score(92),
			AppliedAt:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			ResumeURL:   "john_doe_resume.pdf",
			CoverLetter: "With my experience in Node.js and Python...",
		},
		{
			ID:        "3",
			JobID:     "3",
			StudentID: "student1",
			Status:    models.StatusApplied,
			AIScore:   score(78),
			AppliedAt: time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
			ResumeURL: "john_doe_resume.pdf",
		},
	}
}
