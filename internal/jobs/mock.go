package jobs

import (
	"time"

	"github.com/khrees2412/hirepipe/pkg/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MockJobs is the fixed set of postings served when the job service is unreachable
func MockJobs() []models.Job {
	deadline1, deadline2 := date(2024, 2, 15), date(2024, 2, 10)
	return []models.Job{
		{
			ID:               "1",
			Title:            "Frontend Developer",
			Company:          "Tech Corp",
			Description:      "Build amazing user interfaces with React and TypeScript",
			Requirements:     []string{"Bachelor's degree in Computer Science", "2+ years experience"},
			Skills:           []string{"React", "TypeScript", "CSS"},
			Location:         "San Francisco, CA",
			EmploymentType:   "full-time",
			Salary:           &models.Salary{Min: 80000, Max: 120000, Currency: "USD"},
			PostedDate:       date(2024, 1, 15),
			Deadline:         &deadline1,
			Status:           models.JobActive,
			ApplicationCount: 25,
		},
		{
			ID:               "2",
			Title:            "Backend Developer",
			Company:          "StartupXYZ",
			Description:      "Build scalable APIs and microservices",
			Requirements:     []string{"Bachelor's degree", "3+ years experience"},
			Skills:           []string{"Node.js", "Python", "PostgreSQL"},
			Location:         "New York, NY",
			EmploymentType:   "full-time",
			Salary:           &models.Salary{Min: 90000, Max: 140000, Currency: "USD"},
			PostedDate:       date(2024, 1, 10),
			Deadline:         &deadline2,
			Status:           models.JobActive,
			ApplicationCount: 18,
		},
	}
}

// MockStats is served when the job stats endpoint is unreachable
func MockStats() models.JobStats {
	return models.JobStats{
		TotalJobs:                 50,
		ActiveJobs:                35,
		TotalApplications:         250,
		AverageApplicationsPerJob: 7.1,
	}
}
