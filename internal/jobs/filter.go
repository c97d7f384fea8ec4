package jobs

import (
	"strings"

	"github.com/khrees2412/hirepipe/pkg/models"
)

// Filter narrows a job listing. Zero fields match everything.
type Filter struct {
	Search         string
	Location       string
	EmploymentType string
	Skills         []string
}

// Match reports whether job passes every set criterion
func (f Filter) Match(job models.Job) bool {
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(job.Title), term) && !strings.Contains(strings.ToLower(job.Company), term) {
			return false
		}
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(job.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.EmploymentType != "" && !strings.EqualFold(job.EmploymentType, f.EmploymentType) {
		return false
	}
	for _, want := range f.Skills {
		if !hasSkill(job.Skills, want) {
			return false
		}
	}
	return true
}

// Apply returns the jobs matching f, in order
func (f Filter) Apply(jobs []models.Job) []models.Job {
	out := make([]models.Job, 0, len(jobs))
	for _, job := range jobs {
		if f.Match(job) {
			out = append(out, job)
		}
	}
	return out
}

func hasSkill(skills []string, want string) bool {
	for _, s := range skills {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}

// ComputeStats aggregates a job collection
func ComputeStats(jobs []models.Job) models.JobStats {
	stats := models.JobStats{TotalJobs: len(jobs)}
	for _, job := range jobs {
		if job.Status == models.JobActive {
			stats.ActiveJobs++
		}
		stats.TotalApplications += job.ApplicationCount
	}
	if stats.TotalJobs > 0 {
		stats.AverageApplicationsPerJob = float64(stats.TotalApplications) / float64(stats.TotalJobs)
	}
	return stats
}
