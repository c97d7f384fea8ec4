package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// JobStatus is the lifecycle state of a posting
type JobStatus string

const (
	JobActive JobStatus = "active"
	JobPaused JobStatus = "paused"
	JobClosed JobStatus = "closed"
	JobDraft  JobStatus = "draft"
)

// Salary is either free text ("80k-120k") or a structured range
type Salary struct {
	Text     string `json:"-"`
	Min      int    `json:"min,omitempty"`
	Max      int    `json:"max,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// String renders the salary for display
func (s Salary) String() string {
	if s.Text != "" {
		return s.Text
	}
	if s.Min == 0 && s.Max == 0 {
		return ""
	}
	return fmt.Sprintf("%d - %d %s", s.Min, s.Max, s.Currency)
}

// MarshalJSON emits a string for free-text salaries and an object otherwise
func (s Salary) MarshalJSON() ([]byte, error) {
	if s.Text != "" {
		return json.Marshal(s.Text)
	}
	type plain Salary
	return json.Marshal(plain(s))
}

// UnmarshalJSON accepts both the string and the object form
func (s *Salary) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		*s = Salary{}
		return json.Unmarshal(data, &s.Text)
	}
	type plain Salary
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Salary(p)
	return nil
}

// Job represents a job posting owned by an admin
type Job struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Company          string     `json:"company"`
	Description      string     `json:"description"`
	Requirements     []string   `json:"requirements"`
	Skills           []string   `json:"skills"`
	Location         string     `json:"location,omitempty"`
	EmploymentType   string     `json:"employmentType,omitempty"` // full-time, part-time, contract, internship
	Salary           *Salary    `json:"salary,omitempty"`
	URL              string     `json:"url,omitempty"`
	PostedDate       time.Time  `json:"postedDate"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	Status           JobStatus  `json:"status"`
	AdminID          string     `json:"adminId,omitempty"`
	ApplicationCount int        `json:"applicationCount"`
}

// JobStats is the aggregate returned by the job stats endpoint
type JobStats struct {
	TotalJobs                 int     `json:"totalJobs"`
	ActiveJobs                int     `json:"activeJobs"`
	TotalApplications         int     `json:"totalApplications"`
	AverageApplicationsPerJob float64 `json:"averageApplicationsPerJob"`
}

// JobsPage is one page of the job listing endpoint
type JobsPage struct {
	Jobs       []Job `json:"jobs"`
	Total      int   `json:"total"`
	Page       int   `json:"page"`
	TotalPages int   `json:"totalPages"`
}
