package models

import "time"

// ApplicationStatus is the single-field progress marker used by list views.
// It is independent from the stage-level pipeline model.
type ApplicationStatus string

const (
	StatusApplied         ApplicationStatus = "applied"
	StatusScreening       ApplicationStatus = "screening"
	StatusAssessment      ApplicationStatus = "assessment"
	StatusCodingChallenge ApplicationStatus = "coding-challenge"
	StatusInterview1      ApplicationStatus = "interview-1"
	StatusInterview2      ApplicationStatus = "interview-2"
	StatusHRInterview     ApplicationStatus = "hr-interview"
	StatusFinalInterview  ApplicationStatus = "final-interview"
	StatusOffer           ApplicationStatus = "offer"
	StatusAccepted        ApplicationStatus = "accepted"
	StatusRejected        ApplicationStatus = "rejected"
)

// Application represents a student's application to a job
type Application struct {
	ID          string            `json:"id"`
	JobID       string            `json:"jobId"`
	StudentID   string            `json:"studentId"`
	Status      ApplicationStatus `json:"status"`
	AIScore     *float64          `json:"aiScore,omitempty"`
	AppliedAt   time.Time         `json:"appliedAt"`
	ResumeURL   string            `json:"resumeUrl"`
	CoverLetter string            `json:"coverLetter,omitempty"`
	Feedback    string            `json:"feedback,omitempty"`
}

// StatusUpdate is the body of an application status change
type StatusUpdate struct {
	Status   ApplicationStatus `json:"status"`
	Feedback string            `json:"feedback,omitempty"`
}

// ApplicationStats is the aggregate returned by the stats endpoint
type ApplicationStats struct {
	Total    int                       `json:"total"`
	ByStatus map[ApplicationStatus]int `json:"byStatus"`
}
