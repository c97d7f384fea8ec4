package models

import "time"

// StageID identifies one of the canonical hiring stages
type StageID string

const (
	StageApply               StageID = "apply"
	StageAptitudeBasicCoding StageID = "aptitude_basic_coding"
	StageCodingR1            StageID = "coding_r1"
	StageCodingR2            StageID = "coding_r2"
	StageMRTR1               StageID = "mr_tr_1"
	StageMRTR2               StageID = "mr_tr_2"
	StageHR1                 StageID = "hr_1"
	StageHR2                 StageID = "hr_2"
)

// StageStatus is the state of a single pipeline stage
type StageStatus string

const (
	StageCompleted StageStatus = "completed"
	StageCurrent   StageStatus = "current"
	StagePending   StageStatus = "pending"
	StageRejected  StageStatus = "rejected"
)

// Valid reports whether s is a known stage status
func (s StageStatus) Valid() bool {
	switch s {
	case StageCompleted, StageCurrent, StagePending, StageRejected:
		return true
	}
	return false
}

// Closed reports whether the status carries a completion date
func (s StageStatus) Closed() bool {
	return s == StageCompleted || s == StageRejected
}

// OverallStatus is the aggregate state of a pipeline, derived from its stages
type OverallStatus string

const (
	PipelineActive    OverallStatus = "active"
	PipelineCompleted OverallStatus = "completed"
	PipelineRejected  OverallStatus = "rejected"
)

// PipelineStage is one step of an application pipeline
type PipelineStage struct {
	ID            StageID     `json:"id" yaml:"id"`
	Name          string      `json:"name" yaml:"name"`
	Status        StageStatus `json:"status" yaml:"status"`
	CompletedDate *time.Time  `json:"completedDate,omitempty" yaml:"completedDate,omitempty"`
	Feedback      string      `json:"feedback,omitempty" yaml:"feedback,omitempty"`
}

// ApplicationPipeline tracks a candidate's progress through the hiring stages.
// CurrentStage and OverallStatus are derived from Stages and are never set on their own.
type ApplicationPipeline struct {
	ID            string          `json:"id" yaml:"id"`
	ApplicationID string          `json:"applicationId,omitempty" yaml:"applicationId,omitempty"`
	StudentID     string          `json:"studentId,omitempty" yaml:"studentId,omitempty"`
	JobTitle      string          `json:"jobTitle" yaml:"jobTitle"`
	Company       string          `json:"company" yaml:"company"`
	AppliedDate   time.Time       `json:"appliedDate" yaml:"appliedDate"`
	CurrentStage  int             `json:"currentStage" yaml:"currentStage"`
	Stages        []PipelineStage `json:"stages" yaml:"stages"`
	OverallStatus OverallStatus   `json:"overallStatus" yaml:"overallStatus"`
	LastUpdated   time.Time       `json:"lastUpdated" yaml:"lastUpdated"`
}

// StagePatch is a partial update of a single stage. Nil fields are left untouched.
type StagePatch struct {
	Status        *StageStatus `json:"status,omitempty"`
	Feedback      *string      `json:"feedback,omitempty"`
	CompletedDate *time.Time   `json:"completedDate,omitempty"`
}

// PipelineStats summarizes a collection of pipelines
type PipelineStats struct {
	TotalPipelines     int         `json:"totalPipelines"`
	ActivePipelines    int         `json:"activePipelines"`
	CompletedPipelines int         `json:"completedPipelines"`
	RejectedPipelines  int         `json:"rejectedPipelines"`
	StageStats         []StageStat `json:"stageStats"`
}

// StageStat is the per-stage part of PipelineStats
type StageStat struct {
	StageID        StageID `json:"stageId"`
	StageName      string  `json:"stageName"`
	CompletionRate float64 `json:"completionRate"`
}
