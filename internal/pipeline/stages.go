package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/khrees2412/hirepipe/pkg/models"
)

var (
	ErrUnknownStage     = errors.New("unknown stage")
	ErrInvalidStatus    = errors.New("invalid stage status")
	ErrCustomStages     = errors.New("custom stage lists are disabled")
	ErrNothingToAdvance = errors.New("pipeline has no open stage")
)

// canonicalStages is the fixed 8-stage template, in order
var canonicalStages = []struct {
	ID   models.StageID
	Name string
}{
	{models.StageApply, "Apply"},
	{models.StageAptitudeBasicCoding, "Aptitude + Basic coding"},
	{models.StageCodingR1, "Coding R1"},
	{models.StageCodingR2, "Coding R2"},
	{models.StageMRTR1, "MR+TR-1"},
	{models.StageMRTR2, "MR+TR-2"},
	{models.StageHR1, "HR-1"},
	{models.StageHR2, "HR-2"},
}

// StageCount is the number of canonical stages
var StageCount = len(canonicalStages)

// CreateDefaultStages returns the canonical stages, all pending
func CreateDefaultStages() []models.PipelineStage {
	stages := make([]models.PipelineStage, len(canonicalStages))
	for i, s := range canonicalStages {
		stages[i] = models.PipelineStage{ID: s.ID, Name: s.Name, Status: models.StagePending}
	}
	return stages
}

// IsCanonical reports whether stages follow the default template ids in order
func IsCanonical(stages []models.PipelineStage) bool {
	if len(stages) != len(canonicalStages) {
		return false
	}
	for i, s := range stages {
		if s.ID != canonicalStages[i].ID {
			return false
		}
	}
	return true
}

// StageName returns the display label of a canonical stage id
func StageName(id models.StageID) string {
	for _, s := range canonicalStages {
		if s.ID == id {
			return s.Name
		}
	}
	return string(id)
}

// Aggregate holds the fields derived from a stage list
type Aggregate struct {
	CurrentStage  int
	OverallStatus models.OverallStatus
}

// DeriveAggregate computes the 1-based current stage and the overall status.
// Any rejected stage makes the pipeline rejected; all stages completed make it
// completed. The current stage is the first stage marked current, or the number
// of completed stages plus one when none is.
func DeriveAggregate(stages []models.PipelineStage) Aggregate {
	completed := 0
	current := -1
	rejected := false
	for i, s := range stages {
		switch s.Status {
		case models.StageCompleted:
			completed++
		case models.StageCurrent:
			if current < 0 {
				current = i
			}
		case models.StageRejected:
			rejected = true
		}
	}

	agg := Aggregate{OverallStatus: models.PipelineActive}
	switch {
	case rejected:
		agg.OverallStatus = models.PipelineRejected
	case completed == len(stages):
		agg.OverallStatus = models.PipelineCompleted
	}

	if current >= 0 {
		agg.CurrentStage = current + 1
	} else {
		agg.CurrentStage = completed + 1
	}
	return agg
}

// Derive returns p with CurrentStage and OverallStatus recomputed from its stages
func Derive(p models.ApplicationPipeline) models.ApplicationPipeline {
	agg := DeriveAggregate(p.Stages)
	p.CurrentStage = agg.CurrentStage
	p.OverallStatus = agg.OverallStatus
	return p
}

// ApplyPatch returns a copy of stage with patch applied. A completion date is
// only kept on completed or rejected stages; when the status changes to one of
// them and the patch carries no date, now is used.
func ApplyPatch(stage models.PipelineStage, patch models.StagePatch, now time.Time) (models.PipelineStage, error) {
	next := stage
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return stage, fmt.Errorf("%w: %q", ErrInvalidStatus, *patch.Status)
		}
		next.Status = *patch.Status
	}
	if patch.Feedback != nil {
		next.Feedback = *patch.Feedback
	}

	switch {
	case !next.Status.Closed():
		next.CompletedDate = nil
	case patch.CompletedDate != nil:
		d := *patch.CompletedDate
		next.CompletedDate = &d
	case patch.Status != nil && *patch.Status != stage.Status:
		d := now
		next.CompletedDate = &d
	}
	return next, nil
}

// PatchStage applies patch to the named stage of p and re-derives the aggregate
// fields. p is not modified; the stage slice of the result is a fresh copy.
func PatchStage(p models.ApplicationPipeline, stageID models.StageID, patch models.StagePatch, now time.Time) (models.ApplicationPipeline, error) {
	idx := indexOf(p.Stages, stageID)
	if idx < 0 {
		return p, fmt.Errorf("%w: %s", ErrUnknownStage, stageID)
	}

	stage, err := ApplyPatch(p.Stages[idx], patch, now)
	if err != nil {
		return p, err
	}

	next := p
	next.Stages = cloneStages(p.Stages)
	next.Stages[idx] = stage
	next.LastUpdated = now
	return Derive(next), nil
}

// Advance completes the open stage of p and marks the following one current.
// The open stage is the first stage that is current, or else the first pending one.
func Advance(p models.ApplicationPipeline, feedback string, now time.Time) (models.ApplicationPipeline, error) {
	if status := DeriveAggregate(p.Stages).OverallStatus; status != models.PipelineActive {
		return p, fmt.Errorf("%w: pipeline is %s", ErrNothingToAdvance, status)
	}
	idx := openStage(p.Stages)
	if idx < 0 {
		return p, ErrNothingToAdvance
	}

	next := p
	next.Stages = cloneStages(p.Stages)
	completed := models.StageCompleted
	patch := models.StagePatch{Status: &completed}
	if feedback != "" {
		patch.Feedback = &feedback
	}
	stage, err := ApplyPatch(next.Stages[idx], patch, now)
	if err != nil {
		return p, err
	}
	next.Stages[idx] = stage

	if idx+1 < len(next.Stages) {
		current := models.StageCurrent
		following, err := ApplyPatch(next.Stages[idx+1], models.StagePatch{Status: &current}, now)
		if err != nil {
			return p, err
		}
		next.Stages[idx+1] = following
	}
	next.LastUpdated = now
	return Derive(next), nil
}

// Reject marks the open stage of p as rejected, recording reason as feedback
func Reject(p models.ApplicationPipeline, reason string, now time.Time) (models.ApplicationPipeline, error) {
	if status := DeriveAggregate(p.Stages).OverallStatus; status != models.PipelineActive {
		return p, fmt.Errorf("%w: pipeline is %s", ErrNothingToAdvance, status)
	}
	idx := openStage(p.Stages)
	if idx < 0 {
		return p, ErrNothingToAdvance
	}

	rejected := models.StageRejected
	patch := models.StagePatch{Status: &rejected}
	if reason != "" {
		patch.Feedback = &reason
	}
	return PatchStage(p, p.Stages[idx].ID, patch, now)
}

// DeriveApplicationStatus maps a pipeline onto the coarse application status.
// The mapping is one-directional and is not applied automatically: the two
// progress models are stored independently.
func DeriveApplicationStatus(p models.ApplicationPipeline) models.ApplicationStatus {
	agg := DeriveAggregate(p.Stages)
	switch agg.OverallStatus {
	case models.PipelineRejected:
		return models.StatusRejected
	case models.PipelineCompleted:
		return models.StatusOffer
	}

	idx := agg.CurrentStage - 1
	if idx < 0 || idx >= len(p.Stages) {
		return models.StatusApplied
	}
	switch p.Stages[idx].ID {
	case models.StageApply:
		return models.StatusApplied
	case models.StageAptitudeBasicCoding:
		return models.StatusAssessment
	case models.StageCodingR1, models.StageCodingR2:
		return models.StatusCodingChallenge
	case models.StageMRTR1:
		return models.StatusInterview1
	case models.StageMRTR2:
		return models.StatusInterview2
	case models.StageHR1:
		return models.StatusHRInterview
	case models.StageHR2:
		return models.StatusFinalInterview
	}
	return models.StatusScreening
}

func openStage(stages []models.PipelineStage) int {
	for i, s := range stages {
		if s.Status == models.StageCurrent {
			return i
		}
	}
	for i, s := range stages {
		if s.Status == models.StagePending {
			return i
		}
	}
	return -1
}

func indexOf(stages []models.PipelineStage, id models.StageID) int {
	for i, s := range stages {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func cloneStages(stages []models.PipelineStage) []models.PipelineStage {
	out := make([]models.PipelineStage, len(stages))
	copy(out, stages)
	return out
}

func clonePipeline(p models.ApplicationPipeline) models.ApplicationPipeline {
	p.Stages = cloneStages(p.Stages)
	return p
}
