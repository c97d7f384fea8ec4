package pipeline

import (
	"time"

	"github.com/khrees2412/hirepipe/pkg/models"
)

// DemoPipelines returns the fixed demo set served when the pipeline service is
// unreachable: one early, one late, one rejected and one completed pipeline.
func DemoPipelines(now time.Time) []models.ApplicationPipeline {
	today := now.Truncate(24 * time.Hour)
	daysAgo := func(n int) *time.Time {
		d := today.AddDate(0, 0, -n)
		return &d
	}

	build := func(id, title, company string, applied int, status func(i int) models.StageStatus, date func(i int) *time.Time, feedback map[int]string) models.ApplicationPipeline {
		stages := CreateDefaultStages()
		for i := range stages {
			stages[i].Status = status(i)
			if stages[i].Status.Closed() {
				stages[i].CompletedDate = date(i)
			}
			stages[i].Feedback = feedback[i]
		}
		return Derive(models.ApplicationPipeline{
			ID:          id,
			JobTitle:    title,
			Company:     company,
			AppliedDate: *daysAgo(applied),
			Stages:      stages,
			LastUpdated: today,
		})
	}

	return []models.ApplicationPipeline{
		build("1", "Frontend Developer", "TechCorp Inc.", 5,
			func(i int) models.StageStatus { return progress(i, 2) },
			func(i int) *time.Time { return daysAgo(5 - i) },
			map[int]string{1: "Good performance in logical reasoning and basic coding skills."}),
		build("2", "Backend Engineer", "DataFlow Solutions", 7,
			func(i int) models.StageStatus { return progress(i, 5) },
			func(i int) *time.Time { return daysAgo(7 - i) },
			map[int]string{4: "Great technical discussion, showed deep understanding."}),
		build("3", "Full Stack Developer", "StartupXYZ", 10,
			func(i int) models.StageStatus {
				switch i {
				case 0:
					return models.StageCompleted
				case 1:
					return models.StageRejected
				}
				return models.StagePending
			},
			func(i int) *time.Time { return daysAgo(10 - 2*i) },
			map[int]string{1: "Unfortunately, we decided to move forward with other candidates."}),
		build("4", "Software Engineer", "InnovateTech", 15,
			func(int) models.StageStatus { return models.StageCompleted },
			func(i int) *time.Time { return daysAgo(15 - 2*i) },
			map[int]string{
				4: "Excellent technical knowledge and communication.",
				6: "Great cultural fit, team is excited to work with you.",
				7: "Congratulations! We are pleased to extend an offer.",
			}),
	}
}

// progress marks the first n stages completed and stage n current
func progress(i, n int) models.StageStatus {
	switch {
	case i < n:
		return models.StageCompleted
	case i == n:
		return models.StageCurrent
	}
	return models.StagePending
}
