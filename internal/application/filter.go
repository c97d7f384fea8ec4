package application

import "github.com/khrees2412/hirepipe/pkg/models"

// FilterByStatus returns the applications with the given status, in their
// original order. FilterAll returns a copy of apps.
func FilterByStatus(apps []models.Application, status string) []models.Application {
	out := make([]models.Application, 0, len(apps))
	for _, app := range apps {
		if status == FilterAll || string(app.Status) == status {
			out = append(out, app)
		}
	}
	return out
}

// CountByStatus counts applications per status in a single pass
func CountByStatus(apps []models.Application) map[models.ApplicationStatus]int {
	counts := make(map[models.ApplicationStatus]int)
	for _, app := range apps {
		counts[app.Status]++
	}
	return counts
}

// Summary is the dashboard view of an application collection
type Summary struct {
	Total        int
	ByStatus     map[models.ApplicationStatus]int
	InProgress   int
	Interviews   int
	Offers       int
	Rejected     int
	ResponseRate float64 // percentage of applications that moved past "applied"
	AvgAIScore   float64
	Scored       int
}

// Summarize computes a Summary over apps
func Summarize(apps []models.Application) Summary {
	s := Summary{
		Total:    len(apps),
		ByStatus: make(map[models.ApplicationStatus]int),
	}

	responded := 0
	scoreSum := 0.0
	for _, app := range apps {
		s.ByStatus[app.Status]++

		switch StatusColor(app.Status) {
		case CategoryInterview:
			s.Interviews++
		case CategorySuccess:
			s.Offers++
		}
		if app.Status == models.StatusRejected {
			s.Rejected++
		}
		if !IsTerminal(app.Status) && app.Status != models.StatusOffer {
			s.InProgress++
		}
		if app.Status != models.StatusApplied {
			responded++
		}
		if app.AIScore != nil {
			scoreSum += *app.AIScore
			s.Scored++
		}
	}

	if s.Total > 0 {
		s.ResponseRate = float64(responded) / float64(s.Total) * 100
	}
	if s.Scored > 0 {
		s.AvgAIScore = scoreSum / float64(s.Scored)
	}
	return s
}

// Stats converts a collection into the wire stats shape
func Stats(apps []models.Application) models.ApplicationStats {
	return models.ApplicationStats{Total: len(apps), ByStatus: CountByStatus(apps)}
}
