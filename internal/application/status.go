// Package application holds the coarse single-status progress model used by
// the candidate and application list views, and the store that serves it.
package application

import (
	"fmt"
	"strings"

	"github.com/khrees2412/hirepipe/pkg/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// statuses is the ordered status set, from first contact to the final outcome
var statuses = []models.ApplicationStatus{
	models.StatusApplied,
	models.StatusScreening,
	models.StatusAssessment,
	models.StatusCodingChallenge,
	models.StatusInterview1,
	models.StatusInterview2,
	models.StatusHRInterview,
	models.StatusFinalInterview,
	models.StatusOffer,
	models.StatusAccepted,
	models.StatusRejected,
}

// FilterAll selects every application in FilterByStatus
const FilterAll = "all"

// Statuses returns the ordered list of application statuses
func Statuses() []models.ApplicationStatus {
	out := make([]models.ApplicationStatus, len(statuses))
	copy(out, statuses)
	return out
}

// Index returns the position of status in the ordered set, or -1
func Index(status models.ApplicationStatus) int {
	for i, s := range statuses {
		if s == status {
			return i
		}
	}
	return -1
}

// Valid reports whether status is one of the 11 known values
func Valid(status models.ApplicationStatus) bool {
	return Index(status) >= 0
}

// ParseStatus converts user input into a status. Case and surrounding space are ignored.
func ParseStatus(s string) (models.ApplicationStatus, error) {
	status := models.ApplicationStatus(strings.ToLower(strings.TrimSpace(s)))
	if !Valid(status) {
		return "", fmt.Errorf("invalid application status %q", s)
	}
	return status, nil
}

// IsTerminal reports whether status ends the process. Updates are not
// restricted by it; any status may be set from any other.
func IsTerminal(status models.ApplicationStatus) bool {
	return status == models.StatusAccepted || status == models.StatusRejected
}

// Category is the display bucket a status is rendered with
type Category string

const (
	CategoryInfo      Category = "info"
	CategoryWarning   Category = "warning"
	CategoryProgress  Category = "progress"
	CategoryInterview Category = "interview"
	CategorySuccess   Category = "success"
	CategoryNeutral   Category = "neutral"
)

// StatusColor returns the display category of status. Unknown values are neutral.
func StatusColor(status models.ApplicationStatus) Category {
	switch status {
	case models.StatusApplied:
		return CategoryInfo
	case models.StatusScreening:
		return CategoryWarning
	case models.StatusAssessment, models.StatusCodingChallenge:
		return CategoryProgress
	case models.StatusInterview1, models.StatusInterview2, models.StatusHRInterview, models.StatusFinalInterview:
		return CategoryInterview
	case models.StatusOffer, models.StatusAccepted:
		return CategorySuccess
	}
	return CategoryNeutral
}

// Label renders status for display: "coding-challenge" becomes "Coding Challenge"
func Label(status models.ApplicationStatus) string {
	label := cases.Title(language.English).String(strings.ReplaceAll(string(status), "-", " "))
	return strings.Replace(label, "Hr ", "HR ", 1)
}
