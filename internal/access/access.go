// Package access maps platform roles to the navigation entries they can see.
package access

import (
	"slices"

	"github.com/khrees2412/hirepipe/pkg/models"
)

// Entry is one navigation item together with the roles allowed to see it
type Entry struct {
	Label string
	Path  string
	Roles []models.Role
}

var (
	student    = []models.Role{models.RoleStudent}
	admin      = []models.Role{models.RoleAdmin}
	superAdmin = []models.Role{models.RoleSuperAdmin}
)

// entries is the master navigation list; output order always follows it
var entries = []Entry{
	{"Dashboard", "/dashboard", []models.Role{models.RoleStudent, models.RoleAdmin, models.RoleSuperAdmin}},
	{"Applications", "/dashboard/applications", student},
	{"Jobs", "/dashboard/jobs", student},
	{"Assessments", "/dashboard/assessments", student},
	{"Interviews", "/dashboard/interviews", student},
	{"Pipeline", "/dashboard/student-pipeline", student},
	{"Coding Challenges", "/dashboard/challenges", student},
	{"Practice", "/dashboard/practice", student},
	{"Interview Preparation", "/dashboard/interview-preparation", student},
	{"Mock Interviews", "/dashboard/mock-interviews", student},
	{"Job Postings", "/dashboard/job-postings", admin},
	{"Candidates", "/dashboard/candidates", admin},
	{"Pipeline", "/dashboard/pipeline", admin},
	{"Analytics", "/dashboard/analytics", []models.Role{models.RoleAdmin, models.RoleSuperAdmin}},
	{"Admin Management", "/admin-management", superAdmin},
	{"Global Settings", "/settings", superAdmin},
}

// All returns a copy of the master entry list
func All() []Entry {
	out := make([]Entry, len(entries))
	for i, e := range entries {
		out[i] = e.clone()
	}
	return out
}

// EntriesFor returns the entries visible to role, in master list order.
// An unknown role sees nothing.
func EntriesFor(role models.Role) []Entry {
	var out []Entry
	for _, e := range entries {
		if slices.Contains(e.Roles, role) {
			out = append(out, e.clone())
		}
	}
	return out
}

// Allowed reports whether role may open path
func Allowed(role models.Role, path string) bool {
	for _, e := range entries {
		if e.Path == path && slices.Contains(e.Roles, role) {
			return true
		}
	}
	return false
}

func (e Entry) clone() Entry {
	e.Roles = slices.Clone(e.Roles)
	return e
}
