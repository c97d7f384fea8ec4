package access

import (
	"testing"

	"github.com/khrees2412/hirepipe/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paths(es []Entry) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Path
	}
	return out
}

func TestAllEntries(t *testing.T) {
	require.Len(t, All(), 16)
}

func TestEntriesForStudent(t *testing.T) {
	got := EntriesFor(models.RoleStudent)

	assert.Len(t, got, 10)
	assert.Equal(t, "/dashboard", got[0].Path)
	assert.Equal(t, "/dashboard/student-pipeline", got[5].Path)
	for _, e := range got {
		assert.Contains(t, e.Roles, models.RoleStudent)
	}
	assert.NotContains(t, paths(got), "/dashboard/job-postings")
	assert.NotContains(t, paths(got), "/dashboard/analytics")
}

func TestEntriesForPreservesMasterOrder(t *testing.T) {
	for _, role := range []models.Role{models.RoleStudent, models.RoleAdmin, models.RoleSuperAdmin} {
		t.Run(string(role), func(t *testing.T) {
			var want []string
			for _, e := range All() {
				for _, r := range e.Roles {
					if r == role {
						want = append(want, e.Path)
					}
				}
			}
			assert.Equal(t, want, paths(EntriesFor(role)))
		})
	}
}

func TestEntriesForAdminAndSuperAdmin(t *testing.T) {
	assert.Equal(t, []string{
		"/dashboard",
		"/dashboard/job-postings",
		"/dashboard/candidates",
		"/dashboard/pipeline",
		"/dashboard/analytics",
	}, paths(EntriesFor(models.RoleAdmin)))

	assert.Equal(t, []string{
		"/dashboard",
		"/dashboard/analytics",
		"/admin-management",
		"/settings",
	}, paths(EntriesFor(models.RoleSuperAdmin)))
}

func TestEntriesForUnknownRole(t *testing.T) {
	assert.Empty(t, EntriesFor("recruiter"))
	assert.Empty(t, EntriesFor(""))
}

func TestAllowed(t *testing.T) {
	assert.True(t, Allowed(models.RoleAdmin, "/dashboard/candidates"))
	assert.False(t, Allowed(models.RoleStudent, "/dashboard/candidates"))
	assert.True(t, Allowed(models.RoleSuperAdmin, "/settings"))
	assert.False(t, Allowed(models.RoleAdmin, "/nowhere"))
}

func TestEntriesAreCopies(t *testing.T) {
	got := EntriesFor(models.RoleAdmin)
	got[0].Roles[0] = "intruder"
	assert.True(t, Allowed(models.RoleStudent, "/dashboard"))
}
