package auth

import (
	"testing"

	"github.com/khrees2412/hirepipe/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestValidateStudent(t *testing.T) {
	tests := []struct {
		name    string
		reg     models.StudentRegistration
		wantMsg string
	}{
		{"ok", models.StudentRegistration{Email: "a@b.edu", Name: "A", Password: "123456", ConfirmPassword: "123456"}, ""},
		{"mismatch", models.StudentRegistration{Email: "a@b.edu", Name: "A", Password: "123456", ConfirmPassword: "654321"}, "Passwords do not match"},
		{"short", models.StudentRegistration{Email: "a@b.edu", Name: "A", Password: "12345"}, "Password must be at least 6 characters long"},
		{"bad email", models.StudentRegistration{Email: "not-an-email", Name: "A", Password: "123456"}, "Please enter a valid email address"},
		{"no name", models.StudentRegistration{Email: "a@b.edu", Password: "123456"}, "Name is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStudent(tt.reg)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantMsg)
		})
	}
}

func TestValidateAdmin(t *testing.T) {
	base := models.AdminRegistration{Email: "jane@acme.io", Name: "Jane", Password: "12345678", Company: "Acme"}
	assert.NoError(t, ValidateAdmin(base))

	free := base
	free.Email = "jane@Yahoo.com"
	assert.EqualError(t, ValidateAdmin(free), "Please use a corporate email address (not personal email providers)")

	short := base
	short.Password = "1234567"
	assert.EqualError(t, ValidateAdmin(short), "Password must be at least 8 characters long")

	noCompany := base
	noCompany.Company = " "
	assert.EqualError(t, ValidateAdmin(noCompany), "Company name is required")
}

func TestValidateSuperAdmin(t *testing.T) {
	reg := models.SuperAdminRegistration{Email: "root@platform.com", Name: "Root", Password: "12345678", InviteCode: "sa-platform-2024"}
	assert.NoError(t, ValidateSuperAdmin(reg))

	reg.InviteCode = "LETMEIN"
	assert.EqualError(t, ValidateSuperAdmin(reg), "Invalid invite code. Please contact your system administrator.")
}

func TestIsCorporateEmail(t *testing.T) {
	assert.True(t, IsCorporateEmail("hr@company.com"))
	assert.False(t, IsCorporateEmail("me@gmail.com"))
	assert.False(t, IsCorporateEmail("me@ICLOUD.COM"))
	assert.False(t, IsCorporateEmail("no-domain"))
	assert.False(t, IsCorporateEmail("trailing@"))
}
