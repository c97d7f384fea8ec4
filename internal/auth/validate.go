// Package auth implements login, registration and the persisted client session.
package auth

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"

	"github.com/khrees2412/hirepipe/pkg/models"
)

// ValidationError is a registration problem reported to the user before any remote call
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

const (
	MinStudentPassword = 6
	MinAdminPassword   = 8
)

var freeEmailProviders = []string{
	"gmail.com", "yahoo.com", "hotmail.com", "outlook.com",
	"aol.com", "icloud.com", "protonmail.com", "mail.com",
}

var inviteCodes = []string{"SUPER2024", "ADMIN-INVITE-001", "SA-PLATFORM-2024"}

// IsCorporateEmail reports whether email has a domain outside the free providers
func IsCorporateEmail(email string) bool {
	_, domain, ok := strings.Cut(email, "@")
	if !ok || domain == "" {
		return false
	}
	return !slices.Contains(freeEmailProviders, strings.ToLower(domain))
}

// ValidInviteCode checks a super-admin invite code, ignoring case
func ValidInviteCode(code string) bool {
	return slices.Contains(inviteCodes, strings.ToUpper(strings.TrimSpace(code)))
}

func checkCommon(email, name, password, confirm string, minLen int) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return invalid("Please enter a valid email address")
	}
	if strings.TrimSpace(name) == "" {
		return invalid("Name is required")
	}
	if confirm != "" && password != confirm {
		return invalid("Passwords do not match")
	}
	if len(password) < minLen {
		return invalid(fmt.Sprintf("Password must be at least %d characters long", minLen))
	}
	return nil
}

// ValidateStudent checks a student registration
func ValidateStudent(r models.StudentRegistration) error {
	return checkCommon(r.Email, r.Name, r.Password, r.ConfirmPassword, MinStudentPassword)
}

// ValidateAdmin checks an admin registration. Admins must sign up with a corporate address.
func ValidateAdmin(r models.AdminRegistration) error {
	if !IsCorporateEmail(r.Email) {
		return invalid("Please use a corporate email address (not personal email providers)")
	}
	if err := checkCommon(r.Email, r.Name, r.Password, r.ConfirmPassword, MinAdminPassword); err != nil {
		return err
	}
	if strings.TrimSpace(r.Company) == "" {
		return invalid("Company name is required")
	}
	return nil
}

// ValidateSuperAdmin checks a super-admin registration
func ValidateSuperAdmin(r models.SuperAdminRegistration) error {
	if !ValidInviteCode(r.InviteCode) {
		return invalid("Invalid invite code. Please contact your system administrator.")
	}
	return checkCommon(r.Email, r.Name, r.Password, r.ConfirmPassword, MinAdminPassword)
}
