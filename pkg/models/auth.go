package models

// Credentials is the login request body
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StudentRegistration is the student sign-up form
type StudentRegistration struct {
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	ConfirmPassword string   `json:"confirmPassword,omitempty"`
	Name            string   `json:"name"`
	Phone           string   `json:"phone,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	Experience      string   `json:"experience,omitempty"`
	Education       string   `json:"education,omitempty"`
	ResumeURL       string   `json:"resumeUrl,omitempty"`
}

// AdminRegistration is the recruiter sign-up form
type AdminRegistration struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
	Name            string `json:"name"`
	Company         string `json:"company"`
	JobTitle        string `json:"jobTitle"`
	Department      string `json:"department,omitempty"`
	Phone           string `json:"phone,omitempty"`
}

// SuperAdminRegistration is the invite-only platform administrator sign-up form
type SuperAdminRegistration struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	ConfirmPassword  string `json:"confirmPassword,omitempty"`
	Name             string `json:"name"`
	InviteCode       string `json:"inviteCode"`
	TwoFactorEnabled bool   `json:"twoFactorEnabled"`
}
