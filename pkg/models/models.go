package models

import "time"

// Role is the platform role attached to an authenticated user
type Role string

const (
	RoleStudent    Role = "student"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super-admin"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Profile holds the role-specific profile fields of a user
type Profile struct {
	// Student
	Phone      string   `json:"phone,omitempty"`
	Skills     []string `json:"skills,omitempty"`
	Experience string   `json:"experience,omitempty"`
	Education  string   `json:"education,omitempty"`
	ResumeURL  string   `json:"resumeUrl,omitempty"`

	// Admin
	Company    string `json:"company,omitempty"`
	JobTitle   string `json:"jobTitle,omitempty"`
	Department string `json:"department,omitempty"`

	// Super admin
	TwoFactorEnabled bool   `json:"twoFactorEnabled,omitempty"`
	InviteCode       string `json:"inviteCode,omitempty"`
}

// User represents an authenticated platform user
type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      Role       `json:"role"`
	Avatar    string     `json:"avatar,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	Profile   *Profile   `json:"profile,omitempty"`
}

// Envelope is the response shape returned by every platform endpoint
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK wraps v in a successful envelope
func OK[T any](v T) Envelope[T] {
	return Envelope[T]{Success: true, Data: &v}
}

// Failed builds an unsuccessful envelope carrying message
func Failed[T any](message string) Envelope[T] {
	return Envelope[T]{Success: false, Message: message}
}

// LoginResponse is the payload of the login and registration endpoints
type LoginResponse struct {
	User         User   `json:"user"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}
