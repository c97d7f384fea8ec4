package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/khrees2412/hirepipe/pkg/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRegistrationFailed = errors.New("registration failed")
)

// FallbackPassword signs in any fallback user while the auth service is unreachable
const FallbackPassword = "password"

// Remote is the platform auth API
type Remote interface {
	Login(ctx context.Context, creds models.Credentials) (models.Envelope[models.LoginResponse], error)
	Logout(ctx context.Context) error
	RegisterStudent(ctx context.Context, r models.StudentRegistration) (models.Envelope[models.LoginResponse], error)
	RegisterAdmin(ctx context.Context, r models.AdminRegistration) (models.Envelope[models.LoginResponse], error)
	RegisterSuperAdmin(ctx context.Context, r models.SuperAdminRegistration) (models.Envelope[models.LoginResponse], error)
}

// FallbackUsers are the accounts available without a backend
func FallbackUsers(now time.Time) []models.User {
	return []models.User{
		{ID: "1", Email: "student@example.com", Name: "John Doe", Role: models.RoleStudent, CreatedAt: now},
		{ID: "2", Email: "admin@company.com", Name: "Jane Smith", Role: models.RoleAdmin, CreatedAt: now},
		{ID: "3", Email: "superadmin@platform.com", Name: "Admin User", Role: models.RoleSuperAdmin, CreatedAt: now},
	}
}

// Service signs users in and out. With offline set, the remote API is never called.
type Service struct {
	remote  Remote
	session *Session
	logger  *slog.Logger
	offline bool
	now     func() time.Time

	mu       sync.Mutex
	fallback []models.User
}

// NewService creates the auth service
func NewService(remote Remote, session *Session, logger *slog.Logger, offline bool) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		remote:   remote,
		session:  session,
		logger:   logger,
		offline:  offline,
		now:      time.Now,
		fallback: FallbackUsers(time.Now()),
	}
}

// Session returns the persisted session
func (s *Service) Session() *Session {
	return s.session
}

// Login authenticates against the remote API. When the API cannot be reached,
// or offline mode is on, the fallback users are checked instead. A remote
// answer reporting failure is final.
func (s *Service) Login(ctx context.Context, email, password string) (models.User, error) {
	if !s.offline {
		env, err := s.remote.Login(ctx, models.Credentials{Email: email, Password: password})
		if err == nil {
			if !env.Success || env.Data == nil {
				return models.User{}, ErrInvalidCredentials
			}
			return s.signIn(ctx, *env.Data)
		}
		s.logger.Warn("remote login failed, using fallback users", "error", err)
	}

	user, ok := s.findFallback(email)
	if !ok || password != FallbackPassword {
		return models.User{}, ErrInvalidCredentials
	}
	now := s.now()
	user.LastLogin = &now
	return s.signIn(ctx, models.LoginResponse{User: user})
}

// Logout tells the API and always clears the local session
func (s *Service) Logout(ctx context.Context) error {
	if !s.offline {
		if err := s.remote.Logout(ctx); err != nil {
			s.logger.Warn("remote logout failed", "error", err)
		}
	}
	return s.session.Clear(ctx)
}

// RegisterStudent validates and creates a student account
func (s *Service) RegisterStudent(ctx context.Context, r models.StudentRegistration) (models.User, error) {
	if err := ValidateStudent(r); err != nil {
		return models.User{}, err
	}
	return s.register(ctx, "student", func(ctx context.Context) (models.Envelope[models.LoginResponse], error) {
		return s.remote.RegisterStudent(ctx, r)
	}, models.User{
		Email: r.Email,
		Name:  r.Name,
		Role:  models.RoleStudent,
		Profile: &models.Profile{
			Phone:      r.Phone,
			Skills:     r.Skills,
			Experience: r.Experience,
			Education:  r.Education,
			ResumeURL:  r.ResumeURL,
		},
	})
}

// RegisterAdmin validates and creates a recruiter account
func (s *Service) RegisterAdmin(ctx context.Context, r models.AdminRegistration) (models.User, error) {
	if err := ValidateAdmin(r); err != nil {
		return models.User{}, err
	}
	return s.register(ctx, "admin", func(ctx context.Context) (models.Envelope[models.LoginResponse], error) {
		return s.remote.RegisterAdmin(ctx, r)
	}, models.User{
		Email: r.Email,
		Name:  r.Name,
		Role:  models.RoleAdmin,
		Profile: &models.Profile{
			Company:    r.Company,
			JobTitle:   r.JobTitle,
			Department: r.Department,
			Phone:      r.Phone,
		},
	})
}

// RegisterSuperAdmin validates and creates a platform administrator account
func (s *Service) RegisterSuperAdmin(ctx context.Context, r models.SuperAdminRegistration) (models.User, error) {
	if err := ValidateSuperAdmin(r); err != nil {
		return models.User{}, err
	}
	return s.register(ctx, "super-admin", func(ctx context.Context) (models.Envelope[models.LoginResponse], error) {
		return s.remote.RegisterSuperAdmin(ctx, r)
	}, models.User{
		Email: r.Email,
		Name:  r.Name,
		Role:  models.RoleSuperAdmin,
		Profile: &models.Profile{
			TwoFactorEnabled: r.TwoFactorEnabled,
			InviteCode:       r.InviteCode,
		},
	})
}

func (s *Service) register(ctx context.Context, kind string, call func(context.Context) (models.Envelope[models.LoginResponse], error), local models.User) (models.User, error) {
	if !s.offline {
		env, err := call(ctx)
		if err == nil {
			if !env.Success || env.Data == nil {
				if env.Message != "" {
					return models.User{}, fmt.Errorf("%w: %s", ErrRegistrationFailed, env.Message)
				}
				return models.User{}, ErrRegistrationFailed
			}
			return s.signIn(ctx, *env.Data)
		}
		s.logger.Warn("remote registration failed, creating local account", "role", kind, "error", err)
	}

	now := s.now()
	local.ID = strconv.FormatInt(now.UnixMilli(), 10)
	local.CreatedAt = now

	s.mu.Lock()
	s.fallback = append(s.fallback, local)
	s.mu.Unlock()

	return s.signIn(ctx, models.LoginResponse{User: local})
}

func (s *Service) signIn(ctx context.Context, resp models.LoginResponse) (models.User, error) {
	if err := s.session.Save(ctx, resp.User, resp.Token, resp.RefreshToken); err != nil {
		return models.User{}, err
	}
	return resp.User, nil
}

func (s *Service) findFallback(email string) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.fallback {
		if strings.EqualFold(u.Email, email) {
			return u, true
		}
	}
	return models.User{}, false
}
