package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/khrees2412/hirepipe/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStore() *memStore { return &memStore{data: map[string]string{}} }

func (m *memStore) GetState(ctx context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) SetState(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memStore) DeleteState(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

var errUnreachable = errors.New("dial tcp 127.0.0.1:8080: connection refused")

// fakeRemote answers with resp, or fails with err when resp is nil
type fakeRemote struct {
	resp      *models.Envelope[models.LoginResponse]
	calls     int
	logoutErr error
}

func (f *fakeRemote) answer() (models.Envelope[models.LoginResponse], error) {
	f.calls++
	if f.resp == nil {
		return models.Envelope[models.LoginResponse]{}, errUnreachable
	}
	return *f.resp, nil
}

func (f *fakeRemote) Login(ctx context.Context, creds models.Credentials) (models.Envelope[models.LoginResponse], error) {
	return f.answer()
}

func (f *fakeRemote) Logout(ctx context.Context) error { return f.logoutErr }

func (f *fakeRemote) RegisterStudent(ctx context.Context, r models.StudentRegistration) (models.Envelope[models.LoginResponse], error) {
	return f.answer()
}

func (f *fakeRemote) RegisterAdmin(ctx context.Context, r models.AdminRegistration) (models.Envelope[models.LoginResponse], error) {
	return f.answer()
}

func (f *fakeRemote) RegisterSuperAdmin(ctx context.Context, r models.SuperAdminRegistration) (models.Envelope[models.LoginResponse], error) {
	return f.answer()
}

var testNow = time.Date(2025, 6, 2, 8, 30, 0, 0, time.UTC)

func newTestService(remote Remote, offline bool) (*Service, *memStore) {
	store := newMemStore()
	svc := NewService(remote, NewSession(store), slog.New(slog.NewTextHandler(io.Discard, nil)), offline)
	svc.now = func() time.Time { return testNow }
	return svc, store
}

func TestLoginRemoteSuccess(t *testing.T) {
	resp := models.OK(models.LoginResponse{
		User:         models.User{ID: "u-9", Email: "dev@acme.io", Role: models.RoleAdmin},
		Token:        "access",
		RefreshToken: "refresh",
	})
	svc, store := newTestService(&fakeRemote{resp: &resp}, false)

	user, err := svc.Login(context.Background(), "dev@acme.io", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "u-9", user.ID)
	assert.Equal(t, "access", svc.Session().Token())
	assert.Equal(t, "refresh", store.data[KeyRefreshToken])
	assert.Contains(t, store.data[KeyCurrentUser], `"id":"u-9"`)
}

func TestLoginRemoteRejection(t *testing.T) {
	resp := models.Failed[models.LoginResponse]("bad credentials")
	svc, store := newTestService(&fakeRemote{resp: &resp}, false)

	_, err := svc.Login(context.Background(), "student@example.com", FallbackPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, store.data)
}

func TestLoginFallback(t *testing.T) {
	tests := []struct {
		name     string
		offline  bool
		email    string
		password string
		wantErr  bool
		wantRole models.Role
	}{
		{"unreachable student", false, "student@example.com", "password", false, models.RoleStudent},
		{"offline admin", true, "ADMIN@company.com", "password", false, models.RoleAdmin},
		{"wrong password", false, "superadmin@platform.com", "hunter2", true, ""},
		{"unknown user", true, "nobody@example.com", "password", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := &fakeRemote{}
			svc, _ := newTestService(remote, tt.offline)

			user, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.offline {
				assert.Zero(t, remote.calls)
			}
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCredentials)
				_, ok := svc.Session().User()
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, user.Role)
			require.NotNil(t, user.LastLogin)
			assert.Equal(t, testNow, *user.LastLogin)
		})
	}
}

func TestLogoutAlwaysClears(t *testing.T) {
	svc, store := newTestService(&fakeRemote{logoutErr: errUnreachable}, false)
	_, err := svc.Login(context.Background(), "student@example.com", FallbackPassword)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background()))
	assert.Empty(t, store.data)
	_, ok := svc.Session().User()
	assert.False(t, ok)
}

func TestSessionRestore(t *testing.T) {
	svc, store := newTestService(&fakeRemote{}, true)
	_, err := svc.Login(context.Background(), "admin@company.com", FallbackPassword)
	require.NoError(t, err)

	restored := NewSession(store)
	user, err := restored.Restore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "Jane Smith", user.Name)

	empty, err := NewSession(newMemStore()).Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, empty)

	store.data[KeyCurrentUser] = "{not json"
	_, err = NewSession(store).Restore(context.Background())
	assert.Error(t, err)
	assert.NotContains(t, store.data, KeyCurrentUser)
}

func TestFallbackLoginDropsPreviousTokens(t *testing.T) {
	resp := models.OK(models.LoginResponse{
		User:         models.User{ID: "2", Email: "admin@company.com", Role: models.RoleAdmin},
		Token:        "ADMIN-TOKEN",
		RefreshToken: "ADMIN-REFRESH",
	})
	remote := &fakeRemote{resp: &resp}
	svc, store := newTestService(remote, false)

	_, err := svc.Login(context.Background(), "admin@company.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, "ADMIN-TOKEN", store.data[KeyAuthToken])

	remote.resp = nil
	_, err = svc.Login(context.Background(), "student@example.com", FallbackPassword)
	require.NoError(t, err)
	assert.Empty(t, svc.Session().Token())
	assert.NotContains(t, store.data, KeyAuthToken)
	assert.NotContains(t, store.data, KeyRefreshToken)

	restored := NewSession(store)
	user, err := restored.Restore(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.Empty(t, restored.Token())
}

func TestRegisterValidationShortCircuits(t *testing.T) {
	remote := &fakeRemote{}
	svc, _ := newTestService(remote, false)

	_, err := svc.RegisterAdmin(context.Background(), models.AdminRegistration{
		Email: "jane@gmail.com", Password: "longenough", Name: "Jane", Company: "Acme",
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, remote.calls)
}

func TestRegisterFallsBackToLocalAccount(t *testing.T) {
	svc, _ := newTestService(&fakeRemote{}, false)

	user, err := svc.RegisterStudent(context.Background(), models.StudentRegistration{
		Email: "new@student.edu", Password: "abcdef", ConfirmPassword: "abcdef", Name: "New Student",
		Skills: []string{"Go"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.Equal(t, "1748853000000", user.ID)
	assert.Equal(t, []string{"Go"}, user.Profile.Skills)

	// the new account can sign in while the backend stays down
	_, err = svc.Login(context.Background(), "new@student.edu", FallbackPassword)
	assert.NoError(t, err)
}

func TestRegisterRemoteFailureMessage(t *testing.T) {
	resp := models.Failed[models.LoginResponse]("email already registered")
	svc, _ := newTestService(&fakeRemote{resp: &resp}, false)

	_, err := svc.RegisterSuperAdmin(context.Background(), models.SuperAdminRegistration{
		Email: "root@platform.com", Password: "longenough", Name: "Root", InviteCode: "super2024",
	})
	assert.ErrorIs(t, err, ErrRegistrationFailed)
	assert.Contains(t, err.Error(), "email already registered")
}
