package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gestor-pos/gestor-pos/internal/shared"
)

type mockRepository struct {
	usersByEmail map[string]*User
	usersByID    map[int64]*User
	sessions     map[string]int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		usersByEmail: map[string]*User{},
		usersByID:    map[int64]*User{},
		sessions:     map[string]int64{},
	}
}

func (m *mockRepository) add(u *User) {
	m.usersByEmail[u.Email] = u
	m.usersByID[u.ID] = u
}

func (m *mockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := m.usersByEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (m *mockRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	u, ok := m.usersByID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (m *mockRepository) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	m.sessions[id] = userID
	return nil
}

func (m *mockRepository) DeleteSession(ctx context.Context, id string) error {
	delete(m.sessions, id)
	return nil
}

func seller(t *testing.T, repo *mockRepository) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("segredo123"), bcrypt.MinCost)
	require.NoError(t, err)
	u := &User{
		ID:           1,
		Email:        "vendedor@gestor.local",
		PasswordHash: string(hash),
		FullName:     "Vendedor",
		Role:         shared.RoleUser,
		IsActive:     true,
	}
	repo.add(u)
	return u
}

func TestAuthenticateSuccess(t *testing.T) {
	repo := newMockRepository()
	seller(t, repo)
	svc := NewService(repo)

	user, err := svc.Authenticate(context.Background(), "vendedor@gestor.local", "segredo123")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, shared.RoleUser, user.Role)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repo := newMockRepository()
	seller(t, repo)
	svc := NewService(repo)

	_, err := svc.Authenticate(context.Background(), "vendedor@gestor.local", "errada")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	_, err := svc.Authenticate(context.Background(), "ninguem@gestor.local", "segredo123")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateInactiveAccount(t *testing.T) {
	repo := newMockRepository()
	u := seller(t, repo)
	u.IsActive = false
	svc := NewService(repo)

	_, err := svc.Authenticate(context.Background(), u.Email, "segredo123")
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestCurrentUserParsesSessionID(t *testing.T) {
	repo := newMockRepository()
	seller(t, repo)
	svc := NewService(repo)

	user, err := svc.CurrentUser(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "vendedor@gestor.local", user.Email)

	_, err = svc.CurrentUser(context.Background(), "")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	_, err = svc.CurrentUser(context.Background(), "abc")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestProfileHidesPasswordHash(t *testing.T) {
	repo := newMockRepository()
	u := seller(t, repo)

	p := u.Profile()
	assert.Equal(t, u.Email, p.Email)
	assert.Equal(t, u.Role, p.Role)
}
