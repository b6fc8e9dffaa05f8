package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmdash/internal/authz"
)

func TestAuthService_EnsureAdminAndLogin(t *testing.T) {
	f := newFixture()
	s := NewAuthService(f.users, staticTokens{}, nil)
	ctx := context.Background()

	created, err := s.EnsureAdmin(ctx, "Admin@Example.com", "secret")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.EnsureAdmin(ctx, "admin@example.com", "other")
	require.NoError(t, err)
	assert.False(t, created)

	res, err := s.Login(ctx, " admin@example.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "token-"+res.User.ID, res.AccessToken)
	assert.Equal(t, authz.RoleAdmin, res.User.RoleID)

	_, err = s.Login(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(ctx, "ghost@example.com", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_EnsureAdminGeneratedPassword(t *testing.T) {
	f := newFixture()
	s := NewAuthService(f.users, staticTokens{}, nil)
	created, err := s.EnsureAdmin(context.Background(), "root@example.com", "")
	require.NoError(t, err)
	assert.True(t, created)

	u, err := f.users.GetByEmail(context.Background(), "root@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.NotEmpty(t, u.PasswordHash)

	created, err = s.EnsureAdmin(context.Background(), "", "")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestAuthService_CreateUserValidation(t *testing.T) {
	s := NewAuthService(newFixture().users, staticTokens{}, nil)
	ctx := context.Background()
	_, err := s.CreateUser(ctx, "bad", "pw", authz.RoleSales)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.CreateUser(ctx, "a@b.c", "", authz.RoleSales)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.CreateUser(ctx, "a@b.c", "pw", 99)
	assert.ErrorIs(t, err, ErrValidation)

	u, err := s.CreateUser(ctx, "a@b.c", "pw", authz.RoleAudit)
	require.NoError(t, err)
	assert.Equal(t, authz.RoleAudit, u.RoleID)
}
