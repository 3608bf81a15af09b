package auth

import (
	"context"
	"testing"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/auth"
	"github.com/aquaclean/aquaclean-backend-go/internal/domain/user"
	"github.com/aquaclean/aquaclean-backend-go/internal/pkg/jwt"
	"github.com/aquaclean/aquaclean-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
)

func newTestAuthService(t *testing.T) (auth.AuthService, user.UserRepository) {
	t.Helper()
	users := memory.NewUserRepository(memory.NewStore())
	svc := NewAuthService(users, jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp))
	return svc, users
}

func createAuthTestUser(t *testing.T, ctx context.Context, users user.UserRepository, email string, active bool) user.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	u, err := users.Create(ctx, user.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         user.RoleManager,
		FirstName:    "Maria",
		LastName:     "Santos",
		IsActive:     active,
	})
	require.NoError(t, err)
	return u
}

func TestLogin_Success(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestAuthService(t)
	u := createAuthTestUser(t, ctx, users, "manager@aquaclean.test", true)

	resp, err := svc.Login(ctx, auth.LoginRequest{Email: "manager@aquaclean.test", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)

	reloaded, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NotNil(t, reloaded.LastLoginAt)
}

func TestLogin_WrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestAuthService(t)
	createAuthTestUser(t, ctx, users, "manager@aquaclean.test", true)

	_, err := svc.Login(ctx, auth.LoginRequest{Email: "manager@aquaclean.test", Password: "nope"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService(t)

	_, err := svc.Login(context.Background(), auth.LoginRequest{Email: "ghost@aquaclean.test", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_InactiveAccount(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestAuthService(t)
	createAuthTestUser(t, ctx, users, "former@aquaclean.test", false)

	_, err := svc.Login(ctx, auth.LoginRequest{Email: "former@aquaclean.test", Password: "password123"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestRefreshToken_AfterLogout(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestAuthService(t)
	createAuthTestUser(t, ctx, users, "manager@aquaclean.test", true)

	tokens, err := svc.Login(ctx, auth.LoginRequest{Email: "manager@aquaclean.test", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	require.NoError(t, svc.Logout(ctx, tokens.RefreshToken))

	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestAuthService(t)
	createAuthTestUser(t, ctx, users, "manager@aquaclean.test", true)

	tokens, err := svc.Login(ctx, auth.LoginRequest{Email: "manager@aquaclean.test", Password: "password123"})
	require.NoError(t, err)

	_, err = svc.RefreshToken(ctx, auth.RefreshTokenRequest{RefreshToken: tokens.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestSeedAdmin_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc, users := newTestAuthService(t)

	require.NoError(t, svc.SeedAdmin(ctx, "Admin@AquaClean.test", "changeme"))
	require.NoError(t, svc.SeedAdmin(ctx, "admin@aquaclean.test", "changeme"))

	all, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, user.RoleAdmin, all[0].Role)

	_, err = svc.Login(ctx, auth.LoginRequest{Email: "admin@aquaclean.test", Password: "changeme"})
	assert.NoError(t, err)
}
