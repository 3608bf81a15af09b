package auth

import (
	"context"

	"github.com/aquaclean/aquaclean-backend-go/internal/domain/user"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID string) (user.User, error)
	// SeedAdmin creates an admin account when no user owns email yet.
	SeedAdmin(ctx context.Context, email, password string) error
}
