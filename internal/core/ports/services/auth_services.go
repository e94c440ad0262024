package services

import (
	"context"
	"time"

	"github.com/raosunjoy/nexvestxr-backend/internal/core/domain"
	"google.golang.org/api/idtoken"
)

// TokenSvcFacade defines the interface for token management services.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a signed JWT access token for the user.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// GenerateRefreshToken creates an opaque refresh token and its expiry.
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)

	// ValidateAndParseRefreshToken validates a refresh token string against a
	// user's stored token details and returns the user when valid.
	ValidateAndParseRefreshToken(ctx context.Context, userID string, refreshTokenString string) (*domain.User, error)
}

// GoogleOAuthHandlerSvcFacade defines the interface for Google sign-in.
type GoogleOAuthHandlerSvcFacade interface {
	// ExchangeAndValidateCode exchanges an OAuth authorization code and
	// validates the resulting ID token, returning its payload.
	ExchangeAndValidateCode(ctx context.Context, code string) (*idtoken.Payload, error)
}
