package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=interfaces.go -destination=mocks_test.go -package=processor

import (
	"context"
	"time"

	"fivestars-server/internal/store"

	"github.com/google/uuid"
)

// OAuthStore defines the database operations required by OAuthProcessor
type OAuthStore interface {
	CreateAuthorizationCode(ctx context.Context, params store.CreateAuthorizationCodeParams) (store.OAuthAuthorizationCode, error)
	ClaimAuthorizationCode(ctx context.Context, code, clientID, redirectURI string) (store.OAuthAuthorizationCode, error)
	CreateOAuthTokens(ctx context.Context, params store.CreateOAuthTokensParams) (store.OAuthToken, error)
	GetTokenByAccessToken(ctx context.Context, accessToken string) (store.OAuthToken, error)
	GetTokenByRefreshToken(ctx context.Context, refreshToken string) (store.OAuthToken, error)
	UpdateAccessToken(ctx context.Context, tokenID uuid.UUID, accessToken string, expiresAt time.Time) (store.OAuthToken, error)
	GetBusinessByUserID(ctx context.Context, userID uuid.UUID) (store.Business, error)
}
