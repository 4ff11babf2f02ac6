package processor

import (
	"context"

	"fivestars-server/internal/clients/googleoauth"
	"fivestars-server/internal/store"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/interfaces.go -package=mocks

// AuthStore defines the database operations required by AuthProcessor
type AuthStore interface {
	CheckIfEmailExists(ctx context.Context, email string) (bool, error)
	CreateUserOnEmailSignup(ctx context.Context, firstName string, lastName string, email string, hashedPassword string) (store.User, error)
	CreateUserOnGoogleSignIn(ctx context.Context, firstName string, lastName string, email string, googleID string) (store.User, error)
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (store.User, error)
}

// GoogleOAuthClient defines the Google sign-in operations required by AuthProcessor
type GoogleOAuthClient interface {
	GetAccessToken(ctx context.Context, code string) (googleoauth.TokenResponse, error)
	GetUserInfo(ctx context.Context, token string) (googleoauth.UserInfo, error)
}
