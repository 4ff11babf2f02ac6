package processor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fivestars-server/internal/observability"
	"fivestars-server/internal/store"

	"github.com/google/uuid"
)

// Sentinel errors the handler maps onto OAuth protocol responses.
var (
	ErrRedirectURINotAllowed = errors.New("redirect uri not allowed")
	ErrInvalidGrant          = errors.New("invalid grant")
	ErrUnauthorized          = errors.New("unauthorized")
)

const defaultScope = "read write"

// OAuthProcessor implements the authorization-code and refresh grants plus
// bearer authentication for resource endpoints.
type OAuthProcessor struct {
	store     OAuthStore
	allowlist *RedirectAllowlist
	logger    *observability.Logger
	now       func() time.Time
}

func New(oauthStore OAuthStore, allowlist *RedirectAllowlist, logger *observability.Logger) OAuthProcessor {
	return OAuthProcessor{
		store:     oauthStore,
		allowlist: allowlist,
		logger:    logger,
		now:       time.Now,
	}
}

// TokenResponse is the success body of the token endpoint.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
}

// IsRedirectURIAllowed exposes the allowlist decision to the handler, which
// needs it before issuing any redirect.
func (p *OAuthProcessor) IsRedirectURIAllowed(redirectURI string) bool {
	return p.allowlist.IsAllowed(redirectURI)
}

// HasBusinessProfile reports whether the user finished onboarding. Users
// without a business are sent to onboarding before consent.
func (p *OAuthProcessor) HasBusinessProfile(ctx context.Context, userID uuid.UUID) (bool, error) {
	_, err := p.store.GetBusinessByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		p.logger.Error(ctx, "failed to check business profile", err)
		return false, fmt.Errorf("failed to check business profile: %w", err)
	}
	return true, nil
}

// IssueAuthorizationCode persists a short-lived single-use code bound to the
// client and redirect URI the consent was granted for.
func (p *OAuthProcessor) IssueAuthorizationCode(
	ctx context.Context, userID uuid.UUID, clientID, redirectURI, scope string) (string, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "user_id", Value: userID.String()},
		observability.Field{Key: "client_id", Value: clientID},
	)

	if !p.allowlist.IsAllowed(redirectURI) {
		return "", ErrRedirectURINotAllowed
	}
	if scope == "" {
		scope = defaultScope
	}

	code, err := generateAuthorizationCode()
	if err != nil {
		p.logger.Error(ctx, "failed to generate authorization code", err)
		return "", fmt.Errorf("failed to generate authorization code: %w", err)
	}

	_, err = p.store.CreateAuthorizationCode(ctx, store.CreateAuthorizationCodeParams{
		Code:        code,
		UserID:      userID,
		ClientID:    clientID,
		RedirectURI: redirectURI,
		Scope:       scope,
		ExpiresAt:   expirationFrom(p.now(), authorizationCodeTTL),
	})
	if err != nil {
		p.logger.Error(ctx, "failed to persist authorization code", err)
		return "", fmt.Errorf("failed to persist authorization code: %w", err)
	}

	p.logger.Info(ctx, "authorization code issued")
	return code, nil
}

// ExchangeAuthorizationCode redeems a code for a token pair. The claim is an
// atomic consume in the store, so of two concurrent redemptions of the same
// code exactly one can succeed.
func (p *OAuthProcessor) ExchangeAuthorizationCode(
	ctx context.Context, code, clientID, redirectURI string) (TokenResponse, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "client_id", Value: clientID})

	if !p.allowlist.IsAllowed(redirectURI) {
		return TokenResponse{}, ErrRedirectURINotAllowed
	}

	claimed, err := p.store.ClaimAuthorizationCode(ctx, code, clientID, redirectURI)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return TokenResponse{}, ErrInvalidGrant
		}
		p.logger.Error(ctx, "failed to claim authorization code", err)
		return TokenResponse{}, fmt.Errorf("failed to claim authorization code: %w", err)
	}

	// The claim already removed the row, so an expired code is both rejected
	// and cleaned up here.
	if isExpired(claimed.ExpiresAt, p.now()) {
		p.logger.Info(ctx, "rejected expired authorization code")
		return TokenResponse{}, ErrInvalidGrant
	}

	return p.createOAuthTokens(ctx, claimed.UserID, clientID, claimed.Scope)
}

// RefreshAccessToken rotates the access token in place. The refresh token is
// reused unchanged so a stored Zapier connection never needs re-linking.
func (p *OAuthProcessor) RefreshAccessToken(ctx context.Context, refreshToken string) (TokenResponse, error) {
	token, err := p.store.GetTokenByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return TokenResponse{}, ErrInvalidGrant
		}
		p.logger.Error(ctx, "failed to look up refresh token", err)
		return TokenResponse{}, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	accessToken, err := generateAccessToken()
	if err != nil {
		p.logger.Error(ctx, "failed to generate access token", err)
		return TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	updated, err := p.store.UpdateAccessToken(ctx, token.ID, accessToken, expirationFrom(p.now(), accessTokenTTL))
	if err != nil {
		p.logger.Error(ctx, "failed to update access token", err)
		return TokenResponse{}, fmt.Errorf("failed to update access token: %w", err)
	}

	p.logger.Info(ctx, "access token refreshed",
		observability.Field{Key: "user_id", Value: updated.UserID.String()})

	return TokenResponse{
		AccessToken:  updated.AccessToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(accessTokenTTL.Seconds()),
		RefreshToken: updated.RefreshToken,
		Scope:        updated.Scope,
	}, nil
}

// createOAuthTokens issues a fresh token pair. The store replaces any prior
// row for (user, client), so re-linking an integration invalidates the old
// connection rather than accumulating sessions.
func (p *OAuthProcessor) createOAuthTokens(
	ctx context.Context, userID uuid.UUID, clientID, scope string) (TokenResponse, error) {
	accessToken, err := generateAccessToken()
	if err != nil {
		p.logger.Error(ctx, "failed to generate access token", err)
		return TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := generateRefreshToken()
	if err != nil {
		p.logger.Error(ctx, "failed to generate refresh token", err)
		return TokenResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	if scope == "" {
		scope = defaultScope
	}

	token, err := p.store.CreateOAuthTokens(ctx, store.CreateOAuthTokensParams{
		UserID:       userID,
		ClientID:     clientID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Scope:        scope,
		ExpiresAt:    expirationFrom(p.now(), accessTokenTTL),
	})
	if err != nil {
		p.logger.Error(ctx, "failed to create oauth tokens", err)
		return TokenResponse{}, fmt.Errorf("failed to create oauth tokens: %w", err)
	}

	p.logger.Info(ctx, "oauth tokens issued",
		observability.Field{Key: "user_id", Value: userID.String()},
		observability.Field{Key: "client_id", Value: clientID},
	)

	return TokenResponse{
		AccessToken:  token.AccessToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(accessTokenTTL.Seconds()),
		RefreshToken: token.RefreshToken,
		Scope:        token.Scope,
	}, nil
}

// AuthenticateToken resolves a bearer access token to the owning user.
// Expired rows are rejected but not deleted; the next re-link or refresh
// replaces them.
func (p *OAuthProcessor) AuthenticateToken(ctx context.Context, accessToken string) (uuid.UUID, error) {
	token, err := p.store.GetTokenByAccessToken(ctx, accessToken)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return uuid.Nil, ErrUnauthorized
		}
		p.logger.Error(ctx, "failed to look up access token", err)
		return uuid.Nil, fmt.Errorf("failed to look up access token: %w", err)
	}

	if isExpired(token.ExpiresAt, p.now()) {
		return uuid.Nil, ErrUnauthorized
	}

	return token.UserID, nil
}
