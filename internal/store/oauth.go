package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateAuthorizationCodeParams represents parameters for issuing an authorization code
type CreateAuthorizationCodeParams struct {
	Code        string
	UserID      uuid.UUID
	ClientID    string
	RedirectURI string
	Scope       string
	ExpiresAt   time.Time
}

const sqlCreateAuthorizationCode = `
INSERT INTO oauth_authorization_codes (code, user_id, client_id, redirect_uri, scope, expires_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, code, user_id, client_id, redirect_uri, scope, expires_at, created_at`

// CreateAuthorizationCode persists a newly issued authorization code
func (s *Store) CreateAuthorizationCode(ctx context.Context, params CreateAuthorizationCodeParams) (OAuthAuthorizationCode, error) {
	var code OAuthAuthorizationCode
	err := s.db.GetContext(ctx, &code, sqlCreateAuthorizationCode,
		params.Code,
		params.UserID,
		params.ClientID,
		params.RedirectURI,
		params.Scope,
		params.ExpiresAt)
	if err != nil {
		s.logger.Error(ctx, "failed to create authorization code", err)
		return OAuthAuthorizationCode{}, fmt.Errorf("failed to create authorization code: %w", err)
	}
	return code, nil
}

const sqlClaimAuthorizationCode = `
DELETE FROM oauth_authorization_codes
WHERE code = $1 AND client_id = $2 AND redirect_uri = $3
RETURNING id, code, user_id, client_id, redirect_uri, scope, expires_at, created_at`

// ClaimAuthorizationCode atomically consumes an authorization code. The delete
// with RETURNING guarantees at most one caller ever sees a given code, even
// under concurrent exchange attempts. Mismatched client_id or redirect_uri
// leaves the row untouched and returns ErrNotFound.
func (s *Store) ClaimAuthorizationCode(ctx context.Context, code, clientID, redirectURI string) (OAuthAuthorizationCode, error) {
	var claimed OAuthAuthorizationCode
	err := s.db.GetContext(ctx, &claimed, sqlClaimAuthorizationCode, code, clientID, redirectURI)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OAuthAuthorizationCode{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to claim authorization code", err)
		return OAuthAuthorizationCode{}, fmt.Errorf("failed to claim authorization code: %w", err)
	}
	return claimed, nil
}

// CreateOAuthTokensParams represents parameters for persisting a token pair
type CreateOAuthTokensParams struct {
	UserID       uuid.UUID
	ClientID     string
	AccessToken  string
	RefreshToken string
	Scope        string
	ExpiresAt    time.Time
}

const sqlDeleteTokensForUserClient = `
DELETE FROM oauth_tokens
WHERE user_id = $1 AND client_id = $2`

const sqlInsertOAuthTokens = `
INSERT INTO oauth_tokens (user_id, client_id, access_token, refresh_token, scope, expires_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, user_id, client_id, access_token, refresh_token, scope, expires_at, created_at, updated_at`

// CreateOAuthTokens replaces any existing token pair for the (user, client)
// pair inside a transaction so at most one row exists per pair.
func (s *Store) CreateOAuthTokens(ctx context.Context, params CreateOAuthTokensParams) (OAuthToken, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.Error(ctx, "failed to begin transaction", err)
		return OAuthToken{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, sqlDeleteTokensForUserClient, params.UserID, params.ClientID); err != nil {
		s.logger.Error(ctx, "failed to delete existing oauth tokens", err)
		return OAuthToken{}, fmt.Errorf("failed to delete existing oauth tokens: %w", err)
	}

	var token OAuthToken
	err = tx.GetContext(ctx, &token, sqlInsertOAuthTokens,
		params.UserID,
		params.ClientID,
		params.AccessToken,
		params.RefreshToken,
		params.Scope,
		params.ExpiresAt)
	if err != nil {
		s.logger.Error(ctx, "failed to insert oauth tokens", err)
		return OAuthToken{}, fmt.Errorf("failed to insert oauth tokens: %w", err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error(ctx, "failed to commit transaction", err)
		return OAuthToken{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return token, nil
}

const sqlGetTokenByAccessToken = `
SELECT id, user_id, client_id, access_token, refresh_token, scope, expires_at, created_at, updated_at
FROM oauth_tokens
WHERE access_token = $1`

// GetTokenByAccessToken retrieves a token row by its access token value
func (s *Store) GetTokenByAccessToken(ctx context.Context, accessToken string) (OAuthToken, error) {
	var token OAuthToken
	err := s.db.GetContext(ctx, &token, sqlGetTokenByAccessToken, accessToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OAuthToken{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get token by access token", err)
		return OAuthToken{}, fmt.Errorf("failed to get token by access token: %w", err)
	}
	return token, nil
}

const sqlGetTokenByRefreshToken = `
SELECT id, user_id, client_id, access_token, refresh_token, scope, expires_at, created_at, updated_at
FROM oauth_tokens
WHERE refresh_token = $1`

// GetTokenByRefreshToken retrieves a token row by its refresh token value
func (s *Store) GetTokenByRefreshToken(ctx context.Context, refreshToken string) (OAuthToken, error) {
	var token OAuthToken
	err := s.db.GetContext(ctx, &token, sqlGetTokenByRefreshToken, refreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OAuthToken{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get token by refresh token", err)
		return OAuthToken{}, fmt.Errorf("failed to get token by refresh token: %w", err)
	}
	return token, nil
}

const sqlUpdateAccessToken = `
UPDATE oauth_tokens
SET access_token = $2,
    expires_at = $3,
    updated_at = NOW()
WHERE id = $1
RETURNING id, user_id, client_id, access_token, refresh_token, scope, expires_at, created_at, updated_at`

// UpdateAccessToken replaces the access token in place on a refresh grant.
// The refresh token is deliberately left untouched so long-lived integrations
// keep working across refreshes.
func (s *Store) UpdateAccessToken(ctx context.Context, tokenID uuid.UUID, accessToken string, expiresAt time.Time) (OAuthToken, error) {
	var token OAuthToken
	err := s.db.GetContext(ctx, &token, sqlUpdateAccessToken, tokenID, accessToken, expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return OAuthToken{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to update access token", err)
		return OAuthToken{}, fmt.Errorf("failed to update access token: %w", err)
	}
	return token, nil
}

const sqlDeleteExpiredAuthorizationCodes = `
DELETE FROM oauth_authorization_codes
WHERE expires_at < NOW()`

// DeleteExpiredAuthorizationCodes removes codes past their expiry. Called
// opportunistically; expired codes are also rejected at claim time.
func (s *Store) DeleteExpiredAuthorizationCodes(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, sqlDeleteExpiredAuthorizationCodes)
	if err != nil {
		s.logger.Error(ctx, "failed to delete expired authorization codes", err)
		return 0, fmt.Errorf("failed to delete expired authorization codes: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows, nil
}
