package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateAPIKeyParams represents parameters for persisting a new API key
type CreateAPIKeyParams struct {
	UserID  uuid.UUID
	Name    string
	KeyHash string
}

const sqlCreateAPIKey = `
INSERT INTO api_keys (user_id, name, key_hash)
VALUES ($1, $2, $3)
RETURNING id, user_id, name, key_hash, last_used_at, created_at`

// CreateAPIKey persists a new API key record. Only the hash is stored; the
// plaintext secret is shown to the user once at creation.
func (s *Store) CreateAPIKey(ctx context.Context, params CreateAPIKeyParams) (APIKey, error) {
	var key APIKey
	err := s.db.GetContext(ctx, &key, sqlCreateAPIKey, params.UserID, params.Name, params.KeyHash)
	if err != nil {
		s.logger.Error(ctx, "failed to create api key", err)
		return APIKey{}, fmt.Errorf("failed to create api key: %w", err)
	}
	return key, nil
}

const sqlGetAPIKeyByHash = `
SELECT id, user_id, name, key_hash, last_used_at, created_at
FROM api_keys
WHERE key_hash = $1`

// GetAPIKeyByHash retrieves an API key record by the hash of its secret
func (s *Store) GetAPIKeyByHash(ctx context.Context, keyHash string) (APIKey, error) {
	var key APIKey
	err := s.db.GetContext(ctx, &key, sqlGetAPIKeyByHash, keyHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return APIKey{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get api key by hash", err)
		return APIKey{}, fmt.Errorf("failed to get api key by hash: %w", err)
	}
	return key, nil
}

const sqlListAPIKeysByUser = `
SELECT id, user_id, name, key_hash, last_used_at, created_at
FROM api_keys
WHERE user_id = $1
ORDER BY created_at DESC`

// ListAPIKeysByUser retrieves all API keys belonging to a user
func (s *Store) ListAPIKeysByUser(ctx context.Context, userID uuid.UUID) ([]APIKey, error) {
	var keys []APIKey
	err := s.db.SelectContext(ctx, &keys, sqlListAPIKeysByUser, userID)
	if err != nil {
		s.logger.Error(ctx, "failed to list api keys by user", err)
		return nil, fmt.Errorf("failed to list api keys by user: %w", err)
	}
	return keys, nil
}

const sqlTouchAPIKey = `
UPDATE api_keys
SET last_used_at = $2
WHERE id = $1`

// TouchAPIKey records when a key was last used for authentication
func (s *Store) TouchAPIKey(ctx context.Context, keyID uuid.UUID, usedAt time.Time) error {
	if _, err := s.db.ExecContext(ctx, sqlTouchAPIKey, keyID, usedAt); err != nil {
		s.logger.Error(ctx, "failed to touch api key", err)
		return fmt.Errorf("failed to touch api key: %w", err)
	}
	return nil
}

const sqlDeleteAPIKey = `
DELETE FROM api_keys
WHERE id = $1 AND user_id = $2`

// DeleteAPIKey revokes an API key. The user_id guard stops one user revoking
// another's keys.
func (s *Store) DeleteAPIKey(ctx context.Context, keyID, userID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, sqlDeleteAPIKey, keyID, userID)
	if err != nil {
		s.logger.Error(ctx, "failed to delete api key", err)
		return fmt.Errorf("failed to delete api key: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		s.logger.Error(ctx, "failed to get rows affected", err)
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return ErrNotFound
	}

	return nil
}
