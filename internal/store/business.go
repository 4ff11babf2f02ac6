package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// CreateBusinessParams represents parameters for creating a business profile
type CreateBusinessParams struct {
	UserID       uuid.UUID
	BusinessName string
	ReviewLink   *string
	AIContext    *string
}

const sqlCreateBusiness = `
INSERT INTO businesses (user_id, business_name, review_link, ai_context)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, business_name, review_link, ai_context, created_at, updated_at`

// CreateBusiness creates the business profile for a user
func (s *Store) CreateBusiness(ctx context.Context, params CreateBusinessParams) (Business, error) {
	var business Business
	err := s.db.GetContext(ctx, &business, sqlCreateBusiness,
		params.UserID,
		params.BusinessName,
		params.ReviewLink,
		params.AIContext)
	if err != nil {
		s.logger.Error(ctx, "failed to create business", err)
		return Business{}, fmt.Errorf("failed to create business: %w", err)
	}
	return business, nil
}

const sqlGetBusinessByUserID = `
SELECT id, user_id, business_name, review_link, ai_context, created_at, updated_at
FROM businesses
WHERE user_id = $1`

// GetBusinessByUserID retrieves the business profile owned by a user
func (s *Store) GetBusinessByUserID(ctx context.Context, userID uuid.UUID) (Business, error) {
	var business Business
	err := s.db.GetContext(ctx, &business, sqlGetBusinessByUserID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Business{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get business by user id", err)
		return Business{}, fmt.Errorf("failed to get business by user id: %w", err)
	}
	return business, nil
}

// UpdateBusinessParams represents updatable business fields
type UpdateBusinessParams struct {
	BusinessName *string
	ReviewLink   *string
	AIContext    *string
}

const sqlUpdateBusiness = `
UPDATE businesses
SET business_name = COALESCE($2, business_name),
    review_link = COALESCE($3, review_link),
    ai_context = COALESCE($4, ai_context),
    updated_at = CURRENT_TIMESTAMP
WHERE user_id = $1
RETURNING id, user_id, business_name, review_link, ai_context, created_at, updated_at`

// UpdateBusiness updates the business profile owned by a user
func (s *Store) UpdateBusiness(ctx context.Context, userID uuid.UUID, params UpdateBusinessParams) (Business, error) {
	var business Business
	err := s.db.GetContext(ctx, &business, sqlUpdateBusiness,
		userID,
		params.BusinessName,
		params.ReviewLink,
		params.AIContext)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Business{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to update business", err)
		return Business{}, fmt.Errorf("failed to update business: %w", err)
	}
	return business, nil
}
