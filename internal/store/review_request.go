package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateReviewRequestParams represents parameters for recording a dispatch attempt
type CreateReviewRequestParams struct {
	CampaignID        uuid.UUID
	CustomerFirstName string
	CustomerPhone     *string
	CustomerEmail     *string
	PrimaryChannel    string
	SecondaryChannel  *string
}

const sqlCreateReviewRequest = `
INSERT INTO review_requests (campaign_id, customer_first_name, customer_phone, customer_email, primary_channel, secondary_channel)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, campaign_id, customer_first_name, customer_phone, customer_email, primary_channel, secondary_channel, primary_sent, secondary_sent, error_message, sent_at, created_at`

// CreateReviewRequest records a dispatch attempt before the send is made; the
// outcome is written afterwards so failed sends keep an audit trail.
func (s *Store) CreateReviewRequest(ctx context.Context, params CreateReviewRequestParams) (ReviewRequest, error) {
	var request ReviewRequest
	err := s.db.GetContext(ctx, &request, sqlCreateReviewRequest,
		params.CampaignID,
		params.CustomerFirstName,
		params.CustomerPhone,
		params.CustomerEmail,
		params.PrimaryChannel,
		params.SecondaryChannel)
	if err != nil {
		s.logger.Error(ctx, "failed to create review request", err)
		return ReviewRequest{}, fmt.Errorf("failed to create review request: %w", err)
	}
	return request, nil
}

// ReviewRequestOutcomeParams represents the send outcome written after dispatch
type ReviewRequestOutcomeParams struct {
	PrimarySent  bool
	ErrorMessage *string
	SentAt       *time.Time
}

const sqlUpdateReviewRequestOutcome = `
UPDATE review_requests
SET primary_sent = $2,
    error_message = $3,
    sent_at = $4
WHERE id = $1
RETURNING id, campaign_id, customer_first_name, customer_phone, customer_email, primary_channel, secondary_channel, primary_sent, secondary_sent, error_message, sent_at, created_at`

// UpdateReviewRequestOutcome writes the send outcome onto an existing request
func (s *Store) UpdateReviewRequestOutcome(ctx context.Context, requestID uuid.UUID, params ReviewRequestOutcomeParams) (ReviewRequest, error) {
	var request ReviewRequest
	err := s.db.GetContext(ctx, &request, sqlUpdateReviewRequestOutcome,
		requestID,
		params.PrimarySent,
		params.ErrorMessage,
		params.SentAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ReviewRequest{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to update review request outcome", err)
		return ReviewRequest{}, fmt.Errorf("failed to update review request outcome: %w", err)
	}
	return request, nil
}

const sqlListReviewRequestsByCampaign = `
SELECT id, campaign_id, customer_first_name, customer_phone, customer_email, primary_channel, secondary_channel, primary_sent, secondary_sent, error_message, sent_at, created_at
FROM review_requests
WHERE campaign_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

// ListReviewRequestsByCampaign retrieves dispatch records for a campaign with pagination
func (s *Store) ListReviewRequestsByCampaign(ctx context.Context, campaignID uuid.UUID, limit, offset int) ([]ReviewRequest, error) {
	var requests []ReviewRequest
	err := s.db.SelectContext(ctx, &requests, sqlListReviewRequestsByCampaign, campaignID, limit, offset)
	if err != nil {
		s.logger.Error(ctx, "failed to list review requests by campaign", err)
		return nil, fmt.Errorf("failed to list review requests by campaign: %w", err)
	}
	return requests, nil
}

const sqlGetReviewRequestByID = `
SELECT id, campaign_id, customer_first_name, customer_phone, customer_email, primary_channel, secondary_channel, primary_sent, secondary_sent, error_message, sent_at, created_at
FROM review_requests
WHERE id = $1`

// GetReviewRequestByID retrieves a single dispatch record
func (s *Store) GetReviewRequestByID(ctx context.Context, requestID uuid.UUID) (ReviewRequest, error) {
	var request ReviewRequest
	err := s.db.GetContext(ctx, &request, sqlGetReviewRequestByID, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ReviewRequest{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get review request by id", err)
		return ReviewRequest{}, fmt.Errorf("failed to get review request by id: %w", err)
	}
	return request, nil
}

const sqlDeleteReviewRequest = `
DELETE FROM review_requests
WHERE id = $1`

// DeleteReviewRequest removes a dispatch record (user-initiated from the dashboard)
func (s *Store) DeleteReviewRequest(ctx context.Context, requestID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, sqlDeleteReviewRequest, requestID)
	if err != nil {
		s.logger.Error(ctx, "failed to delete review request", err)
		return fmt.Errorf("failed to delete review request: %w", err)
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
