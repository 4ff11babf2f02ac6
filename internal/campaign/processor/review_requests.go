package processor

import (
	"context"
	"errors"
	"time"

	"fivestars-server/internal/store"

	"github.com/google/uuid"
)

// Display statuses shown in the dashboard's review-request table.
const (
	StatusDelivered  = "Delivered"
	StatusInProgress = "In Progress"
	StatusFailed     = "Failed"
	StatusPending    = "Pending"
)

var ErrReviewRequestNotFound = errors.New("review request not found")

type ReviewRequest struct {
	ID                uuid.UUID  `json:"id"`
	CustomerFirstName string     `json:"customer_first_name"`
	CustomerPhone     *string    `json:"customer_phone"`
	CustomerEmail     *string    `json:"customer_email"`
	Channel           string     `json:"channel"`
	Status            string     `json:"status"`
	ErrorMessage      *string    `json:"error_message,omitempty"`
	SentAt            *time.Time `json:"sent_at"`
	CreatedAt         time.Time  `json:"created_at"`
}

// displayStatus folds the stored outcome fields into one dashboard label.
// A sent request with an advisory message is still in flight as far as the
// provider is concerned; one with no message at all is confirmed delivered.
func displayStatus(request store.ReviewRequest) string {
	switch {
	case request.PrimarySent && request.ErrorMessage == nil:
		return StatusDelivered
	case request.PrimarySent:
		return StatusInProgress
	case request.ErrorMessage != nil:
		return StatusFailed
	default:
		return StatusPending
	}
}

func reviewRequestFromStore(request store.ReviewRequest) ReviewRequest {
	return ReviewRequest{
		ID:                request.ID,
		CustomerFirstName: request.CustomerFirstName,
		CustomerPhone:     request.CustomerPhone,
		CustomerEmail:     request.CustomerEmail,
		Channel:           request.PrimaryChannel,
		Status:            displayStatus(request),
		ErrorMessage:      request.ErrorMessage,
		SentAt:            request.SentAt,
		CreatedAt:         request.CreatedAt,
	}
}

// ListReviewRequests returns a page of a campaign's review requests, newest
// first, with the derived display status.
func (p *CampaignProcessor) ListReviewRequests(ctx context.Context, userID, campaignID uuid.UUID, limit, offset int) ([]ReviewRequest, error) {
	if _, err := p.ownedCampaign(ctx, userID, campaignID); err != nil {
		return nil, err
	}
	requests, err := p.store.ListReviewRequestsByCampaign(ctx, campaignID, limit, offset)
	if err != nil {
		p.logger.Error(ctx, "failed to list review requests", err)
		return nil, err
	}
	result := make([]ReviewRequest, 0, len(requests))
	for _, request := range requests {
		result = append(result, reviewRequestFromStore(request))
	}
	return result, nil
}

// DeleteReviewRequest removes one request after verifying the caller owns the
// campaign it belongs to.
func (p *CampaignProcessor) DeleteReviewRequest(ctx context.Context, userID, requestID uuid.UUID) error {
	request, err := p.store.GetReviewRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrReviewRequestNotFound
		}
		p.logger.Error(ctx, "failed to get review request", err)
		return err
	}
	if _, err := p.ownedCampaign(ctx, userID, request.CampaignID); err != nil {
		return err
	}
	if err := p.store.DeleteReviewRequest(ctx, requestID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrReviewRequestNotFound
		}
		p.logger.Error(ctx, "failed to delete review request", err)
		return err
	}
	return nil
}
