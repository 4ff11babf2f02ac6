package processor

import (
	"context"

	"fivestars-server/internal/clients/twilio"
	"fivestars-server/internal/store"

	"github.com/google/uuid"
)

// DispatchStore defines the database operations required by DispatchProcessor
type DispatchStore interface {
	GetCampaignWithBusiness(ctx context.Context, campaignID uuid.UUID) (store.CampaignWithBusiness, error)
	CreateReviewRequest(ctx context.Context, params store.CreateReviewRequestParams) (store.ReviewRequest, error)
	UpdateReviewRequestOutcome(ctx context.Context, requestID uuid.UUID, params store.ReviewRequestOutcomeParams) (store.ReviewRequest, error)
}

// SMSGateway sends one text message and reports the provider status
type SMSGateway interface {
	SendSMS(ctx context.Context, to, body string) twilio.SendResult
}

// EmailGateway delivers one HTML email, returning the provider message id
type EmailGateway interface {
	SendEmail(ctx context.Context, to, subject, htmlContent string) (string, error)
}
