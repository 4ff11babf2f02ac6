package processor

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"fivestars-server/internal/clients/twilio"
	"fivestars-server/internal/observability"
	"fivestars-server/internal/store"

	"github.com/google/uuid"
)

var ErrCampaignNotFound = errors.New("campaign not found")

// gatewayTimeout bounds each outbound provider call so a hung SMS or email
// provider cannot hang the webhook handler.
const gatewayTimeout = 15 * time.Second

// reviewLinkPlaceholder fills {{review_link}} when the business has not
// configured one yet.
const reviewLinkPlaceholder = "[review link not configured]"

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
var nonDigits = regexp.MustCompile(`\D`)

// DispatchProcessor runs one review-request send end to end: record, render,
// send, classify. Exactly one attempt per invocation; the caller is a single
// webhook request with no queue behind it, so transient gateway errors are
// permanent from its perspective.
type DispatchProcessor struct {
	store  DispatchStore
	sms    SMSGateway
	email  EmailGateway
	logger *observability.Logger
	now    func() time.Time
}

func New(dispatchStore DispatchStore, sms SMSGateway, email EmailGateway, logger *observability.Logger) DispatchProcessor {
	return DispatchProcessor{
		store:  dispatchStore,
		sms:    sms,
		email:  email,
		logger: logger,
		now:    time.Now,
	}
}

// DispatchParams identifies one customer contact event for a campaign
type DispatchParams struct {
	CampaignID uuid.UUID
	FirstName  string
	Phone      *string
	Email      *string
}

// DispatchResult reports the outcome. Success mirrors PrimarySent: a message
// accepted by the provider but not yet confirmed delivered still counts as
// success, with the advisory preserved on the stored row.
type DispatchResult struct {
	Success         bool      `json:"success"`
	ReviewRequestID uuid.UUID `json:"review_request_id"`
	PrimarySent     bool      `json:"primary_sent"`
	Error           string    `json:"error,omitempty"`
}

// Dispatch sends one review request. The ReviewRequest row is created before
// any validation or send attempt so failed sends keep an audit trail.
func (p *DispatchProcessor) Dispatch(ctx context.Context, params DispatchParams) (DispatchResult, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "campaign_id", Value: params.CampaignID.String()})

	campaign, err := p.store.GetCampaignWithBusiness(ctx, params.CampaignID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return DispatchResult{}, ErrCampaignNotFound
		}
		p.logger.Error(ctx, "failed to load campaign for dispatch", err)
		return DispatchResult{}, fmt.Errorf("failed to load campaign for dispatch: %w", err)
	}

	channel := store.ParseChannel(campaign.PrimaryChannel)

	request, err := p.store.CreateReviewRequest(ctx, store.CreateReviewRequestParams{
		CampaignID:        campaign.ID,
		CustomerFirstName: params.FirstName,
		CustomerPhone:     params.Phone,
		CustomerEmail:     params.Email,
		PrimaryChannel:    campaign.PrimaryChannel,
		SecondaryChannel:  campaign.SecondaryChannel,
	})
	if err != nil {
		return DispatchResult{}, fmt.Errorf("failed to record review request: %w", err)
	}
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "review_request_id", Value: request.ID.String()})

	if validationErr := validateContact(channel, params.Phone, params.Email); validationErr != "" {
		return p.recordFailure(ctx, request.ID, validationErr)
	}

	message := renderTemplate(campaign.PrimaryTemplate, params.FirstName, campaign.BusinessName, campaign.BusinessReviewLink)

	gatewayCtx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()

	switch channel {
	case store.ChannelSMS:
		result := p.sms.SendSMS(gatewayCtx, *params.Phone, message)
		return p.classifySMSOutcome(ctx, request.ID, result)

	case store.ChannelEmail:
		subject := fmt.Sprintf("%s would love your feedback", campaign.BusinessName)
		if _, err := p.email.SendEmail(gatewayCtx, *params.Email, subject, message); err != nil {
			return p.recordFailure(ctx, request.ID, err.Error())
		}
		return p.recordSent(ctx, request.ID, nil)

	case store.ChannelNone:
		return p.recordFailure(ctx, request.ID, "No delivery channel configured for this campaign")
	}

	// ParseChannel is exhaustive over the constants above
	return p.recordFailure(ctx, request.ID, "No delivery channel configured for this campaign")
}

// classifySMSOutcome maps Twilio's status vocabulary onto the stored outcome.
// queued/sending/sent/delivered all count as in flight; anything short of
// delivered keeps a non-fatal advisory alongside the success.
func (p *DispatchProcessor) classifySMSOutcome(ctx context.Context, requestID uuid.UUID, result twilio.SendResult) (DispatchResult, error) {
	if !result.Success || result.Error != "" {
		reason := result.Error
		if reason == "" {
			reason = fmt.Sprintf("Twilio status: %s", result.Status)
		}
		return p.recordFailure(ctx, requestID, reason)
	}

	switch result.Status {
	case "queued", "sending", "sent", "delivered":
		var advisory *string
		if result.Status != "delivered" {
			note := fmt.Sprintf("Twilio status: %s (may not be delivered yet)", result.Status)
			advisory = &note
		}
		return p.recordSent(ctx, requestID, advisory)
	case "undelivered", "failed":
		return p.recordFailure(ctx, requestID, fmt.Sprintf("Twilio status: %s", result.Status))
	default:
		// Unknown statuses from the provider are treated as accepted with a
		// caveat rather than failed.
		note := fmt.Sprintf("Twilio status: %s (may not be delivered yet)", result.Status)
		return p.recordSent(ctx, requestID, &note)
	}
}

func (p *DispatchProcessor) recordSent(ctx context.Context, requestID uuid.UUID, advisory *string) (DispatchResult, error) {
	sentAt := p.now()
	updated, err := p.store.UpdateReviewRequestOutcome(ctx, requestID, store.ReviewRequestOutcomeParams{
		PrimarySent:  true,
		ErrorMessage: advisory,
		SentAt:       &sentAt,
	})
	if err != nil {
		return DispatchResult{}, fmt.Errorf("failed to record send outcome: %w", err)
	}

	p.logger.Info(ctx, "review request dispatched")
	result := DispatchResult{
		Success:         true,
		ReviewRequestID: updated.ID,
		PrimarySent:     true,
	}
	return result, nil
}

func (p *DispatchProcessor) recordFailure(ctx context.Context, requestID uuid.UUID, reason string) (DispatchResult, error) {
	updated, err := p.store.UpdateReviewRequestOutcome(ctx, requestID, store.ReviewRequestOutcomeParams{
		PrimarySent:  false,
		ErrorMessage: &reason,
	})
	if err != nil {
		return DispatchResult{}, fmt.Errorf("failed to record failure outcome: %w", err)
	}

	p.logger.Warn(ctx, "review request dispatch failed",
		observability.Field{Key: "reason", Value: reason})
	return DispatchResult{
		Success:         false,
		ReviewRequestID: updated.ID,
		PrimarySent:     false,
		Error:           reason,
	}, nil
}

// validateContact returns a descriptive reason when the contact info does not
// fit the campaign's channel, or empty when it does.
func validateContact(channel store.Channel, phone, email *string) string {
	switch channel {
	case store.ChannelSMS:
		if phone == nil || *phone == "" {
			return "A phone number is required for SMS campaigns"
		}
		digits := nonDigits.ReplaceAllString(*phone, "")
		if len(digits) < 10 || len(digits) > 15 {
			return "Phone number must contain 10 to 15 digits"
		}
	case store.ChannelEmail:
		if email == nil || *email == "" {
			return "An email address is required for email campaigns"
		}
		if !emailPattern.MatchString(*email) {
			return "Email address is not valid"
		}
	}
	return ""
}

// renderTemplate substitutes the three supported placeholders
func renderTemplate(template, firstName, businessName string, reviewLink *string) string {
	link := reviewLinkPlaceholder
	if reviewLink != nil && *reviewLink != "" {
		link = *reviewLink
	}

	rendered := strings.ReplaceAll(template, "{{first_name}}", firstName)
	rendered = strings.ReplaceAll(rendered, "{{business_name}}", businessName)
	rendered = strings.ReplaceAll(rendered, "{{review_link}}", link)
	return rendered
}
