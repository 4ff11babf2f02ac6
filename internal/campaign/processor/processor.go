package processor

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"fivestars-server/internal/observability"
	"fivestars-server/internal/store"

	"github.com/google/uuid"
)

// CampaignStore defines the database operations required by CampaignProcessor
type CampaignStore interface {
	CreateCampaign(ctx context.Context, params store.CreateCampaignParams) (store.Campaign, error)
	GetCampaignByID(ctx context.Context, campaignID uuid.UUID) (store.Campaign, error)
	ListCampaignsByBusiness(ctx context.Context, businessID uuid.UUID) ([]store.Campaign, error)
	UpdateCampaign(ctx context.Context, campaignID uuid.UUID, params store.UpdateCampaignParams) (store.Campaign, error)
	DeleteCampaign(ctx context.Context, campaignID uuid.UUID) error
	GetBusinessByUserID(ctx context.Context, userID uuid.UUID) (store.Business, error)
	ListReviewRequestsByCampaign(ctx context.Context, campaignID uuid.UUID, limit, offset int) ([]store.ReviewRequest, error)
	GetReviewRequestByID(ctx context.Context, requestID uuid.UUID) (store.ReviewRequest, error)
	DeleteReviewRequest(ctx context.Context, requestID uuid.UUID) error
}

var (
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrBusinessNotFound = errors.New("business not found")
	ErrUnauthorized     = errors.New("unauthorized access to campaign")
	ErrInvalidChannel   = errors.New("invalid channel")
	ErrInvalidFollowup  = errors.New("invalid follow-up settings")
)

const (
	minFollowupDelayDays = 1
	maxFollowupDelayDays = 30
)

type CampaignProcessor struct {
	store  CampaignStore
	logger *observability.Logger
}

func New(campaignStore CampaignStore, logger *observability.Logger) CampaignProcessor {
	return CampaignProcessor{store: campaignStore, logger: logger}
}

type Campaign struct {
	ID               uuid.UUID `json:"id"`
	CampaignID       string    `json:"campaign_id"`
	Name             string    `json:"name"`
	PrimaryChannel   string    `json:"primary_channel"`
	SecondaryChannel *string   `json:"secondary_channel"`
	PrimaryTemplate  string    `json:"primary_template"`
	FollowupEnabled  bool      `json:"followup_enabled"`
	FollowupDelay    *int      `json:"followup_delay"`
	FollowupTemplate *string   `json:"followup_template"`
	CreatedAt        time.Time `json:"created_at"`
}

func fromStore(campaign store.Campaign) Campaign {
	return Campaign{
		ID:               campaign.ID,
		CampaignID:       campaign.ExternalID,
		Name:             campaign.Name,
		PrimaryChannel:   campaign.PrimaryChannel,
		SecondaryChannel: campaign.SecondaryChannel,
		PrimaryTemplate:  campaign.PrimaryTemplate,
		FollowupEnabled:  campaign.FollowupEnabled,
		FollowupDelay:    campaign.FollowupDelay,
		FollowupTemplate: campaign.FollowupTemplate,
		CreatedAt:        campaign.CreatedAt,
	}
}

// generateExternalID produces the stable 32-character identifier handed to
// webhook callers.
func generateExternalID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate campaign id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func validChannel(channel string) bool {
	switch store.Channel(channel) {
	case store.ChannelSMS, store.ChannelEmail, store.ChannelNone:
		return true
	}
	return false
}

// validateFollowup enforces the settings-form invariant: enabling follow-ups
// requires a delay between 1 and 30 days and a non-empty template.
func validateFollowup(enabled bool, delay *int, template *string) error {
	if !enabled {
		return nil
	}
	if delay == nil || *delay < minFollowupDelayDays || *delay > maxFollowupDelayDays {
		return fmt.Errorf("%w: delay must be between %d and %d days", ErrInvalidFollowup, minFollowupDelayDays, maxFollowupDelayDays)
	}
	if template == nil || *template == "" {
		return fmt.Errorf("%w: template is required when follow-up is enabled", ErrInvalidFollowup)
	}
	return nil
}

type CreateParams struct {
	Name             string
	PrimaryChannel   string
	SecondaryChannel *string
	PrimaryTemplate  string
	FollowupEnabled  bool
	FollowupDelay    *int
	FollowupTemplate *string
}

func (p *CampaignProcessor) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (Campaign, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "user_id", Value: userID.String()})

	if !validChannel(params.PrimaryChannel) {
		return Campaign{}, ErrInvalidChannel
	}
	if params.SecondaryChannel != nil && !validChannel(*params.SecondaryChannel) {
		return Campaign{}, ErrInvalidChannel
	}
	if err := validateFollowup(params.FollowupEnabled, params.FollowupDelay, params.FollowupTemplate); err != nil {
		return Campaign{}, err
	}

	business, err := p.store.GetBusinessByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Campaign{}, ErrBusinessNotFound
		}
		p.logger.Error(ctx, "failed to get business", err)
		return Campaign{}, err
	}

	externalID, err := generateExternalID()
	if err != nil {
		p.logger.Error(ctx, "failed to generate external id", err)
		return Campaign{}, err
	}

	campaign, err := p.store.CreateCampaign(ctx, store.CreateCampaignParams{
		BusinessID:       business.ID,
		Name:             params.Name,
		ExternalID:       externalID,
		PrimaryChannel:   params.PrimaryChannel,
		SecondaryChannel: params.SecondaryChannel,
		PrimaryTemplate:  params.PrimaryTemplate,
		FollowupEnabled:  params.FollowupEnabled,
		FollowupDelay:    params.FollowupDelay,
		FollowupTemplate: params.FollowupTemplate,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to create campaign", err)
		return Campaign{}, err
	}
	return fromStore(campaign), nil
}

// ownedCampaign loads a campaign and verifies it belongs to the user's
// business.
func (p *CampaignProcessor) ownedCampaign(ctx context.Context, userID, campaignID uuid.UUID) (store.Campaign, error) {
	campaign, err := p.store.GetCampaignByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Campaign{}, ErrCampaignNotFound
		}
		p.logger.Error(ctx, "failed to get campaign", err)
		return store.Campaign{}, err
	}
	business, err := p.store.GetBusinessByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Campaign{}, ErrUnauthorized
		}
		p.logger.Error(ctx, "failed to get business", err)
		return store.Campaign{}, err
	}
	if campaign.BusinessID != business.ID {
		return store.Campaign{}, ErrUnauthorized
	}
	return campaign, nil
}

func (p *CampaignProcessor) Get(ctx context.Context, userID, campaignID uuid.UUID) (Campaign, error) {
	campaign, err := p.ownedCampaign(ctx, userID, campaignID)
	if err != nil {
		return Campaign{}, err
	}
	return fromStore(campaign), nil
}

func (p *CampaignProcessor) List(ctx context.Context, userID uuid.UUID) ([]Campaign, error) {
	business, err := p.store.GetBusinessByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []Campaign{}, nil
		}
		p.logger.Error(ctx, "failed to get business", err)
		return nil, err
	}
	campaigns, err := p.store.ListCampaignsByBusiness(ctx, business.ID)
	if err != nil {
		p.logger.Error(ctx, "failed to list campaigns", err)
		return nil, err
	}
	result := make([]Campaign, 0, len(campaigns))
	for _, campaign := range campaigns {
		result = append(result, fromStore(campaign))
	}
	return result, nil
}

type UpdateParams struct {
	Name             *string
	PrimaryChannel   *string
	SecondaryChannel *string
	PrimaryTemplate  *string
	FollowupEnabled  *bool
	FollowupDelay    *int
	FollowupTemplate *string
}

func (p *CampaignProcessor) Update(ctx context.Context, userID, campaignID uuid.UUID, params UpdateParams) (Campaign, error) {
	existing, err := p.ownedCampaign(ctx, userID, campaignID)
	if err != nil {
		return Campaign{}, err
	}

	if params.PrimaryChannel != nil && !validChannel(*params.PrimaryChannel) {
		return Campaign{}, ErrInvalidChannel
	}
	if params.SecondaryChannel != nil && !validChannel(*params.SecondaryChannel) {
		return Campaign{}, ErrInvalidChannel
	}

	// the invariant holds over the merged settings, not just the patch
	enabled := existing.FollowupEnabled
	if params.FollowupEnabled != nil {
		enabled = *params.FollowupEnabled
	}
	delay := existing.FollowupDelay
	if params.FollowupDelay != nil {
		delay = params.FollowupDelay
	}
	template := existing.FollowupTemplate
	if params.FollowupTemplate != nil {
		template = params.FollowupTemplate
	}
	if err := validateFollowup(enabled, delay, template); err != nil {
		return Campaign{}, err
	}

	campaign, err := p.store.UpdateCampaign(ctx, campaignID, store.UpdateCampaignParams{
		Name:             params.Name,
		PrimaryChannel:   params.PrimaryChannel,
		SecondaryChannel: params.SecondaryChannel,
		PrimaryTemplate:  params.PrimaryTemplate,
		FollowupEnabled:  params.FollowupEnabled,
		FollowupDelay:    params.FollowupDelay,
		FollowupTemplate: params.FollowupTemplate,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to update campaign", err)
		return Campaign{}, err
	}
	return fromStore(campaign), nil
}

// Delete removes a campaign; review requests cascade at the database level.
func (p *CampaignProcessor) Delete(ctx context.Context, userID, campaignID uuid.UUID) error {
	if _, err := p.ownedCampaign(ctx, userID, campaignID); err != nil {
		return err
	}
	if err := p.store.DeleteCampaign(ctx, campaignID); err != nil {
		p.logger.Error(ctx, "failed to delete campaign", err)
		return err
	}
	return nil
}
