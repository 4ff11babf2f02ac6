package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// CreateCampaignParams represents parameters for creating a campaign
type CreateCampaignParams struct {
	BusinessID       uuid.UUID
	Name             string
	ExternalID       string
	PrimaryChannel   string
	SecondaryChannel *string
	PrimaryTemplate  string
	FollowupEnabled  bool
	FollowupDelay    *int
	FollowupTemplate *string
}

const sqlCreateCampaign = `
INSERT INTO campaigns (business_id, name, external_id, primary_channel, secondary_channel, primary_template, followup_enabled, followup_delay, followup_template)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id, business_id, name, external_id, primary_channel, secondary_channel, primary_template, followup_enabled, followup_delay, followup_template, created_at, updated_at`

// CreateCampaign creates a new campaign
func (s *Store) CreateCampaign(ctx context.Context, params CreateCampaignParams) (Campaign, error) {
	var campaign Campaign
	err := s.db.GetContext(ctx, &campaign, sqlCreateCampaign,
		params.BusinessID,
		params.Name,
		params.ExternalID,
		params.PrimaryChannel,
		params.SecondaryChannel,
		params.PrimaryTemplate,
		params.FollowupEnabled,
		params.FollowupDelay,
		params.FollowupTemplate)
	if err != nil {
		s.logger.Error(ctx, "failed to create campaign", err)
		return Campaign{}, fmt.Errorf("failed to create campaign: %w", err)
	}
	return campaign, nil
}

const sqlGetCampaignByID = `
SELECT id, business_id, name, external_id, primary_channel, secondary_channel, primary_template, followup_enabled, followup_delay, followup_template, created_at, updated_at
FROM campaigns
WHERE id = $1`

// GetCampaignByID retrieves a campaign by internal id
func (s *Store) GetCampaignByID(ctx context.Context, campaignID uuid.UUID) (Campaign, error) {
	var campaign Campaign
	err := s.db.GetContext(ctx, &campaign, sqlGetCampaignByID, campaignID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Campaign{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get campaign by id", err)
		return Campaign{}, fmt.Errorf("failed to get campaign by id: %w", err)
	}
	return campaign, nil
}

const sqlGetCampaignWithBusiness = `
SELECT c.id, c.business_id, c.name, c.external_id, c.primary_channel, c.secondary_channel, c.primary_template,
       c.followup_enabled, c.followup_delay, c.followup_template, c.created_at, c.updated_at,
       b.business_name, b.review_link AS business_review_link, b.user_id AS business_user_id
FROM campaigns c
JOIN businesses b ON b.id = c.business_id
WHERE c.id = $1`

// GetCampaignWithBusiness retrieves a campaign joined with its owning business
func (s *Store) GetCampaignWithBusiness(ctx context.Context, campaignID uuid.UUID) (CampaignWithBusiness, error) {
	var campaign CampaignWithBusiness
	err := s.db.GetContext(ctx, &campaign, sqlGetCampaignWithBusiness, campaignID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CampaignWithBusiness{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get campaign with business", err)
		return CampaignWithBusiness{}, fmt.Errorf("failed to get campaign with business: %w", err)
	}
	return campaign, nil
}

const sqlGetCampaignByExternalID = `
SELECT c.id, c.business_id, c.name, c.external_id, c.primary_channel, c.secondary_channel, c.primary_template,
       c.followup_enabled, c.followup_delay, c.followup_template, c.created_at, c.updated_at,
       b.business_name, b.review_link AS business_review_link, b.user_id AS business_user_id
FROM campaigns c
JOIN businesses b ON b.id = c.business_id
WHERE c.external_id = $1`

// GetCampaignByExternalID retrieves a campaign by the stable external
// identifier used by webhook callers, joined with its business.
func (s *Store) GetCampaignByExternalID(ctx context.Context, externalID string) (CampaignWithBusiness, error) {
	var campaign CampaignWithBusiness
	err := s.db.GetContext(ctx, &campaign, sqlGetCampaignByExternalID, externalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CampaignWithBusiness{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get campaign by external id", err)
		return CampaignWithBusiness{}, fmt.Errorf("failed to get campaign by external id: %w", err)
	}
	return campaign, nil
}

const sqlListCampaignsByBusiness = `
SELECT id, business_id, name, external_id, primary_channel, secondary_channel, primary_template, followup_enabled, followup_delay, followup_template, created_at, updated_at
FROM campaigns
WHERE business_id = $1
ORDER BY created_at DESC`

// ListCampaignsByBusiness retrieves all campaigns owned by a business
func (s *Store) ListCampaignsByBusiness(ctx context.Context, businessID uuid.UUID) ([]Campaign, error) {
	var campaigns []Campaign
	err := s.db.SelectContext(ctx, &campaigns, sqlListCampaignsByBusiness, businessID)
	if err != nil {
		s.logger.Error(ctx, "failed to list campaigns by business", err)
		return nil, fmt.Errorf("failed to list campaigns by business: %w", err)
	}
	return campaigns, nil
}

// UpdateCampaignParams represents updatable campaign settings
type UpdateCampaignParams struct {
	Name             *string
	PrimaryChannel   *string
	SecondaryChannel *string
	PrimaryTemplate  *string
	FollowupEnabled  *bool
	FollowupDelay    *int
	FollowupTemplate *string
}

const sqlUpdateCampaign = `
UPDATE campaigns
SET name = COALESCE($2, name),
    primary_channel = COALESCE($3, primary_channel),
    secondary_channel = COALESCE($4, secondary_channel),
    primary_template = COALESCE($5, primary_template),
    followup_enabled = COALESCE($6, followup_enabled),
    followup_delay = COALESCE($7, followup_delay),
    followup_template = COALESCE($8, followup_template),
    updated_at = CURRENT_TIMESTAMP
WHERE id = $1
RETURNING id, business_id, name, external_id, primary_channel, secondary_channel, primary_template, followup_enabled, followup_delay, followup_template, created_at, updated_at`

// UpdateCampaign updates campaign settings
func (s *Store) UpdateCampaign(ctx context.Context, campaignID uuid.UUID, params UpdateCampaignParams) (Campaign, error) {
	var campaign Campaign
	err := s.db.GetContext(ctx, &campaign, sqlUpdateCampaign,
		campaignID,
		params.Name,
		params.PrimaryChannel,
		params.SecondaryChannel,
		params.PrimaryTemplate,
		params.FollowupEnabled,
		params.FollowupDelay,
		params.FollowupTemplate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Campaign{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to update campaign", err)
		return Campaign{}, fmt.Errorf("failed to update campaign: %w", err)
	}
	return campaign, nil
}

const sqlDeleteCampaign = `
DELETE FROM campaigns
WHERE id = $1`

// DeleteCampaign deletes a campaign; review requests cascade at the schema level
func (s *Store) DeleteCampaign(ctx context.Context, campaignID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, sqlDeleteCampaign, campaignID)
	if err != nil {
		s.logger.Error(ctx, "failed to delete campaign", err)
		return fmt.Errorf("failed to delete campaign: %w", err)
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
