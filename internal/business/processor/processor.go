package processor

import (
	"context"
	"errors"

	"fivestars-server/internal/observability"
	"fivestars-server/internal/store"

	"github.com/google/uuid"
)

// BusinessStore defines the database operations required by BusinessProcessor
type BusinessStore interface {
	CreateBusiness(ctx context.Context, params store.CreateBusinessParams) (store.Business, error)
	GetBusinessByUserID(ctx context.Context, userID uuid.UUID) (store.Business, error)
	UpdateBusiness(ctx context.Context, userID uuid.UUID, params store.UpdateBusinessParams) (store.Business, error)
}

var (
	ErrBusinessNotFound      = errors.New("business not found")
	ErrBusinessAlreadyExists = errors.New("business already exists")
)

type BusinessProcessor struct {
	store  BusinessStore
	logger *observability.Logger
}

func New(businessStore BusinessStore, logger *observability.Logger) BusinessProcessor {
	return BusinessProcessor{store: businessStore, logger: logger}
}

type Business struct {
	ID           uuid.UUID `json:"id"`
	BusinessName string    `json:"business_name"`
	ReviewLink   *string   `json:"review_link"`
}

func fromStore(business store.Business) Business {
	return Business{
		ID:           business.ID,
		BusinessName: business.BusinessName,
		ReviewLink:   business.ReviewLink,
	}
}

// Onboard creates the user's business profile. One profile per user; a second
// onboarding attempt is rejected.
func (p *BusinessProcessor) Onboard(ctx context.Context, userID uuid.UUID, businessName string, reviewLink *string) (Business, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "user_id", Value: userID.String()})

	_, err := p.store.GetBusinessByUserID(ctx, userID)
	if err == nil {
		return Business{}, ErrBusinessAlreadyExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		p.logger.Error(ctx, "failed to check for existing business", err)
		return Business{}, err
	}

	business, err := p.store.CreateBusiness(ctx, store.CreateBusinessParams{
		UserID:       userID,
		BusinessName: businessName,
		ReviewLink:   reviewLink,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to create business", err)
		return Business{}, err
	}
	return fromStore(business), nil
}

func (p *BusinessProcessor) GetByUserID(ctx context.Context, userID uuid.UUID) (Business, error) {
	business, err := p.store.GetBusinessByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Business{}, ErrBusinessNotFound
		}
		p.logger.Error(ctx, "failed to get business", err)
		return Business{}, err
	}
	return fromStore(business), nil
}

type UpdateParams struct {
	BusinessName *string
	ReviewLink   *string
}

func (p *BusinessProcessor) Update(ctx context.Context, userID uuid.UUID, params UpdateParams) (Business, error) {
	business, err := p.store.UpdateBusiness(ctx, userID, store.UpdateBusinessParams{
		BusinessName: params.BusinessName,
		ReviewLink:   params.ReviewLink,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Business{}, ErrBusinessNotFound
		}
		p.logger.Error(ctx, "failed to update business", err)
		return Business{}, err
	}
	return fromStore(business), nil
}
