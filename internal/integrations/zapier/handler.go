package zapier

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"fivestars-server/internal/apierrors"
	dispatch "fivestars-server/internal/dispatch/processor"
	"fivestars-server/internal/observability"
	"fivestars-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ZapierStore defines the database operations required by the Zapier surface
type ZapierStore interface {
	GetCampaignByExternalID(ctx context.Context, externalID string) (store.CampaignWithBusiness, error)
	GetBusinessByUserID(ctx context.Context, userID uuid.UUID) (store.Business, error)
	ListCampaignsByBusiness(ctx context.Context, businessID uuid.UUID) ([]store.Campaign, error)
}

// Dispatcher runs one review-request send
type Dispatcher interface {
	Dispatch(ctx context.Context, params dispatch.DispatchParams) (dispatch.DispatchResult, error)
}

// Handler exposes the endpoints Zapier calls: an identity probe, a campaign
// dropdown source, and the review-request trigger webhook.
type Handler struct {
	store         ZapierStore
	dispatcher    Dispatcher
	webhookSecret string
	oauthAuth     gin.HandlerFunc
	logger        *observability.Logger
}

// New creates a Zapier handler. webhookSecret may be empty, in which case the
// webhook path requires OAuth bearer auth like the other endpoints.
func New(zapierStore ZapierStore, dispatcher Dispatcher, webhookSecret string, oauthAuth gin.HandlerFunc, logger *observability.Logger) *Handler {
	return &Handler{
		store:         zapierStore,
		dispatcher:    dispatcher,
		webhookSecret: webhookSecret,
		oauthAuth:     oauthAuth,
		logger:        logger,
	}
}

// HandleTest is Zapier's connection probe; reaching it at all means the
// bearer token resolved, so it just echoes a healthy body.
func (h *Handler) HandleTest(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user_id": c.GetString("User-ID"),
	})
}

// CampaignOption is one entry in Zapier's campaign dropdown. The id is the
// stable external campaign id, never the internal row id.
type CampaignOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// HandleListCampaigns returns the authenticated user's campaigns for the
// trigger configuration dropdown.
func (h *Handler) HandleListCampaigns(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := uuid.Parse(c.GetString("User-ID"))
	if err != nil {
		apierrors.Unauthorized(c, "Invalid user context")
		return
	}

	business, err := h.store.GetBusinessByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, []CampaignOption{})
			return
		}
		apierrors.InternalError(c, err)
		return
	}

	campaigns, err := h.store.ListCampaignsByBusiness(ctx, business.ID)
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}

	options := make([]CampaignOption, 0, len(campaigns))
	for _, campaign := range campaigns {
		options = append(options, CampaignOption{ID: campaign.ExternalID, Name: campaign.Name})
	}
	c.JSON(http.StatusOK, options)
}

// ReviewRequestWebhook is the trigger payload posted by a Zap
type ReviewRequestWebhook struct {
	CampaignID string  `json:"campaign_id" binding:"required,len=32"`
	FirstName  string  `json:"first_name" binding:"required"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email"`
}

// HandleReviewRequest triggers one dispatch. Domain failures (unknown
// campaign, bad contact info, misconfigured channel) come back as 200 with
// success:false so the Zap can branch on the body instead of erroring.
func (h *Handler) HandleReviewRequest(c *gin.Context) {
	ctx := c.Request.Context()

	var req ReviewRequestWebhook
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	campaign, err := h.store.GetCampaignByExternalID(ctx, req.CampaignID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"success": false, "error": "Campaign not found"})
			return
		}
		apierrors.InternalError(c, err)
		return
	}

	// OAuth-authenticated calls are scoped to the token's user; the static
	// webhook secret path carries no user and skips the ownership check.
	if userIDString := c.GetString("User-ID"); userIDString != "" {
		userID, err := uuid.Parse(userIDString)
		if err != nil || campaign.BusinessUserID != userID {
			apierrors.Forbidden(c, "FORBIDDEN", "Campaign does not belong to the authenticated user")
			return
		}
	}

	result, err := h.dispatcher.Dispatch(ctx, dispatch.DispatchParams{
		CampaignID: campaign.ID,
		FirstName:  req.FirstName,
		Phone:      req.Phone,
		Email:      req.Email,
	})
	if err != nil {
		if errors.Is(err, dispatch.ErrCampaignNotFound) {
			c.JSON(http.StatusOK, gin.H{"success": false, "error": "Campaign not found"})
			return
		}
		apierrors.InternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// WebhookAuthMiddleware authenticates the review-request webhook. A
// configured shared secret presented as a bearer token is accepted first;
// anything else falls through to OAuth bearer authentication.
func (h *Handler) WebhookAuthMiddleware(c *gin.Context) {
	if h.webhookSecret != "" {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer ") {
			presented := strings.TrimPrefix(header, "Bearer ")
			if subtle.ConstantTimeCompare([]byte(presented), []byte(h.webhookSecret)) == 1 {
				c.Next()
				return
			}
		}
	}
	h.oauthAuth(c)
}
