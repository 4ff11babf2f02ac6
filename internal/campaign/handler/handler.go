package handler

import (
	"errors"
	"net/http"
	"strconv"

	"fivestars-server/internal/apierrors"
	"fivestars-server/internal/campaign/processor"
	"fivestars-server/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type Handler struct {
	campaignProcessor processor.CampaignProcessor
	logger            *observability.Logger
}

func New(campaignProcessor processor.CampaignProcessor, logger *observability.Logger) Handler {
	return Handler{campaignProcessor: campaignProcessor, logger: logger}
}

type CreateCampaignRequest struct {
	Name             string  `json:"name" binding:"required"`
	PrimaryChannel   string  `json:"primary_channel" binding:"required"`
	SecondaryChannel *string `json:"secondary_channel"`
	PrimaryTemplate  string  `json:"primary_template" binding:"required"`
	FollowupEnabled  bool    `json:"followup_enabled"`
	FollowupDelay    *int    `json:"followup_delay"`
	FollowupTemplate *string `json:"followup_template"`
}

type UpdateCampaignRequest struct {
	Name             *string `json:"name"`
	PrimaryChannel   *string `json:"primary_channel"`
	SecondaryChannel *string `json:"secondary_channel"`
	PrimaryTemplate  *string `json:"primary_template"`
	FollowupEnabled  *bool   `json:"followup_enabled"`
	FollowupDelay    *int    `json:"followup_delay"`
	FollowupTemplate *string `json:"followup_template"`
}

func (h *Handler) userID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.GetString("User-ID"))
	if err != nil {
		apierrors.Unauthorized(c, "Invalid user context")
		return uuid.Nil, false
	}
	return userID, true
}

func (h *Handler) campaignID(c *gin.Context) (uuid.UUID, bool) {
	campaignID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_ID", "Invalid campaign id")
		return uuid.Nil, false
	}
	return campaignID, true
}

// respondError maps processor sentinels onto the dashboard error dialect.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, processor.ErrCampaignNotFound):
		apierrors.NotFound(c, "Campaign not found")
	case errors.Is(err, processor.ErrReviewRequestNotFound):
		apierrors.NotFound(c, "Review request not found")
	case errors.Is(err, processor.ErrBusinessNotFound):
		apierrors.BadRequest(c, "NO_BUSINESS", "Create a business profile before adding campaigns")
	case errors.Is(err, processor.ErrUnauthorized):
		apierrors.Forbidden(c, "FORBIDDEN", "Campaign does not belong to the authenticated user")
	case errors.Is(err, processor.ErrInvalidChannel):
		apierrors.BadRequest(c, "INVALID_CHANNEL", "Channel must be sms, email or none")
	case errors.Is(err, processor.ErrInvalidFollowup):
		apierrors.BadRequest(c, "INVALID_FOLLOWUP", err.Error())
	default:
		apierrors.InternalError(c, err)
	}
}

func (h *Handler) HandleCreate(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}
	campaign, err := h.campaignProcessor.Create(ctx, userID, processor.CreateParams{
		Name:             req.Name,
		PrimaryChannel:   req.PrimaryChannel,
		SecondaryChannel: req.SecondaryChannel,
		PrimaryTemplate:  req.PrimaryTemplate,
		FollowupEnabled:  req.FollowupEnabled,
		FollowupDelay:    req.FollowupDelay,
		FollowupTemplate: req.FollowupTemplate,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, campaign)
}

func (h *Handler) HandleList(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	campaigns, err := h.campaignProcessor.List(ctx, userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaigns)
}

func (h *Handler) HandleGet(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}
	campaign, err := h.campaignProcessor.Get(ctx, userID, campaignID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

func (h *Handler) HandleUpdate(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}
	var req UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}
	campaign, err := h.campaignProcessor.Update(ctx, userID, campaignID, processor.UpdateParams{
		Name:             req.Name,
		PrimaryChannel:   req.PrimaryChannel,
		SecondaryChannel: req.SecondaryChannel,
		PrimaryTemplate:  req.PrimaryTemplate,
		FollowupEnabled:  req.FollowupEnabled,
		FollowupDelay:    req.FollowupDelay,
		FollowupTemplate: req.FollowupTemplate,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, campaign)
}

func (h *Handler) HandleDelete(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}
	if err := h.campaignProcessor.Delete(ctx, userID, campaignID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) HandleListReviewRequests(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	campaignID, ok := h.campaignID(c)
	if !ok {
		return
	}

	limit := defaultPageSize
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxPageSize {
			apierrors.BadRequest(c, "INVALID_LIMIT", "limit must be between 1 and 200")
			return
		}
		limit = parsed
	}
	offset := 0
	if raw := c.Query("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			apierrors.BadRequest(c, "INVALID_OFFSET", "offset must be non-negative")
			return
		}
		offset = parsed
	}

	requests, err := h.campaignProcessor.ListReviewRequests(ctx, userID, campaignID, limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requests)
}

func (h *Handler) HandleDeleteReviewRequest(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_ID", "Invalid review request id")
		return
	}
	if err := h.campaignProcessor.DeleteReviewRequest(ctx, userID, requestID); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
