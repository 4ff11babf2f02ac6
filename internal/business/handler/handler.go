package handler

import (
	"errors"
	"net/http"

	"fivestars-server/internal/apierrors"
	"fivestars-server/internal/business/processor"
	"fivestars-server/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	businessProcessor processor.BusinessProcessor
	logger            *observability.Logger
}

func New(businessProcessor processor.BusinessProcessor, logger *observability.Logger) Handler {
	return Handler{businessProcessor: businessProcessor, logger: logger}
}

type OnboardRequest struct {
	BusinessName string  `json:"business_name" binding:"required"`
	ReviewLink   *string `json:"review_link" binding:"omitempty,url"`
}

type UpdateRequest struct {
	BusinessName *string `json:"business_name"`
	ReviewLink   *string `json:"review_link" binding:"omitempty,url"`
}

func (h *Handler) userID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.GetString("User-ID"))
	if err != nil {
		apierrors.Unauthorized(c, "Invalid user context")
		return uuid.Nil, false
	}
	return userID, true
}

func (h *Handler) HandleOnboard(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req OnboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}
	business, err := h.businessProcessor.Onboard(ctx, userID, req.BusinessName, req.ReviewLink)
	if err != nil {
		if errors.Is(err, processor.ErrBusinessAlreadyExists) {
			apierrors.Conflict(c, "BUSINESS_EXISTS", "A business profile already exists for this account")
			return
		}
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, business)
}

func (h *Handler) HandleGet(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	business, err := h.businessProcessor.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, processor.ErrBusinessNotFound) {
			apierrors.NotFound(c, "Business profile not found")
			return
		}
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, business)
}

func (h *Handler) HandleUpdate(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}
	business, err := h.businessProcessor.Update(ctx, userID, processor.UpdateParams{
		BusinessName: req.BusinessName,
		ReviewLink:   req.ReviewLink,
	})
	if err != nil {
		if errors.Is(err, processor.ErrBusinessNotFound) {
			apierrors.NotFound(c, "Business profile not found")
			return
		}
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, business)
}
