package handler

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"fivestars-server/internal/apierrors"
	"fivestars-server/internal/observability"
	"fivestars-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const keyPrefix = "fivestars_"

// APIKeyStore defines the database operations for API key management
type APIKeyStore interface {
	CreateAPIKey(ctx context.Context, params store.CreateAPIKeyParams) (store.APIKey, error)
	GetAPIKeyByHash(ctx context.Context, keyHash string) (store.APIKey, error)
	ListAPIKeysByUser(ctx context.Context, userID uuid.UUID) ([]store.APIKey, error)
	TouchAPIKey(ctx context.Context, keyID uuid.UUID, usedAt time.Time) error
	DeleteAPIKey(ctx context.Context, keyID, userID uuid.UUID) error
}

// Handler handles API key HTTP requests
type Handler struct {
	store  APIKeyStore
	logger *observability.Logger
}

func New(apiKeyStore APIKeyStore, logger *observability.Logger) *Handler {
	return &Handler{store: apiKeyStore, logger: logger}
}

// generateAPIKey returns the raw key and its stored SHA-256 hex digest. The
// raw key leaves the server exactly once, in the create response.
func generateAPIKey() (string, string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", "", err
	}
	rawKey := keyPrefix + hex.EncodeToString(buf)
	return rawKey, hashAPIKey(rawKey), nil
}

func hashAPIKey(rawKey string) string {
	digest := sha256.Sum256([]byte(rawKey))
	return hex.EncodeToString(digest[:])
}

type CreateAPIKeyRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// CreateAPIKeyResponse carries the raw key; it is only returned on creation
type CreateAPIKeyResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Key       string `json:"key"`
	CreatedAt string `json:"created_at"`
}

// APIKeyResponse is the list representation, without the secret
type APIKeyResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	LastUsedAt *string `json:"last_used_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

func (h *Handler) userID(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.GetString("User-ID"))
	if err != nil {
		apierrors.Unauthorized(c, "Invalid user context")
		return uuid.Nil, false
	}
	return userID, true
}

// HandleCreateAPIKey handles POST /api/api-keys
func (h *Handler) HandleCreateAPIKey(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}

	rawKey, keyHash, err := generateAPIKey()
	if err != nil {
		h.logger.Error(ctx, "failed to generate API key", err)
		apierrors.InternalError(c, err)
		return
	}

	apiKey, err := h.store.CreateAPIKey(ctx, store.CreateAPIKeyParams{
		UserID:  userID,
		Name:    req.Name,
		KeyHash: keyHash,
	})
	if err != nil {
		h.logger.Error(ctx, "failed to create API key", err)
		apierrors.InternalError(c, err)
		return
	}

	h.logger.Info(observability.WithFields(ctx,
		observability.Field{Key: "api_key_id", Value: apiKey.ID.String()}), "created API key")

	c.JSON(http.StatusCreated, CreateAPIKeyResponse{
		ID:        apiKey.ID.String(),
		Name:      apiKey.Name,
		Key:       rawKey,
		CreatedAt: apiKey.CreatedAt.Format(time.RFC3339),
	})
}

// HandleListAPIKeys handles GET /api/api-keys
func (h *Handler) HandleListAPIKeys(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	apiKeys, err := h.store.ListAPIKeysByUser(ctx, userID)
	if err != nil {
		h.logger.Error(ctx, "failed to list API keys", err)
		apierrors.InternalError(c, err)
		return
	}

	response := make([]APIKeyResponse, len(apiKeys))
	for i, key := range apiKeys {
		var lastUsedAt *string
		if key.LastUsedAt != nil {
			s := key.LastUsedAt.Format(time.RFC3339)
			lastUsedAt = &s
		}
		response[i] = APIKeyResponse{
			ID:         key.ID.String(),
			Name:       key.Name,
			LastUsedAt: lastUsedAt,
			CreatedAt:  key.CreatedAt.Format(time.RFC3339),
		}
	}
	c.JSON(http.StatusOK, response)
}

// HandleRevokeAPIKey handles DELETE /api/api-keys/:id
func (h *Handler) HandleRevokeAPIKey(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	keyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		apierrors.BadRequest(c, "INVALID_ID", "Invalid API key id")
		return
	}

	if err := h.store.DeleteAPIKey(ctx, keyID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			apierrors.NotFound(c, "API key not found")
			return
		}
		h.logger.Error(ctx, "failed to revoke API key", err)
		apierrors.InternalError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// APIKeyMiddleware authenticates requests by API key, presented either as a
// bearer token or in X-API-Key. On success the key owner becomes the request
// user and the key's last-used timestamp is bumped off the request path.
func (h *Handler) APIKeyMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	rawKey := c.GetHeader("X-API-Key")
	if rawKey == "" {
		header := c.GetHeader("Authorization")
		if strings.HasPrefix(header, "Bearer "+keyPrefix) {
			rawKey = strings.TrimPrefix(header, "Bearer ")
		}
	}
	if rawKey == "" {
		apierrors.Unauthorized(c, "API key is missing")
		c.Abort()
		return
	}

	apiKey, err := h.store.GetAPIKeyByHash(ctx, hashAPIKey(rawKey))
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			h.logger.Error(ctx, "failed to look up API key", err)
		}
		apierrors.Unauthorized(c, "Invalid API key")
		c.Abort()
		return
	}

	go func() {
		_ = h.store.TouchAPIKey(context.Background(), apiKey.ID, time.Now())
	}()

	c.Set("User-ID", apiKey.UserID.String())
	c.Next()
}
