package apierrors

import (
	"net/http"

	"fivestars-server/internal/observability"

	"github.com/gin-gonic/gin"
)

// OAuth protocol error codes per RFC 6749 §5.2. These are surfaced verbatim
// to the caller and must not be remapped or sanitized.
const (
	OAuthInvalidRequest          = "invalid_request"
	OAuthInvalidGrant            = "invalid_grant"
	OAuthUnsupportedResponseType = "unsupported_response_type"
	OAuthUnsupportedGrantType    = "unsupported_grant_type"
	OAuthAccessDenied            = "access_denied"
	OAuthRateLimitExceeded       = "rate_limit_exceeded"
	OAuthServerError             = "server_error"
)

// OAuthErrorResponse is the error body shape for OAuth-flavored endpoints.
type OAuthErrorResponse struct {
	ErrorCode        string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// OAuthError sends an OAuth protocol error with the given HTTP status.
func OAuthError(c *gin.Context, statusCode int, code, description string) {
	ctx := c.Request.Context()
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "status_code", Value: statusCode},
		observability.Field{Key: "oauth_error", Value: code},
		observability.Field{Key: "error_description", Value: description},
	)
	logger.Info(ctx, "OAuth error response")

	c.JSON(statusCode, OAuthErrorResponse{
		ErrorCode:        code,
		ErrorDescription: description,
	})
}

// OAuthServerErr sends a 500 server_error response, logging the internal cause.
func OAuthServerErr(c *gin.Context, description string, internalErr error) {
	logger.Error(c.Request.Context(), "OAuth server error", internalErr)
	OAuthError(c, http.StatusInternalServerError, OAuthServerError, description)
}
