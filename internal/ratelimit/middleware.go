package ratelimit

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"fivestars-server/internal/apierrors"
	"fivestars-server/internal/observability"

	"github.com/gin-gonic/gin"
)

// Service wires a Limiter into gin middleware
type Service struct {
	limiter Limiter
	logger  *observability.Logger
}

// NewService creates a rate limiting service around the given limiter
func NewService(limiter Limiter, logger *observability.Logger) *Service {
	return &Service{
		limiter: limiter,
		logger:  logger,
	}
}

// identifierFrom resolves who is being limited. Authenticated requests are
// limited per user; anonymous ones per client IP from the proxy headers. The
// "unknown" fallback pools all unattributable traffic into one bucket.
func identifierFrom(c *gin.Context) string {
	if userID := c.GetString("User-ID"); userID != "" {
		return "user:" + userID
	}

	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}

	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}

	return "unknown"
}

func setRateLimitHeaders(c *gin.Context, result Result) {
	c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
	c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
	c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetAt.UnixMilli()))
}

func retryAfterSeconds(result Result) int {
	retryAfter := int(result.RetryAfter.Round(time.Second).Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	return retryAfter
}

// Middleware limits requests under the given class, answering exhaustion in
// the resource error dialect.
func (s *Service) Middleware(class Class) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		identifier := identifierFrom(c)

		result := s.limiter.Check(ctx, class, identifier)
		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfterSeconds(result)))
			s.logger.Warn(ctx, "rate limit exceeded",
				observability.Field{Key: "class", Value: string(class)},
				observability.Field{Key: "identifier", Value: identifier},
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierrors.ErrorResponse{
				Error: "Rate limit exceeded",
				Code:  "RATE_LIMIT_EXCEEDED",
			})
			return
		}

		c.Next()
	}
}

// OAuthMiddleware limits requests under the given class, answering exhaustion
// in the OAuth error dialect expected by authorization and token callers.
func (s *Service) OAuthMiddleware(class Class) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		identifier := identifierFrom(c)

		result := s.limiter.Check(ctx, class, identifier)
		setRateLimitHeaders(c, result)

		if !result.Allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfterSeconds(result)))
			s.logger.Warn(ctx, "rate limit exceeded",
				observability.Field{Key: "class", Value: string(class)},
				observability.Field{Key: "identifier", Value: identifier},
			)
			apierrors.OAuthError(c, http.StatusTooManyRequests, apierrors.OAuthRateLimitExceeded,
				"Too many requests, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
