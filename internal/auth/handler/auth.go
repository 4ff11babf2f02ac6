package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"fivestars-server/internal/apierrors"
	"fivestars-server/internal/auth/processor"
	"fivestars-server/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	authProcessor processor.AuthProcessor
	webAppURI     string
	logger        *observability.Logger
}

func New(authProcessor processor.AuthProcessor, webAppURI string, logger *observability.Logger) Handler {
	return Handler{authProcessor: authProcessor, webAppURI: webAppURI, logger: logger}
}

type EmailSignupRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
}

type EmailLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

func (h *Handler) HandleEmailSignup(c *gin.Context) {
	ctx := c.Request.Context()
	var req EmailSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}
	signedUpUser, err := h.authProcessor.Signup(ctx, req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, processor.ErrEmailAlreadyExists) {
			apierrors.Conflict(c, "EMAIL_EXISTS", "An account with this email already exists")
			return
		}
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, signedUpUser)
}

func (h *Handler) HandleEmailLogin(c *gin.Context) {
	ctx := c.Request.Context()
	var req EmailLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.ValidationError(c, err)
		return
	}
	token, err := h.authProcessor.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, processor.ErrInvalidCredentials) {
			apierrors.Unauthorized(c, "Invalid email or password")
			return
		}
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h *Handler) HandleGoogleOauthCallback(c *gin.Context) {
	ctx := c.Request.Context()
	code := c.Query("code")
	if code == "" {
		apierrors.BadRequest(c, "INVALID_REQUEST", "Authorization code is missing")
		return
	}
	token, err := h.authProcessor.SignInGoogleUserWithCode(ctx, code)
	if err != nil {
		apierrors.Unauthorized(c, "Google sign-in failed")
		return
	}

	redirectURL, err := url.Parse(h.webAppURI)
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}
	redirectURL.Path = "/oauth/signedin"
	query := redirectURL.Query()
	query.Add("token", token)
	redirectURL.RawQuery = query.Encode()

	c.Redirect(http.StatusFound, redirectURL.String())
}

// HandleJWTMiddleware requires a valid session JWT and stores the user id in
// the gin context under User-ID.
func (h *Handler) HandleJWTMiddleware(c *gin.Context) {
	userID, ok := h.userIDFromHeader(c)
	if !ok {
		apierrors.Unauthorized(c, "Authorization token is missing or invalid")
		c.Abort()
		return
	}
	c.Set("User-ID", userID.String())
	c.Next()
}

// HandleOptionalJWTMiddleware resolves the session if one is present but lets
// anonymous requests through. The authorize endpoint uses it to decide
// between serving consent and redirecting to login.
func (h *Handler) HandleOptionalJWTMiddleware(c *gin.Context) {
	if userID, ok := h.userIDFromHeader(c); ok {
		c.Set("User-ID", userID.String())
	}
	c.Next()
}

func (h *Handler) userIDFromHeader(c *gin.Context) (uuid.UUID, bool) {
	ctx := c.Request.Context()
	tokenHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(tokenHeader, "Bearer ") {
		return uuid.Nil, false
	}
	tokenString := strings.TrimPrefix(tokenHeader, "Bearer ")

	claims, err := h.authProcessor.ValidateJWTToken(ctx, tokenString)
	if err != nil {
		return uuid.Nil, false
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}

func (h *Handler) GetUserInfo(c *gin.Context) {
	ctx := c.Request.Context()
	userID, err := uuid.Parse(c.GetString("User-ID"))
	if err != nil {
		apierrors.Unauthorized(c, "Invalid user context")
		return
	}
	user, err := h.authProcessor.GetUserByID(ctx, userID)
	if err != nil {
		apierrors.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
