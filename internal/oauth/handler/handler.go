package handler

import (
	"errors"
	"net/http"
	"net/url"

	"fivestars-server/internal/apierrors"
	"fivestars-server/internal/oauth/processor"
	"fivestars-server/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultClientID = "zapier"

type Handler struct {
	oauthProcessor processor.OAuthProcessor
	webAppURI      string
	logger         *observability.Logger
}

func New(oauthProcessor processor.OAuthProcessor, webAppURI string, logger *observability.Logger) Handler {
	return Handler{
		oauthProcessor: oauthProcessor,
		webAppURI:      webAppURI,
		logger:         logger,
	}
}

// webAppRedirect builds a redirect into the dashboard app with query params
func (h *Handler) webAppRedirect(path string, params url.Values) string {
	target := h.webAppURI + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	return target
}

// HandleAuthorize starts the authorization-code flow. Unauthenticated users
// go to login, users without a business profile go to onboarding, and the
// rest land on the consent page. All three redirects carry enough state to
// resume the flow where it left off.
func (h *Handler) HandleAuthorize(c *gin.Context) {
	ctx := c.Request.Context()

	if responseType := c.Query("response_type"); responseType != "code" {
		apierrors.OAuthError(c, http.StatusBadRequest, apierrors.OAuthUnsupportedResponseType,
			"Only response_type=code is supported")
		return
	}

	clientID := c.Query("client_id")
	redirectURI := c.Query("redirect_uri")
	if clientID == "" || redirectURI == "" {
		apierrors.OAuthError(c, http.StatusBadRequest, apierrors.OAuthInvalidRequest,
			"client_id and redirect_uri are required")
		return
	}

	scope := c.Query("scope")
	if scope == "" {
		scope = "read write"
	}
	state := c.Query("state")

	returnTo := c.Request.URL.String()

	userIDString := c.GetString("User-ID")
	if userIDString == "" {
		c.Redirect(http.StatusFound, h.webAppRedirect("/login", url.Values{"return_to": {returnTo}}))
		return
	}

	userID, err := uuid.Parse(userIDString)
	if err != nil {
		h.logger.Error(ctx, "failed to parse user id from context", err)
		apierrors.OAuthServerErr(c, "Unexpected error during authorization", err)
		return
	}

	hasBusiness, err := h.oauthProcessor.HasBusinessProfile(ctx, userID)
	if err != nil {
		apierrors.OAuthServerErr(c, "Unexpected error during authorization", err)
		return
	}
	if !hasBusiness {
		c.Redirect(http.StatusFound, h.webAppRedirect("/onboarding", url.Values{"return_to": {returnTo}}))
		return
	}

	consentParams := url.Values{
		"client_id":    {clientID},
		"redirect_uri": {redirectURI},
		"scope":        {scope},
	}
	if state != "" {
		consentParams.Set("state", state)
	}
	c.Redirect(http.StatusFound, h.webAppRedirect("/oauth/consent", consentParams))
}

type ConsentRequest struct {
	Approved    bool   `json:"approved"`
	ClientID    string `json:"client_id" binding:"required"`
	RedirectURI string `json:"redirect_uri" binding:"required"`
	Scope       string `json:"scope"`
	State       string `json:"state"`
}

// HandleConsentDecision finishes the flow after the consent page posts back.
// Denial redirects with error=access_denied; approval issues a single-use
// code bound to the redirect URI.
func (h *Handler) HandleConsentDecision(c *gin.Context) {
	ctx := c.Request.Context()

	var req ConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.OAuthError(c, http.StatusBadRequest, apierrors.OAuthInvalidRequest, err.Error())
		return
	}

	// The redirect target is validated on both branches; even a denial must
	// not bounce the browser to an unvetted URI.
	if !h.oauthProcessor.IsRedirectURIAllowed(req.RedirectURI) {
		apierrors.OAuthError(c, http.StatusBadRequest, apierrors.OAuthInvalidRequest,
			"redirect_uri is not allowed")
		return
	}

	target, err := url.Parse(req.RedirectURI)
	if err != nil {
		apierrors.OAuthError(c, http.StatusBadRequest, apierrors.OAuthInvalidRequest,
			"redirect_uri is not a valid URL")
		return
	}
	query := target.Query()

	if !req.Approved {
		query.Set("error", apierrors.OAuthAccessDenied)
		if req.State != "" {
			query.Set("state", req.State)
		}
		target.RawQuery = query.Encode()
		h.logger.Info(ctx, "consent denied",
			observability.Field{Key: "client_id", Value: req.ClientID})
		c.Redirect(http.StatusFound, target.String())
		return
	}

	userIDString := c.GetString("User-ID")
	if userIDString == "" {
		apierrors.OAuthError(c, http.StatusUnauthorized, apierrors.OAuthInvalidRequest,
			"Authentication required to approve access")
		return
	}
	userID, err := uuid.Parse(userIDString)
	if err != nil {
		h.logger.Error(ctx, "failed to parse user id from context", err)
		apierrors.OAuthServerErr(c, "Unexpected error during authorization", err)
		return
	}

	code, err := h.oauthProcessor.IssueAuthorizationCode(ctx, userID, req.ClientID, req.RedirectURI, req.Scope)
	if err != nil {
		if errors.Is(err, processor.ErrRedirectURINotAllowed) {
			apierrors.OAuthError(c, http.StatusBadRequest, apierrors.OAuthInvalidRequest,
				"redirect_uri is not allowed")
			return
		}
		apierrors.OAuthServerErr(c, "Failed to issue authorization code", err)
		return
	}

	query.Set("code", code)
	if req.State != "" {
		query.Set("state", req.State)
	}
	target.RawQuery = query.Encode()
	c.Redirect(http.StatusFound, target.String())
}

// HandleToken is the public token endpoint. Form-encoded only; grant_type
// selects the sub-flow. client_secret is accepted but not verified, the
// registered client is treated as a public client.
func (h *Handler) HandleToken(c *gin.Context) {
	ctx := c.Request.Context()

	grantType := c.PostForm("grant_type")
	clientID := c.PostForm("client_id")
	if clientID == "" {
		clientID = defaultClientID
	}

	switch grantType {
	case "authorization_code":
		code := c.PostForm("code")
		redirectURI := c.PostForm("redirect_uri")
		if code == "" || redirectURI == "" {
			apierrors.OAuthError(c, http.StatusBadRequest, apierrors.OAuthInvalidRequest,
				"code and redirect_uri are required")
			return
		}

		tokens, err := h.oauthProcessor.ExchangeAuthorizationCode(ctx, code, clientID, redirectURI)
		if err != nil {
			switch {
			case errors.Is(err, processor.ErrRedirectURINotAllowed):
				apierrors.OAuthError(c, http.StatusBadRequest, apierrors.OAuthInvalidRequest,
					"redirect_uri is not allowed")
			case errors.Is(err, processor.ErrInvalidGrant):
				apierrors.OAuthError(c, http.StatusBadRequest, apierrors.OAuthInvalidGrant,
					"Invalid or expired authorization code")
			default:
				apierrors.OAuthServerErr(c, "Failed to exchange authorization code", err)
			}
			return
		}
		c.JSON(http.StatusOK, tokens)

	case "refresh_token":
		refreshToken := c.PostForm("refresh_token")
		if refreshToken == "" {
			apierrors.OAuthError(c, http.StatusBadRequest, apierrors.OAuthInvalidRequest,
				"refresh_token is required")
			return
		}

		tokens, err := h.oauthProcessor.RefreshAccessToken(ctx, refreshToken)
		if err != nil {
			if errors.Is(err, processor.ErrInvalidGrant) {
				apierrors.OAuthError(c, http.StatusBadRequest, apierrors.OAuthInvalidGrant,
					"Invalid refresh token")
				return
			}
			apierrors.OAuthServerErr(c, "Failed to refresh access token", err)
			return
		}
		c.JSON(http.StatusOK, tokens)

	default:
		apierrors.OAuthError(c, http.StatusBadRequest, apierrors.OAuthUnsupportedGrantType,
			"Unsupported grant_type")
	}
}

// HandleBearerTokenMiddleware protects resource endpoints with OAuth bearer
// authentication. On success the token's user id is placed in the context
// under User-ID.
func (h *Handler) HandleBearerTokenMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	token := processor.ExtractBearerToken(c.Request)
	if token == "" {
		apierrors.Unauthorized(c, "Authorization token is missing or invalid")
		c.Abort()
		return
	}

	userID, err := h.oauthProcessor.AuthenticateToken(ctx, token)
	if err != nil {
		if errors.Is(err, processor.ErrUnauthorized) {
			apierrors.Unauthorized(c, "Invalid or expired access token")
			c.Abort()
			return
		}
		apierrors.InternalError(c, err)
		c.Abort()
		return
	}

	c.Set("User-ID", userID.String())
	c.Next()
}
