package api

import (
	"net/http"

	apikeysHandler "fivestars-server/internal/apikeys/handler"
	authHandler "fivestars-server/internal/auth/handler"
	businessHandler "fivestars-server/internal/business/handler"
	campaignHandler "fivestars-server/internal/campaign/handler"
	zapierHandler "fivestars-server/internal/integrations/zapier"
	oauthHandler "fivestars-server/internal/oauth/handler"
	"fivestars-server/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

type API struct {
	router          *gin.RouterGroup
	rateLimit       *ratelimit.Service
	authHandler     authHandler.Handler
	businessHandler businessHandler.Handler
	campaignHandler campaignHandler.Handler
	oauthHandler    oauthHandler.Handler
	apiKeysHandler  *apikeysHandler.Handler
	zapierHandler   *zapierHandler.Handler
}

func New(
	router *gin.RouterGroup,
	rateLimit *ratelimit.Service,
	authH authHandler.Handler,
	businessH businessHandler.Handler,
	campaignH campaignHandler.Handler,
	oauthH oauthHandler.Handler,
	apiKeysH *apikeysHandler.Handler,
	zapierH *zapierHandler.Handler,
) API {
	return API{
		router:          router,
		rateLimit:       rateLimit,
		authHandler:     authH,
		businessHandler: businessH,
		campaignHandler: campaignH,
		oauthHandler:    oauthH,
		apiKeysHandler:  apiKeysH,
		zapierHandler:   zapierH,
	}
}

func (a *API) RegisterRoutes() {
	a.Health()
	apiGroup := a.router.Group("/api")

	authGroup := apiGroup.Group("/auth", a.rateLimit.Middleware(ratelimit.ClassGeneral))
	{
		authGroup.POST("/signup/email", a.authHandler.HandleEmailSignup)
		authGroup.POST("/login/email", a.authHandler.HandleEmailLogin)
		authGroup.GET("/google/callback", a.authHandler.HandleGoogleOauthCallback)
	}

	// The authorize flow resolves the session itself so it can redirect
	// anonymous users to login instead of rejecting them.
	oauthGroup := apiGroup.Group("/oauth", a.rateLimit.OAuthMiddleware(ratelimit.ClassOAuth))
	{
		oauthGroup.GET("/authorize", a.authHandler.HandleOptionalJWTMiddleware, a.oauthHandler.HandleAuthorize)
		oauthGroup.POST("/authorize", a.authHandler.HandleOptionalJWTMiddleware, a.oauthHandler.HandleConsentDecision)
		oauthGroup.POST("/token", a.oauthHandler.HandleToken)
	}

	protectedGroup := apiGroup.Group("/", a.authHandler.HandleJWTMiddleware, a.rateLimit.Middleware(ratelimit.ClassGeneral))
	{
		protectedGroup.GET("/user", a.authHandler.GetUserInfo)

		protectedGroup.POST("/business", a.businessHandler.HandleOnboard)
		protectedGroup.GET("/business", a.businessHandler.HandleGet)
		protectedGroup.PATCH("/business", a.businessHandler.HandleUpdate)

		protectedGroup.POST("/campaigns", a.campaignHandler.HandleCreate)
		protectedGroup.GET("/campaigns", a.campaignHandler.HandleList)
		protectedGroup.GET("/campaigns/:id", a.campaignHandler.HandleGet)
		protectedGroup.PATCH("/campaigns/:id", a.campaignHandler.HandleUpdate)
		protectedGroup.DELETE("/campaigns/:id", a.campaignHandler.HandleDelete)
		protectedGroup.GET("/campaigns/:id/review-requests", a.campaignHandler.HandleListReviewRequests)
		protectedGroup.DELETE("/review-requests/:id", a.campaignHandler.HandleDeleteReviewRequest)

		protectedGroup.POST("/api-keys", a.apiKeysHandler.HandleCreateAPIKey)
		protectedGroup.GET("/api-keys", a.apiKeysHandler.HandleListAPIKeys)
		protectedGroup.DELETE("/api-keys/:id", a.apiKeysHandler.HandleRevokeAPIKey)
	}

	// Programmatic access with API keys instead of the OAuth dance.
	directGroup := apiGroup.Group("/v1", a.apiKeysHandler.APIKeyMiddleware)
	{
		directGroup.GET("/campaigns", a.rateLimit.Middleware(ratelimit.ClassGeneral), a.zapierHandler.HandleListCampaigns)
		directGroup.POST("/review-request", a.rateLimit.Middleware(ratelimit.ClassReviewRequest), a.zapierHandler.HandleReviewRequest)
	}

	zapierGroup := apiGroup.Group("/zapier", a.rateLimit.Middleware(ratelimit.ClassZapier))
	{
		zapierGroup.GET("/test", a.oauthHandler.HandleBearerTokenMiddleware, a.zapierHandler.HandleTest)
		zapierGroup.GET("/campaigns", a.oauthHandler.HandleBearerTokenMiddleware, a.zapierHandler.HandleListCampaigns)
		zapierGroup.POST("/review-request",
			a.zapierHandler.WebhookAuthMiddleware,
			a.rateLimit.Middleware(ratelimit.ClassReviewRequest),
			a.zapierHandler.HandleReviewRequest)
	}
}

func (a *API) Health() {
	a.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
}
