package bootstrap

import (
	"context"
	"fmt"

	"fivestars-server/internal/config"
	"fivestars-server/internal/observability"
	"fivestars-server/internal/ratelimit"
	"fivestars-server/internal/store"

	apikeysHandler "fivestars-server/internal/apikeys/handler"
	authHandler "fivestars-server/internal/auth/handler"
	authProcessor "fivestars-server/internal/auth/processor"
	businessHandler "fivestars-server/internal/business/handler"
	businessProcessor "fivestars-server/internal/business/processor"
	campaignHandler "fivestars-server/internal/campaign/handler"
	campaignProcessor "fivestars-server/internal/campaign/processor"
	"fivestars-server/internal/clients/googleoauth"
	"fivestars-server/internal/clients/mail"
	"fivestars-server/internal/clients/twilio"
	dispatchProcessor "fivestars-server/internal/dispatch/processor"
	zapierHandler "fivestars-server/internal/integrations/zapier"
	oauthHandler "fivestars-server/internal/oauth/handler"
	oauthProcessor "fivestars-server/internal/oauth/processor"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	Store     store.Store
	Logger    *observability.Logger
	RateLimit *ratelimit.Service

	AuthHandler     authHandler.Handler
	BusinessHandler businessHandler.Handler
	CampaignHandler campaignHandler.Handler
	OAuthHandler    oauthHandler.Handler
	APIKeysHandler  *apikeysHandler.Handler
	ZapierHandler   *zapierHandler.Handler
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: logger}

	var err error
	deps.Store, err = store.New(cfg.Database.ConnectionString(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	dataStore := &deps.Store

	// Clients
	googleOAuthClient := googleoauth.NewClient(
		cfg.Auth.GoogleClientID,
		cfg.Auth.GoogleClientSecret,
		cfg.Auth.GoogleRedirectURI,
		logger,
	)
	smsClient := twilio.NewClient(
		cfg.Services.TwilioAccountSID,
		cfg.Services.TwilioAuthToken,
		cfg.Services.TwilioFromNumber,
		logger,
	)
	mailClient, err := mail.NewResendClient(cfg.Services.ResendAPIKey, cfg.Services.DefaultEmailSender, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create resend client: %w", err)
	}

	// Rate limiting
	deps.RateLimit = ratelimit.NewService(ratelimit.NewFixedWindowLimiter(logger), logger)

	// Session auth
	authProc := authProcessor.New(dataStore, googleOAuthClient, cfg.Auth.JWTSecret, logger)
	deps.AuthHandler = authHandler.New(authProc, cfg.Services.WebAppURI, logger)

	// Business and campaigns
	deps.BusinessHandler = businessHandler.New(businessProcessor.New(dataStore, logger), logger)
	deps.CampaignHandler = campaignHandler.New(campaignProcessor.New(dataStore, logger), logger)

	// Authorization server
	allowlist := oauthProcessor.NewRedirectAllowlist(cfg.OAuth.ExtraRedirectURIs)
	oauthProc := oauthProcessor.New(dataStore, allowlist, logger)
	deps.OAuthHandler = oauthHandler.New(oauthProc, cfg.Services.WebAppURI, logger)

	// Dispatch and the Zapier surface
	dispatchProc := dispatchProcessor.New(dataStore, smsClient, mailClient, logger)
	deps.ZapierHandler = zapierHandler.New(
		dataStore,
		&dispatchProc,
		cfg.Services.ZapierWebhookSecret,
		deps.OAuthHandler.HandleBearerTokenMiddleware,
		logger,
	)

	// API keys
	deps.APIKeysHandler = apikeysHandler.New(dataStore, logger)

	return deps, nil
}
