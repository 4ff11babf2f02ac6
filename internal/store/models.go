package store

import (
	"time"

	"github.com/google/uuid"
)

// Channel identifies a delivery channel for review requests. It is stored as
// text; ParseChannel is the only way values enter the type, so the zero cases
// downstream are exhaustive over these constants.
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
	ChannelNone  Channel = "none"
)

// ParseChannel maps a stored string onto a Channel, defaulting to none for
// unknown values so dispatch treats corrupt rows as a configuration problem
// rather than panicking.
func ParseChannel(s string) Channel {
	switch Channel(s) {
	case ChannelSMS:
		return ChannelSMS
	case ChannelEmail:
		return ChannelEmail
	default:
		return ChannelNone
	}
}

// User is an identity known to the platform. Password hash is null for
// Google-only sign-ins.
type User struct {
	ID             uuid.UUID `db:"id"`
	FirstName      string    `db:"first_name"`
	LastName       string    `db:"last_name"`
	Email          string    `db:"email"`
	HashedPassword *string   `db:"hashed_password"`
	GoogleID       *string   `db:"google_id"`
	CreatedAt      time.Time `db:"created_at"`
}

// Business is the merchant profile, one per user by application policy.
type Business struct {
	ID           uuid.UUID `db:"id"`
	UserID       uuid.UUID `db:"user_id"`
	BusinessName string    `db:"business_name"`
	ReviewLink   *string   `db:"review_link"`
	AIContext    *string   `db:"ai_context"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Campaign configures a review-request automation for a business. ExternalID
// is the stable 32-character identifier handed to webhook callers; it is
// distinct from the internal id.
type Campaign struct {
	ID               uuid.UUID `db:"id"`
	BusinessID       uuid.UUID `db:"business_id"`
	Name             string    `db:"name"`
	ExternalID       string    `db:"external_id"`
	PrimaryChannel   string    `db:"primary_channel"`
	SecondaryChannel *string   `db:"secondary_channel"`
	PrimaryTemplate  string    `db:"primary_template"`
	FollowupEnabled  bool      `db:"followup_enabled"`
	FollowupDelay    *int      `db:"followup_delay"`
	FollowupTemplate *string   `db:"followup_template"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// CampaignWithBusiness joins a campaign with its owning business for dispatch.
type CampaignWithBusiness struct {
	Campaign
	BusinessName       string    `db:"business_name"`
	BusinessReviewLink *string   `db:"business_review_link"`
	BusinessUserID     uuid.UUID `db:"business_user_id"`
}

// ReviewRequest records a single dispatch attempt. ErrorMessage carries both
// hard failures and soft delivery-status advisories; the dashboard derives
// display status from the combination of fields.
type ReviewRequest struct {
	ID                uuid.UUID  `db:"id"`
	CampaignID        uuid.UUID  `db:"campaign_id"`
	CustomerFirstName string     `db:"customer_first_name"`
	CustomerPhone     *string    `db:"customer_phone"`
	CustomerEmail     *string    `db:"customer_email"`
	PrimaryChannel    string     `db:"primary_channel"`
	SecondaryChannel  *string    `db:"secondary_channel"`
	PrimarySent       bool       `db:"primary_sent"`
	SecondarySent     bool       `db:"secondary_sent"`
	ErrorMessage      *string    `db:"error_message"`
	SentAt            *time.Time `db:"sent_at"`
	CreatedAt         time.Time  `db:"created_at"`
}

// OAuthAuthorizationCode is a short-lived single-use credential bound to the
// redirect URI and client it was issued for.
type OAuthAuthorizationCode struct {
	ID          uuid.UUID `db:"id"`
	Code        string    `db:"code"`
	UserID      uuid.UUID `db:"user_id"`
	ClientID    string    `db:"client_id"`
	RedirectURI string    `db:"redirect_uri"`
	Scope       string    `db:"scope"`
	ExpiresAt   time.Time `db:"expires_at"`
	CreatedAt   time.Time `db:"created_at"`
}

// OAuthToken is the bearer/refresh token pair for a user+client connection.
// At most one row exists per (user_id, client_id).
type OAuthToken struct {
	ID           uuid.UUID `db:"id"`
	UserID       uuid.UUID `db:"user_id"`
	ClientID     string    `db:"client_id"`
	AccessToken  string    `db:"access_token"`
	RefreshToken string    `db:"refresh_token"`
	Scope        string    `db:"scope"`
	ExpiresAt    time.Time `db:"expires_at"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// APIKey stores the SHA-256 hash of an issued key; the plaintext secret is
// shown once at creation and never persisted.
type APIKey struct {
	ID         uuid.UUID  `db:"id"`
	UserID     uuid.UUID  `db:"user_id"`
	Name       string     `db:"name"`
	KeyHash    string     `db:"key_hash"`
	LastUsedAt *time.Time `db:"last_used_at"`
	CreatedAt  time.Time  `db:"created_at"`
}
