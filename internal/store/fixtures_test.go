package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Fixtures provides factory functions for creating test data.
// All factory methods use testify/require to fail fast on errors.
type Fixtures struct {
	t      *testing.T
	testDB *TestDB
	ctx    context.Context
}

// NewFixtures creates a new Fixtures instance for test data generation.
func NewFixtures(t *testing.T, testDB *TestDB) *Fixtures {
	t.Helper()
	return &Fixtures{
		t:      t,
		testDB: testDB,
		ctx:    context.Background(),
	}
}

// CreateUser creates a test user with a unique email.
func (f *Fixtures) CreateUser() User {
	f.t.Helper()
	email := "user-" + uuid.New().String()[:8] + "@example.com"
	user, err := f.testDB.Store.CreateUserOnEmailSignup(f.ctx, "Test", "User", email, "$2a$10$fakehashfortests")
	require.NoError(f.t, err, "failed to create test user")
	return user
}

// CreateBusiness creates a test business owned by the given user.
func (f *Fixtures) CreateBusiness(userID uuid.UUID) Business {
	f.t.Helper()
	business, err := f.testDB.Store.CreateBusiness(f.ctx, CreateBusinessParams{
		UserID:       userID,
		BusinessName: "Test Business " + uuid.New().String()[:8],
	})
	require.NoError(f.t, err, "failed to create test business")
	return business
}

// CampaignOpts customizes campaign creation.
type CampaignOpts struct {
	Name            string
	PrimaryChannel  string
	PrimaryTemplate string
}

// CreateCampaign creates a test campaign for the given business.
func (f *Fixtures) CreateCampaign(businessID uuid.UUID, opts ...func(*CampaignOpts)) Campaign {
	f.t.Helper()
	o := CampaignOpts{
		Name:            "Test Campaign",
		PrimaryChannel:  "sms",
		PrimaryTemplate: "Hi {{first_name}}, leave {{business_name}} a review: {{review_link}}",
	}
	for _, fn := range opts {
		fn(&o)
	}

	externalID := uuid.New().String()[:8] + uuid.New().String()[:8] + uuid.New().String()[:8] + uuid.New().String()[:8]
	campaign, err := f.testDB.Store.CreateCampaign(f.ctx, CreateCampaignParams{
		BusinessID:      businessID,
		Name:            o.Name,
		ExternalID:      externalID[:32],
		PrimaryChannel:  o.PrimaryChannel,
		PrimaryTemplate: o.PrimaryTemplate,
	})
	require.NoError(f.t, err, "failed to create test campaign")
	return campaign
}
