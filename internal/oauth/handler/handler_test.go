package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"fivestars-server/internal/oauth/processor"
	"fivestars-server/internal/observability"
	"fivestars-server/internal/ratelimit"
	"fivestars-server/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	webAppURI       = "https://app.fivestars.test"
	zapierReturnURI = "https://zapier.com/dashboard/auth/oauth/return/"
)

// fakeOAuthStore is an in-memory OAuthStore with the same claim semantics as
// the SQL implementation.
type fakeOAuthStore struct {
	mu         sync.Mutex
	codes      map[string]store.OAuthAuthorizationCode
	tokens     map[uuid.UUID]store.OAuthToken
	businesses map[uuid.UUID]store.Business
}

func newFakeOAuthStore() *fakeOAuthStore {
	return &fakeOAuthStore{
		codes:      make(map[string]store.OAuthAuthorizationCode),
		tokens:     make(map[uuid.UUID]store.OAuthToken),
		businesses: make(map[uuid.UUID]store.Business),
	}
}

func (f *fakeOAuthStore) CreateAuthorizationCode(_ context.Context, params store.CreateAuthorizationCodeParams) (store.OAuthAuthorizationCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	code := store.OAuthAuthorizationCode{
		ID:          uuid.New(),
		Code:        params.Code,
		UserID:      params.UserID,
		ClientID:    params.ClientID,
		RedirectURI: params.RedirectURI,
		Scope:       params.Scope,
		ExpiresAt:   params.ExpiresAt,
		CreatedAt:   time.Now(),
	}
	f.codes[params.Code] = code
	return code, nil
}

func (f *fakeOAuthStore) ClaimAuthorizationCode(_ context.Context, code, clientID, redirectURI string) (store.OAuthAuthorizationCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.codes[code]
	if !ok || stored.ClientID != clientID || stored.RedirectURI != redirectURI {
		return store.OAuthAuthorizationCode{}, store.ErrNotFound
	}
	delete(f.codes, code)
	return stored, nil
}

func (f *fakeOAuthStore) CreateOAuthTokens(_ context.Context, params store.CreateOAuthTokensParams) (store.OAuthToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, token := range f.tokens {
		if token.UserID == params.UserID && token.ClientID == params.ClientID {
			delete(f.tokens, id)
		}
	}
	token := store.OAuthToken{
		ID:           uuid.New(),
		UserID:       params.UserID,
		ClientID:     params.ClientID,
		AccessToken:  params.AccessToken,
		RefreshToken: params.RefreshToken,
		Scope:        params.Scope,
		ExpiresAt:    params.ExpiresAt,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.tokens[token.ID] = token
	return token, nil
}

func (f *fakeOAuthStore) GetTokenByAccessToken(_ context.Context, accessToken string) (store.OAuthToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, token := range f.tokens {
		if token.AccessToken == accessToken {
			return token, nil
		}
	}
	return store.OAuthToken{}, store.ErrNotFound
}

func (f *fakeOAuthStore) GetTokenByRefreshToken(_ context.Context, refreshToken string) (store.OAuthToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, token := range f.tokens {
		if token.RefreshToken == refreshToken {
			return token, nil
		}
	}
	return store.OAuthToken{}, store.ErrNotFound
}

func (f *fakeOAuthStore) UpdateAccessToken(_ context.Context, tokenID uuid.UUID, accessToken string, expiresAt time.Time) (store.OAuthToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.tokens[tokenID]
	if !ok {
		return store.OAuthToken{}, store.ErrNotFound
	}
	token.AccessToken = accessToken
	token.ExpiresAt = expiresAt
	token.UpdatedAt = time.Now()
	f.tokens[tokenID] = token
	return token, nil
}

func (f *fakeOAuthStore) GetBusinessByUserID(_ context.Context, userID uuid.UUID) (store.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	business, ok := f.businesses[userID]
	if !ok {
		return store.Business{}, store.ErrNotFound
	}
	return business, nil
}

func (f *fakeOAuthStore) addBusiness(userID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.businesses[userID] = store.Business{ID: uuid.New(), UserID: userID, BusinessName: "Test Business"}
}

func (f *fakeOAuthStore) seedCode(userID uuid.UUID, code, redirectURI string, expiresAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[code] = store.OAuthAuthorizationCode{
		ID:          uuid.New(),
		Code:        code,
		UserID:      userID,
		ClientID:    "zapier",
		RedirectURI: redirectURI,
		Scope:       "read write",
		ExpiresAt:   expiresAt,
	}
}

// sessionAs simulates the session middleware for a fixed user
func sessionAs(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != uuid.Nil {
			c.Set("User-ID", userID.String())
		}
		c.Next()
	}
}

func newTestRouter(fake *fakeOAuthStore, userID uuid.UUID) *gin.Engine {
	logger := observability.NewLogger()
	oauthProcessor := processor.New(fake, processor.NewRedirectAllowlist(nil), logger)
	h := New(oauthProcessor, webAppURI, logger)
	limiter := ratelimit.NewService(ratelimit.NewFixedWindowLimiter(logger), logger)

	router := gin.New()
	oauth := router.Group("/api/oauth")
	oauth.GET("/authorize", sessionAs(userID), h.HandleAuthorize)
	oauth.POST("/authorize", sessionAs(userID), h.HandleConsentDecision)
	oauth.POST("/token", limiter.OAuthMiddleware(ratelimit.ClassOAuth), h.HandleToken)
	router.GET("/api/zapier/test", h.HandleBearerTokenMiddleware, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("User-ID")})
	})
	return router
}

func postForm(router *gin.Engine, path string, form url.Values, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleAuthorize(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	t.Run("rejects non-code response type", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(newFakeOAuthStore(), userID)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/oauth/authorize?response_type=token&client_id=zapier&redirect_uri="+url.QueryEscape(zapierReturnURI), nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unsupported_response_type")
	})

	t.Run("requires client_id and redirect_uri", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(newFakeOAuthStore(), userID)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/oauth/authorize?response_type=code", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_request")
	})

	t.Run("redirects anonymous users to login with return_to", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(newFakeOAuthStore(), uuid.Nil)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/oauth/authorize?response_type=code&client_id=zapier&redirect_uri="+url.QueryEscape(zapierReturnURI), nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusFound, w.Code)
		location, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, webAppURI+"/login", location.Scheme+"://"+location.Host+location.Path)
		assert.Contains(t, location.Query().Get("return_to"), "/api/oauth/authorize")
	})

	t.Run("redirects users without a business to onboarding", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(newFakeOAuthStore(), userID)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/oauth/authorize?response_type=code&client_id=zapier&redirect_uri="+url.QueryEscape(zapierReturnURI), nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusFound, w.Code)
		assert.Contains(t, w.Header().Get("Location"), webAppURI+"/onboarding")
	})

	t.Run("redirects onboarded users to consent with flow parameters", func(t *testing.T) {
		t.Parallel()
		fake := newFakeOAuthStore()
		fake.addBusiness(userID)
		router := newTestRouter(fake, userID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/oauth/authorize?response_type=code&client_id=zapier&redirect_uri="+url.QueryEscape(zapierReturnURI)+"&state=xyz123", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusFound, w.Code)
		location, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "/oauth/consent", location.Path)
		assert.Equal(t, "zapier", location.Query().Get("client_id"))
		assert.Equal(t, zapierReturnURI, location.Query().Get("redirect_uri"))
		assert.Equal(t, "read write", location.Query().Get("scope"))
		assert.Equal(t, "xyz123", location.Query().Get("state"))
	})
}

func TestHandleConsentDecision(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	postConsent := func(router *gin.Engine, body map[string]any) *httptest.ResponseRecorder {
		payload, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/api/oauth/authorize", strings.NewReader(string(payload)))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	t.Run("denial redirects with access_denied", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(newFakeOAuthStore(), userID)

		w := postConsent(router, map[string]any{
			"approved":     false,
			"client_id":    "zapier",
			"redirect_uri": zapierReturnURI,
			"state":        "s1",
		})

		require.Equal(t, http.StatusFound, w.Code)
		location, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "access_denied", location.Query().Get("error"))
		assert.Equal(t, "s1", location.Query().Get("state"))
		assert.Empty(t, location.Query().Get("code"))
	})

	t.Run("approval without a session is unauthorized", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(newFakeOAuthStore(), uuid.Nil)

		w := postConsent(router, map[string]any{
			"approved":     true,
			"client_id":    "zapier",
			"redirect_uri": zapierReturnURI,
		})

		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("approval issues a code bound to the redirect uri", func(t *testing.T) {
		t.Parallel()
		fake := newFakeOAuthStore()
		router := newTestRouter(fake, userID)

		w := postConsent(router, map[string]any{
			"approved":     true,
			"client_id":    "zapier",
			"redirect_uri": zapierReturnURI,
			"scope":        "read write",
			"state":        "s2",
		})

		require.Equal(t, http.StatusFound, w.Code)
		location, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		code := location.Query().Get("code")
		assert.True(t, strings.HasPrefix(code, "auth_"), "code %q should carry the auth_ prefix", code)
		assert.Equal(t, "s2", location.Query().Get("state"))

		stored, ok := fake.codes[code]
		require.True(t, ok, "code should be persisted")
		assert.Equal(t, userID, stored.UserID)
		assert.Equal(t, zapierReturnURI, stored.RedirectURI)
	})

	t.Run("unvetted redirect uri is rejected even on denial", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(newFakeOAuthStore(), userID)

		w := postConsent(router, map[string]any{
			"approved":     false,
			"client_id":    "zapier",
			"redirect_uri": "https://evil.example.com/cb",
		})

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_request")
	})
}

func TestHandleToken_AuthorizationCodeGrant(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	t.Run("fresh code exchanges for a bearer token pair", func(t *testing.T) {
		t.Parallel()
		fake := newFakeOAuthStore()
		fake.seedCode(userID, "auth_fresh", zapierReturnURI, time.Now().Add(10*time.Minute))
		router := newTestRouter(fake, uuid.Nil)

		w := postForm(router, "/api/oauth/token", url.Values{
			"grant_type":   {"authorization_code"},
			"code":         {"auth_fresh"},
			"redirect_uri": {zapierReturnURI},
		}, "198.51.100.1")

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Bearer", body["token_type"])
		assert.Equal(t, float64(3600), body["expires_in"])
		assert.True(t, strings.HasPrefix(body["access_token"].(string), "fs_"))
		assert.True(t, strings.HasPrefix(body["refresh_token"].(string), "refresh_"))
		assert.Equal(t, "read write", body["scope"])
	})

	t.Run("replayed code is an invalid grant", func(t *testing.T) {
		t.Parallel()
		fake := newFakeOAuthStore()
		fake.seedCode(userID, "auth_once", zapierReturnURI, time.Now().Add(10*time.Minute))
		router := newTestRouter(fake, uuid.Nil)

		form := url.Values{
			"grant_type":   {"authorization_code"},
			"code":         {"auth_once"},
			"redirect_uri": {zapierReturnURI},
		}
		first := postForm(router, "/api/oauth/token", form, "198.51.100.2")
		require.Equal(t, http.StatusOK, first.Code)

		second := postForm(router, "/api/oauth/token", form, "198.51.100.2")
		require.Equal(t, http.StatusBadRequest, second.Code)
		assert.JSONEq(t,
			`{"error":"invalid_grant","error_description":"Invalid or expired authorization code"}`,
			second.Body.String())
	})

	t.Run("code bound to one uri cannot be redeemed against another allowed uri", func(t *testing.T) {
		t.Parallel()
		fake := newFakeOAuthStore()
		fake.seedCode(userID, "auth_bound", zapierReturnURI, time.Now().Add(10*time.Minute))
		router := newTestRouter(fake, uuid.Nil)

		w := postForm(router, "/api/oauth/token", url.Values{
			"grant_type":   {"authorization_code"},
			"code":         {"auth_bound"},
			"redirect_uri": {"http://localhost:3000/oauth/callback"},
		}, "198.51.100.3")

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_grant")
	})

	t.Run("expired code is an invalid grant and stays consumed", func(t *testing.T) {
		t.Parallel()
		fake := newFakeOAuthStore()
		fake.seedCode(userID, "auth_stale", zapierReturnURI, time.Now().Add(-time.Minute))
		router := newTestRouter(fake, uuid.Nil)

		w := postForm(router, "/api/oauth/token", url.Values{
			"grant_type":   {"authorization_code"},
			"code":         {"auth_stale"},
			"redirect_uri": {zapierReturnURI},
		}, "198.51.100.4")

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_grant")
		_, stillThere := fake.codes["auth_stale"]
		assert.False(t, stillThere, "failed redemption should remove the expired code")
	})

	t.Run("missing code or redirect_uri", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(newFakeOAuthStore(), uuid.Nil)

		w := postForm(router, "/api/oauth/token", url.Values{
			"grant_type": {"authorization_code"},
		}, "198.51.100.5")

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_request")
	})

	t.Run("unsupported grant type", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(newFakeOAuthStore(), uuid.Nil)

		w := postForm(router, "/api/oauth/token", url.Values{
			"grant_type": {"password"},
		}, "198.51.100.6")

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "unsupported_grant_type")
	})
}

func TestHandleToken_RefreshGrant(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	t.Run("returns a new access token with the same refresh token", func(t *testing.T) {
		t.Parallel()
		fake := newFakeOAuthStore()
		seeded, err := fake.CreateOAuthTokens(context.Background(), store.CreateOAuthTokensParams{
			UserID:       userID,
			ClientID:     "zapier",
			AccessToken:  "fs_original",
			RefreshToken: "refresh_keeper",
			Scope:        "read write",
			ExpiresAt:    time.Now().Add(time.Hour),
		})
		require.NoError(t, err)
		router := newTestRouter(fake, uuid.Nil)

		w := postForm(router, "/api/oauth/token", url.Values{
			"grant_type":    {"refresh_token"},
			"refresh_token": {"refresh_keeper"},
		}, "198.51.100.7")

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "refresh_keeper", body["refresh_token"])
		assert.NotEqual(t, seeded.AccessToken, body["access_token"])
		assert.Equal(t, float64(3600), body["expires_in"])
	})

	t.Run("unknown refresh token", func(t *testing.T) {
		t.Parallel()
		router := newTestRouter(newFakeOAuthStore(), uuid.Nil)

		w := postForm(router, "/api/oauth/token", url.Values{
			"grant_type":    {"refresh_token"},
			"refresh_token": {"refresh_bogus"},
		}, "198.51.100.8")

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_grant")
	})
}

func TestHandleToken_RateLimited(t *testing.T) {
	t.Parallel()
	router := newTestRouter(newFakeOAuthStore(), uuid.Nil)

	form := url.Values{"grant_type": {"password"}}
	for i := 0; i < 10; i++ {
		w := postForm(router, "/api/oauth/token", form, "203.0.113.9")
		require.NotEqual(t, http.StatusTooManyRequests, w.Code, "request %d should not be limited", i+1)
	}

	w := postForm(router, "/api/oauth/token", form, "203.0.113.9")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")

	retryAfter := w.Header().Get("Retry-After")
	require.NotEmpty(t, retryAfter)
	if _, err := strconv.Atoi(retryAfter); err != nil {
		t.Errorf("Retry-After %q should be numeric: %v", retryAfter, err)
	}
}

func TestBearerTokenMiddleware(t *testing.T) {
	t.Parallel()
	userID := uuid.New()

	newRouterWithToken := func(expiresAt time.Time) *gin.Engine {
		fake := newFakeOAuthStore()
		_, err := fake.CreateOAuthTokens(context.Background(), store.CreateOAuthTokensParams{
			UserID:       userID,
			ClientID:     "zapier",
			AccessToken:  "fs_valid",
			RefreshToken: "refresh_valid",
			Scope:        "read write",
			ExpiresAt:    expiresAt,
		})
		if err != nil {
			t.Fatalf("seed token: %v", err)
		}
		return newTestRouter(fake, uuid.Nil)
	}

	t.Run("valid bearer token resolves the user", func(t *testing.T) {
		t.Parallel()
		router := newRouterWithToken(time.Now().Add(time.Hour))
		req := httptest.NewRequest(http.MethodGet, "/api/zapier/test", nil)
		req.Header.Set("Authorization", "Bearer fs_valid")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("expired token is unauthorized", func(t *testing.T) {
		t.Parallel()
		router := newRouterWithToken(time.Now().Add(-time.Minute))
		req := httptest.NewRequest(http.MethodGet, "/api/zapier/test", nil)
		req.Header.Set("Authorization", "Bearer fs_valid")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing and malformed headers are unauthorized", func(t *testing.T) {
		t.Parallel()
		router := newRouterWithToken(time.Now().Add(time.Hour))

		for _, header := range []string{"", "fs_valid", "Basic fs_valid", "Bearer "} {
			req := httptest.NewRequest(http.MethodGet, "/api/zapier/test", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
		}
	})
}
