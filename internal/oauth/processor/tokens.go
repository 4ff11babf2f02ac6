package processor

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Token prefixes make leaked credentials identifiable in logs and secret
// scanners without revealing anything about the value.
const (
	accessTokenPrefix       = "fs_"
	refreshTokenPrefix      = "refresh_"
	authorizationCodePrefix = "auth_"
)

const (
	authorizationCodeTTL = 600 * time.Second
	accessTokenTTL       = 3600 * time.Second
)

// generateToken returns n random bytes hex-encoded from the platform CSPRNG.
// Tokens resolve by store lookup only, so there is no embedded structure to
// parse or sign.
func generateToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func generateAuthorizationCode() (string, error) {
	token, err := generateToken(24)
	if err != nil {
		return "", err
	}
	return authorizationCodePrefix + token, nil
}

func generateAccessToken() (string, error) {
	token, err := generateToken(32)
	if err != nil {
		return "", err
	}
	return accessTokenPrefix + token, nil
}

func generateRefreshToken() (string, error) {
	token, err := generateToken(32)
	if err != nil {
		return "", err
	}
	return refreshTokenPrefix + token, nil
}

func expirationFrom(now time.Time, ttl time.Duration) time.Time {
	return now.Add(ttl)
}

// isExpired reports whether the expiry is strictly in the past. A token that
// expires exactly now is still accepted.
func isExpired(expiresAt time.Time, now time.Time) bool {
	return expiresAt.Before(now)
}
