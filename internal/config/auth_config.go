package config

import "time"

type AuthConfig interface {
	GetJWTSecret() string
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	GetRefreshCookieName() string
	GetCookieSecure() bool
}

type Auth struct{}

var _ AuthConfig = Auth{}

func (Auth) GetJWTSecret() string {
	return GetEnv("JWT_SECRET", "insecure-dev-secret")
}

func (Auth) GetAccessTokenExpiry() time.Duration {
	return 15 * time.Minute
}

// GetRefreshTokenExpiry governs both the refresh token's embedded expiry and
// the stored-hash validity window.
func (Auth) GetRefreshTokenExpiry() time.Duration {
	return 7 * 24 * time.Hour
}

func (Auth) GetRefreshCookieName() string {
	return "refresh_token"
}

func (Auth) GetCookieSecure() bool {
	return GetEnv("COOKIE_SECURE", "true") != "false"
}
