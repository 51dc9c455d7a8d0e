package config

import (
	"log"
	"os"
	"strings"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string
	BasePath   string // Path prefix the site is mounted under, e.g. "/library"

	// Database
	DatabaseURL string

	// Redis (render cache and sessions); empty disables both
	RedisURL string

	// TLS/mTLS
	TLSEnabled  bool
	TLSCertFile string
	TLSKeyFile  string
	TLSCAFile   string // CA for verifying client certs (mTLS)

	// OIDC
	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCRedirectURL  string

	// Session
	SessionSecret string // Used for encrypting cookies (min 32 chars)

	// CORS
	CORSOrigins string // Comma-separated allowed origins

	// Admins allowed to edit search blocks
	AdminEmails []string // env: ADMIN_EMAILS, comma-separated

	// Search blocks
	BlockCacheTTL            time.Duration // env: BLOCK_CACHE_TTL, default: 1h
	DestinationCheckInterval time.Duration // env: DESTINATION_CHECK_INTERVAL, default: 6h, 0 disables

	// Site Branding
	SiteTitle  string // env: SITE_TITLE, default: "Search"
	SiteFooter string // env: SITE_FOOTER, default: ""
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Env:              getEnv("ENV", "development"),
		ServerAddr:       getEnv("SERVER_ADDR", ":3000"),
		BaseURL:          getEnv("BASE_URL", "http://localhost:3000"),
		BasePath:         getEnv("BASE_PATH", ""),
		DatabaseURL:      getEnv("DATABASE_URL", "postgres://localhost:5432/searchbar?sslmode=disable"),
		RedisURL:         getEnv("REDIS_URL", ""),
		TLSEnabled:       getEnv("TLS_ENABLED", "") != "",
		TLSCertFile:      getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:       getEnv("TLS_KEY_FILE", ""),
		TLSCAFile:        getEnv("TLS_CA_FILE", ""),
		OIDCIssuer:       getEnv("OIDC_ISSUER", ""),
		OIDCClientID:     getEnv("OIDC_CLIENT_ID", ""),
		OIDCClientSecret: getEnv("OIDC_CLIENT_SECRET", ""),
		OIDCRedirectURL:  getEnv("OIDC_REDIRECT_URL", "http://localhost:3000/auth/callback"),
		SessionSecret:    getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		CORSOrigins:      getEnv("CORS_ORIGINS", ""),
		AdminEmails:      splitList(getEnv("ADMIN_EMAILS", "")),

		BlockCacheTTL:            getDuration("BLOCK_CACHE_TTL", time.Hour),
		DestinationCheckInterval: getDuration("DESTINATION_CHECK_INTERVAL", 6*time.Hour),

		SiteTitle:  getEnv("SITE_TITLE", "Search"),
		SiteFooter: getEnv("SITE_FOOTER", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid %s %q, using %v", key, value, fallback)
		return fallback
	}
	return d
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, strings.ToLower(item))
		}
	}
	return out
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// IsMTLSEnabled returns true if mTLS is configured with a CA file.
func (c *Config) IsMTLSEnabled() bool {
	return c.TLSEnabled && c.TLSCAFile != ""
}

// IsOIDCEnabled returns true if admin login via OIDC is configured.
func (c *Config) IsOIDCEnabled() bool {
	return c.OIDCIssuer != "" && c.OIDCClientID != ""
}

// IsAdminEmail returns true if email belongs to a configured admin.
func (c *Config) IsAdminEmail(email string) bool {
	if email == "" {
		return false
	}
	email = strings.ToLower(email)
	for _, admin := range c.AdminEmails {
		if admin == email {
			return true
		}
	}
	return false
}
