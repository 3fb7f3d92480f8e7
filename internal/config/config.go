package config

import (
	"errors"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "default_super_secret_key"

type Config struct {
	Port        string
	DatabaseDSN string
	GinMode     string

	JWTSecret       []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	SecureCookies   bool

	CORSOrigins []string

	OIDCIssuer       string
	OIDCClientID     string
	OIDCClientSecret string
	OIDCCallbackURL  string

	LoginRatePerSec float64
	LoginBurst      int

	AuditFeedEnabled bool
}

// Load reads configs/.env (if present) and the process environment
func Load() Config {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	cfg := Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: os.Getenv("GIN_MODE"),

		AccessTokenTTL:  getDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
		RefreshTokenTTL: getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")),

		OIDCIssuer:       os.Getenv("OIDC_ISSUER"),
		OIDCClientID:     os.Getenv("OIDC_CLIENT_ID"),
		OIDCClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
		OIDCCallbackURL:  os.Getenv("OIDC_CALLBACK_URL"),

		LoginRatePerSec: getFloat("LOGIN_RATE_PER_SEC", 1),
		LoginBurst:      getInt("LOGIN_BURST", 5),

		AuditFeedEnabled: getEnv("AUDIT_FEED_ENABLED", "true") == "true",
	}

	// Production (cross-origin) needs Secure cookies
	cfg.SecureCookies = cfg.GinMode == "release" || os.Getenv("USE_HTTPS") == "true"

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWTSecret = []byte(secret)
	} else if cfg.GinMode != "release" {
		cfg.JWTSecret = []byte(devJWTSecret) // Development fallback only
	}

	cfg.DatabaseDSN = os.Getenv("DATABASE_DSN")
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = buildDSN(
			getEnv("DB_USER", "postgres"), getEnv("DB_PASSWORD", "postgres"),
			getEnv("DB_HOST", "localhost"), getEnv("DB_PORT", "5432"),
			getEnv("DB_NAME", "dna_archive"), getEnv("DB_SSLMODE", "disable"),
		)
	}

	return cfg
}

// buildDSN escapes each part so credentials may contain URL delimiters
func buildDSN(user, password, host, port, name, sslMode string) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + name,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}

// Validate rejects configurations that must not reach production
func (c Config) Validate() error {
	if len(c.JWTSecret) == 0 {
		return errors.New("JWT_SECRET environment variable is required in release mode")
	}
	if c.OIDCIssuer != "" && (c.OIDCClientID == "" || c.OIDCCallbackURL == "") {
		return errors.New("OIDC_CLIENT_ID and OIDC_CALLBACK_URL are required when OIDC_ISSUER is set")
	}
	if c.LoginRatePerSec <= 0 || c.LoginBurst < 1 {
		return errors.New("LOGIN_RATE_PER_SEC and LOGIN_BURST must be positive")
	}
	return nil
}

// OIDCEnabled reports whether external OAuth login is configured
func (c Config) OIDCEnabled() bool {
	return c.OIDCIssuer != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return f
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
