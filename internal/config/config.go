package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"
)

// CookieConfig describes the client-id cookie set on survey respondents
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Domain string
	Secure bool
}

// Config holds runtime configuration shared across the application.
type Config struct {
	Port               string
	DatabaseURL        string
	JWTSecret          []byte
	SurveyBaseURL      string
	ResponseCooldown   time.Duration
	InsightCacheTTL    time.Duration
	SurveyCacheTTL     time.Duration
	ClientIDCookie     CookieConfig
	AllowedOrigins     []string
	SlowQueryThreshold time.Duration
}

// Load reads environment variables and returns a fully populated Config.
func Load() (Config, error) {
	cfg := Config{
		Port:               envOrDefault("PORT", "8080"),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:          []byte(strings.TrimSpace(os.Getenv("JWT_SECRET"))),
		SurveyBaseURL:      envOrDefault("SURVEY_PUBLIC_BASE_URL", "https://www.upkook.com/bizz/s/"),
		ResponseCooldown:   parseDuration("RESPONSE_COOLDOWN", time.Minute),
		InsightCacheTTL:    parseDuration("INSIGHT_CACHE_TTL", 4*time.Hour),
		SurveyCacheTTL:     parseDuration("SURVEY_CACHE_TTL", 4*time.Hour),
		AllowedOrigins:     parseList("API_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		SlowQueryThreshold: parseDuration("SLOW_QUERY_THRESHOLD", 200*time.Millisecond),
		ClientIDCookie: CookieConfig{
			Name:   envOrDefault("CLIENT_ID_COOKIE_NAME", "_cid"),
			MaxAge: parseDuration("CLIENT_ID_COOKIE_AGE", 2*365*24*time.Hour),
			Domain: strings.TrimSpace(os.Getenv("CLIENT_ID_COOKIE_DOMAIN")),
			Secure: strings.EqualFold(strings.TrimSpace(os.Getenv("CLIENT_ID_COOKIE_SECURE")), "true"),
		},
	}

	if !strings.HasSuffix(cfg.SurveyBaseURL, "/") {
		cfg.SurveyBaseURL += "/"
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(cfg.JWTSecret) == 0 {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return Config{}, errors.New("missing required environment variables: " + strings.Join(missing, ", "))
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed < 0 {
		log.Printf("⚠️ invalid %s=%q, using %v", key, raw, fallback)
		return fallback
	}
	return parsed
}

func parseList(key string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			values = append(values, part)
		}
	}

	if len(values) == 0 {
		return fallback
	}
	return values
}
