package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/cx")
	t.Setenv("JWT_SECRET", "secret")
	for _, key := range []string{"PORT", "SURVEY_PUBLIC_BASE_URL", "RESPONSE_COOLDOWN", "INSIGHT_CACHE_TTL", "API_ALLOWED_ORIGINS", "CLIENT_ID_COOKIE_NAME"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.SurveyBaseURL != "https://www.upkook.com/bizz/s/" {
		t.Errorf("SurveyBaseURL = %q", cfg.SurveyBaseURL)
	}
	if cfg.ResponseCooldown != time.Minute || cfg.InsightCacheTTL != 4*time.Hour {
		t.Errorf("durations = %v / %v", cfg.ResponseCooldown, cfg.InsightCacheTTL)
	}
	if cfg.ClientIDCookie.Name != "_cid" {
		t.Errorf("cookie name = %q", cfg.ClientIDCookie.Name)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/cx")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SURVEY_PUBLIC_BASE_URL", "https://example.com/s")
	t.Setenv("RESPONSE_COOLDOWN", "90s")
	t.Setenv("INSIGHT_CACHE_TTL", "not-a-duration")
	t.Setenv("API_ALLOWED_ORIGINS", " https://a.example , ,https://b.example ")
	t.Setenv("CLIENT_ID_COOKIE_SECURE", "TRUE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.SurveyBaseURL != "https://example.com/s/" {
		t.Errorf("SurveyBaseURL = %q", cfg.SurveyBaseURL)
	}
	if cfg.ResponseCooldown != 90*time.Second {
		t.Errorf("ResponseCooldown = %v", cfg.ResponseCooldown)
	}
	if cfg.InsightCacheTTL != 4*time.Hour {
		t.Errorf("invalid duration should fall back, got %v", cfg.InsightCacheTTL)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if !cfg.ClientIDCookie.Secure {
		t.Error("cookie should be secure")
	}
}

func TestLoadRequiresSecrets(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL and JWT_SECRET")
	}
}
