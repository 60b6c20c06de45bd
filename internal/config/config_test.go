package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_TTL", "")
	t.Setenv("JWT_REFRESH_TTL", "")
	t.Setenv("HTTP_ADDR", "")

	cfg := Load()

	if cfg.JWT.TTL != time.Hour {
		t.Errorf("access token TTL = %s, want 1h", cfg.JWT.TTL)
	}
	if cfg.JWT.RefreshTTL != 720*time.Hour {
		t.Errorf("refresh token TTL = %s, want 720h", cfg.JWT.RefreshTTL)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTP addr = %q, want :8080", cfg.HTTPAddr)
	}
}

func TestLoadHonorsEnvironment(t *testing.T) {
	t.Setenv("JWT_TTL", "30m")
	t.Setenv("SIGNED_URL_TTL", "2h")

	cfg := Load()

	if cfg.JWT.TTL != 30*time.Minute {
		t.Errorf("access token TTL = %s, want 30m", cfg.JWT.TTL)
	}
	if cfg.SignedURLTTL != 2*time.Hour {
		t.Errorf("signed URL TTL = %s, want 2h", cfg.SignedURLTTL)
	}
}
