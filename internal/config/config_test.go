package config

import (
	"testing"
	"time"
)

func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for _, key := range []string{"GATEWAY", "SUPABASE_URL", "SUPABASE_ANON_KEY", "JWT_SECRET", "REQUEST_TIMEOUT", "JWT_EXPIRES_IN", "PORT"} {
		t.Setenv(key, "")
	}
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestLoad(t *testing.T) {
	t.Run("supabase requires url", func(t *testing.T) {
		setEnv(t, map[string]string{"SUPABASE_ANON_KEY": "anon"})
		if _, err := Load(); err == nil || err.Error() != "SUPABASE_URL is required" {
			t.Fatalf("expected missing url error, got %v", err)
		}
	})

	t.Run("supabase requires anon key", func(t *testing.T) {
		setEnv(t, map[string]string{"SUPABASE_URL": "https://example.supabase.co"})
		if _, err := Load(); err == nil || err.Error() != "SUPABASE_ANON_KEY is required" {
			t.Fatalf("expected missing key error, got %v", err)
		}
	})

	t.Run("supabase defaults", func(t *testing.T) {
		setEnv(t, map[string]string{
			"SUPABASE_URL":      "https://example.supabase.co/",
			"SUPABASE_ANON_KEY": "anon",
		})
		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Gateway != GatewaySupabase {
			t.Errorf("expected supabase gateway, got %s", cfg.Gateway)
		}
		if cfg.SupabaseURL != "https://example.supabase.co" {
			t.Errorf("expected trailing slash trimmed, got %s", cfg.SupabaseURL)
		}
		if cfg.Port != "8080" {
			t.Errorf("expected default port 8080, got %s", cfg.Port)
		}
		if cfg.RequestTimeout != 15*time.Second {
			t.Errorf("expected 15s timeout, got %v", cfg.RequestTimeout)
		}
	})

	t.Run("database requires jwt secret", func(t *testing.T) {
		setEnv(t, map[string]string{"GATEWAY": "database"})
		if _, err := Load(); err == nil {
			t.Fatal("expected error for missing JWT_SECRET")
		}
	})

	t.Run("database gateway", func(t *testing.T) {
		setEnv(t, map[string]string{"GATEWAY": "DATABASE", "JWT_SECRET": "secret", "JWT_EXPIRES_IN": "30m"})
		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Gateway != GatewayDatabase {
			t.Errorf("expected database gateway, got %s", cfg.Gateway)
		}
		if cfg.JWTExpirationDur != 30*time.Minute {
			t.Errorf("expected 30m expiry, got %v", cfg.JWTExpirationDur)
		}
	})

	t.Run("unknown gateway", func(t *testing.T) {
		setEnv(t, map[string]string{"GATEWAY": "firebase"})
		if _, err := Load(); err == nil {
			t.Fatal("expected error for unknown gateway")
		}
	})

	t.Run("invalid timeout", func(t *testing.T) {
		setEnv(t, map[string]string{
			"SUPABASE_URL":      "https://example.supabase.co",
			"SUPABASE_ANON_KEY": "anon",
			"REQUEST_TIMEOUT":   "-1s",
		})
		if _, err := Load(); err == nil {
			t.Fatal("expected error for negative timeout")
		}
	})
}
