package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "")
	t.Setenv("OBJECT_STORE", "")

	cfg := Load()

	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.Env != "dev" {
		t.Fatalf("expected env dev, got %q", cfg.Env)
	}
	if cfg.ObjectStoreType != "local" {
		t.Fatalf("expected local store, got %q", cfg.ObjectStoreType)
	}
	if cfg.Extractor != "sample" {
		t.Fatalf("expected sample extractor, got %q", cfg.Extractor)
	}
	if cfg.ScoringContent != "random" || cfg.ScoringFeedback != "static" {
		t.Fatalf("unexpected scoring defaults: %q %q", cfg.ScoringContent, cfg.ScoringFeedback)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("expected 24h session ttl, got %s", cfg.SessionTTL)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ENV", "prod")
	t.Setenv("OBJECT_STORE", "MINIO")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("SCORING_CONTENT", "fixed")
	t.Setenv("SCORING_CONTENT_FIXED", "20")
	t.Setenv("EVENTS_BACKEND", "bogus")

	cfg := Load()

	if cfg.Env != "production" {
		t.Fatalf("expected production, got %q", cfg.Env)
	}
	if cfg.ObjectStoreType != "minio" {
		t.Fatalf("expected minio, got %q", cfg.ObjectStoreType)
	}
	if len(cfg.CORSAllowOrigin) != 2 || cfg.CORSAllowOrigin[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", cfg.CORSAllowOrigin)
	}
	if cfg.ScoringContent != "fixed" || cfg.ScoringContentFixed != 20 {
		t.Fatalf("unexpected scoring content: %q %v", cfg.ScoringContent, cfg.ScoringContentFixed)
	}
	if cfg.EventsBackend != "none" {
		t.Fatalf("expected unknown backend to fall back to none, got %q", cfg.EventsBackend)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("EXTRACTOR_TEST_ONLY=1\nSCORING_FEEDBACK=adaptive\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("EXTRACTOR_TEST_ONLY")
		os.Unsetenv("SCORING_FEEDBACK")
	})

	cfg := Load()

	if cfg.ScoringFeedback != "adaptive" {
		t.Fatalf("expected adaptive feedback from .env, got %q", cfg.ScoringFeedback)
	}
}
