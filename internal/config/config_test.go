package config

import (
	"log/slog"
	"slices"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want INFO", cfg.LogLevel)
	}
	if cfg.CatalogTimeout != 10*time.Second {
		t.Errorf("CatalogTimeout = %v, want 10s", cfg.CatalogTimeout)
	}
	if cfg.RedisURL != "" || cfg.CatalogURL != "" {
		t.Errorf("remote dependencies should be off by default: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 3 {
		t.Errorf("CORSOrigins = %v, want 3 dev origins", cfg.CORSOrigins)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("CATALOG_URL", "http://catalog.internal")
	t.Setenv("CATALOG_CACHE_TTL", "1h")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("SEED_DEMO", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want DEBUG", cfg.LogLevel)
	}
	if cfg.CatalogURL != "http://catalog.internal" {
		t.Errorf("CatalogURL = %q", cfg.CatalogURL)
	}
	if cfg.CatalogCacheTTL != time.Hour {
		t.Errorf("CatalogCacheTTL = %v, want 1h", cfg.CatalogCacheTTL)
	}
	if want := []string{"https://a.example", "https://b.example"}; !slices.Equal(cfg.CORSOrigins, want) {
		t.Errorf("CORSOrigins = %v, want %v", cfg.CORSOrigins, want)
	}
	if !cfg.SeedDemo {
		t.Error("SeedDemo = false, want true")
	}
}

func TestLoadRejectsNonPositiveRPS(t *testing.T) {
	t.Setenv("CATALOG_RPS", "0")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for CATALOG_RPS=0")
	}
}
