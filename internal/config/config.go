package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
	// DBPath is a file path, ":memory:" or a libsql:// URL.
	DBPath   string     `env:"DB_PATH" envDefault:"data/trip.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// RedisURL enables the catalog cache when set.
	RedisURL string `env:"REDIS_URL"`

	// CatalogURL is the base URL of the remote location catalog. When empty
	// itineraries are planned from the locally stored locations only.
	CatalogURL      string        `env:"CATALOG_URL"`
	CatalogToken    string        `env:"CATALOG_TOKEN"`
	CatalogTimeout  time.Duration `env:"CATALOG_TIMEOUT" envDefault:"10s"`
	CatalogRPS      float64       `env:"CATALOG_RPS" envDefault:"5"`
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"15m"`

	CORSOrigins        []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173,http://localhost:8080"`
	RateLimitPerMinute int      `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120"`

	SeedDemo bool `env:"SEED_DEMO" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.CatalogRPS <= 0 {
		return nil, fmt.Errorf("CATALOG_RPS must be positive, got %v", cfg.CatalogRPS)
	}
	return &cfg, nil
}
