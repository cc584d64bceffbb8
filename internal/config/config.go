package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:":8080"`
	DataDir        string        `env:"DATA_DIR" envDefault:"data"`
	DBPath         string        `env:"DB_PATH" envDefault:"data/cardbot.db"`
	LogLevel       slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	FontPath       string        `env:"FONT_PATH"`
	CacheTTL       time.Duration `env:"CACHE_TTL" envDefault:"24h"`
	FetchTimeout   time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s"`
	AdminTokenHash string        `env:"ADMIN_TOKEN_HASH"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
