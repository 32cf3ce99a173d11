package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr        string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath          string     `env:"DB_PATH" envDefault:"data/highscores.db"`
	DataDir         string     `env:"DATA_DIR" envDefault:"data"`
	LogLevel        slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	LeaderboardSize int        `env:"LEADERBOARD_SIZE" envDefault:"5"`
	// RedisURL enables the leaderboard cache when set; empty disables it.
	RedisURL string `env:"REDIS_URL"`
	// AdminPasswordHash is a bcrypt hash. Admin routes are disabled when
	// empty.
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`
	SPADir            string `env:"SPA_DIR" envDefault:"../web/dist"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
