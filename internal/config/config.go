package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Поддерживаемые языки интерфейса бота.
var supportedLangs = map[string]bool{"en": true, "ru": true, "he": true}

type Config struct {
	BotToken    string `env:"BOT_TOKEN"`
	DefaultLang string `env:"DEFAULT_LANG" envDefault:"en"`
	MinPlayers  int    `env:"MIN_PLAYERS" envDefault:"3"`
	MaxPlayers  int    `env:"MAX_PLAYERS" envDefault:"6"`
}

// Load читает конфигурацию из .env и переменных окружения.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system variables")
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}
	if !supportedLangs[c.DefaultLang] {
		return fmt.Errorf("DEFAULT_LANG must be one of en, ru, he, got %q", c.DefaultLang)
	}
	if c.MinPlayers < 2 {
		return fmt.Errorf("MIN_PLAYERS must be at least 2, got %d", c.MinPlayers)
	}
	if c.MaxPlayers < c.MinPlayers {
		return fmt.Errorf("MAX_PLAYERS must be >= MIN_PLAYERS, got %d < %d", c.MaxPlayers, c.MinPlayers)
	}
	return nil
}
