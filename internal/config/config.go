// Package config reads process settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"

	"github.com/peterkuimelis/organattack/internal/game"
	"github.com/peterkuimelis/organattack/internal/log"
)

// Config holds the settings shared by every front end.
type Config struct {
	CardsFile       string `env:"ORGANATTACK_CARDS_FILE" envDefault:"data/cards.yaml"`
	DBPath          string `env:"ORGANATTACK_DB_PATH" envDefault:"organattack.db"`
	HandLimit       int    `env:"ORGANATTACK_HAND_LIMIT" envDefault:"5"`
	StartingHand    int    `env:"ORGANATTACK_STARTING_HAND" envDefault:"5"`
	OrgansPerPlayer int    `env:"ORGANATTACK_ORGANS_PER_PLAYER" envDefault:"6"`
	Seed            int64  `env:"ORGANATTACK_SEED" envDefault:"0"`
	LogLevel        string `env:"ORGANATTACK_LOG_LEVEL" envDefault:"info"`
	HTTPPort        int    `env:"ORGANATTACK_HTTP_PORT" envDefault:"8080"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c Config) Validate() error {
	if c.HandLimit < 1 {
		return fmt.Errorf("hand limit must be at least 1, got %d", c.HandLimit)
	}
	if c.StartingHand < 0 {
		return fmt.Errorf("starting hand must not be negative, got %d", c.StartingHand)
	}
	if c.OrgansPerPlayer < 1 || c.OrgansPerPlayer > len(game.AllOrganTypes) {
		return fmt.Errorf("organs per player must be 1-%d, got %d", len(game.AllOrganTypes), c.OrgansPerPlayer)
	}
	if c.HTTPPort < 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port %d", c.HTTPPort)
	}
	return nil
}

// EngineConfig maps the settings onto a game configuration for the given
// players. The catalog and loggers are filled in by the caller.
func (c Config) EngineConfig(players []string) game.Config {
	starting := c.StartingHand
	if starting == 0 {
		starting = -1 // zero means no starting hand here, not the engine default
	}
	return game.Config{
		Players:         players,
		Seed:            c.Seed,
		HandLimit:       c.HandLimit,
		StartingHand:    starting,
		OrgansPerPlayer: c.OrgansPerPlayer,
	}
}

// Logger builds the process logger at the configured level.
func (c Config) Logger() (*zap.Logger, error) {
	return log.NewProcessLogger(c.LogLevel)
}
