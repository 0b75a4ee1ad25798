package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CardsFile != "data/cards.yaml" || cfg.DBPath != "organattack.db" {
		t.Errorf("paths: %+v", cfg)
	}
	if cfg.HandLimit != 5 || cfg.StartingHand != 5 || cfg.OrgansPerPlayer != 6 {
		t.Errorf("rules: %+v", cfg)
	}
	if cfg.Seed != 0 || cfg.LogLevel != "info" || cfg.HTTPPort != 8080 {
		t.Errorf("process: %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ORGANATTACK_HAND_LIMIT", "7")
	t.Setenv("ORGANATTACK_SEED", "42")
	t.Setenv("ORGANATTACK_CARDS_FILE", "/tmp/cards.yaml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HandLimit != 7 || cfg.Seed != 42 || cfg.CardsFile != "/tmp/cards.yaml" {
		t.Errorf("env not applied: %+v", cfg)
	}

	ec := cfg.EngineConfig([]string{"A", "B"})
	if ec.HandLimit != 7 || ec.Seed != 42 || len(ec.Players) != 2 {
		t.Errorf("engine config: %+v", ec)
	}
}

func TestLoadParseError(t *testing.T) {
	t.Setenv("ORGANATTACK_HTTP_PORT", "not-an-int")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	base, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"hand limit", func(c *Config) { c.HandLimit = 0 }},
		{"starting hand", func(c *Config) { c.StartingHand = -2 }},
		{"too many organs", func(c *Config) { c.OrgansPerPlayer = 20 }},
		{"no organs", func(c *Config) { c.OrgansPerPlayer = 0 }},
		{"port", func(c *Config) { c.HTTPPort = 70000 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestZeroStartingHandDealsNothing(t *testing.T) {
	cfg := Config{StartingHand: 0}
	if got := cfg.EngineConfig(nil).StartingHand; got >= 0 {
		t.Errorf("expected a negative engine value, got %d", got)
	}
}

func TestLogger(t *testing.T) {
	if _, err := (Config{LogLevel: "debug"}).Logger(); err != nil {
		t.Errorf("debug: %v", err)
	}
	if _, err := (Config{LogLevel: "loud"}).Logger(); err == nil {
		t.Error("expected an error for an unknown level")
	}
}
