package main

import (
	"flag"
	"os"
	"testing"

	"github.com/peterkuimelis/organattack/internal/config"
)

func TestParseFlagsLogLevelFromEnv(t *testing.T) {
	t.Setenv("ORGANATTACK_LOG_LEVEL", "error")
	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	cfg, err = parseFlags(flag.NewFlagSet("play", flag.ContinueOnError), nil, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("expected the environment level, got %q", cfg.LogLevel)
	}
}

func TestParseFlagsOverrideEnv(t *testing.T) {
	t.Setenv("ORGANATTACK_LOG_LEVEL", "error")
	t.Setenv("ORGANATTACK_SEED", "7")
	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	args := []string{"-log-level", "debug", "-db", "", "-cards", "other.yaml"}
	cfg, err = parseFlags(flag.NewFlagSet("play", flag.ContinueOnError), args, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "debug" || cfg.DBPath != "" || cfg.CardsFile != "other.yaml" {
		t.Errorf("flags should win: %+v", cfg)
	}
	if cfg.Seed != 7 {
		t.Errorf("unset flag should keep the environment seed, got %d", cfg.Seed)
	}
}

func TestParseFlagsQuietWithoutEnv(t *testing.T) {
	cfg := config.Config{LogLevel: "info"}
	t.Setenv("ORGANATTACK_LOG_LEVEL", "") // restores the old value afterwards
	os.Unsetenv("ORGANATTACK_LOG_LEVEL")
	cfg, err := parseFlags(flag.NewFlagSet("play", flag.ContinueOnError), nil, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("expected warn without ORGANATTACK_LOG_LEVEL, got %q", cfg.LogLevel)
	}
}
