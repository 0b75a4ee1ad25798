package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/organattack/internal/config"
	oamcp "github.com/peterkuimelis/organattack/internal/mcp"
	"github.com/peterkuimelis/organattack/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	flag.StringVar(&cfg.CardsFile, "cards", cfg.CardsFile, "path to the card catalog")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database for saves (empty disables saving)")
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 for random)")
	flag.Parse()

	// stdout carries the MCP stream; the process logger writes to stderr.
	logger, err := cfg.Logger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	sess, err := session.Open(cfg, logger, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer sess.Close()
	oamcp.SetSession(oamcp.NewGameSession(sess))

	s := server.NewMCPServer("organattack", "1.0.0")
	oamcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
