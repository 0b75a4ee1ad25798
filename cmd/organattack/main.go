package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/peterkuimelis/organattack/internal/config"
	"github.com/peterkuimelis/organattack/internal/log"
	oanet "github.com/peterkuimelis/organattack/internal/net"
	"github.com/peterkuimelis/organattack/internal/session"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "play":
		runPlay(os.Args[2:])
	case "cards":
		runCards(os.Args[2:])
	case "saves":
		runSaves(os.Args[2:])
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  organattack play [--players A,B] [--cards FILE] [--db PATH] [--seed N]")
	fmt.Println("  organattack cards [--cards FILE]")
	fmt.Println("  organattack saves [--db PATH]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  play    Play a hot-seat game in the terminal")
	fmt.Println("  cards   List the card catalog")
	fmt.Println("  saves   List saved games")
	fmt.Println()
	fmt.Println("Settings not given as flags come from ORGANATTACK_* environment variables.")
}

// setup loads the environment and applies the flags shared by every command.
func setup(fs *flag.FlagSet, args []string) (config.Config, *session.Session) {
	cfg, err := config.Load()
	if err != nil {
		fatal(err)
	}
	cfg, err = parseFlags(fs, args, cfg)
	if err != nil {
		fatal(err)
	}
	logger, err := cfg.Logger()
	if err != nil {
		fatal(err)
	}
	// The console prints events itself; keep them out of the process log.
	sess, err := session.Open(cfg, logger, func() log.EventLogger { return log.NewMemoryLogger() })
	if err != nil {
		fatal(err)
	}
	return cfg, sess
}

// parseFlags overrides the environment settings in cfg with the shared flags.
// Without ORGANATTACK_LOG_LEVEL the terminal defaults to warn so process logs
// stay out of the game output.
func parseFlags(fs *flag.FlagSet, args []string, cfg config.Config) (config.Config, error) {
	defLevel := cfg.LogLevel
	if _, ok := os.LookupEnv("ORGANATTACK_LOG_LEVEL"); !ok {
		defLevel = "warn"
	}
	cards := fs.String("cards", cfg.CardsFile, "path to the card catalog")
	db := fs.String("db", cfg.DBPath, "SQLite database for saves (empty disables saving)")
	seed := fs.Int64("seed", cfg.Seed, "random seed (0 for random)")
	level := fs.String("log-level", defLevel, "process log level")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	cfg.CardsFile, cfg.DBPath, cfg.Seed, cfg.LogLevel = *cards, *db, *seed, *level
	return cfg, nil
}

func runPlay(args []string) {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	players := fs.String("players", "", "comma-separated player names; empty starts at the prompt")
	_, sess := setup(fs, args)
	defer sess.Close()

	if *players != "" {
		var names []string
		for _, n := range strings.Split(*players, ",") {
			names = append(names, strings.TrimSpace(n))
		}
		if _, err := sess.Start(names); err != nil {
			fatal(err)
		}
	} else {
		fmt.Println("No game yet. Type 'new <player> <player>...' to start, 'help' for commands.")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := oanet.NewConsole(sess, os.Stdin, os.Stdout).Run(ctx); err != nil && ctx.Err() == nil {
		fatal(err)
	}
}

func runCards(args []string) {
	fs := flag.NewFlagSet("cards", flag.ExitOnError)
	cfg, sess := setup(fs, append([]string{"-db", ""}, args...))
	defer sess.Close()

	fmt.Printf("Catalog %s (%d cards)\n", cfg.CardsFile, sess.Catalog().Len())
	for _, c := range sess.Catalog().All() {
		fmt.Printf("  %-14s %-8s %-18s %s\n", c.ID, c.Kind, c.Name, c.Description)
	}
}

func runSaves(args []string) {
	fs := flag.NewFlagSet("saves", flag.ExitOnError)
	_, sess := setup(fs, args)
	defer sess.Close()

	saves, err := sess.ListSaves(context.Background())
	if err != nil {
		fatal(err)
	}
	if len(saves) == 0 {
		fmt.Println("No saved games.")
	}
	for _, s := range saves {
		fmt.Printf("  %s  %-20s %s  turn %-3d %-8s %s\n",
			s.ID, s.Name, s.CreatedAt.Format("2006-01-02 15:04"), s.Turn, s.Phase, strings.Join(s.Players, ", "))
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
