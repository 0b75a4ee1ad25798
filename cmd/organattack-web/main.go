package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/peterkuimelis/organattack/internal/config"
	"github.com/peterkuimelis/organattack/internal/session"
	"github.com/peterkuimelis/organattack/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	port := flag.Int("port", cfg.HTTPPort, "HTTP port to listen on")
	flag.StringVar(&cfg.CardsFile, "cards", cfg.CardsFile, "path to the card catalog")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database for saves (empty disables saving)")
	flag.Parse()

	logger, err := cfg.Logger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	sess, err := session.Open(cfg, logger, nil)
	if err != nil {
		logger.Fatal("open session", zap.Error(err))
	}
	defer sess.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := web.NewServer(sess, logger)
	logger.Info(fmt.Sprintf("organattack web UI listening on http://localhost:%d", *port))
	if err := srv.ListenAndServe(ctx, fmt.Sprintf(":%d", *port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("serve", zap.Error(err))
		os.Exit(1)
	}
}
