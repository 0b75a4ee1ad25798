package session

import (
	"go.uber.org/zap"

	"github.com/peterkuimelis/organattack/internal/config"
	"github.com/peterkuimelis/organattack/internal/game"
	"github.com/peterkuimelis/organattack/internal/log"
	"github.com/peterkuimelis/organattack/internal/storage"
)

// Open builds a session from process configuration: the catalog is loaded
// from cfg.CardsFile (falling back to the built-in set) and saves go to
// cfg.DBPath unless it is empty. The session owns the store it opens.
func Open(cfg config.Config, logger *zap.Logger, sink func() log.EventLogger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	gc := cfg.EngineConfig(nil)
	gc.Catalog = game.LoadCatalog(cfg.CardsFile, logger.Named("catalog"))

	var store *storage.Store
	if cfg.DBPath != "" {
		var err error
		store, err = storage.New(cfg.DBPath, logger)
		if err != nil {
			return nil, err
		}
	}

	s := New(Options{Game: gc, Store: store, Zap: logger, EventSink: sink})
	s.ownStore = store != nil
	return s, nil
}
