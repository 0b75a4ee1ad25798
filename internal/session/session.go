// Package session serializes access to one running game and connects it to
// the save store. All front ends go through a Session.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/peterkuimelis/organattack/internal/game"
	"github.com/peterkuimelis/organattack/internal/log"
	"github.com/peterkuimelis/organattack/internal/storage"
)

var (
	ErrNoGame  = errors.New("no game in progress")
	ErrNoStore = errors.New("saving is not configured")
)

// Options configures a Session.
type Options struct {
	// Game is the template for every game started or restored. Players is
	// ignored; Logger is replaced per game by EventSink.
	Game  game.Config
	Store *storage.Store // nil disables saves
	Zap   *zap.Logger
	// EventSink builds the event log for each new game. Nil mirrors events
	// to Zap.
	EventSink func() log.EventLogger
}

// Session owns at most one engine at a time. Every method is safe for
// concurrent use; mutations are applied one at a time.
type Session struct {
	mu       sync.Mutex
	id       string
	engine   *game.Engine
	base     game.Config
	store    *storage.Store
	ownStore bool
	zlog     *zap.Logger
	sink     func() log.EventLogger

	watchMu  sync.Mutex
	watchers map[int]chan game.Summary
	nextID   int
}

func New(opts Options) *Session {
	z := opts.Zap
	if z == nil {
		z = zap.NewNop()
	}
	if opts.Game.Catalog == nil {
		opts.Game.Catalog = game.DefaultCatalog()
	}
	opts.Game.Zap = z
	sink := opts.EventSink
	if sink == nil {
		sink = func() log.EventLogger { return log.NewZapLogger(z) }
	}
	return &Session{
		base:     opts.Game,
		store:    opts.Store,
		zlog:     z.Named("session"),
		sink:     sink,
		watchers: make(map[int]chan game.Summary),
	}
}

// ID identifies the current game. It changes on Start and Load.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Catalog returns the card catalog games are built from.
func (s *Session) Catalog() *game.Catalog {
	return s.base.Catalog
}

func (s *Session) config() game.Config {
	cfg := s.base
	cfg.Logger = s.sink()
	return cfg
}

// swap installs a new engine and closes the old one. Caller holds mu.
func (s *Session) swap(e *game.Engine) {
	if s.engine != nil {
		if err := s.engine.Close(); err != nil {
			s.zlog.Warn("close event log", zap.Error(err))
		}
	}
	s.engine = e
	s.id = uuid.NewString()
}

// Start begins a new game, replacing the current one.
func (s *Session) Start(players []string) (game.Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.config()
	cfg.Players = players
	e, err := game.New(cfg)
	if err != nil {
		return game.Summary{}, err
	}
	s.swap(e)
	s.zlog.Info("game started", zap.String("id", s.id), zap.Strings("players", players))
	return s.publish(), nil
}

// publish broadcasts and returns the current summary. Caller holds mu.
func (s *Session) publish() game.Summary {
	sum := s.engine.Summary()
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	for _, ch := range s.watchers {
		// Keep only the newest summary for slow watchers.
		select {
		case <-ch:
		default:
		}
		ch <- sum
	}
	return sum
}

// Watch returns a channel that receives the summary after every change,
// and a function that stops the subscription.
func (s *Session) Watch() (<-chan game.Summary, func()) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	id := s.nextID
	s.nextID++
	ch := make(chan game.Summary, 1)
	s.watchers[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.watchMu.Lock()
			defer s.watchMu.Unlock()
			delete(s.watchers, id)
			close(ch)
		})
	}
}

// with runs fn on the current engine under the lock.
func (s *Session) with(fn func(e *game.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		return ErrNoGame
	}
	return fn(s.engine)
}

func (s *Session) Summary() (game.Summary, error) {
	var sum game.Summary
	err := s.with(func(e *game.Engine) error {
		sum = e.Summary()
		return nil
	})
	return sum, err
}

func (s *Session) Hand(player string) ([]game.CardView, error) {
	var hand []game.CardView
	err := s.with(func(e *game.Engine) error {
		var err error
		hand, err = e.Hand(player)
		return err
	})
	return hand, err
}

// Events returns the events with a sequence number greater than since.
func (s *Session) Events(since int) ([]log.GameEvent, error) {
	var out []log.GameEvent
	err := s.with(func(e *game.Engine) error {
		for _, ev := range e.Events() {
			if ev.Seq > since {
				out = append(out, ev)
			}
		}
		return nil
	})
	return out, err
}

func (s *Session) Play(in game.Intent) (*game.PlayResult, game.Summary, error) {
	var (
		res *game.PlayResult
		sum game.Summary
	)
	err := s.with(func(e *game.Engine) error {
		var err error
		if res, err = e.PlayCard(in); err != nil {
			return err
		}
		sum = s.publish()
		return nil
	})
	return res, sum, err
}

func (s *Session) SkipDefense(player string) (*game.PlayResult, game.Summary, error) {
	var (
		res *game.PlayResult
		sum game.Summary
	)
	err := s.with(func(e *game.Engine) error {
		var err error
		if res, err = e.SkipDefense(player); err != nil {
			return err
		}
		sum = s.publish()
		return nil
	})
	return res, sum, err
}

func (s *Session) Advance() (game.Summary, error) {
	var sum game.Summary
	err := s.with(func(e *game.Engine) error {
		if err := e.Advance(); err != nil {
			return err
		}
		sum = s.publish()
		return nil
	})
	return sum, err
}

// Discard force-discards cards and reports whether the hand is within the
// limit afterwards.
func (s *Session) Discard(player string, cardIDs []string) (bool, game.Summary, error) {
	var (
		ok  bool
		sum game.Summary
	)
	err := s.with(func(e *game.Engine) error {
		var err error
		if ok, err = e.ForceDiscard(player, cardIDs); err != nil {
			return err
		}
		sum = s.publish()
		return nil
	})
	return ok, sum, err
}

// --- Saves ---

func (s *Session) Save(ctx context.Context, name string) (storage.SaveMeta, error) {
	if s.store == nil {
		return storage.SaveMeta{}, ErrNoStore
	}
	var snap *game.Snapshot
	if err := s.with(func(e *game.Engine) error {
		snap = e.Snapshot()
		return nil
	}); err != nil {
		return storage.SaveMeta{}, err
	}
	meta, err := s.store.Save(ctx, name, snap)
	if err != nil {
		return storage.SaveMeta{}, fmt.Errorf("save game: %w", err)
	}
	return meta, nil
}

// Load replaces the current game with a saved one. On failure the current
// game is left as it was.
func (s *Session) Load(ctx context.Context, id string) (game.Summary, error) {
	if s.store == nil {
		return game.Summary{}, ErrNoStore
	}
	snap, meta, err := s.store.Load(ctx, id)
	if err != nil {
		return game.Summary{}, fmt.Errorf("load game: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e, err := game.Restore(snap, s.config())
	if err != nil {
		s.zlog.Error("restore failed", zap.String("save", id), zap.Error(err))
		return game.Summary{}, fmt.Errorf("restore %s: %w", id, err)
	}
	s.swap(e)
	s.zlog.Info("game loaded", zap.String("save", meta.ID), zap.String("name", meta.Name), zap.String("id", s.id))
	return s.publish(), nil
}

func (s *Session) ListSaves(ctx context.Context) ([]storage.SaveMeta, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	return s.store.List(ctx)
}

func (s *Session) DeleteSave(ctx context.Context, id string) error {
	if s.store == nil {
		return ErrNoStore
	}
	return s.store.Delete(ctx, id)
}

// Close ends the current game and flushes its event log. A store opened
// by Open is closed too.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	if s.engine != nil {
		err = s.engine.Close()
		s.engine = nil
	}
	if s.ownStore {
		s.ownStore = false
		if cerr := s.store.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
