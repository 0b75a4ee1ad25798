// Package storage persists game snapshots in SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/peterkuimelis/organattack/internal/game"
)

// ErrNotFound is returned when no save has the requested ID.
var ErrNotFound = errors.New("save not found")

// SaveMeta describes a stored game without its snapshot.
type SaveMeta struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Turn      int       `json:"turn"`
	Phase     string    `json:"phase"`
	Players   []string  `json:"players"`
	Winner    string    `json:"winner,omitempty"`
}

// Store handles SQLite persistence.
type Store struct {
	db  *sql.DB
	log *zap.Logger
	now func() time.Time
}

// New opens (or creates) the database and runs migrations.
func New(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection: an in-memory database lives and dies with it.
	db.SetMaxOpenConns(1)
	// WAL mode for better concurrent reads
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL: %w", err)
	}
	s := &Store{db: db, log: logger.Named("storage"), now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS saves (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			turn       INTEGER NOT NULL,
			phase      TEXT NOT NULL,
			players    TEXT NOT NULL,
			winner     TEXT NOT NULL DEFAULT '',
			snapshot   TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS saves_created_at ON saves(created_at);
	`)
	return err
}

// Save stores a snapshot under a fresh ID.
func (s *Store) Save(ctx context.Context, name string, snap *game.Snapshot) (SaveMeta, error) {
	if snap == nil {
		return SaveMeta{}, errors.New("nil snapshot")
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return SaveMeta{}, fmt.Errorf("encode snapshot: %w", err)
	}
	meta := SaveMeta{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: s.now().UTC(),
		Turn:      snap.Turn,
		Phase:     snap.Phase,
		Winner:    snap.Winner,
	}
	for _, p := range snap.Players {
		meta.Players = append(meta.Players, p.Name)
	}
	if meta.Name == "" {
		meta.Name = fmt.Sprintf("Turn %d", snap.Turn)
	}
	players, err := json.Marshal(meta.Players)
	if err != nil {
		return SaveMeta{}, fmt.Errorf("encode players: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saves (id, name, created_at, turn, phase, players, winner, snapshot)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, meta.ID, meta.Name, meta.CreatedAt.UnixNano(), meta.Turn, meta.Phase, string(players), meta.Winner, string(body))
	if err != nil {
		return SaveMeta{}, fmt.Errorf("insert save: %w", err)
	}
	s.log.Info("game saved", zap.String("id", meta.ID), zap.String("name", meta.Name), zap.Int("turn", meta.Turn))
	return meta, nil
}

// Load returns the snapshot and metadata of a save.
func (s *Store) Load(ctx context.Context, id string) (*game.Snapshot, SaveMeta, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, turn, phase, players, winner, snapshot
		FROM saves WHERE id = ?
	`, id)
	var body string
	meta, err := scanMeta(row, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, SaveMeta{}, fmt.Errorf("load %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, SaveMeta{}, fmt.Errorf("load %s: %w", id, err)
	}
	var snap game.Snapshot
	if err := json.Unmarshal([]byte(body), &snap); err != nil {
		return nil, SaveMeta{}, fmt.Errorf("decode snapshot %s: %w", id, err)
	}
	return &snap, meta, nil
}

// List returns every save, newest first.
func (s *Store) List(ctx context.Context) ([]SaveMeta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at, turn, phase, players, winner
		FROM saves ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list saves: %w", err)
	}
	defer rows.Close()
	var result []SaveMeta
	for rows.Next() {
		meta, err := scanMeta(rows, nil)
		if err != nil {
			return nil, fmt.Errorf("list saves: %w", err)
		}
		result = append(result, meta)
	}
	return result, rows.Err()
}

// Delete removes a save.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM saves WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	s.log.Info("save deleted", zap.String("id", id))
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

// scanMeta reads the metadata columns, plus the snapshot column when body
// is non-nil.
func scanMeta(sc scanner, body *string) (SaveMeta, error) {
	var (
		meta    SaveMeta
		created int64
		players string
	)
	dest := []any{&meta.ID, &meta.Name, &created, &meta.Turn, &meta.Phase, &players, &meta.Winner}
	if body != nil {
		dest = append(dest, body)
	}
	if err := sc.Scan(dest...); err != nil {
		return SaveMeta{}, err
	}
	meta.CreatedAt = time.Unix(0, created).UTC()
	if err := json.Unmarshal([]byte(players), &meta.Players); err != nil {
		return SaveMeta{}, fmt.Errorf("decode players: %w", err)
	}
	return meta, nil
}
