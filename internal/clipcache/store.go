// Package clipcache persists rendered speech keyed by voice and input.
package clipcache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/loqalabs/loqa-sam/internal/config"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no clip is stored for a key.
var ErrNotFound = errors.New("clipcache: clip not found")

// Entry is a stored clip.
type Entry struct {
	ID        int64
	Voice     string
	Text      string
	Phonetic  bool
	PCM       []byte
	CreatedAt time.Time
}

// Store wraps a SQLite-backed clip table. A disabled store accepts every
// call and never finds anything.
type Store struct {
	db    *sql.DB
	cfg   config.ClipCacheConfig
	log   *slog.Logger
	clock func() time.Time
}

// Open initializes the clip cache according to config.
func Open(ctx context.Context, cfg config.ClipCacheConfig, log *slog.Logger) (*Store, error) {
	log = log.With(slog.String("component", "clip-cache"))
	if cfg.Mode == "disabled" {
		return &Store{cfg: cfg, log: log, clock: time.Now}, nil
	}

	dsn := ":memory:"
	if cfg.Mode == "persistent" {
		dir := filepath.Dir(cfg.Path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
		dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", cfg.Path)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if cfg.Mode == "memory" {
		// every pooled connection would otherwise get its own database
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	s := &Store{db: db, cfg: cfg, log: log, clock: time.Now}

	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if cfg.VacuumOnStart {
		if err := s.vacuum(ctx); err != nil {
			log.Warn("clip cache vacuum failed", slog.String("error", err.Error()))
		}
	}

	if err := s.Prune(ctx); err != nil {
		log.Warn("clip cache prune on start failed", slog.String("error", err.Error()))
	}

	log.Info("clip cache opened", slog.String("mode", cfg.Mode))
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	ddl := `
CREATE TABLE IF NOT EXISTS clips (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    voice TEXT NOT NULL,
    text TEXT NOT NULL,
    phonetic INTEGER NOT NULL,
    pcm BLOB NOT NULL,
    created_at INTEGER NOT NULL,
    UNIQUE(voice, text, phonetic)
);
CREATE INDEX IF NOT EXISTS idx_clips_created ON clips(created_at);
`
	_, err := s.db.ExecContext(ctx, ddl)
	return err
}

func (s *Store) vacuum(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}

// Enabled reports whether clips are actually stored.
func (s *Store) Enabled() bool { return s != nil && s.db != nil }

// Close releases underlying resources.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the stored PCM for a key or ErrNotFound.
func (s *Store) Get(ctx context.Context, voice, text string, phonetic bool) ([]byte, error) {
	if !s.Enabled() {
		return nil, ErrNotFound
	}
	var pcm []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT pcm FROM clips WHERE voice = ? AND text = ? AND phonetic = ?`,
		voice, text, boolToInt(phonetic)).Scan(&pcm)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query clip: %w", err)
	}
	if pcm == nil {
		pcm = []byte{}
	}
	return pcm, nil
}

// Put stores or replaces the clip for a key and enforces max_entries.
func (s *Store) Put(ctx context.Context, voice, text string, phonetic bool, pcm []byte) error {
	if !s.Enabled() {
		return nil
	}
	if pcm == nil {
		pcm = []byte{}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO clips(voice, text, phonetic, pcm, created_at)
		 VALUES(?, ?, ?, ?, ?)
		 ON CONFLICT(voice, text, phonetic) DO UPDATE SET pcm=excluded.pcm, created_at=excluded.created_at`,
		voice, text, boolToInt(phonetic), pcm, s.clock().UTC().UnixNano())
	if err != nil {
		return fmt.Errorf("store clip: %w", err)
	}
	if s.cfg.MaxEntries > 0 {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM clips WHERE id IN (
			SELECT id FROM clips ORDER BY created_at DESC, id DESC LIMIT -1 OFFSET ?
		)`, s.cfg.MaxEntries); err != nil {
			return fmt.Errorf("trim clips: %w", err)
		}
	}
	return nil
}

// DeleteVoice drops every clip of a voice and reports how many went.
func (s *Store) DeleteVoice(ctx context.Context, voice string) (int64, error) {
	if !s.Enabled() {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM clips WHERE voice = ?`, voice)
	if err != nil {
		return 0, fmt.Errorf("delete clips: %w", err)
	}
	return res.RowsAffected()
}

// List returns up to limit clips of a voice, newest first. PCM is loaded.
func (s *Store) List(ctx context.Context, voice string, limit int) ([]Entry, error) {
	if !s.Enabled() {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, voice, text, phonetic, pcm, created_at
		 FROM clips WHERE voice = ? ORDER BY created_at DESC, id DESC LIMIT ?`, voice, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var phonetic int
		var created int64
		if err := rows.Scan(&e.ID, &e.Voice, &e.Text, &phonetic, &e.PCM, &created); err != nil {
			return nil, err
		}
		e.Phonetic = phonetic != 0
		e.CreatedAt = time.Unix(0, created).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune applies retention_days and max_entries (called on startup and can
// be scheduled).
func (s *Store) Prune(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if s.cfg.RetentionDays > 0 {
		cutoff := s.clock().Add(-time.Duration(s.cfg.RetentionDays) * 24 * time.Hour)
		if _, err = tx.ExecContext(ctx, `DELETE FROM clips WHERE created_at < ?`, cutoff.UTC().UnixNano()); err != nil {
			return err
		}
	}
	if s.cfg.MaxEntries > 0 {
		_, err = tx.ExecContext(ctx, `DELETE FROM clips WHERE id IN (
			SELECT id FROM clips ORDER BY created_at DESC, id DESC LIMIT -1 OFFSET ?
		)`, s.cfg.MaxEntries)
		if err != nil {
			return err
		}
	}
	err = tx.Commit()
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
