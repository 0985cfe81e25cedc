package spacetraveling

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Snapshot is a rendered detail page persisted across restarts.
type Snapshot struct {
	UID        string
	HTML       []byte
	RenderedAt time.Time
}

// Store wraps a SQLite database holding rendered page snapshots.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets the background regeneration write while requests read.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS page_snapshots (
    uid TEXT PRIMARY KEY,
    html BLOB NOT NULL,
    rendered_at INTEGER NOT NULL
);
`)
	return err
}

// SaveSnapshot inserts or replaces the snapshot for snap.UID.
func (s *Store) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	if snap.UID == "" {
		return errors.New("snapshot uid is required")
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO page_snapshots (uid, html, rendered_at)
VALUES (?, ?, ?)
ON CONFLICT(uid) DO UPDATE SET
  html=excluded.html,
  rendered_at=excluded.rendered_at;
`, snap.UID, snap.HTML, snap.RenderedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("save snapshot %q: %w", snap.UID, err)
	}
	return nil
}

// GetSnapshot returns the snapshot for uid, or ErrNotFound.
func (s *Store) GetSnapshot(ctx context.Context, uid string) (Snapshot, error) {
	snap := Snapshot{UID: uid}
	var renderedAt int64
	err := s.db.QueryRowContext(ctx, `SELECT html, rendered_at FROM page_snapshots WHERE uid = ?`, uid).
		Scan(&snap.HTML, &renderedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, fmt.Errorf("%w: snapshot %q", ErrNotFound, uid)
	}
	if err != nil {
		return Snapshot{}, err
	}
	snap.RenderedAt = time.UnixMilli(renderedAt)
	return snap, nil
}

// ListSnapshots returns every stored snapshot, most recently rendered first.
func (s *Store) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT uid, html, rendered_at FROM page_snapshots ORDER BY rendered_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		var renderedAt int64
		if err := rows.Scan(&snap.UID, &snap.HTML, &renderedAt); err != nil {
			return nil, err
		}
		snap.RenderedAt = time.UnixMilli(renderedAt)
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

// DeleteSnapshot removes the snapshot for uid. Deleting a missing uid is not an error.
func (s *Store) DeleteSnapshot(ctx context.Context, uid string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM page_snapshots WHERE uid = ?`, uid)
	return err
}
