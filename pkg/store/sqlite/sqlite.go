// Package sqlite persists session transcripts in a SQLite database.
// It offers the same contract as the jsonfile backend for deployments
// that prefer a single database file over a directory of records.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/OmkarYeole/ArtifyAI/pkg/domain"
	"github.com/OmkarYeole/ArtifyAI/pkg/store"
)

// Store implements store.Store using SQLite.
type Store struct {
	db *sql.DB
}

// Verify interface compliance at compile time.
var _ store.Store = (*Store)(nil)

// New opens (or creates) a SQLite database at the given path and runs migrations.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS turns (
		session_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		role TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (session_id, seq),
		FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Load returns the transcript stored under id.
func (s *Store) Load(ctx context.Context, id string) (domain.Transcript, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sessions WHERE id = ?`, id,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("%w: querying session %s: %v", domain.ErrStorage, id, err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content FROM turns WHERE session_id = ? ORDER BY seq`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: loading turns for %s: %v", domain.ErrStorage, id, err)
	}
	defer rows.Close()

	var transcript domain.Transcript
	for rows.Next() {
		var turn domain.Turn
		if err := rows.Scan(&turn.Role, &turn.Content); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptRecord, id, err)
		}
		transcript = append(transcript, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptRecord, id, err)
	}
	return transcript, nil
}

// Save fully replaces the record for id inside a transaction, so a
// reader never observes a truncated transcript.
func (s *Store) Save(ctx context.Context, id string, transcript domain.Transcript) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin tx: %v", domain.ErrStorage, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (id, created_at) VALUES (?, ?)
		 ON CONFLICT(id) DO NOTHING`, id, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("%w: upserting session %s: %v", domain.ErrStorage, id, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM turns WHERE session_id = ?`, id,
	); err != nil {
		return fmt.Errorf("%w: clearing turns for %s: %v", domain.ErrStorage, id, err)
	}

	for i, turn := range transcript {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO turns (session_id, seq, role, content) VALUES (?, ?, ?, ?)`,
			id, i, turn.Role, turn.Content,
		); err != nil {
			return fmt.Errorf("%w: inserting turn %d for %s: %v", domain.ErrStorage, i, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit for %s: %v", domain.ErrStorage, id, err)
	}
	return nil
}

// List enumerates stored identifiers, newest first. Enumeration
// failures log and return an empty slice.
func (s *Store) List(ctx context.Context) []string {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM sessions ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		slog.Warn("Failed to enumerate session records", "error", err)
		return nil
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			slog.Warn("Failed to scan session record", "error", err)
			return nil
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		slog.Warn("Failed to enumerate session records", "error", err)
		return nil
	}
	return ids
}

// Delete removes the record for id.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting %s: %v", domain.ErrStorage, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: deleting %s: %v", domain.ErrStorage, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM turns WHERE session_id = ?`, id); err != nil {
		return fmt.Errorf("%w: deleting turns for %s: %v", domain.ErrStorage, id, err)
	}
	return nil
}
