// Package store handles SQLite persistence of settings, history and session.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/spr/internal/history"
	"github.com/verte-zerg/spr/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

const (
	settingsKey = "spr:settings"
	sessionKey  = "spr:session"
)

// Store wraps SQLite access for reader data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS history (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			text TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			word_count INTEGER NOT NULL,
			last_index INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_history_updated_at ON history(updated_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) getValue(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *Store) setValue(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), time.Now().Format(time.RFC3339Nano))
	return err
}

// LoadSettings returns the stored settings merged over the defaults. Missing
// or unreadable data yields the defaults; only database failures are errors.
func (s *Store) LoadSettings(ctx context.Context) (model.Settings, error) {
	settings := model.DefaultSettings()
	raw, ok, err := s.getValue(ctx, settingsKey)
	if err != nil {
		return settings, err
	}
	if !ok {
		return settings, nil
	}
	stored := model.DefaultSettings()
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return settings, nil
	}
	return stored.Normalize(), nil
}

// SaveSettings stores settings.
func (s *Store) SaveSettings(ctx context.Context, settings model.Settings) error {
	return s.setValue(ctx, settingsKey, settings)
}

// ResetSettings removes stored settings so the defaults apply again.
func (s *Store) ResetSettings(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, settingsKey)
	return err
}

// LoadSession returns the session pointer; missing or unreadable data yields
// an empty session.
func (s *Store) LoadSession(ctx context.Context) (model.Session, error) {
	raw, ok, err := s.getValue(ctx, sessionKey)
	if err != nil || !ok {
		return model.Session{}, err
	}
	var session model.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return model.Session{}, nil
	}
	if session.ActiveIndex < 0 {
		session.ActiveIndex = 0
	}
	return session, nil
}

// SaveSession stores the session pointer.
func (s *Store) SaveSession(ctx context.Context, session model.Session) error {
	return s.setValue(ctx, sessionKey, session)
}

// LoadHistory returns saved texts, most recently updated first.
func (s *Store) LoadHistory(ctx context.Context) ([]model.HistoryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, text, created_at, updated_at, word_count, last_index
		 FROM history
		 ORDER BY updated_at DESC
		 LIMIT ?`, history.MaxItems)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var items []model.HistoryItem
	for rows.Next() {
		var item model.HistoryItem
		if err := rows.Scan(&item.ID, &item.Title, &item.Text, &item.CreatedAt, &item.UpdatedAt, &item.WordCount, &item.LastIndex); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// GetHistoryItem returns the saved text with id.
func (s *Store) GetHistoryItem(ctx context.Context, id string) (model.HistoryItem, bool, error) {
	var item model.HistoryItem
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, text, created_at, updated_at, word_count, last_index
		 FROM history WHERE id = ?`, id).
		Scan(&item.ID, &item.Title, &item.Text, &item.CreatedAt, &item.UpdatedAt, &item.WordCount, &item.LastIndex)
	if errors.Is(err, sql.ErrNoRows) {
		return model.HistoryItem{}, false, nil
	}
	if err != nil {
		return model.HistoryItem{}, false, err
	}
	return item, true, nil
}

// SaveHistory replaces the saved list with items, keeping at most
// history.MaxItems of the most recent.
func (s *Store) SaveHistory(ctx context.Context, items []model.HistoryItem) (err error) {
	items = history.Normalize(append([]model.HistoryItem(nil), items...))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM history`); err != nil {
		return err
	}
	if len(items) > 0 {
		stmt, perr := tx.PrepareContext(ctx,
			`INSERT INTO history (id, title, text, created_at, updated_at, word_count, last_index)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if perr != nil {
			err = perr
			return err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, item := range items {
			if _, err = stmt.ExecContext(ctx, item.ID, item.Title, item.Text, item.CreatedAt, item.UpdatedAt, item.WordCount, item.LastIndex); err != nil {
				return err
			}
		}
	}

	err = tx.Commit()
	return err
}

// UpsertHistory inserts or replaces item and applies the history cap.
func (s *Store) UpsertHistory(ctx context.Context, item model.HistoryItem) ([]model.HistoryItem, error) {
	items, err := s.LoadHistory(ctx)
	if err != nil {
		return nil, err
	}
	items = history.Upsert(items, item)
	if err := s.SaveHistory(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// ClearHistory removes every saved text.
func (s *Store) ClearHistory(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM history`)
	return err
}
