package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"monochrome/internal/palette"
)

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// OpenAt creates or opens a SQLite database at the given path.
// The parent directory is created if it does not exist.
func OpenAt(path string) (*SQLiteRepository, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: failed to create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("store: failed to open database: %w", err)
	}

	r := &SQLiteRepository{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return r, nil
}

// migrate creates the user_palettes table if it doesn't exist.
func (r *SQLiteRepository) migrate() error {
	const ddl = `
		CREATE TABLE IF NOT EXISTS user_palettes (
			user_id         TEXT PRIMARY KEY,
			base_color      TEXT NOT NULL,
			text_color      TEXT NOT NULL,
			base_lighter    TEXT NOT NULL,
			adminbar_color  TEXT NOT NULL,
			adminbar_text   TEXT NOT NULL,
			adminbar_darker TEXT NOT NULL,
			updated_at      TEXT NOT NULL DEFAULT (datetime('now'))
		);
	`
	if _, err := r.db.Exec(ddl); err != nil {
		return fmt.Errorf("store: migration failed: %w", err)
	}
	return nil
}

// Get returns the palette for userID, or nil if not found.
func (r *SQLiteRepository) Get(ctx context.Context, userID string) (*palette.Palette, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT base_color, text_color, base_lighter,
		       adminbar_color, adminbar_text, adminbar_darker
		FROM user_palettes WHERE user_id = ?`,
		normalizeUser(userID))

	var rec [6]string
	err := row.Scan(&rec[0], &rec[1], &rec[2], &rec[3], &rec[4], &rec[5])
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: query failed: %w", err)
	}
	return decodeRecord(rec)
}

// Save upserts the palette for userID.
func (r *SQLiteRepository) Save(ctx context.Context, userID string, p palette.Palette) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_palettes (user_id, base_color, text_color, base_lighter,
			adminbar_color, adminbar_text, adminbar_darker, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			base_color = excluded.base_color,
			text_color = excluded.text_color,
			base_lighter = excluded.base_lighter,
			adminbar_color = excluded.adminbar_color,
			adminbar_text = excluded.adminbar_text,
			adminbar_darker = excluded.adminbar_darker,
			updated_at = excluded.updated_at`,
		normalizeUser(userID),
		p.BaseColor.String(), p.TextColor.String(), p.BaseLighter.String(),
		p.AdminbarColor.String(), p.AdminbarText.String(), p.AdminbarDarker.String(),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("store: upsert failed: %w", err)
	}
	return nil
}

// Delete removes the palette for userID.
func (r *SQLiteRepository) Delete(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_palettes WHERE user_id = ?`, normalizeUser(userID)); err != nil {
		return fmt.Errorf("store: delete failed: %w", err)
	}
	return nil
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}
