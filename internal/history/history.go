// Package history keeps a log of finished uploads in a local SQLite database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"uguulink/internal/config"
	"uguulink/internal/media"
)

const schema = `
CREATE TABLE IF NOT EXISTS uploads (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	path        TEXT NOT NULL,
	format      TEXT NOT NULL,
	link        TEXT NOT NULL,
	uploaded_at INTEGER NOT NULL
)`

// Store is the upload history database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	// One writer at a time; the CLI never needs more.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// OpenDefault opens the history database at its XDG location.
func OpenDefault() (*Store, error) {
	path, err := config.HistoryPath()
	if err != nil {
		return nil, err
	}
	return Open(path)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save appends a record and returns its ID. A zero UploadedAt is set to now.
func (s *Store) Save(ctx context.Context, rec media.UploadRecord) (int64, error) {
	if rec.UploadedAt.IsZero() {
		rec.UploadedAt = s.now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO uploads (path, format, link, uploaded_at) VALUES (?, ?, ?, ?)`,
		rec.Path, rec.Format.String(), rec.Link, rec.UploadedAt.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("saving history: %w", err)
	}
	return res.LastInsertId()
}

// Record implements the node recorder hook.
func (s *Store) Record(ctx context.Context, path, outputFormat, link string) error {
	_, err := s.Save(ctx, media.UploadRecord{
		Path:   path,
		Format: media.OutputFormat(outputFormat),
		Link:   link,
	})
	return err
}

// Load returns the most recent records first. limit <= 0 returns all.
func (s *Store) Load(ctx context.Context, limit int) ([]media.UploadRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, format, link, uploaded_at FROM uploads ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	defer rows.Close()

	var records []media.UploadRecord
	for rows.Next() {
		var (
			rec    media.UploadRecord
			format string
			ts     int64
		)
		if err := rows.Scan(&rec.ID, &rec.Path, &format, &rec.Link, &ts); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		rec.Format = media.OutputFormat(format)
		rec.UploadedAt = time.Unix(ts, 0)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return records, nil
}

// Remove deletes a single record.
func (s *Store) Remove(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM uploads WHERE id = ?`, id); err != nil {
		return fmt.Errorf("removing history entry: %w", err)
	}
	return nil
}

// Clear deletes every record.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM uploads`); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}
	return nil
}

// FormatForDisplay renders one line per record.
func FormatForDisplay(records []media.UploadRecord) []string {
	items := make([]string, 0, len(records))
	for _, r := range records {
		items = append(items, fmt.Sprintf("%s  %-5s  %s  (%s)",
			r.UploadedAt.Format("2006-01-02 15:04"),
			r.Format,
			r.Link,
			filepath.Base(r.Path),
		))
	}
	return items
}
