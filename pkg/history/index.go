// Package history keeps an index of the notes kettle has created.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mattsolo1/kettle/pkg/models"
)

// Index manages the created-notes database
type Index struct {
	db *sql.DB
}

// Entry is one indexed note
type Entry struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	IndexedAt time.Time `json:"indexed_at"`
}

// NewIndex opens (creating if needed) the index at dbPath
func NewIndex(dbPath string) (*Index, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	idx := &Index{db: db}
	if err := idx.init(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize index: %w", err)
	}

	return idx, nil
}

// init creates the database schema
func (idx *Index) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS created_notes (
		path TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		indexed_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_created_notes_created_at ON created_notes(created_at);
	`

	_, err := idx.db.Exec(schema)
	return err
}

// Record indexes or reindexes a note
func (idx *Index) Record(note *models.Note) error {
	_, err := idx.db.Exec(`
		INSERT OR REPLACE INTO created_notes (path, name, created_at, indexed_at)
		VALUES (?, ?, ?, ?)
	`, note.Path, note.Name, note.Created.UTC(), time.Now().UTC())
	return err
}

// List returns the most recently created notes first. A limit of zero
// defaults to 50.
func (idx *Index) List(limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := idx.db.Query(`
		SELECT path, name, created_at, indexed_at
		FROM created_notes
		ORDER BY created_at DESC, path ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query created notes: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(&e.Path, &e.Name, &e.CreatedAt, &e.IndexedAt); err != nil {
			return nil, fmt.Errorf("scan created note: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Clear empties the index
func (idx *Index) Clear() error {
	_, err := idx.db.Exec("DELETE FROM created_notes")
	return err
}

// Close closes the database
func (idx *Index) Close() error {
	return idx.db.Close()
}
