// Package collection provides a persistent vector collection backed by SQLite.
//
// A collection is a named set of (id, embedding, metadata) items. Items are
// keyed by id within their collection; re-adding an id replaces the stored
// embedding and metadata. Vectors are stored as little-endian float32 blobs.
package collection

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Errors returned by collection operations.
var (
	ErrCollectionNotFound = errors.New("collection not found")
)

// Item is a single entry in a collection.
type Item struct {
	ID         string
	Title      string
	Categories string
	Embedding  []float32
}

// Info describes a collection.
type Info struct {
	Name       string
	ModelName  string
	Dimensions int
	CreatedAt  time.Time
	Count      int
}

// Store wraps a SQLite database holding one or more collections.
type Store struct {
	db *sql.DB
}

// Open opens or creates a collection database at the given path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS collections (
			name TEXT PRIMARY KEY,
			model_name TEXT NOT NULL,
			dimensions INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS items (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			title TEXT NOT NULL,
			categories TEXT NOT NULL DEFAULT '',
			embedding BLOB NOT NULL,
			PRIMARY KEY (collection, id)
		);
	`

	_, err := db.Exec(schema)
	return err
}

// Ensure creates the named collection if it doesn't exist yet, recording the
// model and dimensions it was built with. An existing collection with
// different dimensions is an error.
func (s *Store) Ensure(name, modelName string, dimensions int) error {
	var existing int
	err := s.db.QueryRow("SELECT dimensions FROM collections WHERE name = ?", name).Scan(&existing)
	switch {
	case err == sql.ErrNoRows:
		_, err := s.db.Exec(`
			INSERT INTO collections (name, model_name, dimensions, created_at)
			VALUES (?, ?, ?, ?)
		`, name, modelName, dimensions, time.Now().Unix())
		if err != nil {
			return fmt.Errorf("creating collection %s: %w", name, err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("looking up collection %s: %w", name, err)
	}

	if existing != dimensions {
		return fmt.Errorf("collection %s has dimensions %d, want %d (drop and re-ingest to change models)",
			name, existing, dimensions)
	}
	return nil
}

// Upsert inserts or replaces a batch of items in the named collection,
// creating the collection on first write. Every embedding must match the
// collection dimensions.
func (s *Store) Upsert(name, modelName string, dimensions int, items []Item) error {
	if err := s.Ensure(name, modelName, dimensions); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO items (collection, id, title, categories, embedding)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		if len(item.Embedding) != dimensions {
			return fmt.Errorf("embedding dimension mismatch for %s: got %d, want %d",
				item.ID, len(item.Embedding), dimensions)
		}
		if _, err := stmt.Exec(name, item.ID, item.Title, item.Categories, encodeVector(item.Embedding)); err != nil {
			return fmt.Errorf("upserting item %s: %w", item.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

// Count returns the number of items in the named collection. A collection
// that was never written counts as empty.
func (s *Store) Count(name string) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM items WHERE collection = ?", name).Scan(&count)
	return count, err
}

// Drop deletes the named collection and all its items. Returns
// ErrCollectionNotFound if the collection doesn't exist; callers typically
// treat that as an informational no-op.
func (s *Store) Drop(name string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM collections WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting collection %s: %w", name, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deleted rows: %w", err)
	}
	if affected == 0 {
		return ErrCollectionNotFound
	}

	if _, err := tx.Exec("DELETE FROM items WHERE collection = ?", name); err != nil {
		return fmt.Errorf("deleting items of %s: %w", name, err)
	}

	return tx.Commit()
}

// Info returns metadata and the item count for the named collection.
func (s *Store) Info(name string) (*Info, error) {
	info := Info{Name: name}
	var createdAt int64
	err := s.db.QueryRow(`
		SELECT model_name, dimensions, created_at FROM collections WHERE name = ?
	`, name).Scan(&info.ModelName, &info.Dimensions, &createdAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCollectionNotFound
		}
		return nil, fmt.Errorf("looking up collection %s: %w", name, err)
	}
	info.CreatedAt = time.Unix(createdAt, 0)

	info.Count, err = s.Count(name)
	if err != nil {
		return nil, fmt.Errorf("counting items: %w", err)
	}
	return &info, nil
}
