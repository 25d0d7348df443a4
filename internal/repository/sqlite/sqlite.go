// Package sqlite implements the trip store on an embedded SQLite database.
//
// The dataset keeps the same whole-document shape as the JSON file store:
// one serialized document in a single row, replaced in full on every Save.
// What SQLite adds is a transactional write — a crash or a concurrent
// reader never observes a half-written document — without changing the
// store contract the rest of the system is built on.
//
// modernc.org/sqlite is a pure Go translation of SQLite, so no C compiler
// or CGo is involved and cross-compilation stays trivial.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"

	"github.com/sevillaa/Travel-bros/internal/model"
)

// DB wraps the sql.DB connection pool and implements repository.TripStore.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for a throwaway in-memory database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Surface a bad path or permissions problem now rather than on the
	// first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}
	return db, nil
}

// Close closes the connection pool, flushing the WAL.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Load reads and decodes the stored document. An empty table is an empty
// dataset, matching the JSON file store's missing-file behavior.
func (db *DB) Load(ctx context.Context) (*model.Document, error) {
	var payload []byte
	err := db.conn.QueryRowContext(ctx,
		`SELECT payload FROM document WHERE id = 1`,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return emptyDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: loading document: %w", err)
	}

	doc := new(model.Document)
	if err := json.Unmarshal(payload, doc); err != nil {
		return nil, fmt.Errorf("sqlite: decoding document: %w", err)
	}
	if doc.Trips == nil {
		doc.Trips = emptyDocument().Trips
	}
	return doc, nil
}

// Save replaces the stored document inside a transaction.
func (db *DB) Save(ctx context.Context, doc *model.Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("sqlite: encoding document: %w", err)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning transaction: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO document (id, payload, updated_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			payload    = excluded.payload,
			updated_at = excluded.updated_at
	`, payload, time.Now().UTC())
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("sqlite: writing document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing document: %w", err)
	}
	return nil
}

// migrate creates the single-row document table.
// CREATE TABLE IF NOT EXISTS keeps this safe to run on every startup.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS document (
			id         INTEGER PRIMARY KEY CHECK (id = 1),
			payload    TEXT NOT NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating document table: %w", err)
	}
	return nil
}

func emptyDocument() *model.Document {
	return &model.Document{Trips: []*model.Trip{}}
}
