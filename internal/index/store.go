// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index keeps a local SQLite full-text index over collected records
// so they can be searched across collections without re-querying arXiv.
package index

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/sieve/pkg/types"
)

// Store manages the index database.
type Store struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the index database at cfg.Path and creates the
// schema if it does not exist.
func Open(cfg types.IndexConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = "sieve.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// FTS4 rather than FTS5: go-sqlite3 only compiles FTS5 in with a build tag.
func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS records (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			authors TEXT,
			abstract TEXT,
			published TEXT,
			updated TEXT,
			source TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_records_published ON records(published)`,
		`CREATE INDEX IF NOT EXISTS idx_records_source ON records(source)`,
		`CREATE VIRTUAL TABLE IF NOT EXISTS records_fts USING fts4(content="records", title, abstract)`,
		`CREATE TRIGGER IF NOT EXISTS records_bu BEFORE UPDATE ON records BEGIN
			DELETE FROM records_fts WHERE docid = old.rowid;
		END`,
		`CREATE TRIGGER IF NOT EXISTS records_bd BEFORE DELETE ON records BEGIN
			DELETE FROM records_fts WHERE docid = old.rowid;
		END`,
		`CREATE TRIGGER IF NOT EXISTS records_au AFTER UPDATE ON records BEGIN
			INSERT INTO records_fts(docid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
		END`,
		`CREATE TRIGGER IF NOT EXISTS records_ai AFTER INSERT ON records BEGIN
			INSERT INTO records_fts(docid, title, abstract) VALUES (new.rowid, new.title, new.abstract);
		END`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary counts the outcome of one Ingest call.
type IngestSummary struct {
	Added   int
	Updated int
}

// Total returns the number of records written.
func (s IngestSummary) Total() int {
	return s.Added + s.Updated
}

// Ingest writes records into the index in one transaction, tagging each
// with source (usually the collection's query). The index holds one row per
// arXiv identifier; a record seen again replaces the stored row.
func (s *Store) Ingest(ctx context.Context, source string, records iter.Seq[types.Record]) (IngestSummary, error) {
	var summary IngestSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (id, title, authors, abstract, published, updated, source)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, authors=excluded.authors, abstract=excluded.abstract,
			published=excluded.published, updated=excluded.updated, source=excluded.source`)
	if err != nil {
		return summary, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for r := range records {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT count(*) FROM records WHERE id = ?`, r.ID).Scan(&exists)
		if err != nil {
			return summary, fmt.Errorf("looking up %s: %w", r.ID, err)
		}

		authorsJSON, _ := json.Marshal(r.Authors)
		if _, err := stmt.ExecContext(ctx,
			r.ID, r.Title, string(authorsJSON), r.Abstract,
			formatTime(r.Published), formatTime(r.Updated), source,
		); err != nil {
			return summary, fmt.Errorf("indexing %s: %w", r.ID, err)
		}

		if exists > 0 {
			summary.Updated++
		} else {
			summary.Added++
		}
	}

	if err := tx.Commit(); err != nil {
		return IngestSummary{}, fmt.Errorf("committing index: %w", err)
	}
	return summary, nil
}

// Count returns the number of indexed records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting records: %w", err)
	}
	return n, nil
}

// Times are stored as fixed-width UTC RFC 3339 so string order is time order.
const timeLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
