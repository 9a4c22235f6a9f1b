// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records per-item pipeline outcomes in a SQLite database
// kept next to the downloaded artifacts, so repeated runs over the same
// directory leave a history of what was tried and why it failed.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/doi-fetch/pkg/types"
)

const (
	dbFile     = ".doi-fetch.db"
	timeFormat = "2006-01-02T15:04:05.000000000Z07:00"
)

// Entry is one recorded item together with its run.
type Entry struct {
	RunID            string    `json:"run_id" yaml:"run_id"`
	Pipeline         string    `json:"pipeline" yaml:"pipeline"`
	Finished         time.Time `json:"finished" yaml:"finished"`
	types.ItemResult `yaml:",inline"`
}

// Ledger is an open run ledger.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger in dir.
func Open(dir string) (*Ledger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory %s: %w", dir, err)
	}
	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	l := &Ledger{db: db}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL UNIQUE,
			pipeline TEXT NOT NULL,
			started TEXT,
			finished TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			run_id TEXT NOT NULL REFERENCES runs(run_id),
			idx INTEGER NOT NULL,
			input TEXT NOT NULL,
			doi TEXT,
			source TEXT,
			path TEXT,
			status TEXT NOT NULL,
			error TEXT,
			title_mismatch INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (run_id, idx)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_status ON items(status)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores a run summary and all of its items in one transaction.
func (l *Ledger) Record(ctx context.Context, s types.RunSummary) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, pipeline, started, finished) VALUES (?, ?, ?, ?)`,
		s.RunID, s.Pipeline, formatTime(s.Started), formatTime(s.Finished),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO items (run_id, idx, input, doi, source, path, status, error, title_mismatch)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, it := range s.Items {
		_, err := stmt.ExecContext(ctx,
			s.RunID, it.Index, it.Input, it.DOI, it.Source, it.Path,
			string(it.Status), it.Error, it.TitleMismatch,
		)
		if err != nil {
			return fmt.Errorf("inserting item %d: %w", it.Index, err)
		}
	}
	return tx.Commit()
}

// Recent returns items from the most recent runs, newest run first and in
// input order within a run. A limit of zero or less returns everything.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	query := `SELECT r.run_id, r.pipeline, r.finished, i.idx, i.input, i.doi, i.source,
			i.path, i.status, i.error, i.title_mismatch
		FROM items i JOIN runs r ON r.run_id = i.run_id
		ORDER BY r.seq DESC, i.idx ASC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying ledger: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                          Entry
			finished                   string
			doi, source, path, errText sql.NullString
			status                     string
		)
		if err := rows.Scan(&e.RunID, &e.Pipeline, &finished, &e.Index, &e.Input,
			&doi, &source, &path, &status, &errText, &e.TitleMismatch); err != nil {
			return nil, fmt.Errorf("scanning ledger row: %w", err)
		}
		e.Finished, _ = time.Parse(timeFormat, finished)
		e.DOI = doi.String
		e.Source = source.String
		e.Path = path.String
		e.Status = types.ItemStatus(status)
		e.Error = errText.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeFormat)
}
