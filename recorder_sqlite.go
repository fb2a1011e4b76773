package perfdash

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the audit database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id               TEXT NOT NULL,
			timestamp            INTEGER NOT NULL,
			account              TEXT NOT NULL,
			statements_accepted  INTEGER,
			statements_skipped   INTEGER,
			transactions         INTEGER,
			points               INTEGER,
			error                TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS skips (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id    TEXT NOT NULL,
			timestamp INTEGER NOT NULL,
			account   TEXT NOT NULL,
			file      TEXT NOT NULL,
			reason    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_skips_run ON skips(run_id)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// RecordRun inserts one account-run summary.
func (r *SQLiteRecorder) RecordRun(rec RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.db.Exec(
		`INSERT INTO runs (run_id, timestamp, account, statements_accepted, statements_skipped, transactions, points, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, time.Now().Unix(), rec.Account,
		rec.StatementsAccepted, rec.StatementsSkipped, rec.Transactions, rec.Points, rec.Err,
	)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// RecordSkip inserts one skip event.
func (r *SQLiteRecorder) RecordSkip(runID, account, file, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := r.db.Exec(
		`INSERT INTO skips (run_id, timestamp, account, file, reason) VALUES (?, ?, ?, ?, ?)`,
		runID, time.Now().Unix(), account, file, reason,
	)
	if err != nil {
		return fmt.Errorf("record skip: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
