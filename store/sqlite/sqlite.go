/*
Package sqlite provides a SQLite-backed implementation of habit.DocumentStore.

PURPOSE:
  Persists the singleton document. The document row is pinned to a fixed id
  by a CHECK constraint, so there is structurally at most one. Logs and rules
  live in their own tables so a log write touches one date only and a rule
  append never rewrites the others.

KEY TABLES:
  document:  the singleton (current day, today's routines, history as JSON)
  logs:      one journal entry per date, upserted in place
  rules:     append-only, ordered by insertion sequence

CONCURRENCY:
  Uses sync.RWMutex plus a single open connection. Mutations that depend on
  the document existing (SetLog, AppendRule) check and write inside one SQL
  transaction.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Readers don't block the writer
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./monkmode.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - habit/store.go: Interface definition
  - habit/store/memory.go: In-memory implementation for testing
  - store/mongo/mongo.go: MongoDB implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/monkmode/monkmode/habit"
)

// documentID is the fixed key of the singleton row.
const documentID = "monkmode"

// Store implements habit.DocumentStore using SQLite.
type Store struct {
	db  *sql.DB
	mu  sync.RWMutex
	now func() time.Time
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: ":memory:" databases are per-connection, and SQLite has one writer anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- The singleton document
	CREATE TABLE IF NOT EXISTS document (
		id TEXT PRIMARY KEY CHECK (id = 'monkmode'),
		current_day TEXT NOT NULL,
		today_json TEXT NOT NULL,
		history_json TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Journal entries, one per date
	CREATE TABLE IF NOT EXISTS logs (
		date TEXT PRIMARY KEY,
		text TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Rules (append-only)
	CREATE TABLE IF NOT EXISTS rules (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		text TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// DOCUMENT STORE IMPLEMENTATION
// =============================================================================

// Load returns the full document.
func (s *Store) Load(ctx context.Context) (*habit.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.load(ctx, s.db)
}

// SaveSnapshot upserts the document row.
func (s *Store) SaveSnapshot(ctx context.Context, snap habit.Snapshot) (*habit.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := snap.Today
	if today == nil {
		today = []habit.Routine{}
	}
	history := snap.History
	if history == nil {
		history = habit.History{}
	}
	todayJSON, err := json.Marshal(today)
	if err != nil {
		return nil, fmt.Errorf("failed to encode today: %w", err)
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("failed to encode history: %w", err)
	}

	query := `
		INSERT INTO document (id, current_day, today_json, history_json, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			current_day = excluded.current_day,
			today_json = excluded.today_json,
			history_json = excluded.history_json,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query,
		documentID, string(snap.CurrentDate), string(todayJSON), string(historyJSON),
		s.now().UTC().Format(time.RFC3339Nano),
	); err != nil {
		return nil, fmt.Errorf("failed to save snapshot: %w", err)
	}

	return s.load(ctx, s.db)
}

// SetLog upserts one date's journal entry.
func (s *Store) SetLog(ctx context.Context, date habit.Date, text string) (*habit.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := requireDocument(ctx, sqlTx); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO logs (date, text, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			text = excluded.text,
			updated_at = excluded.updated_at
	`
	if _, err := sqlTx.ExecContext(ctx, query, string(date), text, s.now().UTC().Format(time.RFC3339Nano)); err != nil {
		return nil, fmt.Errorf("failed to save log: %w", err)
	}

	doc, err := s.load(ctx, sqlTx)
	if err != nil {
		return nil, err
	}
	if err := sqlTx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit log: %w", err)
	}
	return doc, nil
}

// AppendRule inserts a rule at the end of the list.
func (s *Store) AppendRule(ctx context.Context, rule habit.Rule) ([]habit.Rule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := requireDocument(ctx, sqlTx); err != nil {
		return nil, err
	}

	if _, err := sqlTx.ExecContext(ctx,
		"INSERT INTO rules (id, text, created_at) VALUES (?, ?, ?)",
		rule.ID, rule.Text, rule.CreatedAt.UTC().Format(time.RFC3339Nano),
	); err != nil {
		return nil, fmt.Errorf("failed to append rule: %w", err)
	}

	rules, err := loadRules(ctx, sqlTx)
	if err != nil {
		return nil, err
	}
	if err := sqlTx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rule: %w", err)
	}
	return rules, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func requireDocument(ctx context.Context, q querier) error {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM document WHERE id = ?", documentID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return habit.ErrDocumentNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to check document: %w", err)
	}
	return nil
}

func (s *Store) load(ctx context.Context, q querier) (*habit.Document, error) {
	var currentDay, todayJSON, historyJSON string
	err := q.QueryRowContext(ctx,
		"SELECT current_day, today_json, history_json FROM document WHERE id = ?",
		documentID,
	).Scan(&currentDay, &todayJSON, &historyJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, habit.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}

	doc := &habit.Document{CurrentDate: habit.Date(currentDay)}
	if err := json.Unmarshal([]byte(todayJSON), &doc.Today); err != nil {
		return nil, fmt.Errorf("failed to decode today: %w", err)
	}
	if err := json.Unmarshal([]byte(historyJSON), &doc.History); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}

	if doc.Logs, err = loadLogs(ctx, q); err != nil {
		return nil, err
	}
	if doc.Rules, err = loadRules(ctx, q); err != nil {
		return nil, err
	}
	doc.Normalize()
	return doc, nil
}

func loadLogs(ctx context.Context, q querier) (map[habit.Date]string, error) {
	rows, err := q.QueryContext(ctx, "SELECT date, text FROM logs")
	if err != nil {
		return nil, fmt.Errorf("failed to load logs: %w", err)
	}
	defer rows.Close()

	logs := make(map[habit.Date]string)
	for rows.Next() {
		var date, text string
		if err := rows.Scan(&date, &text); err != nil {
			return nil, err
		}
		logs[habit.Date(date)] = text
	}
	return logs, rows.Err()
}

func loadRules(ctx context.Context, q querier) ([]habit.Rule, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, text, created_at FROM rules ORDER BY seq ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	defer rows.Close()

	rules := []habit.Rule{}
	for rows.Next() {
		var r habit.Rule
		var createdAt string
		if err := rows.Scan(&r.ID, &r.Text, &createdAt); err != nil {
			return nil, err
		}
		created, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rule created_at: %w", err)
		}
		r.CreatedAt = created
		rules = append(rules, r)
	}
	return rules, rows.Err()
}
