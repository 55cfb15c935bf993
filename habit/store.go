/*
store.go - Persistence interface for the singleton document

PURPOSE:
  Defines the boundary between the Sync API and the database. There is
  exactly one Document; every method targets it by a fixed key.

WRITE SEMANTICS:
  - SaveSnapshot: upsert, replaces currentDate/today/history wholesale.
    No optimistic concurrency: concurrent saves race, last write wins.
  - SetLog:       targeted update of one date's log; others untouched.
  - AppendRule:   append to the ordered rule list; rules are never edited.

  Every mutation is durable before the method returns. There is no batching
  and no multi-operation transaction.

IMPLEMENTATIONS:
  - store/sqlite: SQLite (default)
  - store/mongo:  MongoDB
  - habit/store:  in-memory, for tests and dev
*/
package habit

import "context"

// DocumentStore persists the singleton Document.
type DocumentStore interface {
	// Load returns the document with logs/rules defaulted to empty.
	// Returns ErrDocumentNotFound when nothing was ever saved.
	Load(ctx context.Context) (*Document, error)

	// SaveSnapshot upserts the three snapshot fields and returns the updated document.
	SaveSnapshot(ctx context.Context, snap Snapshot) (*Document, error)

	// SetLog sets logs[date] = text. Returns ErrDocumentNotFound when absent.
	SetLog(ctx context.Context, date Date, text string) (*Document, error)

	// AppendRule appends rule and returns the full ordered list.
	// Returns ErrDocumentNotFound when absent.
	AppendRule(ctx context.Context, rule Rule) ([]Rule, error)

	Close() error
}
