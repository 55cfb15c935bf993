// Package client is the MonkMode state engine that front ends drive.
//
// It talks to the document through the API interface: HTTPClient for a
// remote sync server, Local for an in-process habit.DocumentStore. The
// Engine holds the in-memory day (routines, history, logs, rules),
// reconciles it against the stored document on load and on day change,
// and persists every checklist edit immediately.
package client

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/monkmode/monkmode/habit"
)

// API is the sync surface the engine depends on.
//
// SaveLog and AddRule return a nil result when the input was blank and
// nothing was stored.
type API interface {
	Fetch(ctx context.Context) (*habit.Document, error)
	SaveSnapshot(ctx context.Context, snap habit.Snapshot) (*habit.Document, error)
	SaveLog(ctx context.Context, date habit.Date, text string) (*habit.Document, error)
	AddRule(ctx context.Context, text string) ([]habit.Rule, error)
}

// =============================================================================
// LOCAL - API over a store in the same process
// =============================================================================

// Local serves the API straight from a DocumentStore, applying the same
// blank-input rules as the HTTP server.
type Local struct {
	Store habit.DocumentStore
	// NewRule stamps a rule; the HTTP server does this server-side.
	NewRule func(text string) (habit.Rule, error)
}

// NewLocal wraps store.
func NewLocal(store habit.DocumentStore) *Local {
	return &Local{Store: store, NewRule: newRule}
}

func (l *Local) Fetch(ctx context.Context) (*habit.Document, error) {
	return l.Store.Load(ctx)
}

func (l *Local) SaveSnapshot(ctx context.Context, snap habit.Snapshot) (*habit.Document, error) {
	return l.Store.SaveSnapshot(ctx, snap)
}

func (l *Local) SaveLog(ctx context.Context, date habit.Date, text string) (*habit.Document, error) {
	if date == "" {
		return nil, habit.ErrInvalidInput
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return l.Store.SetLog(ctx, date, text)
}

func (l *Local) AddRule(ctx context.Context, text string) ([]habit.Rule, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	rule, err := l.NewRule(text)
	if err != nil {
		return nil, err
	}
	return l.Store.AppendRule(ctx, rule)
}

func newRule(text string) (habit.Rule, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return habit.Rule{}, err
	}
	return habit.Rule{ID: id.String(), Text: text, CreatedAt: time.Now().UTC()}, nil
}
