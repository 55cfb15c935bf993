// Package store provides DocumentStore implementations.
package store

import (
	"context"
	"sync"

	"github.com/monkmode/monkmode/habit"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu  sync.RWMutex
	doc *habit.Document
}

func NewMemory() *Memory {
	return &Memory{}
}

// Load returns a copy of the document.
func (m *Memory) Load(_ context.Context) (*habit.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.doc == nil {
		return nil, habit.ErrDocumentNotFound
	}
	return m.doc.Clone(), nil
}

// SaveSnapshot upserts the snapshot fields.
func (m *Memory) SaveSnapshot(_ context.Context, snap habit.Snapshot) (*habit.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.doc == nil {
		m.doc = &habit.Document{}
	}
	m.doc.CurrentDate = snap.CurrentDate
	m.doc.Today = habit.CloneRoutines(snap.Today)
	m.doc.History = snap.History.Clone()
	m.doc.Normalize()
	return m.doc.Clone(), nil
}

func (m *Memory) SetLog(_ context.Context, date habit.Date, text string) (*habit.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.doc == nil {
		return nil, habit.ErrDocumentNotFound
	}
	m.doc.Normalize()
	m.doc.Logs[date] = text
	return m.doc.Clone(), nil
}

func (m *Memory) AppendRule(_ context.Context, rule habit.Rule) ([]habit.Rule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.doc == nil {
		return nil, habit.ErrDocumentNotFound
	}
	m.doc.Rules = append(m.doc.Rules, rule)
	return append([]habit.Rule{}, m.doc.Rules...), nil
}

func (m *Memory) Close() error { return nil }
