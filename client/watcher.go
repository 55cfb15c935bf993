/*
watcher.go - Periodic day-rollover check

PURPOSE:
  A long-running client (TUI, MCP server) can stay open across midnight.
  The watcher asks the engine every CheckInterval whether the calendar day
  changed, and lets the engine archive and restart the checklist if so.

DESIGN:
  - Runs a background goroutine with a ticker
  - Checks once immediately on start
  - OnRollover, when set, is called after each rollover (the TUI uses it
    to redraw)

USAGE:
  w := NewRolloverWatcher(engine)
  w.Start()
  // ... later
  w.Stop()

SEE ALSO:
  - engine.go: CheckRollover
*/
package client

import (
	"context"
	"sync"
	"time"
)

// DefaultRolloverInterval is how often the watcher checks the date.
const DefaultRolloverInterval = time.Minute

// RolloverWatcher drives Engine.CheckRollover on a timer.
type RolloverWatcher struct {
	Engine        *Engine
	CheckInterval time.Duration
	OnRollover    func()

	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRolloverWatcher creates a watcher with the default interval.
func NewRolloverWatcher(engine *Engine) *RolloverWatcher {
	return &RolloverWatcher{
		Engine:        engine,
		CheckInterval: DefaultRolloverInterval,
	}
}

// Start begins watching. Calling Start twice is a no-op.
func (w *RolloverWatcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.ticker != nil {
		return
	}
	if w.CheckInterval <= 0 {
		w.CheckInterval = DefaultRolloverInterval
	}
	w.ticker = time.NewTicker(w.CheckInterval)
	w.stop = make(chan struct{})
	w.wg.Add(1)

	go w.run()

	w.Engine.Logger.Debug("rollover watcher started", "interval", w.CheckInterval)
}

// Stop stops the watcher and waits for an in-flight check.
func (w *RolloverWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.ticker == nil {
		return
	}
	w.ticker.Stop()
	close(w.stop)
	w.wg.Wait()
	w.ticker = nil
	w.Engine.Logger.Debug("rollover watcher stopped")
}

func (w *RolloverWatcher) run() {
	defer w.wg.Done()

	w.check()

	for {
		select {
		case <-w.ticker.C:
			w.check()
		case <-w.stop:
			return
		}
	}
}

func (w *RolloverWatcher) check() {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	if w.Engine.CheckRollover(ctx) && w.OnRollover != nil {
		w.OnRollover()
	}
}
