package client

import (
	"strings"
	"sync"
	"time"
)

// DefaultDebounce is how long the log editor waits after the last keystroke.
const DefaultDebounce = 1200 * time.Millisecond

// LogDraft tracks the journal editor's text between debounced saves.
//
// Every Edit starts a new generation. A timer armed for an older
// generation finds Due false and does nothing, so only the last edit in a
// burst is ever sent. Empty text is never sent.
type LogDraft struct {
	mu    sync.Mutex
	text  string
	gen   uint64
	saved bool
}

// NewLogDraft starts a draft from the stored text, already saved.
func NewLogDraft(text string) *LogDraft {
	return &LogDraft{text: text, saved: true}
}

// Edit replaces the text and returns the generation to arm a timer with.
func (d *LogDraft) Edit(text string) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.text = text
	d.gen++
	d.saved = false
	return d.gen
}

// Due returns the text to save when gen is still the latest edit.
func (d *LogDraft) Due(gen uint64) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen || strings.TrimSpace(d.text) == "" {
		return "", false
	}
	return d.text, true
}

// MarkSaved flips the indicator back once the save for gen succeeded.
// A success for an older generation is ignored: newer text is pending.
func (d *LogDraft) MarkSaved(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen == d.gen {
		d.saved = true
	}
}

func (d *LogDraft) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text
}

func (d *LogDraft) Saved() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.saved
}
