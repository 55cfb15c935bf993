package client

import "sync"

// Resources tracked by the engine's Sequencer.
const (
	resourceLogs  = "logs"
	resourceRules = "rules"
)

// Sequencer orders responses per resource. Every request takes a ticket
// from Begin; Apply accepts a response only when no later ticket for the
// same resource has been applied yet, so a slow reply can never overwrite
// state a newer one already set.
type Sequencer struct {
	mu      sync.Mutex
	issued  map[string]uint64
	applied map[string]uint64
}

func NewSequencer() *Sequencer {
	return &Sequencer{
		issued:  make(map[string]uint64),
		applied: make(map[string]uint64),
	}
}

// Begin issues the next ticket for resource.
func (s *Sequencer) Begin(resource string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[resource]++
	return s.issued[resource]
}

// Apply reports whether the response for ticket is still fresh and, if so,
// records it as the latest applied.
func (s *Sequencer) Apply(resource string, ticket uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket <= s.applied[resource] {
		return false
	}
	s.applied[resource] = ticket
	return true
}
