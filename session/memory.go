package session

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/listmonitor/monitor"
)

type memorySession struct {
	id      string
	limit   int
	changes []monitor.Notification
	mu      sync.RWMutex
}

// NewMemorySession creates a Session that keeps at most limit notifications
// in memory. A non-positive limit keeps everything. The session is assigned
// a UUIDv7 identifier.
func NewMemorySession(limit int) Session {
	return &memorySession{
		id:    uuid.Must(uuid.NewV7()).String(),
		limit: limit,
	}
}

func (s *memorySession) ID() string {
	return s.id
}

func (s *memorySession) Record(n monitor.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.changes = append(s.changes, n)
	if s.limit > 0 && len(s.changes) > s.limit {
		s.changes = slices.Delete(s.changes, 0, len(s.changes)-s.limit)
	}
}

func (s *memorySession) Changes() []monitor.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.changes)
}

func (s *memorySession) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changes = nil
}
