// Package session keeps in-flight chat conversations in memory. The durable
// transcript lives in the conversations table; this store only holds the
// state machine between turns.
package session

import (
	"sync"

	"github.com/xavierca1/funnel-agent/internal/funnel"
)

type Store interface {
	Get(sessionID string) (*funnel.Conversation, bool)
	Put(c *funnel.Conversation)
	Evict(sessionID string)
}

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*funnel.Conversation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*funnel.Conversation)}
}

func (s *MemoryStore) Get(sessionID string) (*funnel.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.sessions[sessionID]
	return c, ok
}

func (s *MemoryStore) Put(c *funnel.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[c.SessionID] = c
}

func (s *MemoryStore) Evict(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}
