package pty

import (
	"sync"

	"github.com/google/uuid"
)

// Manager is a thread-safe registry of sessions keyed by generated IDs.
type Manager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewManager creates an empty session registry.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// Add registers a session under a fresh ID and returns the ID.
func (m *Manager) Add(s *Session) string {
	id := uuid.New().String()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = s
	return id
}

// Get retrieves a session by ID. Returns nil if not found.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Remove removes a session from the registry without stopping it.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// List returns a snapshot of all registered sessions by ID.
func (m *Manager) List() map[string]*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sessions := make(map[string]*Session, len(m.sessions))
	for id, s := range m.sessions {
		sessions[id] = s
	}
	return sessions
}

// Count returns the number of registered sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown stops and removes every registered session.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Stop()
	}
}
