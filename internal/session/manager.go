package session

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// ErrNotFound is returned for session ids the manager does not know.
var ErrNotFound = errors.New("session not found")

// Manager is the in-process session registry. Turns within one session run
// under that session's lock; different sessions never block each other.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	clock    func() time.Time
}

type entry struct {
	mu   sync.Mutex
	sess *Session
}

// NewManager returns a manager using the given clock, or time.Now when nil.
func NewManager(clock func() time.Time) *Manager {
	if clock == nil {
		clock = time.Now
	}
	return &Manager{
		sessions: make(map[string]*entry),
		clock:    clock,
	}
}

// Now returns the manager's current time.
func (m *Manager) Now() time.Time {
	return m.clock()
}

// Create registers and returns a new session.
func (m *Manager) Create() *Session {
	s := New(m.clock())
	m.mu.Lock()
	m.sessions[s.ID] = &entry{sess: s}
	m.mu.Unlock()
	return s
}

// Adopt registers a session restored from storage. An already-registered id
// is left untouched.
func (m *Manager) Adopt(s *Session) {
	m.mu.Lock()
	if _, ok := m.sessions[s.ID]; !ok {
		m.sessions[s.ID] = &entry{sess: s}
	}
	m.mu.Unlock()
}

// Do runs fn with exclusive access to the session. Concurrent turns for the
// same id serialize here.
func (m *Manager) Do(id string, fn func(*Session) error) error {
	m.mu.Lock()
	e, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.sess)
}

// Remove drops the session from the registry.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// List returns snapshots of all sessions, most recently updated first.
func (m *Manager) List() []Session {
	m.mu.Lock()
	entries := make([]*entry, 0, len(m.sessions))
	for _, e := range m.sessions {
		entries = append(entries, e)
	}
	m.mu.Unlock()

	out := make([]Session, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, *e.sess)
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out
}
