package api

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/dewdrop/dewdrop/internal/study"
)

// sessionEntry pairs a session with its own lock so ratings against one
// session serialize without blocking other sessions. The study.Session
// itself is a plain single-threaded state machine.
type sessionEntry struct {
	mu        sync.Mutex
	sess      *study.Session
	lastTouch time.Time
}

func (e *sessionEntry) touch() {
	e.lastTouch = time.Now()
}

// SessionManager keeps in-flight study sessions in memory, keyed by a random
// ID handed to the client. Sessions are transient: never persisted, swept
// when idle.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

// NewSessionManager creates an empty SessionManager.
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*sessionEntry)}
}

func newSessionID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// Add registers a session and returns its ID.
func (m *SessionManager) Add(sess *study.Session) string {
	id := newSessionID()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = &sessionEntry{sess: sess, lastTouch: time.Now()}
	return id
}

// get returns the entry for id, or false when it does not exist. Unexported
// because entries carry the per-session lock; handlers in this package are
// the only callers.
func (m *SessionManager) get(id string) (*sessionEntry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	return e, ok
}

// Remove drops the session with the given ID.
func (m *SessionManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

// Len returns the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// PruneIdle removes sessions untouched for longer than olderThan and returns
// how many were removed.
func (m *SessionManager) PruneIdle(olderThan time.Duration) int {
	cutoff := time.Now().Add(-olderThan)
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		if e.lastTouch.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
