package chat

import (
	"sync"
)

// State is the conversation state of one session
type State int

const (
	StateActive State = iota
	StateAwaitingFile
	StateEnded
)

// Session is the per-session conversation state. Each incoming message
// or file for a session is processed to completion under the session
// lock, so state transitions never interleave.
type Session struct {
	mu    sync.Mutex
	state State
}

// SessionStore holds one isolated Session per session key. Distinct
// sessions may be processed concurrently; the store itself shares
// nothing between them.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Get returns the session for a key, creating it on first use
func (s *SessionStore) Get(key string) *Session {
	s.mu.RLock()
	session, ok := s.sessions[key]
	s.mu.RUnlock()
	if ok {
		return session
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[key]; ok {
		return session
	}
	session = &Session{}
	s.sessions[key] = session
	return session
}

// Drop removes a session, letting the caller re-open a fresh one
func (s *SessionStore) Drop(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
}
