package search

import (
	"sync"
	"time"
)

// Session tracks one clarification exchange and the last results served.
// LastResults holds whichever payload the serving endpoint produced.
type Session struct {
	OriginalQuery   string `json:"original_query"`
	ClarifyQuestion string `json:"clarify_question"`
	LastResults     any    `json:"last_results"`
	Timestamp       string `json:"timestamp"`
}

// SessionStore keeps clarification sessions in memory, safe for
// concurrent handlers.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore returns an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

// Save starts or resets a session with the original query and the
// clarification question asked, if any.
func (s *SessionStore) Save(sessionID, originalQuery, question string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = &Session{
		OriginalQuery:   originalQuery,
		ClarifyQuestion: question,
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
	}
}

// Get returns a copy of the session, if it exists.
func (s *SessionStore) Get(sessionID string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return Session{}, false
	}
	return *session, true
}

// UpdateResults attaches results to an existing session. Unknown sessions
// are ignored.
func (s *SessionStore) UpdateResults(sessionID string, results any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session, ok := s.sessions[sessionID]; ok {
		session.LastResults = results
	}
}

// Len reports how many sessions are stored.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
