// Package store holds conversation state: the live in-memory session
// registry and a durable transcript mirror.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wellmedai/gateway/domain"
)

// SessionStore is the keyed registry of live sessions. There is no eviction
// and no size bound; unbounded growth over the process lifetime is an
// accepted operational constraint.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	persona  string
}

// NewSessionStore creates a session store that seeds each new session with
// the given persona directive.
func NewSessionStore(persona string) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*domain.Session),
		persona:  persona,
	}
}

// GetOrCreate returns the session for id, creating it with a single seeded
// persona message if absent. The second return reports whether the session
// was created by this call.
func (s *SessionStore) GetOrCreate(id string) (*domain.Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess, false
	}
	sess = s.newSession(id)
	s.sessions[id] = sess
	return sess, true
}

// Get returns the session for id, or false if it has never been seen.
func (s *SessionStore) Get(id string) (*domain.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// SetDocumentContext associates extracted document text with a session,
// creating the session if absent. A later upload for the same id overwrites
// the prior text; any context entry already spliced into the log is dropped
// so the next injection carries the new text instead of duplicating.
func (s *SessionStore) SetDocumentContext(id, text string) *domain.Session {
	sess, _ := s.GetOrCreate(id)
	sess.Lock()
	defer sess.Unlock()
	sess.DocumentContext = text
	sess.Log.RemoveKind(domain.KindDocumentContext)
	return sess
}

func (s *SessionStore) newSession(id string) *domain.Session {
	now := time.Now()
	log := domain.NewMessageLog(domain.Message{
		MessageID: "msg_" + uuid.New().String()[:8],
		Role:      domain.RoleSystem,
		Kind:      domain.KindPersona,
		Content:   s.persona,
		CreatedAt: now,
	})
	return &domain.Session{
		SessionID: id,
		Log:       log,
		CreatedAt: now,
	}
}

// TranscriptStore mirrors committed turns to durable storage so transcripts
// survive a restart and can be paged by clients. Mirror writes are
// best-effort from the orchestrator's point of view.
type TranscriptStore interface {
	CreateSession(ctx context.Context, sessionID string, createdAt time.Time) error
	CreateMessage(ctx context.Context, sessionID string, m *domain.Message) error
	GetMessages(ctx context.Context, sessionID string, limit int, before string) ([]domain.Message, error)
	Close() error
}
