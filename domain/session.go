package domain

import (
	"sync"
	"time"
)

// Session represents one conversation. The id is client-supplied and opaque;
// sessions are created lazily on first use and live for the process lifetime.
type Session struct {
	SessionID       string
	Log             *MessageLog
	DocumentContext string
	CreatedAt       time.Time

	// Mirrored marks that the session and its persona message have been
	// written to the durable transcript. Guarded by the session lock.
	Mirrored bool

	// mu serializes turns on this session. The per-id serialization the
	// caller is assumed to provide is enforced here rather than hoped for.
	mu sync.Mutex
}

// Lock takes the per-session turn lock.
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the per-session turn lock.
func (s *Session) Unlock() { s.mu.Unlock() }
