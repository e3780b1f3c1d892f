// Package injector splices a session's document context into a message log.
package injector

import (
	"time"

	"github.com/google/uuid"

	"github.com/wellmedai/gateway/domain"
)

// Preamble prefixes the injected document text so the model knows what the
// entry is.
const Preamble = "The user has provided the following document content for reference:\n"

// DefaultMaxChars bounds how much extracted text is carried into the prompt.
const DefaultMaxChars = 8000

// Injector builds document-context entries bounded to maxChars of text.
type Injector struct {
	maxChars int
}

// New creates an injector. A non-positive maxChars falls back to
// DefaultMaxChars.
func New(maxChars int) *Injector {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Injector{maxChars: maxChars}
}

// EnsureInjected splices a document-context system message into the log at
// index 1, right after the persona message and before any recorded turns.
// Empty text is a no-op, and so is a log that already carries a context
// entry, so repeated calls within a turn reach the same state. The same
// routine runs against both the transient classifier view and the persisted
// log; both must end up identical.
func (in *Injector) EnsureInjected(log *domain.MessageLog, documentText string) {
	if documentText == "" {
		return
	}
	if log.ContainsKind(domain.KindDocumentContext) {
		return
	}

	msg := domain.Message{
		MessageID: "msg_" + uuid.New().String()[:8],
		Role:      domain.RoleSystem,
		Kind:      domain.KindDocumentContext,
		Content:   Preamble + truncate(documentText, in.maxChars),
		CreatedAt: time.Now(),
	}
	log.InsertAt(1, msg)
}

// truncate bounds s to max characters without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
