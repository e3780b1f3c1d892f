// Package domain defines the core domain models for the gateway.
package domain

import "time"

// Role identifies who authored a message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// MessageKind tags what a message is for, so injected context can be
// recognized without sniffing the content string.
type MessageKind string

const (
	KindPersona         MessageKind = "persona"
	KindDocumentContext MessageKind = "document_context"
	KindTurn            MessageKind = "turn"
)

// Message represents a single message in a conversation.
type Message struct {
	MessageID string      `json:"message_id,omitempty"`
	Role      Role        `json:"role"`
	Content   string      `json:"content"`
	Kind      MessageKind `json:"kind,omitempty"`
	CreatedAt time.Time   `json:"created_at,omitempty"`
}

// PersonaDirective is the system message seeded at session creation. It pins
// the assistant identity and restricts conversation to the medical domain.
const PersonaDirective = "You are Wellmed AI, a helpful medical assistant. You specialize in medical coding and related healthcare topics. Do not mention OpenAI, GPT, ChatGPT, or your origins. Always stay in character as Wellmed AI."

// RefusalText is returned verbatim for every denied turn. It must stay
// byte-identical across turns so transcripts are deterministic.
const RefusalText = "I'm sorry, but I can only help with medical and healthcare-related questions, such as symptoms, medications, procedures, or medical billing. Please ask me something health-related."
