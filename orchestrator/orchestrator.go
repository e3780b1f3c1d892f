// Package orchestrator runs the per-turn conversation state machine: admit,
// gate, inject, generate, record.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/wellmedai/gateway/domain"
	"github.com/wellmedai/gateway/injector"
	"github.com/wellmedai/gateway/llmproxy"
	"github.com/wellmedai/gateway/policy"
	"github.com/wellmedai/gateway/store"
)

// ErrInvalidInput marks turns rejected by the admission policy. No session
// state is touched and no remote call is made for these.
var ErrInvalidInput = errors.New("invalid input")

// Outcome is the terminal state of a turn.
type Outcome string

const (
	OutcomeAnswered Outcome = "answered"
	OutcomeDenied   Outcome = "denied"
)

// Gate produces the in-domain verdict for a turn.
type Gate interface {
	Classify(ctx context.Context, msgs []domain.Message) (bool, error)
}

// GenerationParams are client-supplied knobs passed through to the
// generation call unmodified.
type GenerationParams struct {
	Model       string
	Temperature *float64
	MaxTokens   *int
}

// TurnResult is the outcome of one handled turn.
type TurnResult struct {
	Outcome Outcome
	Reply   domain.Message
	Usage   *llmproxy.Usage
}

// Orchestrator mediates between the user and the generation service.
type Orchestrator struct {
	sessions    *store.SessionStore
	transcripts store.TranscriptStore
	llm         llmproxy.ChatClient
	gate        Gate
	admission   *policy.Engine
	injector    *injector.Injector
	model       string
}

// New creates an orchestrator. transcripts may be nil to disable the durable
// transcript mirror.
func New(sessions *store.SessionStore, transcripts store.TranscriptStore, llm llmproxy.ChatClient, gate Gate, admission *policy.Engine, inj *injector.Injector, defaultModel string) *Orchestrator {
	return &Orchestrator{
		sessions:    sessions,
		transcripts: transcripts,
		llm:         llm,
		gate:        gate,
		admission:   admission,
		injector:    inj,
		model:       defaultModel,
	}
}

// HandleTurn processes one user message against a session. Exactly one
// classification call is made per admitted turn, and exactly one generation
// call per accepted turn. Log mutations are append-then-call, so a failure
// mid-call leaves the transcript at "message sent, no reply yet".
func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID string, userMsg domain.Message, params GenerationParams) (*TurnResult, error) {
	decision, reason, err := o.admission.Evaluate(ctx, policy.TurnInput{
		SessionID: sessionID,
		Role:      string(userMsg.Role),
		Content:   userMsg.Content,
	})
	if err != nil {
		return nil, fmt.Errorf("admission policy: %w", err)
	}
	if decision != "allow" {
		if reason == "" {
			reason = "rejected by admission policy"
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, reason)
	}

	sess, _ := o.sessions.GetOrCreate(sessionID)
	sess.Lock()
	defer sess.Unlock()

	// The session may have been created by a document upload; mirror it on
	// its first turn either way.
	if !sess.Mirrored {
		o.mirrorSession(ctx, sess)
		sess.Mirrored = true
	}

	now := time.Now()
	userMsg.MessageID = newMessageID()
	userMsg.Kind = domain.KindTurn
	userMsg.CreatedAt = now

	// The classifier sees the context entry and the new message even though
	// neither is committed to the persisted log yet.
	view := domain.NewMessageLog(sess.Log.Snapshot()...)
	o.injector.EnsureInjected(view, sess.DocumentContext)
	view.Append(userMsg)

	allowed, err := o.gate.Classify(ctx, view.Snapshot())
	if err != nil {
		// Fail closed: an unreachable or incoherent classifier must never
		// let un-vetted traffic through to the generation service.
		log.Printf("WARN: classifier verdict not usable, denying turn: %v", err)
		allowed = false
	}

	if !allowed {
		refusal := domain.Message{
			MessageID: newMessageID(),
			Role:      domain.RoleAssistant,
			Kind:      domain.KindTurn,
			Content:   domain.RefusalText,
			CreatedAt: time.Now(),
		}
		sess.Log.Append(userMsg)
		sess.Log.Append(refusal)
		o.mirrorMessage(ctx, sess.SessionID, userMsg)
		o.mirrorMessage(ctx, sess.SessionID, refusal)
		return &TurnResult{Outcome: OutcomeDenied, Reply: refusal}, nil
	}

	o.injector.EnsureInjected(sess.Log, sess.DocumentContext)
	sess.Log.Append(userMsg)
	o.mirrorMessage(ctx, sess.SessionID, userMsg)

	resp, err := o.llm.CreateChatCompletion(ctx, o.buildRequest(sess.Log.Snapshot(), params))
	if err != nil {
		// The user message stays in the log; no assistant message is added.
		return nil, err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return nil, fmt.Errorf("upstream returned no choices")
	}

	reply := domain.Message{
		MessageID: newMessageID(),
		Role:      domain.RoleAssistant,
		Kind:      domain.KindTurn,
		Content:   resp.Choices[0].Message.Content,
		CreatedAt: time.Now(),
	}
	sess.Log.Append(reply)
	o.mirrorMessage(ctx, sess.SessionID, reply)

	return &TurnResult{Outcome: OutcomeAnswered, Reply: reply, Usage: resp.Usage}, nil
}

func (o *Orchestrator) buildRequest(msgs []domain.Message, params GenerationParams) *llmproxy.ChatCompletionRequest {
	wire := make([]llmproxy.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		wire = append(wire, llmproxy.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	model := params.Model
	if model == "" {
		model = o.model
	}
	return &llmproxy.ChatCompletionRequest{
		Model:       model,
		Messages:    wire,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}
}

// mirrorSession records a new session and its persona message in the durable
// transcript. Mirror failures are logged, not surfaced; the live log is the
// source of truth for the turn.
func (o *Orchestrator) mirrorSession(ctx context.Context, sess *domain.Session) {
	if o.transcripts == nil {
		return
	}
	if err := o.transcripts.CreateSession(ctx, sess.SessionID, sess.CreatedAt); err != nil {
		log.Printf("WARN: failed to mirror session %s: %v", sess.SessionID, err)
		return
	}
	for _, m := range sess.Log.Snapshot() {
		o.mirrorMessage(ctx, sess.SessionID, m)
	}
}

func (o *Orchestrator) mirrorMessage(ctx context.Context, sessionID string, m domain.Message) {
	if o.transcripts == nil {
		return
	}
	if err := o.transcripts.CreateMessage(ctx, sessionID, &m); err != nil {
		log.Printf("WARN: failed to mirror message %s: %v", m.MessageID, err)
	}
}

func newMessageID() string {
	return "msg_" + uuid.New().String()[:8]
}
