// Package classifier decides whether a conversation turn stays inside the
// medical domain, using one minimal-output call to the upstream model.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wellmedai/gateway/domain"
	"github.com/wellmedai/gateway/llmproxy"
)

// ErrUnavailable is returned when the remote classification call errors or
// answers with a non-success status.
var ErrUnavailable = errors.New("classifier unavailable")

// ErrAmbiguous is returned when the reduced answer is neither the affirmative
// nor the negative token.
var ErrAmbiguous = errors.New("classifier verdict ambiguous")

const (
	affirmativeToken = "yes"
	negativeToken    = "no"
)

// directive is the rubric prepended to the message sequence. The follow-up
// clause keeps vague replies like "what about the dosage?" in-domain when the
// previous turn was medical.
const directive = "You are a strict topic gate for a medical assistant. " +
	"Decide whether the user's latest message is about medical or healthcare topics: " +
	"symptoms, diagnoses, medications, procedures, medical billing or coding, anatomy, " +
	"mental health, vital signs, or medical devices. " +
	"A vague follow-up question inherits the topic of the immediately preceding message. " +
	"Answer with exactly one word: yes or no."

// Classifier reduces one model call to an in-domain verdict.
type Classifier struct {
	client llmproxy.ChatClient
	model  string
}

// New creates a classifier that calls the given model.
func New(client llmproxy.ChatClient, model string) *Classifier {
	return &Classifier{client: client, model: model}
}

// Classify returns true iff the last user message in msgs is in-domain. The
// sequence must already end with the just-submitted user message and include
// the document-context entry when one exists. There is no retry: any failure
// surfaces as an error, and callers treat it as a deny.
func (c *Classifier) Classify(ctx context.Context, msgs []domain.Message) (bool, error) {
	wire := make([]llmproxy.ChatMessage, 0, len(msgs)+1)
	wire = append(wire, llmproxy.ChatMessage{Role: string(domain.RoleSystem), Content: directive})
	for _, m := range msgs {
		wire = append(wire, llmproxy.ChatMessage{Role: string(m.Role), Content: m.Content})
	}

	temperature := 0.0
	maxTokens := 5
	resp, err := c.client.CreateChatCompletion(ctx, &llmproxy.ChatCompletionRequest{
		Model:       c.model,
		Messages:    wire,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return false, fmt.Errorf("%w: upstream returned no choices", ErrUnavailable)
	}

	verdict := strings.ToLower(strings.TrimSpace(resp.Choices[0].Message.Content))
	switch verdict {
	case affirmativeToken:
		return true, nil
	case negativeToken:
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrAmbiguous, verdict)
	}
}
