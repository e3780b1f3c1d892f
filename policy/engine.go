// Package policy validates incoming turns before any remote call is made.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Engine is the OPA admission policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.chat_policy.decision"),
		rego.Module("chat_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// TurnInput is the input document for an admission decision.
type TurnInput struct {
	SessionID string `json:"session_id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
}

// Evaluate checks the admission policy for a turn.
// Returns: decision (allow, reject), reason (optional), error.
func (e *Engine) Evaluate(ctx context.Context, input TurnInput) (string, string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		// The policy defines a default, so an empty result set means the
		// module is broken rather than the input admissible.
		return "", "", fmt.Errorf("policy returned no decision")
	}

	val := results[0].Expressions[0].Value
	switch v := val.(type) {
	case string:
		return v, "", nil
	case map[string]interface{}:
		decision, _ := v["decision"].(string)
		reason, _ := v["reason"].(string)
		return decision, reason, nil
	}

	return "", "", fmt.Errorf("unexpected policy return type %T", val)
}

// DefaultPolicy is the default admission policy. A turn must carry a session
// id and a non-empty user message of bounded size; anything else is rejected
// before the classifier or generation service is contacted.
const DefaultPolicy = `
package chat_policy

default decision = {"decision": "reject", "reason": "invalid input"}

decision = {"decision": "allow", "reason": ""} {
	input.session_id != ""
	input.role == "user"
	input.content != ""
	count(input.content) <= 16384
}

decision = {"decision": "reject", "reason": "missing session id"} {
	input.session_id == ""
}

decision = {"decision": "reject", "reason": "role must be user"} {
	input.session_id != ""
	input.role != "user"
}

decision = {"decision": "reject", "reason": "empty message"} {
	input.session_id != ""
	input.role == "user"
	input.content == ""
}

decision = {"decision": "reject", "reason": "message too long"} {
	input.session_id != ""
	input.role == "user"
	count(input.content) > 16384
}
`
