package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wellmedai/gateway/domain"
	"github.com/wellmedai/gateway/llmproxy"
	"github.com/wellmedai/gateway/orchestrator"
)

// ChatRequest is one submitted turn.
type ChatRequest struct {
	SessionID   string       `json:"session_id"`
	Message     InputMessage `json:"message"`
	Model       string       `json:"model,omitempty"`
	Temperature *float64     `json:"temperature,omitempty"`
	MaxTokens   *int         `json:"max_tokens,omitempty"`
}

// InputMessage is the client-supplied message body.
type InputMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse mirrors a single-choice chat completion so clients can
// forward it unchanged.
type ChatResponse struct {
	Messages []domain.Message `json:"messages"`
	Outcome  string           `json:"outcome"`
	Usage    *llmproxy.Usage  `json:"usage,omitempty"`
}

// Chat handles one conversation turn.
// POST /api/chat
func (h *Handler) Chat(c echo.Context) error {
	ctx := c.Request().Context()

	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	result, err := h.orch.HandleTurn(ctx, req.SessionID, domain.Message{
		Role:    domain.Role(req.Message.Role),
		Content: req.Message.Content,
	}, orchestrator.GenerationParams{
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return h.chatError(c, err)
	}

	return c.JSON(http.StatusOK, ChatResponse{
		Messages: []domain.Message{result.Reply},
		Outcome:  string(result.Outcome),
		Usage:    result.Usage,
	})
}

// chatError maps orchestration errors onto HTTP responses. Generation
// failures carry the upstream status and detail so the client can tell
// "service down" apart from "off-topic".
func (h *Handler) chatError(c echo.Context, err error) error {
	if errors.Is(err, orchestrator.ErrInvalidInput) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	var upstream *llmproxy.UpstreamError
	if errors.As(err, &upstream) {
		log.Printf("ERROR: generation request failed: %v", upstream)
		return c.JSON(http.StatusBadGateway, map[string]interface{}{
			"error":           "generation service error",
			"upstream_status": upstream.StatusCode,
			"details":         upstream.Message,
		})
	}

	log.Printf("ERROR: turn failed: %v", err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}
