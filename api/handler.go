// Package api provides HTTP handlers for the gateway.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wellmedai/gateway/config"
	"github.com/wellmedai/gateway/orchestrator"
	"github.com/wellmedai/gateway/store"
)

// Handler handles HTTP requests.
type Handler struct {
	orch        *orchestrator.Orchestrator
	sessions    *store.SessionStore
	transcripts store.TranscriptStore
	config      *config.Config
}

// NewHandler creates a new handler.
func NewHandler(orch *orchestrator.Orchestrator, sessions *store.SessionStore, transcripts store.TranscriptStore, cfg *config.Config) *Handler {
	return &Handler{
		orch:        orch,
		sessions:    sessions,
		transcripts: transcripts,
		config:      cfg,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/chat", h.Chat)
	e.POST("/api/analyze-pdf", h.AnalyzePDF)
	e.GET("/api/sessions/:session_id/messages", h.GetSessionMessages)
	e.GET("/api/health", h.Health)
}

// Health returns health status.
// GET /api/health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}
