package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/wellmedai/gateway/api"
	"github.com/wellmedai/gateway/classifier"
	"github.com/wellmedai/gateway/config"
	"github.com/wellmedai/gateway/domain"
	"github.com/wellmedai/gateway/injector"
	"github.com/wellmedai/gateway/llmproxy"
	"github.com/wellmedai/gateway/orchestrator"
	"github.com/wellmedai/gateway/policy"
	"github.com/wellmedai/gateway/store"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting gateway...")
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("LLM URL: %s", cfg.LLMBaseURL)
	log.Printf("CORS allowed from: %s", cfg.CORSOrigin)

	// Initialize transcript store
	transcripts, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize transcript store: %v", err)
	}
	defer transcripts.Close()

	// Initialize live session store
	sessions := store.NewSessionStore(domain.PersonaDirective)

	// Initialize LLM client
	llmClient := llmproxy.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMTimeout)

	// Initialize topic gate
	gate := classifier.New(llmClient, cfg.ClassifierModel)

	// Initialize admission policy engine
	ctx := context.Background()
	admission, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Initialize orchestrator
	orch := orchestrator.New(sessions, transcripts, llmClient, gate, admission,
		injector.New(cfg.DocContextMaxChars), cfg.GenerationModel)

	// Initialize handler
	h := api.NewHandler(orch, sessions, transcripts, cfg)

	// Create Echo server
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowCredentials: true,
	}))

	// Register routes
	h.RegisterRoutes(e)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	log.Printf("Gateway started on port %d", cfg.HTTPPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down gateway...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown server gracefully: %v", err)
	}

	log.Println("Gateway stopped")
}
