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

	"summit-backend/internal/chat"
	"summit-backend/internal/config"
	"summit-backend/internal/handlers"
	"summit-backend/internal/router"
	"summit-backend/internal/services"
	"summit-backend/internal/websocket"
	"summit-backend/internal/worker"
)

func main() {
	log.Println("🚀 Starting Summit Assistant Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")
	if cfg.AnthropicAPIKey == "" {
		log.Println("⚠ ANTHROPIC_API_KEY is not set; proxy will answer with [Missing API key]")
	}

	// ──── Step 2: Initialize Claude Client ────
	claudeService := services.NewClaudeService(cfg.AnthropicAPIKey, cfg.ClaudeModel, cfg.ClaudeMaxTokens)
	log.Printf("✓ Claude client initialized (model: %s)", cfg.ClaudeModel)

	// ──── Step 3: Initialize Session Store ────
	store := chat.NewStore(cfg.Persona.Greeting, cfg.Persona.InitialTitle)
	log.Println("✓ Session store seeded")

	// ──── Step 4: Start WebSocket Hub ────
	wsHub := websocket.NewHub()
	log.Println("✓ WebSocket hub started")

	// ──── Step 5: Wire Turn Controller + Title Workers ────
	controller := chat.NewController(store, claudeService, cfg.Persona, wsHub)
	titlePool := worker.NewTitlePool(controller, 2)
	controller.SetTitleQueue(titlePool)
	titlePool.Start()
	log.Println("✓ Title worker pool started (2 goroutines)")

	// ──── Initialize Handlers ────
	chatHandler := handlers.NewChatHandler(claudeService)
	sessionHandler := handlers.NewSessionHandler(store, controller)
	uploadHandler := handlers.NewUploadHandler(cfg.UploadDir)

	// ──── Step 6: Start HTTP Server ────
	r := router.New(chatHandler, sessionHandler, uploadHandler, wsHub, cfg.FrontendURL)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: r,
		// No write timeout: upstream calls run on transport defaults and a
		// slow completion must not be cut off mid-reply.
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		titlePool.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Summit Assistant Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
