package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"summit-backend/internal/handlers"
	"summit-backend/internal/middleware"
	"summit-backend/internal/websocket"
)

func New(
	chatHandler *handlers.ChatHandler,
	sessionHandler *handlers.SessionHandler,
	uploadHandler *handlers.UploadHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Proxy rate limiter (30 req/min per IP)
	proxyLimiter := middleware.NewRateLimiter(30, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {

		// ──── Legacy Routes (original page contract) ────
		r.With(proxyLimiter.Middleware).Post("/claude", chatHandler.Proxy)
		r.Post("/upload", uploadHandler.Upload)

		r.Route("/v1", func(r chi.Router) {

			// ──── Session Routes ────
			r.Route("/sessions", func(r chi.Router) {
				r.Post("/", sessionHandler.Create)
				r.Get("/", sessionHandler.List)
				r.Put("/current", sessionHandler.SelectCurrent)
				r.Get("/{index}", sessionHandler.Get)
				r.Post("/{index}/messages", sessionHandler.SendMessage)
			})

			// ──── WebSocket ────
			r.Get("/ws", wsHub.HandleWebSocket)
		})
	})

	return r
}
