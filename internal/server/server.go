package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"github.com/sprintdeck/sprintdeck/internal/api/ws"
	"github.com/sprintdeck/sprintdeck/internal/board"
	"github.com/sprintdeck/sprintdeck/internal/config"
	"github.com/sprintdeck/sprintdeck/internal/issue"
	"github.com/sprintdeck/sprintdeck/internal/server/middleware"
	"github.com/sprintdeck/sprintdeck/internal/tracker"
)

// Server is the HTTP server that wires all gateway routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	engines    *board.Manager
	sessions   *issue.Registry
	wsHub      *ws.Hub
	cfg        *config.Config
}

// New creates a Server with all routes wired. ctx bounds background
// middleware goroutines (rate-limiter cleanup).
func New(ctx context.Context, cfg *config.Config, tc *tracker.Client) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)

	hub := ws.NewHub()
	engines := board.NewManager(tc, cfg.Board.BacklogPageSize, func(projectID string, snap board.Snapshot) {
		publishBoardEvent(hub, projectID, snap)
	})

	s := &Server{
		router:   router,
		engines:  engines,
		sessions: issue.NewRegistry(),
		wsHub:    hub,
		cfg:      cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// API routes on /api/v1.
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(ctx, 100, 200))

		apiConfig := huma.DefaultConfig("Sprintdeck API", "1.0.0")
		apiConfig.Servers = []*huma.Server{
			{URL: "/api/v1"},
		}
		api := humachi.New(r, apiConfig)
		registerAPIRoutes(api, engines, tc, s.sessions)
	})

	// WebSocket routes.
	router.Route("/ws", func(r chi.Router) {
		registerWSRoutes(r, hub)
	})

	// Health check.
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return s
}

// publishBoardEvent translates a store change into a websocket push.
func publishBoardEvent(hub *ws.Hub, projectID string, snap board.Snapshot) {
	event := ws.BoardEvent{
		Type:      "tasks_reloaded",
		ProjectID: projectID,
		SprintID:  snap.SprintID,
		Revision:  snap.Revision,
	}
	if snap.SprintID == "" {
		event.Type = "board_cleared"
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("marshal board event")
		return
	}
	hub.Publish(projectID, payload)
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
