package api

import (
	"log/slog"
	"net/http"

	"github.com/dgallion1/pdfmark/internal/config"
	"github.com/dgallion1/pdfmark/internal/export"
	"github.com/dgallion1/pdfmark/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP API server for pdfmark.
type Server struct {
	router       chi.Router
	opener       *session.Opener
	sessions     *session.Store
	orchestrator *export.Orchestrator
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(opener *session.Opener, sessions *session.Store, orch *export.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		opener:       opener,
		sessions:     sessions,
		orchestrator: orch,
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/sessions", s.handleOpenSession)
		r.Route("/api/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleCloseSession)

			r.Get("/highlights", s.handleListHighlights)
			r.Post("/highlights", s.handleAddHighlight)
			r.Put("/highlights", s.handleReplaceHighlights)
			r.Delete("/highlights", s.handleResetHighlights)
			r.Get("/highlights/lookup", s.handleLookupHighlight)
			r.Patch("/highlights/{highlightID}", s.handleUpdateHighlight)
			r.Get("/sidebar", s.handleSidebar)

			r.Post("/export", s.handleExport)
		})

		r.Get("/api/exports/{jobID}/status", s.handleExportStatus)
		r.Get("/api/stats/export", s.handleExportStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
