// Package api exposes article CRUD and the enhancement trigger over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ArticleEnhancer/internal/config"
	"ArticleEnhancer/internal/logging"
	"ArticleEnhancer/internal/ports"
)

// Server is the HTTP API server.
type Server struct {
	router   chi.Router
	store    ports.ArticleStore
	enhancer ports.Enhancer
	log      *slog.Logger
	cfg      config.ServerConfig
}

// NewServer creates and configures the HTTP server.
func NewServer(store ports.ArticleStore, enhancer ports.Enhancer, log *slog.Logger, cfg config.ServerConfig) *Server {
	s := &Server{
		store:    store,
		enhancer: enhancer,
		log:      logging.OrDiscard(log),
		cfg:      cfg,
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
	r.Use(CORS(s.cfg.FrontendURL))

	r.Get("/api/health", s.handleHealth)

	r.Route("/api/articles", func(r chi.Router) {
		r.Get("/stats", s.handleStats)
		r.Get("/", s.handleListArticles)
		r.Post("/", s.handleCreateArticle)
		r.Get("/{id}", s.handleGetArticle)
		r.Put("/{id}", s.handleUpdateArticle)
		r.Delete("/{id}", s.handleDeleteArticle)
		r.Post("/{id}/enhance", s.handleEnhance)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}
