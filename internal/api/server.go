package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/edustack/content-studio/internal/config"
	"github.com/edustack/content-studio/internal/content"
)

// Server represents the admin HTTP API server
type Server struct {
	config  config.ServerConfig
	router  *chi.Mux
	manager content.Manager
}

// NewServer creates a new API server
func NewServer(cfg config.ServerConfig, authCfg config.AuthConfig, manager content.Manager) *Server {
	s := &Server{
		config:  cfg,
		manager: manager,
	}
	s.setupRouter(authCfg)
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter(authCfg config.AuthConfig) {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration for the dashboard frontend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health checks (public)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	// Admin API routes
	r.Route("/api/admin", func(r chi.Router) {
		if authCfg.AdminToken != "" {
			r.Use(AdminTokenMiddleware(authCfg.AdminToken))
		}

		r.Route("/challenges", func(r chi.Router) {
			r.Post("/", s.handleSaveChallenge)
			r.Get("/", s.handleListChallenges)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetChallenge)
				r.Delete("/", s.handleDeleteChallenge)
			})
		})

		r.Route("/quizzes", func(r chi.Router) {
			r.Post("/", s.handleSaveQuiz)
			r.Get("/", s.handleListQuizzes)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetQuiz)
				r.Delete("/", s.handleDeleteQuiz)
			})
		})
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
