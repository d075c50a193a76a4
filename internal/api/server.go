// Package api provides the HTTP API server and handlers for the Folio backend.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/folioapp/folio-server/internal/auth"
	"github.com/folioapp/folio-server/internal/ratelimit"
	"github.com/folioapp/folio-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	bookService    *service.BookService
	accountService *service.AccountService
	tokens         *auth.TokenService
	limiter        *ratelimit.KeyedRateLimiter
	router         *chi.Mux
	logger         *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(bookService *service.BookService, accountService *service.AccountService, tokens *auth.TokenService, limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) *Server {
	s := &Server{
		bookService:    bookService,
		accountService: accountService,
		tokens:         tokens,
		limiter:        limiter,
		router:         chi.NewRouter(),
		logger:         logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(s.requestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(s.rateLimit)
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Books (require auth, owner-scoped).
		r.Route("/books", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListBooks)
			r.Post("/", s.handleCreateBook)
			r.Get("/{id}", s.handleGetBook)
			r.Patch("/{id}", s.handleUpdateBook)
			r.Delete("/{id}", s.handleDeleteBook)
		})

		// Account (require auth).
		r.Route("/account", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handleSaveProfile)
			r.Delete("/", s.handleDeleteAccount)
		})
	})
}
