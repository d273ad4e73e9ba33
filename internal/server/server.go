package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/hongminglow/kitchen-guide/internal/config"
	"github.com/hongminglow/kitchen-guide/internal/http/handlers"
	"github.com/hongminglow/kitchen-guide/internal/middleware"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware and routes and returns a ready server. Routes that
// mutate the catalog sit behind the auth gate; browsing, search, and the auth
// pages stay public.
func New(cfg config.Config, h *handlers.Handler, gate *middleware.Auth, logger zerolog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	// Public pages. Detail pages personalize via optional identity only.
	r.Get("/", h.Index)
	r.Get("/search", h.Search)
	r.Get("/preparations", h.PreparationsIndex)
	r.Get("/product/{id}", h.ProductDetail)
	r.Get("/preparation/{id}", h.PreparationDetail)

	// Auth flows.
	r.Get("/login", h.LoginForm)
	r.Post("/login", h.Login)
	r.Get("/register", h.RegisterForm)
	r.Post("/register", h.Register)
	r.Get("/logout", h.Logout)
	r.Get("/401", h.Unauthorized)

	r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(time.Now()))
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("./static"))))

	// Protected pages: the gate short-circuits with a 401 page before any of
	// these handlers run.
	r.Group(func(r chi.Router) {
		r.Use(gate.RequireAuth)
		r.Get("/product/new", h.NewProduct)
		r.Post("/product", h.CreateProduct)
		r.Get("/product/{id}/edit", h.EditProduct)
		r.Post("/product/{id}/update", h.UpdateProduct)
		r.Get("/preparation/new", h.NewPreparation)
		r.Post("/preparation", h.CreatePreparation)
		r.Get("/preparation/{id}/edit", h.EditPreparation)
		r.Post("/preparation/{id}/update", h.UpdatePreparation)
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &Server{inner: httpServer}
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
