package server

import (
	"context"
	"net/http"
	"time"

	"github.com/hongminglow/void-bio-be/internal/admin"
	"github.com/hongminglow/void-bio-be/internal/auth"
	"github.com/hongminglow/void-bio-be/internal/config"
	"github.com/hongminglow/void-bio-be/internal/http/handlers"
	"github.com/hongminglow/void-bio-be/internal/middleware"
	"github.com/hongminglow/void-bio-be/internal/profile"
	"github.com/hongminglow/void-bio-be/internal/registration"
	"github.com/hongminglow/void-bio-be/internal/storage"
)

// Server wraps an http.Server with configured routes.
type Server struct {
	inner *http.Server
}

// New wires up middleware, routes, and returns a ready server.
func New(cfg config.Config, store storage.Store) *Server {
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           NewHandler(cfg, store),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return &Server{inner: httpServer}
}

// NewHandler builds the full route table over store.
func NewHandler(cfg config.Config, store storage.Store) http.Handler {
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL())
	issuer := auth.NewIssuer(store, tokens, auth.IssuerOptions{
		MinPasswordLength: cfg.MinPasswordLength,
		BcryptCost:        cfg.BcryptCost,
	})
	coordinator := registration.NewCoordinator(store, issuer)
	profiles := profile.NewService(store)
	admins := admin.NewService(store, admin.Options{PaymentLogLimit: cfg.PaymentLogLimit})

	signedIn := func(next http.Handler) http.Handler {
		return middleware.Authenticate(issuer, next)
	}
	adminOnly := func(next http.Handler) http.Handler {
		return middleware.Authenticate(issuer, middleware.RequireAdmin(admins, next))
	}

	var pinger handlers.Pinger
	if p, ok := store.(handlers.Pinger); ok {
		pinger = p
	}

	mux := http.NewServeMux()
	handlers.NewHealthHandler(time.Now(), pinger).Register(mux)
	handlers.NewAuthHandler(coordinator, issuer).Register(mux, signedIn)
	handlers.NewProfileHandler(profiles).Register(mux, signedIn)
	handlers.NewAdminHandler(admins).Register(mux, adminOnly)

	return middleware.CORS(cfg.CORSOrigins, middleware.Logging(mux))
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
