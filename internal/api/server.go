// SPDX-License-Identifier: MIT

// Package api provides the HTTP server surface of forgebridge.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/forgebridge/forgebridge/internal/auth"
	"github.com/forgebridge/forgebridge/internal/config"
	"github.com/forgebridge/forgebridge/internal/gitea"
)

// GiteaClient is the downstream surface the server needs. Satisfied by
// *gitea.Client; tests substitute stubs.
type GiteaClient interface {
	CurrentUser(ctx context.Context, token string) (*gitea.User, error)
	ListRepos(ctx context.Context, token string) ([]gitea.Repository, error)
}

// Server hosts the forgebridge API.
type Server struct {
	cfg       config.AppConfig
	resolver  *auth.Resolver
	gitea     GiteaClient
	startTime time.Time
}

// Option allows functional configuration of the Server.
type Option func(*Server)

// WithGiteaClient overrides the downstream Gitea client (for tests).
func WithGiteaClient(c GiteaClient) Option {
	return func(s *Server) {
		s.gitea = c
	}
}

// WithResolver overrides the token resolver (for tests).
func WithResolver(r *auth.Resolver) Option {
	return func(s *Server) {
		s.resolver = r
	}
}

// New creates a Server from the resolved configuration. The token
// resolver is constructed here, once, with the immutable fallback token
// and the context-backed ambient header provider.
func New(cfg config.AppConfig, opts ...Option) *Server {
	s := &Server{
		cfg:       cfg,
		resolver:  auth.NewResolver(cfg.FallbackToken, auth.ContextHeaderProvider),
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.gitea == nil {
		s.gitea = gitea.New(cfg.GiteaBaseURL, cfg.GiteaTimeout)
	}
	return s
}

// Resolver exposes the server's token resolver for startup logging.
func (s *Server) Resolver() *auth.Resolver {
	return s.resolver
}

// Router builds the chi router with the canonical middleware stack.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	// Recoverer outermost, correlation early, header capture before
	// anything that may resolve a token.
	r.Use(recoverer)
	r.Use(requestID)
	r.Use(captureHeaders)
	r.Use(accessLog)
	r.Use(requestMetrics)
	if s.cfg.RateLimitEnabled {
		r.Use(rateLimit(s.cfg.RateLimitRequests, s.cfg.RateLimitWindow))
	}

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)
		r.Get("/api/v1/user", s.handleCurrentUser)
		r.Get("/api/v1/repos", s.handleListRepos)
	})

	return r
}
