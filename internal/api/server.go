// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api composes the chi router, the middleware chain and the domain handlers
into the HTTP server.

Route map under /api/v1:

	/auth          register, login
	/me, /users    profiles
	/content       submissions and listings (GET /content/{kind}?status=pending is the review queue)
	/moderation    moderation decisions (POST /decisions)
	/admin/users   role assignment and deactivation
	/admin/audit   role audit trail and moderation log
*/
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/techhub/internal/audit"
	"github.com/taibuivan/techhub/internal/content"
	"github.com/taibuivan/techhub/internal/platform/config"
	"github.com/taibuivan/techhub/internal/platform/constants"
	"github.com/taibuivan/techhub/internal/platform/metrics"
	"github.com/taibuivan/techhub/internal/platform/middleware"
	"github.com/taibuivan/techhub/internal/platform/tracing"
	"github.com/taibuivan/techhub/internal/users/account"
	"github.com/taibuivan/techhub/internal/users/admin"
	"github.com/taibuivan/techhub/internal/users/auth"
)

// Handlers is every route group the server mounts.
type Handlers struct {
	Liveness  http.HandlerFunc
	Readiness http.HandlerFunc

	Auth    *auth.Handler
	Account *account.Handler
	Content *content.Handler
	Admin   *admin.Handler
	Audit   *audit.Handler
}

// Security is what [middleware.Authenticate] needs to resolve the caller.
type Security struct {
	Verifier    middleware.TokenVerifier
	Revocations middleware.RevocationChecker
}

// Server owns the [http.Server] for one process.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

/*
NewServer builds the router. Middleware runs in the order listed: request id,
logging, tracing, metrics, deadline, rate limit, panic recovery, CORS, then
authentication, so every later stage can log and trace a rejected request.

The context bounds background work started by middleware (the rate limiter sweep).
*/
func NewServer(context context.Context, cfg *config.Config, logger *slog.Logger, security Security, appMetrics *metrics.Metrics, handlers Handlers) *Server {
	router := chi.NewRouter()

	router.Use(
		middleware.RequestID(),
		middleware.StructuredLogger(logger),
		tracing.Middleware(),
		middleware.Metrics(appMetrics),
		chimw.Timeout(constants.GlobalRequestTimeout),
		middleware.RateLimit(context, middleware.RateLimitSettings{RPS: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst}),
		middleware.PanicRecovery(),
		middleware.CORS(cfg),
		middleware.Authenticate(security.Verifier, security.Revocations),
		chimw.CleanPath,
	)

	router.Get("/health", handlers.Liveness)
	router.Get("/ready", handlers.Readiness)
	router.Method(http.MethodGet, "/metrics", appMetrics.Handler())

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Route("/auth", handlers.Auth.RegisterRoutes)
		v1.Group(handlers.Account.RegisterRoutes)
		v1.Route("/content", handlers.Content.RegisterRoutes)
		v1.Route("/moderation", handlers.Content.RegisterModerationRoutes)
		v1.Route("/admin/users", handlers.Admin.RegisterRoutes)
		v1.Route("/admin/audit", handlers.Audit.RegisterRoutes)
	})

	return &Server{
		logger: logger,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           router,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router so tests can serve requests without a listener.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

/*
Run serves until the context is cancelled or the listener fails, then drains
in-flight requests for at most [constants.ShutdownTimeout].

Returns:
  - error: the listener error, or the shutdown error; nil after a clean stop
*/
func (s *Server) Run(context context.Context) error {
	group, groupCtx := errgroup.WithContext(context)

	group.Go(func() error {
		s.logger.Info("server_starting", slog.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		s.logger.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

		shutdownCtx, cancel := contextWithoutCancel(groupCtx)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})

	return group.Wait()
}

func contextWithoutCancel(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(parent), constants.ShutdownTimeout)
}
