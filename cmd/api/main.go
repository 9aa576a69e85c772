// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the TechHub HTTP API server.
//
// # Startup Sequence
//
//  1. Load configuration (.env, then environment variables).
//  2. Initialize structured logger and tracing.
//  3. Connect to PostgreSQL (pgxpool) and Redis.
//  4. Run database migrations (idempotent).
//  5. Build the role hierarchy, gate and publication policy.
//  6. Ensure the protected bootstrap administrator.
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/taibuivan/techhub/internal/api"
	"github.com/taibuivan/techhub/internal/audit"
	"github.com/taibuivan/techhub/internal/content"
	"github.com/taibuivan/techhub/internal/platform/config"
	"github.com/taibuivan/techhub/internal/platform/constants"
	"github.com/taibuivan/techhub/internal/platform/events"
	"github.com/taibuivan/techhub/internal/platform/logging"
	"github.com/taibuivan/techhub/internal/platform/metrics"
	"github.com/taibuivan/techhub/internal/platform/migration"
	pgstore "github.com/taibuivan/techhub/internal/platform/postgres"
	redisstore "github.com/taibuivan/techhub/internal/platform/redis"
	"github.com/taibuivan/techhub/internal/platform/sec"
	"github.com/taibuivan/techhub/internal/platform/tracing"
	"github.com/taibuivan/techhub/internal/users/account"
	"github.com/taibuivan/techhub/internal/users/admin"
	"github.com/taibuivan/techhub/internal/users/auth"
)

func main() {
	// ── 1. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		slog.Error("startup_failure", slog.String("context", "load configuration"), slog.Any("error", err))
		os.Exit(1)
	}

	// ── 2. Logger ─────────────────────────────────────────────────────────
	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	rawLog, logCloser := logging.New(logging.Options{Level: level, File: cfg.LogFile})
	defer logCloser.Close()

	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. A deadline catches misconfiguration quickly
	// rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	shutdownTracing, err := tracing.Init(startupCtx, tracing.Settings{
		ServiceName:    constants.AppName,
		ServiceVersion: constants.AppVersion,
		Environment:    cfg.Environment,
		Endpoint:       cfg.OTLPEndpoint,
	})
	must(log, err, "initialize tracing")
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Error("tracing_shutdown_error", slog.Any("error", err))
		}
	}()

	// ── 3. PostgreSQL & Redis ─────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, pgstore.Settings{
		DSN:      cfg.DatabaseURL,
		MaxConns: cfg.DatabaseMaxConns,
		MinConns: cfg.DatabaseMinConns,
	}, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	rdb, err := redisstore.NewClient(startupCtx, redisstore.Settings{URL: cfg.RedisURL, PoolSize: cfg.RedisPoolSize}, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing_redis_client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_error", slog.Any("error", cerr))
		}
	}()

	// ── 4. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 5. Authorization & Policy ─────────────────────────────────────────
	appMetrics := metrics.New()

	hierarchy, err := sec.NewPlatformHierarchy(cfg.RoleHierarchy...)
	must(log, err, "build role hierarchy")

	gate := sec.NewGate(hierarchy, sec.WithDenyHook(func(required sec.Role) {
		appMetrics.AuthorizationDenied.WithLabelValues(string(required)).Inc()
	}))

	policy, err := content.NewPolicy(cfg.PublicationReviewKinds)
	must(log, err, "build publication policy")

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(events.KafkaConfig{Brokers: cfg.KafkaBrokers, Topic: cfg.KafkaTopic})
		log.Info("event_publisher_enabled", slog.Any("brokers", cfg.KafkaBrokers), slog.String("topic", cfg.KafkaTopic))
	}
	defer publisher.Close()

	tokenService, err := sec.LoadTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	hasher := &sec.PasswordHasher{}
	revocations := auth.NewRevocationStore(rdb, cfg.AccessTokenTTL)

	// ── 6. Bootstrap Administrator ────────────────────────────────────────
	accountRepository := account.NewPostgresRepository(pool)
	accountService := account.NewService(accountRepository, hasher, hierarchy, log)

	if cfg.HasBootstrapAdmin() {
		_, err := accountService.EnsureBootstrapAdmin(startupCtx, account.BootstrapInput{
			Email:    cfg.BootstrapAdminEmail,
			Name:     cfg.BootstrapAdminName,
			Password: cfg.BootstrapAdminPassword,
		})
		must(log, err, "ensure bootstrap administrator")
	}

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	contentStore := content.NewPostgresRepository(pool)
	submissions := content.NewSubmissionService(contentStore, gate, policy, publisher, appMetrics, log)
	moderation := content.NewModerationEngine(contentStore, gate, publisher, appMetrics, log)

	adminService := admin.NewService(admin.NewPostgresRepository(pool), gate, revocations, publisher, appMetrics, log)
	auditService := audit.NewService(audit.NewPostgresRepository(pool), gate)
	authService := auth.NewService(accountRepository, hasher, tokenService, hierarchy, cfg.AccessTokenTTL, log)

	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		"postgres": func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
		"redis":    func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) },
	}, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Account:   account.NewHandler(accountService),
		Content:   content.NewHandler(submissions, moderation, gate),
		Admin:     admin.NewHandler(adminService, gate),
		Audit:     audit.NewHandler(auditService, gate),
	}

	// ── 8. HTTP Server & Graceful Shutdown ────────────────────────────────
	serverCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	server := api.NewServer(serverCtx, cfg, log, api.Security{
		Verifier:    tokenService,
		Revocations: revocations,
	}, appMetrics, handlers)

	if err := server.Run(serverCtx); err != nil {
		log.Error("server_stopped_with_error", slog.Any("error", err))
		return
	}

	log.Info("server_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
