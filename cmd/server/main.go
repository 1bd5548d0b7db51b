package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"sentra/internal/audit"
	"sentra/internal/decision"
	decisionadapters "sentra/internal/decision/adapters"
	"sentra/internal/identity"
	"sentra/internal/platform/config"
	"sentra/internal/platform/database"
	"sentra/internal/platform/health"
	"sentra/internal/platform/httpserver"
	"sentra/internal/platform/logger"
	"sentra/internal/platform/metrics"
	"sentra/internal/ratelimit"
	"sentra/internal/ratelimit/workers/cleanup"
	"sentra/internal/registration"
	registrationadapters "sentra/internal/registration/adapters"
	"sentra/internal/seeder"
	"sentra/internal/token"
	httptransport "sentra/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()
	mx := metrics.New()

	log.Info("initializing sentra",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
	)

	var auditStore audit.Store = audit.NewInMemoryStore()
	pool, err := database.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		defer pool.Close()
		if err := database.Migrate(context.Background(), cfg.DatabaseURL); err != nil {
			log.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		auditStore = audit.NewPostgresStore(pool.Querier())
		log.Info("audit trail backed by postgres")
	}

	auditor := audit.NewPublisher(auditStore,
		audit.WithAsyncBuffer(cfg.AuditBufferSize),
		audit.WithPublisherLogger(log),
		audit.WithPublisherMetrics(mx),
	)
	defer auditor.Close()
	go drainAuditFailures(auditor, log)

	limitStore := ratelimit.NewInMemoryStore()
	limiter := ratelimit.NewLimiter(limitStore,
		ratelimit.WithLogger(log),
		ratelimit.WithMetrics(mx),
	)

	oracle := decisionadapters.NewMemoryRiskOracle()
	profiles := decisionadapters.NewMemoryProfileStore()
	directory := registrationadapters.NewMemoryDirectory()

	seeded := seeder.New(seeder.Stores{
		Oracle:    oracle,
		Profiles:  profiles,
		Directory: directory,
	}, log).SeedAll()

	verifier := identity.NewVerifier(&staticExchanger{identities: seeded})

	decisions := decision.New(
		oracle,
		profiles,
		token.NewService(cfg.TokenSigningKey, "sentra", cfg.TokenTTL),
		auditor,
		decision.WithRateLimiter(limiter),
		decision.WithMetrics(mx),
		decision.WithLogger(log),
	)

	guard := registration.NewGuard(
		directory,
		registrationadapters.NewMemoryQuotaOracle(3),
		registrationadapters.NewMemoryFraudOracle(),
		auditor,
		registration.WithGuardLogger(log),
		registration.WithGuardMetrics(mx),
	)

	healthHandler := health.New(cfg.Environment)
	if pool != nil {
		healthHandler.RegisterCheck("database", pool.HealthCheck())
	}

	handler := httptransport.NewHandler(verifier, decisions, guard, limiter, log,
		httptransport.WithHealth(healthHandler),
	)
	router := httptransport.NewRouter(handler, log)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := cleanup.New(limitStore,
		cleanup.WithLogger(log),
		cleanup.WithInterval(cfg.RateLimitSweep),
		cleanup.WithMetrics(mx),
	)
	go func() {
		if err := sweeper.Start(rootCtx); err != nil && rootCtx.Err() == nil {
			log.Error("rate limit sweeper stopped", "error", err)
		}
	}()

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-rootCtx.Done()

	log.Info("shutting down server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}

// drainAuditFailures surfaces audit events that exhausted their persistence
// retries. In-memory deployments only log them; a production build would feed
// a dead-letter sink here.
func drainAuditFailures(p *audit.Publisher, log *slog.Logger) {
	for ev := range p.Failures() {
		log.Error("audit event lost after retries",
			"action", string(ev.Action),
			"user_id", ev.UserID,
		)
	}
}
