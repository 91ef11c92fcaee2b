package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	httpAdapter "github.com/lorrc/home-services-backend/internal/adapters/primary/http"
	mw "github.com/lorrc/home-services-backend/internal/adapters/primary/http/middleware"
	"github.com/lorrc/home-services-backend/internal/adapters/primary/websocket"
	"github.com/lorrc/home-services-backend/internal/adapters/secondary/email"
	"github.com/lorrc/home-services-backend/internal/adapters/secondary/postgres"
	"github.com/lorrc/home-services-backend/internal/adapters/secondary/sms"
	"github.com/lorrc/home-services-backend/internal/auth"
	"github.com/lorrc/home-services-backend/internal/config"
	"github.com/lorrc/home-services-backend/internal/core/domain"
	"github.com/lorrc/home-services-backend/internal/core/services"
	"github.com/lorrc/home-services-backend/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logger := logging.NewLogger(logging.Config{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		Output:      os.Stdout,
		ServiceName: cfg.App.Name,
		Environment: cfg.App.Environment,
	})

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	// 3. Run Database Migrations
	if err := postgres.RunMigrations(cfg.Database.MigrationsURL, cfg.Database.URL); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("database migrations applied")

	// 4. Initialize Database Pool
	ctx := context.Background()
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		logger.Error("failed to parse database URL", "error", err)
		os.Exit(1)
	}

	// Apply database configuration
	poolConfig.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.Database.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		os.Exit(1)
	}
	logger.Info("database connection established")

	// 5. Initialize Security & Real-time Components
	tokenManager := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL)
	registry := websocket.NewRegistry(logger)
	go registry.Run()

	// 6. Initialize Rate Limiters
	var generalRateLimiter, demoRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		generalRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstSize:         cfg.RateLimit.BurstSize,
			CleanupInterval:   time.Minute,
			TTL:               3 * time.Minute,
		})

		demoRateLimiter = mw.NewRateLimiter(mw.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.DemoRPS,
			BurstSize:         cfg.RateLimit.DemoBurst,
			CleanupInterval:   time.Minute,
			TTL:               5 * time.Minute,
		})
	}

	// 7. Dependency Injection (Wiring the Hexagon)

	// Error Handler
	errorHandler := httpAdapter.NewErrorHandler(logger)

	// Repositories (Secondary Adapters)
	txManager := postgres.NewTransactionManager(pool)
	businessRepo := postgres.NewBusinessRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)
	conversationRepo := postgres.NewConversationRepository(pool, txManager)
	jobRepo := postgres.NewJobRepository(pool)
	reviewRepo := postgres.NewReviewRepository(pool)
	automationRepo := postgres.NewAutomationRepository(pool)
	demoTokenRepo := postgres.NewDemoTokenRepository(pool)
	statsRepo := postgres.NewStatsRepository(pool, txManager)

	// Notifiers (Secondary Adapters)
	smsNotifier := sms.NewMockSMSNotifier(logger)
	emailNotifier := email.NewMockSMTPNotifier(logger)

	// Services (Core)
	automationService := services.NewAutomationService(
		automationRepo,
		services.NewEqualityMatcher(),
		registry,
		cfg.Automation.RuleFetchTimeout,
		logger,
	)
	automationService.RegisterHandler(domain.ActionSendSMS, services.NewSendSMSHandler(smsNotifier, logger))
	automationService.RegisterHandler(domain.ActionSendEmail, services.NewSendEmailHandler(emailNotifier, logger))
	automationService.RegisterHandler(domain.ActionNotifyStaff, services.NewNotifyStaffHandler(logger))

	businessService := services.NewBusinessService(businessRepo, statsRepo)
	contactService := services.NewContactService(contactRepo, automationService)
	jobService := services.NewJobService(jobRepo, automationService, registry)
	messageService := services.NewMessageService(conversationRepo, automationService, registry)
	reviewService := services.NewReviewService(reviewRepo, registry)
	demoService := services.NewDemoTokenService(demoTokenRepo, businessRepo, tokenManager, cfg.Demo.TokenTTL)

	// Handlers (Primary Adapters)
	contactHandler := httpAdapter.NewContactHandler(contactService, errorHandler, logger)
	jobHandler := httpAdapter.NewJobHandler(jobService, errorHandler, logger)
	reviewHandler := httpAdapter.NewReviewHandler(reviewService, errorHandler, logger)
	automationHandler := httpAdapter.NewAutomationHandler(automationService, errorHandler, logger)
	conversationHandler := httpAdapter.NewConversationHandler(messageService, errorHandler, logger)
	businessHandler := httpAdapter.NewBusinessHandler(
		businessService,
		contactHandler,
		jobHandler,
		reviewHandler,
		automationHandler,
		conversationHandler,
		mw.JWTMiddleware(tokenManager),
		errorHandler,
		logger,
	)
	demoHandler := httpAdapter.NewDemoHandler(demoService, errorHandler, logger)
	wsHandler := httpAdapter.NewWebSocketHandler(registry, businessService, cfg, logger)
	healthHandler := httpAdapter.NewHealthHandler(pool, cfg.App.Version)

	// 8. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Apply general rate limiting if enabled
	if generalRateLimiter != nil {
		r.Use(generalRateLimiter.Middleware)
	}

	// Health check endpoints (outside /api/v1 for standard probe paths)
	r.Get("/health", healthHandler.HandleHealth)
	r.Get("/health/live", healthHandler.HandleLiveness)
	r.Get("/health/ready", healthHandler.HandleReadiness)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public demo link routes with stricter rate limiting
		r.Group(func(r chi.Router) {
			if demoRateLimiter != nil {
				r.Use(demoRateLimiter.Middleware)
			}
			r.Route("/demo", demoHandler.RegisterRoutes)
		})

		// WebSocket route (identity comes from query parameters)
		r.Get("/ws", wsHandler.ServeHTTP)

		// REST routes
		r.Route("/businesses", businessHandler.RegisterRoutes)
	})

	// 9. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server shutdown complete")
}
