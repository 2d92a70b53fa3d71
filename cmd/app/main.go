package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/JS-Ranker/tester/internal/features/auth"
	"github.com/JS-Ranker/tester/internal/features/owner"
	"github.com/JS-Ranker/tester/internal/features/pet"
	"github.com/JS-Ranker/tester/internal/http/routes"
	"github.com/JS-Ranker/tester/internal/utils/jwt"
	"github.com/JS-Ranker/tester/pkg/cache"
	"github.com/JS-Ranker/tester/pkg/config"
	"github.com/JS-Ranker/tester/pkg/database"
	"github.com/JS-Ranker/tester/pkg/email"
	"github.com/JS-Ranker/tester/pkg/health"
	"github.com/JS-Ranker/tester/pkg/logger"
	"github.com/JS-Ranker/tester/pkg/metrics"
	"github.com/JS-Ranker/tester/pkg/middleware"
	"github.com/JS-Ranker/tester/pkg/request"
	"github.com/JS-Ranker/tester/pkg/validation"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel, cfg.LogDir)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := validation.RegisterBindings(); err != nil {
		appLogger.Error("register validators failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	healthHandler := health.NewHandler(appLogger)

	var (
		ownerStore    owner.Store
		petStore      pet.Store
		onOwnerDelete func(context.Context, uuid.UUID) error
	)

	if cfg.UsesPostgres() {
		db, err := database.ConnectWithRetry(ctx, cfg.Database, appLogger, 5, time.Second)
		if err != nil {
			appLogger.Error("database connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		defer func() {
			if err := database.Close(db, appLogger); err != nil {
				appLogger.Error("database close failed", slog.String("error", err.Error()))
			}
		}()

		if cfg.Database.RunMigrations {
			if err := database.Migrate(ctx, db, appLogger, &owner.Owner{}, &pet.Pet{}); err != nil {
				appLogger.Error("migrations failed", slog.String("error", err.Error()))
				os.Exit(1)
			}
		}

		ownerStore = owner.NewGormStore(db)
		petStore = pet.NewGormStore(db)
		healthHandler.Register("database", health.DatabaseCheck(db))
	} else {
		appLogger.Warn("using in-memory storage; data is lost on restart")
		pets := pet.NewMemoryStore()
		ownerStore = owner.NewMemoryStore()
		petStore = pets
		onOwnerDelete = pets.DeleteByOwner
	}

	var cacheClient cache.Client
	if cfg.Redis.Addr != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Error("redis connection failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
		cacheClient = redisClient
		healthHandler.Register("redis", redisClient.Ping)
	} else {
		cacheClient = cache.NewMemoryCache()
	}
	defer cacheClient.Close()

	owners := owner.NewCached(ownerStore, cacheClient, appLogger)

	// Welcome emails are skipped when SMTP is not configured
	var mailer email.Sender
	if emailClient := email.NewClient(cfg.Email); emailClient != nil {
		mailer = emailClient
	}

	issuer := jwt.NewIssuer(
		cfg.JWTSecret,
		cfg.JWTRefreshSecret,
		cfg.Security.AccessTokenExpiry,
		cfg.Security.RefreshTokenExpiry,
	)

	authService := auth.NewService(owners, cacheClient, issuer, mailer, cfg.Security, appLogger)

	router := gin.New()
	router.Use(middleware.RequestID())                   // Add request IDs for tracing
	router.Use(middleware.Recovery(appLogger))           // Turn panics into 500s
	router.Use(metrics.Middleware())                     // Collect Prometheus metrics
	router.Use(middleware.RequestLogger(appLogger))      // Log all requests
	router.Use(middleware.SecurityHeaders())             // Add security headers
	router.Use(middleware.CORS(cfg.AllowedOrigins))      // Browser clients
	router.Use(middleware.NoStore())                     // API responses are never cached
	router.Use(middleware.Compression())                 // Compress responses (gzip)
	router.Use(middleware.RequestSizeLimit(1024 * 1024)) // 1MB limit
	router.Use(request.Handler(appLogger))               // Errors attached with c.Error

	rateLimiter := middleware.NewRateLimiter(cfg.Security.RateLimitPerMinute, time.Minute)
	defer rateLimiter.Close()
	router.Use(rateLimiter.Middleware())

	routes.Register(router, routes.Dependencies{
		Config:        cfg,
		Logger:        appLogger,
		Health:        healthHandler,
		Issuer:        issuer,
		Owners:        owners,
		Pets:          petStore,
		Auth:          authService,
		OnOwnerDelete: onOwnerDelete,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddress(),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	go func() {
		appLogger.Info("server starting",
			slog.String("addr", cfg.ServerAddress()),
			slog.String("env", cfg.Env),
			slog.String("storage", cfg.StorageDriver),
			slog.String("log_level", cfg.LogLevel),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("server listen failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("server shutdown failed", slog.String("error", err.Error()))
	} else {
		appLogger.Info("server stopped gracefully")
	}

	authService.Wait()
}
