package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/JS-Ranker/tester/internal/features/owner"
	"github.com/JS-Ranker/tester/internal/features/pet"
	"github.com/JS-Ranker/tester/pkg/config"
	"github.com/JS-Ranker/tester/pkg/database"
	"github.com/JS-Ranker/tester/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel, "")
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	if !cfg.UsesPostgres() {
		appLogger.Error("migrations need the postgres storage driver", slog.String("driver", cfg.StorageDriver))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.ConnectWithRetry(ctx, cfg.Database, appLogger, 3, time.Second)
	if err != nil {
		appLogger.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(db, appLogger); err != nil {
			appLogger.Error("Failed to close database", slog.String("error", err.Error()))
		}
	}()

	if err := database.Migrate(ctx, db, appLogger, &owner.Owner{}, &pet.Pet{}); err != nil {
		appLogger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	appLogger.Info("Database migrations completed successfully")
}
