package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/JS-Ranker/tester/internal/features/owner"
	"github.com/JS-Ranker/tester/internal/features/pet"
	"github.com/JS-Ranker/tester/pkg/config"
	"github.com/JS-Ranker/tester/pkg/database"
	"github.com/JS-Ranker/tester/pkg/logger"
)

const confirmPhrase = "DROP ALL TABLES"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.IsProduction() {
		log.Fatal("Refusing to drop tables in production")
	}

	appLogger, err := logger.New(cfg.LogLevel, "")
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := database.Connect(ctx, cfg.Database, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		_ = database.Close(db, appLogger)
	}()

	fmt.Println("\nWARNING: This will DROP the pets and owners tables!")
	fmt.Println("   This action CANNOT be undone.")
	fmt.Printf("\nType '%s' to confirm: ", confirmPhrase)

	reader := bufio.NewReader(os.Stdin)
	confirmation, _ := reader.ReadString('\n')
	if strings.TrimSpace(confirmation) != confirmPhrase {
		fmt.Println("\nOperation cancelled. Database unchanged.")
		return
	}

	// Pets reference owners, so they go first.
	models := []interface{}{&pet.Pet{}, &owner.Owner{}}
	for _, model := range models {
		if err := db.WithContext(ctx).Migrator().DropTable(model); err != nil {
			appLogger.Error("Failed to drop table", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	appLogger.Info("Dropped tables", slog.Int("count", len(models)))
	fmt.Println("   You can now run the migrate script to recreate them.")
}
