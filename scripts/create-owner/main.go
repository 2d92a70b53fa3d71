package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/JS-Ranker/tester/internal/features/owner"
	"github.com/JS-Ranker/tester/pkg/config"
	"github.com/JS-Ranker/tester/pkg/database"
	"github.com/JS-Ranker/tester/pkg/logger"
)

// Registers an owner from the clinic front desk, for people who cannot use
// the web form.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.New(cfg.LogLevel, "")
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := database.Connect(ctx, cfg.Database, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		_ = database.Close(db, appLogger)
	}()

	reader := bufio.NewReader(os.Stdin)
	prompt := func(label string) string {
		fmt.Print(label)
		value, _ := reader.ReadString('\n')
		return strings.TrimSpace(value)
	}

	input := owner.CreateInput{
		RUT:      prompt("RUT (e.g. 12.345.678-5): "),
		FullName: prompt("Full Name: "),
	}
	if email := prompt("Email (optional): "); email != "" {
		input.Email = &email
	}
	if phone := prompt("Phone (optional): "); phone != "" {
		input.Phone = &phone
	}
	input.Password = prompt(fmt.Sprintf("Password (min %d chars): ", cfg.Security.MinPasswordLength))

	created, err := owner.Create(ctx, owner.NewGormStore(db), input, cfg.Security.MinPasswordLength)
	switch {
	case errors.Is(err, owner.ErrRUTTaken):
		fmt.Println("Error: an owner with this RUT is already registered")
		os.Exit(1)
	case err != nil:
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nOwner created successfully!")
	fmt.Printf("   ID:  %s\n", created.ID)
	fmt.Printf("   RUT: %s\n", created.RUT)
}
