package routes

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JS-Ranker/tester/internal/features/auth"
	"github.com/JS-Ranker/tester/internal/features/owner"
	"github.com/JS-Ranker/tester/internal/features/pet"
	"github.com/JS-Ranker/tester/internal/features/rutcheck"
	"github.com/JS-Ranker/tester/internal/middleware"
	"github.com/JS-Ranker/tester/internal/utils/jwt"
	"github.com/JS-Ranker/tester/pkg/config"
	"github.com/JS-Ranker/tester/pkg/health"
)

// Dependencies are the services the route handlers are built from.
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger
	Health *health.Handler
	Issuer *jwt.Issuer
	Owners owner.Store
	Pets   pet.Store
	Auth   *auth.Service

	// OnOwnerDelete runs after an owner removes their account. Set it when
	// the pet store has no cascading foreign key.
	OnOwnerDelete func(ctx context.Context, ownerID uuid.UUID) error
}

// Register wires all feature routes onto the engine.
func Register(engine *gin.Engine, deps Dependencies) {
	// Health check endpoints (no /api prefix for Kubernetes probes)
	engine.GET("/health", deps.Health.Health)
	engine.GET("/ready", deps.Health.Ready)
	engine.GET("/version", deps.Health.Version)

	// Metrics endpoint for Prometheus
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")

	authenticated := middleware.Authenticate(deps.Issuer, owner.PrincipalLoader(deps.Owners), deps.Logger)

	minPassword := deps.Config.Security.MinPasswordLength
	ownerHandler := owner.NewHandler(deps.Owners, deps.Logger, minPassword)
	if deps.OnOwnerDelete != nil {
		ownerHandler.OnDelete(deps.OnOwnerDelete)
	}

	auth.RegisterRoutes(api, auth.NewHandler(deps.Auth, deps.Logger), authenticated)
	owner.RegisterRoutes(api, ownerHandler, authenticated)
	pet.RegisterRoutes(api, pet.NewHandler(deps.Pets, deps.Logger), authenticated)
	rutcheck.RegisterRoutes(api, rutcheck.NewHandler(deps.Logger))
}
