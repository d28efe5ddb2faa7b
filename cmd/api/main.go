package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"board-champions-backend/config"
	_ "board-champions-backend/docs" // Important for Swagger
	v1 "board-champions-backend/internal/delivery/http/v1"
	"board-champions-backend/internal/repository/postgres"
	"board-champions-backend/internal/usecase"
	"board-champions-backend/pkg/audit"
	"board-champions-backend/pkg/auth"
	"board-champions-backend/pkg/database"
	"board-champions-backend/pkg/logger"
	"board-champions-backend/pkg/metrics"
	"board-champions-backend/pkg/redis"
	"board-champions-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// redisPinger adapts the go-redis client to usecase.Pinger.
type redisPinger struct{ client *goredis.Client }

func (p redisPinger) Ping(ctx context.Context) error { return p.client.Ping(ctx).Err() }

// @title           Board Champions API
// @version         1.0
// @description     Executive candidate profiles with completion scoring and viewer-aware redaction.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting board champions backend", "port", cfg.Port)

	auditLog := audit.New("board-champions-api", cfg.GinMode)
	defer auditLog.Sync()
	metricsManager := metrics.NewManager()

	ctx := context.Background()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl, database.PoolConfig{
		MaxConns: cfg.DBMaxConns,
		MinConns: cfg.DBMinConns,
	})
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional)
	health := map[string]usecase.Pinger{"database": dbPool}
	redisClient, err := redis.New(ctx, redis.Config{URL: cfg.UpstashRedisURL, Password: cfg.UpstashRedisPassword})
	switch {
	case errors.Is(err, redis.ErrNotConfigured):
		redisClient = nil
	case err != nil:
		logger.Log.Warn("Redis unavailable, rate limiting falls back to memory", "error", err)
		redisClient = nil
	default:
		defer redisClient.Close()
		health["redis"] = redisPinger{client: redisClient}
	}

	// 5. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	candidateRepo := postgres.NewCandidateRepository(dbPool)
	tagRepo := postgres.NewTagRepository(dbPool)
	companyRepo := postgres.NewCompanyRepository(dbPool)
	purchaseRepo := postgres.NewPurchaseRepository(dbPool)
	adminRepo := postgres.NewAdminRepository(dbPool)

	// 6. Setup UseCases
	validate := validation.New()
	authUC := usecase.NewAuthUsecase(userRepo)
	candidateUC := usecase.NewCandidateUsecase(candidateRepo, tagRepo, companyRepo, purchaseRepo, validate, metricsManager)
	tagUC := usecase.NewTagUsecase(tagRepo)
	companyUC := usecase.NewCompanyUsecase(companyRepo, purchaseRepo, candidateRepo, cfg.UnlockCreditCost, auditLog, metricsManager)
	adminUC := usecase.NewAdminUsecase(adminRepo, auditLog)
	healthUC := usecase.NewHealthUsecase(health)

	// 7. Setup Auth (Clerk JWKS)
	if cfg.ClerkJWKSURL == "" {
		logger.Log.Warn("CLERK_JWKS_URL not configured - every token will be rejected")
	}
	verifier := auth.NewVerifier(auth.NewProvider(cfg.ClerkJWKSURL, nil), cfg.ClerkIssuer)

	// 8. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:      authUC,
		CandidateUC: candidateUC,
		TagUC:       tagUC,
		CompanyUC:   companyUC,
		AdminUC:     adminUC,
		HealthUC:    healthUC,
		Verifier:    verifier,
		Redis:       redisClient,
		Metrics:     metricsManager,
		Config:      cfg,
	})

	// 9. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
