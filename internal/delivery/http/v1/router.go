package v1

import (
	"net/http"
	"time"

	"board-champions-backend/config"
	"board-champions-backend/internal/delivery/http/middleware"
	"board-champions-backend/internal/delivery/http/response"
	"board-champions-backend/internal/domain"
	"board-champions-backend/internal/usecase"
	"board-champions-backend/pkg/metrics"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC      domain.AuthUsecase
	CandidateUC domain.CandidateUsecase
	TagUC       domain.TagUsecase
	CompanyUC   domain.CompanyUsecase
	AdminUC     domain.AdminUsecase
	HealthUC    usecase.HealthUsecase
	Verifier    middleware.TokenVerifier
	Redis       *goredis.Client // nil runs the rate limiter in memory
	Metrics     *metrics.Manager
	Config      *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	cfg := deps.Config
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL, cfg.IsProduction())) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.NewRateLimiter(middleware.RateLimitConfig{
		Limit:     cfg.RateLimitGlobalThreshold,
		Window:    window,
		KeyPrefix: "rl:ip:",
	}, deps.Redis).Middleware())

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	v1 := r.Group("/v1")

	v1.GET("/health", func(c *gin.Context) {
		status := deps.HealthUC.Check(c.Request.Context())
		if status["status"] != "ok" {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Per-viewer limit on single profile reads, to slow down scraping.
	profileLimit := middleware.NewRateLimiter(middleware.RateLimitConfig{
		Limit:     cfg.RateLimitPublicProfileThreshold,
		Window:    window,
		KeyPrefix: "rl:profile:",
		KeyFunc:   middleware.ViewerKey,
	}, deps.Redis).Middleware()

	public := v1.Group("")
	public.Use(middleware.OptionalAuthMiddleware(deps.Verifier, deps.AuthUC))

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Verifier, deps.AuthUC))

	NewTagHandler(public, deps.TagUC)
	NewCandidateHandler(public, protected, deps.CandidateUC, profileLimit)
	NewAuthHandler(protected, deps.AuthUC)
	NewCompanyHandler(protected, deps.CompanyUC)
	NewAdminHandler(protected, deps.AdminUC)

	return r
}
