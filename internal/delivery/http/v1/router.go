package v1

import (
	"job-tracker-backend/config"
	"job-tracker-backend/internal/delivery/http/middleware"
	"job-tracker-backend/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ApplicationUC domain.ApplicationUsecase
	HealthUC      domain.HealthUsecase
	Config        *config.Config
	// Redis backs the rate limiter when set
	Redis *goredis.Client
	// Registry receives the HTTP metrics; a fresh one is used when nil
	Registry *prometheus.Registry
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.FrontendURL, cfg.IsProduction())) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware(cfg.IsProduction()))
	r.Use(middleware.NewMetrics(reg).Handler())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.NewRateLimiter(cfg.RateLimitPerMinute, deps.Redis).Handler())

	// Public routes
	NewSystemHandler(r, deps.HealthUC)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	protected := r.Group("")
	protected.Use(middleware.APIKeyAuth(cfg.APIKey))
	{
		NewApplicationHandler(protected, deps.ApplicationUC)
	}

	return r
}
