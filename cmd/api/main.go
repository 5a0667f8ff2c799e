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

	"job-tracker-backend/config"
	_ "job-tracker-backend/docs" // Important for Swagger
	v1 "job-tracker-backend/internal/delivery/http/v1"
	"job-tracker-backend/internal/repository"
	"job-tracker-backend/internal/usecase"
	"job-tracker-backend/pkg/logger"
	"job-tracker-backend/pkg/redis"
	"job-tracker-backend/pkg/security"
	"job-tracker-backend/pkg/validation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
)

// @title           Job Tracker API
// @version         1.0.0
// @description     CRUD API over job applications, guarded by a shared API key.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// 2. Setup Loggers
	logger.Init(cfg.LogLevel)
	secLogger := security.InitSecurityLogger("job-tracker-api", cfg.Environment)
	defer secLogger.Sync()
	logger.Log.Info("Starting job tracker API", "port", cfg.Port, "store", cfg.StoreDriver)

	// 3. Setup Store
	gateway, closeStore, err := repository.Open(context.Background(), cfg)
	if err != nil {
		logger.Log.Error("Failed to open store", "store", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// 4. Optional Redis for rate limiting
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.Connect(context.Background(), redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
		} else {
			defer redisClient.Close()
		}
	}

	// 5. Setup UseCases
	applicationUC := usecase.NewApplicationUsecase(gateway, validation.New())
	healthUC := usecase.NewHealthUsecase(cfg.StoreDriver, gateway)

	// 6. Setup Router
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := v1.NewRouter(v1.RouterDeps{
		ApplicationUC: applicationUC,
		HealthUC:      healthUC,
		Config:        cfg,
		Redis:         redisClient,
		Registry:      registry,
	})

	// 7. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}
