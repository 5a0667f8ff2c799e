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
	"job-tracker-backend/internal/delivery/web"
	"job-tracker-backend/pkg/client"
	"job-tracker-backend/pkg/logger"
	"job-tracker-backend/pkg/redis"
	"job-tracker-backend/pkg/security"
	"job-tracker-backend/pkg/supabase"

	goredis "github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.SessionSecret == "" {
		log.Fatal("SESSION_SECRET is required to run the web UI")
	}
	if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
		log.Fatal("SUPABASE_URL and SUPABASE_KEY are required for sign-in")
	}

	logger.Init(cfg.LogLevel)
	secLogger := security.InitSecurityLogger("job-tracker-web", cfg.Environment)
	defer secLogger.Sync()
	logger.Log.Info("Starting job tracker UI", "port", cfg.WebPort, "api", cfg.APIBaseURL)

	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.Connect(context.Background(), redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword})
		if err != nil {
			logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
		} else {
			defer redisClient.Close()
		}
	}

	router := web.NewRouter(web.RouterDeps{
		API:          client.New(cfg.APIBaseURL, cfg.APIKey, nil),
		Auth:         supabase.NewAuth(supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey, nil)),
		Sessions:     web.NewSessionManager(cfg.SessionSecret, cfg.CookieSecure),
		IsProduction: cfg.IsProduction(),
		CookieSecure: cfg.CookieSecure,
		Redis:        redisClient,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.WebPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down UI...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("UI forced to shutdown", "error", err)
	}
}
