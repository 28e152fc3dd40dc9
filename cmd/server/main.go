package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"chirp/internal/adapters/identity"
	"chirp/internal/adapters/postgres"
	"chirp/internal/adapters/ratelimit"
	"chirp/internal/adapters/web"
	"chirp/internal/config"
	"chirp/internal/usecases"
	"chirp/pkg/log"
	"chirp/pkg/log/transporters"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath())
	if err != nil {
		log.SetDefault(log.New(log.Info, transporters.NewStdout()))
		log.GlobalFatal("failed to load config", "error", err.Error())
		os.Exit(1)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.Info
	}
	logger := log.New(level, transporters.NewStdout())
	log.SetDefault(logger)
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Post store
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.GlobalFatal("failed to connect to database", "error", err.Error())
		os.Exit(1)
	}
	defer pool.Close()
	store := postgres.NewStore(pool)

	// Rate limiter, shared across all server instances via Redis
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.GlobalFatal("invalid REDIS_URL", "error", err.Error())
		os.Exit(1)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()
	limiter := ratelimit.NewRedis(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window,
		ratelimit.WithAnalytics(cfg.RateLimit.Analytics))

	// Identity provider
	resolver := identity.NewClient(cfg.IdentityURL, cfg.IdentityKey)

	// Use cases
	createPost := usecases.NewCreatePostUseCase(store, limiter)
	listFeed := usecases.NewListFeedUseCase(store, resolver)

	// Web boundary
	handlers := web.NewHandlers(createPost, listFeed, cfg.RateLimit.Window, cfg.Feed.MaxLimit)

	app := fiber.New(fiber.Config{
		AppName: "chirp",
	})
	app.Use(recover.New())
	app.Use(requestid.New(web.RequestIDConfig()))
	app.Use(web.RequestIDToContextMiddleware())
	app.Use(web.RequestLoggerMiddleware())
	app.Use(web.CallerIdentity(cfg.CallerHeader))
	web.SetupRoutes(app, handlers)

	go func() {
		<-ctx.Done()
		log.GlobalInfo("shutting down")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.GlobalInfo("starting chirp", "port", cfg.Port,
		"rate_limit", cfg.RateLimit.Limit, "rate_window", cfg.RateLimit.Window.String())
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.GlobalFatal("server stopped", "error", err.Error())
		os.Exit(1)
	}
}

// configPath returns the YAML tuning file location, overridable for
// container deployments.
func configPath() string {
	if p := os.Getenv("CONFIG_FILE"); p != "" {
		return p
	}
	return "config/app.yaml"
}
