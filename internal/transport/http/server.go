package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"socialstories/internal/cache"
	"socialstories/internal/config"
	"socialstories/internal/database"
	"socialstories/internal/handler"
	"socialstories/internal/queue"
	appredis "socialstories/internal/redis"
	"socialstories/internal/repository"
	"socialstories/internal/service"
	"socialstories/internal/worker"
)

const shutdownTimeout = 10 * time.Second

// Run wires the whole application and serves until SIGINT/SIGTERM.
func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	// 2. Connect to Database and migrate
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// 3. Optional Redis: thumbnail cache + audit stream. The app runs fine
	// without it, just slower gallery loads and no audit log.
	var (
		thumbs cache.ThumbnailCache
		audit  queue.Publisher
	)
	if cfg.RedisURL != "" {
		redisClient, err := appredis.NewClient(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to create redis client: %w", err)
		}
		if err := redisClient.Ping(ctx); err != nil {
			return fmt.Errorf("failed to ping redis: %w", err)
		}
		defer redisClient.Close()

		thumbs = cache.NewThumbnailCache(redisClient.Client)
		audit = queue.NewPublisher(redisClient.Client)

		auditWorker := worker.NewAuditWorker(queue.NewConsumer(redisClient.Client))
		go func() {
			if err := auditWorker.Run(ctx); err != nil {
				log.Printf("[Server] audit worker stopped: %v", err)
			}
		}()
	} else {
		log.Println("REDIS_URL not set; thumbnail cache and audit log disabled")
	}

	// 4. Optional media uploads (Cloudflare R2)
	var mediaService *service.MediaService
	if ms, err := service.NewMediaService(ctx, cfg); err != nil {
		log.Printf("Profile picture uploads disabled: %v", err)
	} else {
		mediaService = ms
	}

	// 5. Repositories and services
	userRepo := repository.NewUserRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)

	userService := service.NewUserService(userRepo, mediaService, audit)
	authService := service.NewAuthService(refreshTokenRepo, cfg, audit)
	storyService := service.NewStoryService(storyRepo, audit)

	searcher := service.NewSerpAPIService()
	templateService := service.NewTemplateService(searcher, thumbs)
	geminiService := service.NewGeminiService(cfg.GeminiAPIKey)

	var mailSender service.MailSender
	if ms := service.NewMailService(cfg); ms != nil {
		mailSender = ms
	} else {
		log.Println("Mail settings incomplete; contact form disabled")
	}

	// 6. Handlers and router
	router := NewRouter(RouterConfig{
		AuthHandler:        handler.NewAuthHandler(userService, authService, cfg),
		AccountHandler:     handler.NewAccountHandler(userService, cfg),
		StoryHandler:       handler.NewStoryHandler(storyService, cfg),
		TemplateHandler:    handler.NewTemplateHandler(templateService, userService, cfg),
		IntegrationHandler: handler.NewIntegrationHandler(searcher, geminiService, userService, cfg),
		ContactHandler:     handler.NewContactHandler(mailSender),
		HomeHandler:        handler.NewHomeHandler(storyService),
		JWTSecret:          cfg.JWTSecret,
	})

	server := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
