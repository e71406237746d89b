package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/xeroq/api/internal/config"
	"github.com/xeroq/api/internal/handler"
	"github.com/xeroq/api/internal/metrics"
	"github.com/xeroq/api/internal/middleware"
	"github.com/xeroq/api/internal/namecache"
	"github.com/xeroq/api/internal/queue"
	"github.com/xeroq/api/internal/service"
	"github.com/xeroq/api/internal/store"
	"github.com/xeroq/api/internal/worker"
	ws "github.com/xeroq/api/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Pick the job store: Redis when reachable, in-memory otherwise.
	ctx := context.Background()
	var jobStore store.Store
	var redisStore *store.RedisStore
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis not available, using in-memory store: %v", err)
		jobStore = store.NewMemoryStore()
	} else {
		redisStore = store.NewRedisStore(redisClient)
		jobStore = redisStore
	}

	// Initialize Asynq client
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer asynqClient.Close()

	// Initialize validator
	validate := validator.New()

	// Initialize WebSocket hub
	hub := ws.NewHub()
	go hub.Run()

	// Every store change fans out to queue watchers and refreshes gauges.
	unsubscribe := jobStore.Subscribe(func() {
		hub.BroadcastQueueChanged()
		if jobs, err := jobStore.List(context.Background()); err == nil {
			metrics.ObserveJobs(jobs)
		}
	})
	defer unsubscribe()

	// Initialize services
	names, err := namecache.New(cfg.Queue.NameCacheSize)
	if err != nil {
		log.Fatalf("Failed to create name cache: %v", err)
	}
	speeds := queue.Speeds{A: cfg.Queue.SpeedA, B: cfg.Queue.SpeedB}
	pricing := queue.Pricing{
		MonochromePerPage: cfg.Pricing.MonochromePerPage,
		ColorPerPage:      cfg.Pricing.ColorPerPage,
		UrgentSurcharge:   cfg.Pricing.UrgentSurcharge,
	}
	queueService := service.NewQueueService(jobStore, speeds, pricing, names)

	// Initialize handlers
	jobHandler := handler.NewJobHandler(queueService, validate)
	queueHandler := handler.NewQueueHandler(queueService)
	verifyHandler := handler.NewVerifyHandler(queueService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	isDebug := strings.EqualFold(cfg.Server.LogLevel, "debug")
	logFormat := "[${time}] ${status} - ${latency} ${method} ${path}\n"
	if isDebug {
		logFormat = "[${time}] ${status} - ${latency} ${method} ${path} ${queryParams} ${body} ${reqHeaders}\n"
		log.Println("Debug logging enabled")
	}
	app.Use(logger.New(logger.Config{
		Format: logFormat,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Base URL - timestamp
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"timestamp": time.Now().Unix(),
		})
	})

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"services": fiber.Map{
				"redis": redisStore != nil,
				"auth":  cfg.JWT.Secret != "",
			},
		})
	})

	// Prometheus metrics
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// API routes
	api := app.Group("/api", authMiddleware.Authenticate())
	operator := authMiddleware.RequireRole("operator")

	// Job routes
	jobs := api.Group("/jobs")
	jobs.Post("/", rateLimiter.SubmitLimit(cfg.RateLimit.SubmitPerHour), jobHandler.Submit)
	jobs.Get("/mine", jobHandler.Mine)
	jobs.Get("/:jobId", jobHandler.Get)
	jobs.Get("/:jobId/quote", jobHandler.Quote)
	jobs.Post("/:jobId/pay", jobHandler.Pay)
	jobs.Post("/:jobId/acknowledge", jobHandler.Acknowledge)
	jobs.Post("/:jobId/advance", operator, jobHandler.Advance)
	jobs.Post("/:jobId/comments", operator, jobHandler.Comment)
	jobs.Post("/:jobId/collect", operator, jobHandler.Collect)

	// Queue views
	queueGroup := api.Group("/queue")
	queueGroup.Get("/active", queueHandler.Active)
	queueGroup.Get("/ready", queueHandler.Ready)
	queueGroup.Get("/slots", queueHandler.Slots)

	// Pickup code verification
	api.Get("/verify/:code", operator, rateLimiter.VerifyLimit(cfg.RateLimit.VerifyPerMin), verifyHandler.Verify)

	// WebSocket routes
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/queue", websocket.New(func(c *websocket.Conn) {
		hub.HandleConnection(c)
	}))

	// Start Asynq worker server and archive scheduler
	go startWorkerServer(cfg, jobStore)
	go startScheduler(cfg)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if redisStore != nil {
			redisStore.Close()
		}
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func startWorkerServer(cfg *config.Config, jobStore store.Store) {
	asynqLogLevel := asynq.InfoLevel
	if strings.EqualFold(cfg.Server.LogLevel, "debug") {
		asynqLogLevel = asynq.DebugLevel
	} else if strings.EqualFold(cfg.Server.LogLevel, "warn") {
		asynqLogLevel = asynq.WarnLevel
	} else if strings.EqualFold(cfg.Server.LogLevel, "error") {
		asynqLogLevel = asynq.ErrorLevel
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: 2,
			LogLevel:    asynqLogLevel,
		},
	)

	archiveWorker := worker.NewArchiveWorker(jobStore, time.Duration(cfg.Archive.RetentionHours)*time.Hour)

	mux := asynq.NewServeMux()
	mux.HandleFunc(worker.TaskTypeArchive, archiveWorker.ProcessTask)

	if err := srv.Run(mux); err != nil {
		log.Printf("Asynq worker error: %v", err)
	}
}

func startScheduler(cfg *config.Config) {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		nil,
	)

	spec := fmt.Sprintf("@every %dm", cfg.Archive.IntervalMins)
	if _, err := scheduler.Register(spec, worker.NewArchiveTask()); err != nil {
		log.Printf("Failed to register archive task: %v", err)
		return
	}

	if err := scheduler.Run(); err != nil {
		log.Printf("Asynq scheduler error: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "SERVICE_ERROR",
			"message": message,
		},
	})
}
