package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"learn-ease-backend/internal/ai"
	"learn-ease-backend/internal/config"
	"learn-ease-backend/internal/logger"
	"learn-ease-backend/internal/storage"
	"learn-ease-backend/internal/telemetry"
	"learn-ease-backend/middleware"
	"learn-ease-backend/routes"
	"learn-ease-backend/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()
	db := mongoClient.Database(cfg.DBName)

	if cfg.TracingEnabled {
		shutdown, err := telemetry.InitTracer("learn-ease-backend", cfg.OTLPEndpoint)
		if err != nil {
			logger.Error("Failed to initialize tracing, continuing without it", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Redis backs the rate limiter only; a nil client means unmetered.
	rdb := config.ConnectRedis(cfg)

	store, err := storage.NewFileStore(cfg.BookStorageDir, cfg.TextStorageDir)
	if err != nil {
		log.Fatal("Failed to initialize blob storage:", err)
	}

	bookRepo := services.NewMongoBookRepo(db)
	categoryRepo := services.NewMongoCategoryRepo(db)
	userRepo := services.NewMongoUserRepo(db)

	aiTimeout := time.Duration(cfg.AITimeoutSecs) * time.Second
	generator, err := ai.NewGeminiProvider(cfg.GeminiAPIKey, cfg.GeminiModel, aiTimeout)
	if err != nil {
		log.Fatal("Failed to initialize generation provider:", err)
	}
	defer generator.Close()
	summarizer := ai.NewSummarizer(cfg.SummarizerURL, cfg.SummarizerToken, aiTimeout)

	bookService := services.NewBookService(bookRepo, categoryRepo, store, services.NewPDFExtractor())
	categoryService := services.NewCategoryService(categoryRepo, bookRepo)
	userService := services.NewUserService(userRepo, cfg)
	aiService := services.NewAIService(generator, summarizer, cfg)

	sweeper := services.NewSweeper(store, bookRepo,
		time.Duration(cfg.SweepIntervalMins)*time.Minute,
		time.Duration(cfg.SweepMinAgeMins)*time.Minute)
	sweeper.Start()
	defer sweeper.Stop()

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	if cfg.TracingEnabled {
		router.Use(otelgin.Middleware("learn-ease-backend"))
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	authMiddleware := middleware.NewAuthMiddleware(cfg)
	rateLimit := middleware.RateLimitMiddleware(rdb, cfg)

	routes.SetupAuthRoutes(router, userService)
	routes.SetupBookRoutes(router, authMiddleware, bookService, cfg)
	routes.SetupCategoryRoutes(router, authMiddleware, categoryService)
	routes.SetupAIRoutes(router, authMiddleware, rateLimit, aiService)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
