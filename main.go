package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"github.com/shopidream/aorit-sub000/config"
	"github.com/shopidream/aorit-sub000/handler"
	"github.com/shopidream/aorit-sub000/middleware"
	"github.com/shopidream/aorit-sub000/pkg/logger"
	"github.com/shopidream/aorit-sub000/service"
	"github.com/shopidream/aorit-sub000/storage"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	// Open database and seed baseline data
	db, err := storage.Open(cfg.Database.DSN)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	candidateStore := storage.NewCandidateStore(db)
	templateStore := storage.NewTemplateStore(db)
	structureStore := storage.NewStructureStore(db)
	contractStore := storage.NewContractStore(db)
	categoryStore := storage.NewCategoryStore(db)
	auditStore := storage.NewAuditStore(db)

	if err := structureStore.Seed(context.Background()); err != nil {
		slog.Error("failed to seed structures", "error", err)
		os.Exit(1)
	}

	registry := service.NewCategoryRegistry(categoryStore, auditStore)
	if err := registry.Seed(context.Background(), cfg.SeedCategories); err != nil {
		slog.Error("failed to seed categories", "error", err)
		os.Exit(1)
	}

	// Initialize services
	var archiveSvc *service.ArchiveService
	if cfg.Archive.Enabled {
		archiveSvc, err = service.NewArchiveService(&cfg.Archive)
		if err != nil {
			slog.Error("failed to initialize archive service", "error", err)
			os.Exit(1)
		}
		if err := archiveSvc.EnsureBucket(context.Background()); err != nil {
			slog.Error("failed to ensure archive bucket", "error", err)
			os.Exit(1)
		}
	}

	extractorSvc := service.NewExtractorService(&cfg.Extractor)
	promotionSvc := service.NewPromotionService(candidateStore, templateStore, auditStore, registry, cfg.Promotion.Threshold)
	matcher := service.NewMatcher(service.MatcherWeights{
		Category:   cfg.Matcher.CategoryWeight,
		Industry:   cfg.Matcher.IndustryWeight,
		Complexity: cfg.Matcher.ComplexityWeight,
	})
	composer := service.NewComposer(structureStore, contractStore, templateStore, auditStore, archiveSvc)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(cfg)
	candidateHandler := handler.NewCandidateHandler(promotionSvc, extractorSvc, candidateStore)
	templateHandler := handler.NewTemplateHandler(templateStore, auditStore, matcher, extractorSvc)
	contractHandler := handler.NewContractHandler(composer, contractStore, structureStore, archiveSvc)
	categoryHandler := handler.NewCategoryHandler(registry)

	// Scheduled promotion sweep; same idempotent call as the HTTP trigger
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Promotion.CronSchedule, func() {
		promoted, err := promotionSvc.AutoPromote(context.Background(), "scheduler")
		if err != nil {
			slog.Error("scheduled promotion sweep failed", "error", err)
			return
		}
		slog.Info("scheduled promotion sweep finished", "promoted", promoted)
	}); err != nil {
		slog.Error("failed to schedule promotion sweep", "error", err)
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	// Add custom middleware
	router.Use(middleware.RequestID())                 // Request ID for tracing
	router.Use(middleware.Recovery())                  // Panic recovery
	router.Use(middleware.RequestLogger())             // Access logging
	router.Use(corsMiddleware())                       // CORS
	router.Use(middleware.RateLimit(100, time.Minute)) // Rate limiting: 100 requests per minute

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)

		protected.POST("/candidates", candidateHandler.Ingest)
		protected.POST("/candidates/extract", candidateHandler.Extract)
		protected.GET("/candidates", candidateHandler.Query)
		protected.GET("/candidates/stats", candidateHandler.Stats)
		protected.POST("/candidates/:id/analyze", candidateHandler.Analyze)
		protected.POST("/candidates/auto-promote", candidateHandler.AutoPromote)
		protected.POST("/candidates/bulk-approve", candidateHandler.BulkApprove)
		protected.POST("/candidates/reject", candidateHandler.Reject)

		protected.GET("/templates", templateHandler.List)
		protected.POST("/templates", templateHandler.Create)
		protected.PUT("/templates/:id", templateHandler.Update)
		protected.POST("/templates/match", templateHandler.Match)
		protected.POST("/templates/:id/enhance", templateHandler.Enhance)

		protected.GET("/categories", categoryHandler.List)
		protected.POST("/categories", categoryHandler.Add)

		protected.GET("/structures/:jurisdiction", contractHandler.GetStructure)

		protected.POST("/contracts/compose", contractHandler.Compose)
		protected.GET("/contracts", contractHandler.List)
		protected.GET("/contracts/:id", contractHandler.Get)
		protected.GET("/contracts/:id/document", contractHandler.Document)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
