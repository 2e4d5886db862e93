package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/summitretail/preseason-backend/config"
	"github.com/summitretail/preseason-backend/internal/app/controller"
	"github.com/summitretail/preseason-backend/internal/app/repository"
	"github.com/summitretail/preseason-backend/internal/app/service"
	"github.com/summitretail/preseason-backend/internal/db"
	"github.com/summitretail/preseason-backend/internal/middleware"
	"github.com/summitretail/preseason-backend/internal/router"
	"github.com/summitretail/preseason-backend/internal/scheduler"
	"github.com/summitretail/preseason-backend/internal/storage"
	"github.com/summitretail/preseason-backend/internal/websocket"
	"github.com/summitretail/preseason-backend/pkg/logger"
	"github.com/summitretail/preseason-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Preseason Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations and seed lookup data
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis backs the cross-node import lock; optional in development
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, import locks are process-local only", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
		}
	}

	// WebSocket hub for import progress
	hub := websocket.NewHub()
	go hub.Run()

	// File archive storage
	var s3Storage *storage.S3Storage
	if cfg.S3.Bucket != "" {
		s3Storage = storage.NewS3Storage(
			cfg.S3.Region,
			cfg.S3.Bucket,
			cfg.S3.AccessKeyID,
			cfg.S3.SecretAccessKey,
			cfg.S3.BaseURL,
		)
	}

	// Initialize repositories
	brandRepo := repository.NewBrandRepository(db.GetDB())
	seasonRepo := repository.NewSeasonRepository(db.GetDB())
	locationRepo := repository.NewLocationRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	priceRepo := repository.NewPriceRepository(db.GetDB())
	caseRepo := repository.NewCaseMappingRepository(db.GetDB())
	uploadRepo := repository.NewCatalogUploadRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())

	// Initialize services
	catalogImportService := service.NewCatalogImportService(
		db.GetDB(),
		brandRepo,
		seasonRepo,
		uploadRepo,
		cfg.Import,
		hub,
	)
	productService := service.NewProductService(productRepo, priceRepo, caseRepo)
	orderService := service.NewOrderService(orderRepo, productRepo, brandRepo, locationRepo)
	variantService := service.NewVariantService(productRepo, orderRepo, brandRepo, locationRepo)
	orderImportService := service.NewOrderImportService(db.GetDB(), seasonRepo)
	referenceService := service.NewReferenceService(brandRepo, seasonRepo, locationRepo)

	// Initialize controllers
	catalogController := controller.NewCatalogController(catalogImportService, s3Storage, cfg.Import.MaxFileBytes)
	productController := controller.NewProductController(productService, variantService)
	orderController := controller.NewOrderController(orderService, variantService, orderImportService)
	referenceController := controller.NewReferenceController(referenceService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Nightly order totals reconciliation
	totalsScheduler := scheduler.NewOrderTotalsScheduler(orderService)
	if err := totalsScheduler.Start(); err != nil {
		logger.Warn("Order totals scheduler disabled", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer totalsScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		catalogController,
		productController,
		orderController,
		referenceController,
		authMiddleware,
		hub,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
