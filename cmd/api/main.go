package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/assetline/inventory-api/internal/auth"
	"github.com/assetline/inventory-api/internal/config"
	"github.com/assetline/inventory-api/internal/database"
	"github.com/assetline/inventory-api/internal/http/handler"
	"github.com/assetline/inventory-api/internal/http/middleware"
	"github.com/assetline/inventory-api/internal/http/router"
	"github.com/assetline/inventory-api/internal/jobs"
	"github.com/assetline/inventory-api/internal/logger"
	"github.com/assetline/inventory-api/internal/repository"
	"github.com/assetline/inventory-api/internal/service"
	"go.uber.org/zap"
)

// @title Inventory Audit API
// @version 1.0
// @description Inventory audit management API with monthly audits, asset purchases, and activity history

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&cfg.Logging, &cfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Environment),
		zap.Int("port", cfg.App.Port),
	)

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	// Development convenience; staging and production run goose migrations
	if cfg.App.Environment == "development" {
		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to auto-migrate: %w", err)
		}
		log.Info("Auto-migration complete")
	}

	// Repositories
	roomRepo := repository.NewRoomRepository(db)
	itemRepo := repository.NewItemRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	detailRepo := repository.NewItemDetailRepository(db)
	purchaseRepo := repository.NewAssetPurchaseRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	permRepo := repository.NewPermissionRepository(db)

	// Services
	historyService := service.NewHistoryService(historyRepo, log)
	roomService := service.NewRoomService(db, roomRepo, historyService, log)
	itemService := service.NewItemService(db, itemRepo, historyService, log)
	auditService := service.NewAuditService(db, auditRepo, detailRepo, roomRepo, itemRepo, userRepo, historyRepo, historyService, log)
	purchaseService := service.NewAssetPurchaseService(db, purchaseRepo, auditRepo, detailRepo, roomRepo, itemRepo, historyService, log)
	userService := service.NewUserService(db, userRepo, roleRepo, historyService, log)
	roleService := service.NewRoleService(roleRepo, permRepo, log)
	permService := service.NewPermissionService(permRepo, log)
	accessService := service.NewAccessControlService(permRepo, log)

	// Background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)
		if err := jobs.RegisterAuditCoverageJob(scheduler, auditRepo, log, cfg.Jobs.AuditCoverageSchedule, time.Minute); err != nil {
			return fmt.Errorf("failed to register audit coverage job: %w", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Middleware
	authMiddleware := auth.NewMiddleware(cfg, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	permissionMiddleware := middleware.NewPermissionMiddleware(accessService, log)

	// Handlers
	authHandler := handler.NewAuthHandler(userService, authMiddleware.Tokens(), log)
	roomHandler := handler.NewRoomHandler(roomService, log)
	itemHandler := handler.NewItemHandler(itemService, log)
	auditHandler := handler.NewAuditHandler(auditService, log)
	purchaseHandler := handler.NewAssetPurchaseHandler(purchaseService, log)
	historyHandler := handler.NewHistoryHandler(historyService, log)
	userHandler := handler.NewUserHandler(userService, log)
	roleHandler := handler.NewRoleHandler(roleService, permService, log)

	rt := router.NewRouter(
		cfg,
		log,
		db,
		authMiddleware,
		rateLimiter,
		permissionMiddleware,
		authHandler,
		roomHandler,
		itemHandler,
		auditHandler,
		purchaseHandler,
		historyHandler,
		userHandler,
		roleHandler,
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}
