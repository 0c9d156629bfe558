package router

import (
	"encoding/json"
	"net/http"

	"github.com/assetline/inventory-api/internal/auth"
	"github.com/assetline/inventory-api/internal/config"
	"github.com/assetline/inventory-api/internal/database"
	"github.com/assetline/inventory-api/internal/http/handler"
	"github.com/assetline/inventory-api/internal/http/middleware"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Router struct {
	cfg             *config.Config
	logger          *zap.Logger
	db              *gorm.DB
	authMiddleware  *auth.Middleware
	rateLimiter     *middleware.RateLimiter
	permissions     *middleware.PermissionMiddleware
	authHandler     *handler.AuthHandler
	roomHandler     *handler.RoomHandler
	itemHandler     *handler.ItemHandler
	auditHandler    *handler.AuditHandler
	purchaseHandler *handler.AssetPurchaseHandler
	historyHandler  *handler.HistoryHandler
	userHandler     *handler.UserHandler
	roleHandler     *handler.RoleHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	permissions *middleware.PermissionMiddleware,
	authHandler *handler.AuthHandler,
	roomHandler *handler.RoomHandler,
	itemHandler *handler.ItemHandler,
	auditHandler *handler.AuditHandler,
	purchaseHandler *handler.AssetPurchaseHandler,
	historyHandler *handler.HistoryHandler,
	userHandler *handler.UserHandler,
	roleHandler *handler.RoleHandler,
) *Router {
	return &Router{
		cfg:             cfg,
		logger:          logger,
		db:              db,
		authMiddleware:  authMiddleware,
		rateLimiter:     rateLimiter,
		permissions:     permissions,
		authHandler:     authHandler,
		roomHandler:     roomHandler,
		itemHandler:     itemHandler,
		auditHandler:    auditHandler,
		purchaseHandler: purchaseHandler,
		historyHandler:  historyHandler,
		userHandler:     userHandler,
		roleHandler:     roleHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Health check (basic liveness probe)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Database health check (readiness probe)
	r.Get("/health/db", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := database.HealthCheck(r.Context(), rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"status":  "unhealthy",
				"error":   err.Error(),
				"service": "database",
			})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"service": "database",
		})
	})

	// Combined readiness check (checks all dependencies)
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := make(map[string]interface{})
		allHealthy := true

		if err := database.HealthCheck(r.Context(), rt.db); err != nil {
			rt.logger.Error("Database health check failed", zap.Error(err))
			checks["database"] = map[string]interface{}{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			allHealthy = false
		} else {
			checks["database"] = map[string]interface{}{
				"status": "healthy",
			}
		}

		w.Header().Set("Content-Type", "application/json")
		status := "healthy"
		code := http.StatusOK
		if !allHealthy {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": status,
			"checks": checks,
		})
	})

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/login", rt.authHandler.Login)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)

			r.Get("/auth/me", rt.authHandler.Me)

			// Rooms
			r.Route("/rooms", func(r chi.Router) {
				r.With(rt.permissions.Require("room", "read")).Get("/", rt.roomHandler.List)
				r.With(rt.permissions.Require("room", "create")).Post("/", rt.roomHandler.Create)
				r.With(rt.permissions.Require("room", "read")).Get("/{id}", rt.roomHandler.GetByID)
				r.With(rt.permissions.Require("room", "update")).Put("/{id}", rt.roomHandler.Update)
				r.With(rt.permissions.Require("room", "delete")).Delete("/{id}", rt.roomHandler.Delete)
			})

			// Items
			r.Route("/items", func(r chi.Router) {
				r.With(rt.permissions.Require("item", "read")).Get("/", rt.itemHandler.List)
				r.With(rt.permissions.Require("item", "create")).Post("/", rt.itemHandler.Create)
				r.With(rt.permissions.Require("item", "read")).Get("/{id}", rt.itemHandler.GetByID)
				r.With(rt.permissions.Require("item", "update")).Put("/{id}", rt.itemHandler.Update)
				r.With(rt.permissions.Require("item", "delete")).Delete("/{id}", rt.itemHandler.Delete)
			})

			// Audits and their item details
			r.Route("/audits", func(r chi.Router) {
				r.With(rt.permissions.Require("audit", "read")).Get("/", rt.auditHandler.List)
				r.With(rt.permissions.Require("audit", "create")).Post("/", rt.auditHandler.Create)
				r.With(rt.permissions.Require("audit", "read")).Get("/latest", rt.auditHandler.GetLatest)
				r.With(rt.permissions.Require("audit", "read")).Get("/{id}", rt.auditHandler.GetByID)
				r.With(rt.permissions.Require("audit", "update")).Put("/{id}", rt.auditHandler.Update)
				r.With(rt.permissions.Require("audit", "delete")).Delete("/{id}", rt.auditHandler.Delete)
				r.With(rt.permissions.Require("audit", "update")).Post("/{id}/details", rt.auditHandler.AddItemDetail)
				r.With(rt.permissions.Require("audit", "update")).Put("/{id}/details/{detailId}", rt.auditHandler.UpdateItemDetail)
				r.With(rt.permissions.Require("audit", "update")).Delete("/{id}/details/{detailId}", rt.auditHandler.DeleteItemDetail)
				r.With(rt.permissions.Require("audit", "read")).Get("/{id}/summary", rt.auditHandler.GetItemSummary)
			})

			// Asset purchases
			r.Route("/purchases", func(r chi.Router) {
				r.With(rt.permissions.Require("purchase", "read")).Get("/", rt.purchaseHandler.List)
				r.With(rt.permissions.Require("purchase", "create")).Post("/", rt.purchaseHandler.Create)
				r.With(rt.permissions.Require("purchase", "read")).Get("/summary", rt.purchaseHandler.GetSummary)
				r.With(rt.permissions.Require("purchase", "read")).Get("/{id}", rt.purchaseHandler.GetByID)
				r.With(rt.permissions.Require("purchase", "update")).Put("/{id}", rt.purchaseHandler.Update)
				r.With(rt.permissions.Require("purchase", "delete")).Delete("/{id}", rt.purchaseHandler.Delete)
			})

			// Activity history
			r.Route("/history", func(r chi.Router) {
				r.With(rt.permissions.Require("history", "read")).Get("/", rt.historyHandler.List)
				r.With(rt.permissions.Require("history", "read")).Get("/stats", rt.historyHandler.GetStats)
			})

			// Users
			r.Route("/users", func(r chi.Router) {
				r.With(rt.permissions.Require("user", "read")).Get("/", rt.userHandler.List)
				r.With(rt.permissions.Require("user", "create")).Post("/", rt.userHandler.Create)
				r.With(rt.permissions.Require("user", "read")).Get("/{id}", rt.userHandler.GetByID)
				r.With(rt.permissions.Require("user", "update")).Put("/{id}", rt.userHandler.Update)
				r.With(rt.permissions.Require("user", "delete")).Delete("/{id}", rt.userHandler.Delete)
			})

			// Roles
			r.Route("/roles", func(r chi.Router) {
				r.With(rt.permissions.Require("role", "read")).Get("/", rt.roleHandler.ListRoles)
				r.With(rt.permissions.Require("role", "create")).Post("/", rt.roleHandler.CreateRole)
				r.With(rt.permissions.Require("role", "read")).Get("/{id}", rt.roleHandler.GetRole)
				r.With(rt.permissions.Require("role", "update")).Put("/{id}", rt.roleHandler.UpdateRole)
				r.With(rt.permissions.Require("role", "delete")).Delete("/{id}", rt.roleHandler.DeleteRole)
				r.With(rt.permissions.Require("role", "update")).Post("/{id}/permissions/{permissionId}", rt.roleHandler.AssignPermission)
				r.With(rt.permissions.Require("role", "update")).Delete("/{id}/permissions/{permissionId}", rt.roleHandler.RevokePermission)
			})

			// Permission catalog
			r.Route("/permissions", func(r chi.Router) {
				r.With(rt.permissions.Require("permission", "read")).Get("/", rt.roleHandler.ListPermissions)
				r.With(rt.permissions.Require("permission", "create")).Post("/", rt.roleHandler.CreatePermission)
				r.With(rt.permissions.Require("permission", "delete")).Delete("/{id}", rt.roleHandler.DeletePermission)
			})
		})
	})

	return r
}
