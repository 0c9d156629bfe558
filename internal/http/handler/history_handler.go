package handler

import (
	"net/http"
	"strconv"

	"github.com/assetline/inventory-api/internal/domain"
	"github.com/assetline/inventory-api/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HistoryHandler handles HTTP requests for the activity history log
type HistoryHandler struct {
	historyService *service.HistoryService
	logger         *zap.Logger
}

// NewHistoryHandler creates a new HistoryHandler
func NewHistoryHandler(historyService *service.HistoryService, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
		logger:         logger,
	}
}

// List godoc
// @Summary List recent activity
// @Description Get recent activity entries, newest first, with optional entity and user filters
// @Tags History
// @Produce json
// @Param entityType query string false "Filter by entity type" Enums(Audit, ItemDetails, Item, Room, User, AssetPurchase)
// @Param entityId query string false "Filter by entity ID"
// @Param userId query string false "Filter by acting user ID"
// @Param limit query int false "Maximum entries" default(50)
// @Success 200 {array} domain.ActivityHistory
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /history [get]
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	var filters domain.ActivityFilters

	if entityType := r.URL.Query().Get("entityType"); entityType != "" {
		et := domain.EntityType(entityType)
		if !et.IsValid() {
			respondWithError(w, http.StatusBadRequest,
				"Invalid entityType: must be one of Audit, ItemDetails, Item, Room, User, AssetPurchase")
			return
		}
		filters.EntityType = et
	}
	if entityID := r.URL.Query().Get("entityId"); entityID != "" {
		id, err := uuid.Parse(entityID)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid entityId: must be a valid UUID")
			return
		}
		filters.EntityID = &id
	}
	if userID := r.URL.Query().Get("userId"); userID != "" {
		id, err := uuid.Parse(userID)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid userId: must be a valid UUID")
			return
		}
		filters.UserID = &id
	}
	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 {
			respondWithError(w, http.StatusBadRequest, "Invalid limit: must be a positive integer")
			return
		}
		filters.Limit = n
	}

	entries, err := h.historyService.GetRecentActivity(r.Context(), filters)
	if err != nil {
		respondError(w, h.logger, err, "Failed to list activity history")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// GetStats godoc
// @Summary Get activity stats
// @Description Get total, today, and trailing-week activity counts plus a per-entity-type breakdown
// @Tags History
// @Produce json
// @Success 200 {object} domain.ActivityStats
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /history/stats [get]
func (h *HistoryHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.historyService.GetActivityStats(r.Context())
	if err != nil {
		respondError(w, h.logger, err, "Failed to get activity stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
