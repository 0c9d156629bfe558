package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/assetline/inventory-api/internal/domain"
	"github.com/assetline/inventory-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AssetPurchaseHandler handles HTTP requests for asset purchases
type AssetPurchaseHandler struct {
	purchaseService *service.AssetPurchaseService
	logger          *zap.Logger
}

// NewAssetPurchaseHandler creates a new AssetPurchaseHandler
func NewAssetPurchaseHandler(purchaseService *service.AssetPurchaseService, logger *zap.Logger) *AssetPurchaseHandler {
	return &AssetPurchaseHandler{
		purchaseService: purchaseService,
		logger:          logger,
	}
}

// parsePurchaseFilters reads the shared roomId/itemId/startDate/endDate query
// parameters. Dates accept RFC 3339 or plain YYYY-MM-DD.
func parsePurchaseFilters(r *http.Request) (domain.PurchaseFilters, string) {
	var filters domain.PurchaseFilters

	if roomID := r.URL.Query().Get("roomId"); roomID != "" {
		id, err := uuid.Parse(roomID)
		if err != nil {
			return filters, "Invalid roomId: must be a valid UUID"
		}
		filters.RoomID = &id
	}
	if itemID := r.URL.Query().Get("itemId"); itemID != "" {
		id, err := uuid.Parse(itemID)
		if err != nil {
			return filters, "Invalid itemId: must be a valid UUID"
		}
		filters.ItemID = &id
	}
	if start := r.URL.Query().Get("startDate"); start != "" {
		t, err := parseDate(start)
		if err != nil {
			return filters, "Invalid startDate: must be RFC 3339 or YYYY-MM-DD"
		}
		filters.StartDate = &t
	}
	if end := r.URL.Query().Get("endDate"); end != "" {
		t, err := parseDate(end)
		if err != nil {
			return filters, "Invalid endDate: must be RFC 3339 or YYYY-MM-DD"
		}
		filters.EndDate = &t
	}

	return filters, ""
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// List godoc
// @Summary List purchases
// @Description Get purchases, newest first, with optional room, item, and date filters
// @Tags Purchases
// @Produce json
// @Param roomId query string false "Filter by room ID"
// @Param itemId query string false "Filter by item ID"
// @Param startDate query string false "Purchases on or after this date"
// @Param endDate query string false "Purchases on or before this date"
// @Success 200 {array} domain.AssetPurchase
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /purchases [get]
func (h *AssetPurchaseHandler) List(w http.ResponseWriter, r *http.Request) {
	filters, invalid := parsePurchaseFilters(r)
	if invalid != "" {
		respondWithError(w, http.StatusBadRequest, invalid)
		return
	}

	purchases, err := h.purchaseService.List(r.Context(), filters)
	if err != nil {
		respondError(w, h.logger, err, "Failed to list purchases")
		return
	}
	respondJSON(w, http.StatusOK, purchases)
}

// Create godoc
// @Summary Record purchase
// @Description Record a purchase, refresh the item master price, and fold the quantity into the latest audit
// @Tags Purchases
// @Accept json
// @Produce json
// @Param request body domain.CreateAssetPurchaseRequest true "Purchase data"
// @Success 201 {object} domain.AssetPurchase
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /purchases [post]
func (h *AssetPurchaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAssetPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	purchase, err := h.purchaseService.Create(r.Context(), &req)
	if err != nil {
		respondError(w, h.logger, err, "Failed to record purchase")
		return
	}

	w.Header().Set("Location", "/api/v1/purchases/"+purchase.ID.String())
	respondJSON(w, http.StatusCreated, purchase)
}

// GetSummary godoc
// @Summary Get purchase summary
// @Description Aggregate purchases by room and by item with the same filters as the list endpoint
// @Tags Purchases
// @Produce json
// @Param roomId query string false "Filter by room ID"
// @Param itemId query string false "Filter by item ID"
// @Param startDate query string false "Purchases on or after this date"
// @Param endDate query string false "Purchases on or before this date"
// @Success 200 {object} domain.PurchaseSummary
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /purchases/summary [get]
func (h *AssetPurchaseHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	filters, invalid := parsePurchaseFilters(r)
	if invalid != "" {
		respondWithError(w, http.StatusBadRequest, invalid)
		return
	}

	summary, err := h.purchaseService.GetSummary(r.Context(), filters)
	if err != nil {
		respondError(w, h.logger, err, "Failed to get purchase summary")
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// GetByID godoc
// @Summary Get purchase
// @Description Get a purchase by ID with room, item, and buyer
// @Tags Purchases
// @Produce json
// @Param id path string true "Purchase ID"
// @Success 200 {object} domain.AssetPurchase
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /purchases/{id} [get]
func (h *AssetPurchaseHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid purchase ID: must be a valid UUID")
		return
	}

	purchase, err := h.purchaseService.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err, "Failed to get purchase", zap.String("purchase_id", id.String()))
		return
	}
	respondJSON(w, http.StatusOK, purchase)
}

// Update godoc
// @Summary Update purchase
// @Description Edit a purchase record. The earlier fold into the audit is not recalculated.
// @Tags Purchases
// @Accept json
// @Produce json
// @Param id path string true "Purchase ID"
// @Param request body domain.UpdateAssetPurchaseRequest true "Purchase data"
// @Success 200 {object} domain.AssetPurchase
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /purchases/{id} [put]
func (h *AssetPurchaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid purchase ID: must be a valid UUID")
		return
	}

	var req domain.UpdateAssetPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	purchase, err := h.purchaseService.Update(r.Context(), id, &req)
	if err != nil {
		respondError(w, h.logger, err, "Failed to update purchase", zap.String("purchase_id", id.String()))
		return
	}
	respondJSON(w, http.StatusOK, purchase)
}

// Delete godoc
// @Summary Delete purchase
// @Description Delete a purchase record. Audit quantities folded at creation time are kept.
// @Tags Purchases
// @Param id path string true "Purchase ID"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /purchases/{id} [delete]
func (h *AssetPurchaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid purchase ID: must be a valid UUID")
		return
	}

	if err := h.purchaseService.Delete(r.Context(), id); err != nil {
		respondError(w, h.logger, err, "Failed to delete purchase", zap.String("purchase_id", id.String()))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
