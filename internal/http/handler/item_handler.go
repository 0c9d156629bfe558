package handler

import (
	"encoding/json"
	"net/http"

	"github.com/assetline/inventory-api/internal/domain"
	"github.com/assetline/inventory-api/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ItemHandler handles HTTP requests for catalog items
type ItemHandler struct {
	itemService *service.ItemService
	logger      *zap.Logger
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService *service.ItemService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		logger:      logger,
	}
}

// List godoc
// @Summary List items
// @Description Get all catalog items ordered by name
// @Tags Items
// @Produce json
// @Success 200 {array} domain.Item
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /items [get]
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.itemService.List(r.Context())
	if err != nil {
		respondError(w, h.logger, err, "Failed to list items")
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// GetByID godoc
// @Summary Get item
// @Description Get a catalog item by ID
// @Tags Items
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} domain.Item
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /items/{id} [get]
func (h *ItemHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID: must be a valid UUID")
		return
	}

	item, err := h.itemService.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err, "Failed to get item", zap.String("item_id", id.String()))
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// Create godoc
// @Summary Create item
// @Description Create a new catalog item
// @Tags Items
// @Accept json
// @Produce json
// @Param request body domain.CreateItemRequest true "Item data"
// @Success 201 {object} domain.Item
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /items [post]
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	item, err := h.itemService.Create(r.Context(), &req)
	if err != nil {
		respondError(w, h.logger, err, "Failed to create item")
		return
	}

	w.Header().Set("Location", "/api/v1/items/"+item.ID.String())
	respondJSON(w, http.StatusCreated, item)
}

// Update godoc
// @Summary Update item
// @Description Update an existing catalog item
// @Tags Items
// @Accept json
// @Produce json
// @Param id path string true "Item ID"
// @Param request body domain.UpdateItemRequest true "Item data"
// @Success 200 {object} domain.Item
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /items/{id} [put]
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID: must be a valid UUID")
		return
	}

	var req domain.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	item, err := h.itemService.Update(r.Context(), id, &req)
	if err != nil {
		respondError(w, h.logger, err, "Failed to update item", zap.String("item_id", id.String()))
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// Delete godoc
// @Summary Delete item
// @Description Delete a catalog item that no item detail or purchase references
// @Tags Items
// @Param id path string true "Item ID"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /items/{id} [delete]
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid item ID: must be a valid UUID")
		return
	}

	if err := h.itemService.Delete(r.Context(), id); err != nil {
		respondError(w, h.logger, err, "Failed to delete item", zap.String("item_id", id.String()))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
