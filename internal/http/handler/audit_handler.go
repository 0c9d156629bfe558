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

// AuditHandler handles HTTP requests for monthly audits and their item details
type AuditHandler struct {
	auditService *service.AuditService
	logger       *zap.Logger
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *service.AuditService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
	}
}

// List godoc
// @Summary List audits
// @Description Get all audits, newest period first, with participant and row counts
// @Tags Audits
// @Produce json
// @Success 200 {array} domain.AuditListEntry
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audits [get]
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	audits, err := h.auditService.List(r.Context())
	if err != nil {
		respondError(w, h.logger, err, "Failed to list audits")
		return
	}
	respondJSON(w, http.StatusOK, audits)
}

// Create godoc
// @Summary Create audit
// @Description Open a new monthly audit seeded from the most recent prior audit
// @Tags Audits
// @Accept json
// @Produce json
// @Param request body domain.CreateAuditRequest true "Audit data"
// @Success 201 {object} domain.AuditDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audits [post]
func (h *AuditHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	audit, err := h.auditService.Create(r.Context(), &req)
	if err != nil {
		respondError(w, h.logger, err, "Failed to create audit")
		return
	}

	w.Header().Set("Location", "/api/v1/audits/"+audit.ID.String())
	respondJSON(w, http.StatusCreated, audit)
}

// GetLatest godoc
// @Summary Get latest audit
// @Description Get the most recent audit by period, regardless of status
// @Tags Audits
// @Produce json
// @Success 200 {object} domain.AuditDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audits/latest [get]
func (h *AuditHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	audit, err := h.auditService.GetLatest(r.Context())
	if err != nil {
		respondError(w, h.logger, err, "Failed to get latest audit")
		return
	}
	respondJSON(w, http.StatusOK, audit)
}

// GetByID godoc
// @Summary Get audit
// @Description Get an audit with participants, details grouped by room, and recent history
// @Tags Audits
// @Produce json
// @Param id path string true "Audit ID"
// @Success 200 {object} domain.AuditDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audits/{id} [get]
func (h *AuditHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid audit ID: must be a valid UUID")
		return
	}

	audit, err := h.auditService.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err, "Failed to get audit", zap.String("audit_id", id.String()))
		return
	}
	respondJSON(w, http.StatusOK, audit)
}

// Update godoc
// @Summary Update audit
// @Description Update notes, participants, or status. Completed and canceled audits keep their status.
// @Tags Audits
// @Accept json
// @Produce json
// @Param id path string true "Audit ID"
// @Param request body domain.UpdateAuditRequest true "Audit data"
// @Success 200 {object} domain.AuditDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audits/{id} [put]
func (h *AuditHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid audit ID: must be a valid UUID")
		return
	}

	var req domain.UpdateAuditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	audit, err := h.auditService.Update(r.Context(), id, &req)
	if err != nil {
		respondError(w, h.logger, err, "Failed to update audit", zap.String("audit_id", id.String()))
		return
	}
	respondJSON(w, http.StatusOK, audit)
}

// Delete godoc
// @Summary Delete audit
// @Description Delete an audit and its item details. Completed audits cannot be deleted.
// @Tags Audits
// @Param id path string true "Audit ID"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audits/{id} [delete]
func (h *AuditHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid audit ID: must be a valid UUID")
		return
	}

	if err := h.auditService.Delete(r.Context(), id); err != nil {
		respondError(w, h.logger, err, "Failed to delete audit", zap.String("audit_id", id.String()))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddItemDetail godoc
// @Summary Add item detail
// @Description Add a room-item quantity row to an in-progress audit
// @Tags Audits
// @Accept json
// @Produce json
// @Param id path string true "Audit ID"
// @Param request body domain.AddItemDetailRequest true "Item detail data"
// @Success 201 {object} domain.ItemDetail
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audits/{id}/details [post]
func (h *AuditHandler) AddItemDetail(w http.ResponseWriter, r *http.Request) {
	auditID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid audit ID: must be a valid UUID")
		return
	}

	var req domain.AddItemDetailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	detail, err := h.auditService.AddItemDetail(r.Context(), auditID, &req)
	if err != nil {
		respondError(w, h.logger, err, "Failed to add item detail", zap.String("audit_id", auditID.String()))
		return
	}
	respondJSON(w, http.StatusCreated, detail)
}

// UpdateItemDetail godoc
// @Summary Update item detail
// @Description Adjust quantity counters on an item detail of an in-progress audit
// @Tags Audits
// @Accept json
// @Produce json
// @Param id path string true "Audit ID"
// @Param detailId path string true "Item detail ID"
// @Param request body domain.UpdateItemDetailRequest true "Quantity adjustments"
// @Success 200 {object} domain.ItemDetail
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audits/{id}/details/{detailId} [put]
func (h *AuditHandler) UpdateItemDetail(w http.ResponseWriter, r *http.Request) {
	auditID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid audit ID: must be a valid UUID")
		return
	}

	detailID, err := uuid.Parse(chi.URLParam(r, "detailId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid detail ID: must be a valid UUID")
		return
	}

	var req domain.UpdateItemDetailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	detail, err := h.auditService.UpdateItemDetail(r.Context(), auditID, detailID, &req)
	if err != nil {
		respondError(w, h.logger, err, "Failed to update item detail",
			zap.String("audit_id", auditID.String()), zap.String("detail_id", detailID.String()))
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

// DeleteItemDetail godoc
// @Summary Delete item detail
// @Description Remove an item detail row from an in-progress audit
// @Tags Audits
// @Param id path string true "Audit ID"
// @Param detailId path string true "Item detail ID"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audits/{id}/details/{detailId} [delete]
func (h *AuditHandler) DeleteItemDetail(w http.ResponseWriter, r *http.Request) {
	auditID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid audit ID: must be a valid UUID")
		return
	}

	detailID, err := uuid.Parse(chi.URLParam(r, "detailId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid detail ID: must be a valid UUID")
		return
	}

	if err := h.auditService.DeleteItemDetail(r.Context(), auditID, detailID); err != nil {
		respondError(w, h.logger, err, "Failed to delete item detail",
			zap.String("audit_id", auditID.String()), zap.String("detail_id", detailID.String()))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetItemSummary godoc
// @Summary Get audit item summary
// @Description Aggregate an audit's item details by item across all rooms
// @Tags Audits
// @Produce json
// @Param id path string true "Audit ID"
// @Success 200 {array} domain.ItemSummaryRow
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audits/{id}/summary [get]
func (h *AuditHandler) GetItemSummary(w http.ResponseWriter, r *http.Request) {
	auditID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid audit ID: must be a valid UUID")
		return
	}

	summary, err := h.auditService.GetItemSummary(r.Context(), auditID)
	if err != nil {
		respondError(w, h.logger, err, "Failed to get audit summary", zap.String("audit_id", auditID.String()))
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
