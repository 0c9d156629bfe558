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

// RoomHandler handles HTTP requests for rooms
type RoomHandler struct {
	roomService *service.RoomService
	logger      *zap.Logger
}

// NewRoomHandler creates a new RoomHandler
func NewRoomHandler(roomService *service.RoomService, logger *zap.Logger) *RoomHandler {
	return &RoomHandler{
		roomService: roomService,
		logger:      logger,
	}
}

// List godoc
// @Summary List rooms
// @Description Get all rooms ordered by name
// @Tags Rooms
// @Produce json
// @Success 200 {array} domain.Room
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /rooms [get]
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.roomService.List(r.Context())
	if err != nil {
		respondError(w, h.logger, err, "Failed to list rooms")
		return
	}
	respondJSON(w, http.StatusOK, rooms)
}

// GetByID godoc
// @Summary Get room
// @Description Get a room by ID
// @Tags Rooms
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} domain.Room
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /rooms/{id} [get]
func (h *RoomHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid room ID: must be a valid UUID")
		return
	}

	room, err := h.roomService.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err, "Failed to get room", zap.String("room_id", id.String()))
		return
	}
	respondJSON(w, http.StatusOK, room)
}

// Create godoc
// @Summary Create room
// @Description Create a new room
// @Tags Rooms
// @Accept json
// @Produce json
// @Param request body domain.CreateRoomRequest true "Room data"
// @Success 201 {object} domain.Room
// @Failure 400 {object} domain.APIError
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /rooms [post]
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	room, err := h.roomService.Create(r.Context(), &req)
	if err != nil {
		respondError(w, h.logger, err, "Failed to create room")
		return
	}

	w.Header().Set("Location", "/api/v1/rooms/"+room.ID.String())
	respondJSON(w, http.StatusCreated, room)
}

// Update godoc
// @Summary Update room
// @Description Update an existing room
// @Tags Rooms
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body domain.UpdateRoomRequest true "Room data"
// @Success 200 {object} domain.Room
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /rooms/{id} [put]
func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid room ID: must be a valid UUID")
		return
	}

	var req domain.UpdateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	room, err := h.roomService.Update(r.Context(), id, &req)
	if err != nil {
		respondError(w, h.logger, err, "Failed to update room", zap.String("room_id", id.String()))
		return
	}
	respondJSON(w, http.StatusOK, room)
}

// Delete godoc
// @Summary Delete room
// @Description Delete a room that no item detail or purchase references
// @Tags Rooms
// @Param id path string true "Room ID"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /rooms/{id} [delete]
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid room ID: must be a valid UUID")
		return
	}

	if err := h.roomService.Delete(r.Context(), id); err != nil {
		respondError(w, h.logger, err, "Failed to delete room", zap.String("room_id", id.String()))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
