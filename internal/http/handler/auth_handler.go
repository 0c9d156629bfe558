package handler

import (
	"encoding/json"
	"net/http"

	"github.com/assetline/inventory-api/internal/auth"
	"github.com/assetline/inventory-api/internal/domain"
	"github.com/assetline/inventory-api/internal/service"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthHandler handles login and identity requests
type AuthHandler struct {
	userService *service.UserService
	tokens      *auth.TokenManager
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(userService *service.UserService, tokens *auth.TokenManager, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		tokens:      tokens,
		logger:      logger,
	}
}

// Login godoc
// @Summary Login
// @Description Authenticate with mobile and password and receive a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.LoginResponse
// @Failure 400 {object} domain.APIError
// @Failure 401 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	user, err := h.userService.Authenticate(r.Context(), req.Mobile, req.Password)
	if err != nil {
		respondError(w, h.logger, err, "Failed to authenticate")
		return
	}

	token, err := h.tokens.IssueToken(user)
	if err != nil {
		h.logger.Error("failed to issue token", zap.Error(err), zap.String("user_id", user.ID.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	h.logger.Info("user logged in", zap.String("user_id", user.ID.String()))
	respondJSON(w, http.StatusOK, domain.LoginResponse{
		Token: token,
		User:  *user,
	})
}

// Me godoc
// @Summary Current user
// @Description Get the authenticated user with role and permissions
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.User
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	// API key requests carry a synthetic identity with no database row
	if userCtx.UserID == uuid.Nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"id":   userCtx.UserID,
			"name": userCtx.Name,
			"role": userCtx.LegacyRole,
		})
		return
	}

	user, err := h.userService.GetByID(r.Context(), userCtx.UserID)
	if err != nil {
		respondError(w, h.logger, err, "Failed to get current user", zap.String("user_id", userCtx.UserID.String()))
		return
	}
	respondJSON(w, http.StatusOK, user)
}
