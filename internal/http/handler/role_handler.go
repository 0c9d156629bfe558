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

// RoleHandler handles HTTP requests for roles and the permission catalog
type RoleHandler struct {
	roleService *service.RoleService
	permService *service.PermissionService
	logger      *zap.Logger
}

// NewRoleHandler creates a new RoleHandler
func NewRoleHandler(roleService *service.RoleService, permService *service.PermissionService, logger *zap.Logger) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
		permService: permService,
		logger:      logger,
	}
}

// ListRoles godoc
// @Summary List roles
// @Description Get all roles with their permissions
// @Tags Roles
// @Produce json
// @Success 200 {array} domain.Role
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /roles [get]
func (h *RoleHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.roleService.List(r.Context())
	if err != nil {
		respondError(w, h.logger, err, "Failed to list roles")
		return
	}
	respondJSON(w, http.StatusOK, roles)
}

// GetRole godoc
// @Summary Get role
// @Description Get a role with its permissions
// @Tags Roles
// @Produce json
// @Param id path string true "Role ID"
// @Success 200 {object} domain.Role
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /roles/{id} [get]
func (h *RoleHandler) GetRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid role ID: must be a valid UUID")
		return
	}

	role, err := h.roleService.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err, "Failed to get role", zap.String("role_id", id.String()))
		return
	}
	respondJSON(w, http.StatusOK, role)
}

// CreateRole godoc
// @Summary Create role
// @Description Create a named role
// @Tags Roles
// @Accept json
// @Produce json
// @Param request body domain.CreateRoleRequest true "Role data"
// @Success 201 {object} domain.Role
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /roles [post]
func (h *RoleHandler) CreateRole(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	role, err := h.roleService.Create(r.Context(), &req)
	if err != nil {
		respondError(w, h.logger, err, "Failed to create role")
		return
	}

	w.Header().Set("Location", "/api/v1/roles/"+role.ID.String())
	respondJSON(w, http.StatusCreated, role)
}

// UpdateRole godoc
// @Summary Update role
// @Description Edit a role's name or description
// @Tags Roles
// @Accept json
// @Produce json
// @Param id path string true "Role ID"
// @Param request body domain.UpdateRoleRequest true "Role data"
// @Success 200 {object} domain.Role
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /roles/{id} [put]
func (h *RoleHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid role ID: must be a valid UUID")
		return
	}

	var req domain.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	role, err := h.roleService.Update(r.Context(), id, &req)
	if err != nil {
		respondError(w, h.logger, err, "Failed to update role", zap.String("role_id", id.String()))
		return
	}
	respondJSON(w, http.StatusOK, role)
}

// DeleteRole godoc
// @Summary Delete role
// @Description Delete a role that no user is assigned to
// @Tags Roles
// @Param id path string true "Role ID"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /roles/{id} [delete]
func (h *RoleHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid role ID: must be a valid UUID")
		return
	}

	if err := h.roleService.Delete(r.Context(), id); err != nil {
		respondError(w, h.logger, err, "Failed to delete role", zap.String("role_id", id.String()))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AssignPermission godoc
// @Summary Assign permission
// @Description Attach a permission to a role
// @Tags Roles
// @Produce json
// @Param id path string true "Role ID"
// @Param permissionId path string true "Permission ID"
// @Success 200 {object} domain.Role
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /roles/{id}/permissions/{permissionId} [post]
func (h *RoleHandler) AssignPermission(w http.ResponseWriter, r *http.Request) {
	roleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid role ID: must be a valid UUID")
		return
	}

	permissionID, err := uuid.Parse(chi.URLParam(r, "permissionId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid permission ID: must be a valid UUID")
		return
	}

	role, err := h.roleService.AssignPermission(r.Context(), roleID, permissionID)
	if err != nil {
		respondError(w, h.logger, err, "Failed to assign permission",
			zap.String("role_id", roleID.String()), zap.String("permission_id", permissionID.String()))
		return
	}
	respondJSON(w, http.StatusOK, role)
}

// RevokePermission godoc
// @Summary Revoke permission
// @Description Detach a permission from a role
// @Tags Roles
// @Produce json
// @Param id path string true "Role ID"
// @Param permissionId path string true "Permission ID"
// @Success 200 {object} domain.Role
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /roles/{id}/permissions/{permissionId} [delete]
func (h *RoleHandler) RevokePermission(w http.ResponseWriter, r *http.Request) {
	roleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid role ID: must be a valid UUID")
		return
	}

	permissionID, err := uuid.Parse(chi.URLParam(r, "permissionId"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid permission ID: must be a valid UUID")
		return
	}

	role, err := h.roleService.RevokePermission(r.Context(), roleID, permissionID)
	if err != nil {
		respondError(w, h.logger, err, "Failed to revoke permission",
			zap.String("role_id", roleID.String()), zap.String("permission_id", permissionID.String()))
		return
	}
	respondJSON(w, http.StatusOK, role)
}

// ListPermissions godoc
// @Summary List permissions
// @Description Get the full resource/action permission catalog
// @Tags Permissions
// @Produce json
// @Success 200 {array} domain.Permission
// @Failure 500 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /permissions [get]
func (h *RoleHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	perms, err := h.permService.List(r.Context())
	if err != nil {
		respondError(w, h.logger, err, "Failed to list permissions")
		return
	}
	respondJSON(w, http.StatusOK, perms)
}

// CreatePermission godoc
// @Summary Create permission
// @Description Create a permission for a unique resource/action pair
// @Tags Permissions
// @Accept json
// @Produce json
// @Param request body domain.CreatePermissionRequest true "Permission data"
// @Success 201 {object} domain.Permission
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /permissions [post]
func (h *RoleHandler) CreatePermission(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePermissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	perm, err := h.permService.Create(r.Context(), &req)
	if err != nil {
		respondError(w, h.logger, err, "Failed to create permission")
		return
	}

	w.Header().Set("Location", "/api/v1/permissions/"+perm.ID.String())
	respondJSON(w, http.StatusCreated, perm)
}

// DeletePermission godoc
// @Summary Delete permission
// @Description Remove a permission and its role assignments
// @Tags Permissions
// @Param id path string true "Permission ID"
// @Success 204 "No Content"
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /permissions/{id} [delete]
func (h *RoleHandler) DeletePermission(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid permission ID: must be a valid UUID")
		return
	}

	if err := h.permService.Delete(r.Context(), id); err != nil {
		respondError(w, h.logger, err, "Failed to delete permission", zap.String("permission_id", id.String()))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
