package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/assetline/inventory-api/internal/auth"
	"github.com/assetline/inventory-api/internal/domain"
	"github.com/assetline/inventory-api/internal/service"
	"go.uber.org/zap"
)

// PermissionMiddleware gates routes on resource/action permissions
type PermissionMiddleware struct {
	access *service.AccessControlService
	logger *zap.Logger
}

// NewPermissionMiddleware creates a new PermissionMiddleware
func NewPermissionMiddleware(access *service.AccessControlService, logger *zap.Logger) *PermissionMiddleware {
	return &PermissionMiddleware{
		access: access,
		logger: logger,
	}
}

// Require returns middleware that rejects requests whose user may not
// perform action on resource. It must run after authentication.
func (p *PermissionMiddleware) Require(resource, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userCtx, ok := auth.FromContext(r.Context())
			if !ok {
				writeProblem(w, domain.NewUnauthorizedError("Not authenticated"))
				return
			}

			allowed, err := p.access.HasPermission(r.Context(), userCtx, resource, action)
			if err != nil {
				p.logger.Error("permission check failed",
					zap.Error(err),
					zap.String("user_id", userCtx.UserID.String()),
					zap.String("resource", resource),
					zap.String("action", action),
				)
				writeProblem(w, domain.NewInternalError("Failed to check permissions"))
				return
			}

			if !allowed {
				p.logger.Warn("permission denied",
					zap.String("user_id", userCtx.UserID.String()),
					zap.String("resource", resource),
					zap.String("action", action),
					zap.String("path", r.URL.Path),
				)
				writeProblem(w, domain.NewForbiddenError(
					fmt.Sprintf("You don't have permission to %s %s", action, resource)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func writeProblem(w http.ResponseWriter, apiErr *domain.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	_ = json.NewEncoder(w).Encode(apiErr)
}
