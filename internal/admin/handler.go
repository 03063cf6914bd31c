// Package admin serves the console endpoints: user management and
// usage statistics. Routes are mounted behind the admin-only gate.
package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"billaudit-backend/internal/reports"
	"billaudit-backend/internal/shared/server/middleware"
	"billaudit-backend/internal/shared/server/respond"
	"billaudit-backend/internal/shared/telemetry"
	"billaudit-backend/internal/users"
)

type Handler struct {
	users   users.Repo
	reports reports.Repo
}

func NewHandler(userRepo users.Repo, reportRepo reports.Repo) *Handler {
	return &Handler{users: userRepo, reports: reportRepo}
}

// RegisterRoutes attaches admin routes to an already-gated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/admin/users", h.listUsers)
	rg.PATCH("/admin/users/:id", h.updateUser)
	rg.DELETE("/admin/users/:id", h.deleteUser)
	rg.GET("/admin/stats", h.stats)
}

func (h *Handler) listUsers(c *gin.Context) {
	list, err := h.users.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list users", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"success": true, "users": list})
}

func (h *Handler) updateUser(c *gin.Context) {
	userID := c.Param("id")

	var draft users.UpdateDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid update payload", nil)
		return
	}
	if draft.Empty() {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "no fields to update", nil)
		return
	}

	updated, err := h.users.ApplyDraft(c.Request.Context(), userID, draft)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "User not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update user", nil)
		return
	}

	telemetry.Info("admin.user_updated", map[string]any{
		"admin_id": middleware.UserIDFromContext(c),
		"user_id":  userID,
	})
	respond.JSON(c, http.StatusOK, gin.H{"success": true, "user": updated})
}

func (h *Handler) deleteUser(c *gin.Context) {
	userID := c.Param("id")

	// Admins cannot delete themselves, which would orphan the session.
	if userID == middleware.UserIDFromContext(c) {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "cannot delete own account", nil)
		return
	}

	if err := h.users.Delete(c.Request.Context(), userID); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "User not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete user", nil)
		return
	}

	telemetry.Info("admin.user_deleted", map[string]any{
		"admin_id": middleware.UserIDFromContext(c),
		"user_id":  userID,
	})
	respond.JSON(c, http.StatusOK, gin.H{"success": true})
}

func (h *Handler) stats(c *gin.Context) {
	ctx := c.Request.Context()

	userStats, err := h.users.Stats(ctx)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load stats", nil)
		return
	}
	totalAnalyses, err := h.reports.Count(ctx)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load stats", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"totalUsers":    userStats.TotalUsers,
			"premiumUsers":  userStats.PremiumUsers,
			"blockedUsers":  userStats.BlockedUsers,
			"totalAnalyses": totalAnalyses,
		},
	})
}
