package reports

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"billaudit-backend/internal/shared/server/middleware"
	"billaudit-backend/internal/shared/server/respond"
)

// Handler wires report listing and deletion to the repo.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches report routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/reports", h.list)
	rg.DELETE("/reports/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	items, err := h.Repo.ListByUser(c.Request.Context(), userID, ListLimit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch reports", nil)
		return
	}

	respond.OK(c, gin.H{"success": true, "reports": items})
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	reportID := c.Param("id")
	if reportID == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "report id is required", nil)
		return
	}
	c.Set("reportId", reportID)

	// Owner-scoped delete; a missing or foreign id falls through silently.
	if err := h.Repo.Delete(c.Request.Context(), userID, reportID); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete report", nil)
		return
	}

	respond.OK(c, gin.H{"success": true})
}
