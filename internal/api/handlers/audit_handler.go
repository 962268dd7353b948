package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"example.com/mams/internal/api/middleware"
	"example.com/mams/internal/models"
	"example.com/mams/internal/services"
)

// AuditHandler exposes the audit trail search
type AuditHandler struct {
	auditService *services.AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// SearchAudit searches indexed audit records
func (h *AuditHandler) SearchAudit(c *gin.Context) {
	size := 0
	if raw := c.Query("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "size must be an integer")
			return
		}
		size = parsed
	}

	records, err := h.auditService.Search(c.Request.Context(), c.Query("action"), c.Query("actorId"), size)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// RegisterRoutes registers the handler's routes
func (h *AuditHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/audit",
		middleware.RequireRole(models.RoleAdmin),
		h.SearchAudit)
}
