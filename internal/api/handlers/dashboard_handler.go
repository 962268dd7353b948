package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"example.com/mams/internal/api/middleware"
	"example.com/mams/internal/services"
)

// DashboardHandler serves the reconciled inventory dashboard
type DashboardHandler struct {
	ledgerService *services.LedgerService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(ledgerService *services.LedgerService) *DashboardHandler {
	return &DashboardHandler{ledgerService: ledgerService}
}

// GetDashboard returns reconciled ledger rows for the caller's scope
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	baseID, err := parseOptionalUUID(c.Query("baseId"))
	if err != nil {
		respondError(c, err)
		return
	}
	startDate, err := parseOptionalDate(c.Query("startDate"))
	if err != nil {
		respondError(c, err)
		return
	}
	endDate, err := parseOptionalDate(c.Query("endDate"))
	if err != nil {
		respondError(c, err)
		return
	}

	req := services.DashboardRequest{
		BaseID:        baseID,
		EquipmentType: c.Query("equipmentType"),
		StartDate:     startDate,
		EndDate:       endDate,
	}
	if raw := c.Query("includeUnbaselined"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "includeUnbaselined must be a boolean")
			return
		}
		req.IncludeUnbaselined = &include
	}

	rows, err := h.ledgerService.ComputeLedger(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rows)
}

// RegisterRoutes registers the handler's routes
func (h *DashboardHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/assets/dashboard", h.GetDashboard)
}
