package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"example.com/mams/internal/access"
	"example.com/mams/internal/api/middleware"
	"example.com/mams/internal/models"
	"example.com/mams/internal/services"
)

// PurchaseHandler handles purchase requests
type PurchaseHandler struct {
	movementService *services.MovementService
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(movementService *services.MovementService) *PurchaseHandler {
	return &PurchaseHandler{movementService: movementService}
}

// CreatePurchaseRequest is the purchase creation payload
type CreatePurchaseRequest struct {
	BaseID        uuid.UUID  `json:"baseId" binding:"required"`
	EquipmentType string     `json:"equipmentType" binding:"required"`
	Quantity      int64      `json:"quantity" binding:"required,gt=0"`
	Date          *time.Time `json:"date"`
}

// CreatePurchase records a new purchase
func (h *PurchaseHandler) CreatePurchase(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "baseId, equipmentType and a positive quantity are required")
		return
	}

	purchase, err := h.movementService.CreatePurchase(c.Request.Context(), actor, services.PurchaseInput{
		BaseID:        req.BaseID,
		EquipmentType: req.EquipmentType,
		Quantity:      req.Quantity,
		Date:          req.Date,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, purchase)
}

// ListPurchases lists purchases visible to the caller
func (h *PurchaseHandler) ListPurchases(c *gin.Context) {
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

	purchases, err := h.movementService.ListPurchases(c.Request.Context(), actor, access.Scope{
		BaseID:        baseID,
		EquipmentType: c.Query("equipmentType"),
		StartDate:     startDate,
		EndDate:       endDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, purchases)
}

// RegisterRoutes registers the handler's routes
func (h *PurchaseHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/purchases",
		middleware.RequireRole(models.RoleAdmin, models.RoleLogistics),
		h.CreatePurchase)
	api.GET("/purchases", h.ListPurchases)
}
