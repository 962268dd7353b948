package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"example.com/mams/internal/api/middleware"
	"example.com/mams/internal/models"
	"example.com/mams/internal/repositories"
	"example.com/mams/internal/services"
)

// TransferHandler handles transfer requests
type TransferHandler struct {
	movementService *services.MovementService
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(movementService *services.MovementService) *TransferHandler {
	return &TransferHandler{movementService: movementService}
}

// CreateTransferRequest is the transfer creation payload
type CreateTransferRequest struct {
	FromBaseID    uuid.UUID  `json:"fromBaseId" binding:"required"`
	ToBaseID      uuid.UUID  `json:"toBaseId" binding:"required"`
	EquipmentType string     `json:"equipmentType" binding:"required"`
	Quantity      int64      `json:"quantity" binding:"required,gt=0"`
	Date          *time.Time `json:"date"`
}

// CreateTransfer records a transfer between two bases
func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "fromBaseId, toBaseId, equipmentType and a positive quantity are required")
		return
	}

	transfer, err := h.movementService.CreateTransfer(c.Request.Context(), actor, services.TransferInput{
		FromBaseID:    req.FromBaseID,
		ToBaseID:      req.ToBaseID,
		EquipmentType: req.EquipmentType,
		Quantity:      req.Quantity,
		Date:          req.Date,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, transfer)
}

// ListTransfers lists transfers visible to the caller
func (h *TransferHandler) ListTransfers(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	fromBaseID, err := parseOptionalUUID(c.Query("fromBaseId"))
	if err != nil {
		respondError(c, err)
		return
	}
	toBaseID, err := parseOptionalUUID(c.Query("toBaseId"))
	if err != nil {
		respondError(c, err)
		return
	}

	transfers, err := h.movementService.ListTransfers(c.Request.Context(), actor, repositories.TransferListFilter{
		FromBaseID:    fromBaseID,
		ToBaseID:      toBaseID,
		EquipmentType: c.Query("equipmentType"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, transfers)
}

// RegisterRoutes registers the handler's routes
func (h *TransferHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/transfers",
		middleware.RequireRole(models.RoleAdmin, models.RoleLogistics),
		h.CreateTransfer)
	api.GET("/transfers", h.ListTransfers)
}
