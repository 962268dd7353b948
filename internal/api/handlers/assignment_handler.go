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

// AssignmentHandler handles assignment and expenditure requests
type AssignmentHandler struct {
	movementService *services.MovementService
}

// NewAssignmentHandler creates a new assignment handler
func NewAssignmentHandler(movementService *services.MovementService) *AssignmentHandler {
	return &AssignmentHandler{movementService: movementService}
}

// CreateAssignmentRequest is the assignment creation payload. BaseID may be
// omitted by commanders, whose home base is used instead.
type CreateAssignmentRequest struct {
	BaseID        *uuid.UUID `json:"baseId"`
	EquipmentType string     `json:"equipmentType" binding:"required"`
	Quantity      int64      `json:"quantity" binding:"required,gt=0"`
	AssignedTo    string     `json:"assignedTo" binding:"required"`
	Date          *time.Time `json:"date"`
}

// CreateExpenditureRequest is the expenditure creation payload
type CreateExpenditureRequest struct {
	BaseID        *uuid.UUID `json:"baseId"`
	EquipmentType string     `json:"equipmentType" binding:"required"`
	Quantity      int64      `json:"quantity" binding:"required,gt=0"`
	Reason        string     `json:"reason"`
	Date          *time.Time `json:"date"`
}

// CreateAssignment assigns assets to personnel
func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "equipmentType, assignedTo and a positive quantity are required")
		return
	}

	assignment, err := h.movementService.CreateAssignment(c.Request.Context(), actor, services.AssignmentInput{
		BaseID:        req.BaseID,
		EquipmentType: req.EquipmentType,
		Quantity:      req.Quantity,
		AssignedTo:    req.AssignedTo,
		Date:          req.Date,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// CreateExpenditure records assets as expended
func (h *AssignmentHandler) CreateExpenditure(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req CreateExpenditureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "equipmentType and a positive quantity are required")
		return
	}

	expenditure, err := h.movementService.CreateExpenditure(c.Request.Context(), actor, services.ExpenditureInput{
		BaseID:        req.BaseID,
		EquipmentType: req.EquipmentType,
		Quantity:      req.Quantity,
		Reason:        req.Reason,
		Date:          req.Date,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, expenditure)
}

// ListAssignments lists assignments visible to the caller
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
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

	assignments, err := h.movementService.ListAssignments(c.Request.Context(), actor, access.Scope{
		BaseID:        baseID,
		EquipmentType: c.Query("equipmentType"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, assignments)
}

// RegisterRoutes registers the handler's routes
func (h *AssignmentHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/assignments",
		middleware.RequireRole(models.RoleAdmin, models.RoleCommander),
		h.CreateAssignment)
	api.GET("/assignments", h.ListAssignments)
	api.POST("/assignments/expend",
		middleware.RequireRole(models.RoleAdmin, models.RoleCommander),
		h.CreateExpenditure)
}
