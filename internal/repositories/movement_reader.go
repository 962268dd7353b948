package repositories

import (
	"context"

	"gorm.io/gorm"

	"example.com/mams/internal/access"
	"example.com/mams/internal/models"
)

// MovementReader serves the movement listing endpoints
type MovementReader struct {
	purchases   *PurchaseRepository
	transfers   *TransferRepository
	assignments *AssignmentRepository
}

// NewMovementReader creates a new movement reader
func NewMovementReader(db, readOnlyDB *gorm.DB) *MovementReader {
	return &MovementReader{
		purchases:   NewPurchaseRepository(db, readOnlyDB),
		transfers:   NewTransferRepository(db, readOnlyDB),
		assignments: NewAssignmentRepository(db, readOnlyDB),
	}
}

// ListPurchases lists purchases in scope, newest first
func (r *MovementReader) ListPurchases(ctx context.Context, scope access.Scope) ([]models.Purchase, error) {
	return r.purchases.List(ctx, scope)
}

// ListTransfers lists transfers matching the filter, newest first
func (r *MovementReader) ListTransfers(ctx context.Context, filter TransferListFilter) ([]models.Transfer, error) {
	return r.transfers.List(ctx, filter)
}

// ListAssignments lists assignments in scope, newest first
func (r *MovementReader) ListAssignments(ctx context.Context, scope access.Scope) ([]models.Assignment, error) {
	return r.assignments.List(ctx, scope)
}
