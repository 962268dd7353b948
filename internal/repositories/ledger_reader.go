package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"example.com/mams/internal/access"
	"example.com/mams/internal/models"
)

// LedgerReader bundles the read queries the dashboard aggregation
// needs behind one type.
type LedgerReader struct {
	assets       *AssetRepository
	purchases    *PurchaseRepository
	transfers    *TransferRepository
	expenditures *ExpenditureRepository
	assignments  *AssignmentRepository
	bases        *BaseRepository
}

// NewLedgerReader creates a new ledger reader over the given databases
func NewLedgerReader(db, readOnlyDB *gorm.DB) *LedgerReader {
	return &LedgerReader{
		assets:       NewAssetRepository(db, readOnlyDB),
		purchases:    NewPurchaseRepository(db, readOnlyDB),
		transfers:    NewTransferRepository(db, readOnlyDB),
		expenditures: NewExpenditureRepository(db, readOnlyDB),
		assignments:  NewAssignmentRepository(db, readOnlyDB),
		bases:        NewBaseRepository(db, readOnlyDB),
	}
}

// ListBaselines enumerates baseline records in scope
func (r *LedgerReader) ListBaselines(ctx context.Context, scope access.Scope) ([]models.Asset, error) {
	return r.assets.ListInScope(ctx, scope)
}

// SumPurchases sums purchases by (base, equipment type)
func (r *LedgerReader) SumPurchases(ctx context.Context, scope access.Scope) ([]GroupedSum, error) {
	return r.purchases.SumGrouped(ctx, scope)
}

// SumTransfersIn sums inbound transfers by destination base
func (r *LedgerReader) SumTransfersIn(ctx context.Context, scope access.Scope) ([]GroupedSum, error) {
	return r.transfers.SumGroupedIn(ctx, scope)
}

// SumTransfersOut sums outbound transfers by source base
func (r *LedgerReader) SumTransfersOut(ctx context.Context, scope access.Scope) ([]GroupedSum, error) {
	return r.transfers.SumGroupedOut(ctx, scope)
}

// SumExpenditures sums expenditures by (base, equipment type)
func (r *LedgerReader) SumExpenditures(ctx context.Context, scope access.Scope) ([]GroupedSum, error) {
	return r.expenditures.SumGrouped(ctx, scope)
}

// SumAssignments sums assignments by (base, equipment type)
func (r *LedgerReader) SumAssignments(ctx context.Context, scope access.Scope) ([]GroupedSum, error) {
	return r.assignments.SumGrouped(ctx, scope)
}

// BaseNames returns a display-name lookup for all bases
func (r *LedgerReader) BaseNames(ctx context.Context) (map[uuid.UUID]string, error) {
	return r.bases.NamesByID(ctx)
}
