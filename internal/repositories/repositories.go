package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"example.com/mams/internal/access"
	"example.com/mams/internal/models"
)

// GroupedSum is one (base, equipment type) bucket of a movement log.
type GroupedSum struct {
	BaseID        uuid.UUID `gorm:"column:base_id"`
	EquipmentType string    `gorm:"column:equipment_type"`
	Total         int64     `gorm:"column:total"`
}

// scopeMovement applies the common scope filters to a movement query.
// baseColumn names the column holding the base reference; transfers
// pass from_base_id or to_base_id depending on the projection.
func scopeMovement(q *gorm.DB, scope access.Scope, baseColumn string) *gorm.DB {
	if scope.BaseID != nil {
		q = q.Where(baseColumn+" = ?", *scope.BaseID)
	}
	if scope.EquipmentType != "" {
		q = q.Where("equipment_type = ?", scope.EquipmentType)
	}
	if scope.StartDate != nil {
		q = q.Where("date >= ?", *scope.StartDate)
	}
	if scope.EndDate != nil {
		q = q.Where("date <= ?", *scope.EndDate)
	}
	return q
}

// BaseRepository provides access to base data
type BaseRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db, readOnlyDB *gorm.DB) *BaseRepository {
	return &BaseRepository{db: db, readOnlyDB: readOnlyDB}
}

// GetByID gets a base by ID
func (r *BaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Base, error) {
	var base models.Base
	err := r.readOnlyDB.WithContext(ctx).First(&base, "id = ?", id).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get base by ID")
	}
	return &base, nil
}

// NamesByID returns a lookup of base display names
func (r *BaseRepository) NamesByID(ctx context.Context) (map[uuid.UUID]string, error) {
	var bases []models.Base
	if err := r.readOnlyDB.WithContext(ctx).Find(&bases).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list bases")
	}
	names := make(map[uuid.UUID]string, len(bases))
	for _, b := range bases {
		names[b.ID] = b.Name
	}
	return names, nil
}

// UserRepository provides access to user data
type UserRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db, readOnlyDB *gorm.DB) *UserRepository {
	return &UserRepository{db: db, readOnlyDB: readOnlyDB}
}

// GetByEmail gets a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.readOnlyDB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user by email")
	}
	return &user, nil
}

// AssetRepository provides access to baseline records
type AssetRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewAssetRepository creates a new asset repository
func NewAssetRepository(db, readOnlyDB *gorm.DB) *AssetRepository {
	return &AssetRepository{db: db, readOnlyDB: readOnlyDB}
}

// ListInScope enumerates baseline records with their base preloaded.
// The enumeration defines the dashboard's row set; the date range never
// applies here, only base and equipment filters.
func (r *AssetRepository) ListInScope(ctx context.Context, scope access.Scope) ([]models.Asset, error) {
	q := r.readOnlyDB.WithContext(ctx).Preload("Base")
	if scope.BaseID != nil {
		q = q.Where("base_id = ?", *scope.BaseID)
	}
	if scope.EquipmentType != "" {
		q = q.Where("equipment_type = ?", scope.EquipmentType)
	}
	var assets []models.Asset
	if err := q.Find(&assets).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list baseline assets")
	}
	return assets, nil
}

// PurchaseRepository provides access to purchase events
type PurchaseRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db, readOnlyDB *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db, readOnlyDB: readOnlyDB}
}

// List lists purchases in scope, newest first
func (r *PurchaseRepository) List(ctx context.Context, scope access.Scope) ([]models.Purchase, error) {
	var purchases []models.Purchase
	q := scopeMovement(r.readOnlyDB.WithContext(ctx).Model(&models.Purchase{}), scope, "base_id")
	err := q.Preload("Base").Preload("RecordedBy").Order("date DESC").Find(&purchases).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list purchases")
	}
	return purchases, nil
}

// SumGrouped sums purchase quantities by (base, equipment type)
func (r *PurchaseRepository) SumGrouped(ctx context.Context, scope access.Scope) ([]GroupedSum, error) {
	var sums []GroupedSum
	q := scopeMovement(r.readOnlyDB.WithContext(ctx).Model(&models.Purchase{}), scope, "base_id")
	err := q.Select("base_id, equipment_type, SUM(quantity) AS total").
		Group("base_id, equipment_type").
		Scan(&sums).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to sum purchases")
	}
	return sums, nil
}

// TransferRepository provides access to transfer events
type TransferRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewTransferRepository creates a new transfer repository
func NewTransferRepository(db, readOnlyDB *gorm.DB) *TransferRepository {
	return &TransferRepository{db: db, readOnlyDB: readOnlyDB}
}

// TransferListFilter carries transfer-specific list filters. Commanders
// see transfers touching their base on either side.
type TransferListFilter struct {
	FromBaseID    *uuid.UUID
	ToBaseID      *uuid.UUID
	EitherBaseID  *uuid.UUID
	EquipmentType string
}

// List lists transfers, newest first
func (r *TransferRepository) List(ctx context.Context, filter TransferListFilter) ([]models.Transfer, error) {
	q := r.readOnlyDB.WithContext(ctx).Model(&models.Transfer{})
	if filter.EitherBaseID != nil {
		q = q.Where("from_base_id = ? OR to_base_id = ?", *filter.EitherBaseID, *filter.EitherBaseID)
	} else {
		if filter.FromBaseID != nil {
			q = q.Where("from_base_id = ?", *filter.FromBaseID)
		}
		if filter.ToBaseID != nil {
			q = q.Where("to_base_id = ?", *filter.ToBaseID)
		}
	}
	if filter.EquipmentType != "" {
		q = q.Where("equipment_type = ?", filter.EquipmentType)
	}
	var transfers []models.Transfer
	err := q.Preload("FromBase").Preload("ToBase").Preload("RecordedBy").
		Order("date DESC").Find(&transfers).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list transfers")
	}
	return transfers, nil
}

// SumGroupedIn sums transfer quantities by destination base
func (r *TransferRepository) SumGroupedIn(ctx context.Context, scope access.Scope) ([]GroupedSum, error) {
	var sums []GroupedSum
	q := scopeMovement(r.readOnlyDB.WithContext(ctx).Model(&models.Transfer{}), scope, "to_base_id")
	err := q.Select("to_base_id AS base_id, equipment_type, SUM(quantity) AS total").
		Group("to_base_id, equipment_type").
		Scan(&sums).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to sum inbound transfers")
	}
	return sums, nil
}

// SumGroupedOut sums transfer quantities by source base
func (r *TransferRepository) SumGroupedOut(ctx context.Context, scope access.Scope) ([]GroupedSum, error) {
	var sums []GroupedSum
	q := scopeMovement(r.readOnlyDB.WithContext(ctx).Model(&models.Transfer{}), scope, "from_base_id")
	err := q.Select("from_base_id AS base_id, equipment_type, SUM(quantity) AS total").
		Group("from_base_id, equipment_type").
		Scan(&sums).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to sum outbound transfers")
	}
	return sums, nil
}

// AssignmentRepository provides access to assignment events
type AssignmentRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db, readOnlyDB *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db, readOnlyDB: readOnlyDB}
}

// List lists assignments in scope, newest first
func (r *AssignmentRepository) List(ctx context.Context, scope access.Scope) ([]models.Assignment, error) {
	var assignments []models.Assignment
	q := scopeMovement(r.readOnlyDB.WithContext(ctx).Model(&models.Assignment{}), scope, "base_id")
	err := q.Preload("Base").Preload("RecordedBy").Order("date DESC").Find(&assignments).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list assignments")
	}
	return assignments, nil
}

// SumGrouped sums assignment quantities by (base, equipment type)
func (r *AssignmentRepository) SumGrouped(ctx context.Context, scope access.Scope) ([]GroupedSum, error) {
	var sums []GroupedSum
	q := scopeMovement(r.readOnlyDB.WithContext(ctx).Model(&models.Assignment{}), scope, "base_id")
	err := q.Select("base_id, equipment_type, SUM(quantity) AS total").
		Group("base_id, equipment_type").
		Scan(&sums).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to sum assignments")
	}
	return sums, nil
}

// ExpenditureRepository provides access to expenditure events
type ExpenditureRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewExpenditureRepository creates a new expenditure repository
func NewExpenditureRepository(db, readOnlyDB *gorm.DB) *ExpenditureRepository {
	return &ExpenditureRepository{db: db, readOnlyDB: readOnlyDB}
}

// SumGrouped sums expended quantities by (base, equipment type)
func (r *ExpenditureRepository) SumGrouped(ctx context.Context, scope access.Scope) ([]GroupedSum, error) {
	var sums []GroupedSum
	q := scopeMovement(r.readOnlyDB.WithContext(ctx).Model(&models.Expenditure{}), scope, "base_id")
	err := q.Select("base_id, equipment_type, SUM(quantity) AS total").
		Group("base_id, equipment_type").
		Scan(&sums).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to sum expenditures")
	}
	return sums, nil
}

// EventWriter persists movement events together with their audit
// record in one database transaction, so a committed event always has
// its provenance row in the outbox.
type EventWriter struct {
	db *gorm.DB
}

// NewEventWriter creates a new event writer
func NewEventWriter(db *gorm.DB) *EventWriter {
	return &EventWriter{db: db}
}

func (w *EventWriter) create(ctx context.Context, event any, audit *models.AuditRecord) error {
	return w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return err
		}
		return tx.Create(audit).Error
	})
}

// CreatePurchase persists a purchase and its audit record
func (w *EventWriter) CreatePurchase(ctx context.Context, p *models.Purchase, audit *models.AuditRecord) error {
	return errors.Wrap(w.create(ctx, p, audit), "failed to create purchase")
}

// CreateTransfer persists a transfer and its audit record
func (w *EventWriter) CreateTransfer(ctx context.Context, t *models.Transfer, audit *models.AuditRecord) error {
	return errors.Wrap(w.create(ctx, t, audit), "failed to create transfer")
}

// CreateAssignment persists an assignment and its audit record
func (w *EventWriter) CreateAssignment(ctx context.Context, a *models.Assignment, audit *models.AuditRecord) error {
	return errors.Wrap(w.create(ctx, a, audit), "failed to create assignment")
}

// CreateExpenditure persists an expenditure and its audit record
func (w *EventWriter) CreateExpenditure(ctx context.Context, e *models.Expenditure, audit *models.AuditRecord) error {
	return errors.Wrap(w.create(ctx, e, audit), "failed to create expenditure")
}

// AuditRepository provides access to the audit outbox
type AuditRepository struct {
	db         *gorm.DB
	readOnlyDB *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db, readOnlyDB *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db, readOnlyDB: readOnlyDB}
}

// GetUnpublished returns audit records not yet drained by the worker
func (r *AuditRepository) GetUnpublished(ctx context.Context, limit int) ([]models.AuditRecord, error) {
	var records []models.AuditRecord
	err := r.readOnlyDB.WithContext(ctx).
		Where("published = ?", false).
		Order("timestamp ASC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to get unpublished audit records")
	}
	return records, nil
}

// MarkPublished marks an audit record as drained
func (r *AuditRepository) MarkPublished(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.AuditRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"published": true, "published_at": gorm.Expr("NOW()")})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to mark audit record published")
	}
	if result.RowsAffected == 0 {
		return errors.New("no audit record updated")
	}
	return nil
}
