package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// User roles. Commanders are pinned to a single base, admins and
// logistics officers operate across all bases.
const (
	RoleAdmin     = "admin"
	RoleCommander = "commander"
	RoleLogistics = "logistics"
)

// Transfer statuses
const (
	TransferPending   = "pending"
	TransferCompleted = "completed"
	TransferCancelled = "cancelled"
)

// Assignment statuses
const (
	AssignmentActive   = "active"
	AssignmentReturned = "returned"
)

// Base represents a physical installation holding inventory
type Base struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"not null;uniqueIndex" json:"name"`
	Location  string         `gorm:"not null" json:"location"`
}

// User represents an operator of the system
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Role         string         `gorm:"not null" json:"role"`
	BaseID       *uuid.UUID     `gorm:"type:uuid" json:"base_id"`
	Base         *Base          `gorm:"foreignKey:BaseID" json:"-"`
}

// Asset declares the opening balance for a (base, equipment type) pair
// at system inception. The dashboard reconstructs every later balance
// from this snapshot plus the movement logs.
type Asset struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	BaseID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_assets_base_equipment" json:"base_id"`
	EquipmentType  string         `gorm:"not null;uniqueIndex:idx_assets_base_equipment" json:"equipment_type"`
	OpeningBalance int64          `gorm:"not null;default:0" json:"opening_balance"`
	Base           Base           `gorm:"foreignKey:BaseID" json:"-"`
}

// Purchase records inventory added to a base
type Purchase struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	BaseID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"base_id"`
	EquipmentType string         `gorm:"not null" json:"equipment_type"`
	Quantity      int64          `gorm:"not null" json:"quantity"`
	Date          time.Time      `gorm:"not null;index" json:"date"`
	RecordedByID  uuid.UUID      `gorm:"type:uuid;not null" json:"recorded_by_id"`
	Base          Base           `gorm:"foreignKey:BaseID" json:"-"`
	RecordedBy    User           `gorm:"foreignKey:RecordedByID" json:"-"`
}

// Transfer records inventory moved between two bases. A single record
// carries both aggregation projections: outflow at the source base and
// inflow at the destination.
type Transfer struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	FromBaseID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"from_base_id"`
	ToBaseID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"to_base_id"`
	EquipmentType string         `gorm:"not null" json:"equipment_type"`
	Quantity      int64          `gorm:"not null" json:"quantity"`
	Date          time.Time      `gorm:"not null;index" json:"date"`
	Status        string         `gorm:"not null;default:completed" json:"status"`
	RecordedByID  uuid.UUID      `gorm:"type:uuid;not null" json:"recorded_by_id"`
	FromBase      Base           `gorm:"foreignKey:FromBaseID" json:"-"`
	ToBase        Base           `gorm:"foreignKey:ToBaseID" json:"-"`
	RecordedBy    User           `gorm:"foreignKey:RecordedByID" json:"-"`
}

// Assignment records inventory checked out to personnel. Assigned items
// stay on the base's books; they are reported alongside the closing
// balance, not subtracted from it.
type Assignment struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	BaseID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"base_id"`
	EquipmentType string         `gorm:"not null" json:"equipment_type"`
	Quantity      int64          `gorm:"not null" json:"quantity"`
	AssignedTo    string         `gorm:"not null" json:"assigned_to"`
	Date          time.Time      `gorm:"not null;index" json:"date"`
	Status        string         `gorm:"not null;default:active" json:"status"`
	RecordedByID  uuid.UUID      `gorm:"type:uuid;not null" json:"recorded_by_id"`
	Base          Base           `gorm:"foreignKey:BaseID" json:"-"`
	RecordedBy    User           `gorm:"foreignKey:RecordedByID" json:"-"`
}

// Expenditure records inventory permanently removed (consumed,
// destroyed, lost)
type Expenditure struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	BaseID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"base_id"`
	EquipmentType string         `gorm:"not null" json:"equipment_type"`
	Quantity      int64          `gorm:"not null" json:"quantity"`
	Reason        string         `json:"reason"`
	Date          time.Time      `gorm:"not null;index" json:"date"`
	RecordedByID  uuid.UUID      `gorm:"type:uuid;not null" json:"recorded_by_id"`
	Base          Base           `gorm:"foreignKey:BaseID" json:"-"`
	RecordedBy    User           `gorm:"foreignKey:RecordedByID" json:"-"`
}

// AuditRecord is the append-only provenance log. Rows double as an
// outbox: they are written in the same transaction as the mutation they
// describe and drained asynchronously by the worker, which publishes
// them to the service bus, indexes them in Elasticsearch and flips
// Published.
type AuditRecord struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Timestamp   time.Time  `gorm:"not null;index" json:"timestamp"`
	Action      string     `gorm:"not null" json:"action"`
	EntityTable string     `gorm:"not null" json:"entity_table"`
	EntityID    uuid.UUID  `gorm:"type:uuid;not null" json:"entity_id"`
	Details     []byte     `gorm:"type:jsonb" json:"details"`
	ActorID     uuid.UUID  `gorm:"type:uuid;not null" json:"actor_id"`
	Published   bool       `gorm:"not null;default:false;index" json:"published"`
	PublishedAt *time.Time `json:"published_at"`
}

// Audit actions
const (
	ActionCreatePurchase    = "CREATE_PURCHASE"
	ActionCreateTransfer    = "CREATE_TRANSFER"
	ActionCreateAssignment  = "CREATE_ASSIGNMENT"
	ActionCreateExpenditure = "CREATE_EXPENDITURE"
)

// SetupModels configures GORM models and runs migrations
func SetupModels(db *gorm.DB) error {
	err := db.AutoMigrate(
		&Base{},
		&User{},
		&Asset{},
		&Purchase{},
		&Transfer{},
		&Assignment{},
		&Expenditure{},
		&AuditRecord{},
	)
	if err != nil {
		return errors.Wrap(err, "failed to run auto migrations")
	}

	return nil
}
