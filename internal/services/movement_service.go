package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"example.com/mams/internal/access"
	"example.com/mams/internal/apperrors"
	"example.com/mams/internal/metrics"
	"example.com/mams/internal/models"
	"example.com/mams/internal/repositories"
	"example.com/mams/internal/tracing"
)

// EventStore persists a movement event together with its audit record.
// Implementations must commit both atomically or neither.
type EventStore interface {
	CreatePurchase(ctx context.Context, p *models.Purchase, audit *models.AuditRecord) error
	CreateTransfer(ctx context.Context, t *models.Transfer, audit *models.AuditRecord) error
	CreateAssignment(ctx context.Context, a *models.Assignment, audit *models.AuditRecord) error
	CreateExpenditure(ctx context.Context, e *models.Expenditure, audit *models.AuditRecord) error
}

// MovementLister serves the movement listing endpoints
type MovementLister interface {
	ListPurchases(ctx context.Context, scope access.Scope) ([]models.Purchase, error)
	ListTransfers(ctx context.Context, filter repositories.TransferListFilter) ([]models.Transfer, error)
	ListAssignments(ctx context.Context, scope access.Scope) ([]models.Assignment, error)
}

// MovementService records purchases, transfers, assignments and
// expenditures, each with a provenance record written in the same
// transaction.
type MovementService struct {
	store   EventStore
	lister  MovementLister
	metrics *metrics.Metrics
	tracer  tracing.Tracer
}

// NewMovementService creates a new movement service
func NewMovementService(store EventStore, lister MovementLister, collector *metrics.Metrics, tracer tracing.Tracer) *MovementService {
	return &MovementService{
		store:   store,
		lister:  lister,
		metrics: collector,
		tracer:  tracer,
	}
}

// PurchaseInput carries a validated purchase request
type PurchaseInput struct {
	BaseID        uuid.UUID
	EquipmentType string
	Quantity      int64
	Date          *time.Time
}

// TransferInput carries a validated transfer request
type TransferInput struct {
	FromBaseID    uuid.UUID
	ToBaseID      uuid.UUID
	EquipmentType string
	Quantity      int64
	Date          *time.Time
}

// AssignmentInput carries a validated assignment request
type AssignmentInput struct {
	BaseID        *uuid.UUID
	EquipmentType string
	Quantity      int64
	AssignedTo    string
	Date          *time.Time
}

// ExpenditureInput carries a validated expenditure request
type ExpenditureInput struct {
	BaseID        *uuid.UUID
	EquipmentType string
	Quantity      int64
	Reason        string
	Date          *time.Time
}

func eventDate(d *time.Time) time.Time {
	if d != nil {
		return *d
	}
	return time.Now()
}

func auditRecord(action, table string, entityID, actorID uuid.UUID, entity any) *models.AuditRecord {
	details, err := json.Marshal(entity)
	if err != nil {
		// Details are best-effort; the record itself still lands.
		log.Warn().Err(err).Str("action", action).Msg("could not marshal audit details")
		details = nil
	}
	return &models.AuditRecord{
		ID:          uuid.New(),
		Timestamp:   time.Now(),
		Action:      action,
		EntityTable: table,
		EntityID:    entityID,
		Details:     details,
		ActorID:     actorID,
	}
}

// CreatePurchase records a purchase at a base
func (s *MovementService) CreatePurchase(ctx context.Context, actor access.Actor, in PurchaseInput) (*models.Purchase, error) {
	txn := s.tracer.StartTransaction("create-purchase")
	defer s.tracer.EndTransaction(txn)

	if in.Quantity <= 0 {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "quantity must be positive")
	}

	purchase := &models.Purchase{
		ID:            uuid.New(),
		BaseID:        in.BaseID,
		EquipmentType: in.EquipmentType,
		Quantity:      in.Quantity,
		Date:          eventDate(in.Date),
		RecordedByID:  actor.ID,
	}

	audit := auditRecord(models.ActionCreatePurchase, "purchases", purchase.ID, actor.ID, purchase)
	if err := s.store.CreatePurchase(ctx, purchase, audit); err != nil {
		s.tracer.RecordError(txn, err)
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to record purchase")
	}

	s.metrics.IncrementCounter("movements.purchases")
	log.Info().
		Str("purchase_id", purchase.ID.String()).
		Str("base_id", purchase.BaseID.String()).
		Int64("quantity", purchase.Quantity).
		Msg("Purchase recorded")
	return purchase, nil
}

// CreateTransfer records a transfer between two distinct bases
func (s *MovementService) CreateTransfer(ctx context.Context, actor access.Actor, in TransferInput) (*models.Transfer, error) {
	txn := s.tracer.StartTransaction("create-transfer")
	defer s.tracer.EndTransaction(txn)

	if in.Quantity <= 0 {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "quantity must be positive")
	}
	if in.FromBaseID == in.ToBaseID {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "source and destination base must differ")
	}

	transfer := &models.Transfer{
		ID:            uuid.New(),
		FromBaseID:    in.FromBaseID,
		ToBaseID:      in.ToBaseID,
		EquipmentType: in.EquipmentType,
		Quantity:      in.Quantity,
		Date:          eventDate(in.Date),
		Status:        models.TransferCompleted,
		RecordedByID:  actor.ID,
	}

	audit := auditRecord(models.ActionCreateTransfer, "transfers", transfer.ID, actor.ID, transfer)
	if err := s.store.CreateTransfer(ctx, transfer, audit); err != nil {
		s.tracer.RecordError(txn, err)
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to record transfer")
	}

	s.metrics.IncrementCounter("movements.transfers")
	log.Info().
		Str("transfer_id", transfer.ID.String()).
		Str("from_base_id", transfer.FromBaseID.String()).
		Str("to_base_id", transfer.ToBaseID.String()).
		Int64("quantity", transfer.Quantity).
		Msg("Transfer recorded")
	return transfer, nil
}

// CreateAssignment checks inventory out to personnel. Commanders are
// restricted to their own base.
func (s *MovementService) CreateAssignment(ctx context.Context, actor access.Actor, in AssignmentInput) (*models.Assignment, error) {
	txn := s.tracer.StartTransaction("create-assignment")
	defer s.tracer.EndTransaction(txn)

	if in.Quantity <= 0 {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "quantity must be positive")
	}
	baseID, err := access.ResolveWriteBase(actor, in.BaseID)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	assignment := &models.Assignment{
		ID:            uuid.New(),
		BaseID:        baseID,
		EquipmentType: in.EquipmentType,
		Quantity:      in.Quantity,
		AssignedTo:    in.AssignedTo,
		Date:          eventDate(in.Date),
		Status:        models.AssignmentActive,
		RecordedByID:  actor.ID,
	}

	audit := auditRecord(models.ActionCreateAssignment, "assignments", assignment.ID, actor.ID, assignment)
	if err := s.store.CreateAssignment(ctx, assignment, audit); err != nil {
		s.tracer.RecordError(txn, err)
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to record assignment")
	}

	s.metrics.IncrementCounter("movements.assignments")
	log.Info().
		Str("assignment_id", assignment.ID.String()).
		Str("base_id", assignment.BaseID.String()).
		Str("assigned_to", assignment.AssignedTo).
		Msg("Assignment recorded")
	return assignment, nil
}

// CreateExpenditure permanently removes inventory from a base.
// Commanders are restricted to their own base.
func (s *MovementService) CreateExpenditure(ctx context.Context, actor access.Actor, in ExpenditureInput) (*models.Expenditure, error) {
	txn := s.tracer.StartTransaction("create-expenditure")
	defer s.tracer.EndTransaction(txn)

	if in.Quantity <= 0 {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "quantity must be positive")
	}
	baseID, err := access.ResolveWriteBase(actor, in.BaseID)
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	expenditure := &models.Expenditure{
		ID:            uuid.New(),
		BaseID:        baseID,
		EquipmentType: in.EquipmentType,
		Quantity:      in.Quantity,
		Reason:        in.Reason,
		Date:          eventDate(in.Date),
		RecordedByID:  actor.ID,
	}

	audit := auditRecord(models.ActionCreateExpenditure, "expenditures", expenditure.ID, actor.ID, expenditure)
	if err := s.store.CreateExpenditure(ctx, expenditure, audit); err != nil {
		s.tracer.RecordError(txn, err)
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to record expenditure")
	}

	s.metrics.IncrementCounter("movements.expenditures")
	log.Info().
		Str("expenditure_id", expenditure.ID.String()).
		Str("base_id", expenditure.BaseID.String()).
		Str("reason", expenditure.Reason).
		Msg("Expenditure recorded")
	return expenditure, nil
}

// ListPurchases lists purchases visible to the actor
func (s *MovementService) ListPurchases(ctx context.Context, actor access.Actor, requested access.Scope) ([]models.Purchase, error) {
	scope, err := access.ResolveRead(actor, requested)
	if err != nil {
		return nil, err
	}
	purchases, err := s.lister.ListPurchases(ctx, scope)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to list purchases")
	}
	return purchases, nil
}

// ListTransfers lists transfers visible to the actor. Commanders see
// transfers touching their base on either side.
func (s *MovementService) ListTransfers(ctx context.Context, actor access.Actor, filter repositories.TransferListFilter) ([]models.Transfer, error) {
	if actor.Role == models.RoleCommander {
		if actor.BaseID == nil {
			return nil, apperrors.New(apperrors.KindForbidden, "commander has no assigned base")
		}
		filter = repositories.TransferListFilter{
			EitherBaseID:  actor.BaseID,
			EquipmentType: filter.EquipmentType,
		}
	}
	transfers, err := s.lister.ListTransfers(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to list transfers")
	}
	return transfers, nil
}

// ListAssignments lists assignments visible to the actor
func (s *MovementService) ListAssignments(ctx context.Context, actor access.Actor, requested access.Scope) ([]models.Assignment, error) {
	scope, err := access.ResolveRead(actor, requested)
	if err != nil {
		return nil, err
	}
	assignments, err := s.lister.ListAssignments(ctx, scope)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "failed to list assignments")
	}
	return assignments, nil
}
