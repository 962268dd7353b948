package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"example.com/mams/internal/access"
	"example.com/mams/internal/apperrors"
	"example.com/mams/internal/cache"
	"example.com/mams/internal/ledger"
	"example.com/mams/internal/metrics"
	"example.com/mams/internal/models"
	"example.com/mams/internal/repositories"
	"example.com/mams/internal/tracing"
)

// LedgerStore is the read surface the aggregator needs: the baseline
// enumeration and the five grouped movement sums.
type LedgerStore interface {
	ListBaselines(ctx context.Context, scope access.Scope) ([]models.Asset, error)
	SumPurchases(ctx context.Context, scope access.Scope) ([]repositories.GroupedSum, error)
	SumTransfersIn(ctx context.Context, scope access.Scope) ([]repositories.GroupedSum, error)
	SumTransfersOut(ctx context.Context, scope access.Scope) ([]repositories.GroupedSum, error)
	SumExpenditures(ctx context.Context, scope access.Scope) ([]repositories.GroupedSum, error)
	SumAssignments(ctx context.Context, scope access.Scope) ([]repositories.GroupedSum, error)
	BaseNames(ctx context.Context) (map[uuid.UUID]string, error)
}

// LedgerOptions tunes the aggregation
type LedgerOptions struct {
	CacheTTL           time.Duration
	IncludeUnbaselined bool
	ReadRetries        int
}

// LedgerService computes reconciled dashboard rows
type LedgerService struct {
	store   LedgerStore
	cache   *cache.RedisCache
	metrics *metrics.Metrics
	tracer  tracing.Tracer
	opts    LedgerOptions
}

// NewLedgerService creates a new ledger service
func NewLedgerService(store LedgerStore, redisCache *cache.RedisCache, collector *metrics.Metrics, tracer tracing.Tracer, opts LedgerOptions) *LedgerService {
	if opts.ReadRetries <= 0 {
		opts.ReadRetries = 3
	}
	return &LedgerService{
		store:   store,
		cache:   redisCache,
		metrics: collector,
		tracer:  tracer,
		opts:    opts,
	}
}

// DashboardRequest is the caller-supplied dashboard filter, before the
// access scoper is applied.
type DashboardRequest struct {
	BaseID             *uuid.UUID
	EquipmentType      string
	StartDate          *time.Time
	EndDate            *time.Time
	IncludeUnbaselined *bool
}

// ComputeLedger resolves the caller's effective scope, runs the
// baseline enumeration and the five grouped sums concurrently, and
// merges them into reconciled rows. Read-only; all-or-nothing on store
// failure.
func (s *LedgerService) ComputeLedger(ctx context.Context, actor access.Actor, req DashboardRequest) ([]ledger.Row, error) {
	txn := s.tracer.StartTransaction("compute-ledger")
	defer s.tracer.EndTransaction(txn)
	started := time.Now()

	scope, err := access.ResolveRead(actor, access.Scope{
		BaseID:        req.BaseID,
		EquipmentType: req.EquipmentType,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	})
	if err != nil {
		s.tracer.RecordError(txn, err)
		return nil, err
	}

	includeUnbaselined := s.opts.IncludeUnbaselined
	if req.IncludeUnbaselined != nil {
		includeUnbaselined = *req.IncludeUnbaselined
	}

	cacheKey := cache.DashboardCacheKey(scope, includeUnbaselined)
	var cached []ledger.Row
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
		s.metrics.IncrementCounter("dashboard.cache_hit")
		return cached, nil
	}

	// The date range scopes movements only; baselines are the system
	// state at t0 and are never filtered by date.
	baselineScope := access.Scope{BaseID: scope.BaseID, EquipmentType: scope.EquipmentType}

	var (
		baselines                                    []models.Asset
		purchases, tIn, tOut, expenditures, assigned []repositories.GroupedSum
		baseNames                                    map[uuid.UUID]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.withRetry(gctx, "baselines", func() error {
			var err error
			baselines, err = s.store.ListBaselines(gctx, baselineScope)
			return err
		})
	})
	g.Go(func() error {
		return s.withRetry(gctx, "purchases", func() error {
			var err error
			purchases, err = s.store.SumPurchases(gctx, scope)
			return err
		})
	})
	g.Go(func() error {
		return s.withRetry(gctx, "transfers_in", func() error {
			var err error
			tIn, err = s.store.SumTransfersIn(gctx, scope)
			return err
		})
	})
	g.Go(func() error {
		return s.withRetry(gctx, "transfers_out", func() error {
			var err error
			tOut, err = s.store.SumTransfersOut(gctx, scope)
			return err
		})
	})
	g.Go(func() error {
		return s.withRetry(gctx, "expenditures", func() error {
			var err error
			expenditures, err = s.store.SumExpenditures(gctx, scope)
			return err
		})
	})
	g.Go(func() error {
		return s.withRetry(gctx, "assignments", func() error {
			var err error
			assigned, err = s.store.SumAssignments(gctx, scope)
			return err
		})
	})
	if includeUnbaselined {
		g.Go(func() error {
			return s.withRetry(gctx, "base_names", func() error {
				var err error
				baseNames, err = s.store.BaseNames(gctx)
				return err
			})
		})
	}

	if err := g.Wait(); err != nil {
		s.tracer.RecordError(txn, err)
		s.metrics.IncrementCounter("dashboard.store_error")
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "dashboard aggregation failed")
	}

	baselineRows := make([]ledger.Row, 0, len(baselines))
	for _, a := range baselines {
		baselineRows = append(baselineRows, ledger.Row{
			Key:            ledger.Key{BaseID: a.BaseID, EquipmentType: a.EquipmentType},
			BaseName:       a.Base.Name,
			OpeningBalance: a.OpeningBalance,
		})
	}

	deltas := make([]ledger.Delta, 0, len(purchases)+len(tIn)+len(tOut)+len(expenditures)+len(assigned))
	deltas = appendDeltas(deltas, purchases, ledger.FieldPurchases)
	deltas = appendDeltas(deltas, tIn, ledger.FieldTransfersIn)
	deltas = appendDeltas(deltas, tOut, ledger.FieldTransfersOut)
	deltas = appendDeltas(deltas, expenditures, ledger.FieldExpended)
	deltas = appendDeltas(deltas, assigned, ledger.FieldAssigned)

	rows := ledger.Merge(baselineRows, deltas, ledger.Options{
		IncludeUnbaselined: includeUnbaselined,
		BaseName: func(id uuid.UUID) string {
			return baseNames[id]
		},
	})

	if err := s.cache.Set(ctx, cacheKey, rows, s.opts.CacheTTL); err != nil {
		log.Debug().Err(err).Msg("dashboard rows not cached")
	}

	s.metrics.IncrementCounter("dashboard.computed")
	s.metrics.RecordTime("dashboard.compute", time.Since(started))
	return rows, nil
}

func appendDeltas(deltas []ledger.Delta, sums []repositories.GroupedSum, field ledger.Field) []ledger.Delta {
	for _, sum := range sums {
		deltas = append(deltas, ledger.Delta{
			Key:      ledger.Key{BaseID: sum.BaseID, EquipmentType: sum.EquipmentType},
			Field:    field,
			Quantity: sum.Total,
		})
	}
	return deltas
}

// withRetry retries a read on transient store failure with linear
// backoff, honoring context cancellation.
func (s *LedgerService) withRetry(ctx context.Context, name string, fn func() error) error {
	var err error
	for attempt := 0; attempt < s.opts.ReadRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(attempt) * 100 * time.Millisecond):
			}
			s.metrics.IncrementCounter("dashboard.read_retry")
		}
		if err = fn(); err == nil {
			return nil
		}
		log.Warn().Err(err).Str("read", name).Int("attempt", attempt+1).Msg("dashboard read failed")
	}
	return err
}
