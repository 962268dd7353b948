package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"example.com/mams/internal/apperrors"
	"example.com/mams/internal/metrics"
	"example.com/mams/internal/models"
)

// OutboxStore reads and updates the audit outbox
type OutboxStore interface {
	GetUnpublished(ctx context.Context, limit int) ([]models.AuditRecord, error)
	MarkPublished(ctx context.Context, id uuid.UUID) error
}

// AuditPublisher pushes drained records to the downstream queue
type AuditPublisher interface {
	SendMessage(ctx context.Context, body interface{}) error
}

// AuditIndexer projects drained records into the search index
type AuditIndexer interface {
	IndexAuditRecord(ctx context.Context, record *models.AuditRecord) error
}

// AuditSearcher queries the audit search index
type AuditSearcher interface {
	SearchAuditRecords(ctx context.Context, query map[string]interface{}) ([]map[string]interface{}, error)
}

// AuditService drains the audit outbox: each unpublished record is
// published to the service bus and indexed for search, then marked
// published. A record that fails either step stays in the outbox for
// the next drain, so provenance is never silently lost.
type AuditService struct {
	outbox    OutboxStore
	publisher AuditPublisher
	indexer   AuditIndexer
	searcher  AuditSearcher
	metrics   *metrics.Metrics
	batchSize int
}

// NewAuditService creates a new audit service. publisher, indexer and
// searcher may be nil when the corresponding backend is not configured;
// nil stages are skipped.
func NewAuditService(outbox OutboxStore, publisher AuditPublisher, indexer AuditIndexer, searcher AuditSearcher, collector *metrics.Metrics, batchSize int) *AuditService {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &AuditService{
		outbox:    outbox,
		publisher: publisher,
		indexer:   indexer,
		searcher:  searcher,
		metrics:   collector,
		batchSize: batchSize,
	}
}

// DrainOutbox processes one batch of unpublished audit records.
// Per-record failures are logged and skipped; the batch continues.
func (s *AuditService) DrainOutbox(ctx context.Context) error {
	records, err := s.outbox.GetUnpublished(ctx, s.batchSize)
	if err != nil {
		return apperrors.Wrap(err, apperrors.KindUnavailable, "failed to read audit outbox")
	}

	if len(records) == 0 {
		return nil
	}
	log.Info().Int("count", len(records)).Msg("Draining audit outbox")

	for i := range records {
		record := &records[i]

		if s.publisher != nil {
			if err := s.publisher.SendMessage(ctx, record); err != nil {
				log.Error().Err(err).Str("audit_id", record.ID.String()).Msg("Failed to publish audit record")
				s.metrics.IncrementCounter("audit.publish_error")
				continue
			}
		}

		if s.indexer != nil {
			if err := s.indexer.IndexAuditRecord(ctx, record); err != nil {
				log.Error().Err(err).Str("audit_id", record.ID.String()).Msg("Failed to index audit record")
				s.metrics.IncrementCounter("audit.index_error")
				continue
			}
		}

		if err := s.outbox.MarkPublished(ctx, record.ID); err != nil {
			log.Error().Err(err).Str("audit_id", record.ID.String()).Msg("Failed to mark audit record published")
			s.metrics.IncrementCounter("audit.mark_error")
			continue
		}

		s.metrics.IncrementCounter("audit.drained")
	}

	return nil
}

// Search queries the audit index with optional action and actor
// filters.
func (s *AuditService) Search(ctx context.Context, action, actorID string, size int) ([]map[string]interface{}, error) {
	if s.searcher == nil {
		return nil, apperrors.New(apperrors.KindUnavailable, "audit search is not configured")
	}
	if size <= 0 || size > 500 {
		size = 50
	}

	must := []map[string]interface{}{}
	if action != "" {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"action": action}})
	}
	if actorID != "" {
		must = append(must, map[string]interface{}{"term": map[string]interface{}{"actor_id": actorID}})
	}

	query := map[string]interface{}{
		"size": size,
		"sort": []map[string]interface{}{{"timestamp": map[string]interface{}{"order": "desc"}}},
	}
	if len(must) > 0 {
		query["query"] = map[string]interface{}{"bool": map[string]interface{}{"must": must}}
	}

	docs, err := s.searcher.SearchAuditRecords(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.KindUnavailable, "audit search failed")
	}
	return docs, nil
}
