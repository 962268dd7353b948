package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"example.com/mams/internal/apperrors"
	"example.com/mams/internal/metrics"
	"example.com/mams/internal/models"
)

// Mock outbox store for testing
type MockOutboxStore struct {
	mock.Mock
}

func (m *MockOutboxStore) GetUnpublished(ctx context.Context, limit int) ([]models.AuditRecord, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.AuditRecord), args.Error(1)
}

func (m *MockOutboxStore) MarkPublished(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock publisher for testing
type MockAuditPublisher struct {
	mock.Mock
}

func (m *MockAuditPublisher) SendMessage(ctx context.Context, body interface{}) error {
	args := m.Called(ctx, body)
	return args.Error(0)
}

// Mock indexer for testing
type MockAuditIndexer struct {
	mock.Mock
}

func (m *MockAuditIndexer) IndexAuditRecord(ctx context.Context, record *models.AuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

// Mock searcher for testing
type MockAuditSearcher struct {
	mock.Mock
}

func (m *MockAuditSearcher) SearchAuditRecords(ctx context.Context, query map[string]interface{}) ([]map[string]interface{}, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]map[string]interface{}), args.Error(1)
}

func TestDrainOutboxPublishesIndexesAndMarks(t *testing.T) {
	outbox := new(MockOutboxStore)
	publisher := new(MockAuditPublisher)
	indexer := new(MockAuditIndexer)

	record := models.AuditRecord{ID: uuid.New(), Action: models.ActionCreatePurchase}
	outbox.On("GetUnpublished", mock.Anything, 100).Return([]models.AuditRecord{record}, nil)
	publisher.On("SendMessage", mock.Anything, mock.Anything).Return(nil)
	indexer.On("IndexAuditRecord", mock.Anything, mock.AnythingOfType("*models.AuditRecord")).Return(nil)
	outbox.On("MarkPublished", mock.Anything, record.ID).Return(nil)

	service := NewAuditService(outbox, publisher, indexer, nil, metrics.NewMetrics(), 0)

	err := service.DrainOutbox(context.Background())

	require.NoError(t, err)
	outbox.AssertExpectations(t)
	publisher.AssertExpectations(t)
	indexer.AssertExpectations(t)
}

func TestDrainOutboxKeepsRecordOnPublishFailure(t *testing.T) {
	outbox := new(MockOutboxStore)
	publisher := new(MockAuditPublisher)

	record := models.AuditRecord{ID: uuid.New(), Action: models.ActionCreateTransfer}
	outbox.On("GetUnpublished", mock.Anything, 100).Return([]models.AuditRecord{record}, nil)
	publisher.On("SendMessage", mock.Anything, mock.Anything).Return(errors.New("queue unavailable"))

	service := NewAuditService(outbox, publisher, nil, nil, metrics.NewMetrics(), 0)

	err := service.DrainOutbox(context.Background())

	require.NoError(t, err)
	outbox.AssertNotCalled(t, "MarkPublished", mock.Anything, mock.Anything)
}

func TestDrainOutboxContinuesPastFailedRecord(t *testing.T) {
	outbox := new(MockOutboxStore)
	publisher := new(MockAuditPublisher)

	failing := models.AuditRecord{ID: uuid.New(), Action: models.ActionCreatePurchase}
	healthy := models.AuditRecord{ID: uuid.New(), Action: models.ActionCreateExpenditure}
	outbox.On("GetUnpublished", mock.Anything, 100).Return([]models.AuditRecord{failing, healthy}, nil)
	publisher.On("SendMessage", mock.Anything, mock.MatchedBy(func(body interface{}) bool {
		return body.(*models.AuditRecord).ID == failing.ID
	})).Return(errors.New("queue unavailable"))
	publisher.On("SendMessage", mock.Anything, mock.MatchedBy(func(body interface{}) bool {
		return body.(*models.AuditRecord).ID == healthy.ID
	})).Return(nil)
	outbox.On("MarkPublished", mock.Anything, healthy.ID).Return(nil)

	service := NewAuditService(outbox, publisher, nil, nil, metrics.NewMetrics(), 0)

	err := service.DrainOutbox(context.Background())

	require.NoError(t, err)
	outbox.AssertExpectations(t)
	outbox.AssertNotCalled(t, "MarkPublished", mock.Anything, failing.ID)
}

func TestDrainOutboxEmptyBatchIsNoop(t *testing.T) {
	outbox := new(MockOutboxStore)
	outbox.On("GetUnpublished", mock.Anything, 100).Return([]models.AuditRecord{}, nil)

	service := NewAuditService(outbox, nil, nil, nil, metrics.NewMetrics(), 0)

	require.NoError(t, service.DrainOutbox(context.Background()))
}

func TestSearchBuildsFilteredQuery(t *testing.T) {
	searcher := new(MockAuditSearcher)
	actorID := uuid.New().String()

	searcher.On("SearchAuditRecords", mock.Anything, mock.MatchedBy(func(query map[string]interface{}) bool {
		boolQuery, ok := query["query"].(map[string]interface{})
		if !ok {
			return false
		}
		must := boolQuery["bool"].(map[string]interface{})["must"].([]map[string]interface{})
		return query["size"] == 50 && len(must) == 2
	})).Return([]map[string]interface{}{{"action": models.ActionCreatePurchase}}, nil)

	service := NewAuditService(nil, nil, nil, searcher, metrics.NewMetrics(), 0)

	docs, err := service.Search(context.Background(), models.ActionCreatePurchase, actorID, 0)

	require.NoError(t, err)
	require.Len(t, docs, 1)
	searcher.AssertExpectations(t)
}

func TestSearchWithoutBackendUnavailable(t *testing.T) {
	service := NewAuditService(nil, nil, nil, nil, metrics.NewMetrics(), 0)

	_, err := service.Search(context.Background(), "", "", 0)

	require.Error(t, err)
	require.Equal(t, apperrors.KindUnavailable, apperrors.KindOf(err))
}
