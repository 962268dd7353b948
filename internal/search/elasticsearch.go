package search

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"example.com/mams/config"
	"example.com/mams/internal/models"
)

// ElasticClient indexes drained audit records for search
type ElasticClient struct {
	client *elasticsearch.Client
	config config.ElasticConfig
}

// NewElasticClient creates a new Elasticsearch client
func NewElasticClient(cfg config.ElasticConfig) (*ElasticClient, error) {
	esConfig := elasticsearch.Config{
		Addresses: []string{cfg.URL},
		Username:  cfg.Username,
		Password:  cfg.Password,
	}

	client, err := elasticsearch.NewClient(esConfig)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Elasticsearch client")
	}

	return &ElasticClient{client: client, config: cfg}, nil
}

// IndexAuditRecord indexes an audit record. The record ID doubles as
// the document ID so re-drained records overwrite rather than
// duplicate.
func (c *ElasticClient) IndexAuditRecord(ctx context.Context, record *models.AuditRecord) error {
	if c == nil {
		return errors.New("search is disabled")
	}

	doc := map[string]interface{}{
		"id":           record.ID.String(),
		"timestamp":    record.Timestamp,
		"action":       record.Action,
		"entity_table": record.EntityTable,
		"entity_id":    record.EntityID.String(),
		"actor_id":     record.ActorID.String(),
	}
	if len(record.Details) > 0 {
		var details map[string]interface{}
		if err := json.Unmarshal(record.Details, &details); err != nil {
			log.Warn().Err(err).Str("audit_id", record.ID.String()).Msg("could not unmarshal audit details")
		} else {
			doc["details"] = details
		}
	}

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "failed to marshal audit document")
	}

	indexName := config.FormatIndex(c.config, c.config.Index)
	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: record.ID.String(),
		Body:       bytes.NewReader(docJSON),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return errors.Wrap(err, "failed to execute Elasticsearch index request")
	}
	defer res.Body.Close()

	if res.IsError() {
		var e map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&e); err != nil {
			return errors.Wrap(err, "failed to parse Elasticsearch error response")
		}
		return errors.Errorf("Elasticsearch index error: %v", e)
	}

	return nil
}

// SearchAuditRecords searches the audit index with the given query
func (c *ElasticClient) SearchAuditRecords(ctx context.Context, query map[string]interface{}) ([]map[string]interface{}, error) {
	if c == nil {
		return nil, errors.New("search is disabled")
	}

	queryJSON, err := json.Marshal(query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal search query")
	}

	indexName := config.FormatIndex(c.config, c.config.Index)
	req := esapi.SearchRequest{
		Index: []string{indexName},
		Body:  bytes.NewReader(queryJSON),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute Elasticsearch search request")
	}
	defer res.Body.Close()

	if res.IsError() {
		var e map[string]interface{}
		if err := json.NewDecoder(res.Body).Decode(&e); err != nil {
			return nil, errors.Wrap(err, "failed to parse Elasticsearch error response")
		}
		return nil, errors.Errorf("Elasticsearch search error: %v", e)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, errors.Wrap(err, "failed to parse Elasticsearch search response")
	}

	hits, ok := result["hits"].(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected search result format")
	}
	hitsArray, ok := hits["hits"].([]interface{})
	if !ok {
		return nil, errors.New("unexpected hits format")
	}

	var docs []map[string]interface{}
	for _, hit := range hitsArray {
		hitMap, ok := hit.(map[string]interface{})
		if !ok {
			continue
		}
		source, ok := hitMap["_source"].(map[string]interface{})
		if !ok {
			continue
		}
		docs = append(docs, source)
	}

	return docs, nil
}
