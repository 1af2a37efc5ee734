package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/opensearch-project/opensearch-go/v3/opensearchapi"

	"github.com/texttechlab/enhanced-search/internal/generators/document"
	"github.com/texttechlab/enhanced-search/internal/infrastructure/monitoring/logging"
	"github.com/texttechlab/enhanced-search/pkg/errors"
)

// DefaultPageSize is the number of documents a search returns when no size
// is requested.
const DefaultPageSize = 10

// Document is a single search hit.
type Document struct {
	ID     string          `json:"id"`
	Index  string          `json:"index"`
	Score  float32         `json:"score"`
	Source json.RawMessage `json:"source"`
}

// SearchResult holds the hits of a document search.
type SearchResult struct {
	Total     int        `json:"total"`
	Took      int        `json:"took_ms"`
	Documents []Document `json:"documents"`
}

// searchAPI is the part of the OpenSearch client the searcher needs.
type searchAPI interface {
	Search(ctx context.Context, req *opensearchapi.SearchReq) (*opensearchapi.SearchResp, error)
}

// Searcher runs document queries against a single index.
type Searcher struct {
	api    searchAPI
	index  string
	logger logging.Logger
}

// NewSearcher creates a searcher on the client's configured index.
func NewSearcher(client *Client, log logging.Logger) *Searcher {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Searcher{
		api:    client.api,
		index:  client.config.Index,
		logger: log.Named("document-search"),
	}
}

// Search executes the generated document query and returns the matching
// documents.  A non-positive size falls back to DefaultPageSize.
func (s *Searcher) Search(
	ctx context.Context, query document.DocumentQuery, from, size int,
) (*SearchResult, error) {
	if size <= 0 {
		size = DefaultPageSize
	}
	if from < 0 {
		from = 0
	}

	body, err := buildSearchBody(query, from, size)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	resp, err := s.api.Search(ctx, &opensearchapi.SearchReq{
		Indices: []string{s.index},
		Body:    bytes.NewReader(body),
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDocumentStore,
			"the document search failed")
	}

	result := &SearchResult{
		Total:     resp.Hits.Total.Value,
		Took:      resp.Took,
		Documents: make([]Document, 0, len(resp.Hits.Hits)),
	}
	for _, hit := range resp.Hits.Hits {
		result.Documents = append(result.Documents, Document{
			ID:     hit.ID,
			Index:  hit.Index,
			Score:  hit.Score,
			Source: hit.Source,
		})
	}

	s.logger.Debug("document search executed",
		logging.String("query", query.String),
		logging.Int("total", result.Total),
		logging.Duration("took", time.Since(started)),
	)

	return result, nil
}

// buildSearchBody renders the query_string request body.
func buildSearchBody(query document.DocumentQuery, from, size int) ([]byte, error) {
	body := map[string]any{
		"query": map[string]any{
			"query_string": map[string]any{
				"query":         query.String,
				"default_field": query.SearchField,
			},
		},
		"from": from,
		"size": size,
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDocumentStore,
			"the document query could not be encoded")
	}

	return encoded, nil
}
