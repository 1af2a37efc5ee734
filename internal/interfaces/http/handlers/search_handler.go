package handlers

import (
	"context"
	"net/http"

	"github.com/texttechlab/enhanced-search/internal/domain/annotation"
	"github.com/texttechlab/enhanced-search/internal/generators/document"
	"github.com/texttechlab/enhanced-search/internal/infrastructure/monitoring/logging"
	"github.com/texttechlab/enhanced-search/internal/infrastructure/search/opensearch"
	"github.com/texttechlab/enhanced-search/pkg/errors"
)

// QueryProcessor annotates and semantically enriches queries.
type QueryProcessor interface {
	UpdateQueryWithAnnotations(ctx context.Context, query *annotation.Query) error
	ResolveQueryAnnotations(ctx context.Context, query *annotation.Query, limit int) (bool, error)
}

// DocumentSearcher runs a generated document query against the document
// store.
type DocumentSearcher interface {
	Search(ctx context.Context, query document.DocumentQuery, from, size int) (*opensearch.SearchResult, error)
}

// SearchHandler serves the query annotation and document search endpoints.
type SearchHandler struct {
	processor QueryProcessor
	generator *document.Generator
	searcher  DocumentSearcher
	limit     int
	logger    logging.Logger
}

// NewSearchHandler builds a SearchHandler.  The searcher may be nil when
// only the annotation endpoint is served.
func NewSearchHandler(
	processor QueryProcessor,
	generator *document.Generator,
	searcher DocumentSearcher,
	limit int,
	logger logging.Logger,
) *SearchHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if generator == nil {
		generator = document.NewGenerator()
	}
	return &SearchHandler{
		processor: processor,
		generator: generator,
		searcher:  searcher,
		limit:     limit,
		logger:    logger.Named("search-handler"),
	}
}

// AnnotateResponse is the JSON body of the annotation endpoint.
type AnnotateResponse struct {
	Query    *annotation.Query `json:"query"`
	Enriched bool              `json:"enriched"`
}

// SearchResponse is the JSON body of the search endpoint.
type SearchResponse struct {
	Query         *annotation.Query        `json:"query"`
	DocumentQuery document.DocumentQuery   `json:"document_query"`
	Result        *opensearch.SearchResult `json:"result"`
}

// Annotate handles GET /api/v1/annotate.  It annotates the query string
// and, unless resolve=false is given, enriches it against the knowledge
// store.  The full Query object is returned.
func (h *SearchHandler) Annotate(w http.ResponseWriter, r *http.Request) {
	query, enriched, err := h.processQuery(r, optionalBool(r, "resolve", true))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, AnnotateResponse{Query: query, Enriched: enriched})
}

// Search handles GET /api/v1/search.  The query string is annotated,
// enriched and converted into a document query which is then run against
// the document store.  Pagination uses the from and size parameters.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	from, err := optionalInt(r, "from", 0)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	size, err := optionalInt(r, "size", opensearch.DefaultPageSize)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	query, _, err := h.processQuery(r, true)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	documentQuery := h.generator.Generate(query)

	if h.searcher == nil {
		writeError(w, h.logger, errors.New(errors.ErrCodeDocumentStore,
			"no document store is configured"))
		return
	}

	result, err := h.searcher.Search(r.Context(), documentQuery, from, size)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		Query:         query,
		DocumentQuery: documentQuery,
		Result:        result,
	})
}

// processQuery extracts and validates the query parameter, annotates it and
// optionally resolves it against the knowledge store.
func (h *SearchHandler) processQuery(r *http.Request, resolve bool) (*annotation.Query, bool, error) {
	queryString, err := requiredString(r, "query")
	if err != nil {
		return nil, false, err
	}

	if !document.IsQuerySafe(queryString) {
		return nil, false, errors.New(errors.ErrCodeUserInput,
			"the query contains forbidden character sequences")
	}

	query := &annotation.Query{OriginalString: queryString}
	if err := h.processor.UpdateQueryWithAnnotations(r.Context(), query); err != nil {
		return nil, false, err
	}

	enriched := false
	if resolve {
		enriched, err = h.processor.ResolveQueryAnnotations(r.Context(), query, h.limit)
		if err != nil {
			return nil, false, err
		}
	}

	return query, enriched, nil
}
