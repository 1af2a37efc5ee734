// Package search orchestrates the semantic enrichment of user queries: it
// annotates the query text, deduces statements from the annotations, asks a
// semantic engine for matching knowledge-base entries, and folds
// descriptive annotations into features of the annotation they describe.
package search

import (
	"context"
	"encoding/json"

	"github.com/texttechlab/enhanced-search/internal/domain/annotation"
	"github.com/texttechlab/enhanced-search/internal/generators/sparql"
	"github.com/texttechlab/enhanced-search/internal/infrastructure/monitoring/logging"
	"github.com/texttechlab/enhanced-search/pkg/errors"
)

// KnowledgeStore executes a graph query and returns the raw response body.
// When safe is false the store escapes the query before execution.
type KnowledgeStore interface {
	Read(ctx context.Context, query string, safe bool) (string, error)
}

// SemanticEngine inferences additional knowledge-base data for a query's
// annotations.  The returned map is keyed by the ID of the governing
// annotation.  It is empty when the query carries no statements or no
// governing annotation; it contains the governing annotation with an empty
// URI set when the store was queried but nothing matched the criteria.
type SemanticEngine interface {
	QuerySemantics(ctx context.Context, query *annotation.Query, limit int) (map[string]annotation.UriSet, error)
}

// SparqlSemanticEngine uses a SPARQL knowledge store to retrieve additional
// data on a query.
type SparqlSemanticEngine struct {
	store     KnowledgeStore
	generator *sparql.Generator
	logger    logging.Logger
}

// NewSparqlSemanticEngine creates a semantic engine on top of the given
// SPARQL store.
func NewSparqlSemanticEngine(store KnowledgeStore, logger logging.Logger) *SparqlSemanticEngine {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &SparqlSemanticEngine{
		store:     store,
		generator: sparql.NewGenerator(),
		logger:    logger.Named("sparql-engine"),
	}
}

const taxonVariable = "taxon"

// sparqlBindings mirrors the SPARQL JSON result format.
type sparqlBindings struct {
	Results struct {
		Bindings []map[string]struct {
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// QuerySemantics generates a SPARQL query from the query's statements,
// executes it and assigns all matching taxa to the governing annotation.
func (e *SparqlSemanticEngine) QuerySemantics(
	ctx context.Context, query *annotation.Query, limit int,
) (map[string]annotation.UriSet, error) {
	result := make(map[string]annotation.UriSet)

	if len(query.Statements) == 0 {
		return result, nil
	}

	governing := governingAnnotation(query)
	if governing == nil {
		return result, nil
	}

	sparqlQuery := e.generator.Generate("?"+taxonVariable, query.Statements, limit)

	e.logger.Debug("executing semantic query",
		logging.String("annotation", governing.Text),
		logging.Int("statements", len(query.Statements)),
	)

	response, err := e.store.Read(ctx, sparqlQuery, true)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSemanticQueryFailed,
			"the knowledge store could not answer the semantic query")
	}

	uris, err := extractTaxa(response)
	if err != nil {
		return nil, err
	}

	result[governing.ID()] = uris

	return result, nil
}

// governingAnnotation returns the first annotation a semantic query can be
// anchored on, i.e. the first taxon-like annotation.
func governingAnnotation(query *annotation.Query) *annotation.Annotation {
	for _, ann := range query.Annotations {
		switch ann.Type {
		case annotation.TypeTaxon, annotation.TypePlant, annotation.TypeAnimal:
			return ann
		}
	}
	return nil
}

// extractTaxa pulls the taxon URIs out of a SPARQL JSON response.  The
// returned URIs are marked safe, they come from the store and not from user
// input.
func extractTaxa(response string) (annotation.UriSet, error) {
	var decoded sparqlBindings
	if err := json.Unmarshal([]byte(response), &decoded); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStoreResponse,
			"the knowledge store response holds no valid JSON")
	}

	var uris annotation.UriSet
	for _, row := range decoded.Results.Bindings {
		binding, ok := row[taxonVariable]
		if !ok || binding.Value == "" {
			continue
		}
		uris = uris.Add(annotation.Uri{
			URL:              binding.Value,
			PositionInTriple: 3,
			Safe:             true,
		})
	}

	return uris, nil
}
