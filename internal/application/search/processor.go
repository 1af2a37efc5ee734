package search

import (
	"context"

	"github.com/texttechlab/enhanced-search/internal/domain/annotation"
	"github.com/texttechlab/enhanced-search/internal/domain/annotation/text"
	"github.com/texttechlab/enhanced-search/internal/infrastructure/monitoring/logging"
	"github.com/texttechlab/enhanced-search/pkg/errors"
)

// SemanticQueryProcessor orchestrates the semantic enrichment of a Query.
//
// The processor uses a text annotator to annotate the query string, and a
// named semantic engine to inference additional data for the annotations.
// Annotations that describe another annotation (in "Pflanzen mit roten
// Blüten", "roten" and "Blüten" describe "Pflanzen") are converted into a
// feature of the described annotation and removed from the query's
// annotation list.
//
// When the knowledge store was searched but held no data matching the
// criteria, the described annotation ends up with an empty URI set.
type SemanticQueryProcessor struct {
	annotator  *text.Annotator
	engines    *EngineRegistry
	engineName string
	logger     logging.Logger
}

// NewSemanticQueryProcessor builds a processor.  Annotator and registry may
// be nil when the corresponding operation is never used; the operations
// themselves fail cleanly in that case.
func NewSemanticQueryProcessor(
	annotator *text.Annotator,
	engines *EngineRegistry,
	engineName string,
	logger logging.Logger,
) *SemanticQueryProcessor {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &SemanticQueryProcessor{
		annotator:  annotator,
		engines:    engines,
		engineName: engineName,
		logger:     logger.Named("query-processor"),
	}
}

// UpdateQueryWithAnnotations annotates the query string and deduces the
// query's annotations, literals and statements.  The query is updated in
// place.
func (p *SemanticQueryProcessor) UpdateQueryWithAnnotations(ctx context.Context, query *annotation.Query) error {
	if p.annotator == nil {
		return errors.New(errors.ErrCodeAnnotatorMissing,
			"no text annotator is set, the query cannot be annotated")
	}

	result, err := p.annotator.Annotate(ctx, query.OriginalString)
	if err != nil {
		return err
	}

	query.Annotations = result.NamedEntityRecognition
	query.Literals = result.Literals
	query.Statements = createStatementsFromDependencies(
		result.Relationships, query.Annotations, query.Literals)

	return nil
}

// ResolveQueryAnnotations inferences additional data for the query's
// annotations, e.g. the URIs of taxa matching descriptive statements such
// as "Pflanzen mit roten Blüten".  Enrichment results replace the URIs of
// the governing annotation; consumed annotations and literals are folded
// into features.
//
// The returned boolean reports whether the enrichment produced data.  A
// query without statements never touches the knowledge store.
func (p *SemanticQueryProcessor) ResolveQueryAnnotations(
	ctx context.Context, query *annotation.Query, limit int,
) (bool, error) {
	if p.engines == nil || p.engineName == "" {
		return false, errors.New(errors.ErrCodeSemanticEngineMissing,
			"no semantic engine is set, the query cannot be resolved")
	}

	engine, err := p.engines.Get(p.engineName)
	if err != nil {
		return false, err
	}

	data, err := engine.QuerySemantics(ctx, query, limit)
	if err != nil {
		return false, err
	}

	enriched := false
	for _, uris := range data {
		if len(uris) > 0 {
			enriched = true
			break
		}
	}

	updateAnnotations(data, query)
	updateQuery(query)

	p.logger.Debug("query resolved",
		logging.String("query", query.OriginalString),
		logging.Bool("enriched", enriched),
	)

	return enriched, nil
}
