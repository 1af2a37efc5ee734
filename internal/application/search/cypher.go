package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/texttechlab/enhanced-search/internal/domain/annotation"
	"github.com/texttechlab/enhanced-search/internal/infrastructure/monitoring/logging"
	"github.com/texttechlab/enhanced-search/pkg/errors"
)

// CypherExecutor runs a Cypher query and returns the values of the given
// result column.
type CypherExecutor interface {
	CollectStrings(ctx context.Context, query string, params map[string]any, column string) ([]string, error)
}

// CypherSemanticEngine answers semantic queries from a property graph
// instead of a triple store.  Taxon hierarchy edges carry the relationship
// type BROADER; property edges connect a taxon to its trait nodes with an
// edge whose uri property names the predicate.
type CypherSemanticEngine struct {
	executor CypherExecutor
	logger   logging.Logger

	// Limit applies when QuerySemantics is called with a non-positive
	// limit.
	Limit int
}

// NewCypherSemanticEngine creates a semantic engine on top of the given
// Cypher executor.
func NewCypherSemanticEngine(executor CypherExecutor, logger logging.Logger) *CypherSemanticEngine {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CypherSemanticEngine{
		executor: executor,
		logger:   logger.Named("cypher-engine"),
		Limit:    1000,
	}
}

// QuerySemantics translates the query's statements into a Cypher query and
// assigns all matching taxa to the governing annotation.
func (e *CypherSemanticEngine) QuerySemantics(
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

	if limit <= 0 {
		limit = e.Limit
	}

	cypher, params := buildCypherQuery(query.Statements, limit)

	e.logger.Debug("executing semantic query",
		logging.String("annotation", governing.Text),
		logging.Int("statements", len(query.Statements)),
	)

	values, err := e.executor.CollectStrings(ctx, cypher, params, taxonVariable)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSemanticQueryFailed,
			"the graph store could not answer the semantic query")
	}

	var uris annotation.UriSet
	for _, value := range values {
		if value == "" {
			continue
		}
		uris = uris.Add(annotation.Uri{URL: value, PositionInTriple: 3, Safe: true})
	}

	result[governing.ID()] = uris

	return result, nil
}

// buildCypherQuery renders the statements as Cypher MATCH clauses.  The
// first statement is required, every further one optional, mirroring the
// SPARQL generation.
func buildCypherQuery(statements []annotation.Statement, limit int) (string, map[string]any) {
	var b strings.Builder
	params := map[string]any{"limit": limit}

	b.WriteString("MATCH (taxon)\n")

	for i, statement := range statements {
		clause, clauseParams := statementClause(i, statement, i > 0)
		if clause == "" {
			continue
		}
		b.WriteString(clause)
		for name, value := range clauseParams {
			params[name] = value
		}
	}

	b.WriteString("RETURN DISTINCT taxon.uri AS taxon\nORDER BY taxon\nLIMIT $limit")

	return b.String(), params
}

func statementClause(index int, statement annotation.Statement, optional bool) (string, map[string]any) {
	var parts []string
	params := make(map[string]any)

	match := "MATCH"
	if optional {
		match = "OPTIONAL MATCH"
	}

	if len(statement.Subject.URIs) > 0 {
		name := fmt.Sprintf("subject%d", index)
		parts = append(parts, fmt.Sprintf(
			"%s (taxon)-[:BROADER*0..]->(parent%d) WHERE parent%d.uri IN $%s\n",
			match, index, index, name))
		params[name] = statement.Subject.URIs.URLs()
	}

	if len(statement.Predicate) > 0 || !statement.Object.IsZero() {
		var conditions []string

		if len(statement.Predicate) > 0 {
			name := fmt.Sprintf("predicate%d", index)
			conditions = append(conditions, fmt.Sprintf("rel%d.uri IN $%s", index, name))
			params[name] = statement.Predicate.URLs()
		}

		switch {
		case statement.Object.Literal != nil:
			name := fmt.Sprintf("object%d", index)
			conditions = append(conditions, fmt.Sprintf("trait%d.value = $%s", index, name))
			params[name] = statement.Object.Literal.Text
		case len(statement.Object.URIs) > 0:
			name := fmt.Sprintf("object%d", index)
			conditions = append(conditions, fmt.Sprintf("trait%d.uri IN $%s", index, name))
			params[name] = statement.Object.URIs.URLs()
		}

		parts = append(parts, fmt.Sprintf(
			"%s (taxon)-[rel%d]->(trait%d) WHERE %s\n",
			match, index, index, strings.Join(conditions, " AND ")))
	}

	return strings.Join(parts, ""), params
}
