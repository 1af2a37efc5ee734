package neo4j

import (
	"context"

	"github.com/texttechlab/enhanced-search/pkg/errors"
)

// readExecutor is the part of Driver the executor needs.
type readExecutor interface {
	ExecuteRead(ctx context.Context, work func(Transaction) (any, error)) (any, error)
}

// Executor runs Cypher queries and collects single-column string results.
// It implements the CypherExecutor contract of the semantic engines.
type Executor struct {
	driver readExecutor
}

// NewExecutor creates an executor on top of the given driver.
func NewExecutor(driver *Driver) *Executor {
	return &Executor{driver: driver}
}

// CollectStrings runs the query and returns the values of the named column,
// one per record.  Non-string values and missing columns are skipped.
func (e *Executor) CollectStrings(
	ctx context.Context, query string, params map[string]any, column string,
) ([]string, error) {
	collected, err := e.driver.ExecuteRead(ctx, func(tx Transaction) (any, error) {
		result, err := tx.Run(ctx, query, params)
		if err != nil {
			return nil, err
		}

		var values []string
		for result.Next(ctx) {
			value, ok := result.Record().Get(column)
			if !ok {
				continue
			}
			if s, ok := value.(string); ok {
				values = append(values, s)
			}
		}
		if err := result.Err(); err != nil {
			return nil, err
		}

		return values, nil
	})
	if err != nil {
		return nil, err
	}

	values, ok := collected.([]string)
	if !ok {
		return nil, errors.New(errors.ErrCodeKnowledgeStore,
			"the graph database returned an unexpected result shape")
	}

	return values, nil
}
