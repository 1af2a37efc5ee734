package text

import (
	"context"

	"github.com/texttechlab/enhanced-search/internal/domain/annotation"
)

// LiteralAnnotationEngine collects all tokens that are not part of a named
// entity.  A token counts as consumed when its begin falls into the
// inclusive character range of any annotation.
type LiteralAnnotationEngine struct{}

// NewLiteralAnnotationEngine creates the literal collection stage.
func NewLiteralAnnotationEngine() *LiteralAnnotationEngine {
	return &LiteralAnnotationEngine{}
}

// Parse stores all non-entity tokens as literals in the result.
func (e *LiteralAnnotationEngine) Parse(_ context.Context, _ string, result *annotation.Result) error {
	var literals []*annotation.LiteralString

	for _, token := range result.Tokens {
		if !coveredByAnnotation(token, result.NamedEntityRecognition) {
			literals = append(literals, token)
		}
	}

	result.Literals = literals

	return nil
}

func coveredByAnnotation(token *annotation.LiteralString, annotations []*annotation.Annotation) bool {
	for _, ann := range annotations {
		if ann.Begin <= token.Begin && token.Begin <= ann.End {
			return true
		}
	}
	return false
}
