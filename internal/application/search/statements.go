package search

import (
	"github.com/texttechlab/enhanced-search/internal/domain/annotation"
)

// Capture group names of the dependency patterns.
const (
	captureSubject   = "subject"
	capturePredicate = "predicate"
	captureObject    = "object"
)

// createStatementsFromDependencies compiles the dependency parser output
// into statements.  Every capture holds a word ID; an ID naming an
// annotation contributes the annotation's URI set, an ID naming a literal
// contributes the literal itself.  Unresolvable IDs are skipped.
func createStatementsFromDependencies(
	dependencies []annotation.DependencyMatch,
	annotations []*annotation.Annotation,
	literals []*annotation.LiteralString,
) []annotation.Statement {
	annotationByID := make(map[string]*annotation.Annotation, len(annotations))
	for _, ann := range annotations {
		annotationByID[ann.ID()] = ann
	}
	literalByID := make(map[string]*annotation.LiteralString, len(literals))
	for _, lit := range literals {
		literalByID[lit.ID()] = lit
	}

	var statements []annotation.Statement
	for _, dependency := range dependencies {
		statement := annotation.Statement{Relationship: dependency.Relationship}

		for name, wordID := range dependency.Captures {
			var term annotation.Term
			if ann, ok := annotationByID[wordID]; ok {
				term = annotation.URIsTerm(ann.URIs)
			} else if lit, ok := literalByID[wordID]; ok {
				term = annotation.LiteralTerm(lit)
			} else {
				continue
			}

			switch name {
			case captureSubject:
				statement.Subject = term
			case captureObject:
				statement.Object = term
			case capturePredicate:
				statement.Predicate = term.URIs
			}
		}

		statements = append(statements, statement)
	}

	return statements
}
