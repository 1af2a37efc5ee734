// Package document converts enriched queries into full-text document
// queries.  The generated string uses the Lucene query syntax understood by
// the OpenSearch query_string query.
package document

import (
	"sort"
	"strings"

	"github.com/texttechlab/enhanced-search/internal/domain/annotation"
)

const (
	orString  = "OR"
	andString = "AND"

	// DefaultSearchField is the document field the query terms are matched
	// against when no other field is configured.
	DefaultSearchField = "text"
)

// DocumentQuery holds a generated query string and the field it targets.
type DocumentQuery struct {
	String      string `json:"string"`
	SearchField string `json:"search_field"`
}

// Generator converts a Query into a DocumentQuery.
//
// Statements with a relationship produce grouped conjunctions; the URIs of
// an annotation are OR-joined, loose literals are AND-joined.  Terms
// consumed by a statement do not appear a second time on the top level.
type Generator struct {
	// SearchField is the document field to search in.
	SearchField string

	// DefaultConjunction connects otherwise unrelated search terms.
	DefaultConjunction annotation.RelationshipType
}

// NewGenerator returns a Generator with the default search field and an
// AND default conjunction.
func NewGenerator() *Generator {
	return &Generator{
		SearchField:        DefaultSearchField,
		DefaultConjunction: annotation.RelationshipAnd,
	}
}

// Generate builds the document query for the given query.
//
// The query string is NOT sanitized; URIs are always wrapped in quotation
// marks, unsafe URIs are escaped first.
func (g *Generator) Generate(query *annotation.Query) DocumentQuery {
	annotations := make([]*annotation.Annotation, len(query.Annotations))
	copy(annotations, query.Annotations)
	literals := make([]*annotation.LiteralString, len(query.Literals))
	copy(literals, query.Literals)

	var clauses []string

	for _, statement := range query.Statements {
		if statement.Relationship == annotation.RelationshipNone {
			continue
		}

		clause := g.statementClause(statement)
		if clause == "" {
			continue
		}
		clauses = append(clauses, clause)

		annotations = removeTermAnnotation(annotations, statement.Subject)
		annotations = removeTermAnnotation(annotations, statement.Object)
		literals = removeTermLiteral(literals, statement.Subject)
		literals = removeTermLiteral(literals, statement.Object)
	}

	for _, ann := range annotations {
		if clause := g.fieldClause(uriTerms(ann.URIs), orString); clause != "" {
			clauses = append(clauses, clause)
		}
	}

	if len(literals) > 0 {
		terms := make([]string, 0, len(literals))
		for _, literal := range literals {
			terms = append(terms, literal.String())
		}
		clauses = append(clauses, g.fieldClause(terms, andString))
	}

	return DocumentQuery{
		String:      strings.Join(clauses, " "+g.conjunction()+" "),
		SearchField: g.SearchField,
	}
}

// statementClause renders a single statement as "subject REL object", where
// each side is a field clause of its own.
func (g *Generator) statementClause(statement annotation.Statement) string {
	subject := g.fieldClause(termStrings(statement.Subject), orString)
	object := g.fieldClause(termStrings(statement.Object), orString)

	switch {
	case subject == "":
		return object
	case object == "":
		return subject
	}

	return subject + " " + strings.ToUpper(string(statement.Relationship)) + " " + object
}

// fieldClause joins the terms with the conjunction and prefixes the search
// field, wrapping multi-term groups in round brackets.
func (g *Generator) fieldClause(terms []string, conjunction string) string {
	if len(terms) == 0 {
		return ""
	}

	joined := strings.Join(terms, " "+conjunction+" ")
	if len(terms) > 1 {
		joined = "(" + joined + ")"
	}

	return g.SearchField + ":" + joined
}

func (g *Generator) conjunction() string {
	if g.DefaultConjunction == annotation.RelationshipOr {
		return orString
	}
	return andString
}

// uriTerms renders each URI quoted, escaping unsafe ones.  The result is
// sorted for deterministic output.
func uriTerms(uris annotation.UriSet) []string {
	terms := make([]string, 0, len(uris))
	for _, uri := range uris {
		url := uri.URL
		if !uri.Safe {
			url = EscapeQueryInput(url, true)
		}
		terms = append(terms, `"`+url+`"`)
	}
	sort.Strings(terms)
	return terms
}

// termStrings renders a statement term, either as its quoted URIs or as its
// literal text.
func termStrings(term annotation.Term) []string {
	if term.Literal != nil {
		return []string{term.Literal.String()}
	}
	return uriTerms(term.URIs)
}

// removeTermAnnotation drops the annotation whose URI set contains one of
// the term's URIs.
func removeTermAnnotation(
	annotations []*annotation.Annotation, term annotation.Term,
) []*annotation.Annotation {
	if len(term.URIs) == 0 {
		return annotations
	}

	for i, ann := range annotations {
		for _, uri := range term.URIs {
			if ann.URIs.Contains(uri.URL) {
				return append(annotations[:i:i], annotations[i+1:]...)
			}
		}
	}

	return annotations
}

// removeTermLiteral drops the term's literal, matched by pointer identity.
func removeTermLiteral(
	literals []*annotation.LiteralString, term annotation.Term,
) []*annotation.LiteralString {
	if term.Literal == nil {
		return literals
	}

	for i, literal := range literals {
		if literal == term.Literal {
			return append(literals[:i:i], literals[i+1:]...)
		}
	}

	return literals
}
