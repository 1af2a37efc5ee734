// Package sparql generates SPARQL query strings from the statements of an
// annotated query.  The generated query selects candidate taxa whose
// position in the systematic hierarchy matches the statement subjects and
// whose properties match the statement predicates and objects.
package sparql

import (
	"fmt"
	"sort"
	"strings"

	"github.com/texttechlab/enhanced-search/internal/domain/annotation"
)

// DefaultLimit caps the result rows of a generated query when the caller
// gives no explicit limit.
const DefaultLimit = 1000

// SystematicHierarchyPredicates are the predicates linking a taxon to the
// names it falls under, from kingdom down to the accepted name usage.
var SystematicHierarchyPredicates = []string{
	"terms:kingdom",
	"terms:class",
	"terms:order",
	"terms:family",
	"terms:genus",
	"terms:phylum",
	"terms:parentNameUsageID",
	"terms:acceptedNameUsageID",
}

// Generator creates SPARQL query strings from an annotation context.
type Generator struct {
	// Namespaces holds the prefix declarations of every generated query.
	Namespaces map[string]string

	// Limit applies when Generate is called with a non-positive limit.
	Limit int
}

// NewGenerator returns a Generator with the default namespace and limit.
func NewGenerator() *Generator {
	return &Generator{
		Namespaces: map[string]string{"terms": "https://dwc.tdwg.org/terms/#"},
		Limit:      DefaultLimit,
	}
}

// Generate builds a SPARQL SELECT query for the given statements.  The
// variable name has to carry its "?" prefix, e.g. "?taxon".  The first
// statement produces a required graph pattern, every further statement an
// optional one.  A non-positive limit falls back to the generator's limit.
func (g *Generator) Generate(variable string, statements []annotation.Statement, limit int) string {
	if limit <= 0 {
		limit = g.Limit
	}

	var b strings.Builder

	for _, prefix := range sortedKeys(g.Namespaces) {
		fmt.Fprintf(&b, "PREFIX %s: <%s>\n", prefix, g.Namespaces[prefix])
	}

	fmt.Fprintf(&b, "SELECT DISTINCT %s\nWHERE {\n", variable)

	for index, statement := range statements {
		pattern := g.statementPattern(variable, statement)
		if index > 0 {
			b.WriteString(indent(fmt.Sprintf("OPTIONAL {\n%s}\n", pattern), 1))
			continue
		}
		b.WriteString(indent(fmt.Sprintf("{\n%s}\n", pattern), 1))
	}

	fmt.Fprintf(&b, "}\nORDER BY %s\nLIMIT %d", variable, limit)

	return b.String()
}

// statementPattern renders the triples of one statement, without the
// enclosing braces.
func (g *Generator) statementPattern(variable string, statement annotation.Statement) string {
	var b strings.Builder

	g.writeTaxonTriples(&b, variable, statement)
	g.writeFilterTriples(&b, variable, statement)

	return indent(b.String(), 1)
}

// writeTaxonTriples binds the query variable to the statement's subject via
// any of the hierarchy predicates.
func (g *Generator) writeTaxonTriples(b *strings.Builder, variable string, statement annotation.Statement) {
	subject := statement.Subject
	if subject.IsZero() {
		return
	}

	subjectTerm := "?subject"
	switch {
	case subject.Literal != nil:
		subjectTerm = PrepareLiteral(subject.Literal)
	case len(subject.URIs) == 1:
		subjectTerm = PrepareUri(subject.URIs[0])
	default:
		fmt.Fprintf(b, "VALUES ?subject { %s }\n", prepareUriList(subject.URIs))
	}

	fmt.Fprintf(b, "VALUES ?hasParent { %s }\n",
		strings.Join(SystematicHierarchyPredicates, " "))
	fmt.Fprintf(b, "%s ?hasParent %s .\n", variable, subjectTerm)
}

// writeFilterTriples restricts the query variable by the statement's
// predicate and object.
func (g *Generator) writeFilterTriples(b *strings.Builder, variable string, statement annotation.Statement) {
	object := statement.Object
	if len(statement.Predicate) == 0 && object.IsZero() {
		return
	}

	predicateTerm := "?predicates"
	if len(statement.Predicate) > 0 {
		fmt.Fprintf(b, "VALUES ?predicates { %s }\n", prepareUriList(statement.Predicate))
	}

	objectTerm := "?predicateValues"
	switch {
	case object.Literal != nil:
		objectTerm = PrepareLiteral(object.Literal)
	case len(object.URIs) == 1:
		objectTerm = PrepareUri(object.URIs[0])
	case len(object.URIs) > 1:
		fmt.Fprintf(b, "VALUES ?predicateValues { %s }\n", prepareUriList(object.URIs))
	}

	fmt.Fprintf(b, "%s %s %s .\n", variable, predicateTerm, objectTerm)
}

func prepareUriList(uris annotation.UriSet) string {
	parts := make([]string, len(uris))
	for i, u := range uris {
		parts[i] = PrepareUri(u)
	}
	return strings.Join(parts, " ")
}

// PrepareUri renders a URI for insertion into a SPARQL query.  Unsafe URLs
// are escaped first.  URLs are angle-bracketed unless already bracketed or
// not a URL at all (e.g. a prefixed name).
func PrepareUri(u annotation.Uri) string {
	url := u.URL
	if !u.Safe {
		url = EscapeString(url)
	}
	if !strings.HasPrefix(url, "http") {
		return url
	}
	if strings.HasPrefix(url, "<") {
		return url
	}
	return "<" + url + ">"
}

// PrepareLiteral renders a literal for insertion into a SPARQL query.  The
// text is quoted; numeric texts are typed as xsd:integer.
func PrepareLiteral(l *annotation.LiteralString) string {
	text := l.Text
	if !l.Safe {
		text = EscapeString(text)
	}

	quoted := `"` + text + `"`
	if isNumeric(text) {
		return quoted + "^^<http://www.w3.org/2001/XMLSchema#integer>"
	}
	return quoted
}

// EscapeString backslash-escapes the characters that are malicious in a
// SPARQL query: single and double quotation marks and angle brackets.
func EscapeString(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch r {
		case '\'', '"', '<', '>':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isNumeric(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func indent(text string, depth int) string {
	prefix := strings.Repeat("\t", depth)
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
