package document

import (
	"strings"

	"github.com/texttechlab/enhanced-search/pkg/errors"
)

// Character sequences that have no business in a user-provided full-text
// query.  Inspired by https://github.com/dergachev/solr-security-proxy.
var forbiddenQuerySequences = []string{
	"qt=",
	"stream.body",
	"/config",
	"shards.qt=",
	"fl=",
	"/update",
	"shards=",
}

// Special characters of the Lucene query syntax.
const queryEscapeCharacters = `&|+\!(){}[]*^~?:$=-`

// IsQuerySafe reports whether the given user query is free of character
// sequences that could be abused for an injection.
func IsQuerySafe(query string) bool {
	lowered := strings.ToLower(query)
	for _, sequence := range forbiddenQuerySequences {
		if strings.Contains(lowered, sequence) {
			return false
		}
	}
	return true
}

// EscapeQueryInput backslash-escapes the special characters of the query
// syntax.  When ignoreQuotations is true, single and double quotation marks
// are left untouched, e.g. for text that is placed inside quotation marks.
func EscapeQueryInput(text string, ignoreQuotations bool) string {
	var builder strings.Builder
	builder.Grow(len(text))

	for _, r := range text {
		switch {
		case strings.ContainsRune(queryEscapeCharacters, r):
			builder.WriteRune('\\')
		case !ignoreQuotations && (r == '"' || r == '\''):
			builder.WriteRune('\\')
		}
		builder.WriteRune(r)
	}

	return builder.String()
}

// SanitizeQuery rejects queries holding forbidden sequences and escapes the
// remainder for safe execution.
func SanitizeQuery(query string) (string, error) {
	if !IsQuerySafe(query) {
		return "", errors.Newf(errors.ErrCodeUserInput,
			"the input %q contained potentially malicious character sequences", query)
	}

	return EscapeQueryInput(query, false), nil
}
