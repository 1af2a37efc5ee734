package annotation

import (
	"fmt"
	"sort"
	"strings"
)

// AbstractedString creates an abstracted version of the original query
// string, depending on the given annotations and literals.  Annotations are
// substituted by "{<type><id>}" with the lowercased entity type name,
// literals by "<text><id>".  With neither annotations nor literals, the
// original string is returned.
//
// Example:
//
//	Query string: "I am looking for Fagus sylvatica in Germany"
//	Annotations:  "Fagus sylvatica" = Plant, "Germany" = Location
//	Literals:     "I", "am", "looking", "for", "in"
//	Result:       "I<0/1> am<2/4> looking<5/12> for<13/16> {plant<17/32>}
//	               in<33/35> {location<36/43>}"
//
// The "<...>" suffix holds the ID of the respective annotation or literal
// for back reference.
func AbstractedString(text string, annotations []*Annotation, literals []*LiteralString) string {
	type span struct {
		begin, end  int
		replacement string
	}

	spans := make([]span, 0, len(annotations)+len(literals))
	for _, a := range annotations {
		name := a.Text
		if a.Type != "" {
			name = strings.ToLower(string(a.Type))
		}
		spans = append(spans, span{
			begin:       a.Begin,
			end:         a.End,
			replacement: fmt.Sprintf("{%s<%s>}", name, a.ID()),
		})
	}
	for _, l := range literals {
		spans = append(spans, span{
			begin:       l.Begin,
			end:         l.End,
			replacement: fmt.Sprintf("%s<%s>", l.Text, l.ID()),
		})
	}

	// Substituting back to front keeps the yet untouched offsets valid.
	sort.Slice(spans, func(i, j int) bool { return spans[i].begin > spans[j].begin })

	for _, s := range spans {
		text = ReplaceSubstringBetween(text, s.replacement, s.begin, s.end)
	}

	return text
}

// ReplaceSubstringBetween replaces the substring of text between the
// character positions begin (inclusive) and end (exclusive) with the given
// replacement.  Positions count characters, not bytes, so that offsets from
// the tokenizer stay valid for non-ASCII input.
func ReplaceSubstringBetween(text, replacement string, begin, end int) string {
	runes := []rune(text)
	if begin < 0 {
		begin = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	if begin > end {
		begin = end
	}
	return string(runes[:begin]) + replacement + string(runes[end:])
}
