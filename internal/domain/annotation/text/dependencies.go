package text

import (
	"context"
	"regexp"

	"github.com/texttechlab/enhanced-search/internal/domain/annotation"
)

// PatternDependencyEngine inferences semantic relationships between
// annotations and literals by matching regular expressions against the
// abstracted query string.
//
// To allow ambiguity in an annotation (a word recognized both as plant and
// as location abstracts to "{plant|location...}"), patterns apply ".*?"
// inside the curly brackets when matching a type name.
type PatternDependencyEngine struct {
	patterns []dependencyPattern
}

type dependencyPattern struct {
	regex        *regexp.Regexp
	relationship annotation.RelationshipType
}

// NewPatternDependencyEngine creates the dependency stage with the built-in
// pattern set.  Patterns are tried in order; the first match wins.
func NewPatternDependencyEngine() *PatternDependencyEngine {
	return &PatternDependencyEngine{
		patterns: []dependencyPattern{
			// "Pflanzen mit roten Blüten", "Plant with red flowers"
			{regex: regexp.MustCompile(
				`\{.*?(?:taxon|plant|animal)<(?P<subject>.+?)>\} +(?:mit<.+?> +|with<.+?> +)?` +
					`\{.*?miscellaneous<(?P<object>.+?)>\} +` +
					`\{.*?miscellaneous<(?P<predicate>.+?)>\}`)},
			// "Pflanzen mit 3 Kelchblättern", "Plant with 3 petals"
			{regex: regexp.MustCompile(
				`\{.*?(?:taxon|plant|animal)<(?P<subject>.+?)>\} +(?:mit<.+?> +|with<.+?> +)?` +
					`[0-9]+<(?P<object>.+?)> +` +
					`\{.*?miscellaneous<(?P<predicate>.+?)>\}`)},
			// "Fagus und Abies"
			{regex: regexp.MustCompile(
				`\S+<(?P<subject>.+?)>\}? (?:und<.+?>|and<.+?>) \S+<(?P<object>.+?)>`),
				relationship: annotation.RelationshipAnd},
			// "Fagus oder Abies"
			{regex: regexp.MustCompile(
				`\S+<(?P<subject>.+?)>\}? (?:oder<.+?>|or<.+?>) \S+<(?P<object>.+?)>`),
				relationship: annotation.RelationshipOr},
		},
	}
}

// Parse matches the patterns against the abstracted text and stores the
// first match's captures in the result.  Without a match the relationship
// list stays empty.
func (e *PatternDependencyEngine) Parse(_ context.Context, text string, result *annotation.Result) error {
	abstracted := annotation.AbstractedString(
		text, result.NamedEntityRecognition, result.Literals)

	var matches []annotation.DependencyMatch
	for _, pattern := range e.patterns {
		if match, ok := matchPattern(pattern, abstracted); ok {
			matches = append(matches, match)
			break
		}
	}

	result.Relationships = matches

	return nil
}

// matchPattern maps the named capture groups of the first match onto word
// IDs.
func matchPattern(pattern dependencyPattern, abstracted string) (annotation.DependencyMatch, bool) {
	groups := pattern.regex.FindStringSubmatch(abstracted)
	if groups == nil {
		return annotation.DependencyMatch{}, false
	}

	captures := make(map[string]string)
	for i, name := range pattern.regex.SubexpNames() {
		if name != "" && groups[i] != "" {
			captures[name] = groups[i]
		}
	}

	return annotation.DependencyMatch{
		Captures:     captures,
		Relationship: pattern.relationship,
	}, true
}
