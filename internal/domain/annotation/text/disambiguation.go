package text

import (
	"context"
	"regexp"

	"github.com/texttechlab/enhanced-search/internal/domain/annotation"
)

// DisambiguationEngine resolves ambiguity in annotations.  For every
// annotation it records a decision pairing the original with its resolved
// copy; the original annotation is never overwritten in place.
//
// Currently only location ambiguity is handled: a sibling typed as location
// wins when the annotation appears in a ".. in <span>" context, as in
// "Fagus sylvatica in Paris".
type DisambiguationEngine struct{}

// NewDisambiguationEngine creates the disambiguation stage.
func NewDisambiguationEngine() *DisambiguationEngine {
	return &DisambiguationEngine{}
}

var locationContextPattern = regexp.MustCompile(`.* in .*?\{location\}`)

// Parse records one disambiguation decision per annotation.  Annotations
// without ambiguity resolve to a plain copy of themselves, which keeps the
// decision list complete and the resolution idempotent.
func (e *DisambiguationEngine) Parse(_ context.Context, text string, result *annotation.Result) error {
	decisions := make([]annotation.Disambiguation, 0, len(result.NamedEntityRecognition))

	for _, ann := range result.NamedEntityRecognition {
		resolved := e.resolve(ann, text)
		decisions = append(decisions, annotation.Disambiguation{
			Original:    ann,
			Replacement: resolved,
		})
	}

	result.Disambiguations = decisions

	return nil
}

func (e *DisambiguationEngine) resolve(ann *annotation.Annotation, text string) *annotation.Annotation {
	for _, sibling := range ann.Ambiguous {
		if e.isLocation(sibling, text) {
			resolved := sibling.Clone()
			resolved.Ambiguous = nil
			return resolved
		}
	}

	resolved := ann.Clone()
	resolved.Ambiguous = nil
	return resolved
}

// isLocation checks whether the ambiguous annotation reads as a location in
// its textual context.
func (e *DisambiguationEngine) isLocation(ann *annotation.Annotation, text string) bool {
	if ann.Type != annotation.TypeLocation {
		return false
	}

	abstracted := annotation.ReplaceSubstringBetween(text, "{location}", ann.Begin, ann.End)

	return locationContextPattern.MatchString(abstracted)
}
