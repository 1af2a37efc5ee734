package text

import (
	"context"
	"strings"
	"unicode"

	"github.com/texttechlab/enhanced-search/internal/domain/annotation"
	"github.com/texttechlab/enhanced-search/pkg/errors"
)

// StringBasedEntityEngine recognizes named entities by plain string lookup
// against the lexicon.  No URIs are linked here; that is the entity linking
// stage's job.
//
// Multi-token entities are found by extending a matched token with its
// successors and re-querying the lexicon with the combined lemma; the
// longest successful extension wins.  Quoted tokens are taken as
// encapsulated entities and never extended.
type StringBasedEntityEngine struct {
	store KeyValueStore
}

// NewStringBasedEntityEngine creates the recognition stage on top of the
// given lexicon store.
func NewStringBasedEntityEngine(store KeyValueStore) *StringBasedEntityEngine {
	return &StringBasedEntityEngine{store: store}
}

// stringBlacklist keeps low-information strings from producing noise
// annotations, mostly botanical author abbreviations and connectives.
var stringBlacklist = map[string]struct{}{
	"l.":    {},
	"(l.)":  {},
	"R.":    {},
	"&":     {},
	"var.":  {},
	"in":    {},
}

// Parse scans the tokens for lexicon matches and stores the resulting
// annotations in the result.
func (e *StringBasedEntityEngine) Parse(ctx context.Context, _ string, result *annotation.Result) error {
	var annotations []*annotation.Annotation
	lastAnnotationEnd := -1

	for index, token := range result.Tokens {
		// Tokens covered by the previous annotation are consumed.  Any
		// token starting before the annotation's end lies inside it,
		// including the middle tokens of entities spanning three or more
		// tokens.
		if token.Begin < lastAnnotationEnd {
			continue
		}

		matched, data, err := e.lookupToken(ctx, token.Word)
		if err != nil {
			return err
		}

		candidate := token.Word
		found := matched

		if !token.Quoted {
			extended := token.Word
			for _, following := range result.Tokens[index+1:] {
				extended = extended.Concat(following.Word)

				// Extensions query by lemma only, the combined surface text
				// of a multi-token entity is rarely in the lexicon.
				extendedData, ok, err := e.read(ctx, extended.Lemma)
				if err != nil {
					return err
				}
				if !ok {
					break
				}
				candidate, data, found = extended, extendedData, true
			}
		}

		if !found {
			continue
		}

		ann, err := e.buildAnnotation(candidate, data)
		if err != nil {
			return err
		}
		lastAnnotationEnd = ann.End
		annotations = append(annotations, ann)
	}

	result.NamedEntityRecognition = annotations

	return nil
}

// lookupToken queries the lexicon with the token's text first, then its
// lemma.  Invalid strings are skipped entirely.
func (e *StringBasedEntityEngine) lookupToken(ctx context.Context, token annotation.Word) (bool, string, error) {
	for _, test := range token.TextAndLemma() {
		if !isWordValid(test) {
			continue
		}
		data, ok, err := e.read(ctx, test)
		if err != nil {
			return false, "", err
		}
		if ok {
			return true, data, nil
		}
	}
	return false, "", nil
}

func (e *StringBasedEntityEngine) read(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, nil
	}
	data, ok, err := e.store.Read(ctx, strings.ToLower(key))
	if err != nil {
		return "", false, errors.Wrap(err, errors.ErrCodeKeyValueStore,
			"the lexicon lookup failed").WithDetail(key)
	}
	return data, ok, nil
}

func (e *StringBasedEntityEngine) buildAnnotation(word annotation.Word, data string) (*annotation.Annotation, error) {
	decoded, err := decodeLexiconPayload(data)
	if err != nil {
		return nil, err
	}

	ann := &annotation.Annotation{Word: word}
	applyEntityTypes(ann, decoded)

	return ann, nil
}

// isWordValid filters out strings that are too short, numeric, start a
// parenthesis, or are blacklisted.
func isWordValid(word string) bool {
	if len([]rune(word)) <= 2 {
		return false
	}
	if isNumeric(word) {
		return false
	}
	if strings.HasPrefix(word, "(") {
		return false
	}
	_, blacklisted := stringBlacklist[word]
	return !blacklisted
}

func isNumeric(word string) bool {
	for _, r := range word {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(word) > 0
}
