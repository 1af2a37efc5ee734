package text

import (
	"context"
	"strings"

	"github.com/texttechlab/enhanced-search/internal/domain/annotation"
	"github.com/texttechlab/enhanced-search/pkg/errors"
)

// UriLinkerEngine associates annotations with their knowledge-base URIs.
// The association is purely string based and not disambiguated; the URIs
// are therefore not attached to the annotations directly but stored in the
// result's entity linking map, keyed by annotation ID and entity type, so
// that the compilation step can pick the set matching the resolved type.
type UriLinkerEngine struct {
	store KeyValueStore
}

// NewUriLinkerEngine creates the entity linking stage on top of the given
// lexicon store.
func NewUriLinkerEngine(store KeyValueStore) *UriLinkerEngine {
	return &UriLinkerEngine{store: store}
}

// Parse records the linked URIs of every recognized annotation.
func (e *UriLinkerEngine) Parse(ctx context.Context, _ string, result *annotation.Result) error {
	if result.EntityLinking == nil {
		result.EntityLinking = make(map[string]map[annotation.NamedEntityType]annotation.UriSet)
	}

	for _, ann := range result.NamedEntityRecognition {
		raw, ok, err := e.lookup(ctx, ann)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}

		decoded, err := decodeLexiconPayload(raw)
		if err != nil {
			return err
		}

		result.EntityLinking[ann.ID()] = decoded
	}

	return nil
}

func (e *UriLinkerEngine) lookup(ctx context.Context, ann *annotation.Annotation) (string, bool, error) {
	for _, test := range ann.TextAndLemma() {
		raw, ok, err := e.store.Read(ctx, strings.ToLower(test))
		if err != nil {
			return "", false, errors.Wrap(err, errors.ErrCodeKeyValueStore,
				"the entity linking lookup failed").WithDetail(test)
		}
		if ok {
			return raw, true, nil
		}
	}
	return "", false, nil
}
