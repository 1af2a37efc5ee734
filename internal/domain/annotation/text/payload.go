package text

import (
	"encoding/json"
	"sort"

	"github.com/texttechlab/enhanced-search/internal/domain/annotation"
	"github.com/texttechlab/enhanced-search/pkg/errors"
)

// A lexicon payload maps named-entity type strings onto URI entries:
//
//	{"Plant_Flora": [["https://www.biofid.de/ontology/fagus_sylvatica", 3]]}
//
// Each entry is a two-element array of URL and position in a triple.
type lexiconPayload map[string][]uriEntry

type uriEntry struct {
	URL      string
	Position int
}

func (e *uriEntry) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if len(fields) != 2 {
		return errors.Newf(errors.ErrCodeLexiconPayload,
			"a URI entry must hold exactly two elements, got %d", len(fields))
	}
	if err := json.Unmarshal(fields[0], &e.URL); err != nil {
		return err
	}
	return json.Unmarshal(fields[1], &e.Position)
}

// decodeLexiconPayload parses a raw lexicon value into URI sets per entity
// type.  Unknown type strings and malformed JSON yield an
// ErrCodeLexiconPayload error.
func decodeLexiconPayload(raw string) (map[annotation.NamedEntityType]annotation.UriSet, error) {
	var payload lexiconPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeLexiconPayload,
			"the lexicon payload holds no valid JSON").WithDetail(raw)
	}

	decoded := make(map[annotation.NamedEntityType]annotation.UriSet, len(payload))
	for typeString, entries := range payload {
		entityType, err := annotation.ParseNamedEntityType(typeString)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeLexiconPayload,
				"the lexicon payload names an unknown entity type")
		}

		uris := decoded[entityType]
		for _, entry := range entries {
			uris = uris.Add(annotation.Uri{URL: entry.URL, PositionInTriple: entry.Position})
		}
		decoded[entityType] = uris
	}

	return decoded, nil
}

// typesByPriority returns the entity types of a decoded payload in fixed
// priority order.
func typesByPriority(decoded map[annotation.NamedEntityType]annotation.UriSet) []annotation.NamedEntityType {
	types := make([]annotation.NamedEntityType, 0, len(decoded))
	for entityType := range decoded {
		types = append(types, entityType)
	}
	sort.Slice(types, func(i, j int) bool {
		return types[i].Priority() < types[j].Priority()
	})
	return types
}

// applyEntityTypes resolves the annotation's type from the payload.  The
// highest-priority type becomes the annotation's own; every further type
// produces an ambiguous sibling sharing the span.
func applyEntityTypes(ann *annotation.Annotation, decoded map[annotation.NamedEntityType]annotation.UriSet) {
	for i, entityType := range typesByPriority(decoded) {
		if i == 0 {
			ann.Type = entityType
			continue
		}

		sibling := ann.Clone()
		sibling.Type = entityType
		sibling.Ambiguous = nil
		ann.AddAmbiguous(sibling)
	}
}
