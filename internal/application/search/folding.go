package search

import (
	"github.com/texttechlab/enhanced-search/internal/domain/annotation"
)

// updateAnnotations merges the enriched data into the query's annotations:
// features are created from the statements, the retrieved URI sets replace
// the URIs of their annotations, and any remaining ambiguity is purged.
//
// Feature creation runs before the URI replacement on purpose: features
// record the state the statements were built from.
func updateAnnotations(data map[string]annotation.UriSet, query *annotation.Query) {
	updateAnnotationFeatures(query)

	for _, ann := range query.Annotations {
		if uris, ok := data[ann.ID()]; ok {
			ann.URIs = uris
		}
	}

	for _, ann := range query.Annotations {
		ann.Ambiguous = nil
	}
}

// updateAnnotationFeatures creates the features of every annotation that
// anchors a statement, and marks the annotations consumed by those features.
func updateAnnotationFeatures(query *annotation.Query) {
	annotationByUris := make(map[string]*annotation.Annotation, len(query.Annotations))
	for _, ann := range query.Annotations {
		annotationByUris[ann.URIs.Key()] = ann
	}

	for _, statement := range query.Statements {
		if statement.Subject.IsZero() {
			continue
		}

		ann, ok := annotationByUris[statement.Subject.Key()]
		if !ok {
			continue
		}

		createFeaturesFromStatement(ann, statement)

		for _, feature := range ann.Features {
			markFeatureAnnotations(feature, ann, annotationByUris)
		}
	}
}

// createFeaturesFromStatement appends up to two features to the
// annotation: one preserving the annotation's own URIs, one built from the
// statement's predicate and object.
func createFeaturesFromStatement(ann *annotation.Annotation, statement annotation.Statement) {
	if feature := featureFromUris(ann.URIs); feature != nil {
		ann.Features = append(ann.Features, *feature)
	}

	feature := featureFromUris(statement.Object.URIs)
	if feature == nil {
		feature = featureFromUris(statement.Predicate)
		if feature != nil && !statement.Object.IsZero() {
			feature.Value = statement.Object
		}
	} else {
		feature.Property = annotation.URIsTerm(statement.Predicate)
	}

	if feature != nil {
		ann.Features = append(ann.Features, *feature)
	}
}

// featureFromUris creates a feature from a URI set, slotting it as property
// or value depending on the set's position in a triple.
func featureFromUris(uris annotation.UriSet) *annotation.Feature {
	if len(uris) == 0 {
		return nil
	}

	feature := &annotation.Feature{}
	if uris[0].PositionInTriple == 2 {
		feature.Property = annotation.URIsTerm(uris)
	} else {
		feature.Value = annotation.URIsTerm(uris)
	}

	return feature
}

// markFeatureAnnotations flags every annotation whose URI set appears in
// the feature as consumed, except the feature's own annotation.
func markFeatureAnnotations(
	feature annotation.Feature,
	owner *annotation.Annotation,
	annotationByUris map[string]*annotation.Annotation,
) {
	for _, term := range []annotation.Term{feature.Value, feature.Property} {
		if len(term.URIs) == 0 {
			continue
		}

		referenced, ok := annotationByUris[term.URIs.Key()]
		if ok && referenced != owner {
			referenced.IsFeature = true
		}
	}
}

// updateQuery restores the internal consistency of the query: annotations
// and literals that became features of another annotation are removed from
// the top-level lists.
func updateQuery(query *annotation.Query) {
	var features []annotation.Feature
	for _, ann := range query.Annotations {
		features = append(features, ann.Features...)
	}

	featureAnnotationsByUris := make(map[string]*annotation.Annotation)
	for _, ann := range query.Annotations {
		if ann.IsFeature {
			featureAnnotationsByUris[ann.URIs.Key()] = ann
		}
	}

	annotationsToRemove := make(map[*annotation.Annotation]bool)
	literalsToRemove := make(map[*annotation.LiteralString]bool)

	for _, feature := range features {
		for _, term := range []annotation.Term{feature.Property, feature.Value} {
			if term.Literal != nil {
				literalsToRemove[term.Literal] = true
				continue
			}
			if len(term.URIs) == 0 {
				continue
			}
			if ann, ok := featureAnnotationsByUris[term.URIs.Key()]; ok {
				annotationsToRemove[ann] = true
			}
		}
	}

	if len(annotationsToRemove) > 0 {
		kept := query.Annotations[:0]
		for _, ann := range query.Annotations {
			if !annotationsToRemove[ann] {
				kept = append(kept, ann)
			}
		}
		query.Annotations = kept
	}

	if len(literalsToRemove) > 0 {
		kept := query.Literals[:0]
		for _, lit := range query.Literals {
			if !literalsToRemove[lit] {
				kept = append(kept, lit)
			}
		}
		query.Literals = kept
	}
}
