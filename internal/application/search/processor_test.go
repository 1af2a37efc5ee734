package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texttechlab/enhanced-search/internal/domain/annotation"
	"github.com/texttechlab/enhanced-search/internal/domain/annotation/lang"
	"github.com/texttechlab/enhanced-search/internal/domain/annotation/text"
	"github.com/texttechlab/enhanced-search/internal/testutil"
	"github.com/texttechlab/enhanced-search/pkg/errors"
)

type fakeKnowledgeStore struct {
	response string
	err      error
	calls    int
}

func (f *fakeKnowledgeStore) Read(_ context.Context, _ string, _ bool) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func bindingsResponse(uris ...string) string {
	response := `{"results": {"bindings": [`
	for i, uri := range uris {
		if i > 0 {
			response += ","
		}
		response += `{"taxon": {"value": "` + uri + `"}}`
	}
	return response + `]}}`
}

func newTestProcessor(t *testing.T, store KnowledgeStore) *SemanticQueryProcessor {
	t.Helper()

	lexicon := testutil.NewDefaultLexiconStore()
	annotator, err := text.NewAnnotator(text.AnnotatorConfig{
		Tokenizer:              text.NewSimpleTokenizer(),
		LanguageDetection:      text.NewLanguageAnnotationEngine(lang.NewStopwordDetector()),
		Lemmatizer:             text.NewLemmaAnnotationEngine(lang.NewDictionaryLemmatizer(), ""),
		NamedEntityRecognition: text.NewStringBasedEntityEngine(lexicon),
		LiteralRecognition:     text.NewLiteralAnnotationEngine(),
		EntityLinking:          text.NewUriLinkerEngine(lexicon),
		Disambiguation:         text.NewDisambiguationEngine(),
		DependencyRecognition:  text.NewPatternDependencyEngine(),
	})
	require.NoError(t, err)

	registry := NewEngineRegistry()
	registry.Register("sparql", NewSparqlSemanticEngine(store, nil))

	return NewSemanticQueryProcessor(annotator, registry, "sparql", testutil.NewCaptureLogger())
}

func uriSet(urls ...string) annotation.UriSet {
	var s annotation.UriSet
	for _, u := range urls {
		s = s.Add(annotation.NewUri(u))
	}
	return s
}

func TestUpdateQueryWithAnnotationsNothingFound(t *testing.T) {
	processor := newTestProcessor(t, &fakeKnowledgeStore{})
	query := &annotation.Query{OriginalString: "Something not in the database"}

	require.NoError(t, processor.UpdateQueryWithAnnotations(context.Background(), query))

	assert.Empty(t, query.Annotations)
	assert.Empty(t, query.Statements)
	assert.Len(t, query.Literals, 5)
}

func TestUpdateQueryWithAnnotationsMultiTokenTaxon(t *testing.T) {
	processor := newTestProcessor(t, &fakeKnowledgeStore{})
	query := &annotation.Query{OriginalString: "Fagus sylvatica"}

	require.NoError(t, processor.UpdateQueryWithAnnotations(context.Background(), query))

	require.Len(t, query.Annotations, 1)
	taxon := query.Annotations[0]
	assert.Equal(t, "Fagus sylvatica", taxon.Text)
	assert.Equal(t, annotation.TypePlant, taxon.Type)
	assert.True(t, taxon.URIs.Contains("https://www.biofid.de/ontology/fagus_sylvatica"))
	assert.Empty(t, query.Statements)
}

func TestUpdateQueryWithAnnotationsBuildsPropertyStatement(t *testing.T) {
	processor := newTestProcessor(t, &fakeKnowledgeStore{})
	query := &annotation.Query{OriginalString: "Pflanzen mit roten Blüten"}

	require.NoError(t, processor.UpdateQueryWithAnnotations(context.Background(), query))

	require.Len(t, query.Statements, 1)
	statement := query.Statements[0]
	assert.True(t, statement.Subject.URIs.Contains("https://www.biofid.de/ontology/pflanzen"))
	assert.True(t, statement.Predicate.Contains("https://pato.org/flower_part"))
	assert.True(t, statement.Object.URIs.Contains("https://pato.org/red_color"))
	assert.Equal(t, annotation.RelationshipNone, statement.Relationship)
}

func TestUpdateQueryWithAnnotationsBuildsOrStatement(t *testing.T) {
	processor := newTestProcessor(t, &fakeKnowledgeStore{})
	query := &annotation.Query{OriginalString: "Pflanzen oder Hafen"}

	require.NoError(t, processor.UpdateQueryWithAnnotations(context.Background(), query))

	require.Len(t, query.Statements, 1)
	statement := query.Statements[0]
	assert.True(t, statement.Subject.URIs.Contains("https://www.biofid.de/ontology/pflanzen"))
	require.NotNil(t, statement.Object.Literal)
	assert.Equal(t, "Hafen", statement.Object.Literal.Text)
	assert.Equal(t, annotation.RelationshipOr, statement.Relationship)
}

func TestUpdateQueryWithAnnotationsWithoutAnnotator(t *testing.T) {
	processor := NewSemanticQueryProcessor(nil, NewEngineRegistry(), "sparql", nil)

	err := processor.UpdateQueryWithAnnotations(context.Background(), &annotation.Query{})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAnnotatorMissing))
}

func propertyQuery() *annotation.Query {
	pflanzen := &annotation.Annotation{
		Word: annotation.Word{Begin: 0, End: 8, Text: "Pflanzen", Lemma: "Pflanze"},
		Type: annotation.TypePlant,
		URIs: uriSet("https://www.biofid.de/ontology/pflanzen"),
	}
	roten := &annotation.Annotation{
		Word: annotation.Word{Begin: 13, End: 18, Text: "roten", Lemma: "rot"},
		Type: annotation.TypeMiscellaneous,
		URIs: uriSet("https://pato.org/red_color"),
	}
	blueten := &annotation.Annotation{
		Word: annotation.Word{Begin: 19, End: 25, Text: "Blüten", Lemma: "Blüte"},
		Type: annotation.TypeMiscellaneous,
		URIs: annotation.NewUriSet(annotation.NewPredicateUri("https://pato.org/flower_part")),
	}
	mit := &annotation.LiteralString{Word: annotation.Word{Begin: 9, End: 12, Text: "mit"}}

	return &annotation.Query{
		OriginalString: "Pflanzen mit roten Blüten",
		Annotations:    []*annotation.Annotation{pflanzen, roten, blueten},
		Literals:       []*annotation.LiteralString{mit},
		Statements: []annotation.Statement{
			{
				Subject:   annotation.URIsTerm(pflanzen.URIs),
				Predicate: blueten.URIs,
				Object:    annotation.URIsTerm(roten.URIs),
			},
		},
	}
}

func TestResolveQueryAnnotationsFoldsFeatures(t *testing.T) {
	store := &fakeKnowledgeStore{response: bindingsResponse(
		"https://www.biofid.de/ontology/plant_with_red_flower_1",
		"https://www.biofid.de/ontology/plant_with_red_flower_2",
		"https://www.biofid.de/ontology/plant_with_red_flower_3",
		"https://www.biofid.de/ontology/plant_with_red_flower_and_3_petals",
	)}
	processor := newTestProcessor(t, store)
	query := propertyQuery()

	enriched, err := processor.ResolveQueryAnnotations(context.Background(), query, 0)
	require.NoError(t, err)
	assert.True(t, enriched)
	assert.Equal(t, 1, store.calls)

	require.Len(t, query.Annotations, 1)
	pflanzen := query.Annotations[0]
	assert.Equal(t, "Pflanzen", pflanzen.Text)
	assert.Equal(t, []string{
		"https://www.biofid.de/ontology/plant_with_red_flower_1",
		"https://www.biofid.de/ontology/plant_with_red_flower_2",
		"https://www.biofid.de/ontology/plant_with_red_flower_3",
		"https://www.biofid.de/ontology/plant_with_red_flower_and_3_petals",
	}, pflanzen.URIs.URLs())
	for _, uri := range pflanzen.URIs {
		assert.True(t, uri.Safe)
	}

	require.Len(t, pflanzen.Features, 2)
	assert.True(t, pflanzen.Features[0].Value.URIs.Contains("https://www.biofid.de/ontology/pflanzen"))
	assert.True(t, pflanzen.Features[0].Property.IsZero())
	assert.True(t, pflanzen.Features[1].Property.URIs.Contains("https://pato.org/flower_part"))
	assert.True(t, pflanzen.Features[1].Value.URIs.Contains("https://pato.org/red_color"))

	require.Len(t, query.Literals, 1)
	assert.Equal(t, "mit", query.Literals[0].Text)
}

func numericalQuery(number string) *annotation.Query {
	begin := 13
	end := begin + len(number)
	pflanzen := &annotation.Annotation{
		Word: annotation.Word{Begin: 0, End: 8, Text: "Pflanzen", Lemma: "Pflanze"},
		Type: annotation.TypePlant,
		URIs: uriSet("https://www.biofid.de/ontology/pflanzen"),
	}
	kelchblatt := &annotation.Annotation{
		Word: annotation.Word{Begin: end + 1, End: end + 14, Text: "Kelchblättern", Lemma: "Kelchblatt"},
		Type: annotation.TypeMiscellaneous,
		URIs: annotation.NewUriSet(annotation.NewPredicateUri("https://pato.org/has_petal_count")),
	}
	mit := &annotation.LiteralString{Word: annotation.Word{Begin: 9, End: 12, Text: "mit"}}
	count := &annotation.LiteralString{Word: annotation.Word{Begin: begin, End: end, Text: number}}

	return &annotation.Query{
		OriginalString: "Pflanzen mit " + number + " Kelchblättern",
		Annotations:    []*annotation.Annotation{pflanzen, kelchblatt},
		Literals:       []*annotation.LiteralString{mit, count},
		Statements: []annotation.Statement{
			{
				Subject:   annotation.URIsTerm(pflanzen.URIs),
				Predicate: kelchblatt.URIs,
				Object:    annotation.LiteralTerm(count),
			},
		},
	}
}

func TestResolveQueryAnnotationsLiteralValueFeature(t *testing.T) {
	store := &fakeKnowledgeStore{response: bindingsResponse(
		"https://www.biofid.de/ontology/plant_with_red_flower_and_3_petals",
	)}
	processor := newTestProcessor(t, store)
	query := numericalQuery("3")

	enriched, err := processor.ResolveQueryAnnotations(context.Background(), query, 0)
	require.NoError(t, err)
	assert.True(t, enriched)

	require.Len(t, query.Annotations, 1)
	pflanzen := query.Annotations[0]
	assert.Equal(t, []string{
		"https://www.biofid.de/ontology/plant_with_red_flower_and_3_petals",
	}, pflanzen.URIs.URLs())

	require.Len(t, pflanzen.Features, 2)
	feature := pflanzen.Features[1]
	assert.True(t, feature.Property.URIs.Contains("https://pato.org/has_petal_count"))
	require.NotNil(t, feature.Value.Literal)
	assert.Equal(t, "3", feature.Value.Literal.Text)

	// The consumed number literal is removed, the connective stays.
	require.Len(t, query.Literals, 1)
	assert.Equal(t, "mit", query.Literals[0].Text)
}

func TestResolveQueryAnnotationsNoMatchEmptiesUris(t *testing.T) {
	store := &fakeKnowledgeStore{response: bindingsResponse()}
	processor := newTestProcessor(t, store)
	query := numericalQuery("25")

	enriched, err := processor.ResolveQueryAnnotations(context.Background(), query, 0)
	require.NoError(t, err)
	assert.False(t, enriched)

	require.Len(t, query.Annotations, 1)
	pflanzen := query.Annotations[0]
	assert.Empty(t, pflanzen.URIs)
	assert.Len(t, pflanzen.Features, 2)
}

func TestResolveQueryAnnotationsWithoutStatementsSkipsStore(t *testing.T) {
	store := &fakeKnowledgeStore{err: errors.New(errors.ErrCodeKnowledgeStore, "boom")}
	processor := newTestProcessor(t, store)
	query := &annotation.Query{OriginalString: "Foo"}

	enriched, err := processor.ResolveQueryAnnotations(context.Background(), query, 0)
	require.NoError(t, err)
	assert.False(t, enriched)
	assert.Zero(t, store.calls)
}

func TestResolveQueryAnnotationsPurgesAmbiguity(t *testing.T) {
	store := &fakeKnowledgeStore{response: bindingsResponse(
		"https://www.biofid.de/ontology/paris_quadrifolia",
	)}
	processor := newTestProcessor(t, store)

	paris := &annotation.Annotation{
		Word: annotation.Word{Begin: 0, End: 5, Text: "Paris", Lemma: "Paris"},
		Type: annotation.TypePlant,
		URIs: uriSet("https://www.biofid.de/ontology/paris"),
	}
	paris.AddAmbiguous(&annotation.Annotation{
		Word: annotation.Word{Begin: 0, End: 5, Text: "Paris", Lemma: "Paris"},
		Type: annotation.TypeLocation,
		URIs: uriSet("https://sws.geonames.org/Paris"),
	})
	gruenen := &annotation.Annotation{
		Word: annotation.Word{Begin: 10, End: 16, Text: "grünen", Lemma: "grün"},
		Type: annotation.TypeMiscellaneous,
		URIs: uriSet("https://pato.org/green_color"),
	}
	blueten := &annotation.Annotation{
		Word: annotation.Word{Begin: 17, End: 23, Text: "Blüten", Lemma: "Blüte"},
		Type: annotation.TypeMiscellaneous,
		URIs: annotation.NewUriSet(annotation.NewPredicateUri("https://pato.org/flower_part")),
	}
	query := &annotation.Query{
		OriginalString: "Paris mit grünen Blüten",
		Annotations:    []*annotation.Annotation{paris, gruenen, blueten},
		Literals: []*annotation.LiteralString{
			{Word: annotation.Word{Begin: 6, End: 9, Text: "mit"}},
		},
		Statements: []annotation.Statement{
			{
				Subject:   annotation.URIsTerm(paris.URIs),
				Predicate: blueten.URIs,
				Object:    annotation.URIsTerm(gruenen.URIs),
			},
		},
	}

	enriched, err := processor.ResolveQueryAnnotations(context.Background(), query, 0)
	require.NoError(t, err)
	assert.True(t, enriched)

	require.Len(t, query.Annotations, 1)
	resolved := query.Annotations[0]
	assert.Equal(t, "Paris", resolved.Text)
	assert.Empty(t, resolved.Ambiguous)
	assert.Equal(t, []string{"https://www.biofid.de/ontology/paris_quadrifolia"},
		resolved.URIs.URLs())
}

func TestResolveQueryAnnotationsWithoutEngine(t *testing.T) {
	processor := NewSemanticQueryProcessor(nil, nil, "", nil)

	_, err := processor.ResolveQueryAnnotations(context.Background(), &annotation.Query{}, 0)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSemanticEngineMissing))
}

func TestResolveQueryAnnotationsUnknownEngine(t *testing.T) {
	processor := NewSemanticQueryProcessor(nil, NewEngineRegistry(), "missing", nil)

	_, err := processor.ResolveQueryAnnotations(context.Background(), &annotation.Query{}, 0)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEngineNotRegistered))
}

func TestResolveIsIdempotentWithoutStatements(t *testing.T) {
	store := &fakeKnowledgeStore{response: bindingsResponse()}
	processor := newTestProcessor(t, store)
	query := &annotation.Query{OriginalString: "Fagus sylvatica"}

	require.NoError(t, processor.UpdateQueryWithAnnotations(context.Background(), query))
	require.Len(t, query.Annotations, 1)
	before := query.Annotations[0].URIs.URLs()

	_, err := processor.ResolveQueryAnnotations(context.Background(), query, 0)
	require.NoError(t, err)

	require.Len(t, query.Annotations, 1)
	assert.Equal(t, before, query.Annotations[0].URIs.URLs())
	assert.Zero(t, store.calls)
}
