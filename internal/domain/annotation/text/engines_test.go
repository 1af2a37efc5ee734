package text

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texttechlab/enhanced-search/internal/domain/annotation"
	"github.com/texttechlab/enhanced-search/internal/testutil"
)

func TestLiteralAnnotationEngine(t *testing.T) {
	tokens := []*annotation.LiteralString{
		literal(0, 5, "Fagus", "Fagus"),
		literal(6, 8, "in", "in"),
		literal(9, 20, "Deutschland", "Deutschland"),
	}
	result := &annotation.Result{
		Tokens: tokens,
		NamedEntityRecognition: []*annotation.Annotation{
			{Word: annotation.Word{Begin: 0, End: 5, Text: "Fagus"}, Type: annotation.TypePlant},
			{Word: annotation.Word{Begin: 9, End: 20, Text: "Deutschland"}, Type: annotation.TypeLocation},
		},
	}

	require.NoError(t, NewLiteralAnnotationEngine().Parse(context.Background(), "", result))

	require.Len(t, result.Literals, 1)
	assert.Equal(t, "in", result.Literals[0].Text)
}

func TestLiteralAnnotationEngineBlocksInclusiveRange(t *testing.T) {
	// A token starting exactly at an annotation's end offset counts as
	// consumed by that annotation.
	tokens := []*annotation.LiteralString{
		literal(0, 5, "Fagus", "Fagus"),
		literal(5, 8, "foo", "foo"),
	}
	result := &annotation.Result{
		Tokens: tokens,
		NamedEntityRecognition: []*annotation.Annotation{
			{Word: annotation.Word{Begin: 0, End: 5, Text: "Fagus"}},
		},
	}

	require.NoError(t, NewLiteralAnnotationEngine().Parse(context.Background(), "", result))
	assert.Empty(t, result.Literals)
}

func TestUriLinkerEngine(t *testing.T) {
	engine := NewUriLinkerEngine(testutil.NewDefaultLexiconStore())
	result := &annotation.Result{
		NamedEntityRecognition: []*annotation.Annotation{
			{Word: annotation.Word{Begin: 11, End: 16, Text: "Paris", Lemma: "Paris"},
				Type: annotation.TypePlant},
		},
	}

	require.NoError(t, engine.Parse(context.Background(), "", result))

	linked := result.EntityLinking["11/16"]
	require.NotNil(t, linked)
	assert.True(t, linked[annotation.TypePlant].Contains("https://www.biofid.de/ontology/paris"))
	assert.True(t, linked[annotation.TypeLocation].Contains("https://sws.geonames.org/Paris"))
}

func TestUriLinkerEngineFallsBackToLemma(t *testing.T) {
	engine := NewUriLinkerEngine(testutil.NewDefaultLexiconStore())
	result := &annotation.Result{
		NamedEntityRecognition: []*annotation.Annotation{
			{Word: annotation.Word{Begin: 0, End: 8, Text: "Pflanzen", Lemma: "Pflanze"},
				Type: annotation.TypePlant},
		},
	}

	require.NoError(t, engine.Parse(context.Background(), "", result))

	linked := result.EntityLinking["0/8"]
	require.NotNil(t, linked)
	assert.True(t, linked[annotation.TypePlant].Contains("https://www.biofid.de/ontology/pflanzen"))
}

func TestUriLinkerEngineUnknownAnnotationLeavesNoEntry(t *testing.T) {
	engine := NewUriLinkerEngine(testutil.NewDefaultLexiconStore())
	result := &annotation.Result{
		NamedEntityRecognition: []*annotation.Annotation{
			{Word: annotation.Word{Begin: 0, End: 3, Text: "Foo", Lemma: "Foo"}},
		},
	}

	require.NoError(t, engine.Parse(context.Background(), "", result))
	assert.Empty(t, result.EntityLinking)
}

func TestDisambiguationEngineLocationContextWins(t *testing.T) {
	text := "Fagus sylvatica in Paris"
	paris := &annotation.Annotation{
		Word: annotation.Word{Begin: 19, End: 24, Text: "Paris", Lemma: "Paris"},
		Type: annotation.TypePlant,
	}
	paris.AddAmbiguous(&annotation.Annotation{
		Word: annotation.Word{Begin: 19, End: 24, Text: "Paris", Lemma: "Paris"},
		Type: annotation.TypeLocation,
	})
	result := &annotation.Result{NamedEntityRecognition: []*annotation.Annotation{paris}}

	require.NoError(t, NewDisambiguationEngine().Parse(context.Background(), text, result))

	require.Len(t, result.Disambiguations, 1)
	decision := result.Disambiguations[0]
	assert.Same(t, paris, decision.Original)
	assert.Equal(t, annotation.TypeLocation, decision.Replacement.Type)
	assert.Empty(t, decision.Replacement.Ambiguous)
}

func TestDisambiguationEngineKeepsPlantWithoutContext(t *testing.T) {
	text := "Paris mit grünen Blüten"
	paris := &annotation.Annotation{
		Word: annotation.Word{Begin: 0, End: 5, Text: "Paris", Lemma: "Paris"},
		Type: annotation.TypePlant,
	}
	paris.AddAmbiguous(&annotation.Annotation{
		Word: annotation.Word{Begin: 0, End: 5, Text: "Paris", Lemma: "Paris"},
		Type: annotation.TypeLocation,
	})
	result := &annotation.Result{NamedEntityRecognition: []*annotation.Annotation{paris}}

	require.NoError(t, NewDisambiguationEngine().Parse(context.Background(), text, result))

	require.Len(t, result.Disambiguations, 1)
	decision := result.Disambiguations[0]
	assert.Equal(t, annotation.TypePlant, decision.Replacement.Type)
	assert.Empty(t, decision.Replacement.Ambiguous)
	assert.NotSame(t, paris, decision.Replacement)
}

func TestDisambiguationEngineEmitsDecisionForUnambiguous(t *testing.T) {
	fagus := &annotation.Annotation{
		Word: annotation.Word{Begin: 0, End: 5, Text: "Fagus", Lemma: "Fagus"},
		Type: annotation.TypePlant,
	}
	result := &annotation.Result{NamedEntityRecognition: []*annotation.Annotation{fagus}}

	require.NoError(t, NewDisambiguationEngine().Parse(context.Background(), "Fagus", result))

	require.Len(t, result.Disambiguations, 1)
	assert.Equal(t, annotation.TypePlant, result.Disambiguations[0].Replacement.Type)
}

func TestPatternDependencyEngineTaxonProperty(t *testing.T) {
	// "Pflanzen mit roten Blüten"
	result := &annotation.Result{
		NamedEntityRecognition: []*annotation.Annotation{
			{Word: annotation.Word{Begin: 0, End: 8, Text: "Pflanzen", Lemma: "Pflanze"},
				Type: annotation.TypePlant},
			{Word: annotation.Word{Begin: 13, End: 18, Text: "roten", Lemma: "rot"},
				Type: annotation.TypeMiscellaneous},
			{Word: annotation.Word{Begin: 19, End: 25, Text: "Blüten", Lemma: "Blüte"},
				Type: annotation.TypeMiscellaneous},
		},
		Literals: []*annotation.LiteralString{literal(9, 12, "mit", "mit")},
	}

	engine := NewPatternDependencyEngine()
	require.NoError(t, engine.Parse(context.Background(), "Pflanzen mit roten Blüten", result))

	require.Len(t, result.Relationships, 1)
	match := result.Relationships[0]
	assert.Equal(t, annotation.RelationshipNone, match.Relationship)
	assert.Equal(t, "0/8", match.Captures["subject"])
	assert.Equal(t, "13/18", match.Captures["object"])
	assert.Equal(t, "19/25", match.Captures["predicate"])
}

func TestPatternDependencyEngineNumericalProperty(t *testing.T) {
	// "Pflanzen mit 3 Kelchblättern"
	result := &annotation.Result{
		NamedEntityRecognition: []*annotation.Annotation{
			{Word: annotation.Word{Begin: 0, End: 8, Text: "Pflanzen", Lemma: "Pflanze"},
				Type: annotation.TypePlant},
			{Word: annotation.Word{Begin: 15, End: 28, Text: "Kelchblättern", Lemma: "Kelchblatt"},
				Type: annotation.TypeMiscellaneous},
		},
		Literals: []*annotation.LiteralString{
			literal(9, 12, "mit", "mit"),
			literal(13, 14, "3", "3"),
		},
	}

	engine := NewPatternDependencyEngine()
	require.NoError(t, engine.Parse(context.Background(), "Pflanzen mit 3 Kelchblättern", result))

	require.Len(t, result.Relationships, 1)
	match := result.Relationships[0]
	assert.Equal(t, "0/8", match.Captures["subject"])
	assert.Equal(t, "13/14", match.Captures["object"])
	assert.Equal(t, "15/28", match.Captures["predicate"])
}

func TestPatternDependencyEnginePatternPriority(t *testing.T) {
	// "Pflanzen mit roten Blüten und Rosen mit 3 Kelchblättern" holds a
	// descriptive property and a numerical property side by side.  Only the
	// first pattern in priority order may contribute; the numerical match
	// over the second taxon must never surface.
	result := &annotation.Result{
		NamedEntityRecognition: []*annotation.Annotation{
			{Word: annotation.Word{Begin: 0, End: 8, Text: "Pflanzen", Lemma: "Pflanze"},
				Type: annotation.TypePlant},
			{Word: annotation.Word{Begin: 13, End: 18, Text: "roten", Lemma: "rot"},
				Type: annotation.TypeMiscellaneous},
			{Word: annotation.Word{Begin: 19, End: 25, Text: "Blüten", Lemma: "Blüte"},
				Type: annotation.TypeMiscellaneous},
			{Word: annotation.Word{Begin: 30, End: 35, Text: "Rosen", Lemma: "Rose"},
				Type: annotation.TypePlant},
			{Word: annotation.Word{Begin: 42, End: 55, Text: "Kelchblättern", Lemma: "Kelchblatt"},
				Type: annotation.TypeMiscellaneous},
		},
		Literals: []*annotation.LiteralString{
			literal(9, 12, "mit", "mit"),
			literal(26, 29, "und", "und"),
			literal(36, 39, "mit", "mit"),
			literal(40, 41, "3", "3"),
		},
	}

	engine := NewPatternDependencyEngine()
	require.NoError(t, engine.Parse(context.Background(),
		"Pflanzen mit roten Blüten und Rosen mit 3 Kelchblättern", result))

	require.Len(t, result.Relationships, 1)
	match := result.Relationships[0]
	assert.Equal(t, annotation.RelationshipNone, match.Relationship)
	assert.Equal(t, "0/8", match.Captures["subject"])
	assert.Equal(t, "13/18", match.Captures["object"])
	assert.Equal(t, "19/25", match.Captures["predicate"])
}

func TestPatternDependencyEngineConjunctions(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		conjunction  string
		relationship annotation.RelationshipType
	}{
		{"and", "Fagus und Abies", "und", annotation.RelationshipAnd},
		{"or", "Fagus oder Abies", "oder", annotation.RelationshipOr},
	}

	engine := NewPatternDependencyEngine()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			middleEnd := 5 + 1 + len(tt.conjunction)
			result := &annotation.Result{
				NamedEntityRecognition: []*annotation.Annotation{
					{Word: annotation.Word{Begin: 0, End: 5, Text: "Fagus", Lemma: "Fagus"},
						Type: annotation.TypePlant},
					{Word: annotation.Word{Begin: middleEnd + 1, End: middleEnd + 6, Text: "Abies", Lemma: "Abies"},
						Type: annotation.TypePlant},
				},
				Literals: []*annotation.LiteralString{
					literal(6, middleEnd, tt.conjunction, tt.conjunction),
				},
			}

			require.NoError(t, engine.Parse(context.Background(), tt.text, result))

			require.Len(t, result.Relationships, 1)
			match := result.Relationships[0]
			assert.Equal(t, tt.relationship, match.Relationship)
			assert.Equal(t, "0/5", match.Captures["subject"])
		})
	}
}

func TestPatternDependencyEngineNoMatch(t *testing.T) {
	result := &annotation.Result{
		NamedEntityRecognition: []*annotation.Annotation{
			{Word: annotation.Word{Begin: 0, End: 15, Text: "Fagus sylvatica"},
				Type: annotation.TypePlant},
		},
	}

	engine := NewPatternDependencyEngine()
	require.NoError(t, engine.Parse(context.Background(), "Fagus sylvatica", result))
	assert.Empty(t, result.Relationships)
}
