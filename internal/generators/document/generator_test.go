package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/texttechlab/enhanced-search/internal/domain/annotation"
	"github.com/texttechlab/enhanced-search/pkg/errors"
)

func literal(begin, end int, text string, quoted bool) *annotation.LiteralString {
	return &annotation.LiteralString{
		Word: annotation.Word{Begin: begin, End: end, Text: text, Quoted: quoted},
	}
}

func safeUris(urls ...string) annotation.UriSet {
	var s annotation.UriSet
	for _, u := range urls {
		s = s.Add(annotation.Uri{URL: u, PositionInTriple: 3, Safe: true})
	}
	return s
}

func TestGenerateQueries(t *testing.T) {
	fagusUris := safeUris(
		"https://www.biofid.de/ontology/fagus_sylvatica",
		"https://www.biofid.de/ontology/another_fagus",
	)
	foo := literal(21, 24, "Foo", false)

	tests := []struct {
		name     string
		query    *annotation.Query
		expected string
	}{
		{
			name: "only literals",
			query: &annotation.Query{
				OriginalString: "Here is no annotation",
				Literals: []*annotation.LiteralString{
					literal(0, 4, "Here", false),
					literal(5, 7, "is", false),
					literal(8, 10, "no", false),
					literal(11, 21, "annotation", false),
				},
			},
			expected: "text:(Here AND is AND no AND annotation)",
		},
		{
			name: "quoted literal",
			query: &annotation.Query{
				OriginalString: "'Here is no annotation'",
				Literals: []*annotation.LiteralString{
					literal(0, 21, "Here is no annotation", true),
				},
			},
			expected: `text:"Here is no annotation"`,
		},
		{
			name: "single safe annotation",
			query: &annotation.Query{
				OriginalString: "Fagus sylvatica",
				Annotations: []*annotation.Annotation{
					{
						Word: annotation.Word{Begin: 0, End: 15, Text: "Fagus sylvatica"},
						URIs: safeUris("https://www.biofid.de/ontology/fagus_sylvatica"),
					},
				},
			},
			expected: `text:"https://www.biofid.de/ontology/fagus_sylvatica"`,
		},
		{
			name: "annotation with a literal",
			query: &annotation.Query{
				OriginalString: "Fagus sylvatica Test",
				Annotations: []*annotation.Annotation{
					{
						Word: annotation.Word{Begin: 0, End: 15, Text: "Fagus sylvatica"},
						URIs: safeUris("https://www.biofid.de/ontology/fagus_sylvatica"),
					},
				},
				Literals: []*annotation.LiteralString{literal(16, 20, "Test", false)},
			},
			expected: `text:"https://www.biofid.de/ontology/fagus_sylvatica" AND text:Test`,
		},
		{
			name: "annotation with a quoted literal",
			query: &annotation.Query{
				OriginalString: "Fagus sylvatica 'Foo Bar'",
				Annotations: []*annotation.Annotation{
					{
						Word: annotation.Word{Begin: 0, End: 15, Text: "Fagus sylvatica"},
						URIs: safeUris("https://www.biofid.de/ontology/fagus_sylvatica"),
					},
				},
				Literals: []*annotation.LiteralString{literal(16, 25, "Foo Bar", true)},
			},
			expected: `text:"https://www.biofid.de/ontology/fagus_sylvatica" AND text:"Foo Bar"`,
		},
		{
			name: "and relationship consumes its members",
			query: &annotation.Query{
				OriginalString: "Fagus sylvatica und Foo",
				Annotations: []*annotation.Annotation{
					{
						Word: annotation.Word{Begin: 0, End: 15, Text: "Fagus sylvatica"},
						URIs: fagusUris,
					},
				},
				Literals: []*annotation.LiteralString{foo},
				Statements: []annotation.Statement{
					{
						Subject:      annotation.URIsTerm(fagusUris),
						Object:       annotation.LiteralTerm(foo),
						Relationship: annotation.RelationshipAnd,
					},
				},
			},
			expected: `text:("https://www.biofid.de/ontology/another_fagus" OR ` +
				`"https://www.biofid.de/ontology/fagus_sylvatica") AND text:Foo`,
		},
		{
			name: "or relationship",
			query: &annotation.Query{
				OriginalString: "Fagus sylvatica oder Foo",
				Annotations: []*annotation.Annotation{
					{
						Word: annotation.Word{Begin: 0, End: 15, Text: "Fagus sylvatica"},
						URIs: fagusUris,
					},
				},
				Literals: []*annotation.LiteralString{foo},
				Statements: []annotation.Statement{
					{
						Subject:      annotation.URIsTerm(fagusUris),
						Object:       annotation.LiteralTerm(foo),
						Relationship: annotation.RelationshipOr,
					},
				},
			},
			expected: `text:("https://www.biofid.de/ontology/another_fagus" OR ` +
				`"https://www.biofid.de/ontology/fagus_sylvatica") OR text:Foo`,
		},
		{
			name: "two entities in an and conjunction",
			query: &annotation.Query{
				OriginalString: "Fagus sylvatica und Quercus",
				Annotations: []*annotation.Annotation{
					{
						Word: annotation.Word{Begin: 0, End: 15, Text: "Fagus sylvatica"},
						URIs: fagusUris,
					},
					{
						Word: annotation.Word{Begin: 20, End: 27, Text: "Quercus"},
						URIs: safeUris("https://www.biofid.de/ontology/quercus"),
					},
				},
				Statements: []annotation.Statement{
					{
						Subject:      annotation.URIsTerm(fagusUris),
						Object:       annotation.URIsTerm(safeUris("https://www.biofid.de/ontology/quercus")),
						Relationship: annotation.RelationshipAnd,
					},
				},
			},
			expected: `text:("https://www.biofid.de/ontology/another_fagus" OR ` +
				`"https://www.biofid.de/ontology/fagus_sylvatica") AND ` +
				`text:"https://www.biofid.de/ontology/quercus"`,
		},
		{
			name: "literal or conjunction",
			query: func() *annotation.Query {
				fooLit := literal(0, 3, "Foo", false)
				bar := literal(7, 10, "Bar", false)
				return &annotation.Query{
					OriginalString: "Foo or Bar",
					Literals:       []*annotation.LiteralString{fooLit, bar},
					Statements: []annotation.Statement{
						{
							Subject:      annotation.LiteralTerm(fooLit),
							Object:       annotation.LiteralTerm(bar),
							Relationship: annotation.RelationshipOr,
						},
					},
				}
			}(),
			expected: "text:Foo OR text:Bar",
		},
		{
			name: "unsafe uri is escaped",
			query: &annotation.Query{
				OriginalString: "Fagus sylvatica 'Foo Bar'",
				Annotations: []*annotation.Annotation{
					{
						Word: annotation.Word{Begin: 0, End: 15, Text: "Fagus sylvatica"},
						URIs: annotation.NewUriSet(
							annotation.NewUri("https://www.biofid.de/ontology/fagus_sylvatica"),
						),
					},
				},
				Literals: []*annotation.LiteralString{literal(16, 25, "Foo Bar", true)},
			},
			expected: `text:"https\://www.biofid.de/ontology/fagus_sylvatica" AND text:"Foo Bar"`,
		},
	}

	generator := NewGenerator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := generator.Generate(tt.query)
			assert.Equal(t, tt.expected, result.String)
			assert.Equal(t, DefaultSearchField, result.SearchField)
		})
	}
}

func TestGenerateWithOrDefaultConjunction(t *testing.T) {
	generator := NewGenerator()
	generator.DefaultConjunction = annotation.RelationshipOr

	query := &annotation.Query{
		OriginalString: "Fagus sylvatica Test",
		Annotations: []*annotation.Annotation{
			{
				Word: annotation.Word{Begin: 0, End: 15, Text: "Fagus sylvatica"},
				URIs: safeUris("https://www.biofid.de/ontology/fagus_sylvatica"),
			},
		},
		Literals: []*annotation.LiteralString{literal(16, 20, "Test", false)},
	}

	result := generator.Generate(query)
	assert.Equal(t,
		`text:"https://www.biofid.de/ontology/fagus_sylvatica" OR text:Test`,
		result.String)
}

func TestGenerateWithCustomSearchField(t *testing.T) {
	generator := NewGenerator()
	generator.SearchField = "fulltext"

	query := &annotation.Query{
		Literals: []*annotation.LiteralString{literal(0, 3, "Foo", false)},
	}

	result := generator.Generate(query)
	assert.Equal(t, "fulltext:Foo", result.String)
	assert.Equal(t, "fulltext", result.SearchField)
}

func TestIsQuerySafe(t *testing.T) {
	assert.True(t, IsQuerySafe("Fagus sylvatica"))
	assert.False(t, IsQuerySafe("foo&stream.body=bar"))
	assert.False(t, IsQuerySafe("foo QT= bar"))
	assert.False(t, IsQuerySafe("something/config"))
}

func TestEscapeQueryInput(t *testing.T) {
	assert.Equal(t, `fagus \&\& quercus`, EscapeQueryInput("fagus && quercus", true))
	assert.Equal(t, `https\://example.org`, EscapeQueryInput("https://example.org", true))
	assert.Equal(t, `\"quoted\"`, EscapeQueryInput(`"quoted"`, false))
	assert.Equal(t, `"quoted"`, EscapeQueryInput(`"quoted"`, true))
	assert.Equal(t, `a\-b`, EscapeQueryInput("a-b", false))
}

func TestSanitizeQuery(t *testing.T) {
	sanitized, err := SanitizeQuery("Fagus (sylvatica)")
	require.NoError(t, err)
	assert.Equal(t, `Fagus \(sylvatica\)`, sanitized)

	_, err = SanitizeQuery("qt=/update")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeUserInput))
}
