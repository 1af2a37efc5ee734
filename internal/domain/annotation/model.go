// Package annotation holds the shared data model of the text annotation
// pipeline: words, literals, annotations, URIs, statements, and the result
// containers threaded through the annotation engines.  Every pipeline stage
// reads and extends these types; none of them perform I/O.
package annotation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/texttechlab/enhanced-search/pkg/errors"
)

// NamedEntityType normalizes the named-entity type names used by the lexicon.
type NamedEntityType string

const (
	TypeTaxon         NamedEntityType = "Taxon"
	TypeAnimal        NamedEntityType = "Animal"
	TypePlant         NamedEntityType = "Plant"
	TypeLocation      NamedEntityType = "Location"
	TypeMiscellaneous NamedEntityType = "Miscellaneous"
)

// typePriority is the fixed tie-breaking order applied whenever one lexical
// span maps to multiple candidate entity types.  Lower index wins.
var typePriority = []NamedEntityType{
	TypePlant,
	TypeAnimal,
	TypeTaxon,
	TypeLocation,
	TypeMiscellaneous,
}

// Priority returns the tie-breaking rank of t.  Unknown types sort last.
func (t NamedEntityType) Priority() int {
	for i, p := range typePriority {
		if p == t {
			return i
		}
	}
	return len(typePriority)
}

// namedEntityAliases maps the lowercased lexicon annotation strings onto
// NamedEntityType values.  The lexicon historically uses compound class
// names such as "Plant_Flora".
var namedEntityAliases = map[string]NamedEntityType{
	"plant_flora":    TypePlant,
	"animal_fauna":   TypeAnimal,
	"location_place": TypeLocation,
	"plant":          TypePlant,
	"animal":         TypeAnimal,
	"location":       TypeLocation,
	"taxon":          TypeTaxon,
	"misc":           TypeMiscellaneous,
	"miscellaneous":  TypeMiscellaneous,
}

// ParseNamedEntityType converts a lexicon annotation string (e.g.
// "Plant_Flora") into the corresponding NamedEntityType.  Strings outside
// the known alias table yield an ErrCodeEntityType error, since they
// indicate a corrupt lexicon.
func ParseNamedEntityType(s string) (NamedEntityType, error) {
	t, ok := namedEntityAliases[strings.ToLower(s)]
	if !ok {
		return "", errors.Newf(errors.ErrCodeEntityType,
			"the string %q does not correspond to any named entity type", s)
	}
	return t, nil
}

// RelationshipType normalizes relationships between Word objects that were
// extracted from conjunctions.
type RelationshipType string

const (
	RelationshipNone RelationshipType = ""
	RelationshipAnd  RelationshipType = "and"
	RelationshipOr   RelationshipType = "or"
)

// Uri is a representation of a knowledge-base URI.  Two Uris are considered
// equal when their URL is equal; all other fields are metadata.
type Uri struct {
	URL string `json:"url"`

	// PositionInTriple is 2 when the URI names a predicate and 3 when it
	// names an object.
	PositionInTriple int `json:"position_in_triple"`

	// Safe reports whether the URL has already been escaped for a downstream
	// query language.
	Safe bool `json:"is_safe,omitempty"`

	Labels []string `json:"labels,omitempty"`

	// Parent and Children are weak hierarchical links, not ownership.
	Parent   *Uri   `json:"-"`
	Children []*Uri `json:"-"`
}

// NewUri constructs a Uri in object position (the common case).
func NewUri(url string) Uri {
	return Uri{URL: url, PositionInTriple: 3}
}

// NewPredicateUri constructs a Uri in predicate position.
func NewPredicateUri(url string) Uri {
	return Uri{URL: url, PositionInTriple: 2}
}

// UriSet is a set of Uris, unique and sorted by URL.  The sorted invariant
// makes iteration order, Key values, and "first element" deterministic.
// Always manipulate a UriSet through NewUriSet and Add.
type UriSet []Uri

// NewUriSet builds a UriSet from the given Uris, discarding URL duplicates.
func NewUriSet(uris ...Uri) UriSet {
	var s UriSet
	for _, u := range uris {
		s = s.Add(u)
	}
	return s
}

// Add returns a new UriSet containing u.  If an entry with the same URL is
// already present, the receiver is returned unchanged.
func (s UriSet) Add(u Uri) UriSet {
	i := sort.Search(len(s), func(i int) bool { return s[i].URL >= u.URL })
	if i < len(s) && s[i].URL == u.URL {
		return s
	}
	out := make(UriSet, 0, len(s)+1)
	out = append(out, s[:i]...)
	out = append(out, u)
	out = append(out, s[i:]...)
	return out
}

// Contains reports whether the set holds a Uri with the given URL.
func (s UriSet) Contains(url string) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i].URL >= url })
	return i < len(s) && s[i].URL == url
}

// URLs returns the sorted URL strings of the set.
func (s UriSet) URLs() []string {
	urls := make([]string, len(s))
	for i, u := range s {
		urls[i] = u.URL
	}
	return urls
}

// Key returns a canonical representation of the set, suitable as a map key.
// Two sets with the same URLs produce the same Key regardless of metadata.
func (s UriSet) Key() string {
	return strings.Join(s.URLs(), "\x1f")
}

// Equal reports whether both sets contain exactly the same URLs.
func (s UriSet) Equal(other UriSet) bool {
	return s.Key() == other.Key()
}

// Clone returns a deep copy of the set.
func (s UriSet) Clone() UriSet {
	if s == nil {
		return nil
	}
	out := make(UriSet, len(s))
	copy(out, s)
	return out
}

// Word is the base of any word in a query.  A Word may span multiple tokens.
// Begin and End are character offsets into the original text; the span is
// half-open, i.e. Text corresponds to original[Begin:End] before any quote
// stripping.  Identity is (Begin, End, Text).
type Word struct {
	Begin  int    `json:"begin"`
	End    int    `json:"end"`
	Text   string `json:"text"`
	Lemma  string `json:"lemma,omitempty"`
	Quoted bool   `json:"is_quoted,omitempty"`
}

// ID returns the stable cross-reference key "<begin>/<end>" used throughout
// the pipeline in place of pointer identity, because words are frequently
// copied and rebuilt between stages.
func (w Word) ID() string {
	return fmt.Sprintf("%d/%d", w.Begin, w.End)
}

// String renders the word's text, re-quoting it when it was quoted in the
// original query.
func (w Word) String() string {
	if w.Quoted {
		return `"` + w.Text + `"`
	}
	return w.Text
}

// Concat joins two words into a single multi-token Word spanning both.
// Texts and lemmas are joined with a single space.
func (w Word) Concat(other Word) Word {
	begin := w.Begin
	if other.Begin < begin {
		begin = other.Begin
	}
	end := w.End
	if other.End > end {
		end = other.End
	}
	return Word{
		Begin: begin,
		End:   end,
		Text:  w.Text + " " + other.Text,
		Lemma: w.Lemma + " " + other.Lemma,
	}
}

// TextAndLemma returns the word's text and lemma as a slice, text first,
// without empty strings or duplicates.
func (w Word) TextAndLemma() []string {
	out := []string{w.Text}
	if w.Lemma != "" && w.Lemma != w.Text {
		out = append(out, w.Lemma)
	}
	return out
}

// LiteralString is any token or multi-token span of a query that is not a
// recognized named entity.
type LiteralString struct {
	Word

	// Safe reports whether the text has already been escaped for a
	// downstream query language.
	Safe bool `json:"is_safe,omitempty"`
}

// Clone returns a copy of the literal.
func (l *LiteralString) Clone() *LiteralString {
	if l == nil {
		return nil
	}
	clone := *l
	return &clone
}

// Term is either a set of URIs or a literal string.  It models the
// loosely-typed slots of Statements and Features, where a value may come
// from entity linking (URIs) or straight from the query text (literal).
// A zero Term means "absent".
type Term struct {
	URIs    UriSet         `json:"uris,omitempty"`
	Literal *LiteralString `json:"literal,omitempty"`
}

// URIsTerm wraps a UriSet into a Term.
func URIsTerm(s UriSet) Term { return Term{URIs: s} }

// LiteralTerm wraps a literal into a Term.
func LiteralTerm(l *LiteralString) Term { return Term{Literal: l} }

// IsZero reports whether the Term is absent.
func (t Term) IsZero() bool { return len(t.URIs) == 0 && t.Literal == nil }

// Key returns a canonical representation of the Term, suitable as a map key
// when matching statement slots against annotation URI sets.
func (t Term) Key() string {
	if t.Literal != nil {
		return "lit\x1f" + t.Literal.ID() + "\x1f" + t.Literal.Text
	}
	return t.URIs.Key()
}

// Feature holds one "[predicate] [value]" descriptor attached to an
// Annotation after enrichment.
type Feature struct {
	Property Term `json:"property,omitempty"`
	Value    Term `json:"value,omitempty"`
}

// Annotation is a recognized named-entity span.
type Annotation struct {
	Word

	// URIs holds the knowledge-base URIs linked to the span.  An empty set
	// means "no knowledge-base match yet" (or, after a failed enrichment,
	// "no data found").
	URIs UriSet `json:"uris"`

	// Type is empty while the annotation is unresolved.
	Type NamedEntityType `json:"named_entity_type,omitempty"`

	// Ambiguous holds sibling candidate interpretations sharing the same
	// span but carrying a different type.  It is not an ownership relation.
	Ambiguous []*Annotation `json:"ambiguous_annotations,omitempty"`

	// Features is populated only after semantic enrichment.
	Features []Feature `json:"features,omitempty"`

	// IsFeature marks an annotation that has been folded into another
	// annotation's Feature and is removed from the top-level list.
	IsFeature bool `json:"-"`
}

// AddAmbiguous appends a sibling interpretation, keeping (begin, end, type)
// uniqueness.
func (a *Annotation) AddAmbiguous(sibling *Annotation) {
	for _, existing := range a.Ambiguous {
		if existing.Begin == sibling.Begin && existing.End == sibling.End && existing.Type == sibling.Type {
			return
		}
	}
	a.Ambiguous = append(a.Ambiguous, sibling)
}

// Clone returns a deep copy of the annotation.  Disambiguation always works
// on copies so that the original and its resolved sibling never alias.
func (a *Annotation) Clone() *Annotation {
	if a == nil {
		return nil
	}
	clone := *a
	clone.URIs = a.URIs.Clone()
	if a.Ambiguous != nil {
		clone.Ambiguous = make([]*Annotation, len(a.Ambiguous))
		for i, sibling := range a.Ambiguous {
			clone.Ambiguous[i] = sibling.Clone()
		}
	}
	if a.Features != nil {
		clone.Features = make([]Feature, len(a.Features))
		copy(clone.Features, a.Features)
	}
	return &clone
}

// Statement is a loosely-typed triple fragment extracted from the query.
// No slot is required: a Statement may carry only predicate and object, or
// only subject and object.  Relationship is set for conjunction statements
// instead of triple slots.
type Statement struct {
	Subject      Term             `json:"subject,omitempty"`
	Predicate    UriSet           `json:"predicate,omitempty"`
	Object       Term             `json:"object,omitempty"`
	Relationship RelationshipType `json:"relationship,omitempty"`
}

// Disambiguation records the decision for one (possibly ambiguous)
// annotation: the original is replaced by the resolved copy during result
// compilation.
type Disambiguation struct {
	Original    *Annotation
	Replacement *Annotation
}

// DependencyMatch is the raw outcome of one dependency pattern match: the
// named capture groups mapped onto Word IDs, plus the conjunction type for
// conjunction patterns.  Resolving the IDs back to annotations and literals
// is the statement-construction step's responsibility.
type DependencyMatch struct {
	Captures     map[string]string
	Relationship RelationshipType
}

// Result holds the current state of the annotation process.  It is created
// fresh per annotate call and discarded after compilation into a Query.
type Result struct {
	Language               string
	Tokens                 []*LiteralString
	NamedEntityRecognition []*Annotation
	Literals               []*LiteralString
	EntityLinking          map[string]map[NamedEntityType]UriSet
	Disambiguations        []Disambiguation
	Relationships          []DependencyMatch
}

// Query holds all enrichment data of a user query.
type Query struct {
	OriginalString string           `json:"original_string"`
	Annotations    []*Annotation    `json:"annotations"`
	Statements     []Statement      `json:"statements,omitempty"`
	Literals       []*LiteralString `json:"literals"`
}

// SortAnnotationsByBegin orders annotations by their begin offset, in place.
func SortAnnotationsByBegin(annotations []*Annotation) {
	sort.SliceStable(annotations, func(i, j int) bool {
		return annotations[i].Begin < annotations[j].Begin
	})
}
