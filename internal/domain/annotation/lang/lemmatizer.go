// Package lang provides the language capabilities of the annotation
// pipeline: a dictionary based lemmatizer and a stopword based language
// detector.  Both are pluggable; any implementation satisfying the
// interfaces can replace them.
package lang

import (
	"encoding/json"
	"os"
	"strings"
	"sync"

	"github.com/texttechlab/enhanced-search/pkg/errors"
)

// Lemmatizer reduces an inflected word to its base form.  The language is
// an ISO 639-1 code such as "de" or "en".  Implementations must return the
// input unchanged when no lemma is known.
type Lemmatizer interface {
	Lemmatize(word, language string) string
}

// DictionaryLemmatizer looks lemmas up in per-language tables.  Lookups are
// case insensitive; unknown words are returned unchanged.
//
// Lowercased text is tricky for dictionary lemmatization.  Some words are
// ambiguous between noun and verb readings with different lemmas (German
// "pflanze" can mean the noun "Pflanze" or the verb "pflanzen"); the table
// simply holds one reading per surface form.
type DictionaryLemmatizer struct {
	mu     sync.RWMutex
	tables map[string]map[string]string
}

// NewDictionaryLemmatizer creates a lemmatizer preloaded with a small
// built-in German and English table covering common query vocabulary.
func NewDictionaryLemmatizer() *DictionaryLemmatizer {
	l := &DictionaryLemmatizer{tables: make(map[string]map[string]string)}
	l.AddTable("de", defaultGermanLemmas)
	l.AddTable("en", defaultEnglishLemmas)
	return l
}

// AddTable merges the given surface-form to lemma mapping into the table of
// the given language.  Keys are lowercased.
func (l *DictionaryLemmatizer) AddTable(language string, entries map[string]string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	table := l.tables[language]
	if table == nil {
		table = make(map[string]string, len(entries))
		l.tables[language] = table
	}
	for word, lemma := range entries {
		table[strings.ToLower(word)] = lemma
	}
}

// LoadFile merges lemma tables from a JSON file of the shape
// {"de": {"blüten": "Blüte", ...}, "en": {...}}.
func (l *DictionaryLemmatizer) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, errors.CodeInvalidParam,
			"could not read the lemma table file")
	}

	var tables map[string]map[string]string
	if err := json.Unmarshal(raw, &tables); err != nil {
		return errors.Wrap(err, errors.CodeInvalidParam,
			"the lemma table file holds no valid JSON").WithDetail(path)
	}

	for language, entries := range tables {
		l.AddTable(language, entries)
	}

	return nil
}

// Lemmatize returns the lemma of word in the given language.  Definite
// articles keep their surface form, since table based lemmatization tends
// to map them onto pronouns.
func (l *DictionaryLemmatizer) Lemmatize(word, language string) string {
	lowered := strings.ToLower(word)
	if lowered == "der" || lowered == "die" || lowered == "das" {
		return word
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	table := l.tables[language]
	if table == nil {
		return word
	}
	if lemma, ok := table[lowered]; ok {
		return lemma
	}
	return word
}

// defaultGermanLemmas covers the query vocabulary of the biological search
// domain.  The table is intentionally small; production deployments load a
// full table via LoadFile.
var defaultGermanLemmas = map[string]string{
	"pflanzen":      "Pflanze",
	"pflanze":       "Pflanze",
	"tiere":         "Tier",
	"tier":          "Tier",
	"vögel":         "Vogel",
	"vogel":         "Vogel",
	"blüten":        "Blüte",
	"blüte":         "Blüte",
	"blätter":       "Blatt",
	"blatt":         "Blatt",
	"kelchblättern": "Kelchblatt",
	"kelchblätter":  "Kelchblatt",
	"kelchblatt":    "Kelchblatt",
	"roten":         "rot",
	"rote":          "rot",
	"rot":           "rot",
	"gelben":        "gelb",
	"gelbe":         "gelb",
	"gelb":          "gelb",
	"grünen":        "grün",
	"grüne":         "grün",
	"grün":          "grün",
	"suche":         "suchen",
	"mit":           "mit",
	"und":           "und",
	"oder":          "oder",
	"in":            "in",
}

var defaultEnglishLemmas = map[string]string{
	"plants":  "plant",
	"animals": "animal",
	"flowers": "flower",
	"petals":  "petal",
	"leaves":  "leaf",
	"birds":   "bird",
	"red":     "red",
	"yellow":  "yellow",
	"with":    "with",
	"and":     "and",
	"or":      "or",
	"in":      "in",
}
