package lang

import "strings"

// Detector guesses the language of a text.  It returns an ISO 639-1 code,
// or the empty string when the language cannot be determined.
type Detector interface {
	Detect(text string) string
}

// StopwordDetector decides between a fixed set of languages by counting
// stopword hits.  Only languages with a registered stopword list are
// considered; ties and zero hits yield the empty string.
type StopwordDetector struct {
	stopwords map[string]map[string]struct{}
}

// NewStopwordDetector creates a detector for German and English.
func NewStopwordDetector() *StopwordDetector {
	d := &StopwordDetector{stopwords: make(map[string]map[string]struct{})}
	d.add("de", "der", "die", "das", "ich", "suche", "mit", "und", "oder", "ein",
		"eine", "einem", "einen", "nach", "von", "für", "auf", "ist", "sind")
	d.add("en", "the", "i", "am", "looking", "for", "with", "and", "or", "a",
		"an", "of", "is", "are", "search", "searching")
	return d
}

func (d *StopwordDetector) add(language string, words ...string) {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	d.stopwords[language] = set
}

// Detect returns the language whose stopword list overlaps most with the
// text's tokens.  "in" is a stopword in both languages and would only add
// noise, so shared words simply count for both and cancel out in ties.
func (d *StopwordDetector) Detect(text string) string {
	counts := make(map[string]int, len(d.stopwords))
	for _, token := range strings.Fields(strings.ToLower(text)) {
		token = strings.Trim(token, `"'!?;.,`)
		for language, set := range d.stopwords {
			if _, ok := set[token]; ok {
				counts[language]++
			}
		}
	}

	best, bestCount, tied := "", 0, false
	for language, count := range counts {
		switch {
		case count > bestCount:
			best, bestCount, tied = language, count, false
		case count == bestCount && count > 0:
			tied = true
		}
	}
	if tied || bestCount == 0 {
		return ""
	}
	return best
}
