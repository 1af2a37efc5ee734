package text

import (
	"context"

	"github.com/texttechlab/enhanced-search/internal/domain/annotation"
	"github.com/texttechlab/enhanced-search/internal/domain/annotation/lang"
)

// DefaultLanguage is assumed when no language was detected for a text.
const DefaultLanguage = "de"

// LemmaAnnotationEngine adds a lemma to every token, using a pluggable
// Lemmatizer.  The language detected earlier in the pipeline is honored;
// without one, the configured fallback applies.
type LemmaAnnotationEngine struct {
	lemmatizer lang.Lemmatizer
	fallback   string
}

// NewLemmaAnnotationEngine creates the lemmatizer stage.  An empty fallback
// language defaults to German.
func NewLemmaAnnotationEngine(lemmatizer lang.Lemmatizer, fallback string) *LemmaAnnotationEngine {
	if fallback == "" {
		fallback = DefaultLanguage
	}
	return &LemmaAnnotationEngine{lemmatizer: lemmatizer, fallback: fallback}
}

// Parse sets the lemma of each token in the result.
func (e *LemmaAnnotationEngine) Parse(_ context.Context, _ string, result *annotation.Result) error {
	language := result.Language
	if language == "" {
		language = e.fallback
	}

	for _, token := range result.Tokens {
		token.Lemma = e.lemmatizer.Lemmatize(token.Text, language)
	}

	return nil
}

// LanguageAnnotationEngine guesses the language of the text and records it
// in the result.  An undetermined language leaves the result untouched, so
// downstream stages fall back to their default.
type LanguageAnnotationEngine struct {
	detector lang.Detector
}

// NewLanguageAnnotationEngine creates the language detection stage.
func NewLanguageAnnotationEngine(detector lang.Detector) *LanguageAnnotationEngine {
	return &LanguageAnnotationEngine{detector: detector}
}

// Parse records the detected language, if any.
func (e *LanguageAnnotationEngine) Parse(_ context.Context, text string, result *annotation.Result) error {
	if code := e.detector.Detect(text); code != "" {
		result.Language = code
	}
	return nil
}
