// Package text implements the text annotation pipeline.  An Annotator
// orchestrates a fixed sequence of annotation engines, each of which reads
// the current annotation state and extends it, and finally compiles the
// accumulated state into resolved annotations.
package text

import (
	"context"

	"github.com/texttechlab/enhanced-search/internal/domain/annotation"
	"github.com/texttechlab/enhanced-search/internal/infrastructure/monitoring/logging"
	"github.com/texttechlab/enhanced-search/pkg/errors"
)

// Engine is a single annotation pipeline stage.  Engines are stateless and
// safe for concurrent use; all per-call state lives in the Result.
type Engine interface {
	Parse(ctx context.Context, text string, result *annotation.Result) error
}

// KeyValueStore is the lexicon lookup used by the recognition and linking
// engines.  A miss is ("", false, nil); errors are reserved for transport
// failures.
type KeyValueStore interface {
	Read(ctx context.Context, key string) (string, bool, error)
}

// AnnotatorConfig wires the engines of an Annotator.  LanguageDetection,
// Lemmatizer and DependencyRecognition are optional and skipped when nil;
// all other stages are required.
type AnnotatorConfig struct {
	Tokenizer              Engine
	LanguageDetection      Engine
	Lemmatizer             Engine
	NamedEntityRecognition Engine
	LiteralRecognition     Engine
	EntityLinking          Engine
	Disambiguation         Engine
	DependencyRecognition  Engine

	Logger logging.Logger
}

// Annotator runs the annotation pipeline over a query string.
type Annotator struct {
	stages []stage
	logger logging.Logger
}

type stage struct {
	name     string
	engine   Engine
	required bool
}

// NewAnnotator validates the configuration and builds the pipeline.
// A missing required stage yields an ErrCodeStageMissing error.
func NewAnnotator(cfg AnnotatorConfig) (*Annotator, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	stages := []stage{
		{"tokenizer", cfg.Tokenizer, true},
		{"language_detection", cfg.LanguageDetection, false},
		{"lemmatizer", cfg.Lemmatizer, false},
		{"named_entity_recognition", cfg.NamedEntityRecognition, true},
		{"literal_recognition", cfg.LiteralRecognition, true},
		{"entity_linking", cfg.EntityLinking, true},
		{"disambiguation", cfg.Disambiguation, true},
		{"dependency_recognition", cfg.DependencyRecognition, false},
	}

	for _, s := range stages {
		if s.required && s.engine == nil {
			return nil, errors.Newf(errors.ErrCodeStageMissing,
				"the annotator configuration lacks the %s stage", s.name)
		}
	}

	return &Annotator{stages: stages, logger: logger.Named("annotator")}, nil
}

// Annotate runs all configured engines over the text, in pipeline order,
// and compiles the result.
func (a *Annotator) Annotate(ctx context.Context, text string) (*annotation.Result, error) {
	result := &annotation.Result{
		EntityLinking: make(map[string]map[annotation.NamedEntityType]annotation.UriSet),
	}

	for _, s := range a.stages {
		if s.engine == nil {
			continue
		}
		if err := s.engine.Parse(ctx, text, result); err != nil {
			return nil, errors.Wrap(err, errors.GetCode(err),
				"the "+s.name+" stage failed")
		}
	}

	a.logger.Debug("annotation completed",
		logging.Int("tokens", len(result.Tokens)),
		logging.Int("annotations", len(result.NamedEntityRecognition)),
		logging.String("language", result.Language),
	)

	return compile(result), nil
}

// compile resolves the accumulated state: disambiguation decisions replace
// their original annotations, and the linked URIs matching each
// annotation's resolved type are attached.
func compile(result *annotation.Result) *annotation.Result {
	result.NamedEntityRecognition = applyDisambiguations(
		result.NamedEntityRecognition, result.Disambiguations)

	for _, ann := range result.NamedEntityRecognition {
		urisPerType, ok := result.EntityLinking[ann.ID()]
		if !ok {
			continue
		}
		if uris, ok := urisPerType[ann.Type]; ok {
			ann.URIs = uris.Clone()
		}
	}

	return result
}

// applyDisambiguations returns a new annotation list in which every
// disambiguated original is replaced by its resolution, ordered by begin
// offset.
func applyDisambiguations(
	annotations []*annotation.Annotation,
	disambiguations []annotation.Disambiguation,
) []*annotation.Annotation {
	replaced := make(map[*annotation.Annotation]bool, len(disambiguations))
	for _, d := range disambiguations {
		replaced[d.Original] = true
	}

	updated := make([]*annotation.Annotation, 0, len(annotations))
	for _, ann := range annotations {
		if !replaced[ann] {
			updated = append(updated, ann)
		}
	}
	for _, d := range disambiguations {
		updated = append(updated, d.Replacement)
	}

	annotation.SortAnnotationsByBegin(updated)

	return updated
}
