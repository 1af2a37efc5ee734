// Package bootstrap assembles the application from its configuration: the
// annotation pipeline, the semantic engines, the backing stores and the
// HTTP interface.  Both the server command and the CLI use it so the
// wiring exists exactly once.
package bootstrap

import (
	"context"
	"net/http"

	"github.com/texttechlab/enhanced-search/internal/application/search"
	"github.com/texttechlab/enhanced-search/internal/config"
	"github.com/texttechlab/enhanced-search/internal/domain/annotation/lang"
	"github.com/texttechlab/enhanced-search/internal/domain/annotation/text"
	"github.com/texttechlab/enhanced-search/internal/generators/document"
	"github.com/texttechlab/enhanced-search/internal/infrastructure/database/memory"
	"github.com/texttechlab/enhanced-search/internal/infrastructure/database/neo4j"
	"github.com/texttechlab/enhanced-search/internal/infrastructure/database/redis"
	"github.com/texttechlab/enhanced-search/internal/infrastructure/database/sparql"
	"github.com/texttechlab/enhanced-search/internal/infrastructure/monitoring/logging"
	"github.com/texttechlab/enhanced-search/internal/infrastructure/monitoring/prometheus"
	"github.com/texttechlab/enhanced-search/internal/infrastructure/search/opensearch"
	httpiface "github.com/texttechlab/enhanced-search/internal/interfaces/http"
	"github.com/texttechlab/enhanced-search/internal/interfaces/http/handlers"
	"github.com/texttechlab/enhanced-search/internal/interfaces/http/middleware"
)

// Application bundles the wired components of the service.
type Application struct {
	Config    *config.Config
	Logger    logging.Logger
	Metrics   *prometheus.Metrics
	Processor *search.SemanticQueryProcessor
	Generator *document.Generator
	Searcher  *opensearch.Searcher
	Router    http.Handler
	Server    *httpiface.Server

	healthChecks map[string]handlers.Pinger
	closers      []func(context.Context) error
}

// NewApplication wires the service from its configuration.  Optional
// backends (Redis, OpenSearch) are skipped when not configured; the
// semantic engine named by search.engine is required.
func NewApplication(cfg *config.Config, logger logging.Logger) (*Application, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	app := &Application{Config: cfg, Logger: logger}

	lexicon, err := app.buildLexiconStore()
	if err != nil {
		return nil, err
	}

	annotator, err := app.buildAnnotator(lexicon)
	if err != nil {
		return nil, err
	}

	registry, err := app.buildEngineRegistry()
	if err != nil {
		return nil, err
	}

	app.Processor = search.NewSemanticQueryProcessor(
		annotator, registry, cfg.Search.Engine, logger)

	app.Generator = document.NewGenerator()
	if cfg.OpenSearch.SearchField != "" {
		app.Generator.SearchField = cfg.OpenSearch.SearchField
	}

	if err := app.buildDocumentSearch(); err != nil {
		return nil, err
	}

	app.Metrics = prometheus.NewMetrics(cfg.Metrics.Namespace)
	app.buildHTTP()

	return app, nil
}

// Close releases all backend connections.
func (a *Application) Close(ctx context.Context) error {
	var firstErr error
	for _, closer := range a.closers {
		if err := closer(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// buildLexiconStore connects to Redis when configured and falls back to an
// in-memory store seeded from the configured lexicon file otherwise.
func (a *Application) buildLexiconStore() (text.KeyValueStore, error) {
	cfg := a.Config

	if cfg.Redis.Addr == "" {
		store := memory.NewStore()
		if cfg.Annotator.LexiconFile != "" {
			if err := store.LoadFile(cfg.Annotator.LexiconFile); err != nil {
				return nil, err
			}
		}
		a.Logger.Info("using in-memory lexicon store",
			logging.Int("entries", store.Len()))
		return store, nil
	}

	store, err := redis.NewStore(redis.Config{
		Addr:         cfg.Redis.Addr,
		Username:     cfg.Redis.Username,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	}, a.Logger)
	if err != nil {
		return nil, err
	}

	a.closers = append(a.closers, func(context.Context) error {
		return store.Close()
	})
	a.addHealthCheck("redis", store)

	return redis.NewMemoizingStore(store, cfg.Redis.MemoizeTTL), nil
}

// buildAnnotator assembles the full annotation pipeline.
func (a *Application) buildAnnotator(lexicon text.KeyValueStore) (*text.Annotator, error) {
	lemmatizer := lang.NewDictionaryLemmatizer()
	if a.Config.Annotator.LemmaFile != "" {
		if err := lemmatizer.LoadFile(a.Config.Annotator.LemmaFile); err != nil {
			return nil, err
		}
	}

	return text.NewAnnotator(text.AnnotatorConfig{
		Tokenizer:              text.NewSimpleTokenizer(),
		LanguageDetection:      text.NewLanguageAnnotationEngine(lang.NewStopwordDetector()),
		Lemmatizer:             text.NewLemmaAnnotationEngine(lemmatizer, a.Config.Annotator.FallbackLanguage),
		NamedEntityRecognition: text.NewStringBasedEntityEngine(lexicon),
		LiteralRecognition:     text.NewLiteralAnnotationEngine(),
		EntityLinking:          text.NewUriLinkerEngine(lexicon),
		Disambiguation:         text.NewDisambiguationEngine(),
		DependencyRecognition:  text.NewPatternDependencyEngine(),
		Logger:                 a.Logger,
	})
}

// buildEngineRegistry registers the semantic engines the configuration
// provides backends for.
func (a *Application) buildEngineRegistry() (*search.EngineRegistry, error) {
	cfg := a.Config
	registry := search.NewEngineRegistry()

	if cfg.Sparql.URL != "" {
		store := sparql.NewStore(sparql.Config{
			URL:     cfg.Sparql.URL,
			Timeout: cfg.Sparql.Timeout,
		}, a.Logger)
		registry.Register("sparql", search.NewSparqlSemanticEngine(store, a.Logger))
	}

	if cfg.Neo4j.URI != "" {
		driver, err := neo4j.NewDriver(neo4j.Config{
			URI:                   cfg.Neo4j.URI,
			Username:              cfg.Neo4j.Username,
			Password:              cfg.Neo4j.Password,
			Database:              cfg.Neo4j.Database,
			MaxConnectionPoolSize: cfg.Neo4j.MaxConnectionPoolSize,
			MaxConnectionLifetime: cfg.Neo4j.MaxConnectionLifetime,
		}, a.Logger)
		if err != nil {
			return nil, err
		}

		a.closers = append(a.closers, func(context.Context) error {
			return driver.Close()
		})
		a.addHealthCheck("neo4j", driver)
		registry.Register("cypher",
			search.NewCypherSemanticEngine(neo4j.NewExecutor(driver), a.Logger))
	}

	return registry, nil
}

// buildDocumentSearch connects the OpenSearch document store when
// configured.
func (a *Application) buildDocumentSearch() error {
	cfg := a.Config
	if len(cfg.OpenSearch.Addresses) == 0 {
		a.Logger.Info("no document store configured, search endpoint disabled")
		return nil
	}

	client, err := opensearch.NewClient(opensearch.Config{
		Addresses:      cfg.OpenSearch.Addresses,
		Username:       cfg.OpenSearch.Username,
		Password:       cfg.OpenSearch.Password,
		Index:          cfg.OpenSearch.Index,
		MaxRetries:     cfg.OpenSearch.MaxRetries,
		RequestTimeout: cfg.OpenSearch.RequestTimeout,
	}, a.Logger)
	if err != nil {
		return err
	}

	a.addHealthCheck("opensearch", client)
	a.Searcher = opensearch.NewSearcher(client, a.Logger)
	return nil
}

// buildHTTP assembles the router and the server.
func (a *Application) buildHTTP() {
	var searcher handlers.DocumentSearcher
	if a.Searcher != nil {
		searcher = a.Searcher
	}

	searchHandler := handlers.NewSearchHandler(
		a.Processor, a.Generator, searcher, a.Config.Search.Limit, a.Logger)

	a.Router = httpiface.NewRouter(httpiface.RouterConfig{
		SearchHandler: searchHandler,
		HealthHandler: handlers.NewHealthHandler(a.healthChecks, a.Logger),
		Metrics:       a.Metrics,
		Logger:        a.Logger,
		Logging:       middleware.DefaultLoggingConfig(),
	})
	a.Server = httpiface.NewServer(a.Config.Server, a.Router, a.Logger)
}

func (a *Application) addHealthCheck(name string, pinger handlers.Pinger) {
	if a.healthChecks == nil {
		a.healthChecks = make(map[string]handlers.Pinger)
	}
	a.healthChecks[name] = pinger
}
