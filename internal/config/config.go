// Package config defines the configuration structures of the search
// service.  No I/O or parsing logic lives here, only plain data types and
// validation.
package config

import (
	"fmt"
	"time"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
}

// RedisConfig holds the lexicon store connection parameters.  An empty
// Addr disables Redis; the service falls back to the in-memory store.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Username     string        `mapstructure:"username"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MemoizeTTL   time.Duration `mapstructure:"memoize_ttl"`
}

// SparqlConfig holds the SPARQL endpoint parameters.
type SparqlConfig struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Neo4jConfig holds the graph database connection parameters.
type Neo4jConfig struct {
	URI                   string        `mapstructure:"uri"`
	Username              string        `mapstructure:"username"`
	Password              string        `mapstructure:"password"`
	Database              string        `mapstructure:"database"`
	MaxConnectionPoolSize int           `mapstructure:"max_connection_pool_size"`
	MaxConnectionLifetime time.Duration `mapstructure:"max_connection_lifetime"`
}

// OpenSearchConfig holds the document store connection parameters.
type OpenSearchConfig struct {
	Addresses      []string      `mapstructure:"addresses"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	Index          string        `mapstructure:"index"`
	SearchField    string        `mapstructure:"search_field"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// AnnotatorConfig holds the annotation pipeline parameters.
type AnnotatorConfig struct {
	// FallbackLanguage is used when the language detection stays
	// undecided.
	FallbackLanguage string `mapstructure:"fallback_language"`

	// LexiconFile seeds the in-memory lexicon store when Redis is not
	// configured.  JSON object mapping lowercased terms to payloads.
	LexiconFile string `mapstructure:"lexicon_file"`

	// LemmaFile optionally extends the built-in lemma tables.
	LemmaFile string `mapstructure:"lemma_file"`
}

// SearchConfig selects the semantic engine and its result limits.
type SearchConfig struct {
	Engine string `mapstructure:"engine"` // "sparql" | "cypher"
	Limit  int    `mapstructure:"limit"`
}

// MetricsConfig holds the Prometheus settings.
type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
}

// Config is the top-level configuration of the service.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Sparql     SparqlConfig     `mapstructure:"sparql"`
	Neo4j      Neo4jConfig      `mapstructure:"neo4j"`
	OpenSearch OpenSearchConfig `mapstructure:"opensearch"`
	Annotator  AnnotatorConfig  `mapstructure:"annotator"`
	Search     SearchConfig     `mapstructure:"search"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}

	switch c.Search.Engine {
	case "sparql":
		if c.Sparql.URL == "" {
			return fmt.Errorf("search.engine is %q but sparql.url is empty", c.Search.Engine)
		}
	case "cypher":
		if c.Neo4j.URI == "" {
			return fmt.Errorf("search.engine is %q but neo4j.uri is empty", c.Search.Engine)
		}
	default:
		return fmt.Errorf("search.engine %q is not supported (want \"sparql\" or \"cypher\")", c.Search.Engine)
	}

	if c.Search.Limit < 0 {
		return fmt.Errorf("search.limit must not be negative")
	}

	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q is not supported", c.Log.Level)
	}

	return nil
}
