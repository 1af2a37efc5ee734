package config

import "time"

// Default values for unset fields.
const (
	DefaultPort             = 8080
	DefaultFallbackLanguage = "de"
	DefaultSearchEngine     = "sparql"
	DefaultSearchLimit      = 1000
	DefaultMetricsNamespace = "ensearch"
)

// ApplyDefaults fills unset fields with sensible defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}

	if cfg.Redis.MemoizeTTL == 0 {
		cfg.Redis.MemoizeTTL = 15 * time.Minute
	}

	if cfg.Sparql.Timeout == 0 {
		cfg.Sparql.Timeout = 30 * time.Second
	}

	if cfg.OpenSearch.Index == "" {
		cfg.OpenSearch.Index = "documents"
	}
	if cfg.OpenSearch.SearchField == "" {
		cfg.OpenSearch.SearchField = "text"
	}
	if cfg.OpenSearch.RequestTimeout == 0 {
		cfg.OpenSearch.RequestTimeout = 30 * time.Second
	}

	if cfg.Annotator.FallbackLanguage == "" {
		cfg.Annotator.FallbackLanguage = DefaultFallbackLanguage
	}

	if cfg.Search.Engine == "" {
		cfg.Search.Engine = DefaultSearchEngine
	}
	if cfg.Search.Limit == 0 {
		cfg.Search.Limit = DefaultSearchLimit
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}
