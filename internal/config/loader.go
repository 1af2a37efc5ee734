package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix of all service settings.
const envPrefix = "ENSEARCH"

// newViper builds a pre-configured viper instance: YAML file type,
// ENSEARCH_ env prefix, automatic env binding, and a key replacer mapping
// "." to "_" so that "redis.addr" resolves to "ENSEARCH_REDIS_ADDR".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	registerKeys(v)
	return v
}

// registerKeys makes every configuration key known to viper.  Unmarshal
// only resolves environment overrides for known keys, so without this an
// env-only deployment would see none of its settings.
func registerKeys(v *viper.Viper) {
	for _, key := range []string{
		"server.port", "server.read_timeout", "server.write_timeout",
		"server.shutdown_timeout",
		"log.level", "log.format",
		"redis.addr", "redis.username", "redis.password", "redis.db",
		"redis.pool_size", "redis.min_idle_conns", "redis.dial_timeout",
		"redis.read_timeout", "redis.write_timeout", "redis.memoize_ttl",
		"sparql.url", "sparql.timeout",
		"neo4j.uri", "neo4j.username", "neo4j.password", "neo4j.database",
		"neo4j.max_connection_pool_size", "neo4j.max_connection_lifetime",
		"opensearch.addresses", "opensearch.username", "opensearch.password",
		"opensearch.index", "opensearch.search_field", "opensearch.max_retries",
		"opensearch.request_timeout",
		"annotator.fallback_language", "annotator.lexicon_file",
		"annotator.lemma_file",
		"search.engine", "search.limit",
		"metrics.namespace",
	} {
		v.SetDefault(key, nil)
	}
}

// Load reads the YAML file at configPath, merges ENSEARCH_* environment
// overrides, applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from ENSEARCH_* environment
// variables, without a config file.
func LoadFromEnv() (*Config, error) {
	v := newViper()
	return unmarshalAndFinalize(v)
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed
// Config whenever the file changes on disk.  A change producing an invalid
// config does not trigger the callback.  Watch is non-blocking.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad panics when loading fails.  Intended for main().
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}
