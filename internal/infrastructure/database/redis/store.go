// Package redis provides the Redis-backed lexicon store.  The lexicon maps
// lowercased terms to a JSON payload describing the known entities behind
// the term.
package redis

import (
	"context"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/texttechlab/enhanced-search/internal/infrastructure/monitoring/logging"
	"github.com/texttechlab/enhanced-search/pkg/errors"
)

// Characters stripped from lookup keys before they reach Redis.  Redis is
// robust against most injection vectors, but the lexicon keys never contain
// these characters legitimately.
const maliciousKeyCharacters = ":"

// Config holds the connection settings of the lexicon store.
type Config struct {
	Addr         string        `mapstructure:"addr"`
	Username     string        `mapstructure:"username"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	MaxRetries   int           `mapstructure:"max_retries"`
}

func applyDefaults(cfg *Config) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = 3 * time.Second
	}
	if cfg.WriteTimeout == 0 {
		cfg.WriteTimeout = 3 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
}

// Store reads lexicon entries from Redis.  It obeys the KeyValueStore
// contract of the text annotation engines: a missing key is not an error.
type Store struct {
	rdb    *goredis.Client
	logger logging.Logger
	mu     sync.RWMutex
	closed bool
}

// NewStore connects to Redis and verifies the connection.
func NewStore(cfg Config, log logging.Logger) (*Store, error) {
	applyDefaults(&cfg)
	if log == nil {
		log = logging.NewNopLogger()
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		MaxRetries:   cfg.MaxRetries,
	})

	store := &Store{rdb: rdb, logger: log.Named("lexicon-store")}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, errors.Wrap(err, errors.ErrCodeKeyValueStore,
			"the lexicon store is not reachable")
	}

	log.Info("lexicon store connected", logging.String("addr", cfg.Addr))

	return store, nil
}

// Read returns the value stored under the given key.  The key is sanitized
// before the lookup.  A missing key returns ok=false without an error.
func (s *Store) Read(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return "", false, errors.New(errors.ErrCodeKeyValueStore,
			"the lexicon store is closed")
	}

	value, err := s.rdb.Get(ctx, SanitizeKey(key)).Result()
	switch {
	case err == goredis.Nil:
		return "", false, nil
	case err != nil:
		return "", false, errors.Wrap(err, errors.ErrCodeKeyValueStore,
			"the lexicon store could not be read")
	}

	return value, true, nil
}

// Ping verifies the connection.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeKeyValueStore,
			"the lexicon store is not reachable")
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	err := s.rdb.Close()
	if err != nil {
		s.logger.Error("failed to close lexicon store", logging.Err(err))
	}
	return err
}

// SanitizeKey strips potentially malicious characters from a lookup key.
func SanitizeKey(key string) string {
	for _, c := range maliciousKeyCharacters {
		key = strings.ReplaceAll(key, string(c), "")
	}
	return key
}
