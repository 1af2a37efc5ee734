// Package opensearch executes the generated document queries against an
// OpenSearch cluster.
package opensearch

import (
	"context"
	"net/http"
	"time"

	opensearch "github.com/opensearch-project/opensearch-go/v3"
	"github.com/opensearch-project/opensearch-go/v3/opensearchapi"

	"github.com/texttechlab/enhanced-search/internal/infrastructure/monitoring/logging"
	"github.com/texttechlab/enhanced-search/pkg/errors"
)

// Config holds the connection settings of the document store.
type Config struct {
	Addresses      []string      `mapstructure:"addresses"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	Index          string        `mapstructure:"index"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Client wraps the OpenSearch API client.
type Client struct {
	api    *opensearchapi.Client
	config Config
	logger logging.Logger
}

// NewClient creates a client for the configured cluster.
func NewClient(cfg Config, log logging.Logger) (*Client, error) {
	if len(cfg.Addresses) == 0 {
		return nil, errors.New(errors.ErrCodeDocumentStore,
			"no document store addresses are configured")
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if log == nil {
		log = logging.NewNopLogger()
	}

	api, err := opensearchapi.NewClient(opensearchapi.Config{
		Client: opensearch.Config{
			Addresses:     cfg.Addresses,
			Username:      cfg.Username,
			Password:      cfg.Password,
			MaxRetries:    cfg.MaxRetries,
			RetryOnStatus: []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusTooManyRequests},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDocumentStore,
			"the document store client could not be created")
	}

	return &Client{api: api, config: cfg, logger: log.Named("document-store")}, nil
}

// Ping verifies the connection.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.api.Ping(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDocumentStore,
			"the document store is not reachable")
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	return nil
}

// Index returns the configured index name.
func (c *Client) Index() string {
	return c.config.Index
}
