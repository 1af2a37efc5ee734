// Package sparql provides an HTTP client for SPARQL endpoints.  Queries
// are sent as POST requests to avoid URL length limits with large VALUES
// clauses.
package sparql

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/texttechlab/enhanced-search/internal/infrastructure/monitoring/logging"
	"github.com/texttechlab/enhanced-search/pkg/errors"
)

// Characters escaped in unsafe query strings.  The backslash has to be the
// first escaped character.
var escapeCharacters = []string{`\`, `'`, `"`, `#`, `<`, `>`}

// Config holds the endpoint settings.
type Config struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Store talks to a SPARQL endpoint and returns the JSON result body.
type Store struct {
	endpoint string
	client   *http.Client
	logger   logging.Logger
}

// NewStore creates a store for the given endpoint.
func NewStore(cfg Config, log logging.Logger) *Store {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if log == nil {
		log = logging.NewNopLogger()
	}

	return &Store{
		endpoint: cfg.URL,
		client:   &http.Client{Timeout: cfg.Timeout},
		logger:   log.Named("sparql-store"),
	}
}

// Read executes the query and returns the response body.  When safe is
// false the query is escaped first.
func (s *Store) Read(ctx context.Context, query string, safe bool) (string, error) {
	if !safe {
		query = EscapeQuery(query)
	}

	form := url.Values{}
	form.Set("query", query)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeKnowledgeStore,
			"the SPARQL request could not be built")
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	request.Header.Set("Accept", "application/sparql-results+json")

	started := time.Now()
	response, err := s.client.Do(request)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeKnowledgeStore,
			"the SPARQL endpoint is not reachable")
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeKnowledgeStore,
			"the SPARQL response could not be read")
	}

	if response.StatusCode != http.StatusOK {
		return "", errors.Newf(errors.ErrCodeKnowledgeStore,
			"the SPARQL endpoint answered with status %d", response.StatusCode)
	}

	s.logger.Debug("sparql query executed",
		logging.Duration("took", time.Since(started)),
		logging.Int("response_bytes", len(body)),
	)

	return string(body), nil
}

// EscapeQuery backslash-escapes characters that could break out of string
// literals in a SPARQL query.
func EscapeQuery(query string) string {
	for _, c := range escapeCharacters {
		query = strings.ReplaceAll(query, c, `\`+c)
	}
	return query
}
