package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/texttechlab/enhanced-search/pkg/errors"
)

// requiredString returns the named query parameter or an ErrCodeUserInput
// error when it is missing or empty.
func requiredString(r *http.Request, name string) (string, error) {
	values := r.URL.Query()
	if !values.Has(name) || strings.TrimSpace(values.Get(name)) == "" {
		return "", errors.Newf(errors.ErrCodeUserInput,
			"the parameter %q is missing in the request", name)
	}
	return values.Get(name), nil
}

// optionalInt returns the named query parameter as an int, or fallback when
// the parameter is absent.
func optionalInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Newf(errors.ErrCodeUserInput,
			"the parameter %q is expected to be of type int", name)
	}
	return value, nil
}

// optionalBool returns the named query parameter as a bool, or fallback
// when the parameter is absent.  true, t, 1 and yes parse as true, any
// other value as false.
func optionalBool(r *http.Request, name string, fallback bool) bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}

	switch strings.ToLower(raw) {
	case "true", "t", "1", "yes":
		return true
	default:
		return false
	}
}
