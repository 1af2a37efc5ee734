package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/texttechlab/enhanced-search/pkg/errors"
	"github.com/texttechlab/enhanced-search/internal/infrastructure/monitoring/logging"
)

// ErrorResponse is the JSON body returned for failed requests.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError maps application errors to their HTTP status and a stable
// error code clients can dispatch on.  Unknown errors become a generic 500
// so internals never leak to the caller.
func writeError(w http.ResponseWriter, logger logging.Logger, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = errors.Wrap(err, errors.ErrCodeInternal, "internal server error")
	}

	status := appErr.Code.HTTPStatus()
	if status >= http.StatusInternalServerError {
		logger.Error("request error", logging.Err(err))
	} else {
		logger.Debug("request rejected", logging.Err(err))
	}

	message := appErr.Message
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}

	writeJSON(w, status, ErrorResponse{
		Code:    appErr.Code.String(),
		Message: message,
	})
}
