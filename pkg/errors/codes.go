package errors

import "net/http"

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeTimeout            ErrorCode = "COMMON_004"
	ErrCodeValidation         ErrorCode = "COMMON_005"
	ErrCodeSerialization      ErrorCode = "COMMON_006"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_007"
	ErrCodeNotImplemented     ErrorCode = "COMMON_008"
)

// Annotation pipeline error codes.
const (
	// ErrCodeStageMissing signals that the TextAnnotator was configured with a
	// stage whose prerequisite stage is absent (e.g. entity linking without
	// named-entity recognition).
	ErrCodeStageMissing ErrorCode = "ANN_001"

	// ErrCodeLexiconPayload signals a malformed lexicon payload: the value
	// retrieved for a key could not be parsed, or named an entity type outside
	// the fixed enumeration.  This indicates a corrupt knowledge source and is
	// never swallowed.
	ErrCodeLexiconPayload ErrorCode = "ANN_002"

	// ErrCodeEntityType signals a string that does not correspond to any
	// known named-entity type.
	ErrCodeEntityType ErrorCode = "ANN_003"
)

// Query processing error codes.
const (
	ErrCodeAnnotatorMissing      ErrorCode = "QRY_001"
	ErrCodeSemanticEngineMissing ErrorCode = "QRY_002"
	ErrCodeSemanticQueryFailed   ErrorCode = "QRY_003"
	ErrCodeEngineNotRegistered   ErrorCode = "QRY_004"
)

// Database / store error codes.
const (
	ErrCodeKeyValueStore  ErrorCode = "DB_001"
	ErrCodeKnowledgeStore ErrorCode = "DB_002"
	ErrCodeDocumentStore  ErrorCode = "DB_003"
	ErrCodeStoreResponse  ErrorCode = "DB_004"
)

// Query generator error codes.
const (
	ErrCodeRelationshipUnsupported ErrorCode = "GEN_001"
)

// User input error codes.
const (
	// ErrCodeUserInput covers missing required request parameters, parameters
	// of the wrong type, and input containing malicious character sequences.
	ErrCodeUserInput ErrorCode = "USR_001"
)

// Aliases kept for readability at call sites.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeUnknown      = ErrorCode("UNKNOWN")
	CodeOK           = ErrorCode("OK")
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeStageMissing:   http.StatusInternalServerError,
	ErrCodeLexiconPayload: http.StatusInternalServerError,
	ErrCodeEntityType:     http.StatusInternalServerError,

	ErrCodeAnnotatorMissing:      http.StatusInternalServerError,
	ErrCodeSemanticEngineMissing: http.StatusInternalServerError,
	ErrCodeSemanticQueryFailed:   http.StatusBadGateway,
	ErrCodeEngineNotRegistered:   http.StatusInternalServerError,

	ErrCodeKeyValueStore:  http.StatusInternalServerError,
	ErrCodeKnowledgeStore: http.StatusBadGateway,
	ErrCodeDocumentStore:  http.StatusBadGateway,
	ErrCodeStoreResponse:  http.StatusInternalServerError,

	ErrCodeRelationshipUnsupported: http.StatusInternalServerError,

	ErrCodeUserInput: http.StatusBadRequest,
}

// HTTPStatus returns the HTTP status code associated with c, defaulting to
// 500 Internal Server Error for unmapped codes.
func (c ErrorCode) HTTPStatus() int {
	if status, ok := ErrorCodeHTTPStatus[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}
