package dto

import "net/http"

// API error codes returned in the Response envelope. Handlers normalize
// domain error codes to these before writing the response.
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"

	ErrCodeNotFound      = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	ErrCodeConflict      = "ERR_CONFLICT"

	ErrCodeInvalidState = "ERR_INVALID_STATE"

	ErrCodeInternal = "ERR_INTERNAL"
)

// errorCodeHTTPStatus maps API error codes to HTTP status codes.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeInvalidState: http.StatusUnprocessableEntity,

	ErrCodeInternal: http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an API error code.
// Unknown codes map to 500 so bugs surface as server errors rather than
// being silently reported as client mistakes.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainErrorCodeMapping maps domain-layer error codes (as carried by
// shared.DomainError) to API error codes.
var domainErrorCodeMapping = map[string]string{
	// Shared domain errors
	"NOT_FOUND":            ErrCodeNotFound,
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"INVALID_INPUT":        ErrCodeInvalidInput,
	"CONCURRENCY_CONFLICT": ErrCodeConflict,
	"UNAUTHORIZED":         ErrCodeUnauthorized,
	"FORBIDDEN":            ErrCodeForbidden,
	"INVALID_STATE":        ErrCodeInvalidState,
	"INTERNAL_ERROR":       ErrCodeInternal,

	// Identity
	"INVALID_CREDENTIALS":    ErrCodeUnauthorized,
	"SESSION_INVALID":        ErrCodeUnauthorized,
	"TOKEN_EXPIRED":          ErrCodeTokenExpired,
	"TOKEN_INVALID":          ErrCodeUnauthorized,
	"TOKEN_MAX_REFRESH":      ErrCodeUnauthorized,
	"TOKEN_ERROR":            ErrCodeInternal,
	"CREDENTIALS_INCOMPLETE": ErrCodeInvalidInput,
	"INVALID_LOGIN_TYPE":     ErrCodeInvalidInput,
	"INVALID_USERNAME":       ErrCodeInvalidInput,
	"INVALID_PASSWORD":       ErrCodeInvalidInput,
	"INVALID_ROLE":           ErrCodeInvalidInput,
	"USERNAME_TAKEN":         ErrCodeAlreadyExists,
	"USER_NOT_FOUND":         ErrCodeNotFound,
	"PASSWORD_HASH_ERROR":    ErrCodeInternal,

	// Mess hall
	"INVALID_NAME":          ErrCodeInvalidInput,
	"INVALID_FULL_NAME":     ErrCodeInvalidInput,
	"INVALID_COST":          ErrCodeInvalidInput,
	"INVALID_DAY":           ErrCodeInvalidInput,
	"INVALID_MEAL":          ErrCodeInvalidInput,
	"INVALID_ITEM":          ErrCodeInvalidInput,
	"INVALID_NOTE":          ErrCodeInvalidInput,
	"INVALID_STUDENT_ID":    ErrCodeInvalidInput,
	"INVALID_MENU_ENTRY_ID": ErrCodeInvalidInput,
	"INVALID_REQUEST":       ErrCodeInvalidInput,
}

// NormalizeErrorCode converts a domain error code to an API error code.
// Already-normalized codes pass through unchanged.
func NormalizeErrorCode(code string) string {
	if normalized, ok := domainErrorCodeMapping[code]; ok {
		return normalized
	}
	if _, ok := errorCodeHTTPStatus[code]; ok {
		return code
	}
	return ErrCodeInternal
}
