package dto

import "net/http"

// Error codes returned by the API. Format: ERR_<CATEGORY>_<DESCRIPTION>
const (
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"

	ErrCodeNotFound             = "ERR_NOT_FOUND"
	ErrCodeSalesChannelNotFound = "ERR_SALES_CHANNEL_NOT_FOUND"
	ErrCodeAlreadyExists        = "ERR_ALREADY_EXISTS"

	ErrCodeInvalidPrice        = "ERR_INVALID_PRICE"
	ErrCodeInvalidSalesChannel = "ERR_INVALID_SALES_CHANNEL"
	ErrCodeRequestTooLarge     = "ERR_REQUEST_TOO_LARGE"
	ErrCodeNotReady            = "ERR_NOT_READY"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:             http.StatusNotFound,
	ErrCodeSalesChannelNotFound: http.StatusNotFound,
	ErrCodeAlreadyExists:        http.StatusConflict,

	// business rule violations -> 422
	ErrCodeInvalidPrice:        http.StatusUnprocessableEntity,
	ErrCodeInvalidSalesChannel: http.StatusUnprocessableEntity,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeNotReady:        http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":               ErrCodeNotFound,
	"SALES_CHANNEL_NOT_FOUND": ErrCodeSalesChannelNotFound,
	"ALREADY_EXISTS":          ErrCodeAlreadyExists,
	"INVALID_INPUT":           ErrCodeInvalidInput,
	"UNAUTHORIZED":            ErrCodeUnauthorized,
	"INVALID_PRICE":           ErrCodeInvalidPrice,
	"INVALID_SALES_CHANNEL":   ErrCodeInvalidSalesChannel,
}

// NormalizeErrorCode converts a domain error code to its API error code.
// Unknown codes are returned as-is.
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
