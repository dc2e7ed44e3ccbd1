package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
)

// Resource error codes
const (
	// ErrCodeNotFound is used for unknown routes and unconfigured vendors
	ErrCodeNotFound = "ERR_NOT_FOUND"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeMethodNotAllowed is used for methods a route does not serve
	ErrCodeMethodNotAllowed = "ERR_METHOD_NOT_ALLOWED"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when a client exceeds its request rate
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// Vendor error codes
const (
	// ErrCodeVendorUnavailable is used when the vendor endpoint could not be reached
	// or answered with a failure status
	ErrCodeVendorUnavailable = "ERR_VENDOR_UNAVAILABLE"
	// ErrCodeVendorMalformedResponse is used when the vendor payload could not be decoded
	ErrCodeVendorMalformedResponse = "ERR_VENDOR_MALFORMED_RESPONSE"
	// ErrCodeVendorUnsupported is used when the vendor lacks the requested lookup
	ErrCodeVendorUnsupported = "ERR_VENDOR_UNSUPPORTED_OPERATION"
	// ErrCodeVendorMisconfigured is used when a vendor connection lacks valid credentials
	ErrCodeVendorMisconfigured = "ERR_VENDOR_MISCONFIGURED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeMethodNotAllowed:   http.StatusMethodNotAllowed,

	// Resource errors
	ErrCodeNotFound: http.StatusNotFound,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,

	// Vendor errors -> 502 Bad Gateway
	ErrCodeVendorUnavailable:       http.StatusBadGateway,
	ErrCodeVendorMalformedResponse: http.StatusBadGateway,
	ErrCodeVendorUnsupported:       http.StatusUnprocessableEntity,
	ErrCodeVendorMisconfigured:     http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
