package errors

import "fmt"

// ErrorType represents different classes of errors that can occur while
// talking to the API
type ErrorType string

const (
	// ErrorTypeUnavailable covers transport-level failures: timeouts, TLS
	// failures, connection refused, DNS failures. Always retryable.
	ErrorTypeUnavailable ErrorType = "api_unavailable"
	// ErrorTypeParsing covers non-JSON responses where JSON was expected
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeCrypto covers malformed public keys and cipher failures.
	// Fatal for the current login attempt, never degraded to a fallback.
	ErrorTypeCrypto ErrorType = "crypto"
	// ErrorTypeServer covers 5xx responses
	ErrorTypeServer ErrorType = "server"
	// ErrorTypeUnknown covers everything else
	ErrorTypeUnknown ErrorType = "unknown"
)

// Error represents an API error with type information. Expected
// authentication outcomes (two-factor, challenge, invalid credentials) are
// never modeled as errors; they are result variants on the auth flows.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Cause   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Unavailable wraps a transport failure as a retryable error carrying an
// HTTP 408 equivalent code. The original cause is preserved for diagnostics.
func Unavailable(message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeUnavailable,
		Message: message,
		Code:    408,
		Cause:   cause,
	}
}

// Parsing reports a response that could not be interpreted as JSON.
func Parsing(code int, message string) *Error {
	return &Error{
		Type:    ErrorTypeParsing,
		Message: message,
		Code:    code,
	}
}

// Crypto wraps a failure in a cryptographic primitive.
func Crypto(message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeCrypto,
		Message: message,
		Cause:   cause,
	}
}

// Server reports a server-side error with the message the server provided,
// or a generic fallback when absent.
func Server(code int, message string) *Error {
	if message == "" {
		message = "An unknown error occurred."
	}
	return &Error{
		Type:    ErrorTypeServer,
		Message: message,
		Code:    code,
	}
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeUnavailable, ErrorTypeServer:
		return true
	default:
		return false
	}
}

// IsRetryableStatusCode checks if an HTTP status code indicates a retryable error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 408, 429:
		return true
	case 500, 502, 503, 504:
		return true
	case 400, 401, 403, 404: // Client errors that won't change
		return false
	default:
		return statusCode >= 500 // Retry all 5xx errors
	}
}
