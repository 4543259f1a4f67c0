package superfaktura

import (
	"errors"
	"fmt"
	"net/http"
	"syscall"
)

// Configuration errors, returned synchronously by NewConfig and the client
// constructors.
var (
	ErrConfigRequired  = errors.New("config is required")
	ErrHostNotAllowed  = errors.New("base URL host not allowed")
	ErrNegativeRetries = errors.New("max retries must not be negative")
	ErrInvalidTimeout  = errors.New("timeouts must be positive")
)

// HTTPError is returned when the API answers with any status other than
// 200. Body holds the raw response text.
type HTTPError struct {
	Operation  string `json:"operation"   yaml:"operation"`
	StatusCode int    `json:"status_code" yaml:"status_code"`
	Body       string `json:"body"        yaml:"body"`
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.Operation == "" {
		return fmt.Sprintf("unexpected response: %s (status: %d)", e.Body, e.StatusCode)
	}

	return fmt.Sprintf("failed to %s: %s (status: %d)", e.Operation, e.Body, e.StatusCode)
}

// APIError is returned when no HTTP response was obtained at all, e.g. on
// DNS failures, refused connections or timeouts.
type APIError struct {
	// Code is a best-effort numeric code: the errno of the underlying
	// failure when there is one, otherwise 0.
	Code    int    `json:"code"    yaml:"code"`
	Message string `json:"message" yaml:"message"`
	Err     error  `json:"-"       yaml:"-"`
}

// NewAPIError wraps a transport failure.
func NewAPIError(err error) *APIError {
	apiErr := &APIError{Err: err}
	if err == nil {
		return apiErr
	}

	apiErr.Message = err.Error()

	var errno syscall.Errno
	if errors.As(err, &errno) {
		apiErr.Code = int(errno)
	}

	return apiErr
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP error: %s (code: %d)", e.Message, e.Code)
}

// Unwrap returns the underlying transport error.
func (e *APIError) Unwrap() error {
	return e.Err
}

// IsHTTPError reports whether err carries a non-200 response.
func IsHTTPError(err error) bool {
	httpErr := &HTTPError{}

	return errors.As(err, &httpErr)
}

// IsAPIError reports whether err is a connectivity failure.
func IsAPIError(err error) bool {
	apiErr := &APIError{}

	return errors.As(err, &apiErr)
}

// StatusCode extracts the HTTP status carried by err.
func StatusCode(err error) (int, bool) {
	httpErr := &HTTPError{}
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode, true
	}

	return 0, false
}

// IsNotFound checks if the error is a 404 response.
func IsNotFound(err error) bool {
	code, ok := StatusCode(err)

	return ok && code == http.StatusNotFound
}

// IsUnauthorized checks if the error is a 401 response.
func IsUnauthorized(err error) bool {
	code, ok := StatusCode(err)

	return ok && code == http.StatusUnauthorized
}

// IsRateLimited checks if the error is a 429 response.
func IsRateLimited(err error) bool {
	code, ok := StatusCode(err)

	return ok && code == http.StatusTooManyRequests
}
