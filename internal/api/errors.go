package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error classes for backend responses.
var (
	// ErrUnauthorised indicates the bearer token was rejected even after
	// the one forced renewal.
	ErrUnauthorised = errors.New("api: unauthorised")

	// ErrForbidden indicates the account lacks permission.
	ErrForbidden = errors.New("api: forbidden")

	// ErrNotFound indicates the resource does not exist at this path.
	ErrNotFound = errors.New("api: not found")

	// ErrRateLimited indicates the request was throttled.
	ErrRateLimited = errors.New("api: rate limited")

	// ErrBadRequest indicates the request was malformed.
	ErrBadRequest = errors.New("api: bad request")

	// ErrServerError indicates a 5xx from the backend.
	ErrServerError = errors.New("api: server error")

	// ErrInvalidResponse indicates a 2xx response whose JSON body could
	// not be parsed.
	ErrInvalidResponse = errors.New("api: invalid response")
)

// classifyStatus maps an HTTP status code to its error class.
func classifyStatus(statusCode int) error {
	switch statusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorised
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusBadRequest:
		return ErrBadRequest
	default:
		if statusCode >= 500 {
			return ErrServerError
		}
		return nil
	}
}

// Error is a non-2xx backend response. Its message always carries the
// HTTP status and status text plus the best-effort server message, so it
// is suitable for direct user display.
type Error struct {
	// Status is the HTTP status code.
	Status int
	// StatusText is the HTTP status text.
	StatusText string
	// Message is the server-provided message, extracted from the JSON
	// error/message field when present, else the raw body text.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%d %s", e.Status, e.StatusText)
	}
	return fmt.Sprintf("%d %s - %s", e.Status, e.StatusText, e.Message)
}

// Unwrap exposes the status class so callers can use errors.Is with the
// sentinel errors above.
func (e *Error) Unwrap() error {
	return classifyStatus(e.Status)
}

// IsNotFound reports whether the error is a 404 response.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorised reports whether the error is a 401 response.
func IsUnauthorised(err error) bool {
	return errors.Is(err, ErrUnauthorised)
}
