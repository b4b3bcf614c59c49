package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for domain operations
var (
	// ErrMovieNotFound indicates the requested movie does not exist upstream
	ErrMovieNotFound = errors.New("movie not found")

	// ErrSourceOffline indicates the movie metadata API is unreachable
	ErrSourceOffline = errors.New("movie source is unreachable")

	// ErrAuthFailed indicates the API key was rejected
	ErrAuthFailed = errors.New("api key is invalid")

	// ErrNotConfigured indicates no API key has been configured
	ErrNotConfigured = errors.New("api key is not configured")
)

// HTTPError is returned when the movie source answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("http %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Is maps well-known status codes onto the domain sentinels
func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrMovieNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrAuthFailed:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}
