package medium

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized is matched by API errors caused by a rejected token.
	ErrUnauthorized = errors.New("medium: unauthorized")
	// ErrRateLimited is matched by API errors returned with status 429.
	ErrRateLimited = errors.New("medium: rate limited")
	// ErrMissingToken is returned before any request when no token is set.
	ErrMissingToken = errors.New("medium: auth token is required")
)

const maxErrorBody = 512

// APIError is a non-2xx response from the publishing API.
type APIError struct {
	Op         string
	StatusCode int
	Messages   []string
	Body       string
}

func (e *APIError) Error() string {
	detail := strings.Join(e.Messages, "; ")
	if detail == "" {
		detail = e.Body
	}
	if detail == "" {
		detail = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("medium %s: status %d: %s", e.Op, e.StatusCode, detail)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return nil
	}
}
