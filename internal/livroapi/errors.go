package livroapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidBaseURL     = errors.New("livroapi: invalid base url")
	ErrNotFound           = errors.New("livroapi: resource not found")
	ErrInvalidCredentials = errors.New("livroapi: invalid credentials")
	ErrImageTooLarge      = errors.New("livroapi: image exceeds 250KB")
	ErrEmptyID            = errors.New("livroapi: empty id")
	ErrRequestFailed      = errors.New("livroapi: request failed")
	ErrDecodeResponse     = errors.New("livroapi: failed to decode response")
	ErrEncodeRequest      = errors.New("livroapi: failed to encode request")
	ErrInvalidDate        = errors.New("livroapi: invalid date")
)

// APIError is a non-2xx answer from the remote service.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("livroapi: unexpected status %d", e.Status)
	}
	return fmt.Sprintf("livroapi: unexpected status %d: %s", e.Status, e.Body)
}

// Is lets errors.Is(err, ErrNotFound) match a 404.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Status == http.StatusNotFound
}
