package web

import "net/http"

// HTTPError is a client-facing failure. Key names the "errors.*" message in
// the translation catalogs.
type HTTPError struct {
	Code int
	Key  string
}

func (e HTTPError) Error() string {
	return e.Key
}

var (
	ErrBadRequest      = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrUnknownField    = HTTPError{Code: http.StatusBadRequest, Key: "unknown_field"}
	ErrUnauthorized    = HTTPError{Code: http.StatusUnauthorized, Key: "unauthorized"}
	ErrInvalidLogin    = HTTPError{Code: http.StatusUnauthorized, Key: "invalid_credentials"}
	ErrForbidden       = HTTPError{Code: http.StatusForbidden, Key: "forbidden"}
	ErrNotFound        = HTTPError{Code: http.StatusNotFound, Key: "not_found"}
	ErrBookNotFound    = HTTPError{Code: http.StatusNotFound, Key: "book_not_found"}
	ErrRequestTooLarge = HTTPError{Code: http.StatusRequestEntityTooLarge, Key: "request_too_large"}
	ErrTooManyRequests = HTTPError{Code: http.StatusTooManyRequests, Key: "too_many_requests"}
	ErrRejected        = HTTPError{Code: http.StatusUnprocessableEntity, Key: "rejected"}
	ErrBadGateway      = HTTPError{Code: http.StatusBadGateway, Key: "bad_gateway"}
	ErrInternal        = HTTPError{Code: http.StatusInternalServerError, Key: "internal"}
)
