package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/livroelivro/sebo/internal/account"
	"github.com/livroelivro/sebo/internal/catalog"
	"github.com/livroelivro/sebo/internal/livroapi"
	"github.com/livroelivro/sebo/pkg/i18n"
	"github.com/livroelivro/sebo/pkg/logger"
	"github.com/livroelivro/sebo/pkg/validator"
)

// fail maps err to a translated error envelope. Validation errors become
// 422 with per-field messages; unknown errors are logged and reported as 500.
func (h *Handler) fail(r *http.Request, err error) Response {
	ctx := r.Context()
	lang := i18n.GetLocale(ctx)

	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
		return jsonError(http.StatusUnprocessableEntity, &ErrorDetail{
			Code:    "validation_error",
			Message: h.tr.T(lang, "errors.validation"),
			Details: h.tr.TranslateErrors(lang, verrs),
		})
	}

	httpErr := classify(err)
	level := slog.LevelDebug
	if httpErr.Code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.log.Log(ctx, level, "request failed",
		slog.String("code", httpErr.Key),
		logger.Status(httpErr.Code),
		logger.Error(err),
	)

	return jsonError(httpErr.Code, &ErrorDetail{
		Code:    httpErr.Key,
		Message: h.tr.T(lang, "errors."+httpErr.Key),
	})
}

func classify(err error) HTTPError {
	var (
		httpErr  HTTPError
		maxBytes *http.MaxBytesError
		apiErr   *livroapi.APIError
	)
	switch {
	case errors.As(err, &httpErr):
		return httpErr
	case errors.As(err, &maxBytes), errors.Is(err, livroapi.ErrImageTooLarge):
		return ErrRequestTooLarge
	case errors.Is(err, account.ErrNotLoggedIn):
		return ErrUnauthorized
	case errors.Is(err, account.ErrInvalidCredentials):
		return ErrInvalidLogin
	case errors.Is(err, catalog.ErrBookNotFound):
		return ErrBookNotFound
	case errors.Is(err, catalog.ErrRefresh), errors.Is(err, catalog.ErrImageUpload):
		return ErrBadGateway
	case errors.Is(err, livroapi.ErrNotFound):
		return ErrNotFound
	case errors.As(err, &apiErr):
		return classifyRemote(apiErr.Status)
	case errors.Is(err, livroapi.ErrRequestFailed), errors.Is(err, livroapi.ErrDecodeResponse):
		return ErrBadGateway
	default:
		return ErrInternal
	}
}

// classifyRemote maps a remote status that no service translated. Client
// errors are the visitor's to fix; only 5xx is an outage.
func classifyRemote(status int) HTTPError {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrTooManyRequests
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status >= 400 && status < 500:
		return ErrRejected
	default:
		return ErrBadGateway
	}
}

// decodeJSON reads a JSON body into v. Malformed bodies are ErrBadRequest;
// oversized ones keep their MaxBytesError.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return errors.Join(ErrBadRequest, errors.New("empty body"))
		}
		return errors.Join(ErrBadRequest, err)
	}
	return nil
}
