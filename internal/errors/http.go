package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// MapStatus maps a backend HTTP status to an AppError. Messages from the
// backend body are carried as the error message when present.
func MapStatus(status int, message string) *AppError {
	if status >= 200 && status < 300 {
		return nil
	}
	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch status {
	case http.StatusUnauthorized:
		return Unauthenticated(msg)
	case http.StatusForbidden:
		return New(ErrCodeForbidden, msg)
	case http.StatusNotFound:
		return NotFound(msg)
	case http.StatusBadRequest, http.StatusUnprocessableEntity, http.StatusConflict:
		return Validation(msg)
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return New(ErrCodeTimeout, msg)
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return Unavailable(msg)
	default:
		return Internalf("backend returned %d: %s", status, msg)
	}
}

// MapTransport maps a transport-level failure (no HTTP response) to an AppError.
func MapTransport(err error, op string) *AppError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(err, ErrCodeTimeout, fmt.Sprintf("%s timed out", op))
	case errors.Is(err, context.Canceled):
		return Wrap(err, ErrCodeCanceled, fmt.Sprintf("%s canceled", op))
	default:
		return Wrap(err, ErrCodeUnavailable, fmt.Sprintf("%s failed", op))
	}
}

// HTTPStatus returns the status the front end should answer with for err.
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeUnavailable:
		return http.StatusBadGateway
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
