package common

import (
	"errors"
	"net/http"
	"strings"

	"github.com/akshayds23/Whizrobo/internal/service"
)

// Errors raised by the HTTP layer itself
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// ErrorStatus maps an error to its HTTP status code
func ErrorStatus(err error) int {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrAccessDenied), errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode is the machine readable code sent with an error response
func ErrorCode(err error) string {
	switch ErrorStatus(err) {
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusBadRequest:
		return "INVALID_INPUT"
	case http.StatusForbidden:
		return "ACCESS_DENIED"
	default:
		return "INTERNAL"
	}
}

// ErrorMessage returns the text shown to the client. Internal errors are never exposed.
func ErrorMessage(err error) string {
	if ErrorStatus(err) == http.StatusInternalServerError {
		return "internal server error"
	}

	msg := err.Error()
	for _, sentinel := range []error{
		service.ErrInvalidInput,
		service.ErrAccessDenied,
		ErrUnauthorized,
		ErrForbidden,
		ErrBadRequest,
	} {
		prefix := sentinel.Error() + ": "
		if strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}

	return msg
}
