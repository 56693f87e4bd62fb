package apierror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrConflict       ErrorCode = "CONFLICT"
	ErrBadRequest     ErrorCode = "BAD_REQUEST"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrInternalServer ErrorCode = "INTERNAL_SERVER_ERROR"
)

type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"error"`
	cause   error
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e APIError) Unwrap() error {
	return e.cause
}

func New(code ErrorCode, message string) APIError {
	return APIError{Code: code, Message: message}
}

// Wrap keeps cause reachable through errors.Is and errors.As.
func Wrap(code ErrorCode, message string, cause error) APIError {
	return APIError{Code: code, Message: message, cause: cause}
}

func NotFound(format string, args ...interface{}) APIError {
	return New(ErrNotFound, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...interface{}) APIError {
	return New(ErrConflict, fmt.Sprintf(format, args...))
}

func InvalidInput(format string, args ...interface{}) APIError {
	return New(ErrInvalidInput, fmt.Sprintf(format, args...))
}

// MapErrorToHTTPStatus returns 500 for anything that is not an APIError.
func MapErrorToHTTPStatus(err error) int {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case ErrNotFound:
			return http.StatusNotFound
		case ErrConflict:
			return http.StatusConflict
		case ErrBadRequest, ErrInvalidInput:
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// Body is the JSON error response for err. Internal errors do not leak
// their message.
func Body(err error) APIError {
	var apiErr APIError
	if errors.As(err, &apiErr) && apiErr.Code != ErrInternalServer {
		return APIError{Code: apiErr.Code, Message: apiErr.Message}
	}
	return APIError{Code: ErrInternalServer, Message: "internal server error"}
}
