package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError independently of its HTTP status.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindUnauthorized  Kind = "unauthorized"
	KindNotFound      Kind = "not_found"
	KindStorage       Kind = "storage"
	KindMisconfigured Kind = "misconfigured"
	KindRateLimited   Kind = "rate_limited"
	KindInternal      Kind = "internal"
)

type AppError struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, code int, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func Validation(message string) *AppError {
	return New(KindValidation, http.StatusBadRequest, message, nil)
}

// BadRequest reports a body that could not be decoded at all.
func BadRequest(message string) *AppError {
	return Validation(message)
}

func Unauthorized(message string) *AppError {
	return New(KindUnauthorized, http.StatusUnauthorized, message, nil)
}

func NotFound(message string) *AppError {
	return New(KindNotFound, http.StatusNotFound, message, nil)
}

// Storage wraps a transport or remote-side failure of the table store.
func Storage(message string, err error) *AppError {
	return New(KindStorage, http.StatusInternalServerError, message, err)
}

func Misconfigured(message string) *AppError {
	return New(KindMisconfigured, http.StatusInternalServerError, message, nil)
}

func TooManyRequests(message string) *AppError {
	return New(KindRateLimited, http.StatusTooManyRequests, message, nil)
}

func Internal(err error) *AppError {
	return New(KindInternal, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", err)
}

// IsKind reports whether err is an AppError of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}
