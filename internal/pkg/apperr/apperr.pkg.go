package apperr

import (
	"context"
	"errors"
	"net/http"
)

const (
	KindValidation    = "validation"
	KindConfiguration = "configuration"
	KindProvider      = "provider"
	KindNotification  = "notification"
	KindNotFound      = "not_found"
	KindUnauthorized  = "unauthorized"
	KindTimeout       = "timeout"
	KindCanceled      = "canceled"
	KindInternal      = "internal"
)

// Error is a classified application error. Message is safe to show to
// clients; Err keeps the underlying cause for logs.
type Error struct {
	kind    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Kind() string { return e.kind }

// Validation reports malformed or missing client input.
func Validation(message string) *Error {
	return &Error{kind: KindValidation, Message: message}
}

// Configuration reports a missing server-side setting such as a provider key.
func Configuration(message string) *Error {
	return &Error{kind: KindConfiguration, Message: message}
}

// Provider reports that the payment provider rejected or failed a call.
func Provider(message string, cause error) *Error {
	return &Error{kind: KindProvider, Message: message, Err: cause}
}

// Notification reports an email dispatch failure. These are logged, never
// returned to clients.
func Notification(message string, cause error) *Error {
	return &Error{kind: KindNotification, Message: message, Err: cause}
}

func NotFound(message string, cause error) *Error {
	return &Error{kind: KindNotFound, Message: message, Err: cause}
}

func Unauthorized(message string, cause error) *Error {
	return &Error{kind: KindUnauthorized, Message: message, Err: cause}
}

func Internal(message string, cause error) *Error {
	return &Error{kind: KindInternal, Message: message, Err: cause}
}

type kinder interface {
	Kind() string
}

var kindToStatus = map[string]int{
	KindValidation:    http.StatusBadRequest,
	KindConfiguration: http.StatusInternalServerError,
	KindProvider:      http.StatusBadRequest,
	KindNotification:  http.StatusInternalServerError,
	KindNotFound:      http.StatusNotFound,
	KindUnauthorized:  http.StatusUnauthorized,
	KindTimeout:       http.StatusGatewayTimeout,
	KindCanceled:      http.StatusRequestTimeout,
}

// Kind returns the classification of err, looking through wrapped errors.
func Kind(err error) string {
	if err == nil {
		return ""
	}
	var k kinder
	if errors.As(err, &k) {
		return k.Kind()
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	default:
		return KindInternal
	}
}

func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if s, ok := kindToStatus[Kind(err)]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the client-facing message of err. Unclassified
// errors get a generic message so internals never leak.
func PublicMessage(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
