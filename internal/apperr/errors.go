package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure the way clients need to react to it.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindAuth
	KindRange
	KindConflict
	KindUpload
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuth:
		return "auth"
	case KindRange:
		return "range"
	case KindConflict:
		return "conflict"
	case KindUpload:
		return "upload"
	default:
		return "internal"
	}
}

// Field values carried by not-found errors.
const (
	FieldCustomer = "customer"
	FieldBranch   = "branch"
)

// Error is the typed error returned by every AMC operation that refuses to mutate state.
type Error struct {
	Kind    Kind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels below, so errors.Is(err, apperr.ErrNotFound) works
// for any not-found error regardless of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Message == "" {
		return t.Kind == e.Kind
	}
	return t == e
}

var (
	ErrValidation = &Error{Kind: KindValidation}
	ErrNotFound   = &Error{Kind: KindNotFound}
	ErrAuth       = &Error{Kind: KindAuth}
	ErrRange      = &Error{Kind: KindRange}
	ErrConflict   = &Error{Kind: KindConflict}
	ErrUpload     = &Error{Kind: KindUpload}
)

func Validation(field, msg string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: format(msg, args)}
}

func NotFound(msg string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: format(msg, args)}
}

func Auth(msg string, args ...any) *Error {
	return &Error{Kind: KindAuth, Field: "password", Message: format(msg, args)}
}

func Range(field, msg string, args ...any) *Error {
	return &Error{Kind: KindRange, Field: field, Message: format(msg, args)}
}

func Conflict(msg string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: format(msg, args)}
}

// Upload wraps a failed or aborted upload.
func Upload(err error, msg string, args ...any) *Error {
	return &Error{Kind: KindUpload, Message: format(msg, args), Err: err}
}

func format(msg string, args []any) string {
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// KindOf returns the kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// HTTPStatus maps an error to the status code handlers respond with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindRange:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindUpload:
		if errors.Is(err, context.DeadlineExceeded) {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
