package httperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindUnauthorized
)

func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a business failure that carries a stable code for clients and a
// human readable message.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func ErrValidation(code, message string) error {
	return &Error{Kind: KindValidation, Code: code, Message: message}
}

func ErrNotFound(code, message string) error {
	return &Error{Kind: KindNotFound, Code: code, Message: message}
}

func ErrConflict(code, message string) error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

func ErrUnauthorized(code, message string) error {
	return &Error{Kind: KindUnauthorized, Code: code, Message: message}
}

// KindOf returns 0 for errors that are not business errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

func IsCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
