// Package apperror описывает доменные ошибки сервиса авторизации.
// Каждая ошибка несёт Kind, по которому HTTP слой выбирает статус ответа.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindUserNotFound       Kind = "USER_NOT_FOUND"
	KindUsernameDuplicated Kind = "USERNAME_DUPLICATED"
	KindNoAuthority        Kind = "NO_AUTHORITY"
	KindInvalidToken       Kind = "INVALID_TOKEN"
	KindExpiredToken       Kind = "EXPIRED_TOKEN"
	KindMalformedHeader    Kind = "MALFORMED_HEADER"
	KindTokenNotFound      Kind = "TOKEN_NOT_FOUND"
	KindStoreUnavailable   Kind = "STORE_UNAVAILABLE"
	KindSigning            Kind = "SIGNING_ERROR"
	KindInvalidInput       Kind = "INVALID_INPUT"
	KindInternal           Kind = "INTERNAL"
)

// Сентинелы для errors.Is: сравнение идёт только по Kind
var (
	ErrUserNotFound       = &Error{Kind: KindUserNotFound}
	ErrUsernameDuplicated = &Error{Kind: KindUsernameDuplicated}
	ErrNoAuthority        = &Error{Kind: KindNoAuthority}
	ErrInvalidToken       = &Error{Kind: KindInvalidToken}
	ErrExpiredToken       = &Error{Kind: KindExpiredToken}
	ErrMalformedHeader    = &Error{Kind: KindMalformedHeader}
	ErrTokenNotFound      = &Error{Kind: KindTokenNotFound}
	ErrStoreUnavailable   = &Error{Kind: KindStoreUnavailable}
	ErrSigning            = &Error{Kind: KindSigning}
	ErrInvalidInput       = &Error{Kind: KindInvalidInput}
)

type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func New(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func Wrap(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: detail, Err: err}
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// KindOf возвращает Kind первой доменной ошибки в цепочке, либо KindInternal
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// DetailOf : текст ошибки, который можно показать клиенту
func DetailOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Detail != "" {
		return appErr.Detail
	}
	return "внутренняя ошибка сервера"
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUserNotFound:
		return http.StatusNotFound
	case KindUsernameDuplicated:
		return http.StatusConflict
	case KindNoAuthority:
		return http.StatusForbidden
	case KindInvalidToken, KindExpiredToken, KindMalformedHeader, KindTokenNotFound:
		return http.StatusUnauthorized
	case KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
