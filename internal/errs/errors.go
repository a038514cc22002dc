// Package errs описывает таксономию ошибок, общую для репозиториев, сервисов и хендлеров.
package errs

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindUnauthorized
	KindNotFound
	KindTooManyRequests
)

// Сентинелы для errors.Is. Сравнение идет по Kind, а не по сообщению.
var (
	ErrValidation      = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrConflict        = &Error{Kind: KindConflict, Message: "already exists"}
	ErrUnauthorized    = &Error{Kind: KindUnauthorized, Message: "unauthorized request"}
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "not found"}
	ErrInternal        = &Error{Kind: KindInternal, Message: "something went wrong"}
	ErrTooManyRequests = &Error{Kind: KindTooManyRequests, Message: "too many attempts, try again later"}
)

// Error несет вид ошибки, сообщение для клиента и исходную причину.
// Причина никогда не отдается клиенту.
type Error struct {
	Kind    Kind
	Message string
	Details []string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

func Validation(message string, details ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Internal оборачивает причину, скрывая ее текст за общим сообщением.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: cause}
}

// KindOf возвращает вид ошибки; все, что не является *Error, считается внутренней ошибкой.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus сопоставляет вид ошибки со статусом ответа.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage возвращает сообщение, безопасное для клиента.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Message
	}
	return ErrInternal.Message
}

// PublicDetails возвращает детали ошибки валидации, если они есть.
func PublicDetails(err error) []string {
	var e *Error
	if errors.As(err, &e) && e.Kind != KindInternal {
		return e.Details
	}
	return nil
}
