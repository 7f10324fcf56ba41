package client

import (
	"errors"
	"fmt"
	"strings"
)

// Kind - вид ошибки HERE API
type Kind int

const (
	// KindGeneric - сетевая ошибка, не-JSON тело ошибки или неизвестный формат ошибки провайдера
	KindGeneric Kind = iota
	// KindTimeout - превышено время ожидания ответа
	KindTimeout
	// KindUnauthorized - API ключ отклонён
	KindUnauthorized
	// KindInvalidRequest - провайдер счёл запрос некорректным
	KindInvalidRequest
)

func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindTimeout:
		return "timeout"
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidRequest:
		return "invalid request"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Сообщения об ошибках транспорта
const (
	MessageTimeout   = "Timeout occurred while connecting to the API"
	MessageTransport = "Error occurred while communicating with the API"
)

var (
	// ErrGeneric - общая база: ей соответствует любая ошибка клиента
	ErrGeneric        = errors.New("here api error")
	ErrTimeout        = errors.New("here api timeout")
	ErrUnauthorized   = errors.New("here api unauthorized")
	ErrInvalidRequest = errors.New("here api invalid request")

	// ErrClosed - собственная сессия клиента уже закрыта вызовом Close
	ErrClosed = errors.New("client is closed")
)

// Error - ошибка HERE API одного из четырёх видов
type Error struct {
	Kind    Kind
	Message string
	// Status - HTTP статус ответа, 0 если ответ не был получен
	Status int
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("here api ")
	b.WriteString(e.Kind.String())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Is - сопоставление с сентинелами: ErrGeneric подходит для любого вида
func (e *Error) Is(target error) bool {
	if target == ErrGeneric {
		return true
	}
	return target == e.Kind.sentinel()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (k Kind) sentinel() error {
	switch k {
	case KindTimeout:
		return ErrTimeout
	case KindUnauthorized:
		return ErrUnauthorized
	case KindInvalidRequest:
		return ErrInvalidRequest
	}
	return ErrGeneric
}

// DecodeError - тело ответа объявлено как JSON, но не разбирается
type DecodeError struct {
	Status int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("here api decode response (status %d): %v", e.Status, e.Err)
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrGeneric
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// KindOf - вид ошибки клиента; false если err не ошибка HERE API
func KindOf(err error) (Kind, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind, true
	}
	var decodeErr *DecodeError
	if errors.As(err, &decodeErr) {
		return KindGeneric, true
	}
	return KindGeneric, false
}

// MapError - преобразует JSON тело ошибки провайдера в ошибку клиента.
// API отдаёт два несовместимых формата: {error, error_description} и {Type, Message}.
func MapError(payload map[string]any) *Error {
	if payload["error"] == "Unauthorized" {
		return &Error{Kind: KindUnauthorized, Message: stringField(payload, "error_description")}
	}
	if payload["Type"] == "Invalid Request" {
		return &Error{Kind: KindInvalidRequest, Message: stringField(payload, "Message")}
	}
	return &Error{Kind: KindGeneric, Message: stringField(payload, "Message")}
}

func stringField(payload map[string]any, key string) string {
	s, _ := payload[key].(string)
	return s
}
