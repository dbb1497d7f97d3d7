package adminerr

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks. Matching is by kind only.
var (
	ErrInternal           = &Error{Kind: KindInternal}
	ErrModelNotFound      = &Error{Kind: KindModelNotFound}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrInvalidPayload     = &Error{Kind: KindInvalidPayload}
	ErrUnknownField       = &Error{Kind: KindUnknownField}
	ErrInvalidID          = &Error{Kind: KindInvalidID}
	ErrTokenInvalid       = &Error{Kind: KindTokenInvalid}
	ErrTokenExpired       = &Error{Kind: KindTokenExpired}
	ErrForbidden          = &Error{Kind: KindForbidden}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
)

// Error is the single error type shared by the registry, the stores, the
// token module and the route layer.
type Error struct {
	Kind    Kind
	Table   string
	ID      string
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.defaultMessage()
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) defaultMessage() string {
	switch e.Kind {
	case KindModelNotFound:
		return fmt.Sprintf("model %q not found", e.Table)
	case KindNotFound:
		if e.Table == "" {
			return fmt.Sprintf("record %s not found", e.ID)
		}
		return fmt.Sprintf("record %s not found in table %q", e.ID, e.Table)
	case KindUnknownField:
		return fmt.Sprintf("unknown field %q for table %q", e.Field, e.Table)
	case KindInvalidID:
		return fmt.Sprintf("invalid id %q for table %q", e.ID, e.Table)
	case KindInvalidPayload:
		return "invalid payload"
	case KindTokenInvalid:
		return "invalid token"
	case KindTokenExpired:
		return "token expired"
	case KindForbidden:
		return "superuser required"
	case KindInvalidCredentials:
		return "invalid credentials"
	default:
		return "internal error"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Code is the stable machine-readable identifier for the error.
func (e *Error) Code() string {
	return e.Kind.String()
}

// New creates an error of the given kind with a message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to err. A nil err returns nil.
func Wrap(kind Kind, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// ModelNotFound reports an unregistered table.
func ModelNotFound(table string) *Error {
	return &Error{Kind: KindModelNotFound, Table: table}
}

// NotFound reports a missing record.
func NotFound(table, id string) *Error {
	return &Error{Kind: KindNotFound, Table: table, ID: id}
}

// UnknownField reports a payload key outside the model's allow-list.
func UnknownField(table, field string) *Error {
	return &Error{Kind: KindUnknownField, Table: table, Field: field}
}

// InvalidID reports a path id that does not fit the primary key type.
func InvalidID(table, id string, err error) *Error {
	return &Error{Kind: KindInvalidID, Table: table, ID: id, Err: err}
}

// KindOf returns the kind carried by err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As returns err as *Error, wrapping foreign errors as KindInternal.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: KindInternal, Err: err}
}
