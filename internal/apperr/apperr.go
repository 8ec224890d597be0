// Package apperr defines the error taxonomy shared by services and handlers.
// Every error that reaches an HTTP handler is mapped to one of these kinds.
package apperr

import (
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDuplicateKey
	KindNotFound
	KindUnauthorized
	KindBadRequest
)

var kindStatus = map[Kind]int{
	KindInternal:     http.StatusInternalServerError,
	KindValidation:   http.StatusBadRequest,
	KindDuplicateKey: http.StatusBadRequest,
	KindNotFound:     http.StatusNotFound,
	KindUnauthorized: http.StatusUnauthorized,
	KindBadRequest:   http.StatusBadRequest,
}

// MsgInternal is the only message clients see for unexpected failures.
const MsgInternal = "Erro interno do servidor"

type Error struct {
	Kind     Kind
	Message  string
	Messages []string // per-field messages, validation only
	Err      error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status is the HTTP status code for the error kind.
func (e *Error) Status() int {
	return kindStatus[e.Kind]
}

// Validation joins one message per offending field.
func Validation(messages ...string) *Error {
	return &Error{
		Kind:     KindValidation,
		Message:  strings.Join(messages, ", "),
		Messages: messages,
	}
}

func Duplicate(message string, cause error) *Error {
	return &Error{Kind: KindDuplicateKey, Message: message, Err: cause}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func BadRequest(message string) *Error {
	return &Error{Kind: KindBadRequest, Message: message}
}

// Internal hides the cause behind the generic message; the cause stays
// reachable through Unwrap for logging.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Message: MsgInternal, Err: cause}
}

// As returns the *Error in err's chain, or wraps err as Internal.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal(err)
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsNoDocuments reports a missing single-document lookup.
func IsNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}

// IsDuplicateKey reports a unique index violation (E11000).
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
