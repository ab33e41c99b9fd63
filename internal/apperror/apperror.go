// Package apperror defines the failures an inbox operation can report.
// Every kind has its own constructor, and the message carried by an Error is
// safe to show to the caller. Underlying causes are kept for logging only.
package apperror

import (
	"errors"
	"net/http"
)

type Kind int

const (
	Internal Kind = iota
	Unauthenticated
	NotVerified
	BadCredentials
	NotFound
	RecipientNotFound
	RecipientNotAccepting
	InvalidContent
	UpdateFailed
	UpstreamUnavailable
	Conflict
	InvalidCode
	CodeExpired
	InvalidInput
)

var kindNames = map[Kind]string{
	Internal:              "internal",
	Unauthenticated:       "unauthenticated",
	NotVerified:           "not_verified",
	BadCredentials:        "bad_credentials",
	NotFound:              "not_found",
	RecipientNotFound:     "recipient_not_found",
	RecipientNotAccepting: "recipient_not_accepting",
	InvalidContent:        "invalid_content",
	UpdateFailed:          "update_failed",
	UpstreamUnavailable:   "upstream_unavailable",
	Conflict:              "conflict",
	InvalidCode:           "invalid_code",
	CodeExpired:           "code_expired",
	InvalidInput:          "invalid_input",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Error is a failure of a known kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode maps the kind onto an HTTP status.
func (e *Error) StatusCode() int {
	switch e.Kind {
	case Unauthenticated, BadCredentials:
		return http.StatusUnauthorized
	case NotVerified:
		return http.StatusForbidden
	case NotFound, RecipientNotFound, UpdateFailed:
		return http.StatusNotFound
	case RecipientNotAccepting, InvalidContent, InvalidCode, CodeExpired, InvalidInput:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	case UpstreamUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NewInternal(message string, err error) *Error {
	return newError(Internal, message, err)
}

func NewUnauthenticated(message string, err error) *Error {
	return newError(Unauthenticated, message, err)
}

func NewNotVerified(message string) *Error {
	return newError(NotVerified, message, nil)
}

func NewBadCredentials(message string) *Error {
	return newError(BadCredentials, message, nil)
}

func NewNotFound(message string, err error) *Error {
	return newError(NotFound, message, err)
}

func NewRecipientNotFound(message string) *Error {
	return newError(RecipientNotFound, message, nil)
}

func NewRecipientNotAccepting(message string) *Error {
	return newError(RecipientNotAccepting, message, nil)
}

func NewInvalidContent(message string) *Error {
	return newError(InvalidContent, message, nil)
}

func NewUpdateFailed(message string, err error) *Error {
	return newError(UpdateFailed, message, err)
}

func NewUpstreamUnavailable(message string, err error) *Error {
	return newError(UpstreamUnavailable, message, err)
}

func NewConflict(message string) *Error {
	return newError(Conflict, message, nil)
}

func NewInvalidCode(message string) *Error {
	return newError(InvalidCode, message, nil)
}

func NewCodeExpired(message string) *Error {
	return newError(CodeExpired, message, nil)
}

func NewInvalidInput(message string) *Error {
	return newError(InvalidInput, message, nil)
}

// From finds an *Error in err's chain.
func From(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or Internal when err carries no kind.
func KindOf(err error) Kind {
	if appErr, ok := From(err); ok {
		return appErr.Kind
	}
	return Internal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
