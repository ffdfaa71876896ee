package engine

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies use-case failures so callers can branch without parsing messages.
type Kind int

const (
	KindInvalidRequest Kind = iota + 1
	KindNotFound
	KindValidationFailed
	KindInvalidTransition
	KindPersistenceFailed
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid_request"
	case KindNotFound:
		return "not_found"
	case KindValidationFailed:
		return "validation_failed"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindPersistenceFailed:
		return "persistence_failed"
	default:
		return "unknown"
	}
}

// Error is returned by Engine use cases for every domain failure.
type Error struct {
	Kind Kind
	// Role names the missing party for KindNotFound ("author", "accused", "lawyer", "judicial_process").
	Role       string
	Message    string
	Violations []string
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if len(e.Violations) > 0 {
		msg = msg + ": " + strings.Join(e.Violations, ", ")
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same kind, so errors.Is(err, &Error{Kind: KindNotFound}) works.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Role == "" || t.Role == e.Role)
}

// KindOf returns the kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err carries kind k.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

func invalidRequest(msg string) error {
	return &Error{Kind: KindInvalidRequest, Message: msg}
}

func notFound(role string, err error) error {
	return &Error{Kind: KindNotFound, Role: role, Message: role + " not found", Err: err}
}

func validationFailed(violations []string) error {
	return &Error{Kind: KindValidationFailed, Message: "inconsistent judicial process", Violations: violations}
}

func invalidTransition(from, to string) error {
	return &Error{Kind: KindInvalidTransition, Message: fmt.Sprintf("cannot move judicial process from %s to %s", from, to)}
}

func persistenceFailed(msg string, err error) error {
	return &Error{Kind: KindPersistenceFailed, Message: msg, Err: err}
}
