package connector

import (
	"errors"
	"fmt"
)

// Kind classifies connector failures.
type Kind string

const (
	// KindInvalidConfiguration is returned for bad or missing settings,
	// detected before any driver call.
	KindInvalidConfiguration Kind = "invalid_configuration"
	// KindNativeClientInit is returned when the native client bootstrap fails.
	KindNativeClientInit Kind = "native_client_init"
	// KindConnection is returned when a session cannot be established.
	KindConnection Kind = "connection"
	// KindNotConnected is returned for operations that need an open session.
	KindNotConnected Kind = "not_connected"
	// KindQueryExecution is returned when the driver rejects or fails a statement.
	KindQueryExecution Kind = "query_execution"
)

// Reason is the driver diagnostic behind a connection failure, when the
// driver exposes one.
type Reason string

const (
	ReasonUnknown         Reason = "unknown"
	ReasonAccessDenied    Reason = "access_denied"
	ReasonUnknownDatabase Reason = "unknown_database"
)

// Error is the structured error returned by every connector operation.
type Error struct {
	Kind    Kind
	Op      string
	DbType  string
	Reason  Reason
	Code    string
	Message string
	Cause   error
}

var (
	// ErrNotConnected matches any KindNotConnected error with errors.Is.
	ErrNotConnected = &Error{Kind: KindNotConnected, Message: "no active connection"}
	// ErrInvalidConfiguration matches any KindInvalidConfiguration error with errors.Is.
	ErrInvalidConfiguration = &Error{Kind: KindInvalidConfiguration, Message: "invalid configuration"}
)

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.DbType != "" {
		msg = e.DbType + ": " + msg
	}
	if e.Op != "" {
		msg += " during " + e.Op
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Reason != "" && e.Reason != ReasonUnknown {
		msg += fmt.Sprintf(" (%s", e.Reason)
		if e.Code != "" {
			msg += " " + e.Code
		}
		msg += ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same Kind, so the exported
// sentinels can be used with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// IsKind reports whether err is, or wraps, a connector error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// ReasonOf returns the connection failure reason carried by err, or
// ReasonUnknown.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) && e.Reason != "" {
		return e.Reason
	}
	return ReasonUnknown
}

func newError(kind Kind, dbType, op, message string, cause error) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		DbType:  dbType,
		Message: message,
		Cause:   cause,
	}
}

func notConnected(dbType, op string) *Error {
	return newError(KindNotConnected, dbType, op, "no active connection to the database", nil)
}

func invalidConfig(dbType, message string) *Error {
	return newError(KindInvalidConfiguration, dbType, "configure", message, nil)
}
