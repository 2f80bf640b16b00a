package store

import "fmt"

type ErrorKind string

const (
	ErrSyntax              ErrorKind = "SyntaxError"
	ErrUnknownTable        ErrorKind = "UnknownTable"
	ErrUnknownColumn       ErrorKind = "UnknownColumn"
	ErrDuplicateTable      ErrorKind = "DuplicateTable"
	ErrDuplicateColumn     ErrorKind = "DuplicateColumn"
	ErrColumnCountMismatch ErrorKind = "ColumnCountMismatch"
	ErrTypeMismatch        ErrorKind = "TypeMismatch"
)

// Error is a query-level failure. Every error a session can see
// carries one of the ErrorKind tags so the wire layer can report
// the taxonomy kind without string matching.
type Error struct {
	Kind    ErrorKind
	Message string
}

func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string { return string(e.Kind) + ": " + e.Message }

// KindOf returns the taxonomy kind of err, or "" when err did not
// come from query handling.
func KindOf(err error) ErrorKind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ""
}
