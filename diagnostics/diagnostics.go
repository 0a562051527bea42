// Package diagnostics carries the error values the engines accumulate.
// Every diagnostic has a stable code so tests and tool consumers can match
// on the class of problem instead of the message text.
package diagnostics

import "fmt"

// ErrorCode identifies a diagnostic class.
type ErrorCode string

const (
	// Quoting engine.
	ErrQ001 ErrorCode = "Q001" // malformed tree: a required child is missing
	ErrQ002 ErrorCode = "Q002" // construct not allowed in pattern position
	ErrQ003 ErrorCode = "Q003" // invalid escape sequence
	ErrQ004 ErrorCode = "Q004" // interpolated atom quoted as raw text

	// Scope resolution.
	ErrR001 ErrorCode = "R001" // module table lookup failed
	ErrR002 ErrorCode = "R002" // unquote argument could not be resolved

	// Parse adapter.
	ErrX001 ErrorCode = "X001" // source contains syntax errors
	ErrX002 ErrorCode = "X002" // unrecognized parse tree node
)

// Span is the source region a diagnostic points at. Line and Column are
// 1-based; a zero Span means the diagnostic has no location.
type Span struct {
	File   string
	Line   int
	Column int
	// Text is the lexeme or snippet the diagnostic refers to. May be empty.
	Text string
}

// DiagnosticError is a localized, recoverable problem. Engines append these
// to their context and keep going; only structural failures abort a subtree.
type DiagnosticError struct {
	Code    ErrorCode
	Span    Span
	Message string
}

func NewError(code ErrorCode, span Span, message string) *DiagnosticError {
	return &DiagnosticError{Code: code, Span: span, Message: message}
}

func (e *DiagnosticError) Error() string {
	if e.Span.Line > 0 {
		return fmt.Sprintf("[%s] %d:%d: %s", e.Code, e.Span.Line, e.Span.Column, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}
