package rdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/geoknoesis/rdf-dedup/internal/turtle"
)

// ErrorKind classifies a recoverable parsing failure.
type ErrorKind uint8

const (
	// BadSyntax is malformed grammar, or a base/prefix declaration while
	// declarations are disabled.
	BadSyntax ErrorKind = iota + 1
	// BadCurie is a prefixed name without a colon or with an unknown prefix.
	BadCurie
	// BadIri is an IRI that failed validation.
	BadIri
	// BadBlankNode is a blank node label that failed validation.
	BadBlankNode
	// BadLiteral is a lexical form that is invalid for its datatype.
	BadLiteral
	// Internal is an unclassified engine failure.
	Internal
)

func (k ErrorKind) String() string {
	switch k {
	case BadSyntax:
		return "bad syntax"
	case BadCurie:
		return "bad curie"
	case BadIri:
		return "bad iri"
	case BadBlankNode:
		return "bad blank node"
	case BadLiteral:
		return "bad literal"
	case Internal:
		return "internal error"
	default:
		return "unknown"
	}
}

// ErrorCode represents a programmatic error code for error handling.
type ErrorCode string

const (
	ErrCodeBadSyntax        ErrorCode = "BAD_SYNTAX"
	ErrCodeBadCurie         ErrorCode = "BAD_CURIE"
	ErrCodeBadIri           ErrorCode = "BAD_IRI"
	ErrCodeBadBlankNode     ErrorCode = "BAD_BLANK_NODE"
	ErrCodeBadLiteral       ErrorCode = "BAD_LITERAL"
	ErrCodeInternal         ErrorCode = "INTERNAL"
	ErrCodeLineTooLong      ErrorCode = "LINE_TOO_LONG"
	ErrCodeStatementTooLong ErrorCode = "STATEMENT_TOO_LONG"
	ErrCodeContextCanceled  ErrorCode = "CONTEXT_CANCELED"
	ErrCodeIOError          ErrorCode = "IO_ERROR"
)

var (
	// ErrLineTooLong indicates a line exceeded the configured limit.
	ErrLineTooLong = turtle.ErrLineTooLong
	// ErrStatementTooLong indicates a statement exceeded the configured limit.
	ErrStatementTooLong = turtle.ErrStatementTooLong
	// ErrReentrant is wrapped by the Internal error returned when Next is
	// called from inside one of its own callbacks.
	ErrReentrant = errors.New("rdf: statement reader called re-entrantly")
	// ErrClosed is returned by Next after Close.
	ErrClosed = errors.New("rdf: statement reader closed")
)

var kindCodes = map[ErrorKind]ErrorCode{
	BadSyntax:    ErrCodeBadSyntax,
	BadCurie:     ErrCodeBadCurie,
	BadIri:       ErrCodeBadIri,
	BadBlankNode: ErrCodeBadBlankNode,
	BadLiteral:   ErrCodeBadLiteral,
	Internal:     ErrCodeInternal,
}

// ParsingError is a recoverable failure tied to one statement.
type ParsingError struct {
	Kind    ErrorKind
	Line    int // 1-based line number (0 if unknown)
	Column  int // 1-based column number (0 if unknown)
	Message string
	Err     error // underlying error, if any
}

func (e *ParsingError) Error() string {
	var msg strings.Builder
	msg.WriteString("turtle")
	if e.Line > 0 {
		if e.Column > 0 {
			fmt.Fprintf(&msg, ":%d:%d", e.Line, e.Column)
		} else {
			fmt.Fprintf(&msg, ":%d", e.Line)
		}
	}
	msg.WriteString(": ")
	msg.WriteString(e.Kind.String())
	if e.Message != "" {
		msg.WriteString(": ")
		msg.WriteString(e.Message)
	}
	return msg.String()
}

func (e *ParsingError) Unwrap() error { return e.Err }

// KindOf returns the kind of the ParsingError wrapped by err, or 0.
func KindOf(err error) ErrorKind {
	var perr *ParsingError
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return 0
}

// Code returns the error code for an error.
// Returns empty string for nil errors or io.EOF (which is not an error condition).
func Code(err error) ErrorCode {
	if err == nil || err == io.EOF {
		return ""
	}

	switch {
	case errors.Is(err, ErrLineTooLong):
		return ErrCodeLineTooLong
	case errors.Is(err, ErrStatementTooLong):
		return ErrCodeStatementTooLong
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrCodeContextCanceled
	}

	if code, ok := kindCodes[KindOf(err)]; ok {
		return code
	}
	return ErrCodeIOError
}

// kindOfStatus maps an engine status onto an error kind.
func kindOfStatus(status turtle.Status) ErrorKind {
	switch status {
	case turtle.StatusBadSyntax:
		return BadSyntax
	case turtle.StatusBadCURIE:
		return BadCurie
	case turtle.StatusIDClash:
		return BadBlankNode
	default:
		return Internal
	}
}

// fromEngineError converts an engine failure into a ParsingError.
func fromEngineError(err *turtle.Error) *ParsingError {
	return &ParsingError{
		Kind:    kindOfStatus(err.Status),
		Line:    err.Line,
		Column:  err.Column,
		Message: err.Message,
		Err:     err,
	}
}
