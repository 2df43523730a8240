package turtle

import (
	"errors"
	"fmt"
)

// NodeType identifies the kind of a raw token.
type NodeType uint8

const (
	// NodeNothing marks an absent node (no graph, no datatype, no language).
	NodeNothing NodeType = iota
	// NodeLiteral is a literal lexical form or a language tag.
	NodeLiteral
	// NodeURI is an IRI reference without the angle brackets.
	NodeURI
	// NodeCURIE is a prefixed name, still unexpanded.
	NodeCURIE
	// NodeBlank is a blank node label without the "_:" marker.
	NodeBlank
)

func (t NodeType) String() string {
	switch t {
	case NodeNothing:
		return "nothing"
	case NodeLiteral:
		return "literal"
	case NodeURI:
		return "uri"
	case NodeCURIE:
		return "curie"
	case NodeBlank:
		return "blank"
	default:
		return "unknown"
	}
}

// Node is a raw token handed to a callback.
// Buf aliases the reader's statement buffer and is only valid until the
// callback returns.
type Node struct {
	Type NodeType
	Buf  []byte
}

// IsNothing reports whether the node is absent.
func (n Node) IsNothing() bool { return n.Type == NodeNothing }

// Event carries one parsed statement.
type Event struct {
	Graph     Node
	Subject   Node
	Predicate Node
	Object    Node
	Datatype  Node
	Lang      Node
}

// Status classifies an engine failure.
type Status uint8

const (
	StatusBadSyntax Status = iota + 1
	StatusBadCURIE
	StatusIDClash
	StatusInternal
)

func (s Status) String() string {
	switch s {
	case StatusBadSyntax:
		return "bad syntax"
	case StatusBadCURIE:
		return "bad curie"
	case StatusIDClash:
		return "blank node id clash"
	case StatusInternal:
		return "internal error"
	default:
		return "unknown status"
	}
}

var (
	// ErrClosed is returned by ReadChunk after Close.
	ErrClosed = errors.New("turtle: reader closed")
	// ErrSkipRequired is returned by ReadChunk while a failed chunk has not been skipped.
	ErrSkipRequired = errors.New("turtle: previous chunk failed, call SkipError")
	// ErrLineTooLong indicates a line exceeded the configured limit.
	ErrLineTooLong = errors.New("turtle: line exceeds configured limit")
	// ErrStatementTooLong indicates a statement exceeded the configured limit.
	ErrStatementTooLong = errors.New("turtle: statement exceeds configured limit")
)

// Error is a failure raised by the engine itself.
type Error struct {
	Status  Status
	Line    int // 1-based, 0 if unknown
	Column  int // 1-based, 0 if unknown
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("turtle:%d:%d: %s", e.Line, e.Column, e.Message)
	}
	return "turtle: " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }
