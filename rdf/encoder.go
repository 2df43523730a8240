package rdf

import (
	"bufio"
	"errors"
	"io"
)

// ErrIncompleteStatement is returned when a statement lacks a subject,
// predicate or object.
var ErrIncompleteStatement = errors.New("ntriples: missing statement fields")

// Encoder writes statements as N-Triples lines. The graph is not written.
// Output is buffered; call Flush or Close when done.
type Encoder struct {
	writer *bufio.Writer
	line   []byte
	err    error
}

// NewEncoder returns an encoder writing to w. It does not close w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{writer: bufio.NewWriter(w)}
}

// Write emits one statement. After a write error every call returns that
// error.
func (e *Encoder) Write(st Statement) error {
	if e.err != nil {
		return e.err
	}
	if st.Subject.Len() == 0 || st.Predicate.Len() == 0 || st.Object.Len() == 0 {
		return ErrIncompleteStatement
	}
	e.line = appendStatement(e.line[:0], st)
	e.line = append(e.line, '\n')
	if _, err := e.writer.Write(e.line); err != nil {
		e.err = err
		return err
	}
	return nil
}

// Flush writes buffered output to the underlying writer.
func (e *Encoder) Flush() error {
	if e.err != nil {
		return e.err
	}
	if err := e.writer.Flush(); err != nil {
		e.err = err
		return err
	}
	return nil
}

// Close flushes the encoder.
func (e *Encoder) Close() error {
	return e.Flush()
}
